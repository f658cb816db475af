package redact_test

import (
	"testing"

	"github.com/aretw0/formbind/internal/redact"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactor_Tree(t *testing.T) {
	r, err := redact.New("(?i)password", "^ssn$")
	require.NoError(t, err)

	in := map[string]any{
		"name":     "lily",
		"Password": "hunter2",
		"people": []any{
			map[string]any{"ssn": "123", "ssnLike": "keep"},
		},
	}
	want := map[string]any{
		"name":     "lily",
		"Password": redact.Mask,
		"people": []any{
			map[string]any{"ssn": redact.Mask, "ssnLike": "keep"},
		},
	}

	got := r.Tree(in)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("redacted tree mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "hunter2", in["Password"], "input must not be modified")
}

func TestRedactor_Disabled(t *testing.T) {
	var nilRedactor *redact.Redactor
	assert.False(t, nilRedactor.Enabled())

	in := map[string]any{"password": "x"}
	assert.Equal(t, in, nilRedactor.Tree(in))

	_, err := redact.New("(")
	assert.Error(t, err)
}
