package cli_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/formbind/internal/cli"
	"github.com/aretw0/formbind/internal/logging"
	"github.com/aretw0/formbind/internal/testutils"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contact = `
values:
  name: lily
fields:
  - name: name
    required: true
  - name: phone
    required: true
    requiredMessage: phone is required
  - name: age
    type: int
`


func TestParseSet(t *testing.T) {
	tests := []struct {
		in      string
		path    string
		value   any
		wantErr bool
	}{
		{in: "name=lily", path: "name", value: "lily"},
		{in: "age=3", path: "age", value: 3},
		{in: `phone="123"`, path: "phone", value: "123"},
		{in: "ok=true", path: "ok", value: true},
		{in: "tags=[a, b]", path: "tags", value: []any{"a", "b"}},
		{in: "empty=", path: "empty", value: ""},
		{in: "noequals", wantErr: true},
		{in: "=1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			path, v, err := cli.ParseSet(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.path, path)
			assert.Equal(t, tt.value, v)
		})
	}
}

func TestRunValidate(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	err := cli.RunValidate(ctx, &out, testutils.WriteDefinition(t, contact), logging.NewNop())
	assert.ErrorIs(t, err, cli.ErrInvalid)
	assert.Contains(t, out.String(), "1 field(s) invalid")
	assert.Contains(t, out.String(), `"phone": "phone is required"`)

	out.Reset()
	valid := strings.Replace(contact, "name: lily", "name: lily\n  phone: \"123\"", 1)
	require.NoError(t, cli.RunValidate(ctx, &out, testutils.WriteDefinition(t, valid), logging.NewNop()))
	assert.Contains(t, out.String(), "is valid (3 fields)")
}

func TestRunValidate_BadDefinition(t *testing.T) {
	err := cli.RunValidate(context.Background(), io.Discard, testutils.WriteDefinition(t, "fields:\n  - type: int\n"), logging.NewNop())
	require.Error(t, err)
	assert.NotErrorIs(t, err, cli.ErrInvalid)
}

func TestRunSubmit(t *testing.T) {
	ctx := context.Background()
	path := testutils.WriteDefinition(t, contact)

	var out bytes.Buffer
	err := cli.RunSubmit(ctx, &out, path, cli.SubmitOptions{Sets: []string{`phone="123"`, "age=30"}}, logging.NewNop())
	require.NoError(t, err)

	var values map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &values))
	assert.Equal(t, map[string]any{"name": "lily", "phone": "123", "age": float64(30)}, values)

	out.Reset()
	err = cli.RunSubmit(ctx, &out, path, cli.SubmitOptions{Sets: []string{"age=old"}}, logging.NewNop())
	assert.ErrorIs(t, err, cli.ErrInvalid)
	assert.Contains(t, out.String(), "expected int, got string")

	err = cli.RunSubmit(ctx, io.Discard, path, cli.SubmitOptions{Filter: "some"}, logging.NewNop())
	assert.Error(t, err)
}

func TestRunSubmit_FilterAll(t *testing.T) {
	def := contact + "\n" + "  - name: extra\n"
	def = strings.Replace(def, "name: lily", "name: lily\n  phone: \"1\"\n  hidden: yes", 1)
	var out bytes.Buffer
	require.NoError(t, cli.RunSubmit(context.Background(), &out, testutils.WriteDefinition(t, def), cli.SubmitOptions{Filter: "all"}, logging.NewNop()))
	assert.Contains(t, out.String(), `"hidden"`)
}

func TestRunGraph(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cli.RunGraph(context.Background(), &out, testutils.WriteDefinition(t, contact), logging.NewNop()))
	assert.True(t, strings.HasPrefix(out.String(), "graph TD\n"))
	assert.Contains(t, out.String(), `[/"phone"/]`)
}

func TestNewServeHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := cli.NewServeHandler(logging.NewNop(), reg, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/forms", strings.NewReader(`{"fields":[{"name":"a","required":true}]}`)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct{ ID string }
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/forms/"+created.ID+"/submit", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `formbind_submits_total{result="invalid"} 1`)
}

func TestNewLogger(t *testing.T) {
	_, err := cli.NewLogger("debug")
	assert.NoError(t, err)
	_, err = cli.NewLogger("loud")
	assert.Error(t, err)
}
