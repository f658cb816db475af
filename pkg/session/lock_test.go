package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/formbind"
	"github.com/aretw0/formbind/pkg/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LockLifecycle(t *testing.T) {
	n := 0
	mgr := NewManager(memory.NewStore(), WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("form-%d", n)
	}))
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		id, err := mgr.Create(ctx, formbind.New(nil))
		require.NoError(t, err)
		require.NoError(t, mgr.Delete(ctx, id))
	}

	assert.Empty(t, mgr.locks, "lock entries must be released once unused")
}
