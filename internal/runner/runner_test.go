package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifiscout/internal/errors"
)

func TestRun(t *testing.T) {
	r := New()

	t.Run("captures stdout", func(t *testing.T) {
		out, err := r.Run(context.Background(), 5*time.Second, "sh", "-c", "echo hello")
		require.NoError(t, err)
		assert.Equal(t, "hello\n", out)
	})

	t.Run("missing binary maps to tool unavailable", func(t *testing.T) {
		_, err := r.Run(context.Background(), time.Second, "definitely-not-installed-tool")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeToolUnavailable))
	})

	t.Run("non-zero exit maps to tool failed", func(t *testing.T) {
		_, err := r.Run(context.Background(), 5*time.Second, "sh", "-c", "exit 3")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeToolFailed))
	})

	t.Run("exceeded budget maps to timeout", func(t *testing.T) {
		_, err := r.Run(context.Background(), 50*time.Millisecond, "sh", "-c", "sleep 5")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeTimeout))
	})

	t.Run("partial stdout survives a failure", func(t *testing.T) {
		out, err := r.Run(context.Background(), 5*time.Second, "sh", "-c", "echo partial; exit 1")
		require.Error(t, err)
		assert.Equal(t, "partial\n", out)
	})

	t.Run("canceled context is reported as cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.Run(ctx, 5*time.Second, "sh", "-c", "sleep 5")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLookPath(t *testing.T) {
	r := New()
	assert.True(t, r.LookPath("sh"))
	assert.False(t, r.LookPath("definitely-not-installed-tool"))
}
