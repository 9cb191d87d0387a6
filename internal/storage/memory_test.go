package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryWithClock(func() time.Time { return now })

	require.NoError(t, store.Set(ctx, "quizState", "{}", 0))
	require.NoError(t, store.Set(ctx, "access_token", "dG9r", time.Hour))

	val, err := store.Get(ctx, "quizState")
	require.NoError(t, err)
	assert.Equal(t, "{}", val)

	now = now.Add(2 * time.Hour)
	_, err = store.Get(ctx, "access_token")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ElementsMatch(t, []string{"quizState"}, store.Keys())

	require.NoError(t, store.Delete(ctx, "quizState", "missing"))
	_, err = store.Get(ctx, "quizState")
	assert.ErrorIs(t, err, ErrNotFound)
}
