package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var got map[string]int
	hit, err := m.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, got["a"])
}

func TestMemory_MissAndExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var got string
	hit, err := m.GetJSON(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, m.SetJSON(ctx, "k", "v", time.Minute))
	m.nowFunc = func() time.Time { return time.Now().Add(2 * time.Minute) }

	hit, err = m.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemory_Delete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SetJSON(ctx, "k", "v", 0))
	require.NoError(t, m.Delete(ctx, "k"))

	var got string
	hit, _ := m.GetJSON(ctx, "k", &got)
	assert.False(t, hit)
}
