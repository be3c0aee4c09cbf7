package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	require.NoError(t, ms.EnsureInitialized(ctx))

	_, err := ms.Get(ctx, "+919876543210")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, ms.Put(ctx, "+919876543210", sampleRecord()))
	got, err := ms.Get(ctx, "+919876543210")
	require.NoError(t, err)
	assert.Equal(t, sampleRecord(), got)

	require.NoError(t, ms.Delete(ctx, "+919876543210"))
	assert.ErrorIs(t, ms.Delete(ctx, "+919876543210"), ErrNotFound)
}

func TestMemoryStoreSnapshotLayout(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	require.NoError(t, ms.Put(ctx, "+919876543210", sampleRecord()))

	snapshot, err := ms.Snapshot(ctx)
	require.NoError(t, err)

	var raw map[string]map[string]string
	require.NoError(t, json.Unmarshal(snapshot, &raw))
	for _, key := range []string{"Name", "Father", "Village", "State", "Country"} {
		assert.Contains(t, raw["+919876543210"], key)
	}
	assert.Contains(t, string(snapshot), "\n    \"")
}
