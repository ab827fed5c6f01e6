package overrides

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/plotpilot/api/internal/kvstore"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
)

// failingKV wraps a memory store and fails writes on demand.
type failingKV struct {
	*kvstore.Memory
	failSet    bool
	failRemove bool
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("quota exceeded")
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *failingKV) Remove(ctx context.Context, key string) error {
	if f.failRemove {
		return errors.New("read only")
	}
	return f.Memory.Remove(ctx, key)
}

func TestLoad_Empty(t *testing.T) {
	s := NewStore(kvstore.NewMemory())

	patches, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, patches)
}

func TestMerge_Accumulates(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kvstore.NewMemory())

	require.NoError(t, s.Merge(ctx, 42, models.Properties{"status": "Reserved"}))
	require.NoError(t, s.Merge(ctx, 42, models.Properties{"F_NAME": "Ann"}))
	require.NoError(t, s.Merge(ctx, 7, models.Properties{"status": "Occupied"}))

	patches, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Properties{"status": "Reserved", "F_NAME": "Ann"}, patches.For(42))
	assert.Equal(t, models.Properties{"status": "Occupied"}, patches.For(7))
	assert.Nil(t, patches.For(1))
}

func TestMerge_LaterValueWins(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kvstore.NewMemory())

	require.NoError(t, s.Merge(ctx, 3, models.Properties{"status": "Reserved"}))
	require.NoError(t, s.Merge(ctx, 3, models.Properties{"status": "Available"}))

	patches, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Available", patches.For(3)["status"])
}

func TestLoad_Malformed(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set(ctx, StorageKey, "{not json"))
	s := NewStore(kv)

	patches, err := s.Load(ctx)
	assert.Empty(t, patches)
	var malformed *MalformedOverrideError
	require.ErrorAs(t, err, &malformed)

	// a later write replaces the bad value
	require.NoError(t, s.Merge(ctx, 1, models.Properties{"status": "Reserved"}))
	patches, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, patches, 1)
}

func TestLoad_NullEntriesDropped(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set(ctx, StorageKey, `{"1":null,"2":{"status":"Reserved"}}`))

	patches, err := NewStore(kv).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, patches, 1)
	assert.NotNil(t, patches.For(2))
}

func TestMerge_PersistenceError(t *testing.T) {
	kv := &failingKV{Memory: kvstore.NewMemory(), failSet: true}
	s := NewStore(kv)

	err := s.Merge(context.Background(), 1, models.Properties{"status": "Reserved"})
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StorageKey, perr.Key)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kvstore.NewMemory())
	require.NoError(t, s.Merge(ctx, 1, models.Properties{"status": "Reserved"}))

	require.NoError(t, s.Clear(ctx))

	patches, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, patches)
}

func TestClear_PersistenceError(t *testing.T) {
	s := NewStore(&failingKV{Memory: kvstore.NewMemory(), failRemove: true})

	var perr *PersistenceError
	assert.ErrorAs(t, s.Clear(context.Background()), &perr)
}
