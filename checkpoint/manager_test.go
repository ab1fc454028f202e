package checkpoint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/openbp/blobstore"
)

func TestManagerSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemory()

	m, err := NewManager(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), m.Seq())

	tr := buildTree(t)
	seq, err := m.Save(ctx, tr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq)
	assert.Equal(t, uint64(1), m.Seq())

	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, tr.NumNodes(), got.NumNodes())
	assert.Equal(t, tr.Stats(), got.Stats())
}

func TestManagerLoadEmpty(t *testing.T) {
	ctx := context.Background()

	m, err := NewManager(ctx, blobstore.NewMemory())
	require.NoError(t, err)

	_, err = m.Load(ctx)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestManagerLoadLatest(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemory()

	m, err := NewManager(ctx, store)
	require.NoError(t, err)

	first := buildTree(t)
	_, err = m.Save(ctx, first)
	require.NoError(t, err)

	second := buildTree(t)
	second.SetGlobalLowerBound(33)
	_, err = m.Save(ctx, second)
	require.NoError(t, err)

	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 33.0, got.GlobalLowerBound())

	// Older checkpoints stay addressable by sequence number.
	old, err := m.LoadSeq(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10.0, old.GlobalLowerBound())
}

func TestManagerResumesSequence(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemory()

	m1, err := NewManager(ctx, store)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = m1.Save(ctx, buildTree(t))
		require.NoError(t, err)
	}

	// A fresh manager on the same store keeps counting upward.
	m2, err := NewManager(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), m2.Seq())

	seq, err := m2.Save(ctx, buildTree(t))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), seq)
}

func TestManagerIgnoresForeignBlobs(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemory()
	require.NoError(t, store.Put(ctx, "tree-notaseq.obp", []byte("junk")))

	m, err := NewManager(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), m.Seq())
}

func TestManagerRetain(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemory()

	m, err := NewManager(ctx, store)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = m.Save(ctx, buildTree(t))
		require.NoError(t, err)
	}

	deleted, err := m.Retain(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	names, err := store.List(ctx, "tree-")
	require.NoError(t, err)
	assert.Equal(t, []string{"tree-00000004.obp", "tree-00000005.obp"}, names)

	// Retaining more than exists is a no-op.
	deleted, err = m.Retain(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}
