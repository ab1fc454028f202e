package checkpoint

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/openbp/blobstore"
	"github.com/hupe1980/openbp/tree"
)

const (
	checkpointPrefix = "tree-"
	checkpointSuffix = ".obp"
)

// Manager writes sequence-numbered checkpoints ("tree-00000001.obp", ...)
// into a blobstore.Store and loads them back. Sequence numbers restart from
// the highest existing checkpoint, so a resumed run keeps appending.
type Manager struct {
	store blobstore.Store
	opts  Options
	seq   uint64
}

// NewManager creates a manager on the given store. The next sequence number
// is recovered from the store contents.
func NewManager(ctx context.Context, store blobstore.Store, optFns ...func(o *Options)) (*Manager, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	m := &Manager{store: store, opts: opts}

	seqs, err := m.sequences(ctx)
	if err != nil {
		return nil, err
	}
	if len(seqs) > 0 {
		m.seq = seqs[len(seqs)-1]
	}
	return m, nil
}

func name(seq uint64) string {
	return fmt.Sprintf("%s%08d%s", checkpointPrefix, seq, checkpointSuffix)
}

// sequences returns all stored checkpoint sequence numbers, ascending.
func (m *Manager) sequences(ctx context.Context) ([]uint64, error) {
	names, err := m.store.List(ctx, checkpointPrefix)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: list: %w", err)
	}

	seqs := make([]uint64, 0, len(names))
	for _, n := range names {
		trimmed := strings.TrimSuffix(strings.TrimPrefix(n, checkpointPrefix), checkpointSuffix)
		seq, err := strconv.ParseUint(trimmed, 10, 64)
		if err != nil {
			// Foreign blob under our prefix; skip it.
			continue
		}
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })
	return seqs, nil
}

// Save writes the tree as the next checkpoint and returns its sequence
// number.
func (m *Manager) Save(ctx context.Context, t *tree.Tree) (uint64, error) {
	var buf bytes.Buffer
	if err := Write(&buf, t, func(o *Options) { *o = m.opts }); err != nil {
		return 0, err
	}

	seq := m.seq + 1
	if err := m.store.Put(ctx, name(seq), buf.Bytes()); err != nil {
		return 0, fmt.Errorf("checkpoint: store %s: %w", name(seq), err)
	}
	m.seq = seq
	return seq, nil
}

// Load reads the latest checkpoint. Returns blobstore.ErrNotFound if the
// store holds none.
func (m *Manager) Load(ctx context.Context, optFns ...func(o *tree.Options)) (*tree.Tree, error) {
	seqs, err := m.sequences(ctx)
	if err != nil {
		return nil, err
	}
	if len(seqs) == 0 {
		return nil, blobstore.ErrNotFound
	}
	return m.LoadSeq(ctx, seqs[len(seqs)-1], optFns...)
}

// LoadSeq reads the checkpoint with the given sequence number.
func (m *Manager) LoadSeq(ctx context.Context, seq uint64, optFns ...func(o *tree.Options)) (*tree.Tree, error) {
	data, err := blobstore.ReadAll(ctx, m.store, name(seq))
	if err != nil {
		return nil, fmt.Errorf("checkpoint: load %s: %w", name(seq), err)
	}
	return Read(bytes.NewReader(data), optFns...)
}

// Seq returns the sequence number of the last saved checkpoint (0 if none).
func (m *Manager) Seq() uint64 { return m.seq }

// Retain keeps the n most recent checkpoints and deletes the rest,
// concurrently. Returns the number of checkpoints deleted.
func (m *Manager) Retain(ctx context.Context, n int) (int, error) {
	seqs, err := m.sequences(ctx)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n = 0
	}
	if len(seqs) <= n {
		return 0, nil
	}

	stale := seqs[:len(seqs)-n]

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, seq := range stale {
		g.Go(func() error {
			return m.store.Delete(ctx, name(seq))
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("checkpoint: retain: %w", err)
	}
	return len(stale), nil
}
