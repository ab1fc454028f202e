package openbp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/openbp/blobstore"
	"github.com/hupe1980/openbp/checkpoint"
	"github.com/hupe1980/openbp/selection"
	"github.com/hupe1980/openbp/tree"
)

func TestCoordinatorSolveCycle(t *testing.T) {
	ctx := context.Background()
	c := New()

	// The root is queued at construction.
	root := c.NextNode()
	require.NotNil(t, root)
	assert.Equal(t, tree.NodeID(0), root.ID())
	assert.Equal(t, tree.StatusProcessing, root.Status())

	// Relaxation solved: fractional, branch on it.
	root.SetLowerBound(10)
	root.SetLPValue(10.3)
	children, err := c.Expand(root, []tree.BranchingDecision{
		tree.VariableBranch(0, 10.0, true),
		tree.VariableBranch(0, 11.0, false),
	})
	require.NoError(t, err)
	require.Len(t, children, 2)
	require.NoError(t, c.Finish(ctx, root, tree.StatusBranched))

	// First child comes back integer feasible at 42.
	n1 := c.NextNode()
	require.NotNil(t, n1)
	n1.SetLowerBound(42)
	n1.SetLPValue(42)
	n1.SetInteger(true)
	require.NoError(t, c.Finish(ctx, n1, tree.StatusInteger))

	pruned, err := c.AcceptIncumbent(n1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pruned)
	assert.Equal(t, 42.0, c.Tree().GlobalUpperBound())

	// Second child's bound is dominated by the incumbent.
	n2 := c.NextNode()
	require.NotNil(t, n2)
	n2.SetLowerBound(50)
	require.NoError(t, c.Finish(ctx, n2, tree.StatusPrunedBound))

	assert.Nil(t, c.NextNode())
	assert.True(t, c.IsComplete())

	c.RefreshLowerBound()
	assert.Equal(t, 42.0, c.Tree().GlobalLowerBound())
	assert.Equal(t, 0.0, c.Gap())

	stats := c.Stats()
	assert.Equal(t, int64(3), stats.NodesCreated)
	assert.Equal(t, int64(1), stats.NodesBranched)
	assert.Equal(t, int64(1), stats.NodesInteger)
	assert.Equal(t, int64(0), stats.NodesOpen)
}

func TestCoordinatorBoundImprovementPrunes(t *testing.T) {
	ctx := context.Background()
	c := New()

	root := c.NextNode()
	require.NotNil(t, root)
	root.SetLowerBound(10)
	children, err := c.Expand(root, []tree.BranchingDecision{
		tree.VariableBranch(0, 1.0, true),
		tree.VariableBranch(0, 2.0, false),
		tree.VariableBranch(1, 1.0, true),
	})
	require.NoError(t, err)
	children[0].SetLowerBound(100)
	children[1].SetLowerBound(50)
	children[2].SetLowerBound(40)

	// The cheapest child comes back integer at 75, dominating the first.
	integer := c.NextNode()
	require.NotNil(t, integer)
	require.Equal(t, children[2].ID(), integer.ID())
	integer.SetLowerBound(75)
	integer.SetLPValue(75)
	integer.SetInteger(true)
	require.NoError(t, c.Finish(ctx, integer, tree.StatusInteger))

	assert.Equal(t, 75.0, c.Tree().GlobalUpperBound())
	assert.Equal(t, tree.StatusPrunedBound, children[0].Status())
	assert.Equal(t, tree.StatusPending, children[1].Status())
}

func TestCoordinatorExpandErrors(t *testing.T) {
	c := New()

	_, err := c.Expand(nil, []tree.BranchingDecision{tree.VariableBranch(0, 1, true)})
	assert.ErrorIs(t, err, ErrNilNode)

	_, err = c.Expand(c.Tree().Root(), nil)
	assert.ErrorIs(t, err, ErrEmptyDecisions)
	assert.Equal(t, tree.StatusPending, c.Tree().Root().Status())
}

func TestCoordinatorFinishNilNode(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Finish(context.Background(), nil, tree.StatusFathomed), ErrNilNode)

	_, err := c.AcceptIncumbent(nil)
	assert.ErrorIs(t, err, ErrNilNode)
}

func TestCoordinatorCheckpointWithoutManager(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Checkpoint(context.Background()), ErrNoCheckpointManager)
}

func TestCoordinatorAutoCheckpoint(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemory()
	mgr, err := checkpoint.NewManager(ctx, store)
	require.NoError(t, err)

	c := New(func(o *Options) {
		o.Checkpoints = mgr
		o.CheckpointEvery = 2
	})

	root := c.NextNode()
	require.NotNil(t, root)
	_, err = c.Expand(root, []tree.BranchingDecision{
		tree.VariableBranch(0, 1.0, true),
		tree.VariableBranch(0, 2.0, false),
	})
	require.NoError(t, err)
	require.NoError(t, c.Finish(ctx, root, tree.StatusBranched))
	assert.Equal(t, uint64(0), mgr.Seq())

	n := c.NextNode()
	require.NotNil(t, n)
	require.NoError(t, c.Finish(ctx, n, tree.StatusPrunedInfeasible))
	assert.Equal(t, uint64(1), mgr.Seq())
}

func TestCoordinatorResume(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemory()
	mgr, err := checkpoint.NewManager(ctx, store)
	require.NoError(t, err)

	// Run a few steps, checkpoint, and drop the coordinator.
	c := New(func(o *Options) { o.Checkpoints = mgr })
	root := c.NextNode()
	require.NotNil(t, root)
	root.SetLowerBound(10)
	_, err = c.Expand(root, []tree.BranchingDecision{
		tree.VariableBranch(0, 1.0, true),
		tree.VariableBranch(0, 2.0, false),
	})
	require.NoError(t, err)
	require.NoError(t, c.Finish(ctx, root, tree.StatusBranched))
	require.NoError(t, c.Checkpoint(ctx))

	restored, err := mgr.Load(ctx)
	require.NoError(t, err)

	r := Resume(restored)
	assert.Equal(t, 3, r.Tree().NumNodes())
	assert.False(t, r.IsComplete())

	// Both surviving children are explorable again.
	first := r.NextNode()
	second := r.NextNode()
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Nil(t, r.NextNode())
}

func TestCoordinatorResumePendingRootQueuedOnce(t *testing.T) {
	// A restored tree whose root was never processed must be queued exactly
	// once, not once per construction path.
	r := Resume(tree.New())
	assert.Equal(t, 1, r.Selector().Size())

	root := r.NextNode()
	require.NotNil(t, root)
	assert.Equal(t, tree.NodeID(0), root.ID())
	assert.Nil(t, r.NextNode())
}

func TestCoordinatorStrategyOption(t *testing.T) {
	c := New(func(o *Options) {
		o.Strategy = "depth_first"
	})
	assert.IsType(t, &selection.DepthFirstSelector{}, c.Selector())

	c = New(func(o *Options) {
		o.Strategy = "hybrid"
		o.SelectorOptions = []func(o *selection.Options){
			func(o *selection.Options) { o.DiveFrequency = 3 },
		}
	})
	assert.IsType(t, &selection.HybridSelector{}, c.Selector())
}

func TestCoordinatorMetrics(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}
	c := New(func(o *Options) { o.Metrics = metrics })

	root := c.NextNode()
	require.NotNil(t, root)
	_, err := c.Expand(root, []tree.BranchingDecision{
		tree.VariableBranch(0, 1.0, true),
		tree.VariableBranch(0, 2.0, false),
	})
	require.NoError(t, err)
	require.NoError(t, c.Finish(ctx, root, tree.StatusBranched))

	for {
		n := c.NextNode()
		if n == nil {
			break
		}
		require.NoError(t, c.Finish(ctx, n, tree.StatusPrunedInfeasible))
	}

	assert.Equal(t, int64(1), metrics.ExpandCount.Load())
	assert.Equal(t, int64(2), metrics.ChildrenCreated.Load())
	assert.Equal(t, int64(4), metrics.SelectCount.Load())
	assert.Equal(t, int64(1), metrics.SelectMisses.Load())
	assert.Equal(t, int64(3), metrics.FinishCount.Load())
}
