package openbp

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/openbp/checkpoint"
	"github.com/hupe1980/openbp/selection"
	"github.com/hupe1980/openbp/tree"
)

// Options configures a Coordinator.
type Options struct {
	// Minimize declares the optimization direction of the underlying tree.
	Minimize bool

	// Strategy names the node-selection policy: "best_first", "depth_first",
	// "best_estimate", or "hybrid". Unknown names fall back to best-first.
	Strategy string

	// SelectorOptions tune the chosen policy.
	SelectorOptions []func(o *selection.Options)

	// ChunkSize is the node pool chunk size.
	ChunkSize int

	// Logger receives progress output. Defaults to a no-op logger.
	Logger *Logger

	// Metrics receives operational metrics. Defaults to NoopMetricsCollector.
	Metrics MetricsCollector

	// Checkpoints, when set, enables periodic tree persistence.
	Checkpoints *checkpoint.Manager

	// CheckpointEvery is the number of finished nodes between automatic
	// checkpoints. Zero disables automatic checkpointing even when a
	// manager is configured.
	CheckpointEvery int

	// ProgressInterval throttles bound-progress log lines. Tight solve
	// loops finish thousands of nodes per second; one line per interval is
	// enough.
	ProgressInterval time.Duration
}

// DefaultOptions are the options used when none are overridden.
var DefaultOptions = Options{
	Minimize:         true,
	Strategy:         "best_first",
	ProgressInterval: 5 * time.Second,
}

// Coordinator drives one tree and one selector through the
// select / solve-externally / branch-or-prune cycle, keeping the two views
// of the open node set consistent: every branching feeds the children to
// the selector, and every bound improvement triggers tree pruning plus a
// selector sweep.
//
// Like the structures it wraps, a Coordinator is single-threaded.
type Coordinator struct {
	opts     Options
	tree     *tree.Tree
	selector selection.NodeSelector

	logger   *Logger
	metrics  MetricsCollector
	progress *rate.Limiter

	finishedSinceCheckpoint int
}

// New creates a Coordinator with a fresh tree holding only the root node.
func New(optFns ...func(o *Options)) *Coordinator {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return newCoordinator(opts, nil)
}

// Resume creates a Coordinator around a restored tree (e.g. from a
// checkpoint) and re-queues its open nodes into the selector.
func Resume(t *tree.Tree, optFns ...func(o *Options)) *Coordinator {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	c := newCoordinator(opts, t)
	for _, id := range c.tree.OpenNodes() {
		c.selector.AddNode(c.tree.Node(id))
	}
	return c
}

func newCoordinator(opts Options, t *tree.Tree) *Coordinator {
	logger := opts.Logger
	if logger == nil {
		logger = NoopLogger()
	}
	logger = logger.WithStrategy(opts.Strategy)

	metrics := opts.Metrics
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}

	fresh := t == nil
	if fresh {
		t = tree.New(func(o *tree.Options) {
			o.Minimize = opts.Minimize
			o.ChunkSize = opts.ChunkSize
			o.Logger = logger.Logger
		})
	}

	interval := opts.ProgressInterval
	if interval <= 0 {
		interval = DefaultOptions.ProgressInterval
	}

	c := &Coordinator{
		opts:     opts,
		tree:     t,
		selector: selection.New(opts.Strategy, opts.SelectorOptions...),
		logger:   logger,
		metrics:  metrics,
		progress: rate.NewLimiter(rate.Every(interval), 1),
	}
	// For a restored tree the root is queued by Resume's open-node sweep if
	// it is still open; queueing it here too would double count it.
	if fresh {
		c.selector.AddNode(t.Root())
	}
	return c
}

// Tree returns the underlying tree.
func (c *Coordinator) Tree() *tree.Tree { return c.tree }

// Selector returns the underlying selector.
func (c *Coordinator) Selector() selection.NodeSelector { return c.selector }

// Expand branches a processed parent into one child per decision and queues
// the children for exploration.
func (c *Coordinator) Expand(parent *tree.Node, decisions []tree.BranchingDecision) ([]*tree.Node, error) {
	if parent == nil {
		return nil, ErrNilNode
	}
	if len(decisions) == 0 {
		return nil, ErrEmptyDecisions
	}

	start := time.Now()
	children := c.tree.CreateChildren(parent, decisions)
	c.selector.AddNodes(children)
	c.metrics.RecordExpand(len(children), time.Since(start))

	c.logger.WithNode(parent.ID()).Debug("branched",
		"children", len(children), "depth", parent.Depth())
	return children, nil
}

// NextNode removes and returns the next node to explore, marking it
// Processing, or nil when no explorable node remains.
func (c *Coordinator) NextNode() *tree.Node {
	start := time.Now()
	n := c.selector.SelectNext()
	c.metrics.RecordSelect(time.Since(start), n != nil)
	if n == nil {
		return nil
	}
	n.SetStatus(tree.StatusProcessing)
	return n
}

// Finish transitions a solved node to its terminal status, folds its result
// into the global bounds, and prunes if the upper bound improved. The
// driver must have populated the node's bound/value/solution fields first.
func (c *Coordinator) Finish(ctx context.Context, node *tree.Node, status tree.NodeStatus) error {
	if node == nil {
		return ErrNilNode
	}

	start := time.Now()
	c.tree.MarkProcessed(node, status)
	c.metrics.RecordFinish(status, time.Since(start))

	if improved := c.tree.UpdateBounds(node); improved {
		c.pruneAfterBoundImprovement()
	}

	c.logProgress()

	c.finishedSinceCheckpoint++
	if c.opts.Checkpoints != nil && c.opts.CheckpointEvery > 0 &&
		c.finishedSinceCheckpoint >= c.opts.CheckpointEvery {
		if err := c.Checkpoint(ctx); err != nil {
			return err
		}
	}
	return nil
}

// AcceptIncumbent records a verified integer-feasible node as the new
// incumbent, updates the global upper bound, and sweeps both views of the
// open set. Returns the number of nodes pruned.
func (c *Coordinator) AcceptIncumbent(node *tree.Node) (int64, error) {
	if node == nil {
		return 0, ErrNilNode
	}

	c.tree.SetIncumbent(node)
	return c.pruneAfterBoundImprovement(), nil
}

// pruneAfterBoundImprovement is the synchronization contract between the
// tree and the selector: the tree prunes against the new bound, the
// selector is notified and swept.
func (c *Coordinator) pruneAfterBoundImprovement() int64 {
	start := time.Now()
	pruned := c.tree.PruneByBound()
	c.selector.OnBoundUpdate(c.tree.GlobalUpperBound())
	c.selector.Prune()
	c.metrics.RecordPrune(pruned, time.Since(start))
	return pruned
}

// RefreshLowerBound recomputes the global lower bound from the open nodes
// currently queued in the selector and stores it on the tree.
func (c *Coordinator) RefreshLowerBound() float64 {
	lb := c.tree.ComputeLowerBound(c.selector.OpenNodeIDs())
	c.tree.SetGlobalLowerBound(lb)
	return lb
}

// BestBound returns the minimum lower bound among queued nodes.
func (c *Coordinator) BestBound() float64 { return c.selector.BestBound() }

// Gap returns the current relative optimality gap.
func (c *Coordinator) Gap() float64 { return c.tree.Gap() }

// IsComplete reports whether the search has no open nodes left.
func (c *Coordinator) IsComplete() bool { return c.tree.IsComplete() }

// Stats returns a snapshot of the tree counters.
func (c *Coordinator) Stats() tree.Stats { return c.tree.Stats() }

// Checkpoint persists the tree now, regardless of CheckpointEvery.
func (c *Coordinator) Checkpoint(ctx context.Context) error {
	if c.opts.Checkpoints == nil {
		return ErrNoCheckpointManager
	}

	start := time.Now()
	seq, err := c.opts.Checkpoints.Save(ctx, c.tree)
	c.metrics.RecordCheckpoint(seq, time.Since(start), err)
	if err != nil {
		c.logger.Error("checkpoint failed", "error", err)
		return err
	}

	c.finishedSinceCheckpoint = 0
	c.logger.Debug("checkpoint saved", "seq", seq,
		"nodes", c.tree.NumNodes())
	return nil
}

// logProgress emits a throttled progress line.
func (c *Coordinator) logProgress() {
	if !c.progress.Allow() {
		return
	}
	stats := c.tree.Stats()
	c.logger.LogAttrs(context.Background(), slog.LevelInfo, "search progress",
		slog.Int64("processed", stats.NodesProcessed),
		slog.Int64("open", stats.NodesOpen),
		slog.Float64("lower_bound", stats.BestLowerBound),
		slog.Float64("upper_bound", stats.BestUpperBound),
		slog.Float64("gap", stats.Gap()),
	)
}
