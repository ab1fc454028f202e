package selection

import (
	"math"

	"github.com/hupe1980/openbp/tree"
)

// NodeSelector decides the exploration order of open branch-and-price nodes.
//
// The tree and the selector are two views over the same nodes, kept
// consistent by the driver: nodes enter the selector via AddNode(s) after
// creation, and selectors discard nodes the tree has since pruned the next
// time they are touched (lazy pruning).
type NodeSelector interface {
	// AddNode queues a node for exploration. Nodes that are no longer
	// explorable are ignored.
	AddNode(n *tree.Node)

	// AddNodes queues multiple nodes.
	AddNodes(nodes []*tree.Node)

	// SelectNext removes and returns the next node to explore, or nil if no
	// explorable node remains.
	SelectNext() *tree.Node

	// PeekNext returns the next node without removing it, or nil.
	PeekNext() *tree.Node

	// Empty reports whether the selector holds no nodes.
	Empty() bool

	// Size returns the number of queued nodes, including entries that have
	// gone stale since they were queued.
	Size() int

	// Prune drops queued nodes that are no longer explorable and returns
	// how many were dropped.
	Prune() int

	// OnBoundUpdate notifies the selector of a new global upper bound.
	// Policies whose ranking does not depend on the bound ignore it.
	OnBoundUpdate(newBound float64)

	// BestBound returns the minimum lower bound among queued nodes, or +Inf
	// if the selector is empty.
	BestBound() float64

	// OpenNodeIDs returns the ids of all queued nodes.
	OpenNodeIDs() []tree.NodeID

	// Clear drops all queued nodes and resets policy state.
	Clear()
}

// Options configures the selectors produced by New.
type Options struct {
	// EstimateWeight is the depth-bias weight of the best-estimate policy.
	EstimateWeight float64

	// DiveFrequency is how many best-first selections the hybrid policy
	// makes between dives.
	DiveFrequency int

	// DiveDepth is how many consecutive depth-first selections one hybrid
	// dive lasts.
	DiveDepth int
}

// DefaultOptions are the options used when none are overridden.
var DefaultOptions = Options{
	EstimateWeight: 0.5,
	DiveFrequency:  5,
	DiveDepth:      10,
}

// New creates a selector by strategy name: "best_first", "depth_first",
// "best_estimate", or "hybrid" (CamelCase aliases accepted). An unrecognized
// name falls back to best-first.
func New(name string, optFns ...func(o *Options)) NodeSelector {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	switch name {
	case "depth_first", "DepthFirst":
		return NewDepthFirst()
	case "best_estimate", "BestEstimate":
		return newBestEstimate(opts)
	case "hybrid", "Hybrid":
		return newHybrid(opts)
	case "best_first", "BestFirst":
		return NewBestFirst()
	default:
		return NewBestFirst()
	}
}

// addable lets AddNodes share the nil/explorable filtering fold.
func addAll(s NodeSelector, nodes []*tree.Node) {
	for _, n := range nodes {
		s.AddNode(n)
	}
}

var inf = math.Inf(1)
