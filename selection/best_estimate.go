package selection

import (
	"math"

	"github.com/hupe1980/openbp/tree"
)

// BestEstimateSelector ranks nodes by an estimate of the integer objective
// reachable below them, blending the lower bound with depth progress.
//
// The ranking key depends on the current global upper bound, which changes
// externally via OnBoundUpdate. A heap would need re-keying on every bound
// change, so this policy keeps a flat slice and scans it linearly on every
// SelectNext/PeekNext instead.
type BestEstimateSelector struct {
	nodes            []*tree.Node
	weight           float64
	globalUpperBound float64
	maxDepth         int64
}

var _ NodeSelector = (*BestEstimateSelector)(nil)

// NewBestEstimate creates a best-estimate selector.
func NewBestEstimate(optFns ...func(o *Options)) *BestEstimateSelector {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return newBestEstimate(opts)
}

func newBestEstimate(opts Options) *BestEstimateSelector {
	return &BestEstimateSelector{
		weight:           opts.EstimateWeight,
		globalUpperBound: inf,
		maxDepth:         1,
	}
}

// estimate computes the ranking key. Without an incumbent it is a pure
// diving bias (deeper ranks better); with one, shallow high-gap nodes are
// penalized less than their raw bound would suggest.
func (s *BestEstimateSelector) estimate(n *tree.Node) float64 {
	lb := n.LowerBound()

	if math.IsInf(s.globalUpperBound, 1) {
		return lb - s.weight*float64(n.Depth())
	}

	depthRatio := float64(n.Depth()) / float64(max(int64(1), s.maxDepth))
	gap := s.globalUpperBound - lb
	return lb + s.weight*(1-depthRatio)*gap
}

// AddNode queues an explorable node. The deepest depth seen so far is
// tracked and never decreases.
func (s *BestEstimateSelector) AddNode(n *tree.Node) {
	if n != nil && n.CanBeExplored() {
		s.nodes = append(s.nodes, n)
		if int64(n.Depth()) > s.maxDepth {
			s.maxDepth = int64(n.Depth())
		}
	}
}

// AddNodes queues multiple nodes.
func (s *BestEstimateSelector) AddNodes(nodes []*tree.Node) { addAll(s, nodes) }

// bestIndex returns the index of the node with the minimum estimate, ties
// broken by id, or -1 if empty.
func (s *BestEstimateSelector) bestIndex() int {
	best := -1
	bestEst := inf
	for i, n := range s.nodes {
		est := s.estimate(n)
		if best == -1 || est < bestEst || (est == bestEst && n.ID() < s.nodes[best].ID()) {
			best = i
			bestEst = est
		}
	}
	return best
}

// SelectNext prunes stale entries, then removes and returns the node with
// the best estimate.
func (s *BestEstimateSelector) SelectNext() *tree.Node {
	s.Prune()
	i := s.bestIndex()
	if i < 0 {
		return nil
	}
	n := s.nodes[i]
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
	return n
}

// PeekNext returns the node with the best estimate without removing it.
func (s *BestEstimateSelector) PeekNext() *tree.Node {
	i := s.bestIndex()
	if i < 0 {
		return nil
	}
	return s.nodes[i]
}

// Empty reports whether no nodes are queued.
func (s *BestEstimateSelector) Empty() bool { return len(s.nodes) == 0 }

// Size returns the number of queued nodes.
func (s *BestEstimateSelector) Size() int { return len(s.nodes) }

// Prune drops queued nodes the tree has since made unexplorable.
func (s *BestEstimateSelector) Prune() int {
	kept := s.nodes[:0]
	for _, n := range s.nodes {
		if n.CanBeExplored() {
			kept = append(kept, n)
		}
	}
	removed := len(s.nodes) - len(kept)
	for i := len(kept); i < len(s.nodes); i++ {
		s.nodes[i] = nil
	}
	s.nodes = kept
	return removed
}

// OnBoundUpdate records the new global upper bound used by the estimate.
func (s *BestEstimateSelector) OnBoundUpdate(newBound float64) {
	s.globalUpperBound = newBound
}

// BestBound scans all queued nodes for the minimum lower bound.
func (s *BestEstimateSelector) BestBound() float64 {
	best := inf
	for _, n := range s.nodes {
		if n.LowerBound() < best {
			best = n.LowerBound()
		}
	}
	return best
}

// OpenNodeIDs returns the ids of all queued nodes.
func (s *BestEstimateSelector) OpenNodeIDs() []tree.NodeID {
	ids := make([]tree.NodeID, len(s.nodes))
	for i, n := range s.nodes {
		ids[i] = n.ID()
	}
	return ids
}

// Clear drops all queued nodes. The max depth seen and the bound are kept:
// both describe the run, not the queue contents.
func (s *BestEstimateSelector) Clear() {
	for i := range s.nodes {
		s.nodes[i] = nil
	}
	s.nodes = s.nodes[:0]
}
