package selection

import "github.com/hupe1980/openbp/tree"

// DepthFirstSelector explores the deepest queued node first, which tends to
// reach integer solutions fastest. Ties on depth are broken by the lower
// bound, keeping the dive bounded in quality.
type DepthFirstSelector struct {
	heap *nodeHeap
}

var _ NodeSelector = (*DepthFirstSelector)(nil)

// NewDepthFirst creates a depth-first selector.
func NewDepthFirst() *DepthFirstSelector {
	return &DepthFirstSelector{
		heap: newNodeHeap(func(a, b *tree.Node) bool {
			if a.Depth() != b.Depth() {
				return a.Depth() > b.Depth()
			}
			if a.LowerBound() != b.LowerBound() {
				return a.LowerBound() < b.LowerBound()
			}
			return a.ID() < b.ID()
		}),
	}
}

// AddNode queues an explorable node.
func (s *DepthFirstSelector) AddNode(n *tree.Node) {
	if n != nil && n.CanBeExplored() {
		s.heap.Push(n)
	}
}

// AddNodes queues multiple nodes.
func (s *DepthFirstSelector) AddNodes(nodes []*tree.Node) { addAll(s, nodes) }

// SelectNext prunes stale entries, then pops the deepest node.
func (s *DepthFirstSelector) SelectNext() *tree.Node {
	s.Prune()
	return s.heap.Pop()
}

// PeekNext returns the deepest node without removing it.
func (s *DepthFirstSelector) PeekNext() *tree.Node { return s.heap.Top() }

// Empty reports whether no nodes are queued.
func (s *DepthFirstSelector) Empty() bool { return s.heap.Len() == 0 }

// Size returns the number of queued nodes.
func (s *DepthFirstSelector) Size() int { return s.heap.Len() }

// Prune drops queued nodes the tree has since made unexplorable.
func (s *DepthFirstSelector) Prune() int {
	return s.heap.Filter((*tree.Node).CanBeExplored)
}

// OnBoundUpdate is a no-op: the ordering key does not depend on the bound.
func (s *DepthFirstSelector) OnBoundUpdate(float64) {}

// BestBound scans all queued nodes in O(n): depth order does not expose the
// bound minimum at the top.
func (s *DepthFirstSelector) BestBound() float64 {
	best := inf
	for _, n := range s.heap.items {
		if n.LowerBound() < best {
			best = n.LowerBound()
		}
	}
	return best
}

// OpenNodeIDs returns the ids of all queued nodes.
func (s *DepthFirstSelector) OpenNodeIDs() []tree.NodeID { return s.heap.IDs() }

// Clear drops all queued nodes.
func (s *DepthFirstSelector) Clear() { s.heap.Clear() }
