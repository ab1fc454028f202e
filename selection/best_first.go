package selection

import "github.com/hupe1980/openbp/tree"

// BestFirstSelector always explores the queued node with the lowest lower
// bound. This minimizes the number of nodes explored but can delay finding
// integer solutions.
type BestFirstSelector struct {
	heap *nodeHeap
}

var _ NodeSelector = (*BestFirstSelector)(nil)

// NewBestFirst creates a best-first selector.
func NewBestFirst() *BestFirstSelector {
	return &BestFirstSelector{
		heap: newNodeHeap(func(a, b *tree.Node) bool {
			if a.LowerBound() != b.LowerBound() {
				return a.LowerBound() < b.LowerBound()
			}
			return a.ID() < b.ID()
		}),
	}
}

// AddNode queues an explorable node.
func (s *BestFirstSelector) AddNode(n *tree.Node) {
	if n != nil && n.CanBeExplored() {
		s.heap.Push(n)
	}
}

// AddNodes queues multiple nodes.
func (s *BestFirstSelector) AddNodes(nodes []*tree.Node) { addAll(s, nodes) }

// SelectNext prunes stale entries, then pops the node with the lowest bound.
func (s *BestFirstSelector) SelectNext() *tree.Node {
	s.Prune()
	return s.heap.Pop()
}

// PeekNext returns the node with the lowest bound without removing it.
func (s *BestFirstSelector) PeekNext() *tree.Node { return s.heap.Top() }

// Empty reports whether no nodes are queued.
func (s *BestFirstSelector) Empty() bool { return s.heap.Len() == 0 }

// Size returns the number of queued nodes.
func (s *BestFirstSelector) Size() int { return s.heap.Len() }

// Prune drops queued nodes the tree has since made unexplorable.
func (s *BestFirstSelector) Prune() int {
	return s.heap.Filter((*tree.Node).CanBeExplored)
}

// OnBoundUpdate is a no-op: the ordering key does not depend on the bound.
func (s *BestFirstSelector) OnBoundUpdate(float64) {}

// BestBound returns the lower bound of the top node, or +Inf if empty.
func (s *BestFirstSelector) BestBound() float64 {
	if top := s.heap.Top(); top != nil {
		return top.LowerBound()
	}
	return inf
}

// OpenNodeIDs returns the ids of all queued nodes.
func (s *BestFirstSelector) OpenNodeIDs() []tree.NodeID { return s.heap.IDs() }

// Clear drops all queued nodes.
func (s *BestFirstSelector) Clear() { s.heap.Clear() }
