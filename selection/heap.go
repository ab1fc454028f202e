package selection

import "github.com/hupe1980/openbp/tree"

// lessFunc orders two nodes; true means a should be popped before b.
type lessFunc func(a, b *tree.Node) bool

// nodeHeap is a slice-backed binary heap over node pointers. Value-based
// sift operations avoid the interface dispatch of container/heap on the
// selector hot path.
type nodeHeap struct {
	items []*tree.Node
	less  lessFunc
}

func newNodeHeap(less lessFunc) *nodeHeap {
	return &nodeHeap{less: less}
}

func (h *nodeHeap) Len() int { return len(h.items) }

// Top returns the highest-priority node without removing it.
func (h *nodeHeap) Top() *tree.Node {
	if len(h.items) == 0 {
		return nil
	}
	return h.items[0]
}

// Push inserts a node while maintaining the heap invariant.
func (h *nodeHeap) Push(n *tree.Node) {
	h.items = append(h.items, n)
	h.siftUp(len(h.items) - 1)
}

// Pop removes and returns the highest-priority node.
func (h *nodeHeap) Pop() *tree.Node {
	n := len(h.items)
	if n == 0 {
		return nil
	}
	root := h.items[0]
	last := h.items[n-1]
	h.items[n-1] = nil
	h.items = h.items[:n-1]
	if n-1 > 0 {
		h.items[0] = last
		h.siftDown(0)
	}
	return root
}

// Filter drops every node for which keep returns false and restores the
// heap invariant in one O(n) pass. Returns the number of nodes dropped.
func (h *nodeHeap) Filter(keep func(n *tree.Node) bool) int {
	kept := h.items[:0]
	for _, n := range h.items {
		if keep(n) {
			kept = append(kept, n)
		}
	}
	removed := len(h.items) - len(kept)
	for i := len(kept); i < len(h.items); i++ {
		h.items[i] = nil
	}
	h.items = kept
	if removed > 0 {
		h.heapify()
	}
	return removed
}

// Clear drops all nodes.
func (h *nodeHeap) Clear() {
	for i := range h.items {
		h.items[i] = nil
	}
	h.items = h.items[:0]
}

// IDs returns the ids of all queued nodes in heap (not priority) order.
func (h *nodeHeap) IDs() []tree.NodeID {
	ids := make([]tree.NodeID, len(h.items))
	for i, n := range h.items {
		ids[i] = n.ID()
	}
	return ids
}

func (h *nodeHeap) heapify() {
	for i := len(h.items)/2 - 1; i >= 0; i-- {
		h.siftDown(i)
	}
}

func (h *nodeHeap) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !h.less(h.items[i], h.items[p]) {
			return
		}
		h.items[i], h.items[p] = h.items[p], h.items[i]
		i = p
	}
}

func (h *nodeHeap) siftDown(i int) {
	n := len(h.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && h.less(h.items[r], h.items[l]) {
			best = r
		}
		if !h.less(h.items[best], h.items[i]) {
			return
		}
		h.items[i], h.items[best] = h.items[best], h.items[i]
		i = best
	}
}
