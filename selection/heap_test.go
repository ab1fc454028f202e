package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/openbp/tree"
)

// chainNodes builds a root-to-leaf chain and returns all nodes, root first.
// Node i has depth i and id i.
func chainNodes(t *testing.T, tr *tree.Tree, n int) []*tree.Node {
	t.Helper()

	nodes := []*tree.Node{tr.Root()}
	for i := 1; i < n; i++ {
		child := tr.CreateChild(nodes[i-1], tree.VariableBranch(int32(i), 1.0, true))
		nodes = append(nodes, child)
	}
	return nodes
}

func TestNodeHeapOrdering(t *testing.T) {
	tr := tree.New()
	nodes := chainNodes(t, tr, 5)
	bounds := []float64{30, 10, 50, 20, 40}
	for i, n := range nodes {
		n.SetLowerBound(bounds[i])
	}

	h := newNodeHeap(func(a, b *tree.Node) bool {
		return a.LowerBound() < b.LowerBound()
	})
	for _, n := range nodes {
		h.Push(n)
	}
	assert.Equal(t, 5, h.Len())
	assert.Equal(t, 10.0, h.Top().LowerBound())

	var popped []float64
	for h.Len() > 0 {
		popped = append(popped, h.Pop().LowerBound())
	}
	assert.Equal(t, []float64{10, 20, 30, 40, 50}, popped)
	assert.Nil(t, h.Pop())
	assert.Nil(t, h.Top())
}

func TestNodeHeapFilter(t *testing.T) {
	tr := tree.New()
	nodes := chainNodes(t, tr, 6)
	for i, n := range nodes {
		n.SetLowerBound(float64(i))
	}

	h := newNodeHeap(func(a, b *tree.Node) bool {
		return a.LowerBound() < b.LowerBound()
	})
	for _, n := range nodes {
		h.Push(n)
	}

	// Drop the even bounds and check the heap invariant survives.
	removed := h.Filter(func(n *tree.Node) bool {
		return int(n.LowerBound())%2 == 1
	})
	assert.Equal(t, 3, removed)
	require.Equal(t, 3, h.Len())

	var popped []float64
	for h.Len() > 0 {
		popped = append(popped, h.Pop().LowerBound())
	}
	assert.Equal(t, []float64{1, 3, 5}, popped)

	assert.Equal(t, 0, h.Filter(func(*tree.Node) bool { return true }))
}

func TestNodeHeapClear(t *testing.T) {
	tr := tree.New()
	h := newNodeHeap(func(a, b *tree.Node) bool {
		return a.LowerBound() < b.LowerBound()
	})
	for _, n := range chainNodes(t, tr, 3) {
		h.Push(n)
	}

	h.Clear()
	assert.Equal(t, 0, h.Len())
	assert.Nil(t, h.Top())
}

func TestNodeHeapIDs(t *testing.T) {
	tr := tree.New()
	h := newNodeHeap(func(a, b *tree.Node) bool {
		return a.ID() < b.ID()
	})
	for _, n := range chainNodes(t, tr, 3) {
		h.Push(n)
	}

	assert.ElementsMatch(t, []tree.NodeID{0, 1, 2}, h.IDs())
}
