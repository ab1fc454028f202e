package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/openbp/tree"
)

// selectAll drains the selector, marking each selected node Processing the
// way the driver does between selection and the terminal transition.
func selectAll(s NodeSelector) []tree.NodeID {
	var order []tree.NodeID
	for {
		n := s.SelectNext()
		if n == nil {
			return order
		}
		n.SetStatus(tree.StatusProcessing)
		order = append(order, n.ID())
	}
}

func TestHybridDiveCadence(t *testing.T) {
	tr := tree.New()
	root := tr.Root()
	a := tr.CreateChild(root, tree.VariableBranch(0, 1.0, true)) // id 1, depth 1
	b := tr.CreateChild(root, tree.VariableBranch(1, 1.0, true)) // id 2, depth 1
	c := tr.CreateChild(a, tree.VariableBranch(2, 1.0, true))    // id 3, depth 2
	d := tr.CreateChild(a, tree.VariableBranch(3, 1.0, true))    // id 4, depth 2
	e := tr.CreateChild(c, tree.VariableBranch(4, 1.0, true))    // id 5, depth 3
	a.SetLowerBound(10)
	b.SetLowerBound(20)
	c.SetLowerBound(30)
	d.SetLowerBound(40)
	e.SetLowerBound(50)

	s := NewHybrid(func(o *Options) {
		o.DiveFrequency = 2
		o.DiveDepth = 2
	})
	s.AddNodes([]*tree.Node{a, b, c, d, e})

	// Two best-first selections by bound, then a two-deep dive by depth,
	// then best-first again on what is left.
	order := selectAll(s)
	assert.Equal(t, []tree.NodeID{a.ID(), b.ID(), e.ID(), c.ID(), d.ID()}, order)
}

func TestHybridEmptyDepthHalfEndsDive(t *testing.T) {
	tr := tree.New()
	children := fanOut(t, tr, 10, 20, 30)

	s := NewHybrid(func(o *Options) {
		o.DiveFrequency = 1
		o.DiveDepth = 5
	})
	s.AddNode(children[0])

	first := s.SelectNext()
	require.NotNil(t, first)
	first.SetStatus(tree.StatusProcessing)

	// The dive is due but the depth-first half is drained: selection must
	// fall back to best-first instead of returning nil.
	s.AddNode(children[1])
	s.AddNode(children[2])
	// Consume the depth-first half through dives.
	got := selectAll(s)
	assert.Len(t, got, 2)
	assert.True(t, s.Empty())
}

func TestHybridSelectsEachNodeOnce(t *testing.T) {
	tr := tree.New()
	nodes := chainNodes(t, tr, 8)
	for i, n := range nodes {
		n.SetLowerBound(float64(i))
	}

	s := NewHybrid(func(o *Options) {
		o.DiveFrequency = 2
		o.DiveDepth = 2
	})
	s.AddNodes(nodes)

	order := selectAll(s)
	require.Len(t, order, len(nodes))
	seen := map[tree.NodeID]bool{}
	for _, id := range order {
		assert.False(t, seen[id], "node %d selected twice", id)
		seen[id] = true
	}
}

func TestHybridDelegates(t *testing.T) {
	tr := tree.New()
	children := fanOut(t, tr, 30, 10)

	s := NewHybrid()
	s.AddNodes(children)

	assert.Equal(t, 2, s.Size())
	assert.False(t, s.Empty())
	assert.Equal(t, 10.0, s.BestBound())
	assert.ElementsMatch(t,
		[]tree.NodeID{children[0].ID(), children[1].ID()}, s.OpenNodeIDs())

	tr.MarkProcessed(children[0], tree.StatusPrunedBound)
	assert.Equal(t, 1, s.Prune())
	assert.Equal(t, 1, s.Size())
}

func TestHybridClearResetsDiveState(t *testing.T) {
	tr := tree.New()
	children := fanOut(t, tr, 10, 20, 30)

	s := NewHybrid(func(o *Options) {
		o.DiveFrequency = 1
		o.DiveDepth = 10
	})
	s.AddNodes(children)
	first := s.SelectNext()
	require.NotNil(t, first)
	first.SetStatus(tree.StatusProcessing)

	s.Clear()
	assert.True(t, s.Empty())
	assert.Nil(t, s.SelectNext())
}
