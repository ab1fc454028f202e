package tree

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSerializableTree(t *testing.T) *Tree {
	t.Helper()

	tr := New()
	root := tr.Root()
	root.SetLowerBound(10)
	root.SetLPValue(10.5)

	children := tr.CreateChildren(root, []BranchingDecision{
		VariableBranch(3, 1.5, true),
		RyanFosterBranch(2, 7, false),
	})
	tr.MarkProcessed(root, StatusBranched)

	children[0].SetLowerBound(12)
	children[0].SetLPValue(42)
	children[0].SetInteger(true)
	children[0].SetSolution([]float64{1, 0.5})
	children[0].SetSolutionColumns([]int32{0, 3})
	tr.MarkProcessed(children[0], StatusInteger)
	tr.SetIncumbent(children[0])

	grandchild := tr.CreateChild(children[1], CustomBranch([]int32{9}, []float64{0.25}))
	grandchild.SetLowerBound(15)

	tr.SetGlobalLowerBound(12)
	return tr
}

func TestTreeBinaryRoundTrip(t *testing.T) {
	tr := buildSerializableTree(t)

	var buf bytes.Buffer
	require.NoError(t, tr.WriteBinary(&buf))

	got, err := ReadBinary(&buf)
	require.NoError(t, err)

	assert.Equal(t, tr.NumNodes(), got.NumNodes())
	assert.Equal(t, tr.GlobalLowerBound(), got.GlobalLowerBound())
	assert.Equal(t, tr.GlobalUpperBound(), got.GlobalUpperBound())
	assert.Equal(t, tr.IsMinimizing(), got.IsMinimizing())
	assert.Equal(t, tr.Stats(), got.Stats())
	assert.Equal(t, tr.OpenNodes(), got.OpenNodes())

	require.NotNil(t, got.Incumbent())
	assert.Equal(t, tr.Incumbent().ID(), got.Incumbent().ID())

	root := got.Root()
	require.NotNil(t, root)
	assert.Equal(t, NodeID(0), root.ID())
	assert.Equal(t, StatusBranched, root.Status())
	assert.Equal(t, []NodeID{1, 2}, root.Children())

	winner := got.Node(1)
	require.NotNil(t, winner)
	assert.Equal(t, StatusInteger, winner.Status())
	assert.True(t, winner.IsInteger())
	assert.Equal(t, []float64{1, 0.5}, winner.Solution())
	assert.Equal(t, []int32{0, 3}, winner.SolutionColumns())
	require.Len(t, winner.LocalDecisions(), 1)
	assert.Equal(t, VariableBranch(3, 1.5, true), winner.LocalDecisions()[0])

	gc := got.Node(3)
	require.NotNil(t, gc)
	assert.Equal(t, NodeID(2), gc.ParentID())
	assert.Equal(t, int32(2), gc.Depth())
	require.Len(t, gc.LocalDecisions(), 1)
	assert.Equal(t, []int32{9}, gc.LocalDecisions()[0].CustomIntData)
	assert.Equal(t, []float64{0.25}, gc.LocalDecisions()[0].CustomFloatData)
	require.Len(t, gc.InheritedDecisions(), 1)
	assert.Equal(t, BranchRyanFoster, gc.InheritedDecisions()[0].Type)

	// Ids keep advancing from the serialized high-water mark.
	next := got.CreateChild(gc, VariableBranch(0, 1, true))
	assert.Equal(t, NodeID(4), next.ID())
}

func TestTreeBinaryRoundTripSerializedDirectionWins(t *testing.T) {
	tr := New(func(o *Options) { o.Minimize = false })

	var buf bytes.Buffer
	require.NoError(t, tr.WriteBinary(&buf))

	got, err := ReadBinary(&buf, func(o *Options) { o.Minimize = true })
	require.NoError(t, err)
	assert.False(t, got.IsMinimizing())
}

func TestReadBinaryTruncated(t *testing.T) {
	tr := buildSerializableTree(t)

	var buf bytes.Buffer
	require.NoError(t, tr.WriteBinary(&buf))

	data := buf.Bytes()
	for _, cut := range []int{0, 4, 30, len(data) / 2, len(data) - 3} {
		_, err := ReadBinary(bytes.NewReader(data[:cut]))
		assert.Error(t, err, "cut=%d", cut)
	}
}
