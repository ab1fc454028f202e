package tree

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Binary tree layout (little-endian), wrapped by the checkpoint envelope:
//
//	meta:  minimize u8 | nextID i64 | globalLB f64 | globalUB f64 |
//	       incumbentID i64 | stats (8 x i64) | nodeCount u64
//	node:  id i64 | parent i64 | depth i32 | lb f64 | ub f64 | lp f64 |
//	       status u8 | integer u8 | local decisions | inherited decisions |
//	       children | solution | solution columns
//
// Decisions and slices are length-prefixed with u32 counts.

type binaryWriter struct {
	w   io.Writer
	err error
}

func (bw *binaryWriter) write(v any) {
	if bw.err != nil {
		return
	}
	bw.err = binary.Write(bw.w, binary.LittleEndian, v)
}

func (bw *binaryWriter) writeBool(b bool) {
	var v uint8
	if b {
		v = 1
	}
	bw.write(v)
}

func (bw *binaryWriter) writeDecisions(ds []BranchingDecision) {
	bw.write(uint32(len(ds)))
	for i := range ds {
		bw.writeDecision(&ds[i])
	}
}

func (bw *binaryWriter) writeDecision(d *BranchingDecision) {
	bw.write(uint8(d.Type))
	bw.write(d.VariableIndex)
	bw.write(d.BoundValue)
	bw.writeBool(d.IsUpperBound)
	bw.write(d.ItemI)
	bw.write(d.ItemJ)
	bw.writeBool(d.SameColumn)
	bw.write(d.ArcIndex)
	bw.write(d.SourceNode)
	bw.writeBool(d.ArcRequired)
	bw.write(d.ResourceIndex)
	bw.write(d.LowerBound)
	bw.write(d.UpperBound)
	bw.write(uint32(len(d.CustomIntData)))
	if len(d.CustomIntData) > 0 {
		bw.write(d.CustomIntData)
	}
	bw.write(uint32(len(d.CustomFloatData)))
	if len(d.CustomFloatData) > 0 {
		bw.write(d.CustomFloatData)
	}
}

// WriteBinary serializes the whole tree, nodes in ascending id order.
func (t *Tree) WriteBinary(w io.Writer) error {
	bw := &binaryWriter{w: w}

	bw.writeBool(t.opts.Minimize)
	bw.write(int64(t.nextID))
	bw.write(t.globalLowerBound)
	bw.write(t.globalUpperBound)

	incumbentID := InvalidNodeID
	if t.incumbent != nil {
		incumbentID = t.incumbent.id
	}
	bw.write(int64(incumbentID))

	bw.write(t.stats.NodesCreated)
	bw.write(t.stats.NodesProcessed)
	bw.write(t.stats.NodesPrunedBound)
	bw.write(t.stats.NodesPrunedInfeasible)
	bw.write(t.stats.NodesInteger)
	bw.write(t.stats.NodesBranched)
	bw.write(t.stats.NodesOpen)
	bw.write(t.stats.MaxDepth)

	bw.write(uint64(len(t.nodes)))

	// Ids are assigned densely from 0, so iterating the assigned range gives
	// ascending id order without sorting the map keys.
	for id := NodeID(0); id < t.nextID; id++ {
		n, ok := t.nodes[id]
		if !ok {
			continue
		}
		bw.write(int64(n.id))
		bw.write(int64(n.parentID))
		bw.write(n.depth)
		bw.write(n.lowerBound)
		bw.write(n.upperBound)
		bw.write(n.lpValue)
		bw.write(uint8(n.status))
		bw.writeBool(n.isInteger)
		bw.writeDecisions(n.localDecisions)
		bw.writeDecisions(n.inheritedDecisions)

		bw.write(uint32(len(n.children)))
		for _, c := range n.children {
			bw.write(int64(c))
		}

		bw.write(uint32(len(n.solution)))
		if len(n.solution) > 0 {
			bw.write(n.solution)
		}
		bw.write(uint32(len(n.solutionColumns)))
		if len(n.solutionColumns) > 0 {
			bw.write(n.solutionColumns)
		}
	}

	return bw.err
}

type binaryReader struct {
	r   io.Reader
	err error
}

func (br *binaryReader) read(v any) {
	if br.err != nil {
		return
	}
	br.err = binary.Read(br.r, binary.LittleEndian, v)
}

func (br *binaryReader) readBool() bool {
	var v uint8
	br.read(&v)
	return v != 0
}

func (br *binaryReader) readInt64() int64 {
	var v int64
	br.read(&v)
	return v
}

func (br *binaryReader) readFloat64() float64 {
	var v float64
	br.read(&v)
	return v
}

func (br *binaryReader) readCount() uint32 {
	var v uint32
	br.read(&v)
	return v
}

func (br *binaryReader) readDecisions() []BranchingDecision {
	count := br.readCount()
	if br.err != nil || count == 0 {
		return nil
	}
	ds := make([]BranchingDecision, count)
	for i := range ds {
		br.readDecision(&ds[i])
	}
	return ds
}

func (br *binaryReader) readDecision(d *BranchingDecision) {
	var typ uint8
	br.read(&typ)
	d.Type = BranchType(typ)
	br.read(&d.VariableIndex)
	br.read(&d.BoundValue)
	d.IsUpperBound = br.readBool()
	br.read(&d.ItemI)
	br.read(&d.ItemJ)
	d.SameColumn = br.readBool()
	br.read(&d.ArcIndex)
	br.read(&d.SourceNode)
	d.ArcRequired = br.readBool()
	br.read(&d.ResourceIndex)
	br.read(&d.LowerBound)
	br.read(&d.UpperBound)
	if n := br.readCount(); n > 0 && br.err == nil {
		d.CustomIntData = make([]int32, n)
		br.read(d.CustomIntData)
	}
	if n := br.readCount(); n > 0 && br.err == nil {
		d.CustomFloatData = make([]float64, n)
		br.read(d.CustomFloatData)
	}
}

// ReadBinary reconstructs a tree serialized by WriteBinary. Node addresses
// come from a fresh pool; the open-node set is rebuilt from node statuses.
func ReadBinary(r io.Reader, optFns ...func(o *Options)) (*Tree, error) {
	br := &binaryReader{r: r}

	minimize := br.readBool()
	nextID := NodeID(br.readInt64())
	globalLB := br.readFloat64()
	globalUB := br.readFloat64()
	incumbentID := NodeID(br.readInt64())

	var stats Stats
	br.read(&stats.NodesCreated)
	br.read(&stats.NodesProcessed)
	br.read(&stats.NodesPrunedBound)
	br.read(&stats.NodesPrunedInfeasible)
	br.read(&stats.NodesInteger)
	br.read(&stats.NodesBranched)
	br.read(&stats.NodesOpen)
	br.read(&stats.MaxDepth)

	var nodeCount uint64
	br.read(&nodeCount)
	if br.err != nil {
		return nil, fmt.Errorf("tree: read meta: %w", br.err)
	}

	t := New(func(o *Options) {
		for _, fn := range optFns {
			fn(o)
		}
		// The serialized direction wins over caller options.
		o.Minimize = minimize
	})

	// Drop the freshly created root; the serialized nodes replace it.
	t.nodes = make(map[NodeID]*Node, nodeCount)
	t.open.Clear()
	t.root = nil

	for i := uint64(0); i < nodeCount; i++ {
		n := t.pool.Allocate()
		n.id = NodeID(br.readInt64())
		n.parentID = NodeID(br.readInt64())
		br.read(&n.depth)
		br.read(&n.lowerBound)
		br.read(&n.upperBound)
		br.read(&n.lpValue)
		var status uint8
		br.read(&status)
		n.status = NodeStatus(status)
		n.isInteger = br.readBool()
		n.localDecisions = br.readDecisions()
		n.inheritedDecisions = br.readDecisions()

		if cn := br.readCount(); cn > 0 && br.err == nil {
			n.children = make([]NodeID, cn)
			for j := range n.children {
				n.children[j] = NodeID(br.readInt64())
			}
		}

		if sn := br.readCount(); sn > 0 && br.err == nil {
			n.solution = make([]float64, sn)
			br.read(n.solution)
		}
		if cn := br.readCount(); cn > 0 && br.err == nil {
			n.solutionColumns = make([]int32, cn)
			br.read(n.solutionColumns)
		}

		if br.err != nil {
			return nil, fmt.Errorf("tree: read node %d: %w", i, br.err)
		}

		t.nodes[n.id] = n
		if !n.IsProcessed() {
			t.open.Add(uint64(n.id))
		}
		if n.parentID == InvalidNodeID {
			t.root = n
		}
	}

	if t.root == nil {
		return nil, fmt.Errorf("tree: serialized tree has no root")
	}

	t.nextID = nextID
	t.globalLowerBound = globalLB
	t.globalUpperBound = globalUB
	t.stats = stats
	if incumbentID != InvalidNodeID {
		t.incumbent = t.nodes[incumbentID]
	}

	// Guard against NaN poisoning from a truncated stream.
	if math.IsNaN(t.globalLowerBound) || math.IsNaN(t.globalUpperBound) {
		return nil, fmt.Errorf("tree: corrupt global bounds")
	}

	return t, nil
}
