package tree

import "math"

// NodeID is the dense identifier of a node within one search tree. IDs are
// assigned monotonically by the owning tree and are never reused.
type NodeID int64

// InvalidNodeID marks a missing node reference (the root's parent).
const InvalidNodeID NodeID = -1

// NodeStatus tracks a node through its one-way state machine:
// Pending -> Processing -> one of the terminal states. No node ever returns
// to Pending.
type NodeStatus uint8

const (
	// StatusPending marks a node that has not been processed yet.
	StatusPending NodeStatus = iota
	// StatusProcessing marks a node handed to the relaxation solver.
	StatusProcessing
	// StatusBranched marks a node split into children.
	StatusBranched
	// StatusPrunedBound marks a node pruned against the global upper bound.
	StatusPrunedBound
	// StatusPrunedInfeasible marks a node whose relaxation was infeasible.
	StatusPrunedInfeasible
	// StatusInteger marks a node whose relaxation was integer feasible.
	StatusInteger
	// StatusFathomed marks a node discarded for any other reason.
	StatusFathomed
)

// String returns the status name.
func (s NodeStatus) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusProcessing:
		return "PROCESSING"
	case StatusBranched:
		return "BRANCHED"
	case StatusPrunedBound:
		return "PRUNED_BOUND"
	case StatusPrunedInfeasible:
		return "PRUNED_INFEASIBLE"
	case StatusInteger:
		return "INTEGER"
	case StatusFathomed:
		return "FATHOMED"
	default:
		return "UNKNOWN"
	}
}

// pruneTolerance is the absolute tolerance used when comparing a node's lower
// bound against the global upper bound.
const pruneTolerance = 1e-6

// Node is one vertex of the search tree: a subproblem defined by the
// branching decisions accumulated from the root.
//
// Identity (id, parent, depth) and the inherited decision list are fixed at
// creation. Bounds, status, and solution are written by the driver between
// selection and the terminal status transition; the tree itself only reads
// them. Nodes are allocated from the tree's pool and must not be copied.
type Node struct {
	id       NodeID
	parentID NodeID
	depth    int32

	lowerBound float64
	upperBound float64
	lpValue    float64

	status    NodeStatus
	isInteger bool

	// Decisions attached at this node vs snapshot-copied from ancestors.
	// The snapshot trades memory for O(1) access to the full history.
	localDecisions     []BranchingDecision
	inheritedDecisions []BranchingDecision

	children []NodeID

	// Sparse relaxation solution, populated only when one is attached.
	solution        []float64
	solutionColumns []int32
}

// reset initializes a pool slot as a fresh node. Bounds start unset
// (-Inf/+Inf) and are overwritten by the relaxation result.
func (n *Node) reset(id, parentID NodeID, depth int32) {
	*n = Node{
		id:         id,
		parentID:   parentID,
		depth:      depth,
		lowerBound: math.Inf(-1),
		upperBound: math.Inf(1),
		lpValue:    math.Inf(1),
		status:     StatusPending,
	}
}

// ID returns the node's unique identifier.
func (n *Node) ID() NodeID { return n.id }

// ParentID returns the parent's identifier, or InvalidNodeID for the root.
func (n *Node) ParentID() NodeID { return n.parentID }

// Depth returns the node's depth (root = 0).
func (n *Node) Depth() int32 { return n.depth }

// LowerBound returns the node-local lower bound.
func (n *Node) LowerBound() float64 { return n.lowerBound }

// UpperBound returns the node-local upper bound.
func (n *Node) UpperBound() float64 { return n.upperBound }

// LPValue returns the objective value of the node's relaxation.
func (n *Node) LPValue() float64 { return n.lpValue }

// SetLowerBound records the relaxation lower bound.
func (n *Node) SetLowerBound(lb float64) { n.lowerBound = lb }

// SetUpperBound records the node-local upper bound.
func (n *Node) SetUpperBound(ub float64) { n.upperBound = ub }

// SetLPValue records the relaxation objective value.
func (n *Node) SetLPValue(v float64) { n.lpValue = v }

// Gap returns the relative gap between the node's bounds. By convention the
// gap is +Inf while either bound is unset, and 0 when both bounds are
// numerically zero.
func (n *Node) Gap() float64 {
	return relativeGap(n.lowerBound, n.upperBound)
}

// Status returns the node's current status.
func (n *Node) Status() NodeStatus { return n.status }

// SetStatus overwrites the node's status. Prefer Tree.MarkProcessed, which
// also maintains the tree counters.
func (n *Node) SetStatus(s NodeStatus) { n.status = s }

// IsInteger reports whether the relaxation solution was integer feasible.
func (n *Node) IsInteger() bool { return n.isInteger }

// SetInteger records integer feasibility of the relaxation solution.
func (n *Node) SetInteger(v bool) { n.isInteger = v }

// IsProcessed reports whether the node has reached a terminal status.
func (n *Node) IsProcessed() bool {
	return n.status != StatusPending && n.status != StatusProcessing
}

// IsPruned reports whether the node was discarded without branching.
func (n *Node) IsPruned() bool {
	return n.status == StatusPrunedBound ||
		n.status == StatusPrunedInfeasible ||
		n.status == StatusFathomed
}

// CanBeExplored reports whether the node is still waiting to be processed.
func (n *Node) CanBeExplored() bool {
	return n.status == StatusPending
}

// LocalDecisions returns the decisions attached when this node was created.
// The returned slice is owned by the node and must not be modified.
func (n *Node) LocalDecisions() []BranchingDecision { return n.localDecisions }

// InheritedDecisions returns the snapshot of the ancestors' decisions taken
// at creation time. The returned slice is owned by the node.
func (n *Node) InheritedDecisions() []BranchingDecision { return n.inheritedDecisions }

// AllDecisions returns the full constraint history, inherited then local,
// as a fresh slice.
func (n *Node) AllDecisions() []BranchingDecision {
	all := make([]BranchingDecision, 0, len(n.inheritedDecisions)+len(n.localDecisions))
	all = append(all, n.inheritedDecisions...)
	all = append(all, n.localDecisions...)
	return all
}

// NumDecisions returns the total number of decisions on the path to this node.
func (n *Node) NumDecisions() int {
	return len(n.inheritedDecisions) + len(n.localDecisions)
}

// AddLocalDecision attaches an additional decision to this node.
func (n *Node) AddLocalDecision(d BranchingDecision) {
	n.localDecisions = append(n.localDecisions, d)
}

// Children returns the ids of this node's children.
func (n *Node) Children() []NodeID { return n.children }

// HasChildren reports whether the node has been branched into children.
func (n *Node) HasChildren() bool { return len(n.children) > 0 }

// TryPruneByBound prunes the node if its lower bound cannot improve on the
// global upper bound (within an absolute tolerance of 1e-6). Returns true if
// the node was pruned.
func (n *Node) TryPruneByBound(globalUpper float64) bool {
	if n.lowerBound >= globalUpper-pruneTolerance {
		n.status = StatusPrunedBound
		return true
	}
	return false
}

// SetSolution attaches a sparse relaxation solution. The slice is retained.
func (n *Node) SetSolution(sol []float64) { n.solution = sol }

// Solution returns the attached solution values, or nil if none.
func (n *Node) Solution() []float64 { return n.solution }

// HasSolution reports whether a solution is attached.
func (n *Node) HasSolution() bool { return len(n.solution) > 0 }

// SetSolutionColumns attaches the column indices for the sparse solution.
func (n *Node) SetSolutionColumns(cols []int32) { n.solutionColumns = cols }

// SolutionColumns returns the column indices of the sparse solution.
func (n *Node) SolutionColumns() []int32 { return n.solutionColumns }

// relativeGap implements the shared gap convention for node and tree bounds.
func relativeGap(lower, upper float64) float64 {
	if math.IsInf(upper, 1) || math.IsInf(lower, -1) {
		return math.Inf(1)
	}
	if math.Abs(upper) < 1e-10 {
		if math.Abs(lower) < 1e-10 {
			return 0
		}
		return math.Inf(1)
	}
	return (upper - lower) / math.Abs(upper)
}
