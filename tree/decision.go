package tree

import "math"

// BranchType identifies the kind of branching decision.
type BranchType uint8

const (
	// BranchVariable is standard variable branching (x_j <= k or x_j >= k).
	BranchVariable BranchType = iota
	// BranchRyanFoster forces an item pair into the same or different columns.
	BranchRyanFoster
	// BranchArc forces an arc into or out of the solution.
	BranchArc
	// BranchResource restricts a resource window.
	BranchResource
	// BranchCustom carries opaque data interpreted by a user-defined rule.
	BranchCustom
)

// String returns the branch type name.
func (t BranchType) String() string {
	switch t {
	case BranchVariable:
		return "VARIABLE"
	case BranchRyanFoster:
		return "RYAN_FOSTER"
	case BranchArc:
		return "ARC"
	case BranchResource:
		return "RESOURCE"
	case BranchCustom:
		return "CUSTOM"
	default:
		return "UNKNOWN"
	}
}

// BranchingDecision is a single constraint imposed on a subproblem.
//
// The interpretation of the fields depends on Type, which lets different
// branching rules store their decisions in one uniform container. Decisions
// are plain values: they are copied into nodes at creation time and never
// mutated afterwards. Construct them through the factory functions below so
// the unused kind-specific fields keep their declared defaults.
type BranchingDecision struct {
	Type BranchType

	// Variable branching.
	VariableIndex int32
	BoundValue    float64
	IsUpperBound  bool // true = x <= k, false = x >= k

	// Ryan-Foster branching.
	ItemI      int32
	ItemJ      int32
	SameColumn bool // true = must share a column, false = must be apart

	// Arc branching.
	ArcIndex    int32
	SourceNode  int32
	ArcRequired bool // true = arc must be used, false = forbidden

	// Resource window branching.
	ResourceIndex int32
	LowerBound    float64
	UpperBound    float64

	// Custom branching payload, opaque to the tree.
	CustomIntData   []int32
	CustomFloatData []float64
}

// newDecision returns a decision with all kind-specific fields at their
// declared defaults (indices -1, resource window unbounded above).
func newDecision(t BranchType) BranchingDecision {
	return BranchingDecision{
		Type:          t,
		VariableIndex: -1,
		ItemI:         -1,
		ItemJ:         -1,
		ArcIndex:      -1,
		SourceNode:    -1,
		ResourceIndex: -1,
		UpperBound:    math.Inf(1),
	}
}

// VariableBranch creates a variable branching decision: x[varIdx] <= value
// when upper is true, x[varIdx] >= value otherwise.
func VariableBranch(varIdx int32, value float64, upper bool) BranchingDecision {
	d := newDecision(BranchVariable)
	d.VariableIndex = varIdx
	d.BoundValue = value
	d.IsUpperBound = upper
	return d
}

// RyanFosterBranch creates a Ryan-Foster decision forcing items i and j into
// the same column (same=true) or different columns (same=false).
func RyanFosterBranch(i, j int32, same bool) BranchingDecision {
	d := newDecision(BranchRyanFoster)
	d.ItemI = i
	d.ItemJ = j
	d.SameColumn = same
	return d
}

// ArcBranch creates an arc branching decision forcing the arc to be used
// (required=true) or forbidden (required=false).
func ArcBranch(arc, source int32, required bool) BranchingDecision {
	d := newDecision(BranchArc)
	d.ArcIndex = arc
	d.SourceNode = source
	d.ArcRequired = required
	return d
}

// ResourceBranch creates a resource window decision restricting the resource
// to [lb, ub].
func ResourceBranch(resIdx int32, lb, ub float64) BranchingDecision {
	d := newDecision(BranchResource)
	d.ResourceIndex = resIdx
	d.LowerBound = lb
	d.UpperBound = ub
	return d
}

// CustomBranch creates a decision with opaque payloads for extension
// branching rules. The slices are copied.
func CustomBranch(intData []int32, floatData []float64) BranchingDecision {
	d := newDecision(BranchCustom)
	if len(intData) > 0 {
		d.CustomIntData = append([]int32(nil), intData...)
	}
	if len(floatData) > 0 {
		d.CustomFloatData = append([]float64(nil), floatData...)
	}
	return d
}
