package tree

import "math"

// Stats holds running counters for one search run. Counts are maintained by
// the tree's mutating operations; the bound fields are snapshots of the
// global bounds at the time Stats() was called.
type Stats struct {
	NodesCreated          int64
	NodesProcessed        int64
	NodesPrunedBound      int64
	NodesPrunedInfeasible int64
	NodesInteger          int64
	NodesBranched         int64
	NodesOpen             int64
	MaxDepth              int64
	BestLowerBound        float64
	BestUpperBound        float64
}

// Gap returns the relative gap between the best bounds, with the same
// conventions as Node.Gap.
func (s Stats) Gap() float64 {
	return relativeGap(s.BestLowerBound, s.BestUpperBound)
}

func newStats() Stats {
	return Stats{
		BestLowerBound: math.Inf(-1),
		BestUpperBound: math.Inf(1),
	}
}
