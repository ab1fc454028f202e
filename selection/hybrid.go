package selection

import "github.com/hupe1980/openbp/tree"

// HybridSelector alternates between best-first selection and periodic
// depth-first dives, balancing bound improvement against solution finding.
//
// Every node is fed to an internal best-first and depth-first selector in
// lockstep; the two are logically one open set, and a node popped from one
// half is lazily pruned from the other before it could be popped twice. The
// best-first half is treated as the canonical open set for Size, Empty,
// BestBound, and OpenNodeIDs.
type HybridSelector struct {
	bestFirst  *BestFirstSelector
	depthFirst *DepthFirstSelector

	diveFrequency int
	diveDepth     int

	nodesSinceDive int
	currentDive    int
	diving         bool
}

var _ NodeSelector = (*HybridSelector)(nil)

// NewHybrid creates a hybrid selector.
func NewHybrid(optFns ...func(o *Options)) *HybridSelector {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return newHybrid(opts)
}

func newHybrid(opts Options) *HybridSelector {
	return &HybridSelector{
		bestFirst:     NewBestFirst(),
		depthFirst:    NewDepthFirst(),
		diveFrequency: opts.DiveFrequency,
		diveDepth:     opts.DiveDepth,
	}
}

// AddNode queues an explorable node in both halves.
func (s *HybridSelector) AddNode(n *tree.Node) {
	if n != nil && n.CanBeExplored() {
		s.bestFirst.AddNode(n)
		s.depthFirst.AddNode(n)
	}
}

// AddNodes queues multiple nodes.
func (s *HybridSelector) AddNodes(nodes []*tree.Node) { addAll(s, nodes) }

// SelectNext pops from the depth-first half while diving and from the
// best-first half otherwise. A dive starts after diveFrequency best-first
// selections and lasts diveDepth pops; an empty depth-first half ends the
// dive immediately.
func (s *HybridSelector) SelectNext() *tree.Node {
	if !s.diving && s.nodesSinceDive >= s.diveFrequency {
		s.diving = true
		s.currentDive = 0
	}

	if s.diving {
		if n := s.depthFirst.SelectNext(); n != nil {
			s.currentDive++
			if s.currentDive >= s.diveDepth {
				s.diving = false
				s.nodesSinceDive = 0
			}
			// Sweep the consumed node out of the other half. Prune keys on
			// the tree status, so the driver must move the node out of
			// Pending before the next pop.
			s.bestFirst.Prune()
			return n
		}
		s.diving = false
	}

	s.nodesSinceDive++
	s.depthFirst.Prune()
	return s.bestFirst.SelectNext()
}

// PeekNext returns the node the next SelectNext would pop from the active
// half, without removing it.
func (s *HybridSelector) PeekNext() *tree.Node {
	if s.diving {
		return s.depthFirst.PeekNext()
	}
	return s.bestFirst.PeekNext()
}

// Empty reports whether the canonical (best-first) half is empty.
func (s *HybridSelector) Empty() bool { return s.bestFirst.Empty() }

// Size returns the size of the canonical (best-first) half.
func (s *HybridSelector) Size() int { return s.bestFirst.Size() }

// Prune drops stale entries from both halves and returns the larger count,
// since the halves hold the same logical set.
func (s *HybridSelector) Prune() int {
	return max(s.bestFirst.Prune(), s.depthFirst.Prune())
}

// OnBoundUpdate forwards the new bound to both halves.
func (s *HybridSelector) OnBoundUpdate(newBound float64) {
	s.bestFirst.OnBoundUpdate(newBound)
	s.depthFirst.OnBoundUpdate(newBound)
}

// BestBound delegates to the best-first half.
func (s *HybridSelector) BestBound() float64 { return s.bestFirst.BestBound() }

// OpenNodeIDs delegates to the best-first half.
func (s *HybridSelector) OpenNodeIDs() []tree.NodeID { return s.bestFirst.OpenNodeIDs() }

// Clear drops both halves and resets the diving state machine.
func (s *HybridSelector) Clear() {
	s.bestFirst.Clear()
	s.depthFirst.Clear()
	s.nodesSinceDive = 0
	s.currentDive = 0
	s.diving = false
}
