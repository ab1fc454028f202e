package tree

import (
	"log/slog"
	"math"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Options configures a Tree.
type Options struct {
	// Minimize declares the optimization direction. It is a qualitative flag:
	// bound comparisons inside the tree always treat lower as better, so for
	// a maximization run the caller is responsible for negating objectives
	// before feeding bounds in.
	Minimize bool

	// ChunkSize is the node pool chunk size.
	ChunkSize int

	// Logger receives debug output for pruning sweeps and incumbent updates.
	Logger *slog.Logger
}

// DefaultOptions are the options used when none are overridden.
var DefaultOptions = Options{
	Minimize:  true,
	ChunkSize: DefaultChunkSize,
}

// Tree owns every node of one branch-and-price search run.
//
// The registry is authoritative for node existence and bounds; exploration
// order lives in a selection.NodeSelector fed by the driver. Nodes are
// allocated from an arena pool and stay valid, and queryable, for the whole
// run even after they are pruned or branched.
type Tree struct {
	opts Options

	pool   *NodePool
	nodes  map[NodeID]*Node
	root   *Node
	nextID NodeID

	// Non-owning reference; the registry owns the node.
	incumbent *Node

	globalLowerBound float64
	globalUpperBound float64

	// Ids of nodes that have not reached a terminal status. Readers still
	// re-check CanBeExplored, so a stale Processing entry is harmless.
	open *roaring64.Bitmap

	stats  Stats
	logger *slog.Logger
}

// New creates a tree holding exactly the root node (id 0, pending, open).
func New(optFns ...func(o *Options)) *Tree {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	t := &Tree{
		opts:             opts,
		pool:             NewNodePool(opts.ChunkSize),
		nodes:            make(map[NodeID]*Node),
		globalLowerBound: math.Inf(-1),
		globalUpperBound: math.Inf(1),
		open:             roaring64.New(),
		stats:            newStats(),
		logger:           logger,
	}

	root := t.pool.Allocate()
	root.reset(t.nextID, InvalidNodeID, 0)
	t.nextID++
	t.root = root
	t.nodes[root.id] = root
	t.open.Add(uint64(root.id))
	t.stats.NodesCreated = 1
	t.stats.NodesOpen = 1

	return t
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// RootID returns the root node's id.
func (t *Tree) RootID() NodeID { return t.root.id }

// Node returns the node with the given id, or nil if the id is unknown.
func (t *Tree) Node(id NodeID) *Node { return t.nodes[id] }

// HasNode reports whether the id is registered.
func (t *Tree) HasNode(id NodeID) bool {
	_, ok := t.nodes[id]
	return ok
}

// NumNodes returns the number of registered nodes.
func (t *Tree) NumNodes() int { return len(t.nodes) }

// IsMinimizing reports the declared optimization direction.
func (t *Tree) IsMinimizing() bool { return t.opts.Minimize }

// Pool returns the tree's node pool, for memory reporting.
func (t *Tree) Pool() *NodePool { return t.pool }

// CreateChild allocates a child of parent carrying the given decision. The
// child snapshots the parent's full decision history and starts from the
// parent's current bounds. The parent's status is not changed.
func (t *Tree) CreateChild(parent *Node, decision BranchingDecision) *Node {
	child := t.pool.Allocate()
	child.reset(t.nextID, parent.id, parent.depth+1)
	t.nextID++

	child.localDecisions = append(child.localDecisions, decision)
	child.inheritedDecisions = parent.AllDecisions()
	child.lowerBound = parent.lowerBound
	child.upperBound = parent.upperBound

	parent.children = append(parent.children, child.id)
	t.nodes[child.id] = child
	t.open.Add(uint64(child.id))

	t.stats.NodesCreated++
	t.stats.NodesOpen++
	if int64(child.depth) > t.stats.MaxDepth {
		t.stats.MaxDepth = int64(child.depth)
	}

	return child
}

// CreateChildren creates one child per decision and marks the parent
// branched, removing it from the open set. An empty decision list is a no-op
// that leaves the parent untouched: callers must not branch into nothing.
func (t *Tree) CreateChildren(parent *Node, decisions []BranchingDecision) []*Node {
	if len(decisions) == 0 {
		return nil
	}

	children := make([]*Node, 0, len(decisions))
	for _, d := range decisions {
		children = append(children, t.CreateChild(parent, d))
	}

	parent.status = StatusBranched
	t.open.Remove(uint64(parent.id))
	t.stats.NodesBranched++
	t.stats.NodesOpen--

	return children
}

// MarkProcessed transitions a node out of Pending/Processing and updates the
// counters. Re-marking an already processed node changes its status but does
// not double count. Branched is special: CreateChildren already removed the
// parent from the open set, so the open count is left alone here.
func (t *Tree) MarkProcessed(node *Node, newStatus NodeStatus) {
	oldStatus := node.status
	node.status = newStatus

	if oldStatus == StatusPending || oldStatus == StatusProcessing {
		t.stats.NodesProcessed++
		if newStatus != StatusBranched {
			t.stats.NodesOpen--
			t.open.Remove(uint64(node.id))
		}

		switch newStatus {
		case StatusPrunedBound:
			t.stats.NodesPrunedBound++
		case StatusPrunedInfeasible:
			t.stats.NodesPrunedInfeasible++
		case StatusInteger:
			t.stats.NodesInteger++
		}
	}
}

// GlobalLowerBound returns the tree-wide lower bound.
func (t *Tree) GlobalLowerBound() float64 { return t.globalLowerBound }

// GlobalUpperBound returns the tree-wide upper bound.
func (t *Tree) GlobalUpperBound() float64 { return t.globalUpperBound }

// SetGlobalLowerBound overwrites the tree-wide lower bound.
func (t *Tree) SetGlobalLowerBound(lb float64) { t.globalLowerBound = lb }

// SetGlobalUpperBound overwrites the tree-wide upper bound.
func (t *Tree) SetGlobalUpperBound(ub float64) { t.globalUpperBound = ub }

// UpdateBounds folds a processed node into the global bounds. Returns true
// if the node carried an improving integer solution and the global upper
// bound moved.
func (t *Tree) UpdateBounds(node *Node) bool {
	if node.isInteger && node.lpValue < t.globalUpperBound {
		t.globalUpperBound = node.lpValue
		t.logger.Debug("global upper bound improved",
			"node", node.id, "upper_bound", t.globalUpperBound)
		return true
	}
	return false
}

// ComputeLowerBound returns the minimum lower bound among the explorable
// nodes in openIDs. With no qualifying node it falls back to the global
// upper bound: an empty open set proves nothing better than the incumbent.
func (t *Tree) ComputeLowerBound(openIDs []NodeID) float64 {
	lb := t.globalUpperBound
	for _, id := range openIDs {
		if n, ok := t.nodes[id]; ok && n.CanBeExplored() {
			lb = math.Min(lb, n.lowerBound)
		}
	}
	return lb
}

// PruneByBound prunes every explorable node whose lower bound cannot improve
// on the global upper bound. Invoked by the driver after each bound
// improvement, not after every node. Returns the number of nodes pruned.
func (t *Tree) PruneByBound() int64 {
	var pruned int64

	// Snapshot the open ids: pruning mutates the bitmap.
	ids := t.open.ToArray()
	for _, raw := range ids {
		node := t.nodes[NodeID(raw)]
		if node == nil || !node.CanBeExplored() {
			continue
		}
		if node.TryPruneByBound(t.globalUpperBound) {
			t.open.Remove(raw)
			t.stats.NodesPrunedBound++
			t.stats.NodesOpen--
			pruned++
		}
	}

	if pruned > 0 {
		t.logger.Debug("pruned by bound",
			"pruned", pruned, "upper_bound", t.globalUpperBound)
	}
	return pruned
}

// OpenNodes returns the ids of all explorable nodes in ascending id order.
func (t *Tree) OpenNodes() []NodeID {
	open := make([]NodeID, 0, t.open.GetCardinality())
	it := t.open.Iterator()
	for it.HasNext() {
		id := NodeID(it.Next())
		if n, ok := t.nodes[id]; ok && n.CanBeExplored() {
			open = append(open, id)
		}
	}
	return open
}

// IsComplete reports whether exploration is finished (no open nodes).
func (t *Tree) IsComplete() bool { return t.stats.NodesOpen == 0 }

// Gap returns the relative gap between the global bounds.
func (t *Tree) Gap() float64 {
	return relativeGap(t.globalLowerBound, t.globalUpperBound)
}

// Stats returns a snapshot of the tree counters with the current global
// bounds filled in.
func (t *Tree) Stats() Stats {
	s := t.stats
	s.BestLowerBound = t.globalLowerBound
	s.BestUpperBound = t.globalUpperBound
	return s
}

// ForEachNode calls fn for every registered node. Iteration order is
// unspecified.
func (t *Tree) ForEachNode(fn func(n *Node)) {
	for _, n := range t.nodes {
		fn(n)
	}
}

// PathToRoot returns the node ids from the root down to target, in that
// order. An unknown target yields an empty path.
func (t *Tree) PathToRoot(target NodeID) []NodeID {
	var path []NodeID
	current := target
	for current != InvalidNodeID {
		node, ok := t.nodes[current]
		if !ok {
			break
		}
		path = append(path, current)
		current = node.parentID
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Incumbent returns the best integer-feasible node found so far, or nil.
func (t *Tree) Incumbent() *Node { return t.incumbent }

// SetIncumbent records node as the incumbent and moves the global upper
// bound to its relaxation value. The node is assumed to be verified integer
// feasible by the driver; the tree does not re-validate.
func (t *Tree) SetIncumbent(node *Node) {
	t.incumbent = node
	if node != nil {
		t.globalUpperBound = node.lpValue
		t.logger.Info("incumbent updated",
			"node", node.id, "objective", node.lpValue, "depth", node.depth)
	}
}
