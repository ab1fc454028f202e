// Package tree implements the search tree of a branch-and-price solver: the
// node and branching-decision data model, a chunked arena pool that keeps
// node addresses stable for the lifetime of a run, and the tree container
// that owns the node registry, the global bounds, and the incumbent.
//
// # Concurrency Model
//
// The tree is single-threaded: every operation runs to completion and the
// registry, counters, and bounds are mutated without synchronization. The
// pool guarantees that node addresses never move, which is the property a
// future concurrent port would build on, but callers must not invoke tree
// mutations from multiple goroutines today.
//
// # Ownership
//
// The registry is the single owner of every node. Parent, child, and
// incumbent references are NodeIDs resolved through the registry, never
// owning pointers, so the arena can be released as one unit when the run
// ends. Nodes are never removed during a run; pruned and branched nodes stay
// queryable for provenance.
package tree
