// Package selection implements the node-selection policies that decide the
// order in which open branch-and-price nodes are explored: best-first,
// depth-first, best-estimate, and a hybrid policy with periodic diving.
//
// A selector is one of two views over the open node set; the tree is the
// other, and stays authoritative for existence and bounds. Selectors prune
// lazily: a node pruned by the tree after being queued is discarded the next
// time the selector is touched, never returned. Ties on the ordering key are
// broken by node id, so selection order is deterministic for a given tree.
package selection
