// Package openbp is the search-tree engine of a branch-and-price solver.
//
// The tree package owns the node data model, the arena-backed tree
// container, bounds, and pruning; the selection package provides the
// exploration-order policies; checkpoint and blobstore persist trees across
// runs. This root package ties them together for the driver: a Coordinator
// keeps one tree and one selector consistent through the
// select / solve / branch-or-prune cycle, with structured logging and
// pluggable metrics.
//
// The relaxation solver and the branching rules are external collaborators:
// the driver hands nodes out for solving and feeds decision lists back in;
// openbp makes no assumption about how either is computed.
package openbp
