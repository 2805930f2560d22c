// Package treeops implements the structural edits on a landscape model:
// create, rename, remove, copy, paste, move and duplicate, plus identifier
// rewriting for copied subtrees and re-targeting of class communications.
//
// Every function takes live entities that the caller already resolved from
// the model. Nothing here re-checks existence, logs or publishes; invariants
// such as "a package keeps at least one child" are the caller's contract and
// are checked with CanDeletePackage and CanDeleteClass before removal.
package treeops
