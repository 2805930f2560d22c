// Package model holds the in-memory landscape: nodes, applications, packages,
// classes and the class communications between them.
//
// The tree is stored as an arena of entities keyed by id. Child collections
// hold ids and every entity records its parent id, which keeps ancestor walks
// cheap without pointer cycles. Structural edits go through package treeops;
// this package only offers lookups, ancestry helpers, deep cloning and the
// conversion to and from the nested JSON landscape.
package model
