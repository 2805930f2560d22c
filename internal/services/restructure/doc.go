// Package restructure implements the editing session of one participant.
//
// A Session ties together the model, the changelog, a clipboard for
// copy/cut/paste, a pending communication selection and a trash of deleted
// subtrees. Each edit is applied through package treeops, recorded in the
// changelog, and, when it was made locally, published as a wire message so
// the other participants replay it.
package restructure
