// Package changelog keeps the ordered record of restructure edits made in a
// session.
//
// Entries coalesce: an entity has at most one entry per action, creations
// absorb later renames, and deleting something created in the same session
// removes its entries instead of logging a deletion. Deleting anything else
// puts the entries of the deleted subtree aside under the root's id so an
// undo can splice them back in place.
package changelog
