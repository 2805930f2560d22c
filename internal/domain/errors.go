package domain

import "errors"

var (
	// ErrNotFound is returned when an id does not resolve to a live entity or
	// log entry. During replay it signals that the participants diverged.
	ErrNotFound = errors.New("not found")

	// ErrNotRestructuring is returned for edits outside restructure mode.
	ErrNotRestructuring = errors.New("restructure mode is not active")

	// ErrInvariant is returned when an edit would leave a package or
	// application without children, or move a package into itself.
	ErrInvariant = errors.New("edit violates landscape invariant")

	// ErrClipboardEmpty is returned by Paste without a prior Copy or Cut.
	ErrClipboardEmpty = errors.New("clipboard is empty")

	// ErrDuplicateID is returned when a replayed create would reuse an id
	// that already exists locally.
	ErrDuplicateID = errors.New("id already in use")

	// ErrNoSelection is returned when a communication is committed without
	// both endpoints selected.
	ErrNoSelection = errors.New("communication endpoints not selected")
)
