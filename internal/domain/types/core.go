package types

// LandscapeToken identifies a landscape shared by a group of participants.
type LandscapeToken string

// String returns the string form of the token.
func (t LandscapeToken) String() string { return string(t) }

// ParticipantID identifies one connected editor of a landscape.
type ParticipantID string

// String returns the string form of the participant identifier.
func (id ParticipantID) String() string { return string(id) }

// EntityKind names the kind of landscape entity an edit targets.
type EntityKind string

const (
	KindApp           EntityKind = "APP"
	KindPackage       EntityKind = "PACKAGE"
	KindSubPackage    EntityKind = "SUBPACKAGE"
	KindClass         EntityKind = "CLAZZ"
	KindCommunication EntityKind = "COMMUNICATION"
)

// String returns the wire form of the kind.
func (k EntityKind) String() string { return string(k) }

// IsPackage reports whether k is a top-level package or a sub-package.
func (k EntityKind) IsPackage() bool { return k == KindPackage || k == KindSubPackage }

// EditOrigin tells whether an edit was made by the local user or replayed
// from another participant.
type EditOrigin int

const (
	// Local edits are recorded and published to the other participants.
	Local EditOrigin = iota
	// Remote edits are recorded but never published again.
	Remote
)

func (o EditOrigin) String() string {
	if o == Remote {
		return "remote"
	}
	return "local"
}

// EditDirection tells whether an edit moves forward or reverts an earlier one.
type EditDirection int

const (
	Forward EditDirection = iota
	Undo
)

func (d EditDirection) String() string {
	if d == Undo {
		return "undo"
	}
	return "forward"
}

// EditContext is threaded through every mutating session and changelog call.
type EditContext struct {
	Origin    EditOrigin
	Direction EditDirection
}

// IsLocal reports whether the edit must be published.
func (c EditContext) IsLocal() bool { return c.Origin == Local }

// IsUndo reports whether the edit reverts an earlier one.
func (c EditContext) IsUndo() bool { return c.Direction == Undo }

var (
	// LocalEdit is a forward edit made by the local user.
	LocalEdit = EditContext{Origin: Local, Direction: Forward}
	// LocalUndo reverts an edit on behalf of the local user.
	LocalUndo = EditContext{Origin: Local, Direction: Undo}
)

// RemoteEdit builds the context for replaying a peer's edit.
func RemoteEdit(undo bool) EditContext {
	if undo {
		return EditContext{Origin: Remote, Direction: Undo}
	}
	return EditContext{Origin: Remote, Direction: Forward}
}
