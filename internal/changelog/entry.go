package changelog

import (
	"landscaper/internal/domain"
)

// Action is what an entry records.
type Action int

const (
	Create Action = iota
	Rename
	Delete
	CopyPaste
	CutInsert
	Communication
)

func (a Action) String() string {
	switch a {
	case Create:
		return "CREATE"
	case Rename:
		return "RENAME"
	case Delete:
		return "DELETE"
	case CopyPaste:
		return "COPY_PASTE"
	case CutInsert:
		return "CUT_INSERT"
	case Communication:
		return "COMMUNICATION"
	default:
		return "UNKNOWN"
	}
}

// EntryID returns the id of the entry recording action on entityID. An
// entity has at most one entry per action, so the id is stable across
// replicas.
func EntryID(entityID string, action Action) string {
	return entityID + "#" + action.String()
}

// Header is the part shared by every entry.
type Header struct {
	Action   Action
	EntityID string
	// Name is the entity name after the edit.
	Name string
	// OriginalName is the name before the edit, set for Rename and Delete.
	OriginalName string
}

// ID implements Entry.
func (h *Header) ID() string { return EntryID(h.EntityID, h.Action) }

// Head gives access to the shared fields of any entry.
func (h *Header) Head() *Header { return h }

// Location is a position in the tree: the parent and the index among its
// children of the same kind.
type Location struct {
	ParentKind domain.EntityKind
	ParentID   string
	Index      int
}

// Entry is one of *AppEntry, *PackageEntry, *SubPackageEntry, *ClassEntry or
// *CommunicationEntry.
type Entry interface {
	ID() string
	Kind() domain.EntityKind
	Head() *Header
	isEntry()
}

type AppEntry struct {
	Header
	Language string
}

// PackageEntry records an edit on a top-level package.
type PackageEntry struct {
	Header
	AppID string
	// Origin is where a cut package came from (CutInsert only).
	Origin Location
}

type SubPackageEntry struct {
	Header
	AppID    string
	ParentID string
	Origin   Location
}

type ClassEntry struct {
	Header
	AppID     string
	PackageID string
	Origin    Location
}

// CommunicationEntry records the creation, operation rename or removal of a
// communication. Communication is a copy taken when the entry was written.
type CommunicationEntry struct {
	Header
	Communication domain.ClassCommunication
}

func (*AppEntry) Kind() domain.EntityKind           { return domain.KindApp }
func (*PackageEntry) Kind() domain.EntityKind       { return domain.KindPackage }
func (*SubPackageEntry) Kind() domain.EntityKind    { return domain.KindSubPackage }
func (*ClassEntry) Kind() domain.EntityKind         { return domain.KindClass }
func (*CommunicationEntry) Kind() domain.EntityKind { return domain.KindCommunication }

func (*AppEntry) isEntry()           {}
func (*PackageEntry) isEntry()       {}
func (*SubPackageEntry) isEntry()    {}
func (*ClassEntry) isEntry()         {}
func (*CommunicationEntry) isEntry() {}

// OriginOf returns the recorded origin of a CutInsert entry.
func OriginOf(e Entry) (Location, bool) {
	switch v := e.(type) {
	case *PackageEntry:
		return v.Origin, v.Action == CutInsert
	case *SubPackageEntry:
		return v.Origin, v.Action == CutInsert
	case *ClassEntry:
		return v.Origin, v.Action == CutInsert
	default:
		return Location{}, false
	}
}

// parentRef is the id of the container the entity lived in when the entry
// was written.
func parentRef(e Entry) string {
	switch v := e.(type) {
	case *PackageEntry:
		return v.AppID
	case *SubPackageEntry:
		return v.ParentID
	case *ClassEntry:
		return v.PackageID
	default:
		return ""
	}
}

func setOrigin(e Entry, o Location) {
	switch v := e.(type) {
	case *PackageEntry:
		v.Origin = o
	case *SubPackageEntry:
		v.Origin = o
	case *ClassEntry:
		v.Origin = o
	}
}
