package changelog

import (
	"slices"

	"landscaper/internal/domain"
	"landscaper/internal/model"
)

// Log is the ordered list of pending restructure edits, plus the entries
// put aside by deletions so an undo can bring them back.
//
// A Log is not safe for concurrent use; it is driven from the same loop as
// the model it describes.
type Log struct {
	entries []Entry
	// deleted maps the id of a deleted root to the entries removed with it,
	// in log order, ending with the Delete entry itself.
	deleted map[string][]Entry
}

// New returns an empty log.
func New() *Log {
	return &Log{deleted: make(map[string][]Entry)}
}

// Entries returns a copy of the live entries in log order.
func (l *Log) Entries() []Entry { return slices.Clone(l.entries) }

// Len returns the number of live entries.
func (l *Log) Len() int { return len(l.entries) }

// Entry looks up a live entry by id.
func (l *Log) Entry(id string) (Entry, bool) {
	if i := l.index(id); i >= 0 {
		return l.entries[i], true
	}
	return nil, false
}

// Deleted reports whether key has a pending deleted-entries bucket.
func (l *Log) Deleted(key string) bool {
	_, ok := l.deleted[key]
	return ok
}

// Reset drops every entry and bucket.
func (l *Log) Reset() {
	l.entries = nil
	l.deleted = make(map[string][]Entry)
}

func (l *Log) index(id string) int {
	return slices.IndexFunc(l.entries, func(e Entry) bool { return e.ID() == id })
}

func (l *Log) remove(id string) (Entry, bool) {
	i := l.index(id)
	if i < 0 {
		return nil, false
	}
	e := l.entries[i]
	l.entries = slices.Delete(l.entries, i, i+1)
	return e, true
}

// ---------- Create / copy ----------

// Create records the creation of the entity with id. Unknown ids are ignored.
func (l *Log) Create(m *model.Model, id string) {
	l.appendNew(m, id, Create)
}

// CopyPaste records the paste of a copied subtree rooted at id. Deleting the
// pasted root later cancels the entry the way it cancels a Create.
func (l *Log) CopyPaste(m *model.Model, id string) {
	l.appendNew(m, id, CopyPaste)
}

// AddCommunication records a communication created by a user.
func (l *Log) AddCommunication(m *model.Model, commID string) {
	l.appendNew(m, commID, Communication)
}

func (l *Log) appendNew(m *model.Model, id string, action Action) {
	if l.index(EntryID(id, action)) >= 0 {
		return
	}
	e := build(m, Header{Action: action, EntityID: id, Name: nameOf(m, id)})
	if e == nil {
		return
	}
	l.entries = append(l.entries, e)
}

// ---------- Rename ----------

// Rename records that the entity with id went from original to name.
//
// A pending Create, CopyPaste or Communication entry absorbs the new name.
// A pending Rename keeps its original name and takes the new one. Undo
// direction drops the Rename entry instead.
func (l *Log) Rename(ctx domain.EditContext, m *model.Model, id, original, name string) {
	renameID := EntryID(id, Rename)
	if ctx.IsUndo() {
		if _, ok := l.remove(renameID); ok {
			return
		}
	}
	for _, action := range []Action{Create, CopyPaste, Communication} {
		if e, ok := l.Entry(EntryID(id, action)); ok {
			e.Head().Name = name
			if c, ok := e.(*CommunicationEntry); ok {
				c.Communication.OperationName = name
			}
			return
		}
	}
	if ctx.IsUndo() {
		return
	}
	if e, ok := l.Entry(renameID); ok {
		e.Head().Name = name
		return
	}
	e := build(m, Header{Action: Rename, EntityID: id, Name: name, OriginalName: original})
	if e != nil {
		l.entries = append(l.entries, e)
	}
}

// ---------- Delete / restore ----------

// Delete records the removal of the entity with id together with everything
// below it. It must be called before the entity leaves the model.
//
// If the entity was created (or pasted) in this session its entries and the
// entries of its subtree are simply dropped, and cancelled is true. Otherwise
// those entries are moved to a bucket keyed by id and a Delete entry is
// appended; RestoreDeletedEntries(id) reverses that.
func (l *Log) Delete(m *model.Model, id string) (cancelled bool) {
	members := subtree(m, id)
	collected := l.extract(members)

	for _, e := range collected {
		h := e.Head()
		if h.EntityID == id && (h.Action == Create || h.Action == CopyPaste || h.Action == Communication) {
			return true
		}
	}

	original := nameOf(m, id)
	for _, e := range collected {
		if h := e.Head(); h.EntityID == id && h.Action == Rename {
			original = h.OriginalName
		}
	}
	del := build(m, Header{Action: Delete, EntityID: id, Name: nameOf(m, id), OriginalName: original})
	if del == nil {
		// Not in the model: put back what was taken.
		l.entries = append(l.entries, collected...)
		return false
	}
	l.entries = append(l.entries, del)
	l.deleted[id] = append(collected, del)
	return false
}

// extract removes and returns, in log order, every entry belonging to the
// members set: entries on a member, entries whose recorded parent is a member
// (such as the Delete entry of a child removed earlier) and communication
// entries with an endpoint in members.
func (l *Log) extract(members map[string]struct{}) []Entry {
	var out []Entry
	kept := l.entries[:0]
	for _, e := range l.entries {
		if belongs(e, members) {
			out = append(out, e)
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept
	return out
}

func belongs(e Entry, members map[string]struct{}) bool {
	if _, ok := members[e.Head().EntityID]; ok {
		return true
	}
	if p := parentRef(e); p != "" {
		if _, ok := members[p]; ok {
			return true
		}
	}
	if c, ok := e.(*CommunicationEntry); ok {
		_, src := members[c.Communication.SourceClassID]
		_, tgt := members[c.Communication.TargetClassID]
		return src || tgt
	}
	return false
}

// RestoreDeletedEntries pops the bucket for key and splices its entries back
// where its Delete entry sits, replacing it. A bucket that holds that Delete
// entry (a later deletion of an ancestor) gets the same splice. If the Delete
// entry is found nowhere the bucket is kept and false is returned.
func (l *Log) RestoreDeletedEntries(key string) bool {
	bucket, ok := l.deleted[key]
	if !ok || len(bucket) == 0 {
		return false
	}
	last := bucket[len(bucket)-1]
	group := bucket[:len(bucket)-1]

	found := false
	if i := l.index(last.ID()); i >= 0 {
		l.entries = slices.Replace(l.entries, i, i+1, group...)
		found = true
	}
	for other, entries := range l.deleted {
		if other == key {
			continue
		}
		i := slices.IndexFunc(entries, func(e Entry) bool { return e.ID() == last.ID() })
		if i < 0 {
			continue
		}
		l.deleted[other] = slices.Replace(slices.Clone(entries), i, i+1, group...)
		found = true
	}
	if !found {
		return false
	}
	delete(l.deleted, key)
	return true
}

// RemoveEntries drops the live entries with the given ids. Unknown ids are
// ignored.
func (l *Log) RemoveEntries(ids ...string) {
	for _, id := range ids {
		l.remove(id)
	}
}

// ---------- Move ----------

// CutInsert records that the entity with id was moved from origin to where it
// now is in m. Every entry of the moved subtree is re-pointed at its new
// location.
//
// An entity created or pasted in this session gets no CutInsert entry. An
// entity that was already moved keeps its first origin.
func (l *Log) CutInsert(m *model.Model, id string, origin Location) {
	defer l.relocate(m, subtree(m, id))

	if l.index(EntryID(id, Create)) >= 0 || l.index(EntryID(id, CopyPaste)) >= 0 {
		return
	}
	if l.index(EntryID(id, CutInsert)) >= 0 {
		return
	}
	e := build(m, Header{Action: CutInsert, EntityID: id, Name: nameOf(m, id)})
	if e == nil {
		return
	}
	setOrigin(e, origin)
	l.entries = append(l.entries, e)
}

// Relocate re-points the entries of the subtree rooted at id at its current
// location, as after a cut is undone.
func (l *Log) Relocate(m *model.Model, id string) {
	l.relocate(m, subtree(m, id))
}

// relocate rebuilds the live entries of members from the current model. A
// package that changed between top-level and sub-package changes entry type.
func (l *Log) relocate(m *model.Model, members map[string]struct{}) {
	for i, e := range l.entries {
		h := e.Head()
		if h.Action == Delete {
			continue
		}
		_, member := members[h.EntityID]
		comm, isComm := e.(*CommunicationEntry)
		if isComm {
			_, src := members[comm.Communication.SourceClassID]
			_, tgt := members[comm.Communication.TargetClassID]
			member = member || src || tgt
		}
		if !member {
			continue
		}
		origin, _ := OriginOf(e)
		fresh := build(m, *h)
		if fresh == nil {
			continue
		}
		setOrigin(fresh, origin)
		l.entries[i] = fresh
	}
}

// LocationOf returns where the package or class with id currently sits.
func LocationOf(m *model.Model, id string) (Location, bool) {
	if p, ok := m.Package(id); ok {
		if p.IsTopLevel() {
			a, ok := m.Application(p.ApplicationID)
			if !ok {
				return Location{}, false
			}
			return Location{ParentKind: domain.KindApp, ParentID: a.ID, Index: slices.Index(a.PackageIDs, id)}, true
		}
		parent, ok := m.Package(p.ParentID)
		if !ok {
			return Location{}, false
		}
		return Location{ParentKind: domain.KindPackage, ParentID: parent.ID, Index: slices.Index(parent.SubPackageIDs, id)}, true
	}
	if c, ok := m.Class(id); ok {
		parent, ok := m.Package(c.PackageID)
		if !ok {
			return Location{}, false
		}
		return Location{ParentKind: domain.KindPackage, ParentID: parent.ID, Index: slices.Index(parent.ClassIDs, id)}, true
	}
	return Location{}, false
}

// ---------- Bundles ----------

// CreateBundle returns the Create entries that go away together with e when
// e is undone: e itself plus each enclosing entity that was created in this
// session and holds nothing but the previous member of the chain. The result
// is ordered outermost first, e last. Undoing the first element removes all
// of them.
func (l *Log) CreateBundle(m *model.Model, e Entry) []Entry {
	bundle := []Entry{e}
	if e.Head().Action != Create {
		return bundle
	}
	id := e.Head().EntityID
	for {
		parentID, count, ok := container(m, id)
		if !ok || count != 1 {
			break
		}
		pe, ok := l.Entry(EntryID(parentID, Create))
		if !ok {
			break
		}
		bundle = append([]Entry{pe}, bundle...)
		id = parentID
	}
	return bundle
}

// container returns the parent of id and how many children it has.
func container(m *model.Model, id string) (string, int, bool) {
	if c, ok := m.Class(id); ok {
		p, ok := m.Package(c.PackageID)
		if !ok {
			return "", 0, false
		}
		return p.ID, p.ChildCount(), true
	}
	if p, ok := m.Package(id); ok {
		if p.IsTopLevel() {
			a, ok := m.Application(p.ApplicationID)
			if !ok {
				return "", 0, false
			}
			return a.ID, len(a.PackageIDs), true
		}
		parent, ok := m.Package(p.ParentID)
		if !ok {
			return "", 0, false
		}
		return parent.ID, parent.ChildCount(), true
	}
	return "", 0, false
}

// ---------- Model lookups ----------

// build makes an entry of the right type for the entity with h.EntityID as
// it currently is in m. It returns nil when the id is unknown.
func build(m *model.Model, h Header) Entry {
	id := h.EntityID
	if a, ok := m.Application(id); ok {
		return &AppEntry{Header: h, Language: a.Language}
	}
	if p, ok := m.Package(id); ok {
		app, _ := m.ApplicationOf(id)
		appID := ""
		if app != nil {
			appID = app.ID
		}
		if p.IsTopLevel() {
			return &PackageEntry{Header: h, AppID: appID}
		}
		return &SubPackageEntry{Header: h, AppID: appID, ParentID: p.ParentID}
	}
	if c, ok := m.Class(id); ok {
		app, _ := m.ClassApplication(id)
		appID := ""
		if app != nil {
			appID = app.ID
		}
		return &ClassEntry{Header: h, AppID: appID, PackageID: c.PackageID}
	}
	if c, ok := m.Communication(id); ok {
		return &CommunicationEntry{Header: h, Communication: *c}
	}
	return nil
}

func nameOf(m *model.Model, id string) string {
	if a, ok := m.Application(id); ok {
		return a.Name
	}
	if p, ok := m.Package(id); ok {
		return p.Name
	}
	if c, ok := m.Class(id); ok {
		return c.Name
	}
	if c, ok := m.Communication(id); ok {
		return c.OperationName
	}
	return id
}

// subtree returns id plus the ids of every package, class and communication
// below it.
func subtree(m *model.Model, id string) map[string]struct{} {
	set := map[string]struct{}{id: {}}
	var classIDs []string
	switch {
	case hasApp(m, id):
		pkgs, classes := m.ApplicationSubtreeIDs(id)
		for _, p := range pkgs {
			set[p] = struct{}{}
		}
		classIDs = classes
	case hasPackage(m, id):
		for _, p := range m.SubtreePackageIDs(id) {
			set[p] = struct{}{}
		}
		classIDs = m.SubtreeClassIDs(id)
	case hasClass(m, id):
		classIDs = []string{id}
	}
	for _, c := range classIDs {
		set[c] = struct{}{}
	}
	for _, c := range m.CommunicationsTouching(classIDs) {
		set[c.ID] = struct{}{}
	}
	return set
}

func hasApp(m *model.Model, id string) bool     { _, ok := m.Application(id); return ok }
func hasPackage(m *model.Model, id string) bool { _, ok := m.Package(id); return ok }
func hasClass(m *model.Model, id string) bool   { _, ok := m.Class(id); return ok }
