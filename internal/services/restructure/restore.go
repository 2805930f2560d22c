package restructure

import (
	"context"
	"fmt"

	"landscaper/internal/changelog"
	"landscaper/internal/domain"
	"landscaper/internal/model"
	"landscaper/internal/protocol/wire"
	"landscaper/internal/treeops"
)

// trashed is what a deletion leaves behind for a restore. Exactly one of
// app, pkg, class or comm is set.
type trashed struct {
	app   *treeops.AppFragment
	pkg   *treeops.PackageFragment
	class *treeops.ClassFragment
	comm  *domain.ClassCommunication

	nodeIdx, appIdx int
	at              changelog.Location
	comms           []*domain.ClassCommunication
}

// RestoreApp brings back application appID deleted earlier in the session.
// Applications cannot be cut, so undoCut has no extra meaning here.
func (s *Session) RestoreApp(ctx context.Context, edit domain.EditContext, appID string, undoCut bool) error {
	m, err := s.editable(edit)
	if err != nil {
		return err
	}
	t, ok := s.trash[appID]
	if !ok || t.app == nil {
		return notFound("deleted application", appID)
	}
	treeops.RestoreApplication(m, t.app, t.nodeIdx, t.appIdx, t.comms)
	delete(s.trash, appID)
	s.log.Debug("application restored", "entity_id", appID, "origin", edit.Origin)
	s.changed("restore")

	return s.publish(ctx, edit, wire.RestoreApp{AppID: appID, UndoCutOperation: undoCut})
}

// RestorePackage brings back package pkgID. With undoCut it instead moves
// the package back to where its pending cut took it from.
func (s *Session) RestorePackage(ctx context.Context, edit domain.EditContext, pkgID string, undoCut bool) error {
	m, err := s.editable(edit)
	if err != nil {
		return err
	}
	if undoCut {
		err = s.uncut(m, pkgID)
	} else {
		err = s.restorePackage(m, pkgID)
	}
	if err != nil {
		return err
	}
	s.log.Debug("package restored", "entity_id", pkgID, "undo_cut", undoCut, "origin", edit.Origin)
	s.changed("restore")

	return s.publish(ctx, edit, wire.RestorePackage{PackageID: pkgID, UndoCutOperation: undoCut})
}

// RestoreClass is RestorePackage for classes. appID is informational.
func (s *Session) RestoreClass(ctx context.Context, edit domain.EditContext, appID, classID string, undoCut bool) error {
	m, err := s.editable(edit)
	if err != nil {
		return err
	}
	if undoCut {
		err = s.uncut(m, classID)
	} else {
		err = s.restoreClass(m, classID)
	}
	if err != nil {
		return err
	}
	s.log.Debug("class restored", "entity_id", classID, "app_id", appID, "undo_cut", undoCut, "origin", edit.Origin)
	s.changed("restore")

	return s.publish(ctx, edit, wire.RestoreClass{AppID: appID, ClassID: classID, UndoCutOperation: undoCut})
}

func (s *Session) restorePackage(m *model.Model, id string) error {
	t, ok := s.trash[id]
	if !ok || t.pkg == nil {
		return notFound("deleted package", id)
	}
	dest, err := destination(m, t.at.ParentKind, t.at.ParentID)
	if err != nil {
		return err
	}
	treeops.RestorePackage(m, t.pkg, dest, t.at.Index, t.comms)
	delete(s.trash, id)
	return nil
}

func (s *Session) restoreClass(m *model.Model, id string) error {
	t, ok := s.trash[id]
	if !ok || t.class == nil {
		return notFound("deleted class", id)
	}
	p, err := lookupPackage(m, t.at.ParentID)
	if err != nil {
		return err
	}
	treeops.RestoreClass(m, t.class, p, t.at.Index, t.comms)
	delete(s.trash, id)
	return nil
}

// uncut moves package or class id back to the origin of its CutInsert entry.
// The entry itself stays; the changelog-remove-entry that follows drops it.
func (s *Session) uncut(m *model.Model, id string) error {
	e, ok := s.changes.Entry(changelog.EntryID(id, changelog.CutInsert))
	if !ok {
		return notFound("cut entry", id)
	}
	origin, _ := changelog.OriginOf(e)
	dest, err := destination(m, origin.ParentKind, origin.ParentID)
	if err != nil {
		return err
	}
	if p, ok := m.Package(id); ok {
		treeops.MovePackageTo(m, p, dest, origin.Index)
	} else if c, ok := m.Class(id); ok && dest.Package != nil {
		treeops.MoveClassTo(m, c, dest.Package, origin.Index)
	} else {
		return notFound("cut entity", id)
	}
	s.changes.Relocate(m, id)
	return nil
}

// DiscardEntries drops changelog entries without touching the model.
func (s *Session) DiscardEntries(ctx context.Context, edit domain.EditContext, entryIDs ...string) error {
	if _, err := s.editable(edit); err != nil {
		return err
	}
	s.changes.RemoveEntries(entryIDs...)
	s.changed("changelog")
	return s.publish(ctx, edit, wire.ChangelogRemoveEntry{EntryIDs: entryIDs})
}

// RestoreEntries splices back the changelog entries put aside when key was
// deleted. A key whose Delete entry cannot be found is left alone.
func (s *Session) RestoreEntries(ctx context.Context, edit domain.EditContext, key string) error {
	if _, err := s.editable(edit); err != nil {
		return err
	}
	if !s.changes.RestoreDeletedEntries(key) {
		return notFound("deleted entries", key)
	}
	s.changed("changelog")
	return s.publish(ctx, edit, wire.ChangelogRestoreEntries{Key: key})
}

// Undo reverts the changelog entry entryID on behalf of the local user and
// publishes the inverse edit.
//
//   - Create: the entity goes away, together with enclosing entities created
//     with it that would otherwise be left holding nothing.
//   - CopyPaste: the pasted copy goes away.
//   - Rename: the previous name comes back and the entry is dropped.
//   - Delete: the entity comes back from the trash and the entries put aside
//     by the deletion are spliced back.
//   - CutInsert: the entity moves back and the entry is dropped.
//   - Communication: the communication goes away.
func (s *Session) Undo(ctx context.Context, entryID string) error {
	e, ok := s.changes.Entry(entryID)
	if !ok {
		return notFound("changelog entry", entryID)
	}
	h := e.Head()
	undo := domain.LocalUndo

	switch h.Action {
	case changelog.Create:
		bundle := s.changes.CreateBundle(s.Model(), e)
		outer := bundle[0]
		return s.Delete(ctx, undo, outer.Kind(), outer.Head().EntityID)

	case changelog.CopyPaste:
		return s.Delete(ctx, undo, e.Kind(), h.EntityID)

	case changelog.Communication:
		return s.DeleteCommunication(ctx, undo, h.EntityID)

	case changelog.Rename:
		if e.Kind() == domain.KindCommunication {
			return s.RenameOperation(ctx, undo, h.EntityID, h.OriginalName)
		}
		return s.Rename(ctx, undo, e.Kind(), h.EntityID, h.OriginalName)

	case changelog.Delete:
		var err error
		switch v := e.(type) {
		case *changelog.AppEntry:
			err = s.RestoreApp(ctx, undo, h.EntityID, false)
		case *changelog.PackageEntry, *changelog.SubPackageEntry:
			err = s.RestorePackage(ctx, undo, h.EntityID, false)
		case *changelog.ClassEntry:
			err = s.RestoreClass(ctx, undo, v.AppID, h.EntityID, false)
		case *changelog.CommunicationEntry:
			err = s.RestoreCommunication(ctx, undo, h.EntityID)
		}
		if err != nil {
			return err
		}
		return s.RestoreEntries(ctx, undo, h.EntityID)

	case changelog.CutInsert:
		var err error
		if c, ok := e.(*changelog.ClassEntry); ok {
			err = s.RestoreClass(ctx, undo, c.AppID, h.EntityID, true)
		} else {
			err = s.RestorePackage(ctx, undo, h.EntityID, true)
		}
		if err != nil {
			return err
		}
		return s.DiscardEntries(ctx, undo, entryID)
	}
	return fmt.Errorf("undo %s: unsupported action %s", entryID, h.Action)
}
