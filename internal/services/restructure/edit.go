package restructure

import (
	"context"
	"fmt"
	"slices"

	"landscaper/internal/changelog"
	"landscaper/internal/domain"
	"landscaper/internal/model"
	"landscaper/internal/protocol/wire"
	"landscaper/internal/treeops"
)

// Rename renames the application, package or class id.
func (s *Session) Rename(ctx context.Context, edit domain.EditContext, kind domain.EntityKind, id, name string) error {
	m, err := s.editable(edit)
	if err != nil {
		return err
	}

	var old, appID string
	switch {
	case kind == domain.KindApp:
		a, err := lookupApp(m, id)
		if err != nil {
			return err
		}
		old, appID = treeops.RenameApplication(a, name), a.ID
	case kind.IsPackage():
		p, err := lookupPackage(m, id)
		if err != nil {
			return err
		}
		old = treeops.RenamePackage(p, name)
		if a, ok := m.ApplicationOf(p.ID); ok {
			appID = a.ID
		}
	case kind == domain.KindClass:
		c, err := lookupClass(m, id)
		if err != nil {
			return err
		}
		old = treeops.RenameClass(c, name)
		if a, ok := m.ClassApplication(c.ID); ok {
			appID = a.ID
		}
	default:
		return fmt.Errorf("rename %s: %w", kind, domain.ErrInvariant)
	}
	s.changes.Rename(edit, m, id, old, name)
	s.log.Debug("renamed", "entity_type", kind, "entity_id", id, "old_name", old, "new_name", name, "origin", edit.Origin)
	s.changed("rename")

	return s.publish(ctx, edit, wire.Update{
		EntityType: kind,
		EntityID:   id,
		NewName:    name,
		AppID:      appID,
		Undo:       edit.IsUndo(),
	})
}

// CreateApplication adds a new node with an application, a package and a
// class. seq fixes the new ids; zero picks the next free one. The new
// application id is returned.
func (s *Session) CreateApplication(ctx context.Context, edit domain.EditContext, name, language string, seq int) (string, error) {
	m, err := s.editable(edit)
	if err != nil {
		return "", err
	}
	if seq, err = s.nextSeq(m, seq); err != nil {
		return "", err
	}

	treeops.AddFoundation(m, name, language, seq)
	ids := treeops.IDsForSeq(seq)
	s.changes.Create(m, ids.App)
	s.changes.Create(m, ids.Package)
	s.changes.Create(m, ids.Class)
	s.log.Debug("application created", "entity_id", ids.App, "seq", seq, "origin", edit.Origin)
	s.changed("create")

	return ids.App, s.publish(ctx, edit, wire.CreateOrDelete{
		Action:     wire.ActionCreate,
		EntityType: domain.KindApp,
		Name:       name,
		Language:   language,
		Seq:        seq,
	})
}

// CreatePackage adds a top-level package, with a placeholder class, to
// application appID. The new package id is returned.
func (s *Session) CreatePackage(ctx context.Context, edit domain.EditContext, appID, name string, seq int) (string, error) {
	m, err := s.editable(edit)
	if err != nil {
		return "", err
	}
	app, err := lookupApp(m, appID)
	if err != nil {
		return "", err
	}
	if seq, err = s.nextSeq(m, seq); err != nil {
		return "", err
	}

	p, c := treeops.AddPackage(m, app, name, seq)
	s.changes.Create(m, p.ID)
	s.changes.Create(m, c.ID)
	s.changed("create")

	return p.ID, s.publish(ctx, edit, wire.CreateOrDelete{
		Action:     wire.ActionCreate,
		EntityType: domain.KindPackage,
		Name:       name,
		EntityID:   appID,
		Seq:        seq,
	})
}

// CreateSubPackage adds a package, with a placeholder class, under package
// parentID. The new package id is returned.
func (s *Session) CreateSubPackage(ctx context.Context, edit domain.EditContext, parentID, name string, seq int) (string, error) {
	m, err := s.editable(edit)
	if err != nil {
		return "", err
	}
	parent, err := lookupPackage(m, parentID)
	if err != nil {
		return "", err
	}
	if seq, err = s.nextSeq(m, seq); err != nil {
		return "", err
	}

	p, c := treeops.AddSubPackage(m, parent, name, seq)
	s.changes.Create(m, p.ID)
	s.changes.Create(m, c.ID)
	s.changed("create")

	return p.ID, s.publish(ctx, edit, wire.CreateOrDelete{
		Action:     wire.ActionCreate,
		EntityType: domain.KindSubPackage,
		Name:       name,
		EntityID:   parentID,
		Seq:        seq,
	})
}

// CreateClass adds a class to package pkgID and returns its id.
func (s *Session) CreateClass(ctx context.Context, edit domain.EditContext, pkgID, name string, seq int) (string, error) {
	m, err := s.editable(edit)
	if err != nil {
		return "", err
	}
	p, err := lookupPackage(m, pkgID)
	if err != nil {
		return "", err
	}
	if seq, err = s.nextSeq(m, seq); err != nil {
		return "", err
	}

	c := treeops.AddClass(m, p, name, seq)
	s.changes.Create(m, c.ID)
	s.changed("create")

	return c.ID, s.publish(ctx, edit, wire.CreateOrDelete{
		Action:     wire.ActionCreate,
		EntityType: domain.KindClass,
		Name:       name,
		EntityID:   pkgID,
		Seq:        seq,
	})
}

// Delete removes an application, package or class with everything below it.
// Packages and classes are only removed when their parent keeps at least one
// child; otherwise domain.ErrInvariant is returned.
//
// Entities that existed before this session are kept in the trash so a
// restore can bring them back.
func (s *Session) Delete(ctx context.Context, edit domain.EditContext, kind domain.EntityKind, id string) error {
	m, err := s.editable(edit)
	if err != nil {
		return err
	}

	switch {
	case kind == domain.KindApp:
		err = s.deleteApp(m, id)
	case kind.IsPackage():
		err = s.deletePackage(m, id)
	case kind == domain.KindClass:
		err = s.deleteClass(m, id)
	default:
		err = fmt.Errorf("delete %s: %w", kind, domain.ErrInvariant)
	}
	if err != nil {
		return err
	}
	s.log.Debug("deleted", "entity_type", kind, "entity_id", id, "origin", edit.Origin, "undo", edit.IsUndo())
	s.changed("delete")

	return s.publish(ctx, edit, wire.CreateOrDelete{
		Action:     wire.ActionDelete,
		EntityType: kind,
		EntityID:   id,
		Undo:       edit.IsUndo(),
	})
}

func (s *Session) deleteApp(m *model.Model, id string) error {
	app, err := lookupApp(m, id)
	if err != nil {
		return err
	}
	f := treeops.CopyApplicationContent(m, app)
	nodeIdx := m.NodeIndex(app.NodeID)
	appIdx := -1
	if n, ok := m.Node(app.NodeID); ok {
		appIdx = slices.Index(n.ApplicationIDs, id)
	}

	cancelled := s.changes.Delete(m, id)
	comms := treeops.RemoveApplication(m, app)
	if !cancelled {
		s.trash[id] = trashed{app: f, nodeIdx: nodeIdx, appIdx: appIdx, comms: comms}
	}
	return nil
}

func (s *Session) deletePackage(m *model.Model, id string) error {
	p, err := lookupPackage(m, id)
	if err != nil {
		return err
	}
	if !treeops.CanDeletePackage(m, p) {
		return fmt.Errorf("delete package %q: last child of its parent: %w", id, domain.ErrInvariant)
	}
	f := treeops.CopyPackageContent(m, p)
	at, _ := changelog.LocationOf(m, id)

	cancelled := s.changes.Delete(m, id)
	comms := treeops.RemovePackageFromApplication(m, p)
	if !cancelled {
		s.trash[id] = trashed{pkg: f, at: at, comms: comms}
	}
	return nil
}

func (s *Session) deleteClass(m *model.Model, id string) error {
	c, err := lookupClass(m, id)
	if err != nil {
		return err
	}
	if !treeops.CanDeleteClass(m, c) {
		return fmt.Errorf("delete class %q: last child of its package: %w", id, domain.ErrInvariant)
	}
	f := treeops.CopyClassContent(c)
	at, _ := changelog.LocationOf(m, id)

	cancelled := s.changes.Delete(m, id)
	comms := treeops.RemoveClassFromPackage(m, c)
	if !cancelled {
		s.trash[id] = trashed{class: f, at: at, comms: comms}
	}
	return nil
}
