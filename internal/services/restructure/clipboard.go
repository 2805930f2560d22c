package restructure

import (
	"context"
	"fmt"

	"landscaper/internal/changelog"
	"landscaper/internal/domain"
	"landscaper/internal/protocol/wire"
	"landscaper/internal/treeops"
)

type clipboard struct {
	kind domain.EntityKind
	id   string
	cut  bool
}

func (c clipboard) empty() bool { return c.id == "" }

// Copy puts the package or class id on the clipboard. Nothing changes until
// Paste.
func (s *Session) Copy(kind domain.EntityKind, id string) error {
	return s.clip.set(s, kind, id, false)
}

// Cut puts the package or class id on the clipboard for a move. It fails
// with domain.ErrInvariant when the entity is the last child of its parent,
// since moving it away would leave the parent empty.
func (s *Session) Cut(kind domain.EntityKind, id string) error {
	return s.clip.set(s, kind, id, true)
}

func (c *clipboard) set(s *Session, kind domain.EntityKind, id string, cut bool) error {
	m, err := s.editable(domain.LocalEdit)
	if err != nil {
		return err
	}
	switch {
	case kind.IsPackage():
		p, err := lookupPackage(m, id)
		if err != nil {
			return err
		}
		if cut && !treeops.CanDeletePackage(m, p) {
			return fmt.Errorf("cut package %q: %w", id, domain.ErrInvariant)
		}
		kind = kindOf(p)
	case kind == domain.KindClass:
		cl, err := lookupClass(m, id)
		if err != nil {
			return err
		}
		if cut && !treeops.CanDeleteClass(m, cl) {
			return fmt.Errorf("cut class %q: %w", id, domain.ErrInvariant)
		}
	default:
		return fmt.Errorf("clipboard %s: %w", kind, domain.ErrInvariant)
	}
	*c = clipboard{kind: kind, id: id, cut: cut}
	return nil
}

// Clipboard returns what is on the clipboard.
func (s *Session) Clipboard() (kind domain.EntityKind, id string, cut bool) {
	return s.clip.kind, s.clip.id, s.clip.cut
}

// Paste drops the clipboard content into the destination: a copy for Copy,
// a move for Cut. A cut clipboard is emptied by the paste.
func (s *Session) Paste(ctx context.Context, destKind domain.EntityKind, destID string) error {
	if s.clip.empty() {
		return domain.ErrClipboardEmpty
	}
	clip := s.clip
	if clip.cut {
		if err := s.CutInsert(ctx, domain.LocalEdit, destKind, destID, clip.kind, clip.id); err != nil {
			return err
		}
		s.clip = clipboard{}
		return nil
	}
	if clip.kind == domain.KindClass {
		_, err := s.CopyPasteClass(ctx, domain.LocalEdit, destID, clip.id)
		return err
	}
	_, err := s.CopyPastePackage(ctx, domain.LocalEdit, destKind, destID, clip.id)
	return err
}

// CopyPastePackage pastes a copy of package srcID into the destination. The
// copy gets a fresh "copied|" prefix on every id and clones of the
// communications of the original classes. The new package id is returned.
func (s *Session) CopyPastePackage(ctx context.Context, edit domain.EditContext, destKind domain.EntityKind, destID, srcID string) (string, error) {
	m, err := s.editable(edit)
	if err != nil {
		return "", err
	}
	src, err := lookupPackage(m, srcID)
	if err != nil {
		return "", err
	}
	dest, err := destination(m, destKind, destID)
	if err != nil {
		return "", err
	}

	f := treeops.CopyPackageContent(m, src)
	prefix := treeops.FreshPrefix(m, treeops.CopyBase, f)
	treeops.ChangeID(f, prefix)
	p, created, _ := treeops.PastePackage(m, f, dest, prefix)
	s.changes.CopyPaste(m, p.ID)
	s.log.Debug("package pasted", "entity_id", p.ID, "source_id", srcID, "destination_id", destID,
		"communications_cloned", len(created), "origin", edit.Origin)
	s.changed("paste")

	return p.ID, s.publish(ctx, edit, wire.CopyPastePackage{
		DestinationEntity: destKind,
		DestinationID:     destID,
		ClippedEntityID:   srcID,
	})
}

// CopyPasteClass pastes a copy of class srcID into package destID and returns
// the new class id.
func (s *Session) CopyPasteClass(ctx context.Context, edit domain.EditContext, destID, srcID string) (string, error) {
	m, err := s.editable(edit)
	if err != nil {
		return "", err
	}
	src, err := lookupClass(m, srcID)
	if err != nil {
		return "", err
	}
	dest, err := lookupPackage(m, destID)
	if err != nil {
		return "", err
	}

	f := treeops.CopyClassContent(src)
	prefix := treeops.FreshPrefix(m, treeops.CopyBase, f)
	treeops.ChangeID(f, prefix)
	c, created, _ := treeops.PasteClass(m, f, dest, prefix)
	s.changes.CopyPaste(m, c.ID)
	s.log.Debug("class pasted", "entity_id", c.ID, "source_id", srcID, "destination_id", destID,
		"communications_cloned", len(created), "origin", edit.Origin)
	s.changed("paste")

	return c.ID, s.publish(ctx, edit, wire.CopyPasteClass{
		DestinationID:   destID,
		ClippedEntityID: srcID,
	})
}

// CutInsert moves package or class id into the destination. Communications
// of the moved classes keep their ids and point at the new application.
func (s *Session) CutInsert(ctx context.Context, edit domain.EditContext, destKind domain.EntityKind, destID string, kind domain.EntityKind, id string) error {
	m, err := s.editable(edit)
	if err != nil {
		return err
	}
	dest, err := destination(m, destKind, destID)
	if err != nil {
		return err
	}
	origin, ok := changelog.LocationOf(m, id)
	if !ok {
		return notFound(string(kind), id)
	}

	var updated []*domain.ClassCommunication
	switch {
	case kind.IsPackage():
		p, err := lookupPackage(m, id)
		if err != nil {
			return err
		}
		if dest.Package != nil && m.IsAncestor(p.ID, dest.Package.ID) {
			return fmt.Errorf("move package %q into its own subtree: %w", id, domain.ErrInvariant)
		}
		if !treeops.CanDeletePackage(m, p) {
			return fmt.Errorf("move package %q: last child of its parent: %w", id, domain.ErrInvariant)
		}
		updated = treeops.MovePackage(m, p, dest)
	case kind == domain.KindClass:
		c, err := lookupClass(m, id)
		if err != nil {
			return err
		}
		if dest.Package == nil {
			return fmt.Errorf("move class %q into an application: %w", id, domain.ErrInvariant)
		}
		if !treeops.CanDeleteClass(m, c) {
			return fmt.Errorf("move class %q: last child of its package: %w", id, domain.ErrInvariant)
		}
		updated = treeops.MoveClass(m, c, dest.Package)
	default:
		return fmt.Errorf("move %s: %w", kind, domain.ErrInvariant)
	}
	s.changes.CutInsert(m, id, origin)
	s.log.Debug("moved", "entity_type", kind, "entity_id", id, "destination_id", destID,
		"communications_updated", len(updated), "origin", edit.Origin)
	s.changed("move")

	return s.publish(ctx, edit, wire.CutAndInsert{
		DestinationEntity: destKind,
		DestinationID:     destID,
		ClippedEntity:     kind,
		ClippedEntityID:   id,
	})
}

// DuplicateApp clones application appID onto a new node next to its own and
// returns the id of the clone.
func (s *Session) DuplicateApp(ctx context.Context, edit domain.EditContext, appID string) (string, error) {
	m, err := s.editable(edit)
	if err != nil {
		return "", err
	}
	app, err := lookupApp(m, appID)
	if err != nil {
		return "", err
	}

	dup := treeops.DuplicateApplication(m, app)
	s.changes.CopyPaste(m, dup.Application.ID)
	s.log.Debug("application duplicated", "entity_id", dup.Application.ID, "source_id", appID,
		"communications_cloned", len(dup.Communications), "origin", edit.Origin)
	s.changed("duplicate")

	return dup.Application.ID, s.publish(ctx, edit, wire.DuplicateApp{AppID: appID})
}
