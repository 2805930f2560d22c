package restructure

import (
	"context"
	"errors"

	"landscaper/internal/domain"
	"landscaper/internal/protocol/wire"
	"landscaper/internal/treeops"
)

type selection struct {
	source string
	target string
}

// SelectSource marks class id as the caller of the next communication.
func (s *Session) SelectSource(id string) error {
	if _, err := lookupClass(s.Model(), id); err != nil {
		return err
	}
	s.selection.source = id
	return nil
}

// SelectTarget marks class id as the callee of the next communication.
func (s *Session) SelectTarget(id string) error {
	if _, err := lookupClass(s.Model(), id); err != nil {
		return err
	}
	s.selection.target = id
	return nil
}

// CommitCommunication creates a communication between the selected classes
// calling method, then clears the selection.
func (s *Session) CommitCommunication(ctx context.Context, method string) (string, error) {
	if s.selection.source == "" || s.selection.target == "" {
		return "", domain.ErrNoSelection
	}
	id, err := s.AddCommunication(ctx, domain.LocalEdit, s.selection.source, s.selection.target, method)
	if err != nil {
		return "", err
	}
	s.selection = selection{}
	return id, nil
}

// AddCommunication creates a communication from class srcID to class tgtID
// calling method, and adds the method to the target class. The id is derived
// from the three arguments.
func (s *Session) AddCommunication(ctx context.Context, edit domain.EditContext, srcID, tgtID, method string) (string, error) {
	m, err := s.editable(edit)
	if err != nil {
		return "", err
	}
	src, err := lookupClass(m, srcID)
	if err != nil {
		return "", err
	}
	tgt, err := lookupClass(m, tgtID)
	if err != nil {
		return "", err
	}

	c := treeops.AddCommunication(m, src, tgt, method)
	s.changes.AddCommunication(m, c.ID)
	s.log.Debug("communication added", "entity_id", c.ID, "origin", edit.Origin)
	s.changed("communication")

	return c.ID, s.publish(ctx, edit, wire.Communication{
		SourceClassID: srcID,
		TargetClassID: tgtID,
		MethodName:    method,
	})
}

// RestoreCommunication puts back communication commID removed earlier in the
// session. Both of its classes must exist.
func (s *Session) RestoreCommunication(ctx context.Context, edit domain.EditContext, commID string) error {
	m, err := s.editable(edit)
	if err != nil {
		return err
	}
	t, ok := s.trash[commID]
	if !ok || t.comm == nil {
		return notFound("removed communication", commID)
	}
	if !treeops.RestoreCommunication(m, *t.comm) {
		return notFound("endpoints of communication", commID)
	}
	delete(s.trash, commID)
	s.changed("communication")

	return s.publish(ctx, edit, wire.Communication{
		SourceClassID: t.comm.SourceClassID,
		TargetClassID: t.comm.TargetClassID,
		MethodName:    t.comm.OperationName,
		CommID:        commID,
		Undo:          true,
	})
}

// DeleteCommunication removes communication commID.
func (s *Session) DeleteCommunication(ctx context.Context, edit domain.EditContext, commID string) error {
	m, err := s.editable(edit)
	if err != nil {
		return err
	}
	c, err := lookupCommunication(m, commID)
	if err != nil {
		return err
	}

	saved := *c
	if cancelled := s.changes.Delete(m, commID); !cancelled {
		s.trash[commID] = trashed{comm: &saved}
	}
	treeops.RemoveCommunication(m, c)
	s.log.Debug("communication deleted", "entity_id", commID, "origin", edit.Origin, "undo", edit.IsUndo())
	s.changed("communication")

	return s.publish(ctx, edit, wire.DeleteCommunication{CommID: commID, Undo: edit.IsUndo()})
}

// RenameOperation renames the operation of communication commID together
// with the method it calls.
func (s *Session) RenameOperation(ctx context.Context, edit domain.EditContext, commID, name string) error {
	m, err := s.editable(edit)
	if err != nil {
		return err
	}
	c, err := lookupCommunication(m, commID)
	if err != nil {
		return err
	}

	old := treeops.RenameOperation(m, c, name)
	s.changes.Rename(edit, m, commID, old, name)
	s.changed("communication")

	return s.publish(ctx, edit, wire.RenameOperation{CommID: commID, NewName: name, Undo: edit.IsUndo()})
}

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }
