package app

import (
	"context"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"landscaper/internal/domain"
	"landscaper/internal/services/restructure"
)

// Script is a list of edits applied in order as if typed by the local user.
//
//	steps:
//	  - op: rename
//	    kind: CLAZZ
//	    id: cart1
//	    name: Basket
//	  - op: cut-insert
//	    kind: CLAZZ
//	    id: payment
//	    dest_kind: PACKAGE
//	    dest: catalog
//	  - op: undo
//	    entry: payment#CUT_INSERT
type Script struct {
	Steps []Step `yaml:"steps" validate:"required,min=1,dive"`
}

// Script operations.
const (
	OpRename              = "rename"
	OpCreateApp           = "create-app"
	OpCreatePackage       = "create-package"
	OpCreateSubPackage    = "create-subpackage"
	OpCreateClass         = "create-class"
	OpDelete              = "delete"
	OpCopyPaste           = "copy-paste"
	OpCutInsert           = "cut-insert"
	OpDuplicateApp        = "duplicate-app"
	OpCommunicate         = "communicate"
	OpDeleteCommunication = "delete-communication"
	OpRenameOperation     = "rename-operation"
	OpUndo                = "undo"
)

// Step is one edit. Which fields are required depends on Op.
type Step struct {
	Op       string            `yaml:"op" validate:"required,oneof=rename create-app create-package create-subpackage create-class delete copy-paste cut-insert duplicate-app communicate delete-communication rename-operation undo"`
	Kind     domain.EntityKind `yaml:"kind" validate:"required_if=Op rename,required_if=Op delete,required_if=Op copy-paste,required_if=Op cut-insert"`
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name" validate:"required_if=Op rename,required_if=Op rename-operation"`
	Language string            `yaml:"language"`
	DestKind domain.EntityKind `yaml:"dest_kind" validate:"required_if=Op copy-paste,required_if=Op cut-insert"`
	Dest     string            `yaml:"dest" validate:"required_if=Op copy-paste,required_if=Op cut-insert"`
	Source   string            `yaml:"source" validate:"required_if=Op communicate"`
	Target   string            `yaml:"target" validate:"required_if=Op communicate"`
	Method   string            `yaml:"method" validate:"required_if=Op communicate"`
	Entry    string            `yaml:"entry" validate:"required_if=Op undo"`
}

var scriptValidator = validator.New()

// ParseScript decodes and validates a YAML script.
func ParseScript(r io.Reader) (Script, error) {
	var sc Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return Script{}, fmt.Errorf("parse script: %w", err)
	}
	if err := scriptValidator.Struct(sc); err != nil {
		return Script{}, fmt.Errorf("invalid script: %w", err)
	}
	return sc, nil
}

// Apply enters restructure mode if needed and runs every step. It stops at
// the first failing step and reports its index.
func (a *App) Apply(ctx context.Context, sc Script) error {
	for i, st := range sc.Steps {
		err := a.Do(ctx, func(ctx context.Context, s *restructure.Session) error {
			if !s.Active() {
				s.Enter()
			}
			return st.apply(ctx, s)
		})
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
	}
	return nil
}

func (st Step) apply(ctx context.Context, s *restructure.Session) error {
	edit := domain.LocalEdit
	var err error
	switch st.Op {
	case OpRename:
		err = s.Rename(ctx, edit, st.Kind, st.ID, st.Name)
	case OpCreateApp:
		_, err = s.CreateApplication(ctx, edit, st.Name, st.Language, 0)
	case OpCreatePackage:
		_, err = s.CreatePackage(ctx, edit, st.ID, st.Name, 0)
	case OpCreateSubPackage:
		_, err = s.CreateSubPackage(ctx, edit, st.ID, st.Name, 0)
	case OpCreateClass:
		_, err = s.CreateClass(ctx, edit, st.ID, st.Name, 0)
	case OpDelete:
		err = s.Delete(ctx, edit, st.Kind, st.ID)
	case OpCopyPaste:
		if err = s.Copy(st.Kind, st.ID); err == nil {
			err = s.Paste(ctx, st.DestKind, st.Dest)
		}
	case OpCutInsert:
		if err = s.Cut(st.Kind, st.ID); err == nil {
			err = s.Paste(ctx, st.DestKind, st.Dest)
		}
	case OpDuplicateApp:
		_, err = s.DuplicateApp(ctx, edit, st.ID)
	case OpCommunicate:
		if err = s.SelectSource(st.Source); err == nil {
			if err = s.SelectTarget(st.Target); err == nil {
				_, err = s.CommitCommunication(ctx, st.Method)
			}
		}
	case OpDeleteCommunication:
		err = s.DeleteCommunication(ctx, edit, st.ID)
	case OpRenameOperation:
		err = s.RenameOperation(ctx, edit, st.ID, st.Name)
	case OpUndo:
		err = s.Undo(ctx, st.Entry)
	default:
		err = fmt.Errorf("unknown op %q", st.Op)
	}
	return err
}
