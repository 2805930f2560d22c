package domain

import (
	interfaces "landscaper/internal/domain/interfaces"
	types "landscaper/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	LandscapeToken       = types.LandscapeToken
	ParticipantID        = types.ParticipantID
	EntityKind           = types.EntityKind
	EditOrigin           = types.EditOrigin
	EditDirection        = types.EditDirection
	EditContext          = types.EditContext
	Node                 = types.Node
	Application          = types.Application
	Package              = types.Package
	Class                = types.Class
	Method               = types.Method
	ClassCommunication   = types.ClassCommunication
	CommunicationMetrics = types.CommunicationMetrics
	Landscape            = types.Landscape
	StructureNode        = types.StructureNode
	StructureApplication = types.StructureApplication
	StructurePackage     = types.StructurePackage
	StructureClass       = types.StructureClass
	Envelope             = types.Envelope
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	LandscapeStore = interfaces.LandscapeStore
	RelayClient    = interfaces.RelayClient
	Publisher      = interfaces.Publisher
	ChangeListener = interfaces.ChangeListener
)

const (
	KindApp           = types.KindApp
	KindPackage       = types.KindPackage
	KindSubPackage    = types.KindSubPackage
	KindClass         = types.KindClass
	KindCommunication = types.KindCommunication
)

var (
	LocalEdit = types.LocalEdit
	LocalUndo = types.LocalUndo
)

// RemoteEdit builds the context for replaying a peer's edit.
func RemoteEdit(undo bool) EditContext { return types.RemoteEdit(undo) }
