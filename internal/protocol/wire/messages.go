package wire

import (
	"landscaper/internal/domain/types"
)

// Event names as they appear in Envelope.Event.
const (
	EventUpdate                  = "restructure-update"
	EventCreateOrDelete          = "restructure-create-or-delete"
	EventCopyPastePackage        = "restructure-copy-and-paste-package"
	EventCopyPasteClass          = "restructure-copy-and-paste-class"
	EventCutAndInsert            = "restructure-cut-and-insert"
	EventCommunication           = "restructure-communication"
	EventDeleteCommunication     = "restructure-delete-communication"
	EventRenameOperation         = "restructure-rename-operation"
	EventRestoreApp              = "restructure-restore-app"
	EventRestorePackage          = "restructure-restore-package"
	EventRestoreClass            = "restructure-restore-class"
	EventDuplicateApp            = "restructure-duplicate-app"
	EventChangelogRemoveEntry    = "changelog-remove-entry"
	EventChangelogRestoreEntries = "changelog-restore-entries"
	EventChangeLandscape         = "change-landscape"
)

// Action values of CreateOrDelete.
const (
	ActionCreate = "CREATE"
	ActionDelete = "DELETE"
)

// Message is one replicated edit. The concrete types below are the only
// implementations.
type Message interface {
	Event() string
	isMessage()
}

// Update renames an application, package or class.
type Update struct {
	EntityType types.EntityKind `json:"entityType" validate:"required,renamable"`
	EntityID   string           `json:"entityId" validate:"required"`
	NewName    string           `json:"newName"`
	AppID      string           `json:"appId,omitempty"`
	Undo       bool             `json:"undo"`
}

// CreateOrDelete creates or deletes an entity.
//
// For CREATE, EntityID is the parent (application for PACKAGE, package for
// SUBPACKAGE and CLAZZ, empty for APP) and Seq fixes the ids of the new
// entities. For DELETE, EntityID is the entity itself.
type CreateOrDelete struct {
	Action     string           `json:"action" validate:"required,oneof=CREATE DELETE"`
	EntityType types.EntityKind `json:"entityType" validate:"required,renamable"`
	Name       string           `json:"name,omitempty"`
	Language   string           `json:"language,omitempty"`
	EntityID   string           `json:"entityId" validate:"required_unless=EntityType APP"`
	Seq        int              `json:"seq,omitempty" validate:"required_if=Action CREATE,gte=0"`
	Undo       bool             `json:"undo"`
}

// CopyPastePackage pastes a copy of a package into an application or package.
type CopyPastePackage struct {
	DestinationEntity types.EntityKind `json:"destinationEntity" validate:"required,container"`
	DestinationID     string           `json:"destinationId" validate:"required"`
	ClippedEntityID   string           `json:"clippedEntityId" validate:"required"`
}

// CopyPasteClass pastes a copy of a class into a package.
type CopyPasteClass struct {
	DestinationID   string `json:"destinationId" validate:"required"`
	ClippedEntityID string `json:"clippedEntityId" validate:"required"`
}

// CutAndInsert moves a package or class.
type CutAndInsert struct {
	DestinationEntity types.EntityKind `json:"destinationEntity" validate:"required,container"`
	DestinationID     string           `json:"destinationId" validate:"required"`
	ClippedEntity     types.EntityKind `json:"clippedEntity" validate:"required,movable"`
	ClippedEntityID   string           `json:"clippedEntityId" validate:"required"`
}

// Communication adds a communication. With Undo set, the communication
// CommID removed earlier is put back instead.
type Communication struct {
	SourceClassID string `json:"sourceClassId" validate:"required"`
	TargetClassID string `json:"targetClassId" validate:"required"`
	MethodName    string `json:"methodName" validate:"required"`
	CommID        string `json:"commId,omitempty" validate:"required_if=Undo true"`
	Undo          bool   `json:"undo,omitempty"`
}

type DeleteCommunication struct {
	CommID string `json:"commId" validate:"required"`
	Undo   bool   `json:"undo"`
}

type RenameOperation struct {
	CommID  string `json:"commId" validate:"required"`
	NewName string `json:"newName" validate:"required"`
	Undo    bool   `json:"undo"`
}

// RestoreApp brings back a deleted application.
type RestoreApp struct {
	AppID            string `json:"appId" validate:"required"`
	UndoCutOperation bool   `json:"undoCutOperation"`
}

// RestorePackage brings back a deleted package, or with UndoCutOperation
// moves a cut package back to where it came from.
type RestorePackage struct {
	PackageID        string `json:"pckgId" validate:"required"`
	UndoCutOperation bool   `json:"undoCutOperation"`
}

// RestoreClass is RestorePackage for classes.
type RestoreClass struct {
	AppID            string `json:"appId"`
	ClassID          string `json:"clazzId" validate:"required"`
	UndoCutOperation bool   `json:"undoCutOperation"`
}

type DuplicateApp struct {
	AppID string `json:"appId" validate:"required"`
}

// ChangelogRemoveEntry drops changelog entries without touching the model.
type ChangelogRemoveEntry struct {
	EntryIDs []string `json:"entryIds" validate:"required,min=1,dive,required"`
}

// ChangelogRestoreEntries splices back the entries put aside by a deletion.
type ChangelogRestoreEntries struct {
	Key string `json:"key" validate:"required"`
}

// ChangeLandscape switches every participant to another landscape.
type ChangeLandscape struct {
	LandscapeToken types.LandscapeToken `json:"landscapeToken" validate:"required"`
}

func (Update) Event() string                  { return EventUpdate }
func (CreateOrDelete) Event() string          { return EventCreateOrDelete }
func (CopyPastePackage) Event() string        { return EventCopyPastePackage }
func (CopyPasteClass) Event() string          { return EventCopyPasteClass }
func (CutAndInsert) Event() string            { return EventCutAndInsert }
func (Communication) Event() string           { return EventCommunication }
func (DeleteCommunication) Event() string     { return EventDeleteCommunication }
func (RenameOperation) Event() string         { return EventRenameOperation }
func (RestoreApp) Event() string              { return EventRestoreApp }
func (RestorePackage) Event() string          { return EventRestorePackage }
func (RestoreClass) Event() string            { return EventRestoreClass }
func (DuplicateApp) Event() string            { return EventDuplicateApp }
func (ChangelogRemoveEntry) Event() string    { return EventChangelogRemoveEntry }
func (ChangelogRestoreEntries) Event() string { return EventChangelogRestoreEntries }
func (ChangeLandscape) Event() string         { return EventChangeLandscape }

func (Update) isMessage()                  {}
func (CreateOrDelete) isMessage()          {}
func (CopyPastePackage) isMessage()        {}
func (CopyPasteClass) isMessage()          {}
func (CutAndInsert) isMessage()            {}
func (Communication) isMessage()           {}
func (DeleteCommunication) isMessage()     {}
func (RenameOperation) isMessage()         {}
func (RestoreApp) isMessage()              {}
func (RestorePackage) isMessage()          {}
func (RestoreClass) isMessage()            {}
func (DuplicateApp) isMessage()            {}
func (ChangelogRemoveEntry) isMessage()    {}
func (ChangelogRestoreEntries) isMessage() {}
func (ChangeLandscape) isMessage()         {}
