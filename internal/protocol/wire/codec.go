package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"landscaper/internal/domain/types"
)

// ErrUnknownEvent is returned by Decode for an event name it does not know.
var ErrUnknownEvent = errors.New("unknown event")

// validate checks payload tags. Initialized in init() with the entity kind
// rules.
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("renamable", kindIn(types.KindApp, types.KindPackage, types.KindSubPackage, types.KindClass))
	_ = validate.RegisterValidation("container", kindIn(types.KindApp, types.KindPackage, types.KindSubPackage))
	_ = validate.RegisterValidation("movable", kindIn(types.KindPackage, types.KindSubPackage, types.KindClass))
}

func kindIn(kinds ...types.EntityKind) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := types.EntityKind(fl.Field().String())
		for _, k := range kinds {
			if v == k {
				return true
			}
		}
		return false
	}
}

// Validate checks the payload of msg.
func Validate(msg Message) error {
	if err := validate.Struct(msg); err != nil {
		return fmt.Errorf("%s: %w", msg.Event(), err)
	}
	return nil
}

type decodeFunc func(payload []byte) (Message, error)

func decodeAs[T Message](payload []byte) (Message, error) {
	var msg T
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, err
	}
	return msg, nil
}

var decoders = map[string]decodeFunc{
	EventUpdate:                  decodeAs[Update],
	EventCreateOrDelete:          decodeAs[CreateOrDelete],
	EventCopyPastePackage:        decodeAs[CopyPastePackage],
	EventCopyPasteClass:          decodeAs[CopyPasteClass],
	EventCutAndInsert:            decodeAs[CutAndInsert],
	EventCommunication:           decodeAs[Communication],
	EventDeleteCommunication:     decodeAs[DeleteCommunication],
	EventRenameOperation:         decodeAs[RenameOperation],
	EventRestoreApp:              decodeAs[RestoreApp],
	EventRestorePackage:          decodeAs[RestorePackage],
	EventRestoreClass:            decodeAs[RestoreClass],
	EventDuplicateApp:            decodeAs[DuplicateApp],
	EventChangelogRemoveEntry:    decodeAs[ChangelogRemoveEntry],
	EventChangelogRestoreEntries: decodeAs[ChangelogRestoreEntries],
	EventChangeLandscape:         decodeAs[ChangeLandscape],
}

// Decode parses and validates the payload of event.
func Decode(event string, payload []byte) (Message, error) {
	dec, ok := decoders[event]
	if !ok {
		return nil, fmt.Errorf("%q: %w", event, ErrUnknownEvent)
	}
	msg, err := dec(payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", event, err)
	}
	if err := Validate(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Seal wraps msg into an envelope from sender for token, with a fresh id.
func Seal(sender types.ParticipantID, token types.LandscapeToken, msg Message) (types.Envelope, error) {
	if err := Validate(msg); err != nil {
		return types.Envelope{}, err
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return types.Envelope{}, fmt.Errorf("encode %s: %w", msg.Event(), err)
	}
	return types.Envelope{
		ID:        uuid.NewString(),
		Sender:    sender,
		Token:     token,
		Event:     msg.Event(),
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Open decodes the message carried by env.
func Open(env types.Envelope) (Message, error) {
	return Decode(env.Event, env.Payload)
}
