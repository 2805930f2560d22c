package replication

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"landscaper/internal/domain"
	"landscaper/internal/protocol/wire"
	"landscaper/internal/services/restructure"
)

// DefaultSeenCapacity bounds the number of envelope ids kept for dedupe.
const DefaultSeenCapacity = 4096

// Dispatcher connects a restructure session to the relay.
//
// Outbound, it seals local edits into envelopes and publishes them.
// Inbound, it drops envelopes it sent itself or has already applied, decodes
// the rest and replays them on the session as remote edits.
//
// A lookup miss during replay means this replica and the sender diverged.
// It is logged, counted in landscaper_replication_divergence_total and
// returned; the model is left as it was.
type Dispatcher struct {
	self    domain.ParticipantID
	session *restructure.Session
	relay   domain.RelayClient
	store   domain.LandscapeStore
	log     *slog.Logger
	seen    *seenSet
}

// New constructs a Dispatcher for participant self. store is used to load
// the landscape named by a change-landscape message and may be nil.
func New(
	self domain.ParticipantID,
	session *restructure.Session,
	relay domain.RelayClient,
	store domain.LandscapeStore,
	log *slog.Logger,
) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		self:    self,
		session: session,
		relay:   relay,
		store:   store,
		log:     log.With("component", "replication", "participant", self),
		seen:    newSeenSet(DefaultSeenCapacity),
	}
}

// Self returns the participant id envelopes are sent as.
func (d *Dispatcher) Self() domain.ParticipantID { return d.self }

// Publish seals msg and sends it to the room.
func (d *Dispatcher) Publish(ctx context.Context, msg wire.Message) error {
	env, err := wire.Seal(d.self, d.session.Token(), msg)
	if err != nil {
		messagesTotal.WithLabelValues(directionOut, msg.Event(), resultInvalid).Inc()
		return err
	}
	d.seen.add(env.ID)
	if err := d.relay.Publish(ctx, env); err != nil {
		messagesTotal.WithLabelValues(directionOut, msg.Event(), resultFailed).Inc()
		return err
	}
	messagesTotal.WithLabelValues(directionOut, msg.Event(), resultSent).Inc()
	d.log.Debug("published", "event", msg.Event(), "message_id", env.ID)
	return nil
}

// Handle applies one inbound envelope. Echoes, duplicates and envelopes for
// another landscape are dropped without error.
func (d *Dispatcher) Handle(ctx context.Context, env domain.Envelope) error {
	ctx, span := tracer.Start(ctx, "replication.Handle",
		trace.WithAttributes(
			attribute.String("replication.event", env.Event),
			attribute.String("replication.message_id", env.ID),
			attribute.String("replication.sender", env.Sender.String()),
		),
	)
	defer span.End()

	if env.Sender == d.self {
		messagesTotal.WithLabelValues(directionIn, env.Event, resultEcho).Inc()
		return nil
	}
	if !d.seen.add(env.ID) {
		messagesTotal.WithLabelValues(directionIn, env.Event, resultDuplicate).Inc()
		d.log.Debug("duplicate dropped", "event", env.Event, "message_id", env.ID)
		return nil
	}
	if env.Token != d.session.Token() && env.Event != wire.EventChangeLandscape {
		messagesTotal.WithLabelValues(directionIn, env.Event, resultForeign).Inc()
		return nil
	}

	msg, err := wire.Open(env)
	if err != nil {
		messagesTotal.WithLabelValues(directionIn, env.Event, resultInvalid).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid message")
		d.log.Warn("invalid message", "event", env.Event, "message_id", env.ID, "error", err)
		return err
	}

	start := time.Now()
	err = d.session.Replay(func() error { return d.apply(ctx, msg) })
	applyDuration.WithLabelValues(env.Event).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		messagesTotal.WithLabelValues(directionIn, env.Event, resultApplied).Inc()
		span.SetStatus(codes.Ok, "")
		return nil
	case errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDuplicateID):
		messagesTotal.WithLabelValues(directionIn, env.Event, resultDiverged).Inc()
		divergenceTotal.WithLabelValues(env.Event).Inc()
		d.log.Warn("replica diverged", "event", env.Event, "message_id", env.ID, "sender", env.Sender, "error", err)
	default:
		messagesTotal.WithLabelValues(directionIn, env.Event, resultFailed).Inc()
		d.log.Error("apply failed", "event", env.Event, "message_id", env.ID, "sender", env.Sender, "error", err)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// apply replays msg on the session. Every message type is handled here.
func (d *Dispatcher) apply(ctx context.Context, msg wire.Message) error {
	s := d.session
	switch m := msg.(type) {
	case wire.Update:
		return s.Rename(ctx, domain.RemoteEdit(m.Undo), m.EntityType, m.EntityID, m.NewName)

	case wire.CreateOrDelete:
		edit := domain.RemoteEdit(m.Undo)
		if m.Action == wire.ActionDelete {
			return s.Delete(ctx, edit, m.EntityType, m.EntityID)
		}
		var err error
		switch m.EntityType {
		case domain.KindApp:
			_, err = s.CreateApplication(ctx, edit, m.Name, m.Language, m.Seq)
		case domain.KindPackage:
			_, err = s.CreatePackage(ctx, edit, m.EntityID, m.Name, m.Seq)
		case domain.KindSubPackage:
			_, err = s.CreateSubPackage(ctx, edit, m.EntityID, m.Name, m.Seq)
		case domain.KindClass:
			_, err = s.CreateClass(ctx, edit, m.EntityID, m.Name, m.Seq)
		default:
			err = fmt.Errorf("create %s: %w", m.EntityType, domain.ErrInvariant)
		}
		return err

	case wire.CopyPastePackage:
		_, err := s.CopyPastePackage(ctx, domain.RemoteEdit(false), m.DestinationEntity, m.DestinationID, m.ClippedEntityID)
		return err

	case wire.CopyPasteClass:
		_, err := s.CopyPasteClass(ctx, domain.RemoteEdit(false), m.DestinationID, m.ClippedEntityID)
		return err

	case wire.CutAndInsert:
		return s.CutInsert(ctx, domain.RemoteEdit(false), m.DestinationEntity, m.DestinationID, m.ClippedEntity, m.ClippedEntityID)

	case wire.Communication:
		if m.Undo {
			return s.RestoreCommunication(ctx, domain.RemoteEdit(true), m.CommID)
		}
		_, err := s.AddCommunication(ctx, domain.RemoteEdit(false), m.SourceClassID, m.TargetClassID, m.MethodName)
		return err

	case wire.DeleteCommunication:
		return s.DeleteCommunication(ctx, domain.RemoteEdit(m.Undo), m.CommID)

	case wire.RenameOperation:
		return s.RenameOperation(ctx, domain.RemoteEdit(m.Undo), m.CommID, m.NewName)

	case wire.RestoreApp:
		return s.RestoreApp(ctx, domain.RemoteEdit(true), m.AppID, m.UndoCutOperation)

	case wire.RestorePackage:
		return s.RestorePackage(ctx, domain.RemoteEdit(true), m.PackageID, m.UndoCutOperation)

	case wire.RestoreClass:
		return s.RestoreClass(ctx, domain.RemoteEdit(true), m.AppID, m.ClassID, m.UndoCutOperation)

	case wire.DuplicateApp:
		_, err := s.DuplicateApp(ctx, domain.RemoteEdit(false), m.AppID)
		return err

	case wire.ChangelogRemoveEntry:
		return s.DiscardEntries(ctx, domain.RemoteEdit(true), m.EntryIDs...)

	case wire.ChangelogRestoreEntries:
		return s.RestoreEntries(ctx, domain.RemoteEdit(true), m.Key)

	case wire.ChangeLandscape:
		return d.changeLandscape(ctx, m.LandscapeToken)

	default:
		return fmt.Errorf("unhandled event %s", msg.Event())
	}
}

// changeLandscape switches to token unless it is already the local one: a
// participant must not reload because of its own broadcast coming back.
func (d *Dispatcher) changeLandscape(ctx context.Context, token domain.LandscapeToken) error {
	if token == d.session.Token() {
		d.log.Debug("change-landscape ignored", "landscape_token", token)
		return nil
	}
	if d.store == nil {
		return fmt.Errorf("change landscape %s: no landscape store", token)
	}
	ls, err := d.store.LoadLandscape(ctx, token)
	if err != nil {
		return fmt.Errorf("change landscape %s: %w", token, err)
	}
	return d.session.ChangeLandscape(ctx, domain.RemoteEdit(false), ls)
}

// Compile-time assertion that Dispatcher implements domain.Publisher.
var _ domain.Publisher = (*Dispatcher)(nil)
