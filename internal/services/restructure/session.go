package restructure

import (
	"context"
	"fmt"
	"log/slog"

	"landscaper/internal/changelog"
	"landscaper/internal/domain"
	"landscaper/internal/model"
	"landscaper/internal/protocol/wire"
	"landscaper/internal/treeops"
)

// Session owns the landscape a participant edits.
//
// Outside restructure mode the live model is read-only. Enter substitutes a
// private working copy; every edit goes to that copy and to the changelog
// until Exit commits or drops it.
//
// Every mutating method takes a domain.EditContext:
//   - Local edits must happen in restructure mode and are published through
//     the Publisher once applied.
//   - Remote edits are replays of a peer's message. They enter restructure
//     mode on demand and are never published again.
//
// Lookups that miss return an error wrapping domain.ErrNotFound and leave
// the model and the changelog untouched.
//
// A Session is not safe for concurrent use. The replication loop serializes
// local actions and inbound messages onto one goroutine.
type Session struct {
	log       *slog.Logger
	publisher domain.Publisher
	listener  domain.ChangeListener

	live    *model.Model
	working *model.Model
	changes *changelog.Log

	clip      clipboard
	selection selection
	trash     map[string]trashed
	seq       int
}

// New constructs a Session over live. publisher may be nil, in which case
// local edits stay local.
func New(live *model.Model, publisher domain.Publisher, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		log:       log.With("component", "restructure"),
		publisher: publisher,
		live:      live,
		changes:   changelog.New(),
		trash:     make(map[string]trashed),
	}
}

// SetPublisher replaces the publisher used for local edits.
func (s *Session) SetPublisher(p domain.Publisher) { s.publisher = p }

// SetListener registers l to be told after every applied edit.
func (s *Session) SetListener(l domain.ChangeListener) { s.listener = l }

// ---------- Mode ----------

// Active reports whether restructure mode is on.
func (s *Session) Active() bool { return s.working != nil }

// Enter switches to restructure mode by snapshotting the live model. It is
// a no-op when already active.
func (s *Session) Enter() {
	if s.working != nil {
		return
	}
	s.working = s.live.Clone()
	s.log.Info("restructure mode entered", "landscape_token", s.live.Token())
}

// Exit leaves restructure mode. With commit the working copy becomes the
// live model; otherwise it is dropped. The changelog, clipboard and trash
// are cleared either way.
func (s *Session) Exit(commit bool) {
	if s.working == nil {
		return
	}
	if commit {
		s.live = s.working
	}
	s.working = nil
	s.clear()
	s.log.Info("restructure mode left", "commit", commit, "landscape_token", s.live.Token())
	s.changed("exit")
}

// Reset drops the working copy and all session state.
func (s *Session) Reset() {
	s.working = nil
	s.clear()
}

func (s *Session) clear() {
	s.changes.Reset()
	s.clip = clipboard{}
	s.selection = selection{}
	s.trash = make(map[string]trashed)
}

// Model returns the model currently shown: the working copy in restructure
// mode, the live model otherwise.
func (s *Session) Model() *model.Model {
	if s.working != nil {
		return s.working
	}
	return s.live
}

// Token returns the landscape token of the live model.
func (s *Session) Token() domain.LandscapeToken { return s.live.Token() }

// Changelog exposes the session changelog.
func (s *Session) Changelog() *changelog.Log { return s.changes }

// ChangelogLines renders the changelog against the current model.
func (s *Session) ChangelogLines() []string { return s.changes.Lines(s.Model()) }

// ---------- Helpers ----------

// editable returns the working copy an edit applies to.
func (s *Session) editable(edit domain.EditContext) (*model.Model, error) {
	if s.working == nil {
		if edit.IsLocal() {
			return nil, domain.ErrNotRestructuring
		}
		s.Enter()
	}
	return s.working, nil
}

// Replay runs fn, which applies one remote edit. Remote edits enter
// restructure mode on demand; when fn fails on a session that was not in
// restructure mode, the working copy entered for it is dropped again, so a
// replay that misses leaves the session as it found it.
func (s *Session) Replay(fn func() error) error {
	active := s.Active()
	err := fn()
	if err != nil && !active && s.working != nil {
		s.working = nil
		s.log.Debug("restructure mode dropped after failed replay", "error", err)
	}
	return err
}

// publish sends msg for local edits. The edit is already applied when this
// runs; a failed publish does not undo it.
func (s *Session) publish(ctx context.Context, edit domain.EditContext, msg wire.Message) error {
	if !edit.IsLocal() || s.publisher == nil {
		return nil
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.log.Warn("publish failed", "event", msg.Event(), "error", err)
		return fmt.Errorf("publish %s: %w", msg.Event(), err)
	}
	return nil
}

func (s *Session) changed(reason string) {
	if s.listener != nil {
		s.listener.LandscapeChanged(reason)
	}
}

// nextSeq returns the sequence number for a create. Zero asks for a fresh
// one; a given seq (from a peer) must not collide with existing ids.
func (s *Session) nextSeq(m *model.Model, seq int) (int, error) {
	if seq == 0 {
		seq = treeops.NextSeq(m, s.seq+1)
	} else if treeops.NextSeq(m, seq) != seq {
		return 0, fmt.Errorf("seq %d: %w", seq, domain.ErrDuplicateID)
	}
	if seq > s.seq {
		s.seq = seq
	}
	return seq, nil
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %q: %w", what, id, domain.ErrNotFound)
}

func lookupApp(m *model.Model, id string) (*domain.Application, error) {
	if a, ok := m.Application(id); ok {
		return a, nil
	}
	return nil, notFound("application", id)
}

func lookupPackage(m *model.Model, id string) (*domain.Package, error) {
	if p, ok := m.Package(id); ok {
		return p, nil
	}
	return nil, notFound("package", id)
}

func lookupClass(m *model.Model, id string) (*domain.Class, error) {
	if c, ok := m.Class(id); ok {
		return c, nil
	}
	return nil, notFound("class", id)
}

func lookupCommunication(m *model.Model, id string) (*domain.ClassCommunication, error) {
	if c, ok := m.Communication(id); ok {
		return c, nil
	}
	return nil, notFound("communication", id)
}

// destination resolves a paste or move target.
func destination(m *model.Model, kind domain.EntityKind, id string) (treeops.Destination, error) {
	switch {
	case kind == domain.KindApp:
		a, err := lookupApp(m, id)
		if err != nil {
			return treeops.Destination{}, err
		}
		return treeops.ToApp(a), nil
	case kind.IsPackage():
		p, err := lookupPackage(m, id)
		if err != nil {
			return treeops.Destination{}, err
		}
		return treeops.ToPackage(p), nil
	default:
		return treeops.Destination{}, fmt.Errorf("destination kind %s: %w", kind, domain.ErrInvariant)
	}
}

// kindOf returns the entity kind of a package: top-level or nested.
func kindOf(p *domain.Package) domain.EntityKind {
	if p.IsTopLevel() {
		return domain.KindPackage
	}
	return domain.KindSubPackage
}
