package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"landscaper/internal/domain"
	"landscaper/internal/logging"
	"landscaper/internal/model"
	"landscaper/internal/relay"
	"landscaper/internal/services/replication"
	"landscaper/internal/services/restructure"
	"landscaper/internal/store"
)

// Wire bundles the logger, the landscape store and the participant identity
// for the CLI.
type Wire struct {
	Config Config
	Log    *slog.Logger
	Self   domain.ParticipantID
	// Store is the relay when one is configured, the local snapshot
	// directory otherwise.
	Store domain.LandscapeStore
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logging.New(cfg.Logging("landscaper"))

	self := domain.ParticipantID(cfg.Participant)
	if self == "" {
		self = domain.ParticipantID(uuid.NewString())
	}

	var ls domain.LandscapeStore
	if cfg.RelayURL != "" {
		ls = relay.NewHTTP(cfg.RelayURL)
	} else {
		ls = store.NewLandscapeFileStore(cfg.StoreDir)
	}

	return &Wire{
		Config: cfg,
		Log:    log.With("participant", self),
		Self:   self,
		Store:  ls,
	}, nil
}

// Online reports whether edits are exchanged through a relay.
func (w *Wire) Online() bool { return w.Config.RelayURL != "" }

// Open loads the landscape of token from the store and opens it.
func (w *Wire) Open(ctx context.Context, token domain.LandscapeToken) (*App, error) {
	ls, err := w.Store.LoadLandscape(ctx, token)
	if err != nil {
		return nil, err
	}
	return w.OpenLandscape(ctx, ls)
}

// OpenLandscape builds a session on ls. When a relay is configured the
// participant joins the room of ls.Token and local edits are published.
func (w *Wire) OpenLandscape(ctx context.Context, ls domain.Landscape) (*App, error) {
	m, err := model.FromStructure(ls)
	if err != nil {
		return nil, fmt.Errorf("open landscape %s: %w", ls.Token, err)
	}
	session := restructure.New(m, nil, w.Log)
	a := &App{Session: session, log: w.Log}
	if !w.Online() {
		return a, nil
	}

	rc, err := relay.Dial(ctx, w.Config.RelayURL, ls.Token, relay.DefaultBackoff, w.Log)
	if err != nil {
		return nil, err
	}
	d := replication.New(w.Self, session, rc, w.Store, w.Log)
	session.SetPublisher(d)
	a.relay = rc
	a.Dispatcher = d
	a.Loop = replication.NewLoop(d)
	return a, nil
}
