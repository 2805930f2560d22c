package app

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"landscaper/internal/domain"
	"landscaper/internal/services/replication"
	"landscaper/internal/services/restructure"
)

// App is one participant: a restructure session and, when online, its
// dispatcher and event loop.
type App struct {
	Session    *restructure.Session
	Dispatcher *replication.Dispatcher
	Loop       *replication.Loop

	relay  domain.RelayClient
	log    *slog.Logger
	cancel context.CancelFunc
	group  *errgroup.Group
}

// Online reports whether the app is connected to a relay.
func (a *App) Online() bool { return a.Loop != nil }

// Start runs the event loop in the background. It is a no-op offline.
func (a *App) Start(ctx context.Context) {
	if a.Loop == nil || a.group != nil {
		return
	}
	ctx, a.cancel = context.WithCancel(ctx)
	a.group, ctx = errgroup.WithContext(ctx)
	a.group.Go(func() error { return a.Loop.Run(ctx) })
	a.log.Debug("event loop started", "landscape_token", a.Session.Token())
}

// Do runs fn against the session. Online it runs on the event loop so it
// never interleaves with a replayed edit.
func (a *App) Do(ctx context.Context, fn func(ctx context.Context, s *restructure.Session) error) error {
	if a.Loop == nil || a.group == nil {
		return fn(ctx, a.Session)
	}
	return a.Loop.Do(ctx, func(ctx context.Context) error { return fn(ctx, a.Session) })
}

// Wait blocks until the event loop stops.
func (a *App) Wait() error {
	if a.group == nil {
		return nil
	}
	return a.group.Wait()
}

// Close leaves the room and stops the loop.
func (a *App) Close() error {
	var err error
	if a.relay != nil {
		err = a.relay.Close()
	}
	if a.cancel != nil {
		a.cancel()
	}
	if werr := a.Wait(); werr != nil && !errors.Is(werr, context.Canceled) {
		err = errors.Join(err, werr)
	}
	return err
}
