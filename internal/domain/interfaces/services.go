package interfaces

import (
	"context"

	"landscaper/internal/protocol/wire"
)

// Publisher sends a locally originated edit to the other participants.
type Publisher interface {
	Publish(ctx context.Context, msg wire.Message) error
}

// ChangeListener is notified after the session model changed, e.g. so the
// render layer can redraw.
type ChangeListener interface {
	LandscapeChanged(reason string)
}
