package interfaces

import (
	"context"

	domaintypes "landscaper/internal/domain/types"
)

// RelayClient is how a participant talks to the room of its landscape.
type RelayClient interface {
	Publish(ctx context.Context, envelope domaintypes.Envelope) error
	// Inbound yields envelopes from other participants in arrival order. The
	// channel is closed when the connection ends.
	Inbound() <-chan domaintypes.Envelope
	Close() error
}
