package interfaces

import (
	"context"

	domaintypes "landscaper/internal/domain/types"
)

// LandscapeStore loads and saves landscape snapshots by token.
type LandscapeStore interface {
	LoadLandscape(ctx context.Context, token domaintypes.LandscapeToken) (domaintypes.Landscape, error)
	SaveLandscape(ctx context.Context, landscape domaintypes.Landscape) error
}
