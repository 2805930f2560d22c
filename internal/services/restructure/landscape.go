package restructure

import (
	"context"
	"fmt"

	"landscaper/internal/domain"
	"landscaper/internal/model"
	"landscaper/internal/protocol/wire"
)

// ChangeLandscape replaces the live model with ls and leaves restructure
// mode, dropping all session state.
func (s *Session) ChangeLandscape(ctx context.Context, edit domain.EditContext, ls domain.Landscape) error {
	m, err := model.FromStructure(ls)
	if err != nil {
		return fmt.Errorf("change landscape %s: %w", ls.Token, err)
	}
	s.live = m
	s.Reset()
	s.seq = 0
	s.log.Info("landscape changed", "landscape_token", ls.Token, "origin", edit.Origin)
	s.changed("landscape")

	return s.publish(ctx, edit, wire.ChangeLandscape{LandscapeToken: ls.Token})
}

// Snapshot returns the nested form of the model currently shown.
func (s *Session) Snapshot() domain.Landscape { return s.Model().Structure() }
