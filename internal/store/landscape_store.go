package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"landscaper/internal/domain"
)

// tokenPattern keeps tokens usable as file names.
var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// LandscapeFileStore keeps one landscape per token as <dir>/<token>.json.
type LandscapeFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewLandscapeFileStore returns a store rooted at dir. The directory is
// created on first save.
func NewLandscapeFileStore(dir string) *LandscapeFileStore {
	return &LandscapeFileStore{dir: dir}
}

var _ domain.LandscapeStore = (*LandscapeFileStore)(nil)

// LoadLandscape returns the landscape saved under token, or an error wrapping
// domain.ErrNotFound.
func (s *LandscapeFileStore) LoadLandscape(_ context.Context, token domain.LandscapeToken) (domain.Landscape, error) {
	path, err := s.path(token)
	if err != nil {
		return domain.Landscape{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var ls domain.Landscape
	found, err := readJSON(path, &ls)
	if err != nil {
		return domain.Landscape{}, fmt.Errorf("read landscape %s: %w", token, err)
	}
	if !found {
		return domain.Landscape{}, fmt.Errorf("landscape %s: %w", token, domain.ErrNotFound)
	}
	if ls.Token == "" {
		ls.Token = token
	}
	return ls, nil
}

// SaveLandscape writes ls under its token, replacing any earlier snapshot.
func (s *LandscapeFileStore) SaveLandscape(_ context.Context, ls domain.Landscape) error {
	path, err := s.path(ls.Token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return writeJSON(path, ls, 0o644)
}

func (s *LandscapeFileStore) path(token domain.LandscapeToken) (string, error) {
	if !tokenPattern.MatchString(string(token)) {
		return "", fmt.Errorf("invalid landscape token %q", token)
	}
	return filepath.Join(s.dir, string(token)+".json"), nil
}

// ReadLandscapeFile loads a landscape snapshot from an arbitrary JSON file.
func ReadLandscapeFile(path string) (domain.Landscape, error) {
	var ls domain.Landscape
	found, err := readJSON(path, &ls)
	if err != nil {
		return domain.Landscape{}, fmt.Errorf("read %s: %w", path, err)
	}
	if !found {
		return domain.Landscape{}, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	return ls, nil
}

// WriteLandscapeFile writes ls to path atomically.
func WriteLandscapeFile(path string, ls domain.Landscape) error {
	return writeJSON(path, ls, 0o644)
}
