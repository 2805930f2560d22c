package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscaper/internal/domain"
	"landscaper/internal/store"
)

func sample(token domain.LandscapeToken) domain.Landscape {
	return domain.Landscape{
		Token: token,
		Nodes: []domain.StructureNode{{
			ID: "node1", HostName: "host",
			Applications: []domain.StructureApplication{{
				ID: "shop", Name: "shop", Language: "java",
				Packages: []domain.StructurePackage{{
					ID: "checkout", Name: "checkout",
					Classes: []domain.StructureClass{{ID: "cart1", Name: "Cart"}},
				}},
			}},
		}},
	}
}

func TestLandscapeFileStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s := store.NewLandscapeFileStore(filepath.Join(t.TempDir(), "landscapes"))

	require.NoError(t, s.SaveLandscape(ctx, sample("tok-1")))
	got, err := s.LoadLandscape(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, sample("tok-1"), got)

	updated := sample("tok-1")
	updated.Nodes[0].HostName = "other"
	require.NoError(t, s.SaveLandscape(ctx, updated))
	got, err = s.LoadLandscape(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "other", got.Nodes[0].HostName)
}

func TestLandscapeFileStore_Missing(t *testing.T) {
	s := store.NewLandscapeFileStore(t.TempDir())
	_, err := s.LoadLandscape(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLandscapeFileStore_RejectsPathTokens(t *testing.T) {
	s := store.NewLandscapeFileStore(t.TempDir())
	for _, tok := range []domain.LandscapeToken{"", "../etc", "a/b", ".hidden"} {
		_, err := s.LoadLandscape(context.Background(), tok)
		assert.Error(t, err, tok)
		assert.NotErrorIs(t, err, domain.ErrNotFound, tok)
	}
}

func TestLandscapeFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ls.json")
	require.NoError(t, store.WriteLandscapeFile(path, sample("t")))
	got, err := store.ReadLandscapeFile(path)
	require.NoError(t, err)
	assert.Equal(t, sample("t"), got)

	_, err = store.ReadLandscapeFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
