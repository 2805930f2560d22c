package relay_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscaper/internal/domain"
	"landscaper/internal/relay"
	"landscaper/internal/store"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newServer(t *testing.T) (*relay.Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := relay.NewHub(store.NewLandscapeFileStore(t.TempDir()), quiet())
	srv := httptest.NewServer(hub.Router())
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, token domain.LandscapeToken) *relay.WSClient {
	t.Helper()
	c, err := relay.Dial(context.Background(), srv.URL, token, relay.DefaultBackoff, quiet())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func envelope(id string, sender domain.ParticipantID) domain.Envelope {
	return domain.Envelope{
		ID: id, Sender: sender, Token: "tok",
		Event:   "restructure-update",
		Payload: json.RawMessage(`{"entityType":"CLAZZ","entityId":"cart1","newName":"Basket","undo":false}`),
	}
}

func expectNone(t *testing.T, c *relay.WSClient) {
	t.Helper()
	select {
	case env := <-c.Inbound():
		t.Fatalf("unexpected envelope %s", env.ID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_FansOutWithinRoomOnly(t *testing.T) {
	hub, srv := newServer(t)
	alice := dial(t, srv, "tok")
	bob := dial(t, srv, "tok")
	carol := dial(t, srv, "other")
	require.Eventually(t, func() bool { return hub.Peers("tok") == 2 && hub.Peers("other") == 1 },
		time.Second, 10*time.Millisecond)

	ctx := context.Background()
	require.NoError(t, alice.Publish(ctx, envelope("m1", "alice")))
	require.NoError(t, alice.Publish(ctx, envelope("m2", "alice")))

	for _, want := range []string{"m1", "m2"} {
		select {
		case env := <-bob.Inbound():
			assert.Equal(t, want, env.ID)
			assert.Equal(t, domain.LandscapeToken("tok"), env.Token)
			assert.NotZero(t, env.Timestamp)
		case <-time.After(time.Second):
			t.Fatalf("bob did not receive %s", want)
		}
	}
	expectNone(t, alice)
	expectNone(t, carol)
}

func TestHub_DropsEnvelopeForOtherRoom(t *testing.T) {
	hub, srv := newServer(t)
	alice := dial(t, srv, "tok")
	bob := dial(t, srv, "tok")
	require.Eventually(t, func() bool { return hub.Peers("tok") == 2 }, time.Second, 10*time.Millisecond)

	env := envelope("m1", "alice")
	env.Token = "other"
	require.NoError(t, alice.Publish(context.Background(), env))
	expectNone(t, bob)
}

func TestHub_LeaveClosesInbound(t *testing.T) {
	hub, srv := newServer(t)
	alice := dial(t, srv, "tok")
	require.Eventually(t, func() bool { return hub.Peers("tok") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, alice.Close())
	_, ok := <-alice.Inbound()
	assert.False(t, ok)
	require.Eventually(t, func() bool { return hub.Peers("tok") == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_Landscapes(t *testing.T) {
	_, srv := newServer(t)
	client := relay.NewHTTP(srv.URL)
	ctx := context.Background()

	_, err := client.LoadLandscape(ctx, "tok")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ls := domain.Landscape{
		Token: "tok",
		Nodes: []domain.StructureNode{{ID: "node1", Applications: []domain.StructureApplication{{ID: "shop", Name: "shop"}}}},
	}
	require.NoError(t, client.SaveLandscape(ctx, ls))

	got, err := client.LoadLandscape(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "shop", got.Nodes[0].Applications[0].Name)
}

func TestHub_MetricsAndHealth(t *testing.T) {
	_, srv := newServer(t)
	for path, status := range map[string]int{"/metrics": http.StatusOK, "/healthz": http.StatusNoContent} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, status, resp.StatusCode, path)
	}
}

func TestDial_GivesUpAfterBackoff(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := relay.Dial(context.Background(), srv.URL, "tok",
		relay.Backoff{Initial: time.Millisecond, Max: 2 * time.Millisecond, MaxAttempts: 2}, quiet())
	assert.Error(t, err)
}

func TestDial_RejectsScheme(t *testing.T) {
	_, err := relay.Dial(context.Background(), "ftp://relay", "tok", relay.DefaultBackoff, quiet())
	assert.Error(t, err)
}
