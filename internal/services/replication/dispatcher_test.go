package replication

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscaper/internal/domain"
	"landscaper/internal/model"
	"landscaper/internal/protocol/wire"
	"landscaper/internal/services/restructure"
)

type fakeRelay struct {
	sent    []domain.Envelope
	inbound chan domain.Envelope
	err     error
}

func newFakeRelay() *fakeRelay { return &fakeRelay{inbound: make(chan domain.Envelope, 16)} }

func (r *fakeRelay) Publish(_ context.Context, env domain.Envelope) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, env)
	return nil
}

func (r *fakeRelay) Inbound() <-chan domain.Envelope { return r.inbound }
func (r *fakeRelay) Close() error                    { close(r.inbound); return nil }

type fakeStore struct {
	landscapes map[domain.LandscapeToken]domain.Landscape
}

func (s *fakeStore) LoadLandscape(_ context.Context, token domain.LandscapeToken) (domain.Landscape, error) {
	ls, ok := s.landscapes[token]
	if !ok {
		return domain.Landscape{}, domain.ErrNotFound
	}
	return ls, nil
}

func (s *fakeStore) SaveLandscape(_ context.Context, ls domain.Landscape) error {
	s.landscapes[ls.Token] = ls
	return nil
}

func shop(token domain.LandscapeToken) domain.Landscape {
	return domain.Landscape{
		Token: token,
		Nodes: []domain.StructureNode{{
			ID: "node1",
			Applications: []domain.StructureApplication{{
				ID: "shop", Name: "shop",
				Packages: []domain.StructurePackage{
					{ID: "checkout", Name: "checkout", Classes: []domain.StructureClass{
						{ID: "cart1", Name: "Cart"},
						{ID: "payment", Name: "Payment"},
					}},
					{ID: "catalog", Name: "catalog", Classes: []domain.StructureClass{
						{ID: "item", Name: "Item"},
					}},
				},
			}},
		}},
		Communications: []domain.ClassCommunication{
			{ID: "cart-item", SourceClassID: "cart1", TargetClassID: "item", OperationName: "get"},
		},
	}
}

type replica struct {
	session *restructure.Session
	relay   *fakeRelay
	d       *Dispatcher
}

func newReplica(t *testing.T, self domain.ParticipantID, store domain.LandscapeStore) *replica {
	t.Helper()
	m, err := model.FromStructure(shop("tok"))
	require.NoError(t, err)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := restructure.New(m, nil, log)
	r := newFakeRelay()
	d := New(self, s, r, store, log)
	s.SetPublisher(d)
	return &replica{session: s, relay: r, d: d}
}

// deliver hands everything a sent since the last call to b.
func deliver(t *testing.T, a, b *replica) {
	t.Helper()
	for _, env := range a.relay.sent {
		require.NoError(t, b.d.Handle(context.Background(), env), env.Event)
	}
	a.relay.sent = nil
}

func entryIDs(s *restructure.Session) []string {
	var ids []string
	for _, e := range s.Changelog().Entries() {
		ids = append(ids, e.ID())
	}
	return ids
}

func TestTwoReplicasConverge(t *testing.T) {
	ctx := context.Background()
	alice := newReplica(t, "alice", nil)
	bob := newReplica(t, "bob", nil)
	alice.session.Enter()

	s := alice.session
	require.NoError(t, s.Rename(ctx, domain.LocalEdit, domain.KindClass, "cart1", "Basket"))
	_, err := s.CreateClass(ctx, domain.LocalEdit, "checkout", "Wishlist", 0)
	require.NoError(t, err)
	_, err = s.AddCommunication(ctx, domain.LocalEdit, "payment", "cart1", "charge")
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, domain.LocalEdit, domain.KindPackage, "catalog"))
	_, err = s.DuplicateApp(ctx, domain.LocalEdit, "shop")
	require.NoError(t, err)
	_, err = s.CreateApplication(ctx, domain.LocalEdit, "billing", "go", 0)
	require.NoError(t, err)

	deliver(t, alice, bob)

	assert.True(t, bob.session.Active())
	assert.Equal(t, alice.session.Model().Fingerprint(), bob.session.Model().Fingerprint())
	assert.Equal(t, entryIDs(alice.session), entryIDs(bob.session))

	// Undo on the other side flows back.
	require.NoError(t, bob.session.Undo(ctx, "catalog#DELETE"))
	deliver(t, bob, alice)
	assert.Equal(t, alice.session.Model().Fingerprint(), bob.session.Model().Fingerprint())
	assert.Equal(t, entryIDs(alice.session), entryIDs(bob.session))
	_, ok := alice.session.Model().Package("catalog")
	assert.True(t, ok)
}

func TestHandle_DropsEchoAndDuplicate(t *testing.T) {
	ctx := context.Background()
	alice := newReplica(t, "alice", nil)
	bob := newReplica(t, "bob", nil)
	alice.session.Enter()

	require.NoError(t, alice.session.Rename(ctx, domain.LocalEdit, domain.KindClass, "cart1", "Basket"))
	require.Len(t, alice.relay.sent, 1)
	env := alice.relay.sent[0]

	before := alice.session.Changelog().Len()
	require.NoError(t, alice.d.Handle(ctx, env))
	assert.Equal(t, before, alice.session.Changelog().Len())

	require.NoError(t, bob.d.Handle(ctx, env))
	require.NoError(t, bob.d.Handle(ctx, env))
	assert.Equal(t, 1, bob.session.Changelog().Len())
	assert.GreaterOrEqual(t, testutil.ToFloat64(messagesTotal.WithLabelValues(directionIn, wire.EventUpdate, resultDuplicate)), 1.0)
}

func TestHandle_ForeignTokenIgnored(t *testing.T) {
	ctx := context.Background()
	bob := newReplica(t, "bob", nil)

	env, err := wire.Seal("alice", "other", wire.Update{EntityType: domain.KindClass, EntityID: "cart1", NewName: "Basket"})
	require.NoError(t, err)
	require.NoError(t, bob.d.Handle(ctx, env))
	assert.False(t, bob.session.Active())
}

func TestHandle_DivergenceIsCounted(t *testing.T) {
	ctx := context.Background()
	bob := newReplica(t, "bob", nil)
	before := testutil.ToFloat64(divergenceTotal.WithLabelValues(wire.EventUpdate))

	env, err := wire.Seal("alice", "tok", wire.Update{EntityType: domain.KindClass, EntityID: "ghost", NewName: "Basket"})
	require.NoError(t, err)
	err = bob.d.Handle(ctx, env)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, before+1, testutil.ToFloat64(divergenceTotal.WithLabelValues(wire.EventUpdate)))
	assert.False(t, bob.session.Active(), "a missed replay does not enter restructure mode")
}

func TestHandle_InvalidPayload(t *testing.T) {
	bob := newReplica(t, "bob", nil)
	env := domain.Envelope{
		ID: "x1", Sender: "alice", Token: "tok",
		Event:   wire.EventUpdate,
		Payload: json.RawMessage(`{"entityType":"NODE","entityId":"cart1","newName":"x"}`),
	}
	assert.Error(t, bob.d.Handle(context.Background(), env))
}

func TestChangeLandscape(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{landscapes: map[domain.LandscapeToken]domain.Landscape{"next": shop("next")}}
	bob := newReplica(t, "bob", store)

	// Own token: no reload.
	env, err := wire.Seal("alice", "tok", wire.ChangeLandscape{LandscapeToken: "tok"})
	require.NoError(t, err)
	require.NoError(t, bob.d.Handle(ctx, env))
	assert.Equal(t, domain.LandscapeToken("tok"), bob.session.Token())

	env, err = wire.Seal("alice", "tok", wire.ChangeLandscape{LandscapeToken: "next"})
	require.NoError(t, err)
	require.NoError(t, bob.d.Handle(ctx, env))
	assert.Equal(t, domain.LandscapeToken("next"), bob.session.Token())
	assert.Empty(t, bob.relay.sent)

	env, err = wire.Seal("alice", "next", wire.ChangeLandscape{LandscapeToken: "missing"})
	require.NoError(t, err)
	assert.ErrorIs(t, bob.d.Handle(ctx, env), domain.ErrNotFound)
}

func TestPublish_RelayFailure(t *testing.T) {
	alice := newReplica(t, "alice", nil)
	alice.session.Enter()
	alice.relay.err = errors.New("offline")

	err := alice.session.Rename(context.Background(), domain.LocalEdit, domain.KindClass, "cart1", "Basket")
	assert.Error(t, err)
	c, _ := alice.session.Model().Class("cart1")
	assert.Equal(t, "Basket", c.Name)
}

func TestLoop_SerializesActionsAndInbound(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bob := newReplica(t, "bob", nil)
	loop := NewLoop(bob.d)

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	env, err := wire.Seal("alice", "tok", wire.Update{EntityType: domain.KindClass, EntityID: "cart1", NewName: "Basket"})
	require.NoError(t, err)
	bob.relay.inbound <- env

	require.Eventually(t, func() bool {
		var name string
		_ = loop.Do(ctx, func(context.Context) error {
			c, _ := bob.session.Model().Class("cart1")
			name = c.Name
			return nil
		})
		return name == "Basket"
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, bob.relay.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	assert.ErrorIs(t, loop.Do(ctx, func(context.Context) error { return nil }), ErrLoopStopped)
}

func TestSeenSet_Evicts(t *testing.T) {
	s := newSeenSet(2)
	assert.True(t, s.add("a"))
	assert.True(t, s.add("b"))
	assert.False(t, s.add("a"))
	assert.True(t, s.add("c"))
	assert.True(t, s.add("a"))
}
