package relay

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"landscaper/internal/domain"
)

const (
	// peerQueue is how many envelopes may wait for a slow peer before it is
	// disconnected.
	peerQueue    = 256
	writeTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type peer struct {
	id   string
	conn *websocket.Conn
	send chan domain.Envelope
}

// Hub fans envelopes out to every other participant in the same landscape
// room and serves landscape snapshots.
//
// It does not interpret payloads. Ordering is preserved per sender.
type Hub struct {
	store domain.LandscapeStore
	log   *slog.Logger

	mu    sync.Mutex
	rooms map[domain.LandscapeToken]map[*peer]struct{}
}

// NewHub returns a hub serving snapshots from store.
func NewHub(store domain.LandscapeStore, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		store: store,
		log:   log.With("component", "hub"),
		rooms: make(map[domain.LandscapeToken]map[*peer]struct{}),
	}
}

// Router returns the gin engine with all hub routes:
//
//	GET /ws/:token           join the room of a landscape
//	GET /landscapes/:token   fetch a snapshot
//	PUT /landscapes/:token   replace a snapshot
//	GET /metrics             prometheus metrics
//	GET /healthz             liveness
func (h *Hub) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.accessLog())

	r.GET("/ws/:token", h.HandleWebSocket)
	r.GET("/landscapes/:token", h.getLandscape)
	r.PUT("/landscapes/:token", h.putLandscape)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

// Peers returns the number of participants connected to token.
func (h *Hub) Peers(token domain.LandscapeToken) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[token])
}

// HandleWebSocket upgrades the request and keeps the peer in its room until
// it disconnects.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	token := domain.LandscapeToken(c.Param("token"))
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err)
		return
	}

	p := &peer{id: uuid.NewString(), conn: ws, send: make(chan domain.Envelope, peerQueue)}
	h.join(token, p)
	log := h.log.With("landscape_token", token, "peer", p.id)
	log.Info("peer joined")

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writePump(p)
	}()

	h.readPump(token, p, log)
	h.leave(token, p)
	<-done
	_ = ws.Close()
	log.Info("peer left")
}

func (h *Hub) readPump(token domain.LandscapeToken, p *peer, log *slog.Logger) {
	for {
		var env domain.Envelope
		if err := p.conn.ReadJSON(&env); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("peer read ended", "error", err)
			}
			return
		}
		if env.Token != "" && env.Token != token {
			envelopesDropped.WithLabelValues("token_mismatch").Inc()
			log.Warn("envelope for another room", "event", env.Event, "message_id", env.ID)
			continue
		}
		env.Token = token
		if env.Timestamp == 0 {
			env.Timestamp = time.Now().UnixMilli()
		}
		h.broadcast(token, p, env)
	}
}

func (h *Hub) writePump(p *peer) {
	for env := range p.send {
		_ = p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := p.conn.WriteJSON(env); err != nil {
			// Unblock the read pump; leave() will close send.
			_ = p.conn.Close()
			for range p.send {
			}
			return
		}
	}
	_ = p.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// broadcast queues env for every peer in the room except from.
func (h *Hub) broadcast(token domain.LandscapeToken, from *peer, env domain.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.rooms[token] {
		if p == from {
			continue
		}
		select {
		case p.send <- env:
			envelopesForwarded.WithLabelValues(env.Event).Inc()
		default:
			envelopesDropped.WithLabelValues("slow_peer").Inc()
			h.log.Warn("slow peer disconnected", "landscape_token", token, "peer", p.id)
			h.removeLocked(token, p)
			_ = p.conn.Close()
		}
	}
}

func (h *Hub) join(token domain.LandscapeToken, p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[token]
	if !ok {
		room = make(map[*peer]struct{})
		h.rooms[token] = room
		roomsOpen.Inc()
	}
	room[p] = struct{}{}
	peersConnected.Inc()
}

func (h *Hub) leave(token domain.LandscapeToken, p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(token, p)
}

func (h *Hub) removeLocked(token domain.LandscapeToken, p *peer) {
	room := h.rooms[token]
	if _, ok := room[p]; !ok {
		return
	}
	delete(room, p)
	close(p.send)
	peersConnected.Dec()
	if len(room) == 0 {
		delete(h.rooms, token)
		roomsOpen.Dec()
	}
}

func (h *Hub) getLandscape(c *gin.Context) {
	token := domain.LandscapeToken(c.Param("token"))
	ls, err := h.store.LoadLandscape(c.Request.Context(), token)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.log.Error("load landscape failed", "landscape_token", token, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ls)
}

func (h *Hub) putLandscape(c *gin.Context) {
	token := domain.LandscapeToken(c.Param("token"))
	var ls domain.Landscape
	if err := c.ShouldBindJSON(&ls); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if ls.Token != "" && ls.Token != token {
		c.JSON(http.StatusBadRequest, gin.H{"error": "landscapeToken does not match path"})
		return
	}
	ls.Token = token
	if err := h.store.SaveLandscape(c.Request.Context(), ls); err != nil {
		h.log.Error("save landscape failed", "landscape_token", token, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// accessLog records method, path, status and duration for each request.
func (h *Hub) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"remote", c.ClientIP(),
			"status", c.Writer.Status(),
			"bytes", c.Writer.Size(),
			"duration", time.Since(start),
		)
	}
}
