package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"landscaper/internal/domain"
)

// inboundBuffer is the number of envelopes queued ahead of the consumer.
const inboundBuffer = 64

// WSClient is a participant's connection to the room of one landscape.
type WSClient struct {
	conn    *websocket.Conn
	inbound chan domain.Envelope
	log     *slog.Logger

	writeMu sync.Mutex
	cancel  context.CancelFunc
	group   *errgroup.Group
	once    sync.Once
}

var _ domain.RelayClient = (*WSClient)(nil)

// Dial joins the room of token on the relay at base (http or ws URL),
// retrying refused connections per backoff.
func Dial(ctx context.Context, base string, token domain.LandscapeToken, backoff Backoff, log *slog.Logger) (*WSClient, error) {
	if log == nil {
		log = slog.Default()
	}
	u, err := roomURL(base, token)
	if err != nil {
		return nil, err
	}

	var conn *websocket.Conn
	err = backoff.retry(ctx, func() error {
		c, resp, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
		if err != nil {
			if resp != nil {
				err = fmt.Errorf("dial %s: %s: %w", u, resp.Status, err)
			}
			log.Debug("relay dial failed", "url", u, "error", err)
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("relay dial %s: %w", u, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	g, runCtx := errgroup.WithContext(runCtx)
	c := &WSClient{
		conn:    conn,
		inbound: make(chan domain.Envelope, inboundBuffer),
		log:     log.With("component", "relay", "landscape_token", token),
		cancel:  cancel,
		group:   g,
	}
	g.Go(func() error { return c.readPump(runCtx) })
	g.Go(func() error {
		<-runCtx.Done()
		return c.conn.Close()
	})
	c.log.Info("joined room", "url", u)
	return c, nil
}

// Publish sends env to the other participants of the room.
func (c *WSClient) Publish(ctx context.Context, env domain.Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if dl, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(dl)
		defer func() { _ = c.conn.SetWriteDeadline(time.Time{}) }()
	}
	if err := c.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("relay publish %s: %w", env.Event, err)
	}
	return nil
}

// Inbound yields envelopes from the other participants. It is closed when
// the connection ends.
func (c *WSClient) Inbound() <-chan domain.Envelope { return c.inbound }

// Close leaves the room and waits for the read pump to stop.
func (c *WSClient) Close() error {
	var err error
	c.once.Do(func() {
		c.writeMu.Lock()
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		c.cancel()
		err = c.group.Wait()
		if isClosed(err) {
			err = nil
		}
	})
	return err
}

func (c *WSClient) readPump(ctx context.Context) error {
	defer close(c.inbound)
	for {
		var env domain.Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if ctx.Err() != nil || isClosed(err) {
				return nil
			}
			c.log.Warn("relay read failed", "error", err)
			return err
		}
		select {
		case c.inbound <- env:
		case <-ctx.Done():
			return nil
		}
	}
}

func isClosed(err error) bool {
	if err == nil {
		return false
	}
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		errors.Is(err, net.ErrClosed)
}

// roomURL maps an http(s) or ws(s) base URL to the room endpoint of token.
func roomURL(base string, token domain.LandscapeToken) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("relay url %q: unsupported scheme", base)
	}
	u.Path += "/ws/" + url.PathEscape(string(token))
	return u.String(), nil
}
