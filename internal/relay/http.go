package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"landscaper/internal/domain"
)

// HTTP fetches and stores landscape snapshots on the relay.
type HTTP struct {
	Base    string
	HTTP    *http.Client
	Backoff Backoff
}

// NewHTTP returns a client for the relay at base.
func NewHTTP(base string) *HTTP {
	return &HTTP{Base: strings.TrimRight(base, "/"), HTTP: http.DefaultClient, Backoff: DefaultBackoff}
}

var _ domain.LandscapeStore = (*HTTP)(nil)

// LoadLandscape fetches the snapshot of token. A 404 is returned as an error
// wrapping domain.ErrNotFound.
func (c *HTTP) LoadLandscape(ctx context.Context, token domain.LandscapeToken) (domain.Landscape, error) {
	var out domain.Landscape
	if err := c.getJSON(ctx, "/landscapes/"+url.PathEscape(string(token)), &out); err != nil {
		return domain.Landscape{}, err
	}
	if out.Token == "" {
		out.Token = token
	}
	return out, nil
}

// SaveLandscape replaces the snapshot stored under ls.Token.
func (c *HTTP) SaveLandscape(ctx context.Context, ls domain.Landscape) error {
	return c.put(ctx, "/landscapes/"+url.PathEscape(string(ls.Token)), ls)
}

func (c *HTTP) put(ctx context.Context, path string, in any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay put %s: %s", path, resp.Status)
	}
	return nil
}

// getJSON retries network errors and 5xx responses per c.Backoff.
func (c *HTTP) getJSON(ctx context.Context, path string, out any) error {
	var body []byte
	err := c.Backoff.retry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
		if err != nil {
			return err
		}
		resp, err := c.HTTP.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return permanent{fmt.Errorf("relay get %s: %w", path, domain.ErrNotFound)}
		case resp.StatusCode >= 500:
			_, _ = io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("relay get %s: %s", path, resp.Status)
		case resp.StatusCode/100 != 2:
			return permanent{fmt.Errorf("relay get %s: %s", path, resp.Status)}
		}
		body, err = io.ReadAll(resp.Body)
		return err
	})
	if p, ok := err.(permanent); ok {
		return p.err
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
