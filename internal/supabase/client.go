// internal/supabase/client.go
//
// PostgREST insert client for the hosted Supabase project.
//
// Context
// -------
// Client implements lead.Submitter.  Each Submit performs exactly one
//
//	POST {base}/rest/v1/{table}
//	apikey: <anon key>
//	Authorization: Bearer <anon key>
//	Prefer: return=representation
//	[ {record} ]
//
// and maps every failure onto *lead.RemoteError:
//
//   • transport error      → the error text,
//   • PostgREST error body → "Database error: <message>",
//   • any other non-2xx    → "Database error: <HTTP status text>".
//
// The representation the server returns (id, status, created_at) is read
// and discarded; callers only learn success or failure.
//
// Notes
// -----
// • No client-side timeout and no retry.  Cancellation comes from ctx only.
// • The anon key is never logged.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/herai/automation-site/internal/lead"
)

// DefaultTable is the remote table consultation requests land in.
const DefaultTable = "consultations"

// DatabaseErrorPrefix is prepended to server-reported failure messages.
const DatabaseErrorPrefix = "Database error: "

// APIError is the PostgREST error document.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the transport (tests, proxies).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTable overrides DefaultTable.
func WithTable(table string) Option {
	return func(c *Client) {
		if table != "" {
			c.table = table
		}
	}
}

// Client is safe for concurrent use.
type Client struct {
	endpoint string
	key      string
	table    string
	http     *http.Client
}

// New validates baseURL and returns a Client.  Empty arguments are a
// configuration problem and are reported as such.
func New(baseURL, anonKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" || strings.TrimSpace(anonKey) == "" {
		return nil, fmt.Errorf("supabase: url and anon key are required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("supabase: invalid url %q", baseURL)
	}

	c := &Client{
		key:   anonKey,
		table: DefaultTable,
		http:  &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	c.endpoint = u.String() + "/rest/v1/" + url.PathEscape(c.table)
	return c, nil
}

// Submit inserts rec as a single row.
func (c *Client) Submit(ctx context.Context, rec lead.Record) error {
	body, err := json.Marshal([]lead.Record{rec})
	if err != nil {
		return lead.NewRemoteError("", fmt.Errorf("encode record: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return lead.NewRemoteError("", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.http.Do(req)
	if err != nil {
		zap.S().Warnw("supabase insert transport error", "table", c.table, "err", err)
		return lead.NewRemoteError("", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		zap.S().Debugw("supabase insert ok", "table", c.table, "status", resp.StatusCode)
		return nil
	}

	return statusError(resp.StatusCode, raw)
}

// statusError decodes a PostgREST error body, falling back to the status
// text when the body is empty or not JSON.
func statusError(code int, raw []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Message != "" {
		zap.S().Warnw("supabase insert rejected",
			"status", code,
			"code", apiErr.Code,
			"message", apiErr.Message,
			"hint", apiErr.Hint,
		)
		return lead.NewRemoteError(DatabaseErrorPrefix+apiErr.Message, &apiErr)
	}

	text := http.StatusText(code)
	if text == "" {
		text = fmt.Sprintf("HTTP %d", code)
	}
	zap.S().Warnw("supabase insert failed", "status", code)
	return lead.NewRemoteError(DatabaseErrorPrefix+text, fmt.Errorf("supabase: status %d", code))
}
