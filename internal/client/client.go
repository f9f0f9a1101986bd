// Package client talks to a quizbank server over HTTP. Client satisfies
// session.RecordAPI so a session can be driven against a remote backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mesh-intelligence/quizbank/internal/session"
	"github.com/mesh-intelligence/quizbank/pkg/types"
)

var _ session.RecordAPI = (*Client)(nil)

// DefaultTimeout bounds each request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// ErrBaseURL is returned when the server address cannot be parsed.
var ErrBaseURL = errors.New("invalid server address")

// StatusError reports a non-2xx response. Message is the server's message
// field when it sent one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Client calls the quizbank HTTP API.
type Client struct {
	base *url.URL
	http *http.Client
	log  *slog.Logger
}

// New returns a client for the server at baseURL. A zero timeout selects
// DefaultTimeout.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBaseURL, baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
		log:  slog.Default(),
	}, nil
}

// WithLogger sets the client logger.
func (c *Client) WithLogger(l *slog.Logger) *Client {
	if l != nil {
		c.log = l
	}
	return c
}

// WithHTTPClient replaces the underlying http.Client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	if h != nil {
		c.http = h
	}
	return c
}

type questionsPayload struct {
	Questions []types.Question `json:"questions"`
}

type messagePayload struct {
	Message string `json:"message"`
}

// List fetches every stored question.
func (c *Client) List(ctx context.Context) ([]types.Question, error) {
	var out questionsPayload
	if err := c.do(ctx, http.MethodGet, "/get-questions", nil, &out); err != nil {
		return nil, err
	}
	if out.Questions == nil {
		out.Questions = []types.Question{}
	}
	return out.Questions, nil
}

// Replace overwrites the stored collection with questions.
func (c *Client) Replace(ctx context.Context, questions []types.Question) error {
	if questions == nil {
		questions = []types.Question{}
	}
	return c.do(ctx, http.MethodPost, "/save-questions", questionsPayload{Questions: questions}, nil)
}

// DeleteOne deletes q by its stable ID, or by SL when it has none.
func (c *Client) DeleteOne(ctx context.Context, q types.Question) error {
	if q.ID != "" {
		return c.do(ctx, http.MethodDelete, "/questions/"+url.PathEscape(q.ID), nil, nil)
	}
	return c.do(ctx, http.MethodDelete, "/delete-question/"+url.PathEscape(q.SL), nil, nil)
}

// DeleteAll deletes every stored question.
func (c *Client) DeleteAll(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/delete-questions", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("api call", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg messagePayload
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		return &StatusError{Code: resp.StatusCode, Message: msg.Message}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
