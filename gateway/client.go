// Package gateway is the REST client of the admin backend. Every call returns
// a Result; transport problems, timeouts and server-side failures are folded
// into it instead of being returned as errors.
package gateway

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

	"github.com/Dosada05/arena-admin/models"
	"github.com/Dosada05/arena-admin/session"
)

const (
	DefaultTimeout    = 15 * time.Second
	DefaultEventsPath = "/api/matches"

	maxResponseBytes = 10 << 20
)

type Options struct {
	BaseURL string
	// EventsPath is where tournaments and matches live, /api/matches or /matches.
	EventsPath string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	eventsPath string
	timeout    time.Duration
	http       *http.Client
	tokens     session.TokenStore
	logger     *slog.Logger
}

func New(opts Options, tokens session.TokenStore, logger *slog.Logger) *Client {
	if opts.EventsPath == "" {
		opts.EventsPath = DefaultEventsPath
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if tokens == nil {
		tokens = session.NewMemoryStore("")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		eventsPath: "/" + strings.Trim(opts.EventsPath, "/"),
		timeout:    opts.Timeout,
		http:       opts.HTTPClient,
		tokens:     tokens,
		logger:     logger,
	}
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any

	// raw bodies (multipart) bypass JSON encoding
	raw         io.Reader
	contentType string

	// requireAuth refuses the call locally when no token is stored.
	requireAuth bool
	// credentials marks login and register, where a 401 carries the reason.
	credentials bool
}

type response struct {
	status int
	env    models.Envelope
}

func (c *Client) token(ctx context.Context) string {
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoToken) {
			c.logger.Warn("failed to read session token", slog.Any("error", err))
		}
		return ""
	}
	return tok
}

func (c *Client) send(ctx context.Context, req request) (*response, *Error) {
	token := c.token(ctx)
	if req.requireAuth && token == "" {
		return nil, &Error{Message: MsgPleaseLogin, notLoggedIn: true}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	contentType := req.contentType
	switch {
	case req.raw != nil:
		body = req.raw
	case req.body != nil:
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, &Error{Message: fmt.Sprintf("encode request: %v", err)}
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	hReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("create request: %v", err)}
	}
	hReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		hReq.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		hReq.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	hRsp, err := c.http.Do(hReq)
	if err != nil {
		c.logger.Warn("request failed",
			slog.String("method", req.method), slog.String("path", req.path), slog.Any("error", err))
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &Error{Message: MsgTimeout}
		}
		return nil, &Error{Message: fmt.Sprintf("network error: %v", unwrapURLError(err))}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, hRsp.Body)
		_ = hRsp.Body.Close()
	}()

	c.logger.Debug("request done",
		slog.String("method", req.method),
		slog.String("path", req.path),
		slog.Int("status", hRsp.StatusCode),
		slog.Duration("elapsed", time.Since(started)))

	// A 401 from login or register is a rejected credential, not a lost session.
	if hRsp.StatusCode == http.StatusUnauthorized && !req.credentials {
		return nil, &Error{Status: hRsp.StatusCode, Message: MsgSessionExpired, AuthExpired: true}
	}

	raw, err := io.ReadAll(io.LimitReader(hRsp.Body, maxResponseBytes))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &Error{Status: hRsp.StatusCode, Message: MsgTimeout}
		}
		return nil, &Error{Status: hRsp.StatusCode, Message: fmt.Sprintf("read response: %v", err)}
	}

	var env models.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if hRsp.StatusCode >= http.StatusBadRequest {
			return nil, &Error{Status: hRsp.StatusCode, Message: statusMessage(hRsp.StatusCode)}
		}
		return nil, &Error{Status: hRsp.StatusCode, Message: "invalid response from server"}
	}
	if !env.Success || hRsp.StatusCode >= http.StatusBadRequest {
		msg := env.Message
		if msg == "" {
			msg = statusMessage(hRsp.StatusCode)
		}
		return nil, &Error{Status: hRsp.StatusCode, Message: msg}
	}
	return &response{status: hRsp.StatusCode, env: env}, nil
}

func statusMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("request failed: %s", strings.ToLower(text))
	}
	return fmt.Sprintf("request failed with status %d", status)
}

func unwrapURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

// call sends req and extracts the typed payload from the envelope.
func call[T any](ctx context.Context, c *Client, req request, extract func(env *models.Envelope) (T, error)) Result[T] {
	rsp, gerr := c.send(ctx, req)
	if gerr != nil {
		return failed[T](gerr)
	}
	data, err := extract(&rsp.env)
	if err != nil {
		c.logger.Warn("unexpected response payload",
			slog.String("path", req.path), slog.Any("error", err))
		return failed[T](&Error{Status: rsp.status, Message: "invalid response from server"})
	}
	return succeeded(rsp.status, data, rsp.env.Message)
}

// dataAs decodes env.Data into T. A missing or null data member yields the
// zero value of T. Numbers are kept as json.Number so unknown fields survive
// a round trip unchanged.
func dataAs[T any](env *models.Envelope) (T, error) {
	var out T
	trimmed := bytes.TrimSpace(env.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return out, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("decode data: %w", err)
	}
	return out, nil
}

func nothing(*models.Envelope) (struct{}, error) { return struct{}{}, nil }
