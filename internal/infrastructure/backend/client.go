// Package backend is a typed client for the reconciliation backend REST
// API (companies, banks, agencies, ledger entries, reconciliation
// endpoints).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	appctx "bankreco/internal/core/context"
	"bankreco/pkg/logger"
)

var tracer = otel.Tracer("bankreco/backend")

const (
	defaultTimeout     = 30 * time.Second
	defaultRefreshSkew = 30 * time.Second
	maxBodySize        = 16 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL string

	// Timeout bounds a single HTTP exchange. Zero means 30s.
	Timeout time.Duration

	// RefreshSkew is how long before expiry the access token is refreshed
	// proactively. Zero means 30s.
	RefreshSkew time.Duration

	// HTTPClient overrides the default client, mainly in tests.
	HTTPClient *http.Client
}

// Client calls the reconciliation backend. A Client without a session
// sends anonymous requests; WithSession binds one to a user.
type Client struct {
	baseURL string
	http    *http.Client
	skew    time.Duration
	session *Session
	log     *logger.Logger
	now     func() time.Time
}

// New creates an anonymous client.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend: invalid base url %q", cfg.BaseURL)
	}
	if log == nil {
		log = logger.Nop()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	skew := cfg.RefreshSkew
	if skew <= 0 {
		skew = defaultRefreshSkew
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		skew:    skew,
		log:     log.WithComponent("backend"),
		now:     time.Now,
	}, nil
}

// WithSession returns a client sending requests on behalf of s.
func (c *Client) WithSession(s *Session) *Client {
	cp := *c
	cp.session = s
	return &cp
}

// Session returns the bound session, or nil.
func (c *Client) Session() *Session {
	return c.session
}

// Do sends one request. body, when not nil, is sent as JSON; a 2xx
// answer is decoded into out when out is not nil.
//
// A 401 on an authenticated request triggers exactly one token refresh
// followed by one retry. If the retry is rejected too, or the refresh
// fails, Do returns ErrSessionExpired. Other failures are never retried.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, span := tracer.Start(ctx, "backend "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("backend.path", path),
		))
	defer span.End()

	err := c.do(ctx, method, path, query, body, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("backend: encode request: %w", err)
		}
	}

	target := c.url(path, query)

	if c.session != nil && c.session.canRefresh() && c.session.ExpiresWithin(c.skew, c.now()) {
		if err := c.refresh(ctx, c.session.AccessToken()); err != nil {
			c.log.WithContext(ctx).Warnw("proactive token refresh failed", "error", err)
		}
	}

	token := ""
	if c.session != nil {
		token = c.session.AccessToken()
	}

	status, respBody, err := c.send(ctx, method, target, payload, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && c.session != nil {
		if err := c.refresh(ctx, token); err != nil {
			c.log.WithContext(ctx).Infow("token refresh failed", "error", err)
			return ErrSessionExpired
		}
		status, respBody, err = c.send(ctx, method, target, payload, c.session.AccessToken())
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			return ErrSessionExpired
		}
	}

	if status >= 400 {
		return newHTTPError(status, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("backend: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, target string, payload []byte, token string) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("backend: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if lang := appctx.GetLang(ctx); lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	if requestID := appctx.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &NoResponseError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, &NoResponseError{Method: method, URL: target, Err: err}
	}

	c.log.WithContext(ctx).Debugw("backend request",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"duration_ms", c.now().Sub(start).Milliseconds(),
	)
	return resp.StatusCode, respBody, nil
}

// Refresh exchanges a refresh token for a new pair. The refresh token is
// kept when the backend does not rotate it.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	if refreshToken == "" {
		return Tokens{}, errors.New("no refresh token")
	}

	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return Tokens{}, err
	}
	status, body, err := c.send(ctx, http.MethodPost, c.url("/token/refresh/", nil), payload, "")
	if err != nil {
		return Tokens{}, err
	}
	if status != http.StatusOK {
		return Tokens{}, newHTTPError(status, body)
	}

	var tokens Tokens
	if err := json.Unmarshal(body, &tokens); err != nil {
		return Tokens{}, fmt.Errorf("decode refreshed token: %w", err)
	}
	if tokens.Access == "" {
		return Tokens{}, errors.New("refresh answer without access token")
	}
	if tokens.Refresh == "" {
		tokens.Refresh = refreshToken
	}
	return tokens, nil
}

// refresh renews the session's access token, unless another request
// already replaced the rejected one.
func (c *Client) refresh(ctx context.Context, rejected string) error {
	s := c.session
	if !s.canRefresh() {
		return errors.New("no refresh token")
	}

	s.refreshing.Lock()
	defer s.refreshing.Unlock()

	if s.AccessToken() != rejected {
		return nil
	}

	tokens, err := c.Refresh(ctx, s.Tokens().Refresh)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tokens = tokens
	notify := s.onRefresh
	s.mu.Unlock()

	if notify != nil {
		notify(tokens)
	}
	return nil
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
