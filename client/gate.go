// Package client implements the authorization gate for Broadside
// front ends: the single source of truth for "is the current visitor
// an admin", driving route access and the visibility of authoring
// affordances.
//
// The gate is a presentation concern only. The enforcement boundary is
// the server's cookie verification; the gate's job is to keep the UI
// honest and fail closed when the answer cannot be confirmed.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// ErrUnreachable wraps transport failures so callers can show a
// distinct "can't reach server" message instead of an auth error.
var ErrUnreachable = errors.New("can't reach server")

// APIError carries a server-provided failure message and status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

type meResponse struct {
	Admin bool `json:"admin"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Gate probes the server's session state and holds the derived
// authorization flags. Until the first probe resolves the answer is
// unknown; any transport failure resolves to "not admin".
type Gate struct {
	baseURL string
	http    *http.Client
	group   singleflight.Group

	mu      sync.Mutex
	admin   bool
	checked bool
	subs    []func(admin bool)
}

// Option configures a Gate.
type Option func(*Gate)

// WithHTTPClient substitutes the HTTP client. The client should carry
// a cookie jar; the session lives in an HttpOnly cookie the gate
// itself never reads.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gate) {
		g.http = c
	}
}

// New creates a Gate talking to the API at baseURL.
func New(baseURL string, opts ...Option) (*Gate, error) {
	g := &Gate{baseURL: strings.TrimRight(baseURL, "/")}
	for _, opt := range opts {
		opt(g)
	}
	if g.http == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		g.http = &http.Client{Jar: jar}
	}
	return g, nil
}

// Status returns the current flags: admin is meaningful only once
// checked is true. Unchecked means "unknown": callers must treat it
// as neither admin nor non-admin (a loading state), not as a denial.
func (g *Gate) Status() (admin, checked bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.admin, g.checked
}

// OnChange registers fn to run whenever the authorization result
// changes, including the first resolution. Route guards must re-run on
// every change since login and logout happen without a reload.
func (g *Gate) OnChange(fn func(admin bool)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subs = append(g.subs, fn)
}

// Check probes GET /api/auth/me and resolves the gate state.
// Concurrent calls share a single in-flight probe. Transport failures
// resolve to not-admin and return an error wrapping ErrUnreachable.
//
// The shared flight is detached from the first caller's cancellation;
// one caller giving up must not fail every coalesced caller.
func (g *Gate) Check(ctx context.Context) (bool, error) {
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := g.group.Do("me", func() (any, error) {
		return g.probe(flightCtx)
	})
	admin, _ := v.(bool)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return admin, ctxErr
	}
	return admin, err
}

func (g *Gate) probe(ctx context.Context) (bool, error) {
	req, err := g.newRequest(ctx, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return false, err
	}
	resp, err := g.http.Do(req)
	if err != nil {
		g.set(false)
		return false, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	var body meResponse
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&body) != nil {
		g.set(false)
		return false, nil
	}
	g.set(body.Admin)
	return body.Admin, nil
}

// Login submits the password and, on success, re-probes the session so
// the gate state comes from the server's verification rather than from
// an assumption about the login response.
func (g *Gate) Login(ctx context.Context, password string) error {
	payload, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return err
	}
	req, err := g.newRequest(ctx, http.MethodPost, "/api/auth/login", strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return &APIError{Status: resp.StatusCode, Message: body.Error}
	}

	_, err = g.Check(ctx)
	return err
}

// Logout clears the session. The gate fails closed immediately, before
// the server round-trip resolves.
func (g *Gate) Logout(ctx context.Context) error {
	g.set(false)

	req, err := g.newRequest(ctx, http.MethodPost, "/api/auth/logout", nil)
	if err != nil {
		return err
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	resp.Body.Close()
	return nil
}

func (g *Gate) newRequest(ctx context.Context, method, path string, body *strings.Reader) (*http.Request, error) {
	var r *http.Request
	var err error
	if body != nil {
		r, err = http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	} else {
		r, err = http.NewRequestWithContext(ctx, method, g.baseURL+path, nil)
	}
	if err != nil {
		return nil, err
	}
	r.Header.Set("X-Request-Id", uuid.NewString())
	return r, nil
}

func (g *Gate) set(admin bool) {
	g.mu.Lock()
	changed := !g.checked || g.admin != admin
	g.admin = admin
	g.checked = true
	subs := make([]func(bool), len(g.subs))
	copy(subs, g.subs)
	g.mu.Unlock()

	if changed {
		for _, fn := range subs {
			fn(admin)
		}
	}
}
