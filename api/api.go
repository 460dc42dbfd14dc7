// Package api implements the session authentication boundary for the
// Broadside site: signed-cookie issuance and verification, login rate
// limiting, and the login/me/logout endpoints.
package api

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"

	"github.com/broadside-press/broadside/config"
	"github.com/broadside-press/broadside/ratelimit"
)

//go:embed openapi.yaml
var openapiSpec []byte

// API holds the dependencies needed by the auth handlers.
type API struct {
	adminPassword      string
	codec              *sessionCodec
	limiter            ratelimit.Limiter
	audit              *auditLogger
	allowedOrigins     []string
	forceSecureCookies bool
}

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger for audit events.
// If not set, a default JSON logger writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.audit = newAuditLogger(logger)
	}
}

// WithLimiter sets the login rate limiter. If not set, a process-local
// in-memory limiter is used.
func WithLimiter(l ratelimit.Limiter) Option {
	return func(a *API) {
		a.limiter = l
	}
}

// New creates a new API instance from configuration. A missing signing
// secret does not fail construction: the public endpoints still serve,
// and the login path answers "not configured" until the operator sets
// ADMIN_PASSWORD.
func New(cfg *config.Config, opts ...Option) *API {
	a := &API{
		adminPassword:      cfg.AdminPassword,
		allowedOrigins:     cfg.CORSOrigin,
		forceSecureCookies: cfg.CookieSecure,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.limiter == nil {
		a.limiter = ratelimit.NewMemory()
	}
	if a.audit == nil {
		a.audit = newAuditLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}
	if secret := cfg.SigningSecret(); secret != "" {
		codec, err := newSessionCodec(secret)
		if err != nil {
			a.audit.logger.Warn("session codec disabled", "error", err)
		}
		a.codec = codec
	}
	return a
}

// Configured reports whether the login path is usable, i.e. an admin
// password and signing secret are set.
func (a *API) Configured() bool {
	return a.codec != nil && a.adminPassword != ""
}

// Router returns a chi.Router with all API routes mounted. Mount it
// under /api.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(a.CORS)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})

	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/api/openapi.yaml",
		Path:    "api/docs",
	}, nil))

	r.Handle("/redoc*", middleware.Redoc(middleware.RedocOpts{
		SpecURL: "/api/openapi.yaml",
		Path:    "api/redoc",
	}, nil))

	r.Post("/auth/login", a.Login)
	r.Get("/auth/me", a.Me)
	r.Post("/auth/logout", a.Logout)
	r.Get("/health", a.Health)

	return r
}

// methodNotAllowed answers 405 with the body shape of the endpoint
// being probed: me and logout never signal failure beyond the method
// rejection itself.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/auth/me"):
		writeJSON(w, http.StatusMethodNotAllowed, MeResponse{Admin: false})
	case strings.HasSuffix(r.URL.Path, "/auth/logout"):
		writeJSON(w, http.StatusMethodNotAllowed, LogoutResponse{OK: false})
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	}
}
