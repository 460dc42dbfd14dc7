package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/broadside-press/broadside/internal/util"
)

// Login handles POST /api/auth/login. Each step is a hard gate: rate
// limit, operator configuration, password presence, then the
// constant-time password check.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	client := clientID(r)

	decision, err := a.limiter.Allow(r.Context(), client)
	switch {
	case err != nil:
		// A broken limiter store must not take the login path down
		// with it; log and let the attempt through.
		a.audit.logger.Warn("rate limiter unavailable", "error", err)
	case decision.Blocked:
		a.audit.logFailure(AuditLoginRateLimited, r, "rate limited",
			slog.String("client_id", client))
		writeRateLimited(w, decision.RetryAfter)
		return
	}

	if a.codec == nil || a.adminPassword == "" {
		a.audit.logFailure(AuditLoginUnconfigured, r, "admin password not set")
		writeError(w, http.StatusInternalServerError,
			"Admin login not configured. Set ADMIN_PASSWORD and redeploy.")
		return
	}

	req, ok := decodeJSON[LoginRequest](w, r, maxLoginBodySize)
	if !ok {
		return
	}
	submitted := strings.TrimSpace(req.Password)
	if submitted == "" {
		writeError(w, http.StatusBadRequest, "Password required.")
		return
	}

	if !passwordsMatch(submitted, a.adminPassword) {
		a.audit.logFailure(AuditLoginFailure, r, "invalid password",
			slog.String("client_id", client))
		writeError(w, http.StatusUnauthorized, "Invalid password.")
		return
	}

	token, expiresAt, err := a.codec.issue()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error.")
		return
	}
	a.writeSessionCookie(w, r, token, expiresAt)

	a.audit.logEvent(AuditLoginSuccess, r, client)
	writeJSON(w, http.StatusOK, LoginResponse{Success: true})
}

// Me handles GET /api/auth/me. This is a capability probe, not an
// authenticated action: it always answers 200 with the admin bool, for
// missing, malformed, expired, and tampered cookies alike.
func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	admin := false
	if a.codec != nil {
		if token, ok := readSessionCookie(r); ok {
			admin = a.codec.verify(token)
		}
	}
	writeJSON(w, http.StatusOK, MeResponse{Admin: admin})
}

// Logout handles POST /api/auth/logout. Idempotent: the cookie is
// cleared whether or not one was presented. With stateless sessions
// there is nothing server-side to revoke; an already captured token
// stays valid until its natural expiry.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	a.clearSessionCookie(w, r)
	a.audit.logEvent(AuditLogout, r, clientID(r))
	writeJSON(w, http.StatusOK, LogoutResponse{OK: true})
}

// Health handles GET /api/health.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{OK: true})
}

// passwordsMatch compares the submitted password against the
// configured one in constant time. Both operands are NFKD-normalized
// and hashed to a fixed length first, so the comparison never depends
// on where the first differing byte of the raw secrets occurs.
func passwordsMatch(submitted, configured string) bool {
	sh := blake2b.Sum256([]byte(util.Normalize(submitted)))
	ch := blake2b.Sum256([]byte(util.Normalize(configured)))
	return subtle.ConstantTimeCompare(sh[:], ch[:]) == 1
}
