package api

import (
	"log/slog"
	"net/http"
	"time"
)

// AuditEvent identifies the type of security-relevant action being logged.
type AuditEvent string

const (
	AuditLoginSuccess      AuditEvent = "login_success"
	AuditLoginFailure      AuditEvent = "login_failure"
	AuditLoginRateLimited  AuditEvent = "login_rate_limited"
	AuditLoginUnconfigured AuditEvent = "login_unconfigured"
	AuditLogout            AuditEvent = "logout"
)

// auditLogger wraps slog.Logger for structured security audit logging.
// Passwords and token material are never logged.
type auditLogger struct {
	logger *slog.Logger
}

func newAuditLogger(logger *slog.Logger) *auditLogger {
	return &auditLogger{
		logger: logger.With("component", "audit"),
	}
}

func (al *auditLogger) log(event AuditEvent, r *http.Request, attrs ...slog.Attr) {
	baseAttrs := []slog.Attr{
		slog.String("event", string(event)),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}
	if reqID := r.Header.Get("X-Request-Id"); reqID != "" {
		baseAttrs = append(baseAttrs, slog.String("request_id", reqID))
	}
	baseAttrs = append(baseAttrs, attrs...)
	al.logger.LogAttrs(r.Context(), slog.LevelInfo, "audit", baseAttrs...)
}

// logEvent records an auth event with the client's rate-limit identity
// (an IP or the shared "unknown" bucket, safe for logs).
func (al *auditLogger) logEvent(event AuditEvent, r *http.Request, clientID string, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("client_id", clientID),
	}
	attrs = append(attrs, extra...)
	al.log(event, r, attrs...)
}

// logFailure records a failed or refused login attempt.
func (al *auditLogger) logFailure(event AuditEvent, r *http.Request, reason string, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("reason", reason),
	}
	attrs = append(attrs, extra...)
	al.log(event, r, attrs...)
}
