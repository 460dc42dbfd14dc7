package api

import (
	"net/http"
	"slices"
)

// CORS applies the credentialed CORS policy for the auth endpoints and
// answers OPTIONS preflights with 204.
//
// Because responses carry credentials, the allowed origin is never a
// wildcard: it is either a configured allowlist entry matching the
// request's Origin, or, when no allowlist is configured, the
// request's Origin reflected back.
func (a *API) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowed := ""
		switch {
		case len(a.allowedOrigins) > 0:
			if slices.Contains(a.allowedOrigins, origin) {
				allowed = origin
			}
		default:
			allowed = origin
		}
		// The response differs by Origin whether or not the allow
		// header is emitted, so caches must always key on it.
		w.Header().Add("Vary", "Origin")
		if allowed != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
		}
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
