package api

import (
	"net/http"
	"strings"
	"time"
)

const sessionCookieName = "session"

// writeSessionCookie sets the session token with the attributes the
// browser needs to keep it out of script reach and off cross-site
// requests: HttpOnly, SameSite=Strict, Path=/, Max-Age of the
// remaining token TTL rounded up to whole seconds, Secure on
// encrypted transport.
func (a *API) writeSessionCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	maxAge := int((time.Until(expiresAt) + time.Second - 1) / time.Second)
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.cookieSecure(r),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	})
}

// clearSessionCookie overwrites the session cookie with an empty value
// and Max-Age=0. The attributes must match those used when setting it,
// otherwise browsers may refuse to overwrite.
func (a *API) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   a.cookieSecure(r),
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// readSessionCookie returns the session token from the request, if
// any. Absent or empty cookies are simply absent, never an error.
func readSessionCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return strings.TrimSpace(cookie.Value), true
}

func (a *API) cookieSecure(r *http.Request) bool {
	return a.forceSecureCookies || requestIsSecure(r)
}

func requestIsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		return true
	}
	return strings.Contains(strings.ToLower(r.Header.Get("Forwarded")), "proto=https")
}
