package api

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// unknownClient is the shared bucket for requests whose origin cannot
// be derived. Sharing one bucket means missing headers degrade to a
// stricter limit rather than bypassing the limiter.
const unknownClient = "unknown"

// clientID derives the rate-limit identity for a request: the first
// valid address in the X-Forwarded-For chain, then the direct
// connection address, then the shared "unknown" bucket.
func clientID(r *http.Request) string {
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip, ok := parseIPCandidate(part); ok {
				return ip
			}
		}
	}
	if ip, ok := parseIPCandidate(r.RemoteAddr); ok {
		return ip
	}
	return unknownClient
}

func parseIPCandidate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"")
	if s == "" {
		return "", false
	}

	// Quoted IPv6 may appear as [::1]:1234.
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}

	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	// Drop zone if any (e.g. fe80::1%eth0).
	if i := strings.IndexByte(s, '%'); i >= 0 {
		s = s[:i]
	}

	if addr, err := netip.ParseAddr(s); err == nil {
		return addr.String(), true
	}
	if ip := net.ParseIP(s); ip != nil {
		return ip.String(), true
	}
	return "", false
}
