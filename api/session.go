package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/broadside-press/broadside/internal/util"
)

const sessionTTL = 24 * time.Hour

// ErrSecretRequired is returned when a codec is constructed without a
// signing secret. This is an operator error: SESSION_SECRET or
// ADMIN_PASSWORD must be set before the login path can work.
var ErrSecretRequired = errors.New("session secret is not configured")

// sessionClaims is the signed token payload. Exp is Unix milliseconds,
// matching the wire format of previously issued cookies.
type sessionClaims struct {
	ID  string `json:"id"`
	Exp int64  `json:"exp"`
}

// sessionCodec mints and verifies self-contained signed session
// tokens: base64url(JSON claims) + "." + base64url(HMAC-SHA256).
//
// Sessions are purely stateless: there is no server-side registry, so
// logout clears the client's cookie but cannot revoke an already
// captured token before its expiry. The short TTL bounds that window.
type sessionCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newSessionCodec(secret string) (*sessionCodec, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrSecretRequired
	}
	return &sessionCodec{
		secret: []byte(secret),
		ttl:    sessionTTL,
		now:    time.Now,
	}, nil
}

func (c *sessionCodec) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}

// issue mints a fresh token: a random 128-bit session id and an
// absolute expiry, serialized and signed under the current secret.
func (c *sessionCodec) issue() (token string, expiresAt time.Time, err error) {
	id, err := util.RandomHex(16)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt = c.now().Add(c.ttl)
	raw, err := json.Marshal(sessionClaims{ID: id, Exp: expiresAt.UnixMilli()})
	if err != nil {
		return "", time.Time{}, err
	}
	token = base64.RawURLEncoding.EncodeToString(raw) +
		"." + base64.RawURLEncoding.EncodeToString(c.sign(raw))
	return token, expiresAt, nil
}

// verify reports whether token carries a valid signature under the
// current secret and has not expired. Any malformation (missing
// separator, undecodable base64, unparseable claims) is simply
// invalid, never an error. The MAC comparison is constant-time.
func (c *sessionCodec) verify(token string) bool {
	i := strings.LastIndexByte(token, '.')
	if i <= 0 || i == len(token)-1 {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(token[:i])
	if err != nil {
		return false
	}
	mac, err := base64.RawURLEncoding.DecodeString(token[i+1:])
	if err != nil {
		return false
	}
	if !hmac.Equal(mac, c.sign(raw)) {
		return false
	}
	var claims sessionClaims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return false
	}
	if claims.ID == "" {
		return false
	}
	return c.now().UnixMilli() < claims.Exp
}
