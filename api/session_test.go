package api

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRequiresSecret(t *testing.T) {
	_, err := newSessionCodec("")
	require.ErrorIs(t, err, ErrSecretRequired)

	_, err = newSessionCodec("   \t\n")
	require.ErrorIs(t, err, ErrSecretRequired)
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	c, err := newSessionCodec("correct-horse")
	require.NoError(t, err)

	token, expiresAt, err := c.issue()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(sessionTTL), expiresAt, time.Minute)
	assert.True(t, c.verify(token))
}

func TestVerifyFailsAfterTTL(t *testing.T) {
	c, err := newSessionCodec("correct-horse")
	require.NoError(t, err)

	issued := time.Now()
	c.now = func() time.Time { return issued }
	token, _, err := c.issue()
	require.NoError(t, err)
	require.True(t, c.verify(token))

	c.now = func() time.Time { return issued.Add(sessionTTL + time.Millisecond) }
	assert.False(t, c.verify(token), "expired-but-well-signed token must be invalid")
}

func TestVerifyFailsUnderDifferentSecret(t *testing.T) {
	c1, err := newSessionCodec("secret-one")
	require.NoError(t, err)
	c2, err := newSessionCodec("secret-two")
	require.NoError(t, err)

	token, _, err := c1.issue()
	require.NoError(t, err)

	assert.True(t, c1.verify(token))
	assert.False(t, c2.verify(token), "rotated secret invalidates outstanding tokens")
}

func TestVerifyTamperSensitivity(t *testing.T) {
	c, err := newSessionCodec("correct-horse")
	require.NoError(t, err)

	token, _, err := c.issue()
	require.NoError(t, err)

	sep := strings.LastIndexByte(token, '.')
	require.Greater(t, sep, 0)

	// Mutating any single character of the signature segment must fail.
	for i := sep + 1; i < len(token); i++ {
		mutated := []byte(token)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		assert.False(t, c.verify(string(mutated)), "mutation at %d accepted", i)
	}
}

func TestVerifyTamperedPayload(t *testing.T) {
	c, err := newSessionCodec("correct-horse")
	require.NoError(t, err)

	token, _, err := c.issue()
	require.NoError(t, err)

	sep := strings.LastIndexByte(token, '.')
	// Forge a far-future expiry while keeping the original signature.
	forged := base64.RawURLEncoding.EncodeToString(
		[]byte(`{"id":"00000000000000000000000000000000","exp":99999999999999}`))
	assert.False(t, c.verify(forged+token[sep:]))
}

func TestVerifyMalformedTokens(t *testing.T) {
	c, err := newSessionCodec("correct-horse")
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":              "",
		"no separator":       "abcdef",
		"leading separator":  ".abcdef",
		"trailing separator": "abcdef.",
		"bad payload base64": "!!!.YWJj",
		"bad mac base64":     "YWJj.!!!",
		"garbage claims":     base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".YWJj",
	} {
		assert.False(t, c.verify(token), "case %q", name)
	}
}

func TestVerifyRejectsEmptySessionID(t *testing.T) {
	c, err := newSessionCodec("correct-horse")
	require.NoError(t, err)

	raw := []byte(`{"id":"","exp":99999999999999}`)
	token := base64.RawURLEncoding.EncodeToString(raw) +
		"." + base64.RawURLEncoding.EncodeToString(c.sign(raw))
	assert.False(t, c.verify(token))
}
