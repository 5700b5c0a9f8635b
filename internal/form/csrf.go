// internal/form/csrf.go
//
// Forms: stateless CSRF tokens.
//
// Context
//   Every page that renders a POST form embeds a hidden `csrf_token`
//   input.  The server verifies it on POST so only forms it rendered are
//   accepted.  Tokens are stateless and bound to the visitor's session id:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(key, nonce+unixMicro+sid) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – microseconds since Unix epoch, 8 bytes, big-endian.
//   •  HMAC – binds the token to the session id.  Verifies authenticity.
//
//   Validation checks the signature and ensures the timestamp is within
//   MaxAge.
//
// Workflow
//   •  NewCSRF(key)         → guard, key from `security.csrf_key`.
//   •  Generate(sid)        → token string for the renderer.
//   •  Verify(tok, sid)     → constant-time verify; false on any failure.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// TokenField is the hidden input name carrying the token.
const TokenField = "csrf_token"

const (
	tokenBytes = 16 + 8 + sha256.Size // nonce + ts + sig
	maxAge     = 2 * time.Hour        // token valid window
	skew       = time.Minute          // tolerated future timestamps
)

// CSRF issues and verifies tokens.  Safe for concurrent use.
type CSRF struct {
	key []byte
	now func() time.Time
}

// NewCSRF decodes a base64url key of at least 32 bytes.  An empty key
// yields a random per-process key, which invalidates open forms on restart.
func NewCSRF(encoded string) (*CSRF, error) {
	if encoded == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		zap.S().Warnw("security.csrf_key not set, using a random per-process key")
		return &CSRF{key: key, now: time.Now}, nil
	}

	key, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		key, err = base64.StdEncoding.DecodeString(encoded)
	}
	if err != nil || len(key) < 32 {
		return nil, fmt.Errorf("csrf: key must be base64 of at least 32 bytes")
	}
	return &CSRF{key: key, now: time.Now}, nil
}

// Generate creates a new token for sid.  Call once per form render.
func (c *CSRF) Generate(sid string) (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(c.now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, c.sign(nonce, ts, sid)...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify returns true if tok passes HMAC and age checks for sid.
func (c *CSRF) Verify(tok, sid string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce := raw[:16]
	tsBytes := raw[16:24]
	sig := raw[24:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	now := c.now()
	if now.Sub(issued) > maxAge || issued.Sub(now) > skew {
		return false
	}

	return hmac.Equal(sig, c.sign(nonce, tsBytes, sid))
}

func (c *CSRF) sign(nonce, ts []byte, sid string) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(nonce)
	mac.Write(ts)
	mac.Write([]byte(sid))
	return mac.Sum(nil)
}
