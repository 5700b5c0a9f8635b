// internal/form/form_test.go
//
// Unit-tests for CSRF and ParseSubmission.
//
// Run: go test ./internal/form -v

package form

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func mustCSRF(t *testing.T) *CSRF {
	t.Helper()
	key := base64.RawURLEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	c, err := NewCSRF(key)
	if err != nil {
		t.Fatalf("NewCSRF: %v", err)
	}
	return c
}

func TestCSRF_RoundTrip(t *testing.T) {
	c := mustCSRF(t)
	tok, err := c.Generate("sid-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !c.Verify(tok, "sid-1") {
		t.Fatalf("fresh token rejected")
	}
	if c.Verify(tok, "sid-2") {
		t.Fatalf("token accepted for another session")
	}
	raw, _ := base64.RawURLEncoding.DecodeString(tok)
	raw[len(raw)-1] ^= 0xff
	if c.Verify(base64.RawURLEncoding.EncodeToString(raw), "sid-1") {
		t.Fatalf("tampered token accepted")
	}
	if c.Verify("", "sid-1") {
		t.Fatalf("empty token accepted")
	}
}

func TestCSRF_Expiry(t *testing.T) {
	c := mustCSRF(t)
	base := time.Now()
	c.now = func() time.Time { return base }
	tok, _ := c.Generate("s")

	c.now = func() time.Time { return base.Add(maxAge + time.Second) }
	if c.Verify(tok, "s") {
		t.Fatalf("expired token accepted")
	}

	c.now = func() time.Time { return base.Add(-2 * skew) }
	if c.Verify(tok, "s") {
		t.Fatalf("future token accepted")
	}
}

func TestCSRF_KeyHandling(t *testing.T) {
	if _, err := NewCSRF("short"); err == nil {
		t.Fatalf("short key accepted")
	}
	if c, err := NewCSRF(""); err != nil || c == nil {
		t.Fatalf("random key: %v", err)
	}
}

func TestParseSubmission(t *testing.T) {
	c := mustCSRF(t)
	tok, _ := c.Generate("sid")

	body := url.Values{
		TokenField: {tok},
		"name":     {"Ada"},
		"email":    {""},
		"extra":    {"ignored"},
	}
	req := httptest.NewRequest(http.MethodPost, "/consultation", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	got, err := ParseSubmission(httptest.NewRecorder(), req, c, "sid", []string{"name", "email", "company"})
	if err != nil {
		t.Fatalf("ParseSubmission: %v", err)
	}
	if len(got) != 2 || got["name"] != "Ada" || got["email"] != "" {
		t.Fatalf("fields = %#v", got)
	}
	if _, ok := got["company"]; ok {
		t.Fatalf("absent field reported")
	}
}

func TestParseSubmission_BadToken(t *testing.T) {
	c := mustCSRF(t)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("csrf_token=nope"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := VerifyPost(httptest.NewRecorder(), req, c, "sid"); err != ErrBadToken {
		t.Fatalf("err = %v, want ErrBadToken", err)
	}
}
