package view

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herai/automation-site/internal/content"
	"github.com/herai/automation-site/internal/lead"
	"github.com/herai/automation-site/internal/requestinfo"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine("", content.Default())
	require.NoError(t, err)
	return e
}

func TestRender_Home(t *testing.T) {
	e := newEngine(t)
	p := e.NewPage(PageHome)
	p.CSRF = "tok123"
	p.Form = lead.FormState{Name: "Ada <script>", BusinessSize: "small", Service: "workflow"}
	p.UI = lead.UIState{Notification: lead.Notification{Visible: true, Kind: lead.NotifyError, Message: "Please enter your name"}}

	rec := httptest.NewRecorder()
	require.NoError(t, e.Render(rec, PageHome, p))

	body := rec.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "<title>HER.AI Automation | Automate Your Business</title>")
	assert.Contains(t, body, `value="tok123"`)
	assert.Contains(t, body, "Ada &lt;script&gt;")
	assert.NotContains(t, body, "Ada <script>")
	assert.Contains(t, body, `<option value="small" selected>`)
	assert.Contains(t, body, `<option value="workflow" selected>`)
	assert.Contains(t, body, "toast-error")
	assert.Contains(t, body, "Please enter your name")
	assert.Contains(t, body, "device-desktop")
	assert.Contains(t, body, "application/ld+json")
}

func TestRender_SubmittingDisablesButton(t *testing.T) {
	e := newEngine(t)
	p := e.NewPage(PageHome)
	p.UI.IsSubmitting = true

	out, err := e.RenderToString(PageHome, p)
	require.NoError(t, err)
	assert.Contains(t, string(out), " disabled")
	assert.Contains(t, string(out), e.Site().Booking.Submitting)
}

func TestRender_Thanks(t *testing.T) {
	e := newEngine(t)
	p := e.NewPage(PageThanks)
	p.Info = &requestinfo.RequestInfo{UA: requestinfo.UA{Device: "Phone"}}

	out, err := e.RenderToString(PageThanks, p)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "Thank You!")
	assert.Contains(t, s, `action="/return"`)
	assert.Contains(t, s, "device-phone")
	assert.False(t, strings.Contains(s, "toast-"), "hidden toast must not render")
}

func TestRender_UnknownPage(t *testing.T) {
	e := newEngine(t)
	_, err := e.RenderToString("missing", e.NewPage(PageHome))
	assert.Error(t, err)
}

func TestFuncMap_NilSafe(t *testing.T) {
	fm := FuncMap()
	assert.Equal(t, "desktop", fm["device"].(func(*requestinfo.RequestInfo) string)(nil))
	assert.Equal(t, "", fm["browser"].(func(*requestinfo.RequestInfo) string)(nil))
	assert.False(t, fm["isBot"].(func(*requestinfo.RequestInfo) bool)(nil))

	bot := &requestinfo.RequestInfo{UA: requestinfo.UA{IsBot: true, Browser: "Googlebot"}}
	assert.True(t, fm["isBot"].(func(*requestinfo.RequestInfo) bool)(bot))
	assert.Equal(t, "Googlebot", fm["browser"].(func(*requestinfo.RequestInfo) string)(bot))
}

func TestDict(t *testing.T) {
	m := dict("a", 1, "b", "x", "dangling")
	assert.Equal(t, map[string]any{"a": 1, "b": "x"}, m)
}
