package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/herai/automation-site/internal/lead"
	"github.com/herai/automation-site/internal/metrics"
)

func newStore(max int) *Store {
	return New(max, time.Hour, func() *lead.Controller {
		return lead.NewController(lead.SubmitterFunc(func(context.Context, lead.Record) error { return nil }))
	})
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestController_NewVisitorGetsCookie(t *testing.T) {
	s := newStore(10)
	rr := httptest.NewRecorder()
	sid, c := s.Controller(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if c == nil || sid == "" {
		t.Fatalf("no controller issued")
	}
	ck := sessionCookie(t, rr)
	if ck.Value != sid || !ck.HttpOnly || ck.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie = %+v", ck)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d", s.Len())
	}
}

func TestController_ReturningVisitorKeepsState(t *testing.T) {
	s := newStore(10)
	rr := httptest.NewRecorder()
	sid, c := s.Controller(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	_ = c.OnFieldChange(lead.FieldName, "Ada")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, rr))
	sid2, c2 := s.Controller(httptest.NewRecorder(), req)

	if sid2 != sid || c2 != c {
		t.Fatalf("returning visitor got a new session")
	}
	if c2.State().Name != "Ada" {
		t.Fatalf("state lost")
	}
}

func TestController_GarbageCookieIgnored(t *testing.T) {
	s := newStore(10)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-uuid"})

	sid, _ := s.Controller(httptest.NewRecorder(), req)
	if sid == "not-a-uuid" {
		t.Fatalf("garbage id accepted")
	}
}

func TestController_IsolatedVisitors(t *testing.T) {
	s := newStore(10)
	_, a := s.Controller(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	_, b := s.Controller(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if a == b {
		t.Fatalf("two visitors share a controller")
	}
}

func TestController_CapacityBound(t *testing.T) {
	s := newStore(2)
	for i := 0; i < 5; i++ {
		s.Controller(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
}

func TestController_ConcurrentUnknownSidSharesOneController(t *testing.T) {
	s := New(10, time.Hour, func() *lead.Controller {
		time.Sleep(5 * time.Millisecond) // widen the window between lookup and insert
		return lead.NewController(lead.SubmitterFunc(func(context.Context, lead.Record) error { return nil }))
	})
	sid := uuid.NewString() // well-formed but unknown, as after a restart
	before := testutil.ToFloat64(metrics.ActiveSessions)

	var wg sync.WaitGroup
	got := make([]*lead.Controller, 50)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: CookieName, Value: sid})
			_, got[i] = s.Controller(httptest.NewRecorder(), req)
		}(i)
	}
	wg.Wait()

	for _, c := range got {
		if c != got[0] {
			t.Fatalf("concurrent requests for one sid got different controllers")
		}
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	if d := testutil.ToFloat64(metrics.ActiveSessions) - before; d != 1 {
		t.Fatalf("active_sessions moved by %v, want 1", d)
	}
}
