// internal/session/session.go
//
// Visitor sessions.
//
// Context
//   The booking form is server-rendered, so each visitor needs their own
//   lead.Controller between the POST and the redirected GET.  Store keeps
//   one controller per visitor in a bounded LRU with idle expiry, keyed by
//   a random UUID carried in the `herai_session` cookie.
//
//   Nothing is persisted.  A restart, an idle timeout, or LRU pressure
//   simply gives the visitor a fresh, empty form.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/herai/automation-site/internal/cache"
	"github.com/herai/automation-site/internal/lead"
	"github.com/herai/automation-site/internal/metrics"
)

// CookieName is the session cookie.
const CookieName = "herai_session"

// sweepEvery is how often Run drops idle sessions.
const sweepEvery = time.Minute

// Store maps session ids to controllers.  Safe for concurrent use.
type Store struct {
	lru     *cache.LRU
	ttl     time.Duration
	newCtrl func() *lead.Controller
}

// New returns a Store holding at most maxEntries sessions, each dropped
// after ttl of inactivity.  newCtrl builds the controller for a new visitor.
func New(maxEntries int, ttl time.Duration, newCtrl func() *lead.Controller) *Store {
	s := &Store{
		lru:     cache.New(maxEntries, ttl),
		ttl:     ttl,
		newCtrl: newCtrl,
	}
	s.lru.OnEvict(func(_, _ any) { metrics.ActiveSessions.Dec() })
	return s
}

// Controller returns the visitor's session id and controller, creating
// both when needed and (re)issuing the cookie.
func (s *Store) Controller(w http.ResponseWriter, r *http.Request) (string, *lead.Controller) {
	sid, ok := cookieID(r)
	if ok {
		if v, hit := s.lru.Get(sid); hit {
			s.setCookie(w, r, sid)
			return sid, v.(*lead.Controller)
		}
	} else {
		sid = uuid.NewString()
	}

	// Concurrent first requests for one sid may each build a controller;
	// GetOrAdd keeps exactly one and the rest are dropped unused.
	v, added := s.lru.GetOrAdd(sid, s.newCtrl())
	if added {
		metrics.ActiveSessions.Inc()
		zap.S().Debugw("session created", "sid_prefix", sid[:8])
	}
	s.setCookie(w, r, sid)
	return sid, v.(*lead.Controller)
}

// Len reports the number of live sessions.
func (s *Store) Len() int { return s.lru.Len() }

// Run sweeps idle sessions until ctx is done.
func (s *Store) Run(ctx context.Context) {
	t := time.NewTicker(sweepEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.lru.Sweep(); n > 0 {
				zap.S().Debugw("sessions expired", "count", n)
			}
		}
	}
}

// cookieID returns a well-formed session id from r.
func cookieID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func (s *Store) setCookie(w http.ResponseWriter, r *http.Request, sid string) {
	ck := &http.Cookie{
		Name:     CookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https"),
		SameSite: http.SameSiteLaxMode,
	}
	if s.ttl > 0 {
		ck.MaxAge = int(s.ttl.Seconds())
	}
	http.SetCookie(w, ck)
}
