package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/herai/automation-site/internal/metrics"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestForceHTTPS(t *testing.T) {
	cases := []struct {
		name    string
		enabled bool
		host    string
		tls     bool
		proto   string
		want    int
	}{
		{"disabled", false, "herai.example", false, "", http.StatusOK},
		{"plain http redirects", true, "herai.example", false, "", http.StatusPermanentRedirect},
		{"tls passes", true, "herai.example", true, "", http.StatusOK},
		{"proxy https passes", true, "herai.example", false, "https", http.StatusOK},
		{"localhost passes", true, "localhost:8080", false, "", http.StatusOK},
		{"loopback passes", true, "127.0.0.1:8080", false, "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://"+tc.host+"/?a=1", nil)
			req.Host = tc.host
			if tc.tls {
				req.TLS = &tls.ConnectionState{}
			}
			if tc.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tc.proto)
			}
			rr := httptest.NewRecorder()
			ForceHTTPS(tc.enabled)(ok).ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
			if tc.want == http.StatusPermanentRedirect {
				if loc := rr.Header().Get("Location"); loc != "https://herai.example/?a=1" {
					t.Fatalf("Location = %q", loc)
				}
			}
		})
	}
}

func TestSecurity_HandlerMayOverride(t *testing.T) {
	h := Security(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rr.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
	if rr.Header().Get("Content-Security-Policy") == "" {
		t.Fatalf("CSP missing")
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("nosniff missing")
	}
}

func TestMetrics_LabelsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/things/{id}", ok)

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/things/{id}", "200"))
	for _, id := range []string{"1", "2", "3"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/things/"+id, nil))
	}
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/things/{id}", "200"))
	if after-before != 3 {
		t.Fatalf("counter delta = %v, want 3", after-before)
	}
}
