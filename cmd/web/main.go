// cmd/web/main.go
//
// HER.AI landing site – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Bootstrap console logger so config errors are readable.
//
//  2. Connect to Vault when VAULT_ADDR is set; config values of the form
//     "vault:<path>#<key>" are resolved through it.
//
//  3. Load and validate configuration (defaults → .env → conf/site.yaml →
//     HERAI_* env).  Missing backend settings abort start-up.
//
//  4. Start the rotating file logger (tees to console when in a TTY).
//
//  5. Build the consultation backend: Supabase REST, or a direct SQL
//     connection when backend.kind is "sql".
//
//  6. Build site copy, theme, sessions, CSRF guard, and owner notifier.
//
//  7. Mount components on a chi router wrapped with request-id, recovery,
//     logging, metrics, security headers, HTTPS enforcement, and request
//     enrichment.
//
//  8. Serve until SIGINT or SIGTERM, then drain.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/herai/automation-site/internal/component"
	"github.com/herai/automation-site/internal/config"
	"github.com/herai/automation-site/internal/content"
	"github.com/herai/automation-site/internal/database"
	"github.com/herai/automation-site/internal/form"
	"github.com/herai/automation-site/internal/lead"
	"github.com/herai/automation-site/internal/logger"
	"github.com/herai/automation-site/internal/message"
	"github.com/herai/automation-site/internal/metrics"
	"github.com/herai/automation-site/internal/middleware"
	"github.com/herai/automation-site/internal/requestinfo"
	"github.com/herai/automation-site/internal/server"
	"github.com/herai/automation-site/internal/session"
	"github.com/herai/automation-site/internal/supabase"
	"github.com/herai/automation-site/internal/theme"
	"github.com/herai/automation-site/internal/vault"
	"github.com/herai/automation-site/internal/view"

	_ "github.com/herai/automation-site/components/api"
	_ "github.com/herai/automation-site/components/landing"
)

// pinger is implemented by backends that can report their health.
type pinger interface {
	Ping(ctx context.Context) error
}

func main() {
	boot := logger.Bootstrap()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Secrets and configuration ──────────────────────────────────
	//
	var secrets config.SecretResolver
	if vault.Enabled() {
		vc, err := vault.New(ctx)
		if err != nil {
			boot.Fatalw("vault connect", "err", err)
		}
		secrets = vc
	}

	cfg, err := config.Load(ctx, secrets)
	if err != nil {
		boot.Fatalw("configuration invalid", "err", err)
	}

	log, err := logger.New(logger.Options{
		Root:  cfg.Paths.Root,
		Tee:   logger.RunningInTTY(),
		Level: cfg.Log.Level,
	})
	if err != nil {
		boot.Fatalw("start logger", "err", err)
	}
	defer func() { _ = log.Sync() }()

	//
	// ── 2.  Consultation backend ───────────────────────────────────────
	//
	sub, health, closeBackend := openBackend(cfg.Backend, log)
	defer closeBackend()

	//
	// ── 3.  Presentation, sessions, and side effects ────────────────────
	//
	site, err := content.Load(cfg.Content.Path)
	if err != nil {
		log.Fatalw("load site content", "err", err)
	}
	views, err := view.NewEngine(cfg.Theme.Dir, site)
	if err != nil {
		log.Fatalw("load theme", "err", err)
	}
	guard, err := form.NewCSRF(cfg.Security.CSRFKey)
	if err != nil {
		log.Fatalw("csrf key", "err", err)
	}
	enricher, err := requestinfo.NewEnricher(cfg.GeoIP.DBPath)
	if err != nil {
		log.Fatalw("geoip", "err", err)
	}
	defer enricher.Close()

	notifier := message.New(cfg.Mail)
	if notifier.Enabled() {
		log.Infow("owner notifications enabled", "to", cfg.Mail.Notify)
	}
	defer notifier.Wait()

	newCtrl := func() *lead.Controller {
		return lead.NewController(sub,
			lead.WithLogger(log),
			lead.WithObserver(func(out lead.Outcome, took time.Duration) {
				metrics.ObserveSubmit(out.Kind.String(), took)
			}),
			lead.WithSuccessHook(notifier.NotifyConsultation),
		)
	}
	sessions := session.New(cfg.Session.MaxEntries, cfg.Session.IdleTTL, newCtrl)
	go sessions.Run(ctx)

	//
	// ── 4.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Metrics)
	r.Use(middleware.Security)
	r.Use(middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS))
	r.Use(enricher.Middleware)

	started := time.Now()
	r.Get("/healthz", healthHandler(started, health))
	r.Handle("/metrics", promhttp.Handler())
	r.Handle(theme.AssetPrefix+"*",
		http.StripPrefix(theme.AssetPrefix, http.FileServer(views.Assets())))

	if err := component.Mount(r, component.Deps{
		Views:         views,
		Sessions:      sessions,
		CSRF:          guard,
		NewController: newCtrl,
		CORSOrigins:   cfg.HTTP.CORSOrigins,
	}); err != nil {
		log.Fatalw("mount components", "err", err)
	}

	//
	// ── 5.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, r)
	if err := server.Run(ctx, srv, cfg.HTTP.ShutdownTimeout); err != nil {
		log.Errorw("http server", "err", err)
		os.Exit(1)
	}
	log.Infow("bye")
}

// openBackend returns the Submitter for cfg, an optional health probe, and
// a cleanup func.  Any failure is fatal.
func openBackend(cfg config.Backend, log *zap.SugaredLogger) (lead.Submitter, pinger, func()) {
	switch cfg.Kind {
	case config.BackendSQL:
		db, err := database.Open(cfg.Driver, cfg.DSN)
		if err != nil {
			log.Fatalw("connect database", "driver", cfg.Driver, "err", err)
		}
		repo, err := database.NewConsultationRepository(db, cfg.Table)
		if err != nil {
			log.Fatalw("consultation repository", "err", err)
		}
		log.Infow("backend ready", "kind", cfg.Kind, "driver", cfg.Driver, "table", cfg.Table)
		return repo, repo, func() { _ = db.Close() }

	default:
		client, err := supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey,
			supabase.WithTable(cfg.Table))
		if err != nil {
			log.Fatalw("supabase client", "err", err)
		}
		log.Infow("backend ready", "kind", cfg.Kind, "table", cfg.Table)
		return client, nil, func() {}
	}
}

// healthHandler reports uptime and, when the backend supports it, a ping.
func healthHandler(started time.Time, p pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				zap.S().Warnw("health ping failed", "err", err)
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": status,
			"uptime": time.Since(started).Round(time.Second).String(),
		})
	}
}
