// internal/vault/vault.go
//
// Vault client wrapper.
//
// Context
// -------
//   - Provides a concurrency-safe client around the HashiCorp Vault Go SDK.
//   - Adds background token renewal, a KV-v2 helper, and per-key caching.
//   - Concurrent misses for the same key share one Vault round-trip
//     (singleflight), so a cold start does not stampede the server.
//   - internal/config uses GetKV to resolve `vault:path#key` values.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx)                   // during boot, only when VAULT_ADDR is set.
//  2. pw,  err := cli.GetKV(ctx, path, key, ttl)   // anywhere in the app.
//
// Notes
// -----
//   - Oxford commas, two spaces after periods, no m-dash.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//
// SECTION 1.  Public façade
//

// KV is the subset of the SDK GetKV depends on.  Tests substitute it.
type KV interface {
	Get(ctx context.Context, mount, rel string) (map[string]any, error)
}

// sdkKV adapts *vault.Client to KV.
type sdkKV struct{ api *vault.Client }

func (s sdkKV) Get(ctx context.Context, mount, rel string) (map[string]any, error) {
	sec, err := s.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return nil, err
	}
	return sec.Data, nil
}

// Client is safe for concurrent use.  Create once at startup and inject it.
// Zero value is invalid.
type Client struct {
	api *vault.Client
	kv  KV
	sfg singleflight.Group

	cacheMu sync.RWMutex
	cache   map[string]cached // canonical path#key → value + expiry.
}

type cached struct {
	val string
	exp time.Time
}

// Enabled reports whether VAULT_ADDR is set in the environment.
func Enabled() bool { return os.Getenv("VAULT_ADDR") != "" }

// New constructs a Vault client and starts a background token-renewal loop
// bound to ctx.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – initial token (falls back to ~/.vault-token).
func New(ctx context.Context) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}

	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	c := &Client{
		api:   apiCli,
		kv:    sdkKV{apiCli},
		cache: make(map[string]cached),
	}

	go c.renewLoop(ctx)

	zap.S().Infow("vault client ready", "addr", cfg.Address)
	return c, nil
}

// NewWithKV builds a Client over an arbitrary KV reader, without renewal.
func NewWithKV(kv KV) *Client {
	return &Client{kv: kv, cache: make(map[string]cached)}
}

// GetKV fetches a single key from a KV-v2 secret.  If ttl > 0 the result is
// cached for that duration.  Subsequent callers within the TTL receive the
// cached copy.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key

	if ttl > 0 {
		c.cacheMu.RLock()
		if cv, ok := c.cache[canonical]; ok && time.Now().Before(cv.exp) {
			c.cacheMu.RUnlock()
			return cv.val, nil
		}
		c.cacheMu.RUnlock()
	}

	v, err, _ := c.sfg.Do(canonical, func() (any, error) {
		mount, rel := splitMount(secretPath)
		data, err := c.kv.Get(ctx, mount, rel)
		if err != nil {
			return "", fmt.Errorf("vault get %s: %w", secretPath, err)
		}

		raw, ok := data[key]
		if !ok {
			return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
		}

		sval, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
		}

		if ttl > 0 {
			c.cacheMu.Lock()
			c.cache[canonical] = cached{val: sval, exp: time.Now().Add(ttl)}
			c.cacheMu.Unlock()
		}
		return sval, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

//
// SECTION 2.  Background token renewal
//

func (c *Client) renewLoop(ctx context.Context) {
	log := zap.S().With("component", "vault")
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Probe the current token.
		sec, err := c.api.Auth().Token().RenewSelf(0)
		if err != nil {
			log.Warnw("token renew self failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}

		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			log.Infow("token is not renewable, sleeping", "for", time.Hour)
			backoff(ctx, time.Hour)
			continue
		}

		watcher, err := c.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{
			Secret: sec,
		})
		if err != nil {
			log.Warnw("lifetime watcher init error", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}

		go watcher.Start()
		c.watch(ctx, watcher)
		if ctx.Err() != nil {
			return
		}
		backoff(ctx, 15*time.Second)
	}
}

// watch blocks until the watcher finishes or ctx ends.
func (c *Client) watch(ctx context.Context, w *vault.LifetimeWatcher) {
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				zap.S().Warnw("vault token renewal stopped", "err", err)
			}
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				zap.S().Debugw("vault token renewed", "ttl_seconds", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

//
// SECTION 3.  Helpers
//

func splitMount(p string) (mount, rel string) {
	if p == "" {
		return "", ""
	}
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}

func backoff(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
