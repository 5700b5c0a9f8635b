// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from these layers (highest
precedence last):

  1. Built-in defaults (model.go).
  2. Optional `.env` file, `<root>/conf/.env` then `<root>/.env`.
  3. Optional `conf/site.yaml`.
  4. Environment variables prefixed `HERAI_`, where `__` maps to “.”
     (e.g., `HERAI_HTTP__LISTEN_ADDR → http.listen_addr`).

After the layers, two plain aliases fill the Supabase settings when they
are still empty: `SUPABASE_URL` (or `VITE_SUPABASE_URL`) and
`SUPABASE_ANON_KEY` (or `VITE_SUPABASE_ANON_KEY`).  Any string value of the
form `vault:<mount/path>#<key>` is then swapped for the secret it names.

The tree is unmarshalled into strongly-typed structs, validated, enriched
with the runtime root path, and cached in an `atomic.Pointer` for
lock-free reads.

Instrumentation
---------------
  • DEBUG spans: root discovery, YAML read, env overlay.
  • ERROR spans: YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span:  final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/site.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
  • Secrets are never logged, only whether they are set.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// EnvPrefix is the override prefix for every key.
const EnvPrefix = "HERAI_"

// vaultPrefix marks a value that must be resolved through Vault.
const vaultPrefix = "vault:"

// secretTTL is how long a resolved Vault value stays cached.
const secretTTL = 5 * time.Minute

// SecretResolver fetches one key of a KV secret.  *vault.Client fits.
type SecretResolver interface {
	GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error)
}

var current atomic.Pointer[Config]

// aliases maps plain env names onto config keys, first hit wins.
var aliases = []struct {
	key   string
	names []string
}{
	{"backend.supabase_url", []string{"SUPABASE_URL", "VITE_SUPABASE_URL"}},
	{"backend.supabase_anon_key", []string{"SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY"}},
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves HERAI_ROOT or climbs directories until conf/site.yaml
// is found.  Falls back to the working directory.
func rootDir() string {
	if r := os.Getenv("HERAI_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "site.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads every layer, resolves vault references through secrets (may
// be nil), validates, and caches Config.  Validation problems come back
// as *Error.
func Load(ctx context.Context, secrets SecretResolver) (*Config, error) {
	return LoadFrom(ctx, rootDir(), secrets)
}

// LoadFrom is Load with an explicit root directory.
func LoadFrom(ctx context.Context, root string, secrets SecretResolver) (*Config, error) {
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing).  godotenv never overrides
	// variables already present in the process environment.
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))
	_ = godotenv.Load(filepath.Join(root, ".env"))

	k := koanf.New(".")
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("config default %s: %w", key, err)
		}
	}

	yamlPath := filepath.Join(root, "conf", "site.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, &Error{Err: fmt.Errorf("parse %s: %w", yamlPath, err)}
		}
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	}

	// Env overrides: HERAI_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	for _, a := range aliases {
		if k.String(a.key) != "" {
			continue
		}
		for _, name := range a.names {
			if val := os.Getenv(name); val != "" {
				_ = k.Set(a.key, val)
				break
			}
		}
	}

	if err := resolveSecrets(ctx, k, secrets); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, &Error{Err: err}
	}

	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"backend", cfg.Backend.Kind,
		"table", cfg.Backend.Table,
		"mail_notify", cfg.Mail.Notify != "",
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// envKey maps HERAI_BACKEND__SUPABASE_URL to backend.supabase_url.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

/*──────────────────────────── vault refs ──────────────────────────────────*/

// resolveSecrets replaces every `vault:path#key` string in k.  A reference
// without a resolver is a configuration error.
func resolveSecrets(ctx context.Context, k *koanf.Koanf, secrets SecretResolver) error {
	keys := k.Keys()
	sort.Strings(keys)

	for _, key := range keys {
		raw, ok := k.Get(key).(string)
		if !ok || !strings.HasPrefix(raw, vaultPrefix) {
			continue
		}
		path, field, err := parseRef(raw)
		if err != nil {
			return &Error{Keys: []string{key}, Err: err}
		}
		if secrets == nil {
			return &Error{Keys: []string{key}, Err: errors.New("vault reference but VAULT_ADDR is not set")}
		}
		val, err := secrets.GetKV(ctx, path, field, secretTTL)
		if err != nil {
			return &Error{Keys: []string{key}, Err: err}
		}
		if err := k.Set(key, val); err != nil {
			return err
		}
		zap.S().Debugw("config secret resolved", "key", key, "path", path)
	}
	return nil
}

// parseRef splits "vault:secret/herai#anon_key".
func parseRef(raw string) (path, key string, err error) {
	ref := strings.TrimPrefix(raw, vaultPrefix)
	i := strings.LastIndexByte(ref, '#')
	if i <= 0 || i == len(ref)-1 {
		return "", "", fmt.Errorf("malformed vault reference %q", raw)
	}
	return ref[:i], ref[i+1:], nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// Get returns the last successfully loaded Config, or nil.
func Get() *Config { return current.Load() }
