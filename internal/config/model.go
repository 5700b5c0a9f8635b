// internal/config/model.go
//
// Typed configuration model for the HER.AI site.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from four overlay layers:
//
//   • built-in defaults                       – see defaults below,
//   • optional `.env`                         – dotenv values,
//   • optional `conf/site.yaml`               – primary static file,
//   • `HERAI_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

// Backend kinds.
const (
	BackendSupabase = "supabase"
	BackendSQL      = "sql"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0"`
}

//
// Backend section
//

// Backend selects where consultation requests are written.
//
// With Kind `supabase` the REST endpoint and the anon key are mandatory;
// both are usually supplied through SUPABASE_URL and SUPABASE_ANON_KEY.
// With Kind `sql` the Driver and DSN are mandatory and the app writes
// straight into the table over database/sql.
type Backend struct {
	Kind            string `koanf:"kind"              validate:"required,oneof=supabase sql"`
	Table           string `koanf:"table"             validate:"required"`
	SupabaseURL     string `koanf:"supabase_url"      validate:"required_if=Kind supabase,omitempty,url"`
	SupabaseAnonKey string `koanf:"supabase_anon_key" validate:"required_if=Kind supabase"`
	Driver          string `koanf:"driver"            validate:"required_if=Kind sql,omitempty,oneof=postgres mysql"`
	DSN             string `koanf:"dsn"               validate:"required_if=Kind sql"`
}

//
// Security section
//

// Security holds the CSRF signing key.  Empty means "generate one per
// process", which is fine for a single instance.
type Security struct {
	CSRFKey string `koanf:"csrf_key"`
}

//
// Session section
//

// Session bounds the in-memory visitor store.
type Session struct {
	MaxEntries int           `koanf:"max_entries" validate:"min=1"`
	IdleTTL    time.Duration `koanf:"idle_ttl"    validate:"min=0"`
}

//
// Presentation sections
//

// Theme points at an optional on-disk template override directory.
type Theme struct {
	Dir string `koanf:"dir"`
}

// Content points at an optional site-copy YAML override.
type Content struct {
	Path string `koanf:"path"`
}

// GeoIP points at an optional GeoLite2-City database.
type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

//
// Mail section
//

// Mail configures the owner notification.  Notify empty disables it.
type Mail struct {
	Host     string `koanf:"host"     validate:"required_with=Notify"`
	Port     int    `koanf:"port"     validate:"min=0,max=65535"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	From     string `koanf:"from"     validate:"omitempty,email"`
	Notify   string `koanf:"notify"   validate:"omitempty,email"`
}

//
// Log section
//

// Log tunes the process logger.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // HERAI_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Backend  Backend  `koanf:"backend"`
	Security Security `koanf:"security"`
	Session  Session  `koanf:"session"`
	Theme    Theme    `koanf:"theme"`
	Content  Content  `koanf:"content"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Mail     Mail     `koanf:"mail"`
	Log      Log      `koanf:"log"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}

// defaults seeds the tree before any layer is applied.
var defaults = map[string]any{
	"http.listen_addr":      ":8080",
	"http.force_https":      false,
	"http.shutdown_timeout": "10s",
	"backend.kind":          BackendSupabase,
	"backend.table":         "consultations",
	"session.max_entries":   10000,
	"session.idle_ttl":      "2h",
	"mail.port":             587,
	"log.level":             "info",
}
