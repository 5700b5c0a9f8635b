// internal/content/content.go
//
// Site copy loader.
//
// Context
//   Every visible string on the landing page lives in one YAML document.
//   The default is embedded (site.yaml next to this file); operators may
//   point `content.path` at their own copy.  Load parses and validates the
//   document once at startup and the result is treated as read-only.
//
// Workflow
//   •  Structs mirror the YAML schema: Site → Hero, About, Services, ...
//   •  Load reads the override or the embedded default.
//   •  validate enforces that every service card maps onto a selectable
//      service, so the cards and the booking form never drift apart.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/herai/automation-site/internal/lead"
)

//go:embed site.yaml
var defaultYAML []byte

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// Card is one title/body tile.  Key is set on service cards only.
type Card struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Section is a titled group of cards.
type Section struct {
	Title string `yaml:"title"`
	Intro string `yaml:"intro"`
	Cards []Card `yaml:"cards"`
}

// Hero is the above-the-fold block.
type Hero struct {
	Headline []string `yaml:"headline"`
	CTA      string   `yaml:"cta"`
}

// Booking is the consultation form copy.
type Booking struct {
	Headline     string            `yaml:"headline"`
	Intro        string            `yaml:"intro"`
	CardTitle    string            `yaml:"card_title"`
	CardBody     string            `yaml:"card_body"`
	Availability string            `yaml:"availability"`
	Placeholders map[string]string `yaml:"placeholders"`
	Submit       string            `yaml:"submit"`
	Submitting   string            `yaml:"submitting"`
}

// Thanks is the confirmation view copy.
type Thanks struct {
	Title  string `yaml:"title"`
	Body   string `yaml:"body"`
	Action string `yaml:"action"`
}

// Site is the whole document.
type Site struct {
	Brand       string  `yaml:"brand"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Hero        Hero    `yaml:"hero"`
	About       Section `yaml:"about"`
	Services    Section `yaml:"services"`
	Booking     Booking `yaml:"booking"`
	Thanks      Thanks  `yaml:"thanks"`
	Footer      string  `yaml:"footer"`
}

// Placeholder returns the placeholder for a form field, or "".
func (s *Site) Placeholder(field string) string { return s.Booking.Placeholders[field] }

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// Load parses the YAML at path, or the embedded default when path is empty.
func Load(path string) (*Site, error) {
	raw := defaultYAML
	src := "embedded site.yaml"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read content file %s: %w", path, err)
		}
		raw, src = b, path
	}
	return parse(raw, src)
}

// Default returns the embedded copy.  It panics only if the embedded file
// is broken, which tests guard against.
func Default() *Site {
	s, err := parse(defaultYAML, "embedded site.yaml")
	if err != nil {
		panic(err)
	}
	return s
}

func parse(raw []byte, src string) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", src, err)
	}
	if err := validate(&s, src); err != nil {
		return nil, err
	}
	return &s, nil
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

func validate(s *Site, src string) error {
	if s.Brand == "" {
		return fmt.Errorf("content %s: missing required 'brand'", src)
	}
	if s.Booking.Submit == "" || s.Booking.Submitting == "" {
		return fmt.Errorf("content %s: booking.submit and booking.submitting are required", src)
	}
	if s.Thanks.Title == "" || s.Thanks.Action == "" {
		return fmt.Errorf("content %s: thanks.title and thanks.action are required", src)
	}

	known := make(map[string]bool, len(lead.Services))
	for _, o := range lead.Services {
		known[o.Value] = true
	}
	for _, c := range s.Services.Cards {
		if !known[c.Key] {
			return fmt.Errorf("content %s: service card %q does not match a selectable service", src, c.Key)
		}
	}
	return nil
}
