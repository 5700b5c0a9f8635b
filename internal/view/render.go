// internal/view/render.go
//
// Central view engine: holds the parsed theme, the site copy, and the func
// map, and turns a controller snapshot into a full HTML page.
//
// Public helpers
// --------------
//   - NewEngine      – parse the theme once with the view func map.
//   - Page           – data contract every page template receives.
//   - Render         – buffer, then write rendered HTML to w.
//   - RenderToString – return template.HTML (tests, e-mails).
//
// Template naming
// ---------------
//   - execName() chooses the best template to execute:
//       – If the set contains "<name>.html", we run that (file has no define).
//       – Else we fall back to "<name>" (root template defined via {{ define }}).
//   - Callers pass the logical name ("home", "thanks").
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/herai/automation-site/internal/content"
	"github.com/herai/automation-site/internal/head"
	"github.com/herai/automation-site/internal/lead"
	"github.com/herai/automation-site/internal/requestinfo"
	"github.com/herai/automation-site/internal/theme"
)

// Logical page names.
const (
	PageHome   = "home"
	PageThanks = "thanks"
)

// Page is what every page template receives as dot.
type Page struct {
	Head          *head.Builder
	Site          *content.Site
	Form          lead.FormState
	UI            lead.UIState
	CSRF          string
	BusinessSizes []lead.Option
	Services      []lead.Option
	Info          *requestinfo.RequestInfo
}

// Engine is safe for concurrent use once built.
type Engine struct {
	theme *theme.Theme
	site  *content.Site
}

// NewEngine parses the theme at dir ("" for the embedded default).
func NewEngine(themeDir string, site *content.Site) (*Engine, error) {
	th, err := theme.Load(themeDir, FuncMap())
	if err != nil {
		return nil, err
	}
	return &Engine{theme: th, site: site}, nil
}

// Assets exposes the theme's static file system for the router.
func (e *Engine) Assets() http.FileSystem { return e.theme.Assets }

// Site returns the copy the engine renders with.
func (e *Engine) Site() *content.Site { return e.site }

// NewPage seeds a Page with the head tags, the copy, and the option lists.
// The caller fills Form, UI, CSRF, and Info.
func (e *Engine) NewPage(name string) *Page {
	h := head.New()
	title := e.site.Title
	if name == PageThanks && e.site.Thanks.Title != "" {
		title = e.site.Thanks.Title + " | " + e.site.Brand
	}
	h.SetTitle(title)
	h.Description(e.site.Description)
	h.Meta(`<meta property="og:title" content="` + template.HTMLEscapeString(title) + `">`)
	h.Meta(`<meta property="og:type" content="website">`)
	if name == PageHome {
		_ = h.JSONLD(map[string]any{
			"@context":    "https://schema.org",
			"@type":       "ProfessionalService",
			"name":        e.site.Brand,
			"description": e.site.Description,
		})
	}
	return &Page{
		Head:          h,
		Site:          e.site,
		BusinessSizes: lead.BusinessSizes,
		Services:      lead.Services,
	}
}

// Render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (e *Engine) Render(w http.ResponseWriter, name string, p *Page) error {
	var buf bytes.Buffer
	if err := e.theme.Renderer.ExecuteTemplate(&buf, execName(e.theme.Renderer, name), p); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, err := buf.WriteTo(w)
	return err
}

// RenderToString mirrors Render, but returns the markup.
func (e *Engine) RenderToString(name string, p *Page) (template.HTML, error) {
	var buf bytes.Buffer
	if err := e.theme.Renderer.ExecuteTemplate(&buf, execName(e.theme.Renderer, name), p); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

//
// func-map builders
//

// FuncMap returns the helpers every theme template may call.
func FuncMap() template.FuncMap {
	fm := template.FuncMap{"dict": dict}
	for k, v := range uaFuncMap() { // UA helpers (browser/os parsing)
		fm[k] = v
	}
	return fm
}

//
// helpers
//

// execName picks the template name to execute.
//
// Priority:
//  1. If the set has "<name>.html" (file-based template), run that.
//  2. Otherwise, fall back to "<name>" (root template defined in code).
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name + ".html"); tmpl != nil {
		return name + ".html"
	}
	return name
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
