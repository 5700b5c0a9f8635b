// Package theme holds the data structures that describe the site's visual
// theme.  A Theme combines:
//
//   - Renderer   – parsed templates ready for execution.
//   - Assets     – the static file system served under /assets/.
//   - AssetFunc  – helper injected into templates so they can resolve
//     `{{ asset "css/site.css" }}` to a URL.
//
// Templates and assets are embedded in the binary.  When `theme.dir` is
// set, `<dir>/templates/**/*.html` are parsed after the embedded set, so a
// file defining the same template name overrides the default, and
// `<dir>/assets` replaces the embedded assets wholesale.
package theme

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

//go:embed assets
var embeddedAssets embed.FS

// AssetPrefix is the URL prefix static files are mounted under.
const AssetPrefix = "/assets/"

// Theme is returned by Load once all templates are parsed.
type Theme struct {
	Renderer  *template.Template
	Assets    http.FileSystem
	AssetFunc func(string) string
}

// Load parses the embedded templates, then any overrides under dir.
// funcs is merged into the template func map before parsing; `asset` is
// always provided.
func Load(dir string, funcs template.FuncMap) (*Theme, error) {
	th := &Theme{AssetFunc: func(p string) string { return AssetPrefix + p }}

	fm := template.FuncMap{"asset": th.AssetFunc}
	for k, v := range funcs {
		fm[k] = v
	}
	tpl := template.New("").Funcs(fm)

	// 1. Embedded defaults (lowest precedence).
	if _, err := tpl.ParseFS(embeddedTemplates, "templates/*.html"); err != nil {
		return nil, fmt.Errorf("parse embedded templates: %w", err)
	}

	// 2. On-disk overrides (highest precedence).
	assets, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return nil, err
	}
	th.Assets = http.FS(assets)

	if dir != "" {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("theme dir %s not found", dir)
		}
		if files, _ := CollectHTML(filepath.Join(dir, "templates")); len(files) > 0 {
			if _, err := tpl.ParseFiles(files...); err != nil {
				return nil, fmt.Errorf("parse theme overrides: %w", err)
			}
		}
		if info, err := os.Stat(filepath.Join(dir, "assets")); err == nil && info.IsDir() {
			th.Assets = http.Dir(filepath.Join(dir, "assets"))
		}
	}

	th.Renderer = tpl
	return th, nil
}
