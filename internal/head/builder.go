// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page's
// <head> element.  It is scoped to a single render call.  The view layer
// seeds it from the site copy, handlers may add to it, and the "head"
// template decides where to emit each slice.
//
// Features
// --------
//   - SetTitle           – single <title> tag (last call wins).
//   - Description        – <meta name="description"> plus its Open Graph twin.
//   - Meta, Link         – arbitrary pre-built tags with deduplication.
//   - JSONLD             – marshals a value into
//     <script type="application/ld+json">…</script>.
//   - Render helpers     – concat methods that return template.HTML.
package head

import (
	"encoding/json"
	"html/template"
	"strings"
)

// Builder is not safe for concurrent use; one per render.
type Builder struct {
	title  string
	metas  []string
	links  []string
	jsonLD []string
	seen   map[string]struct{}
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// ------------------------------------------------------------------
// Single-value helpers
// ------------------------------------------------------------------

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) { b.title = t }

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	if b.title == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(b.title) + "</title>")
}

// Description adds the description meta and og:description.
func (b *Builder) Description(d string) {
	if d == "" {
		return
	}
	esc := template.HTMLEscapeString(d)
	b.Meta(`<meta name="description" content="` + esc + `">`)
	b.Meta(`<meta property="og:description" content="` + esc + `">`)
}

// ------------------------------------------------------------------
// Slice helpers with deduplication
// ------------------------------------------------------------------

// Meta adds a pre-built, trusted <meta> tag.
func (b *Builder) Meta(tag string) { b.add("meta:"+tag, &b.metas, tag) }

// Link adds a pre-built, trusted <link> tag.
func (b *Builder) Link(tag string) { b.add("link:"+tag, &b.links, tag) }

// JSONLD marshals v as a structured-data block.  "</" is escaped by
// encoding/json's HTML-safe output, so the payload cannot close the tag.
func (b *Builder) JSONLD(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	js := string(raw)
	b.add("jsonld:"+js, &b.jsonLD, js)
	return nil
}

func (b *Builder) add(key string, tgt *[]string, tag string) {
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// ------------------------------------------------------------------
// Rendering helpers called from templates
// ------------------------------------------------------------------

func (b *Builder) Metas() template.HTML { return concat(b.metas) }
func (b *Builder) Links() template.HTML { return concat(b.links) }

// JSON returns all JSON-LD blocks wrapped in <script> tags.
func (b *Builder) JSON() template.HTML {
	if len(b.jsonLD) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.WriteString(js)
		sb.WriteString(`</script>`)
	}
	return template.HTML(sb.String())
}

// concat joins pre-escaped tags with newlines.
func concat(sl []string) template.HTML {
	return template.HTML(strings.Join(sl, "\n"))
}
