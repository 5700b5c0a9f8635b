// internal/view/uahelpers.go
//
// User-Agent-related template helpers.  Every helper is nil-safe because
// pages rendered outside the enrichment middleware (tests, error pages)
// carry no RequestInfo.
package view

import (
	"html/template"
	"strings"

	"github.com/herai/automation-site/internal/requestinfo"
)

// uaFuncMap returns helpers keyed off *requestinfo.RequestInfo.
func uaFuncMap() template.FuncMap {
	return template.FuncMap{
		"browser": func(ri *requestinfo.RequestInfo) string {
			if ri == nil {
				return ""
			}
			return ri.UA.Browser
		},
		"os": func(ri *requestinfo.RequestInfo) string {
			if ri == nil {
				return ""
			}
			return ri.UA.OS
		},
		// device is used as a CSS class suffix, so it is lowercased and
		// defaults to "desktop".
		"device": func(ri *requestinfo.RequestInfo) string {
			if ri == nil || ri.UA.Device == "" {
				return "desktop"
			}
			return strings.ToLower(ri.UA.Device)
		},
		"isBot": func(ri *requestinfo.RequestInfo) bool { return ri != nil && ri.UA.IsBot },
	}
}
