// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  main blank-imports the
// components it wants, builds one Deps value, and calls Mount, which runs
// every component's Init and then lets it add routes to the root router.
//
// Components mount in name order so route registration is deterministic.

package component

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/herai/automation-site/internal/form"
	"github.com/herai/automation-site/internal/lead"
	"github.com/herai/automation-site/internal/session"
	"github.com/herai/automation-site/internal/view"
)

// Deps is the shared runtime handed to every component during Init.
type Deps struct {
	Views         *view.Engine
	Sessions      *session.Store
	CSRF          *form.CSRF
	NewController func() *lead.Controller // fresh, fully optioned controller
	CORSOrigins   []string
}

// Component contract.
//
// Routes adds the component's endpoints to r.  A component that needs its
// own middleware should use r.Route or r.Group, e.g:
//
//	r.Route("/api", func(api chi.Router) {
//		api.Use(cors.Handler(opts))
//		api.Post("/consultations", h)
//	})
type Component interface {
	Name() string
	Init(Deps) error
	Routes(r chi.Router)
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.  Registering the
// same name twice replaces the earlier component.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Mount initialises every registered component with d and adds its routes
// to r.  The first Init error aborts.
func Mount(r chi.Router, d Deps) error {
	for _, c := range All() {
		if err := c.Init(d); err != nil {
			return fmt.Errorf("component %s: %w", c.Name(), err)
		}
		c.Routes(r)
	}
	return nil
}
