// components/api/api.go
//
// JSON endpoint for the booking form.
//
// Context
//   Scripted clients (a future SPA, a partner site, an uptime probe) post
//   the same six fields as JSON.  Each request gets a fresh controller, so
//   the validation order, normalisation, and error messages are exactly
//   those of the HTML form.
//
//   POST /api/consultations
//     201 {"success":true}
//     400 malformed JSON
//     422 {"success":false,"error":"<validation message>"}
//     502 {"success":false,"error":"Submission failed: …"}
//
//   Cross-origin access is off unless http.cors_origins is set.
//
//------------------------------------------------------------------------------

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/herai/automation-site/internal/component"
	"github.com/herai/automation-site/internal/lead"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// maxBody caps the JSON body.
const maxBody = 64 << 10

// Response is the JSON reply body.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Component serves /api.
type Component struct {
	newCtrl func() *lead.Controller
	origins []string
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "api" }

// Init captures the controller factory and CORS origins.
func (c *Component) Init(d component.Deps) error {
	if d.NewController == nil {
		return errors.New("api: controller factory is required")
	}
	c.newCtrl, c.origins = d.NewController, d.CORSOrigins
	return nil
}

// Routes mounts the /api subrouter.
func (c *Component) Routes(r chi.Router) {
	r.Route("/api", func(api chi.Router) {
		if len(c.origins) > 0 {
			api.Use(cors.Handler(cors.Options{
				AllowedOrigins: c.origins,
				AllowedMethods: []string{http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Content-Type"},
				MaxAge:         300,
			}))
		}
		api.Post("/consultations", c.handleCreate)
	})
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	var in lead.FormState
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, Response{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, Response{Error: "invalid JSON body"})
		return
	}

	ctrl := c.newCtrl()
	for _, f := range lead.Fields {
		_ = ctrl.OnFieldChange(f, in.Get(f))
	}
	out := ctrl.OnSubmit(context.WithoutCancel(r.Context()))

	switch out.Kind {
	case lead.OutcomeSuccess:
		writeJSON(w, http.StatusCreated, Response{Success: true})
	case lead.OutcomeValidationFailure:
		writeJSON(w, http.StatusUnprocessableEntity, Response{Error: out.Message})
	case lead.OutcomeRemoteFailure:
		writeJSON(w, http.StatusBadGateway, Response{Error: out.Message})
	default:
		writeJSON(w, http.StatusConflict, Response{Error: "submission already in progress"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Debugw("write json response", "err", err)
	}
}
