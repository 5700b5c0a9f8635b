// components/landing/landing.go
//
// Landing page component: the single-page site and its booking form.
//
// The form is plain HTML, so every interaction is a POST followed by a
// 303 redirect back to GET / (post/redirect/get).  The visitor's
// lead.Controller lives in the session store between requests; the GET
// handler renders whatever view that controller is in.
//
//   GET  /                      home, or the confirmation view
//   POST /consultation          merge fields, submit
//   POST /notification/dismiss  hide the toast
//   POST /return                leave the confirmation view
//
//------------------------------------------------------------------------------

package landing

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/herai/automation-site/internal/component"
	"github.com/herai/automation-site/internal/form"
	"github.com/herai/automation-site/internal/lead"
	"github.com/herai/automation-site/internal/requestinfo"
	"github.com/herai/automation-site/internal/session"
	"github.com/herai/automation-site/internal/view"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// formAnchor is where the browser lands after a failed submit.
const formAnchor = "/#book-call"

// Component serves the landing page.
type Component struct {
	views    *view.Engine
	sessions *session.Store
	csrf     *form.CSRF
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "landing" }

// Init captures the shared runtime.
func (c *Component) Init(d component.Deps) error {
	if d.Views == nil || d.Sessions == nil || d.CSRF == nil {
		return errors.New("landing: views, sessions, and csrf are required")
	}
	c.views, c.sessions, c.csrf = d.Views, d.Sessions, d.CSRF
	return nil
}

// Routes adds the page endpoints.
func (c *Component) Routes(r chi.Router) {
	r.Get("/", c.handleHome)
	r.Post("/consultation", c.handleSubmit)
	r.Post("/notification/dismiss", c.handleDismiss)
	r.Post("/return", c.handleReturn)
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleHome(w http.ResponseWriter, r *http.Request) {
	sid, ctrl := c.sessions.Controller(w, r)

	tok, err := c.csrf.Generate(sid)
	if err != nil {
		zap.S().Errorw("csrf token", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	ui := ctrl.UI()
	name := view.PageHome
	if ui.ShowConfirmation {
		name = view.PageThanks
	}

	p := c.views.NewPage(name)
	p.Form = ctrl.State()
	p.UI = ui
	p.CSRF = tok
	p.Info = requestinfo.FromContext(r.Context())

	if err := c.views.Render(w, name, p); err != nil {
		zap.S().Errorw("render error", "page", name, "err", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (c *Component) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sid, ctrl := c.sessions.Controller(w, r)

	vals, err := form.ParseSubmission(w, r, c.csrf, sid, lead.Fields)
	if err != nil {
		rejectPost(w, r, err)
		return
	}
	for _, f := range lead.Fields {
		if v, ok := vals[f]; ok {
			_ = ctrl.OnFieldChange(f, v) // keys come from lead.Fields
		}
	}

	// The insert runs to completion even if the visitor navigates away.
	out := ctrl.OnSubmit(context.WithoutCancel(r.Context()))

	fields := append([]any{"outcome", out.Kind.String()},
		requestinfo.FromContext(r.Context()).LogFields()...)
	zap.S().Infow("consultation form posted", fields...)

	if out.Kind == lead.OutcomeSuccess {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, formAnchor, http.StatusSeeOther)
}

func (c *Component) handleDismiss(w http.ResponseWriter, r *http.Request) {
	sid, ctrl := c.sessions.Controller(w, r)
	if err := form.VerifyPost(w, r, c.csrf, sid); err != nil {
		rejectPost(w, r, err)
		return
	}
	ctrl.DismissNotification()
	target := formAnchor
	if ctrl.UI().ShowConfirmation {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (c *Component) handleReturn(w http.ResponseWriter, r *http.Request) {
	sid, ctrl := c.sessions.Controller(w, r)
	if err := form.VerifyPost(w, r, c.csrf, sid); err != nil {
		rejectPost(w, r, err)
		return
	}
	ctrl.ReturnToForm()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

// rejectPost answers a POST whose body or token did not check out.  A
// stale token usually means the session expired, so the visitor is told
// to reload rather than shown a bare status.
func rejectPost(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, form.ErrBadToken) {
		zap.S().Infow("csrf rejected", "path", r.URL.Path)
		http.Error(w, "Your session has expired.  Please reload the page and try again.", http.StatusForbidden)
		return
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
		return
	}
	zap.S().Infow("bad form post", "path", r.URL.Path, "err", err)
	http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
}
