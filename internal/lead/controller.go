// internal/lead/controller.go
//
// Lead capture: form controller.
//
// Context
// -------
// A Controller owns one FormState and one UIState and drives the submit
// flow:
//
//	Idle ─submit─▶ validate ─bad─▶ Idle (error toast)
//	                        └ok──▶ Submitting ─ok──▶ Confirmed ─ReturnToForm─▶ Idle
//	                                           └err─▶ Idle (error toast, input kept)
//
// IsSubmitting doubles as the reentrancy guard.  A submit that arrives while
// another is in flight returns OutcomeBusy and changes nothing.  The mutex
// guards state only; it is released for the duration of the remote call so
// page renders and dismiss clicks never block on the network.
//
// Notes
// -----
//   - The Submitter is injected; there is no package-level client.
//   - A panicking Submitter is recovered and reported as a RemoteFailure,
//     so IsSubmitting is always cleared.
package lead

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Submitter performs exactly one remote insert of rec.  Implementations
// return *RemoteError (or any error, which the controller wraps) on failure.
type Submitter interface {
	Submit(ctx context.Context, rec Record) error
}

// SubmitterFunc adapts a plain function to Submitter.
type SubmitterFunc func(ctx context.Context, rec Record) error

// Submit implements Submitter.
func (f SubmitterFunc) Submit(ctx context.Context, rec Record) error { return f(ctx, rec) }

// -----------------------------------------------------------------------------
// Outcome and UI state
// -----------------------------------------------------------------------------

// OutcomeKind classifies one submit attempt.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeValidationFailure
	OutcomeRemoteFailure
	OutcomeBusy // rejected by the reentrancy guard
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeValidationFailure:
		return "validation_failure"
	case OutcomeRemoteFailure:
		return "remote_failure"
	case OutcomeBusy:
		return "busy"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is the transient result of OnSubmit.  Message is empty on success.
type Outcome struct {
	Kind    OutcomeKind
	Message string
}

// NotificationKind selects the toast style.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notification is the toast model.  Hiding keeps Kind and Message so a
// closing animation can still render them.
type Notification struct {
	Visible bool
	Kind    NotificationKind
	Message string
}

// UIState is everything the page needs besides the field values.
type UIState struct {
	IsSubmitting     bool
	ShowConfirmation bool
	Notification     Notification
}

// Phase is the coarse controller state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseConfirmed
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseConfirmed:
		return "confirmed"
	}
	return "idle"
}

// -----------------------------------------------------------------------------
// Controller
// -----------------------------------------------------------------------------

// ControllerOption customises a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the logger.  Default is the global zap.S().
func WithLogger(l *zap.SugaredLogger) ControllerOption {
	return func(c *Controller) { c.log = l }
}

// WithObserver registers fn to be called once per OnSubmit with the outcome
// and the time spent in the Submitter (zero when no call was made).
func WithObserver(fn func(Outcome, time.Duration)) ControllerOption {
	return func(c *Controller) { c.observe = fn }
}

// WithSuccessHook registers fn to run after a successful insert.  It runs
// after state is updated and must not block.
func WithSuccessHook(fn func(context.Context, Record)) ControllerOption {
	return func(c *Controller) { c.onSuccess = fn }
}

// Controller is safe for concurrent use.
type Controller struct {
	sub       Submitter
	log       *zap.SugaredLogger
	observe   func(Outcome, time.Duration)
	onSuccess func(context.Context, Record)

	mu    sync.Mutex
	state FormState
	ui    UIState
}

// NewController returns an Idle controller with an empty form.  Panics when
// sub is nil.
func NewController(sub Submitter, opts ...ControllerOption) *Controller {
	if sub == nil {
		panic("lead: NewController requires a Submitter")
	}
	c := &Controller{sub: sub}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = zap.S()
	}
	return c
}

// OnFieldChange merges one field.  No validation happens here.
func (c *Controller) OnFieldChange(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Set(field, value)
}

// OnSubmit runs one submit attempt and returns its outcome.  Exactly one of
// the following holds afterwards: an error toast is visible, or the
// confirmation view is shown (OutcomeBusy excepted, which changes nothing).
func (c *Controller) OnSubmit(ctx context.Context) Outcome {
	c.mu.Lock()
	if c.ui.IsSubmitting {
		c.mu.Unlock()
		return Outcome{Kind: OutcomeBusy}
	}

	if msg, ok := Validate(c.state); !ok {
		c.showLocked(NotifyError, msg)
		c.mu.Unlock()
		out := Outcome{Kind: OutcomeValidationFailure, Message: msg}
		c.report(out, 0)
		return out
	}

	c.ui.IsSubmitting = true
	rec := NewRecord(c.state)
	c.mu.Unlock()

	start := time.Now()
	err := c.call(ctx, rec)
	took := time.Since(start)

	c.mu.Lock()
	c.ui.IsSubmitting = false
	var out Outcome
	if err != nil {
		re := AsRemoteError(err)
		out = Outcome{Kind: OutcomeRemoteFailure, Message: SubmitFailedPrefix + re.Message}
		c.showLocked(NotifyError, out.Message)
	} else {
		out = Outcome{Kind: OutcomeSuccess}
		c.state = FormState{}
		c.ui.ShowConfirmation = true
		c.ui.Notification.Visible = false
	}
	c.mu.Unlock()

	if err != nil {
		c.log.Warnw("consultation submit failed", "err", err, "took", took)
	} else {
		c.log.Infow("consultation submitted",
			"company", rec.Company,
			"business_size", rec.BusinessSize,
			"service", rec.Service,
			"took", took,
		)
		if c.onSuccess != nil {
			c.onSuccess(ctx, rec)
		}
	}
	c.report(out, took)
	return out
}

// DismissNotification hides the toast.
func (c *Controller) DismissNotification() {
	c.mu.Lock()
	c.ui.Notification.Visible = false
	c.mu.Unlock()
}

// ReturnToForm leaves the confirmation view.
func (c *Controller) ReturnToForm() {
	c.mu.Lock()
	c.ui.ShowConfirmation = false
	c.mu.Unlock()
}

// State returns a copy of the current form values.
func (c *Controller) State() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UI returns a copy of the current UI state.
func (c *Controller) UI() UIState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ui
}

// Phase derives the coarse state from UIState.
func (c *Controller) Phase() Phase {
	ui := c.UI()
	switch {
	case ui.IsSubmitting:
		return PhaseSubmitting
	case ui.ShowConfirmation:
		return PhaseConfirmed
	}
	return PhaseIdle
}

// -----------------------------------------------------------------------------
// helpers
// -----------------------------------------------------------------------------

// call invokes the Submitter, turning a panic into a RemoteError.
func (c *Controller) call(ctx context.Context, rec Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Errorw("consultation submitter panicked", "panic", r)
			err = NewRemoteError(FallbackMessage, fmt.Errorf("submitter panic: %v", r))
		}
	}()
	return c.sub.Submit(ctx, rec)
}

func (c *Controller) showLocked(kind NotificationKind, msg string) {
	c.ui.Notification = Notification{Visible: true, Kind: kind, Message: msg}
}

func (c *Controller) report(out Outcome, took time.Duration) {
	if c.observe != nil {
		c.observe(out, took)
	}
}
