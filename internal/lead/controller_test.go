// internal/lead/controller_test.go
//
// Unit-tests for Controller.
//
// Context
// -------
// The Submitter is replaced by SubmitterFunc stubs so every path of OnSubmit
// can be driven without a network:
//
//   • success            → confirmation shown, form reset
//   • remote failure     → error toast, input kept
//   • validation failure → error toast, Submitter never called
//   • concurrent submit  → OutcomeBusy while the first is in flight
//   • panicking Submitter → IsSubmitting released
package lead

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fill(t *testing.T, c *Controller, s FormState) {
	t.Helper()
	for _, f := range Fields {
		require.NoError(t, c.OnFieldChange(f, s.Get(f)))
	}
}

func newTestController(sub Submitter, opts ...ControllerOption) *Controller {
	opts = append([]ControllerOption{WithLogger(zap.NewNop().Sugar())}, opts...)
	return NewController(sub, opts...)
}

func TestController_SubmitSuccess(t *testing.T) {
	var got Record
	var calls int32
	var hooked Record
	var observed []Outcome

	c := newTestController(SubmitterFunc(func(_ context.Context, rec Record) error {
		atomic.AddInt32(&calls, 1)
		got = rec
		return nil
	}),
		WithSuccessHook(func(_ context.Context, rec Record) { hooked = rec }),
		WithObserver(func(o Outcome, _ time.Duration) { observed = append(observed, o) }),
	)

	s := validState()
	s.Email = " Ada@Example.com "
	fill(t, c, s)

	out := c.OnSubmit(context.Background())
	require.Equal(t, OutcomeSuccess, out.Kind)
	assert.Empty(t, out.Message)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, got, hooked)
	require.Len(t, observed, 1)
	assert.Equal(t, OutcomeSuccess, observed[0].Kind)

	ui := c.UI()
	assert.True(t, ui.ShowConfirmation)
	assert.False(t, ui.IsSubmitting)
	assert.False(t, ui.Notification.Visible)
	assert.True(t, c.State().IsEmpty())
	assert.Equal(t, PhaseConfirmed, c.Phase())

	c.ReturnToForm()
	assert.Equal(t, PhaseIdle, c.Phase())
	assert.True(t, c.State().IsEmpty())
}

func TestController_SubmitRemoteFailure(t *testing.T) {
	c := newTestController(SubmitterFunc(func(context.Context, Record) error {
		return NewRemoteError("Database error: duplicate key", nil)
	}))
	s := validState()
	fill(t, c, s)

	out := c.OnSubmit(context.Background())
	require.Equal(t, OutcomeRemoteFailure, out.Kind)
	assert.Equal(t, "Submission failed: Database error: duplicate key", out.Message)

	ui := c.UI()
	assert.False(t, ui.ShowConfirmation)
	assert.False(t, ui.IsSubmitting)
	assert.True(t, ui.Notification.Visible)
	assert.Equal(t, NotifyError, ui.Notification.Kind)
	assert.Equal(t, out.Message, ui.Notification.Message)
	assert.Equal(t, s, c.State(), "input must survive a failed submit")
}

func TestController_PlainErrorIsWrapped(t *testing.T) {
	c := newTestController(SubmitterFunc(func(context.Context, Record) error {
		return errors.New("dial tcp: connection refused")
	}))
	fill(t, c, validState())

	out := c.OnSubmit(context.Background())
	assert.Equal(t, "Submission failed: dial tcp: connection refused", out.Message)
}

func TestController_ValidationFailureSkipsSubmitter(t *testing.T) {
	called := false
	c := newTestController(SubmitterFunc(func(context.Context, Record) error {
		called = true
		return nil
	}))
	s := validState()
	s.Email = "nope"
	fill(t, c, s)

	out := c.OnSubmit(context.Background())
	assert.Equal(t, OutcomeValidationFailure, out.Kind)
	assert.Equal(t, MsgEmailInvalid, out.Message)
	assert.False(t, called)

	ui := c.UI()
	assert.True(t, ui.Notification.Visible)
	assert.Equal(t, MsgEmailInvalid, ui.Notification.Message)
	assert.False(t, ui.IsSubmitting)
	assert.Equal(t, s, c.State())

	c.DismissNotification()
	ui = c.UI()
	assert.False(t, ui.Notification.Visible)
	assert.Equal(t, MsgEmailInvalid, ui.Notification.Message, "dismiss keeps the message")
}

func TestController_BusyWhileSubmitting(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	c := newTestController(SubmitterFunc(func(context.Context, Record) error {
		atomic.AddInt32(&calls, 1)
		close(entered)
		<-release
		return nil
	}))
	fill(t, c, validState())

	done := make(chan Outcome)
	go func() { done <- c.OnSubmit(context.Background()) }()

	<-entered
	assert.True(t, c.UI().IsSubmitting)
	assert.Equal(t, PhaseSubmitting, c.Phase())

	// Reads and dismisses do not block on the in-flight call.
	c.DismissNotification()
	assert.Equal(t, OutcomeBusy, c.OnSubmit(context.Background()).Kind)

	close(release)
	out := <-done
	assert.Equal(t, OutcomeSuccess, out.Kind)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.False(t, c.UI().IsSubmitting)
}

func TestController_PanicReleasesSubmitting(t *testing.T) {
	c := newTestController(SubmitterFunc(func(context.Context, Record) error {
		panic("boom")
	}))
	fill(t, c, validState())

	out := c.OnSubmit(context.Background())
	assert.Equal(t, OutcomeRemoteFailure, out.Kind)
	assert.Equal(t, SubmitFailedPrefix+FallbackMessage, out.Message)
	assert.False(t, c.UI().IsSubmitting)
	assert.Equal(t, PhaseIdle, c.Phase())
}

func TestController_RetryAfterFailure(t *testing.T) {
	fail := true
	c := newTestController(SubmitterFunc(func(context.Context, Record) error {
		if fail {
			return NewRemoteError("", nil)
		}
		return nil
	}))
	fill(t, c, validState())

	assert.Equal(t, OutcomeRemoteFailure, c.OnSubmit(context.Background()).Kind)
	fail = false
	assert.Equal(t, OutcomeSuccess, c.OnSubmit(context.Background()).Kind)
	assert.True(t, c.UI().ShowConfirmation)
}

func TestController_PaddedEmailIsTrimmedBeforeValidation(t *testing.T) {
	var got Record
	c := newTestController(SubmitterFunc(func(_ context.Context, rec Record) error {
		got = rec
		return nil
	}))
	s := validState()
	s.Email = "  jo@x.com\t"
	fill(t, c, s)

	out := c.OnSubmit(context.Background())
	require.Equal(t, OutcomeSuccess, out.Kind)
	assert.Equal(t, "jo@x.com", got.Email)
}

func TestController_UnknownField(t *testing.T) {
	c := newTestController(SubmitterFunc(func(context.Context, Record) error { return nil }))
	assert.Error(t, c.OnFieldChange("fax", "1"))
	assert.True(t, c.State().IsEmpty())
}

func TestNewController_NilSubmitterPanics(t *testing.T) {
	assert.Panics(t, func() { NewController(nil) })
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "validation_failure", OutcomeValidationFailure.String())
	assert.Equal(t, "remote_failure", OutcomeRemoteFailure.String())
	assert.Equal(t, "busy", OutcomeBusy.String())
}
