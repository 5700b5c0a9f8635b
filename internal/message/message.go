// internal/message/message.go
//
// Owner notification e-mails.
//
// Context
//   After a consultation request is stored, the site owner gets a short
//   e-mail with the visitor's details.  Delivery is best effort: it runs in
//   the background, never delays the visitor's redirect, and a failure is
//   logged and counted but does not change the submit outcome.
//
//   The notifier is disabled when mail.notify is empty, in which case
//   NotifyConsultation is a no-op.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package message

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/herai/automation-site/internal/config"
	"github.com/herai/automation-site/internal/lead"
	"github.com/herai/automation-site/internal/metrics"
)

// Sender delivers prepared messages.  *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Email represents a basic outbound email job.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Notifier sends owner notifications in the background.
type Notifier struct {
	from   string
	notify string
	send   Sender
	wg     sync.WaitGroup
}

var bodyTmpl = template.Must(template.New("consultation").Parse(`<h2>New consultation request</h2>
<table>
<tr><th align="left">Name</th><td>{{.Name}}</td></tr>
<tr><th align="left">Email</th><td>{{.Email}}</td></tr>
<tr><th align="left">Company</th><td>{{.Company}}</td></tr>
<tr><th align="left">Business size</th><td>{{.BusinessSize}}</td></tr>
<tr><th align="left">Service</th><td>{{.Service}}</td></tr>
</table>
<p>{{.Processes}}</p>
`))

// New builds a Notifier from the mail section.  The SMTP dialer is only
// created when a recipient is configured.
func New(cfg config.Mail) *Notifier {
	n := &Notifier{from: cfg.From, notify: cfg.Notify}
	if n.from == "" {
		n.from = cfg.User
	}
	if cfg.Notify != "" {
		n.send = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	}
	return n
}

// NewWithSender is New with an injected Sender (tests, alternative relays).
func NewWithSender(from, notify string, s Sender) *Notifier {
	return &Notifier{from: from, notify: notify, send: s}
}

// Enabled reports whether notifications will be sent.
func (n *Notifier) Enabled() bool { return n != nil && n.notify != "" && n.send != nil }

// NotifyConsultation queues one owner e-mail for rec.  It returns at once.
func (n *Notifier) NotifyConsultation(ctx context.Context, rec lead.Record) {
	if !n.Enabled() {
		return
	}
	var body bytes.Buffer
	if err := bodyTmpl.Execute(&body, rec); err != nil {
		zap.S().Errorw("render owner notification", "err", err)
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		return
	}
	msg := Email{
		To:      n.notify,
		Subject: fmt.Sprintf("New consultation: %s (%s)", rec.Company, rec.Service),
		HTML:    body.String(),
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.Send(context.WithoutCancel(ctx), msg, rec.Email); err != nil {
			zap.S().Warnw("owner notification failed", "err", err, "to", msg.To)
			metrics.NotificationsTotal.WithLabelValues("error").Inc()
			return
		}
		metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	}()
}

// Send delivers one message synchronously.  replyTo may be empty.
func (n *Notifier) Send(_ context.Context, e Email, replyTo string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", e.To)
	if replyTo != "" {
		m.SetHeader("Reply-To", replyTo)
	}
	m.SetHeader("Subject", e.Subject)
	m.SetBody("text/html", e.HTML)

	if err := n.send.DialAndSend(m); err != nil {
		return fmt.Errorf("send smtp: %w", err)
	}
	return nil
}

// Wait blocks until queued notifications finish.  Called at shutdown.
func (n *Notifier) Wait() {
	if n != nil {
		n.wg.Wait()
	}
}
