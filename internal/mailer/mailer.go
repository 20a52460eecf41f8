// Package mailer sends transactional emails over SMTP. Dispatch is
// fire-and-forget: callers enqueue and return immediately, a single worker
// drains the queue, and a failed or dropped email never affects the
// mutation that triggered it (at-most-once delivery).
package mailer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	mail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/hirafie/hirafie-backend/internal/domain/order"
)

// Kind names an email template.
type Kind string

const (
	KindVerification      Kind = "verification"
	KindResetPassword     Kind = "resetPassword"
	KindOrderConfirmation Kind = "orderConfirmation"
	KindOrderStatusUpdate Kind = "orderStatusUpdate"
	KindNewOrder          Kind = "newOrderNotification"
)

// Config holds SMTP connection settings and queue sizing.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	ClientURL string
	QueueSize int
}

// message is one queued email.
type message struct {
	kind    Kind
	to      string
	subject string
	data    map[string]any
}

// Mailer implements the order and user notifier contracts over SMTP.
type Mailer struct {
	client    *mail.Client
	from      string
	clientURL string
	queue     chan message
	lg        *zap.Logger
}

// New creates a Mailer. The queue is sized by cfg.QueueSize; enqueueing on a
// full queue drops the email with a warning rather than blocking the caller.
func New(cfg Config, lg *zap.Logger) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create smtp client")
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Mailer{
		client:    client,
		from:      cfg.From,
		clientURL: cfg.ClientURL,
		queue:     make(chan message, queueSize),
		lg:        lg,
	}, nil
}

// Run drains the queue until ctx is cancelled, then attempts to flush
// whatever is still queued within a short grace period. It always returns
// nil: email delivery is best-effort by contract.
func (m *Mailer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			m.drain()
			return nil
		case msg := <-m.queue:
			m.send(ctx, msg)
		}
	}
}

// drain flushes queued messages after shutdown has begun.
func (m *Mailer) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for {
		select {
		case msg := <-m.queue:
			m.send(ctx, msg)
		default:
			return
		}
	}
}

// send renders and delivers one email. Failures are logged and swallowed.
func (m *Mailer) send(ctx context.Context, msg message) {
	sendCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	html, text, err := render(msg.kind, msg.data)
	if err != nil {
		m.lg.Error("Failed to render email template",
			zap.String("kind", string(msg.kind)), zap.Error(err))
		return
	}

	em := mail.NewMsg()
	if err := em.From(m.from); err == nil {
		err = em.To(msg.to)
	}
	if err != nil {
		m.lg.Error("Invalid email address",
			zap.String("kind", string(msg.kind)), zap.Error(err))
		return
	}
	em.Subject(msg.subject)
	em.SetBodyString(mail.TypeTextPlain, text)
	em.AddAlternativeString(mail.TypeTextHTML, html)

	if err := m.client.DialAndSendWithContext(sendCtx, em); err != nil {
		m.lg.Warn("Failed to send email",
			zap.String("kind", string(msg.kind)),
			zap.String("to", msg.to),
			zap.Error(err))
	}
}

// enqueue hands a message to the worker without blocking.
func (m *Mailer) enqueue(msg message) {
	select {
	case m.queue <- msg:
	default:
		m.lg.Warn("Email queue full, dropping message",
			zap.String("kind", string(msg.kind)),
			zap.String("to", msg.to))
	}
}

// Verification sends the email-verification link.
func (m *Mailer) Verification(to, token string) {
	m.enqueue(message{
		kind:    KindVerification,
		to:      to,
		subject: "Hirafie - Email Verification",
		data: map[string]any{
			"URL": m.clientURL + "/verify-email?token=" + token,
		},
	})
}

// ResetPassword sends the password-reset link.
func (m *Mailer) ResetPassword(to, token string) {
	m.enqueue(message{
		kind:    KindResetPassword,
		to:      to,
		subject: "Hirafie - Reset Password",
		data: map[string]any{
			"URL": m.clientURL + "/reset-password?token=" + token,
		},
	})
}

// OrderConfirmation tells the client their order was placed.
func (m *Mailer) OrderConfirmation(to string, o *order.Detailed) {
	m.enqueue(message{
		kind:    KindOrderConfirmation,
		to:      to,
		subject: "Hirafie - Order Confirmation",
		data:    orderData(m.clientURL, o),
	})
}

// NewOrder tells the artisan a new order arrived on one of their posts.
func (m *Mailer) NewOrder(to string, o *order.Detailed) {
	m.enqueue(message{
		kind:    KindNewOrder,
		to:      to,
		subject: "Hirafie - New Order Received",
		data:    orderData(m.clientURL, o),
	})
}

// OrderStatusUpdate tells the recipient the order moved to a new status.
func (m *Mailer) OrderStatusUpdate(to string, o *order.Detailed) {
	m.enqueue(message{
		kind:    KindOrderStatusUpdate,
		to:      to,
		subject: "Hirafie - Order Status Update: " + string(o.Status),
		data:    orderData(m.clientURL, o),
	})
}

func orderData(clientURL string, o *order.Detailed) map[string]any {
	return map[string]any{
		"OrderID":    o.ID,
		"PostTitle":  o.Post.Title,
		"Quantity":   o.Quantity,
		"TotalPrice": o.TotalPrice.StringFixed(2),
		"Status":     string(o.Status),
		"URL":        clientURL + "/orders/" + o.ID,
	}
}
