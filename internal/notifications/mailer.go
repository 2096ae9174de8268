package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ovenmade/bakemart-backend/pkg/config"
	"github.com/ovenmade/bakemart-backend/pkg/db/models"
	"github.com/ovenmade/bakemart-backend/pkg/logger"
)

// Mailer sends best-effort transactional email. Failures are logged and
// swallowed; confirmation mail must never fail or delay an order.
type Mailer struct {
	cfg  config.MailConfig
	logg *logger.Logger
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg config.MailConfig, logg *logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, logg: logg, send: smtp.SendMail}
}

// OrderConfirmation emails the customer their order summary. Safe to call in
// a goroutine; the method never returns an error.
func (m *Mailer) OrderConfirmation(ctx context.Context, to string, order *models.Order) {
	if m == nil || !m.cfg.Enabled() || strings.TrimSpace(to) == "" {
		return
	}

	subject := fmt.Sprintf("Your order %s is confirmed", shortID(order.ID.String()))
	body := fmt.Sprintf(
		"Thanks for your order!\r\n\r\nOrder: %s\r\nItems: %d\r\nTotal: %s\r\n\r\nWe'll keep you posted as your order moves along.\r\n",
		order.ID, len(order.Items), rupees(order.TotalAmount),
	)
	m.deliver(ctx, to, subject, body)
}

// OrderCancelled notifies the customer their cancellation was approved.
func (m *Mailer) OrderCancelled(ctx context.Context, to string, order *models.Order, refund int64) {
	if m == nil || !m.cfg.Enabled() || strings.TrimSpace(to) == "" {
		return
	}

	subject := fmt.Sprintf("Order %s cancelled", shortID(order.ID.String()))
	body := fmt.Sprintf(
		"Your order %s has been cancelled.\r\nRefund recorded: %s\r\n",
		order.ID, rupees(refund),
	)
	m.deliver(ctx, to, subject, body)
}

func (m *Mailer) deliver(ctx context.Context, to, subject, body string) {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.cfg.DefaultFrom, to, subject, body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, m.cfg.DefaultFrom, []string{to}, []byte(msg)); err != nil {
		if m.logg != nil {
			m.logg.Warn(m.logg.WithField(ctx, "mail_to", to),
				fmt.Sprintf("sending mail failed: %v", err))
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func rupees(paise int64) string {
	return fmt.Sprintf("₹%d.%02d", paise/100, paise%100)
}
