// Package mail envía los avisos de liquidación mensual por SMTP.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/smd-api/internal/application/payout"
	"github.com/jhoicas/smd-api/pkg/config"
)

var _ payout.Notifier = (*PayoutNotifier)(nil)

// sender lo satisface *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// PayoutNotifier implementa payout.Notifier con gomail.
type PayoutNotifier struct {
	from   string
	sender sender
}

// NewPayoutNotifier construye el notificador. Con SMTP sin configurar devuelve payout.NopNotifier.
func NewPayoutNotifier(cfg config.SMTPConfig) payout.Notifier {
	if !cfg.Enabled() {
		return payout.NopNotifier{}
	}
	return &PayoutNotifier{
		from:   cfg.From,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// PayoutRecorded envía el aviso al email del cliente. Sin email no hace nada.
func (n *PayoutNotifier) PayoutRecorded(ctx context.Context, notice payout.Notice) error {
	if notice.CustomerEmail == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.sender.DialAndSend(buildMessage(n.from, notice)); err != nil {
		return fmt.Errorf("mail: enviar aviso de liquidación %s: %w", notice.PayoutID, err)
	}
	return nil
}

func buildMessage(from string, n payout.Notice) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetAddressHeader("To", n.CustomerEmail, n.CustomerName)
	m.SetHeader("Subject", fmt.Sprintf("Rent payout for %s", n.Month.String()))
	m.SetBody("text/plain", fmt.Sprintf(
		"Dear %s,\n\nYour rent payout of %s for %s has been paid on %s.\n\nReference: %s\nContract: %s\n",
		n.CustomerName,
		n.Amount.StringFixed(2),
		n.Month.String(),
		n.PaidAt.Format("02 Jan 2006"),
		n.PayoutID,
		n.ClosingID,
	))
	return m
}
