package utils

import (
	"context"
	"log"

	"github.com/wneessen/go-mail"

	"petshop_back_end/internal/config"
	"petshop_back_end/internal/models"
)

// Mailer sends transactional mail through one SMTP relay.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewMailer returns nil when SMTP_HOST is not set.
func NewMailer(cfg *config.Config) *Mailer {
	if cfg.SMTPHost == "" {
		log.Println("⚠️ SMTP_HOST not set, emails are disabled")
		return nil
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.username),
			mail.WithPassword(m.password),
		)
	}
	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return err
	}

	log.Println("📤 Sending email to", to)
	return client.DialAndSendWithContext(ctx, msg)
}

func (m *Mailer) SendWelcome(ctx context.Context, user models.User) error {
	body, err := RenderWelcomeEmail(user)
	if err != nil {
		return err
	}
	if err := m.send(ctx, user.Email, "🐾 Welcome to the Pet Shop!", body); err != nil {
		return err
	}
	log.Printf("📧 Welcome email sent: %s", user.Email)
	return nil
}

func (m *Mailer) SendOrderConfirmation(ctx context.Context, user models.User, order models.Order, items []models.Product) error {
	body, err := RenderOrderConfirmationEmail(user, order, items)
	if err != nil {
		return err
	}
	if err := m.send(ctx, user.Email, "✅ Order confirmed", body); err != nil {
		return err
	}
	log.Printf("📧 Order confirmation sent: %s (order: %s)", user.Email, order.ID)
	return nil
}
