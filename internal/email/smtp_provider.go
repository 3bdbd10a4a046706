package email

import (
	"crypto/tls"
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	config *SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPProvider создает новый SMTP провайдер
func NewSMTPProvider(config *SMTPConfig) *SMTPProvider {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if config.UseTLS {
		dialer.TLSConfig = &tls.Config{ServerName: config.Host}
	}

	return &SMTPProvider{
		config: config,
		dialer: dialer,
	}
}

// Send отправляет email сообщение
func (p *SMTPProvider) Send(email *Email) error {
	if err := p.Validate(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		m.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			m.AddAlternative("text/plain", email.Body)
		}
	} else {
		m.SetBody("text/plain", email.Body)
	}

	return p.dialer.DialAndSend(m)
}

// SendVerification отправляет email верификации
func (p *SMTPProvider) SendVerification(to string, token string) error {
	return p.Send(&Email{
		To:      []string{to},
		Subject: "Verify your email",
		Body:    fmt.Sprintf("Use this token to verify your account: %s", token),
	})
}

// SendPasswordReset отправляет письмо со ссылкой для сброса пароля
func (p *SMTPProvider) SendPasswordReset(to string, token string) error {
	return p.Send(&Email{
		To:      []string{to},
		Subject: "Password reset",
		Body:    fmt.Sprintf("Use this token to reset your password: %s", token),
	})
}

// SendJobStatusUpdate уведомляет работодателя о решении модерации
func (p *SMTPProvider) SendJobStatusUpdate(to string, jobTitle string, status string, adminNotes string) error {
	body := fmt.Sprintf("Your job posting %q is now %s.", jobTitle, status)
	if adminNotes != "" {
		body += "\n\nModerator notes: " + adminNotes
	}

	return p.Send(&Email{
		To:      []string{to},
		Subject: fmt.Sprintf("Job posting %s", status),
		Body:    body,
	})
}

// Validate проверяет конфигурацию провайдера
func (p *SMTPProvider) Validate() error {
	if p.config.Host == "" {
		return fmt.Errorf("smtp host is not configured")
	}
	if p.config.FromEmail == "" {
		return fmt.Errorf("from email is not configured")
	}
	return nil
}
