package services

import (
	"fmt"
	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, displayName string) error
	SendPasswordResetEmail(email, token string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email, displayName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to Pastel Recipes!")

	name := displayName
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(`
		<h2>Welcome to Pastel Recipes, %s!</h2>
		<p>Your account has been created. Browse, cook, and share your own recipes.</p>
		<p>Happy baking,<br>The Pastel Recipes Team</p>
	`, name)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	return nil
}

func (s *emailService) SendPasswordResetEmail(email, token string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Password reset request")

	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>We received a request to reset the password for your Pastel Recipes account.</p>
		<p>Use the following token to reset your password: <strong>%s</strong></p>
		<p>The token is valid for one hour. If you did not request this change, you can ignore this email.</p>
	`, token)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}
