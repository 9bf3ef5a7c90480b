package mailer

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer sends account emails over SMTP. Delivery is best-effort at the
// call sites: a failed send is logged, never surfaced as a request error.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	appURL   string
}

// NewFromEnv builds a Mailer from SMTP_* environment variables.
func NewFromEnv() *Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8080"
	}

	user := os.Getenv("SMTP_USER")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = user
	}

	return &Mailer{
		host:     host,
		port:     port,
		user:     user,
		password: os.Getenv("SMTP_PASSWORD"),
		from:     from,
		appURL:   appURL,
	}
}

// SendVerification mails the email-verification link for a new account.
func (m *Mailer) SendVerification(email, name, token string) error {
	if m.user == "" {
		return fmt.Errorf("smtp not configured")
	}

	verificationURL := fmt.Sprintf("%s/auth/verify-email?token=%s", m.appURL, token)

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, "Sanchar")
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Verify your Sanchar account")
	msg.SetBody("text/html", fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Thank you for signing up! Please verify your email address to complete your registration.</p>
<p><a href="%s">Verify Email Address</a></p>
<p>This link will expire in 24 hours. If you didn't create an account, you can safely ignore this email.</p>`,
		name, verificationURL))

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.password)
	return dialer.DialAndSend(msg)
}
