package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/url"
	"strings"
)

// AccountMailer delivers verification and password-reset links over plain
// SMTP. Delivery is bounded by the caller's context; there is no retry.
type AccountMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	baseURL  string
}

func NewAccountMailer(host, port, username, password, from, frontendBaseURL string) *AccountMailer {
	return &AccountMailer{
		host:     strings.TrimSpace(host),
		port:     strings.TrimSpace(port),
		username: username,
		password: password,
		from:     strings.TrimSpace(from),
		baseURL:  strings.TrimRight(strings.TrimSpace(frontendBaseURL), "/"),
	}
}

func (m *AccountMailer) SendVerification(ctx context.Context, email, token string) error {
	link := m.baseURL + "/verify-email?token=" + url.QueryEscape(token)
	body := fmt.Sprintf(`<p>Welcome to QuizHub!</p>
<p>Confirm your email address by opening the link below. The link expires after a short while.</p>
<p><a href=%q>Verify your email</a></p>
<p>If you did not create this account, ignore this email.</p>`, link)
	return m.send(ctx, email, "Confirm your QuizHub email", body)
}

func (m *AccountMailer) SendPasswordReset(ctx context.Context, email, secret string) error {
	link := m.baseURL + "/reset-password?secret=" + url.QueryEscape(secret)
	body := fmt.Sprintf(`<p>A password reset was requested for your QuizHub account.</p>
<p><a href=%q>Choose a new password</a></p>
<p>The link expires after a short while and works only once. If you did not request this, ignore this email.</p>`, link)
	return m.send(ctx, email, "Reset your QuizHub password", body)
}

func (m *AccountMailer) send(ctx context.Context, email, subject, htmlBody string) error {
	if m == nil {
		return errors.New("mailer not configured")
	}
	if m.host == "" || m.port == "" || m.from == "" {
		return errors.New("mailer missing configuration")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	message := strings.Builder{}
	message.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	message.WriteString(fmt.Sprintf("To: %s\r\n", email))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	message.WriteString("Content-Transfer-Encoding: 7bit\r\n\r\n")
	message.WriteString(htmlBody)
	message.WriteString("\r\n")

	addr := net.JoinHostPort(m.host, m.port)
	var auth smtp.Auth
	if m.username != "" || m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{email}, []byte(message.String()))
}
