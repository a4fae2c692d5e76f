// Package email sends customer notifications.
package email

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"opticshop/internal/domain"
)

// Sender delivers notification mails.
type Sender interface {
	SendStatusChangeEmail(ctx context.Context, address string, status domain.Status) error
	SendVerificationCode(ctx context.Context, address, code string) error
}

// Message is a plain-text mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

func statusChangeMessage(address string, status domain.Status) Message {
	return Message{
		To:      address,
		Subject: "Your order status has changed",
		Body:    fmt.Sprintf("Hello,\n\nyour order is now %s.\n\nThank you for shopping with us.\n", status),
	}
}

func verificationMessage(address, code string) Message {
	return Message{
		To:      address,
		Subject: "Password change verification code",
		Body:    fmt.Sprintf("Hello,\n\nuse this code to confirm your password change: %s\n\nIf you did not ask for it, ignore this mail.\n", code),
	}
}

// SMTPSender sends mails through an SMTP relay with PLAIN auth.
type SMTPSender struct {
	addr string
	host string
	auth smtp.Auth
	from string
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &SMTPSender{
		addr: net.JoinHostPort(host, strconv.Itoa(port)),
		host: host,
		auth: auth,
		from: from,
		send: smtp.SendMail,
	}
}

func (s *SMTPSender) SendStatusChangeEmail(ctx context.Context, address string, status domain.Status) error {
	return s.deliver(ctx, statusChangeMessage(address, status))
}

func (s *SMTPSender) SendVerificationCode(ctx context.Context, address, code string) error {
	return s.deliver(ctx, verificationMessage(address, code))
}

func (s *SMTPSender) deliver(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("email: empty recipient")
	}
	if err := s.send(s.addr, s.auth, s.from, []string{m.To}, m.bytes(s.from)); err != nil {
		return fmt.Errorf("email: send to %s: %w", m.To, err)
	}
	return nil
}

func (m Message) bytes(from string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + m.To + "\r\n")
	b.WriteString("Subject: " + m.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(strings.ReplaceAll(m.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// LogSender writes mails to a logger instead of sending them.
type LogSender struct {
	logger *log.Logger
}

func NewLogSender(logger *log.Logger) *LogSender {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) SendStatusChangeEmail(_ context.Context, address string, status domain.Status) error {
	s.logger.Printf("email: to=%s subject=%q status=%s", address, statusChangeMessage(address, status).Subject, status)
	return nil
}

func (s *LogSender) SendVerificationCode(_ context.Context, address, _ string) error {
	s.logger.Printf("email: to=%s subject=%q", address, verificationMessage(address, "").Subject)
	return nil
}
