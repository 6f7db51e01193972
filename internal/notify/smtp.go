package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// Credentials are injected from the environment or a secret store.
type Credentials struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier sends plain-text mail. Port 465 uses implicit TLS; any other
// port upgrades with STARTTLS when the server offers it.
type SMTPNotifier struct {
	creds Credentials
	now   func() time.Time
}

func NewSMTPNotifier(creds Credentials) *SMTPNotifier {
	return &SMTPNotifier{creds: creds, now: time.Now}
}

func (s *SMTPNotifier) NotifyAssignment(ctx context.Context, n AssignmentNotice) error {
	if strings.TrimSpace(n.LawyerEmail) == "" {
		return ErrNoRecipient
	}
	body, err := RenderAssignment(n)
	if err != nil {
		return fmt.Errorf("notify: render: %w", err)
	}
	msg := buildMessage(s.creds.From, n.LawyerEmail, AssignmentSubject, body, s.now())
	return s.send(ctx, n.LawyerEmail, msg)
}

func (s *SMTPNotifier) send(ctx context.Context, to string, msg []byte) error {
	address := net.JoinHostPort(s.creds.Host, fmt.Sprint(s.creds.Port))

	d := net.Dialer{Timeout: 15 * time.Second}
	if deadline, ok := ctx.Deadline(); ok {
		d.Deadline = deadline
	}

	var (
		conn net.Conn
		err  error
	)
	if s.creds.Port == 465 {
		conn, err = tls.DialWithDialer(&d, "tcp", address, &tls.Config{ServerName: s.creds.Host})
	} else {
		conn, err = d.DialContext(ctx, "tcp", address)
	}
	if err != nil {
		return fmt.Errorf("notify: dial: %w", err)
	}

	c, err := smtp.NewClient(conn, s.creds.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("notify: new client: %w", err)
	}
	defer c.Close()

	if s.creds.Port != 465 {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: s.creds.Host}); err != nil {
				return fmt.Errorf("notify: starttls: %w", err)
			}
		}
	}
	if s.creds.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", s.creds.Username, s.creds.Password, s.creds.Host)); err != nil {
			return fmt.Errorf("notify: auth: %w", err)
		}
	}
	if err := c.Mail(s.creds.From); err != nil {
		return fmt.Errorf("notify: MAIL FROM: %w", err)
	}
	if err := c.Rcpt(strings.TrimSpace(to)); err != nil {
		return fmt.Errorf("notify: RCPT TO: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("notify: DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return fmt.Errorf("notify: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("notify: close data: %w", err)
	}
	return c.Quit()
}

func buildMessage(from, to, subject, body string, now time.Time) []byte {
	var b bytes.Buffer
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + now.UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.Bytes()
}
