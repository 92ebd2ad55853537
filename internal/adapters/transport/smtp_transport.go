// Package transport provides implementations of the outbound mail
// transport.
package transport

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/protolab/erf-digest/internal/core"
	"go.uber.org/zap"
)

// SMTPTransport sends digests through an SMTP relay using go-smtp.
type SMTPTransport struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewSMTPTransport creates a transport for the given relay.
func NewSMTPTransport(host string, port int, username, password, from, fromName string, timeout time.Duration, logger *zap.Logger) *SMTPTransport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SMTPTransport{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
		timeout:  timeout,
		logger:   logger,
	}
}

// Send delivers one message. Each call opens its own connection; the
// pipeline sends sequentially and a failed message must not poison the next.
func (t *SMTPTransport) Send(ctx context.Context, msg *core.OutboundMessage) error {
	addr := fmt.Sprintf("%s:%d", t.host, t.port)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	dialer := &net.Dialer{Timeout: t.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP relay: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(t.timeout)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if t.username != "" {
		if err := c.Auth(sasl.NewPlainClient("", t.username, t.password)); err != nil {
			return fmt.Errorf("SMTP auth failed: %w", err)
		}
	}

	if err := c.Mail(t.from, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := c.Rcpt(msg.To, nil); err != nil {
		return fmt.Errorf("RCPT TO failed for %s: %w", msg.To, err)
	}
	for _, cc := range msg.Cc {
		if err := c.Rcpt(cc, nil); err != nil {
			t.logger.Warn("RCPT TO failed for cc recipient",
				zap.String("recipient", cc),
				zap.Error(err))
			// Keep going; the primary recipient was accepted.
		}
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	data, err := t.buildMessage(msg)
	if err != nil {
		wc.Close()
		return err
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to write message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		t.logger.Warn("QUIT command failed", zap.Error(err))
		// Not an error; the message has already been accepted.
	}

	t.logger.Info("Sent digest",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)))
	return nil
}

// buildMessage assembles the MIME wire form: plain HTML when there are no
// attachments, multipart/mixed with base64 parts otherwise.
func (t *SMTPTransport) buildMessage(msg *core.OutboundMessage) ([]byte, error) {
	var b strings.Builder

	from := t.from
	if t.fromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", t.fromName), t.from)
	}
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	if len(msg.Cc) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(msg.Cc, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")

	if len(msg.Attachments) == 0 {
		b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		b.WriteString(msg.Body)
		return []byte(b.String()), nil
	}

	const boundary = "erf-digest-mixed"
	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")

	for _, path := range msg.Attachments {
		content, err := os.ReadFile(path)
		if err != nil {
			t.logger.Warn("Skipping unreadable attachment",
				zap.String("file", path),
				zap.Error(err))
			continue
		}
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: application/octet-stream\r\n")
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n\r\n", filepath.Base(path))

		encoded := base64.StdEncoding.EncodeToString(content)
		for len(encoded) > 76 {
			b.WriteString(encoded[:76])
			b.WriteString("\r\n")
			encoded = encoded[76:]
		}
		b.WriteString(encoded)
		b.WriteString("\r\n")
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String()), nil
}
