package notify

import (
	"context"
	"crypto/tls"
	stderrors "errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"loan-intake/internal/common/config"
	"loan-intake/internal/common/errors"
)

// smtpSender submits messages over an authenticated STARTTLS session.
// The dial timeout bounds worst-case submission latency when the mail
// server is unreachable.
type smtpSender struct {
	cfg config.SMTPConfig
}

func (s *smtpSender) Send(ctx context.Context, from string, to []string, msg []byte) error {
	client, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		return errors.NewNotificationSendFailedError(fmt.Errorf("failed to set sender: %w", err))
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return errors.NewNotificationSendFailedError(fmt.Errorf("failed to set recipient %s: %w", addr, err))
		}
	}

	w, err := client.Data()
	if err != nil {
		return errors.NewNotificationSendFailedError(fmt.Errorf("failed to open data writer: %w", err))
	}

	if _, err := w.Write(msg); err != nil {
		return errors.NewNotificationSendFailedError(fmt.Errorf("failed to write message: %w", err))
	}

	if err := w.Close(); err != nil {
		return errors.NewNotificationSendFailedError(fmt.Errorf("failed to close data writer: %w", err))
	}

	if err := client.Quit(); err != nil {
		return errors.NewNotificationSendFailedError(fmt.Errorf("failed to quit session: %w", err))
	}
	return nil
}

// Test dials, negotiates TLS, authenticates, and quits without sending.
func (s *smtpSender) Test(ctx context.Context) error {
	client, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Quit(); err != nil {
		return errors.NewNotificationSendFailedError(fmt.Errorf("failed to quit session: %w", err))
	}
	return nil
}

func (s *smtpSender) connect(ctx context.Context) (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	dialer := &net.Dialer{Timeout: s.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.NewNotificationSendFailedError(fmt.Errorf("failed to connect to SMTP server %s: %w", addr, err))
	}
	if s.cfg.Timeout > 0 {
		deadline, ok := ctx.Deadline()
		if !ok {
			deadline = time.Now().Add(s.cfg.Timeout)
		}
		conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, errors.NewNotificationSendFailedError(fmt.Errorf("failed to start SMTP session: %w", err))
	}

	if s.cfg.UseTLS {
		tlsConfig := &tls.Config{
			ServerName:         s.cfg.Host,
			InsecureSkipVerify: false,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return nil, errors.NewNotificationSendFailedError(fmt.Errorf("failed to start TLS: %w", err))
		}
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			client.Close()
			if isAuthError(err) {
				return nil, errors.NewSMTPAuthFailedError(err)
			}
			return nil, errors.NewNotificationSendFailedError(fmt.Errorf("SMTP authentication failed: %w", err))
		}
	}

	return client, nil
}

// isAuthError recognizes rejected-credential replies. net/smtp surfaces
// server replies as *textproto.Error, so the reply code is checked
// directly; a 535 appearing elsewhere in server text (a queue id, a
// message-id) must not count. The text fallback covers wrapped errors
// that lost the reply code.
func isAuthError(err error) bool {
	var reply *textproto.Error
	if stderrors.As(err, &reply) {
		return reply.Code == 535
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "authentication") ||
		strings.Contains(msg, "username and password not accepted")
}
