// Package notify formats and transmits the reviewer email for each
// submitted loan application. Delivery is strictly best-effort: every
// failure is logged and returned as an error for the orchestrator to
// absorb, never propagated as a panic and never fatal to a submission.
package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"loan-intake/internal/common/config"
	"loan-intake/internal/common/errors"
	"loan-intake/internal/common/logger"
	"loan-intake/internal/common/metrics"
	"loan-intake/internal/files"
	"loan-intake/internal/models"
)

// Known placeholder values left behind by template deployments. A
// dispatcher carrying them reports itself unconfigured.
const (
	placeholderAddress  = "your.email@gmail.com"
	placeholderPassword = "your_app_password"
)

// sender is the mail-submission transport: SMTP by default, SES when
// configured.
type sender interface {
	Send(ctx context.Context, from string, to []string, msg []byte) error
	Test(ctx context.Context) error
}

// Dispatcher composes and sends application notifications to the single
// configured recipient.
type Dispatcher struct {
	cfg     config.EmailConfig
	logger  logger.Logger
	sender  sender
	alerter *SMSAlerter
}

func New(ctx context.Context, cfg config.EmailConfig, log logger.Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notify"}),
	}

	switch cfg.Provider {
	case "ses":
		s, err := newSESSender(ctx, cfg.SES.Region)
		if err != nil {
			return nil, fmt.Errorf("init ses sender: %w", err)
		}
		d.sender = s
	default:
		d.sender = &smtpSender{cfg: cfg.SMTP}
	}

	if cfg.SNS.Enabled {
		a, err := NewSMSAlerter(ctx, cfg.SNS, d.logger)
		if err != nil {
			// SMS is an optional extra; run without it.
			d.logger.Warn("sms alerter init failed, continuing without SMS", map[string]interface{}{"error": err})
		} else {
			d.alerter = a
		}
	}

	d.logger.Info("email dispatcher initialized", map[string]interface{}{
		"provider":   cfg.Provider,
		"from":       cfg.From,
		"recipient":  cfg.Recipient,
		"configured": d.IsConfigured(),
	})

	return d, nil
}

// IsConfigured reports whether a sender address, credential, and recipient
// are all present and none equal the known placeholder values.
func (d *Dispatcher) IsConfigured() bool {
	if d.cfg.From == "" || d.cfg.From == placeholderAddress {
		return false
	}
	if d.cfg.Recipient == "" || d.cfg.Recipient == placeholderAddress {
		return false
	}
	if d.cfg.Provider == "smtp" || d.cfg.Provider == "" {
		if d.cfg.SMTP.Password == "" || d.cfg.SMTP.Password == placeholderPassword {
			return false
		}
	}
	return true
}

// SendApplicationNotification emails the full application summary with
// every stored document attached. Attachments whose file no longer exists
// on disk are skipped, non-fatally.
func (d *Dispatcher) SendApplicationNotification(ctx context.Context, applicationID int64, app *models.Application, saved []files.SavedFile) error {
	if !d.IsConfigured() {
		d.logger.Warn("email not configured, skipping notification", map[string]interface{}{
			"applicationId": applicationID,
		})
		metrics.NotificationsTotal.WithLabelValues("skipped").Inc()
		return errors.NewNotificationNotConfiguredError()
	}

	subject := fmt.Sprintf("New Loan Application - %s (ID: %d)", app.Name, applicationID)
	body := buildBody(applicationID, app, saved)

	var attachments []attachment
	for _, f := range saved {
		data, err := os.ReadFile(f.FilePath)
		if err != nil {
			d.logger.Warn("attachment missing on disk, skipping", map[string]interface{}{
				"error": err,
				"path":  f.FilePath,
			})
			continue
		}
		attachments = append(attachments, attachment{
			filename: filepath.Base(f.FilePath),
			data:     data,
		})
	}

	msg := buildMessage(d.cfg.From, d.cfg.Recipient, subject, body, attachments)

	if err := d.sender.Send(ctx, d.cfg.From, []string{d.cfg.Recipient}, msg); err != nil {
		d.logger.Error("notification send failed", map[string]interface{}{
			"error":         errors.DetailsOf(err),
			"applicationId": applicationID,
		})
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		return err
	}

	d.logger.Info("notification sent", map[string]interface{}{
		"applicationId": applicationID,
		"attachments":   len(attachments),
		"applicant":     app.Name,
	})
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()

	if d.alerter != nil {
		d.alerter.Alert(ctx, applicationID, app.Name, app.LoanAmount)
	}

	return nil
}

// TestConnection establishes and tears down an authenticated session
// without sending content. Used purely for operational diagnostics.
func (d *Dispatcher) TestConnection(ctx context.Context) error {
	if !d.IsConfigured() {
		return errors.NewNotificationNotConfiguredError()
	}
	return d.sender.Test(ctx)
}
