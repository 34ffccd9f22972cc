package submission

import (
	"context"
	"fmt"
	"time"

	"loan-intake/internal/common/errors"
	"loan-intake/internal/common/logger"
	"loan-intake/internal/common/metrics"
	"loan-intake/internal/common/observability"
	"loan-intake/internal/files"
	"loan-intake/internal/models"
)

// ApplicationStore persists validated applications.
type ApplicationStore interface {
	SaveApplication(ctx context.Context, app *models.Application) (int64, error)
}

// FileSaver stores a submission's uploaded documents.
type FileSaver interface {
	SaveAll(ctx context.Context, applicationID int64, applicantName string, uploads []files.Upload, passwords map[string]string) []files.SavedFile
}

// Notifier sends the reviewer notification for a persisted application.
type Notifier interface {
	SendApplicationNotification(ctx context.Context, applicationID int64, app *models.Application, saved []files.SavedFile) error
}

// Outcome is the result of one submission, mirrored directly into the
// HTTP response body. FilesUploaded is a count only: storage paths and
// document passwords stay server-side, visible through the admin views.
type Outcome struct {
	Success       bool    `json:"success"`
	ApplicationID int64   `json:"application_id"`
	Message       string  `json:"message"`
	FilesUploaded int     `json:"files_uploaded"`
	EmailSent     bool    `json:"email_sent"`
	EmailError    *string `json:"email_error,omitempty"`
}

// Orchestrator runs the intake pipeline. Only validation and the
// application insert are fatal; file storage and notification failures
// degrade the outcome without rejecting the submission.
type Orchestrator struct {
	store    ApplicationStore
	files    FileSaver
	notifier Notifier
	obs      *observability.Observability
	logger   logger.Logger
}

func NewOrchestrator(store ApplicationStore, fs FileSaver, notifier Notifier, obs *observability.Observability, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		files:    fs,
		notifier: notifier,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "submission"}),
	}
}

// Submit validates the form, creates the application row, stores the
// uploaded documents, and dispatches the notification, in that order.
func (o *Orchestrator) Submit(ctx context.Context, form *Form, uploads []files.Upload, passwords map[string]string) (outcome *Outcome, err error) {
	start := time.Now()
	outcomeLabel := "success"
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("submission panicked", map[string]interface{}{"panic": r})
			outcome, err = nil, errors.NewInternalError(fmt.Errorf("panic: %v", r))
		}
		if err != nil {
			outcomeLabel = "failed"
		}
		metrics.SubmissionsTotal.WithLabelValues(outcomeLabel).Inc()
		metrics.SubmissionDuration.WithLabelValues(outcomeLabel).Observe(time.Since(start).Seconds())
		o.obs.RecordSubmissionProcessed(ctx, outcomeLabel)
		o.obs.RecordSubmissionDuration(ctx, time.Since(start), outcomeLabel)
	}()

	app, err := Validate(form)
	if err != nil {
		o.logger.Warn("submission rejected", map[string]interface{}{
			"error": errors.DetailsOf(err),
		})
		return nil, err
	}

	applicationID, err := o.store.SaveApplication(ctx, app)
	if err != nil {
		o.logger.Error("failed to persist application", map[string]interface{}{
			"error":     errors.DetailsOf(err),
			"applicant": app.Name,
		})
		return nil, err
	}
	o.logger.Info("application persisted", map[string]interface{}{
		"applicationId": applicationID,
		"applicant":     app.Name,
		"loanAmount":    app.LoanAmount,
	})

	saved := o.files.SaveAll(ctx, applicationID, app.Name, uploads, passwords)

	var emailError *string
	emailSent := false
	if sendErr := o.notifier.SendApplicationNotification(ctx, applicationID, app, saved); sendErr != nil {
		if errors.CodeOf(sendErr) != errors.ErrCodeNotificationNotConfigured {
			msg := "Failed to send email notification"
			emailError = &msg
			o.logger.Error("notification failed", map[string]interface{}{
				"error":         errors.DetailsOf(sendErr),
				"applicationId": applicationID,
			})
		}
	} else {
		emailSent = true
	}

	return &Outcome{
		Success:       true,
		ApplicationID: applicationID,
		Message:       "Application submitted successfully",
		FilesUploaded: len(saved),
		EmailSent:     emailSent,
		EmailError:    emailError,
	}, nil
}
