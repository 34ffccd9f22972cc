package notify

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"loan-intake/internal/common/aws"
	"loan-intake/internal/common/config"
	"loan-intake/internal/common/logger"
)

// SMSAlerter sends an optional short SMS to the reviewer after a
// successful email notification. Strictly best-effort.
type SMSAlerter struct {
	client *aws.SNSClient
	phone  string
	logger logger.Logger
}

func NewSMSAlerter(ctx context.Context, cfg config.SNSConfig, log logger.Logger) (*SMSAlerter, error) {
	client, err := aws.NewSNSClient(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}
	return &SMSAlerter{client: client, phone: cfg.Phone, logger: log}, nil
}

func (a *SMSAlerter) Alert(ctx context.Context, applicationID int64, applicantName string, loanAmount float64) {
	if a.phone == "" {
		return
	}

	message := fmt.Sprintf("New loan application #%d from %s (INR %.2f)", applicationID, applicantName, loanAmount)
	_, err := a.client.Publish(ctx, &sns.PublishInput{
		Message:     awssdk.String(message),
		PhoneNumber: awssdk.String(a.phone),
	})
	if err != nil {
		a.logger.Warn("sms alert failed", map[string]interface{}{
			"error":         err,
			"applicationId": applicationID,
		})
		return
	}

	a.logger.Info("sms alert sent", map[string]interface{}{"applicationId": applicationID})
}
