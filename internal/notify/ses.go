package notify

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"loan-intake/internal/common/aws"
	"loan-intake/internal/common/errors"
)

// sesSender submits the same raw MIME message through AWS SES instead of
// a direct SMTP session.
type sesSender struct {
	client *aws.SESClient
}

func newSESSender(ctx context.Context, region string) (*sesSender, error) {
	client, err := aws.NewSESClient(ctx, region)
	if err != nil {
		return nil, err
	}
	return &sesSender{client: client}, nil
}

func (s *sesSender) Send(ctx context.Context, from string, to []string, msg []byte) error {
	_, err := s.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		RawMessage:   &types.RawMessage{Data: msg},
		Source:       awssdk.String(from),
		Destinations: to,
	})
	if err != nil {
		return errors.NewNotificationSendFailedError(fmt.Errorf("ses send failed: %w", err))
	}
	return nil
}

func (s *sesSender) Test(ctx context.Context) error {
	if _, err := s.client.GetSendQuota(ctx); err != nil {
		return errors.NewNotificationSendFailedError(fmt.Errorf("ses connectivity check failed: %w", err))
	}
	return nil
}
