// Package notify sends email summaries when batch runs finish.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"faqbot/types"
)

// SESService is the slice of the SES client we use, kept as an interface
// for mocking.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Mailer sends run summaries to center owners over SES.
type Mailer struct {
	client SESService
	sender string
	log    *zap.Logger
}

func NewMailer(ctx context.Context, region, sender string, log *zap.Logger) (*Mailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &Mailer{
		client: ses.NewFromConfig(awsCfg),
		sender: sender,
		log:    log,
	}, nil
}

// NewMailerWithClient wires an explicit client, used by tests.
func NewMailerWithClient(client SESService, sender string, log *zap.Logger) *Mailer {
	return &Mailer{client: client, sender: sender, log: log}
}

// NotifyRunComplete mails one summary per center that has an owner email.
// Send failures are logged per recipient and do not abort the rest.
func (m *Mailer) NotifyRunComplete(ctx context.Context, run *types.BatchRun) error {
	sent := 0
	for _, result := range run.Results {
		to := result.OwnerEmail
		if to == "" {
			continue
		}
		subject := fmt.Sprintf("Event discovery results for %s", result.CenterName)
		body := summaryBody(result)
		if err := m.send(ctx, to, subject, body); err != nil {
			m.log.Warn("summary email failed",
				zap.String("center_id", result.CenterID),
				zap.Error(err))
			continue
		}
		sent++
	}
	m.log.Info("run summaries sent",
		zap.String("run_id", run.RunID), zap.Int("emails", sent))
	return nil
}

func summaryBody(result types.EventDiscoveryResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\nEvent discovery for %s finished with status %s.\n\n",
		result.CenterName, result.Status)
	if result.EventCount > 0 {
		fmt.Fprintf(&b, "%d events were found:\n", result.EventCount)
		for _, e := range result.Events {
			fmt.Fprintf(&b, "- %s", e.EventName)
			if e.EventDate != "" {
				fmt.Fprintf(&b, " (%s)", e.EventDate)
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString("No events were found this time.\n")
	}
	if result.CSVPath != "" {
		fmt.Fprintf(&b, "\nA CSV report was saved to %s.\n", result.CSVPath)
	}
	b.WriteString("\nThis is an automated message.\n")
	return b.String()
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(m.sender),
	})
	return err
}
