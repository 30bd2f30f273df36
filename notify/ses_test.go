package notify

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"faqbot/types"
)

type fakeSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, input *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{}, nil
}

func TestNotifyRunComplete(t *testing.T) {
	client := &fakeSES{}
	m := NewMailerWithClient(client, "noreply@example.com", zap.NewNop())

	run := &types.BatchRun{
		RunID: "run-1",
		Results: []types.EventDiscoveryResult{
			{
				CenterID:   "cn-1",
				CenterName: "Frisco",
				OwnerEmail: "owner@example.com",
				Status:     types.DiscoverySuccess,
				EventCount: 1,
				Events:     []types.EventItem{{EventName: "Fall Fest", EventDate: "Oct 12"}},
				CSVPath:    "/data/events/x.csv",
			},
			{
				// No owner email: skipped.
				CenterID:   "cn-2",
				CenterName: "Katy",
				Status:     types.DiscoveryPartial,
			},
		},
	}

	require.NoError(t, m.NotifyRunComplete(context.Background(), run))
	require.Len(t, client.inputs, 1)

	input := client.inputs[0]
	assert.Equal(t, "noreply@example.com", *input.Source)
	assert.Equal(t, []string{"owner@example.com"}, input.Destination.ToAddresses)
	assert.Contains(t, *input.Message.Subject.Data, "Frisco")

	body := *input.Message.Body.Text.Data
	assert.Contains(t, body, "Fall Fest")
	assert.Contains(t, body, "Oct 12")
	assert.Contains(t, body, "/data/events/x.csv")
}

func TestNotifyRunComplete_SendFailureDoesNotAbort(t *testing.T) {
	client := &fakeSES{err: assert.AnError}
	m := NewMailerWithClient(client, "noreply@example.com", zap.NewNop())

	run := &types.BatchRun{
		RunID: "run-2",
		Results: []types.EventDiscoveryResult{
			{CenterID: "cn-1", OwnerEmail: "a@example.com"},
			{CenterID: "cn-2", OwnerEmail: "b@example.com"},
		},
	}

	assert.NoError(t, m.NotifyRunComplete(context.Background(), run))
	assert.Len(t, client.inputs, 2)
}
