// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"labelforge/internal/common/config"
	"labelforge/internal/common/logger"
	"labelforge/internal/models"
)

const dispatchTimeout = 3 * time.Second

type topicPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type emailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// Notifier pushes crisis alerts to the response team. Dispatch is
// best-effort: a failed alert is logged, never propagated to the request.
type Notifier struct {
	topic  topicPublisher
	email  emailSender
	cfg    config.AlertConfig
	logger logger.Logger
}

func NewNotifier(topic topicPublisher, email emailSender, cfg config.AlertConfig, log logger.Logger) *Notifier {
	return &Notifier{
		topic:  topic,
		email:  email,
		cfg:    cfg,
		logger: log,
	}
}

// NotifyCrisis dispatches alerts for a completed crisis response. Only
// high and critical severities alert; lower severities are a no-op.
func (n *Notifier) NotifyCrisis(ctx context.Context, resp *models.CrisisResponse) {
	if n == nil || !n.cfg.Enabled {
		return
	}
	if models.SeverityRank[resp.Scenario.Severity] < models.SeverityRank[models.SeverityHigh] {
		return
	}

	dispatchCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	subject := fmt.Sprintf("[%s] %s crisis response %s",
		strings.ToUpper(resp.Scenario.Severity), resp.Scenario.CrisisType, resp.ID)
	body := n.buildBody(resp)

	n.publishTopic(dispatchCtx, resp, subject, body)
	n.sendEmail(dispatchCtx, resp, subject, body)
}

func (n *Notifier) buildBody(resp *models.CrisisResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Crisis response %s generated at %s\n\n", resp.ID, resp.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Type: %s\nSeverity: %s\n", resp.Scenario.CrisisType, resp.Scenario.Severity)
	fmt.Fprintf(&b, "Affected products: %s\n", strings.Join(resp.Scenario.AffectedProducts, ", "))
	fmt.Fprintf(&b, "Affected markets: %s\n\n", strings.Join(resp.Scenario.AffectedMarkets, ", "))
	fmt.Fprintf(&b, "Revised labels: %d\nCommunications: %d\nAction items: %d\n\n",
		len(resp.RevisedLabels), len(resp.Communications), len(resp.ActionPlan))
	fmt.Fprintf(&b, "Impact estimate: %s\n", resp.ImpactEstimate)
	return b.String()
}

func (n *Notifier) publishTopic(ctx context.Context, resp *models.CrisisResponse, subject, body string) {
	if n.topic == nil || n.cfg.TopicARN == "" {
		return
	}
	_, err := n.topic.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.cfg.TopicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	if err != nil {
		n.logger.Warn("Crisis topic publish failed", map[string]interface{}{
			"crisisId": resp.ID,
			"severity": resp.Scenario.Severity,
			"error":    err.Error(),
		})
	}
}

func (n *Notifier) sendEmail(ctx context.Context, resp *models.CrisisResponse, subject, body string) {
	if n.email == nil || n.cfg.FromEmail == "" || n.cfg.ToEmail == "" {
		return
	}
	_, err := n.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.cfg.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.cfg.ToEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		n.logger.Warn("Crisis email dispatch failed", map[string]interface{}{
			"crisisId": resp.ID,
			"severity": resp.Scenario.Severity,
			"error":    err.Error(),
		})
	}
}
