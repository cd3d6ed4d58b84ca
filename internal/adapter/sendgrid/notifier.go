// Package sendgrid delivers transition notifications by email through the
// SendGrid v3 mail-send API.
package sendgrid

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/sendgrid/rest"
	sendgridgo "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/vicholz/airmonitor/internal/domain"
)

// Subject lines by transition direction.
const (
	subjectBad  = "AQI STATUS: BAD - AQI OR TEMP OUT OF DESIRED RANGE."
	subjectGood = "AQI STATUS: GOOD - AQI OR TEMP IS WITHIN DESIRED RANGE."
)

var bodyTemplate = template.Must(template.New("notification").Parse(
	"PM2.5: {{.PM25}}<br>\nO3: {{.O3}}<br>\nTemp: {{.Temperature}}<br>\n"))

// mailSender is the slice of the SendGrid client the notifier uses; tests
// substitute a fake.
type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Notifier sends one email per status transition. Delivery is attempted
// exactly once; retry policy belongs to the scheduler that reruns the job.
type Notifier struct {
	client     mailSender
	from       string
	recipients []string
	logger     *slog.Logger
}

// NewNotifier creates a SendGrid-backed notifier. Recipients are validated
// non-empty at config load, before this is constructed.
func NewNotifier(apiKey, from string, recipients []string, logger *slog.Logger) *Notifier {
	return &Notifier{
		client:     sendgridgo.NewSendClient(apiKey),
		from:       from,
		recipients: recipients,
		logger:     logger,
	}
}

// Notify builds and sends the notification for a transition. Calling it with
// an Unchanged transition is a programming error and is rejected.
func (n *Notifier) Notify(ctx context.Context, transition domain.Transition, snap domain.Snapshot) error {
	subject, err := subjectFor(transition)
	if err != nil {
		return err
	}
	body, err := renderBody(snap)
	if err != nil {
		return err
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail("", n.from))
	message.Subject = subject

	personalization := mail.NewPersonalization()
	for _, rcpt := range n.recipients {
		personalization.AddTos(mail.NewEmail("", rcpt))
	}
	message.AddPersonalizations(personalization)
	message.AddContent(mail.NewContent("text/html", body))

	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid API error: status %d: %s", resp.StatusCode, resp.Body)
	}

	n.logger.Info("notification sent",
		"transition", transition.String(),
		"subject", subject,
		"recipients", len(n.recipients),
	)
	return nil
}

func subjectFor(transition domain.Transition) (string, error) {
	switch transition {
	case domain.EnteredAlert:
		return subjectBad, nil
	case domain.ExitedAlert:
		return subjectGood, nil
	default:
		return "", fmt.Errorf("no notification for transition %q", transition)
	}
}

func renderBody(snap domain.Snapshot) (string, error) {
	var temp float64
	if snap.Temperature != nil {
		temp = *snap.Temperature
	}

	var b strings.Builder
	err := bodyTemplate.Execute(&b, struct {
		PM25        float64
		O3          float64
		Temperature float64
	}{
		PM25:        snap.AirQuality[domain.PollutantPM25].AQI,
		O3:          snap.AirQuality[domain.PollutantO3].AQI,
		Temperature: temp,
	})
	if err != nil {
		return "", fmt.Errorf("render notification body: %w", err)
	}
	return b.String(), nil
}
