package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/resend/resend-go/v2"

	"github.com/giftcircle/backend/internal/application/adapter"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

// ResendClient delivers email through the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromName  string
	fromEmail string
}

// NewResendClient creates a new Resend client.
func NewResendClient(apiKey, fromName, fromEmail string) *ResendClient {
	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// Send delivers one email via Resend and returns the Resend message id.
func (c *ResendClient) Send(ctx context.Context, email adapter.RenderedEmail) (string, error) {
	to := email.To
	if email.ToName != "" {
		to = fmt.Sprintf("%s <%s>", email.ToName, email.To)
	}

	resp, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{to},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	})
	if err != nil {
		if isPermanentError(err) {
			return "", domainerror.NewDeliveryError("", true, fmt.Errorf("%w: %v", domainerror.ErrEmailRejected, err))
		}
		return "", domainerror.NewDeliveryError("", false, fmt.Errorf("%w: %v", domainerror.ErrEmailProviderUnavailable, err))
	}
	return resp.Id, nil
}

// isPermanentError reports whether retrying cannot help: rejected credentials
// or a payload the API refuses. Rate limits and 5xx are retried.
func isPermanentError(err error) bool {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, fmt.Sprint(http.StatusTooManyRequests)) || strings.Contains(msg, "rate limit") {
		return false
	}
	for _, pattern := range []string{
		fmt.Sprint(http.StatusUnauthorized),
		fmt.Sprint(http.StatusForbidden),
		fmt.Sprint(http.StatusUnprocessableEntity),
		"unauthorized",
		"forbidden",
		"validation",
		"invalid",
		"bad request",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// LogSender records emails instead of sending them. It backs local
// development without a Resend key and the test suites.
type LogSender struct {
	mu   sync.Mutex
	sent []adapter.RenderedEmail
	fail error
}

// NewLogSender creates an empty LogSender.
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send records the email, or fails with the configured error.
func (s *LogSender) Send(_ context.Context, email adapter.RenderedEmail) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail != nil {
		return "", s.fail
	}
	s.sent = append(s.sent, email)
	slog.Info("Email recorded", "to", email.To, "subject", email.Subject)
	return fmt.Sprintf("local-%d", len(s.sent)), nil
}

// FailWith makes every later Send return err. A nil err restores delivery.
func (s *LogSender) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

// Sent returns a copy of the recorded emails.
func (s *LogSender) Sent() []adapter.RenderedEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]adapter.RenderedEmail, len(s.sent))
	copy(out, s.sent)
	return out
}

// Reset forgets recorded emails and clears FailWith.
func (s *LogSender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
	s.fail = nil
}

var (
	_ adapter.EmailSender = (*ResendClient)(nil)
	_ adapter.EmailSender = (*LogSender)(nil)
)
