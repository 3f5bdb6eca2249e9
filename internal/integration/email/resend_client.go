// Package email provides email sending functionality via Resend.
package email

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/clinic-finance/backend/internal/application/adapter"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
)

// ResendClient implements the adapter.EmailSender interface using Resend.
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

// WithBaseURL points the client at another Resend-compatible endpoint.
func (c *ResendClient) WithBaseURL(baseURL string) (*ResendClient, error) {
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid resend base url: %w", err)
	}
	c.client.BaseURL = parsed
	return c, nil
}

// Send sends an email via Resend.
func (c *ResendClient) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	from := fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail)

	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{input.To},
		Subject: input.Subject,
		Html:    input.HTML,
		Text:    input.Text,
	}
	if input.RefID != "" {
		params.Headers = map[string]string{"X-Entity-Ref-ID": input.RefID}
	}
	for name, value := range input.Tags {
		params.Tags = append(params.Tags, resend.Tag{Name: name, Value: value})
	}

	resp, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		// Check if it's a permanent error (don't retry)
		if isPermanentError(err) {
			return nil, domainerror.NewEmailError(
				domainerror.ErrCodePermanentEmailFailure,
				"permanent email failure",
				err,
			)
		}
		// Temporary error (can retry)
		return nil, domainerror.NewEmailError(
			domainerror.ErrCodeTemporaryEmailFailure,
			"temporary email failure",
			err,
		)
	}

	return &adapter.SendEmailResult{
		ResendID: resp.Id,
	}, nil
}

// isPermanentError checks if the error is a permanent error that should not be retried.
// Permanent errors include: 401 (Unauthorized), 403 (Forbidden), 422 (Validation Error)
// Temporary errors include: 429 (Rate Limit), 5xx (Server Errors)
func isPermanentError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()

	// Check for common permanent error patterns
	permanentPatterns := []string{
		"401",
		"403",
		"422",
		"unauthorized",
		"forbidden",
		"validation",
		"invalid",
		"bad request",
	}

	for _, pattern := range permanentPatterns {
		if strings.Contains(strings.ToLower(errStr), pattern) {
			return true
		}
	}

	return false
}

var _ adapter.EmailSender = (*ResendClient)(nil)
