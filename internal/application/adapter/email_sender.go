// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/clinic-finance/backend/internal/domain/entity"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Subject string
	HTML    string
	Text    string
	// RefID groups messages of one report so mail clients do not thread them.
	RefID string
	Tags  map[string]string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ResendID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send sends an email via the email provider (e.g., Resend).
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// ReportLock guarantees a daily report is produced once per clinic day across instances.
type ReportLock interface {
	// Acquire returns true if the caller now owns key for ttl.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RenderedEmail is a fully rendered message ready to send.
type RenderedEmail struct {
	Subject string
	HTML    string
	Text    string
}

// ReportRenderer renders the daily closing report.
type ReportRenderer interface {
	RenderDailyReport(report *entity.DailyReport) (*RenderedEmail, error)
}
