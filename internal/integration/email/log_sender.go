package email

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clinic-finance/backend/internal/application/adapter"
)

// LogSender stands in for Resend when no API key is configured. Reports are
// written to the log instead of being delivered, so local setups still exercise
// the whole daily report path.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (LogSender) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	id := "logged-" + uuid.NewString()
	slog.InfoContext(ctx, "Email logged instead of sent",
		"id", id,
		"to", input.To,
		"subject", input.Subject,
		"ref_id", input.RefID,
	)
	return &adapter.SendEmailResult{ResendID: id}, nil
}

var _ adapter.EmailSender = LogSender{}
