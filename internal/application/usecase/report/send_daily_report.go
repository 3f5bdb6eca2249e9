// Package report contains the daily closing report use case.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/application/usecase/dashboard"
	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
)

// TopEntries is how many categories and doctors the report lists.
const TopEntries = 5

// SendDailyReportInput represents the input for sending the daily report.
type SendDailyReportInput struct {
	Recipients []string
}

// SendDailyReportOutput represents the output of the daily report.
type SendDailyReportOutput struct {
	Report *entity.DailyReport
}

// SendDailyReportUseCase mails the end-of-day metrics to the clinic owners.
type SendDailyReportUseCase struct {
	loader   dashboard.LedgerLoader
	renderer adapter.ReportRenderer
	sender   adapter.EmailSender
}

// NewSendDailyReportUseCase creates a new SendDailyReportUseCase instance.
func NewSendDailyReportUseCase(
	loader dashboard.LedgerLoader,
	renderer adapter.ReportRenderer,
	sender adapter.EmailSender,
) *SendDailyReportUseCase {
	return &SendDailyReportUseCase{
		loader:   loader,
		renderer: renderer,
		sender:   sender,
	}
}

// Execute builds the report for the current clinic date and sends it to every
// recipient. Delivery failures are recorded on the report and not retried.
func (uc *SendDailyReportUseCase) Execute(ctx context.Context, input SendDailyReportInput) (*SendDailyReportOutput, error) {
	if len(input.Recipients) == 0 {
		return nil, domainerror.NewEmailError(
			domainerror.ErrCodeNoReportRecipients,
			"daily report has no recipients",
			domainerror.ErrNoReportRecipients,
		)
	}

	result, err := uc.loader.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	clinicDate := result.Now.Format(entity.DateLayout)
	report := entity.NewDailyReport(clinicDate, dashboard.BuildSnapshot(result.Transactions, result.Now), input.Recipients)

	today := make([]entity.Transaction, 0)
	for _, tx := range result.Transactions {
		if tx.DisplayDate == clinicDate {
			today = append(today, tx)
		}
	}
	report.TopExpenses = dashboard.TopN(dashboard.ExpensesByCategory(today), TopEntries)
	report.TopDoctors = dashboard.TopN(dashboard.IncomeByDoctor(today), TopEntries)

	rendered, err := uc.renderer.RenderDailyReport(report)
	if err != nil {
		report.MarkFailed(0, err)
		return nil, domainerror.NewEmailError(
			domainerror.ErrCodeTemplateRenderFailed,
			"failed to render daily report",
			fmt.Errorf("%w: %w", domainerror.ErrTemplateRenderFailed, err),
		)
	}

	logger := slog.With("report_id", report.ID, "clinic_date", clinicDate)

	delivered := 0
	var sendErrs []error
	for _, recipient := range input.Recipients {
		res, err := uc.sender.Send(ctx, adapter.SendEmailInput{
			To:      recipient,
			Subject: rendered.Subject,
			HTML:    rendered.HTML,
			Text:    rendered.Text,
			RefID:   report.ID.String(),
			Tags:    map[string]string{"category": "daily_report"},
		})
		if err != nil {
			logger.Error("Failed to send daily report", "recipient", recipient, "error", err)
			sendErrs = append(sendErrs, err)
			continue
		}
		delivered++
		logger.Info("Daily report sent", "recipient", recipient, "resend_id", res.ResendID)
	}

	if len(sendErrs) > 0 {
		joined := errors.Join(sendErrs...)
		report.MarkFailed(delivered, joined)
		if delivered == 0 {
			return &SendDailyReportOutput{Report: report}, domainerror.NewEmailError(
				domainerror.ErrCodeEmailSendFailed,
				"daily report was not delivered",
				fmt.Errorf("%w: %w", domainerror.ErrEmailSendFailed, joined),
			)
		}
		return &SendDailyReportOutput{Report: report}, nil
	}

	report.MarkSent(delivered)
	return &SendDailyReportOutput{Report: report}, nil
}
