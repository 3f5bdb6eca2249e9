// Package email provides email sending functionality.
package email

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/application/usecase/report"
	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
)

// reportLockTTL outlives a clinic day so a restarted instance cannot resend.
const reportLockTTL = 36 * time.Hour

// ReportSender sends the daily closing report.
type ReportSender interface {
	Execute(ctx context.Context, input report.SendDailyReportInput) (*report.SendDailyReportOutput, error)
}

// ReportWorker sends the daily report once per clinic day after the send hour.
type ReportWorker struct {
	sender       ReportSender
	lock         adapter.ReportLock
	recipients   []string
	sendHour     int
	location     *time.Location
	pollInterval time.Duration
	now          func() time.Time
	lastSent     string
}

// ReportWorkerConfig holds configuration for the report worker.
type ReportWorkerConfig struct {
	Recipients   []string
	SendHour     int
	Location     *time.Location
	PollInterval time.Duration
}

// DefaultReportWorkerConfig returns the default worker configuration.
func DefaultReportWorkerConfig() ReportWorkerConfig {
	return ReportWorkerConfig{
		SendHour:     21,
		Location:     time.UTC,
		PollInterval: 5 * time.Minute,
	}
}

// NewReportWorker creates a new report worker.
func NewReportWorker(sender ReportSender, lock adapter.ReportLock, config ReportWorkerConfig) *ReportWorker {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultReportWorkerConfig().PollInterval
	}
	return &ReportWorker{
		sender:       sender,
		lock:         lock,
		recipients:   config.Recipients,
		sendHour:     config.SendHour,
		location:     config.Location,
		pollInterval: config.PollInterval,
		now:          time.Now,
	}
}

// WithClock replaces the clock used to decide the clinic day.
func (w *ReportWorker) WithClock(now func() time.Time) *ReportWorker {
	w.now = now
	return w
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *ReportWorker) Start(ctx context.Context) {
	slog.Info("Report worker started",
		"poll_interval", w.pollInterval,
		"send_hour", w.sendHour,
		"recipients", len(w.recipients),
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Process immediately on start, then on ticker
	w.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Report worker shutting down")
			return
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick sends the report if it is due and no instance has sent it today.
// It reports whether this call sent it.
func (w *ReportWorker) Tick(ctx context.Context) bool {
	now := w.now().In(w.location)
	if now.Hour() < w.sendHour {
		return false
	}

	clinicDate := now.Format(entity.DateLayout)
	if w.lastSent == clinicDate {
		return false
	}

	logger := slog.With("clinic_date", clinicDate)

	acquired, err := w.lock.Acquire(ctx, "report:daily:"+clinicDate, reportLockTTL)
	if err != nil {
		logger.Error("Failed to acquire daily report lock", "error", err)
		return false
	}
	w.lastSent = clinicDate
	if !acquired {
		logger.Debug("Daily report already handled by another instance")
		return false
	}

	output, err := w.sender.Execute(ctx, report.SendDailyReportInput{Recipients: w.recipients})
	if err != nil {
		var emailErr *domainerror.EmailError
		if errors.As(err, &emailErr) {
			logger.Error("Daily report failed", "code", emailErr.Code, "error", err)
		} else {
			logger.Error("Daily report failed", "error", err)
		}
		return false
	}

	logger.Info("Daily report processed",
		"report_id", output.Report.ID,
		"status", output.Report.Status,
		"delivered", output.Report.Delivered,
	)
	return true
}
