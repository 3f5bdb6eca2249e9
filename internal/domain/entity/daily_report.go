// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReportStatus represents the delivery status of a daily report.
type ReportStatus string

const (
	ReportStatusPending ReportStatus = "pending"
	ReportStatusSent    ReportStatus = "sent"
	ReportStatusFailed  ReportStatus = "failed"
)

// DailyReport is the end-of-day closing summary mailed to the clinic owners.
type DailyReport struct {
	ID          uuid.UUID
	ClinicDate  string
	Snapshot    MetricsSnapshot
	TopExpenses []LabelTotal
	TopDoctors  []LabelTotal
	Recipients  []string
	Status      ReportStatus
	Delivered   int
	LastError   string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// NewDailyReport creates a pending report for the given clinic date.
func NewDailyReport(clinicDate string, snapshot MetricsSnapshot, recipients []string) *DailyReport {
	return &DailyReport{
		ID:         uuid.New(),
		ClinicDate: clinicDate,
		Snapshot:   snapshot,
		Recipients: recipients,
		Status:     ReportStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
}

// MarkSent records a successful delivery to every recipient.
func (r *DailyReport) MarkSent(delivered int) {
	r.Status = ReportStatusSent
	r.Delivered = delivered
	now := time.Now().UTC()
	r.ProcessedAt = &now
}

// MarkFailed records a failed delivery. Reports are not retried.
func (r *DailyReport) MarkFailed(delivered int, err error) {
	r.Status = ReportStatusFailed
	r.Delivered = delivered
	r.LastError = err.Error()
	now := time.Now().UTC()
	r.ProcessedAt = &now
}
