// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/clinic-finance/backend/internal/application/usecase/dashboard"
	"github.com/clinic-finance/backend/internal/domain/entity"
)

// MetricsWindowResponse represents the sums of one window.
type MetricsWindowResponse struct {
	Income       float64 `json:"income"`
	Expense      float64 `json:"expense"`
	Net          float64 `json:"net"`
	Appointments int     `json:"appointments"`
}

// TotalWindowResponse is the unfiltered window with the pending balance.
type TotalWindowResponse struct {
	MetricsWindowResponse
	Balance float64 `json:"balance"`
}

// MetricsResponse represents the response for the dashboard metrics.
type MetricsResponse struct {
	Today       MetricsWindowResponse `json:"today"`
	Month       MetricsWindowResponse `json:"month"`
	Total       TotalWindowResponse   `json:"total"`
	GeneratedAt string                `json:"generated_at"`
	Sources     SourcesResponse       `json:"sources"`
}

// LabelTotalResponse represents an amount grouped by label.
type LabelTotalResponse struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// CategoryBreakdownResponse represents the expense breakdown by category.
type CategoryBreakdownResponse struct {
	Categories   []LabelTotalResponse `json:"categories"`
	TotalExpense float64              `json:"total_expense"`
}

// DoctorBreakdownResponse represents the income breakdown by doctor.
type DoctorBreakdownResponse struct {
	Doctors     []LabelTotalResponse `json:"doctors"`
	TotalIncome float64              `json:"total_income"`
}

// DailyPointResponse represents a single date of the trend chart.
type DailyPointResponse struct {
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// DailyTrendResponse represents the trend chart series.
type DailyTrendResponse struct {
	Points []DailyPointResponse `json:"points"`
}

func toWindowResponse(w entity.MetricsWindow) MetricsWindowResponse {
	return MetricsWindowResponse{
		Income:       Money(w.Income),
		Expense:      Money(w.Expense),
		Net:          Money(w.Net),
		Appointments: w.Appointments,
	}
}

func toLabelTotals(groups []entity.LabelTotal) []LabelTotalResponse {
	result := make([]LabelTotalResponse, len(groups))
	for i, g := range groups {
		result[i] = LabelTotalResponse{
			Label: g.Label,
			Total: Money(g.Total),
			Count: g.Count,
		}
	}
	return result
}

// ToMetricsResponse converts the snapshot output to its response DTO.
func ToMetricsResponse(output *dashboard.GetSnapshotOutput) MetricsResponse {
	return MetricsResponse{
		Today: toWindowResponse(output.Snapshot.Today),
		Month: toWindowResponse(output.Snapshot.Month),
		Total: TotalWindowResponse{
			MetricsWindowResponse: toWindowResponse(output.Snapshot.Total.MetricsWindow),
			Balance:               Money(output.Snapshot.Total.Balance),
		},
		GeneratedAt: output.GeneratedAt.Format(time.RFC3339),
		Sources: SourcesResponse{
			Local:    output.LocalAvailable,
			External: output.ExternalAvailable,
		},
	}
}

// ToCategoryBreakdownResponse converts the category breakdown to its response DTO.
func ToCategoryBreakdownResponse(output *dashboard.GetCategoryBreakdownOutput) CategoryBreakdownResponse {
	return CategoryBreakdownResponse{
		Categories:   toLabelTotals(output.Categories),
		TotalExpense: Money(output.TotalExpense),
	}
}

// ToDoctorBreakdownResponse converts the doctor breakdown to its response DTO.
func ToDoctorBreakdownResponse(output *dashboard.GetDoctorBreakdownOutput) DoctorBreakdownResponse {
	return DoctorBreakdownResponse{
		Doctors:     toLabelTotals(output.Doctors),
		TotalIncome: Money(output.TotalIncome),
	}
}

// ToDailyTrendResponse converts the trend output to its response DTO.
func ToDailyTrendResponse(output *dashboard.GetDailyTrendOutput) DailyTrendResponse {
	points := make([]DailyPointResponse, len(output.Points))
	for i, p := range output.Points {
		points[i] = DailyPointResponse{
			Date:    p.DisplayDate,
			Income:  Money(p.Income),
			Expense: Money(p.Expense),
		}
	}
	return DailyTrendResponse{Points: points}
}
