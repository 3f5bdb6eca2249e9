// Package entity defines the core business entities for the domain layer.
package entity

import "time"

// MetricsWindow holds the sums for one time-scoped subset of the merged stream.
type MetricsWindow struct {
	Income       float64 `json:"income"`
	Expense      float64 `json:"expense"`
	Net          float64 `json:"net"`
	Appointments int     `json:"appointments"`
}

// TotalWindow is the unfiltered window. Balance is the pending amount over the
// whole stream and is only reported here.
type TotalWindow struct {
	MetricsWindow
	Balance float64 `json:"balance"`
}

// MetricsSnapshot is the windowed summary shown on every dashboard screen.
type MetricsSnapshot struct {
	Today MetricsWindow `json:"today"`
	Month MetricsWindow `json:"month"`
	Total TotalWindow   `json:"total"`
}

// LabelTotal is an amount grouped by a free-text label (category or doctor).
type LabelTotal struct {
	Label string
	Total float64
	Count int
}

// DailyPoint holds the income and expense sums of a single calendar date.
type DailyPoint struct {
	Date        time.Time
	DisplayDate string
	Income      float64
	Expense     float64
}
