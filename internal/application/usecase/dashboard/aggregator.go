// Package dashboard contains dashboard-related use cases.
package dashboard

import (
	"sort"
	"strings"
	"time"

	"github.com/clinic-finance/backend/internal/domain/entity"
)

// Reference truncation used by the dashboard charts.
const (
	DefaultTopCategories = 6
	DefaultTrendBuckets  = 15
)

const monthLayout = "2006-01"

// windowFilter decides whether a transaction belongs to a window.
type windowFilter func(tx *entity.Transaction) bool

// BuildSnapshot reduces the merged stream into today, month and total windows.
// Today matches the calendar date exactly and month matches year and month of now.
// The pending balance is summed over the whole stream regardless of window.
func BuildSnapshot(transactions []entity.Transaction, now time.Time) entity.MetricsSnapshot {
	today := now.Format(entity.DateLayout)
	month := now.Format(monthLayout)

	isToday := func(tx *entity.Transaction) bool { return tx.DisplayDate == today }
	isThisMonth := func(tx *entity.Transaction) bool { return strings.HasPrefix(tx.DisplayDate, month) }
	all := func(*entity.Transaction) bool { return true }

	snapshot := entity.MetricsSnapshot{
		Today: sumWindow(transactions, isToday),
		Month: sumWindow(transactions, isThisMonth),
		Total: entity.TotalWindow{MetricsWindow: sumWindow(transactions, all)},
	}
	for i := range transactions {
		snapshot.Total.Balance += transactions[i].Balance
	}
	return snapshot
}

func sumWindow(transactions []entity.Transaction, inWindow windowFilter) entity.MetricsWindow {
	var w entity.MetricsWindow
	for i := range transactions {
		tx := &transactions[i]
		if !inWindow(tx) {
			continue
		}
		switch tx.Type {
		case entity.TransactionTypeIncome:
			w.Income += tx.Amount
			w.Appointments++
		case entity.TransactionTypeExpense:
			w.Expense += tx.Amount
		}
	}
	w.Net = w.Income - w.Expense
	return w
}

// Totals sums income and expense over the given transactions.
func Totals(transactions []entity.Transaction) entity.TransactionTotals {
	w := sumWindow(transactions, func(*entity.Transaction) bool { return true })
	return entity.TransactionTotals{
		IncomeTotal:  w.Income,
		ExpenseTotal: w.Expense,
		NetTotal:     w.Net,
	}
}

// GroupByLabel sums amounts of one transaction type per label and orders the
// groups by total descending. Equal totals are ordered by label.
func GroupByLabel(
	transactions []entity.Transaction,
	transactionType entity.TransactionType,
	label func(tx *entity.Transaction) string,
) []entity.LabelTotal {
	index := make(map[string]int)
	groups := make([]entity.LabelTotal, 0)
	for i := range transactions {
		tx := &transactions[i]
		if tx.Type != transactionType {
			continue
		}
		key := label(tx)
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, entity.LabelTotal{Label: key})
		}
		groups[pos].Total += tx.Amount
		groups[pos].Count++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Total != groups[j].Total {
			return groups[i].Total > groups[j].Total
		}
		return groups[i].Label < groups[j].Label
	})
	return groups
}

// ExpensesByCategory groups expense amounts by category.
func ExpensesByCategory(transactions []entity.Transaction) []entity.LabelTotal {
	return GroupByLabel(transactions, entity.TransactionTypeExpense, func(tx *entity.Transaction) string {
		return tx.Category
	})
}

// IncomeByDoctor groups income amounts by doctor.
func IncomeByDoctor(transactions []entity.Transaction) []entity.LabelTotal {
	return GroupByLabel(transactions, entity.TransactionTypeIncome, func(tx *entity.Transaction) string {
		return tx.DoctorName
	})
}

// TopN truncates an ordered group list. n <= 0 keeps everything.
func TopN(groups []entity.LabelTotal, n int) []entity.LabelTotal {
	if n <= 0 || len(groups) <= n {
		return groups
	}
	return groups[:n]
}

// DailySeries sums income and expense per calendar date in ascending date order,
// keeping only the most recent lastN dates. lastN <= 0 keeps every date.
func DailySeries(transactions []entity.Transaction, lastN int) []entity.DailyPoint {
	index := make(map[string]int)
	points := make([]entity.DailyPoint, 0)
	for i := range transactions {
		tx := &transactions[i]
		pos, ok := index[tx.DisplayDate]
		if !ok {
			pos = len(points)
			index[tx.DisplayDate] = pos
			points = append(points, entity.DailyPoint{Date: tx.Date, DisplayDate: tx.DisplayDate})
		}
		switch tx.Type {
		case entity.TransactionTypeIncome:
			points[pos].Income += tx.Amount
		case entity.TransactionTypeExpense:
			points[pos].Expense += tx.Amount
		}
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].DisplayDate < points[j].DisplayDate
	})

	if lastN > 0 && len(points) > lastN {
		points = points[len(points)-lastN:]
	}
	return points
}
