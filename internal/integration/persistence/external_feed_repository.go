package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/clinic-finance/backend/internal/application/adapter"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
	"github.com/clinic-finance/backend/internal/domain/valueobject"
)

// pqInsufficientPrivilege is the SQLSTATE for a denied read.
const pqInsufficientPrivilege = "42501"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ExternalFeedConfig holds the settings of the clinical feed reader.
type ExternalFeedConfig struct {
	Table        string
	OrderColumn  string
	QueryTimeout time.Duration
}

// externalFeedRepository implements the adapter.ExternalFeedRepository interface.
// Rows are read as plain column maps since the clinical schema is not owned here.
type externalFeedRepository struct {
	db      *sql.DB
	table   string
	orderBy string
	timeout time.Duration
}

// NewExternalFeedRepository creates a new external feed repository instance.
func NewExternalFeedRepository(db *sql.DB, cfg ExternalFeedConfig) (adapter.ExternalFeedRepository, error) {
	if cfg.OrderColumn == "" {
		cfg.OrderColumn = "created_at"
	}
	for _, name := range []string{cfg.Table, cfg.OrderColumn} {
		if !identifierPattern.MatchString(name) {
			return nil, fmt.Errorf("invalid external feed identifier %q", name)
		}
	}

	return &externalFeedRepository{
		db:      db,
		table:   cfg.Table,
		orderBy: cfg.OrderColumn,
		timeout: cfg.QueryTimeout,
	}, nil
}

// FetchRecent reads the most recently created rows.
func (r *externalFeedRepository) FetchRecent(ctx context.Context, limit int) ([]valueobject.RawRecord, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	query := fmt.Sprintf("SELECT * FROM %s ORDER BY %s DESC LIMIT %d", r.table, r.orderBy, limit)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classifyFeedError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, classifyFeedError(err)
	}
	dateColumns, err := dateColumnMask(rows)
	if err != nil {
		return nil, classifyFeedError(err)
	}

	records := make([]valueobject.RawRecord, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, classifyFeedError(err)
		}

		record := make(valueobject.RawRecord, len(columns))
		for i, column := range columns {
			record[strings.ToLower(column)] = normalizeColumnValue(values[i], dateColumns[i])
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyFeedError(err)
	}

	return records, nil
}

// dateColumnMask reports, per column, whether the database declares it as a
// DATE. Drivers return DATE values as midnight instants that are
// indistinguishable from a timestamptz at 00:00Z, so the declared type decides.
func dateColumnMask(rows *sql.Rows) ([]bool, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	mask := make([]bool, len(types))
	for i, ct := range types {
		mask[i] = strings.EqualFold(ct.DatabaseTypeName(), "DATE")
	}
	return mask, nil
}

// normalizeColumnValue turns driver byte slices (text and numeric columns) into
// strings and DATE values into plain "YYYY-MM-DD" calendar dates.
func normalizeColumnValue(v any, isDate bool) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		if isDate {
			return val.Format("2006-01-02")
		}
	}
	return v
}

func classifyFeedError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqInsufficientPrivilege {
		return fmt.Errorf("%w: %w", domainerror.ErrExternalFeedAccessDenied, err)
	}
	if strings.Contains(strings.ToLower(err.Error()), "permission denied") {
		return fmt.Errorf("%w: %w", domainerror.ErrExternalFeedAccessDenied, err)
	}
	return fmt.Errorf("%w: %w", domainerror.ErrExternalFeedUnavailable, err)
}
