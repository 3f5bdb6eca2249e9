package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
	"github.com/clinic-finance/backend/internal/domain/valueobject"
	"github.com/clinic-finance/backend/internal/integration/persistence/model"
)

func dsn(t *testing.T) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(dsn(t)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&model.CategoryModel{}, &model.TransactionModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedCategories(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, c := range []model.CategoryModel{
		{Name: "Laboratorio", Type: "expense"},
		{Name: "Consultas", Type: "income"},
		{Name: "Insumos", Type: "expense"},
	} {
		c := c
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("failed to seed category: %v", err)
		}
	}
}

func ptr[T any](v T) *T { return &v }

func TestCategoryRepository(t *testing.T) {
	db := newTestDB(t)
	seedCategories(t, db)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	t.Run("find all ordered by name", func(t *testing.T) {
		categories, err := repo.FindAll(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(categories) != 3 || categories[0].Name != "Consultas" || categories[2].Name != "Laboratorio" {
			t.Errorf("unexpected order %+v", categories)
		}
	})

	t.Run("find all by type", func(t *testing.T) {
		categories, err := repo.FindAll(ctx, ptr(entity.CategoryTypeExpense))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(categories) != 2 {
			t.Errorf("expected 2 expense categories, got %d", len(categories))
		}
	})

	t.Run("find by name ignores case", func(t *testing.T) {
		category, err := repo.FindByName(ctx, "  INSUMOS ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if category.Name != "Insumos" || category.Type != entity.CategoryTypeExpense {
			t.Errorf("unexpected category %+v", category)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		if _, err := repo.FindByName(ctx, "Marketing"); !errors.Is(err, domainerror.ErrCategoryNotFound) {
			t.Errorf("expected ErrCategoryNotFound, got %v", err)
		}
	})
}

func TestLocalLedgerRepository(t *testing.T) {
	db := newTestDB(t)
	seedCategories(t, db)
	repo := NewLocalLedgerRepository(db)
	ctx := context.Background()

	insumos, err := NewCategoryRepository(db).FindByName(ctx, "Insumos")
	if err != nil {
		t.Fatalf("failed to find category: %v", err)
	}

	older := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

	firstID, err := repo.Create(ctx, adapter.LedgerWrite{
		Type:       ptr("expense"),
		Amount:     ptr(45.555),
		Date:       &older,
		Time:       ptr("10:00"),
		CategoryID: &insumos.ID,
	})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	secondID, err := repo.Create(ctx, adapter.LedgerWrite{
		Type:        ptr("income"),
		Amount:      ptr(300.0),
		Balance:     ptr(50.0),
		Date:        &newer,
		PatientName: ptr("Ana Paz"),
	})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	t.Run("find all newest first with category", func(t *testing.T) {
		rows, err := repo.FindAll(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 2 || rows[0].ID != secondID || rows[1].ID != firstID {
			t.Fatalf("unexpected rows %+v", rows)
		}
		if rows[1].CategoryName == nil || *rows[1].CategoryName != "Insumos" {
			t.Errorf("expected the category name to be joined, got %v", rows[1].CategoryName)
		}
		if rows[1].Amount != 45.56 {
			t.Errorf("expected the amount rounded to cents, got %v", rows[1].Amount)
		}
		if rows[0].Balance != 50 || rows[0].CategoryName != nil {
			t.Errorf("unexpected row %+v", rows[0])
		}
	})

	t.Run("update sets only given columns", func(t *testing.T) {
		err := repo.Update(ctx, firstID, adapter.LedgerWrite{Amount: ptr(60.0), ClearCategory: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var stored model.TransactionModel
		if err := db.First(&stored, firstID).Error; err != nil {
			t.Fatalf("failed to reload: %v", err)
		}
		if stored.Amount.InexactFloat64() != 60 || stored.CategoryID != nil {
			t.Errorf("unexpected stored row %+v", stored)
		}
		if stored.Time == nil || *stored.Time != "10:00" {
			t.Errorf("expected time untouched, got %v", stored.Time)
		}
	})

	t.Run("update missing row", func(t *testing.T) {
		if err := repo.Update(ctx, 999, adapter.LedgerWrite{Amount: ptr(1.0)}); !errors.Is(err, domainerror.ErrTransactionNotFound) {
			t.Errorf("expected ErrTransactionNotFound, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.Delete(ctx, secondID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := repo.Delete(ctx, secondID); !errors.Is(err, domainerror.ErrTransactionNotFound) {
			t.Errorf("expected ErrTransactionNotFound on second delete, got %v", err)
		}
		rows, _ := repo.FindAll(ctx)
		if len(rows) != 1 {
			t.Errorf("expected 1 remaining row, got %d", len(rows))
		}
	})
}

func newFeedDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite", dsn(t))
	if err != nil {
		t.Fatalf("failed to open feed: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	statements := []string{
		"CREATE TABLE pagos (id INTEGER, monto TEXT, paciente TEXT, Doctor TEXT, created_at TEXT)",
		"INSERT INTO pagos VALUES (1, '120.50', 'Ana Paz', 'Dr. Soto', '2026-10-15 09:00:00')",
		"INSERT INTO pagos VALUES (2, '80', 'Luis Rey', NULL, '2026-10-17 11:30:00')",
		"INSERT INTO pagos VALUES (3, '200', 'Eva Sol', 'Dra. Rojas', '2026-10-16 16:00:00')",
	}
	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			t.Fatalf("failed to seed feed: %v", err)
		}
	}
	return conn
}

func TestExternalFeedRepository_FetchRecent(t *testing.T) {
	conn := newFeedDB(t)
	repo, err := NewExternalFeedRepository(conn, ExternalFeedConfig{Table: "pagos", QueryTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := repo.FetchRecent(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["paciente"] != "Luis Rey" || records[1]["paciente"] != "Eva Sol" {
		t.Errorf("expected newest first, got %v", records)
	}
	if records[0]["doctor"] != nil {
		t.Errorf("expected a nil doctor, got %v", records[0]["doctor"])
	}
	if _, ok := records[1]["doctor"]; !ok {
		t.Error("expected column names to be lower-cased")
	}
}

func TestExternalFeedRepository_DateColumns(t *testing.T) {
	conn := newFeedDB(t)
	statements := []string{
		"CREATE TABLE citas (id INTEGER, fecha DATE, pagado_en TIMESTAMP, created_at TEXT)",
		"INSERT INTO citas VALUES (1, '2026-10-17', '2026-10-17 00:00:00+00:00', '2026-10-17 08:00:00')",
	}
	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			t.Fatalf("failed to seed feed: %v", err)
		}
	}

	repo, err := NewExternalFeedRepository(conn, ExternalFeedConfig{Table: "citas"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := repo.FetchRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	if records[0]["fecha"] != "2026-10-17" {
		t.Errorf("expected DATE column as 2026-10-17, got %#v", records[0]["fecha"])
	}

	lima, err := time.LoadLocation("America/Lima")
	if err != nil {
		t.Skipf("timezone not available: %v", err)
	}
	paid, ok := valueobject.ParseInstant(records[0]["pagado_en"], lima)
	if !ok {
		t.Fatalf("expected pagado_en to parse, got %#v", records[0]["pagado_en"])
	}
	if !paid.HasClock || paid.Time.Format("2006-01-02 15:04") != "2026-10-16 19:00" {
		t.Errorf("expected 2026-10-16 19:00 in Lima, got %s (HasClock=%v)", paid.Time.Format("2006-01-02 15:04"), paid.HasClock)
	}
}

func TestNormalizeColumnValue(t *testing.T) {
	midnight := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		value  any
		isDate bool
		want   any
	}{
		{"bytes become text", []byte("120.50"), false, "120.50"},
		{"DATE becomes calendar date", midnight, true, "2026-10-17"},
		{"timestamp stays an instant", midnight, false, midnight},
		{"nil passes through", nil, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeColumnValue(tt.value, tt.isDate); got != tt.want {
				t.Errorf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestExternalFeedRepository_Errors(t *testing.T) {
	conn := newFeedDB(t)

	t.Run("rejects unsafe identifiers", func(t *testing.T) {
		for _, table := range []string{"pagos; DROP TABLE pagos", "", "1pagos"} {
			if _, err := NewExternalFeedRepository(conn, ExternalFeedConfig{Table: table}); err == nil {
				t.Errorf("expected %q to be rejected", table)
			}
		}
		if _, err := NewExternalFeedRepository(conn, ExternalFeedConfig{Table: "clinica.pagos"}); err != nil {
			t.Errorf("expected a schema-qualified table to be accepted, got %v", err)
		}
	})

	t.Run("missing table is unavailable", func(t *testing.T) {
		repo, err := NewExternalFeedRepository(conn, ExternalFeedConfig{Table: "cobros"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := repo.FetchRecent(context.Background(), 10); !errors.Is(err, domainerror.ErrExternalFeedUnavailable) {
			t.Errorf("expected ErrExternalFeedUnavailable, got %v", err)
		}
	})

	t.Run("permission denied", func(t *testing.T) {
		err := classifyFeedError(errors.New("pq: permission denied for table pagos"))
		if !errors.Is(err, domainerror.ErrExternalFeedAccessDenied) {
			t.Errorf("expected ErrExternalFeedAccessDenied, got %v", err)
		}
	})
}
