package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/application/usecase/assistant"
	"github.com/clinic-finance/backend/internal/application/usecase/category"
	"github.com/clinic-finance/backend/internal/application/usecase/dashboard"
	"github.com/clinic-finance/backend/internal/application/usecase/ledger"
	"github.com/clinic-finance/backend/internal/application/usecase/transaction"
	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLoader struct {
	output *ledger.LoadLedgerOutput
}

func (s *stubLoader) Execute(ctx context.Context) (*ledger.LoadLedgerOutput, error) {
	return s.output, nil
}

type stubLedgerRepo struct {
	adapter.LocalLedgerRepository
	rows map[uint]bool
}

func (s *stubLedgerRepo) Create(ctx context.Context, write adapter.LedgerWrite) (uint, error) {
	id := uint(len(s.rows) + 1)
	s.rows[id] = true
	return id, nil
}

func (s *stubLedgerRepo) Update(ctx context.Context, id uint, write adapter.LedgerWrite) error {
	if !s.rows[id] {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

func (s *stubLedgerRepo) Delete(ctx context.Context, id uint) error {
	if !s.rows[id] {
		return domainerror.ErrTransactionNotFound
	}
	delete(s.rows, id)
	return nil
}

type stubCategoryRepo struct{}

func (stubCategoryRepo) FindAll(ctx context.Context, categoryType *entity.CategoryType) ([]*entity.Category, error) {
	return []*entity.Category{{ID: 1, Name: "Insumos", Type: entity.CategoryTypeExpense}}, nil
}

func (stubCategoryRepo) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	return nil, domainerror.ErrCategoryNotFound
}

type stubAssistant struct {
	available bool
	reply     string
}

func (s *stubAssistant) Reply(ctx context.Context, request *adapter.AssistantRequest) (string, error) {
	return s.reply, nil
}

func (s *stubAssistant) IsAvailable() bool { return s.available }

type stubScanner struct{}

func (stubScanner) Scan(ctx context.Context, document *adapter.DocumentInput) (*entity.InvoiceScan, error) {
	amount := 118.456
	return &entity.InvoiceScan{Amount: &amount}, nil
}

func (stubScanner) IsAvailable() bool { return true }

func testStream() *ledger.LoadLedgerOutput {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	return &ledger.LoadLedgerOutput{
		Now:               now,
		LocalAvailable:    true,
		ExternalAvailable: false,
		Transactions: []entity.Transaction{
			{ID: "1", Source: entity.SourceLocal, Type: entity.TransactionTypeExpense, Amount: 80, DisplayDate: "2026-10-17", Category: "Insumos"},
			{ID: "ext-1", Source: entity.SourceExternal, Type: entity.TransactionTypeIncome, Amount: 300.456, DisplayDate: "2026-10-17", DoctorName: "Dr. Soto"},
		},
	}
}

func newTestRouter(assistantService adapter.AssistantService) *gin.Engine {
	loader := &stubLoader{output: testStream()}
	ledgerRepo := &stubLedgerRepo{rows: map[uint]bool{1: true}}
	loc := time.UTC

	transactions := NewTransactionController(
		transaction.NewListTransactionsUseCase(loader),
		transaction.NewCreateTransactionUseCase(ledgerRepo, stubCategoryRepo{}, loc),
		transaction.NewUpdateTransactionUseCase(ledgerRepo, stubCategoryRepo{}, loc),
		transaction.NewDeleteTransactionUseCase(ledgerRepo),
	)
	dashboards := NewDashboardController(
		dashboard.NewGetSnapshotUseCase(loader),
		dashboard.NewGetCategoryBreakdownUseCase(loader),
		dashboard.NewGetDoctorBreakdownUseCase(loader),
		dashboard.NewGetDailyTrendUseCase(loader),
	)
	categories := NewCategoryController(category.NewListCategoriesUseCase(stubCategoryRepo{}))
	assistants := NewAssistantController(
		assistant.NewChatUseCase(assistantService, dashboard.NewGetSnapshotUseCase(loader)),
		assistant.NewScanDocumentUseCase(stubScanner{}),
	)
	health := NewHealthController(HealthCheckers{
		Database:     func() bool { return true },
		ExternalFeed: func() bool { return false },
	})

	r := gin.New()
	r.GET("/health", health.Check)
	r.GET("/categories", categories.List)
	r.GET("/transactions", transactions.List)
	r.POST("/transactions", transactions.Create)
	r.PATCH("/transactions/:id", transactions.Update)
	r.DELETE("/transactions/:id", transactions.Delete)
	r.GET("/dashboard/metrics", dashboards.GetMetrics)
	r.GET("/dashboard/categories", dashboards.GetCategoryBreakdown)
	r.GET("/dashboard/doctors", dashboards.GetDoctorBreakdown)
	r.GET("/dashboard/trends", dashboards.GetDailyTrend)
	r.POST("/assistant/chat", assistants.Chat)
	r.POST("/assistant/scan", assistants.Scan)
	return r
}

func do(r *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return body
}

func TestRoutes_StatusCodes(t *testing.T) {
	r := newTestRouter(&stubAssistant{available: false})

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"list", http.MethodGet, "/transactions", "", http.StatusOK, ""},
		{"list invalid type", http.MethodGet, "/transactions?type=transfer", "", http.StatusBadRequest, string(domainerror.ErrCodeInvalidTransactionType)},
		{"list invalid source", http.MethodGet, "/transactions?source=cloud", "", http.StatusBadRequest, ""},
		{"create", http.MethodPost, "/transactions", `{"type":"expense","amount":45.5}`, http.StatusCreated, ""},
		{"create missing amount", http.MethodPost, "/transactions", `{"type":"expense"}`, http.StatusBadRequest, string(domainerror.ErrCodeMissingTransactionFields)},
		{"create negative amount", http.MethodPost, "/transactions", `{"type":"income","amount":-10}`, http.StatusBadRequest, string(domainerror.ErrCodeInvalidTransactionAmount)},
		{"create malformed body", http.MethodPost, "/transactions", `{"type":`, http.StatusBadRequest, ""},
		{"update", http.MethodPatch, "/transactions/1", `{"amount":60}`, http.StatusOK, ""},
		{"update external", http.MethodPatch, "/transactions/ext-1", `{"amount":60}`, http.StatusForbidden, string(domainerror.ErrCodeExternalReadOnly)},
		{"update empty", http.MethodPatch, "/transactions/1", `{}`, http.StatusBadRequest, string(domainerror.ErrCodeEmptyUpdate)},
		{"update missing", http.MethodPatch, "/transactions/99", `{"amount":60}`, http.StatusNotFound, string(domainerror.ErrCodeTransactionNotFound)},
		{"delete external", http.MethodDelete, "/transactions/ext-1", "", http.StatusForbidden, string(domainerror.ErrCodeExternalReadOnly)},
		{"delete invalid id", http.MethodDelete, "/transactions/abc", "", http.StatusBadRequest, string(domainerror.ErrCodeInvalidTransactionID)},
		{"categories", http.MethodGet, "/categories", "", http.StatusOK, ""},
		{"categories invalid type", http.MethodGet, "/categories?type=x", "", http.StatusBadRequest, ""},
		{"metrics", http.MethodGet, "/dashboard/metrics", "", http.StatusOK, ""},
		{"top not a number", http.MethodGet, "/dashboard/categories?top=abc", "", http.StatusBadRequest, string(domainerror.ErrCodeInvalidTopN)},
		{"top out of range", http.MethodGet, "/dashboard/categories?top=51", "", http.StatusBadRequest, string(domainerror.ErrCodeInvalidTopN)},
		{"doctors", http.MethodGet, "/dashboard/doctors", "", http.StatusOK, ""},
		{"buckets not a number", http.MethodGet, "/dashboard/trends?buckets=x", "", http.StatusBadRequest, string(domainerror.ErrCodeInvalidBucketCount)},
		{"chat without message", http.MethodPost, "/assistant/chat", `{}`, http.StatusBadRequest, string(domainerror.ErrCodeEmptyChatMessage)},
		{"chat unavailable", http.MethodPost, "/assistant/chat", `{"message":"hola"}`, http.StatusServiceUnavailable, string(domainerror.ErrCodeAssistantUnavailable)},
		{"scan without file", http.MethodPost, "/assistant/scan", "", http.StatusBadRequest, string(domainerror.ErrCodeEmptyDocument)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantCode != "" {
				if code := decode(t, w)["code"]; code != tt.wantCode {
					t.Errorf("expected code %s, got %v", tt.wantCode, code)
				}
			}
		})
	}

	t.Run("delete", func(t *testing.T) {
		if w := do(r, http.MethodDelete, "/transactions/1", ""); w.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", w.Code)
		}
	})
}

func TestTransactionController_ListBody(t *testing.T) {
	r := newTestRouter(&stubAssistant{})
	body := decode(t, do(r, http.MethodGet, "/transactions?limit=1", ""))

	transactions := body["transactions"].([]any)
	if len(transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(transactions))
	}
	if transactions[0].(map[string]any)["read_only"] != false {
		t.Error("expected the local transaction to be writable")
	}

	totals := body["totals"].(map[string]any)
	if totals["income_total"] != "300.46" || totals["net_total"] != "220.46" {
		t.Errorf("unexpected totals %v", totals)
	}
	sources := body["sources"].(map[string]any)
	if sources["local"] != true || sources["external"] != false {
		t.Errorf("unexpected sources %v", sources)
	}
}

func TestDashboardController_Metrics(t *testing.T) {
	r := newTestRouter(&stubAssistant{})
	body := decode(t, do(r, http.MethodGet, "/dashboard/metrics", ""))

	today := body["today"].(map[string]any)
	if today["income"] != 300.46 || today["expense"] != 80.0 || today["appointments"] != 1.0 {
		t.Errorf("unexpected today window %v", today)
	}
	if body["generated_at"] != "2026-10-17T12:00:00Z" {
		t.Errorf("unexpected generated_at %v", body["generated_at"])
	}
}

func TestAssistantController_Chat(t *testing.T) {
	r := newTestRouter(&stubAssistant{available: true, reply: "Aquí tienes ```json\n{\"navigate\": \"/egresos\"}\n```"})

	w := do(r, http.MethodPost, "/assistant/chat", `{"message":"muéstrame los egresos","history":[{"role":"user","content":"hola"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["text"] != "Aquí tienes" {
		t.Errorf("unexpected text %v", body["text"])
	}
	action := body["action"].(map[string]any)
	if action["type"] != "navigate" || action["payload"] != "/egresos" {
		t.Errorf("unexpected action %v", action)
	}

	w = do(r, http.MethodPost, "/assistant/chat", `{"message":"hola","history":[{"role":"system","content":"x"}]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unknown role, got %d", w.Code)
	}
}

func TestAssistantController_Scan(t *testing.T) {
	r := newTestRouter(&stubAssistant{})

	upload := func(contentType string, data []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{`form-data; name="file"; filename="factura"`}
		header["Content-Type"] = []string{contentType}
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		_, _ = part.Write(data)
		_ = mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/assistant/scan", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := upload("application/pdf", []byte("%PDF-1.7\n"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["amount"] != 118.46 || body["issuer_ruc"] != nil {
		t.Errorf("unexpected scan %v", body)
	}

	w = upload("text/csv", []byte("a,b"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unsupported document, got %d", w.Code)
	}
}

func TestHealthController_Check(t *testing.T) {
	r := newTestRouter(&stubAssistant{})
	body := decode(t, do(r, http.MethodGet, "/health", ""))

	if body["status"] != "degraded" || body["database"] != "connected" {
		t.Errorf("unexpected health %v", body)
	}
	if body["external_feed"] != "disconnected" || body["redis"] != "disabled" {
		t.Errorf("unexpected probes %v", body)
	}
}
