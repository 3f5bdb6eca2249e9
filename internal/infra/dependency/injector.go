// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/clinic-finance/backend/config"
	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/application/usecase/assistant"
	"github.com/clinic-finance/backend/internal/application/usecase/category"
	"github.com/clinic-finance/backend/internal/application/usecase/dashboard"
	"github.com/clinic-finance/backend/internal/application/usecase/ledger"
	"github.com/clinic-finance/backend/internal/application/usecase/report"
	"github.com/clinic-finance/backend/internal/application/usecase/transaction"
	"github.com/clinic-finance/backend/internal/infra/server/router"
	"github.com/clinic-finance/backend/internal/integration/adapters"
	"github.com/clinic-finance/backend/internal/integration/cache"
	"github.com/clinic-finance/backend/internal/integration/email"
	"github.com/clinic-finance/backend/internal/integration/email/templates"
	"github.com/clinic-finance/backend/internal/integration/entrypoint/controller"
	"github.com/clinic-finance/backend/internal/integration/entrypoint/middleware"
	"github.com/clinic-finance/backend/internal/integration/persistence"
)

const healthProbeTimeout = 2 * time.Second

// Resources are the opened connections the injector wires into repositories.
// FeedDB, Redis and Clock are optional.
type Resources struct {
	DB     *gorm.DB
	FeedDB *sql.DB
	Redis  *redis.Client
	Clock  func() time.Time
}

// Injector holds all application dependencies.
type Injector struct {
	Config       *config.Config
	DB           *gorm.DB
	Router       *router.Router
	ReportWorker *email.ReportWorker // nil when the daily report is disabled
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, res Resources) (*Injector, error) {
	if res.DB == nil {
		return nil, fmt.Errorf("local ledger database is required")
	}
	location := cfg.Clinic.Location()

	// Create repositories
	categoryRepo := persistence.NewCategoryRepository(res.DB)
	localLedgerRepo := persistence.NewLocalLedgerRepository(res.DB)

	var externalFeedRepo adapter.ExternalFeedRepository
	if res.FeedDB != nil {
		repo, err := persistence.NewExternalFeedRepository(res.FeedDB, persistence.ExternalFeedConfig{
			Table:        cfg.ExternalFeed.Table,
			OrderColumn:  cfg.ExternalFeed.OrderColumn,
			QueryTimeout: cfg.ExternalFeed.QueryTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to configure external feed: %w", err)
		}
		externalFeedRepo = repo
	} else {
		slog.Warn("External feed not configured, serving local ledger only")
	}

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.Auth.JWTSecret)
	chatAssistant := adapters.NewGeminiAssistant(cfg.Gemini.APIKey, cfg.Gemini.ChatModel)
	documentScanner := adapters.NewGeminiDocumentScanner(cfg.Gemini.APIKey, cfg.Gemini.ScanModel)
	if !chatAssistant.IsAvailable() {
		slog.Warn("GEMINI_API_KEY not set, assistant endpoints will answer 503")
	}

	// Create ledger use case shared by every read
	loadLedgerUseCase := ledger.NewLoadLedgerUseCase(localLedgerRepo, externalFeedRepo, ledger.Config{
		Location:      location,
		ExternalLimit: cfg.ExternalFeed.RowLimit,
	})
	if res.Clock != nil {
		loadLedgerUseCase.WithClock(res.Clock)
	}

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)

	// Create transaction use cases
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(loadLedgerUseCase)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(localLedgerRepo, categoryRepo, location)
	if res.Clock != nil {
		createTransactionUseCase.WithClock(res.Clock)
	}
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(localLedgerRepo, categoryRepo, location)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(localLedgerRepo)

	// Create dashboard use cases
	getSnapshotUseCase := dashboard.NewGetSnapshotUseCase(loadLedgerUseCase)
	getCategoryBreakdownUseCase := dashboard.NewGetCategoryBreakdownUseCase(loadLedgerUseCase)
	getDoctorBreakdownUseCase := dashboard.NewGetDoctorBreakdownUseCase(loadLedgerUseCase)
	getDailyTrendUseCase := dashboard.NewGetDailyTrendUseCase(loadLedgerUseCase)

	// Create assistant use cases
	chatUseCase := assistant.NewChatUseCase(chatAssistant, getSnapshotUseCase)
	scanDocumentUseCase := assistant.NewScanDocumentUseCase(documentScanner)

	// Create controllers
	healthController := controller.NewHealthController(healthCheckers(res))
	categoryController := controller.NewCategoryController(listCategoriesUseCase)
	transactionController := controller.NewTransactionController(
		listTransactionsUseCase,
		createTransactionUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
	)
	dashboardController := controller.NewDashboardController(
		getSnapshotUseCase,
		getCategoryBreakdownUseCase,
		getDoctorBreakdownUseCase,
		getDailyTrendUseCase,
	)
	assistantController := controller.NewAssistantController(chatUseCase, scanDocumentUseCase)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var rateStore middleware.RateStore = middleware.NewMemoryRateStore()
	if res.Redis != nil {
		rateStore = cache.NewRedisRateStore(res.Redis)
	}
	assistantLimit := cfg.RateLimit.AssistantRequests
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		assistantLimit = 1000
	}
	assistantRateLimiter := middleware.NewRateLimiterWithConfig(
		rateStore, "assistant", assistantLimit, cfg.RateLimit.AssistantWindow,
	)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		categoryController,
		transactionController,
		dashboardController,
		assistantController,
		assistantRateLimiter,
		authMiddleware,
	)

	injector := &Injector{
		Config: cfg,
		DB:     res.DB,
		Router: r,
	}

	if cfg.Report.Enabled {
		worker, err := newReportWorker(cfg, res, loadLedgerUseCase, location)
		if err != nil {
			return nil, err
		}
		injector.ReportWorker = worker
	}

	return injector, nil
}

func newReportWorker(cfg *config.Config, res Resources, loader *ledger.LoadLedgerUseCase, location *time.Location) (*email.ReportWorker, error) {
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	var sender adapter.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		client := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
		if cfg.Email.ResendBaseURL != "" {
			if client, err = client.WithBaseURL(cfg.Email.ResendBaseURL); err != nil {
				return nil, err
			}
		}
		sender = client
	} else {
		slog.Warn("RESEND_API_KEY not set, daily reports will be logged instead of sent")
		sender = email.NewLogSender()
	}

	var lock adapter.ReportLock = cache.NewMemoryReportLock()
	if res.Redis != nil {
		lock = cache.NewRedisReportLock(res.Redis)
	}

	sendReportUseCase := report.NewSendDailyReportUseCase(loader, renderer, sender)
	worker := email.NewReportWorker(sendReportUseCase, lock, email.ReportWorkerConfig{
		Recipients:   cfg.Report.Recipients,
		SendHour:     cfg.Report.SendHour,
		Location:     location,
		PollInterval: cfg.Report.PollInterval,
	})
	if res.Clock != nil {
		worker.WithClock(res.Clock)
	}
	return worker, nil
}

func healthCheckers(res Resources) controller.HealthCheckers {
	checkers := controller.HealthCheckers{
		Database: func() bool {
			sqlDB, err := res.DB.DB()
			if err != nil {
				return false
			}
			return sqlDB.Ping() == nil
		},
	}
	if res.FeedDB != nil {
		checkers.ExternalFeed = func() bool {
			ctx, cancel := context.WithTimeout(context.Background(), healthProbeTimeout)
			defer cancel()
			return res.FeedDB.PingContext(ctx) == nil
		}
	}
	if res.Redis != nil {
		checkers.Redis = func() bool {
			ctx, cancel := context.WithTimeout(context.Background(), healthProbeTimeout)
			defer cancel()
			return res.Redis.Ping(ctx).Err() == nil
		}
	}
	return checkers
}
