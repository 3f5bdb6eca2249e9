// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/clinic-finance/backend/config"
	"github.com/clinic-finance/backend/internal/infra/dependency"
	"github.com/clinic-finance/backend/internal/integration/persistence/model"
	"github.com/clinic-finance/backend/test/integration/mock"
)

const (
	testJWTSecret       = "test-jwt-secret-key-for-testing-purposes"
	testClinicTimezone  = "America/Lima"
	testReportRecipient = "gerencia@clinica.test"
)

// testContext holds the state of one scenario.
type testContext struct {
	server       *httptest.Server
	client       *http.Client
	injector     *dependency.Injector
	headers      map[string]string
	accessToken  string
	response     *response
	db           *mock.Db
	feed         *sql.DB
	redis        *redis.Client
	emailAPI     *mock.EmailAPI
	timeMock     *mock.Time
	lastReportOK bool
}

type response struct {
	status int
	body   []byte
}

var emailAPI *mock.EmailAPI

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
		emailAPI = mock.NewEmailAPI()
		emailAPI.Start()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{
		client:   &http.Client{Timeout: 10 * time.Second},
		timeMock: mock.NewTime(),
		db: mock.NewDb("clinic_finance", map[string]any{
			"categories":   &model.CategoryModel{},
			"transactions": &model.TransactionModel{},
		}),
		feed:  mock.NewFeed(),
		redis: mock.NewRedis(),
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if test.server != nil {
			test.server.Close()
		}
		return ctx, nil
	})

	registerSetupSteps(ctx, test)
	registerRequestSteps(ctx, test)
	registerResponseSteps(ctx, test)
	registerStoreSteps(ctx, test)
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.response = nil
	t.lastReportOK = false
	t.emailAPI = emailAPI
	t.emailAPI.Reset()
	t.timeMock.SetCurrentTime(time.Now())

	if err := t.db.ClearDB(); err != nil {
		return fmt.Errorf("failed to clear local ledger: %w", err)
	}
	if err := mock.ClearFeed(t.feed); err != nil {
		return fmt.Errorf("failed to clear clinical feed: %w", err)
	}
	if err := mock.ClearRedis(t.redis); err != nil {
		return fmt.Errorf("failed to clear redis: %w", err)
	}

	return t.startServer()
}

func (t *testContext) startServer() error {
	if t.server != nil {
		t.server.Close()
	}

	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.Auth.JWTSecret = testJWTSecret
	cfg.Clinic.Timezone = testClinicTimezone
	cfg.ExternalFeed.Table = mock.FeedTable
	cfg.ExternalFeed.OrderColumn = "created_at"
	cfg.Report.Enabled = true
	cfg.Report.Recipients = []string{testReportRecipient}
	cfg.Report.SendHour = 21
	cfg.Email.ResendAPIKey = "re_test_key"
	cfg.Email.ResendBaseURL = t.emailAPI.URL()
	cfg.Gemini.APIKey = ""

	injector, err := dependency.NewInjector(cfg, dependency.Resources{
		DB:     t.db.DbConn,
		FeedDB: t.feed,
		Redis:  t.redis,
		Clock:  t.timeMock.Now,
	})
	if err != nil {
		return fmt.Errorf("failed to wire test server: %w", err)
	}

	t.injector = injector
	t.server = httptest.NewServer(injector.Router.Setup(cfg.Server.Environment))
	return nil
}

func (t *testContext) location() *time.Location {
	loc, err := time.LoadLocation(testClinicTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
