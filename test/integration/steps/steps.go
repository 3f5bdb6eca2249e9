package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinic-finance/backend/internal/domain/entity"
	"github.com/clinic-finance/backend/internal/integration/adapters"
	"github.com/clinic-finance/backend/internal/integration/persistence/model"
	"github.com/clinic-finance/backend/test/integration/mock"
)

func registerSetupSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.Given(`^the API server is running$`, t.theAPIServerIsRunning)
	ctx.Given(`^the clinic time is "([^"]*)"$`, t.theClinicTimeIs)
	ctx.Given(`^I am authenticated as "([^"]*)"$`, t.iAmAuthenticatedAs)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, t.theHeaderContainsTheKeyWith)
	ctx.Given(`^a category exists with name "([^"]*)" and type "([^"]*)"$`, t.aCategoryExistsWithNameAndType)
	ctx.Given(`^the local ledger contains:$`, t.theLocalLedgerContains)
	ctx.Given(`^the clinical feed contains:$`, t.theClinicalFeedContains)
	ctx.Given(`^the clinical feed is unavailable$`, t.theClinicalFeedIsUnavailable)
	ctx.Given(`^the email API rejects requests with status (\d+)$`, t.theEmailAPIRejectsRequestsWithStatus)
}

func registerRequestSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, t.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, t.iSendARequestToWithBody)
	ctx.When(`^the daily report worker runs$`, t.theDailyReportWorkerRuns)
}

func registerResponseSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.Then(`^the response status should be (\d+)$`, t.theResponseStatusShouldBe)
	ctx.Then(`^the response should contain "([^"]*)"$`, t.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, t.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, t.theResponseFieldShouldExist)
	ctx.Then(`^the response list "([^"]*)" should have (\d+) items$`, t.theResponseListShouldHaveItems)
}

func registerStoreSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, t.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the daily report should have been sent$`, t.theDailyReportShouldHaveBeenSent)
	ctx.Then(`^the daily report should not have been sent$`, t.theDailyReportShouldNotHaveBeenSent)
	ctx.Then(`^the email API should have received (\d+) requests? to "([^"]*)"$`, t.theEmailAPIShouldHaveReceived)
	ctx.Then(`^the report lock for "([^"]*)" should be held$`, t.theReportLockForShouldBeHeld)
	ctx.Then(`^the email request (\d+) field "([^"]*)" should contain "([^"]*)"$`, t.theEmailRequestFieldShouldContain)
}

// Setup steps

func (t *testContext) theAPIServerIsRunning() error {
	if t.server == nil {
		return fmt.Errorf("test server is not running")
	}
	return nil
}

func (t *testContext) theClinicTimeIs(value string) error {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("clinic time must be RFC3339: %w", err)
	}
	t.timeMock.SetCurrentTime(parsed)
	return nil
}

func (t *testContext) iAmAuthenticatedAs(email string) error {
	token, err := adapters.SignAccessToken(testJWTSecret, uuid.New(), email, time.Hour)
	if err != nil {
		return err
	}
	t.accessToken = token
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) aCategoryExistsWithNameAndType(name, categoryType string) error {
	return t.db.DbConn.Create(&model.CategoryModel{
		Name: name,
		Type: categoryType,
	}).Error
}

func (t *testContext) theLocalLedgerContains(table *godog.Table) error {
	rows, err := tableRows(table)
	if err != nil {
		return err
	}
	for _, row := range rows {
		record := model.TransactionModel{
			Type:          row["type"],
			Time:          optional(row["time"]),
			Description:   optional(row["description"]),
			TreatmentName: optional(row["treatment_name"]),
			PatientName:   optional(row["patient_name"]),
			DoctorName:    optional(row["doctor_name"]),
			Status:        optional(row["status"]),
			Method:        optional(row["method"]),
		}
		if record.Amount, err = money(row["amount"]); err != nil {
			return err
		}
		if record.Balance, err = money(row["balance"]); err != nil {
			return err
		}
		if v := row["date"]; v != "" {
			date, err := time.Parse(entity.DateLayout, v)
			if err != nil {
				return fmt.Errorf("invalid ledger date %q: %w", v, err)
			}
			record.Date = &date
		}
		if name := row["category"]; name != "" {
			var category model.CategoryModel
			if err := t.db.DbConn.Where("name = ?", name).First(&category).Error; err != nil {
				return fmt.Errorf("category %q must exist: %w", name, err)
			}
			record.CategoryID = &category.ID
		}
		if err := t.db.DbConn.Create(&record).Error; err != nil {
			return err
		}
	}
	return nil
}

func (t *testContext) theClinicalFeedContains(table *godog.Table) error {
	rows, err := tableRows(table)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := mock.InsertFeedRow(t.feed, row); err != nil {
			return err
		}
	}
	return nil
}

func (t *testContext) theClinicalFeedIsUnavailable() error {
	return mock.DropFeed(t.feed)
}

// Request steps

func (t *testContext) iSendARequestTo(method, endpoint string) error {
	return t.send(method, endpoint, nil)
}

func (t *testContext) iSendARequestToWithBody(method, endpoint string, body *godog.DocString) error {
	return t.send(method, endpoint, bytes.NewBufferString(body.Content))
}

func (t *testContext) send(method, endpoint string, body io.Reader) error {
	req, err := http.NewRequest(method, t.server.URL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	t.response = &response{status: resp.StatusCode, body: payload}
	return nil
}

func (t *testContext) theDailyReportWorkerRuns() error {
	if t.injector.ReportWorker == nil {
		return fmt.Errorf("report worker is not configured")
	}
	t.lastReportOK = t.injector.ReportWorker.Tick(context.Background())
	return nil
}

func (t *testContext) theEmailAPIRejectsRequestsWithStatus(status int) error {
	t.emailAPI.FailWith(http.MethodPost, "/emails", status)
	return nil
}

// Response steps

func (t *testContext) theResponseStatusShouldBe(expected int) error {
	if t.response == nil {
		return fmt.Errorf("no response received")
	}
	if t.response.status != expected {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expected, t.response.status, string(t.response.body))
	}
	return nil
}

func (t *testContext) theResponseShouldContain(expected string) error {
	if t.response == nil {
		return fmt.Errorf("no response received")
	}
	if !strings.Contains(string(t.response.body), expected) {
		return fmt.Errorf("response does not contain '%s'. Body: %s", expected, string(t.response.body))
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(path, expected string) error {
	value, err := t.responseField(path)
	if err != nil {
		return err
	}
	if actual := fmt.Sprintf("%v", value); actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", path, expected, actual)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(path string) error {
	_, err := t.responseField(path)
	return err
}

func (t *testContext) theResponseListShouldHaveItems(path string, expected int) error {
	value, err := t.responseField(path)
	if err != nil {
		return err
	}
	list, ok := value.([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list", path)
	}
	if len(list) != expected {
		return fmt.Errorf("field '%s' expected %d items, got %d", path, expected, len(list))
	}
	return nil
}

func (t *testContext) responseField(path string) (any, error) {
	if t.response == nil {
		return nil, fmt.Errorf("no response received")
	}
	var data any
	if err := json.Unmarshal(t.response.body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}
	return lookupPath(data, path)
}

// Store steps

func (t *testContext) theDbShouldContainObjectsInTheTable(expected int, table string) error {
	m, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("unknown table %s", table)
	}
	var count int64
	if err := t.db.DbConn.Model(m).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != expected {
		return fmt.Errorf("expected %d rows in %s, got %d", expected, table, count)
	}
	return nil
}

func (t *testContext) theDailyReportShouldHaveBeenSent() error {
	if !t.lastReportOK {
		return fmt.Errorf("daily report was not sent")
	}
	return nil
}

func (t *testContext) theDailyReportShouldNotHaveBeenSent() error {
	if t.lastReportOK {
		return fmt.Errorf("daily report was sent")
	}
	return nil
}

func (t *testContext) theReportLockForShouldBeHeld(date string) error {
	if !mock.RedisKeyExists("report:daily:" + date) {
		return fmt.Errorf("report lock for %s is not held", date)
	}
	return nil
}

func (t *testContext) theEmailAPIShouldHaveReceived(expected int, path string) error {
	if got := t.emailAPI.RequestCount(http.MethodPost, path); got != expected {
		return fmt.Errorf("expected %d requests to %s, got %d", expected, path, got)
	}
	return nil
}

func (t *testContext) theEmailRequestFieldShouldContain(index int, field, expected string) error {
	body := t.emailAPI.RequestBody(http.MethodPost, "/emails", index)
	if body == nil {
		return fmt.Errorf("email request %d not received", index)
	}
	value, err := lookupPath(body, field)
	if err != nil {
		return err
	}
	if actual := fmt.Sprintf("%v", value); !strings.Contains(actual, expected) {
		return fmt.Errorf("email field '%s' expected to contain '%s', got '%s'", field, expected, actual)
	}
	return nil
}

// Helpers

func tableRows(table *godog.Table) ([]map[string]string, error) {
	if len(table.Rows) < 2 {
		return nil, fmt.Errorf("table needs a header row and at least one data row")
	}
	header := table.Rows[0].Cells
	rows := make([]map[string]string, 0, len(table.Rows)-1)
	for _, r := range table.Rows[1:] {
		row := make(map[string]string, len(header))
		for i, cell := range r.Cells {
			if cell.Value != "" {
				row[header[i].Value] = cell.Value
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func lookupPath(data any, path string) (any, error) {
	current := data
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field '%s' not found in response", path)
			}
			current = value
		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(node) {
				return nil, fmt.Errorf("index '%s' out of range in '%s'", part, path)
			}
			current = node[index]
		default:
			return nil, fmt.Errorf("field '%s' not found in response", path)
		}
	}
	return current, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func money(v string) (decimal.Decimal, error) {
	if v == "" {
		return model.ToMoney(0), nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", v, err)
	}
	return model.ToMoney(f), nil
}
