package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/application/usecase/ledger"
	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
)

type fakeLoader struct {
	output *ledger.LoadLedgerOutput
	err    error
}

func (f *fakeLoader) Execute(ctx context.Context) (*ledger.LoadLedgerOutput, error) {
	return f.output, f.err
}

type fakeRenderer struct {
	err    error
	report *entity.DailyReport
}

func (f *fakeRenderer) RenderDailyReport(report *entity.DailyReport) (*adapter.RenderedEmail, error) {
	f.report = report
	if f.err != nil {
		return nil, f.err
	}
	return &adapter.RenderedEmail{Subject: "Cierre " + report.ClinicDate, HTML: "<p>ok</p>", Text: "ok"}, nil
}

type fakeSender struct {
	failFor map[string]error
	sent    []adapter.SendEmailInput
}

func (f *fakeSender) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	if err := f.failFor[input.To]; err != nil {
		return nil, err
	}
	f.sent = append(f.sent, input)
	return &adapter.SendEmailResult{ResendID: "re_" + input.To}, nil
}

func stream() *ledger.LoadLedgerOutput {
	return &ledger.LoadLedgerOutput{
		Now: time.Date(2026, 10, 17, 21, 5, 0, 0, time.UTC),
		Transactions: []entity.Transaction{
			{Type: entity.TransactionTypeIncome, Amount: 300, DisplayDate: "2026-10-17", DoctorName: "Dr. Soto", Balance: 50},
			{Type: entity.TransactionTypeIncome, Amount: 120, DisplayDate: "2026-10-17", DoctorName: "Dra. Rojas"},
			{Type: entity.TransactionTypeExpense, Amount: 80, DisplayDate: "2026-10-17", Category: "Insumos"},
			{Type: entity.TransactionTypeExpense, Amount: 500, DisplayDate: "2026-10-02", Category: "Alquiler"},
		},
	}
}

func TestSendDailyReportUseCase_Execute(t *testing.T) {
	recipients := []string{"gerencia@clinica.test", "dueno@clinica.test"}

	t.Run("sends to every recipient", func(t *testing.T) {
		renderer := &fakeRenderer{}
		sender := &fakeSender{}
		uc := NewSendDailyReportUseCase(&fakeLoader{output: stream()}, renderer, sender)

		out, err := uc.Execute(context.Background(), SendDailyReportInput{Recipients: recipients})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		report := out.Report
		if report.Status != entity.ReportStatusSent || report.Delivered != 2 {
			t.Errorf("expected sent to 2, got %s/%d", report.Status, report.Delivered)
		}
		if report.ClinicDate != "2026-10-17" {
			t.Errorf("expected clinic date 2026-10-17, got %s", report.ClinicDate)
		}
		if report.Snapshot.Today.Income != 420 || report.Snapshot.Month.Expense != 580 || report.Snapshot.Total.Balance != 50 {
			t.Errorf("unexpected snapshot %+v", report.Snapshot)
		}
		if len(report.TopExpenses) != 1 || report.TopExpenses[0].Label != "Insumos" {
			t.Errorf("expected only today's expenses, got %+v", report.TopExpenses)
		}
		if len(report.TopDoctors) != 2 || report.TopDoctors[0].Label != "Dr. Soto" {
			t.Errorf("expected doctors ordered by income, got %+v", report.TopDoctors)
		}

		if len(sender.sent) != 2 {
			t.Fatalf("expected 2 emails, got %d", len(sender.sent))
		}
		if sender.sent[0].RefID != report.ID.String() || sender.sent[0].Subject != "Cierre 2026-10-17" {
			t.Errorf("unexpected email %+v", sender.sent[0])
		}
	})

	t.Run("partial delivery", func(t *testing.T) {
		sender := &fakeSender{failFor: map[string]error{"dueno@clinica.test": errors.New("bounced")}}
		uc := NewSendDailyReportUseCase(&fakeLoader{output: stream()}, &fakeRenderer{}, sender)

		out, err := uc.Execute(context.Background(), SendDailyReportInput{Recipients: recipients})
		if err != nil {
			t.Fatalf("expected no error on partial delivery, got %v", err)
		}
		if out.Report.Status != entity.ReportStatusFailed || out.Report.Delivered != 1 || out.Report.LastError == "" {
			t.Errorf("unexpected report %+v", out.Report)
		}
	})

	t.Run("nothing delivered", func(t *testing.T) {
		sender := &fakeSender{failFor: map[string]error{"gerencia@clinica.test": errors.New("bounced")}}
		uc := NewSendDailyReportUseCase(&fakeLoader{output: stream()}, &fakeRenderer{}, sender)

		out, err := uc.Execute(context.Background(), SendDailyReportInput{Recipients: recipients[:1]})
		if !errors.Is(err, domainerror.ErrEmailSendFailed) {
			t.Errorf("expected ErrEmailSendFailed, got %v", err)
		}
		if out == nil || out.Report.Delivered != 0 {
			t.Error("expected the failed report to be returned")
		}
	})

	t.Run("no recipients", func(t *testing.T) {
		uc := NewSendDailyReportUseCase(&fakeLoader{output: stream()}, &fakeRenderer{}, &fakeSender{})
		if _, err := uc.Execute(context.Background(), SendDailyReportInput{}); !errors.Is(err, domainerror.ErrNoReportRecipients) {
			t.Errorf("expected ErrNoReportRecipients, got %v", err)
		}
	})

	t.Run("render failure", func(t *testing.T) {
		sender := &fakeSender{}
		uc := NewSendDailyReportUseCase(&fakeLoader{output: stream()}, &fakeRenderer{err: errors.New("bad template")}, sender)

		_, err := uc.Execute(context.Background(), SendDailyReportInput{Recipients: recipients})
		if !errors.Is(err, domainerror.ErrTemplateRenderFailed) {
			t.Errorf("expected ErrTemplateRenderFailed, got %v", err)
		}
		if len(sender.sent) != 0 {
			t.Error("expected no email to be sent")
		}
	})

	t.Run("load failure", func(t *testing.T) {
		uc := NewSendDailyReportUseCase(&fakeLoader{err: errors.New("db down")}, &fakeRenderer{}, &fakeSender{})
		if _, err := uc.Execute(context.Background(), SendDailyReportInput{Recipients: recipients}); err == nil {
			t.Error("expected an error")
		}
	})
}
