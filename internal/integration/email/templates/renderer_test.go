package templates

import (
	"strings"
	"testing"

	"github.com/clinic-finance/backend/internal/domain/entity"
)

func TestRenderer_RenderDailyReport(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}

	report := entity.NewDailyReport("2026-10-17", entity.MetricsSnapshot{
		Today: entity.MetricsWindow{Income: 420, Expense: 80, Net: 340, Appointments: 2},
		Month: entity.MetricsWindow{Income: 420, Expense: 580, Net: -160, Appointments: 2},
		Total: entity.TotalWindow{Balance: 50.5},
	}, []string{"gerencia@clinica.test"})
	report.TopExpenses = []entity.LabelTotal{{Label: "Insumos", Total: 80, Count: 1}}
	report.TopDoctors = []entity.LabelTotal{{Label: "Dr. Soto <Ortodoncia>", Total: 300, Count: 1}}

	email, err := renderer.RenderDailyReport(report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if email.Subject != "Cierre del día 2026-10-17 - Clínica" {
		t.Errorf("unexpected subject %q", email.Subject)
	}
	for _, want := range []string{"S/ 420.00", "S/ 50.50", "Insumos", "S/ -160.00"} {
		if !strings.Contains(email.Text, want) {
			t.Errorf("expected text to contain %q", want)
		}
		if !strings.Contains(email.HTML, want) {
			t.Errorf("expected html to contain %q", want)
		}
	}
	if !strings.Contains(email.Text, "Dr. Soto <Ortodoncia>") {
		t.Error("expected the raw doctor name in the text version")
	}
	if strings.Contains(email.HTML, "<Ortodoncia>") {
		t.Error("expected the doctor name to be escaped in the html version")
	}
}

func TestRenderer_RenderUnknownTemplate(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	if _, _, err := renderer.Render("welcome", nil); err == nil {
		t.Error("expected an error for an unknown template")
	}
}

func TestFormatMoney(t *testing.T) {
	tests := map[float64]string{
		0:       "S/ 0.00",
		1200.5:  "S/ 1200.50",
		0.105:   "S/ 0.11",
		-45.999: "S/ -46.00",
	}
	for in, want := range tests {
		if got := formatMoney(in); got != want {
			t.Errorf("formatMoney(%v): expected %s, got %s", in, want, got)
		}
	}
}
