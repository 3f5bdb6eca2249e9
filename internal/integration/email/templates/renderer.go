// Package templates provides email template rendering functionality.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/shopspring/decimal"

	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/domain/entity"
)

//go:embed *.html *.txt
var templateFS embed.FS

// DailyReportTemplate is the template name of the closing report.
const DailyReportTemplate = "daily_report"

// Renderer handles email template rendering.
type Renderer struct {
	htmlTemplates *htmltemplate.Template
	textTemplates *texttemplate.Template
}

// NewRenderer creates a new template renderer.
func NewRenderer() (*Renderer, error) {
	funcs := map[string]any{"money": formatMoney}

	htmlTmpl, err := htmltemplate.New("").Funcs(funcs).ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
	}

	textTmpl, err := texttemplate.New("").Funcs(funcs).ParseFS(templateFS, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}

	return &Renderer{
		htmlTemplates: htmlTmpl,
		textTemplates: textTmpl,
	}, nil
}

// Render renders both HTML and text versions of a template.
func (r *Renderer) Render(templateName string, data interface{}) (html string, text string, err error) {
	var htmlBuf bytes.Buffer
	if err := r.htmlTemplates.ExecuteTemplate(&htmlBuf, templateName+".html", data); err != nil {
		return "", "", fmt.Errorf("failed to render HTML template %s: %w", templateName, err)
	}

	var textBuf bytes.Buffer
	if err := r.textTemplates.ExecuteTemplate(&textBuf, templateName+".txt", data); err != nil {
		// Fall back to empty text if no text template exists
		return htmlBuf.String(), "", nil
	}

	return htmlBuf.String(), textBuf.String(), nil
}

// DailyReportData contains data for the daily report email template.
type DailyReportData struct {
	ClinicDate  string
	Today       entity.MetricsWindow
	Month       entity.MetricsWindow
	Balance     float64
	TopExpenses []entity.LabelTotal
	TopDoctors  []entity.LabelTotal
}

// RenderDailyReport renders the closing report email.
func (r *Renderer) RenderDailyReport(report *entity.DailyReport) (*adapter.RenderedEmail, error) {
	data := DailyReportData{
		ClinicDate:  report.ClinicDate,
		Today:       report.Snapshot.Today,
		Month:       report.Snapshot.Month,
		Balance:     report.Snapshot.Total.Balance,
		TopExpenses: report.TopExpenses,
		TopDoctors:  report.TopDoctors,
	}

	html, text, err := r.Render(DailyReportTemplate, data)
	if err != nil {
		return nil, err
	}

	return &adapter.RenderedEmail{
		Subject: fmt.Sprintf("Cierre del día %s - Clínica", report.ClinicDate),
		HTML:    html,
		Text:    text,
	}, nil
}

// formatMoney renders an amount as soles with two decimals.
func formatMoney(v float64) string {
	return "S/ " + decimal.NewFromFloat(v).StringFixed(2)
}
