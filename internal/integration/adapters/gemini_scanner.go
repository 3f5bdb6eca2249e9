package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
	"github.com/clinic-finance/backend/internal/domain/valueobject"
)

const scanPrompt = `Eres un lector de comprobantes de pago peruanos (facturas, boletas y recibos).
Extrae los datos del documento adjunto y responde SOLO con un objeto JSON con estas claves:
{
  "issuer_ruc": "RUC del emisor (11 dígitos) o null",
  "issuer_name": "razón social del emisor o null",
  "invoice_number": "serie y número, por ejemplo F001-000123, o null",
  "date": "fecha de emisión en formato YYYY-MM-DD o null",
  "amount": número con el importe total o null,
  "description": "resumen breve de lo comprado o null",
  "category": "categoría de gasto sugerida (Insumos, Servicios, Alquiler, Planilla, Laboratorio, Otros) o null",
  "method": "Efectivo, Tarjeta, Transferencia o Yape, o null"
}
Usa null para todo dato que no puedas leer con certeza. No inventes valores.`

// GeminiDocumentScanner implements the DocumentScanner using Google Gemini.
type GeminiDocumentScanner struct {
	apiKey    string
	modelName string
}

// NewGeminiDocumentScanner creates a new Gemini invoice scanner.
func NewGeminiDocumentScanner(apiKey, modelName string) *GeminiDocumentScanner {
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	return &GeminiDocumentScanner{
		apiKey:    apiKey,
		modelName: modelName,
	}
}

// IsAvailable checks if the Gemini service is available and properly configured.
func (s *GeminiDocumentScanner) IsAvailable() bool {
	return s.apiKey != ""
}

// Scan sends the document to Gemini and parses the invoice fields.
func (s *GeminiDocumentScanner) Scan(ctx context.Context, document *adapter.DocumentInput) (*entity.InvoiceScan, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("gemini service is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.modelName)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx,
		genai.Text(scanPrompt),
		genai.Blob{MIMEType: document.MIMEType, Data: document.Data},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	return ParseInvoiceScan(responseText(resp))
}

// geminiInvoice represents the raw scan response from Gemini.
type geminiInvoice struct {
	IssuerRUC     *string          `json:"issuer_ruc"`
	IssuerName    *string          `json:"issuer_name"`
	InvoiceNumber *string          `json:"invoice_number"`
	Date          *string          `json:"date"`
	Amount        *json.RawMessage `json:"amount"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category"`
	Method        *string          `json:"method"`
}

// ParseInvoiceScan parses a JSON scan response. Blank strings become nil and
// the amount may come as a number or a numeric string.
func ParseInvoiceScan(text string) (*entity.InvoiceScan, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if text == "" {
		return nil, fmt.Errorf("%w: empty response", domainerror.ErrScanParseFailed)
	}

	var raw geminiInvoice
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", domainerror.ErrScanParseFailed, err)
	}

	return &entity.InvoiceScan{
		IssuerRUC:     nonBlank(raw.IssuerRUC),
		IssuerName:    nonBlank(raw.IssuerName),
		InvoiceNumber: nonBlank(raw.InvoiceNumber),
		Date:          nonBlank(raw.Date),
		Amount:        parseScanAmount(raw.Amount),
		Description:   nonBlank(raw.Description),
		Category:      nonBlank(raw.Category),
		Method:        nonBlank(raw.Method),
	}, nil
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseScanAmount(raw *json.RawMessage) *float64 {
	if raw == nil {
		return nil
	}

	var number float64
	if err := json.Unmarshal(*raw, &number); err == nil {
		return &number
	}

	var text string
	if err := json.Unmarshal(*raw, &text); err != nil {
		return nil
	}
	if value, ok := valueobject.ParseAmount(text); ok {
		return &value
	}
	return nil
}

// Ensure implementation satisfies interface.
var _ adapter.DocumentScanner = (*GeminiDocumentScanner)(nil)
