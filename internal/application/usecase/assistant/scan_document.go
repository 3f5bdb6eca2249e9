package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
)

// MaxDocumentSize is the largest document accepted for scanning (10 MiB).
const MaxDocumentSize = 10 << 20

// ScanDocumentInput represents an uploaded invoice or receipt.
type ScanDocumentInput struct {
	MIMEType string
	Data     []byte
}

// ScanDocumentOutput represents the autofill suggestion.
type ScanDocumentOutput struct {
	Scan *entity.InvoiceScan
}

// ScanDocumentUseCase extracts invoice fields to prefill the expense form.
type ScanDocumentUseCase struct {
	scanner adapter.DocumentScanner
}

// NewScanDocumentUseCase creates a new ScanDocumentUseCase instance.
func NewScanDocumentUseCase(scanner adapter.DocumentScanner) *ScanDocumentUseCase {
	return &ScanDocumentUseCase{scanner: scanner}
}

// Execute validates the document and scans it.
func (uc *ScanDocumentUseCase) Execute(ctx context.Context, input ScanDocumentInput) (*ScanDocumentOutput, error) {
	if len(input.Data) == 0 {
		return nil, domainerror.NewAssistantError(
			domainerror.ErrCodeEmptyDocument,
			"document is empty",
			domainerror.ErrEmptyDocument,
		)
	}
	if len(input.Data) > MaxDocumentSize {
		return nil, domainerror.NewAssistantError(
			domainerror.ErrCodeDocumentTooLarge,
			fmt.Sprintf("document must not exceed %d bytes", MaxDocumentSize),
			domainerror.ErrDocumentTooLarge,
		)
	}

	mimeType := DocumentMIMEType(input.MIMEType, input.Data)
	if mimeType == "" {
		return nil, domainerror.NewAssistantError(
			domainerror.ErrCodeUnsupportedDocument,
			"document must be an image or a PDF",
			domainerror.ErrUnsupportedDocument,
		)
	}

	if uc.scanner == nil || !uc.scanner.IsAvailable() {
		return nil, domainerror.NewAssistantError(
			domainerror.ErrCodeAssistantUnavailable,
			"document scanning is not available",
			domainerror.ErrAssistantUnavailable,
		)
	}

	scan, err := uc.scanner.Scan(ctx, &adapter.DocumentInput{
		MIMEType: mimeType,
		Data:     input.Data,
	})
	if err != nil {
		slog.Error("Document scan failed", "error", err, "mime_type", mimeType)
		if errors.Is(err, domainerror.ErrScanParseFailed) {
			return nil, domainerror.NewAssistantError(
				domainerror.ErrCodeScanParseFailed,
				"could not read the document",
				err,
			)
		}
		return nil, classifyGenerationError(err)
	}

	return &ScanDocumentOutput{Scan: scan}, nil
}

// DocumentMIMEType returns the accepted MIME type of a document, sniffing the
// content when the declared type is missing or generic. It returns "" for
// anything that is neither an image nor a PDF.
func DocumentMIMEType(declared string, data []byte) string {
	mimeType := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
		if i := strings.IndexByte(mimeType, ';'); i >= 0 {
			mimeType = mimeType[:i]
		}
	}

	if mimeType == "application/pdf" || strings.HasPrefix(mimeType, "image/") {
		return mimeType
	}
	return ""
}
