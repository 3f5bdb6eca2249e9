package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainerror "github.com/clinic-finance/backend/internal/domain/error"
)

// failureMessages are shown to the clinic staff for each generation failure.
var failureMessages = map[domainerror.AssistantErrorCode]string{
	domainerror.ErrCodeAssistantUnavailable: "El asistente no está disponible en este momento. Intenta nuevamente más tarde.",
	domainerror.ErrCodeGenerationThrottled:  "Se alcanzó el límite de consultas al asistente. Espera unos minutos e intenta nuevamente.",
	domainerror.ErrCodeGenerationTimeout:    "El asistente tardó demasiado en responder. Intenta nuevamente.",
	domainerror.ErrCodeGenerationFailed:     "El asistente no pudo responder. Intenta nuevamente.",
}

// classifyGenerationError converts a generative service failure into an
// assistant error. The original error stays wrapped for logging.
func classifyGenerationError(err error) *domainerror.AssistantError {
	code := generationFailureCode(err)
	return domainerror.NewAssistantError(
		code,
		failureMessages[code],
		fmt.Errorf("%w: %w", domainerror.ErrAssistantGenerationFailed, err),
	)
}

func generationFailureCode(err error) domainerror.AssistantErrorCode {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domainerror.ErrCodeGenerationTimeout
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "429") || strings.Contains(errStr, "resource exhausted") {
		return domainerror.ErrCodeGenerationThrottled
	}

	// A rejected key is a configuration problem, reported like a missing one.
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "api key") || strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "permission denied") {
		return domainerror.ErrCodeAssistantUnavailable
	}

	if strings.Contains(errStr, "connection") || strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "dial") || strings.Contains(errStr, "unavailable") ||
		strings.Contains(errStr, "503") {
		return domainerror.ErrCodeAssistantUnavailable
	}

	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline") {
		return domainerror.ErrCodeGenerationTimeout
	}

	return domainerror.ErrCodeGenerationFailed
}
