package assistant

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domainerror "github.com/clinic-finance/backend/internal/domain/error"
)

func TestClassifyGenerationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domainerror.AssistantErrorCode
	}{
		{"deadline exceeded", context.DeadlineExceeded, domainerror.ErrCodeGenerationTimeout},
		{"wrapped cancel", fmt.Errorf("send: %w", context.Canceled), domainerror.ErrCodeGenerationTimeout},
		{"rate limit", errors.New("RATE LIMIT exceeded"), domainerror.ErrCodeGenerationThrottled},
		{"quota", errors.New("quota exceeded for model"), domainerror.ErrCodeGenerationThrottled},
		{"resource exhausted", errors.New("rpc error: code = ResourceExhausted desc = resource exhausted"), domainerror.ErrCodeGenerationThrottled},
		{"invalid key", errors.New("googleapi: Error 400: API key not valid"), domainerror.ErrCodeAssistantUnavailable},
		{"forbidden", errors.New("403 Forbidden"), domainerror.ErrCodeAssistantUnavailable},
		{"network", errors.New("dial tcp: connection refused"), domainerror.ErrCodeAssistantUnavailable},
		{"service unavailable", errors.New("503 Service Unavailable"), domainerror.ErrCodeAssistantUnavailable},
		{"client timeout", errors.New("net/http: request canceled (Client.Timeout exceeded)"), domainerror.ErrCodeGenerationTimeout},
		{"unknown", errors.New("blocked: SAFETY"), domainerror.ErrCodeGenerationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyGenerationError(tt.err)
			if got.Code != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Code)
			}
			if got.Message == "" {
				t.Error("expected a message")
			}
			if !errors.Is(got, domainerror.ErrAssistantGenerationFailed) || !errors.Is(got, tt.err) {
				t.Errorf("expected both errors to stay wrapped, got %v", got)
			}
		})
	}
}

func TestFailureMessages_AllCodesHaveMessages(t *testing.T) {
	for _, code := range []domainerror.AssistantErrorCode{
		domainerror.ErrCodeAssistantUnavailable,
		domainerror.ErrCodeGenerationThrottled,
		domainerror.ErrCodeGenerationTimeout,
		domainerror.ErrCodeGenerationFailed,
	} {
		if failureMessages[code] == "" {
			t.Errorf("missing message for %s", code)
		}
	}
}
