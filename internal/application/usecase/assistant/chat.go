package assistant

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/application/usecase/dashboard"
	"github.com/clinic-finance/backend/internal/domain/entity"
	domainerror "github.com/clinic-finance/backend/internal/domain/error"
)

const (
	// MaxHistoryMessages bounds how many previous turns are sent along.
	MaxHistoryMessages = 20
	// MaxMessageLength bounds the user message in bytes.
	MaxMessageLength = 2000
)

// SnapshotProvider provides the live dashboard metrics.
type SnapshotProvider interface {
	Execute(ctx context.Context) (*dashboard.GetSnapshotOutput, error)
}

// ChatInput represents the input for one assistant turn.
type ChatInput struct {
	Message string
	History []entity.ChatMessage
}

// ChatOutput represents the assistant reply.
type ChatOutput struct {
	Text   string
	Action *entity.AssistantAction
}

// ChatUseCase answers questions about the clinic finances.
type ChatUseCase struct {
	assistant adapter.AssistantService
	snapshots SnapshotProvider
}

// NewChatUseCase creates a new ChatUseCase instance.
func NewChatUseCase(assistant adapter.AssistantService, snapshots SnapshotProvider) *ChatUseCase {
	return &ChatUseCase{
		assistant: assistant,
		snapshots: snapshots,
	}
}

// Execute sends the message with the current metrics as context and extracts
// any navigate command from the reply.
func (uc *ChatUseCase) Execute(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, domainerror.NewAssistantError(
			domainerror.ErrCodeEmptyChatMessage,
			"message is required",
			domainerror.ErrEmptyChatMessage,
		)
	}
	message = truncateUTF8(message, MaxMessageLength)

	if uc.assistant == nil || !uc.assistant.IsAvailable() {
		return nil, domainerror.NewAssistantError(
			domainerror.ErrCodeAssistantUnavailable,
			"assistant is not available",
			domainerror.ErrAssistantUnavailable,
		)
	}

	history := input.History
	if len(history) > MaxHistoryMessages {
		history = history[len(history)-MaxHistoryMessages:]
	}

	reply, err := uc.assistant.Reply(ctx, &adapter.AssistantRequest{
		SystemInstruction: systemInstruction(),
		History:           history,
		Message:           message,
		ContextJSON:       uc.metricsContext(ctx),
	})
	if err != nil {
		slog.Error("Assistant generation failed", "error", err)
		return nil, classifyGenerationError(err)
	}

	text, action := ExtractCommand(reply)
	return &ChatOutput{
		Text:   text,
		Action: action,
	}, nil
}

// metricsContext serializes the live snapshot. A failed load yields an empty
// context so the assistant still answers.
func (uc *ChatUseCase) metricsContext(ctx context.Context) string {
	if uc.snapshots == nil {
		return ""
	}

	result, err := uc.snapshots.Execute(ctx)
	if err != nil {
		slog.Warn("Assistant running without metrics context", "error", err)
		return ""
	}

	data, err := json.Marshal(struct {
		GeneratedAt string                 `json:"generated_at"`
		Metrics     entity.MetricsSnapshot `json:"metrics"`
	}{
		GeneratedAt: result.GeneratedAt.Format("2006-01-02 15:04"),
		Metrics:     result.Snapshot,
	})
	if err != nil {
		return ""
	}
	return string(data)
}

// truncateUTF8 cuts s to at most limit bytes without splitting a character.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func systemInstruction() string {
	var sb strings.Builder

	sb.WriteString(`Eres el asistente financiero de una clínica dental. Respondes en español, de forma breve y precisa, usando únicamente las métricas proporcionadas en el contexto.

Los montos están en soles (S/). "today" es el día actual, "month" el mes actual y "total" todo el historial; "balance" es el saldo pendiente de cobro.

Si el usuario pide ver una sección de la aplicación, agrega al final de tu respuesta un bloque JSON con la forma {"navigate": "<ruta>"}. Rutas disponibles:
`)
	for _, route := range entity.KnownRoutes {
		sb.WriteString("- ")
		sb.WriteString(route)
		sb.WriteString("\n")
	}
	sb.WriteString("\nNo inventes cifras. Si un dato no está en el contexto, indícalo.")

	return sb.String()
}
