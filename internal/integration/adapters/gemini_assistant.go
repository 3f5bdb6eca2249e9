// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/clinic-finance/backend/internal/application/adapter"
	"github.com/clinic-finance/backend/internal/domain/entity"
)

const (
	geminiRoleUser  = "user"
	geminiRoleModel = "model"
)

// GeminiAssistant implements the AssistantService using Google Gemini.
type GeminiAssistant struct {
	apiKey    string
	modelName string
}

// NewGeminiAssistant creates a new Gemini chat assistant.
func NewGeminiAssistant(apiKey, modelName string) *GeminiAssistant {
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	return &GeminiAssistant{
		apiKey:    apiKey,
		modelName: modelName,
	}
}

// IsAvailable checks if the Gemini service is available and properly configured.
func (s *GeminiAssistant) IsAvailable() bool {
	return s.apiKey != ""
}

// Reply sends the conversation to Gemini and returns the text of the answer.
func (s *GeminiAssistant) Reply(ctx context.Context, request *adapter.AssistantRequest) (string, error) {
	if !s.IsAvailable() {
		return "", fmt.Errorf("gemini service is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.modelName)
	model.SetTemperature(0.4)
	model.SystemInstruction = genai.NewUserContent(genai.Text(buildSystemPrompt(request)))

	session := model.StartChat()
	session.History = toGeminiHistory(request.History)

	resp, err := session.SendMessage(ctx, genai.Text(request.Message))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}
	return text, nil
}

func buildSystemPrompt(request *adapter.AssistantRequest) string {
	if request.ContextJSON == "" {
		return request.SystemInstruction
	}
	var sb strings.Builder
	sb.WriteString(request.SystemInstruction)
	sb.WriteString("\n\nCONTEXTO (JSON):\n")
	sb.WriteString(request.ContextJSON)
	return sb.String()
}

func toGeminiHistory(history []entity.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		role := geminiRoleUser
		if msg.Role == entity.ChatRoleAssistant {
			role = geminiRoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return contents
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}

// Ensure implementation satisfies interface.
var _ adapter.AssistantService = (*GeminiAssistant)(nil)
