package assistant

import (
	"testing"

	"github.com/clinic-finance/backend/internal/domain/entity"
)

func TestExtractCommand(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantText    string
		wantPayload string
	}{
		{
			name:        "fenced block",
			text:        "Aquí tienes ```json\n{\"navigate\": \"/egresos\"}\n```",
			wantText:    "Aquí tienes",
			wantPayload: "/egresos",
		},
		{
			name:        "fenced block without language",
			text:        "Te llevo a ingresos.\n```\n{\"navigate\": \"/ingresos\"}\n```",
			wantText:    "Te llevo a ingresos.",
			wantPayload: "/ingresos",
		},
		{
			name:        "bare object",
			text:        `Abriendo reportes {"navigate": "/reportes"}`,
			wantText:    "Abriendo reportes",
			wantPayload: "/reportes",
		},
		{
			name:        "unknown route passes through",
			text:        `Listo {"navigate": "/pacientes"}`,
			wantText:    "Listo",
			wantPayload: "/pacientes",
		},
		{
			name:     "malformed json leaves text unchanged",
			text:     "Mira esto ```json\n{\"navigate\": \"/egresos\",}\n```",
			wantText: "Mira esto ```json\n{\"navigate\": \"/egresos\",}\n```",
		},
		{
			name:     "no command",
			text:     "Hoy ingresaron S/ 1,200.",
			wantText: "Hoy ingresaron S/ 1,200.",
		},
		{
			name:     "object without navigate key",
			text:     "```json\n{\"open\": \"/egresos\"}\n```",
			wantText: "```json\n{\"open\": \"/egresos\"}\n```",
		},
		{
			name:     "non-string route",
			text:     `Aquí {"navigate": 3}`,
			wantText: `Aquí {"navigate": 3}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, action := ExtractCommand(tt.text)
			if text != tt.wantText {
				t.Errorf("expected text %q, got %q", tt.wantText, text)
			}
			if tt.wantPayload == "" {
				if action != nil {
					t.Errorf("expected no action, got %+v", action)
				}
				return
			}
			if action == nil {
				t.Fatal("expected an action")
			}
			if action.Type != entity.ActionTypeNavigate || action.Payload != tt.wantPayload {
				t.Errorf("expected navigate %s, got %+v", tt.wantPayload, action)
			}
		})
	}
}
