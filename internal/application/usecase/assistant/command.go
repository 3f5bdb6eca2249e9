// Package assistant contains the financial assistant use cases.
package assistant

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/clinic-finance/backend/internal/domain/entity"
)

var (
	fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	bareObjectPattern  = regexp.MustCompile(`(?s)\{[^{}]*"navigate"[^{}]*\}`)
)

// ExtractCommand pulls an optional navigate action out of a free-text reply.
// A fenced block is tried first, then the first bare object mentioning "navigate".
// When nothing parses the original text is returned unchanged with a nil action.
func ExtractCommand(text string) (string, *entity.AssistantAction) {
	match, body := findCommand(text)
	if match == "" {
		return text, nil
	}

	var command map[string]any
	if err := json.Unmarshal([]byte(body), &command); err != nil {
		slog.Debug("Ignoring malformed assistant command", "error", err)
		return text, nil
	}

	route, ok := command[string(entity.ActionTypeNavigate)].(string)
	if !ok {
		return text, nil
	}
	if !entity.IsKnownRoute(route) {
		slog.Warn("Assistant returned an unknown route", "route", route)
	}

	cleaned := strings.TrimSpace(strings.Replace(text, match, "", 1))
	return cleaned, &entity.AssistantAction{
		Type:    entity.ActionTypeNavigate,
		Payload: route,
	}
}

// findCommand returns the full matched substring and the JSON object inside it.
func findCommand(text string) (match, body string) {
	if m := fencedBlockPattern.FindStringSubmatch(text); m != nil {
		return m[0], m[1]
	}
	if m := bareObjectPattern.FindString(text); m != "" {
		return m, m
	}
	return "", ""
}
