package wrappers

import (
	"context"
	"fmt"
	"strings"
)

// HistoryWrapper implements the Tool interface for listing recent findings.
type HistoryWrapper struct {
	Session *Session
}

func (h *HistoryWrapper) Name() string {
	return "list_history"
}

func (h *HistoryWrapper) Description() string {
	return "Lists the most recent authenticity findings with their ids, scores, risk levels, files and report paths."
}

func (h *HistoryWrapper) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "How many records to show (default 5)",
			},
		},
	}
}

func (h *HistoryWrapper) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	if h.Session == nil {
		return "Error: session not initialized.", nil
	}

	limit := 5
	switch v := args["limit"].(type) {
	case float64:
		limit = int(v)
	case int:
		limit = v
	}

	records := h.Session.History.Recent(limit)
	if len(records) == 0 {
		return "No findings recorded yet.", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Most recent %d findings:\n", len(records)))
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("- %s [%d/100, %s] %s\n", r.ID, r.Finding.Score, r.Finding.RiskLevel, strings.Join(r.Finding.Filenames, ", ")))
		if r.Artifact != "" {
			sb.WriteString(fmt.Sprintf("  report: %s\n", r.Artifact))
		}
	}
	return sb.String(), nil
}
