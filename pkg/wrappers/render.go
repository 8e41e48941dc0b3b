package wrappers

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/verity-adk/pkg/engine"
)

// RenderWrapper implements the Tool interface for producing a PDF report.
type RenderWrapper struct {
	Session *Session
}

func (r *RenderWrapper) Name() string {
	return "render_report"
}

func (r *RenderWrapper) Description() string {
	return "Renders a finding as a paginated PDF authenticity report and saves it. Uses the payload if given, else the history record with the given id, else the most recently normalized finding."
}

func (r *RenderWrapper) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"payload": map[string]interface{}{
				"type":        "string",
				"description": "Optional raw analysis JSON to normalize and render",
			},
			"id": map[string]interface{}{
				"type":        "string",
				"description": "Optional history record id (or its first 8 characters)",
			},
		},
	}
}

func (r *RenderWrapper) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	if r.Session == nil {
		return "Error: session not initialized.", nil
	}

	f, msg := r.resolve(args)
	if msg != "" {
		return msg, nil
	}

	if progress != nil {
		progress("Laying out report...")
	}
	out, err := r.Session.RenderToFile(f)
	if err != nil {
		return fmt.Sprintf("Error rendering report: %v", err), nil
	}

	unit := "pages"
	if out.Pages == 1 {
		unit = "page"
	}
	return fmt.Sprintf("Report saved to %s (%d %s, score %d/100, %s risk).", out.Path, out.Pages, unit, f.Score, f.RiskLevel), nil
}

// resolve picks the finding to render. A non-empty message is a user-facing error.
func (r *RenderWrapper) resolve(args map[string]interface{}) (engine.Finding, string) {
	if payload, _ := args["payload"].(string); strings.TrimSpace(payload) != "" {
		f, err := r.Session.Normalize(payload, nil)
		if err != nil {
			return engine.Finding{}, fmt.Sprintf("Error: %v", err)
		}
		return f, ""
	}
	if id, _ := args["id"].(string); id != "" {
		rec, ok := r.Session.History.Get(id)
		if !ok {
			return engine.Finding{}, fmt.Sprintf("Error: no history record %q.", id)
		}
		return rec.Finding, ""
	}
	if f, ok := r.Session.Last(); ok {
		return f, ""
	}
	return engine.Finding{}, "Error: nothing to render. Normalize a payload first or pass an id."
}
