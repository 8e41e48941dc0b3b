package wrappers

import (
	"context"
	"fmt"
	"strings"
)

// NormalizeWrapper implements the Tool interface for turning a raw analysis
// payload into a canonical finding.
type NormalizeWrapper struct {
	Session *Session
}

func (n *NormalizeWrapper) Name() string {
	return "normalize_payload"
}

func (n *NormalizeWrapper) Description() string {
	return "Normalizes a raw authenticity analysis JSON payload (single file, legacy batch or unified batch) into a canonical finding with score, risk level, verdict, reasons, signals and six category scores."
}

func (n *NormalizeWrapper) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"payload": map[string]interface{}{
				"type":        "string",
				"description": "The raw analysis result as JSON text",
			},
			"filenames": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Names of the uploaded files, used when the payload does not name them",
			},
		},
		"required": []string{"payload"},
	}
}

func (n *NormalizeWrapper) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	if n.Session == nil {
		return "Error: session not initialized.", nil
	}

	payload, _ := args["payload"].(string)
	// Some models send everything as a single "args" string.
	if val, ok := args["args"].(string); ok && payload == "" {
		payload = val
	}
	if strings.TrimSpace(payload) == "" {
		return "Error: payload argument is required.", nil
	}

	if progress != nil {
		progress("Normalizing analysis payload...")
	}
	f, err := n.Session.Normalize(payload, stringArgs(args["filenames"]))
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Normalized finding (score %d/100, %s risk):\n%s", f.Score, f.RiskLevel, data), nil
}

func stringArgs(v interface{}) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if list == "" {
			return nil
		}
		return strings.Split(list, ",")
	}
	return nil
}
