package engine

import (
	stdjson "encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Shape identifies which historical response layout a payload uses.
type Shape int

const (
	// ShapeSingle carries one finding's fields at the top level.
	ShapeSingle Shape = iota
	// ShapeLegacyBatch wraps per-file findings in a "results" list.
	ShapeLegacyBatch
	// ShapeUnifiedBatch is one merged finding plus a filenames list.
	ShapeUnifiedBatch
)

func (s Shape) String() string {
	switch s {
	case ShapeSingle:
		return "single"
	case ShapeLegacyBatch:
		return "legacy_batch"
	case ShapeUnifiedBatch:
		return "unified_batch"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Payload is a raw payload tagged with its shape. Fields is the top-level
// object; Entries is only populated for ShapeLegacyBatch.
type Payload struct {
	Shape   Shape
	Fields  map[string]any
	Entries []map[string]any
}

var (
	scoreKeys     = []string{"score", "authenticityScore", "authenticity_score", "overallScore", "overall_score"}
	riskKeys      = []string{"riskLevel", "risk_level", "risk"}
	verdictKeys   = []string{"verdict"}
	reasonKeys    = []string{"reasons"}
	signalKeys    = []string{"signals", "keySignals", "key_signals"}
	categoryKeysW = []string{"categoryScores", "category_scores", "categories"}
	filenamesKeys = []string{"filenames", "fileNames", "file_names"}
	filenameKeys  = []string{"filename", "fileName", "file_name"}
	entryNameKeys = []string{"filename", "fileName", "file_name", "name"}
	claimKeys     = []string{"claim"}
	batchSizeKeys = []string{"batchSize", "batch_size"}
	batchFlagKeys = []string{"isBatch", "is_batch"}
	batchTypeKeys = []string{"type", "analysisType", "analysis_type"}
)

// ParsePayload decodes JSON text into a raw payload object.
func ParsePayload(data []byte) (map[string]any, error) {
	var v any
	if err := payloadJSON.Unmarshal(data, &v); err != nil {
		return nil, &MalformedPayloadError{Reason: "invalid JSON", Err: err}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &MalformedPayloadError{Reason: fmt.Sprintf("expected a JSON object, got %s", kindOf(v))}
	}
	return m, nil
}

// toObject accepts the raw payload forms the normalizer understands.
func toObject(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case map[string]any:
		if v == nil {
			return nil, &MalformedPayloadError{Reason: "nil object"}
		}
		return v, nil
	case []byte:
		return ParsePayload(v)
	case stdjson.RawMessage:
		return ParsePayload(v)
	case string:
		return ParsePayload([]byte(v))
	default:
		return nil, &MalformedPayloadError{Reason: fmt.Sprintf("unsupported payload type %s", kindOf(raw))}
	}
}

// Classify infers the payload shape structurally.
func Classify(raw map[string]any) Payload {
	if entries, ok := legacyEntries(raw); ok {
		return Payload{Shape: ShapeLegacyBatch, Fields: raw, Entries: entries}
	}
	if isUnifiedBatch(raw) {
		return Payload{Shape: ShapeUnifiedBatch, Fields: raw}
	}
	return Payload{Shape: ShapeSingle, Fields: raw}
}

func legacyEntries(raw map[string]any) ([]map[string]any, bool) {
	list, ok := raw["results"].([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	entries := make([]map[string]any, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok || !hasAny(m, scoreKeys...) {
			return nil, false
		}
		entries = append(entries, m)
	}
	return entries, true
}

func isUnifiedBatch(raw map[string]any) bool {
	for _, k := range filenamesKeys {
		if list, ok := raw[k].([]any); ok && len(list) != 1 {
			return true
		}
	}
	if _, ok := numberField(raw, batchSizeKeys...); ok {
		return true
	}
	for _, k := range batchFlagKeys {
		if b, ok := raw[k].(bool); ok && b {
			return true
		}
	}
	if t, ok := stringField(raw, batchTypeKeys...); ok {
		switch strings.ToLower(t) {
		case "batch", "multi", "unified_batch":
			return true
		}
	}
	return false
}

func hasAny(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return true
		}
	}
	return false
}

// numberField returns the first key holding a number or a numeric string.
func numberField(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if f, ok := toNumber(m[k]); ok {
			return f, true
		}
	}
	return 0, false
}

func toNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case interface{ Float64() (float64, error) }:
		x, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	case string:
		x, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(n), "%")), 64)
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// stringField returns the first key holding a string. Blank strings count as
// present so that callers can tell "empty" from "missing".
func stringField(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}

// stringList reads a list of strings; a lone string is a one-item list.
// Non-string and blank items are skipped.
func stringList(m map[string]any, keys ...string) []string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
			return out
		case []string:
			out := make([]string, 0, len(v))
			for _, s := range v {
				if strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
			return out
		case string:
			if strings.TrimSpace(v) != "" {
				return []string{strings.TrimSpace(v)}
			}
			return nil
		}
	}
	return nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, stdjson.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// roundScore clamps to [0,100] and rounds half up. Clamping happens before
// the int conversion so out-of-range floats cannot overflow.
func roundScore(f float64) int {
	f = math.Max(0, math.Min(100, f))
	return int(math.Floor(f + 0.5))
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
