package engine

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RiskLevel is the coarse risk bucket derived from an authenticity score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskForScore is the only mapping from score to risk level.
// Higher scores mean more authentic, so they carry less risk.
func RiskForScore(score int) RiskLevel {
	switch {
	case score >= 70:
		return RiskLow
	case score >= 40:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ParseRiskLevel parses a risk level case-insensitively.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow, true
	case "medium", "moderate":
		return RiskMedium, true
	case "high":
		return RiskHigh, true
	default:
		return "", false
	}
}

// Category is one of the fixed sub-scores of an authenticity analysis.
type Category int

const (
	MultimodalMatch Category = iota
	DocumentForensics
	VisualArtifacts
	LogicalConsistency
	SyntheticSigns
	ShadowPerspective

	categoryCount
)

var categoryKeys = [categoryCount]string{
	MultimodalMatch:    "multimodal_match",
	DocumentForensics:  "document_forensics",
	VisualArtifacts:    "visual_artifacts",
	LogicalConsistency: "logical_consistency",
	SyntheticSigns:     "synthetic_signs",
	ShadowPerspective:  "shadow_perspective",
}

var categoryLabels [categoryCount]string

func init() {
	title := cases.Title(language.English)
	for i, key := range categoryKeys {
		categoryLabels[i] = title.String(strings.ReplaceAll(key, "_", " "))
	}
}

// Categories lists every category in report order.
func Categories() []Category {
	out := make([]Category, categoryCount)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// Key returns the wire name of the category.
func (c Category) Key() string {
	if c < 0 || c >= categoryCount {
		return fmt.Sprintf("category_%d", int(c))
	}
	return categoryKeys[c]
}

// Label returns the human-readable category name.
func (c Category) Label() string {
	if c < 0 || c >= categoryCount {
		return c.Key()
	}
	return categoryLabels[c]
}

// CategoryFromKey resolves a wire key, accepting camelCase spellings too.
func CategoryFromKey(key string) (Category, bool) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", "_"))
	compact := strings.ReplaceAll(norm, "_", "")
	for i, k := range categoryKeys {
		if norm == k || compact == strings.ReplaceAll(k, "_", "") {
			return Category(i), true
		}
	}
	return 0, false
}

// CategoryScores holds exactly one score per category.
type CategoryScores [categoryCount]int

// Get returns the score of c.
func (s CategoryScores) Get(c Category) int {
	return s[c]
}

// MarshalJSON encodes the scores as an object keyed by category wire name.
func (s CategoryScores) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, categoryCount)
	for i, v := range s {
		m[categoryKeys[i]] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes an object keyed by category wire name. Unknown keys
// are ignored and missing keys stay zero.
func (s *CategoryScores) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = CategoryScores{}
	for k, v := range m {
		if c, ok := CategoryFromKey(k); ok {
			s[c] = v
		}
	}
	return nil
}

// Finding is the canonical analysis record. Every Finding returned by the
// normalizer satisfies: Score in [0,100], RiskLevel == RiskForScore(Score),
// a non-empty Verdict, at least one reason, and all category scores in [0,100].
type Finding struct {
	Score          int            `json:"score"`
	RiskLevel      RiskLevel      `json:"riskLevel"`
	Verdict        string         `json:"verdict"`
	Reasons        []string       `json:"reasons"`
	Signals        []string       `json:"signals"`
	CategoryScores CategoryScores `json:"categoryScores"`
	Filenames      []string       `json:"filenames"`
	Filename       string         `json:"filename,omitempty"` // single-file findings only
	Claim          *string        `json:"claim,omitempty"`    // nil when the caller supplied none
}

// PlaceholderTexts are default strings upstream senders use when they had
// nothing to say. They are never treated as real content.
var PlaceholderTexts = [...]string{
	"Multimodal analysis completed across all files.",
	"Cross-file analysis performed.",
	"Analysis completed. Review details for specific findings.",
}

// IsPlaceholder reports whether s is one of the PlaceholderTexts.
func IsPlaceholder(s string) bool {
	s = strings.TrimSpace(s)
	for _, p := range PlaceholderTexts {
		if s == p {
			return true
		}
	}
	return false
}
