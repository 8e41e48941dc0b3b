package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/user/verity-adk/pkg/metrics"
)

// backfill enforces every Finding invariant on d. Each repaired field is
// reported as a warning; nothing here fails.
func (n *Normalizer) backfill(d draft, shape Shape, uploaded []string) Finding {
	var f Finding

	switch {
	case d.hasScore:
		f.Score = roundScore(d.score)
		if float64(f.Score) != d.score {
			n.warn("score", "rounded or clamped", zap.Float64("supplied", d.score))
		}
	case d.anyCategory() && !d.categoriesDegenerate():
		f.Score = meanPresent(d)
		n.warn("score", "derived from category scores")
	default:
		n.warn("score", "missing, defaulted to zero")
	}

	f.CategoryScores = n.categories(d, f.Score)

	f.RiskLevel = RiskForScore(f.Score)
	if d.risk != "" {
		if supplied, ok := ParseRiskLevel(d.risk); !ok || supplied != f.RiskLevel {
			n.warn("riskLevel", "contradicts score",
				zap.String("supplied", d.risk), zap.String("derived", string(f.RiskLevel)))
		}
	}

	f.Verdict = d.verdict
	if f.Verdict == "" || IsPlaceholder(f.Verdict) {
		f.Verdict = synthVerdict(f.Score, f.RiskLevel)
		n.warn("verdict", "missing or placeholder")
	}

	f.Reasons = withoutPlaceholders(d.reasons)
	if len(f.Reasons) == 0 {
		f.Reasons = synthReasons(f)
		n.warn("reasons", "missing or placeholder")
	}

	f.Signals = withoutPlaceholders(d.signals)
	if len(f.Signals) == 0 {
		f.Signals = []string{synthSignal(f.Score, f.RiskLevel)}
		n.warn("signals", "missing or placeholder")
	}

	f.Filenames = append([]string(nil), d.filenames...)
	if len(f.Filenames) == 0 && d.filename != "" {
		f.Filenames = []string{d.filename}
	}
	if len(f.Filenames) == 0 {
		f.Filenames = nonBlank(uploaded)
		if len(f.Filenames) > 0 {
			n.warn("filenames", "taken from uploaded file names")
		}
	}
	if f.Filenames == nil {
		f.Filenames = []string{}
	}
	if shape == ShapeSingle && len(f.Filenames) == 1 {
		f.Filename = f.Filenames[0]
	}

	if d.claim != nil {
		claim := *d.claim
		f.Claim = &claim
	}
	return f
}

func (n *Normalizer) categories(d draft, score int) CategoryScores {
	var out CategoryScores
	if !d.anyCategory() || d.categoriesDegenerate() {
		for c := range out {
			out[c] = score
		}
		n.warn("categoryScores", "absent or all zero, broadcast score", zap.Int("score", score))
		return out
	}
	missing := 0
	for c := range out {
		if d.catPresent[c] {
			out[c] = clampScore(d.categories[c])
			continue
		}
		out[c] = score
		missing++
	}
	if missing > 0 {
		n.warn("categoryScores", "missing keys filled with score", zap.Int("missing", missing))
	}
	return out
}

// warn records an invariant backfill.
func (n *Normalizer) warn(field, reason string, fields ...zap.Field) {
	metrics.BackfillTotal.WithLabelValues(field).Inc()
	n.log.Warn("invariant backfill",
		append([]zap.Field{zap.String("field", field), zap.String("reason", reason)}, fields...)...)
}

func meanPresent(d draft) int {
	sum, count := 0, 0
	for c, present := range d.catPresent {
		if present {
			sum += d.categories[c]
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return roundMean(sum, count)
}

// roundMean is sum/count rounded half up, for non-negative sums.
func roundMean(sum, count int) int {
	return clampScore((2*sum + count) / (2 * count))
}

func synthVerdict(score int, risk RiskLevel) string {
	return fmt.Sprintf("Authenticity score of %d/100 indicates %s risk.", score, strings.ToLower(string(risk)))
}

func synthReasons(f Finding) []string {
	var out []string
	for _, c := range Categories() {
		if v := f.CategoryScores[c]; v < 40 {
			out = append(out, fmt.Sprintf("%s scored %d/100, below the authenticity threshold.", c.Label(), v))
		}
	}
	if len(out) == 0 {
		out = append(out, fmt.Sprintf("Overall authenticity score is %d/100 (%s risk).", f.Score, f.RiskLevel))
	}
	return out
}

func synthSignal(score int, risk RiskLevel) string {
	switch risk {
	case RiskLow:
		return fmt.Sprintf("No significant manipulation indicators detected (score %d/100)", score)
	case RiskMedium:
		return fmt.Sprintf("Some indicators require manual review (score %d/100)", score)
	default:
		return fmt.Sprintf("Multiple manipulation indicators detected (score %d/100)", score)
	}
}

func withoutPlaceholders(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !IsPlaceholder(s) {
			out = append(out, s)
		}
	}
	return out
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
