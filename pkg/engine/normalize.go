package engine

import (
	"go.uber.org/zap"

	"github.com/user/verity-adk/pkg/logger"
	"github.com/user/verity-adk/pkg/metrics"
)

// Normalizer turns raw analysis payloads into canonical findings. It holds
// no state between calls and is safe for concurrent use.
type Normalizer struct {
	log *zap.Logger
}

// NewNormalizer creates a normalizer that reports backfills to log.
func NewNormalizer(log *zap.Logger) *Normalizer {
	return &Normalizer{log: logger.OrNop(log)}
}

var defaultNormalizer = NewNormalizer(nil)

// Normalize normalizes raw with a silent normalizer.
func Normalize(raw any, uploadedFileNames []string) (Finding, error) {
	return defaultNormalizer.Normalize(raw, uploadedFileNames)
}

// Normalize maps raw into one Finding. raw may be a decoded JSON object or
// JSON text. uploadedFileNames is the out-of-band list of uploaded files used
// when the payload does not name its files.
//
// The only error is a *MalformedPayloadError; every other inconsistency is
// repaired and logged.
func (n *Normalizer) Normalize(raw any, uploadedFileNames []string) (Finding, error) {
	obj, err := toObject(raw)
	if err != nil {
		return Finding{}, err
	}

	p := Classify(obj)
	var d draft
	switch p.Shape {
	case ShapeLegacyBatch:
		d = n.mergeLegacy(p.Entries, uploadedFileNames)
		d.claim = readDraft(p.Fields).claim
	case ShapeUnifiedBatch, ShapeSingle:
		d = readDraft(p.Fields)
	}

	f := n.backfill(d, p.Shape, uploadedFileNames)
	metrics.NormalizedTotal.WithLabelValues(p.Shape.String()).Inc()
	n.log.Debug("payload normalized",
		zap.Stringer("shape", p.Shape),
		zap.Int("score", f.Score),
		zap.String("risk_level", string(f.RiskLevel)),
		zap.Int("files", len(f.Filenames)))
	return f, nil
}

// draft is a finding as supplied, before invariants are enforced.
type draft struct {
	score      float64
	hasScore   bool
	risk       string
	verdict    string
	hasVerdict bool
	reasons    []string
	signals    []string
	categories CategoryScores
	catPresent [categoryCount]bool
	filenames  []string
	filename   string
	claim      *string
}

func readDraft(m map[string]any) draft {
	var d draft
	d.score, d.hasScore = numberField(m, scoreKeys...)
	d.risk, _ = stringField(m, riskKeys...)
	d.verdict, d.hasVerdict = stringField(m, verdictKeys...)
	d.reasons = stringList(m, reasonKeys...)
	d.signals = stringList(m, signalKeys...)
	d.filenames = stringList(m, filenamesKeys...)
	d.filename, _ = stringField(m, filenameKeys...)
	if claim, ok := stringField(m, claimKeys...); ok {
		d.claim = &claim
	}

	for _, k := range categoryKeysW {
		cats, ok := m[k].(map[string]any)
		if !ok {
			continue
		}
		for key, v := range cats {
			c, ok := CategoryFromKey(key)
			if !ok {
				continue
			}
			if f, ok := toNumber(v); ok {
				d.categories[c] = roundScore(f)
				d.catPresent[c] = true
			}
		}
		break
	}
	return d
}

func (d draft) anyCategory() bool {
	for _, present := range d.catPresent {
		if present {
			return true
		}
	}
	return false
}

func (d draft) categoriesDegenerate() bool {
	for c, present := range d.catPresent {
		if present && d.categories[c] != 0 {
			return false
		}
	}
	return true
}
