package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// legacyListCap bounds merged reasons and signals.
const legacyListCap = 7

// mergeLegacy folds per-file entries of a legacy batch into one draft.
// Per-file risk levels are ignored; the merged risk comes from the merged score.
func (n *Normalizer) mergeLegacy(entries []map[string]any, uploaded []string) draft {
	var (
		merged    draft
		scoreSum  int
		catSums   [categoryCount]int
		verdicts  = make([]string, 0, len(entries))
		seen      = make(map[string]struct{})
		filenames = make([]string, 0, len(entries))
	)

	for i, entry := range entries {
		d := readDraft(entry)

		score := 0
		switch {
		case d.hasScore:
			score = roundScore(d.score)
		case d.anyCategory():
			score = meanPresent(d)
		}
		scoreSum += score

		for c := range catSums {
			if d.catPresent[c] && !d.categoriesDegenerate() {
				catSums[c] += clampScore(d.categories[c])
			} else {
				catSums[c] += score
			}
		}

		verdicts = append(verdicts, d.verdict)

		// Placeholders are dropped here so they never take a capped slot.
		for _, r := range d.reasons {
			if IsPlaceholder(r) {
				continue
			}
			if len(merged.reasons) < legacyListCap {
				merged.reasons = append(merged.reasons, r)
			}
		}
		for _, s := range d.signals {
			if IsPlaceholder(s) {
				continue
			}
			if _, dup := seen[s]; dup || len(merged.signals) >= legacyListCap {
				continue
			}
			seen[s] = struct{}{}
			merged.signals = append(merged.signals, s)
		}

		filenames = append(filenames, entryName(entry, i, uploaded))
	}

	count := len(entries)
	merged.score = float64(roundMean(scoreSum, count))
	merged.hasScore = true
	for c := range catSums {
		merged.categories[c] = roundMean(catSums[c], count)
		merged.catPresent[c] = true
	}
	merged.verdict = fmt.Sprintf("Combined analysis of %d files: %s", count, strings.Join(verdicts, " | "))
	merged.hasVerdict = true
	merged.filenames = filenames

	n.log.Debug("legacy batch merged",
		zap.Int("entries", count),
		zap.Int("score", int(merged.score)),
		zap.Int("reasons", len(merged.reasons)),
		zap.Int("signals", len(merged.signals)))
	return merged
}

// entryName resolves the file name of the i-th legacy entry.
func entryName(entry map[string]any, i int, uploaded []string) string {
	if name, ok := stringField(entry, entryNameKeys...); ok && name != "" {
		return name
	}
	if i < len(uploaded) && strings.TrimSpace(uploaded[i]) != "" {
		return strings.TrimSpace(uploaded[i])
	}
	return fmt.Sprintf("file-%d", i+1)
}
