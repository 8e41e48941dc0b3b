package report

import (
	"strings"
	"unicode"
)

// riskTerms is the closed vocabulary of words that are set in bold inside
// reasons and signals.
var riskTerms = [...]string{
	"altered",
	"anomalies",
	"anomalous",
	"anomaly",
	"artifacts",
	"cloned",
	"contradiction",
	"contradictory",
	"counterfeit",
	"deepfake",
	"discrepancies",
	"discrepancy",
	"doctored",
	"edited",
	"fabricated",
	"fake",
	"forged",
	"forgery",
	"fraud",
	"fraudulent",
	"inconsistencies",
	"inconsistency",
	"inconsistent",
	"invalid",
	"irregular",
	"manipulated",
	"manipulation",
	"mismatch",
	"mismatched",
	"spliced",
	"splicing",
	"suspicious",
	"synthetic",
	"tampered",
	"tampering",
	"unverified",
}

var riskVocabulary = func() map[string]struct{} {
	m := make(map[string]struct{}, len(riskTerms))
	for _, t := range riskTerms {
		m[t] = struct{}{}
	}
	return m
}()

// IsRiskTerm reports whether word, minus trailing punctuation and compared
// case-insensitively, is in the risk vocabulary.
func IsRiskTerm(word string) bool {
	w := strings.ToLower(strings.TrimRightFunc(word, unicode.IsPunct))
	_, ok := riskVocabulary[w]
	return ok
}
