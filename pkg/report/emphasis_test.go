package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRiskTerm(t *testing.T) {
	for _, w := range []string{"Tampered.", "fraud", "FORGED", "mismatch;", "suspicious!", "inconsistent,"} {
		assert.True(t, IsRiskTerm(w), w)
	}
	for _, w := range []string{"authentic", "genuine", "untampered", "(fraud", "", "..."} {
		assert.False(t, IsRiskTerm(w), w)
	}
}

func TestRiskVocabularyIsLowercase(t *testing.T) {
	assert.GreaterOrEqual(t, len(riskTerms), 35)
	for _, term := range riskTerms {
		assert.True(t, IsRiskTerm(term), term)
	}
}
