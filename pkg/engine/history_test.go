package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryKeepsMostRecent(t *testing.T) {
	h := NewHistory(3)
	base := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		h.Add(Finding{Score: i * 10, RiskLevel: RiskForScore(i * 10)}, "", base.Add(time.Duration(i)*time.Minute))
	}

	recent := h.Recent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, 40, recent[0].Finding.Score)
	assert.Equal(t, 30, recent[1].Finding.Score)
	assert.Equal(t, 20, recent[2].Finding.Score)

	assert.Len(t, h.Recent(2), 2)
}

func TestHistorySaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.json")

	h := NewHistory(5)
	claim := "Passport scan"
	rec := h.Add(Finding{
		Score:     72,
		RiskLevel: RiskLow,
		Verdict:   "Consistent document",
		Reasons:   []string{"Fonts match"},
		Signals:   []string{"Clean EXIF"},
		Filenames: []string{"passport.png"},
		Filename:  "passport.png",
		Claim:     &claim,
	}, "passport-20261017-090000.pdf", time.Now())
	require.NoError(t, h.Save(path))

	loaded := NewHistory(5)
	require.NoError(t, loaded.Load(path))
	require.Len(t, loaded.Records, 1)

	got, ok := loaded.Get(rec.ID)
	require.True(t, ok)
	assert.Equal(t, rec.Finding, got.Finding)
	assert.Equal(t, "passport-20261017-090000.pdf", got.Artifact)

	_, ok = loaded.Get(rec.ID[:8])
	assert.True(t, ok)

	assert.Contains(t, loaded.Summary(), "passport.png")
}

func TestHistoryLoadMissingFile(t *testing.T) {
	h := NewHistory(0)
	require.NoError(t, h.Load(filepath.Join(t.TempDir(), "absent.json")))
	assert.Empty(t, h.Recent(0))
}
