package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/verity-adk/pkg/engine"
)

// testLayout holds exactly 20 body lines per page.
func testLayout() LayoutConfig {
	return LayoutConfig{
		PageWidth:         300,
		PageHeight:        240,
		Margin:            20,
		FooterReserve:     20,
		LineHeightBody:    10,
		LineHeightHeading: 10,
	}
}

func textLine(s string) []Instruction {
	return []Instruction{{Kind: KindText, X: 20, Text: s, Size: sizeBody}}
}

func assertBodyWithinLimit(t *testing.T, pages []Page, cfg LayoutConfig, lineHeight float64) {
	t.Helper()
	for _, p := range pages {
		for _, in := range p.Body() {
			if in.Kind != KindText {
				continue
			}
			assert.GreaterOrEqual(t, in.Y, cfg.Margin-epsilon, "page %d %q above margin", p.Number, in.Text)
			assert.LessOrEqual(t, in.Y+lineHeight, cfg.BodyLimit()+epsilon, "page %d %q overflows", p.Number, in.Text)
		}
	}
}

func TestPaginateExactMultiplesOfCapacity(t *testing.T) {
	cfg := testLayout()
	linesPerPage := int(cfg.Capacity() / cfg.LineHeightBody)
	require.Equal(t, 20, linesPerPage)

	for k := 2; k <= 5; k++ {
		t.Run(fmt.Sprintf("%d pages of single-line blocks", k), func(t *testing.T) {
			var blocks []block
			for i := 0; i < k*linesPerPage; i++ {
				blocks = append(blocks, block{lines: [][]Instruction{textLine(fmt.Sprint(i))}, lineHeight: 10})
			}
			pages := paginate(blocks, cfg, mono)
			stampFooters(pages, cfg, mono)
			assert.Len(t, pages, k)
			assertBodyWithinLimit(t, pages, cfg, 10)
			for _, p := range pages {
				assert.Len(t, p.Body(), linesPerPage)
				_, ok := p.Footer()
				assert.True(t, ok)
			}
		})

		t.Run(fmt.Sprintf("%d pages of one tall block", k), func(t *testing.T) {
			b := block{lineHeight: 10}
			for i := 0; i < k*linesPerPage; i++ {
				b.lines = append(b.lines, textLine(fmt.Sprint(i)))
			}
			pages := paginate([]block{b}, cfg, mono)
			assert.Len(t, pages, k)
			assertBodyWithinLimit(t, pages, cfg, 10)
		})

		t.Run(fmt.Sprintf("%d pages of two-line blocks", k), func(t *testing.T) {
			var blocks []block
			for i := 0; i < k*linesPerPage/2; i++ {
				blocks = append(blocks, block{lines: [][]Instruction{textLine("a"), textLine("b")}, lineHeight: 10})
			}
			pages := paginate(blocks, cfg, mono)
			assert.Len(t, pages, k)
		})
	}
}

func TestPaginateMovesBlockThatDoesNotFit(t *testing.T) {
	cfg := testLayout()
	var blocks []block
	for i := 0; i < 19; i++ {
		blocks = append(blocks, block{lines: [][]Instruction{textLine("filler")}, lineHeight: 10})
	}
	blocks = append(blocks, block{lines: [][]Instruction{textLine("x"), textLine("y")}, lineHeight: 10})

	pages := paginate(blocks, cfg, mono)
	require.Len(t, pages, 2)
	assert.Len(t, pages[0].Body(), 19)
	require.Len(t, pages[1].Body(), 2)
	assert.Equal(t, "x", pages[1].Body()[0].Text)
	assert.Equal(t, cfg.Margin, pages[1].Body()[0].Y)
}

func TestPaginateKeepsHeadingWithNextLine(t *testing.T) {
	cfg := testLayout()
	var blocks []block
	for i := 0; i < 19; i++ {
		blocks = append(blocks, block{lines: [][]Instruction{textLine("filler")}, lineHeight: 10})
	}
	blocks = append(blocks,
		block{lines: [][]Instruction{textLine("Heading")}, lineHeight: 10, keepWithNext: true},
		block{lines: [][]Instruction{textLine("first")}, lineHeight: 10},
	)

	pages := paginate(blocks, cfg, mono)
	require.Len(t, pages, 2)
	assert.Equal(t, "Heading", pages[1].Body()[0].Text)
}

func TestPaginateKeepsHeadingWithWholeNextBlock(t *testing.T) {
	cfg := testLayout()
	var blocks []block
	for i := 0; i < 18; i++ {
		blocks = append(blocks, block{lines: [][]Instruction{textLine("filler")}, lineHeight: 10})
	}
	blocks = append(blocks,
		block{lines: [][]Instruction{textLine("Reasons")}, lineHeight: 10, keepWithNext: true},
		block{lines: [][]Instruction{textLine("r1 a"), textLine("r1 b")}, lineHeight: 10, list: "reasons"},
	)

	pages := paginate(blocks, cfg, mono)
	require.Len(t, pages, 2)
	assert.Len(t, pages[0].Body(), 18)
	require.Len(t, pages[1].Body(), 3)
	assert.Equal(t, "Reasons", pages[1].Body()[0].Text)
	assert.Equal(t, "r1 a", pages[1].Body()[1].Text)
}

func TestPaginateTallBlockAfterHeadingStillFlows(t *testing.T) {
	cfg := testLayout()
	tall := block{lineHeight: 10}
	for i := 0; i < 30; i++ {
		tall.lines = append(tall.lines, textLine(fmt.Sprint("line ", i)))
	}
	blocks := []block{
		{lines: [][]Instruction{textLine("intro")}, lineHeight: 10},
		{lines: [][]Instruction{textLine("Heading")}, lineHeight: 10, keepWithNext: true},
		tall,
	}

	pages := paginate(blocks, cfg, mono)
	require.Len(t, pages, 2)
	body := pages[0].Body()
	require.Len(t, body, 20)
	assert.Equal(t, "Heading", body[1].Text)
	assert.Equal(t, "line 0", body[2].Text)
	assert.Len(t, pages[1].Body(), 12)
	assertBodyWithinLimit(t, pages, cfg, 10)
}

func TestPaginateMarksContinuedLists(t *testing.T) {
	cfg := testLayout()
	var blocks []block
	for i := 0; i < 30; i++ {
		blocks = append(blocks, block{lines: [][]Instruction{textLine(fmt.Sprint("reason ", i))}, lineHeight: 10, list: "reasons"})
	}
	pages := paginate(blocks, cfg, mono)
	require.Len(t, pages, 2)
	assert.Equal(t, continuedMarker, pages[1].Body()[0].Text)
	assert.Equal(t, "reason 20", pages[1].Body()[1].Text)
	assertBodyWithinLimit(t, pages, cfg, 10)

	for _, in := range pages[0].Body() {
		assert.NotEqual(t, continuedMarker, in.Text)
	}
}

func TestPaginateNoMarkerOutsideLists(t *testing.T) {
	cfg := testLayout()
	var blocks []block
	for i := 0; i < 30; i++ {
		blocks = append(blocks, block{lines: [][]Instruction{textLine("para")}, lineHeight: 10})
	}
	pages := paginate(blocks, cfg, mono)
	require.Len(t, pages, 2)
	assert.Equal(t, "para", pages[1].Body()[0].Text)
}

func TestLayoutConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultLayout().Validate())
	assert.NoError(t, testLayout().Validate())

	bad := []func(*LayoutConfig){
		func(c *LayoutConfig) { c.PageWidth = 0 },
		func(c *LayoutConfig) { c.Margin = 200 },
		func(c *LayoutConfig) { c.LineHeightBody = 0 },
		func(c *LayoutConfig) { c.FooterReserve = -1 },
		func(c *LayoutConfig) { c.FooterReserve = 205 },
	}
	for i, mutate := range bad {
		cfg := testLayout()
		mutate(&cfg)
		err := cfg.Validate()
		assert.ErrorIs(t, err, ErrInvalidLayout, "case %d", i)
	}
}

func sampleFinding(reasons int) engine.Finding {
	claim := "Signed lease agreement"
	f := engine.Finding{
		Score:          38,
		RiskLevel:      engine.RiskHigh,
		Verdict:        "The document shows clear signs of manipulation in the signature block.",
		Signals:        []string{"Mismatch between stated and embedded dates", "Clean EXIF"},
		CategoryScores: engine.CategoryScores{30, 22, 45, 60, 81, 70},
		Filenames:      []string{"lease.pdf"},
		Filename:       "lease.pdf",
		Claim:          &claim,
	}
	f.Reasons = append(f.Reasons, "The signature looks Tampered. The paper itself seems authentic.")
	for i := 1; i < reasons; i++ {
		f.Reasons = append(f.Reasons, fmt.Sprintf("Reason %d: the totals on page %d are inconsistent with the line items listed above.", i, i))
	}
	return f
}

func newTestRenderer() *Renderer {
	return NewRenderer(
		WithMeasurer(mono),
		WithClock(func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) }),
	)
}

func TestRenderEmphasizesRiskTerms(t *testing.T) {
	pages, err := newTestRenderer().Render(sampleFinding(1), DefaultLayout())
	require.NoError(t, err)
	require.Len(t, pages, 1)

	var tampered, authentic *Instruction
	for i, in := range pages[0].Body() {
		if strings.Contains(in.Text, "Tampered.") {
			tampered = &pages[0].Body()[i]
		}
		if strings.Contains(in.Text, "authentic.") {
			authentic = &pages[0].Body()[i]
		}
	}
	require.NotNil(t, tampered)
	require.NotNil(t, authentic)
	assert.True(t, tampered.Bold)
	assert.Equal(t, "Tampered.", strings.TrimSpace(tampered.Text))
	assert.False(t, authentic.Bold)
}

func TestRenderFootersAreUniversalAndIdentical(t *testing.T) {
	cfg := DefaultLayout()
	cfg.LineHeightHeading = cfg.LineHeightBody

	for _, reasons := range []int{1, 40, 120} {
		pages, err := newTestRenderer().Render(sampleFinding(reasons), cfg)
		require.NoError(t, err)
		require.NotEmpty(t, pages)

		first, ok := pages[0].Footer()
		require.True(t, ok)
		assert.Contains(t, first.Text, fmt.Sprintf("%d page", len(pages)))
		assert.InDelta(t, cfg.PageWidth/2, first.X+first.Width/2, epsilon)

		for i, p := range pages {
			assert.Equal(t, i+1, p.Number)
			footers := 0
			for _, in := range p.Instructions {
				if in.Kind == KindFooter {
					footers++
				}
			}
			assert.Equal(t, 1, footers, "page %d", p.Number)
			footer, _ := p.Footer()
			assert.Equal(t, first, footer)
		}
		assertBodyWithinLimit(t, pages, cfg, cfg.LineHeightBody)
	}
}

func TestRenderContinuesReasonsAcrossPages(t *testing.T) {
	pages, err := newTestRenderer().Render(sampleFinding(120), DefaultLayout())
	require.NoError(t, err)
	require.Greater(t, len(pages), 1)

	assert.Equal(t, continuedMarker, pages[1].Body()[0].Text)
	assert.Contains(t, pages[len(pages)-1].Text(), "Clean EXIF")
}

func TestRenderBlockOrder(t *testing.T) {
	f := sampleFinding(2)
	f.Claim = nil
	pages, err := newTestRenderer().Render(f, DefaultLayout())
	require.NoError(t, err)
	text := pages[0].Text()

	order := []string{
		"Authenticity Analysis Report",
		"Generated 2026-10-17 09:00:00 UTC",
		"Files (1)",
		"lease.pdf",
		"Claim",
		NoClaim,
		"Authenticity score: 38/100",
		"Risk level: High",
		"Verdict",
		"Category Scores",
		"Multimodal Match",
		"Shadow Perspective",
		"Reasons",
		"Signals",
		"Clean EXIF",
	}
	last := -1
	for _, want := range order {
		idx := strings.Index(text, want)
		require.GreaterOrEqual(t, idx, 0, "missing %q", want)
		assert.Greater(t, idx, last, "%q out of order", want)
		last = idx
	}
}

func TestRenderDoesNotMutateFinding(t *testing.T) {
	f := sampleFinding(3)
	before := fmt.Sprintf("%#v", f)
	_, err := newTestRenderer().Render(f, DefaultLayout())
	require.NoError(t, err)
	assert.Equal(t, before, fmt.Sprintf("%#v", f))
}

func TestRenderRejectsInvalidLayout(t *testing.T) {
	_, err := newTestRenderer().Render(sampleFinding(1), LayoutConfig{})
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestRenderCategoryBars(t *testing.T) {
	pages, err := newTestRenderer().Render(sampleFinding(1), DefaultLayout())
	require.NoError(t, err)

	var bars []Instruction
	for _, in := range pages[0].Body() {
		if in.Kind == KindBar && in.Tone != ToneMuted {
			bars = append(bars, in)
		}
	}
	require.Len(t, bars, 6)
	track := DefaultLayout().ContentWidth() * 0.48
	assert.InDelta(t, track*0.30, bars[0].Width, 1e-6)
	assert.Equal(t, ToneHigh, bars[0].Tone)
	assert.Equal(t, ToneLow, bars[4].Tone)
}
