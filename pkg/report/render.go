package report

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/verity-adk/pkg/engine"
	"github.com/user/verity-adk/pkg/logger"
	"github.com/user/verity-adk/pkg/metrics"
)

const (
	sizeTitle   = 18.0
	sizeHeading = 13.0
	sizeBody    = 10.0
	sizeSmall   = 8.0
)

// NoClaim is shown when a finding carries no claim.
const NoClaim = "No claim provided"

// Renderer lays findings out into pages. It keeps no state between calls.
type Renderer struct {
	measure Measurer
	now     func() time.Time
	log     *zap.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMeasurer replaces the Helvetica measurer.
func WithMeasurer(m Measurer) Option {
	return func(r *Renderer) { r.measure = m }
}

// WithClock fixes the time printed in the report header.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

// NewRenderer creates a renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.measure == nil {
		r.measure = NewFontMeasurer()
	}
	r.log = logger.OrNop(r.log)
	return r
}

// Render lays f out with a default renderer.
func Render(f engine.Finding, cfg LayoutConfig) ([]Page, error) {
	return NewRenderer().Render(f, cfg)
}

// Render lays f out into pages. The finding is only read.
func (r *Renderer) Render(f engine.Finding, cfg LayoutConfig) ([]Page, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	blocks := r.blocks(f, cfg)
	pages := paginate(blocks, cfg, r.measure)
	stampFooters(pages, cfg, r.measure)

	metrics.PagesRendered.Add(float64(len(pages)))
	r.log.Debug("report laid out",
		zap.Int("blocks", len(blocks)),
		zap.Int("pages", len(pages)))
	return pages, nil
}

// blocks builds the report body in reading order.
func (r *Renderer) blocks(f engine.Finding, cfg LayoutConfig) []block {
	lb := layoutBuilder{cfg: cfg, m: r.measure}
	risk := f.RiskLevel
	if risk == "" {
		risk = engine.RiskForScore(f.Score)
	}

	lb.paragraph("Authenticity Analysis Report", sizeTitle, true, ToneNeutral, cfg.LineHeightHeading, cfg.LineHeightBody/2)
	lb.paragraph("Generated "+r.now().UTC().Format("2006-01-02 15:04:05 UTC"), sizeSmall, false, ToneMuted, cfg.LineHeightBody, cfg.LineHeightBody/2)

	lb.heading(fmt.Sprintf("Files (%d)", len(f.Filenames)))
	if len(f.Filenames) == 0 {
		lb.paragraph("No files recorded", sizeBody, false, ToneMuted, cfg.LineHeightBody, 0)
	}
	for i, name := range f.Filenames {
		lb.item("", fmt.Sprintf("%d. ", i+1), name, false)
	}
	lb.gap()

	claim := NoClaim
	if f.Claim != nil && strings.TrimSpace(*f.Claim) != "" {
		claim = *f.Claim
	}
	lb.heading("Claim")
	lb.paragraph(claim, sizeBody, false, ToneNeutral, cfg.LineHeightBody, cfg.LineHeightBody/2)

	lb.paragraph(fmt.Sprintf("Authenticity score: %d/100", f.Score), sizeHeading, true, toneFor(risk), cfg.LineHeightHeading, 0)
	lb.paragraph(fmt.Sprintf("Risk level: %s", risk), sizeHeading, true, toneFor(risk), cfg.LineHeightHeading, cfg.LineHeightBody/2)

	lb.heading("Verdict")
	lb.paragraph(f.Verdict, sizeBody, false, ToneNeutral, cfg.LineHeightBody, cfg.LineHeightBody/2)

	lb.heading("Category Scores")
	for _, c := range engine.Categories() {
		lb.bar(c.Label(), f.CategoryScores.Get(c))
	}
	lb.gap()

	lb.heading("Reasons")
	for i, reason := range f.Reasons {
		lb.item("reasons", fmt.Sprintf("%d. ", i+1), reason, true)
	}
	lb.gap()

	lb.heading("Signals")
	for _, signal := range f.Signals {
		lb.item("signals", "- ", signal, true)
	}

	return lb.blocks
}

func toneFor(risk engine.RiskLevel) Tone {
	switch risk {
	case engine.RiskLow:
		return ToneLow
	case engine.RiskMedium:
		return ToneMedium
	default:
		return ToneHigh
	}
}

// layoutBuilder measures and wraps text into blocks.
type layoutBuilder struct {
	cfg    LayoutConfig
	m      Measurer
	blocks []block
}

func (lb *layoutBuilder) heading(text string) {
	lb.paragraph(text, sizeHeading, true, ToneNeutral, lb.cfg.LineHeightHeading, 0)
	lb.blocks[len(lb.blocks)-1].keepWithNext = true
}

// paragraph wraps text across the full content width.
func (lb *layoutBuilder) paragraph(text string, size float64, bold bool, tone Tone, lineHeight, spaceAfter float64) {
	segs := segments(Sanitize(text), false)
	for i := range segs {
		segs[i].bold = bold
	}
	b := block{lineHeight: lineHeight, spaceAfter: spaceAfter}
	for _, line := range wrapSegments(segs, lb.cfg.ContentWidth(), size, lb.m) {
		b.lines = append(b.lines, runs(line, lb.cfg.Margin, size, tone, lb.m))
	}
	lb.blocks = append(lb.blocks, b)
}

// item is a list entry with a marker and a hanging indent. Emphasized items
// set risk vocabulary in bold.
func (lb *layoutBuilder) item(list, marker, text string, emphasize bool) {
	indent := lb.m.Width("00. ", false, sizeBody)
	markerWidth := lb.m.Width(marker, false, sizeBody)
	if markerWidth > indent {
		indent = markerWidth
	}

	b := block{lineHeight: lb.cfg.LineHeightBody, spaceAfter: 2, list: list}
	segs := segments(Sanitize(text), emphasize)
	for i, line := range wrapSegments(segs, lb.cfg.ContentWidth()-indent, sizeBody, lb.m) {
		var ins []Instruction
		if i == 0 {
			ins = append(ins, Instruction{
				Kind:  KindText,
				X:     lb.cfg.Margin,
				Width: markerWidth,
				Text:  strings.TrimRight(marker, " "),
				Size:  sizeBody,
				Tone:  ToneMuted,
			})
		}
		ins = append(ins, runs(line, lb.cfg.Margin+indent, sizeBody, ToneNeutral, lb.m)...)
		b.lines = append(b.lines, ins)
	}
	if len(b.lines) > 0 {
		lb.blocks = append(lb.blocks, b)
	}
}

// bar is one category line: label, a track with a filled bar, and the value.
func (lb *layoutBuilder) bar(label string, score int) {
	width := lb.cfg.ContentWidth()
	labelCol := width * 0.38
	track := width * 0.48
	lh := lb.cfg.LineHeightBody
	barHeight := min(sizeBody*0.8, lh*0.8)
	offset := (lh - barHeight) / 2
	x := lb.cfg.Margin + labelCol
	value := fmt.Sprintf("%d", score)

	line := []Instruction{
		{Kind: KindText, X: lb.cfg.Margin, Width: lb.m.Width(label, false, sizeBody), Text: label, Size: sizeBody},
		{Kind: KindBar, X: x, Y: offset, Width: track, Height: barHeight, Tone: ToneMuted},
		{Kind: KindBar, X: x, Y: offset, Width: track * float64(score) / 100, Height: barHeight, Tone: toneFor(engine.RiskForScore(score))},
		{Kind: KindText, X: x + track + 6, Width: lb.m.Width(value, true, sizeBody), Text: value, Bold: true, Size: sizeBody},
	}
	lb.blocks = append(lb.blocks, block{lines: [][]Instruction{line}, lineHeight: lh, spaceAfter: 2})
}

// gap adds vertical space after the previous block.
func (lb *layoutBuilder) gap() {
	if n := len(lb.blocks); n > 0 {
		lb.blocks[n-1].spaceAfter += lb.cfg.LineHeightBody / 2
	}
}
