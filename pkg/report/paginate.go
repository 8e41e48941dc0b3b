package report

import (
	"fmt"
)

// block is a unit of layout: one or more lines sharing a line height.
type block struct {
	lines      [][]Instruction // X set, Y relative to the line top
	lineHeight float64
	spaceAfter float64
	// list names the enumeration a list item belongs to.
	list string
	// keepWithNext holds a heading on the same page as the first line after it.
	keepWithNext bool
}

func (b block) height() float64 {
	return float64(len(b.lines)) * b.lineHeight
}

type cursorState int

const (
	writingBlock cursorState = iota
	pageBreakPending
	done
)

// continuedMarker opens a page that resumes a list started on an earlier one.
const continuedMarker = "(continued)"

// cursor is the single forward layout cursor. It never moves backwards.
type cursor struct {
	cfg     LayoutConfig
	measure Measurer
	pages   []Page
	y       float64
	state   cursorState
	// fresh is true while nothing but a continuation marker is on the page.
	fresh  bool
	placed map[string]bool
}

func paginate(blocks []block, cfg LayoutConfig, m Measurer) []Page {
	c := &cursor{cfg: cfg, measure: m, placed: make(map[string]bool)}
	c.newPage()

	for i, b := range blocks {
		if len(b.lines) == 0 {
			continue
		}
		required := b.height()
		if b.keepWithNext && i+1 < len(blocks) && len(blocks[i+1].lines) > 0 {
			required += reserveFor(blocks[i+1], cfg.Capacity()-required)
		}
		// Blocks taller than a page start where the cursor is and flow.
		if !c.fits(required) && required <= cfg.Capacity()+epsilon {
			c.breakPage(b.list)
		}
		for _, line := range b.lines {
			if !c.fits(b.lineHeight) {
				c.breakPage(b.list)
			}
			c.place(line, b.lineHeight)
			if b.list != "" {
				c.placed[b.list] = true
			}
		}
		c.y += b.spaceAfter
	}
	c.state = done
	return c.pages
}

const epsilon = 1e-9

// reserveFor is the space a heading keeps for the block after it: the whole
// block when both fit on one page, else its first line.
func reserveFor(next block, room float64) float64 {
	if next.height() <= room+epsilon {
		return next.height()
	}
	return next.lineHeight
}

func (c *cursor) fits(h float64) bool {
	return c.y+h <= c.cfg.BodyLimit()+epsilon
}

// breakPage starts a new page unless the current one is still empty, and
// marks the continuation of a list that already has lines on earlier pages.
func (c *cursor) breakPage(list string) {
	if c.fresh {
		return
	}
	c.state = pageBreakPending
	c.newPage()
	if list != "" && c.placed[list] {
		c.place([]Instruction{{
			Kind:  KindText,
			X:     c.cfg.Margin,
			Width: c.measure.Width(continuedMarker, false, sizeSmall),
			Text:  continuedMarker,
			Size:  sizeSmall,
			Tone:  ToneMuted,
		}}, c.cfg.LineHeightBody)
		c.fresh = true
	}
	c.state = writingBlock
}

func (c *cursor) newPage() {
	c.pages = append(c.pages, Page{Number: len(c.pages) + 1})
	c.y = c.cfg.Margin
	c.fresh = true
}

func (c *cursor) place(line []Instruction, lineHeight float64) {
	page := &c.pages[len(c.pages)-1]
	for _, in := range line {
		in.Y += c.y
		page.Instructions = append(page.Instructions, in)
	}
	c.y += lineHeight
	c.fresh = false
}

// stampFooters appends the same centred footer to every page. It runs after
// body layout because the footer names the final page count.
func stampFooters(pages []Page, cfg LayoutConfig, m Measurer) {
	text := footerText(len(pages))
	w := m.Width(text, false, sizeSmall)
	footer := Instruction{
		Kind:  KindFooter,
		X:     (cfg.PageWidth - w) / 2,
		Y:     cfg.PageHeight - cfg.FooterReserve/2,
		Width: w,
		Text:  text,
		Size:  sizeSmall,
		Tone:  ToneMuted,
	}
	for i := range pages {
		pages[i].Instructions = append(pages[i].Instructions, footer)
	}
}

func footerText(pages int) string {
	unit := "pages"
	if pages == 1 {
		unit = "page"
	}
	return fmt.Sprintf("Verity authenticity report - %d %s", pages, unit)
}
