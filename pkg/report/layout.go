// Package report lays a canonical finding out into fixed-size pages and
// encodes those pages as PDF.
package report

import (
	"errors"
	"fmt"
)

// ErrInvalidLayout is returned for page geometry that cannot hold any body text.
var ErrInvalidLayout = errors.New("invalid layout configuration")

// LayoutConfig is the page geometry, in points.
type LayoutConfig struct {
	PageWidth         float64 `yaml:"page_width"`
	PageHeight        float64 `yaml:"page_height"`
	Margin            float64 `yaml:"margin"`
	FooterReserve     float64 `yaml:"footer_reserve"`
	LineHeightBody    float64 `yaml:"line_height_body"`
	LineHeightHeading float64 `yaml:"line_height_heading"`
}

// DefaultLayout is an A4 page.
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		PageWidth:         595.28,
		PageHeight:        841.89,
		Margin:            40,
		FooterReserve:     48,
		LineHeightBody:    14,
		LineHeightHeading: 22,
	}
}

// ContentWidth is the horizontal space available to body text.
func (c LayoutConfig) ContentWidth() float64 {
	return c.PageWidth - 2*c.Margin
}

// BodyLimit is the lowest y body content may reach on any page.
func (c LayoutConfig) BodyLimit() float64 {
	return c.PageHeight - c.FooterReserve
}

// Capacity is the vertical space available to body content on one page.
func (c LayoutConfig) Capacity() float64 {
	return c.BodyLimit() - c.Margin
}

// Validate rejects configurations the layout engine cannot paginate. Every
// page must hold at least a continuation marker plus one line of any class,
// which guarantees that pagination always makes progress.
func (c LayoutConfig) Validate() error {
	switch {
	case c.PageWidth <= 0 || c.PageHeight <= 0:
		return fmt.Errorf("%w: page size %gx%g", ErrInvalidLayout, c.PageWidth, c.PageHeight)
	case c.Margin < 0 || c.FooterReserve < 0:
		return fmt.Errorf("%w: negative margin or footer reserve", ErrInvalidLayout)
	case c.LineHeightBody <= 0 || c.LineHeightHeading <= 0:
		return fmt.Errorf("%w: line heights must be positive", ErrInvalidLayout)
	case c.ContentWidth() <= 0:
		return fmt.Errorf("%w: margins leave no content width", ErrInvalidLayout)
	}
	need := c.LineHeightBody + max(c.LineHeightBody, c.LineHeightHeading)
	if c.Capacity() < need {
		return fmt.Errorf("%w: body area %.1fpt is shorter than %.1fpt", ErrInvalidLayout, c.Capacity(), need)
	}
	return nil
}

// Kind distinguishes draw instructions.
type Kind int

const (
	KindText Kind = iota
	KindBar
	KindFooter
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBar:
		return "bar"
	case KindFooter:
		return "footer"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Tone is the semantic colour of an instruction.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneMuted
	ToneLow
	ToneMedium
	ToneHigh
)

// Instruction is one positioned draw operation. Y is the top of the line box
// the instruction belongs to. Width is the measured text width or the bar length.
type Instruction struct {
	Kind   Kind
	X, Y   float64
	Width  float64
	Height float64 // bars only
	Text   string
	Bold   bool
	Size   float64
	Tone   Tone
}

// Page is one laid-out page. The last instruction is always the footer.
type Page struct {
	Number       int
	Instructions []Instruction
}

// Footer returns the page's footer stamp.
func (p Page) Footer() (Instruction, bool) {
	n := len(p.Instructions)
	if n == 0 || p.Instructions[n-1].Kind != KindFooter {
		return Instruction{}, false
	}
	return p.Instructions[n-1], true
}

// Body returns every instruction except the footer.
func (p Page) Body() []Instruction {
	if _, ok := p.Footer(); ok {
		return p.Instructions[:len(p.Instructions)-1]
	}
	return p.Instructions
}

// Text joins the text of all body instructions, one line per instruction.
func (p Page) Text() string {
	var out []byte
	for _, in := range p.Body() {
		if in.Kind != KindText {
			continue
		}
		out = append(out, in.Text...)
		out = append(out, '\n')
	}
	return string(out)
}
