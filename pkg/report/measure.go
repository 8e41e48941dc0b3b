package report

import (
	"sync"
	"unicode/utf8"

	gofpdf "github.com/go-pdf/fpdf"
)

// Measurer reports the rendered width of text in points.
type Measurer interface {
	Width(text string, bold bool, size float64) float64
}

// FontMeasurer measures with the Helvetica core-font metrics the PDF encoder
// draws with, so wrap decisions match the final document.
type FontMeasurer struct {
	mu     sync.Mutex
	pdf    *gofpdf.Fpdf
	family string
}

// NewFontMeasurer returns a Helvetica measurer.
func NewFontMeasurer() *FontMeasurer {
	return &FontMeasurer{
		pdf:    gofpdf.New("P", "pt", "A4", ""),
		family: fontFamily,
	}
}

func (m *FontMeasurer) Width(text string, bold bool, size float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdf.SetFont(m.family, fontStyle(bold), size)
	return m.pdf.GetStringWidth(text)
}

// MonoMeasurer gives every rune the same advance, expressed as a fraction of
// the font size. Bold text uses its own advance.
type MonoMeasurer struct {
	Regular float64
	Bold    float64
}

func (m MonoMeasurer) Width(text string, bold bool, size float64) float64 {
	adv := m.Regular
	if bold {
		adv = m.Bold
	}
	return float64(utf8.RuneCountInString(text)) * adv * size
}

const fontFamily = "Helvetica"

func fontStyle(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}
