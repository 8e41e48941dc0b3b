package report

import (
	"fmt"
	"io"
	"time"

	gofpdf "github.com/go-pdf/fpdf"
)

// pdfToneColors maps tones to RGB.
var pdfToneColors = map[Tone][3]int{
	ToneNeutral: {30, 41, 59},
	ToneMuted:   {148, 163, 184},
	ToneLow:     {22, 163, 74},
	ToneMedium:  {217, 119, 6},
	ToneHigh:    {220, 38, 38},
}

type pdfOptions struct {
	compress bool
	title    string
	created  time.Time
}

// PDFOption configures EncodePDF.
type PDFOption func(*pdfOptions)

// WithCompression toggles content stream compression. It is on by default.
func WithCompression(on bool) PDFOption {
	return func(o *pdfOptions) { o.compress = on }
}

// WithTitle sets the document title metadata.
func WithTitle(title string) PDFOption {
	return func(o *pdfOptions) { o.title = title }
}

// WithCreationDate fixes the creation date so output is reproducible.
func WithCreationDate(t time.Time) PDFOption {
	return func(o *pdfOptions) { o.created = t }
}

// EncodePDF draws laid-out pages into a PDF document written to w.
func EncodePDF(w io.Writer, pages []Page, cfg LayoutConfig, opts ...PDFOption) error {
	o := pdfOptions{compress: true, title: "Authenticity Analysis Report"}
	for _, opt := range opts {
		opt(&o)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: cfg.PageWidth, Ht: cfg.PageHeight},
	})
	pdf.SetCompression(o.compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(cfg.Margin, cfg.Margin, cfg.Margin)
	pdf.SetTitle(o.title, false)
	pdf.SetCreator("verity-adk", false)
	if !o.created.IsZero() {
		pdf.SetCreationDate(o.created)
		pdf.SetModificationDate(o.created)
		pdf.SetCatalogSort(true)
	}

	for _, page := range pages {
		pdf.AddPage()
		for _, in := range page.Instructions {
			drawInstruction(pdf, in)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawInstruction(pdf *gofpdf.Fpdf, in Instruction) {
	rgb, ok := pdfToneColors[in.Tone]
	if !ok {
		rgb = pdfToneColors[ToneNeutral]
	}

	switch in.Kind {
	case KindBar:
		if in.Width <= 0 {
			return
		}
		pdf.SetFillColor(rgb[0], rgb[1], rgb[2])
		pdf.Rect(in.X, in.Y, in.Width, in.Height, "F")
	case KindText, KindFooter:
		if in.Text == "" {
			return
		}
		pdf.SetFont(fontFamily, fontStyle(in.Bold), in.Size)
		pdf.SetTextColor(rgb[0], rgb[1], rgb[2])
		// Y is the top of the line box; Text wants a baseline.
		pdf.Text(in.X, in.Y+in.Size, in.Text)
	}
}
