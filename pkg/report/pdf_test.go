package report

import (
	"bytes"
	"io"
	"testing"
	"time"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, pages []Page, cfg LayoutConfig, opts ...PDFOption) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, EncodePDF(&buf, pages, cfg, opts...))
	return buf.Bytes()
}

func TestEncodePDFIsValid(t *testing.T) {
	cfg := DefaultLayout()
	renderer := NewRenderer(WithClock(func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) }))

	for _, reasons := range []int{1, 150} {
		pages, err := renderer.Render(sampleFinding(reasons), cfg)
		require.NoError(t, err)

		raw := encode(t, pages, cfg, WithCompression(false))
		assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))

		require.NoError(t, pdfapi.Validate(bytes.NewReader(raw), nil))
		count, err := pdfapi.PageCount(bytes.NewReader(raw), nil)
		require.NoError(t, err)
		assert.Equal(t, len(pages), count)
	}
}

func TestEncodePDFContainsReportText(t *testing.T) {
	cfg := DefaultLayout()
	pages, err := NewRenderer().Render(sampleFinding(2), cfg)
	require.NoError(t, err)

	raw := encode(t, pages, cfg, WithCompression(false), WithTitle("lease report"))
	for _, want := range []string{
		"Authenticity Analysis Report",
		"Authenticity score: 38/100",
		"Risk level: High",
		"lease.pdf",
		"Verity authenticity report - 1 page",
	} {
		assert.True(t, bytes.Contains(raw, []byte(want)), "missing %q", want)
	}
}

func TestEncodePDFIsReproducibleWithFixedDate(t *testing.T) {
	cfg := DefaultLayout()
	pages, err := NewRenderer(WithMeasurer(mono)).Render(sampleFinding(3), cfg)
	require.NoError(t, err)

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := encode(t, pages, cfg, WithCreationDate(created))
	b := encode(t, pages, cfg, WithCreationDate(created))
	assert.Equal(t, a, b)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestEncodePDFReportsWriteErrors(t *testing.T) {
	cfg := DefaultLayout()
	pages, err := NewRenderer(WithMeasurer(mono)).Render(sampleFinding(1), cfg)
	require.NoError(t, err)

	err = EncodePDF(failingWriter{}, pages, cfg)
	assert.Error(t, err)
}
