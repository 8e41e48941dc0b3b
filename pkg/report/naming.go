package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/verity-adk/pkg/engine"
)

const (
	genericArtifactName = "authenticity-report"
	maxBaseName         = 60
)

// ArtifactName names the report file for f. One file gives its sanitized
// base name, several give "batch-N-files", none give a generic name. The
// generation time is always appended.
func ArtifactName(f engine.Finding, now time.Time) string {
	base := genericArtifactName
	switch n := len(f.Filenames); {
	case n == 1:
		if name := safeBaseName(f.Filenames[0]); name != "" {
			base = name
		}
	case n > 1:
		base = fmt.Sprintf("batch-%d-files", n)
	}
	return fmt.Sprintf("%s-%s.pdf", base, now.UTC().Format("20060102-150405"))
}

// safeBaseName strips directories and the extension and keeps only
// letters, digits, dots, dashes and underscores.
func safeBaseName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = Sanitize(name)

	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		ok := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '.'
		if ok {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "_.-")
	if len(out) > maxBaseName {
		out = strings.TrimRight(out[:maxBaseName], "_.-")
	}
	return out
}
