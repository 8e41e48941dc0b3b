package report

import (
	"strings"
)

// glyphSubstitutions maps common non-ASCII punctuation and currency glyphs to
// ASCII before anything else is replaced.
var glyphSubstitutions = strings.NewReplacer(
	"€", "EUR",
	"£", "GBP",
	"¥", "JPY",
	"₹", "INR",
	"₽", "RUB",
	"₩", "KRW",
	"¢", "c",
	"—", "-", // em dash
	"–", "-", // en dash
	"−", "-", // minus sign
	"‘", "'",
	"’", "'",
	"“", "\"",
	"”", "\"",
	"«", "\"",
	"»", "\"",
	"…", "...",
	"•", "*",
	"·", "*",
	" ", " ", // no-break space
	" ", " ", // thin space
	"©", "(c)",
	"®", "(R)",
	"™", "(TM)",
	"×", "x",
	"°", " deg",
	"→", "->",
)

// Sanitize makes s representable in the report font: known glyphs are
// substituted, tabs and carriage returns become spaces, and every remaining
// non-ASCII or control rune becomes '?'. Newlines are kept.
func Sanitize(s string) string {
	s = glyphSubstitutions.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteRune(r)
		case r == '\t' || r == '\r':
			b.WriteByte(' ')
		case r < 0x20 || r == 0x7f || r > 0x7e:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
