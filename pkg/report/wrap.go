package report

import (
	"strings"
	"unicode"
)

// segment is one word together with the whitespace that followed it in the
// source text. Keeping the whitespace lets interior spacing advance the cursor
// exactly as written.
type segment struct {
	word  string
	space string
	bold  bool
}

// segments splits s into words with their trailing whitespace. Leading
// whitespace is dropped.
func segments(s string, emphasize bool) []segment {
	var out []segment
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	for i < len(s) {
		start := i
		for i < len(s) && !isSpace(s[i]) {
			i++
		}
		wordEnd := i
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		word := s[start:wordEnd]
		out = append(out, segment{
			word:  word,
			space: s[wordEnd:i],
			bold:  emphasize && IsRiskTerm(word),
		})
	}
	return out
}

// isSpace works on bytes; text is sanitized to ASCII before wrapping.
func isSpace(b byte) bool {
	return b < 0x80 && unicode.IsSpace(rune(b))
}

// wrapSegments breaks segs into lines no wider than maxWidth. A word that
// would overflow starts a new line; a word wider than maxWidth gets a line of
// its own rather than being split. Newlines in the source force a break.
// Every width is measured in the style the word will be drawn in.
func wrapSegments(segs []segment, maxWidth, size float64, m Measurer) [][]segment {
	var (
		lines [][]segment
		cur   []segment
		width float64
	)
	for _, sg := range segs {
		w := m.Width(sg.word, sg.bold, size)
		if len(cur) > 0 && width+w > maxWidth {
			lines = append(lines, cur)
			cur, width = nil, 0
		}
		cur = append(cur, sg)
		width += w + m.Width(flatSpace(sg.space), sg.bold, size)
		if strings.ContainsRune(sg.space, '\n') {
			lines = append(lines, cur)
			cur, width = nil, 0
		}
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// runs turns one wrapped line into text instructions starting at x. Adjacent
// words of the same weight share a run; each run is measured and placed on
// its own, so bold and regular text advance by their real widths.
func runs(line []segment, x, size float64, tone Tone, m Measurer) []Instruction {
	var out []Instruction
	for i := 0; i < len(line); {
		j := i
		var sb strings.Builder
		for j < len(line) && line[j].bold == line[i].bold {
			sb.WriteString(line[j].word)
			if j < len(line)-1 {
				sb.WriteString(flatSpace(line[j].space))
			}
			j++
		}
		text := sb.String()
		w := m.Width(text, line[i].bold, size)
		out = append(out, Instruction{
			Kind:  KindText,
			X:     x,
			Width: w,
			Text:  text,
			Bold:  line[i].bold,
			Size:  size,
			Tone:  tone,
		})
		x += w
		i = j
	}
	return out
}

// flatSpace turns line breaks and tabs inside a whitespace run into spaces.
func flatSpace(s string) string {
	if s == "" || s == " " {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
}

// Wrap breaks text into lines that fit maxWidth at the given size, using
// regular weight. It is the plain-text form of the wrapping used for reports.
func Wrap(text string, maxWidth, size float64, m Measurer) []string {
	lines := wrapSegments(segments(Sanitize(text), false), maxWidth, size, m)
	out := make([]string, len(lines))
	for i, line := range lines {
		var sb strings.Builder
		for j, sg := range line {
			sb.WriteString(sg.word)
			if j < len(line)-1 {
				sb.WriteString(flatSpace(sg.space))
			}
		}
		out[i] = sb.String()
	}
	return out
}
