package report

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mono = MonoMeasurer{Regular: 0.5, Bold: 0.6}

func TestWrapNeverSplitsWords(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	letters := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.,;:!?"

	for iter := 0; iter < 300; iter++ {
		var sb strings.Builder
		words := 1 + rng.Intn(60)
		for w := 0; w < words; w++ {
			n := 1 + rng.Intn(18)
			for i := 0; i < n; i++ {
				sb.WriteByte(letters[rng.Intn(len(letters))])
			}
			sb.WriteString(strings.Repeat(" ", 1+rng.Intn(3)))
		}
		text := strings.TrimSpace(sb.String())
		maxWidth := 10 + rng.Float64()*400

		lines := Wrap(text, maxWidth, 10, mono)
		require.NotEmpty(t, lines)

		var got []string
		pos := 0
		for _, line := range lines {
			idx := strings.Index(text[pos:], line)
			require.GreaterOrEqual(t, idx, 0, "line %q is not a contiguous slice of the text", line)
			assert.Empty(t, strings.TrimSpace(text[pos:pos+idx]), "skipped non-space text before %q", line)
			end := pos + idx + len(line)
			if end < len(text) {
				assert.Equal(t, byte(' '), text[end], "line %q ends inside a word", line)
			}
			if pos+idx > 0 {
				assert.Equal(t, byte(' '), text[pos+idx-1], "line %q starts inside a word", line)
			}
			if len(strings.Fields(line)) > 1 {
				assert.LessOrEqual(t, mono.Width(line, false, 10), maxWidth+epsilon)
			}
			got = append(got, strings.Fields(line)...)
			pos = end
		}
		assert.Equal(t, strings.Fields(text), got)
	}
}

func TestWrapLongWordGetsOwnLine(t *testing.T) {
	lines := Wrap("a supercalifragilisticexpialidocious b", 50, 10, mono)
	assert.Equal(t, []string{"a", "supercalifragilisticexpialidocious", "b"}, lines)
}

func TestWrapPreservesInteriorSpacing(t *testing.T) {
	lines := Wrap("one   two", 1000, 10, mono)
	assert.Equal(t, []string{"one   two"}, lines)
}

func TestWrapBreaksOnNewline(t *testing.T) {
	lines := Wrap("first line\nsecond line", 1000, 10, mono)
	assert.Equal(t, []string{"first line", "second line"}, lines)
}

func TestWrapMeasuresBoldBeforeBreaking(t *testing.T) {
	m := MonoMeasurer{Regular: 0.5, Bold: 1.0}

	// Regular: "hello " (30) + "hello" (25) = 55 fits in 100.
	plain := wrapSegments(segments("hello hello", true), 100, 10, m)
	assert.Len(t, plain, 1)

	// Bold: "fraud " (60) + "fraud" (50) = 110 does not.
	bold := wrapSegments(segments("fraud fraud", true), 100, 10, m)
	require.Len(t, bold, 2)
	assert.True(t, bold[0][0].bold)
}

func TestRunsSplitByWeight(t *testing.T) {
	line := wrapSegments(segments("the seal was forged badly", true), 1000, 10, mono)[0]
	ins := runs(line, 40, 10, ToneNeutral, mono)
	require.Len(t, ins, 3)

	assert.Equal(t, "the seal was ", ins[0].Text)
	assert.False(t, ins[0].Bold)
	assert.Equal(t, "forged ", ins[1].Text)
	assert.True(t, ins[1].Bold)
	assert.Equal(t, "badly", ins[2].Text)

	assert.Equal(t, 40.0, ins[0].X)
	assert.InDelta(t, ins[0].X+ins[0].Width, ins[1].X, epsilon)
	assert.InDelta(t, ins[1].X+mono.Width("forged ", true, 10), ins[2].X, epsilon)
}
