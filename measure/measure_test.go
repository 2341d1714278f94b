package measure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rezi-tui/rezi/measure"
)

func TestStringWidth_ASCII(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"single char", "a", 1},
		{"word", "Hello", 5},
		{"sentence", "Hello World", 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, measure.StringWidth(tt.input))
		})
	}
}

func TestStringWidth_CJK(t *testing.T) {
	// "漢字" — two wide CJK code points, width 4.
	assert.Equal(t, 4, measure.StringWidth("漢字"))
}

func TestStringWidth_ZWJEmojiFamily(t *testing.T) {
	family := "👨‍👩‍👧‍👦" // man-woman-girl-boy family, single cluster under wide

	wide := measure.StringWidthWithPolicy(family, measure.EmojiPolicyWide)
	assert.Equal(t, 2, wide)

	narrow := measure.StringWidthWithPolicy(family, measure.EmojiPolicyNarrow)
	assert.Equal(t, 1, narrow)
}

func TestStringWidth_ControlCharsAreZero(t *testing.T) {
	assert.Equal(t, 0, measure.StringWidth("\x00"))
	assert.Equal(t, 0, measure.StringWidth("\t"))
	assert.Equal(t, 0, measure.StringWidth("\x7f"))
}

func TestStringWidth_InvalidUTF8ReplacedNotRaised(t *testing.T) {
	// An unpaired continuation byte decodes to U+FFFD (width 1) and must
	// never panic.
	assert.NotPanics(t, func() {
		_ = measure.StringWidth(string([]byte{0xff, 'A'}))
	})
}

func TestTruncate_FitsUnchanged(t *testing.T) {
	s := "hello"
	w := measure.StringWidth(s)
	assert.Equal(t, s, measure.TruncateEnd(s, w))
	assert.Equal(t, s, measure.TruncateMiddle(s, w))
	assert.Equal(t, s, measure.TruncateStart(s, w))
}

func TestTruncate_ZeroOrNegativeBudgetIsEmpty(t *testing.T) {
	assert.Equal(t, "", measure.TruncateEnd("hello", 0))
	assert.Equal(t, "", measure.TruncateEnd("hello", -3))
}

func TestTruncate_BudgetOneIsSingleEllipsis(t *testing.T) {
	assert.Equal(t, "…", measure.TruncateEnd("hello", 1))
	assert.Equal(t, "…", measure.TruncateMiddle("hello", 1))
	assert.Equal(t, "…", measure.TruncateStart("hello", 1))
}

func TestTruncate_CJKBoundaries(t *testing.T) {
	s := "漢字"
	assert.Equal(t, "漢字", measure.TruncateEnd(s, 4))
	assert.Equal(t, "漢…", measure.TruncateEnd(s, 3))
	assert.Equal(t, "…", measure.TruncateEnd(s, 2))
}

func TestTruncate_MiddleFallsBackToEndBelowFour(t *testing.T) {
	s := "abcdefgh"
	assert.Equal(t, measure.TruncateEnd(s, 3), measure.TruncateMiddle(s, 3))
}

func TestTruncate_MiddlePreservesBothEdges(t *testing.T) {
	path := "/home/user/documents/project/src/index.ts"
	got := measure.TruncateMiddle(path, 25)

	assert.LessOrEqual(t, measure.StringWidth(got), 25)
	assert.Contains(t, got, "…")
	assert.True(t, len(got) > 0 && got[0] == path[0], "prefix edge preserved")
	assert.True(t, len(got) > 0 && got[len(got)-1] == path[len(path)-1], "suffix edge preserved")
}

func TestTruncate_NeverSplitsGraphemeClusters(t *testing.T) {
	// "👋🏻" is a two-codepoint cluster; truncating to width 1 must not split
	// it into a bare modifier.
	s := "👋🏻 hi"
	got := measure.TruncateEnd(s, 1)
	assert.Equal(t, "…", got)
}

func TestMeasurer_CacheRoundTrips(t *testing.T) {
	m := measure.NewMeasurer(measure.EmojiPolicyWide, 4)
	assert.Equal(t, 5, m.StringWidth("hello"))
	assert.Equal(t, 5, m.StringWidth("hello")) // cached path
	assert.Equal(t, 1, m.CacheLen())

	m.InvalidateCache()
	assert.Equal(t, 0, m.CacheLen())
}

func TestMeasurer_CacheEviction(t *testing.T) {
	m := measure.NewMeasurer(measure.EmojiPolicyWide, 2)
	m.StringWidth("a")
	m.StringWidth("b")
	m.StringWidth("c") // evicts "a"
	assert.Equal(t, 2, m.CacheLen())
}
