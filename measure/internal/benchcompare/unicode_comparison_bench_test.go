// Package benchcompare benchmarks measure.StringWidth against two widely
// used width libraries, lipgloss.Width and go-runewidth.StringWidth. Kept
// as its own package so the comparison dependencies never leak into
// measure's production import graph.
package benchcompare

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rezi-tui/rezi/measure"
)

var (
	compASCII = "The quick brown fox jumps over the lazy dog"
	compEmoji = "👋😀🎉❤️🚀"
	compCJK   = "你好世界，这是测试"
	compMixed = "Hello 👋 世界! Test 🎉"
	compLong  = strings.Repeat("Hello 👋 世界 ", 50)
)

func BenchmarkComparison_ASCII_Rezi(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = measure.StringWidth(compASCII)
	}
}

func BenchmarkComparison_ASCII_Lipgloss(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = lipgloss.Width(compASCII)
	}
}

func BenchmarkComparison_ASCII_Runewidth(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = runewidth.StringWidth(compASCII)
	}
}

func BenchmarkComparison_Emoji_Rezi(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = measure.StringWidth(compEmoji)
	}
}

func BenchmarkComparison_Emoji_Lipgloss(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = lipgloss.Width(compEmoji)
	}
}

func BenchmarkComparison_Emoji_Runewidth(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = runewidth.StringWidth(compEmoji)
	}
}

func BenchmarkComparison_CJK_Rezi(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = measure.StringWidth(compCJK)
	}
}

func BenchmarkComparison_CJK_Lipgloss(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = lipgloss.Width(compCJK)
	}
}

func BenchmarkComparison_CJK_Runewidth(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = runewidth.StringWidth(compCJK)
	}
}

func BenchmarkComparison_Mixed_Rezi(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = measure.StringWidth(compMixed)
	}
}

func BenchmarkComparison_Long_Rezi(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = measure.StringWidth(compLong)
	}
}
