// Package service implements the pinned-Unicode width and truncation
// domain services. Width computation is tiered: a uniwidth fast path for
// the common case, a uniseg grapheme-cluster fallback for sequences that
// need cluster-aware handling, and a configurable emoji width policy on
// top.
package service

import (
	"unicode"

	"github.com/rivo/uniseg"
	"github.com/unilibs/uniwidth"

	"github.com/rezi-tui/rezi/measure/internal/domain/value"
)

// WidthService computes terminal-cell widths for strings and grapheme
// clusters under the pinned Unicode 15.1.0 dataset carried transitively by
// uniseg/uniwidth, plus a configurable emoji-width policy.
type WidthService struct {
	policy value.EmojiPolicy
}

// NewWidthService creates a width service pinned to the given emoji policy.
func NewWidthService(policy value.EmojiPolicy) *WidthService {
	return &WidthService{policy: policy}
}

// Policy returns the service's configured emoji policy.
func (ws *WidthService) Policy() value.EmojiPolicy {
	return ws.policy
}

// StringWidth returns the total terminal-cell width of s.
//
// The uniwidth fast path covers ASCII/CJK/simple-emoji (the large
// majority of input), falling back to grapheme-cluster iteration only
// when the string contains ZWJ sequences, variation selectors, combining
// marks, or emoji modifiers, which require cluster-aware handling.
func (ws *WidthService) StringWidth(s string) int {
	if s == "" {
		return 0
	}

	if !containsClusterSensitiveRune(s) {
		return ws.floorSimpleString(s)
	}

	width := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		width += ws.ClusterWidth(gr.Str())
	}
	return width
}

// floorSimpleString applies uniwidth's fast string width, then applies the
// emoji policy per code point when the string contains emoji outside a
// cluster-sensitive sequence (e.g. a bare "⏰").
func (ws *WidthService) floorSimpleString(s string) int {
	width := 0
	for _, r := range s {
		w := uniwidth.RuneWidth(r)
		if isEmojiRune(r) {
			w = ws.emojiWidth(w)
		}
		width += w
	}
	return width
}

// GraphemeClusters splits s into user-perceived characters per UAX #29.
func (ws *WidthService) GraphemeClusters(s string) []string {
	if s == "" {
		return []string{}
	}
	clusters := make([]string, 0, len(s))
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}
	return clusters
}

// ClusterWidth computes the cell width of a single grapheme cluster: the
// maximum per-codepoint width in the cluster, adjusted by the emoji policy
// when any codepoint in the cluster is an emoji (see emojiWidth).
func (ws *WidthService) ClusterWidth(cluster string) int {
	if cluster == "" {
		return 0
	}

	base := uniseg.StringWidth(cluster)
	if base < 0 {
		base = 0
	}

	hasEmoji := false
	for _, r := range cluster {
		if isEmojiRune(r) {
			hasEmoji = true
			break
		}
	}
	if hasEmoji {
		base = ws.emojiWidth(base)
	}
	return base
}

// emojiWidth applies the emoji policy to the width of a cluster or code
// point that contains an emoji: narrow gives it exactly one cell; wide and
// auto raise it to at least two.
func (ws *WidthService) emojiWidth(base int) int {
	if ws.policy == value.EmojiPolicyNarrow {
		return 1
	}
	if floor := ws.policy.Floor(); floor > base {
		return floor
	}
	return base
}

// containsClusterSensitiveRune reports whether s contains any code point
// that requires full grapheme-cluster analysis rather than the uniwidth
// fast path: ZWJ, variation selectors, emoji skin-tone modifiers, or
// combining marks.
func containsClusterSensitiveRune(s string) bool {
	for _, r := range s {
		switch {
		case r == 0x200D: // zero-width joiner
			return true
		case r >= 0xFE00 && r <= 0xFE0F: // variation selectors
			return true
		case r >= 0x1F3FB && r <= 0x1F3FF: // emoji skin-tone modifiers
			return true
		case unicode.In(r, unicode.Mn, unicode.Me, unicode.Mc):
			return true
		}
	}
	return false
}

// isEmojiRune reports whether r falls in one of the emoji-presentation
// blocks that should be floored by the configured emoji policy. Ranges
// follow the Unicode emoji data blocks (Emoticons, Misc Symbols and
// Pictographs, Transport, Regional Indicators, Supplemental Symbols).
func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF: // Misc Symbols and Pictographs
		return true
	case r >= 0x1F600 && r <= 0x1F64F: // Emoticons
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // Transport and Map Symbols
		return true
	case r >= 0x1F700 && r <= 0x1F77F: // Alchemical Symbols
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // Supplemental Symbols and Pictographs
		return true
	case r >= 0x1FA00 && r <= 0x1FAFF: // Extended-A
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // Regional indicators (flags)
		return true
	case r >= 0x2600 && r <= 0x26FF: // Miscellaneous Symbols
		return true
	case r >= 0x2700 && r <= 0x27BF: // Dingbats
		return true
	case r >= 0x2300 && r <= 0x23FF: // Miscellaneous Technical (⏰ etc.)
		return true
	default:
		return false
	}
}
