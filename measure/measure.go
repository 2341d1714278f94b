// Package measure provides deterministic, cacheable terminal-cell width
// measurement and ellipsis truncation under a pinned Unicode dataset.
//
// # Overview
//
// Package measure is the foundation every layout and truncation decision in
// the drawlist pipeline depends on: StringWidth must be byte-for-byte
// reproducible across processes and over time, so it pins its grapheme
// segmentation and East-Asian-width data (transitively, via uniseg/uniwidth)
// rather than tracking whatever Unicode version the host happens to ship.
//
// # Architecture
//
//   - internal/domain/value   — EmojiPolicy, TruncationMode (immutable value objects)
//   - internal/domain/service — WidthService, TruncationService (pure domain logic)
//   - internal/infrastructure/cache — bounded LRU width cache
//   - measure.go (this file)  — public API wrapper
//
// # Quick Start
//
//	w := measure.StringWidth("漢字")       // 4
//	w = measure.StringWidth("👋🏻")         // 2 (emoji + modifier, one cluster)
//	s := measure.TruncateMiddle(longPath, 25)
package measure

import (
	"os"

	"github.com/rezi-tui/rezi/measure/internal/domain/service"
	"github.com/rezi-tui/rezi/measure/internal/domain/value"
	"github.com/rezi-tui/rezi/measure/internal/infrastructure/cache"
)

// EmojiPolicy controls the width applied to grapheme clusters that contain
// an emoji code point.
type EmojiPolicy = value.EmojiPolicy

// Emoji policy constants re-exported for callers.
const (
	EmojiPolicyAuto   = value.EmojiPolicyAuto
	EmojiPolicyWide   = value.EmojiPolicyWide
	EmojiPolicyNarrow = value.EmojiPolicyNarrow
)

// defaultService is the package-level measurer used by the free functions
// below. Its policy can be overridden process-wide via
// ZRUI_EMOJI_WIDTH_POLICY.
var defaultService = service.NewWidthService(policyFromEnv())

func policyFromEnv() value.EmojiPolicy {
	if v, ok := os.LookupEnv("ZRUI_EMOJI_WIDTH_POLICY"); ok {
		return value.ParseEmojiPolicy(v)
	}
	return value.EmojiPolicyAuto
}

// ParseEmojiPolicy parses the ZRUI_EMOJI_WIDTH_POLICY values ("auto",
// "wide", "narrow") into an EmojiPolicy, defaulting to EmojiPolicyAuto on an
// unrecognized value. Exposed so callers building a Config outside of
// process-start env inspection (reziconfig.FromEnv, tests) can reuse the
// same parsing rule.
func ParseEmojiPolicy(s string) EmojiPolicy {
	return value.ParseEmojiPolicy(s)
}

// StringWidth returns the terminal-cell width of s using the process-default
// emoji policy (ZRUI_EMOJI_WIDTH_POLICY, default wide).
func StringWidth(s string) int {
	return defaultService.StringWidth(s)
}

// StringWidthWithPolicy returns the terminal-cell width of s under an
// explicit emoji policy, independent of the process default.
func StringWidthWithPolicy(s string, policy EmojiPolicy) int {
	return service.NewWidthService(policy).StringWidth(s)
}

// GraphemeClusters splits s into user-perceived characters per UAX #29.
func GraphemeClusters(s string) []string {
	return defaultService.GraphemeClusters(s)
}

// ClusterWidth returns the cell width of a single grapheme cluster under the
// process-default emoji policy.
func ClusterWidth(cluster string) int {
	return defaultService.ClusterWidth(cluster)
}

// TruncateEnd shortens s to maxWidth cells, placing "…" at the end.
func TruncateEnd(s string, maxWidth int) string {
	return service.NewTruncationService(defaultService).TruncateEnd(s, maxWidth)
}

// TruncateMiddle shortens s to maxWidth cells, placing "…" in the middle and
// preserving both edges. Falls back to TruncateEnd when maxWidth <= 3.
func TruncateMiddle(s string, maxWidth int) string {
	return service.NewTruncationService(defaultService).TruncateMiddle(s, maxWidth)
}

// TruncateStart shortens s to maxWidth cells, placing "…" at the start.
func TruncateStart(s string, maxWidth int) string {
	return service.NewTruncationService(defaultService).TruncateStart(s, maxWidth)
}

// Measurer is a reusable, policy-bound width/truncation measurer. Builders
// that need a pinned emoji policy (rather than the process default) should
// construct one and hold onto it for the lifetime of the builder.
type Measurer struct {
	widths *service.WidthService
	trunc  *service.TruncationService
	cache  *cache.WidthCache
}

// NewMeasurer creates a Measurer bound to policy, with an LRU width cache
// of the given capacity (0 selects the default of 10,000 entries).
func NewMeasurer(policy EmojiPolicy, cacheCapacity int) *Measurer {
	ws := service.NewWidthService(policy)
	return &Measurer{
		widths: ws,
		trunc:  service.NewTruncationService(ws),
		cache:  cache.NewWidthCache(cacheCapacity, cache.DefaultMaxKeyLen),
	}
}

// Policy returns the measurer's emoji policy.
func (m *Measurer) Policy() EmojiPolicy {
	return m.widths.Policy()
}

// StringWidth returns s's cell width, consulting and populating the
// measurer's LRU cache.
func (m *Measurer) StringWidth(s string) int {
	if w, ok := m.cache.Get(s); ok {
		return w
	}
	w := m.widths.StringWidth(s)
	m.cache.Put(s, w)
	return w
}

// GraphemeClusters splits s into user-perceived characters.
func (m *Measurer) GraphemeClusters(s string) []string {
	return m.widths.GraphemeClusters(s)
}

// TruncateEnd shortens s to maxWidth cells with a trailing ellipsis.
func (m *Measurer) TruncateEnd(s string, maxWidth int) string {
	return m.trunc.TruncateEnd(s, maxWidth)
}

// TruncateMiddle shortens s to maxWidth cells with a middle ellipsis.
func (m *Measurer) TruncateMiddle(s string, maxWidth int) string {
	return m.trunc.TruncateMiddle(s, maxWidth)
}

// TruncateStart shortens s to maxWidth cells with a leading ellipsis.
func (m *Measurer) TruncateStart(s string, maxWidth int) string {
	return m.trunc.TruncateStart(s, maxWidth)
}

// InvalidateCache clears the measurer's width cache. A Measurer's emoji
// policy is fixed at construction; a different policy takes a new Measurer.
func (m *Measurer) InvalidateCache() {
	m.cache.Clear()
}

// CacheLen reports how many entries are currently cached (for tests/metrics).
func (m *Measurer) CacheLen() int {
	return m.cache.Len()
}
