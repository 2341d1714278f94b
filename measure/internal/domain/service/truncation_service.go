package service

import (
	"strings"

	"github.com/rezi-tui/rezi/measure/internal/domain/value"
)

// TruncationService shortens strings to a cell budget using end/middle/start
// ellipsis policies, never splitting a grapheme cluster.
type TruncationService struct {
	widths *WidthService
}

// NewTruncationService creates a truncation service backed by the given
// width service (so truncation honors the same emoji policy as measurement).
func NewTruncationService(widths *WidthService) *TruncationService {
	return &TruncationService{widths: widths}
}

// Truncate shortens s to fit within maxWidth cells under the given mode.
func (ts *TruncationService) Truncate(s string, maxWidth int, mode value.TruncationMode) string {
	if maxWidth <= 0 {
		return ""
	}

	clusters := ts.widths.GraphemeClusters(s)
	total := ts.widths.StringWidth(s)
	if total <= maxWidth {
		return s
	}

	if maxWidth == 1 {
		return value.Ellipsis
	}

	switch mode {
	case value.TruncationMiddle:
		if maxWidth <= 3 {
			return ts.truncateEnd(clusters, maxWidth)
		}
		return ts.truncateMiddle(clusters, maxWidth)
	case value.TruncationStart:
		return ts.truncateStart(clusters, maxWidth)
	default:
		return ts.truncateEnd(clusters, maxWidth)
	}
}

// TruncateEnd reserves the ellipsis cell at the tail: "prefix…".
func (ts *TruncationService) TruncateEnd(s string, maxWidth int) string {
	return ts.Truncate(s, maxWidth, value.TruncationEnd)
}

// TruncateMiddle reserves the ellipsis cell in the center: "pre…fix".
// Falls back to TruncateEnd when maxWidth <= 3 (too narrow to preserve both
// edges meaningfully).
func (ts *TruncationService) TruncateMiddle(s string, maxWidth int) string {
	return ts.Truncate(s, maxWidth, value.TruncationMiddle)
}

// TruncateStart reserves the ellipsis cell at the head: "…suffix".
func (ts *TruncationService) TruncateStart(s string, maxWidth int) string {
	return ts.Truncate(s, maxWidth, value.TruncationStart)
}

func (ts *TruncationService) truncateEnd(clusters []string, maxWidth int) string {
	budget := maxWidth - value.EllipsisWidth
	var b strings.Builder
	used := 0
	for _, c := range clusters {
		w := ts.widths.ClusterWidth(c)
		if used+w > budget {
			break
		}
		b.WriteString(c)
		used += w
	}
	return b.String() + value.Ellipsis
}

func (ts *TruncationService) truncateStart(clusters []string, maxWidth int) string {
	budget := maxWidth - value.EllipsisWidth
	var kept []string
	used := 0
	for i := len(clusters) - 1; i >= 0; i-- {
		w := ts.widths.ClusterWidth(clusters[i])
		if used+w > budget {
			break
		}
		kept = append(kept, clusters[i])
		used += w
	}
	var b strings.Builder
	b.WriteString(value.Ellipsis)
	for i := len(kept) - 1; i >= 0; i-- {
		b.WriteString(kept[i])
	}
	return b.String()
}

// truncateMiddle grows a prefix from the start and a suffix from the end in
// lockstep, alternating which side gets the next cluster so both edges stay
// represented, until the combined width would exceed the budget.
func (ts *TruncationService) truncateMiddle(clusters []string, maxWidth int) string {
	budget := maxWidth - value.EllipsisWidth

	var prefix, suffix []string
	lo, hi := 0, len(clusters)-1
	prefixWidth, suffixWidth := 0, 0
	takePrefix := true

	for lo <= hi {
		if takePrefix {
			w := ts.widths.ClusterWidth(clusters[lo])
			if prefixWidth+suffixWidth+w > budget {
				break
			}
			prefix = append(prefix, clusters[lo])
			prefixWidth += w
			lo++
		} else {
			w := ts.widths.ClusterWidth(clusters[hi])
			if prefixWidth+suffixWidth+w > budget {
				break
			}
			suffix = append(suffix, clusters[hi])
			suffixWidth += w
			hi--
		}
		takePrefix = !takePrefix
	}

	var b strings.Builder
	for _, c := range prefix {
		b.WriteString(c)
	}
	b.WriteString(value.Ellipsis)
	for i := len(suffix) - 1; i >= 0; i-- {
		b.WriteString(suffix[i])
	}
	return b.String()
}
