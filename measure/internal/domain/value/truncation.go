package value

// TruncationMode selects where the ellipsis is inserted when a string must
// be shortened to fit a cell budget.
type TruncationMode int

const (
	// TruncationEnd appends "…" after the retained prefix.
	TruncationEnd TruncationMode = iota

	// TruncationMiddle keeps both edges and replaces the middle span with "…".
	TruncationMiddle

	// TruncationStart prepends "…" before the retained suffix.
	TruncationStart
)

// Ellipsis is the single-cell truncation marker used by all three policies.
const Ellipsis = "…"

// EllipsisWidth is the fixed cell cost reserved for the ellipsis marker.
const EllipsisWidth = 1
