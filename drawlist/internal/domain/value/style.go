package value

import "encoding/binary"

// Style attribute bits, packed into the encoded style's Attrs byte.
const (
	AttrBold          byte = 1 << 0
	AttrItalic        byte = 1 << 1
	AttrUnderline     byte = 1 << 2
	AttrInverse       byte = 1 << 3
	AttrDim           byte = 1 << 4
	AttrStrikethrough byte = 1 << 5
	AttrOverline      byte = 1 << 6
	AttrBlink         byte = 1 << 7
)

// Underline style codes, carried in the encoded style's UnderlineStyle
// field.
const (
	UnderlineNone     byte = 0
	UnderlineStraight byte = 1
	UnderlineDouble   byte = 2
	UnderlineCurly    byte = 3
	UnderlineDotted   byte = 4
	UnderlineDashed   byte = 5
)

// EncodedStyleSize is the fixed wire size of an encoded style record.
const EncodedStyleSize = 28

// Style is the 28-byte fixed-layout style record attached to FILL_RECT and
// DRAW_TEXT commands: packed RGB foreground/background, an attribute
// bitfield, underline style and color, and two link string-id refs (both
// zero means "no link").
type Style struct {
	FgR, FgG, FgB byte
	BgR, BgG, BgB byte
	Attrs         byte

	UnderlineStyle                  byte
	UnderlineR, UnderlineG, UnderlineB byte

	LinkURIRef uint32
	LinkIDRef  uint32
}

// IsZero reports whether the style carries no overrides. A FILL_RECT
// with a zero style touches no cells, so the builder emits nothing.
func (s Style) IsZero() bool {
	return s == Style{}
}

// HasLink reports whether the style carries a link.
func (s Style) HasLink() bool {
	return s.LinkURIRef != 0 || s.LinkIDRef != 0
}

// Encode writes the style's 28-byte wire representation to dst, which must
// be at least EncodedStyleSize long.
func (s Style) Encode(dst []byte) {
	_ = dst[EncodedStyleSize-1] // bounds check hint
	dst[0], dst[1], dst[2] = s.FgR, s.FgG, s.FgB
	dst[3], dst[4], dst[5] = s.BgR, s.BgG, s.BgB
	dst[6] = s.Attrs
	dst[7] = s.UnderlineStyle
	dst[8], dst[9], dst[10] = s.UnderlineR, s.UnderlineG, s.UnderlineB
	for i := 11; i < 19; i++ {
		dst[i] = 0 // reserved
	}
	binary.LittleEndian.PutUint32(dst[19:23], s.LinkURIRef)
	binary.LittleEndian.PutUint32(dst[23:27], s.LinkIDRef)
	dst[27] = 0 // reserved pad byte to reach 28
}

// DecodeStyle reads a 28-byte encoded style record from src.
func DecodeStyle(src []byte) Style {
	_ = src[EncodedStyleSize-1]
	return Style{
		FgR: src[0], FgG: src[1], FgB: src[2],
		BgR: src[3], BgG: src[4], BgB: src[5],
		Attrs:         src[6],
		UnderlineStyle: src[7],
		UnderlineR:    src[8],
		UnderlineG:    src[9],
		UnderlineB:    src[10],
		LinkURIRef:    binary.LittleEndian.Uint32(src[19:23]),
		LinkIDRef:     binary.LittleEndian.Uint32(src[23:27]),
	}
}
