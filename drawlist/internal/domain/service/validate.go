// Package service implements the drawlist builder's validation and
// encoding logic: range-checking command parameters and serializing them
// into the wire format's fixed-layout records. All functions are pure
// transforms over value-package types.
package service

import (
	"math"

	"github.com/rezi-tui/rezi/rezierr"
)

const (
	minPixelDim = 1
	maxPixelDim = 65535
)

// ValidateCoord range-checks a coordinate against the signed 32-bit range
// (always true in Go's int32, kept as an explicit check so overflow from a
// wider caller-facing numeric type is still caught).
func ValidateCoord(v int64, field string) error {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return rezierr.Newf(rezierr.BadParams, "%s out of int32 range: %d", field, v)
	}
	return nil
}

// ValidateNonNegative fails if v is negative (widths/heights).
func ValidateNonNegative(v int32, field string) error {
	if v < 0 {
		return rezierr.Newf(rezierr.BadParams, "%s must be non-negative, got %d", field, v)
	}
	return nil
}

// ValidatePixelDim checks a pixel dimension falls within 1..65535.
func ValidatePixelDim(v uint32, field string) error {
	if v < minPixelDim || v > maxPixelDim {
		return rezierr.Newf(rezierr.BadParams, "%s must be in [1,65535], got %d", field, v)
	}
	return nil
}

// ValidateCursorShape checks the cursor shape enum is one of {0,1,2}.
func ValidateCursorShape(shape uint8) error {
	if shape > 2 {
		return rezierr.Newf(rezierr.BadParams, "cursor shape must be in {0,1,2}, got %d", shape)
	}
	return nil
}

// ValidateZLayer checks the image/canvas z-layer enum is one of {-1,0,1}.
func ValidateZLayer(z int8) error {
	if z < -1 || z > 1 {
		return rezierr.Newf(rezierr.BadParams, "z-layer must be in {-1,0,1}, got %d", z)
	}
	return nil
}

// ValidateRGBALen checks an RGBA canvas/image payload matches pxW*pxH*4
// exactly.
func ValidateRGBALen(pxW, pxH uint32, n int) error {
	want := uint64(pxW) * uint64(pxH) * 4
	if uint64(n) != want {
		return rezierr.Newf(rezierr.BadParams, "rgba byte length %d does not match pxW*pxH*4=%d", n, want)
	}
	return nil
}
