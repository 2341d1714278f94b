package service

import (
	"bytes"
	"encoding/binary"

	"github.com/rezi-tui/rezi/drawlist/internal/domain/value"
)

// PadTo4 rounds n up to the next multiple of four, matching the wire
// format's 4-byte-aligned record sizes.
func PadTo4(n int) int {
	return (n + 3) &^ 3
}

// AppendRecord writes a record header (opcode, reserved, padded size) plus
// payload, zero-padded to a 4-byte boundary, into buf.
func AppendRecord(buf *bytes.Buffer, op value.Opcode, payload []byte) {
	padded := PadTo4(len(payload))
	var head [value.RecordHeaderSize]byte
	binary.LittleEndian.PutUint16(head[0:2], uint16(op))
	binary.LittleEndian.PutUint16(head[2:4], 0)
	binary.LittleEndian.PutUint32(head[4:8], uint32(padded))
	buf.Write(head[:])
	buf.Write(payload)
	if pad := padded - len(payload); pad > 0 {
		var zeros [4]byte
		buf.Write(zeros[:pad])
	}
}

func putI32(dst []byte, v int32) {
	binary.LittleEndian.PutUint32(dst, uint32(v))
}

func putU32(dst []byte, v uint32) {
	binary.LittleEndian.PutUint32(dst, v)
}

// EncodeClear returns CLEAR's (empty) payload.
func EncodeClear() []byte { return nil }

// EncodeFillRect returns FILL_RECT's payload: x,y,w,h then the encoded
// style.
func EncodeFillRect(x, y, w, h int32, style value.Style) []byte {
	buf := make([]byte, 16+value.EncodedStyleSize)
	putI32(buf[0:4], x)
	putI32(buf[4:8], y)
	putI32(buf[8:12], w)
	putI32(buf[12:16], h)
	style.Encode(buf[16:])
	return buf
}

// EncodeDrawText returns DRAW_TEXT's payload.
func EncodeDrawText(x, y int32, stringID, byteOff, byteLen uint32, style value.Style) []byte {
	buf := make([]byte, 20+value.EncodedStyleSize+4)
	putI32(buf[0:4], x)
	putI32(buf[4:8], y)
	putU32(buf[8:12], stringID)
	putU32(buf[12:16], byteOff)
	putU32(buf[16:20], byteLen)
	style.Encode(buf[20 : 20+value.EncodedStyleSize])
	// trailing 4 reserved bytes left zero
	return buf
}

// EncodePushClip returns PUSH_CLIP's payload.
func EncodePushClip(x, y, w, h int32) []byte {
	buf := make([]byte, 16)
	putI32(buf[0:4], x)
	putI32(buf[4:8], y)
	putI32(buf[8:12], w)
	putI32(buf[12:16], h)
	return buf
}

// EncodePopClip returns POP_CLIP's (empty) payload.
func EncodePopClip() []byte { return nil }

// EncodeDrawTextRun returns DRAW_TEXT_RUN's payload.
func EncodeDrawTextRun(x, y int32, blobID uint32) []byte {
	buf := make([]byte, 16)
	putI32(buf[0:4], x)
	putI32(buf[4:8], y)
	putU32(buf[8:12], blobID)
	// trailing 4 reserved bytes left zero
	return buf
}

// EncodeSetCursor returns SET_CURSOR's payload.
func EncodeSetCursor(x, y int32, shape uint8, visible, blink bool) []byte {
	buf := make([]byte, 12)
	putI32(buf[0:4], x)
	putI32(buf[4:8], y)
	buf[8] = shape
	if visible {
		buf[9] = 1
	}
	if blink {
		buf[10] = 1
	}
	// buf[11] reserved
	return buf
}

// EncodeDrawCanvas returns DRAW_CANVAS's payload: geometry plus a reference
// to the blob holding the opaque RGBA bytes (the core never embeds pixel
// data inline in the command stream).
func EncodeDrawCanvas(x, y int32, pxW, pxH uint32, blobID uint32, z int8) []byte {
	buf := make([]byte, 24)
	putI32(buf[0:4], x)
	putI32(buf[4:8], y)
	putU32(buf[8:12], pxW)
	putU32(buf[12:16], pxH)
	putU32(buf[16:20], blobID)
	buf[20] = byte(z)
	// buf[21:24] reserved
	return buf
}

// ImageFormat enumerates DRAW_IMAGE's pixel formats.
type ImageFormat uint8

const (
	ImageFormatRGBA8 ImageFormat = 0
)

// EncodeDrawImage returns DRAW_IMAGE's payload.
func EncodeDrawImage(x, y int32, pxW, pxH uint32, format ImageFormat, blobID uint32, z int8) []byte {
	buf := make([]byte, 28)
	putI32(buf[0:4], x)
	putI32(buf[4:8], y)
	putU32(buf[8:12], pxW)
	putU32(buf[12:16], pxH)
	buf[16] = byte(format)
	// buf[17:20] reserved
	putU32(buf[20:24], blobID)
	buf[24] = byte(z)
	// buf[25:28] reserved
	return buf
}

// EncodeDefString returns DEF_STRING's payload: id, byteLen, bytes.
func EncodeDefString(id uint32, raw []byte) []byte {
	buf := make([]byte, 8+len(raw))
	putU32(buf[0:4], id)
	putU32(buf[4:8], uint32(len(raw)))
	copy(buf[8:], raw)
	return buf
}

// EncodeDefBlob returns DEF_BLOB's payload: id, byteLen, bytes.
func EncodeDefBlob(id uint32, raw []byte) []byte {
	return EncodeDefString(id, raw) // identical layout
}

// EncodeFreeString returns FREE_STRING's payload.
func EncodeFreeString(id uint32) []byte {
	buf := make([]byte, 4)
	putU32(buf, id)
	return buf
}

// EncodeFreeBlob returns FREE_BLOB's payload.
func EncodeFreeBlob(id uint32) []byte {
	buf := make([]byte, 4)
	putU32(buf, id)
	return buf
}
