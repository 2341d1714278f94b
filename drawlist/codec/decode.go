// Package codec decodes drawlist frame bytes back into structured
// records and prints a human-readable dump. It is the reference reader
// for the wire format: tests round-trip built frames through it, and the
// Dump output doubles as a debugging aid.
package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rezi-tui/rezi/drawlist/internal/domain/value"
	"github.com/rezi-tui/rezi/rezierr"
)

// Record is one decoded command or prelude record.
type Record struct {
	Opcode  value.Opcode
	Payload []byte // the full padded payload as it appeared on the wire
}

// Frame is a fully decoded drawlist.
type Frame struct {
	Header  value.Header
	Records []Record
}

// Decode parses a built drawlist's bytes into a header and its ordered
// records (prelude records first, then body commands — the wire format
// does not itself distinguish them; callers that need the split can use
// FREE_*/DEF_* opcodes as the boundary marker).
func Decode(data []byte) (Frame, error) {
	header, ok := value.DecodeHeader(data)
	if !ok {
		return Frame{}, rezierr.New(rezierr.Format, "drawlist shorter than header size")
	}
	if header.Magic != value.Magic {
		return Frame{}, rezierr.Newf(rezierr.Format, "bad magic 0x%08x", header.Magic)
	}
	if header.Version != value.Version {
		return Frame{}, rezierr.Newf(rezierr.Format, "unsupported version %d", header.Version)
	}
	if int(header.TotalSize) != len(data) {
		return Frame{}, rezierr.Newf(rezierr.Format, "total_size %d does not match buffer length %d", header.TotalSize, len(data))
	}

	var records []Record
	if header.CmdBytes > 0 {
		if header.CmdOffset != value.HeaderSize {
			return Frame{}, rezierr.Newf(rezierr.Format, "cmd_offset %d must equal header size when cmd_bytes > 0", header.CmdOffset)
		}
		end := int(header.CmdOffset) + int(header.CmdBytes)
		if end > len(data) {
			return Frame{}, rezierr.New(rezierr.Format, "cmd region exceeds buffer")
		}
		cursor := int(header.CmdOffset)
		for cursor < end {
			if end-cursor < value.RecordHeaderSize {
				return Frame{}, rezierr.New(rezierr.Format, "truncated record header")
			}
			op := value.Opcode(binary.LittleEndian.Uint16(data[cursor : cursor+2]))
			size := binary.LittleEndian.Uint32(data[cursor+4 : cursor+8])
			cursor += value.RecordHeaderSize
			if cursor+int(size) > end {
				return Frame{}, rezierr.New(rezierr.Format, "record payload exceeds cmd region")
			}
			records = append(records, Record{Opcode: op, Payload: data[cursor : cursor+int(size)]})
			cursor += int(size)
		}
	} else if header.CmdOffset != 0 {
		return Frame{}, rezierr.New(rezierr.Format, "cmd_offset must be 0 when cmd_bytes == 0")
	}

	if int(header.CmdCount) != len(records) {
		return Frame{}, rezierr.Newf(rezierr.Format, "cmd_count %d does not match decoded record count %d", header.CmdCount, len(records))
	}

	return Frame{Header: header, Records: records}, nil
}

// Dump writes a one-line-per-record human-readable rendering of f to w, for
// debugging and test fixtures.
func Dump(w io.Writer, f Frame) error {
	if _, err := fmt.Fprintf(w, "drawlist version=%d total=%d cmd_count=%d\n", f.Header.Version, f.Header.TotalSize, f.Header.CmdCount); err != nil {
		return err
	}
	for i, r := range f.Records {
		line := dumpRecord(r)
		if _, err := fmt.Fprintf(w, "%4d  %s\n", i, line); err != nil {
			return err
		}
	}
	return nil
}

func dumpRecord(r Record) string {
	p := r.Payload
	switch r.Opcode {
	case value.OpClear:
		return "CLEAR"
	case value.OpFillRect:
		if len(p) < 16 {
			return "FILL_RECT <truncated>"
		}
		return fmt.Sprintf("FILL_RECT x=%d y=%d w=%d h=%d", i32(p, 0), i32(p, 4), i32(p, 8), i32(p, 12))
	case value.OpDrawText:
		if len(p) < 20 {
			return "DRAW_TEXT <truncated>"
		}
		return fmt.Sprintf("DRAW_TEXT x=%d y=%d stringId=%d byteOff=%d byteLen=%d",
			i32(p, 0), i32(p, 4), u32(p, 8), u32(p, 12), u32(p, 16))
	case value.OpPushClip:
		if len(p) < 16 {
			return "PUSH_CLIP <truncated>"
		}
		return fmt.Sprintf("PUSH_CLIP x=%d y=%d w=%d h=%d", i32(p, 0), i32(p, 4), i32(p, 8), i32(p, 12))
	case value.OpPopClip:
		return "POP_CLIP"
	case value.OpDrawTextRun:
		if len(p) < 12 {
			return "DRAW_TEXT_RUN <truncated>"
		}
		return fmt.Sprintf("DRAW_TEXT_RUN x=%d y=%d blobId=%d", i32(p, 0), i32(p, 4), u32(p, 8))
	case value.OpSetCursor:
		if len(p) < 11 {
			return "SET_CURSOR <truncated>"
		}
		return fmt.Sprintf("SET_CURSOR x=%d y=%d shape=%d visible=%d blink=%d", i32(p, 0), i32(p, 4), p[8], p[9], p[10])
	case value.OpDrawCanvas:
		if len(p) < 21 {
			return "DRAW_CANVAS <truncated>"
		}
		return fmt.Sprintf("DRAW_CANVAS x=%d y=%d pxW=%d pxH=%d blobId=%d z=%d", i32(p, 0), i32(p, 4), u32(p, 8), u32(p, 12), u32(p, 16), int8(p[20]))
	case value.OpDrawImage:
		if len(p) < 25 {
			return "DRAW_IMAGE <truncated>"
		}
		return fmt.Sprintf("DRAW_IMAGE x=%d y=%d pxW=%d pxH=%d format=%d blobId=%d z=%d", i32(p, 0), i32(p, 4), u32(p, 8), u32(p, 12), p[16], u32(p, 20), int8(p[24]))
	case value.OpDefString:
		id, raw := defPayload(p)
		return fmt.Sprintf("DEF_STRING id=%d byteLen=%d bytes=%q", id, len(raw), raw)
	case value.OpDefBlob:
		id, raw := defPayload(p)
		return fmt.Sprintf("DEF_BLOB id=%d byteLen=%d", id, len(raw))
	case value.OpFreeString:
		return fmt.Sprintf("FREE_STRING id=%d", u32(p, 0))
	case value.OpFreeBlob:
		return fmt.Sprintf("FREE_BLOB id=%d", u32(p, 0))
	default:
		return fmt.Sprintf("UNKNOWN(%d) %d bytes", r.Opcode, len(p))
	}
}

func defPayload(p []byte) (uint32, []byte) {
	if len(p) < 8 {
		return 0, nil
	}
	id := u32(p, 0)
	n := u32(p, 4)
	if int(8+n) > len(p) {
		return id, nil
	}
	return id, p[8 : 8+n]
}

func i32(b []byte, off int) int32 { return int32(binary.LittleEndian.Uint32(b[off : off+4])) }
func u32(b []byte, off int) uint32 { return binary.LittleEndian.Uint32(b[off : off+4]) }
