package service

import (
	"encoding/binary"

	"github.com/rezi-tui/rezi/rezierr"
	"github.com/rezi-tui/rezi/transport/internal/domain/model"
	"github.com/rezi-tui/rezi/transport/internal/domain/value"
)

func pad4(n int) int { return (n + 3) &^ 3 }

// EncodeEventBatch serializes events into the 24-byte-header wire
// format. droppedCount rides in the header's flags word, the one field
// reserved for implementation-defined bits.
func EncodeEventBatch(events []model.Event, droppedCount uint32) []byte {
	var body []byte
	for _, e := range events {
		payload := encodeEventPayload(e)
		rec := make([]byte, value.EventRecordHeaderSize+pad4(len(payload)))
		value.EventRecordHeader{
			RecordType: e.Type,
			RecordSize: uint32(len(rec) - value.EventRecordHeaderSize),
			TimeMs:     e.TimeMs,
			Flags:      e.Flags,
		}.Encode(rec[:value.EventRecordHeaderSize])
		copy(rec[value.EventRecordHeaderSize:], payload)
		body = append(body, rec...)
	}

	total := value.EventBatchHeaderSize + len(body)
	out := make([]byte, total)
	value.EventBatchHeader{
		Magic:      value.EventBatchMagic,
		Version:    value.EventBatchVersion,
		TotalSize:  uint32(total),
		EventCount: uint32(len(events)),
		BatchFlags: droppedCount,
	}.Encode(out[:value.EventBatchHeaderSize])
	copy(out[value.EventBatchHeaderSize:], body)
	return out
}

// DecodeEventBatch parses the wire format back into events plus the
// dropped-count carried in BatchFlags.
func DecodeEventBatch(data []byte) ([]model.Event, uint32, error) {
	header, ok := value.DecodeEventBatchHeader(data)
	if !ok {
		return nil, 0, rezierr.New(rezierr.Format, "event batch shorter than header size")
	}
	if header.Magic != value.EventBatchMagic {
		return nil, 0, rezierr.Newf(rezierr.Format, "bad event batch magic 0x%08x", header.Magic)
	}
	if header.Version != value.EventBatchVersion {
		return nil, 0, rezierr.Newf(rezierr.Format, "unsupported event batch version %d", header.Version)
	}
	if int(header.TotalSize) != len(data) {
		return nil, 0, rezierr.Newf(rezierr.Format, "event batch total_size %d does not match buffer length %d", header.TotalSize, len(data))
	}

	events := make([]model.Event, 0, header.EventCount)
	cursor := value.EventBatchHeaderSize
	for i := uint32(0); i < header.EventCount; i++ {
		if len(data)-cursor < value.EventRecordHeaderSize {
			return nil, 0, rezierr.New(rezierr.Format, "truncated event record header")
		}
		rh, _ := value.DecodeEventRecordHeader(data[cursor:])
		cursor += value.EventRecordHeaderSize
		if cursor+int(rh.RecordSize) > len(data) {
			return nil, 0, rezierr.New(rezierr.Format, "event record payload exceeds buffer")
		}
		payload := data[cursor : cursor+int(rh.RecordSize)]
		cursor += int(rh.RecordSize)

		ev, err := decodeEventPayload(rh, payload)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, ev)
	}
	return events, header.BatchFlags, nil
}

func encodeEventPayload(e model.Event) []byte {
	switch e.Type {
	case value.EventResize:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint32(buf[0:4], e.ResizeCols)
		binary.LittleEndian.PutUint32(buf[4:8], e.ResizeRows)
		return buf
	case value.EventMouse:
		buf := make([]byte, 20)
		binary.LittleEndian.PutUint32(buf[0:4], uint32(e.MouseX))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(e.MouseY))
		binary.LittleEndian.PutUint32(buf[8:12], e.MouseButtons)
		binary.LittleEndian.PutUint32(buf[12:16], e.MouseMods)
		binary.LittleEndian.PutUint32(buf[16:20], e.MouseKind)
		return buf
	case value.EventKeyboard:
		buf := make([]byte, 12)
		binary.LittleEndian.PutUint32(buf[0:4], e.KeyCode)
		binary.LittleEndian.PutUint32(buf[4:8], e.KeyMods)
		binary.LittleEndian.PutUint32(buf[8:12], e.KeyAction)
		return buf
	case value.EventFocus:
		buf := make([]byte, 4)
		if e.FocusGained {
			buf[0] = 1
		}
		return buf
	case value.EventPaste:
		text := []byte(e.PasteText)
		buf := make([]byte, 4+len(text))
		binary.LittleEndian.PutUint32(buf[0:4], uint32(len(text)))
		copy(buf[4:], text)
		return buf
	case value.EventUserPosted:
		buf := make([]byte, 8+len(e.UserPayload))
		binary.LittleEndian.PutUint32(buf[0:4], e.UserTag)
		binary.LittleEndian.PutUint32(buf[4:8], uint32(len(e.UserPayload)))
		copy(buf[8:], e.UserPayload)
		return buf
	default:
		return nil
	}
}

func decodeEventPayload(rh value.EventRecordHeader, p []byte) (model.Event, error) {
	ev := model.Event{Type: rh.RecordType, TimeMs: rh.TimeMs, Flags: rh.Flags}
	switch rh.RecordType {
	case value.EventResize:
		if len(p) < 8 {
			return ev, rezierr.New(rezierr.Format, "truncated resize event")
		}
		ev.ResizeCols = binary.LittleEndian.Uint32(p[0:4])
		ev.ResizeRows = binary.LittleEndian.Uint32(p[4:8])
	case value.EventMouse:
		if len(p) < 20 {
			return ev, rezierr.New(rezierr.Format, "truncated mouse event")
		}
		ev.MouseX = int32(binary.LittleEndian.Uint32(p[0:4]))
		ev.MouseY = int32(binary.LittleEndian.Uint32(p[4:8]))
		ev.MouseButtons = binary.LittleEndian.Uint32(p[8:12])
		ev.MouseMods = binary.LittleEndian.Uint32(p[12:16])
		ev.MouseKind = binary.LittleEndian.Uint32(p[16:20])
	case value.EventKeyboard:
		if len(p) < 12 {
			return ev, rezierr.New(rezierr.Format, "truncated keyboard event")
		}
		ev.KeyCode = binary.LittleEndian.Uint32(p[0:4])
		ev.KeyMods = binary.LittleEndian.Uint32(p[4:8])
		ev.KeyAction = binary.LittleEndian.Uint32(p[8:12])
	case value.EventFocus:
		if len(p) < 4 {
			return ev, rezierr.New(rezierr.Format, "truncated focus event")
		}
		ev.FocusGained = p[0] != 0
	case value.EventPaste:
		if len(p) < 4 {
			return ev, rezierr.New(rezierr.Format, "truncated paste event")
		}
		n := binary.LittleEndian.Uint32(p[0:4])
		if int(4+n) > len(p) {
			return ev, rezierr.New(rezierr.Format, "paste event text exceeds payload")
		}
		ev.PasteText = string(p[4 : 4+n])
	case value.EventUserPosted:
		if len(p) < 8 {
			return ev, rezierr.New(rezierr.Format, "truncated user-posted event")
		}
		ev.UserTag = binary.LittleEndian.Uint32(p[0:4])
		n := binary.LittleEndian.Uint32(p[4:8])
		if int(8+n) > len(p) {
			return ev, rezierr.New(rezierr.Format, "user-posted payload exceeds record")
		}
		ev.UserPayload = append([]byte(nil), p[8:8+n]...)
	default:
		return ev, rezierr.Newf(rezierr.Format, "unknown event record type %d", rh.RecordType)
	}
	return ev, nil
}
