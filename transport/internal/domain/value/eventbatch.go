// Package value defines the Frame Transport's wire types: the event-batch
// header and record layouts, and the mailbox slot-state enum.
package value

import "encoding/binary"

// EventBatchMagic is the event batch format's fixed 4-byte identifier.
const EventBatchMagic uint32 = 0x31564545 // "EEV1" little-endian

// EventBatchVersion is the only wire version this package produces.
const EventBatchVersion uint32 = 1

// EventBatchHeaderSize is the fixed 24-byte event batch header size.
const EventBatchHeaderSize = 24

// EventBatchHeader is the 24-byte little-endian header preceding a batch's
// event records.
type EventBatchHeader struct {
	Magic      uint32
	Version    uint32
	TotalSize  uint32
	EventCount uint32
	BatchFlags uint32
	Reserved   uint32
}

func (h EventBatchHeader) Encode(dst []byte) {
	_ = dst[EventBatchHeaderSize-1]
	binary.LittleEndian.PutUint32(dst[0:4], h.Magic)
	binary.LittleEndian.PutUint32(dst[4:8], h.Version)
	binary.LittleEndian.PutUint32(dst[8:12], h.TotalSize)
	binary.LittleEndian.PutUint32(dst[12:16], h.EventCount)
	binary.LittleEndian.PutUint32(dst[16:20], h.BatchFlags)
	binary.LittleEndian.PutUint32(dst[20:24], h.Reserved)
}

func DecodeEventBatchHeader(src []byte) (EventBatchHeader, bool) {
	if len(src) < EventBatchHeaderSize {
		return EventBatchHeader{}, false
	}
	return EventBatchHeader{
		Magic:      binary.LittleEndian.Uint32(src[0:4]),
		Version:    binary.LittleEndian.Uint32(src[4:8]),
		TotalSize:  binary.LittleEndian.Uint32(src[8:12]),
		EventCount: binary.LittleEndian.Uint32(src[12:16]),
		BatchFlags: binary.LittleEndian.Uint32(src[16:20]),
		Reserved:   binary.LittleEndian.Uint32(src[20:24]),
	}, true
}

// EventRecordType discriminates an event record's payload layout.
type EventRecordType uint32

const (
	EventResize     EventRecordType = 1
	EventMouse      EventRecordType = 2
	EventKeyboard   EventRecordType = 3
	EventFocus      EventRecordType = 4
	EventPaste      EventRecordType = 5
	EventUserPosted EventRecordType = 6
)

// Mouse event kinds.
const (
	MouseDown  uint32 = 3
	MouseUp    uint32 = 4
	MouseWheel uint32 = 5
)

// EventRecordHeaderSize is the fixed size of a record's
// type/size/time/flags fields, before its type-specific payload.
const EventRecordHeaderSize = 16

type EventRecordHeader struct {
	RecordType EventRecordType
	RecordSize uint32
	TimeMs     uint32
	Flags      uint32
}

func (h EventRecordHeader) Encode(dst []byte) {
	_ = dst[EventRecordHeaderSize-1]
	binary.LittleEndian.PutUint32(dst[0:4], uint32(h.RecordType))
	binary.LittleEndian.PutUint32(dst[4:8], h.RecordSize)
	binary.LittleEndian.PutUint32(dst[8:12], h.TimeMs)
	binary.LittleEndian.PutUint32(dst[12:16], h.Flags)
}

func DecodeEventRecordHeader(src []byte) (EventRecordHeader, bool) {
	if len(src) < EventRecordHeaderSize {
		return EventRecordHeader{}, false
	}
	return EventRecordHeader{
		RecordType: EventRecordType(binary.LittleEndian.Uint32(src[0:4])),
		RecordSize: binary.LittleEndian.Uint32(src[4:8]),
		TimeMs:     binary.LittleEndian.Uint32(src[8:12]),
		Flags:      binary.LittleEndian.Uint32(src[12:16]),
	}, true
}

// SlotState is a mailbox slot's lifecycle state.
type SlotState int32

const (
	SlotFree SlotState = iota
	SlotReady
	SlotConsuming
)
