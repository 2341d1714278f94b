package model

import "github.com/rezi-tui/rezi/transport/internal/domain/value"

// Event is a single decoded event-batch record: a tagged union over the
// wire record types (resize, mouse, keyboard, focus, paste, user-posted).
type Event struct {
	Type   value.EventRecordType
	TimeMs uint32
	Flags  uint32

	ResizeCols, ResizeRows uint32

	MouseX, MouseY               int32
	MouseButtons, MouseMods      uint32
	MouseKind                    uint32

	KeyCode, KeyMods, KeyAction uint32

	FocusGained bool

	PasteText string

	UserTag     uint32
	UserPayload []byte
}

// EventBatch is a decoded batch of events pushed back from the consumer,
// with the per-batch dropped-event count and a release callback. The batch
// holds decoded events rather than a pooled buffer, and the in-process
// consumer sets Release to a no-op.
type EventBatch struct {
	Events       []Event
	DroppedCount uint32
	Release      func()
}
