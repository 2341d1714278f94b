// Package model holds the Frame Transport's shared mutable state: the
// mailbox slot ring and its atomic control block, coordinated across
// goroutines through a published/consumed sequence pair.
package model

import (
	"sync/atomic"

	"github.com/rezi-tui/rezi/transport/internal/domain/value"
)

// Mailbox is a fixed ring of N slots, each up to B bytes, used for
// latest-wins handoff of drawlist bytes from publisher to consumer.
//
// In a genuine shared-memory deployment the slots and control block
// would live in a segment visible to both sides; here both sides are
// goroutines in one process, so atomics over a Go struct carry the same
// contract without an actual OS-level shared segment.
type Mailbox struct {
	slotBytes int
	data      [][]byte
	state     []atomic.Int32
	seq       []atomic.Uint64 // per-slot publish sequence, used to find the LRU ready slot

	publishedSeq   atomic.Uint64
	publishedSlot  atomic.Int32
	publishedBytes atomic.Uint32
	publishedToken atomic.Uint64
	consumedSeq    atomic.Uint64

	notify chan struct{} // buffered 1: signals a waiting consumer
}

// NewMailbox creates a mailbox with slotCount slots of slotBytes capacity
// each, all initially FREE.
func NewMailbox(slotCount, slotBytes int) *Mailbox {
	m := &Mailbox{
		slotBytes: slotBytes,
		data:      make([][]byte, slotCount),
		state:     make([]atomic.Int32, slotCount),
		seq:       make([]atomic.Uint64, slotCount),
		notify:    make(chan struct{}, 1),
	}
	for i := range m.data {
		m.data[i] = make([]byte, slotBytes)
	}
	return m
}

// SlotBytes returns the fixed per-slot capacity.
func (m *Mailbox) SlotBytes() int {
	return m.slotBytes
}

// SlotCount returns the number of slots in the ring.
func (m *Mailbox) SlotCount() int {
	return len(m.data)
}

// Publish copies data into a FREE slot, or steals the least-recently
// published READY slot if none is free (latest-wins), then publishes the
// new sequence/token. Returns false if data exceeds slot capacity.
func (m *Mailbox) Publish(data []byte, token uint64) (seq uint64, ok bool) {
	if len(data) > m.slotBytes {
		return 0, false
	}

	slot := m.acquireSlot()
	copy(m.data[slot], data)
	newSeq := m.publishedSeq.Add(1)
	m.seq[slot].Store(newSeq)
	m.state[slot].Store(int32(value.SlotReady))

	m.publishedSlot.Store(int32(slot))
	m.publishedBytes.Store(uint32(len(data)))
	m.publishedToken.Store(token)

	select {
	case m.notify <- struct{}{}:
	default:
	}
	return newSeq, true
}

func (m *Mailbox) acquireSlot() int {
	for i := range m.state {
		if m.state[i].CompareAndSwap(int32(value.SlotFree), int32(value.SlotConsuming)) {
			return i
		}
	}
	// No free slot: steal the READY slot with the oldest publish sequence.
	best := 0
	bestSeq := uint64(1) << 63
	for i := range m.state {
		if m.state[i].Load() != int32(value.SlotReady) {
			continue
		}
		if s := m.seq[i].Load(); s < bestSeq {
			best, bestSeq = i, s
		}
	}
	return best
}

// Notify returns the channel a consumer can select on to wake when a new
// frame has been published.
func (m *Mailbox) Notify() <-chan struct{} {
	return m.notify
}

// TryConsume claims the most recently published slot if it is newer than
// what this consumer has already consumed, copying its bytes out. Returns
// ok=false if nothing new is available.
func (m *Mailbox) TryConsume() (data []byte, seq uint64, token uint64, ok bool) {
	latest := m.publishedSeq.Load()
	if latest <= m.consumedSeq.Load() {
		return nil, 0, 0, false
	}
	slot := int(m.publishedSlot.Load())
	if !m.state[slot].CompareAndSwap(int32(value.SlotReady), int32(value.SlotConsuming)) {
		return nil, 0, 0, false
	}
	n := int(m.publishedBytes.Load())
	tok := m.publishedToken.Load()
	out := make([]byte, n)
	copy(out, m.data[slot][:n])
	m.state[slot].Store(int32(value.SlotFree))
	m.consumedSeq.Store(latest)
	return out, latest, tok, true
}

// PublishedSeq returns the most recently published sequence number.
func (m *Mailbox) PublishedSeq() uint64 {
	return m.publishedSeq.Load()
}
