// Package transport implements the Frame Transport: a mailbox-based
// handoff of built drawlist bytes from a builder to a consumer engine,
// with a transferable-buffer fallback, two-phase (accepted/completed)
// acknowledgments, and bounded event batches flowing back.
//
// This file is the only exported surface; the mailbox, publisher, and
// consumer implementations live under internal/domain and are reached
// only through Transport.
package transport

import (
	"context"
	"os"

	"github.com/rezi-tui/rezi/rezilog"
	"github.com/rezi-tui/rezi/transport/internal/domain/model"
	"github.com/rezi-tui/rezi/transport/internal/domain/service"
)

// FrameTransportKind selects the handoff path.
type FrameTransportKind string

const (
	FrameTransportAuto     FrameTransportKind = "auto"
	FrameTransportTransfer FrameTransportKind = "transfer"
	FrameTransportSAB      FrameTransportKind = "sab"
)

// Config configures a Transport.
type Config struct {
	FpsCap            int
	MaxEventBytes     int
	FrameTransport    FrameTransportKind
	FrameSabSlotCount int
	FrameSabSlotBytes int
}

// DefaultConfig prefers the mailbox path with a four-slot, 1 MiB ring.
func DefaultConfig() Config {
	return Config{
		FrameTransport:    FrameTransportAuto,
		FrameSabSlotCount: 4,
		FrameSabSlotBytes: 1 << 20, // 1 MiB
	}
}

// AcceptedAck is fulfilled when the consumer has received a frame.
type AcceptedAck = service.AcceptedAck

// CompletedAck is fulfilled when the consumer has rendered, coalesced, or
// failed a frame.
type CompletedAck = service.CompletedAck

// FrameHandle exposes a requested frame's two-phase acks.
type FrameHandle = service.FrameHandle

// Renderer consumes a drawlist's bytes on the consumer side.
type Renderer = service.Renderer

// Event is a single decoded event-batch record.
type Event = model.Event

// EventBatch is a decoded batch of events pushed back from the consumer.
type EventBatch = model.EventBatch

// Capabilities describes the negotiated transport shape.
type Capabilities = service.Capabilities

// Transport wires a Publisher (builder-facing) to a Consumer
// (engine-facing) in-process: a goroutine stands in for a worker thread
// or subprocess without changing the handoff contract.
type Transport struct {
	cfg       Config
	publisher *service.Publisher
	consumer  *service.Consumer

	useMailbox bool
	audit      *rezilog.FrameAuditWriter
}

// New constructs a Transport. render is invoked on the consumer side for
// every frame that reaches it; pass nil to no-op (useful for tests that
// only care about ack plumbing).
func New(cfg Config, render Renderer) *Transport {
	useMailbox := cfg.FrameTransport != FrameTransportTransfer
	slotCount := cfg.FrameSabSlotCount
	slotBytes := cfg.FrameSabSlotBytes
	if slotCount <= 0 {
		slotCount = 4
	}
	if slotBytes <= 0 {
		slotBytes = 1 << 20
	}

	mailbox := model.NewMailbox(slotCount, slotBytes)
	publisher := service.NewPublisher(mailbox, slotCount)
	consumer := service.NewConsumer(mailbox, publisher, render, cfg.MaxEventBytes, slotCount, cfg.FpsCap, useMailbox)

	return &Transport{
		cfg:        cfg,
		publisher:  publisher,
		consumer:   consumer,
		useMailbox: useMailbox,
		audit:      rezilog.NewFrameAuditWriter(os.Stderr),
	}
}

// Start begins the consumer's drain loop.
func (t *Transport) Start(ctx context.Context) {
	t.consumer.Start(ctx)
}

// RequestFrame ships data to the consumer, returning a handle over its
// accepted/completed acks. The mailbox path is used unless the transport
// is configured for FrameTransportTransfer or data exceeds slot capacity.
func (t *Transport) RequestFrame(data []byte) *FrameHandle {
	preferTransfer := t.cfg.FrameTransport == FrameTransportTransfer
	handle, usedMailbox := t.publisher.RequestFrame(data, preferTransfer)
	stage := "publish:transfer"
	if usedMailbox {
		stage = "publish:mailbox"
	}
	_ = t.audit.Write(rezilog.FrameAuditRecord{
		FrameSeq: handle.Seq(),
		Stage:    stage,
		Bytes:    len(data),
		Detail:   handle.TraceID(),
	})
	return handle
}

// PostEvent queues an event for the next FlushEvents call.
func (t *Transport) PostEvent(e Event) {
	t.consumer.PostEvent(e)
}

// NoteDroppedEvents records events discarded upstream of the transport;
// the count is carried on the next flushed batch.
func (t *Transport) NoteDroppedEvents(n uint32) {
	t.consumer.NoteDroppedEvents(n)
}

// FlushEvents packages queued events into a batch available to
// PollEvents, failing with TooLarge if the encoded batch would exceed
// MaxEventBytes.
func (t *Transport) FlushEvents() error {
	return t.consumer.FlushEvents()
}

// PollEvents returns the next queued event batch, if any, without
// blocking.
func (t *Transport) PollEvents() (EventBatch, bool) {
	return t.consumer.PollEvents()
}

// GetCaps returns the negotiated transport capabilities.
func (t *Transport) GetCaps() Capabilities {
	return t.consumer.GetCaps()
}

// Failed reports whether the transport has entered its terminal failed
// state (a fatal event-batch error). Once failed, every pending and
// future frame ack rejects.
func (t *Transport) Failed() bool {
	return t.consumer.Failed()
}

// Stop drains pending work and settles all in-flight acks with a
// "stopped" error.
func (t *Transport) Stop() {
	t.publisher.Stop()
	t.consumer.Stop()
}

// Dispose settles all in-flight acks with a "disposed" error immediately
// and terminates the consumer.
func (t *Transport) Dispose() {
	t.publisher.Dispose()
	t.consumer.Stop()
}

// EncodeEventBatch serializes events into the wire format PollEvents'
// batches use, exposed for tests and for callers that decode batches read
// directly off a real shared-memory segment.
func EncodeEventBatch(events []Event, droppedCount uint32) []byte {
	return service.EncodeEventBatch(events, droppedCount)
}

// DecodeEventBatch parses the wire format back into events.
func DecodeEventBatch(data []byte) ([]Event, uint32, error) {
	return service.DecodeEventBatch(data)
}
