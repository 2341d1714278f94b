package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rezi-tui/rezi/rezierr"
	"github.com/rezi-tui/rezi/transport/internal/domain/model"
)

// Renderer consumes a built drawlist's bytes on behalf of the engine
// side. A nil error means rendered; the "coalesced" outcome is signaled
// by the transport itself (a newer accepted frame superseding this one)
// rather than by the renderer.
type Renderer func(frame []byte) error

// Capabilities describes the consumer's negotiated transport shape.
type Capabilities struct {
	MailboxEnabled bool
	SlotCount      int
	SlotBytes      int
	MaxEventBytes  int

	// FPSCap is the frame pacing hint forwarded to the engine; zero means
	// unpaced.
	FPSCap int
}

// Consumer is the engine-facing half of the Frame Transport: it drains
// published frames (mailbox or fallback), renders them, settles acks on
// the publisher, and queues outgoing event batches.
type Consumer struct {
	mailbox   *model.Mailbox
	publisher *Publisher
	render    Renderer

	maxEventBytes int
	caps          Capabilities

	pendingEvents   []model.Event
	pendingDropped  uint32
	eventsMu        sync.Mutex
	eventsOut       chan model.EventBatch

	cancel  context.CancelFunc
	done    chan struct{}
	running atomic.Bool
	failed  atomic.Bool
	runOnce sync.Once
}

// NewConsumer creates a consumer draining mailbox/fallback frames through
// render and exposing up to eventQueueDepth pending event batches.
func NewConsumer(mailbox *model.Mailbox, publisher *Publisher, render Renderer, maxEventBytes, eventQueueDepth, fpsCap int, mailboxEnabled bool) *Consumer {
	return &Consumer{
		mailbox:       mailbox,
		publisher:     publisher,
		render:        render,
		maxEventBytes: maxEventBytes,
		caps: Capabilities{
			MailboxEnabled: mailboxEnabled,
			SlotCount:      mailbox.SlotCount(),
			SlotBytes:      mailbox.SlotBytes(),
			MaxEventBytes:  maxEventBytes,
			FPSCap:         fpsCap,
		},
		eventsOut: make(chan model.EventBatch, eventQueueDepth),
	}
}

// Start begins the consumer's drain loop. Safe to call once; subsequent
// calls are no-ops.
func (c *Consumer) Start(ctx context.Context) {
	c.runOnce.Do(func() {
		loopCtx, cancel := context.WithCancel(ctx)
		c.cancel = cancel
		c.done = make(chan struct{})
		c.running.Store(true)
		go c.loop(loopCtx)
	})
}

func (c *Consumer) loop(ctx context.Context) {
	defer close(c.done)
	defer c.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.mailbox.Notify():
			c.drainMailbox()
		case ff := <-c.publisher.FallbackChan():
			c.handleFallback(ff)
		}
	}
}

// Render errors surface on the frame's own completed ack as a backend
// failure; they do not poison the transport. Only the event path below is
// transport-fatal.

func (c *Consumer) drainMailbox() {
	data, seq, _, ok := c.mailbox.TryConsume()
	if !ok {
		return
	}
	c.publisher.SettleAccepted(seq)
	c.publisher.SettleCompleted(seq, c.safeRender(data))
}

func (c *Consumer) handleFallback(ff fallbackFrame) {
	c.publisher.SettleAcceptedByToken(ff.token)
	c.publisher.SettleCompletedByToken(ff.token, c.safeRender(ff.data))
}

func (c *Consumer) safeRender(data []byte) error {
	if c.render == nil {
		return nil
	}
	if err := c.render(data); err != nil {
		return rezierr.Wrap(rezierr.BackendError, "render failed", err)
	}
	return nil
}

// PostEvent queues an event for the next FlushEvents call. The batch size
// bound is enforced at flush time, where exceeding it is a fatal transport
// error.
func (c *Consumer) PostEvent(e model.Event) {
	c.eventsMu.Lock()
	defer c.eventsMu.Unlock()
	c.pendingEvents = append(c.pendingEvents, e)
}

// NoteDroppedEvents records n events the producer discarded before they
// reached this consumer (input queue overflow upstream). The count rides
// out on the next flushed batch's dropped-count field.
func (c *Consumer) NoteDroppedEvents(n uint32) {
	c.eventsMu.Lock()
	defer c.eventsMu.Unlock()
	c.pendingDropped += n
}

// FlushEvents packages pending events into a batch and makes it available
// to PollEvents, enforcing maxEventBytes.
func (c *Consumer) FlushEvents() error {
	c.eventsMu.Lock()
	events := c.pendingEvents
	dropped := c.pendingDropped
	c.pendingEvents = nil
	c.pendingDropped = 0
	c.eventsMu.Unlock()

	if len(events) == 0 && dropped == 0 {
		return nil
	}

	encoded := EncodeEventBatch(events, dropped)
	if c.maxEventBytes > 0 && len(encoded) > c.maxEventBytes {
		err := rezierr.Newf(rezierr.TooLarge, "event batch %d bytes exceeds max %d", len(encoded), c.maxEventBytes)
		c.fail(err)
		return err
	}

	batch := model.EventBatch{Events: events, DroppedCount: dropped, Release: func() {}}
	select {
	case c.eventsOut <- batch:
	default:
		// Queue full: drop the oldest pending batch's events rather than
		// block the render loop.
		select {
		case <-c.eventsOut:
		default:
		}
		c.eventsOut <- batch
	}
	return nil
}

// PollEvents returns the next queued event batch, if any, without
// blocking.
func (c *Consumer) PollEvents() (model.EventBatch, bool) {
	select {
	case b := <-c.eventsOut:
		return b, true
	default:
		return model.EventBatch{}, false
	}
}

// GetCaps returns the consumer's negotiated capabilities.
func (c *Consumer) GetCaps() Capabilities {
	return c.caps
}

// fail moves the transport into its terminal failed state: every pending
// frame ack rejects now, and every future one rejects immediately.
func (c *Consumer) fail(cause error) {
	c.failed.Store(true)
	c.publisher.Fail(rezierr.Wrap(rezierr.BackendError, "transport failed", cause))
}

// Failed reports whether a fatal transport error (an event batch
// exceeding its configured bound) has occurred.
func (c *Consumer) Failed() bool {
	return c.failed.Load()
}

// Stop cancels the drain loop and waits for it to exit.
func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	if c.done != nil {
		<-c.done
	}
}
