// Package service implements the Frame Transport's two sides: the
// publisher (builder-facing: RequestFrame and its two-phase acks) and the
// consumer (engine-facing: drains published frames, renders them, and
// pushes event batches back).
package service

import (
	"sync"

	"github.com/google/uuid"

	"github.com/rezi-tui/rezi/rezierr"
	"github.com/rezi-tui/rezi/transport/internal/domain/model"
)

// AcceptedAck is fulfilled when the consumer has received a frame.
type AcceptedAck struct {
	Err error
}

// CompletedAck is fulfilled when the consumer has rendered, coalesced, or
// failed a frame.
type CompletedAck struct {
	Err error
	// Coalesced marks a completed ack settled because a newer frame's
	// accepted-ack superseded this one before it was individually rendered.
	// A coalesced completion is not a failure.
	Coalesced bool
}

// FrameHandle is returned by RequestFrame: two one-shot futures over the
// frame's lifecycle.
type FrameHandle struct {
	token   uint64
	seq     uint64
	traceID string

	accepted  chan AcceptedAck
	completed chan CompletedAck

	acceptedOnce  sync.Once
	completedOnce sync.Once
}

func newFrameHandle(token, seq uint64) *FrameHandle {
	return &FrameHandle{
		token:     token,
		seq:       seq,
		traceID:   uuid.NewString(),
		accepted:  make(chan AcceptedAck, 1),
		completed: make(chan CompletedAck, 1),
	}
}

// Token returns the handle's publisher-assigned correlation token.
func (h *FrameHandle) Token() uint64 { return h.token }

// TraceID returns the handle's process-unique correlation id, used to tie
// together REZI_FRAME_AUDIT records for the same frame across its
// accepted/completed stages.
func (h *FrameHandle) TraceID() string { return h.traceID }

// Seq returns the mailbox sequence this frame was published under (0 for
// a transferable-buffer fallback frame, which has no mailbox slot).
func (h *FrameHandle) Seq() uint64 { return h.seq }

// Accepted returns the channel the accepted-ack arrives on.
func (h *FrameHandle) Accepted() <-chan AcceptedAck { return h.accepted }

// Completed returns the channel the completed-ack arrives on.
func (h *FrameHandle) Completed() <-chan CompletedAck { return h.completed }

func (h *FrameHandle) settleAccepted(a AcceptedAck) {
	h.acceptedOnce.Do(func() { h.accepted <- a })
}

func (h *FrameHandle) settleCompleted(c CompletedAck) {
	h.completedOnce.Do(func() { h.completed <- c })
}

// fallbackFrame is a transferable-buffer handoff: used when the mailbox is
// disabled or the frame exceeds slot capacity.
type fallbackFrame struct {
	token uint64
	data  []byte
}

// Publisher is the builder-facing half of the Frame Transport.
type Publisher struct {
	mu       sync.Mutex
	mailbox  *model.Mailbox
	fallback chan fallbackFrame

	nextToken uint64
	bySeq     map[uint64]*FrameHandle
	byToken   map[uint64]*FrameHandle
	lastSeq   uint64

	stopped  bool
	disposed bool
	failed   bool
	failErr  error
}

// NewPublisher creates a publisher writing into mailbox, with a
// fallback channel of the given buffer depth for oversized/disabled-mailbox
// frames.
func NewPublisher(mailbox *model.Mailbox, fallbackDepth int) *Publisher {
	return &Publisher{
		mailbox:  mailbox,
		fallback: make(chan fallbackFrame, fallbackDepth),
		bySeq:    make(map[uint64]*FrameHandle),
		byToken:  make(map[uint64]*FrameHandle),
	}
}

// FallbackChan exposes the transferable-buffer channel so a Consumer can
// select on it alongside the mailbox's notify channel.
func (p *Publisher) FallbackChan() <-chan fallbackFrame {
	return p.fallback
}

// RequestFrame publishes data, returning a handle with accepted/completed
// futures. useMailbox reports which path was used.
func (p *Publisher) RequestFrame(data []byte, preferTransfer bool) (handle *FrameHandle, useMailbox bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	token := p.nextToken
	p.nextToken++

	if p.disposed {
		h := newFrameHandle(token, 0)
		h.settleAccepted(AcceptedAck{Err: rezierr.New(rezierr.BackendError, "transport disposed")})
		h.settleCompleted(CompletedAck{Err: rezierr.New(rezierr.BackendError, "transport disposed")})
		return h, false
	}
	if p.stopped {
		h := newFrameHandle(token, 0)
		h.settleAccepted(AcceptedAck{Err: rezierr.New(rezierr.BackendError, "transport stopped")})
		h.settleCompleted(CompletedAck{Err: rezierr.New(rezierr.BackendError, "transport stopped")})
		return h, false
	}
	if p.failed {
		h := newFrameHandle(token, 0)
		h.settleAccepted(AcceptedAck{Err: p.failErr})
		h.settleCompleted(CompletedAck{Err: p.failErr})
		return h, false
	}

	if preferTransfer || len(data) > p.mailbox.SlotBytes() {
		cp := make([]byte, len(data))
		copy(cp, data)
		h := newFrameHandle(token, 0)
		p.byToken[token] = h
		p.fallback <- fallbackFrame{token: token, data: cp}
		return h, false
	}

	seq, ok := p.mailbox.Publish(data, token)
	if !ok {
		cp := make([]byte, len(data))
		copy(cp, data)
		h := newFrameHandle(token, 0)
		p.byToken[token] = h
		p.fallback <- fallbackFrame{token: token, data: cp}
		return h, false
	}
	h := newFrameHandle(token, seq)
	p.bySeq[seq] = h
	p.byToken[token] = h
	return h, true
}

// SettleAccepted is called by the Consumer once it has taken ownership of
// the frame published under seq (or, for fallback frames, under token via
// SettleAcceptedByToken). Any older pending frame is coalesced: its
// completed-ack settles now as "coalesced", since a strictly newer frame
// has already been accepted over it.
func (p *Publisher) SettleAccepted(seq uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settleAcceptedLocked(seq)
}

func (p *Publisher) settleAcceptedLocked(seq uint64) {
	if h, ok := p.bySeq[seq]; ok {
		h.settleAccepted(AcceptedAck{})
	}
	if seq > p.lastSeq {
		for s, h := range p.bySeq {
			if s < seq {
				h.settleCompleted(CompletedAck{Coalesced: true})
				delete(p.bySeq, s)
			}
		}
		p.lastSeq = seq
	}
}

// SettleAcceptedByToken accepts a fallback-path frame (which has no
// mailbox sequence to key on).
func (p *Publisher) SettleAcceptedByToken(token uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h, ok := p.byToken[token]; ok {
		h.settleAccepted(AcceptedAck{})
	}
}

// SettleCompleted marks the frame published under seq as rendered (err ==
// nil) or failed (err != nil). A no-op if already coalesced.
func (p *Publisher) SettleCompleted(seq uint64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h, ok := p.bySeq[seq]; ok {
		h.settleCompleted(CompletedAck{Err: err})
		delete(p.bySeq, seq)
	}
}

// SettleCompletedByToken marks a fallback-path frame as rendered or
// failed.
func (p *Publisher) SettleCompletedByToken(token uint64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h, ok := p.byToken[token]; ok {
		h.settleCompleted(CompletedAck{Err: err})
		delete(p.byToken, token)
	}
}

// Stop settles every in-flight ack with a "stopped" error and refuses
// further RequestFrame calls.
func (p *Publisher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	p.settleAllLocked(rezierr.New(rezierr.BackendError, "transport stopped"))
}

// Fail moves the publisher into its terminal failed state: every
// in-flight ack settles with err, and every future RequestFrame handle is
// rejected with it immediately.
func (p *Publisher) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed = true
	p.failErr = err
	p.settleAllLocked(err)
}

// Dispose immediately settles every in-flight ack with a "disposed" error.
func (p *Publisher) Dispose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disposed = true
	p.settleAllLocked(rezierr.New(rezierr.BackendError, "transport disposed"))
}

func (p *Publisher) settleAllLocked(err error) {
	for seq, h := range p.bySeq {
		h.settleAccepted(AcceptedAck{Err: err})
		h.settleCompleted(CompletedAck{Err: err})
		delete(p.bySeq, seq)
	}
	for tok, h := range p.byToken {
		h.settleAccepted(AcceptedAck{Err: err})
		h.settleCompleted(CompletedAck{Err: err})
		delete(p.byToken, tok)
	}
}
