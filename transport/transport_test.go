package transport_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezi-tui/rezi/transport"
)

func waitAccepted(t *testing.T, h *transport.FrameHandle) transport.AcceptedAck {
	t.Helper()
	select {
	case a := <-h.Accepted():
		return a
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for accepted ack")
		return transport.AcceptedAck{}
	}
}

func waitCompleted(t *testing.T, h *transport.FrameHandle) transport.CompletedAck {
	t.Helper()
	select {
	case c := <-h.Completed():
		return c
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for completed ack")
		return transport.CompletedAck{}
	}
}

func TestRequestFrame_MailboxPathAcceptsAndCompletes(t *testing.T) {
	var rendered [][]byte
	var mu sync.Mutex
	tr := transport.New(transport.DefaultConfig(), func(frame []byte) error {
		mu.Lock()
		rendered = append(rendered, frame)
		mu.Unlock()
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr.Start(ctx)
	defer tr.Dispose()

	handle := tr.RequestFrame([]byte("frame-1"))
	accepted := waitAccepted(t, handle)
	require.NoError(t, accepted.Err)
	completed := waitCompleted(t, handle)
	require.NoError(t, completed.Err)
	assert.False(t, completed.Coalesced)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, rendered, 1)
	assert.Equal(t, "frame-1", string(rendered[0]))
}

func TestRequestFrame_OversizedFrameUsesTransferFallback(t *testing.T) {
	cfg := transport.DefaultConfig()
	cfg.FrameSabSlotBytes = 4
	var gotLen int
	tr := transport.New(cfg, func(frame []byte) error {
		gotLen = len(frame)
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr.Start(ctx)
	defer tr.Dispose()

	handle := tr.RequestFrame([]byte("this is bigger than four bytes"))
	waitAccepted(t, handle)
	waitCompleted(t, handle)
	assert.Equal(t, len("this is bigger than four bytes"), gotLen)
}

func TestStop_SettlesInFlightAcksAsStopped(t *testing.T) {
	tr := transport.New(transport.DefaultConfig(), nil)
	// The consumer is never started, so this frame is still in flight when
	// Stop runs.
	inFlight := tr.RequestFrame([]byte("in flight"))
	tr.Stop()

	inFlightAck := waitAccepted(t, inFlight)
	assert.Error(t, inFlightAck.Err)

	handle := tr.RequestFrame([]byte("too late"))
	accepted := waitAccepted(t, handle)
	assert.Error(t, accepted.Err)
}

func TestEventBatch_RoundTrips(t *testing.T) {
	events := []transport.Event{
		{Type: 1, TimeMs: 10, ResizeCols: 80, ResizeRows: 24},
		{Type: 3, TimeMs: 20, KeyCode: 65, KeyMods: 0, KeyAction: 0},
	}
	encoded := transport.EncodeEventBatch(events, 2)

	decoded, dropped, err := transport.DecodeEventBatch(encoded)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), dropped)
	require.Len(t, decoded, 2)
	assert.Equal(t, uint32(80), decoded[0].ResizeCols)
	assert.Equal(t, uint32(65), decoded[1].KeyCode)
}

func TestFlushEvents_OverBudgetIsFatal(t *testing.T) {
	cfg := transport.DefaultConfig()
	cfg.MaxEventBytes = 8
	tr := transport.New(cfg, nil)

	tr.PostEvent(transport.Event{Type: 1, ResizeCols: 80, ResizeRows: 24})
	err := tr.FlushEvents()
	require.Error(t, err)
	assert.True(t, tr.Failed())
}

func TestFlushEvents_FatalFailureRejectsPendingFrameAcks(t *testing.T) {
	cfg := transport.DefaultConfig()
	cfg.MaxEventBytes = 8
	tr := transport.New(cfg, nil)

	// The consumer is never started, so this frame's acks stay pending
	// until the failed state settles them.
	pending := tr.RequestFrame([]byte("in flight"))

	tr.PostEvent(transport.Event{Type: 1, ResizeCols: 80, ResizeRows: 24})
	require.Error(t, tr.FlushEvents())
	require.True(t, tr.Failed())

	accepted := waitAccepted(t, pending)
	assert.Error(t, accepted.Err)
	completed := waitCompleted(t, pending)
	assert.Error(t, completed.Err)

	late := tr.RequestFrame([]byte("after failure"))
	lateAck := waitAccepted(t, late)
	assert.Error(t, lateAck.Err, "a failed transport must reject new frames immediately")
}

func TestPollEvents_ReturnsQueuedBatch(t *testing.T) {
	tr := transport.New(transport.DefaultConfig(), nil)
	tr.PostEvent(transport.Event{Type: 4, FocusGained: true})
	require.NoError(t, tr.FlushEvents())

	batch, ok := tr.PollEvents()
	require.True(t, ok)
	require.Len(t, batch.Events, 1)
	assert.True(t, batch.Events[0].FocusGained)

	_, ok = tr.PollEvents()
	assert.False(t, ok)
}

func TestGetCaps_ReportsMailboxGeometry(t *testing.T) {
	cfg := transport.DefaultConfig()
	cfg.FrameSabSlotCount = 3
	tr := transport.New(cfg, nil)
	caps := tr.GetCaps()
	assert.True(t, caps.MailboxEnabled)
	assert.Equal(t, 3, caps.SlotCount)
}

func TestNoteDroppedEvents_RidesOutOnNextBatch(t *testing.T) {
	tr := transport.New(transport.DefaultConfig(), nil)
	tr.NoteDroppedEvents(3)
	tr.PostEvent(transport.Event{Type: 4, FocusGained: true})
	require.NoError(t, tr.FlushEvents())

	batch, ok := tr.PollEvents()
	require.True(t, ok)
	assert.Equal(t, uint32(3), batch.DroppedCount)
}

func TestLatestWins_OlderFrameCoalescesWhenNewerAccepted(t *testing.T) {
	block := make(chan struct{})
	first := true
	tr := transport.New(transport.DefaultConfig(), func(frame []byte) error {
		if first {
			first = false
			<-block
		}
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr.Start(ctx)
	defer tr.Dispose()

	h1 := tr.RequestFrame([]byte("frame-1"))
	waitAccepted(t, h1)

	// With the consumer blocked mid-render, publish two more frames: the
	// middle one is superseded before the consumer reaches it and must
	// settle as coalesced once the newest is accepted.
	h2 := tr.RequestFrame([]byte("frame-2"))
	_ = tr.RequestFrame([]byte("frame-3"))
	close(block)

	c2 := waitCompleted(t, h2)
	assert.NoError(t, c2.Err)
	assert.True(t, c2.Coalesced)
}
