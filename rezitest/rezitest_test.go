package rezitest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezi-tui/rezi/rezitest"
	"github.com/rezi-tui/rezi/transport"
)

func TestMockRenderer_RecordsFrames(t *testing.T) {
	mock := rezitest.NewMockRenderer()
	tr := transport.New(transport.DefaultConfig(), mock.AsRenderer())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr.Start(ctx)
	defer tr.Dispose()

	handle := tr.RequestFrame([]byte("hello"))
	select {
	case <-handle.Completed():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for completion")
	}

	require.Equal(t, 1, mock.Count())
	assert.Equal(t, "hello", string(mock.Last()))
}

func TestMockRenderer_FailNextSurfacesOnlyOnce(t *testing.T) {
	mock := rezitest.NewMockRenderer()
	mock.FailNext(errors.New("boom"))
	tr := transport.New(transport.DefaultConfig(), mock.AsRenderer())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr.Start(ctx)
	defer tr.Dispose()

	h1 := tr.RequestFrame([]byte("first"))
	c1 := <-h1.Completed()
	assert.Error(t, c1.Err)

	h2 := tr.RequestFrame([]byte("second"))
	c2 := <-h2.Completed()
	assert.NoError(t, c2.Err)
}

func TestNullRenderer_AlwaysSucceeds(t *testing.T) {
	tr := transport.New(transport.DefaultConfig(), rezitest.NullRenderer)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr.Start(ctx)
	defer tr.Dispose()

	handle := tr.RequestFrame([]byte("anything"))
	c := <-handle.Completed()
	assert.NoError(t, c.Err)
}
