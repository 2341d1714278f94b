package drawlist_test

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezi-tui/rezi/drawlist"
	"github.com/rezi-tui/rezi/drawlist/codec"
	"github.com/rezi-tui/rezi/rezierr"
)

func TestBuild_FreshBuilderDrawTextSingleChar(t *testing.T) {
	b := drawlist.New(drawlist.DefaultConfig())
	b.DrawText(0, 0, "A", drawlist.Style{})

	frame, err := b.Build()
	require.NoError(t, err)

	decoded, err := codec.Decode(frame.Bytes)
	require.NoError(t, err)
	require.Len(t, decoded.Records, 2)

	assert.Equal(t, "DEF_STRING", decoded.Records[0].Opcode.String())
	assert.Equal(t, "DRAW_TEXT", decoded.Records[1].Opcode.String())
}

func TestBuild_ReuseAcrossFramesSkipsRedefinition(t *testing.T) {
	b := drawlist.New(drawlist.DefaultConfig())
	b.DrawText(0, 0, "Hi", drawlist.Style{})
	_, err := b.Build()
	require.NoError(t, err)
	b.Reset()

	b.DrawText(1, 1, "Hi", drawlist.Style{})
	frame, err := b.Build()
	require.NoError(t, err)

	decoded, err := codec.Decode(frame.Bytes)
	require.NoError(t, err)
	for _, r := range decoded.Records {
		assert.NotEqual(t, "DEF_STRING", r.Opcode.String(), "second frame must not redefine an already-defined string")
	}
	require.Len(t, decoded.Records, 1)
	assert.Equal(t, "DRAW_TEXT", decoded.Records[0].Opcode.String())
}

func TestBuild_EngineRestartForcesRedefinition(t *testing.T) {
	b := drawlist.New(drawlist.DefaultConfig())
	b.DrawText(0, 0, "Hi", drawlist.Style{})
	_, err := b.Build()
	require.NoError(t, err)

	b.MarkEngineResourceStoreEmpty()
	b.Reset()
	b.DrawText(0, 0, "Hi", drawlist.Style{})

	frame, err := b.Build()
	require.NoError(t, err)
	decoded, err := codec.Decode(frame.Bytes)
	require.NoError(t, err)

	var sawDef bool
	for _, r := range decoded.Records {
		if r.Opcode.String() == "DEF_STRING" {
			sawDef = true
		}
	}
	assert.True(t, sawDef, "frame after engine restart must redefine the string")
}

func TestBuild_BlobEvictionQueuesFreeBlob(t *testing.T) {
	cfg := drawlist.DefaultConfig()
	cfg.MaxBlobs = 1
	b := drawlist.New(cfg)

	idA, err := b.AddBlob([]byte("bytesA"), "kA", nil)
	require.NoError(t, err)
	b.DrawTextRun(0, 0, idA)
	_, err = b.Build()
	require.NoError(t, err)
	b.Reset()

	idB, err := b.AddBlob([]byte("bytesB"), "kB", nil)
	require.NoError(t, err)
	b.DrawTextRun(0, 0, idB)
	frame, err := b.Build()
	require.NoError(t, err)

	decoded, err := codec.Decode(frame.Bytes)
	require.NoError(t, err)
	require.True(t, len(decoded.Records) >= 2)
	assert.Equal(t, "FREE_BLOB", decoded.Records[0].Opcode.String())
	assert.Equal(t, "DEF_BLOB", decoded.Records[1].Opcode.String())
}

func TestAddBlob_StableKeyCollisionWithinFrameSetsBuilderError(t *testing.T) {
	b := drawlist.New(drawlist.DefaultConfig())

	_, err := b.AddBlob([]byte("bytesA"), "k", nil)
	require.NoError(t, err)
	_, err = b.AddBlob([]byte("bytesB"), "k", nil)
	require.Error(t, err)
	assert.True(t, rezierr.Is(err, rezierr.BadParams))
}

func TestFillRect_ZeroStyleEmitsNothing(t *testing.T) {
	b := drawlist.New(drawlist.DefaultConfig())
	b.FillRect(0, 0, 10, 10, drawlist.Style{})

	frame, err := b.Build()
	require.NoError(t, err)
	decoded, err := codec.Decode(frame.Bytes)
	require.NoError(t, err)
	assert.Empty(t, decoded.Records)
}

func TestFillRect_NonZeroStyleEmitsOneRecord(t *testing.T) {
	b := drawlist.New(drawlist.DefaultConfig())
	b.FillRect(0, 0, 10, 10, drawlist.Style{Attrs: drawlist.AttrBold})

	frame, err := b.Build()
	require.NoError(t, err)
	decoded, err := codec.Decode(frame.Bytes)
	require.NoError(t, err)
	require.Len(t, decoded.Records, 1)
	assert.Equal(t, "FILL_RECT", decoded.Records[0].Opcode.String())
}

func TestBuild_EmptyFrameIsHeaderOnly(t *testing.T) {
	b := drawlist.New(drawlist.DefaultConfig())
	frame, err := b.Build()
	require.NoError(t, err)

	decoded, err := codec.Decode(frame.Bytes)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), decoded.Header.CmdOffset)
	assert.Equal(t, uint32(0), decoded.Header.CmdCount)
	assert.Len(t, frame.Bytes, 64)
}

func TestBuild_StickyErrorPersistsUntilReset(t *testing.T) {
	b := drawlist.New(drawlist.DefaultConfig())

	_, err := b.AddBlob([]byte("a"), "k", nil)
	require.NoError(t, err)
	_, err = b.AddBlob([]byte("b"), "k", nil)
	require.Error(t, err)

	b.Clear() // must be a silent no-op
	_, err = b.Build()
	assert.Error(t, err, "Build must surface the sticky error")

	b.Reset()
	b.Clear()
	_, err = b.Build()
	assert.NoError(t, err, "Reset must clear the error slot")
}

func TestBuild_DeterministicAcrossFreshBuilders(t *testing.T) {
	run := func() []byte {
		b := drawlist.New(drawlist.DefaultConfig())
		b.DrawText(3, 4, "hello", drawlist.Style{Attrs: drawlist.AttrBold})
		b.FillRect(0, 0, 5, 5, drawlist.Style{Attrs: drawlist.AttrUnderline})
		frame, err := b.Build()
		require.NoError(t, err)
		return frame.Bytes
	}
	assert.Equal(t, run(), run())
}

func TestBuild_MaxDrawlistBytesExceededFails(t *testing.T) {
	cfg := drawlist.DefaultConfig()
	cfg.MaxDrawlistBytes = 64 // header alone, no room for any command
	b := drawlist.New(cfg)
	b.DrawText(0, 0, "too big for the cap", drawlist.Style{})

	_, err := b.Build()
	require.Error(t, err)
	assert.True(t, rezierr.Is(err, rezierr.TooLarge))
}

func TestDrawCanvas_RGBALengthMismatchIsBadParams(t *testing.T) {
	b := drawlist.New(drawlist.DefaultConfig())
	b.DrawCanvas(0, 0, 2, 2, []byte{1, 2, 3}, "", 0) // 2*2*4=16 wanted, got 3

	_, err := b.Build()
	require.Error(t, err)
	assert.True(t, rezierr.Is(err, rezierr.BadParams))
}

func TestSetLink_StampsStyledCommandsUntilCleared(t *testing.T) {
	b := drawlist.New(drawlist.DefaultConfig())
	b.SetLink("https://example.com", "doc")
	b.DrawText(0, 0, "click me", drawlist.Style{})
	b.ClearLink()
	b.DrawText(0, 1, "plain", drawlist.Style{})

	frame, err := b.Build()
	require.NoError(t, err)
	decoded, err := codec.Decode(frame.Bytes)
	require.NoError(t, err)

	var texts []codec.Record
	for _, r := range decoded.Records {
		if r.Opcode.String() == "DRAW_TEXT" {
			texts = append(texts, r)
		}
	}
	require.Len(t, texts, 2)

	// The encoded style sits at payload offset 20; its link URI ref at
	// style offset 19.
	linkRef := func(r codec.Record) uint32 {
		return binary.LittleEndian.Uint32(r.Payload[39:43])
	}
	assert.NotZero(t, linkRef(texts[0]), "active link context must stamp the style")
	assert.Zero(t, linkRef(texts[1]), "cleared link context must not stamp the style")
}

func TestReset_ClearsLinkContext(t *testing.T) {
	b := drawlist.New(drawlist.DefaultConfig())
	b.SetLink("https://example.com", "")
	_, err := b.Build()
	require.NoError(t, err)
	b.Reset()

	b.DrawText(0, 0, "after reset", drawlist.Style{})
	frame, err := b.Build()
	require.NoError(t, err)
	decoded, err := codec.Decode(frame.Bytes)
	require.NoError(t, err)

	for _, r := range decoded.Records {
		if r.Opcode.String() == "DRAW_TEXT" {
			assert.Zero(t, binary.LittleEndian.Uint32(r.Payload[39:43]))
		}
	}
}

func TestSetLink_ExplicitStyleLinkWins(t *testing.T) {
	b := drawlist.New(drawlist.DefaultConfig())
	uriRef, err := b.InternString("https://explicit.example")
	require.NoError(t, err)
	b.SetLink("https://ambient.example", "")
	b.DrawText(0, 0, "text", drawlist.Style{LinkURIRef: uriRef})

	frame, err := b.Build()
	require.NoError(t, err)
	decoded, err := codec.Decode(frame.Bytes)
	require.NoError(t, err)

	for _, r := range decoded.Records {
		if r.Opcode.String() == "DRAW_TEXT" {
			assert.Equal(t, uriRef, binary.LittleEndian.Uint32(r.Payload[39:43]))
		}
	}
}

func TestDump_RendersBuiltFrameBytes(t *testing.T) {
	b := drawlist.New(drawlist.DefaultConfig())
	b.DrawText(0, 0, "A", drawlist.Style{})
	frame, err := b.Build()
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, drawlist.Dump(&sb, frame.Bytes))
	assert.Contains(t, sb.String(), "DRAW_TEXT")

	assert.Error(t, drawlist.Dump(&sb, []byte{1, 2, 3}), "malformed bytes must surface a decode error")
}
