package codec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezi-tui/rezi/drawlist"
	"github.com/rezi-tui/rezi/drawlist/codec"
	"github.com/rezi-tui/rezi/rezierr"
)

func TestDecode_DefStringRoundTripsUTF8Bytes(t *testing.T) {
	text := "héllo 漢字 👋"
	b := drawlist.New(drawlist.DefaultConfig())
	b.DrawText(0, 0, text, drawlist.Style{})

	frame, err := b.Build()
	require.NoError(t, err)
	decoded, err := codec.Decode(frame.Bytes)
	require.NoError(t, err)

	var found bool
	for _, r := range decoded.Records {
		if r.Opcode.String() != "DEF_STRING" {
			continue
		}
		found = true
		// Payload: u32 id, u32 byteLen, bytes (padded to 4).
		n := int(uint32(r.Payload[4]) | uint32(r.Payload[5])<<8 | uint32(r.Payload[6])<<16 | uint32(r.Payload[7])<<24)
		assert.Equal(t, text, string(r.Payload[8:8+n]))
	}
	assert.True(t, found, "frame must carry a DEF_STRING for the drawn text")
}

func TestDecode_RejectsBadMagic(t *testing.T) {
	b := drawlist.New(drawlist.DefaultConfig())
	frame, err := b.Build()
	require.NoError(t, err)

	frame.Bytes[0] ^= 0xff
	_, err = codec.Decode(frame.Bytes)
	require.Error(t, err)
	assert.True(t, rezierr.Is(err, rezierr.Format))
}

func TestDecode_RejectsTruncatedBuffer(t *testing.T) {
	_, err := codec.Decode([]byte{1, 2, 3})
	require.Error(t, err)
	assert.True(t, rezierr.Is(err, rezierr.Format))
}

func TestDecode_RejectsTotalSizeMismatch(t *testing.T) {
	b := drawlist.New(drawlist.DefaultConfig())
	frame, err := b.Build()
	require.NoError(t, err)

	_, err = codec.Decode(append(frame.Bytes, 0, 0, 0, 0))
	require.Error(t, err)
	assert.True(t, rezierr.Is(err, rezierr.Format))
}

func TestDump_PrintsOneLinePerRecord(t *testing.T) {
	b := drawlist.New(drawlist.DefaultConfig())
	b.DrawText(1, 2, "hi", drawlist.Style{})
	b.Clear()

	frame, err := b.Build()
	require.NoError(t, err)
	decoded, err := codec.Decode(frame.Bytes)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, codec.Dump(&sb, decoded))

	out := sb.String()
	assert.Contains(t, out, "DEF_STRING")
	assert.Contains(t, out, "DRAW_TEXT")
	assert.Contains(t, out, "CLEAR")
	assert.Equal(t, len(decoded.Records)+1, strings.Count(out, "\n"), "header line plus one line per record")
}
