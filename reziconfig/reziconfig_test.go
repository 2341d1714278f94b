package reziconfig_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezi-tui/rezi/measure"
	"github.com/rezi-tui/rezi/reziconfig"
	"github.com/rezi-tui/rezi/transport"
)

func TestNew_DefaultMatchesUnderlyingDefaults(t *testing.T) {
	cfg := reziconfig.New()
	assert.Equal(t, true, cfg.Drawlist.ValidateParams)
	assert.Equal(t, transport.FrameTransportAuto, cfg.Transport.FrameTransport)
	assert.Equal(t, 4, cfg.Transport.FrameSabSlotCount)
}

func TestNew_OptionsOverrideDefaults(t *testing.T) {
	cfg := reziconfig.New(
		reziconfig.WithMaxDrawlistBytes(1024),
		reziconfig.WithMaxCmdCount(16),
		reziconfig.WithStringTableCapacity(100, 4096),
		reziconfig.WithBlobTableCapacity(10, 65536),
		reziconfig.WithValidateParams(false),
		reziconfig.WithReuseOutputBuffer(true),
		reziconfig.WithFpsCap(60),
		reziconfig.WithMaxEventBytes(2048),
		reziconfig.WithFrameTransport(transport.FrameTransportTransfer),
		reziconfig.WithFrameSabGeometry(8, 2<<20),
		reziconfig.WithEmojiWidthPolicy(measure.EmojiPolicyWide),
	)

	assert.Equal(t, 1024, cfg.Drawlist.MaxDrawlistBytes)
	assert.Equal(t, 16, cfg.Drawlist.MaxCmdCount)
	assert.Equal(t, 100, cfg.Drawlist.MaxStrings)
	assert.Equal(t, 4096, cfg.Drawlist.MaxStringBytes)
	assert.Equal(t, 10, cfg.Drawlist.MaxBlobs)
	assert.Equal(t, 65536, cfg.Drawlist.MaxBlobBytes)
	assert.False(t, cfg.Drawlist.ValidateParams)
	assert.True(t, cfg.Drawlist.ReuseOutputBuffer)
	assert.Equal(t, 60, cfg.Transport.FpsCap)
	assert.Equal(t, 2048, cfg.Transport.MaxEventBytes)
	assert.Equal(t, transport.FrameTransportTransfer, cfg.Transport.FrameTransport)
	assert.Equal(t, 8, cfg.Transport.FrameSabSlotCount)
	assert.Equal(t, 2<<20, cfg.Transport.FrameSabSlotBytes)
	assert.Equal(t, measure.EmojiPolicyWide, cfg.EmojiWidthPolicy)
}

func TestFromEnv_ReadsEmojiWidthPolicy(t *testing.T) {
	t.Setenv("ZRUI_EMOJI_WIDTH_POLICY", "narrow")
	cfg := reziconfig.FromEnv(reziconfig.Default())
	assert.Equal(t, measure.EmojiPolicyNarrow, cfg.EmojiWidthPolicy)
}

func TestFromEnv_ReadsMaxDrawlistBytes(t *testing.T) {
	t.Setenv("REZI_MAX_DRAWLIST_BYTES", "4096")
	cfg := reziconfig.FromEnv(reziconfig.Default())
	assert.Equal(t, 4096, cfg.Drawlist.MaxDrawlistBytes)
}

func TestFromEnv_IgnoresUnsetVars(t *testing.T) {
	os.Unsetenv("ZRUI_EMOJI_WIDTH_POLICY")
	os.Unsetenv("REZI_MAX_DRAWLIST_BYTES")
	cfg := reziconfig.FromEnv(reziconfig.Default())
	require.Equal(t, reziconfig.Default(), cfg)
}
