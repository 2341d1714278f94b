// Package reziconfig collects the builder- and transport-facing
// configuration into a single struct constructed with functional
// options, for callers that configure both halves of the pipeline
// together.
package reziconfig

import (
	"os"
	"strconv"

	"github.com/rezi-tui/rezi/drawlist"
	"github.com/rezi-tui/rezi/measure"
	"github.com/rezi-tui/rezi/transport"
)

// Config bundles drawlist, resource, and transport configuration into one
// value, constructed via Options.
type Config struct {
	Drawlist         drawlist.Config
	Transport        transport.Config
	EmojiWidthPolicy measure.EmojiPolicy
}

// Default returns the configuration builders use when no options are
// supplied: validation on, no size caps, mailbox-preferred transport.
func Default() Config {
	return Config{
		Drawlist:  drawlist.DefaultConfig(),
		Transport: transport.DefaultConfig(),
	}
}

// Option configures a Config at construction time.
type Option func(*Config)

// New applies opts over Default().
func New(opts ...Option) Config {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMaxDrawlistBytes caps a built frame's total size.
func WithMaxDrawlistBytes(n int) Option {
	return func(c *Config) { c.Drawlist.MaxDrawlistBytes = n }
}

// WithMaxCmdCount caps the number of commands per frame.
func WithMaxCmdCount(n int) Option {
	return func(c *Config) { c.Drawlist.MaxCmdCount = n }
}

// WithStringTableCapacity caps the string intern table.
func WithStringTableCapacity(maxStrings, maxStringBytes int) Option {
	return func(c *Config) {
		c.Drawlist.MaxStrings = maxStrings
		c.Drawlist.MaxStringBytes = maxStringBytes
	}
}

// WithBlobTableCapacity caps the blob intern table.
func WithBlobTableCapacity(maxBlobs, maxBlobBytes int) Option {
	return func(c *Config) {
		c.Drawlist.MaxBlobs = maxBlobs
		c.Drawlist.MaxBlobBytes = maxBlobBytes
	}
}

// WithValidateParams toggles range validation (default true).
func WithValidateParams(enabled bool) Option {
	return func(c *Config) { c.Drawlist.ValidateParams = enabled }
}

// WithReuseOutputBuffer toggles reusing a single growing output buffer
// across frames.
func WithReuseOutputBuffer(enabled bool) Option {
	return func(c *Config) { c.Drawlist.ReuseOutputBuffer = enabled }
}

// WithFpsCap sets the consumer frame-pacing hint.
func WithFpsCap(n int) Option {
	return func(c *Config) { c.Transport.FpsCap = n }
}

// WithMaxEventBytes caps a single outgoing event batch's encoded size.
func WithMaxEventBytes(n int) Option {
	return func(c *Config) { c.Transport.MaxEventBytes = n }
}

// WithFrameTransport selects the mailbox/transfer/auto handoff path.
func WithFrameTransport(kind transport.FrameTransportKind) Option {
	return func(c *Config) { c.Transport.FrameTransport = kind }
}

// WithFrameSabGeometry sets the mailbox's slot count and per-slot byte
// capacity.
func WithFrameSabGeometry(slotCount, slotBytes int) Option {
	return func(c *Config) {
		c.Transport.FrameSabSlotCount = slotCount
		c.Transport.FrameSabSlotBytes = slotBytes
	}
}

// WithEmojiWidthPolicy overrides the emoji width policy text measurement
// applies.
func WithEmojiWidthPolicy(policy measure.EmojiPolicy) Option {
	return func(c *Config) { c.EmojiWidthPolicy = policy }
}

// FromEnv layers the ZRUI_EMOJI_WIDTH_POLICY environment variable (and any
// other env-recognized settings) over cfg, mirroring measure.measure.go's
// own ZRUI_EMOJI_WIDTH_POLICY read at init so callers that build a Config
// explicitly still pick up the same override.
func FromEnv(cfg Config) Config {
	if v, ok := os.LookupEnv("ZRUI_EMOJI_WIDTH_POLICY"); ok {
		cfg.EmojiWidthPolicy = measure.ParseEmojiPolicy(v)
	}
	if v, ok := os.LookupEnv("REZI_MAX_DRAWLIST_BYTES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Drawlist.MaxDrawlistBytes = n
		}
	}
	return cfg
}
