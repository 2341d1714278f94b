// Package drawlist implements the Drawlist Builder: a stateful encoder
// that produces a bit-exact binary command stream for a separate
// rendering engine, with interned strings and blobs, LRU eviction under
// bounded memory, and cross-frame incremental resource definitions.
//
// This file is the only exported surface; the wire-format types and
// validation/encoding logic live under internal/domain and are reached
// only through Builder.
package drawlist

import (
	"bytes"
	"io"
	"os"

	"github.com/rezi-tui/rezi/drawlist/codec"
	"github.com/rezi-tui/rezi/drawlist/internal/domain/service"
	"github.com/rezi-tui/rezi/drawlist/internal/domain/value"
	"github.com/rezi-tui/rezi/rezierr"
	"github.com/rezi-tui/rezi/rezilog"
	"github.com/rezi-tui/rezi/resource"
)

// Style is the 28-byte fixed-layout style attached to FILL_RECT and
// DRAW_TEXT commands. Its zero value means "no override".
type Style = value.Style

// Attribute bits for Style.Attrs.
const (
	AttrBold          = value.AttrBold
	AttrItalic        = value.AttrItalic
	AttrUnderline     = value.AttrUnderline
	AttrInverse       = value.AttrInverse
	AttrDim           = value.AttrDim
	AttrStrikethrough = value.AttrStrikethrough
	AttrOverline      = value.AttrOverline
	AttrBlink         = value.AttrBlink
)

// Underline style codes for Style.UnderlineStyle.
const (
	UnderlineNone     = value.UnderlineNone
	UnderlineStraight = value.UnderlineStraight
	UnderlineDouble   = value.UnderlineDouble
	UnderlineCurly    = value.UnderlineCurly
	UnderlineDotted   = value.UnderlineDotted
	UnderlineDashed   = value.UnderlineDashed
)

// ImageFormat enumerates DRAW_IMAGE's pixel formats.
type ImageFormat = service.ImageFormat

const ImageFormatRGBA8 = service.ImageFormatRGBA8

// Config bounds a Builder's frame size, command count, and resource
// table capacity, and toggles parameter validation.
type Config struct {
	MaxDrawlistBytes int
	MaxCmdCount      int
	MaxStrings       int
	MaxStringBytes   int
	MaxBlobs         int
	MaxBlobBytes     int
	ValidateParams   bool
	ReuseOutputBuffer bool
}

// DefaultConfig enables validation and leaves every size cap unlimited
// (0 means unlimited, consistently with resource.Config).
func DefaultConfig() Config {
	return Config{ValidateParams: true}
}

// Frame is the result of a successful Build() call.
type Frame struct {
	Bytes    []byte
	CmdCount int
}

// Builder is the Drawlist Builder. It is single-threaded: all operations
// on one instance must run on a single goroutine.
type Builder struct {
	cfg   Config
	table *resource.Table

	body     bytes.Buffer
	cmdCount int

	// Active-link context: when set, styles that carry no explicit link
	// are stamped with these refs until ClearLink or Reset.
	linkURIRef uint32
	linkIDRef  uint32

	err   *rezierr.Error
	built bool

	perf  *rezilog.PerfTimer
	audit *rezilog.FrameAuditWriter

	reuseOut []byte
}

// New creates a fresh Builder at frame sequence 1.
func New(cfg Config) *Builder {
	b := &Builder{
		cfg: cfg,
		table: resource.New(resource.Config{
			MaxStrings:     cfg.MaxStrings,
			MaxStringBytes: cfg.MaxStringBytes,
			MaxBlobs:       cfg.MaxBlobs,
			MaxBlobBytes:   cfg.MaxBlobBytes,
		}),
		perf:  rezilog.NewPerfTimer(nil),
		audit: rezilog.NewFrameAuditWriter(os.Stderr),
	}
	return b
}

// Err returns the sticky error set by the first failed operation this
// frame, or nil.
func (b *Builder) Err() error {
	if b.err == nil {
		return nil
	}
	return b.err
}

func (b *Builder) failed() bool {
	return b.err != nil
}

func (b *Builder) fail(err error) {
	if b.err != nil {
		return
	}
	if re, ok := err.(*rezierr.Error); ok {
		b.err = re
		return
	}
	b.err = rezierr.Wrap(rezierr.Internal, "unexpected error", err)
}

func (b *Builder) checkCmdCapacity() bool {
	if b.cfg.MaxCmdCount > 0 && b.cmdCount+1 > b.cfg.MaxCmdCount {
		b.fail(rezierr.Newf(rezierr.TooLarge, "command count would exceed max %d", b.cfg.MaxCmdCount))
		return false
	}
	return true
}

func (b *Builder) emit(op value.Opcode, payload []byte) {
	service.AppendRecord(&b.body, op, payload)
	b.cmdCount++
}

// SetLink activates a hyperlink context: until ClearLink or Reset, every
// styled command whose style carries no explicit link is stamped with uri
// (and id, when non-empty). Both values are interned as string resources.
func (b *Builder) SetLink(uri, id string) {
	if b.failed() {
		return
	}
	uriRef, err := b.table.InternString(uri)
	if err != nil {
		b.fail(err)
		return
	}
	var idRef uint32
	if id != "" {
		idRef, err = b.table.InternString(id)
		if err != nil {
			b.fail(err)
			return
		}
	}
	b.linkURIRef = uriRef
	b.linkIDRef = idRef
}

// ClearLink deactivates the link context. Subsequent commands carry no
// link unless their style sets one explicitly.
func (b *Builder) ClearLink() {
	b.linkURIRef = 0
	b.linkIDRef = 0
}

// applyLink stamps the active link context into style when the style has
// no explicit link of its own. The link strings stay pinned while in use.
func (b *Builder) applyLink(style Style) Style {
	if style.HasLink() || (b.linkURIRef == 0 && b.linkIDRef == 0) {
		return style
	}
	b.table.TouchString(b.linkURIRef)
	if b.linkIDRef != 0 {
		b.table.TouchString(b.linkIDRef)
	}
	style.LinkURIRef = b.linkURIRef
	style.LinkIDRef = b.linkIDRef
	return style
}

// Clear appends a CLEAR command.
func (b *Builder) Clear() {
	if b.failed() || !b.checkCmdCapacity() {
		return
	}
	b.emit(value.OpClear, service.EncodeClear())
}

// FillRect appends a FILL_RECT command. A zero-value style carries no
// override, so nothing is emitted.
func (b *Builder) FillRect(x, y, w, h int32, style Style) {
	if b.failed() {
		return
	}
	if style.IsZero() {
		return
	}
	if b.cfg.ValidateParams {
		if err := service.ValidateNonNegative(w, "w"); err != nil {
			b.fail(err)
			return
		}
		if err := service.ValidateNonNegative(h, "h"); err != nil {
			b.fail(err)
			return
		}
	}
	if !b.checkCmdCapacity() {
		return
	}
	b.emit(value.OpFillRect, service.EncodeFillRect(x, y, w, h, b.applyLink(style)))
}

// DrawText interns text as a string resource and appends a DRAW_TEXT
// command spanning its full byte range.
func (b *Builder) DrawText(x, y int32, text string, style Style) {
	if b.failed() {
		return
	}
	if !b.checkCmdCapacity() {
		return
	}
	id, err := b.table.InternString(text)
	if err != nil {
		b.fail(err)
		return
	}
	b.emit(value.OpDrawText, service.EncodeDrawText(x, y, id, 0, uint32(len(text)), b.applyLink(style)))
}

// DrawTextSpan appends a DRAW_TEXT command referencing an already-interned
// string resource's byte subrange, for callers that draw a substring of a
// larger interned string.
func (b *Builder) DrawTextSpan(x, y int32, stringID, byteOff, byteLen uint32, style Style) {
	if b.failed() {
		return
	}
	if !b.table.StringLive(stringID) {
		b.fail(rezierr.Newf(rezierr.Internal, "stringId %d is not live", stringID))
		return
	}
	if !b.checkCmdCapacity() {
		return
	}
	b.table.TouchString(stringID)
	b.emit(value.OpDrawText, service.EncodeDrawText(x, y, stringID, byteOff, byteLen, b.applyLink(style)))
}

// PushClip appends a PUSH_CLIP command.
func (b *Builder) PushClip(x, y, w, h int32) {
	if b.failed() {
		return
	}
	if b.cfg.ValidateParams {
		if err := service.ValidateNonNegative(w, "w"); err != nil {
			b.fail(err)
			return
		}
		if err := service.ValidateNonNegative(h, "h"); err != nil {
			b.fail(err)
			return
		}
	}
	if !b.checkCmdCapacity() {
		return
	}
	b.emit(value.OpPushClip, service.EncodePushClip(x, y, w, h))
}

// PopClip appends a POP_CLIP command.
func (b *Builder) PopClip() {
	if b.failed() || !b.checkCmdCapacity() {
		return
	}
	b.emit(value.OpPopClip, service.EncodePopClip())
}

// DrawTextRun appends a DRAW_TEXT_RUN command referencing an
// already-interned blob resource.
func (b *Builder) DrawTextRun(x, y int32, blobID uint32) {
	if b.failed() {
		return
	}
	if !b.table.BlobLive(blobID) {
		b.fail(rezierr.Newf(rezierr.Internal, "blobId %d is not live", blobID))
		return
	}
	if !b.checkCmdCapacity() {
		return
	}
	b.table.TouchBlob(blobID)
	b.emit(value.OpDrawTextRun, service.EncodeDrawTextRun(x, y, blobID))
}

// SetCursor appends a SET_CURSOR command.
func (b *Builder) SetCursor(x, y int32, shape uint8, visible, blink bool) {
	if b.failed() {
		return
	}
	if b.cfg.ValidateParams {
		if err := service.ValidateCursorShape(shape); err != nil {
			b.fail(err)
			return
		}
	}
	if !b.checkCmdCapacity() {
		return
	}
	b.emit(value.OpSetCursor, service.EncodeSetCursor(x, y, shape, visible, blink))
}

// DrawCanvas interns rgba as a blob (unless blobKey matches an already-live
// blob with identical bytes) and appends a DRAW_CANVAS command.
func (b *Builder) DrawCanvas(x, y int32, pxW, pxH uint32, rgba []byte, blobKey string, z int8) {
	if b.failed() {
		return
	}
	if b.cfg.ValidateParams {
		if err := service.ValidatePixelDim(pxW, "pxW"); err != nil {
			b.fail(err)
			return
		}
		if err := service.ValidatePixelDim(pxH, "pxH"); err != nil {
			b.fail(err)
			return
		}
		if err := service.ValidateRGBALen(pxW, pxH, len(rgba)); err != nil {
			b.fail(err)
			return
		}
		if err := service.ValidateZLayer(z); err != nil {
			b.fail(err)
			return
		}
	}
	if !b.checkCmdCapacity() {
		return
	}
	id, err := b.table.AddBlob(rgba, blobKey, nil)
	if err != nil {
		b.fail(err)
		return
	}
	b.emit(value.OpDrawCanvas, service.EncodeDrawCanvas(x, y, pxW, pxH, id, z))
}

// DrawImage interns data as a blob and appends a DRAW_IMAGE command.
func (b *Builder) DrawImage(x, y int32, pxW, pxH uint32, format ImageFormat, data []byte, blobKey string, z int8) {
	if b.failed() {
		return
	}
	if b.cfg.ValidateParams {
		if err := service.ValidatePixelDim(pxW, "pxW"); err != nil {
			b.fail(err)
			return
		}
		if err := service.ValidatePixelDim(pxH, "pxH"); err != nil {
			b.fail(err)
			return
		}
		if format == ImageFormatRGBA8 {
			if err := service.ValidateRGBALen(pxW, pxH, len(data)); err != nil {
				b.fail(err)
				return
			}
		}
		if err := service.ValidateZLayer(z); err != nil {
			b.fail(err)
			return
		}
	}
	if !b.checkCmdCapacity() {
		return
	}
	id, err := b.table.AddBlob(data, blobKey, nil)
	if err != nil {
		b.fail(err)
		return
	}
	b.emit(value.OpDrawImage, service.EncodeDrawImage(x, y, pxW, pxH, format, id, z))
}

// InternString forwards to the builder's resource table. Like every other
// operation, it is a no-op once the error slot is set, and a failure sets
// it.
func (b *Builder) InternString(text string) (uint32, error) {
	if b.failed() {
		return 0, b.err
	}
	id, err := b.table.InternString(text)
	if err != nil {
		b.fail(err)
		return 0, b.err
	}
	return id, nil
}

// AddBlob forwards to the builder's resource table, observing the sticky
// error slot.
func (b *Builder) AddBlob(raw []byte, key string, stringDeps []uint32) (uint32, error) {
	if b.failed() {
		return 0, b.err
	}
	id, err := b.table.AddBlob(raw, key, stringDeps)
	if err != nil {
		b.fail(err)
		return 0, b.err
	}
	return id, nil
}

// AddTextRunBlob forwards to the builder's resource table, observing the
// sticky error slot.
func (b *Builder) AddTextRunBlob(raw []byte, key string, stringDeps []uint32) (uint32, error) {
	if b.failed() {
		return 0, b.err
	}
	id, err := b.table.AddTextRunBlob(raw, key, stringDeps)
	if err != nil {
		b.fail(err)
		return 0, b.err
	}
	return id, nil
}

// MarkEngineResourceStoreEmpty forwards to the builder's resource table —
// call this once the consumer engine is known to have discarded its
// resource store (e.g. it restarted).
func (b *Builder) MarkEngineResourceStoreEmpty() {
	b.table.MarkEngineResourceStoreEmpty()
}

// Reset commits or discards the previous frame's resource effects and
// starts a new one. Calling it before the first frame commits and discards
// nothing; it still clears the (empty) command buffer and advances the
// frame sequence.
func (b *Builder) Reset() {
	if b.built {
		b.table.CommitFrame()
	} else if b.table.HasFrameMutations() {
		b.table.MarkEngineResourceStoreEmpty()
	}
	b.table.NextFrame()

	if b.cfg.ReuseOutputBuffer {
		b.body.Reset()
	} else {
		b.body = bytes.Buffer{}
	}
	b.cmdCount = 0
	b.linkURIRef = 0
	b.linkIDRef = 0
	b.err = nil
	b.built = false
}

// Build assembles the frame: a 64-byte header, a prelude of pending frees
// and defs in fixed order, then the body commands.
func (b *Builder) Build() (Frame, error) {
	if b.err != nil {
		return Frame{}, b.err
	}

	b.perf.Start("build")
	var prelude bytes.Buffer
	for _, id := range b.table.PendingFreeStringIDs() {
		service.AppendRecord(&prelude, value.OpFreeString, service.EncodeFreeString(id))
	}
	for _, id := range b.table.PendingFreeBlobIDs() {
		service.AppendRecord(&prelude, value.OpFreeBlob, service.EncodeFreeBlob(id))
	}
	for _, id := range b.table.PendingDefStringIDs() {
		raw, ok := b.table.StringBytes(id)
		if !ok {
			continue
		}
		service.AppendRecord(&prelude, value.OpDefString, service.EncodeDefString(id, raw))
	}
	for _, id := range b.table.PendingDefBlobIDs() {
		raw, ok := b.table.BlobBytes(id)
		if !ok {
			continue
		}
		service.AppendRecord(&prelude, value.OpDefBlob, service.EncodeDefBlob(id, raw))
	}

	cmdBytes := prelude.Len() + b.body.Len()
	cmdOffset := uint32(0)
	if cmdBytes > 0 {
		cmdOffset = value.HeaderSize
	}
	totalSize := value.HeaderSize + uint32(cmdBytes)

	if b.cfg.MaxDrawlistBytes > 0 && int(totalSize) > b.cfg.MaxDrawlistBytes {
		b.err = rezierr.Newf(rezierr.TooLarge, "frame size %d exceeds max %d", totalSize, b.cfg.MaxDrawlistBytes)
		return Frame{}, b.err
	}

	var out []byte
	if b.cfg.ReuseOutputBuffer && cap(b.reuseOut) >= int(totalSize) {
		out = b.reuseOut[:totalSize]
	} else {
		out = make([]byte, totalSize)
	}
	if b.cfg.ReuseOutputBuffer {
		b.reuseOut = out
	}
	hdr := value.Header{
		Magic:      value.Magic,
		Version:    value.Version,
		HeaderSize: value.HeaderSize,
		TotalSize:  totalSize,
		CmdOffset:  cmdOffset,
		CmdBytes:   uint32(cmdBytes),
		CmdCount:   uint32(b.preludeRecordCount() + b.cmdCount),
	}
	hdr.Encode(out[:value.HeaderSize])
	copy(out[value.HeaderSize:], prelude.Bytes())
	copy(out[int(value.HeaderSize)+prelude.Len():], b.body.Bytes())

	b.perf.End()
	_ = b.audit.Write(rezilog.FrameAuditRecord{
		FrameSeq: b.table.FrameSequence(),
		Stage:    "build",
		Bytes:    len(out),
		CmdCount: int(hdr.CmdCount),
	})

	b.built = true
	return Frame{Bytes: out, CmdCount: int(hdr.CmdCount)}, nil
}

// Dump decodes a built frame's bytes and writes a one-line-per-record
// human-readable rendering to w, for debugging.
func Dump(w io.Writer, data []byte) error {
	f, err := codec.Decode(data)
	if err != nil {
		return err
	}
	return codec.Dump(w, f)
}

func (b *Builder) preludeRecordCount() int {
	return len(b.table.PendingFreeStringIDs()) +
		len(b.table.PendingFreeBlobIDs()) +
		len(b.table.PendingDefStringIDs()) +
		len(b.table.PendingDefBlobIDs())
}
