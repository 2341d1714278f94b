// Package resource implements the Resource Intern Table: a bounded,
// LRU-evicted store of interned strings and blobs shared by a drawlist
// builder across frames, so repeated text and binary payloads are encoded
// once per engine generation rather than once per frame.
//
// This file is the only exported surface; everything else lives under
// internal/ and is reached only through Table.
package resource

import (
	"github.com/rezi-tui/rezi/resource/internal/domain/service"
)

// Config bounds a Table's capacity. A zero value for any field means
// "unlimited" along that dimension.
type Config = service.Config

// Table is the Resource Intern Table. A Table is owned exclusively by a
// single drawlist builder and must never be shared across goroutines.
type Table struct {
	inner *service.Table
}

// New creates an empty Table at frame sequence 1 and engine generation 1.
func New(cfg Config) *Table {
	return &Table{inner: service.New(cfg)}
}

// InternString returns the id for text, interning it if this is the first
// time it has been seen (or if it was previously evicted). Returns
// rezierr.TooLarge if the table is full and no entry is evictable.
func (t *Table) InternString(text string) (uint32, error) {
	return t.inner.InternString(text)
}

// TouchString refreshes id's LRU position and pins it to the current frame.
// If the string's definition is stale relative to the engine generation, it
// joins the frame's definition set.
func (t *Table) TouchString(id uint32) {
	t.inner.TouchString(id)
}

// AddBlob interns raw under key (auto-derived from content when key is
// empty), recording stringDeps as strings this blob's content depends on so
// they cannot be evicted out from under it. A same-frame collision between
// an explicit key and different bytes is a BAD_PARAMS error; a cross-frame
// collision evicts the stale entry and replaces it.
func (t *Table) AddBlob(raw []byte, key string, stringDeps []uint32) (uint32, error) {
	return t.inner.AddBlob(raw, key, stringDeps)
}

// AddTextRunBlob is AddBlob namespaced for blobs synthesized from
// DRAW_TEXT_RUN segments, keeping them out of the caller-supplied "u:"
// namespace.
func (t *Table) AddTextRunBlob(raw []byte, key string, stringDeps []uint32) (uint32, error) {
	return t.inner.AddTextRunBlob(raw, key, stringDeps)
}

// TouchBlob refreshes id's LRU position and pins it to the current frame,
// joining the definition set when its definition is stale.
func (t *Table) TouchBlob(id uint32) {
	t.inner.TouchBlob(id)
}

// StringBytes returns the live bytes for a string id.
func (t *Table) StringBytes(id uint32) ([]byte, bool) {
	return t.inner.StringBytes(id)
}

// BlobBytes returns the live bytes for a blob id.
func (t *Table) BlobBytes(id uint32) ([]byte, bool) {
	return t.inner.BlobBytes(id)
}

// StringLive reports whether id is currently a live string.
func (t *Table) StringLive(id uint32) bool {
	return t.inner.StringLive(id)
}

// BlobLive reports whether id is currently a live blob.
func (t *Table) BlobLive(id uint32) bool {
	return t.inner.BlobLive(id)
}

// MarkEngineResourceStoreEmpty advances the engine generation and clears all
// pending-free queues and per-frame definition sets. Call this when the
// remote engine restarted (or otherwise discarded its resource store) so
// every subsequently referenced resource is redefined from scratch.
func (t *Table) MarkEngineResourceStoreEmpty() {
	t.inner.MarkEngineResourceStoreEmpty()
}

// PendingFreeStringIDs returns the string ids queued for FREE_STRING this
// frame, in eviction order.
func (t *Table) PendingFreeStringIDs() []uint32 {
	return t.inner.PendingFreeStringIDs()
}

// PendingFreeBlobIDs returns the blob ids queued for FREE_BLOB this frame,
// in eviction order.
func (t *Table) PendingFreeBlobIDs() []uint32 {
	return t.inner.PendingFreeBlobIDs()
}

// PendingDefStringIDs returns the string ids that must be defined
// (DEF_STRING) this frame, in first-referenced order.
func (t *Table) PendingDefStringIDs() []uint32 {
	return t.inner.PendingDefStringIDs()
}

// PendingDefBlobIDs returns the blob ids that must be defined (DEF_BLOB)
// this frame, in first-referenced order.
func (t *Table) PendingDefBlobIDs() []uint32 {
	return t.inner.PendingDefBlobIDs()
}

// CommitFrame marks every pending definition as defined at the current
// generation and clears per-frame bookkeeping. Call this once the frame
// that referenced them has actually been submitted to the transport.
func (t *Table) CommitFrame() {
	t.inner.CommitFrame()
}

// NextFrame advances the frame sequence, releasing the previous frame's pin
// on every resource that was not re-referenced.
func (t *Table) NextFrame() {
	t.inner.NextFrame()
}

// HasFrameMutations reports whether the current frame performed any
// intern/evict activity the builder must account for before resetting.
func (t *Table) HasFrameMutations() bool {
	return t.inner.HasFrameMutations()
}

// CurrentGeneration returns the engine generation currently in effect.
func (t *Table) CurrentGeneration() uint64 {
	return t.inner.CurrentGeneration()
}

// FrameSequence returns the current frame's sequence number.
func (t *Table) FrameSequence() uint64 {
	return t.inner.FrameSequence()
}

// StringCount returns the number of live interned strings.
func (t *Table) StringCount() int {
	return t.inner.StringCount()
}

// BlobCount returns the number of live interned blobs.
func (t *Table) BlobCount() int {
	return t.inner.BlobCount()
}

// StringBytesTotal returns the sum of live interned string byte lengths.
func (t *Table) StringBytesTotal() int {
	return t.inner.StringBytesTotal()
}

// BlobBytesTotal returns the sum of live interned blob byte lengths.
func (t *Table) BlobBytesTotal() int {
	return t.inner.BlobBytesTotal()
}
