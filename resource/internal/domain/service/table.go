// Package service implements the Resource Intern Table: combined
// string/blob interning with LRU eviction by last-used tick, engine
// generation tracking, and free-list id allocation.
package service

import (
	"bytes"

	"github.com/rezi-tui/rezi/resource/internal/domain/model"
	"github.com/rezi-tui/rezi/resource/internal/domain/value"
	"github.com/rezi-tui/rezi/rezierr"
)

// Config bounds the table's capacity. A zero limit means "unlimited" for
// that dimension.
type Config struct {
	MaxStrings     int
	MaxStringBytes int
	MaxBlobs       int
	MaxBlobBytes   int
}

// Table is the Resource Intern Table: it owns both the string and blob
// maps, the per-frame pin set (encoded as each entry's PinnedFrame field),
// the cross-frame pending-free queues, and the engine generation counter.
//
// Table is single-threaded: it is owned exclusively by the builder that
// embeds it and must never be shared across goroutines.
type Table struct {
	cfg Config

	strings          map[uint32]*model.StringEntry
	stringByValue    map[string]uint32
	stringIDs        *model.IDAllocator
	stringBytesTotal int

	blobs          map[uint32]*model.BlobEntry
	blobByKey      map[string]uint32
	blobIDs        *model.IDAllocator
	blobBytesTotal int

	tick             uint64
	frameSeq         uint64
	engineGeneration uint64
	frameMutated     bool

	frameDefStringsOrder []uint32
	frameDefStringSet    map[uint32]bool
	frameDefBlobsOrder   []uint32
	frameDefBlobSet      map[uint32]bool

	pendingFreeStrings []uint32
	pendingFreeBlobs   []uint32
}

// New creates an intern table at frame sequence 1 and engine generation 1.
func New(cfg Config) *Table {
	return &Table{
		cfg:               cfg,
		strings:           make(map[uint32]*model.StringEntry),
		stringByValue:     make(map[string]uint32),
		stringIDs:         model.NewIDAllocator(),
		blobs:             make(map[uint32]*model.BlobEntry),
		blobByKey:         make(map[string]uint32),
		blobIDs:           model.NewIDAllocator(),
		frameSeq:          1,
		engineGeneration:  1,
		frameDefStringSet: make(map[uint32]bool),
		frameDefBlobSet:   make(map[uint32]bool),
	}
}

func (t *Table) nextTick() uint64 {
	t.tick++
	return t.tick
}

// CurrentGeneration returns the engine generation currently in effect.
func (t *Table) CurrentGeneration() uint64 {
	return t.engineGeneration
}

// FrameSequence returns the current frame's sequence number.
func (t *Table) FrameSequence() uint64 {
	return t.frameSeq
}

// StringBytesTotal returns the sum of interned string byte lengths.
func (t *Table) StringBytesTotal() int {
	return t.stringBytesTotal
}

// BlobBytesTotal returns the sum of interned blob byte lengths.
func (t *Table) BlobBytesTotal() int {
	return t.blobBytesTotal
}

// StringCount returns the number of live string entries.
func (t *Table) StringCount() int {
	return len(t.strings)
}

// BlobCount returns the number of live blob entries.
func (t *Table) BlobCount() int {
	return len(t.blobs)
}

// HasFrameMutations reports whether any intern/evict activity happened in
// the current frame — used by the builder's reset() to decide whether an
// unsubmitted frame must force a full resource redefinition next frame.
func (t *Table) HasFrameMutations() bool {
	return t.frameMutated
}

// StringBytes returns the live string's interned bytes, or nil if id is not
// a live string.
func (t *Table) StringBytes(id uint32) ([]byte, bool) {
	e, ok := t.strings[id]
	if !ok {
		return nil, false
	}
	return e.Bytes, true
}

// BlobBytes returns the live blob's interned bytes, or nil if id is not a
// live blob.
func (t *Table) BlobBytes(id uint32) ([]byte, bool) {
	e, ok := t.blobs[id]
	if !ok {
		return nil, false
	}
	return e.Bytes, true
}

// StringLive reports whether id refers to a currently live string.
func (t *Table) StringLive(id uint32) bool {
	_, ok := t.strings[id]
	return ok
}

// BlobLive reports whether id refers to a currently live blob.
func (t *Table) BlobLive(id uint32) bool {
	_, ok := t.blobs[id]
	return ok
}

// InternString returns the id of text, creating and pinning a new entry if
// it is not already interned.
func (t *Table) InternString(text string) (uint32, error) {
	if id, ok := t.stringByValue[text]; ok {
		t.touchString(id)
		t.markStringForDefinition(id, t.strings[id])
		return id, nil
	}

	raw := []byte(text)
	if err := t.evictStringsForCapacity(len(raw)); err != nil {
		return 0, err
	}

	id := t.stringIDs.Allocate()
	entry := &model.StringEntry{
		ID:           id,
		Bytes:        raw,
		LastUsedTick: t.nextTick(),
		PinnedFrame:  t.frameSeq,
	}
	t.strings[id] = entry
	t.stringByValue[text] = id
	t.stringBytesTotal += len(raw)
	t.frameMutated = true
	t.markStringForDefinition(id, entry)
	return id, nil
}

// TouchString refreshes id's last-used tick and pins it to the current
// frame. A string whose definition is stale relative to the engine
// generation joins the frame's definition set, so commands that reference
// it stay valid on the consumer side.
func (t *Table) TouchString(id uint32) {
	e, ok := t.strings[id]
	if !ok {
		return
	}
	t.touchString(id)
	t.markStringForDefinition(id, e)
}

func (t *Table) touchString(id uint32) {
	e, ok := t.strings[id]
	if !ok {
		return
	}
	e.LastUsedTick = t.nextTick()
	e.PinnedFrame = t.frameSeq
}

// AddBlob interns bytes under key (auto-derived when key is empty),
// recording stringDeps as dependencies that must stay live while this blob
// does. Returns BadParams on a same-frame key collision with different
// bytes.
func (t *Table) AddBlob(raw []byte, key string, stringDeps []uint32) (uint32, error) {
	return t.addBlobNamespaced(raw, key, stringDeps, false)
}

// AddTextRunBlob is AddBlob namespaced under "tr:", for blobs built from
// text-run segments; the drawlist builder forwards its own AddTextRunBlob
// here.
func (t *Table) AddTextRunBlob(raw []byte, key string, stringDeps []uint32) (uint32, error) {
	return t.addBlobNamespaced(raw, key, stringDeps, true)
}

func (t *Table) addBlobNamespaced(raw []byte, key string, stringDeps []uint32, textRun bool) (uint32, error) {
	var finalKey string
	switch {
	case key == "":
		finalKey = value.AutoKey(raw)
	case textRun:
		finalKey = value.TextRunKey(key)
	default:
		finalKey = value.UserKey(key)
	}

	if existingID, ok := t.blobByKey[finalKey]; ok {
		existing := t.blobs[existingID]
		if bytes.Equal(existing.Bytes, raw) {
			t.touchBlob(existingID)
			t.markBlobForDefinition(existingID, existing)
			return existingID, nil
		}
		if existing.PinnedFrame == t.frameSeq {
			return 0, rezierr.Newf(rezierr.BadParams, "stableKey %q collision within frame", finalKey)
		}
		t.evictBlobByID(existingID)
	}

	if err := t.evictBlobsForCapacity(len(raw)); err != nil {
		return 0, err
	}

	id := t.blobIDs.Allocate()
	entry := &model.BlobEntry{
		ID:           id,
		Key:          finalKey,
		Bytes:        raw,
		LastUsedTick: t.nextTick(),
		PinnedFrame:  t.frameSeq,
		StringDeps:   append([]uint32(nil), stringDeps...),
	}
	t.blobs[id] = entry
	t.blobByKey[finalKey] = id
	t.blobBytesTotal += len(raw)
	t.frameMutated = true

	for _, dep := range stringDeps {
		if depEntry, ok := t.strings[dep]; ok {
			depEntry.BlobRefCount++
		}
	}

	t.markBlobForDefinition(id, entry)
	return id, nil
}

// TouchBlob refreshes id's last-used tick and pins it to the current
// frame, joining the definition set when the blob's definition is stale.
func (t *Table) TouchBlob(id uint32) {
	e, ok := t.blobs[id]
	if !ok {
		return
	}
	t.touchBlob(id)
	t.markBlobForDefinition(id, e)
}

func (t *Table) touchBlob(id uint32) {
	e, ok := t.blobs[id]
	if !ok {
		return
	}
	e.LastUsedTick = t.nextTick()
	e.PinnedFrame = t.frameSeq
}

// MarkEngineResourceStoreEmpty advances the engine generation and clears all
// pending-free queues and per-frame definition sets: every resource
// referenced from here on is stale relative to the new generation and must
// be redefined.
func (t *Table) MarkEngineResourceStoreEmpty() {
	t.engineGeneration++
	t.pendingFreeStrings = nil
	t.pendingFreeBlobs = nil
	t.frameDefStringsOrder = nil
	t.frameDefStringSet = make(map[uint32]bool)
	t.frameDefBlobsOrder = nil
	t.frameDefBlobSet = make(map[uint32]bool)
}

// CommitFrame marks every resource in the current frame's definition set as
// defined at the current generation (the live entry must be unchanged —
// i.e. not since evicted), then clears per-frame defs. Called by the
// builder's reset() when the just-built frame was actually submitted.
func (t *Table) CommitFrame() {
	for _, id := range t.frameDefStringsOrder {
		if !t.frameDefStringSet[id] {
			continue // evicted before commit
		}
		if e, ok := t.strings[id]; ok {
			e.GenerationDefined = t.engineGeneration
		}
	}
	for _, id := range t.frameDefBlobsOrder {
		if !t.frameDefBlobSet[id] {
			continue
		}
		if e, ok := t.blobs[id]; ok {
			e.GenerationDefined = t.engineGeneration
		}
	}
	t.pendingFreeStrings = nil
	t.pendingFreeBlobs = nil
	t.frameDefStringsOrder = nil
	t.frameDefStringSet = make(map[uint32]bool)
	t.frameDefBlobsOrder = nil
	t.frameDefBlobSet = make(map[uint32]bool)
}

// NextFrame advances the frame sequence and resets the per-frame mutation
// flag. It does not touch definition sets or pending frees — the caller
// decides via CommitFrame or MarkEngineResourceStoreEmpty first.
func (t *Table) NextFrame() {
	t.frameSeq++
	t.frameMutated = false
}

// PendingFreeStringIDs returns the string ids queued for FREE_STRING, in
// insertion (eviction) order.
func (t *Table) PendingFreeStringIDs() []uint32 {
	return t.pendingFreeStrings
}

// PendingFreeBlobIDs returns the blob ids queued for FREE_BLOB, in
// insertion (eviction) order.
func (t *Table) PendingFreeBlobIDs() []uint32 {
	return t.pendingFreeBlobs
}

// PendingDefStringIDs returns the string ids that must be defined this
// frame, in first-referenced order.
func (t *Table) PendingDefStringIDs() []uint32 {
	out := make([]uint32, 0, len(t.frameDefStringsOrder))
	for _, id := range t.frameDefStringsOrder {
		if t.frameDefStringSet[id] {
			out = append(out, id)
		}
	}
	return out
}

// PendingDefBlobIDs returns the blob ids that must be defined this frame, in
// first-referenced order.
func (t *Table) PendingDefBlobIDs() []uint32 {
	out := make([]uint32, 0, len(t.frameDefBlobsOrder))
	for _, id := range t.frameDefBlobsOrder {
		if t.frameDefBlobSet[id] {
			out = append(out, id)
		}
	}
	return out
}

func (t *Table) markStringForDefinition(id uint32, e *model.StringEntry) {
	if e.GenerationDefined >= t.engineGeneration {
		return
	}
	if t.frameDefStringSet[id] {
		return
	}
	t.frameDefStringSet[id] = true
	t.frameDefStringsOrder = append(t.frameDefStringsOrder, id)
}

func (t *Table) markBlobForDefinition(id uint32, e *model.BlobEntry) {
	if e.GenerationDefined >= t.engineGeneration {
		return
	}
	if t.frameDefBlobSet[id] {
		return
	}
	t.frameDefBlobSet[id] = true
	t.frameDefBlobsOrder = append(t.frameDefBlobsOrder, id)
}

func (t *Table) evictStringsForCapacity(newBytes int) error {
	for t.stringOverCapacity(newBytes) {
		id := t.lruEvictableString()
		if id == 0 {
			return rezierr.New(rezierr.TooLarge, "string intern table full: no evictable entry")
		}
		t.evictStringByID(id)
	}
	return nil
}

func (t *Table) stringOverCapacity(newBytes int) bool {
	if t.cfg.MaxStrings > 0 && len(t.strings) >= t.cfg.MaxStrings {
		return true
	}
	if t.cfg.MaxStringBytes > 0 && t.stringBytesTotal+newBytes > t.cfg.MaxStringBytes {
		return true
	}
	return false
}

func (t *Table) lruEvictableString() uint32 {
	var best uint32
	var bestTick uint64
	for id, e := range t.strings {
		if e.PinnedFrame == t.frameSeq {
			continue
		}
		if e.BlobRefCount > 0 {
			continue
		}
		if best == 0 || e.LastUsedTick < bestTick {
			best, bestTick = id, e.LastUsedTick
		}
	}
	return best
}

func (t *Table) evictStringByID(id uint32) {
	e, ok := t.strings[id]
	if !ok {
		return
	}
	if e.GenerationDefined == t.engineGeneration {
		t.pendingFreeStrings = append(t.pendingFreeStrings, id)
	}
	delete(t.frameDefStringSet, id)
	delete(t.strings, id)
	delete(t.stringByValue, string(e.Bytes))
	t.stringBytesTotal -= len(e.Bytes)
	t.stringIDs.Release(id)
	t.frameMutated = true
}

func (t *Table) evictBlobsForCapacity(newBytes int) error {
	for t.blobOverCapacity(newBytes) {
		id := t.lruEvictableBlob()
		if id == 0 {
			return rezierr.New(rezierr.TooLarge, "blob intern table full: no evictable entry")
		}
		t.evictBlobByID(id)
	}
	return nil
}

func (t *Table) blobOverCapacity(newBytes int) bool {
	if t.cfg.MaxBlobs > 0 && len(t.blobs) >= t.cfg.MaxBlobs {
		return true
	}
	if t.cfg.MaxBlobBytes > 0 && t.blobBytesTotal+newBytes > t.cfg.MaxBlobBytes {
		return true
	}
	return false
}

func (t *Table) lruEvictableBlob() uint32 {
	var best uint32
	var bestTick uint64
	for id, e := range t.blobs {
		if e.PinnedFrame == t.frameSeq {
			continue
		}
		if best == 0 || e.LastUsedTick < bestTick {
			best, bestTick = id, e.LastUsedTick
		}
	}
	return best
}

func (t *Table) evictBlobByID(id uint32) {
	e, ok := t.blobs[id]
	if !ok {
		return
	}
	if e.GenerationDefined == t.engineGeneration {
		t.pendingFreeBlobs = append(t.pendingFreeBlobs, id)
	}
	delete(t.frameDefBlobSet, id)
	delete(t.blobs, id)
	delete(t.blobByKey, e.Key)
	t.blobBytesTotal -= len(e.Bytes)
	t.blobIDs.Release(id)
	t.frameMutated = true

	for _, dep := range e.StringDeps {
		if depEntry, ok := t.strings[dep]; ok && depEntry.BlobRefCount > 0 {
			depEntry.BlobRefCount--
		}
	}
}
