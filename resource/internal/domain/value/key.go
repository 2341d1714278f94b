// Package value derives the namespaced lookup keys used by the blob table.
package value

import (
	"fmt"
	"hash/fnv"
)

// Namespace prefixes keys to prevent cross-namespace collisions between
// auto-derived, caller-supplied, and text-run blob keys.
const (
	NamespaceAuto    = "a"  // auto-derived: "a:<len>:<fnv1a32>"
	NamespaceUser    = "u"  // caller-supplied: "u:…"
	NamespaceTextRun = "tr" // text-run blobs: "tr:…"
)

// AutoKey derives the stable key for a blob whose key the caller did not
// specify: "a:<byteLength>:<fnv1a32(bytes)>". The digest algorithm is
// fixed: the key is part of the cross-frame dedup contract, so it can
// never change.
func AutoKey(bytes []byte) string {
	h := fnv.New32a()
	_, _ = h.Write(bytes) // fnv32a.Write never returns an error
	return fmt.Sprintf("%s:%d:%08x", NamespaceAuto, len(bytes), h.Sum32())
}

// UserKey namespaces a caller-supplied key under "u:".
func UserKey(key string) string {
	return NamespaceUser + ":" + key
}

// TextRunKey namespaces a text-run blob key under "tr:".
func TextRunKey(key string) string {
	return NamespaceTextRun + ":" + key
}
