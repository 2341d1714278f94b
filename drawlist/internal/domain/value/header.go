package value

import "encoding/binary"

// Magic is the drawlist format's fixed 4-byte identifier ("RZF1" as a
// little-endian uint32).
const Magic uint32 = 0x31465a52

// Version is the only wire version this package produces or accepts.
const Version uint32 = 1

// HeaderSize is the fixed frame header size in bytes.
const HeaderSize uint32 = 64

// headerReservedWords is the count of trailing reserved 32-bit words that
// pad the header out to HeaderSize.
const headerReservedWords = 9

// Header is the 64-byte little-endian frame header.
type Header struct {
	Magic      uint32
	Version    uint32
	HeaderSize uint32
	TotalSize  uint32
	CmdOffset  uint32
	CmdBytes   uint32
	CmdCount   uint32
}

// Encode writes the header's 64-byte wire representation to dst.
func (h Header) Encode(dst []byte) {
	_ = dst[HeaderSize-1]
	binary.LittleEndian.PutUint32(dst[0:4], h.Magic)
	binary.LittleEndian.PutUint32(dst[4:8], h.Version)
	binary.LittleEndian.PutUint32(dst[8:12], h.HeaderSize)
	binary.LittleEndian.PutUint32(dst[12:16], h.TotalSize)
	binary.LittleEndian.PutUint32(dst[16:20], h.CmdOffset)
	binary.LittleEndian.PutUint32(dst[20:24], h.CmdBytes)
	binary.LittleEndian.PutUint32(dst[24:28], h.CmdCount)
	for i := 0; i < headerReservedWords; i++ {
		off := 28 + i*4
		binary.LittleEndian.PutUint32(dst[off:off+4], 0)
	}
}

// DecodeHeader reads a 64-byte frame header from src.
func DecodeHeader(src []byte) (Header, bool) {
	if len(src) < int(HeaderSize) {
		return Header{}, false
	}
	h := Header{
		Magic:      binary.LittleEndian.Uint32(src[0:4]),
		Version:    binary.LittleEndian.Uint32(src[4:8]),
		HeaderSize: binary.LittleEndian.Uint32(src[8:12]),
		TotalSize:  binary.LittleEndian.Uint32(src[12:16]),
		CmdOffset:  binary.LittleEndian.Uint32(src[16:20]),
		CmdBytes:   binary.LittleEndian.Uint32(src[20:24]),
		CmdCount:   binary.LittleEndian.Uint32(src[24:28]),
	}
	return h, true
}
