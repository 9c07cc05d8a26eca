// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package snapshot implements the .pndb on-disk format (spec.md §4.7, §6):
// header, one run per full COLA level, and a checksum footer.
package snapshot

import (
	"encoding/binary"

	"github.com/colakv/colakv/internal/base"
)

// Magic identifies a .pndb file, mirroring the teacher's own footer magic
// string switch (sstable/table.go's levelDBMagic/rocksDBMagic), but with a
// single fixed magic since colakv has no legacy format to stay compatible
// with.
var Magic = [4]byte{'P', 'N', 'D', 'B'}

// FormatVersion is the current .pndb encoding version.
const FormatVersion uint16 = 1

// Flag bits within the header (spec.md §6).
const (
	FlagVarintLengths uint32 = 1 << 0
	FlagSnappyValues  uint32 = 1 << 1
	FlagZstdBody      uint32 = 1 << 2
)

// ChecksumSize is the footer's fixed checksum width: SHA-256, a 256-bit
// digest as spec.md §4.7 requires ("any modern 256-bit hash").
const ChecksumSize = 32

// MaxLevels bounds the header's per-level run-size table. It mirrors
// internal/cola.DefaultMaxLevels but is declared independently so the
// on-disk format doesn't change shape if the in-memory default ever does;
// a file's actual level count is still exactly len(Header.LevelSizes)
// regardless of what produced it.
const MaxLevels = 24

// Header is the fixed-size prefix of a .pndb file.
type Header struct {
	Magic      [4]byte
	Version    uint16
	Flags      uint32
	LevelSizes [MaxLevels]uint64
	TotalBytes uint64
}

// HeaderSize is the encoded byte length of Header.
const HeaderSize = 4 + 2 + 4 + MaxLevels*8 + 8

// Encode writes h into a HeaderSize-byte buffer.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint32(buf[6:10], h.Flags)
	off := 10
	for i := 0; i < MaxLevels; i++ {
		binary.LittleEndian.PutUint64(buf[off:off+8], h.LevelSizes[i])
		off += 8
	}
	binary.LittleEndian.PutUint64(buf[off:off+8], h.TotalBytes)
	return buf
}

// DecodeHeader parses a Header from buf, validating the magic and format
// version the way the teacher's parseFooter validates its magic number
// before trusting the rest of the footer.
func DecodeHeader(buf []byte) (Header, error) {
	var h Header
	if len(buf) < HeaderSize {
		return h, base.CorruptionErrorf("header too short: %d bytes", len(buf))
	}
	copy(h.Magic[:], buf[0:4])
	if h.Magic != Magic {
		return h, base.CorruptionErrorf("bad magic number: %q", h.Magic[:])
	}
	h.Version = binary.LittleEndian.Uint16(buf[4:6])
	if h.Version != FormatVersion {
		return h, base.CorruptionErrorf("unsupported format version: %d", h.Version)
	}
	h.Flags = binary.LittleEndian.Uint32(buf[6:10])
	off := 10
	for i := 0; i < MaxLevels; i++ {
		h.LevelSizes[i] = binary.LittleEndian.Uint64(buf[off : off+8])
		off += 8
	}
	h.TotalBytes = binary.LittleEndian.Uint64(buf[off : off+8])
	return h, nil
}
