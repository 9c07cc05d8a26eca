// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package snapshot

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tokenbucket"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"

	"github.com/colakv/colakv/internal/base"
)

// Entry is one (key, value) record within a level's run.
type Entry struct {
	Key, Value []byte
}

// Compression selects the body codec a .pndb file was (or should be)
// written with. Snappy and Zstd are mutually exclusive (spec.md §6).
type Compression int

const (
	CompressionNone Compression = iota
	CompressionSnappy
	CompressionZstd
)

// Options controls how Save encodes a snapshot.
type Options struct {
	VarintLengths bool
	Compression   Compression
	// BytesPerSecond throttles Save's writes via a token bucket; zero
	// disables throttling. Load always reads unthrottled.
	BytesPerSecond float64
}

// DefaultOptions returns the format's default encoding: fixed-width
// lengths, no compression, unthrottled.
func DefaultOptions() Options {
	return Options{VarintLengths: false, Compression: CompressionNone}
}

func (o Options) flags() uint32 {
	var f uint32
	if o.VarintLengths {
		f |= FlagVarintLengths
	}
	switch o.Compression {
	case CompressionSnappy:
		f |= FlagSnappyValues
	case CompressionZstd:
		f |= FlagZstdBody
	}
	return f
}

// Save writes levels (ascending level index, each already in ascending key
// order) to path as a .pndb file (spec.md §4.7, §6). Each levels[i] is a
// full COLA level's run; an empty slice records a zero-size, absent level.
func Save(ctx context.Context, path string, levels [][]Entry, opts Options) (int64, error) {
	if len(levels) > MaxLevels {
		return 0, base.AssertionFailedf("snapshot: %d levels exceeds MaxLevels %d", len(levels), MaxLevels)
	}

	body, levelSizes, err := encodeBody(levels, opts)
	if err != nil {
		return 0, errors.Wrap(err, "colakv/snapshot: encoding body")
	}

	var header Header
	header.Magic = Magic
	header.Version = FormatVersion
	header.Flags = opts.flags()
	copy(header.LevelSizes[:], levelSizes)
	header.TotalBytes = uint64(HeaderSize + len(body) + ChecksumSize)

	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrapf(err, "colakv/snapshot: create %s", path)
	}
	defer f.Close()

	var tb tokenbucket.TokenBucket
	if opts.BytesPerSecond > 0 {
		tb.Init(tokenbucket.TokensPerSecond(opts.BytesPerSecond), tokenbucket.Tokens(opts.BytesPerSecond))
	}

	w := bufio.NewWriter(f)
	sum := sha256.New()
	mw := io.MultiWriter(w, sum)

	if err := throttledWrite(ctx, mw, &tb, opts, header.Encode()); err != nil {
		return 0, err
	}
	if err := throttledWrite(ctx, mw, &tb, opts, body); err != nil {
		return 0, err
	}
	if _, err := w.Write(sum.Sum(nil)); err != nil {
		return 0, errors.Wrap(err, "colakv/snapshot: writing footer checksum")
	}
	if err := w.Flush(); err != nil {
		return 0, errors.Wrap(err, "colakv/snapshot: flush")
	}

	return int64(header.TotalBytes), nil
}

func throttledWrite(ctx context.Context, w io.Writer, tb *tokenbucket.TokenBucket, opts Options, p []byte) error {
	if opts.BytesPerSecond <= 0 {
		_, err := w.Write(p)
		return err
	}
	if err := tb.Wait(ctx, tokenbucket.Tokens(len(p))); err != nil {
		return errors.Wrap(err, "colakv/snapshot: throttle wait")
	}
	_, err := w.Write(p)
	return err
}

// Load reads a .pndb file written by Save, reconstructing each level's
// run without re-sorting (spec.md §4.7: "Load reconstructs the COLA
// directly by placing each run as a full level; no re-sort is needed when
// the file was written in order").
func Load(ctx context.Context, path string) ([][]Entry, Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, Options{}, errors.Wrapf(err, "colakv/snapshot: read %s", path)
	}
	if len(raw) < HeaderSize+ChecksumSize {
		return nil, Options{}, base.CorruptionErrorf("file too short: %d bytes", len(raw))
	}

	header, err := DecodeHeader(raw[:HeaderSize])
	if err != nil {
		return nil, Options{}, errors.Wrapf(err, "colakv/snapshot: %s", path)
	}

	footerOff := len(raw) - ChecksumSize
	body := raw[HeaderSize:footerOff]
	wantSum := raw[footerOff:]

	sum := sha256.Sum256(raw[:footerOff])
	if !bytesEqual(sum[:], wantSum) {
		return nil, Options{}, base.CorruptionErrorf("%s: checksum mismatch", path)
	}

	opts := Options{
		VarintLengths: header.Flags&FlagVarintLengths != 0,
	}
	switch {
	case header.Flags&FlagSnappyValues != 0:
		opts.Compression = CompressionSnappy
	case header.Flags&FlagZstdBody != 0:
		opts.Compression = CompressionZstd
	}

	levels, err := decodeBody(body, header.LevelSizes[:], opts)
	if err != nil {
		return nil, Options{}, errors.Wrapf(err, "colakv/snapshot: %s", path)
	}
	return levels, opts, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func encodeBody(levels [][]Entry, opts Options) (body []byte, levelSizes []uint64, err error) {
	levelSizes = make([]uint64, MaxLevels)
	raw := make([]byte, 0, 4096)
	for i, level := range levels {
		start := len(raw)
		for _, e := range level {
			raw = appendEntry(raw, e, opts)
		}
		levelSizes[i] = uint64(len(raw) - start)
	}

	switch opts.Compression {
	case CompressionNone:
		return raw, levelSizes, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, nil, errors.Wrap(err, "colakv/snapshot: zstd writer")
		}
		defer enc.Close()
		return enc.EncodeAll(raw, nil), levelSizes, nil
	default:
		return raw, levelSizes, nil
	}
}

func decodeBody(body []byte, levelSizes []uint64, opts Options) ([][]Entry, error) {
	if opts.Compression == CompressionZstd {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, errors.Wrap(err, "colakv/snapshot: zstd reader")
		}
		defer dec.Close()
		decoded, err := dec.DecodeAll(body, nil)
		if err != nil {
			return nil, errors.Wrap(err, "colakv/snapshot: zstd decode")
		}
		body = decoded
	}

	levels := make([][]Entry, len(levelSizes))
	off := 0
	for i, size := range levelSizes {
		if size == 0 {
			continue
		}
		end := off + int(size)
		if end > len(body) {
			return nil, base.CorruptionErrorf("level %d run exceeds body length", i)
		}
		run, err := decodeRun(body[off:end], opts)
		if err != nil {
			return nil, errors.Wrapf(err, "colakv/snapshot: level %d", i)
		}
		levels[i] = run
		off = end
	}
	return levels, nil
}

// appendEntry encodes one (klen, k, vlen, v) record (spec.md §6), with
// lengths as varints when FlagVarintLengths is set and the value
// snappy-compressed when FlagSnappyValues is set. Values are compressed
// per entry (not the whole body) so a reader can decode a single level's
// run without first staging the entire file in memory.
func appendEntry(buf []byte, e Entry, opts Options) []byte {
	value := e.Value
	if opts.Compression == CompressionSnappy {
		value = snappy.Encode(nil, e.Value)
	}
	if opts.VarintLengths {
		buf = appendUvarint(buf, uint64(len(e.Key)))
		buf = append(buf, e.Key...)
		buf = appendUvarint(buf, uint64(len(value)))
		buf = append(buf, value...)
		return buf
	}
	buf = appendUint32(buf, uint32(len(e.Key)))
	buf = append(buf, e.Key...)
	buf = appendUint32(buf, uint32(len(value)))
	buf = append(buf, value...)
	return buf
}

func decodeRun(run []byte, opts Options) ([]Entry, error) {
	var entries []Entry
	off := 0
	for off < len(run) {
		klen, n, err := readLen(run[off:], opts.VarintLengths)
		if err != nil {
			return nil, err
		}
		off += n
		if off+int(klen) > len(run) {
			return nil, base.CorruptionErrorf("truncated key")
		}
		key := append([]byte(nil), run[off:off+int(klen)]...)
		off += int(klen)

		vlen, n, err := readLen(run[off:], opts.VarintLengths)
		if err != nil {
			return nil, err
		}
		off += n
		if off+int(vlen) > len(run) {
			return nil, base.CorruptionErrorf("truncated value")
		}
		value := append([]byte(nil), run[off:off+int(vlen)]...)
		off += int(vlen)

		if opts.Compression == CompressionSnappy {
			decoded, err := snappy.Decode(nil, value)
			if err != nil {
				return nil, errors.Wrap(err, "colakv/snapshot: snappy decode")
			}
			value = decoded
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}
	return entries, nil
}

func readLen(b []byte, varintLengths bool) (uint64, int, error) {
	if varintLengths {
		v, n := binary.Uvarint(b)
		if n <= 0 {
			return 0, 0, base.CorruptionErrorf("malformed varint length")
		}
		return v, n, nil
	}
	if len(b) < 4 {
		return 0, 0, base.CorruptionErrorf("truncated length field")
	}
	return uint64(binary.LittleEndian.Uint32(b)), 4, nil
}

func appendUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// SortUnordered sorts items into ascending key order for bulk loading when
// the caller didn't already provide sorted input. Database.BulkLoad does
// not call it: its ordered=false path sorts inside cola.Store.BulkLoad
// instead. Chunks are sorted concurrently via errgroup, then
// merged; this is the parallel pre-sort the domain stack wires
// golang.org/x/sync/errgroup into, grounded on devlibx-pebble's
// ingestLoad/ingestSortAndVerify pattern of validating and sorting
// multiple input shards before admitting them as levels.
func SortUnordered(items []Entry, workers int) []Entry {
	if len(items) < 2 || workers < 2 {
		out := append([]Entry(nil), items...)
		sort.Slice(out, func(i, j int) bool { return string(out[i].Key) < string(out[j].Key) })
		return out
	}

	chunkSize := (len(items) + workers - 1) / workers
	chunks := make([][]Entry, 0, workers)
	for i := 0; i < len(items); i += chunkSize {
		end := i + chunkSize
		if end > len(items) {
			end = len(items)
		}
		chunk := append([]Entry(nil), items[i:end]...)
		chunks = append(chunks, chunk)
	}

	var g errgroup.Group
	for i := range chunks {
		i := i
		g.Go(func() error {
			sort.Slice(chunks[i], func(a, b int) bool { return string(chunks[i][a].Key) < string(chunks[i][b].Key) })
			return nil
		})
	}
	_ = g.Wait()

	return mergeChunks(chunks)
}

func mergeChunks(chunks [][]Entry) []Entry {
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	out := make([]Entry, 0, total)
	idx := make([]int, len(chunks))
	for {
		best := -1
		for i, c := range chunks {
			if idx[i] >= len(c) {
				continue
			}
			if best == -1 || string(c[idx[i]].Key) < string(chunks[best][idx[best]].Key) {
				best = i
			}
		}
		if best == -1 {
			break
		}
		out = append(out, chunks[best][idx[best]])
		idx[best]++
	}
	return out
}
