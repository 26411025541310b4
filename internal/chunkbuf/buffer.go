// Package chunkbuf implements a logical byte array backed by a list of
// immutable chunks.
//
// Bytes arrive from a stream in arbitrarily sized pieces. Rather than copy
// them into one contiguous array, Buffer keeps each piece as delivered and
// exposes a single offset space [0, Len()) spanning all of them end to end.
// Data is only copied when a caller materializes a range.
//
// # Offsets
//
// Offsets are always relative to the current front of the buffer. Every
// drop operation shifts the front forward, so any offset a caller was
// holding must be re-based by subtracting the number of bytes dropped.
// Forgetting to re-base is the classic bug with this type.
//
// # Searching
//
// FindSequence is a naive scan: it jumps to the next occurrence of the
// first byte of the sequence and then compares the rest. Delimiters are a
// handful of bytes and echo traffic is modest, so Boyer-Moore or KMP would
// buy nothing measurable here.
//
// A Buffer is not safe for concurrent use.
package chunkbuf

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an offset or range falls outside [0, Len()).
var ErrOutOfRange = errors.New("chunkbuf: offset out of range")

// Buffer holds the not yet consumed tail of a byte stream as an ordered list
// of chunks. The zero value is an empty buffer ready for use.
type Buffer struct {
	chunks [][]byte
	length int
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{}
}

// Consume appends chunk to the buffer. Ownership of chunk passes to the
// buffer: the caller must not modify it afterwards. Empty chunks are ignored.
func (b *Buffer) Consume(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	b.chunks = append(b.chunks, chunk)
	b.length += len(chunk)
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return b.length
}

// Chunks returns the number of buffered chunks.
func (b *Buffer) Chunks() int {
	return len(b.chunks)
}

// FirstChunkLen returns the length of the oldest chunk, or 0 when empty.
func (b *Buffer) FirstChunkLen() int {
	if len(b.chunks) == 0 {
		return 0
	}
	return len(b.chunks[0])
}

// ByteAt returns the byte at offset.
func (b *Buffer) ByteAt(offset int) (byte, error) {
	if offset < 0 || offset >= b.length {
		return 0, b.rangeErr(offset, 1)
	}
	ci, co := b.locate(offset)
	return b.chunks[ci][co], nil
}

// FindSequence returns the lowest offset >= from at which seq occurs,
// possibly spanning several chunks. It reports false when seq does not occur
// in the buffered bytes. A negative from is treated as 0.
//
// seq must not be empty; passing an empty sequence is a programming error
// and panics.
func (b *Buffer) FindSequence(seq []byte, from int) (int, bool) {
	if len(seq) == 0 {
		panic("chunkbuf: FindSequence called with an empty sequence")
	}
	if from < 0 {
		from = 0
	}
	if from >= b.length {
		return -1, false
	}

	ci, co := b.locate(from)
	base := from - co // logical offset of chunk ci
	for ci < len(b.chunks) {
		chunk := b.chunks[ci]
		idx := bytes.IndexByte(chunk[co:], seq[0])
		if idx < 0 {
			base += len(chunk)
			ci, co = ci+1, 0
			continue
		}
		pos := base + co + idx
		if pos > b.length-len(seq) {
			// Every later candidate would run past the end as well.
			return -1, false
		}
		if b.matchAt(ci, co+idx, seq) {
			return pos, true
		}
		co += idx + 1
		if co >= len(chunk) {
			base += len(chunk)
			ci, co = ci+1, 0
		}
	}
	return -1, false
}

// Materialize copies length bytes starting at offset into a new slice.
func (b *Buffer) Materialize(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset > b.length-length {
		return nil, b.rangeErr(offset, length)
	}
	out := make([]byte, 0, length)
	if length == 0 {
		return out, nil
	}
	ci, co := b.locate(offset)
	for len(out) < length {
		part := b.chunks[ci][co:]
		if need := length - len(out); len(part) > need {
			part = part[:need]
		}
		out = append(out, part...)
		ci, co = ci+1, 0
	}
	return out, nil
}

// DropFirstChunk evicts the oldest chunk. On an empty buffer it resets the
// length and chunk count to zero.
func (b *Buffer) DropFirstChunk() {
	if len(b.chunks) == 0 {
		b.Reset()
		return
	}
	b.length -= len(b.chunks[0])
	b.chunks[0] = nil
	b.chunks = b.chunks[1:]
	if len(b.chunks) == 0 {
		b.chunks = nil
	}
}

// DropFirstChunkPrefix evicts up to n bytes from the front of the oldest
// chunk only and returns how many were dropped. A partially consumed chunk
// is replaced by a new chunk over its retained suffix; the bytes themselves
// are never modified.
func (b *Buffer) DropFirstChunkPrefix(n int) int {
	if n <= 0 || len(b.chunks) == 0 {
		return 0
	}
	first := b.chunks[0]
	if n >= len(first) {
		b.DropFirstChunk()
		return len(first)
	}
	b.chunks[0] = first[n:len(first):len(first)]
	b.length -= n
	return n
}

// DropThrough evicts the first n bytes of the buffer, across as many chunks
// as needed, and returns the number of bytes dropped (min(n, Len())).
//
// Afterwards offset 0 refers to what was offset n: callers must re-base any
// offsets they hold.
func (b *Buffer) DropThrough(n int) int {
	if n <= 0 {
		return 0
	}
	dropped := 0
	for len(b.chunks) > 0 && len(b.chunks[0]) <= n-dropped {
		dropped += len(b.chunks[0])
		b.DropFirstChunk()
	}
	if dropped < n {
		dropped += b.DropFirstChunkPrefix(n - dropped)
	}
	return dropped
}

// Reset discards all buffered data.
func (b *Buffer) Reset() {
	b.chunks = nil
	b.length = 0
}

// locate maps a logical offset in [0, Len()) to a chunk index and an offset
// inside that chunk.
func (b *Buffer) locate(offset int) (int, int) {
	for i, c := range b.chunks {
		if offset < len(c) {
			return i, offset
		}
		offset -= len(c)
	}
	return len(b.chunks), 0
}

// matchAt reports whether seq occurs starting at byte co of chunk ci.
func (b *Buffer) matchAt(ci, co int, seq []byte) bool {
	for len(seq) > 0 {
		if ci >= len(b.chunks) {
			return false
		}
		part := b.chunks[ci][co:]
		n := min(len(part), len(seq))
		if !bytes.Equal(part[:n], seq[:n]) {
			return false
		}
		seq = seq[n:]
		ci, co = ci+1, 0
	}
	return true
}

func (b *Buffer) rangeErr(offset, length int) error {
	return fmt.Errorf("%w: [%d, %d+%d) outside buffer of %d bytes", ErrOutOfRange, offset, offset, length, b.length)
}
