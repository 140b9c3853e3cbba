// Package mem provides the in-memory stream media the range coder reads
// from and writes to. A Buffer can act as a sink while encoding and, once
// rewound, as a source while decoding, so the same type backs both
// directions of the codec and the per-chunk accumulation buffers each
// layered v3 field owns.
package mem

import "io"

// DefaultSize is the fixed step by which Grow enlarges a Buffer whose
// capacity is still small (see Grow); range coder output buffers grow in
// these steps.
const DefaultSize = 4096

// Buffer is a growable byte slice with an independent read cursor, so a
// single instance can be filled by an encoder and then drained by a
// decoder without copying. It is not safe for concurrent use.
type Buffer struct {
	B   []byte
	pos int
}

// NewBuffer creates a Buffer with the given initial capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{B: make([]byte, 0, capacity)}
}

// FromBytes wraps an existing byte slice as a read-only source positioned
// at offset zero. The slice is not copied; callers must not mutate it while
// a decoder is reading from the Buffer.
func FromBytes(b []byte) *Buffer {
	return &Buffer{B: b}
}

// Bytes returns the written portion of the buffer.
func (b *Buffer) Bytes() []byte { return b.B }

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int { return len(b.B) }

// Cap returns the buffer's current capacity.
func (b *Buffer) Cap() int { return cap(b.B) }

// Pos returns the current read cursor.
func (b *Buffer) Pos() int { return b.pos }

// Remaining returns the number of unread bytes.
func (b *Buffer) Remaining() int { return len(b.B) - b.pos }

// Reset empties the buffer and rewinds the read cursor, retaining the
// underlying array for reuse.
func (b *Buffer) Reset() {
	b.B = b.B[:0]
	b.pos = 0
}

// Rewind moves the read cursor back to the start without discarding the
// written bytes, so a buffer just filled by an encoder can immediately be
// handed to a decoder.
func (b *Buffer) Rewind() { b.pos = 0 }

// Seek repositions the read cursor to an absolute byte offset.
func (b *Buffer) Seek(offset int) bool {
	if offset < 0 || offset > len(b.B) {
		return false
	}
	b.pos = offset
	return true
}

// Grow ensures the buffer can accept at least n more bytes without a
// reallocation, using the same amortized growth strategy at every size: a
// fixed step below 4x DefaultSize, then a 25% relative step above it.
func (b *Buffer) Grow(n int) {
	if cap(b.B)-len(b.B) >= n {
		return
	}

	growBy := DefaultSize
	if cap(b.B) > 4*DefaultSize {
		growBy = cap(b.B) / 4
	}
	if growBy < n {
		growBy = n
	}

	newB := make([]byte, len(b.B), len(b.B)+growBy)
	copy(newB, b.B)
	b.B = newB
}

// WriteByte appends a single byte, growing the buffer if necessary.
func (b *Buffer) WriteByte(c byte) error {
	b.Grow(1)
	b.B = append(b.B, c)
	return nil
}

// Write appends data to the buffer, growing it as needed. It implements
// io.Writer.
func (b *Buffer) Write(data []byte) (int, error) {
	b.Grow(len(data))
	b.B = append(b.B, data...)
	return len(data), nil
}

// ReadByte consumes and returns the next unread byte.
func (b *Buffer) ReadByte() (byte, error) {
	if b.pos >= len(b.B) {
		return 0, io.EOF
	}
	c := b.B[b.pos]
	b.pos++
	return c, nil
}

// Read consumes up to len(p) unread bytes into p. It implements io.Reader.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.pos >= len(b.B) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, b.B[b.pos:])
	b.pos += n
	return n, nil
}

// Truncate discards every byte from n onward, used by the appender when it
// re-opens a stream and must drop a stale chunk table before re-emitting
// it.
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > len(b.B) {
		panic("mem: Truncate index out of range")
	}
	b.B = b.B[:n]
	if b.pos > n {
		b.pos = n
	}
}
