package rangecoder

import (
	"math"

	"github.com/laz-rs/laz-rs/mem"
)

// Encoder is a binary arithmetic (range) encoder writing into an owned
// mem.Buffer sink. Every chunk, and every per-field substream within a
// layered (v3) chunk, gets its own Encoder: no model or coder state may
// cross a chunk boundary, and the chunk writers build a fresh Encoder with
// NewEncoder at every chunk start.
type Encoder struct {
	low uint32
	rng uint32
	buf *mem.Buffer
}

// NewEncoder creates an Encoder writing into sink. sink is not reset; the
// caller decides whether to reuse a pooled buffer across chunks (it must
// call Reset() first if so, since model state resets independently).
func NewEncoder(sink *mem.Buffer) *Encoder {
	e := &Encoder{buf: sink}
	e.Init()
	return e
}

// Init resets the coder's low/range registers to their canonical initial
// state, as required at the start of every chunk. It does not touch the
// sink; callers reposition or reset the buffer themselves.
func (e *Encoder) Init() {
	e.low = 0
	e.rng = 0xFFFFFFFF
}

// SetSink rebinds the encoder to a new output buffer without touching
// low/range. No caller in this module uses it; it mirrors
// Decoder.SetSource.
func (e *Encoder) SetSink(sink *mem.Buffer) { e.buf = sink }

// EncodeSymbol narrows the coder's interval to the sub-range
// [cumFreq, cumFreq+freq) out of totFreq, the universal primitive beneath
// every bit and symbol encoding below. totFreq must not exceed BottomValue
// for adaptive models; literal writes use EncodeBits instead.
func (e *Encoder) EncodeSymbol(cumFreq, freq, totFreq uint32) {
	r := e.rng / totFreq

	lowBefore := e.low
	e.low += cumFreq * r
	if e.low < lowBefore {
		e.propagateCarry()
	}

	if cumFreq+freq < totFreq {
		e.rng = freq * r
	} else {
		e.rng -= cumFreq * r
	}

	e.renormalize()
}

// EncodeBit encodes a single binary decision given the probability (scaled
// to BottomValue) that bit == 0.
func (e *Encoder) EncodeBit(prob0 uint32, bit uint32) {
	if bit == 0 {
		e.EncodeSymbol(0, prob0, BottomValue)
	} else {
		e.EncodeSymbol(prob0, BottomValue-prob0, BottomValue)
	}
}

// EncodeBits writes an n-bit uniform literal (n <= 32), splitting values
// wider than directBitsSplit into a high remainder and a 16-bit low half.
func (e *Encoder) EncodeBits(n uint, value uint32) {
	if n == 0 {
		return
	}
	if n > directBitsSplit {
		hiBits := n - directBitsLow
		e.encodeDirect(hiBits, value>>directBitsLow)
		e.encodeDirect(directBitsLow, value&0xFFFF)
		return
	}
	e.encodeDirect(n, value)
}

func (e *Encoder) encodeDirect(n uint, value uint32) {
	e.EncodeSymbol(value, 1, uint32(1)<<n)
}

// WriteFloat writes a uniform 32-bit literal holding the IEEE-754 bits of
// v, used for wavepacket anchor coordinates.
func (e *Encoder) WriteFloat(v float32) {
	e.EncodeBits(32, math.Float32bits(v))
}

// WriteDouble writes a uniform 64-bit literal (as two 32-bit halves) holding
// the IEEE-754 bits of v.
func (e *Encoder) WriteDouble(v float64) {
	bits := math.Float64bits(v)
	e.EncodeBits(32, uint32(bits>>32))
	e.EncodeBits(32, uint32(bits))
}

// renormalize shifts out high bytes of low while range has fallen below
// TopValue, propagating any pending carry into already-emitted bytes before
// each byte leaves the coder for good.
func (e *Encoder) renormalize() {
	for e.rng < TopValue {
		e.outByte(byte(e.low >> 24))
		e.low <<= 8
		e.rng <<= 8
	}
}

func (e *Encoder) outByte(b byte) {
	e.buf.Grow(1)
	e.buf.B = append(e.buf.B, b)
}

// propagateCarry walks backward over bytes already written to the sink,
// turning a run of trailing 0xFF bytes into 0x00 and incrementing the first
// non-0xFF byte found. It is always safe because a chunk's substream is
// fully materialized in the owned mem.Buffer before being framed into the
// output — there is no partially-flushed history it could fail to reach.
func (e *Encoder) propagateCarry() {
	i := len(e.buf.B) - 1
	for i >= 0 && e.buf.B[i] == 0xFF {
		e.buf.B[i] = 0
		i--
	}
	if i >= 0 {
		e.buf.B[i]++
	}
}

// Done flushes the remaining four bytes of low, completing the coded
// stream for this chunk. The Encoder must not be used again without a call
// to Init.
func (e *Encoder) Done() {
	for i := 0; i < 4; i++ {
		e.outByte(byte(e.low >> 24))
		e.low <<= 8
	}
}

// Bytes returns the bytes written to the sink so far.
func (e *Encoder) Bytes() []byte { return e.buf.Bytes() }
