// Package model implements the adaptive statistical models driving the
// range coder: binary models, m-ary (arithmetic) models with a tabulated
// CDF, and the integer compressor built on top of them. Every model type
// exposes Reset as a first-class operation so the chunk writer/reader can
// restore canonical initial state at each chunk boundary without
// reconstructing objects.
package model

import "github.com/laz-rs/laz-rs/rangecoder"

// binaryLengthShift controls how fast prob0 tracks the observed bit
// distribution: each observation moves prob0 by 1/2^shift of the distance
// to its limit, matching the shift width reference LASzip's binary model
// uses for its own exponential update.
const binaryLengthShift = 13

// binaryInitProb0 seeds a new model at an even 50/50 split.
const binaryInitProb0 = rangecoder.BottomValue / 2

// BinaryModel is a two-symbol adaptive probability model. prob0 is updated
// after every observed bit by an exponential moving average rather than a
// periodic rescale from accumulated counts, so recent bits always carry
// more weight than older ones without a separate rescale step.
type BinaryModel struct {
	prob0 uint32
}

// NewBinaryModel creates a BinaryModel in its canonical initial state.
func NewBinaryModel() *BinaryModel {
	m := &BinaryModel{}
	m.Reset()
	return m
}

// Reset restores the model to its canonical initial state. Must be called
// for every model at the start of every chunk; no adaptive state may
// survive a chunk boundary.
func (m *BinaryModel) Reset() {
	m.prob0 = binaryInitProb0
}

// Encode writes bit through enc, then updates this model's statistics.
func (m *BinaryModel) Encode(enc *rangecoder.Encoder, bit uint32) {
	enc.EncodeBit(m.prob0, bit)
	m.update(bit)
}

// Decode reads a single bit back from dec, then updates this model's
// statistics identically to Encode so encoder and decoder stay in lock
// step.
func (m *BinaryModel) Decode(dec *rangecoder.Decoder) (uint32, error) {
	bit, err := dec.DecodeBit(m.prob0)
	if err != nil {
		return 0, err
	}
	m.update(bit)
	return bit, nil
}

// update moves prob0 a fraction of the way toward the bound implied by the
// observed bit. The update can never drive prob0 to exactly 0 or
// rangecoder.BottomValue: integer truncation always leaves at least 1 of
// distance on the side it is approaching, which keeps prob0 within the
// open interval EncodeBit/DecodeBit require.
func (m *BinaryModel) update(bit uint32) {
	if bit == 0 {
		m.prob0 += (rangecoder.BottomValue - m.prob0) >> binaryLengthShift
	} else {
		m.prob0 -= m.prob0 >> binaryLengthShift
	}
}
