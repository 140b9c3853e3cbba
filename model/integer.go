package model

import (
	"math/bits"

	"github.com/laz-rs/laz-rs/rangecoder"
)

// IntegerCompressor encodes a signed integer as a delta from a predicted
// value, splitting the magnitude into a "k" bit-length prefix (coded with
// an adaptive m-ary model, one per context) and a raw k-bit literal
// payload. It backs every per-field predictor: X/Y/Z, gps-time deltas, RGB
// channel halves, wavepacket offsets and anchors.
type IntegerCompressor struct {
	bits    uint
	kModels []*ArithModel
}

// NewIntegerCompressor creates a compressor for signed values that fit in
// bits (commonly 32), keeping one k-distribution per context so unrelated
// predictor slots (e.g. Point10's four last-value slots) do not pollute
// each other's statistics.
func NewIntegerCompressor(bitsWide uint, contexts int) *IntegerCompressor {
	ic := &IntegerCompressor{
		bits:    bitsWide,
		kModels: make([]*ArithModel, contexts),
	}
	for i := range ic.kModels {
		ic.kModels[i] = NewArithModel(int(bitsWide) + 1)
	}
	return ic
}

// Reset restores every context's k-distribution to its canonical initial
// state, required at every chunk boundary.
func (ic *IntegerCompressor) Reset() {
	for _, m := range ic.kModels {
		m.Reset()
	}
}

// Contexts returns the number of independent k-distributions this
// compressor was constructed with.
func (ic *IntegerCompressor) Contexts() int { return len(ic.kModels) }

// fold maps a signed correction into an unsigned value of ic.bits width via
// a simple bias shift, wrapping values that overflow the configured width
// exactly as two's-complement addition would.
func (ic *IntegerCompressor) fold(corr int64) uint32 {
	half := int64(1) << (ic.bits - 1)
	mask := (uint64(1) << ic.bits) - 1
	return uint32(uint64(corr+half) & mask)
}

func (ic *IntegerCompressor) unfold(unsigned uint32) int64 {
	half := int64(1) << (ic.bits - 1)
	return int64(unsigned) - half
}

// Compress writes real, predicted as pred, under the given context.
func (ic *IntegerCompressor) Compress(enc *rangecoder.Encoder, pred, real int32, context int) {
	corr := int64(real) - int64(pred)
	unsigned := ic.fold(corr)

	k := bits.Len32(unsigned)
	ic.kModels[context].Encode(enc, k)
	if k > 0 {
		enc.EncodeBits(uint(k), unsigned&((uint32(1)<<uint(k))-1)) //nolint:gosec
	}
}

// Decompress reads back a value predicted as pred, under the given context.
func (ic *IntegerCompressor) Decompress(dec *rangecoder.Decoder, pred int32, context int) (int32, error) {
	k, err := ic.kModels[context].Decode(dec)
	if err != nil {
		return 0, err
	}

	var unsigned uint32
	if k > 0 {
		v, err := dec.DecodeBits(uint(k)) //nolint:gosec
		if err != nil {
			return 0, err
		}
		unsigned = v
	}

	corr := ic.unfold(unsigned)
	return pred + int32(corr), nil //nolint:gosec
}
