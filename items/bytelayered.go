package items

import (
	"fmt"

	"github.com/laz-rs/laz-rs/model"
	"github.com/laz-rs/laz-rs/rangecoder"
)

type byteLayeredFieldState struct {
	last      byte
	have      bool
	sameModel *model.BinaryModel
	valModel  *model.ArithModel
}

// ByteLayeredCompressor is ByteCompressor's v3 counterpart: the same
// "same as last" fast path per extra-byte position, but one independent
// field array per Point14 context.
type ByteLayeredCompressor struct {
	n      int
	fields [point14Contexts][]byteLayeredFieldState
}

// NewByteLayeredCompressor builds a compressor for n extra bytes per
// record.
func NewByteLayeredCompressor(n int) *ByteLayeredCompressor {
	c := &ByteLayeredCompressor{n: n}
	for ctx := 0; ctx < point14Contexts; ctx++ {
		c.fields[ctx] = make([]byteLayeredFieldState, n)
		for i := range c.fields[ctx] {
			c.fields[ctx][i].sameModel = model.NewBinaryModel()
			c.fields[ctx][i].valModel = model.NewArithModel(256)
		}
	}
	c.Reset()
	return c
}

// Reset restores all model state to canonical initial conditions.
func (c *ByteLayeredCompressor) Reset() {
	for ctx := 0; ctx < point14Contexts; ctx++ {
		for i := range c.fields[ctx] {
			c.fields[ctx][i].last = 0
			c.fields[ctx][i].have = false
			c.fields[ctx][i].sameModel.Reset()
			c.fields[ctx][i].valModel.Reset()
		}
	}
}

// N returns the configured extra-byte count.
func (c *ByteLayeredCompressor) N() int { return c.n }

// Compress writes values through enc under Point14 context ctx. len(values)
// must equal c.N().
func (c *ByteLayeredCompressor) Compress(enc *rangecoder.Encoder, ctx int, values []byte) error {
	if len(values) != c.n {
		return fmt.Errorf("items: byte-layered compressor configured for %d fields, got %d", c.n, len(values))
	}

	fields := c.fields[ctx]
	for i, v := range values {
		f := &fields[i]
		if !f.have {
			enc.EncodeBits(8, uint32(v))
			f.last = v
			f.have = true
			continue
		}

		same := v == f.last
		f.sameModel.Encode(enc, boolToBit(same))
		if !same {
			f.valModel.Encode(enc, int(v))
			f.last = v
		}
	}
	return nil
}

// Decompress reads back c.N() bytes under Point14 context ctx.
func (c *ByteLayeredCompressor) Decompress(dec *rangecoder.Decoder, ctx int) ([]byte, error) {
	fields := c.fields[ctx]
	out := make([]byte, c.n)

	for i := range fields {
		f := &fields[i]
		if !f.have {
			v, err := dec.DecodeBits(8)
			if err != nil {
				return nil, err
			}
			f.last = byte(v) //nolint:gosec
			f.have = true
			out[i] = f.last
			continue
		}

		same, err := f.sameModel.Decode(dec)
		if err != nil {
			return nil, err
		}
		if same == 1 {
			out[i] = f.last
			continue
		}

		v, err := f.valModel.Decode(dec)
		if err != nil {
			return nil, err
		}
		f.last = byte(v) //nolint:gosec
		out[i] = f.last
	}
	return out, nil
}
