package items

import (
	"fmt"

	"github.com/laz-rs/laz-rs/model"
	"github.com/laz-rs/laz-rs/rangecoder"
)

type byteFieldState struct {
	last      byte
	have      bool
	sameModel *model.BinaryModel
	valModel  *model.ArithModel
}

// ByteCompressor encodes/decodes a fixed-width slice of "extra bytes", each
// byte position tracked independently: a "same as last" fast path skips
// the full 256-symbol model whenever a byte repeats, which is common for
// per-point flags and classification extensions stored as extra bytes.
type ByteCompressor struct {
	fields []byteFieldState
}

// NewByteCompressor builds a compressor for n extra bytes per record.
func NewByteCompressor(n int) *ByteCompressor {
	c := &ByteCompressor{fields: make([]byteFieldState, n)}
	for i := range c.fields {
		c.fields[i].sameModel = model.NewBinaryModel()
		c.fields[i].valModel = model.NewArithModel(256)
	}
	c.Reset()
	return c
}

// Reset restores all model state to canonical initial conditions.
func (c *ByteCompressor) Reset() {
	for i := range c.fields {
		c.fields[i].last = 0
		c.fields[i].have = false
		c.fields[i].sameModel.Reset()
		c.fields[i].valModel.Reset()
	}
}

// N returns the configured extra-byte count.
func (c *ByteCompressor) N() int { return len(c.fields) }

// Compress writes values through enc. len(values) must equal c.N().
func (c *ByteCompressor) Compress(enc *rangecoder.Encoder, values []byte) error {
	if len(values) != len(c.fields) {
		return fmt.Errorf("items: byte compressor configured for %d fields, got %d", len(c.fields), len(values))
	}

	for i, v := range values {
		f := &c.fields[i]
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

// Decompress reads back c.N() bytes.
func (c *ByteCompressor) Decompress(dec *rangecoder.Decoder) ([]byte, error) {
	out := make([]byte, len(c.fields))

	for i := range c.fields {
		f := &c.fields[i]
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
