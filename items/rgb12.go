package items

import (
	"github.com/laz-rs/laz-rs/model"
	"github.com/laz-rs/laz-rs/rangecoder"
)

// Rgb is a 6-byte RGB triple, each channel a 16-bit sample.
type Rgb struct {
	R, G, B uint16
}

// Rgb12Compressor encodes/decodes Rgb records: a "changed" bit per channel
// gates whether a channel is re-encoded at all, and green's delta predicts
// red's and blue's low/high byte halves, since the three channels usually
// move together.
type Rgb12Compressor struct {
	last Rgb
	have bool

	changedR *model.BinaryModel
	changedG *model.BinaryModel
	changedB *model.BinaryModel

	icGLo, icGHi *model.IntegerCompressor
	icRLo, icRHi *model.IntegerCompressor
	icBLo, icBHi *model.IntegerCompressor
}

// NewRgb12Compressor builds a compressor in its canonical initial state.
func NewRgb12Compressor() *Rgb12Compressor {
	c := &Rgb12Compressor{
		changedR: model.NewBinaryModel(),
		changedG: model.NewBinaryModel(),
		changedB: model.NewBinaryModel(),
		icGLo:    model.NewIntegerCompressor(8, 1),
		icGHi:    model.NewIntegerCompressor(8, 1),
		icRLo:    model.NewIntegerCompressor(8, 1),
		icRHi:    model.NewIntegerCompressor(8, 1),
		icBLo:    model.NewIntegerCompressor(8, 1),
		icBHi:    model.NewIntegerCompressor(8, 1),
	}
	c.Reset()
	return c
}

// Reset restores all model state to canonical initial conditions.
func (c *Rgb12Compressor) Reset() {
	c.last = Rgb{}
	c.have = false
	c.changedR.Reset()
	c.changedG.Reset()
	c.changedB.Reset()
	c.icGLo.Reset()
	c.icGHi.Reset()
	c.icRLo.Reset()
	c.icRHi.Reset()
	c.icBLo.Reset()
	c.icBHi.Reset()
}

func lo8(v uint16) int32 { return int32(v & 0xFF) }
func hi8(v uint16) int32 { return int32(v >> 8) }

// Compress writes p through enc.
func (c *Rgb12Compressor) Compress(enc *rangecoder.Encoder, p Rgb) {
	if !c.have {
		enc.EncodeBits(16, uint32(p.R))
		enc.EncodeBits(16, uint32(p.G))
		enc.EncodeBits(16, uint32(p.B))
		c.last = p
		c.have = true
		return
	}

	changedR := p.R != c.last.R
	changedG := p.G != c.last.G
	changedB := p.B != c.last.B

	c.changedG.Encode(enc, boolToBit(changedG))
	c.changedR.Encode(enc, boolToBit(changedR))
	c.changedB.Encode(enc, boolToBit(changedB))

	newG := c.last.G
	if changedG {
		c.icGLo.Compress(enc, lo8(c.last.G), lo8(p.G), 0)
		c.icGHi.Compress(enc, hi8(c.last.G), hi8(p.G), 0)
		newG = p.G
	}

	newR := c.last.R
	if changedR {
		predLo := lo8(c.last.R) + lo8(newG) - lo8(c.last.G)
		predHi := hi8(c.last.R) + hi8(newG) - hi8(c.last.G)
		c.icRLo.Compress(enc, predLo, lo8(p.R), 0)
		c.icRHi.Compress(enc, predHi, hi8(p.R), 0)
		newR = p.R
	}

	newB := c.last.B
	if changedB {
		predLo := lo8(c.last.B) + lo8(newG) - lo8(c.last.G)
		predHi := hi8(c.last.B) + hi8(newG) - hi8(c.last.G)
		c.icBLo.Compress(enc, predLo, lo8(p.B), 0)
		c.icBHi.Compress(enc, predHi, hi8(p.B), 0)
		newB = p.B
	}

	c.last = Rgb{R: newR, G: newG, B: newB}
}

// Decompress reads back one Rgb record.
func (c *Rgb12Compressor) Decompress(dec *rangecoder.Decoder) (Rgb, error) {
	if !c.have {
		r, err := dec.DecodeBits(16)
		if err != nil {
			return Rgb{}, err
		}
		g, err := dec.DecodeBits(16)
		if err != nil {
			return Rgb{}, err
		}
		b, err := dec.DecodeBits(16)
		if err != nil {
			return Rgb{}, err
		}
		p := Rgb{R: uint16(r), G: uint16(g), B: uint16(b)} //nolint:gosec
		c.last = p
		c.have = true
		return p, nil
	}

	changedG, err := c.changedG.Decode(dec)
	if err != nil {
		return Rgb{}, err
	}
	changedR, err := c.changedR.Decode(dec)
	if err != nil {
		return Rgb{}, err
	}
	changedB, err := c.changedB.Decode(dec)
	if err != nil {
		return Rgb{}, err
	}

	newG := c.last.G
	if changedG == 1 {
		lo, err := c.icGLo.Decompress(dec, lo8(c.last.G), 0)
		if err != nil {
			return Rgb{}, err
		}
		hi, err := c.icGHi.Decompress(dec, hi8(c.last.G), 0)
		if err != nil {
			return Rgb{}, err
		}
		newG = joinBytes(lo, hi)
	}

	newR := c.last.R
	if changedR == 1 {
		predLo := lo8(c.last.R) + lo8(newG) - lo8(c.last.G)
		predHi := hi8(c.last.R) + hi8(newG) - hi8(c.last.G)
		lo, err := c.icRLo.Decompress(dec, predLo, 0)
		if err != nil {
			return Rgb{}, err
		}
		hi, err := c.icRHi.Decompress(dec, predHi, 0)
		if err != nil {
			return Rgb{}, err
		}
		newR = joinBytes(lo, hi)
	}

	newB := c.last.B
	if changedB == 1 {
		predLo := lo8(c.last.B) + lo8(newG) - lo8(c.last.G)
		predHi := hi8(c.last.B) + hi8(newG) - hi8(c.last.G)
		lo, err := c.icBLo.Decompress(dec, predLo, 0)
		if err != nil {
			return Rgb{}, err
		}
		hi, err := c.icBHi.Decompress(dec, predHi, 0)
		if err != nil {
			return Rgb{}, err
		}
		newB = joinBytes(lo, hi)
	}

	p := Rgb{R: newR, G: newG, B: newB}
	c.last = p
	return p, nil
}

func boolToBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func joinBytes(lo, hi int32) uint16 {
	return uint16(lo&0xFF) | uint16(hi&0xFF)<<8 //nolint:gosec
}
