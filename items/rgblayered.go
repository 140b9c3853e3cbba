package items

import (
	"github.com/laz-rs/laz-rs/model"
	"github.com/laz-rs/laz-rs/rangecoder"
)

type rgbLayeredSlot struct {
	last Rgb
	have bool
}

// RgbLayeredCompressor encodes/decodes Rgb records for point format 7, the
// layered (v3) analogue of Rgb12Compressor: same green-predicts-red/blue
// scheme, but keyed by Point14's four-way context like every other v3 item
// instead of sharing one context-free stream.
type RgbLayeredCompressor struct {
	slots [point14Contexts]rgbLayeredSlot

	changedR, changedG, changedB [point14Contexts]*model.BinaryModel
	icGLo, icGHi                 [point14Contexts]*model.IntegerCompressor
	icRLo, icRHi                 [point14Contexts]*model.IntegerCompressor
	icBLo, icBHi                 [point14Contexts]*model.IntegerCompressor
}

// NewRgbLayeredCompressor builds a compressor in its canonical initial state.
func NewRgbLayeredCompressor() *RgbLayeredCompressor {
	c := &RgbLayeredCompressor{}
	for i := 0; i < point14Contexts; i++ {
		c.changedR[i] = model.NewBinaryModel()
		c.changedG[i] = model.NewBinaryModel()
		c.changedB[i] = model.NewBinaryModel()
		c.icGLo[i] = model.NewIntegerCompressor(8, 1)
		c.icGHi[i] = model.NewIntegerCompressor(8, 1)
		c.icRLo[i] = model.NewIntegerCompressor(8, 1)
		c.icRHi[i] = model.NewIntegerCompressor(8, 1)
		c.icBLo[i] = model.NewIntegerCompressor(8, 1)
		c.icBHi[i] = model.NewIntegerCompressor(8, 1)
	}
	c.Reset()
	return c
}

// Reset restores all model state to canonical initial conditions.
func (c *RgbLayeredCompressor) Reset() {
	for i := 0; i < point14Contexts; i++ {
		c.slots[i] = rgbLayeredSlot{}
		c.changedR[i].Reset()
		c.changedG[i].Reset()
		c.changedB[i].Reset()
		c.icGLo[i].Reset()
		c.icGHi[i].Reset()
		c.icRLo[i].Reset()
		c.icRHi[i].Reset()
		c.icBLo[i].Reset()
		c.icBHi[i].Reset()
	}
}

// Compress writes p through enc under the given Point14 context.
func (c *RgbLayeredCompressor) Compress(enc *rangecoder.Encoder, ctx int, p Rgb) {
	slot := &c.slots[ctx]
	if !slot.have {
		enc.EncodeBits(16, uint32(p.R))
		enc.EncodeBits(16, uint32(p.G))
		enc.EncodeBits(16, uint32(p.B))
		slot.last = p
		slot.have = true
		return
	}

	last := slot.last
	changedR := p.R != last.R
	changedG := p.G != last.G
	changedB := p.B != last.B

	c.changedG[ctx].Encode(enc, boolToBit(changedG))
	c.changedR[ctx].Encode(enc, boolToBit(changedR))
	c.changedB[ctx].Encode(enc, boolToBit(changedB))

	newG := last.G
	if changedG {
		c.icGLo[ctx].Compress(enc, lo8(last.G), lo8(p.G), 0)
		c.icGHi[ctx].Compress(enc, hi8(last.G), hi8(p.G), 0)
		newG = p.G
	}

	newR := last.R
	if changedR {
		c.icRLo[ctx].Compress(enc, lo8(last.R)+lo8(newG)-lo8(last.G), lo8(p.R), 0)
		c.icRHi[ctx].Compress(enc, hi8(last.R)+hi8(newG)-hi8(last.G), hi8(p.R), 0)
		newR = p.R
	}

	newB := last.B
	if changedB {
		c.icBLo[ctx].Compress(enc, lo8(last.B)+lo8(newG)-lo8(last.G), lo8(p.B), 0)
		c.icBHi[ctx].Compress(enc, hi8(last.B)+hi8(newG)-hi8(last.G), hi8(p.B), 0)
		newB = p.B
	}

	slot.last = Rgb{R: newR, G: newG, B: newB}
}

// Decompress reads back one Rgb record under the given Point14 context.
func (c *RgbLayeredCompressor) Decompress(dec *rangecoder.Decoder, ctx int) (Rgb, error) {
	slot := &c.slots[ctx]
	if !slot.have {
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
		slot.last = p
		slot.have = true
		return p, nil
	}

	last := slot.last

	changedG, err := c.changedG[ctx].Decode(dec)
	if err != nil {
		return Rgb{}, err
	}
	changedR, err := c.changedR[ctx].Decode(dec)
	if err != nil {
		return Rgb{}, err
	}
	changedB, err := c.changedB[ctx].Decode(dec)
	if err != nil {
		return Rgb{}, err
	}

	newG := last.G
	if changedG == 1 {
		lo, err := c.icGLo[ctx].Decompress(dec, lo8(last.G), 0)
		if err != nil {
			return Rgb{}, err
		}
		hi, err := c.icGHi[ctx].Decompress(dec, hi8(last.G), 0)
		if err != nil {
			return Rgb{}, err
		}
		newG = joinBytes(lo, hi)
	}

	newR := last.R
	if changedR == 1 {
		lo, err := c.icRLo[ctx].Decompress(dec, lo8(last.R)+lo8(newG)-lo8(last.G), 0)
		if err != nil {
			return Rgb{}, err
		}
		hi, err := c.icRHi[ctx].Decompress(dec, hi8(last.R)+hi8(newG)-hi8(last.G), 0)
		if err != nil {
			return Rgb{}, err
		}
		newR = joinBytes(lo, hi)
	}

	newB := last.B
	if changedB == 1 {
		lo, err := c.icBLo[ctx].Decompress(dec, lo8(last.B)+lo8(newG)-lo8(last.G), 0)
		if err != nil {
			return Rgb{}, err
		}
		hi, err := c.icBHi[ctx].Decompress(dec, hi8(last.B)+hi8(newG)-hi8(last.G), 0)
		if err != nil {
			return Rgb{}, err
		}
		newB = joinBytes(lo, hi)
	}

	p := Rgb{R: newR, G: newG, B: newB}
	slot.last = p
	return p, nil
}
