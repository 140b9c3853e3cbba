package items

import (
	"github.com/laz-rs/laz-rs/model"
	"github.com/laz-rs/laz-rs/rangecoder"
)

// RgbNir14 is the 8-byte RGB + near-infrared item used by formats 8 and 10.
type RgbNir14 struct {
	R, G, B, Nir uint16
}

type rgbNirSlot struct {
	last RgbNir14
	have bool
}

// RgbNir14Compressor encodes/decodes RgbNir14 records, reusing the same
// changed-bit-gated, green-predicts-red/blue scheme as Rgb12Compressor for
// the color channels, plus an independent changed-bit and integer
// compressor for NIR, all keyed by Point14's four-way context.
type RgbNir14Compressor struct {
	slots [point14Contexts]rgbNirSlot

	changedR, changedG, changedB, changedNir [point14Contexts]*model.BinaryModel
	icGLo, icGHi                             [point14Contexts]*model.IntegerCompressor
	icRLo, icRHi                             [point14Contexts]*model.IntegerCompressor
	icBLo, icBHi                             [point14Contexts]*model.IntegerCompressor
	icNirLo, icNirHi                         [point14Contexts]*model.IntegerCompressor
}

// NewRgbNir14Compressor builds a compressor in its canonical initial state.
func NewRgbNir14Compressor() *RgbNir14Compressor {
	c := &RgbNir14Compressor{}
	for i := 0; i < point14Contexts; i++ {
		c.changedR[i] = model.NewBinaryModel()
		c.changedG[i] = model.NewBinaryModel()
		c.changedB[i] = model.NewBinaryModel()
		c.changedNir[i] = model.NewBinaryModel()
		c.icGLo[i] = model.NewIntegerCompressor(8, 1)
		c.icGHi[i] = model.NewIntegerCompressor(8, 1)
		c.icRLo[i] = model.NewIntegerCompressor(8, 1)
		c.icRHi[i] = model.NewIntegerCompressor(8, 1)
		c.icBLo[i] = model.NewIntegerCompressor(8, 1)
		c.icBHi[i] = model.NewIntegerCompressor(8, 1)
		c.icNirLo[i] = model.NewIntegerCompressor(8, 1)
		c.icNirHi[i] = model.NewIntegerCompressor(8, 1)
	}
	c.Reset()
	return c
}

// Reset restores all model state to canonical initial conditions.
func (c *RgbNir14Compressor) Reset() {
	for i := 0; i < point14Contexts; i++ {
		c.slots[i] = rgbNirSlot{}
		c.changedR[i].Reset()
		c.changedG[i].Reset()
		c.changedB[i].Reset()
		c.changedNir[i].Reset()
		c.icGLo[i].Reset()
		c.icGHi[i].Reset()
		c.icRLo[i].Reset()
		c.icRHi[i].Reset()
		c.icBLo[i].Reset()
		c.icBHi[i].Reset()
		c.icNirLo[i].Reset()
		c.icNirHi[i].Reset()
	}
}

// Compress writes p through enc under the given Point14 context.
func (c *RgbNir14Compressor) Compress(enc *rangecoder.Encoder, ctx int, p RgbNir14) {
	slot := &c.slots[ctx]
	if !slot.have {
		enc.EncodeBits(16, uint32(p.R))
		enc.EncodeBits(16, uint32(p.G))
		enc.EncodeBits(16, uint32(p.B))
		enc.EncodeBits(16, uint32(p.Nir))
		slot.last = p
		slot.have = true
		return
	}

	last := slot.last
	changedR := p.R != last.R
	changedG := p.G != last.G
	changedB := p.B != last.B
	changedNir := p.Nir != last.Nir

	c.changedG[ctx].Encode(enc, boolToBit(changedG))
	c.changedR[ctx].Encode(enc, boolToBit(changedR))
	c.changedB[ctx].Encode(enc, boolToBit(changedB))
	c.changedNir[ctx].Encode(enc, boolToBit(changedNir))

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

	newNir := last.Nir
	if changedNir {
		c.icNirLo[ctx].Compress(enc, lo8(last.Nir), lo8(p.Nir), 0)
		c.icNirHi[ctx].Compress(enc, hi8(last.Nir), hi8(p.Nir), 0)
		newNir = p.Nir
	}

	slot.last = RgbNir14{R: newR, G: newG, B: newB, Nir: newNir}
}

// Decompress reads back one RgbNir14 record under the given Point14 context.
func (c *RgbNir14Compressor) Decompress(dec *rangecoder.Decoder, ctx int) (RgbNir14, error) {
	slot := &c.slots[ctx]
	if !slot.have {
		r, err := dec.DecodeBits(16)
		if err != nil {
			return RgbNir14{}, err
		}
		g, err := dec.DecodeBits(16)
		if err != nil {
			return RgbNir14{}, err
		}
		b, err := dec.DecodeBits(16)
		if err != nil {
			return RgbNir14{}, err
		}
		nir, err := dec.DecodeBits(16)
		if err != nil {
			return RgbNir14{}, err
		}
		p := RgbNir14{R: uint16(r), G: uint16(g), B: uint16(b), Nir: uint16(nir)} //nolint:gosec
		slot.last = p
		slot.have = true
		return p, nil
	}

	last := slot.last

	changedG, err := c.changedG[ctx].Decode(dec)
	if err != nil {
		return RgbNir14{}, err
	}
	changedR, err := c.changedR[ctx].Decode(dec)
	if err != nil {
		return RgbNir14{}, err
	}
	changedB, err := c.changedB[ctx].Decode(dec)
	if err != nil {
		return RgbNir14{}, err
	}
	changedNir, err := c.changedNir[ctx].Decode(dec)
	if err != nil {
		return RgbNir14{}, err
	}

	newG := last.G
	if changedG == 1 {
		lo, err := c.icGLo[ctx].Decompress(dec, lo8(last.G), 0)
		if err != nil {
			return RgbNir14{}, err
		}
		hi, err := c.icGHi[ctx].Decompress(dec, hi8(last.G), 0)
		if err != nil {
			return RgbNir14{}, err
		}
		newG = joinBytes(lo, hi)
	}

	newR := last.R
	if changedR == 1 {
		lo, err := c.icRLo[ctx].Decompress(dec, lo8(last.R)+lo8(newG)-lo8(last.G), 0)
		if err != nil {
			return RgbNir14{}, err
		}
		hi, err := c.icRHi[ctx].Decompress(dec, hi8(last.R)+hi8(newG)-hi8(last.G), 0)
		if err != nil {
			return RgbNir14{}, err
		}
		newR = joinBytes(lo, hi)
	}

	newB := last.B
	if changedB == 1 {
		lo, err := c.icBLo[ctx].Decompress(dec, lo8(last.B)+lo8(newG)-lo8(last.G), 0)
		if err != nil {
			return RgbNir14{}, err
		}
		hi, err := c.icBHi[ctx].Decompress(dec, hi8(last.B)+hi8(newG)-hi8(last.G), 0)
		if err != nil {
			return RgbNir14{}, err
		}
		newB = joinBytes(lo, hi)
	}

	newNir := last.Nir
	if changedNir == 1 {
		lo, err := c.icNirLo[ctx].Decompress(dec, lo8(last.Nir), 0)
		if err != nil {
			return RgbNir14{}, err
		}
		hi, err := c.icNirHi[ctx].Decompress(dec, hi8(last.Nir), 0)
		if err != nil {
			return RgbNir14{}, err
		}
		newNir = joinBytes(lo, hi)
	}

	p := RgbNir14{R: newR, G: newG, B: newB, Nir: newNir}
	slot.last = p
	return p, nil
}
