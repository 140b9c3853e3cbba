package items

import (
	"math"

	"github.com/laz-rs/laz-rs/model"
	"github.com/laz-rs/laz-rs/rangecoder"
)

// Wavepacket14 is the 29-byte wave packet descriptor item used by formats
// 9 and 10, identical on the wire to Wavepacket13 but keyed by Point14's
// four-way context rather than its own descriptor-index ring.
type Wavepacket14 struct {
	DescriptorIndex uint8
	ByteOffset      uint64
	PacketSize      uint32
	ReturnPointLoc  float32
	Xt, Yt, Zt      float32
}

type wavepacket14Slot struct {
	wavepacketSlot
}

// Wavepacket14Compressor encodes/decodes a stream of Wavepacket14 records
// under an externally supplied Point14 context.
type Wavepacket14Compressor struct {
	slots [point14Contexts]wavepacket14Slot

	descriptorModel [point14Contexts]*model.ArithModel

	icOffsetLo, icOffsetHi  [point14Contexts]*model.IntegerCompressor
	icSize                  [point14Contexts]*model.IntegerCompressor
	icLoc, icXt, icYt, icZt [point14Contexts]*model.IntegerCompressor
}

// NewWavepacket14Compressor builds a compressor in its canonical initial
// state.
func NewWavepacket14Compressor() *Wavepacket14Compressor {
	c := &Wavepacket14Compressor{}
	for i := 0; i < point14Contexts; i++ {
		c.descriptorModel[i] = model.NewArithModel(256)
		c.icOffsetLo[i] = model.NewIntegerCompressor(32, 1)
		c.icOffsetHi[i] = model.NewIntegerCompressor(32, 1)
		c.icSize[i] = model.NewIntegerCompressor(32, 1)
		c.icLoc[i] = model.NewIntegerCompressor(32, 1)
		c.icXt[i] = model.NewIntegerCompressor(32, 1)
		c.icYt[i] = model.NewIntegerCompressor(32, 1)
		c.icZt[i] = model.NewIntegerCompressor(32, 1)
	}
	c.Reset()
	return c
}

// Reset restores all model state to canonical initial conditions.
func (c *Wavepacket14Compressor) Reset() {
	for i := 0; i < point14Contexts; i++ {
		c.slots[i] = wavepacket14Slot{}
		c.descriptorModel[i].Reset()
		c.icOffsetLo[i].Reset()
		c.icOffsetHi[i].Reset()
		c.icSize[i].Reset()
		c.icLoc[i].Reset()
		c.icXt[i].Reset()
		c.icYt[i].Reset()
		c.icZt[i].Reset()
	}
}

// Compress writes p through enc under Point14 context ctx.
func (c *Wavepacket14Compressor) Compress(enc *rangecoder.Encoder, ctx int, p Wavepacket14) {
	slot := &c.slots[ctx]
	if !slot.have {
		enc.EncodeBits(8, uint32(p.DescriptorIndex))
		enc.EncodeBits(32, uint32(p.ByteOffset>>32)) //nolint:gosec
		enc.EncodeBits(32, uint32(p.ByteOffset))     //nolint:gosec
		enc.EncodeBits(32, p.PacketSize)
		enc.WriteFloat(p.ReturnPointLoc)
		enc.WriteFloat(p.Xt)
		enc.WriteFloat(p.Yt)
		enc.WriteFloat(p.Zt)
		c.updateSlot(ctx, p)
		return
	}

	c.descriptorModel[ctx].Encode(enc, int(p.DescriptorIndex))

	predOffsetLo, predOffsetHi := int32(uint32(slot.offset)), int32(uint32(slot.offset>>32)) //nolint:gosec
	c.icOffsetHi[ctx].Compress(enc, predOffsetHi, int32(uint32(p.ByteOffset>>32)), 0)         //nolint:gosec
	c.icOffsetLo[ctx].Compress(enc, predOffsetLo, int32(uint32(p.ByteOffset)), 0)             //nolint:gosec

	c.icSize[ctx].Compress(enc, int32(slot.size), int32(p.PacketSize), 0) //nolint:gosec

	c.icLoc[ctx].Compress(enc, int32(slot.locBits), int32(math.Float32bits(p.ReturnPointLoc)), 0) //nolint:gosec
	c.icXt[ctx].Compress(enc, int32(slot.xtBits), int32(math.Float32bits(p.Xt)), 0)                //nolint:gosec
	c.icYt[ctx].Compress(enc, int32(slot.ytBits), int32(math.Float32bits(p.Yt)), 0)                //nolint:gosec
	c.icZt[ctx].Compress(enc, int32(slot.ztBits), int32(math.Float32bits(p.Zt)), 0)                //nolint:gosec

	c.updateSlot(ctx, p)
}

// Decompress reads back one Wavepacket14 record under Point14 context ctx.
func (c *Wavepacket14Compressor) Decompress(dec *rangecoder.Decoder, ctx int) (Wavepacket14, error) {
	slot := &c.slots[ctx]
	if !slot.have {
		di, err := dec.DecodeBits(8)
		if err != nil {
			return Wavepacket14{}, err
		}
		hi, err := dec.DecodeBits(32)
		if err != nil {
			return Wavepacket14{}, err
		}
		lo, err := dec.DecodeBits(32)
		if err != nil {
			return Wavepacket14{}, err
		}
		size, err := dec.DecodeBits(32)
		if err != nil {
			return Wavepacket14{}, err
		}
		loc, err := dec.ReadFloat()
		if err != nil {
			return Wavepacket14{}, err
		}
		xt, err := dec.ReadFloat()
		if err != nil {
			return Wavepacket14{}, err
		}
		yt, err := dec.ReadFloat()
		if err != nil {
			return Wavepacket14{}, err
		}
		zt, err := dec.ReadFloat()
		if err != nil {
			return Wavepacket14{}, err
		}
		p := Wavepacket14{
			DescriptorIndex: uint8(di), //nolint:gosec
			ByteOffset:      uint64(hi)<<32 | uint64(lo),
			PacketSize:      size,
			ReturnPointLoc:  loc,
			Xt:              xt,
			Yt:              yt,
			Zt:              zt,
		}
		c.updateSlot(ctx, p)
		return p, nil
	}

	di, err := c.descriptorModel[ctx].Decode(dec)
	if err != nil {
		return Wavepacket14{}, err
	}
	p := Wavepacket14{DescriptorIndex: uint8(di)} //nolint:gosec

	predOffsetLo, predOffsetHi := int32(uint32(slot.offset)), int32(uint32(slot.offset>>32)) //nolint:gosec

	offHi, err := c.icOffsetHi[ctx].Decompress(dec, predOffsetHi, 0)
	if err != nil {
		return Wavepacket14{}, err
	}
	offLo, err := c.icOffsetLo[ctx].Decompress(dec, predOffsetLo, 0)
	if err != nil {
		return Wavepacket14{}, err
	}
	p.ByteOffset = uint64(uint32(offHi))<<32 | uint64(uint32(offLo)) //nolint:gosec

	size, err := c.icSize[ctx].Decompress(dec, int32(slot.size), 0) //nolint:gosec
	if err != nil {
		return Wavepacket14{}, err
	}
	p.PacketSize = uint32(size) //nolint:gosec

	locBits, err := c.icLoc[ctx].Decompress(dec, int32(slot.locBits), 0) //nolint:gosec
	if err != nil {
		return Wavepacket14{}, err
	}
	p.ReturnPointLoc = math.Float32frombits(uint32(locBits)) //nolint:gosec

	xtBits, err := c.icXt[ctx].Decompress(dec, int32(slot.xtBits), 0) //nolint:gosec
	if err != nil {
		return Wavepacket14{}, err
	}
	p.Xt = math.Float32frombits(uint32(xtBits)) //nolint:gosec

	ytBits, err := c.icYt[ctx].Decompress(dec, int32(slot.ytBits), 0) //nolint:gosec
	if err != nil {
		return Wavepacket14{}, err
	}
	p.Yt = math.Float32frombits(uint32(ytBits)) //nolint:gosec

	ztBits, err := c.icZt[ctx].Decompress(dec, int32(slot.ztBits), 0) //nolint:gosec
	if err != nil {
		return Wavepacket14{}, err
	}
	p.Zt = math.Float32frombits(uint32(ztBits)) //nolint:gosec

	c.updateSlot(ctx, p)
	return p, nil
}

func (c *Wavepacket14Compressor) updateSlot(ctx int, p Wavepacket14) {
	c.slots[ctx] = wavepacket14Slot{wavepacketSlot{
		offset:  p.ByteOffset,
		size:    p.PacketSize,
		locBits: math.Float32bits(p.ReturnPointLoc),
		xtBits:  math.Float32bits(p.Xt),
		ytBits:  math.Float32bits(p.Yt),
		ztBits:  math.Float32bits(p.Zt),
		have:    true,
	}}
}
