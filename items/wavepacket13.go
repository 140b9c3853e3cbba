package items

import (
	"math"

	"github.com/laz-rs/laz-rs/model"
	"github.com/laz-rs/laz-rs/rangecoder"
)

// wavepacketContexts is the number of ring slots the offset/size predictor
// keeps, indexed by descriptor index, so distinct waveform descriptors
// don't pollute each other's byte-offset history.
const wavepacketContexts = 16

// Wavepacket13 is the 29-byte wave packet descriptor item.
type Wavepacket13 struct {
	DescriptorIndex uint8
	ByteOffset      uint64
	PacketSize      uint32
	ReturnPointLoc  float32
	Xt, Yt, Zt      float32
}

type wavepacketSlot struct {
	offset  uint64
	size    uint32
	locBits uint32
	xtBits  uint32
	ytBits  uint32
	ztBits  uint32
	have    bool
}

// Wavepacket13Compressor encodes/decodes a stream of Wavepacket13 records.
type Wavepacket13Compressor struct {
	slots [wavepacketContexts]wavepacketSlot
	have  bool

	descriptorModel *model.ArithModel

	icOffsetLo, icOffsetHi  *model.IntegerCompressor
	icSize                  *model.IntegerCompressor
	icLoc, icXt, icYt, icZt *model.IntegerCompressor
}

// NewWavepacket13Compressor builds a compressor in its canonical initial
// state.
func NewWavepacket13Compressor() *Wavepacket13Compressor {
	c := &Wavepacket13Compressor{
		descriptorModel: model.NewArithModel(256),
		icOffsetLo:      model.NewIntegerCompressor(32, wavepacketContexts),
		icOffsetHi:      model.NewIntegerCompressor(32, wavepacketContexts),
		icSize:          model.NewIntegerCompressor(32, wavepacketContexts),
		icLoc:           model.NewIntegerCompressor(32, wavepacketContexts),
		icXt:            model.NewIntegerCompressor(32, wavepacketContexts),
		icYt:            model.NewIntegerCompressor(32, wavepacketContexts),
		icZt:            model.NewIntegerCompressor(32, wavepacketContexts),
	}
	c.Reset()
	return c
}

// Reset restores all ring and model state to canonical initial conditions.
func (c *Wavepacket13Compressor) Reset() {
	for i := range c.slots {
		c.slots[i] = wavepacketSlot{}
	}
	c.have = false
	c.descriptorModel.Reset()
	c.icOffsetLo.Reset()
	c.icOffsetHi.Reset()
	c.icSize.Reset()
	c.icLoc.Reset()
	c.icXt.Reset()
	c.icYt.Reset()
	c.icZt.Reset()
}

func ctxOf(descriptorIndex uint8) int { return int(descriptorIndex) % wavepacketContexts }

// Compress writes p through enc.
func (c *Wavepacket13Compressor) Compress(enc *rangecoder.Encoder, p Wavepacket13) {
	if !c.have {
		enc.EncodeBits(8, uint32(p.DescriptorIndex))
		enc.EncodeBits(32, uint32(p.ByteOffset>>32)) //nolint:gosec
		enc.EncodeBits(32, uint32(p.ByteOffset))     //nolint:gosec
		enc.EncodeBits(32, p.PacketSize)
		enc.WriteFloat(p.ReturnPointLoc)
		enc.WriteFloat(p.Xt)
		enc.WriteFloat(p.Yt)
		enc.WriteFloat(p.Zt)
		c.updateSlot(p)
		c.have = true
		return
	}

	c.descriptorModel.Encode(enc, int(p.DescriptorIndex))
	ctx := ctxOf(p.DescriptorIndex)
	slot := c.slots[ctx]

	offset := p.ByteOffset
	predOffsetLo, predOffsetHi := int32(uint32(slot.offset)), int32(uint32(slot.offset>>32)) //nolint:gosec
	c.icOffsetHi.Compress(enc, predOffsetHi, int32(uint32(offset>>32)), ctx)                 //nolint:gosec
	c.icOffsetLo.Compress(enc, predOffsetLo, int32(uint32(offset)), ctx)                     //nolint:gosec

	c.icSize.Compress(enc, int32(slot.size), int32(p.PacketSize), ctx) //nolint:gosec

	c.icLoc.Compress(enc, int32(slot.locBits), int32(math.Float32bits(p.ReturnPointLoc)), ctx) //nolint:gosec
	c.icXt.Compress(enc, int32(slot.xtBits), int32(math.Float32bits(p.Xt)), ctx)                //nolint:gosec
	c.icYt.Compress(enc, int32(slot.ytBits), int32(math.Float32bits(p.Yt)), ctx)                //nolint:gosec
	c.icZt.Compress(enc, int32(slot.ztBits), int32(math.Float32bits(p.Zt)), ctx)                //nolint:gosec

	c.updateSlot(p)
}

// Decompress reads back one Wavepacket13 record.
func (c *Wavepacket13Compressor) Decompress(dec *rangecoder.Decoder) (Wavepacket13, error) {
	if !c.have {
		di, err := dec.DecodeBits(8)
		if err != nil {
			return Wavepacket13{}, err
		}
		hi, err := dec.DecodeBits(32)
		if err != nil {
			return Wavepacket13{}, err
		}
		lo, err := dec.DecodeBits(32)
		if err != nil {
			return Wavepacket13{}, err
		}
		size, err := dec.DecodeBits(32)
		if err != nil {
			return Wavepacket13{}, err
		}
		loc, err := dec.ReadFloat()
		if err != nil {
			return Wavepacket13{}, err
		}
		xt, err := dec.ReadFloat()
		if err != nil {
			return Wavepacket13{}, err
		}
		yt, err := dec.ReadFloat()
		if err != nil {
			return Wavepacket13{}, err
		}
		zt, err := dec.ReadFloat()
		if err != nil {
			return Wavepacket13{}, err
		}

		p := Wavepacket13{
			DescriptorIndex: uint8(di), //nolint:gosec
			ByteOffset:      uint64(hi)<<32 | uint64(lo),
			PacketSize:      size,
			ReturnPointLoc:  loc,
			Xt:              xt,
			Yt:              yt,
			Zt:              zt,
		}
		c.updateSlot(p)
		c.have = true
		return p, nil
	}

	di, err := c.descriptorModel.Decode(dec)
	if err != nil {
		return Wavepacket13{}, err
	}
	p := Wavepacket13{DescriptorIndex: uint8(di)} //nolint:gosec
	ctx := ctxOf(p.DescriptorIndex)
	slot := c.slots[ctx]

	predOffsetLo, predOffsetHi := int32(uint32(slot.offset)), int32(uint32(slot.offset>>32)) //nolint:gosec

	offHi, err := c.icOffsetHi.Decompress(dec, predOffsetHi, ctx)
	if err != nil {
		return Wavepacket13{}, err
	}
	offLo, err := c.icOffsetLo.Decompress(dec, predOffsetLo, ctx)
	if err != nil {
		return Wavepacket13{}, err
	}
	p.ByteOffset = uint64(uint32(offHi))<<32 | uint64(uint32(offLo)) //nolint:gosec

	size, err := c.icSize.Decompress(dec, int32(slot.size), ctx) //nolint:gosec
	if err != nil {
		return Wavepacket13{}, err
	}
	p.PacketSize = uint32(size) //nolint:gosec

	locBits, err := c.icLoc.Decompress(dec, int32(slot.locBits), ctx) //nolint:gosec
	if err != nil {
		return Wavepacket13{}, err
	}
	p.ReturnPointLoc = math.Float32frombits(uint32(locBits)) //nolint:gosec

	xtBits, err := c.icXt.Decompress(dec, int32(slot.xtBits), ctx) //nolint:gosec
	if err != nil {
		return Wavepacket13{}, err
	}
	p.Xt = math.Float32frombits(uint32(xtBits)) //nolint:gosec

	ytBits, err := c.icYt.Decompress(dec, int32(slot.ytBits), ctx) //nolint:gosec
	if err != nil {
		return Wavepacket13{}, err
	}
	p.Yt = math.Float32frombits(uint32(ytBits)) //nolint:gosec

	ztBits, err := c.icZt.Decompress(dec, int32(slot.ztBits), ctx) //nolint:gosec
	if err != nil {
		return Wavepacket13{}, err
	}
	p.Zt = math.Float32frombits(uint32(ztBits)) //nolint:gosec

	c.updateSlot(p)
	return p, nil
}

func (c *Wavepacket13Compressor) updateSlot(p Wavepacket13) {
	ctx := ctxOf(p.DescriptorIndex)
	c.slots[ctx] = wavepacketSlot{
		offset:  p.ByteOffset,
		size:    p.PacketSize,
		locBits: math.Float32bits(p.ReturnPointLoc),
		xtBits:  math.Float32bits(p.Xt),
		ytBits:  math.Float32bits(p.Yt),
		ztBits:  math.Float32bits(p.Zt),
		have:    true,
	}
}
