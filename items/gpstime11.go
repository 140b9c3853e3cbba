package items

import (
	"math"

	"github.com/laz-rs/laz-rs/model"
	"github.com/laz-rs/laz-rs/rangecoder"
)

// gpsTimeSlots is the size of the ring of prior gpstime values a stream
// tracks; multi-return pulses frequently revisit the same timestamp, so a
// small ring captures most repeats without a full history.
const gpsTimeSlots = 4

type gpsSlot struct {
	value     float64
	delta     float64
	haveDelta bool // whether delta has been observed for this slot (v2 predictor)
	seeded    bool // whether value holds a real coded gpstime yet
}

// GpsTime11Compressor encodes/decodes a stream of GPS time values against a
// small ring of prior values. version 2 extends version 1 by predicting the
// next value in a slot using that slot's last observed delta rather than
// assuming zero change. A changed value is coded losslessly as the raw
// IEEE-754 bit pattern of the predicted value versus the actual value,
// split into two 32-bit halves run through an IntegerCompressor each — the
// same technique Wavepacket13Compressor uses for its own float fields and
// its 64-bit byte offset — never as a quantized floating-point delta, which
// would not round-trip exactly.
type GpsTime11Compressor struct {
	version int
	slots   [gpsTimeSlots]gpsSlot
	cur     int
	have    bool

	sameModel        *model.BinaryModel
	switchModel      *model.BinaryModel
	slotIndexModel   *model.ArithModel
	icGpsHi, icGpsLo *model.IntegerCompressor
}

// NewGpsTime11Compressor creates a compressor for the given compressor
// version (1 or 2).
func NewGpsTime11Compressor(version int) *GpsTime11Compressor {
	c := &GpsTime11Compressor{
		version:        version,
		sameModel:      model.NewBinaryModel(),
		switchModel:    model.NewBinaryModel(),
		slotIndexModel: model.NewArithModel(gpsTimeSlots),
		icGpsHi:        model.NewIntegerCompressor(32, gpsTimeSlots),
		icGpsLo:        model.NewIntegerCompressor(32, gpsTimeSlots),
	}
	c.Reset()
	return c
}

// Reset restores all ring and model state to canonical initial conditions.
func (c *GpsTime11Compressor) Reset() {
	for i := range c.slots {
		c.slots[i] = gpsSlot{}
	}
	c.cur = 0
	c.have = false
	c.sameModel.Reset()
	c.switchModel.Reset()
	c.slotIndexModel.Reset()
	c.icGpsHi.Reset()
	c.icGpsLo.Reset()
}

// Compress writes value through enc.
func (c *GpsTime11Compressor) Compress(enc *rangecoder.Encoder, value float64) {
	if !c.have {
		enc.WriteDouble(value)
		c.slots[0] = gpsSlot{value: value, seeded: true}
		c.cur = 0
		c.have = true
		return
	}

	if math.Float64bits(value) == math.Float64bits(c.slots[c.cur].value) {
		c.sameModel.Encode(enc, 1)
		return
	}
	c.sameModel.Encode(enc, 0)

	if other, ok := c.findSlot(value); ok {
		c.switchModel.Encode(enc, 1)
		c.slotIndexModel.Encode(enc, other)
		c.cur = other
		return
	}
	c.switchModel.Encode(enc, 0)

	cur := &c.slots[c.cur]
	predicted := cur.value
	if c.version >= 2 && cur.haveDelta {
		predicted += cur.delta
	}

	predBits := math.Float64bits(predicted)
	valueBits := math.Float64bits(value)
	c.icGpsHi.Compress(enc, int32(uint32(predBits>>32)), int32(uint32(valueBits>>32)), c.cur) //nolint:gosec
	c.icGpsLo.Compress(enc, int32(uint32(predBits)), int32(uint32(valueBits)), c.cur)         //nolint:gosec

	c.advance(value)
}

// Decompress reads back one GPS time value.
func (c *GpsTime11Compressor) Decompress(dec *rangecoder.Decoder) (float64, error) {
	if !c.have {
		v, err := dec.ReadDouble()
		if err != nil {
			return 0, err
		}
		c.slots[0] = gpsSlot{value: v, seeded: true}
		c.cur = 0
		c.have = true
		return v, nil
	}

	same, err := c.sameModel.Decode(dec)
	if err != nil {
		return 0, err
	}
	if same == 1 {
		return c.slots[c.cur].value, nil
	}

	sw, err := c.switchModel.Decode(dec)
	if err != nil {
		return 0, err
	}
	if sw == 1 {
		other, err := c.slotIndexModel.Decode(dec)
		if err != nil {
			return 0, err
		}
		c.cur = other
		return c.slots[c.cur].value, nil
	}

	cur := &c.slots[c.cur]
	predicted := cur.value
	if c.version >= 2 && cur.haveDelta {
		predicted += cur.delta
	}
	predBits := math.Float64bits(predicted)

	hi, err := c.icGpsHi.Decompress(dec, int32(uint32(predBits>>32)), c.cur) //nolint:gosec
	if err != nil {
		return 0, err
	}
	lo, err := c.icGpsLo.Decompress(dec, int32(uint32(predBits)), c.cur) //nolint:gosec
	if err != nil {
		return 0, err
	}
	valueBits := uint64(uint32(hi))<<32 | uint64(uint32(lo))
	value := math.Float64frombits(valueBits)

	c.advance(value)
	return value, nil
}

// advance records value as the ring's newest member: the slot after cur is
// overwritten with it (predicting from cur's own value, the same prediction
// Compress/Decompress just coded against) and becomes the new cur, so the
// slot cur is vacating remains available for a later exact-match revisit.
func (c *GpsTime11Compressor) advance(value float64) {
	prev := c.slots[c.cur]
	next := (c.cur + 1) % gpsTimeSlots
	c.slots[next] = gpsSlot{value: value, delta: value - prev.value, haveDelta: true, seeded: true}
	c.cur = next
}

// findSlot reports the index of a ring slot other than the current one that
// already holds value exactly, the "revisit" fast path for multi-return
// pulses whose points arrive interleaved with other pulses' returns.
func (c *GpsTime11Compressor) findSlot(value float64) (int, bool) {
	for i := range c.slots {
		if i != c.cur && c.slots[i].seeded && math.Float64bits(c.slots[i].value) == math.Float64bits(value) {
			return i, true
		}
	}
	return 0, false
}
