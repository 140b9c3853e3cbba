package items

import (
	"math"

	"github.com/laz-rs/laz-rs/model"
	"github.com/laz-rs/laz-rs/rangecoder"
)

// point14Contexts is the number of independent predictor contexts Point14
// maintains, switched by scanner channel and return-number type.
const point14Contexts = 4

// Point14 is the 30-byte core point record shared by formats 6-10,
// carrying GPS time directly (LAS 1.4 makes it mandatory for these
// formats, unlike the optional GpsTime11 item used by formats 0-5).
type Point14 struct {
	X, Y, Z        int32
	Intensity      uint16
	ReturnInfo     uint8 // return_number:4 | number_of_returns:4
	Flags          uint8 // classification_flags:4 | scanner_channel:2 | scan_direction:1 | edge_of_flight_line:1
	Classification uint8
	UserData       uint8
	ScanAngle      int16
	PointSourceID  uint16
	GpsTime        float64
}

func (p Point14) returnNumber() uint8    { return p.ReturnInfo & 0xF }
func (p Point14) numberOfReturns() uint8 { return (p.ReturnInfo >> 4) & 0xF }
func (p Point14) scannerChannel() uint8  { return (p.Flags >> 4) & 0x3 }

func point14Context(p Point14) int { return Point14Context(p) }

// Point14Context derives the four-way predictor context a Point14 record
// belongs to, from its scanner channel and whether it is a last return.
// Exported so sibling v3 items (RgbNir14, Wavepacket14, ByteLayered) can be
// indexed by the same context a chunk reader/writer derives from the
// Point14 record it just coded, without duplicating the rule.
func Point14Context(p Point14) int {
	lastReturn := 0
	if p.returnNumber() >= p.numberOfReturns() {
		lastReturn = 1
	}
	channel := int(p.scannerChannel())
	return ((channel << 1) | lastReturn) % point14Contexts
}

// point14Slot holds one context's full predictor state.
type point14Slot struct {
	x, y, z   int32
	dx, dy    int32
	intensity uint16
	class     uint8
	userData  uint8
	scanAngle int16
	sourceID  uint16
	gpsTime   float64
	gpsDelta  float64
	have      bool
}

// Point14Compressor encodes/decodes a stream of Point14 records. ReturnInfo
// and Flags determine which context every other field uses, so they are
// coded first through context-independent models; every remaining field
// then uses the four-way context array.
type Point14Compressor struct {
	slots [point14Contexts]point14Slot
	last  Point14
	have  bool

	returnModel *model.ArithModel
	flagsModel  *model.ArithModel

	icX, icY, icZ *model.IntegerCompressor
	icIntensity   *model.IntegerCompressor
	classModel    [point14Contexts]*model.ArithModel
	userModel     [point14Contexts]*model.ArithModel
	icScanAngle   *model.IntegerCompressor
	icSourceID    *model.IntegerCompressor

	gpsSameModel             [point14Contexts]*model.BinaryModel
	icGpsTimeHi, icGpsTimeLo *model.IntegerCompressor
}

// NewPoint14Compressor builds a compressor in its canonical initial state.
func NewPoint14Compressor() *Point14Compressor {
	c := &Point14Compressor{
		returnModel: model.NewArithModel(256),
		flagsModel:  model.NewArithModel(256),
		icX:         model.NewIntegerCompressor(32, point14Contexts),
		icY:         model.NewIntegerCompressor(32, point14Contexts),
		icZ:         model.NewIntegerCompressor(32, point14Contexts),
		icIntensity: model.NewIntegerCompressor(16, point14Contexts),
		icScanAngle: model.NewIntegerCompressor(16, point14Contexts),
		icSourceID:  model.NewIntegerCompressor(16, point14Contexts),
		icGpsTimeHi: model.NewIntegerCompressor(32, point14Contexts),
		icGpsTimeLo: model.NewIntegerCompressor(32, point14Contexts),
	}
	for i := 0; i < point14Contexts; i++ {
		c.classModel[i] = model.NewArithModel(256)
		c.userModel[i] = model.NewArithModel(256)
		c.gpsSameModel[i] = model.NewBinaryModel()
	}
	c.Reset()
	return c
}

// Reset restores all predictor and model state to canonical initial
// conditions, as required at every chunk boundary.
func (c *Point14Compressor) Reset() {
	for i := range c.slots {
		// Known-bug fix: a field that never changes but is not all zero
		// (e.g. point_source_id constant at a nonzero value) must still
		// start every chunk with its "changed"/predictor state blank, never
		// carried over from a prior chunk's final values.
		c.slots[i] = point14Slot{}
	}
	c.last = Point14{}
	c.have = false
	c.returnModel.Reset()
	c.flagsModel.Reset()
	c.icX.Reset()
	c.icY.Reset()
	c.icZ.Reset()
	c.icIntensity.Reset()
	c.icScanAngle.Reset()
	c.icSourceID.Reset()
	c.icGpsTimeHi.Reset()
	c.icGpsTimeLo.Reset()
	for i := 0; i < point14Contexts; i++ {
		c.classModel[i].Reset()
		c.userModel[i].Reset()
		c.gpsSameModel[i].Reset()
	}
}

// Compress writes p through enc.
func (c *Point14Compressor) Compress(enc *rangecoder.Encoder, p Point14) {
	if !c.have {
		c.writeSeed(enc, p)
		c.have = true
		c.last = p
		c.updateSlot(p)
		return
	}

	c.returnModel.Encode(enc, int(p.ReturnInfo))
	c.flagsModel.Encode(enc, int(p.Flags))

	ctx := point14Context(p)
	slot := c.slots[ctx]

	var predX, predY, predZ int32
	if slot.have {
		predX, predY, predZ = slot.x+slot.dx, slot.y+slot.dy, slot.z
	} else {
		predX, predY, predZ = c.last.X, c.last.Y, c.last.Z
	}
	c.icX.Compress(enc, predX, p.X, ctx)
	c.icY.Compress(enc, predY, p.Y, ctx)
	c.icZ.Compress(enc, predZ, p.Z, ctx)

	predIntensity := int32(c.last.Intensity)
	if slot.have {
		predIntensity = int32(slot.intensity)
	}
	c.icIntensity.Compress(enc, predIntensity, int32(p.Intensity), ctx) //nolint:gosec

	c.classModel[ctx].Encode(enc, int(p.Classification))
	c.userModel[ctx].Encode(enc, int(p.UserData))

	predScanAngle := int32(c.last.ScanAngle)
	if slot.have {
		predScanAngle = int32(slot.scanAngle)
	}
	c.icScanAngle.Compress(enc, predScanAngle, int32(p.ScanAngle), ctx)

	predSourceID := int32(c.last.PointSourceID)
	if slot.have {
		predSourceID = int32(slot.sourceID)
	}
	c.icSourceID.Compress(enc, predSourceID, int32(p.PointSourceID), ctx) //nolint:gosec

	c.compressGpsTime(enc, ctx, &slot, p.GpsTime)

	c.last = p
	c.updateSlot(p)
}

// Decompress reads back one Point14 record.
func (c *Point14Compressor) Decompress(dec *rangecoder.Decoder) (Point14, error) {
	if !c.have {
		p, err := c.readSeed(dec)
		if err != nil {
			return Point14{}, err
		}
		c.have = true
		c.last = p
		c.updateSlot(p)
		return p, nil
	}

	var p Point14

	ri, err := c.returnModel.Decode(dec)
	if err != nil {
		return Point14{}, err
	}
	p.ReturnInfo = uint8(ri) //nolint:gosec

	flags, err := c.flagsModel.Decode(dec)
	if err != nil {
		return Point14{}, err
	}
	p.Flags = uint8(flags) //nolint:gosec

	ctx := point14Context(p)
	slot := c.slots[ctx]

	var predX, predY, predZ int32
	if slot.have {
		predX, predY, predZ = slot.x+slot.dx, slot.y+slot.dy, slot.z
	} else {
		predX, predY, predZ = c.last.X, c.last.Y, c.last.Z
	}

	x, err := c.icX.Decompress(dec, predX, ctx)
	if err != nil {
		return Point14{}, err
	}
	y, err := c.icY.Decompress(dec, predY, ctx)
	if err != nil {
		return Point14{}, err
	}
	z, err := c.icZ.Decompress(dec, predZ, ctx)
	if err != nil {
		return Point14{}, err
	}
	p.X, p.Y, p.Z = x, y, z

	predIntensity := int32(c.last.Intensity)
	if slot.have {
		predIntensity = int32(slot.intensity)
	}
	intensity, err := c.icIntensity.Decompress(dec, predIntensity, ctx)
	if err != nil {
		return Point14{}, err
	}
	p.Intensity = uint16(intensity) //nolint:gosec

	cls, err := c.classModel[ctx].Decode(dec)
	if err != nil {
		return Point14{}, err
	}
	p.Classification = uint8(cls) //nolint:gosec

	user, err := c.userModel[ctx].Decode(dec)
	if err != nil {
		return Point14{}, err
	}
	p.UserData = uint8(user) //nolint:gosec

	predScanAngle := int32(c.last.ScanAngle)
	if slot.have {
		predScanAngle = int32(slot.scanAngle)
	}
	scanAngle, err := c.icScanAngle.Decompress(dec, predScanAngle, ctx)
	if err != nil {
		return Point14{}, err
	}
	p.ScanAngle = int16(scanAngle) //nolint:gosec

	predSourceID := int32(c.last.PointSourceID)
	if slot.have {
		predSourceID = int32(slot.sourceID)
	}
	sourceID, err := c.icSourceID.Decompress(dec, predSourceID, ctx)
	if err != nil {
		return Point14{}, err
	}
	p.PointSourceID = uint16(sourceID) //nolint:gosec

	gpsTime, err := c.decompressGpsTime(dec, ctx, &slot)
	if err != nil {
		return Point14{}, err
	}
	p.GpsTime = gpsTime

	c.last = p
	c.updateSlot(p)
	return p, nil
}

func (c *Point14Compressor) writeSeed(enc *rangecoder.Encoder, p Point14) {
	enc.EncodeBits(32, uint32(p.X)) //nolint:gosec
	enc.EncodeBits(32, uint32(p.Y)) //nolint:gosec
	enc.EncodeBits(32, uint32(p.Z)) //nolint:gosec
	enc.EncodeBits(16, uint32(p.Intensity))
	enc.EncodeBits(8, uint32(p.ReturnInfo))
	enc.EncodeBits(8, uint32(p.Flags))
	enc.EncodeBits(8, uint32(p.Classification))
	enc.EncodeBits(8, uint32(p.UserData))
	enc.EncodeBits(16, uint32(uint16(p.ScanAngle))) //nolint:gosec
	enc.EncodeBits(16, uint32(p.PointSourceID))
	enc.WriteDouble(p.GpsTime)
}

func (c *Point14Compressor) readSeed(dec *rangecoder.Decoder) (Point14, error) {
	var p Point14
	x, err := dec.DecodeBits(32)
	if err != nil {
		return p, err
	}
	y, err := dec.DecodeBits(32)
	if err != nil {
		return p, err
	}
	z, err := dec.DecodeBits(32)
	if err != nil {
		return p, err
	}
	intensity, err := dec.DecodeBits(16)
	if err != nil {
		return p, err
	}
	ri, err := dec.DecodeBits(8)
	if err != nil {
		return p, err
	}
	flags, err := dec.DecodeBits(8)
	if err != nil {
		return p, err
	}
	class, err := dec.DecodeBits(8)
	if err != nil {
		return p, err
	}
	user, err := dec.DecodeBits(8)
	if err != nil {
		return p, err
	}
	scanAngle, err := dec.DecodeBits(16)
	if err != nil {
		return p, err
	}
	sourceID, err := dec.DecodeBits(16)
	if err != nil {
		return p, err
	}
	gpsTime, err := dec.ReadDouble()
	if err != nil {
		return p, err
	}

	p.X, p.Y, p.Z = int32(x), int32(y), int32(z) //nolint:gosec
	p.Intensity = uint16(intensity)              //nolint:gosec
	p.ReturnInfo = uint8(ri)                     //nolint:gosec
	p.Flags = uint8(flags)                       //nolint:gosec
	p.Classification = uint8(class)              //nolint:gosec
	p.UserData = uint8(user)                     //nolint:gosec
	p.ScanAngle = int16(uint16(scanAngle))       //nolint:gosec
	p.PointSourceID = uint16(sourceID)           //nolint:gosec
	p.GpsTime = gpsTime
	return p, nil
}

// compressGpsTime codes value losslessly as the raw IEEE-754 bit pattern of
// the predicted value versus the actual value, split into two 32-bit halves
// run through an IntegerCompressor each — the same technique
// Wavepacket13Compressor uses for its float fields and its 64-bit byte
// offset. A scaled floating-point delta would not round-trip exactly, since
// LAS GPS time routinely carries sub-microsecond fractional precision.
func (c *Point14Compressor) compressGpsTime(enc *rangecoder.Encoder, ctx int, slot *point14Slot, value float64) {
	if math.Float64bits(value) == math.Float64bits(slot.gpsTime) {
		c.gpsSameModel[ctx].Encode(enc, 1)
		return
	}
	c.gpsSameModel[ctx].Encode(enc, 0)

	predicted := slot.gpsTime + slot.gpsDelta
	predBits := math.Float64bits(predicted)
	valueBits := math.Float64bits(value)
	c.icGpsTimeHi.Compress(enc, int32(uint32(predBits>>32)), int32(uint32(valueBits>>32)), ctx) //nolint:gosec
	c.icGpsTimeLo.Compress(enc, int32(uint32(predBits)), int32(uint32(valueBits)), ctx)         //nolint:gosec
}

func (c *Point14Compressor) decompressGpsTime(dec *rangecoder.Decoder, ctx int, slot *point14Slot) (float64, error) {
	same, err := c.gpsSameModel[ctx].Decode(dec)
	if err != nil {
		return 0, err
	}
	if same == 1 {
		return slot.gpsTime, nil
	}

	predicted := slot.gpsTime + slot.gpsDelta
	predBits := math.Float64bits(predicted)

	hi, err := c.icGpsTimeHi.Decompress(dec, int32(uint32(predBits>>32)), ctx) //nolint:gosec
	if err != nil {
		return 0, err
	}
	lo, err := c.icGpsTimeLo.Decompress(dec, int32(uint32(predBits)), ctx) //nolint:gosec
	if err != nil {
		return 0, err
	}
	valueBits := uint64(uint32(hi))<<32 | uint64(uint32(lo))
	return math.Float64frombits(valueBits), nil
}

func (c *Point14Compressor) updateSlot(p Point14) {
	ctx := point14Context(p)
	slot := &c.slots[ctx]
	if slot.have {
		slot.dx = p.X - slot.x
		slot.dy = p.Y - slot.y
		slot.gpsDelta = p.GpsTime - slot.gpsTime
	}
	slot.x, slot.y, slot.z = p.X, p.Y, p.Z
	slot.intensity = p.Intensity
	slot.class = p.Classification
	slot.userData = p.UserData
	slot.scanAngle = p.ScanAngle
	slot.sourceID = p.PointSourceID
	slot.gpsTime = p.GpsTime
	slot.have = true
}
