// Package items implements the per-field predictive compressors: one type
// per LAZ record item, for both the point-wise (v1/v2) and layered (v3)
// compressor families. Each type owns its adaptive model state and exposes
// Reset so a chunk writer/reader can restore canonical initial state at
// every chunk boundary.
package items

import (
	"github.com/laz-rs/laz-rs/model"
	"github.com/laz-rs/laz-rs/rangecoder"
)

// point10Contexts is the number of last-point slots the X/Y/Z predictor
// keeps, selected by a classification of return number and number of
// returns.
const point10Contexts = 4

// intensityContexts is the number of scan-flag-derived contexts intensity
// uses.
const intensityContexts = 4

// Point10 is the core 20-byte point record shared by formats 0-5.
type Point10 struct {
	X, Y, Z        int32
	Intensity      uint16
	ReturnByte     uint8 // return_number:3 | number_of_returns:3 | scan_direction_flag:1 | edge_of_flight_line:1
	Classification uint8
	ScanAngleRank  int8
	UserData       uint8
	PointSourceID  uint16
}

func (p Point10) returnNumber() uint8     { return p.ReturnByte & 0x7 }
func (p Point10) numberOfReturns() uint8  { return (p.ReturnByte >> 3) & 0x7 }
func (p Point10) scanDirection() uint8    { return (p.ReturnByte >> 6) & 0x1 }
func (p Point10) edgeOfFlightLine() uint8 { return (p.ReturnByte >> 7) & 0x1 }

// point10Context classifies a point into one of point10Contexts slots from
// its return number and number of returns (single return, first of several,
// intermediate, and last or any other combination), so points with the same
// return role share a predictor history. The scan direction flag does not
// take part in the choice.
func point10Context(p Point10) int {
	rn := p.returnNumber()
	nr := p.numberOfReturns()

	ctx := 0
	switch {
	case rn <= 1 && nr <= 1:
		ctx = 0
	case rn == 1 && nr > 1:
		ctx = 1
	case rn > 1 && rn < nr:
		ctx = 2
	default:
		ctx = 3
	}
	return ctx
}

func intensityContext(p Point10) int {
	ctx := 0
	if p.edgeOfFlightLine() != 0 {
		ctx |= 1
	}
	if p.scanDirection() != 0 {
		ctx |= 2
	}
	return ctx
}

// point10Slot holds the last seen values for one context slot, used to
// predict the next point assigned to that slot.
type point10Slot struct {
	x, y, z int32
	dx, dy  int32
	have    bool
}

// Point10Compressor encodes/decodes a stream of Point10 records, delta
// against per-context predictor state.
type Point10Compressor struct {
	slots [point10Contexts]point10Slot

	icX *model.IntegerCompressor
	icY *model.IntegerCompressor
	icZ *model.IntegerCompressor

	icIntensity *model.IntegerCompressor

	returnByteModel     *model.ArithModel
	classificationModel [point10Contexts]*model.ArithModel
	scanAngleModel      *model.ArithModel
	userDataModel       [point10Contexts]*model.ArithModel
	pointSourceModel    *model.IntegerCompressor

	last Point10
	have bool
}

// NewPoint10Compressor builds a compressor in its canonical initial state.
func NewPoint10Compressor() *Point10Compressor {
	c := &Point10Compressor{
		icX:              model.NewIntegerCompressor(32, point10Contexts),
		icY:              model.NewIntegerCompressor(32, point10Contexts),
		icZ:              model.NewIntegerCompressor(32, point10Contexts),
		icIntensity:      model.NewIntegerCompressor(16, intensityContexts),
		returnByteModel:  model.NewArithModel(256),
		scanAngleModel:   model.NewArithModel(256),
		pointSourceModel: model.NewIntegerCompressor(16, 1),
	}
	for i := range c.classificationModel {
		c.classificationModel[i] = model.NewArithModel(256)
		c.userDataModel[i] = model.NewArithModel(256)
	}
	c.Reset()
	return c
}

// Reset restores all predictor and model state to canonical initial
// conditions, as required at every chunk boundary.
func (c *Point10Compressor) Reset() {
	for i := range c.slots {
		c.slots[i] = point10Slot{}
	}
	c.icX.Reset()
	c.icY.Reset()
	c.icZ.Reset()
	c.icIntensity.Reset()
	c.returnByteModel.Reset()
	c.scanAngleModel.Reset()
	c.pointSourceModel.Reset()
	for i := range c.classificationModel {
		c.classificationModel[i].Reset()
		c.userDataModel[i].Reset()
	}
	c.last = Point10{}
	c.have = false
}

// Compress writes p through enc. The first call after Reset writes a raw
// literal seed; every subsequent call encodes a delta against predictor
// state.
func (c *Point10Compressor) Compress(enc *rangecoder.Encoder, p Point10) {
	if !c.have {
		c.writeSeed(enc, p)
		c.have = true
		c.last = p
		c.updateSlots(p)
		return
	}

	ctx := point10Context(p)
	slot := c.slots[ctx]

	var predX, predY, predZ int32
	if slot.have {
		predX = slot.x + slot.dx
		predY = slot.y + slot.dy
		predZ = slot.z
	} else {
		predX, predY, predZ = c.last.X, c.last.Y, c.last.Z
	}

	// ReturnByte is encoded first because ctx — and therefore every other
	// field's context selection — derives from it; the decoder must recover
	// it before it can decode anything else.
	c.returnByteModel.Encode(enc, int(p.ReturnByte))

	c.icX.Compress(enc, predX, p.X, ctx)
	c.icY.Compress(enc, predY, p.Y, ctx)
	c.icZ.Compress(enc, predZ, p.Z, ctx)

	c.icIntensity.Compress(enc, int32(c.last.Intensity), int32(p.Intensity), intensityContext(p)) //nolint:gosec

	c.classificationModel[ctx].Encode(enc, int(p.Classification))
	c.scanAngleModel.Encode(enc, int(uint8(p.ScanAngleRank)))
	c.userDataModel[ctx].Encode(enc, int(p.UserData))
	c.pointSourceModel.Compress(enc, int32(c.last.PointSourceID), int32(p.PointSourceID), 0)

	c.last = p
	c.updateSlots(p)
}

// Decompress reads back one Point10 record.
func (c *Point10Compressor) Decompress(dec *rangecoder.Decoder) (Point10, error) {
	if !c.have {
		p, err := c.readSeed(dec)
		if err != nil {
			return Point10{}, err
		}
		c.have = true
		c.last = p
		c.updateSlots(p)
		return p, nil
	}

	var p Point10

	// ctx derives from ReturnByte, so it must be decoded before anything
	// else, mirroring the order Compress encodes in.
	rb, err := c.returnByteModel.Decode(dec)
	if err != nil {
		return Point10{}, err
	}
	p.ReturnByte = uint8(rb) //nolint:gosec
	ctx := point10Context(p)

	slot := c.slots[ctx]
	var predX, predY, predZ int32
	if slot.have {
		predX = slot.x + slot.dx
		predY = slot.y + slot.dy
		predZ = slot.z
	} else {
		predX, predY, predZ = c.last.X, c.last.Y, c.last.Z
	}

	x, err := c.icX.Decompress(dec, predX, ctx)
	if err != nil {
		return Point10{}, err
	}
	y, err := c.icY.Decompress(dec, predY, ctx)
	if err != nil {
		return Point10{}, err
	}
	z, err := c.icZ.Decompress(dec, predZ, ctx)
	if err != nil {
		return Point10{}, err
	}
	p.X, p.Y, p.Z = x, y, z

	intensity, err := c.icIntensity.Decompress(dec, int32(c.last.Intensity), intensityContext(p))
	if err != nil {
		return Point10{}, err
	}
	p.Intensity = uint16(intensity) //nolint:gosec

	cls, err := c.classificationModel[ctx].Decode(dec)
	if err != nil {
		return Point10{}, err
	}
	p.Classification = uint8(cls) //nolint:gosec

	sa, err := c.scanAngleModel.Decode(dec)
	if err != nil {
		return Point10{}, err
	}
	p.ScanAngleRank = int8(uint8(sa)) //nolint:gosec

	ud, err := c.userDataModel[ctx].Decode(dec)
	if err != nil {
		return Point10{}, err
	}
	p.UserData = uint8(ud) //nolint:gosec

	psid, err := c.pointSourceModel.Decompress(dec, int32(c.last.PointSourceID), 0)
	if err != nil {
		return Point10{}, err
	}
	p.PointSourceID = uint16(psid) //nolint:gosec

	c.last = p
	c.updateSlots(p)
	return p, nil
}

func (c *Point10Compressor) writeSeed(enc *rangecoder.Encoder, p Point10) {
	enc.EncodeBits(32, uint32(p.X)) //nolint:gosec
	enc.EncodeBits(32, uint32(p.Y)) //nolint:gosec
	enc.EncodeBits(32, uint32(p.Z)) //nolint:gosec
	enc.EncodeBits(16, uint32(p.Intensity))
	enc.EncodeBits(8, uint32(p.ReturnByte))
	enc.EncodeBits(8, uint32(p.Classification))
	enc.EncodeBits(8, uint32(uint8(p.ScanAngleRank)))
	enc.EncodeBits(8, uint32(p.UserData))
	enc.EncodeBits(16, uint32(p.PointSourceID))
}

func (c *Point10Compressor) readSeed(dec *rangecoder.Decoder) (Point10, error) {
	var p Point10
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
	rb, err := dec.DecodeBits(8)
	if err != nil {
		return p, err
	}
	cls, err := dec.DecodeBits(8)
	if err != nil {
		return p, err
	}
	sa, err := dec.DecodeBits(8)
	if err != nil {
		return p, err
	}
	ud, err := dec.DecodeBits(8)
	if err != nil {
		return p, err
	}
	psid, err := dec.DecodeBits(16)
	if err != nil {
		return p, err
	}

	p.X, p.Y, p.Z = int32(x), int32(y), int32(z) //nolint:gosec
	p.Intensity = uint16(intensity)              //nolint:gosec
	p.ReturnByte = uint8(rb)                     //nolint:gosec
	p.Classification = uint8(cls)                //nolint:gosec
	p.ScanAngleRank = int8(uint8(sa))             //nolint:gosec
	p.UserData = uint8(ud)                        //nolint:gosec
	p.PointSourceID = uint16(psid)                //nolint:gosec
	return p, nil
}

func (c *Point10Compressor) updateSlots(p Point10) {
	ctx := point10Context(p)
	slot := &c.slots[ctx]
	if slot.have {
		slot.dx = p.X - slot.x
		slot.dy = p.Y - slot.y
	}
	slot.x, slot.y, slot.z = p.X, p.Y, p.Z
	slot.have = true
}
