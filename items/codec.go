package items

import (
	"encoding/binary"
	"fmt"
	"math"
)

// This file holds the raw little-endian marshal/unmarshal pairs between
// each item's Go struct and its fixed-width on-wire byte layout, the
// boundary between a chunk's raw point-record bytes and the structured
// values the per-field compressors above operate on.

// Point10Size is the on-wire byte length of a Point10 record.
const Point10Size = 20

// Bytes serializes p into a new 20-byte slice.
func (p Point10) Bytes() []byte {
	buf := make([]byte, Point10Size)
	e := binary.LittleEndian
	e.PutUint32(buf[0:4], uint32(p.X))   //nolint:gosec
	e.PutUint32(buf[4:8], uint32(p.Y))   //nolint:gosec
	e.PutUint32(buf[8:12], uint32(p.Z))  //nolint:gosec
	e.PutUint16(buf[12:14], p.Intensity)
	buf[14] = p.ReturnByte
	buf[15] = p.Classification
	buf[16] = uint8(p.ScanAngleRank) //nolint:gosec
	buf[17] = p.UserData
	e.PutUint16(buf[18:20], p.PointSourceID)
	return buf
}

// ParsePoint10 decodes a 20-byte Point10 record.
func ParsePoint10(data []byte) (Point10, error) {
	if len(data) != Point10Size {
		return Point10{}, fmt.Errorf("items: Point10 requires %d bytes, got %d", Point10Size, len(data))
	}
	e := binary.LittleEndian
	return Point10{
		X:              int32(e.Uint32(data[0:4])), //nolint:gosec
		Y:              int32(e.Uint32(data[4:8])), //nolint:gosec
		Z:              int32(e.Uint32(data[8:12])), //nolint:gosec
		Intensity:      e.Uint16(data[12:14]),
		ReturnByte:     data[14],
		Classification: data[15],
		ScanAngleRank:  int8(data[16]),
		UserData:       data[17],
		PointSourceID:  e.Uint16(data[18:20]),
	}, nil
}

// GpsTimeSize is the on-wire byte length of a GpsTime11 value.
const GpsTimeSize = 8

// GpsTimeBytes serializes a gps time value into a new 8-byte slice.
func GpsTimeBytes(v float64) []byte {
	buf := make([]byte, GpsTimeSize)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
	return buf
}

// ParseGpsTime decodes an 8-byte gps time value.
func ParseGpsTime(data []byte) (float64, error) {
	if len(data) != GpsTimeSize {
		return 0, fmt.Errorf("items: GpsTime11 requires %d bytes, got %d", GpsTimeSize, len(data))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(data)), nil
}

// RgbSize is the on-wire byte length of an Rgb record.
const RgbSize = 6

// Bytes serializes p into a new 6-byte slice.
func (p Rgb) Bytes() []byte {
	buf := make([]byte, RgbSize)
	e := binary.LittleEndian
	e.PutUint16(buf[0:2], p.R)
	e.PutUint16(buf[2:4], p.G)
	e.PutUint16(buf[4:6], p.B)
	return buf
}

// ParseRgb decodes a 6-byte Rgb record.
func ParseRgb(data []byte) (Rgb, error) {
	if len(data) != RgbSize {
		return Rgb{}, fmt.Errorf("items: Rgb12 requires %d bytes, got %d", RgbSize, len(data))
	}
	e := binary.LittleEndian
	return Rgb{R: e.Uint16(data[0:2]), G: e.Uint16(data[2:4]), B: e.Uint16(data[4:6])}, nil
}

// RgbNirSize is the on-wire byte length of an RgbNir14 record.
const RgbNirSize = 8

// Bytes serializes p into a new 8-byte slice.
func (p RgbNir14) Bytes() []byte {
	buf := make([]byte, RgbNirSize)
	e := binary.LittleEndian
	e.PutUint16(buf[0:2], p.R)
	e.PutUint16(buf[2:4], p.G)
	e.PutUint16(buf[4:6], p.B)
	e.PutUint16(buf[6:8], p.Nir)
	return buf
}

// ParseRgbNir14 decodes an 8-byte RgbNir14 record.
func ParseRgbNir14(data []byte) (RgbNir14, error) {
	if len(data) != RgbNirSize {
		return RgbNir14{}, fmt.Errorf("items: RgbNir14 requires %d bytes, got %d", RgbNirSize, len(data))
	}
	e := binary.LittleEndian
	return RgbNir14{R: e.Uint16(data[0:2]), G: e.Uint16(data[2:4]), B: e.Uint16(data[4:6]), Nir: e.Uint16(data[6:8])}, nil
}

// WavepacketSize is the on-wire byte length of a Wavepacket13/Wavepacket14
// record; the two share an identical layout.
const WavepacketSize = 29

// Bytes serializes p into a new 29-byte slice.
func (p Wavepacket13) Bytes() []byte { return wavepacketBytes(p.DescriptorIndex, p.ByteOffset, p.PacketSize, p.ReturnPointLoc, p.Xt, p.Yt, p.Zt) }

// ParseWavepacket13 decodes a 29-byte Wavepacket13 record.
func ParseWavepacket13(data []byte) (Wavepacket13, error) {
	di, off, size, loc, xt, yt, zt, err := parseWavepacketBytes(data)
	if err != nil {
		return Wavepacket13{}, err
	}
	return Wavepacket13{DescriptorIndex: di, ByteOffset: off, PacketSize: size, ReturnPointLoc: loc, Xt: xt, Yt: yt, Zt: zt}, nil
}

// Bytes serializes p into a new 29-byte slice.
func (p Wavepacket14) Bytes() []byte { return wavepacketBytes(p.DescriptorIndex, p.ByteOffset, p.PacketSize, p.ReturnPointLoc, p.Xt, p.Yt, p.Zt) }

// ParseWavepacket14 decodes a 29-byte Wavepacket14 record.
func ParseWavepacket14(data []byte) (Wavepacket14, error) {
	di, off, size, loc, xt, yt, zt, err := parseWavepacketBytes(data)
	if err != nil {
		return Wavepacket14{}, err
	}
	return Wavepacket14{DescriptorIndex: di, ByteOffset: off, PacketSize: size, ReturnPointLoc: loc, Xt: xt, Yt: yt, Zt: zt}, nil
}

func wavepacketBytes(di uint8, offset uint64, size uint32, loc, xt, yt, zt float32) []byte {
	buf := make([]byte, WavepacketSize)
	e := binary.LittleEndian
	buf[0] = di
	e.PutUint64(buf[1:9], offset)
	e.PutUint32(buf[9:13], size)
	e.PutUint32(buf[13:17], math.Float32bits(loc))
	e.PutUint32(buf[17:21], math.Float32bits(xt))
	e.PutUint32(buf[21:25], math.Float32bits(yt))
	e.PutUint32(buf[25:29], math.Float32bits(zt))
	return buf
}

func parseWavepacketBytes(data []byte) (di uint8, offset uint64, size uint32, loc, xt, yt, zt float32, err error) {
	if len(data) != WavepacketSize {
		err = fmt.Errorf("items: wave packet item requires %d bytes, got %d", WavepacketSize, len(data))
		return
	}
	e := binary.LittleEndian
	di = data[0]
	offset = e.Uint64(data[1:9])
	size = e.Uint32(data[9:13])
	loc = math.Float32frombits(e.Uint32(data[13:17]))
	xt = math.Float32frombits(e.Uint32(data[17:21]))
	yt = math.Float32frombits(e.Uint32(data[21:25]))
	zt = math.Float32frombits(e.Uint32(data[25:29]))
	return
}

// Point14Size is the on-wire byte length of a Point14 record.
const Point14Size = 30

// Bytes serializes p into a new 30-byte slice.
func (p Point14) Bytes() []byte {
	buf := make([]byte, Point14Size)
	e := binary.LittleEndian
	e.PutUint32(buf[0:4], uint32(p.X))  //nolint:gosec
	e.PutUint32(buf[4:8], uint32(p.Y))  //nolint:gosec
	e.PutUint32(buf[8:12], uint32(p.Z)) //nolint:gosec
	e.PutUint16(buf[12:14], p.Intensity)
	buf[14] = p.ReturnInfo
	buf[15] = p.Flags
	buf[16] = p.Classification
	buf[17] = p.UserData
	e.PutUint16(buf[18:20], uint16(p.ScanAngle)) //nolint:gosec
	e.PutUint16(buf[20:22], p.PointSourceID)
	e.PutUint64(buf[22:30], math.Float64bits(p.GpsTime))
	return buf
}

// ParsePoint14 decodes a 30-byte Point14 record.
func ParsePoint14(data []byte) (Point14, error) {
	if len(data) != Point14Size {
		return Point14{}, fmt.Errorf("items: Point14 requires %d bytes, got %d", Point14Size, len(data))
	}
	e := binary.LittleEndian
	return Point14{
		X:              int32(e.Uint32(data[0:4])),  //nolint:gosec
		Y:              int32(e.Uint32(data[4:8])),  //nolint:gosec
		Z:              int32(e.Uint32(data[8:12])), //nolint:gosec
		Intensity:      e.Uint16(data[12:14]),
		ReturnInfo:     data[14],
		Flags:          data[15],
		Classification: data[16],
		UserData:       data[17],
		ScanAngle:      int16(e.Uint16(data[18:20])), //nolint:gosec
		PointSourceID:  e.Uint16(data[20:22]),
		GpsTime:        math.Float64frombits(e.Uint64(data[22:30])),
	}, nil
}
