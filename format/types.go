// Package format defines the wire-level vocabulary shared by every other
// package: record item type codes, point data formats, and the binary
// layout of the LAZ VLR descriptor a caller embeds in its own LAS VLR
// section.
package format

// ItemType identifies the kind of a single record field/substream, matching
// the LASzip item type codes exactly.
type ItemType uint16

const (
	ItemByte       ItemType = 0
	ItemShort      ItemType = 1
	ItemInt        ItemType = 2
	ItemInt64      ItemType = 3
	ItemFloat      ItemType = 4
	ItemDouble     ItemType = 5
	ItemPoint10    ItemType = 6
	ItemGpsTime11  ItemType = 7
	ItemRgb12      ItemType = 8
	ItemWavepacket13 ItemType = 9
	ItemPoint14    ItemType = 10
	ItemRgbNir14   ItemType = 11
	ItemWavepacket14 ItemType = 12
	ItemByte14     ItemType = 13
)

func (t ItemType) String() string {
	switch t {
	case ItemByte:
		return "Byte"
	case ItemShort:
		return "Short"
	case ItemInt:
		return "Int"
	case ItemInt64:
		return "Int64"
	case ItemFloat:
		return "Float"
	case ItemDouble:
		return "Double"
	case ItemPoint10:
		return "Point10"
	case ItemGpsTime11:
		return "GpsTime11"
	case ItemRgb12:
		return "Rgb12"
	case ItemWavepacket13:
		return "Wavepacket13"
	case ItemPoint14:
		return "Point14"
	case ItemRgbNir14:
		return "RgbNir14"
	case ItemWavepacket14:
		return "Wavepacket14"
	case ItemByte14:
		return "Byte14"
	default:
		return "Unknown"
	}
}

// ItemSize returns the fixed on-wire byte size of one instance of the item,
// or 0 for Byte/Byte14 whose size is the record's declared extra-byte count
// rather than a fixed constant.
func (t ItemType) ItemSize() int {
	switch t {
	case ItemByte, ItemByte14:
		return 0
	case ItemShort:
		return 2
	case ItemInt, ItemFloat:
		return 4
	case ItemInt64, ItemDouble, ItemGpsTime11:
		return 8
	case ItemPoint10:
		return 20
	case ItemRgb12:
		return 6
	case ItemRgbNir14:
		return 8
	case ItemWavepacket13, ItemWavepacket14:
		return 29
	case ItemPoint14:
		return 30
	default:
		return 0
	}
}

// CompressorID identifies the stream-layering strategy.
type CompressorID uint16

const (
	CompressorPointwise        CompressorID = 1
	CompressorPointwiseChunked CompressorID = 2
	CompressorLayeredChunked   CompressorID = 3
)

// CoderID identifies the entropy coder; only the arithmetic coder (0) is
// supported.
type CoderID uint16

const CoderArithmetic CoderID = 0

// PointFormat is the ASPRS LAS point data record format (0-10).
type PointFormat uint8

const (
	PointFormat0  PointFormat = 0
	PointFormat1  PointFormat = 1
	PointFormat2  PointFormat = 2
	PointFormat3  PointFormat = 3
	PointFormat4  PointFormat = 4
	PointFormat5  PointFormat = 5
	PointFormat6  PointFormat = 6
	PointFormat7  PointFormat = 7
	PointFormat8  PointFormat = 8
	PointFormat9  PointFormat = 9
	PointFormat10 PointFormat = 10
)

// IsLayered reports whether a format uses v3 layered (per-field substream)
// streaming rather than v1/v2 point-wise streaming.
func (f PointFormat) IsLayered() bool { return f >= PointFormat6 }
