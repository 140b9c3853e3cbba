package format

import (
	"encoding/binary"

	"github.com/laz-rs/laz-rs/errs"
)

// VLRUserID and VLRRecordID are the values a caller's LAS VLR header must
// carry for the body this package encodes. The core does not write the
// outer VLR header itself — LAS VLR layout is the caller's responsibility —
// only this body.
const (
	VLRUserID   = "laszip encoded"
	VLRRecordID = 22204
)

// fixedVLRSize is the byte length of the descriptor body before its
// variable-length item list.
const fixedVLRSize = 34

// itemEntrySize is the byte length of one {type, size, version} item entry.
const itemEntrySize = 6

// VLR is the LAZ-descriptor VLR body. All multi-byte fields are
// little-endian, unconditionally: LAZ has no endian option.
type VLR struct {
	Compressor            CompressorID
	Coder                 CoderID
	VersionMajor          uint8
	VersionMinor          uint8
	VersionRevision       uint16
	Options               uint32
	ChunkSize             uint32
	NumberOfSpecialEvlrs  int64
	OffsetToSpecialEvlrs  int64
	Items                 []ItemDescriptor
}

// NewVLR builds a descriptor for the given chunking mode and record layout.
// VersionMajor/Minor/Revision follow the LASzip convention of 2.2.0 for a
// general-purpose writer; callers producing reference-identical output may
// override these fields directly.
func NewVLR(compressor CompressorID, chunkSize uint32, layout RecordLayout) VLR {
	return VLR{
		Compressor:           compressor,
		Coder:                CoderArithmetic,
		VersionMajor:         2,
		VersionMinor:         2,
		VersionRevision:      0,
		ChunkSize:            chunkSize,
		NumberOfSpecialEvlrs: -1,
		OffsetToSpecialEvlrs: -1,
		Items:                layout.Items,
	}
}

// Size returns the total encoded byte length of this descriptor.
func (v VLR) Size() int {
	return fixedVLRSize + itemEntrySize*len(v.Items)
}

// Bytes serializes the descriptor into a new byte slice.
func (v VLR) Bytes() []byte {
	buf := make([]byte, v.Size())
	e := binary.LittleEndian

	e.PutUint16(buf[0:2], uint16(v.Compressor))
	e.PutUint16(buf[2:4], uint16(v.Coder))
	buf[4] = v.VersionMajor
	buf[5] = v.VersionMinor
	e.PutUint16(buf[6:8], v.VersionRevision)
	e.PutUint32(buf[8:12], v.Options)
	e.PutUint32(buf[12:16], v.ChunkSize)
	e.PutUint64(buf[16:24], uint64(v.NumberOfSpecialEvlrs)) //nolint:gosec
	e.PutUint64(buf[24:32], uint64(v.OffsetToSpecialEvlrs)) //nolint:gosec
	e.PutUint16(buf[32:34], uint16(len(v.Items)))           //nolint:gosec

	off := fixedVLRSize
	for _, it := range v.Items {
		e.PutUint16(buf[off:off+2], uint16(it.Type))
		e.PutUint16(buf[off+2:off+4], it.Size)
		e.PutUint16(buf[off+4:off+6], it.Version)
		off += itemEntrySize
	}

	return buf
}

// ParseVLR decodes a descriptor previously produced by Bytes, validating
// that the declared item count matches the data length and that every item
// type is known.
func ParseVLR(data []byte) (VLR, error) {
	if len(data) < fixedVLRSize {
		return VLR{}, errs.ErrInvalidVLR
	}
	e := binary.LittleEndian

	v := VLR{
		Compressor:           CompressorID(e.Uint16(data[0:2])),
		Coder:                CoderID(e.Uint16(data[2:4])),
		VersionMajor:         data[4],
		VersionMinor:         data[5],
		VersionRevision:      e.Uint16(data[6:8]),
		Options:              e.Uint32(data[8:12]),
		ChunkSize:            e.Uint32(data[12:16]),
		NumberOfSpecialEvlrs: int64(e.Uint64(data[16:24])), //nolint:gosec
		OffsetToSpecialEvlrs: int64(e.Uint64(data[24:32])), //nolint:gosec
	}

	numItems := int(e.Uint16(data[32:34]))
	want := fixedVLRSize + itemEntrySize*numItems
	if len(data) < want {
		return VLR{}, errs.ErrInvalidVLR
	}

	v.Items = make([]ItemDescriptor, numItems)
	off := fixedVLRSize
	for i := 0; i < numItems; i++ {
		t := ItemType(e.Uint16(data[off : off+2]))
		if t > ItemByte14 {
			return VLR{}, errs.ErrUnknownItemType
		}
		v.Items[i] = ItemDescriptor{
			Type:    t,
			Size:    e.Uint16(data[off+2 : off+4]),
			Version: e.Uint16(data[off+4 : off+6]),
		}
		off += itemEntrySize
	}

	return v, nil
}

// PointSize returns the sum of every item's declared size.
func (v VLR) PointSize() int {
	total := 0
	for _, it := range v.Items {
		total += int(it.Size)
	}
	return total
}

// VariableChunkSizeSentinel is the ChunkSize value that selects variable-size
// chunking.
const VariableChunkSizeSentinel uint32 = 0xFFFFFFFF

// IsVariableChunkSize reports whether ChunkSize carries the variable-size
// sentinel.
func (v VLR) IsVariableChunkSize() bool { return v.ChunkSize == VariableChunkSizeSentinel }
