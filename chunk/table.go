// Package chunk implements the chunked framing layer: the chunk table that
// enables random access, and the point-wise (v1/v2) and layered (v3) chunk
// writers/readers built on top of the items and model packages. The
// writers' ResumeTable lets laz.Appender continue an existing stream.
package chunk

import (
	"fmt"

	"github.com/laz-rs/laz-rs/errs"
	"github.com/laz-rs/laz-rs/mem"
	"github.com/laz-rs/laz-rs/model"
	"github.com/laz-rs/laz-rs/rangecoder"
)

// tableVersion is the only chunk table version this package understands.
const tableVersion = 0

// Entry describes one chunk's extent in the point stream.
type Entry struct {
	PointCount uint32
	ByteCount  uint32
}

// Table is the full chunk table for one compressed stream.
type Table struct {
	Entries  []Entry
	Variable bool
}

// Encode serializes t as {u32 version, u32 number_of_chunks, entropy-coded
// deltas}. ByteCount is always coded; PointCount is coded only when
// t.Variable, since fixed-size chunks derive point count from chunk_size.
func (t Table) Encode() []byte {
	header := make([]byte, 8)
	putU32LE(header[0:4], tableVersion)
	putU32LE(header[4:8], uint32(len(t.Entries))) //nolint:gosec

	sink := mem.NewBuffer(256)
	enc := rangecoder.NewEncoder(sink)
	icBytes := model.NewIntegerCompressor(32, 1)
	icPoints := model.NewIntegerCompressor(32, 1)

	var lastBytes, lastPoints int32
	for _, e := range t.Entries {
		icBytes.Compress(enc, lastBytes, int32(e.ByteCount), 0) //nolint:gosec
		lastBytes = int32(e.ByteCount)                          //nolint:gosec

		if t.Variable {
			icPoints.Compress(enc, lastPoints, int32(e.PointCount), 0) //nolint:gosec
			lastPoints = int32(e.PointCount)                           //nolint:gosec
		}
	}
	enc.Done()

	return append(header, enc.Bytes()...)
}

// DecodeTable reads a table previously produced by Table.Encode. chunkSize
// and totalPoints fill in each entry's PointCount in fixed-size mode, where
// the wire format omits it; they are ignored in variable-size mode.
func DecodeTable(data []byte, variable bool, chunkSize uint32, totalPoints uint64) (Table, error) {
	if len(data) < 8 {
		return Table{}, errs.ErrInvalidChunkTable
	}

	version := getU32LE(data[0:4])
	if version != tableVersion {
		return Table{}, fmt.Errorf("%w: unsupported chunk table version %d", errs.ErrInvalidChunkTable, version)
	}
	numChunks := getU32LE(data[4:8])

	source := mem.FromBytes(data[8:])
	dec, err := rangecoder.NewDecoder(source)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", errs.ErrInvalidChunkTable, err)
	}

	icBytes := model.NewIntegerCompressor(32, 1)
	icPoints := model.NewIntegerCompressor(32, 1)

	entries := make([]Entry, numChunks)
	var lastBytes, lastPoints int32
	var pointsRemaining = totalPoints

	for i := range entries {
		b, err := icBytes.Decompress(dec, lastBytes, 0)
		if err != nil {
			return Table{}, fmt.Errorf("%w: %v", errs.ErrInvalidChunkTable, err)
		}
		lastBytes = b
		entries[i].ByteCount = uint32(b) //nolint:gosec

		if variable {
			p, err := icPoints.Decompress(dec, lastPoints, 0)
			if err != nil {
				return Table{}, fmt.Errorf("%w: %v", errs.ErrInvalidChunkTable, err)
			}
			lastPoints = p
			entries[i].PointCount = uint32(p) //nolint:gosec
		} else {
			count := uint64(chunkSize)
			if count > pointsRemaining {
				count = pointsRemaining
			}
			entries[i].PointCount = uint32(count) //nolint:gosec
			pointsRemaining -= count
		}
	}

	return Table{Entries: entries, Variable: variable}, nil
}

func putU32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getU32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
