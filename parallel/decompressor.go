package parallel

import (
	"context"
	"encoding/binary"

	"golang.org/x/sync/errgroup"

	"github.com/laz-rs/laz-rs/chunk"
	"github.com/laz-rs/laz-rs/errs"
	"github.com/laz-rs/laz-rs/format"
	"github.com/laz-rs/laz-rs/mem"
	"github.com/laz-rs/laz-rs/selective"
)

// ParDecompressor decompresses a full LAZ point-data section concurrently,
// one worker per chunk, honoring a selective.Mask for v3 streams just like
// laz.Decompressor.
type ParDecompressor struct {
	driver     *Driver
	layout     format.RecordLayout
	vlr        format.VLR
	extraBytes int
	mask       selective.Mask
	Stats      Stats
}

// NewParDecompressor builds a ParDecompressor for the given VLR descriptor.
func NewParDecompressor(driver *Driver, vlr format.VLR, extraBytes int, mask selective.Mask) *ParDecompressor {
	version := 2
	if vlr.Compressor == format.CompressorLayeredChunked {
		version = 3
	} else if len(vlr.Items) > 0 {
		version = int(vlr.Items[0].Version)
	}

	layoutFmt := format.PointFormat0
	if version == 3 {
		layoutFmt = format.PointFormat6
	}

	layout := format.RecordLayout{Format: layoutFmt, Version: version, Items: vlr.Items, ExtraBytes: extraBytes}
	return &ParDecompressor{driver: driver, layout: layout, vlr: vlr, extraBytes: extraBytes, mask: mask}
}

// Decompress reads back every point record from source, a point-data
// section starting at the offset-to-chunk-table placeholder. totalPoints
// fills in per-chunk point counts for fixed-size chunking, which the wire
// table omits. The result is one contiguous buffer of raw point records in
// original order.
func (p *ParDecompressor) Decompress(source *mem.Buffer, totalPoints uint64) ([]byte, error) {
	placeholder := make([]byte, offsetToChunkTableSize)
	for i := range placeholder {
		b, err := source.ReadByte()
		if err != nil {
			return nil, errs.ErrUnexpectedEOF
		}
		placeholder[i] = b
	}
	tableOffset := int64(binary.LittleEndian.Uint64(placeholder)) //nolint:gosec

	pointDataStart := source.Pos() - offsetToChunkTableSize
	tableStart := pointDataStart + int(tableOffset)
	if !source.Seek(tableStart) {
		return nil, errs.ErrInvalidChunkTable
	}
	table, err := chunk.DecodeTable(source.Bytes()[source.Pos():], p.vlr.IsVariableChunkSize(), p.vlr.ChunkSize, totalPoints)
	if err != nil {
		return nil, err
	}

	pointSize := p.layout.PointSize()
	results := make([][]byte, len(table.Entries))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(p.driver.numThreads)

	bytePos := pointDataStart + offsetToChunkTableSize
	for i, entry := range table.Entries {
		if ctx.Err() != nil {
			break
		}
		i, entry := i, entry
		chunkStart := bytePos
		bytePos += int(entry.ByteCount)

		g.Go(func() error {
			chunkSource := mem.FromBytes(source.Bytes()[chunkStart : chunkStart+int(entry.ByteCount)])
			single := chunk.Table{Entries: []chunk.Entry{entry}, Variable: true}

			var out []byte
			if p.layout.Format.IsLayered() {
				r, err := chunk.NewLayeredReader(chunkSource, p.layout, single, p.mask, p.extraBytes)
				if err != nil {
					return err
				}
				for n := uint32(0); n < entry.PointCount; n++ {
					rec, err := r.DecompressOne()
					if err != nil {
						return err
					}
					out = append(out, rec...)
				}
			} else {
				r, err := chunk.NewPointwiseReader(chunkSource, p.layout, single, entry.PointCount, p.extraBytes)
				if err != nil {
					return err
				}
				for n := uint32(0); n < entry.PointCount; n++ {
					rec, err := r.DecompressOne()
					if err != nil {
						return err
					}
					out = append(out, rec...)
				}
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	totalPointCount := 0
	for _, e := range table.Entries {
		totalPointCount += int(e.PointCount)
	}

	out := make([]byte, 0, totalPointCount*pointSize)
	for _, r := range results {
		out = append(out, r...)
	}

	p.Stats = Stats{
		ChunksProcessed: len(table.Entries),
		PointsProcessed: totalPointCount,
		BytesIn:         int64(tableStart - (pointDataStart + offsetToChunkTableSize)),
		BytesOut:        int64(len(out)),
	}
	return out, nil
}
