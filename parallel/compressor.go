package parallel

import (
	"context"
	"encoding/binary"

	"golang.org/x/sync/errgroup"

	"github.com/laz-rs/laz-rs/chunk"
	"github.com/laz-rs/laz-rs/errs"
	"github.com/laz-rs/laz-rs/format"
	"github.com/laz-rs/laz-rs/internal/pool"
	"github.com/laz-rs/laz-rs/mem"
)

const offsetToChunkTableSize = 8

// ParCompressor splits a full point buffer into chunkSize-point chunks and
// compresses them concurrently, each chunk getting its own private
// predictor/model state (exactly as a sequential Compressor resets state at
// every chunk boundary, so no cross-chunk dependency is lost by doing this
// in parallel). Output bytes are assembled in input order regardless of
// which worker finishes first.
type ParCompressor struct {
	driver     *Driver
	layout     format.RecordLayout
	vlr        format.VLR
	chunkSize  uint32
	extraBytes int
	Stats      Stats
}

// NewParCompressor builds a ParCompressor for pointFormat/version/extraBytes
// using chunkSize-point chunks (chunk.VariableChunkSize is not accepted
// here: parallel compression requires a known, fixed split).
func NewParCompressor(driver *Driver, pointFormat format.PointFormat, version int, extraBytes int, chunkSize uint32) (*ParCompressor, error) {
	if chunkSize == 0 || chunkSize == chunk.VariableChunkSize {
		return nil, errs.ErrInvalidChunkSize
	}
	layout, err := format.StandardLayout(pointFormat, version, extraBytes)
	if err != nil {
		return nil, err
	}

	compressorID := format.CompressorPointwiseChunked
	if pointFormat.IsLayered() {
		compressorID = format.CompressorLayeredChunked
	}
	vlr := format.NewVLR(compressorID, chunkSize, layout)

	return &ParCompressor{driver: driver, layout: layout, vlr: vlr, chunkSize: chunkSize, extraBytes: extraBytes}, nil
}

// VLR returns the descriptor for the layout this compressor was built for.
func (p *ParCompressor) VLR() format.VLR { return p.vlr }

// Compress splits points (a whole-buffer point stream, length a multiple of
// the record size) into chunks and compresses them concurrently, returning
// the full point-data section: the offset-to-chunk-table placeholder
// (patched), every chunk's bytes in order, then the chunk table.
func (p *ParCompressor) Compress(points []byte) (*mem.Buffer, error) {
	pointSize := p.layout.PointSize()
	if pointSize == 0 || len(points)%pointSize != 0 {
		return nil, errs.ErrBufferSizeMismatch
	}
	totalPoints := len(points) / pointSize

	numChunks := (totalPoints + int(p.chunkSize) - 1) / int(p.chunkSize)
	if totalPoints == 0 {
		numChunks = 0
	}

	results := make([][]byte, numChunks)
	entries := make([]chunk.Entry, numChunks)

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(p.driver.numThreads)

	for i := 0; i < numChunks; i++ {
		if ctx.Err() != nil {
			break
		}
		i := i
		start := i * int(p.chunkSize)
		end := start + int(p.chunkSize)
		if end > totalPoints {
			end = totalPoints
		}
		chunkPoints := points[start*pointSize : end*pointSize]

		g.Go(func() error {
			data, pointCount, err := compressOneChunk(p.layout, p.extraBytes, chunkPoints, pointSize)
			if err != nil {
				return err
			}
			results[i] = data
			entries[i] = chunk.Entry{PointCount: uint32(pointCount), ByteCount: uint32(len(data))} //nolint:gosec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := mem.NewBuffer(offsetToChunkTableSize + len(points))
	out.Grow(offsetToChunkTableSize)
	out.B = append(out.B, make([]byte, offsetToChunkTableSize)...)

	var bytesOut int64
	for _, data := range results {
		out.Grow(len(data))
		out.B = append(out.B, data...)
		bytesOut += int64(len(data))
	}

	tableOffset := out.Len()
	tableBytes := chunk.Table{Entries: entries, Variable: p.chunkSize == chunk.VariableChunkSize}.Encode()
	out.Grow(len(tableBytes))
	out.B = append(out.B, tableBytes...)

	patch := make([]byte, offsetToChunkTableSize)
	binary.LittleEndian.PutUint64(patch, uint64(tableOffset)) //nolint:gosec
	copy(out.B[:offsetToChunkTableSize], patch)

	p.Stats = Stats{
		ChunksProcessed: numChunks,
		PointsProcessed: totalPoints,
		BytesIn:         int64(len(points)),
		BytesOut:        bytesOut,
	}
	return out, nil
}

// compressOneChunk compresses one worker's slice of points into a standalone
// chunk byte string. The sink is a throwaway, pooled buffer: its contents
// are copied out before it is returned, since another goroutine's Get() may
// reuse its backing array the moment it is put back.
func compressOneChunk(layout format.RecordLayout, extraBytes int, points []byte, pointSize int) ([]byte, int, error) {
	sink := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(sink)

	if layout.Format.IsLayered() {
		w, err := chunk.NewLayeredWriter(sink, layout, chunk.VariableChunkSize, extraBytes)
		if err != nil {
			return nil, 0, err
		}
		for off := 0; off < len(points); off += pointSize {
			if err := w.CompressOne(points[off : off+pointSize]); err != nil {
				return nil, 0, err
			}
		}
		if err := w.FinishChunk(); err != nil {
			return nil, 0, err
		}
		data := append([]byte(nil), sink.Bytes()...)
		return data, len(points) / pointSize, nil
	}

	w, err := chunk.NewPointwiseWriter(sink, layout, chunk.VariableChunkSize, extraBytes)
	if err != nil {
		return nil, 0, err
	}
	for off := 0; off < len(points); off += pointSize {
		if err := w.CompressOne(points[off : off+pointSize]); err != nil {
			return nil, 0, err
		}
	}
	if err := w.FinishChunk(); err != nil {
		return nil, 0, err
	}
	data := append([]byte(nil), sink.Bytes()...)
	return data, len(points) / pointSize, nil
}
