package laz

import (
	"encoding/binary"

	"github.com/laz-rs/laz-rs/chunk"
	"github.com/laz-rs/laz-rs/errs"
	"github.com/laz-rs/laz-rs/format"
	"github.com/laz-rs/laz-rs/internal/options"
	"github.com/laz-rs/laz-rs/mem"
)

// offsetToChunkTableSize is the width of the int64 placeholder LASzip
// writes as the first bytes of the point data section, later patched with
// the absolute offset (from the start of point data) of the chunk table.
const offsetToChunkTableSize = 8

// Compressor writes a LAZ point stream into an owned mem.Buffer sink. The
// caller is responsible for the surrounding LAS header and VLR; VLR builds
// the descriptor body Compressor's layout corresponds to.
type Compressor struct {
	sink   *mem.Buffer
	layout format.RecordLayout
	VLR    format.VLR

	pw *chunk.PointwiseWriter
	lw *chunk.LayeredWriter

	closed bool
}

// NewCompressor builds a Compressor for pointFormat/version/extraBytes,
// writing into sink. It appends the offset-to-chunk-table placeholder
// immediately. Close writes the table's offset, measured from the start of
// sink, into sink's first eight bytes, so the placeholder is patched and the
// offset is right only when sink is empty at construction.
func NewCompressor(sink *mem.Buffer, pointFormat format.PointFormat, version int, extraBytes int, opts ...Option) (*Compressor, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	layout, err := format.StandardLayout(pointFormat, version, extraBytes)
	if err != nil {
		return nil, err
	}

	compressorID := format.CompressorPointwiseChunked
	if pointFormat.IsLayered() {
		compressorID = format.CompressorLayeredChunked
	}
	vlr := format.NewVLR(compressorID, cfg.chunkSize, layout)

	c := &Compressor{sink: sink, layout: layout, VLR: vlr}

	placeholder := make([]byte, offsetToChunkTableSize)
	sink.Grow(len(placeholder))
	sink.B = append(sink.B, placeholder...)

	if pointFormat.IsLayered() {
		c.lw, err = chunk.NewLayeredWriter(sink, layout, cfg.chunkSize, extraBytes)
	} else {
		c.pw, err = chunk.NewPointwiseWriter(sink, layout, cfg.chunkSize, extraBytes)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// PointSize returns the raw byte length of one point record this
// Compressor accepts.
func (c *Compressor) PointSize() int { return c.layout.PointSize() }

// CompressOne writes one raw point record.
func (c *Compressor) CompressOne(point []byte) error {
	if c.closed {
		return errs.ErrAlreadyClosed
	}
	if c.lw != nil {
		return c.lw.CompressOne(point)
	}
	return c.pw.CompressOne(point)
}

// CompressBuffer writes every point record packed back-to-back in points,
// whose length must be a multiple of PointSize.
func (c *Compressor) CompressBuffer(points []byte) error {
	size := c.PointSize()
	if size == 0 || len(points)%size != 0 {
		return errs.ErrBufferSizeMismatch
	}
	for off := 0; off < len(points); off += size {
		if err := c.CompressOne(points[off : off+size]); err != nil {
			return err
		}
	}
	return nil
}

// FinishChunk closes the current chunk early, useful under
// WithVariableChunkSize or to bound worst-case seek granularity.
func (c *Compressor) FinishChunk() error {
	if c.lw != nil {
		return c.lw.FinishChunk()
	}
	return c.pw.FinishChunk()
}

// Close finalizes the last chunk and the chunk table, then patches the
// offset-to-chunk-table placeholder reserved at construction time.
func (c *Compressor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var tableOffset int64
	var err error
	if c.lw != nil {
		tableOffset, err = c.lw.Close()
	} else {
		tableOffset, err = c.pw.Close()
	}
	if err != nil {
		return err
	}

	patch := make([]byte, offsetToChunkTableSize)
	binary.LittleEndian.PutUint64(patch, uint64(tableOffset)) //nolint:gosec
	copy(c.sink.B[:offsetToChunkTableSize], patch)
	return nil
}

// Into releases ownership of the sink, for a caller that wants to take the
// finished bytes without cloning them.
func (c *Compressor) Into() *mem.Buffer {
	sink := c.sink
	c.sink = nil
	return sink
}
