package laz

import (
	"encoding/binary"

	"github.com/laz-rs/laz-rs/chunk"
	"github.com/laz-rs/laz-rs/errs"
	"github.com/laz-rs/laz-rs/format"
	"github.com/laz-rs/laz-rs/internal/options"
	"github.com/laz-rs/laz-rs/mem"
)

// Decompressor reads a LAZ point stream back out of a mem.Buffer source
// positioned at the start of point data (i.e. at the offset-to-chunk-table
// placeholder), given the VLR descriptor the caller parsed from its own
// LAS VLR section.
type Decompressor struct {
	source *mem.Buffer
	layout format.RecordLayout
	vlr    format.VLR

	pr *chunk.PointwiseReader
	lr *chunk.LayeredReader
}

// NewDecompressor builds a Decompressor from source and vlr. totalPoints is
// required to derive per-chunk point counts in fixed-size chunking mode,
// where the wire chunk table omits them; pass the LAS header's declared
// point count.
func NewDecompressor(source *mem.Buffer, vlr format.VLR, totalPoints uint64, extraBytes int, opts ...Option) (*Decompressor, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	isLayered := vlr.Compressor == format.CompressorLayeredChunked
	layoutFmt := format.PointFormat0
	if isLayered {
		layoutFmt = format.PointFormat6
	}
	layout := format.RecordLayout{
		Format:     layoutFmt,
		Version:    layoutVersion(vlr),
		Items:      vlr.Items,
		ExtraBytes: extraBytes,
	}

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
	if !source.Seek(pointDataStart + int(tableOffset)) {
		return nil, errs.ErrInvalidChunkTable
	}
	tableBytes := source.Bytes()[source.Pos():]
	table, err := chunk.DecodeTable(tableBytes, vlr.IsVariableChunkSize(), vlr.ChunkSize, totalPoints)
	if err != nil {
		return nil, err
	}

	if !source.Seek(pointDataStart + offsetToChunkTableSize) {
		return nil, errs.ErrInvalidChunkTable
	}

	d := &Decompressor{source: source, layout: layout, vlr: vlr}
	if layout.Format.IsLayered() {
		d.lr, err = chunk.NewLayeredReader(source, layout, table, cfg.mask, extraBytes)
	} else {
		d.pr, err = chunk.NewPointwiseReader(source, layout, table, vlr.ChunkSize, extraBytes)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// PointSize returns the raw byte length of one point record this
// Decompressor produces.
func (d *Decompressor) PointSize() int { return d.layout.PointSize() }

// DecompressOne reads back one raw point record.
func (d *Decompressor) DecompressOne() ([]byte, error) {
	if d.lr != nil {
		return d.lr.DecompressOne()
	}
	return d.pr.DecompressOne()
}

// DecompressBuffer reads n point records, packed back-to-back.
func (d *Decompressor) DecompressBuffer(n int) ([]byte, error) {
	size := d.PointSize()
	out := make([]byte, 0, n*size)
	for i := 0; i < n; i++ {
		p, err := d.DecompressOne()
		if err != nil {
			return nil, err
		}
		out = append(out, p...)
	}
	return out, nil
}

// Seek repositions the decompressor to pointIndex.
func (d *Decompressor) Seek(pointIndex uint64) error {
	if d.lr != nil {
		return d.lr.Seek(pointIndex)
	}
	return d.pr.Seek(pointIndex)
}

// Into releases ownership of the source buffer.
func (d *Decompressor) Into() *mem.Buffer {
	source := d.source
	d.source = nil
	return source
}

func layoutVersion(vlr format.VLR) int {
	if vlr.Compressor == format.CompressorLayeredChunked {
		return 3
	}
	if len(vlr.Items) > 0 {
		return int(vlr.Items[0].Version)
	}
	return 2
}
