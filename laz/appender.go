package laz

import (
	"encoding/binary"

	"github.com/laz-rs/laz-rs/chunk"
	"github.com/laz-rs/laz-rs/errs"
	"github.com/laz-rs/laz-rs/format"
	"github.com/laz-rs/laz-rs/mem"
)

// Appender continues writing chunks into an existing LAZ point stream. It
// discards the prior stream's stale chunk table (recomputed on Close), and
// resumes encoding brand new chunks after the last existing one, since
// every chunk's predictor state is independent of its neighbors by
// construction here. An empty source (no existing points) behaves exactly
// like a fresh Compressor.
type Appender struct {
	*Compressor
}

// NewAppender opens source (a previously-written point data section, of
// byte length sourceLen) for appending. vlr is the descriptor the caller
// read back from its own LAS VLR section when it reopened the file;
// totalPoints is the count already recorded in the LAS header.
func NewAppender(source *mem.Buffer, vlr format.VLR, totalPoints uint64, extraBytes int) (*Appender, error) {
	if totalPoints == 0 {
		fresh, err := newCompressorFromVLR(source, vlr, extraBytes)
		if err != nil {
			return nil, err
		}
		return &Appender{Compressor: fresh}, nil
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
	if tableOffset < 0 {
		return nil, errs.ErrAppendNoChunkTable
	}

	pointDataStart := source.Pos() - offsetToChunkTableSize
	tableStart := pointDataStart + int(tableOffset)
	if !source.Seek(tableStart) {
		return nil, errs.ErrAppendNotSeekable
	}
	table, err := chunk.DecodeTable(source.Bytes()[source.Pos():], vlr.IsVariableChunkSize(), vlr.ChunkSize, totalPoints)
	if err != nil {
		return nil, err
	}

	source.Truncate(tableStart)

	layout := format.RecordLayout{Version: layoutVersion(vlr), Items: vlr.Items, ExtraBytes: extraBytes}
	c := &Compressor{sink: source, layout: layout, VLR: vlr}

	if vlr.Compressor == format.CompressorLayeredChunked {
		lw, err := chunk.NewLayeredWriter(source, layout, vlr.ChunkSize, extraBytes)
		if err != nil {
			return nil, err
		}
		lw.ResumeTable(table.Entries)
		c.lw = lw
	} else {
		pw, err := chunk.NewPointwiseWriter(source, layout, vlr.ChunkSize, extraBytes)
		if err != nil {
			return nil, err
		}
		pw.ResumeTable(table.Entries)
		c.pw = pw
	}

	return &Appender{Compressor: c}, nil
}

func newCompressorFromVLR(sink *mem.Buffer, vlr format.VLR, extraBytes int) (*Compressor, error) {
	layout := format.RecordLayout{Version: layoutVersion(vlr), Items: vlr.Items, ExtraBytes: extraBytes}

	c := &Compressor{sink: sink, layout: layout, VLR: vlr}

	placeholder := make([]byte, offsetToChunkTableSize)
	sink.Grow(len(placeholder))
	sink.B = append(sink.B, placeholder...)

	var err error
	if vlr.Compressor == format.CompressorLayeredChunked {
		c.lw, err = chunk.NewLayeredWriter(sink, layout, vlr.ChunkSize, extraBytes)
	} else {
		c.pw, err = chunk.NewPointwiseWriter(sink, layout, vlr.ChunkSize, extraBytes)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
