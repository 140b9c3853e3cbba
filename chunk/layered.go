package chunk

import (
	"encoding/binary"

	"github.com/laz-rs/laz-rs/errs"
	"github.com/laz-rs/laz-rs/format"
	"github.com/laz-rs/laz-rs/internal/pool"
	"github.com/laz-rs/laz-rs/mem"
	"github.com/laz-rs/laz-rs/rangecoder"
	"github.com/laz-rs/laz-rs/selective"
)

// LayeredWriter compresses a stream of raw point records using the v3
// (layered) compressor family: the Point14 core item is written to one
// stream, and every other field gets its own private stream for the
// chunk's lifetime, concatenated as {u32 length, bytes} per field when the
// chunk closes.
type LayeredWriter struct {
	layout    format.RecordLayout
	core      layeredCore
	fields    []layeredFieldCodec
	chunkSize uint32
	variable  bool
	pointSize int

	sink *mem.Buffer

	coreSink   *mem.Buffer
	coreEnc    *rangecoder.Encoder
	fieldSinks []*mem.Buffer
	fieldEncs  []*rangecoder.Encoder

	pointsInChunk uint32
	table         []Entry
}

// NewLayeredWriter builds a writer for layout, writing compressed chunks
// into sink.
func NewLayeredWriter(sink *mem.Buffer, layout format.RecordLayout, chunkSize uint32, extraBytes int) (*LayeredWriter, error) {
	core, fields, err := buildLayeredFields(layout, extraBytes)
	if err != nil {
		return nil, err
	}

	w := &LayeredWriter{
		layout:    layout,
		core:      core,
		fields:    fields,
		chunkSize: chunkSize,
		variable:  chunkSize == VariableChunkSize,
		pointSize: layout.PointSize(),
		sink:      sink,
	}
	w.startChunk()
	return w, nil
}

// ResumeTable seeds the writer with table entries from a prior session, for
// an appender that continues writing new chunks after existing ones.
func (w *LayeredWriter) ResumeTable(entries []Entry) {
	w.table = append(w.table, entries...)
}

func (w *LayeredWriter) startChunk() {
	w.coreSink = pool.GetChunkBuffer()
	w.coreEnc = rangecoder.NewEncoder(w.coreSink)

	w.fieldSinks = make([]*mem.Buffer, len(w.fields))
	w.fieldEncs = make([]*rangecoder.Encoder, len(w.fields))
	for i := range w.fields {
		w.fieldSinks[i] = pool.GetFieldBuffer()
		w.fieldEncs[i] = rangecoder.NewEncoder(w.fieldSinks[i])
	}
	w.pointsInChunk = 0
}

// CompressOne writes one raw point record, auto-closing the current chunk
// first if chunkSize (in fixed mode) has been reached.
func (w *LayeredWriter) CompressOne(point []byte) error {
	if len(point) != w.pointSize {
		return errs.ErrBufferSizeMismatch
	}

	if !w.variable && w.pointsInChunk == w.chunkSize {
		if err := w.FinishChunk(); err != nil {
			return err
		}
	}

	ctx := w.core.compress(w.coreEnc, point)
	for i, f := range w.fields {
		if err := f.compress(w.fieldEncs[i], ctx, point); err != nil {
			return err
		}
	}
	w.pointsInChunk++
	return nil
}

// FinishChunk flushes every substream of the current chunk, concatenates
// them as {u32 length, bytes} per field (core stream first, then fields in
// declared order), writes that to the sink, records the chunk's table
// entry, resets every field compressor, and starts a fresh chunk.
func (w *LayeredWriter) FinishChunk() error {
	w.coreEnc.Done()
	chunkBytes := lengthPrefixed(w.coreSink.Bytes())
	pool.PutChunkBuffer(w.coreSink)

	for i, enc := range w.fieldEncs {
		enc.Done()
		chunkBytes = append(chunkBytes, lengthPrefixed(w.fieldSinks[i].Bytes())...)
		pool.PutFieldBuffer(w.fieldSinks[i])
	}

	w.sink.Grow(len(chunkBytes))
	w.sink.B = append(w.sink.B, chunkBytes...)

	w.table = append(w.table, Entry{PointCount: w.pointsInChunk, ByteCount: uint32(len(chunkBytes))}) //nolint:gosec

	w.core.c.Reset()
	for _, f := range w.fields {
		f.reset()
	}
	w.startChunk()
	return nil
}

// Close finalizes the last chunk if it holds any points, or writes one
// empty chunk if no chunk has been written at all, so the table never has
// zero entries; it then writes the chunk table to the sink, returning the
// absolute offset the table begins at.
func (w *LayeredWriter) Close() (tableOffset int64, err error) {
	if w.pointsInChunk > 0 || len(w.table) == 0 {
		if err := w.FinishChunk(); err != nil {
			return 0, err
		}
	}

	tableOffset = int64(w.sink.Len())
	tableBytes := Table{Entries: w.table, Variable: w.variable}.Encode()
	w.sink.Grow(len(tableBytes))
	w.sink.B = append(w.sink.B, tableBytes...)
	return tableOffset, nil
}

func lengthPrefixed(data []byte) []byte {
	out := make([]byte, 4+len(data))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(data))) //nolint:gosec
	copy(out[4:], data)
	return out
}

// LayeredReader decompresses a stream of raw point records written by
// LayeredWriter, honoring a selective.Mask that lets the caller skip
// decoding fields it does not need.
type LayeredReader struct {
	layout    format.RecordLayout
	core      layeredCore
	fields    []layeredFieldCodec
	pointSize int
	mask      selective.Mask

	source *mem.Buffer
	table  Table

	coreSource   *mem.Buffer
	coreDec      *rangecoder.Decoder
	fieldSources []*mem.Buffer
	fieldDecs    []*rangecoder.Decoder

	chunkIdx      int
	pointInChunk  uint32
	chunkStartPos int
}

// NewLayeredReader builds a reader over source (positioned at the start of
// point data) using a chunk table already decoded by the caller.
func NewLayeredReader(source *mem.Buffer, layout format.RecordLayout, table Table, mask selective.Mask, extraBytes int) (*LayeredReader, error) {
	core, fields, err := buildLayeredFields(layout, extraBytes)
	if err != nil {
		return nil, err
	}

	r := &LayeredReader{
		layout:    layout,
		core:      core,
		fields:    fields,
		pointSize: layout.PointSize(),
		mask:      mask,
		source:    source,
		table:     table,
	}
	if err := r.enterChunk(0); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *LayeredReader) enterChunk(idx int) error {
	if idx >= len(r.table.Entries) {
		return errs.ErrChunkIndexNotFound
	}
	r.chunkStartPos = r.source.Pos()
	r.chunkIdx = idx
	r.pointInChunk = 0

	coreData, err := readLengthPrefixed(r.source)
	if err != nil {
		return err
	}
	r.coreSource = mem.FromBytes(coreData)
	r.coreDec, err = rangecoder.NewDecoder(r.coreSource)
	if err != nil {
		return err
	}

	r.fieldSources = make([]*mem.Buffer, len(r.fields))
	r.fieldDecs = make([]*rangecoder.Decoder, len(r.fields))
	for i, f := range r.fields {
		data, err := readLengthPrefixed(r.source)
		if err != nil {
			return err
		}
		if !r.mask.Enabled(f.mask) {
			continue
		}
		r.fieldSources[i] = mem.FromBytes(data)
		dec, err := rangecoder.NewDecoder(r.fieldSources[i])
		if err != nil {
			return err
		}
		r.fieldDecs[i] = dec
	}

	r.core.c.Reset()
	for _, f := range r.fields {
		f.reset()
	}
	return nil
}

func readLengthPrefixed(source *mem.Buffer) (data []byte, err error) {
	var lenBuf [4]byte
	for i := range lenBuf {
		b, rerr := source.ReadByte()
		if rerr != nil {
			return nil, errs.ErrUnexpectedEOF
		}
		lenBuf[i] = b
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])

	data = make([]byte, n)
	for i := range data {
		b, rerr := source.ReadByte()
		if rerr != nil {
			return nil, errs.ErrUnexpectedEOF
		}
		data[i] = b
	}
	return data, nil
}

// DecompressOne reads back one raw point record. Fields disabled by the
// reader's selective mask are left at their zero value in the returned
// bytes.
func (r *LayeredReader) DecompressOne() ([]byte, error) {
	entry := r.table.Entries[r.chunkIdx]
	if r.pointInChunk == entry.PointCount {
		nextPos := r.chunkStartPos + int(entry.ByteCount)
		if !r.source.Seek(nextPos) {
			return nil, errs.ErrCorruptedStream
		}
		if err := r.enterChunk(r.chunkIdx + 1); err != nil {
			return nil, err
		}
	}

	out := make([]byte, r.pointSize)
	ctx, err := r.core.decompress(r.coreDec, out)
	if err != nil {
		return nil, err
	}

	for i, f := range r.fields {
		if r.fieldDecs[i] == nil {
			continue
		}
		if err := f.decompress(r.fieldDecs[i], ctx, out); err != nil {
			return nil, err
		}
	}
	r.pointInChunk++
	return out, nil
}

// Seek repositions the reader at the start of the chunk containing
// pointIndex, then decodes forward to it. Landing exactly on a chunk
// boundary enters the following chunk fresh rather than the tail of the
// one before it.
func (r *LayeredReader) Seek(pointIndex uint64) error {
	var chunkStart uint64
	chunkIdx := 0
	bytePos := 0

	for chunkIdx < len(r.table.Entries) {
		entry := r.table.Entries[chunkIdx]
		if pointIndex < chunkStart+uint64(entry.PointCount) {
			break
		}
		chunkStart += uint64(entry.PointCount)
		bytePos += int(entry.ByteCount)
		chunkIdx++
	}
	if chunkIdx >= len(r.table.Entries) {
		return errs.ErrChunkIndexNotFound
	}

	// Table byte counts are relative to where chunk 0 starts in source,
	// recovered from the start position of the chunk currently entered.
	dataStart := r.chunkStartPos
	for i := 0; i < r.chunkIdx; i++ {
		dataStart -= int(r.table.Entries[i].ByteCount)
	}
	if !r.source.Seek(dataStart + bytePos) {
		return errs.ErrCorruptedStream
	}
	if err := r.enterChunk(chunkIdx); err != nil {
		return err
	}

	skip := pointIndex - chunkStart
	for i := uint64(0); i < skip; i++ {
		if _, err := r.DecompressOne(); err != nil {
			return err
		}
	}
	return nil
}
