package chunk

import (
	"github.com/laz-rs/laz-rs/errs"
	"github.com/laz-rs/laz-rs/format"
	"github.com/laz-rs/laz-rs/internal/pool"
	"github.com/laz-rs/laz-rs/mem"
	"github.com/laz-rs/laz-rs/rangecoder"
)

// VariableChunkSize is the chunk_size sentinel meaning the caller closes
// chunks explicitly via FinishChunk rather than relying on a point count.
const VariableChunkSize = format.VariableChunkSizeSentinel

// PointwiseWriter compresses a stream of raw point records using the v1/v2
// (point-wise) compressor family: every field of a record is written into
// one shared range-coded stream, in declared item order.
type PointwiseWriter struct {
	layout    format.RecordLayout
	fields    []fieldCodec
	chunkSize uint32
	variable  bool
	pointSize int

	sink *mem.Buffer

	chunkSink     *mem.Buffer
	enc           *rangecoder.Encoder
	pointsInChunk uint32
	table         []Entry
}

// NewPointwiseWriter builds a writer for layout, writing compressed chunks
// into sink. chunkSize is the point-count at which a chunk auto-closes, or
// VariableChunkSize to require explicit FinishChunk calls.
func NewPointwiseWriter(sink *mem.Buffer, layout format.RecordLayout, chunkSize uint32, extraBytes int) (*PointwiseWriter, error) {
	fields, err := buildPointwiseFields(layout, extraBytes)
	if err != nil {
		return nil, err
	}

	w := &PointwiseWriter{
		layout:    layout,
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
func (w *PointwiseWriter) ResumeTable(entries []Entry) {
	w.table = append(w.table, entries...)
}

func (w *PointwiseWriter) startChunk() {
	w.chunkSink = pool.GetFieldBuffer()
	w.enc = rangecoder.NewEncoder(w.chunkSink)
	w.pointsInChunk = 0
}

// CompressOne writes one raw point record, auto-closing the current chunk
// first if chunkSize (in fixed mode) has been reached.
func (w *PointwiseWriter) CompressOne(point []byte) error {
	if len(point) != w.pointSize {
		return errs.ErrBufferSizeMismatch
	}

	if !w.variable && w.pointsInChunk == w.chunkSize {
		if err := w.FinishChunk(); err != nil {
			return err
		}
	}

	for _, f := range w.fields {
		if err := f.compress(w.enc, point); err != nil {
			return err
		}
	}
	w.pointsInChunk++
	return nil
}

// FinishChunk flushes the current chunk's range coder, writes its bytes to
// the sink, records its table entry, resets every field compressor, and
// starts a fresh chunk. Safe to call on an empty chunk (produces a
// zero-point entry whose bytes are only the range coder's four-byte flush),
// used by variable-size chunking.
func (w *PointwiseWriter) FinishChunk() error {
	w.enc.Done()
	data := w.enc.Bytes()

	w.sink.Grow(len(data))
	w.sink.B = append(w.sink.B, data...)

	w.table = append(w.table, Entry{PointCount: w.pointsInChunk, ByteCount: uint32(len(data))}) //nolint:gosec

	pool.PutFieldBuffer(w.chunkSink)

	for _, f := range w.fields {
		f.reset()
	}
	w.startChunk()
	return nil
}

// Close finalizes the last chunk if it holds any points, or writes one
// empty chunk if no chunk has been written at all, so the table never has
// zero entries; it then writes the chunk table to the sink. It returns the absolute byte offset at which the
// table begins, for the caller to patch into its VLR's
// offset_to_chunk_table field.
func (w *PointwiseWriter) Close() (tableOffset int64, err error) {
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

// PointwiseReader decompresses a stream of raw point records written by
// PointwiseWriter.
type PointwiseReader struct {
	layout    format.RecordLayout
	fields    []fieldCodec
	pointSize int

	source *mem.Buffer
	table  Table

	dec             *rangecoder.Decoder
	chunkIdx        int
	pointInChunk    uint32
	chunkStartPos   int
	chunkSize       uint32
}

// NewPointwiseReader builds a reader over source (positioned at the start
// of point data) using a chunk table already decoded by the caller (via
// DecodeTable, at the offset recorded in the stream's VLR).
func NewPointwiseReader(source *mem.Buffer, layout format.RecordLayout, table Table, chunkSize uint32, extraBytes int) (*PointwiseReader, error) {
	fields, err := buildPointwiseFields(layout, extraBytes)
	if err != nil {
		return nil, err
	}

	r := &PointwiseReader{
		layout:    layout,
		fields:    fields,
		pointSize: layout.PointSize(),
		source:    source,
		table:     table,
		chunkSize: chunkSize,
	}
	if err := r.enterChunk(0); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PointwiseReader) enterChunk(idx int) error {
	if idx >= len(r.table.Entries) {
		return errs.ErrChunkIndexNotFound
	}

	r.chunkStartPos = r.source.Pos()
	dec, err := rangecoder.NewDecoder(r.source)
	if err != nil {
		return err
	}
	r.dec = dec
	r.chunkIdx = idx
	r.pointInChunk = 0

	for _, f := range r.fields {
		f.reset()
	}
	return nil
}

// DecompressOne reads back one raw point record.
func (r *PointwiseReader) DecompressOne() ([]byte, error) {
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
	for _, f := range r.fields {
		if err := f.decompress(r.dec, out); err != nil {
			return nil, err
		}
	}
	r.pointInChunk++
	return out, nil
}

// Seek repositions the reader at the first point of the chunk containing
// pointIndex, then skips forward within that chunk to pointIndex exactly.
// Seeking to a point index that is an exact multiple of chunkSize lands on
// the first point of the following chunk rather than re-entering the
// chunk it would trail off the end of, the historic off-by-one this
// mirrors guards against explicitly via chunk-start indexing instead of
// a modulo computed from pointIndex alone.
func (r *PointwiseReader) Seek(pointIndex uint64) error {
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
