// Package pool provides a sync.Pool-backed source of mem.Buffer instances,
// so that the range coder and each per-chunk field accumulator can reuse
// their backing arrays across chunks instead of allocating one per chunk.
package pool

import (
	"sync"

	"github.com/laz-rs/laz-rs/mem"
)

// Two size classes: a small default for a single field's substream within
// one chunk, and a larger one for whole-chunk accumulation (e.g. the
// concatenated layered record or the parallel driver's per-chunk sink).
const (
	FieldBufferDefaultSize = 4096        // one range-coder output buffer
	FieldBufferMaxRetained = 1024 * 128  // discard buffers grown past this
	ChunkBufferDefaultSize = 1024 * 64   // a whole chunk's worth of points
	ChunkBufferMaxRetained = 1024 * 1024 // discard buffers grown past this
)

// BufferPool hands out mem.Buffer values sized for one concern, discarding
// (rather than retaining) buffers that grew unusually large so the pool
// does not pin down memory after a one-off oversized chunk.
type BufferPool struct {
	pool        sync.Pool
	maxRetained int
}

// NewBufferPool creates a pool whose Get() returns buffers of defaultSize
// capacity and whose Put() discards buffers grown past maxRetained.
func NewBufferPool(defaultSize, maxRetained int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any { return mem.NewBuffer(defaultSize) },
		},
		maxRetained: maxRetained,
	}
}

// Get retrieves a reset Buffer from the pool.
func (p *BufferPool) Get() *mem.Buffer {
	buf, _ := p.pool.Get().(*mem.Buffer)
	return buf
}

// Put returns buf to the pool, discarding it instead if its capacity grew
// past the pool's retention threshold.
func (p *BufferPool) Put(buf *mem.Buffer) {
	if buf == nil {
		return
	}
	if p.maxRetained > 0 && buf.Cap() > p.maxRetained {
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}

var (
	fieldPool = NewBufferPool(FieldBufferDefaultSize, FieldBufferMaxRetained)
	chunkPool = NewBufferPool(ChunkBufferDefaultSize, ChunkBufferMaxRetained)
)

// GetFieldBuffer retrieves a Buffer sized for a single range coder's output.
func GetFieldBuffer() *mem.Buffer { return fieldPool.Get() }

// PutFieldBuffer returns buf to the field buffer pool.
func PutFieldBuffer(buf *mem.Buffer) { fieldPool.Put(buf) }

// GetChunkBuffer retrieves a Buffer sized for a whole chunk's accumulation.
func GetChunkBuffer() *mem.Buffer { return chunkPool.Get() }

// PutChunkBuffer returns buf to the chunk buffer pool.
func PutChunkBuffer(buf *mem.Buffer) { chunkPool.Put(buf) }
