// Package laz is the top-level sequential API: point-at-a-time and
// whole-buffer compress/decompress over a single mem.Buffer sink or
// source, plus an Appender that continues writing into an existing
// stream. Parallel, multi-threaded compression lives in the parallel
// package, whose workers drive the chunk package's writers and readers
// directly rather than this package.
package laz

import (
	"github.com/laz-rs/laz-rs/errs"
	"github.com/laz-rs/laz-rs/format"
	"github.com/laz-rs/laz-rs/internal/options"
	"github.com/laz-rs/laz-rs/selective"
)

// DefaultChunkSize is the point count LASzip's reference writer uses when
// the caller does not request a different one.
const DefaultChunkSize = 50000

// VariableChunkSize requests variable-size chunking, where the caller
// closes each chunk explicitly rather than relying on a fixed point count.
const VariableChunkSize = format.VariableChunkSizeSentinel

type config struct {
	chunkSize uint32
	mask      selective.Mask
}

func defaultConfig() config {
	return config{chunkSize: DefaultChunkSize, mask: selective.FullMask()}
}

// Option configures a Compressor or Decompressor at construction time.
type Option = options.Option[*config]

// WithChunkSize sets the point count at which a chunk auto-closes.
func WithChunkSize(n uint32) Option {
	return options.New(func(c *config) error {
		if n == 0 {
			return errs.ErrInvalidChunkSize
		}
		c.chunkSize = n
		return nil
	})
}

// WithVariableChunkSize requests variable-size chunking.
func WithVariableChunkSize() Option {
	return options.NoError(func(c *config) { c.chunkSize = VariableChunkSize })
}

// WithSelectiveMask restricts a Decompressor to the given v3 fields,
// ignored by v1/v2 streams and by Compressor.
func WithSelectiveMask(m selective.Mask) Option {
	return options.NoError(func(c *config) { c.mask = m })
}
