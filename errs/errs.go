// Package errs collects the sentinel errors reported at the boundary of the
// laz core. Callers match them with errors.Is; internal code wraps them with
// fmt.Errorf("...: %w", ...) to attach context without losing that
// matchability.
package errs

import "errors"

// Configuration-class errors: detected at construction time, fatal,
// surfaced immediately.
var (
	ErrUnsupportedVersion     = errors.New("laz: unsupported compressor version")
	ErrUnsupportedPointFormat = errors.New("laz: unsupported point data format")
	ErrInvalidVLR             = errors.New("laz: invalid LAZ VLR descriptor")
	ErrUnknownItemType        = errors.New("laz: unknown record item type")
	ErrInconsistentItemSizes  = errors.New("laz: item sizes do not sum to the declared point size")
	ErrBufferSizeMismatch     = errors.New("laz: input buffer length is not a multiple of the point size")
	ErrInvalidChunkSize       = errors.New("laz: chunk_size must be positive or the variable-size sentinel")
	ErrInvalidThreadCount     = errors.New("laz: num_threads must be positive")
)

// Data-integrity errors: the decoder detected impossible or malformed
// input. Never cause a panic; always reported as an error.
var (
	ErrCorruptedStream    = errors.New("laz: corrupted stream")
	ErrUnexpectedEOF      = errors.New("laz: unexpected end of input")
	ErrInvalidContext     = errors.New("laz: invalid model context index")
	ErrInvalidChunkTable  = errors.New("laz: invalid chunk table")
	ErrSeekUnavailable    = errors.New("laz: seek is unavailable on this source")
	ErrChunkIndexNotFound = errors.New("laz: chunk index out of range")
)

// Appender-specific errors.
var (
	ErrAppendNoChunkTable = errors.New("laz: cannot append, source has no chunk table offset")
	ErrAppendNotSeekable  = errors.New("laz: cannot append, sink/source is not seekable")
)

// Parallel-driver errors.
var (
	ErrDriverClosed = errors.New("laz: parallel driver already closed")
)

// Lifecycle errors.
var (
	ErrAlreadyClosed = errors.New("laz: compressor already closed")
)
