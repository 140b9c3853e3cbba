// Package parallel fans chunk-level compression and decompression out
// across goroutines, one worker per chunk, using golang.org/x/sync/errgroup
// to bound concurrency and propagate the first error encountered. Output
// ordering always matches input order regardless of which worker finishes
// first, since each worker writes into its own slot of a pre-sized results
// slice rather than a shared stream.
package parallel

import (
	"runtime"

	"github.com/laz-rs/laz-rs/errs"
	"github.com/laz-rs/laz-rs/internal/options"
)

// DefaultNumThreads is used when the caller does not request a specific
// worker count: one per available CPU.
func DefaultNumThreads() int { return runtime.GOMAXPROCS(0) }

type config struct {
	numThreads int
}

func defaultConfig() config {
	return config{numThreads: DefaultNumThreads()}
}

// Option configures a Driver at construction time.
type Option = options.Option[*config]

// WithNumThreads bounds the Driver's worker concurrency.
func WithNumThreads(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return errs.ErrInvalidThreadCount
		}
		c.numThreads = n
		return nil
	})
}

// Driver bounds the concurrency of a ParCompressor/ParDecompressor run.
type Driver struct {
	numThreads int
}

// NewDriver builds a Driver.
func NewDriver(opts ...Option) (*Driver, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	return &Driver{numThreads: cfg.numThreads}, nil
}

// Stats reports aggregate work done by one ParCompressor/ParDecompressor
// run, an optional, non-authoritative convenience the caller may ignore.
type Stats struct {
	ChunksProcessed int
	PointsProcessed int
	BytesIn         int64
	BytesOut        int64
}
