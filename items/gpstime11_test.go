package items

import (
	"testing"

	"github.com/laz-rs/laz-rs/mem"
	"github.com/laz-rs/laz-rs/rangecoder"
	"github.com/stretchr/testify/require"
)

func roundTripGpsTime(t *testing.T, version int, values []float64) []float64 {
	t.Helper()

	sink := mem.NewBuffer(0)
	enc := rangecoder.NewEncoder(sink)
	comp := NewGpsTime11Compressor(version)
	for _, v := range values {
		comp.Compress(enc, v)
	}
	enc.Done()

	source := mem.FromBytes(enc.Bytes())
	dec, err := rangecoder.NewDecoder(source)
	require.NoError(t, err)

	decomp := NewGpsTime11Compressor(version)
	got := make([]float64, len(values))
	for i := range values {
		v, err := decomp.Decompress(dec)
		require.NoError(t, err)
		got[i] = v
	}
	return got
}

func TestGpsTime11RoundTripIsBitExact(t *testing.T) {
	// These values are not exact multiples of any fixed-point scale factor;
	// a quantized-delta coding scheme would lose the fractional tail.
	values := []float64{
		467123.123456789,
		467123.123456790,
		467123.987654321,
		1.0,
		0.0,
		-123456.000001,
	}

	for _, version := range []int{1, 2} {
		got := roundTripGpsTime(t, version, values)
		require.Equal(t, values, got)
	}
}

func TestGpsTime11RingRevisitsPriorValue(t *testing.T) {
	// A ring revisit (value identical to a non-current slot) must still
	// round-trip exactly even though it is coded through the switch path
	// rather than the integer compressor.
	values := []float64{100.5, 200.25, 300.125, 100.5, 200.25}
	got := roundTripGpsTime(t, 2, values)
	require.Equal(t, values, got)
}

func TestGpsTime11SameValueRepeats(t *testing.T) {
	values := []float64{42.5, 42.5, 42.5, 7.0}
	got := roundTripGpsTime(t, 1, values)
	require.Equal(t, values, got)
}
