package items

import (
	"testing"

	"github.com/laz-rs/laz-rs/mem"
	"github.com/laz-rs/laz-rs/rangecoder"
	"github.com/stretchr/testify/require"
)

func TestRgb12RoundTrip(t *testing.T) {
	colors := []Rgb{
		{R: 1000, G: 2000, B: 3000},
		{R: 1000, G: 2000, B: 3000}, // unchanged
		{R: 1010, G: 2005, B: 2990}, // small drift, all channels change
		{R: 1010, G: 2005, B: 0},    // only B changes
	}

	sink := mem.NewBuffer(0)
	enc := rangecoder.NewEncoder(sink)
	comp := NewRgb12Compressor()
	for _, c := range colors {
		comp.Compress(enc, c)
	}
	enc.Done()

	source := mem.FromBytes(enc.Bytes())
	dec, err := rangecoder.NewDecoder(source)
	require.NoError(t, err)

	decomp := NewRgb12Compressor()
	for _, want := range colors {
		got, err := decomp.Decompress(dec)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}
