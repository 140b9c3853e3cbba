package items

import (
	"testing"

	"github.com/laz-rs/laz-rs/mem"
	"github.com/laz-rs/laz-rs/rangecoder"
	"github.com/stretchr/testify/require"
)

func TestPoint10RoundTrip(t *testing.T) {
	points := []Point10{
		{X: 100, Y: 200, Z: 300, Intensity: 50, ReturnByte: 0x11, Classification: 2, ScanAngleRank: -5, UserData: 1, PointSourceID: 7},
		{X: 101, Y: 205, Z: 299, Intensity: 55, ReturnByte: 0x11, Classification: 2, ScanAngleRank: -5, UserData: 1, PointSourceID: 7},
		{X: 150, Y: 260, Z: 301, Intensity: 60, ReturnByte: 0x22, Classification: 5, ScanAngleRank: 10, UserData: 3, PointSourceID: 7},
		{X: 150, Y: 260, Z: 301, Intensity: 60, ReturnByte: 0x22, Classification: 5, ScanAngleRank: 10, UserData: 3, PointSourceID: 9},
	}

	sink := mem.NewBuffer(0)
	enc := rangecoder.NewEncoder(sink)
	comp := NewPoint10Compressor()
	for _, p := range points {
		comp.Compress(enc, p)
	}
	enc.Done()

	source := mem.FromBytes(enc.Bytes())
	dec, err := rangecoder.NewDecoder(source)
	require.NoError(t, err)

	decomp := NewPoint10Compressor()
	for _, want := range points {
		got, err := decomp.Decompress(dec)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestPoint10CompressorResetClearsPredictorState(t *testing.T) {
	c := NewPoint10Compressor()
	sink := mem.NewBuffer(0)
	enc := rangecoder.NewEncoder(sink)
	c.Compress(enc, Point10{X: 5, Y: 5, Z: 5})
	c.Reset()
	require.False(t, c.have)
	for _, slot := range c.slots {
		require.False(t, slot.have)
	}
}
