package items

import (
	"testing"

	"github.com/laz-rs/laz-rs/mem"
	"github.com/laz-rs/laz-rs/rangecoder"
	"github.com/stretchr/testify/require"
)

func TestPoint14RoundTrip(t *testing.T) {
	points := []Point14{
		{X: 10, Y: 20, Z: 30, Intensity: 5, ReturnInfo: 0x11, Flags: 0x00, Classification: 2, UserData: 1, ScanAngle: -100, PointSourceID: 3, GpsTime: 123.456},
		{X: 11, Y: 22, Z: 29, Intensity: 6, ReturnInfo: 0x11, Flags: 0x00, Classification: 2, UserData: 1, ScanAngle: -98, PointSourceID: 3, GpsTime: 123.789},
		{X: 12, Y: 24, Z: 28, Intensity: 6, ReturnInfo: 0x21, Flags: 0x10, Classification: 5, UserData: 2, ScanAngle: 50, PointSourceID: 3, GpsTime: 124.000},
	}

	sink := mem.NewBuffer(0)
	enc := rangecoder.NewEncoder(sink)
	comp := NewPoint14Compressor()
	for _, p := range points {
		comp.Compress(enc, p)
	}
	enc.Done()

	source := mem.FromBytes(enc.Bytes())
	dec, err := rangecoder.NewDecoder(source)
	require.NoError(t, err)

	decomp := NewPoint14Compressor()
	for _, want := range points {
		got, err := decomp.Decompress(dec)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestPoint14ResetClearsChangedFlagBug(t *testing.T) {
	// point_source_id constant at a nonzero value across a whole chunk must
	// not leave any "changed" signal latched true into the next chunk.
	c := NewPoint14Compressor()
	sink := mem.NewBuffer(0)
	enc := rangecoder.NewEncoder(sink)
	for i := 0; i < 5; i++ {
		c.Compress(enc, Point14{PointSourceID: 1})
	}
	c.Reset()
	require.False(t, c.have)
	for _, slot := range c.slots {
		require.False(t, slot.have)
		require.Equal(t, uint16(0), slot.sourceID)
	}
}
