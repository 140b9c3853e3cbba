package laz

import (
	"testing"

	"github.com/laz-rs/laz-rs/format"
	"github.com/laz-rs/laz-rs/items"
	"github.com/laz-rs/laz-rs/mem"
	"github.com/stretchr/testify/require"
)

func buildPoint10Stream(n int) [][]byte {
	out := make([][]byte, n)
	for i := 0; i < n; i++ {
		p := items.Point10{X: int32(i * 10), Y: int32(i * 5), Z: int32(i), Intensity: uint16(i), ReturnByte: 0x11, Classification: 1, UserData: 2, PointSourceID: 9} //nolint:gosec
		out[i] = p.Bytes()
	}
	return out
}

func TestCompressorDecompressorRoundTrip(t *testing.T) {
	points := buildPoint10Stream(23)

	sink := mem.NewBuffer(0)
	c, err := NewCompressor(sink, format.PointFormat0, 2, 0, WithChunkSize(7))
	require.NoError(t, err)
	for _, p := range points {
		require.NoError(t, c.CompressOne(p))
	}
	require.NoError(t, c.Close())

	source := c.Into()
	source.Seek(0)

	d, err := NewDecompressor(source, c.VLR, uint64(len(points)), 0)
	require.NoError(t, err)
	for i, want := range points {
		got, err := d.DecompressOne()
		require.NoError(t, err, "point %d", i)
		require.Equal(t, want, got)
	}
}

func TestCompressorDecompressorSeek(t *testing.T) {
	points := buildPoint10Stream(50)

	sink := mem.NewBuffer(0)
	c, err := NewCompressor(sink, format.PointFormat0, 2, 0, WithChunkSize(10))
	require.NoError(t, err)
	for _, p := range points {
		require.NoError(t, c.CompressOne(p))
	}
	require.NoError(t, c.Close())

	source := c.Into()
	source.Seek(0)

	d, err := NewDecompressor(source, c.VLR, uint64(len(points)), 0)
	require.NoError(t, err)

	require.NoError(t, d.Seek(10))
	got, err := d.DecompressOne()
	require.NoError(t, err)
	require.Equal(t, points[10], got)

	require.NoError(t, d.Seek(42))
	got, err = d.DecompressOne()
	require.NoError(t, err)
	require.Equal(t, points[42], got)
}

func TestAppenderContinuesExistingStream(t *testing.T) {
	initial := buildPoint10Stream(12)
	appended := buildPoint10Stream(8)
	for i, p := range appended {
		pp, _ := items.ParsePoint10(p)
		pp.X += 1000
		appended[i] = pp.Bytes()
	}

	sink := mem.NewBuffer(0)
	c, err := NewCompressor(sink, format.PointFormat0, 2, 0, WithChunkSize(5))
	require.NoError(t, err)
	for _, p := range initial {
		require.NoError(t, c.CompressOne(p))
	}
	require.NoError(t, c.Close())

	source := c.Into()
	source.Seek(0)

	a, err := NewAppender(source, c.VLR, uint64(len(initial)), 0)
	require.NoError(t, err)
	for _, p := range appended {
		require.NoError(t, a.CompressOne(p))
	}
	require.NoError(t, a.Close())

	final := a.Into()
	final.Seek(0)

	all := append(append([][]byte{}, initial...), appended...)
	d, err := NewDecompressor(final, a.VLR, uint64(len(all)), 0)
	require.NoError(t, err)
	for i, want := range all {
		got, err := d.DecompressOne()
		require.NoError(t, err, "point %d", i)
		require.Equal(t, want, got)
	}
}

func TestAppenderOnEmptySourceActsAsFreshWriter(t *testing.T) {
	sink := mem.NewBuffer(0)
	layout, err := format.StandardLayout(format.PointFormat0, 2, 0)
	require.NoError(t, err)
	vlr := format.NewVLR(format.CompressorPointwiseChunked, DefaultChunkSize, layout)

	a, err := NewAppender(sink, vlr, 0, 0)
	require.NoError(t, err)

	points := buildPoint10Stream(3)
	for _, p := range points {
		require.NoError(t, a.CompressOne(p))
	}
	require.NoError(t, a.Close())

	source := a.Into()
	source.Seek(0)
	d, err := NewDecompressor(source, a.VLR, uint64(len(points)), 0)
	require.NoError(t, err)
	for _, want := range points {
		got, err := d.DecompressOne()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}
