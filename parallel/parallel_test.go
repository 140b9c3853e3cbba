package parallel

import (
	"testing"

	"github.com/laz-rs/laz-rs/chunk"
	"github.com/laz-rs/laz-rs/format"
	"github.com/laz-rs/laz-rs/items"
	"github.com/laz-rs/laz-rs/laz"
	"github.com/laz-rs/laz-rs/mem"
	"github.com/laz-rs/laz-rs/selective"
	"github.com/stretchr/testify/require"
)

func buildPoint10Buffer(n int) []byte {
	var out []byte
	for i := 0; i < n; i++ {
		p := items.Point10{X: int32(i * 10), Y: int32(i * 5), Z: int32(i), Intensity: uint16(i), ReturnByte: 0x11, Classification: 1, UserData: 2, PointSourceID: 9} //nolint:gosec
		out = append(out, p.Bytes()...)
	}
	return out
}

func buildPoint14Buffer(n int) []byte {
	var out []byte
	for i := 0; i < n; i++ {
		p := items.Point14{X: int32(i * 10), Y: int32(i * 20), Z: int32(i * 5), Intensity: uint16(i), //nolint:gosec
			ReturnInfo: 0x11, Classification: 2, UserData: 1, ScanAngle: int16(i), PointSourceID: 7, //nolint:gosec
			GpsTime: 100.0 + float64(i)*0.01}
		out = append(out, p.Bytes()...)
	}
	return out
}

func TestParCompressorDecompressorMatchesSequential(t *testing.T) {
	points := buildPoint10Buffer(37)

	driver, err := NewDriver(WithNumThreads(4))
	require.NoError(t, err)

	pc, err := NewParCompressor(driver, format.PointFormat0, 2, 0, 10)
	require.NoError(t, err)
	parOut, err := pc.Compress(points)
	require.NoError(t, err)

	parOut.Seek(0)
	pd := NewParDecompressor(driver, pc.VLR(), 0, selective.FullMask())
	parRoundtrip, err := pd.Decompress(parOut, 37)
	require.NoError(t, err)
	require.Equal(t, points, parRoundtrip)
	require.Equal(t, 4, pd.Stats.ChunksProcessed)
	require.Equal(t, 37, pd.Stats.PointsProcessed)

	seqSink := mem.NewBuffer(0)
	sc, err := laz.NewCompressor(seqSink, format.PointFormat0, 2, 0, laz.WithChunkSize(10))
	require.NoError(t, err)
	require.NoError(t, sc.CompressBuffer(points))
	require.NoError(t, sc.Close())

	seqSource := sc.Into()
	seqSource.Seek(0)
	sd, err := laz.NewDecompressor(seqSource, sc.VLR, 37, 0)
	require.NoError(t, err)
	seqRoundtrip, err := sd.DecompressBuffer(37)
	require.NoError(t, err)

	require.Equal(t, seqRoundtrip, parRoundtrip)
}

func TestParCompressorDecompressorLayeredFormat(t *testing.T) {
	points := buildPoint14Buffer(25)

	driver, err := NewDriver()
	require.NoError(t, err)

	pc, err := NewParCompressor(driver, format.PointFormat6, 3, 0, 7)
	require.NoError(t, err)
	parOut, err := pc.Compress(points)
	require.NoError(t, err)

	parOut.Seek(0)
	pd := NewParDecompressor(driver, pc.VLR(), 0, selective.FullMask())
	got, err := pd.Decompress(parOut, 25)
	require.NoError(t, err)
	require.Equal(t, points, got)
}

func TestParCompressorRejectsInvalidChunkSize(t *testing.T) {
	driver, err := NewDriver()
	require.NoError(t, err)

	_, err = NewParCompressor(driver, format.PointFormat0, 2, 0, 0)
	require.Error(t, err)

	_, err = NewParCompressor(driver, format.PointFormat0, 2, 0, chunk.VariableChunkSize)
	require.Error(t, err)
}

func TestWithNumThreadsRejectsNonPositive(t *testing.T) {
	_, err := NewDriver(WithNumThreads(0))
	require.Error(t, err)

	_, err = NewDriver(WithNumThreads(-1))
	require.Error(t, err)
}
