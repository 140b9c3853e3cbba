package chunk

import (
	"testing"

	"github.com/laz-rs/laz-rs/format"
	"github.com/laz-rs/laz-rs/items"
	"github.com/laz-rs/laz-rs/mem"
	"github.com/laz-rs/laz-rs/selective"
	"github.com/stretchr/testify/require"
)

func samplePoint14(i int32) items.Point14 {
	return items.Point14{
		X: i * 10, Y: i * 20, Z: i * 5, Intensity: uint16(i), //nolint:gosec
		ReturnInfo: 0x11, Flags: 0x00, Classification: 2, UserData: 1,
		ScanAngle: int16(i), PointSourceID: 7, GpsTime: 100.0 + float64(i)*0.01, //nolint:gosec
	}
}

func sampleRgbNir14(i int32) items.RgbNir14 {
	return items.RgbNir14{R: uint16(i), G: uint16(i * 2), B: uint16(i * 3), Nir: uint16(i * 4)} //nolint:gosec
}

func TestLayeredWriterReaderRoundTrip(t *testing.T) {
	layout, err := format.StandardLayout(format.PointFormat8, 3, 0)
	require.NoError(t, err)

	sink := mem.NewBuffer(0)
	w, err := NewLayeredWriter(sink, layout, 4, 0)
	require.NoError(t, err)

	const n = 10
	var want [][]byte
	for i := int32(0); i < n; i++ {
		p := samplePoint14(i)
		rn := sampleRgbNir14(i)
		raw := append(append([]byte{}, p.Bytes()...), rn.Bytes()...)
		want = append(want, raw)
		require.NoError(t, w.CompressOne(raw))
	}
	tableOffset, err := w.Close()
	require.NoError(t, err)

	source := mem.FromBytes(sink.Bytes())
	table, err := DecodeTable(source.Bytes()[tableOffset:], false, 4, n)
	require.NoError(t, err)

	r, err := NewLayeredReader(source, layout, table, selective.FullMask(), 0)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		got, err := r.DecompressOne()
		require.NoError(t, err)
		require.Equal(t, want[i], got)
	}
}

func TestLayeredReaderSelectiveMaskSkipsField(t *testing.T) {
	layout, err := format.StandardLayout(format.PointFormat8, 3, 0)
	require.NoError(t, err)

	sink := mem.NewBuffer(0)
	w, err := NewLayeredWriter(sink, layout, 100, 0)
	require.NoError(t, err)

	const n = 5
	for i := int32(0); i < n; i++ {
		p := samplePoint14(i)
		rn := sampleRgbNir14(i)
		raw := append(append([]byte{}, p.Bytes()...), rn.Bytes()...)
		require.NoError(t, w.CompressOne(raw))
	}
	tableOffset, err := w.Close()
	require.NoError(t, err)

	source := mem.FromBytes(sink.Bytes())
	table, err := DecodeTable(source.Bytes()[tableOffset:], false, 100, n)
	require.NoError(t, err)

	mask := selective.NewMask(selective.FieldClassification, selective.FieldIntensity)
	r, err := NewLayeredReader(source, layout, table, mask, 0)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		got, err := r.DecompressOne()
		require.NoError(t, err)
		gotP, err := items.ParsePoint14(got[:items.Point14Size])
		require.NoError(t, err)
		require.Equal(t, samplePoint14(int32(i)), gotP) //nolint:gosec

		gotRn, err := items.ParseRgbNir14(got[items.Point14Size:])
		require.NoError(t, err)
		require.Equal(t, items.RgbNir14{}, gotRn) // rgb/nir never decoded, left zero
	}
}

func TestLayeredReaderSeekAtChunkBoundary(t *testing.T) {
	layout, err := format.StandardLayout(format.PointFormat6, 3, 0)
	require.NoError(t, err)

	sink := mem.NewBuffer(0)
	w, err := NewLayeredWriter(sink, layout, 3, 0)
	require.NoError(t, err)

	const n = 9
	var want [][]byte
	for i := int32(0); i < n; i++ {
		p := samplePoint14(i)
		want = append(want, p.Bytes())
		require.NoError(t, w.CompressOne(p.Bytes()))
	}
	tableOffset, err := w.Close()
	require.NoError(t, err)

	source := mem.FromBytes(sink.Bytes())
	table, err := DecodeTable(source.Bytes()[tableOffset:], false, 3, n)
	require.NoError(t, err)

	r, err := NewLayeredReader(source, layout, table, selective.FullMask(), 0)
	require.NoError(t, err)

	require.NoError(t, r.Seek(3))
	got, err := r.DecompressOne()
	require.NoError(t, err)
	require.Equal(t, want[3], got)

	require.NoError(t, r.Seek(6))
	got, err = r.DecompressOne()
	require.NoError(t, err)
	require.Equal(t, want[6], got)
}
