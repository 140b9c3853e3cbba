package chunk

import (
	"testing"

	"github.com/laz-rs/laz-rs/format"
	"github.com/laz-rs/laz-rs/items"
	"github.com/laz-rs/laz-rs/mem"
	"github.com/stretchr/testify/require"
)

func samplePoint10Bytes(i int32) []byte {
	p := items.Point10{X: i * 10, Y: i * 20, Z: i * 5, Intensity: uint16(i), ReturnByte: 0x11, Classification: 2, UserData: 1, PointSourceID: 7} //nolint:gosec
	return p.Bytes()
}

func TestPointwiseWriterReaderRoundTrip(t *testing.T) {
	layout, err := format.StandardLayout(format.PointFormat0, 2, 0)
	require.NoError(t, err)

	sink := mem.NewBuffer(0)
	w, err := NewPointwiseWriter(sink, layout, 4, 0)
	require.NoError(t, err)

	const n = 10
	var want [][]byte
	for i := int32(0); i < n; i++ {
		p := samplePoint10Bytes(i)
		want = append(want, p)
		require.NoError(t, w.CompressOne(p))
	}
	tableOffset, err := w.Close()
	require.NoError(t, err)
	require.Positive(t, tableOffset)

	source := mem.FromBytes(sink.Bytes())
	table, err := DecodeTable(source.Bytes()[tableOffset:], false, 4, n)
	require.NoError(t, err)
	require.Len(t, table.Entries, 3) // 4 + 4 + 2 points

	r, err := NewPointwiseReader(source, layout, table, 4, 0)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		got, err := r.DecompressOne()
		require.NoError(t, err)
		require.Equal(t, want[i], got)
	}
}

func TestPointwiseReaderSeekAtChunkBoundary(t *testing.T) {
	layout, err := format.StandardLayout(format.PointFormat0, 2, 0)
	require.NoError(t, err)

	sink := mem.NewBuffer(0)
	w, err := NewPointwiseWriter(sink, layout, 5, 0)
	require.NoError(t, err)

	const n = 15
	var want [][]byte
	for i := int32(0); i < n; i++ {
		p := samplePoint10Bytes(i)
		want = append(want, p)
		require.NoError(t, w.CompressOne(p))
	}
	tableOffset, err := w.Close()
	require.NoError(t, err)

	source := mem.FromBytes(sink.Bytes())
	table, err := DecodeTable(source.Bytes()[tableOffset:], false, 5, n)
	require.NoError(t, err)

	r, err := NewPointwiseReader(source, layout, table, 5, 0)
	require.NoError(t, err)

	// Seeking to a point index that is an exact multiple of chunk_size must
	// land on the first point of the following chunk, not past the end of
	// the one before it.
	require.NoError(t, r.Seek(5))
	got, err := r.DecompressOne()
	require.NoError(t, err)
	require.Equal(t, want[5], got)

	require.NoError(t, r.Seek(10))
	got, err = r.DecompressOne()
	require.NoError(t, err)
	require.Equal(t, want[10], got)

	require.NoError(t, r.Seek(14))
	got, err = r.DecompressOne()
	require.NoError(t, err)
	require.Equal(t, want[14], got)
}
