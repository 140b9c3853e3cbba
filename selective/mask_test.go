package selective

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZeroMaskEnablesEverything(t *testing.T) {
	var m Mask
	require.True(t, m.Enabled(FieldRgb))
	require.True(t, m.Enabled(FieldGpsTime))
	require.True(t, m.Enabled(FieldWavepacket))
}

func TestFullMaskEnablesEverything(t *testing.T) {
	m := FullMask()
	require.True(t, m.Enabled(FieldRgb))
	require.True(t, m.Enabled(FieldExtraBytes))
}

func TestNewMaskEnablesOnlyGivenFields(t *testing.T) {
	m := NewMask(FieldClassification, FieldIntensity)
	require.True(t, m.Enabled(FieldClassification))
	require.True(t, m.Enabled(FieldIntensity))
	require.False(t, m.Enabled(FieldRgb))
	require.False(t, m.Enabled(FieldNir))
}

func TestWithAddsField(t *testing.T) {
	m := NewMask(FieldClassification).With(FieldRgb)
	require.True(t, m.Enabled(FieldClassification))
	require.True(t, m.Enabled(FieldRgb))
	require.False(t, m.Enabled(FieldNir))
}

func TestWithoutOnZeroMaskExpandsToAllFirst(t *testing.T) {
	var m Mask
	m = m.Without(FieldRgb)

	require.False(t, m.Enabled(FieldRgb))
	require.True(t, m.Enabled(FieldNir))
	require.True(t, m.Enabled(FieldGpsTime))
}

func TestWithoutOnNonZeroMask(t *testing.T) {
	m := NewMask(FieldRgb, FieldNir).Without(FieldNir)
	require.True(t, m.Enabled(FieldRgb))
	require.False(t, m.Enabled(FieldNir))
}
