// Package selective defines the bitmask a v3 (layered) decompressor uses to
// skip decoding fields it doesn't need, since each non-core field already
// lives in its own length-prefixed substream within a chunk.
package selective

// Field identifies one field of a v3 record for selective decompression.
// chunk.LayeredReader skips the substreams gated by FieldRgb, FieldNir,
// FieldWavepacket and FieldExtraBytes. FieldClassification through
// FieldGpsTime are coded inside the Point14 core stream, which is always
// decoded, so masking them off has no effect.
type Field uint32

const (
	FieldClassification Field = 1 << iota
	FieldFlags
	FieldIntensity
	FieldScanAngle
	FieldUserData
	FieldPointSourceID
	FieldGpsTime
	FieldRgb
	FieldNir
	FieldWavepacket
	FieldExtraBytes
)

// All enables every field; the zero value of Mask also means "every field",
// so a caller who never sets a mask gets full decompression by default.
const All Field = FieldClassification | FieldFlags | FieldIntensity | FieldScanAngle |
	FieldUserData | FieldPointSourceID | FieldGpsTime | FieldRgb | FieldNir |
	FieldWavepacket | FieldExtraBytes

// Mask enumerates which v3 fields a decompressor should decode. It is
// honored only for point formats >= 6; point-wise (v1/v2) formats always
// decode every field.
type Mask struct {
	enabled Field
}

// NewMask builds a Mask enabling exactly the given fields. An empty set of
// fields yields the zero Mask, which decodes every field. The Point14 core
// item (X/Y/Z and friends) is decoded under every mask.
func NewMask(fields ...Field) Mask {
	var m Mask
	for _, f := range fields {
		m.enabled |= f
	}
	return m
}

// FullMask returns a Mask with every field enabled.
func FullMask() Mask { return Mask{enabled: All} }

// Enabled reports whether f should be decoded.
func (m Mask) Enabled(f Field) bool {
	if m.enabled == 0 {
		return true
	}
	return m.enabled&f != 0
}

// With returns a copy of m with f additionally enabled.
func (m Mask) With(f Field) Mask {
	m.enabled |= f
	return m
}

// Without returns a copy of m with f disabled. Because the zero Mask means
// "everything enabled", disabling any field from a zero Mask first expands
// it to All so the subtraction has an effect.
func (m Mask) Without(f Field) Mask {
	if m.enabled == 0 {
		m.enabled = All
	}
	m.enabled &^= f
	return m
}
