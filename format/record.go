package format

import "fmt"

// ItemDescriptor is one entry of a LAZ VLR's item list: a field's wire type,
// its fixed byte size, and the compressor version that field uses. The sum
// of every item's Size in a record must equal the record's declared point
// size.
type ItemDescriptor struct {
	Type    ItemType
	Size    uint16
	Version uint16
}

// RecordLayout is the ordered field list for one point format, matching the
// LAZ VLR's "num_items x {type, size, version}" body.
type RecordLayout struct {
	Format     PointFormat
	Version    int // compressor version: 1, 2, or 3
	Items      []ItemDescriptor
	ExtraBytes int // declared size of the trailing Byte/Byte14 item, 0 if absent
}

// PointSize returns the sum of every item's declared size, the size of one
// raw point record this layout describes.
func (l RecordLayout) PointSize() int {
	total := 0
	for _, it := range l.Items {
		total += int(it.Size)
	}
	return total
}

// StandardLayout builds the canonical item list LASzip uses for a given
// point format, compressor version, and extra-byte count. version must be 1
// or 2 for formats 0-5 (point-wise) and 3 for formats 6-10 (layered).
func StandardLayout(pf PointFormat, version int, extraBytes int) (RecordLayout, error) {
	if extraBytes < 0 {
		return RecordLayout{}, fmt.Errorf("format: negative extra byte count %d", extraBytes)
	}

	if pf.IsLayered() {
		if version != 3 {
			return RecordLayout{}, fmt.Errorf("format: point format %d requires compressor version 3, got %d", pf, version)
		}
		return layeredLayout(pf, extraBytes)
	}

	if version != 1 && version != 2 {
		return RecordLayout{}, fmt.Errorf("format: point format %d requires compressor version 1 or 2, got %d", pf, version)
	}
	return pointwiseLayout(pf, version, extraBytes)
}

func pointwiseLayout(pf PointFormat, version int, extraBytes int) (RecordLayout, error) {
	items := []ItemDescriptor{{Type: ItemPoint10, Size: 20, Version: uint16(version)}} //nolint:gosec

	switch pf {
	case PointFormat0:
	case PointFormat1:
		items = append(items, ItemDescriptor{Type: ItemGpsTime11, Size: 8, Version: uint16(version)}) //nolint:gosec
	case PointFormat2:
		items = append(items, ItemDescriptor{Type: ItemRgb12, Size: 6, Version: uint16(version)}) //nolint:gosec
	case PointFormat3:
		items = append(items,
			ItemDescriptor{Type: ItemGpsTime11, Size: 8, Version: uint16(version)}, //nolint:gosec
			ItemDescriptor{Type: ItemRgb12, Size: 6, Version: uint16(version)},     //nolint:gosec
		)
	case PointFormat4:
		items = append(items,
			ItemDescriptor{Type: ItemGpsTime11, Size: 8, Version: uint16(version)},      //nolint:gosec
			ItemDescriptor{Type: ItemWavepacket13, Size: 29, Version: uint16(version)}, //nolint:gosec
		)
	case PointFormat5:
		items = append(items,
			ItemDescriptor{Type: ItemGpsTime11, Size: 8, Version: uint16(version)},     //nolint:gosec
			ItemDescriptor{Type: ItemRgb12, Size: 6, Version: uint16(version)},         //nolint:gosec
			ItemDescriptor{Type: ItemWavepacket13, Size: 29, Version: uint16(version)}, //nolint:gosec
		)
	default:
		return RecordLayout{}, fmt.Errorf("format: point format %d is not a point-wise (v1/v2) format", pf)
	}

	if extraBytes > 0 {
		items = append(items, ItemDescriptor{Type: ItemByte, Size: uint16(extraBytes), Version: uint16(version)}) //nolint:gosec
	}

	return RecordLayout{Format: pf, Version: version, Items: items, ExtraBytes: extraBytes}, nil
}

func layeredLayout(pf PointFormat, extraBytes int) (RecordLayout, error) {
	items := []ItemDescriptor{{Type: ItemPoint14, Size: 30, Version: 3}}

	switch pf {
	case PointFormat6:
	case PointFormat7:
		items = append(items, ItemDescriptor{Type: ItemRgb12, Size: 6, Version: 3})
	case PointFormat8:
		items = append(items, ItemDescriptor{Type: ItemRgbNir14, Size: 8, Version: 3})
	case PointFormat9:
		items = append(items, ItemDescriptor{Type: ItemWavepacket14, Size: 29, Version: 3})
	case PointFormat10:
		items = append(items,
			ItemDescriptor{Type: ItemRgbNir14, Size: 8, Version: 3},
			ItemDescriptor{Type: ItemWavepacket14, Size: 29, Version: 3},
		)
	default:
		return RecordLayout{}, fmt.Errorf("format: point format %d is not a layered (v3) format", pf)
	}

	if extraBytes > 0 {
		items = append(items, ItemDescriptor{Type: ItemByte14, Size: uint16(extraBytes), Version: 3}) //nolint:gosec
	}

	return RecordLayout{Format: pf, Version: 3, Items: items, ExtraBytes: extraBytes}, nil
}
