package chunk

import (
	"fmt"

	"github.com/laz-rs/laz-rs/errs"
	"github.com/laz-rs/laz-rs/format"
	"github.com/laz-rs/laz-rs/items"
	"github.com/laz-rs/laz-rs/rangecoder"
	"github.com/laz-rs/laz-rs/selective"
)

// layeredFieldCodec is the v3 counterpart of fieldCodec: each one owns its
// own range coder over its own private substream for the whole chunk,
// rather than sharing one coder with every other field in declared order.
// The core Point14 item is handled separately by layeredCore, since it is
// the one item every other v3 field's context depends on.
type layeredFieldCodec struct {
	mask       selective.Field
	offset     int
	size       int
	compress   func(enc *rangecoder.Encoder, ctx int, raw []byte) error
	decompress func(dec *rangecoder.Decoder, ctx int, raw []byte) error
	reset      func()
}

// layeredCore wraps the Point14 compressor, which every v3 chunk carries
// unconditionally and which supplies the context index every other v3
// field is coded against.
type layeredCore struct {
	offset, size int
	c            *items.Point14Compressor
}

func (l layeredCore) compress(enc *rangecoder.Encoder, raw []byte) int {
	p, _ := items.ParsePoint14(raw[l.offset : l.offset+l.size])
	l.c.Compress(enc, p)
	return items.Point14Context(p)
}

func (l layeredCore) decompress(dec *rangecoder.Decoder, raw []byte) (int, error) {
	p, err := l.c.Decompress(dec)
	if err != nil {
		return 0, err
	}
	copy(raw[l.offset:l.offset+l.size], p.Bytes())
	return items.Point14Context(p), nil
}

// buildLayeredFields constructs the per-field codecs for every v3 item in
// layout other than Point14 itself, which the caller drives separately via
// layeredCore since it alone determines every other field's context.
func buildLayeredFields(layout format.RecordLayout, extraBytes int) (core layeredCore, fields []layeredFieldCodec, err error) {
	offset := 0

	for _, it := range layout.Items {
		size := int(it.Size)
		if size == 0 {
			size = extraBytes
		}
		off := offset
		offset += size

		switch it.Type {
		case format.ItemPoint14:
			core = layeredCore{offset: off, size: size, c: items.NewPoint14Compressor()}

		case format.ItemRgb12:
			c := items.NewRgbLayeredCompressor()
			fields = append(fields, layeredFieldCodec{
				mask: selective.FieldRgb,
				offset: off, size: size,
				compress: func(enc *rangecoder.Encoder, ctx int, raw []byte) error {
					p, _ := items.ParseRgb(raw[off : off+size])
					c.Compress(enc, ctx, p)
					return nil
				},
				decompress: func(dec *rangecoder.Decoder, ctx int, raw []byte) error {
					p, err := c.Decompress(dec, ctx)
					if err != nil {
						return err
					}
					copy(raw[off:off+size], p.Bytes())
					return nil
				},
				reset: c.Reset,
			})

		case format.ItemRgbNir14:
			c := items.NewRgbNir14Compressor()
			fields = append(fields, layeredFieldCodec{
				mask: selective.FieldRgb | selective.FieldNir,
				offset: off, size: size,
				compress: func(enc *rangecoder.Encoder, ctx int, raw []byte) error {
					p, _ := items.ParseRgbNir14(raw[off : off+size])
					c.Compress(enc, ctx, p)
					return nil
				},
				decompress: func(dec *rangecoder.Decoder, ctx int, raw []byte) error {
					p, err := c.Decompress(dec, ctx)
					if err != nil {
						return err
					}
					copy(raw[off:off+size], p.Bytes())
					return nil
				},
				reset: c.Reset,
			})

		case format.ItemWavepacket14:
			c := items.NewWavepacket14Compressor()
			fields = append(fields, layeredFieldCodec{
				mask: selective.FieldWavepacket,
				offset: off, size: size,
				compress: func(enc *rangecoder.Encoder, ctx int, raw []byte) error {
					p, _ := items.ParseWavepacket14(raw[off : off+size])
					c.Compress(enc, ctx, p)
					return nil
				},
				decompress: func(dec *rangecoder.Decoder, ctx int, raw []byte) error {
					p, err := c.Decompress(dec, ctx)
					if err != nil {
						return err
					}
					copy(raw[off:off+size], p.Bytes())
					return nil
				},
				reset: c.Reset,
			})

		case format.ItemByte14:
			c := items.NewByteLayeredCompressor(size)
			fields = append(fields, layeredFieldCodec{
				mask: selective.FieldExtraBytes,
				offset: off, size: size,
				compress: func(enc *rangecoder.Encoder, ctx int, raw []byte) error {
					return c.Compress(enc, ctx, raw[off:off+size])
				},
				decompress: func(dec *rangecoder.Decoder, ctx int, raw []byte) error {
					out, err := c.Decompress(dec, ctx)
					if err != nil {
						return err
					}
					copy(raw[off:off+size], out)
					return nil
				},
				reset: c.Reset,
			})

		default:
			return layeredCore{}, nil, fmt.Errorf("%w: item type %s has no layered compressor", errs.ErrUnknownItemType, it.Type)
		}
	}

	if core.c == nil {
		return layeredCore{}, nil, fmt.Errorf("%w: layered record layout has no Point14 item", errs.ErrInconsistentItemSizes)
	}
	return core, fields, nil
}
