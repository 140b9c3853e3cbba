package chunk

import (
	"fmt"

	"github.com/laz-rs/laz-rs/errs"
	"github.com/laz-rs/laz-rs/format"
	"github.com/laz-rs/laz-rs/items"
	"github.com/laz-rs/laz-rs/rangecoder"
)

// fieldCodec binds one record item to its byte range within a raw point
// record and the per-field compressor that (de)serializes that range.
type fieldCodec struct {
	offset, size int
	compress     func(enc *rangecoder.Encoder, raw []byte) error
	decompress   func(dec *rangecoder.Decoder, raw []byte) error
	reset        func()
}

// buildPointwiseFields constructs one fieldCodec per item in layout, for
// the v1/v2 (point-wise) compressor family.
func buildPointwiseFields(layout format.RecordLayout, extraBytes int) ([]fieldCodec, error) {
	offset := 0
	var fields []fieldCodec

	for _, it := range layout.Items {
		size := int(it.Size)
		if size == 0 {
			size = extraBytes
		}
		off := offset
		offset += size

		switch it.Type {
		case format.ItemPoint10:
			c := items.NewPoint10Compressor()
			fields = append(fields, fieldCodec{
				offset: off, size: size,
				compress: func(enc *rangecoder.Encoder, raw []byte) error {
					p, _ := items.ParsePoint10(raw[off : off+size])
					c.Compress(enc, p)
					return nil
				},
				decompress: func(dec *rangecoder.Decoder, raw []byte) error {
					p, err := c.Decompress(dec)
					if err != nil {
						return err
					}
					copy(raw[off:off+size], p.Bytes())
					return nil
				},
				reset: c.Reset,
			})
		case format.ItemGpsTime11:
			c := items.NewGpsTime11Compressor(int(it.Version))
			fields = append(fields, fieldCodec{
				offset: off, size: size,
				compress: func(enc *rangecoder.Encoder, raw []byte) error {
					v, _ := items.ParseGpsTime(raw[off : off+size])
					c.Compress(enc, v)
					return nil
				},
				decompress: func(dec *rangecoder.Decoder, raw []byte) error {
					v, err := c.Decompress(dec)
					if err != nil {
						return err
					}
					copy(raw[off:off+size], items.GpsTimeBytes(v))
					return nil
				},
				reset: c.Reset,
			})
		case format.ItemRgb12:
			c := items.NewRgb12Compressor()
			fields = append(fields, fieldCodec{
				offset: off, size: size,
				compress: func(enc *rangecoder.Encoder, raw []byte) error {
					p, _ := items.ParseRgb(raw[off : off+size])
					c.Compress(enc, p)
					return nil
				},
				decompress: func(dec *rangecoder.Decoder, raw []byte) error {
					p, err := c.Decompress(dec)
					if err != nil {
						return err
					}
					copy(raw[off:off+size], p.Bytes())
					return nil
				},
				reset: c.Reset,
			})
		case format.ItemWavepacket13:
			c := items.NewWavepacket13Compressor()
			fields = append(fields, fieldCodec{
				offset: off, size: size,
				compress: func(enc *rangecoder.Encoder, raw []byte) error {
					p, _ := items.ParseWavepacket13(raw[off : off+size])
					c.Compress(enc, p)
					return nil
				},
				decompress: func(dec *rangecoder.Decoder, raw []byte) error {
					p, err := c.Decompress(dec)
					if err != nil {
						return err
					}
					copy(raw[off:off+size], p.Bytes())
					return nil
				},
				reset: c.Reset,
			})
		case format.ItemByte:
			c := items.NewByteCompressor(size)
			fields = append(fields, fieldCodec{
				offset: off, size: size,
				compress: func(enc *rangecoder.Encoder, raw []byte) error {
					return c.Compress(enc, raw[off:off+size])
				},
				decompress: func(dec *rangecoder.Decoder, raw []byte) error {
					out, err := c.Decompress(dec)
					if err != nil {
						return err
					}
					copy(raw[off:off+size], out)
					return nil
				},
				reset: c.Reset,
			})
		default:
			return nil, fmt.Errorf("%w: item type %s has no point-wise compressor", errs.ErrUnknownItemType, it.Type)
		}
	}

	return fields, nil
}
