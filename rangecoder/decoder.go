package rangecoder

import (
	"io"
	"math"

	"github.com/laz-rs/laz-rs/errs"
	"github.com/laz-rs/laz-rs/mem"
)

// Decoder is the symmetric counterpart to Encoder, reading a range-coded
// stream back out of an owned mem.Buffer source.
type Decoder struct {
	rng     uint32
	code    uint32
	r       uint32 // cached range/totFreq from the last DecodeCulFreq, consumed by Update
	buf     *mem.Buffer
	eof     bool
	pastEOF bool
}

// NewDecoder creates a Decoder reading from source and primes the code
// register with the stream's first four bytes, mirroring the four trailing
// bytes Encoder.Done flushes on the encode side.
func NewDecoder(source *mem.Buffer) (*Decoder, error) {
	d := &Decoder{buf: source}
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// Init re-initializes the decoder at the start of a chunk, reading the four
// priming bytes from the current position of its source buffer.
func (d *Decoder) Init() error {
	d.rng = 0xFFFFFFFF
	d.code = 0
	d.eof = false
	d.pastEOF = false
	for i := 0; i < 4; i++ {
		b, err := d.buf.ReadByte()
		if err != nil {
			d.eof = true
			b = 0
		}
		d.code = d.code<<8 | uint32(b)
	}
	if d.eof {
		return errs.ErrUnexpectedEOF
	}
	return nil
}

// SetSource rebinds the decoder to a new input buffer; callers must also
// call Init to re-prime the code register.
func (d *Decoder) SetSource(source *mem.Buffer) { d.buf = source }

// DecodeCulFreq returns the scaled cumulative-frequency position of the
// coder's current state within [0, totFreq), for the model layer to map to
// a symbol via its CDF table. The caller must follow up with Update.
func (d *Decoder) DecodeCulFreq(totFreq uint32) (uint32, error) {
	if totFreq == 0 {
		return 0, errs.ErrCorruptedStream
	}
	d.r = d.rng / totFreq
	if d.r == 0 {
		return 0, errs.ErrCorruptedStream
	}
	val := d.code / d.r
	if val >= totFreq {
		val = totFreq - 1
	}
	return val, nil
}

// Update consumes the symbol occupying [cumFreq, cumFreq+freq) out of the
// totFreq passed to the preceding DecodeCulFreq call.
func (d *Decoder) Update(cumFreq, freq, totFreq uint32) error {
	if cumFreq+freq > totFreq {
		return errs.ErrCorruptedStream
	}

	d.code -= cumFreq * d.r
	if cumFreq+freq < totFreq {
		d.rng = freq * d.r
	} else {
		d.rng -= cumFreq * d.r
	}

	return d.renormalize()
}

// DecodeBit decodes a single binary decision given the probability (scaled
// to BottomValue) that bit == 0.
func (d *Decoder) DecodeBit(prob0 uint32) (uint32, error) {
	val, err := d.DecodeCulFreq(BottomValue)
	if err != nil {
		return 0, err
	}

	if val < prob0 {
		if err := d.Update(0, prob0, BottomValue); err != nil {
			return 0, err
		}
		return 0, nil
	}

	if err := d.Update(prob0, BottomValue-prob0, BottomValue); err != nil {
		return 0, err
	}
	return 1, nil
}

// DecodeBits reads back an n-bit uniform literal written by EncodeBits.
func (d *Decoder) DecodeBits(n uint) (uint32, error) {
	if n == 0 {
		return 0, nil
	}
	if n > directBitsSplit {
		hiBits := n - directBitsLow
		hi, err := d.decodeDirect(hiBits)
		if err != nil {
			return 0, err
		}
		lo, err := d.decodeDirect(directBitsLow)
		if err != nil {
			return 0, err
		}
		return (hi << directBitsLow) | lo, nil
	}
	return d.decodeDirect(n)
}

func (d *Decoder) decodeDirect(n uint) (uint32, error) {
	totFreq := uint32(1) << n
	val, err := d.DecodeCulFreq(totFreq)
	if err != nil {
		return 0, err
	}
	if err := d.Update(val, 1, totFreq); err != nil {
		return 0, err
	}
	return val, nil
}

// ReadFloat reads back a float32 written by Encoder.WriteFloat.
func (d *Decoder) ReadFloat() (float32, error) {
	bits, err := d.DecodeBits(32)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadDouble reads back a float64 written by Encoder.WriteDouble.
func (d *Decoder) ReadDouble() (float64, error) {
	hi, err := d.DecodeBits(32)
	if err != nil {
		return 0, err
	}
	lo, err := d.DecodeBits(32)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(hi)<<32 | uint64(lo)), nil
}

// renormalize shifts in new bytes from the source while range has fallen
// below TopValue. Reading past the end of the source pads with zero bytes
// and marks the decoder as having run past EOF, which Done reports. The
// chunk readers in this module neither call Done nor compare bytes
// consumed against the chunk table's recorded byte counts.
func (d *Decoder) renormalize() error {
	for d.rng < TopValue {
		b, err := d.buf.ReadByte()
		if err != nil {
			if err == io.EOF {
				d.pastEOF = true
				b = 0
			} else {
				return err
			}
		}
		d.code = d.code<<8 | uint32(b)
		d.rng <<= 8
	}
	return nil
}

// Done reports whether the decoder ever had to pad past the end of its
// source while renormalizing, a signal of a truncated stream.
func (d *Decoder) Done() error {
	if d.pastEOF {
		return errs.ErrUnexpectedEOF
	}
	return nil
}
