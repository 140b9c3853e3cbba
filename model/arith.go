package model

import "github.com/laz-rs/laz-rs/rangecoder"

// arithMaxTotalFreq bounds an ArithModel's cumulative total, staying well
// under rangecoder.BottomValue so cumFreq*r/freq*r never overflows even for
// the largest symbol count a field compressor uses. 1<<15 matches the
// rescale threshold reference LASzip tunes its own tabulated-distribution
// models to.
const arithMaxTotalFreq = 1 << 15

// arithLinearScanLimit is the symbol count at or below which findSymbol uses
// a linear scan of the tabulated cumulative distribution. Above it,
// findSymbol binary-searches the same table instead.
const arithLinearScanLimit = 16

// ArithModel is an adaptive m-ary symbol model with a tabulated cumulative
// distribution, used for classification, return bytes, wavepacket index,
// and other small-alphabet fields.
type ArithModel struct {
	symbols      int
	freq         []uint32
	cum          []uint32 // cum[i] = sum(freq[0:i]); len = symbols+1
	total        uint32
	updatePeriod uint32
	untilUpdate  uint32
}

// NewArithModel creates an ArithModel over the given symbol count.
func NewArithModel(symbols int) *ArithModel {
	period := (symbols + 6) >> 1
	if period < 2 {
		period = 2
	}

	m := &ArithModel{
		symbols:      symbols,
		freq:         make([]uint32, symbols),
		cum:          make([]uint32, symbols+1),
		updatePeriod: uint32(period), //nolint:gosec
	}
	m.Reset()

	return m
}

// Reset restores the model to a uniform initial distribution, as required
// at every chunk boundary.
func (m *ArithModel) Reset() {
	for i := range m.freq {
		m.freq[i] = 1
	}
	m.rebuild()
	m.untilUpdate = m.updatePeriod
}

func (m *ArithModel) rebuild() {
	var total uint32
	for i, f := range m.freq {
		m.cum[i] = total
		total += f
	}
	m.cum[m.symbols] = total
	m.total = total
}

// Encode writes symbol through enc, then updates this model's statistics.
func (m *ArithModel) Encode(enc *rangecoder.Encoder, symbol int) {
	enc.EncodeSymbol(m.cum[symbol], m.cum[symbol+1]-m.cum[symbol], m.total)
	m.update(symbol)
}

// Decode reads the symbol at the decoder's current position, consumes it,
// and updates this model's statistics to match Encode.
func (m *ArithModel) Decode(dec *rangecoder.Decoder) (int, error) {
	val, err := dec.DecodeCulFreq(m.total)
	if err != nil {
		return 0, err
	}

	symbol := m.findSymbol(val)

	if err := dec.Update(m.cum[symbol], m.cum[symbol+1]-m.cum[symbol], m.total); err != nil {
		return 0, err
	}
	m.update(symbol)

	return symbol, nil
}

// findSymbol maps a cumulative-frequency position to its owning symbol.
func (m *ArithModel) findSymbol(val uint32) int {
	if m.symbols <= arithLinearScanLimit {
		for s := m.symbols - 1; s >= 0; s-- {
			if val >= m.cum[s] {
				return s
			}
		}
		return 0
	}

	lo, hi := 0, m.symbols
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if m.cum[mid] <= val {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

func (m *ArithModel) update(symbol int) {
	m.freq[symbol] += 32

	m.untilUpdate--
	if m.untilUpdate == 0 || m.total+32 > arithMaxTotalFreq {
		m.rebuild()
		if m.total > arithMaxTotalFreq {
			m.rescale()
		}
		m.untilUpdate = m.updatePeriod
	}
}

func (m *ArithModel) rescale() {
	for i := range m.freq {
		m.freq[i] = (m.freq[i] + 1) >> 1
	}
	m.rebuild()
}
