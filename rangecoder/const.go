// Package rangecoder implements a binary arithmetic coder: the single
// entropy-coding primitive beneath every per-field compressor and the
// chunk table. Its constants and carry-propagation behavior must match the
// reference LASzip coder byte-for-byte; callers never see raw bits, only
// the symbol/bit/literal operations below.
package rangecoder

// Fixed constants mirrored from the reference implementation. These are
// never configurable: a different TopValue changes the
// byte-alignment of every uniform literal in the stream.
const (
	// CodeBits is the width of the low/range registers.
	CodeBits = 32

	// TopValue is the renormalization threshold: whenever range drops below
	// this, one byte of precision has been exhausted and must be shifted
	// out.
	TopValue = uint32(1) << 24

	// BottomValue bounds the total frequency of any adaptive model's
	// cumulative distribution, keeping cumFreq*r and freq*r within 32 bits
	// for every totFreq the model layer can produce.
	BottomValue = uint32(1) << 16

	// OutputBufferSize records the reference coder's output buffer size.
	// No code in this module reads it: a coder's sink grows through
	// mem.Buffer.Grow, whose step mem.DefaultSize has the same value.
	// (A prior LASzip revision used
	// 1024 here and silently corrupted user_data in point formats >= 6;
	// 4096 is the value that must be used.)
	OutputBufferSize = 4096

	// directBitsSplit is the literal width above which EncodeBits/DecodeBits
	// must split the value into a high remainder and a 16-bit low half,
	// keeping every single totFreq used internally at or below 1<<19 so that
	// cumFreq*r cannot overflow 32 bits even when range is near its maximum.
	directBitsSplit = 19
	directBitsLow   = 16
)
