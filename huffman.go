package tamp

// huffCode is one entry of the fixed pattern-length Huffman alphabet
// (Table A): a length index (match_size - min_pattern_size) coded in
// nbits bits with the given MSB-first code value. Every code begins with
// a 0 bit, which is how a decoder distinguishes a pattern token from a
// literal token (which begins with 1) after peeking a single bit.
//
// Grounded on the bit-by-bit prefix decode idiom used by the huff0
// fixed-table decoder referenced during the survey; doboz itself has no
// Huffman coding (its match codes are fixed-width byte-aligned fields),
// so this table and its decode loop are new, built directly from the
// wire format table rather than adapted from the teacher.
type huffCode struct {
	idx   int
	nbits uint
	code  uint32
}

// patternCodes is indexed by length index (0..13).
var patternCodes = [14]huffCode{
	{0, 2, 0b00},
	{1, 3, 0b011},
	{2, 5, 0b01000},
	{3, 5, 0b01011},
	{4, 6, 0b010100},
	{5, 7, 0b0100100},
	{6, 7, 0b0100110},
	{7, 7, 0b0101011},
	{8, 8, 0b01001011},
	{9, 8, 0b01010100},
	{10, 9, 0b010010100},
	{11, 9, 0b010010101},
	{12, 9, 0b010101010},
	{13, 7, 0b0100111},
}

// flushCode and flushBits are the 9-bit, byte-unaligned FLUSH marker: the
// literal flag bit (1) followed by a payload pattern that is reserved and
// never produced by a real literal_bits=8 byte value's own encoding path
// at stream-flush boundaries (see Compressor.Flush and Decompressor's
// dispatch loop).
const (
	flushCode uint32 = 0b101010110
	flushBits uint   = 9
)

// decodePatternLengthIndex reads a prefix-free Table A code bit by bit,
// given that the leading 0 bit (the pattern/literal discriminator) has
// already been consumed by the caller, and matches the remaining bits
// against each code's tail. It returns the matched length index, or
// ErrOutOfBounds if the full 9-bit code is consumed without a match. The
// table is prefix-free but leaves one 9-bit sequence (010101011)
// unassigned; the compressor never emits it, so only a corrupted stream
// reaches that error.
func decodePatternLengthIndex(r *BitReader) (int, error) {
	var prefix uint32 // the already-consumed leading 0 bit
	for plen := uint(2); plen <= 9; plen++ {
		bit, err := r.Read(1)
		if err != nil {
			return 0, err
		}
		prefix = (prefix << 1) | bit
		for _, c := range patternCodes {
			if c.nbits == plen && c.code == prefix {
				return c.idx, nil
			}
		}
	}
	return 0, ErrOutOfBounds
}
