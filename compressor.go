package tamp

// Compressor consumes caller bytes through a small staging lookahead,
// searches the shared window for the best back-reference, and emits a
// self-describing bit-packed token stream (§4.4).
//
// Grounded structurally on doboz's Compressor (compressor.go): a
// staging/lookahead area feeding a best-match selection step, with a
// dedicated helper for the match's coded token, generalized to this
// spec's bit-level Huffman-coded tokens and single-step poll machine
// instead of doboz's single-shot, byte-aligned control-word loop. The
// match search itself is not doboz's binary tree (see findMatchAt) — the
// earliest-index tie-break this spec requires does not fall out of a
// hash/tree search, so it is the literal bounded linear scan §4.4.1
// describes.
type Compressor struct {
	cfg    Config
	window window
	bw     BitWriter

	staging   [16]byte
	inputPos  int
	inputSize int

	bytesIn  uint64
	bytesOut uint64
}

// NewCompressor validates cfg, seeds the window in windowStorage (which
// must be exactly cfg.WindowSize() bytes; its previous contents are
// overwritten), and writes the header to the
// internal bit buffer ready to be drained by the first Poll/Compress/
// Flush call.
func NewCompressor(cfg Config, windowStorage []byte) (*Compressor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(windowStorage) != cfg.WindowSize() {
		return nil, ErrInvalidConf
	}
	c := &Compressor{cfg: cfg}
	c.window.init(cfg, windowStorage)
	writeHeader(&c.bw, cfg)
	return c, nil
}

// Sink copies up to 16-occupancy bytes from input into the staging ring,
// returning how many were consumed. It never fails.
func (c *Compressor) Sink(input []byte) int {
	n := 0
	for n < len(input) && c.inputSize < 16 {
		writePos := (c.inputPos + c.inputSize) % 16
		c.staging[writePos] = input[n]
		c.inputSize++
		n++
	}
	return n
}

// Full reports whether the staging buffer holds 16 bytes.
func (c *Compressor) Full() bool {
	return c.inputSize == 16
}

func (c *Compressor) stagingByte(offset int) byte {
	return c.staging[(c.inputPos+offset)%16]
}

// plannedToken is the result of deciding what to emit for the bytes
// currently at the front of the staging ring, before it is committed to
// the bit buffer and the window.
type plannedToken struct {
	bits       uint32
	nbits      uint
	isMatch    bool
	matchSize  int
	matchIndex int
	literal    byte
}

func (c *Compressor) planLiteral(b byte) (plannedToken, error) {
	mask := byte(1<<uint(c.cfg.LiteralBits) - 1)
	if b&^mask != 0 {
		return plannedToken{}, ErrExcessBits
	}
	bits := uint32(1)<<uint(c.cfg.LiteralBits) | uint32(b)
	return plannedToken{bits: bits, nbits: uint(c.cfg.LiteralBits) + 1, literal: b}, nil
}

func (c *Compressor) planPattern(length, index int) plannedToken {
	idx := length - c.cfg.MinPatternSize()
	hc := patternCodes[idx]
	bits := (hc.code << uint(c.cfg.WindowBits)) | uint32(index)
	nbits := hc.nbits + uint(c.cfg.WindowBits)
	return plannedToken{
		bits: bits, nbits: nbits,
		isMatch: true, matchSize: length, matchIndex: index,
	}
}

// planToken implements the per-token decision in §4.4 steps 1-3,
// including the optional lazy-matching deferral from SPEC_FULL.md §4.4.
func (c *Compressor) planToken() (plannedToken, error) {
	minLen := c.cfg.MinPatternSize()
	var bestLen, bestIdx int
	if c.inputSize >= minLen {
		bestLen, bestIdx = c.findMatchAt(0)
		if bestLen >= minLen && c.cfg.LazyMatching && bestLen < c.cfg.MaxPatternSize() {
			if c.shouldDeferMatch(bestLen) {
				bestLen = 0
			}
		}
	}
	if bestLen < minLen {
		return c.planLiteral(c.stagingByte(0))
	}
	return c.planPattern(bestLen, bestIdx), nil
}

// shouldDeferMatch decides, for the lazy-matching heuristic, whether to
// emit a literal now instead of the match found at the current position,
// because the match available one byte later is different enough to be
// worth the literal's cost. Generalized from doboz's own lazy-evaluation
// comparison in Compress() (coded-size-in-bytes there; Huffman-coded bit
// cost here).
func (c *Compressor) shouldDeferMatch(bestLen int) bool {
	nextLen, _ := c.findMatchAt(1)
	minLen := c.cfg.MinPatternSize()
	if nextLen < minLen {
		return false
	}
	currentBits := uint64(c.patternTokenBits(bestLen))
	nextBits := uint64(c.patternTokenBits(nextLen))
	literalBits := uint64(c.cfg.LiteralBits) + 1

	lhs := uint64(1+nextLen) * currentBits
	rhs := uint64(bestLen) * (literalBits + nextBits)
	return lhs > rhs
}

func (c *Compressor) patternTokenBits(length int) uint {
	idx := length - c.cfg.MinPatternSize()
	return patternCodes[idx].nbits + uint(c.cfg.WindowBits)
}

// findMatchAt searches the window for the longest prefix of the staging
// bytes starting at offset, per §4.4.1: a 2-byte seed test at every
// window start index (ascending, earliest-index tie-break on strict
// length increase), extended up to min(available, max_pattern_size) and
// bounded so the match never runs past the end of the window.
func (c *Compressor) findMatchAt(offset int) (bestLen, bestIdx int) {
	minLen := c.cfg.MinPatternSize()
	avail := c.inputSize - offset
	if avail < minLen {
		return 0, 0
	}
	maxLen := min(avail, c.cfg.MaxPatternSize())

	windowSize := c.cfg.WindowSize()
	s0 := c.stagingByte(offset)
	s1 := c.stagingByte(offset + 1)
	data := c.window.data

	for i := 0; i <= windowSize-2; i++ {
		if data[i] != s0 || data[i+1] != s1 {
			continue
		}
		limit := min(windowSize-1-i, maxLen)
		if limit < 2 {
			continue
		}
		length := 2
		for length < limit && c.stagingByte(offset+length) == data[i+length] {
			length++
		}
		if length > bestLen {
			bestLen = length
			bestIdx = i
			if bestLen == maxLen {
				break
			}
		}
	}
	return bestLen, bestIdx
}

// commitToken copies the emitted bytes into the window and advances the
// staging ring's read cursor and occupancy, per §4.4 step 4.
func (c *Compressor) commitToken(tok plannedToken) {
	if tok.isMatch {
		for k := 0; k < tok.matchSize; k++ {
			c.window.put(c.stagingByte(k))
		}
		c.inputPos = (c.inputPos + tok.matchSize) % 16
		c.inputSize -= tok.matchSize
		c.bytesIn += uint64(tok.matchSize)
		return
	}
	c.window.put(tok.literal)
	c.inputPos = (c.inputPos + 1) % 16
	c.inputSize--
	c.bytesIn++
}

// Poll performs at most one encode step: plan one token, and if enough
// new whole bytes would result to fit in out, write it and drain those
// bytes; otherwise leave all state untouched and return ErrOutputFull.
func (c *Compressor) Poll(out []byte) (int, error) {
	if c.inputSize == 0 {
		return 0, nil
	}

	tok, err := c.planToken()
	if err != nil {
		return 0, err
	}

	needed := (c.bw.BitsPending() + tok.nbits) / 8
	if int(needed) > len(out) {
		return 0, ErrOutputFull
	}

	c.bw.Write(tok.bits, tok.nbits)
	n := c.bw.FlushBytes(out)
	c.commitToken(tok)
	c.bytesOut += uint64(n)

	if c.cfg.notify(Progress{BytesIn: c.bytesIn, BytesOut: c.bytesOut}) == PollCancel {
		return n, ErrCancelled
	}
	return n, nil
}

// Compress interleaves Sink and Poll: it polls only while the staging
// buffer is full, so the match search always sees the longest lookahead
// available and the output does not depend on how the input is split
// across calls. It keeps going until input is exhausted or out fills up;
// bytes still staged when input runs out stay there until more input
// arrives or Flush is called.
func (c *Compressor) Compress(out, in []byte) (written, consumed int, err error) {
	for {
		consumed += c.Sink(in[consumed:])
		if !c.Full() {
			return written, consumed, nil
		}

		n, perr := c.Poll(out[written:])
		written += n
		if perr != nil {
			return written, consumed, perr
		}
	}
}

// Flush drains the staging buffer by repeated Poll calls, then, if
// writeFlushToken is true and any bits remain buffered, emits the FLUSH
// marker, then finalizes (zero-pads and drains) the bit buffer. If out
// has no room for the final bytes, it returns ErrOutputFull before
// writing the marker, and a later call with more room completes it.
//
// writeFlushToken is rejected with ErrInvalidConf when LiteralBits != 8,
// per the resolution in DESIGN.md of the FLUSH-ambiguity open question:
// the marker is only ever emitted in the one literal width where a
// decoder can recognize it unambiguously.
func (c *Compressor) Flush(out []byte, writeFlushToken bool) (int, error) {
	written := 0
	for c.inputSize > 0 {
		n, err := c.Poll(out[written:])
		written += n
		if err != nil {
			return written, err
		}
	}

	var tokenBits uint
	if writeFlushToken {
		if c.cfg.LiteralBits != 8 {
			return written, ErrInvalidConf
		}
		if c.bw.BitsPending() > 0 {
			tokenBits = flushBits
		}
	}
	if int((c.bw.BitsPending()+tokenBits+7)/8) > len(out)-written {
		return written, ErrOutputFull
	}
	if tokenBits > 0 {
		c.bw.Write(flushCode, flushBits)
	}

	n := c.bw.Finalize(out[written:])
	written += n
	c.bytesOut += uint64(n)
	return written, nil
}
