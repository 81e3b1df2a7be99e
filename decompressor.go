package tamp

// decodeState tracks whether a pattern copy is mid-flight across calls.
type decodeState int

const (
	stateIdle decodeState = iota
	statePattern
)

// Decompressor reads a header once, then decodes literal and pattern
// tokens, reproducing the original bytes and updating the shared window
// identically to the Compressor that produced the stream (§4.5).
//
// Grounded on doboz's Decompressor (decompressor.go): the
// header-once-then-dispatch-per-token loop and the out-of-range match
// guard (there RESULT_ERROR_CORRUPTED_DATA, here ErrOutOfBounds) carry
// over; the resumable InPattern checkpoint has no doboz analogue (doboz
// always decodes into one fully-sized destination buffer in a single
// call) and is built fresh from §4.5's explicit state machine.
type Decompressor struct {
	cfg    Config
	window window
	br     BitReader

	headerDone bool

	state        decodeState
	patBuf       [16]byte
	patSource    int
	patRemaining int

	bytesIn  uint64
	bytesOut uint64
}

// ReadHeader peeks the leading header byte of input and decodes its
// fields without mutating any Decompressor state, so a caller can size a
// window_storage buffer before calling NewDecompressor. It fails with
// ErrInputExhausted if input is empty (or otherwise too short to hold a
// full header), or ErrInvalidConf if any header field is out of range or
// more_header_bytes is set.
func ReadHeader(input []byte) (Config, int, error) {
	var br BitReader
	br.SetInput(input)
	cfg, err := readHeader(&br)
	if err != nil {
		return Config{}, 0, err
	}
	return cfg, br.InputConsumed(), nil
}

// NewDecompressor validates cfg, seeds the window in windowStorage
// (which must be exactly cfg.WindowSize() bytes; it is overwritten with
// cfg.CustomDictionary, which must hold the same bytes the Compressor
// used, if UseCustomDictionary is set, or with the deterministic fill
// otherwise), and leaves window_pos at 0 with an empty bit reader and no
// pending partial token, ready for Decompress.
func NewDecompressor(cfg Config, windowStorage []byte) (*Decompressor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(windowStorage) != cfg.WindowSize() {
		return nil, ErrInvalidConf
	}
	d := &Decompressor{cfg: cfg}
	d.window.init(cfg, windowStorage)
	return d, nil
}

// Decompress is resumable: it stops on ErrOutputFull, ErrInputExhausted,
// or a fatal error, always leaving enough state to pick back up on the
// next call with more input and/or more output space. It returns the
// number of bytes written to out and the number of bytes of in consumed
// into the bit reader (which may be more than what strictly decoded into
// complete tokens, since whole input bytes are eagerly buffered).
func (d *Decompressor) Decompress(out []byte, in []byte) (int, int, error) {
	d.br.SetInput(in)
	defer func() { d.bytesIn += uint64(d.br.InputConsumed()) }()
	outPos := 0

	if !d.headerDone {
		mark := d.br.Mark()
		hdr, err := readHeader(&d.br)
		if err != nil {
			d.br.Restore(mark)
			return 0, d.br.InputConsumed(), err
		}
		if hdr.WindowBits != d.cfg.WindowBits ||
			hdr.LiteralBits != d.cfg.LiteralBits ||
			hdr.UseCustomDictionary != d.cfg.UseCustomDictionary {
			return 0, d.br.InputConsumed(), ErrInvalidConf
		}
		d.headerDone = true
	}

	for {
		if d.state == statePattern {
			d.copyPattern(out, &outPos)
			if d.patRemaining > 0 {
				return outPos, d.br.InputConsumed(), ErrOutputFull
			}
			d.state = stateIdle
			if d.cfg.notify(d.progress()) == PollCancel {
				return outPos, d.br.InputConsumed(), ErrCancelled
			}
		}

		if outPos == len(out) {
			return outPos, d.br.InputConsumed(), ErrOutputFull
		}

		mark := d.br.Mark()
		flagBit, err := d.br.Read(1)
		if err != nil {
			d.br.Restore(mark)
			return outPos, d.br.InputConsumed(), ErrInputExhausted
		}

		if flagBit == 1 {
			isFlush, emitted, err := d.decodeLiteralOrFlush(out, &outPos)
			if err != nil {
				d.br.Restore(mark)
				return outPos, d.br.InputConsumed(), ErrInputExhausted
			}
			if isFlush {
				continue
			}
			_ = emitted
		} else {
			if err := d.decodePattern(out, &outPos); err != nil {
				if err != ErrInputExhausted {
					return outPos, d.br.InputConsumed(), err
				}
				d.br.Restore(mark)
				return outPos, d.br.InputConsumed(), ErrInputExhausted
			}
			if d.patRemaining > 0 {
				return outPos, d.br.InputConsumed(), ErrOutputFull
			}
		}

		if d.cfg.notify(d.progress()) == PollCancel {
			return outPos, d.br.InputConsumed(), ErrCancelled
		}
	}
}

func (d *Decompressor) progress() Progress {
	return Progress{BytesIn: d.bytesIn + uint64(d.br.InputConsumed()), BytesOut: d.bytesOut}
}

// decodeLiteralOrFlush reads the token following a consumed flag bit. In
// literal_bits=8 mode this is also the only place the 9-bit FLUSH marker
// can appear, and reading the 8-bit payload serves double duty: if the
// full 9 bits don't match the FLUSH pattern, the very same bits are the
// literal byte (§9, §4.4).
func (d *Decompressor) decodeLiteralOrFlush(out []byte, outPos *int) (isFlush bool, emitted bool, err error) {
	width := uint(d.cfg.LiteralBits)
	payload, err := d.br.Read(width)
	if err != nil {
		return false, false, err
	}
	if d.cfg.LiteralBits == 8 {
		full := (uint32(1) << 8) | payload
		if full == flushCode {
			// The compressor zero-pads to a byte boundary right after
			// FLUSH; those padding bits are already buffered, so drop them.
			d.br.Read(d.br.nbits % 8)
			return true, false, nil
		}
	}
	b := byte(payload)
	out[*outPos] = b
	*outPos++
	d.window.put(b)
	d.bytesOut++
	return false, true, nil
}

// decodePattern reads a Table A length code and a match_index, validates
// it against the window bound, and copies as many of its bytes as fit in
// out, checkpointing state if the copy is cut short.
func (d *Decompressor) decodePattern(out []byte, outPos *int) error {
	idx, err := decodePatternLengthIndex(&d.br)
	if err != nil {
		return err
	}
	matchIndex32, err := d.br.Read(uint(d.cfg.WindowBits))
	if err != nil {
		return err
	}

	length := d.cfg.MinPatternSize() + idx
	matchIndex := int(matchIndex32)

	if matchIndex+length > d.cfg.WindowSize() {
		return &OutOfBoundsError{MatchIndex: matchIndex, Length: length}
	}

	copy(d.patBuf[:length], d.window.data[matchIndex:matchIndex+length])
	d.patSource = 0
	d.patRemaining = length
	d.copyPattern(out, outPos)
	if d.patRemaining > 0 {
		d.state = statePattern
	}
	return nil
}

// copyPattern copies the pattern's source bytes, captured in patBuf from
// the window when the token was decoded, forward byte by byte, updating
// the window after each byte, until patRemaining reaches 0 or out runs
// out of room. Because the source was captured first, a source range
// that the copy itself overwrites still yields the bytes the compressor
// matched against.
func (d *Decompressor) copyPattern(out []byte, outPos *int) {
	for d.patRemaining > 0 && *outPos < len(out) {
		b := d.patBuf[d.patSource]
		out[*outPos] = b
		*outPos++
		d.window.put(b)
		d.patSource++
		d.patRemaining--
		d.bytesOut++
	}
}
