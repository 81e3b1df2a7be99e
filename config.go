package tamp

// Config is the immutable-per-stream configuration shared by a Compressor
// and its matching Decompressor. Everything below WindowBits/LiteralBits/
// UseCustomDictionary is derived or additive: it affects compressor-side
// heuristics or caller ergonomics, never the decodability of the wire
// format it was built with.
type Config struct {
	// WindowBits selects a window size of 1<<WindowBits bytes. Must be in
	// [8,15].
	WindowBits int

	// LiteralBits is the number of payload bits carried by a literal
	// token. Must be in [5,8].
	LiteralBits int

	// UseCustomDictionary selects whether the window is seeded from
	// CustomDictionary instead of the built-in deterministic fill.
	UseCustomDictionary bool

	// CustomDictionary, when UseCustomDictionary is true, must hold
	// exactly WindowSize() bytes used verbatim to seed the window.
	CustomDictionary []byte

	// LazyMatching enables a one-step lookahead heuristic in the
	// compressor's match selection. It never changes what the decoder
	// accepts, only which valid token sequence the compressor emits.
	LazyMatching bool

	// OnPoll, when set, is invoked once per token emitted or decoded,
	// with the running byte counts. Returning PollCancel aborts the
	// current call with ErrCancelled.
	OnPoll func(Progress) PollAction
}

// WindowSize returns the size of the sliding window in bytes.
func (c Config) WindowSize() int {
	return 1 << c.WindowBits
}

// MinPatternSize returns the shortest match length the wire format can
// encode as a pattern token; shorter matches are always literals.
func (c Config) MinPatternSize() int {
	if c.WindowBits > 10+2*(c.LiteralBits-5) {
		return 3
	}
	return 2
}

// MaxPatternSize returns the longest match length the wire format can
// encode as a pattern token.
func (c Config) MaxPatternSize() int {
	return c.MinPatternSize() + len(patternCodes) - 1
}

// Validate checks the range constraints from the wire format header and
// the custom-dictionary length invariant.
func (c Config) Validate() error {
	if c.WindowBits < 8 || c.WindowBits > 15 {
		return ErrInvalidConf
	}
	if c.LiteralBits < 5 || c.LiteralBits > 8 {
		return ErrInvalidConf
	}
	if c.UseCustomDictionary && len(c.CustomDictionary) != c.WindowSize() {
		return ErrInvalidConf
	}
	return nil
}

func (c Config) notify(p Progress) PollAction {
	if c.OnPoll == nil {
		return PollContinue
	}
	return c.OnPoll(p)
}
