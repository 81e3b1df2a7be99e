package tamp

import (
	"errors"
	"fmt"
)

// Error kinds. Ok is the absence of an error. OutputFull and
// InputExhausted are normal flow-control results: callers supply more
// output space or more input and retry. ExcessBits, InvalidConf, and
// OutOfBounds are fatal for the instance that raised them; the caller
// must discard it (re-initialization from scratch is always possible).
// Cancelled is caller-initiated, via OnPoll returning PollCancel, and is
// the one non-fatal terminal status that is not a recoverable
// flow-control signal.
var (
	ErrOutputFull     = errors.New("tamp: output buffer full")
	ErrInputExhausted = errors.New("tamp: input exhausted")
	ErrExcessBits     = errors.New("tamp: literal byte has bits set above literal_bits")
	ErrInvalidConf    = errors.New("tamp: invalid configuration")
	ErrOutOfBounds    = errors.New("tamp: pattern match out of window bounds")
	ErrIoError        = errors.New("tamp: i/o error")
	ErrCancelled      = errors.New("tamp: operation cancelled")
)

// OutOfBoundsError carries the offending match so a caller (the CLI, in
// particular) can report it per the diagnostic requirement in §7.
type OutOfBoundsError struct {
	MatchIndex int
	Length     int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("tamp: match_index=%d length=%d exceeds window bounds", e.MatchIndex, e.Length)
}

func (e *OutOfBoundsError) Unwrap() error {
	return ErrOutOfBounds
}

func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}
