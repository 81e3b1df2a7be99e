package tamp

// Progress is the snapshot handed to an OnPoll callback between encode or
// decode steps.
type Progress struct {
	BytesIn  uint64
	BytesOut uint64
}

// PollAction is returned by an OnPoll callback to signal whether the
// caller wants to keep going or abort the current call.
type PollAction int

const (
	PollContinue PollAction = iota
	PollCancel
)
