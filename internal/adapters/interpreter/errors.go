package interpreter

import "errors"

var (
	// ErrSpawn reports that the interpreter process could not be started.
	ErrSpawn = errors.New("interpreter spawn failed")

	// ErrTimeout reports that no output line arrived within the deadline.
	ErrTimeout = errors.New("interpreter read timed out")

	// ErrEndOfStream reports that the interpreter closed its output. This
	// is the normal last read of a finished game as well as the signature
	// of a crash; the caller distinguishes the two by the tracked outcome.
	ErrEndOfStream = errors.New("interpreter output ended")

	// ErrWrite reports a failed command delivery, usually a closed stdin
	// after the process died mid-turn.
	ErrWrite = errors.New("interpreter write failed")
)
