package bowling

import "errors"

var (
	// ErrInvalidPinCount indicates a pin count outside the pins left standing.
	ErrInvalidPinCount = errors.New("invalid pin count")
	// ErrOutOfSequence indicates a roll or command the current state forbids.
	ErrOutOfSequence = errors.New("out of sequence")
	// ErrIllegalFrameTransition indicates an attempt to move past the last frame.
	ErrIllegalFrameTransition = errors.New("illegal frame transition")
)
