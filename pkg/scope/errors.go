// ABOUTME: Error values returned by the render session
// ABOUTME: Sentinel errors plus the typed buffer allocation failure
package scope

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMutationWhilePlaying is returned when a draw or buffer change is
	// attempted while the session is sealed for playback. Call Stop first.
	ErrIllegalMutationWhilePlaying = errors.New("scope: buffer cannot be modified while playing")

	// ErrAllocation reports that the sample buffer could not grow. It is fatal
	// to the session that hit it.
	ErrAllocation = errors.New("scope: sample buffer allocation failed")

	// ErrOutOfOrderWrite is the panic value for writes that break the
	// append-only discipline of the sample buffer.
	ErrOutOfOrderWrite = errors.New("scope: out of order sample write")

	ErrAlreadyPlaying    = errors.New("scope: playback already started")
	ErrNotPlaying        = errors.New("scope: playback not started")
	ErrClosed            = errors.New("scope: session closed")
	ErrNoSink            = errors.New("scope: no audio sink configured")
	ErrCoordinateRange   = errors.New("scope: coordinate out of range")
	ErrInvalidSampleRate = errors.New("scope: invalid sample rate")
)

// AllocationError describes a failed buffer growth
type AllocationError struct {
	Requested int // total frames the buffer tried to hold
	Limit     int // configured frame limit, 0 if unlimited
	Err       error
}

func (e *AllocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %d frames: %v", ErrAllocation, e.Requested, e.Err)
	}
	return fmt.Sprintf("%v: %d frames exceeds limit of %d", ErrAllocation, e.Requested, e.Limit)
}

// Is makes errors.Is(err, ErrAllocation) match any AllocationError
func (e *AllocationError) Is(target error) bool {
	return target == ErrAllocation
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}
