package wizard

import "fmt"

// stepError is a sentinel engine error with a stable machine code.
type stepError struct {
	code string
	msg  string
}

func (e *stepError) Error() string { return e.msg }

// Code reports the stable error code used in handler summary logs.
func (e *stepError) Code() string { return e.code }

var (
	// ErrVideoAlreadySet is returned when a second video arrives for a draft.
	ErrVideoAlreadySet = &stepError{code: "video_already_set", msg: "video already attached"}

	// ErrPhotoLimit is returned when the photo cap is reached. The
	// accumulator is left unchanged, repeated uploads fail the same way.
	ErrPhotoLimit = &stepError{code: "media_limit", msg: "photo limit reached"}

	// ErrMediaIncomplete is returned by Finish when the configured policy
	// requires at least one attachment and the draft has none.
	ErrMediaIncomplete = &stepError{code: "media_incomplete", msg: "at least one photo or video required"}

	// ErrNoSession is returned when an event needs an active session and
	// the user has none.
	ErrNoSession = &stepError{code: "no_session", msg: "no active session"}
)

// ValidationError reports a rejected field answer. The session stays on the
// same field and the user is re-prompted with Reason.
type ValidationError struct {
	FieldID string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s: %s", e.FieldID, e.Reason)
}

func (e *ValidationError) Code() string { return "validation" }

// PublishError wraps a failed publish attempt. The session is torn down and
// a single failure notice is sent, there is no retry.
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string { return fmt.Sprintf("publish: %v", e.Err) }
func (e *PublishError) Unwrap() error { return e.Err }
func (e *PublishError) Code() string  { return "publish_failed" }
