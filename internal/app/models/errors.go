package models

import "errors"

// Domain specific errors for the discovery session and its side stores.
var (
	ErrNotFound              = errors.New("requested item not found")
	ErrBadRequest            = errors.New("bad request")
	ErrValidation            = errors.New("validation failed")
	ErrLocationUnavailable   = errors.New("location unavailable")
	ErrInvalidSubmission     = errors.New("invalid search submission")
	ErrUpstreamRequestFailed = errors.New("upstream request failed")
	ErrStorageUnavailable    = errors.New("storage unavailable")
)

// UpstreamError carries a failure from the AI collaborator. Its message is
// the collaborator's own message so it can be shown to the user unchanged.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstreamRequestFailed, e.Err}
}
