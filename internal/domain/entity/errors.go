package entity

import "errors"

// ErrInvalidArgument is the kind shared by every caller-input violation raised by the entity.
// Match it with errors.Is; the concrete value is an *ArgumentError.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError names the offending parameter and why it was rejected.
type ArgumentError struct {
	Param  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return e.Reason + " (parameter '" + e.Param + "')"
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalidArgument(param, reason string) error {
	return &ArgumentError{Param: param, Reason: reason}
}
