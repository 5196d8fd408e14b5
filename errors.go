package tbashell

import (
	"errors"
)

const syntaxHint = "Invalid command syntax, type ? for help."

var (
	ErrSyntax          = errors.New("invalid command syntax")
	ErrVerboseLevel    = errors.New("invalid verbose level")
	ErrUnknownModel    = errors.New("unknown model")
	ErrInvalidFilter   = errors.New("invalid filter")
	ErrMalformedFilter = errors.New("malformed filter")
	ErrNoData          = errors.New("no data")
)

type (
	// CommandError is a failed command. Kind is one of the Err* sentinels;
	// Cause is the underlying failure, such as a fetch error, when there
	// was one.
	CommandError struct {
		Kind    error
		Message string
		Cause   error
	}
)

func (ce *CommandError) Error() string {
	if ce.Message == "" {
		return syntaxHint
	}
	return ce.Message + "\n" + syntaxHint
}

func (ce *CommandError) Is(target error) bool {
	return target == ce.Kind
}

func (ce *CommandError) Unwrap() error {
	return ce.Cause
}
