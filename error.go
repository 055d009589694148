package nweave

import (
	"errors"
)

// weaveError is returned for chain assembly failures.  The details
// capture the assembly report so that DetailedError can explain what
// was included, what was excluded, and why.
type weaveError struct {
	err     error
	details string
}

func (we *weaveError) Error() string {
	return we.err.Error()
}

func (we *weaveError) Unwrap() error {
	return we.err
}

// DetailedError transforms errors into strings.  If the error
// happens to be an error returned by chain assembly then it will
// return a much more detailed error than just calling err.Error()
func DetailedError(err error) string {
	var we *weaveError
	if errors.As(err, &we) && we.details != "" {
		return err.Error() + "\n\n" + we.details
	}
	return err.Error()
}
