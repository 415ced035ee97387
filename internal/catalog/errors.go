package catalog

import "fmt"

// FetchError is returned when the product lister fails or yields an unusable
// result. Its message is what ends up in State.Error.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewFetchError(err error) *FetchError {
	return &FetchError{Err: err}
}

// Errorf builds a FetchError from a formatted message.
func Errorf(format string, args ...any) *FetchError {
	return &FetchError{Err: fmt.Errorf(format, args...)}
}
