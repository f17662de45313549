package catalog

import "errors"

var (
	// ErrAlreadyExists is returned when adding a reference identifier that is
	// already cataloged.
	ErrAlreadyExists = errors.New("reference already cataloged")

	// ErrNotFound is returned when removing a reference identifier that is
	// not cataloged.
	ErrNotFound = errors.New("reference not cataloged")
)
