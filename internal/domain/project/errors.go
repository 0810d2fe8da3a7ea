package project

import (
	"errors"
	"fmt"
)

var (
	// ErrNameRequired is returned when an empty project name is resolved.
	ErrNameRequired = errors.New("name required")

	// ErrInvalidInput is returned when request parameters are out of range.
	ErrInvalidInput = errors.New("invalid input")
)

// NoMatchError is returned when there are no candidate projects at all.
type NoMatchError struct {
	Name string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no project found matching '%s'", e.Name)
}
