package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound           = errors.New("resource not found")
	ErrSimulationNotFound = fmt.Errorf("%w: simulation", ErrNotFound)

	// Input errors
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrDegenerateInput  = errors.New("degenerate input")

	// State errors
	ErrMissingState = errors.New("missing simulation state")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewInvalidParameterError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParameter, field, reason)
}

func NewDegenerateInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDegenerateInput, reason)
}

func NewMissingStateError(reason string) error {
	return fmt.Errorf("%w: %s", ErrMissingState, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

func IsDegenerateInput(err error) bool {
	return errors.Is(err, ErrDegenerateInput)
}

func IsMissingState(err error) bool {
	return errors.Is(err, ErrMissingState)
}
