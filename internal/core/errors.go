package core

import "fmt"

// ErrUnassignedLocation indicates a cost query reached an element whose
// location has never been published. It is a contract violation by the
// caller: every element must be placed before any cost query.
type ErrUnassignedLocation struct {
	Element string
}

func (e *ErrUnassignedLocation) Error() string {
	if e.Element == "" {
		return "location not assigned"
	}
	return fmt.Sprintf("location not assigned: element %s", e.Element)
}

// NewUnassignedLocationError creates an unassigned location error.
func NewUnassignedLocationError(element string) error {
	return &ErrUnassignedLocation{Element: element}
}

// ErrInvalidArgument indicates invalid input.
type ErrInvalidArgument struct {
	Field   string
	Message string
}

func (e *ErrInvalidArgument) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid argument for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid argument: %s", e.Message)
}

func NewInvalidArgumentError(field, message string) error {
	return &ErrInvalidArgument{Field: field, Message: message}
}
