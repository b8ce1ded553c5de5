package tools

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTool is returned by the registry for unregistered names.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrNotImplemented is the fixed failure of the OAuth stub operations.
	ErrNotImplemented = errors.New("not implemented: use a pre-issued static credential")
)

// ArgError describes a single argument-validation failure. The phase split
// matters: argument errors are raised before any vendor call is made.
type ArgError struct {
	Name   string
	Reason string
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("argument %q: %s", e.Name, e.Reason)
}

func missingArg(name string) error {
	return &ArgError{Name: name, Reason: "required"}
}

func badType(name, want string, got interface{}) error {
	return &ArgError{Name: name, Reason: fmt.Sprintf("expected %s, got %T", want, got)}
}
