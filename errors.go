package action

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds reported while declaring or binding actions.
var (
	// Declaration errors
	ErrInvalidOptionSpec = errors.New("action: invalid option spec")

	// Resolution errors
	ErrUnknownAction = errors.New("action: unknown action")

	// Token errors
	ErrUnknownOption         = errors.New("action: unknown option")
	ErrMissingOptionValue    = errors.New("action: option requires a value")
	ErrUnexpectedOptionValue = errors.New("action: option does not take a value")

	// Binding errors
	ErrMissingPositional  = errors.New("action: missing positional argument")
	ErrTooManyPositionals = errors.New("action: too many positional arguments")
	ErrCoercion           = errors.New("action: cannot coerce value")
	ErrFoldAborted        = errors.New("action: option fold aborted")

	// Registry errors
	ErrActionExists  = errors.New("action: action already registered")
	ErrDefaultExists = errors.New("action: default action already registered")
)

// Error is a structured failure identifying the offending action,
// parameter and token. Kind is one of the Err* sentinels above.
type Error struct {
	Kind   error
	Action string
	Param  string
	Token  string
	Err    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())

	var details []string
	if e.Action != "" {
		details = append(details, fmt.Sprintf("action '%s'", e.Action))
	}
	if e.Param != "" {
		details = append(details, fmt.Sprintf("parameter '%s'", e.Param))
	}
	if e.Token != "" {
		details = append(details, fmt.Sprintf("token '%s'", e.Token))
	}
	if len(details) > 0 {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(details, ", "))
		sb.WriteString(")")
	}

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

// Unwrap exposes both the kind and the underlying cause to errors.Is.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, action, param, token string, err error) *Error {
	return &Error{
		Kind:   kind,
		Action: action,
		Param:  param,
		Token:  token,
		Err:    err,
	}
}

func invalidSpec(action, param, format string, args ...any) error {
	return newError(ErrInvalidOptionSpec, action, param, "", fmt.Errorf(format, args...))
}

// withAction fills in the action name on a structured error that was raised
// below the level where the name is known.
func withAction(err error, action string) error {
	var e *Error
	if errors.As(err, &e) && e.Action == "" {
		e.Action = action
	}
	return err
}
