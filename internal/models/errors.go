package models

import "fmt"

// ValidationError covers missing or malformed caller input, including
// invalid state-machine transitions. Nothing is mutated before it is
// returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ForbiddenError means the actor is not a workspace member or lacks the
// capability the action requires.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string { return e.Msg }

func Forbiddenf(format string, args ...any) error {
	return &ForbiddenError{Msg: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func NotFoundf(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// UpstreamError carries an application-level failure or timeout from an
// external provider. The message is surfaced to the caller unchanged.
type UpstreamError struct {
	Msg string
}

func (e *UpstreamError) Error() string { return e.Msg }

func Upstreamf(format string, args ...any) error {
	return &UpstreamError{Msg: fmt.Sprintf(format, args...)}
}

// ConfigurationError is a locally detectable precondition failure, such as a
// workspace without a publishing credential. Distinct from UpstreamError: no
// network call was made.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

func Configurationf(format string, args ...any) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}
