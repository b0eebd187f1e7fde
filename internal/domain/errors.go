package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e NotFoundError) Error() string {
	switch {
	case e.Resource == "":
		return "not found"
	case e.ID == "":
		return fmt.Sprintf("%s not found", e.Resource)
	default:
		return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
	}
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError reports a missing or malformed input field. Field uses the
// JSON name so it can be echoed to API clients as-is.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// DependencyError wraps a failure of an external collaborator (database,
// SMTP relay, broker).
type DependencyError struct {
	Dependency string
	Op         string
	Err        error
}

func (e DependencyError) Error() string {
	dep := e.Dependency
	if dep == "" {
		dep = "dependency"
	}
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s %s: %v", dep, e.Op, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", dep, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s %s failed", dep, e.Op)
	default:
		return dep + " failure"
	}
}

func (e DependencyError) Unwrap() error { return e.Err }

// ThrottledError is returned when a caller repeats a rate-limited action too
// quickly.
type ThrottledError struct {
	Msg string
}

func (e ThrottledError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "too many requests"
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsDependency(err error) bool {
	var target DependencyError
	return errors.As(err, &target)
}

func IsThrottled(err error) bool {
	var target ThrottledError
	return errors.As(err, &target)
}

// ValidationField returns the offending field of a ValidationError, if any.
func ValidationField(err error) string {
	var target ValidationError
	if errors.As(err, &target) {
		return target.Field
	}
	return ""
}
