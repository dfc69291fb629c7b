package cli

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the requested operation failed
	ExitCommandError = 2 // bad configuration or local setup
)

// ExitError carries a process exit code. Quiet errors were already shown to
// the user as a status line and should not be printed again.
type ExitError struct {
	Code    int
	Message string
	Err     error
	Quiet   bool
}

func (e *ExitError) Error() string {
	switch {
	case e.Message == "":
		return e.Err.Error()
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func commandError(message string, err error) *ExitError {
	return &ExitError{Code: ExitCommandError, Message: message, Err: err}
}

// reported marks err as already shown through a status region.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: ExitFailure, Err: err, Quiet: true}
}

// GetExitCode extracts the exit code from err; non-ExitError errors map to
// ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitFailure
}

// ShouldPrint reports whether err still needs to be shown to the user.
func ShouldPrint(err error) bool {
	var ee *ExitError
	return err != nil && !(errors.As(err, &ee) && ee.Quiet)
}
