package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

const (
	exitRuntime    = 1
	exitValidation = 254
	exitParse      = 255
)

// validationError marks user input that parsed but failed validation,
// such as an unknown tonemap name or a bad configuration value.
type validationError struct {
	err error
}

func (e *validationError) Error() string { return e.err.Error() }
func (e *validationError) Unwrap() error { return e.err }

func validationErr(err error) error {
	if err == nil {
		return nil
	}
	return &validationError{err: err}
}

// runtimeError marks a failure after the arguments were accepted.
type runtimeError struct {
	err error
}

func (e *runtimeError) Error() string { return e.err.Error() }
func (e *runtimeError) Unwrap() error { return e.err }

func runtimeErr(err error) error {
	if err == nil {
		return nil
	}
	return &runtimeError{err: err}
}

// exitCode maps a command error to the process exit status. Anything
// not tagged by a command is a parse failure surfaced by the flag
// layer.
func exitCode(err error) int {
	var vErr *validationError
	if errors.As(err, &vErr) {
		return exitValidation
	}
	var rErr *runtimeError
	if errors.As(err, &rErr) {
		return exitRuntime
	}
	return exitParse
}

func main() {
	cmd := newRootCommand()
	err := cmd.Execute()
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitCode(err))
}
