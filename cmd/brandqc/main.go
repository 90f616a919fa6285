package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess  = 0 // Every image passed
	ExitQCFailed = 1 // One or more images failed or could not be evaluated
	ExitError    = 2 // Configuration or runtime error
)

// QCFailureError indicates that the batch ran to completion, but one or more
// images failed their rubric or could not be evaluated.
type QCFailureError struct {
	Message string
}

func (e *QCFailureError) Error() string {
	return e.Message
}

func main() {
	os.Exit(run())
}

func run() int {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}
	return ExitSuccess
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var qcErr *QCFailureError
	if errors.As(err, &qcErr) {
		return ExitQCFailed
	}
	// All other errors are configuration/runtime errors
	return ExitError
}
