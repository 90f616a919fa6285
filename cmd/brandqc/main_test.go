package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQCFailureError(t *testing.T) {
	err := &QCFailureError{
		Message: "image QC completed with 2 failed and 1 not evaluated",
	}

	assert.Equal(t, "image QC completed with 2 failed and 1 not evaluated", err.Error())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no error", nil, ExitSuccess},
		{"QCFailureError", &QCFailureError{Message: "qc failure"}, ExitQCFailed},
		{"wrapped QCFailureError", fmt.Errorf("run: %w", &QCFailureError{Message: "qc failure"}), ExitQCFailed},
		{"joined QCFailureError", errors.Join(&QCFailureError{Message: "qc failure"}, errors.New("additional context")), ExitQCFailed},
		{"regular error", errors.New("config error"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"evaluate", "rubrics", "check", "compare", "init"})

	cmd, _, err := root.Find([]string{"run"})
	assert.NoError(t, err)
	assert.Equal(t, "evaluate", cmd.Name())
}
