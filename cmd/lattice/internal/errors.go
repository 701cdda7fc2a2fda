package internal

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarnet-ai/lattice/internal/graph"
	"github.com/scholarnet-ai/lattice/internal/safety"
	"github.com/scholarnet-ai/lattice/internal/types"
)

// Exit code constants for the CLI
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitError indicates a general error
	ExitError = 1
	// ExitRejected indicates a candidate query failed safety validation
	ExitRejected = 2
	// ExitTimeout indicates the operation timed out
	ExitTimeout = 3
	// ExitCancelled indicates the operation was cancelled
	ExitCancelled = 4
	// ExitConfigError indicates a configuration error
	ExitConfigError = 10
	// ExitGraphError indicates a graph engine error
	ExitGraphError = 12
)

// CLIError represents a CLI-specific error with an exit code
type CLIError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// WrapError creates a new CLIError wrapping an existing error
func WrapError(code int, message string, err error) *CLIError {
	return &CLIError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// NewCLIError creates a new CLIError with the given code and message
func NewCLIError(code int, message string) *CLIError {
	return &CLIError{
		Code:    code,
		Message: message,
	}
}

// HandleError prints the error to the command's error output and returns
// the exit code the process should end with.
func HandleError(cmd *cobra.Command, err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		cmd.PrintErrln("Operation cancelled")
		return ExitCancelled
	}

	if errors.Is(err, context.DeadlineExceeded) {
		cmd.PrintErrln("Operation timed out")
		return ExitTimeout
	}

	if rejection, ok := safety.AsRejection(err); ok {
		cmd.PrintErrf("Query rejected: %s\n", rejection.Error())
		return ExitRejected
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		cmd.PrintErrln(cliErr.Error())
		return cliErr.Code
	}

	var latticeErr *types.LatticeError
	if errors.As(err, &latticeErr) {
		cmd.PrintErrln(latticeErr.Error())
		switch latticeErr.Code {
		case types.CONFIG_LOAD_FAILED, types.CONFIG_PARSE_FAILED, types.CONFIG_VALIDATION_FAILED:
			return ExitConfigError
		case graph.ErrCodeGraphConnectionFailed, graph.ErrCodeGraphQueryFailed, graph.ErrCodeGraphQueryTimeout:
			return ExitGraphError
		}
		return ExitError
	}

	cmd.PrintErrln(err.Error())
	return ExitError
}
