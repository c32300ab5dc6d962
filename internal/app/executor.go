package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poets-canvas/quote-service/internal/platform/logging"
)

// Workflows that call an external source and then write local state run
// through a fixed step sequence so an upstream failure never leaves a
// half-updated quote behind:
//
//	validate -> perform -> verify -> archive -> respond
//
// Validate checks preconditions before anything changes. Perform does
// the external work (a bio fetch, for example). Verify inspects the
// result instead of trusting it. Archive persists only verified state.
// Respond shapes the output for the caller.

// ExecutionStep names one step of the sequence.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError carries the step at which a workflow failed.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// NewExecutionValidationError creates an error for the validate step.
func NewExecutionValidationError(message string, cause error) error {
	return &ExecutionError{Step: StepValidate, Message: message, Cause: cause}
}

// NewPerformError creates an error for the perform step.
func NewPerformError(message string, cause error) error {
	return &ExecutionError{Step: StepPerform, Message: message, Cause: cause}
}

// NewVerifyError creates an error for the verify step.
func NewVerifyError(message string, cause error) error {
	return &ExecutionError{Step: StepVerify, Message: message, Cause: cause}
}

// NewArchiveError creates an error for the archive step.
func NewArchiveError(message string, cause error) error {
	return &ExecutionError{Step: StepArchive, Message: message, Cause: cause}
}

// Executor runs step-sequenced workflows with per-step logging.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates an executor. A nil logger falls back to the
// process default.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Operation supplies the step functions for one workflow. Any step may
// be nil, in which case it is skipped. The type parameters are the
// input (I), the raw perform result (P), the verified value (V) and
// the caller-facing output (O).
type Operation[I, P, V, O any] struct {
	// Name identifies the workflow in logs.
	Name string

	// Validate checks inputs and preconditions.
	Validate func(ctx context.Context, input I) error

	// Perform does the external or computational work.
	Perform func(ctx context.Context, input I) (P, error)

	// Verify inspects what Perform produced before anything is stored.
	Verify func(ctx context.Context, input I, performed P) (V, error)

	// Archive persists the verified value.
	Archive func(ctx context.Context, input I, verified V) error

	// Respond shapes the result for the caller.
	Respond func(ctx context.Context, input I, verified V) (O, error)
}

// Execute runs an operation through the full step sequence. The first
// failing step aborts the run and its ExecutionError is returned.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var zero O

	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = exec.logger
	}

	logger = logger.With(slog.String("operation", op.Name))
	start := time.Now()

	if op.Validate != nil {
		logger.DebugContext(ctx, "starting validation")

		if err := op.Validate(ctx, input); err != nil {
			logger.WarnContext(ctx, "validation failed", slog.Any("error", err))
			return zero, NewExecutionValidationError("input validation failed", err)
		}
	}

	var performed P
	if op.Perform != nil {
		logger.DebugContext(ctx, "performing operation")

		var err error
		performed, err = op.Perform(ctx, input)
		if err != nil {
			logger.ErrorContext(ctx, "perform failed", slog.Any("error", err))
			return zero, NewPerformError("operation failed", err)
		}
	}

	var verified V
	if op.Verify != nil {
		logger.DebugContext(ctx, "verifying result")

		var err error
		verified, err = op.Verify(ctx, input, performed)
		if err != nil {
			logger.ErrorContext(ctx, "verification failed", slog.Any("error", err))
			return zero, NewVerifyError("verification failed", err)
		}
	}

	if op.Archive != nil {
		logger.DebugContext(ctx, "archiving state")

		if err := op.Archive(ctx, input, verified); err != nil {
			logger.ErrorContext(ctx, "archive failed", slog.Any("error", err))
			return zero, NewArchiveError("state persistence failed", err)
		}
	}

	var result O
	if op.Respond != nil {
		var err error
		result, err = op.Respond(ctx, input, verified)
		if err != nil {
			logger.WarnContext(ctx, "respond formatting failed", slog.Any("error", err))
			return zero, err
		}
	}

	logger.InfoContext(ctx, "operation completed",
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// IsExecutionError reports whether err came from a workflow step.
func IsExecutionError(err error) bool {
	var execErr *ExecutionError

	return errors.As(err, &execErr)
}

// GetExecutionStep extracts the failing step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
