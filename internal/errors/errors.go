package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (network, installer, filesystem).
	ExitSystem = 2
)

// Sentinel errors for the install pipeline.
var (
	// ErrVersionResolution indicates the requested version could not be turned
	// into a concrete SDK version.
	ErrVersionResolution = crdb.New("version resolution failed")

	// ErrArtifactNotFound indicates the download endpoint answered with an
	// error status for the requested artifact.
	ErrArtifactNotFound = crdb.New("artifact not found")

	// ErrDownload indicates a transfer failure.
	ErrDownload = crdb.New("download failed")

	// ErrInstallationFailed indicates the installer exited non-zero, timed out,
	// or the archive could not be extracted.
	ErrInstallationFailed = crdb.New("installation failed")

	// ErrCache indicates a cache save or restore failure. It is never fatal.
	ErrCache = crdb.New("cache operation failed")

	// ErrNotImplemented indicates the platform has no install procedure.
	ErrNotImplemented = crdb.New("not implemented")

	// ErrUnsupportedPlatform indicates the host OS has no registered adapter.
	ErrUnsupportedPlatform = crdb.New("unsupported platform")

	// ErrInvalidInput indicates a malformed user input.
	ErrInvalidInput = crdb.New("invalid input")
)

// ExitError wraps an error with an exit code and optional suggestion for the CLI.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// Classify maps a pipeline error onto an ExitError. Errors that already carry
// an exit code are returned unchanged.
func Classify(err error) *ExitError {
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if crdb.As(err, &exitErr) {
		return exitErr
	}

	switch {
	case crdb.Is(err, ErrInvalidInput):
		return NewUserError(err, "Use \"latest\" or a version of the form major.minor.build.rev")
	case crdb.Is(err, ErrArtifactNotFound):
		return NewUserError(err, "Run: setup-vulkan-sdk versions")
	case crdb.Is(err, ErrNotImplemented):
		return NewSystemError(err, "Install the SDK manually on this platform")
	default:
		return NewSystemError(err, "")
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
