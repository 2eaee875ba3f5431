// Package errors provides error handling conventions for setup-vulkan-sdk.
//
// It re-exports the wrapping helpers from github.com/cockroachdb/errors so
// the rest of the module has a single import for error construction, and
// defines the sentinel errors of the install pipeline together with an
// ExitError type that maps failures onto process exit codes.
//
// # Sentinel Errors
//
// Each stage of the pipeline fails with an error matching one sentinel:
//
//	if errors.Is(err, errors.ErrArtifactNotFound) {
//	    // the requested version has no download
//	}
//
// ErrCache is never fatal; the cache bridge logs it and carries on.
//
// # Exit Codes
//
//   - ExitSuccess (0): the SDK was installed, restored, or the platform is unsupported
//   - ExitUser (1): invalid input (malformed version, bad config)
//   - ExitSystem (2): network, install or filesystem failure
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion:
//
//	err := errors.NewUserError(errors.ErrInvalidInput, "Use a version like 1.3.250.1")
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
