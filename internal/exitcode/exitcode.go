package exitcode

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/felixgeelhaar/scribe/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid usage or input that failed validation
	UsageError = 2

	// PermissionDenied indicates the API refused the action (403)
	PermissionDenied = 3

	// NotFound indicates the requested post or comment does not exist
	NotFound = 4

	// AuthError indicates a missing or rejected session
	AuthError = 5

	// NetworkError indicates the API could not be reached
	NetworkError = 6

	// StorageError indicates the local session storage failed
	StorageError = 7

	// Interrupted indicates the user cancelled with SIGINT (128 + 2)
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode maps an error onto an exit code. Classified API and
// local errors are checked first; cobra's usage errors are recognised by
// message.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}
	if stderrors.Is(err, context.Canceled) {
		return Interrupted
	}

	switch errors.KindOf(err) {
	case errors.KindNetwork:
		return NetworkError
	case errors.KindUnauthorized:
		return AuthError
	case errors.KindForbidden:
		return PermissionDenied
	case errors.KindNotFound:
		return NotFound
	case errors.KindValidation:
		return UsageError
	case errors.KindHTTP, errors.KindRateLimited:
		return GeneralError
	case errors.KindLocal:
		return localCode(err)
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "accepts ") ||
		strings.Contains(errMsg, "invalid argument") {
		return UsageError
	}

	return GeneralError
}

func localCode(err error) int {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return GeneralError
	}

	switch e.Code {
	case errors.ErrCodeNotLoggedIn:
		return AuthError
	case errors.ErrCodeNotOwner:
		return PermissionDenied
	case errors.ErrCodeInputInvalid, errors.ErrCodeInputRequired,
		errors.ErrCodeConfigInvalid, errors.ErrCodeConfigLoad:
		return UsageError
	case errors.ErrCodeStorageRead, errors.ErrCodeStorageWrite,
		errors.ErrCodeStorageCorrupt, errors.ErrCodeStorageBackend,
		errors.ErrCodeSessionPersist:
		return StorageError
	default:
		return GeneralError
	}
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags, arguments or input)"
	case PermissionDenied:
		return "Permission denied"
	case NotFound:
		return "Not found"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case StorageError:
		return "Session storage error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
