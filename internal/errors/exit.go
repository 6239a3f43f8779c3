package errors

import "errors"

// Exit codes returned by the CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates archive attributes failed validation.
	ExitValidationError = 2

	// ExitUnsupportedPlatform indicates an unknown target platform.
	ExitUnsupportedPlatform = 3

	// ExitPermissionDenied indicates a permission could not be set.
	ExitPermissionDenied = 4

	// ExitArchiveError indicates an archive could not be read or written.
	ExitArchiveError = 5

	// ExitResourceError indicates bundled resources could not be extracted.
	ExitResourceError = 6

	// ExitWrapperError indicates the executable wrapper failed.
	ExitWrapperError = 7
)

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrValidation):
		return ExitValidationError
	case errors.Is(err, ErrUnsupportedPlatform):
		return ExitUnsupportedPlatform
	case errors.Is(err, ErrPermission):
		return ExitPermissionDenied
	case errors.Is(err, ErrArchiveIO), errors.Is(err, ErrArchiveFormat):
		return ExitArchiveError
	case errors.Is(err, ErrResourceExtraction):
		return ExitResourceError
	case errors.Is(err, ErrWrapperTool):
		return ExitWrapperError
	default:
		return ExitGeneralError
	}
}

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitValidationError:
		return "Validation Error"
	case ExitUnsupportedPlatform:
		return "Unsupported Platform"
	case ExitPermissionDenied:
		return "Permission Denied"
	case ExitArchiveError:
		return "Archive Error"
	case ExitResourceError:
		return "Resource Error"
	case ExitWrapperError:
		return "Wrapper Error"
	default:
		return "Unknown"
	}
}
