package iconcheck

import (
	"errors"
	"fmt"

	"github.com/gabepsilva/icon-check/iconcheck/pngutil"
)

// Error types for icon-check operations
var (
	// ErrNotPNG is returned when an asset does not start with the PNG signature
	ErrNotPNG = &CheckError{Code: "NOT_PNG", Message: "not a png file"}

	// ErrTruncated is returned when a chunk claims more bytes than the file holds
	ErrTruncated = &CheckError{Code: "TRUNCATED", Message: "png file is truncated"}

	// ErrMissingHeader is returned when the IHDR chunk is absent or malformed
	ErrMissingHeader = &CheckError{Code: "MISSING_HEADER", Message: "invalid or missing IHDR chunk"}

	// ErrSizeMismatch is returned when the decompressed pixel stream has the wrong length
	ErrSizeMismatch = &CheckError{Code: "SIZE_MISMATCH", Message: "unexpected decompressed size"}

	// ErrUnsupported is returned for bit depths, color types or filter types outside scope
	ErrUnsupported = &CheckError{Code: "UNSUPPORTED", Message: "unsupported png feature"}

	// ErrInflateFailed is returned when the IDAT stream cannot be decompressed
	ErrInflateFailed = &CheckError{Code: "INFLATE_FAILED", Message: "failed to decompress pixel data"}

	// ErrDecodeFailed is returned for decode failures with no more specific code
	ErrDecodeFailed = &CheckError{Code: "DECODE_FAILED", Message: "failed to decode png"}

	// ErrAssetMissing is returned when an asset file cannot be read
	ErrAssetMissing = &CheckError{Code: "ASSET_MISSING", Message: "asset file is missing"}
)

// CheckError represents a structured error in icon-check operations
type CheckError struct {
	Code    string                 // Error code for programmatic handling
	Message string                 // Human-readable error message
	Cause   error                  // Underlying error, if any
	Details map[string]interface{} // Additional context
}

// Error implements the error interface
func (e *CheckError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	if len(e.Details) > 0 {
		return fmt.Sprintf("[%s] %s (details: %v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *CheckError) Unwrap() error {
	return e.Cause
}

// WithCause adds a cause to the error
func (e *CheckError) WithCause(cause error) *CheckError {
	return &CheckError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   cause,
		Details: e.Details,
	}
}

// WithDetail adds a detail key-value pair to the error
func (e *CheckError) WithDetail(key string, value interface{}) *CheckError {
	details := make(map[string]interface{})
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &CheckError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
		Details: details,
	}
}

// WithMessage overrides the error message
func (e *CheckError) WithMessage(message string) *CheckError {
	return &CheckError{
		Code:    e.Code,
		Message: message,
		Cause:   e.Cause,
		Details: e.Details,
	}
}

// IsCheckError checks if an error is a CheckError
func IsCheckError(err error) bool {
	var checkErr *CheckError
	return errors.As(err, &checkErr)
}

// GetErrorCode extracts the error code from a CheckError
func GetErrorCode(err error) string {
	var checkErr *CheckError
	if errors.As(err, &checkErr) {
		return checkErr.Code
	}
	return ""
}

// classifyDecodeError maps a pngutil decode failure onto the
// structured error code it belongs to.
func classifyDecodeError(path string, err error) *CheckError {
	var base *CheckError
	switch {
	case errors.Is(err, pngutil.ErrBadSignature):
		base = ErrNotPNG
	case errors.Is(err, pngutil.ErrTruncated):
		base = ErrTruncated
	case errors.Is(err, pngutil.ErrMissingHeader):
		base = ErrMissingHeader
	case errors.Is(err, pngutil.ErrSizeMismatch):
		base = ErrSizeMismatch
	case errors.Is(err, pngutil.ErrUnsupportedBitDepth),
		errors.Is(err, pngutil.ErrUnsupportedColorType),
		errors.Is(err, pngutil.ErrUnknownFilter):
		base = ErrUnsupported
	case errors.Is(err, pngutil.ErrInflate):
		base = ErrInflateFailed
	default:
		base = ErrDecodeFailed
	}
	return base.WithDetail("path", path).WithCause(err)
}
