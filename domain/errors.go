package domain

import "fmt"

type ErrorType string

const (
	ValidationError     ErrorType = "ValidationError"
	AuthenticationError ErrorType = "AuthenticationError"
	UpstreamError       ErrorType = "UpstreamError"
	// InternalError covers failures local to the gateway, as opposed to
	// provider faults.
	InternalError ErrorType = "InternalError"
)

const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeTextTooLong       = "TEXT_TOO_LONG"
	CodeMissingToken      = "MISSING_TOKEN"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeInvalidNonce      = "INVALID_NONCE"
	CodeInvalidCredential = "INVALID_CREDENTIAL"
	CodeSynthesisFailed   = "SYNTHESIS_FAILED"
	CodeUpstreamTimeout   = "UPSTREAM_TIMEOUT"
	CodeFrontendNotBuilt  = "FRONTEND_NOT_BUILT"
	CodeMetadataFailed    = "METADATA_READ_FAILED"
)

// Error is the gateway's error currency. Adapters and services build these;
// only the controller layer turns them into HTTP statuses.
type Error struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Type, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Type, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewValidationError(code, message string) *Error {
	return &Error{Type: ValidationError, Code: code, Message: message}
}

func NewAuthenticationError(code, message string) *Error {
	return &Error{Type: AuthenticationError, Code: code, Message: message}
}

func NewUpstreamError(code, message string, cause error) *Error {
	return &Error{Type: UpstreamError, Code: code, Message: message, Cause: cause}
}

func NewInternalError(code, message string) *Error {
	return &Error{Type: InternalError, Code: code, Message: message}
}
