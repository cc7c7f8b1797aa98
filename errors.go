package idjwt

import "fmt"

// ErrorCode represents token failure categories.
type ErrorCode string

const (
	ErrCodeMissingArgument     ErrorCode = "missing_argument"
	ErrCodeInvalidKeyMaterial  ErrorCode = "invalid_key_material"
	ErrCodeTokenCreationFailed ErrorCode = "token_creation_failed"
	ErrCodeTokenExpired        ErrorCode = "token_expired"
	ErrCodeInvalidToken        ErrorCode = "invalid_token"
)

var errorMessages = map[ErrorCode]string{
	ErrCodeMissingArgument:     "Missing argument",
	ErrCodeInvalidKeyMaterial:  "Invalid key material",
	ErrCodeTokenCreationFailed: "Token creation failed",
	ErrCodeTokenExpired:        "Token expired",
	ErrCodeInvalidToken:        "Invalid token",
}

// Error wraps token errors with a stable code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	base := e.Message
	if base == "" {
		base = string(e.Code)
	}
	if e.Err == nil {
		return base
	}
	return fmt.Sprintf("%s: %v", base, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, err error) error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = string(code)
	}
	return &Error{Code: code, Message: msg, Err: err}
}
