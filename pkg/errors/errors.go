package errors

import (
	"errors"
	"fmt"
)

// Error codes understood by the HTTP boundary. Every AppError carries one of them.
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL"
)

var (
	ErrInvalidCredentials = Unauthorized("invalid email or password")
	ErrInvalidToken       = Unauthorized("invalid or expired token")
	ErrUnauthorized       = Unauthorized("unauthorized request")
	ErrOldPasswordInvalid = Unauthorized("old password is not correct")

	ErrUserNotFound      = NotFound("user not found")
	ErrUserAlreadyExists = Conflict("user with this email or username already exists")
	ErrReportNotFound    = NotFound("no report found")

	ErrInvalidReportID = InvalidInput("not a valid report id", nil)
	ErrInvalidUserID   = InvalidInput("not a valid user id", nil)
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func InvalidInput(message string, err error) *AppError {
	return NewAppError(CodeInvalidInput, message, err)
}

func Unauthorized(message string) *AppError {
	return NewAppError(CodeUnauthorized, message, nil)
}

func NotFound(message string) *AppError {
	return NewAppError(CodeNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return NewAppError(CodeConflict, message, nil)
}

// Internal hides err from clients; only Message is ever rendered.
func Internal(message string, err error) *AppError {
	return NewAppError(CodeInternal, message, err)
}

// CodeOf returns the code of the outermost AppError in err's chain,
// or CodeInternal when there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
