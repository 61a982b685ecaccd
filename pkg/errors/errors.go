package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeAuth            ErrorType = "auth"
	ErrorTypeBadCredentials  ErrorType = "bad_credentials"
	ErrorTypeTwoFactor       ErrorType = "two_factor"
	ErrorTypeCheckpoint      ErrorType = "checkpoint"
	ErrorTypeProfileNotFound ErrorType = "profile_not_found"
	ErrorTypePrivateProfile  ErrorType = "private_profile"
	ErrorTypeDownload        ErrorType = "download"
	ErrorTypeConfig          ErrorType = "config"
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeRateLimit       ErrorType = "rate_limit"
	ErrorTypeParsing         ErrorType = "parsing"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeServerError     ErrorType = "server_error"
	ErrorTypeUnknown         ErrorType = "unknown"
)

// Error represents a typed failure with an optional HTTP status code
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error
func New(t ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a typed error around an underlying cause
func Wrap(t ErrorType, err error, message string) *Error {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %v", message, err)
	}
	return &Error{Type: t, Message: msg, Err: err}
}

// TypeOf returns the type of the first *Error in the chain, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsType reports whether err carries the given type
func IsType(err error, t ErrorType) bool {
	if err == nil {
		return false
	}
	return TypeOf(err) == t
}

// MessageOf returns the bare message of a typed error, or err.Error() otherwise
func MessageOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsAuthFailure reports whether err should abort the whole run
func IsAuthFailure(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeAuth, ErrorTypeBadCredentials, ErrorTypeTwoFactor, ErrorTypeCheckpoint:
		return true
	default:
		return false
	}
}

// FromStatusCode maps an HTTP status code to an error type
func FromStatusCode(statusCode int) ErrorType {
	switch {
	case statusCode == 0:
		return ErrorTypeNetwork
	case statusCode == 401 || statusCode == 403:
		return ErrorTypeAuth
	case statusCode == 404:
		return ErrorTypeNotFound
	case statusCode == 429:
		return ErrorTypeRateLimit
	case statusCode >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeUnknown
	}
}
