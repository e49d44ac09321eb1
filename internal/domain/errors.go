package domain

import (
	"errors"
	"fmt"
)

// Sentinel kinds for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Machine-readable codes returned to callers alongside the human message.
// Newer clients key field-level UI feedback off these.
const (
	CodeFieldRequired          = "FIELD_REQUIRED"
	CodeInvalidData            = "INVALID_DATA"
	CodeNotFound               = "NOT_FOUND"
	CodeAlreadyExists          = "ALREADY_EXISTS"
	CodeOtpRequired            = "OTP_REQUIRED"
	CodeOtpExpired             = "OTP_EXPIRED"
	CodeInvalidCode            = "INVALID_CODE"
	CodeOtpAlreadyUsed         = "OTP_ALREADY_USED"
	CodeTokenInvalid           = "TOKEN_INVALID"
	CodeTokenExpired           = "TOKEN_EXPIRED"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeRegistrationIncomplete = "REGISTRATION_INCOMPLETE"
	CodeServerError            = "SERVER_ERROR"
)

// Error is the tagged error variant services return. Kind is one of the
// sentinels above and drives the HTTP status; Code and Details travel to the
// client unchanged.
type Error struct {
	Kind    error
	Code    string
	Message string
	Details map[string]string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// E builds a domain error from a kind, code and message.
func E(kind error, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Ef is E with a formatted message.
func Ef(kind error, code, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails attaches field-level details for UI feedback.
func (e *Error) WithDetails(details map[string]string) *Error {
	e.Details = details
	return e
}

// CodeOf extracts the machine-readable code from err, or CodeServerError for
// anything that is not a *Error.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Code != "" {
		return de.Code
	}
	return CodeServerError
}

// DetailsOf extracts structured details from err, if any.
func DetailsOf(err error) map[string]string {
	var de *Error
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}
