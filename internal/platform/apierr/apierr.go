package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for every failure class the catalog surface can produce.
// Validation failures are rejected before any store call; upload and
// persistence failures abort the enclosing mutation.
const (
	CodeUnsupportedType   = "validation.unsupported_type"
	CodeTooLarge          = "validation.too_large"
	CodeUploadFailed      = "upload.failed"
	CodePersistenceFailed = "persistence.failed"
	CodeNotFound          = "persistence.not_found"
	CodeNotUpdatable      = "catalog.not_updatable"
	CodeInvalidCredential = "auth.invalid_credential"
	CodeAuthOther         = "auth.other"
	CodeUnknownGate       = "gate.unknown_session"
	CodeBadRequest        = "request.invalid"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func UnsupportedType(declared string) *Error {
	return New(http.StatusBadRequest, CodeUnsupportedType, fmt.Errorf("file type %q is not accepted", declared))
}

func TooLarge(size, max int64) *Error {
	return New(http.StatusBadRequest, CodeTooLarge, fmt.Errorf("file is %d bytes, limit is %d", size, max))
}

func Upload(err error) *Error {
	return New(http.StatusBadGateway, CodeUploadFailed, err)
}

func Persistence(err error) *Error {
	return New(http.StatusInternalServerError, CodePersistenceFailed, err)
}

func NotFound(err error) *Error {
	return New(http.StatusNotFound, CodeNotFound, err)
}

func InvalidCredential() *Error {
	return New(http.StatusUnauthorized, CodeInvalidCredential, errors.New("invalid email or password"))
}

// Code extracts the api error code from err, or "" when err is not an
// *Error anywhere in its chain.
func Code(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// Status maps err onto an HTTP status, defaulting to 500.
func Status(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}
