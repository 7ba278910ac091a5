package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is the type of error returned when a remote endpoint cannot be
// reached or answers with a non-success status. It contains the HTTP status
// code so that callers can distinguish a missing document from a failing
// service. A status of 0 means the request never produced a response.
type Error struct {
	err    error
	status int
}

func New(err error, status int) *Error {
	return &Error{
		err:    err,
		status: status,
	}
}

// FromResponse creates an Error from a response status and body. The body
// text, if any, becomes the error message.
func FromResponse(status int, body []byte) error {
	var err error
	text := strings.TrimSpace(string(body))
	if text != "" {
		err = errors.New(text)
	}
	if status == 0 {
		return err
	}
	return New(err, status)
}

// FromTransport wraps a transport failure, one where no HTTP response was
// received, as an Error with no status.
func FromTransport(err error) error {
	if err == nil {
		return nil
	}
	return New(err, 0)
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	if e.status == 0 {
		return ""
	}
	// If there is only status, then return status text
	if text := http.StatusText(e.status); text != "" {
		return fmt.Sprintf("%d %s", e.status, text)
	}
	return fmt.Sprintf("%d", e.status)
}

func (e *Error) Status() int {
	return e.status
}

func (e *Error) Unwrap() error {
	return e.err
}

// IsNotFound reports whether err is an Error with status 404.
func IsNotFound(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status() == http.StatusNotFound
}

// DecodeError reports malformed JSON, either in a remote payload or in a
// persisted cache entry. Source names where the data came from.
type DecodeError struct {
	Source string
	Err    error
}

func NewDecodeError(source string, err error) *DecodeError {
	return &DecodeError{
		Source: source,
		Err:    err,
	}
}

func (e *DecodeError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("cannot decode: %s", e.Err)
	}
	return fmt.Sprintf("cannot decode %s: %s", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
