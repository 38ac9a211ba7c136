package docplan

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
	EMISMATCH = "mismatch"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("docplan error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Locator mismatches report EMISMATCH. Non-application errors always
// return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var me *MismatchError
	if errors.As(err, &me) {
		return EMISMATCH
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var me *MismatchError
	if errors.As(err, &me) {
		return me.Error()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

// MaxSnippetLen bounds the markup carried by a MismatchError.
const MaxSnippetLen = 2000

// MismatchError reports a required locator that matched no elements.
// It is the only failure the plan repair loop can recover from.
type MismatchError struct {
	// Locator is the selector that failed.
	Locator string

	// Snippet is the leading part of the markup the locator was run against.
	Snippet string
}

// NewMismatchError returns a MismatchError carrying at most MaxSnippetLen
// bytes of html, cut on a rune boundary.
func NewMismatchError(locator, html string) *MismatchError {
	return &MismatchError{
		Locator: locator,
		Snippet: truncate(html, MaxSnippetLen),
	}
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("locator %q matched no elements", e.Locator)
}

// AsMismatch reports whether err wraps a MismatchError and returns it.
func AsMismatch(err error) (*MismatchError, bool) {
	var me *MismatchError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// StatusError reports a non-success HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// Permanent reports whether repeating the request cannot change the outcome.
// Client errors are permanent except 408 and 429.
func (e *StatusError) Permanent() bool {
	switch {
	case e.StatusCode == 408, e.StatusCode == 429:
		return false
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return true
	}
	return false
}

// truncate returns at most n bytes of s without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
