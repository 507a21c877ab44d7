package gitlab

import (
	"errors"
	"fmt"
)

// ErrorKind classifies API failures so the UI can phrase them and
// decide what (if anything) to invalidate. None of these are fatal;
// the user retries with a manual refresh.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindAuth
	KindNotFound
	KindParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "authentication"
	case KindNotFound:
		return "not found"
	case KindParse:
		return "parse"
	default:
		return "network"
	}
}

// Error is a typed API failure. Message is already human-readable.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Kind extracts the classification from err, defaulting to network for
// anything that is not a *Error (transport failures, timeouts).
func Kind(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNetwork
}

func authError(msg string) *Error     { return &Error{Kind: KindAuth, Message: msg} }
func notFoundError(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func networkError(msg string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: msg, Err: err}
}

func parseError(msg string, err error) *Error {
	return &Error{Kind: KindParse, Message: msg, Err: err}
}
