// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for HTTP translation and recovery policy.
type Kind int

const (
	// KindValidation marks bad caller input. Maps to 400.
	KindValidation Kind = iota
	// KindNotFound marks a missing or not-owned resource. Maps to 404.
	KindNotFound
	// KindUpstream marks a failed or timed-out dependency call. Maps to 502.
	KindUpstream
)

// ErrStreamInterrupted signals that the caller went away mid-stream.
// It is recovered by discarding the partial buffer, never surfaced to a client.
var ErrStreamInterrupted = errors.New("stream interrupted by caller")

// Error carries a kind alongside the message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap annotates a cause with a kind and message.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Validationf builds a validation error from a format string.
func Validationf(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a not-found error from a format string.
func NotFoundf(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Upstreamf builds an upstream error wrapping the cause.
func Upstreamf(err error, format string, args ...interface{}) error {
	return &Error{Kind: KindUpstream, Msg: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err (or anything it wraps) carries the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

// IsUpstream reports whether err is an upstream error.
func IsUpstream(err error) bool { return IsKind(err, KindUpstream) }
