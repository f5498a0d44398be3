// Package errs defines the error kinds shared by the moderation and ticket
// components. Kinds are attached as cockroachdb/errors marks, so errors.Is
// keeps working after the error has been wrapped.
package errs

import (
	cr "github.com/cockroachdb/errors"
)

// Kind classifies an error for the response layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindAuthorization
	KindInvalidTarget
	KindNotFound
	KindInvalidContext
	KindPermissionDenied
	KindTargetNotFound
	KindMalformedRequest
	KindConflict
	KindTransient
	KindParse
)

var (
	ErrConfiguration    = cr.New("configuration error")
	ErrAuthorization    = cr.New("authorization error")
	ErrInvalidTarget    = cr.New("invalid target")
	ErrNotFound         = cr.New("not found")
	ErrInvalidContext   = cr.New("invalid context")
	ErrPermissionDenied = cr.New("platform permission denied")
	ErrTargetNotFound   = cr.New("platform target not found")
	ErrMalformedRequest = cr.New("platform malformed request")
	ErrConflict         = cr.New("platform conflict")
	ErrTransient        = cr.New("platform transient failure")
	ErrParse            = cr.New("parse error")
)

// kinds is ordered; KindOf returns the first match.
var kinds = []struct {
	kind Kind
	ref  error
}{
	{KindConfiguration, ErrConfiguration},
	{KindAuthorization, ErrAuthorization},
	{KindInvalidTarget, ErrInvalidTarget},
	{KindNotFound, ErrNotFound},
	{KindInvalidContext, ErrInvalidContext},
	{KindPermissionDenied, ErrPermissionDenied},
	{KindTargetNotFound, ErrTargetNotFound},
	{KindMalformedRequest, ErrMalformedRequest},
	{KindConflict, ErrConflict},
	{KindTransient, ErrTransient},
	{KindParse, ErrParse},
}

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "ConfigurationError"
	case KindAuthorization:
		return "AuthorizationError"
	case KindInvalidTarget:
		return "InvalidTargetError"
	case KindNotFound:
		return "NotFoundError"
	case KindInvalidContext:
		return "InvalidContext"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindTargetNotFound:
		return "TargetNotFound"
	case KindMalformedRequest:
		return "MalformedRequest"
	case KindConflict:
		return "Conflict"
	case KindTransient:
		return "TransientFailure"
	case KindParse:
		return "ParseError"
	default:
		return "Unknown"
	}
}

func (k Kind) ref() error {
	for _, e := range kinds {
		if e.kind == k {
			return e.ref
		}
	}
	return nil
}

// New returns an error of the given kind. msg is shown to the invoking user.
func New(kind Kind, msg string) error {
	return Mark(cr.NewWithDepth(1, msg), kind)
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...any) error {
	return Mark(cr.NewWithDepthf(1, format, args...), kind)
}

// Mark tags err with kind.
func Mark(err error, kind Kind) error {
	if err == nil {
		return nil
	}
	ref := kind.ref()
	if ref == nil {
		return err
	}
	return cr.Mark(err, ref)
}

// Wrap adds context to err, keeping its kind.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// KindOf reports the kind of err, or KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, e := range kinds {
		if cr.Is(err, e.ref) {
			return e.kind
		}
	}
	return KindUnknown
}

// Is reports whether err carries kind.
func Is(err error, kind Kind) bool {
	ref := kind.ref()
	if ref == nil {
		return false
	}
	return cr.Is(err, ref)
}

// Message returns the innermost message of err, without wrapping prefixes.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return cr.UnwrapAll(err).Error()
}

// WithDetail attaches a user-facing detail, e.g. an API error message.
func WithDetail(err error, detail string) error {
	if err == nil || detail == "" {
		return err
	}
	return cr.WithDetail(err, detail)
}

// Detail returns the last detail attached to err, if any.
func Detail(err error) string {
	details := cr.GetAllDetails(err)
	if len(details) == 0 {
		return ""
	}
	return details[len(details)-1]
}
