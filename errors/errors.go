// Package errors provides error handling for changeset.
//
// This package re-exports github.com/cockroachdb/errors so every package
// wraps, inspects and annotates errors the same way:
//
//	if err := repo.Tag(ctx, name, commit); err != nil {
//	    return errors.Wrapf(err, "failed to create tag %s", name)
//	}
//
//	// Operator-facing remediation
//	return errors.WithHint(err, "pass an explicit start hash")
//
// Sentinels below are compared with errors.Is after any amount of wrapping.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// Operator-facing hints and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
	GetAllHints        = crdb.GetAllHints
	GetAllDetails      = crdb.GetAllDetails
	FlattenHints       = crdb.FlattenHints
)

// Inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Sentinel errors shared by the vcs, tracker and release packages.
var (
	// ErrNotFound indicates the tag, ref or issue does not exist
	ErrNotFound = New("not found")

	// ErrUnauthorized indicates the tracker rejected the credentials
	ErrUnauthorized = New("unauthorized")

	// ErrInvalidRequest indicates the request or configuration was malformed
	ErrInvalidRequest = New("invalid request")

	// ErrServiceUnavailable indicates an external service could not be reached
	ErrServiceUnavailable = New("service unavailable")

	// ErrNoReleaseTag indicates no D.<n> tag exists to anchor a commit range
	ErrNoReleaseTag = New("no release tag found")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsUnauthorizedError checks if an error is or wraps ErrUnauthorized
func IsUnauthorizedError(err error) bool {
	return err != nil && Is(err, ErrUnauthorized)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsServiceUnavailableError checks if an error is or wraps ErrServiceUnavailable
func IsServiceUnavailableError(err error) bool {
	return err != nil && Is(err, ErrServiceUnavailable)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}
