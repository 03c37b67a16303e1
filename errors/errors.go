// Package errors provides error handling for modelexport.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints
//
// Usage:
//
//	// Wrap with context
//	if err := loadCorpus(); err != nil {
//	    return errors.Wrap(err, "failed to enumerate source corpus")
//	}
//
//	// Add hints for users
//	return errors.WithHint(errors.ErrNoModels, "pass at least one --model")
//
//	// Check errors
//	if errors.Is(err, errors.ErrCompilation) {
//	    // diagnostics were already reported
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New   = crdb.New
	Newf  = crdb.Newf
	Wrap  = crdb.Wrap
	Wrapf = crdb.Wrapf
)

// User-facing hints
var (
	WithHint  = crdb.WithHint
	WithHintf = crdb.WithHintf
)

// Error inspection
var (
	Is          = crdb.Is
	As          = crdb.As
	GetAllHints = crdb.GetAllHints
)

// Sentinel errors for the export pipeline.
// Use these with errors.Is() and wrap them to add context.
var (
	// ErrNoModels indicates the run was started without any requested model names
	ErrNoModels = New("no models requested")

	// ErrInvalidConfig indicates a missing or malformed configuration value
	ErrInvalidConfig = New("invalid configuration")

	// ErrCompilation indicates the retained sources did not type-check
	ErrCompilation = New("compilation failed")

	// ErrOutOfDate indicates the generated output differs from the file on disk
	ErrOutOfDate = New("generated output is out of date")
)

// IsCompilationError checks if an error is or wraps ErrCompilation
func IsCompilationError(err error) bool {
	return err != nil && Is(err, ErrCompilation)
}

// NewInvalidConfigError creates an invalid-config error with a formatted message
func NewInvalidConfigError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidConfig, Newf(format, args...).Error())
}
