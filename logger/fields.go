package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRunID     = "run_id"
	FieldComponent = "component"

	// Closure and resolution
	FieldModel    = "model"
	FieldModels   = "models"
	FieldPass     = "pass"
	FieldWanted   = "wanted"
	FieldRetained = "retained"
	FieldPackage  = "package"
	FieldType     = "type"
	FieldKind     = "kind"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"
	FieldSize  = "size"

	// Files and paths
	FieldFile   = "file"
	FieldDir    = "dir"
	FieldOutput = "output"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Builder struct {
//	    log *zap.SugaredLogger
//	}
//
//	func NewBuilder() *Builder {
//	    return &Builder{log: logger.ComponentLogger("closure")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	runLogger := logger.ChildLogger(base, logger.FieldRunID, id)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
