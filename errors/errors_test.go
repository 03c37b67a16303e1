package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsSentinel(t *testing.T) {
	err := Wrap(ErrCompilation, "failed to resolve models")

	assert.True(t, Is(err, ErrCompilation))
	assert.Contains(t, err.Error(), "failed to resolve models")
	assert.Contains(t, err.Error(), "compilation failed")
}

func TestSentinelPredicates(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		compilation bool
		config      bool
	}{
		{"nil", nil, false, false},
		{"compilation", Wrap(ErrCompilation, "ctx"), true, false},
		{"no models", WithHint(ErrNoModels, "pass --model"), false, true},
		{"invalid config", NewInvalidConfigError("input_dir %q does not exist", "/nope"), false, true},
		{"out of date", ErrOutOfDate, false, false},
		{"unrelated", New("boom"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.compilation, IsCompilationError(tt.err))
			assert.Equal(t, tt.config, tt.err != nil && (Is(tt.err, ErrNoModels) || Is(tt.err, ErrInvalidConfig)))
		})
	}
}

func TestNewInvalidConfigError(t *testing.T) {
	err := NewInvalidConfigError("cache.parsed_units must be positive, got %d", -1)

	require.Error(t, err)
	assert.True(t, Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "cache.parsed_units must be positive, got -1")
}

type diagnosticsError struct {
	count int
}

func (e *diagnosticsError) Error() string { return fmt.Sprintf("%d diagnostics", e.count) }
func (e *diagnosticsError) Unwrap() error { return ErrCompilation }

func TestCustomErrorUnwrapsToSentinel(t *testing.T) {
	err := Wrap(&diagnosticsError{count: 3}, "resolve")

	assert.True(t, IsCompilationError(err))

	var target *diagnosticsError
	require.True(t, As(err, &target))
	assert.Equal(t, 3, target.count)
}

func TestHintsSurviveWrapping(t *testing.T) {
	err := WithHint(ErrNoModels, "pass at least one --model")
	err = WithHintf(err, "or set models in %s", "modelexport.toml")
	err = Wrap(err, "export")

	assert.True(t, Is(err, ErrNoModels))
	assert.Equal(t, []string{"pass at least one --model", "or set models in modelexport.toml"}, GetAllHints(err))
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithHintf(nil, "hint %d", 1))
}

func ExampleWithHint() {
	err := WithHint(ErrNoModels, "pass at least one --model")

	fmt.Println(err)
	fmt.Println(GetAllHints(err)[0])
	// Output:
	// no models requested
	// pass at least one --model
}
