package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "missing input", errType: ErrTypeMissingInput, expected: "MISSING_INPUT"},
		{name: "conversion", errType: ErrTypeConversion, expected: "CONVERSION"},
		{name: "date parse", errType: ErrTypeDateParse, expected: "DATE_PARSE"},
		{name: "storage", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "config", errType: ErrTypeConfig, expected: "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    &AppError{Type: ErrTypeConfig, Message: "shift months must not be zero"},
			wantMessage: "[CONFIG] shift months must not be zero",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeStorage,
				Message: "failed to write output",
				Cause:   fmt.Errorf("disk full"),
			},
			wantMessage: "[STORAGE] failed to write output: disk full",
		},
		{
			name:        "error with empty message",
			appError:    &AppError{Type: ErrTypeConversion},
			wantMessage: "[CONVERSION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := os.ErrNotExist
	err := NewMissingInputError("prices.csv", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var appErr *AppError
	wrapped := fmt.Errorf("run failed: %w", err)
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeMissingInput, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeStorage, Message: "write failed"}
	assert.Nil(t, err.Context)

	result := err.WithContext("path", "out.json").WithContext("records", 12)

	assert.Same(t, err, result)
	assert.Equal(t, "out.json", err.Context["path"])
	assert.Equal(t, 12, err.Context["records"])
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantType    ErrorType
		wantMessage string
		wantContext map[string]interface{}
	}{
		{
			name:        "missing input",
			err:         NewMissingInputError("report.xlsx", nil),
			wantType:    ErrTypeMissingInput,
			wantMessage: "input report.xlsx is not available",
			wantContext: map[string]interface{}{"path": "report.xlsx"},
		},
		{
			name:        "conversion",
			err:         NewConversionError("C4", "n/a", nil),
			wantType:    ErrTypeConversion,
			wantMessage: `cell C4: cannot convert "n/a" to a number`,
			wantContext: map[string]interface{}{"cell": "C4", "value": "n/a"},
		},
		{
			name:        "date parse",
			err:         NewDateParseError("2024/01/01", nil),
			wantType:    ErrTypeDateParse,
			wantMessage: `date "2024/01/01" does not match YYYY-MM-DD`,
			wantContext: map[string]interface{}{"value": "2024/01/01"},
		},
		{
			name:        "storage",
			err:         NewStorageError("failed to create output", nil),
			wantType:    ErrTypeStorage,
			wantMessage: "failed to create output",
			wantContext: map[string]interface{}{},
		},
		{
			name:        "config",
			err:         NewConfigError("invalid configuration", nil),
			wantType:    ErrTypeConfig,
			wantMessage: "invalid configuration",
			wantContext: map[string]interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMessage, tt.err.Message)
			assert.Equal(t, tt.wantContext, tt.err.Context)
		})
	}
}

func TestIsType(t *testing.T) {
	inner := NewDateParseError("bad", nil)
	outer := NewStorageError("aborted", inner)

	assert.True(t, IsType(outer, ErrTypeStorage))
	assert.True(t, IsType(outer, ErrTypeDateParse))
	assert.True(t, IsType(fmt.Errorf("line 3: %w", inner), ErrTypeDateParse))
	assert.False(t, IsType(inner, ErrTypeConversion))
	assert.False(t, IsType(errors.New("plain"), ErrTypeConfig))
	assert.False(t, IsType(nil, ErrTypeConfig))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrTypeConversion, TypeOf(fmt.Errorf("wrap: %w", NewConversionError("B2", "x", nil))))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
}
