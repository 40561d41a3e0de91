package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

// TestAppErrorImplementsError verifies that *AppError satisfies the error interface.
func TestAppErrorImplementsError(t *testing.T) {
	var _ error = (*AppError)(nil)
}

// TestAppErrorErrorFormat verifies the Error() method produces "code: message".
func TestAppErrorErrorFormat(t *testing.T) {
	appErr := &AppError{
		Code:    ErrCodeNotFoundLocation,
		Message: "Location not found",
	}

	expected := "not_found_location: Location not found"
	if appErr.Error() != expected {
		t.Errorf("Error() = %q, want %q", appErr.Error(), expected)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	underlying := errors.New("connection refused")
	appErr := &AppError{
		Code:    ErrCodeInternalDB,
		Message: "failed to append history",
		Err:     underlying,
	}

	if appErr.Unwrap() != underlying {
		t.Errorf("Unwrap() returned unexpected error: got %v, want %v", appErr.Unwrap(), underlying)
	}
	if !errors.Is(appErr, underlying) {
		t.Error("errors.Is should find the underlying error")
	}
}

// TestAppErrorErrorsAs verifies that errors.As can extract AppError from an error chain.
func TestAppErrorErrorsAs(t *testing.T) {
	appErr := NewAppError(ErrCodeUpstreamGeocoding, "geocoding unavailable", nil)
	wrapped := fmt.Errorf("pipeline: %w", appErr)

	var target *AppError
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As should extract *AppError from wrapped error")
	}
	if target.Code != ErrCodeUpstreamGeocoding {
		t.Errorf("Code = %q, want %q", target.Code, ErrCodeUpstreamGeocoding)
	}
	if !HasCode(wrapped, ErrCodeUpstreamGeocoding) {
		t.Error("HasCode should match through the wrap")
	}
	if HasCode(wrapped, ErrCodeNotFoundLocation) {
		t.Error("HasCode should not match a different code")
	}
	if HasCode(errors.New("plain"), ErrCodeNotFoundLocation) {
		t.Error("HasCode should be false for non-AppErrors")
	}
}

func TestErrorCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationInvalidJSON, http.StatusBadRequest},
		{ErrCodeValidationMissingField, http.StatusBadRequest},
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeNotFoundLocation, http.StatusNotFound},
		{ErrCodeRateLimit, http.StatusTooManyRequests},
		{ErrCodeUpstreamGeocoding, http.StatusBadGateway},
		{ErrCodeUpstreamWeather, http.StatusBadGateway},
		{ErrCodeUpstreamPlaces, http.StatusBadGateway},
		{ErrCodeUpstreamUnavailable, http.StatusBadGateway},
		{ErrCodeUpstreamRateLimited, http.StatusBadGateway},
		{ErrCodeInternalDB, http.StatusInternalServerError},
		{ErrCodeInternalUnexpected, http.StatusInternalServerError},
		{ErrorCode("something_else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAppErrorWithDetails(t *testing.T) {
	orig := NewAppErrorWithDetails(ErrCodeValidationFailed, "bad input", nil, map[string]any{"a": 1})
	got := orig.WithDetails(map[string]any{"b": 2})

	if len(orig.Details) != 1 {
		t.Errorf("original details mutated: %v", orig.Details)
	}
	if got.Details["a"] != 1 || got.Details["b"] != 2 {
		t.Errorf("merged details = %v", got.Details)
	}
	if got.Code != orig.Code || got.Message != orig.Message {
		t.Error("WithDetails should preserve code and message")
	}
}
