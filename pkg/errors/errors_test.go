package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad input", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("missing id"), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("slot taken"), CodeConflict, http.StatusConflict},
		{"invalid state", InvalidState("already completed"), CodeInvalidState, http.StatusConflict},
		{"unauthorized", Unauthorized("no token"), CodeUnauthorized, http.StatusUnauthorized},
		{"internal", Internal("boom", errors.New("cause")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.StatusCode())
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("driver exploded")
	err := Internal("storage failure", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestAsAppErrorWrapsUnknownErrors(t *testing.T) {
	plain := errors.New("some driver error")
	appErr := AsAppError(plain)

	if appErr.Code != CodeInternal {
		t.Errorf("expected %s, got %s", CodeInternal, appErr.Code)
	}
	if appErr.StatusCode() != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", appErr.StatusCode())
	}
}

func TestAsAppErrorPreservesWrappedAppError(t *testing.T) {
	inner := Conflict("duplicate favorite")
	wrapped := fmt.Errorf("adding favorite: %w", inner)

	got := AsAppError(wrapped)
	if got.Code != CodeConflict {
		t.Errorf("expected %s, got %s", CodeConflict, got.Code)
	}
}

func TestNotFoundWithIDDetails(t *testing.T) {
	err := NotFoundWithID("Booking", "abc123")
	if err.Details["id"] != "abc123" {
		t.Errorf("expected id detail, got %v", err.Details)
	}
	if err.Details["resource"] != "Booking" {
		t.Errorf("expected resource detail, got %v", err.Details)
	}
}
