package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantNotFound bool
		wantConflict bool
	}{
		{"not found constructor", NewNotFoundError("no such profile"), true, false},
		{"conflict constructor", NewConflictError("already joined"), false, true},
		{"profile not found sentinel", ErrProfileNotFound, true, false},
		{"post not found sentinel", ErrPostNotFound, true, false},
		{"student id conflict sentinel", ErrStudentIDAlreadyExists, false, true},
		{"already joined sentinel", ErrAlreadyJoined, false, true},
		{"wrapped conflict", fmt.Errorf("joining: %w", ErrAlreadyJoined), false, true},
		{"wrapped not found", fmt.Errorf("lookup: %w", ErrProfileNotFound), true, false},
		{"transient error is neither", errors.New("connection reset"), false, false},
		{"bad request is neither", NewBadRequestError("missing field"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.wantNotFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.wantNotFound)
			}
			if got := IsConflict(tt.err); got != tt.wantConflict {
				t.Errorf("IsConflict() = %v, want %v", got, tt.wantConflict)
			}
		})
	}
}

func TestCustomErrorUnwrap(t *testing.T) {
	err := NewCustomError(ErrAlreadyJoined, "user already in room")

	if !errors.Is(err, ErrAlreadyJoined) {
		t.Error("errors.Is() lost the wrapped sentinel")
	}
	if err.Error() != "user already in room" {
		t.Errorf("Error() = %q, want the message", err.Error())
	}

	bare := &CustomError{Err: ErrNotFound}
	if bare.Error() != ErrNotFound.Error() {
		t.Errorf("Error() without message = %q, want the wrapped error text", bare.Error())
	}
}

func TestCustomErrorDetails(t *testing.T) {
	err := NewCustomError(ErrValidationFailed, "invalid input").
		WithCode("VAL_001").
		WithDetails(map[string]interface{}{"field": "nickname"})

	if err.Code != "VAL_001" {
		t.Errorf("Code = %q, want VAL_001", err.Code)
	}
	if err.Details["field"] != "nickname" {
		t.Errorf("Details[field] = %v, want nickname", err.Details["field"])
	}
}
