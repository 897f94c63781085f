package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "message only",
			err: &Error{
				Code:    EINVALID,
				Message: "invalid input",
			},
			expected: "invalid input",
		},
		{
			name: "with operation",
			err: &Error{
				Code:    EINVALID,
				Op:      "cart.add",
				Message: "invalid input",
			},
			expected: "cart.add: invalid input",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EINTERNAL,
				Op:      "catalog.list",
				Message: "failed to load products",
				Err:     errors.New("connection refused"),
			},
			expected: "catalog.list: failed to load products: connection refused",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "failed to load products",
				Err:     errors.New("connection refused"),
			},
			expected: "failed to load products: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &Error{
		Code:    EINTERNAL,
		Message: "wrapped",
		Err:     underlying,
	}

	if unwrapped := err.Unwrap(); unwrapped != underlying {
		t.Errorf("Error.Unwrap() = %v, want %v", unwrapped, underlying)
	}

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "domain error",
			err:      &Error{Code: ENOTFOUND, Message: "not found"},
			expected: ENOTFOUND,
		},
		{
			name:     "wrapped domain error",
			err:      fmt.Errorf("context: %w", &Error{Code: EINVALID, Message: "bad"}),
			expected: EINVALID,
		},
		{
			name:     "stock error",
			err:      &StockError{ProductID: 1, ProductName: "Jamón Serrano", Requested: 10, Available: 3},
			expected: ECONFLICT,
		},
		{
			name:     "validation error",
			err:      NewValidationError("checkout.next", "email", "Email es obligatorio"),
			expected: EINVALID,
		},
		{
			name:     "handoff error",
			err:      &HandoffError{Collaborator: "notification", Err: errors.New("timeout")},
			expected: EUNAVAILABLE,
		},
		{
			name:     "plain error",
			err:      errors.New("something broke"),
			expected: EINTERNAL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "user-facing message passes through",
			err:      &Error{Code: EINVALID, Message: "Quantity must be greater than 0"},
			expected: "Quantity must be greater than 0",
		},
		{
			name:     "internal error hides details",
			err:      &Error{Code: EINTERNAL, Message: "db exploded", Err: errors.New("panic")},
			expected: "An internal error occurred. Please try again later.",
		},
		{
			name:     "plain error hides details",
			err:      errors.New("secret infra detail"),
			expected: "An internal error occurred. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidationError_Fields(t *testing.T) {
	err := &ValidationError{
		Op: "checkout.next",
		Fields: map[string]string{
			"name":  "Nombre es obligatorio",
			"email": "Email es obligatorio",
		},
	}

	if !IsValidationError(err) {
		t.Error("IsValidationError should be true")
	}

	fields := GetValidationFields(fmt.Errorf("wrap: %w", err))
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields["email"] != "Email es obligatorio" {
		t.Errorf("unexpected email message: %q", fields["email"])
	}
}

func TestStockError(t *testing.T) {
	err := &StockError{ProductID: 7, ProductName: "Salame Milano", Requested: 40, Available: 30}

	if !IsStockError(err) {
		t.Error("IsStockError should be true")
	}
	if IsStockError(errors.New("nope")) {
		t.Error("IsStockError should be false for plain errors")
	}

	want := "insufficient stock for Salame Milano: requested 40, available 30"
	if err.Error() != want {
		t.Errorf("StockError.Error() = %q, want %q", err.Error(), want)
	}
}

func TestHandoffError_Unwrap(t *testing.T) {
	underlying := errors.New("whatsapp unreachable")
	err := &HandoffError{Collaborator: "notification", Err: underlying}

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
	if !IsHandoffError(fmt.Errorf("confirm: %w", err)) {
		t.Error("IsHandoffError should see through wrapping")
	}
}
