package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil error", err: nil, want: ""},
		{name: "plain error", err: errors.New("boom"), want: "Error: boom"},
		{name: "wrapped sentinel", err: fmt.Errorf("habit abc: %w", ErrNotFound), want: "Error: habit abc: not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsWrapped(t *testing.T) {
	err := fmt.Errorf("rename: %w", ErrInvalidName)
	if !Is(err, ErrInvalidName) {
		t.Error("Is() should see through wrapping")
	}
	if Is(err, ErrInvalidDate) {
		t.Error("Is() matched the wrong sentinel")
	}
}
