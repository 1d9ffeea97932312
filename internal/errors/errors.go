package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitlog/internal/logger"
)

var (
	// ErrNotFound is returned when a habit, note, user or session does not exist
	// for the requesting user.
	ErrNotFound = errors.New("not found")
	// ErrInvalidName is returned when a habit name is empty after trimming.
	ErrInvalidName = errors.New("name must not be empty")
	// ErrInvalidDate is returned for dates that are not YYYY-MM-DD.
	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")
	// ErrInvalidText is returned when a note body is empty after trimming.
	ErrInvalidText = errors.New("note text must not be empty")
	// ErrUnauthorized is returned when a request carries no valid session.
	ErrUnauthorized = errors.New("authentication required")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
