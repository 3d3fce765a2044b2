package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/trackit/internal/logger"
)

var (
	// ErrCategoryNotEmpty is returned when deleting a category that trackers still reference.
	ErrCategoryNotEmpty = stderrors.New("category still has trackers")
	// ErrCategoryExists is returned when renaming a category onto a title that is already taken.
	ErrCategoryExists = stderrors.New("a category with this title already exists")
	// ErrFutureDay is returned when marking a tracker on a day after today.
	ErrFutureDay = stderrors.New("cannot mark a tracker for a future date")
)

// StorageError reports that a persistence operation failed and the change was not saved.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err as a *StorageError. It returns nil for a nil err and
// leaves errors that already carry a StorageError untouched.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if stderrors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorage reports whether err wraps a *StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return stderrors.As(err, &se)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
