package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/routinelog/internal/logger"
)

var (
	// Friend-sharing outcomes surfaced to the caller
	ErrRequestPending = errors.New("Request already pending")
	ErrAlreadyFriends = errors.New("Already friends")
	ErrSelfRequest    = errors.New("cannot send a friend request to yourself")
	ErrNotFriends     = errors.New("not friends")
	ErrRequestClosed  = errors.New("friend request already answered")
)

// StoreWriteError reports a failed mutation against the document store.
type StoreWriteError struct {
	Op  string
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// WriteFailed wraps err as a StoreWriteError for op. A nil err returns nil.
func WriteFailed(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreWriteError{Op: op, Err: err}
}

// IsWriteError reports whether err is (or wraps) a StoreWriteError.
func IsWriteError(err error) bool {
	var we *StoreWriteError
	return errors.As(err, &we)
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
