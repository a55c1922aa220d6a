package canvas

import (
	"errors"
	"fmt"
)

var (
	// ErrSaveInProgress is returned when Save is called while another save
	// on the same canvas has not finished. The request is dropped.
	ErrSaveInProgress = errors.New("save already in progress")

	// ErrPersistence matches every *PersistenceError.
	ErrPersistence = errors.New("outfit could not be stored")

	// ErrClosed is returned by Save on a canvas whose view was torn down.
	ErrClosed = errors.New("canvas is closed")
)

// PersistenceError reports a failed hand-off to the persister. The canvas is
// left untouched so the caller can retry.
type PersistenceError struct {
	SubmissionID string
	Err          error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save outfit (submission %s): %v", e.SubmissionID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
