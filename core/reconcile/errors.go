package reconcile

import "fmt"

// ListError wraps a failure while paging through a remote collection.
// A list failure aborts the affected sync type; partially accumulated pages
// are never acted on.
type ListError struct {
	Collection string
	Err        error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("listing %s: %v", e.Collection, e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}

// WriteError wraps a single unit's failure during apply. Write errors are
// collected across a bucket and reported together; they never cancel
// sibling units.
type WriteError struct {
	Op  string
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
