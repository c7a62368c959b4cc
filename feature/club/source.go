package club

import (
	"context"
	"fmt"
	"os"
	"time"

	"scma-sync/core/model"

	"gopkg.in/yaml.v3"
)

// Source provides the club records a sync run consumes. Records are
// fetched once per run and treated as read-only afterwards.
type Source interface {
	// FetchEvents returns the listed events matching the date filter.
	FetchEvents(ctx context.Context, sel model.DateSelect) ([]model.Event, error)
	// FetchEventDetails enriches a listed event with its comments and
	// attendees.
	FetchEventDetails(ctx context.Context, ev model.Event) (model.Event, error)
	// FetchUsers returns the current member roster.
	FetchUsers(ctx context.Context) ([]model.User, error)
}

// SourceError wraps a failure to obtain source records. A sync that needs
// the records aborts; it never proceeds on a partial fetch.
type SourceError struct {
	Op  string
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Op, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Document is the on-disk shape a FileSource reads and the fetch command
// writes, so a fetched snapshot can be fed back in unchanged.
type Document struct {
	Events []model.Event `yaml:"events"`
	Users  []model.User  `yaml:"users,omitempty"`
}

// FileSource serves events and users from a YAML snapshot. It backs
// offline runs and tests; listed events already carry their details, so
// the detail fetch is a passthrough.
type FileSource struct {
	doc Document
	now func() time.Time
}

// NewFileSource reads and parses the snapshot at path.
func NewFileSource(path string) (*FileSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &SourceError{Op: "snapshot", Err: err}
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &SourceError{Op: "snapshot", Err: fmt.Errorf("parsing %s: %w", path, err)}
	}
	return &FileSource{doc: doc, now: time.Now}, nil
}

func (f *FileSource) FetchEvents(_ context.Context, sel model.DateSelect) ([]model.Event, error) {
	if sel == model.DateSelectAll {
		return f.doc.Events, nil
	}

	today := f.now().Truncate(24 * time.Hour)
	events := make([]model.Event, 0, len(f.doc.Events))
	for _, ev := range f.doc.Events {
		if ev.EndDate.Before(today) {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func (f *FileSource) FetchEventDetails(_ context.Context, ev model.Event) (model.Event, error) {
	return ev, nil
}

func (f *FileSource) FetchUsers(_ context.Context) ([]model.User, error) {
	return f.doc.Users, nil
}
