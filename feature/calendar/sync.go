package calendar

import (
	"context"
	"errors"
	"fmt"

	"scma-sync/core/model"
	"scma-sync/core/reconcile"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

// eventWriteWidth is the worker pool width for event writes. The events
// endpoint tolerates a few concurrent writers.
const eventWriteWidth = 3

// calendarDescription is the body text given to a newly created calendar.
const calendarDescription = "SCMA events. Synchronized from the club site by scma-sync. " +
	"Do not edit synced events here; changes are overwritten on the next run."

// Service synchronizes club events and the sharing ACL with one Google
// calendar.
type Service struct {
	api        API
	log        *zap.Logger
	calendarID string
	dryRun     bool
}

// New locates the working calendar by name among the caller's calendars.
// If the calendar is absent it is created with a fixed descriptive body;
// under dry run an absent calendar is a fatal error since there is no
// target to diff against.
func New(ctx context.Context, log *zap.Logger, api API, calendarName string, dryRun bool) (*Service, error) {
	log.Info("Finding calendar", zap.String("calendar_name", calendarName))

	entries, err := reconcile.ListAll(ctx, "calendar list",
		func(ctx context.Context, pageToken string) ([]*calendar.CalendarListEntry, string, error) {
			list, err := api.ListCalendars(ctx, pageToken)
			if err != nil {
				return nil, "", err
			}
			return list.Items, list.NextPageToken, nil
		})
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.Summary == calendarName {
			log.Info("Found calendar", zap.String("calendar_id", entry.Id))
			return &Service{api: api, log: log, calendarID: entry.Id, dryRun: dryRun}, nil
		}
	}

	if dryRun {
		return nil, fmt.Errorf("calendar %q not found and dry run cannot create it", calendarName)
	}

	log.Info("Calendar not found, creating", zap.String("calendar_name", calendarName))
	created, err := api.CreateCalendar(ctx, &calendar.Calendar{
		Summary:     calendarName,
		Description: calendarDescription,
	})
	if err != nil {
		return nil, fmt.Errorf("creating calendar %q: %w", calendarName, err)
	}
	log.Info("Created calendar", zap.String("calendar_id", created.Id))

	return &Service{api: api, log: log, calendarID: created.Id, dryRun: dryRun}, nil
}

// CalendarID returns the resolved remote calendar id.
func (s *Service) CalendarID() string {
	return s.calendarID
}

// SyncEvents upserts every source event into the calendar. Each event is
// patched by its deterministic id first; when the id does not exist yet the
// write falls back to an insert. No prior listing is needed, which makes
// the sync idempotent at the cost of one wasted call per first-seen event.
func (s *Service) SyncEvents(ctx context.Context, events []model.Event) (reconcile.Result, error) {
	units := make([]reconcile.Unit, 0, len(events))
	var buildErr error

	for _, event := range events {
		gEvent, err := apiEvent(event)
		if err != nil {
			buildErr = multierr.Append(buildErr, err)
			continue
		}

		units = append(units, reconcile.Unit{
			Op:       reconcile.OpUpsert,
			Key:      gEvent.Id,
			Describe: event.String(),
			Do: func(ctx context.Context) error {
				return s.upsertEvent(ctx, gEvent)
			},
		})
	}

	result, err := reconcile.Apply(ctx, s.log, units, reconcile.Options{
		Width:  eventWriteWidth,
		DryRun: s.dryRun,
	})
	return result, multierr.Append(buildErr, err)
}

// upsertEvent patches by id and falls back to insert when the remote
// service reports the id unknown.
func (s *Service) upsertEvent(ctx context.Context, gEvent *calendar.Event) error {
	patched, err := s.api.PatchEvent(ctx, s.calendarID, gEvent.Id, gEvent)
	if err == nil {
		s.log.Info("Updated event",
			zap.String("event_id", gEvent.Id),
			zap.String("link", patched.HtmlLink),
		)
		return nil
	}

	if !isNotFound(err) {
		return err
	}

	inserted, err := s.api.InsertEvent(ctx, s.calendarID, gEvent)
	if err != nil {
		return err
	}
	s.log.Info("Inserted event",
		zap.String("event_id", gEvent.Id),
		zap.String("link", inserted.HtmlLink),
	)
	return nil
}

func isNotFound(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code == 404
	}
	return false
}
