package calendar

import (
	"context"
	"net/http"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Scope is the OAuth scope required for calendar and ACL writes.
const Scope = calendar.CalendarScope

// API is the subset of the Google Calendar service used by the sync.
// It exists so the sync logic can be exercised against mocks.
type API interface {
	// ListCalendars returns one page of the caller's calendar list.
	ListCalendars(ctx context.Context, pageToken string) (*calendar.CalendarList, error)
	// CreateCalendar creates a new secondary calendar.
	CreateCalendar(ctx context.Context, cal *calendar.Calendar) (*calendar.Calendar, error)
	// PatchEvent updates an event by id, touching only the fields set on ev.
	PatchEvent(ctx context.Context, calendarID, eventID string, ev *calendar.Event) (*calendar.Event, error)
	// InsertEvent creates an event with a caller-chosen id.
	InsertEvent(ctx context.Context, calendarID string, ev *calendar.Event) (*calendar.Event, error)
	// ListACL returns one page of the calendar's ACL rules.
	ListACL(ctx context.Context, calendarID, pageToken string) (*calendar.Acl, error)
	// InsertACL adds an ACL rule. notify controls whether the remote
	// service emails the grantee.
	InsertACL(ctx context.Context, calendarID string, rule *calendar.AclRule, notify bool) (*calendar.AclRule, error)
	// DeleteACL removes an ACL rule by its composed id.
	DeleteACL(ctx context.Context, calendarID, ruleID string) error
}

type googleAPI struct {
	svc *calendar.Service
}

// NewAPI builds the real Calendar API client from an authenticated HTTP
// client.
func NewAPI(ctx context.Context, client *http.Client) (API, error) {
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}
	return &googleAPI{svc: svc}, nil
}

func (g *googleAPI) ListCalendars(ctx context.Context, pageToken string) (*calendar.CalendarList, error) {
	call := g.svc.CalendarList.List()
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Context(ctx).Do()
}

func (g *googleAPI) CreateCalendar(ctx context.Context, cal *calendar.Calendar) (*calendar.Calendar, error) {
	return g.svc.Calendars.Insert(cal).Context(ctx).Do()
}

func (g *googleAPI) PatchEvent(ctx context.Context, calendarID, eventID string, ev *calendar.Event) (*calendar.Event, error) {
	return g.svc.Events.Patch(calendarID, eventID, ev).Context(ctx).Do()
}

func (g *googleAPI) InsertEvent(ctx context.Context, calendarID string, ev *calendar.Event) (*calendar.Event, error) {
	return g.svc.Events.Insert(calendarID, ev).Context(ctx).Do()
}

func (g *googleAPI) ListACL(ctx context.Context, calendarID, pageToken string) (*calendar.Acl, error) {
	call := g.svc.Acl.List(calendarID)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Context(ctx).Do()
}

func (g *googleAPI) InsertACL(ctx context.Context, calendarID string, rule *calendar.AclRule, notify bool) (*calendar.AclRule, error) {
	return g.svc.Acl.Insert(calendarID, rule).SendNotifications(notify).Context(ctx).Do()
}

func (g *googleAPI) DeleteACL(ctx context.Context, calendarID, ruleID string) error {
	return g.svc.Acl.Delete(calendarID, ruleID).Context(ctx).Do()
}
