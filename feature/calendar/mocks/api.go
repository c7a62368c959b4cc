package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"google.golang.org/api/calendar/v3"
)

// API is a mock implementation of calendar.API
type API struct {
	mock.Mock
}

func (m *API) ListCalendars(ctx context.Context, pageToken string) (*calendar.CalendarList, error) {
	args := m.Called(ctx, pageToken)
	if list, ok := args.Get(0).(*calendar.CalendarList); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) CreateCalendar(ctx context.Context, cal *calendar.Calendar) (*calendar.Calendar, error) {
	args := m.Called(ctx, cal)
	if created, ok := args.Get(0).(*calendar.Calendar); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) PatchEvent(ctx context.Context, calendarID, eventID string, ev *calendar.Event) (*calendar.Event, error) {
	args := m.Called(ctx, calendarID, eventID, ev)
	if patched, ok := args.Get(0).(*calendar.Event); ok {
		return patched, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) InsertEvent(ctx context.Context, calendarID string, ev *calendar.Event) (*calendar.Event, error) {
	args := m.Called(ctx, calendarID, ev)
	if inserted, ok := args.Get(0).(*calendar.Event); ok {
		return inserted, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) ListACL(ctx context.Context, calendarID, pageToken string) (*calendar.Acl, error) {
	args := m.Called(ctx, calendarID, pageToken)
	if acl, ok := args.Get(0).(*calendar.Acl); ok {
		return acl, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) InsertACL(ctx context.Context, calendarID string, rule *calendar.AclRule, notify bool) (*calendar.AclRule, error) {
	args := m.Called(ctx, calendarID, rule, notify)
	if inserted, ok := args.Get(0).(*calendar.AclRule); ok {
		return inserted, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) DeleteACL(ctx context.Context, calendarID, ruleID string) error {
	args := m.Called(ctx, calendarID, ruleID)
	return args.Error(0)
}
