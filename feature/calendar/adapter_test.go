package calendar

import (
	"testing"
	"time"

	"scma-sync/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEventID(t *testing.T) {
	id, err := EventID(model.Event{ID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "00001", id)

	id, err = EventID(model.Event{ID: "12345"})
	require.NoError(t, err)
	assert.Equal(t, "12345", id)

	_, err = EventID(model.Event{ID: "abc"})
	assert.Error(t, err)
}

func TestApiEventSingleDayEndUnmodified(t *testing.T) {
	e := model.Event{
		ID:        "1",
		Title:     "Stoney Point",
		StartDate: date("2024-01-01"),
		EndDate:   date("2024-01-01"),
	}

	g, err := apiEvent(e)
	require.NoError(t, err)

	assert.Equal(t, "00001", g.Id)
	assert.Equal(t, "SCMA: Stoney Point", g.Summary)
	assert.Equal(t, "2024-01-01", g.Start.Date)
	assert.Equal(t, "2024-01-01", g.End.Date)
}

func TestApiEventMultiDayEndExclusive(t *testing.T) {
	e := model.Event{
		ID:        "1",
		Title:     "Sierra Weekend",
		StartDate: date("2024-01-01"),
		EndDate:   date("2024-01-03"),
	}

	g, err := apiEvent(e)
	require.NoError(t, err)

	// Multi-day all-day events are stored with the day after their last
	// day, matching the remote service's exclusive end convention.
	assert.Equal(t, "2024-01-01", g.Start.Date)
	assert.Equal(t, "2024-01-04", g.End.Date)
}

func TestApiEventMonthRollover(t *testing.T) {
	e := model.Event{
		ID:        "7",
		StartDate: date("2024-01-30"),
		EndDate:   date("2024-01-31"),
	}

	g, err := apiEvent(e)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", g.End.Date)
}

func TestDescription(t *testing.T) {
	fetched := time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC)
	e := model.Event{
		ID:          "1",
		URL:         "https://example.org/event/1",
		Description: "Climbing at the point.",
		Attendees: []model.Attendee{
			{Name: "User 0", Count: 2, Comment: "bringing a rope"},
		},
		Comments: []model.Comment{
			{Author: "User 1", Date: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC), Text: "See you there"},
		},
		FetchedAt: &fetched,
	}

	d := description(e)

	assert.Contains(t, d, "https://example.org/event/1")
	assert.Contains(t, d, "<h3>Description</h3>Climbing at the point.")
	assert.Contains(t, d, "<ol><li>User 0 (2) bringing a rope</li></ol>")
	assert.Contains(t, d, "<li>User 1 (2024-01-02T12:00:00Z) See you there</li>")
	assert.Contains(t, d, "Last synced at 2024-01-05T12:00:00-08:00")
}

func TestDescriptionEmptySections(t *testing.T) {
	d := description(model.Event{Description: "x"})

	assert.Contains(t, d, "<h3>Attendees</h3>None")
	assert.Contains(t, d, "<h3>Comments</h3>None")
	assert.NotContains(t, d, "Last synced")
}
