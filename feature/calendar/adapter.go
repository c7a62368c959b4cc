package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"scma-sync/core/model"

	"google.golang.org/api/calendar/v3"
)

const (
	// summaryPrefix marks synced events so they are recognizable among
	// manually created ones.
	summaryPrefix = "SCMA: "

	// eventIDWidth is the fixed width of the remote event id. The id is
	// derived from the club's numeric event id so repeated runs target
	// the same remote resource.
	eventIDWidth = 5

	descriptionSizeHint = 4096
)

// pacific is the display zone for the sync footer. A fixed offset mirrors
// how the club site itself presents times.
var pacific = time.FixedZone("UTC-8", -8*60*60)

// EventID derives the deterministic remote event id from the source id.
func EventID(e model.Event) (string, error) {
	id, err := strconv.ParseUint(e.ID, 10, 32)
	if err != nil {
		return "", fmt.Errorf("event %q has non-numeric id %q: %w", e.Title, e.ID, err)
	}
	return fmt.Sprintf("%0*d", eventIDWidth, id), nil
}

// apiEvent translates a source event into its Calendar wire shape.
func apiEvent(e model.Event) (*calendar.Event, error) {
	id, err := EventID(e)
	if err != nil {
		return nil, err
	}

	return &calendar.Event{
		Id:          id,
		Summary:     summaryPrefix + e.Title,
		Start:       &calendar.EventDateTime{Date: e.StartDate.Format(model.DateLayout)},
		End:         &calendar.EventDateTime{Date: endDate(e).Format(model.DateLayout)},
		Location:    e.Location,
		Description: description(e),
	}, nil
}

// endDate applies the exclusive end-date convention for all-day events:
// a multi-day event must end on the day after its last day or the remote
// service renders it one day short. Single-day events are unmodified.
func endDate(e model.Event) time.Time {
	if !e.MultiDay() {
		return e.EndDate
	}
	return e.EndDate.AddDate(0, 0, 1)
}

// description renders the event body as HTML: link, description, attendee
// roster, comments, and a sync footer when the fetch time is known.
func description(e model.Event) string {
	var b strings.Builder
	b.Grow(descriptionSizeHint)

	b.WriteString(e.URL)
	b.WriteString("<h3>Description</h3>")
	b.WriteString(e.Description)

	b.WriteString("<h3>Attendees</h3>")
	if len(e.Attendees) > 0 {
		b.WriteString("<ol>")
		for _, a := range e.Attendees {
			fmt.Fprintf(&b, "<li>%s (%d) %s</li>", a.Name, a.Count, a.Comment)
		}
		b.WriteString("</ol>")
	} else {
		b.WriteString("None")
	}

	b.WriteString("<h3>Comments</h3>")
	if len(e.Comments) > 0 {
		b.WriteString("<ul>")
		for _, c := range e.Comments {
			fmt.Fprintf(&b, "<li>%s (%s) %s</li>", c.Author, c.Date.Format(time.RFC3339), c.Text)
		}
		b.WriteString("</ul>")
	} else {
		b.WriteString("None")
	}

	if e.FetchedAt != nil {
		fmt.Fprintf(&b, "\n\nLast synced at %s by scma-sync.",
			e.FetchedAt.In(pacific).Format(time.RFC3339))
	}

	return b.String()
}
