package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for all-day dates throughout the system.
const DateLayout = "2006-01-02"

// DateSelect filters which events a source fetch returns.
type DateSelect string

const (
	// DateSelectAll fetches every listed event regardless of date.
	DateSelectAll DateSelect = "all"
	// DateSelectUpcoming fetches only events that have not yet ended.
	DateSelectUpcoming DateSelect = "upcoming"
)

// Event is a source event record produced by the club site.
// Events are read-only inputs to the sync engine; they are fetched once per
// run and never mutated afterwards.
type Event struct {
	// ID is the club-assigned numeric event id, as a decimal string.
	// It is the identity key for calendar reconciliation.
	ID string `yaml:"id"`

	// Title is the event name as listed on the club site.
	Title string `yaml:"title"`

	// URL is the event detail page on the club site.
	URL string `yaml:"url"`

	// StartDate and EndDate are inclusive all-day dates.
	StartDate time.Time `yaml:"start_date"`
	EndDate   time.Time `yaml:"end_date"`

	Location    string `yaml:"location"`
	Description string `yaml:"description"`

	// Comments and Attendees are owned by the event and are never synced
	// independently. They are nil until enriched by a detail fetch.
	Comments  []Comment  `yaml:"comments,omitempty"`
	Attendees []Attendee `yaml:"attendees,omitempty"`

	// FetchedAt records when the event was scraped, if known.
	FetchedAt *time.Time `yaml:"fetched_at,omitempty"`
}

// MultiDay reports whether the event spans more than one day.
func (e Event) MultiDay() bool {
	return !e.StartDate.Equal(e.EndDate)
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s %s", e.StartDate.Format(DateLayout), e.EndDate.Format(DateLayout), e.Title)
}

// Comment is a member comment attached to an event.
type Comment struct {
	Author string    `yaml:"author"`
	Date   time.Time `yaml:"date"`
	Text   string    `yaml:"text"`
}

// Attendee is an event signup entry.
type Attendee struct {
	Name string `yaml:"name"`
	// Count is the party size, including the member themselves.
	Count   int    `yaml:"count"`
	Comment string `yaml:"comment"`
}

// MemberStatus is the club membership classification.
type MemberStatus string

const (
	StatusApplicant MemberStatus = "Applicant"
	StatusStudent   MemberStatus = "Student"
	StatusActive    MemberStatus = "AM"
	StatusHonorary  MemberStatus = "HM"
	StatusRegular   MemberStatus = "RM"
)

// TripLeaderStatus is the club trip leader certification level.
type TripLeaderStatus string

const (
	TripLeaderGeneral TripLeaderStatus = "G"
	TripLeaderSnow1   TripLeaderStatus = "S1"
	TripLeaderSnow2   TripLeaderStatus = "S2"
)

// User is a source membership record produced by the club site.
// The identity key for contacts reconciliation is the normalized email.
type User struct {
	// ID is the club-assigned member id, when known.
	ID string `yaml:"id,omitempty"`

	Name  string `yaml:"name"`
	Email string `yaml:"email"`

	MemberStatus MemberStatus `yaml:"member_status"`

	// TripLeaderStatus is empty for members who are not trip leaders.
	TripLeaderStatus TripLeaderStatus `yaml:"trip_leader_status,omitempty"`

	// Position is the club office held, if any (e.g. "President").
	Position string `yaml:"position,omitempty"`

	Address string `yaml:"address"`
	City    string `yaml:"city"`
	State   string `yaml:"state"`
	Zipcode string `yaml:"zipcode"`

	Phone string `yaml:"phone,omitempty"`
}

// Key returns the reconciliation identity key for the user.
func (u User) Key() string {
	return NormalizeEmail(u.Email)
}

// NameEmail renders the user as "Name <email>" for log output.
func (u User) NameEmail() string {
	if u.Email == "" {
		return u.Name
	}
	return fmt.Sprintf("%s <%s>", u.Name, u.Email)
}

// FormattedAddress renders the postal address as a single line.
func (u User) FormattedAddress() string {
	return fmt.Sprintf("%s, %s, %s %s", u.Address, u.City, u.State, u.Zipcode)
}

// TripLeaderValue returns the trip leader status or "n/a" when the user is
// not a trip leader.
func (u User) TripLeaderValue() string {
	if u.TripLeaderStatus == "" {
		return "n/a"
	}
	return string(u.TripLeaderStatus)
}

// PositionValue returns the club position or "n/a" when the user holds none.
func (u User) PositionValue() string {
	if u.Position == "" {
		return "n/a"
	}
	return u.Position
}
