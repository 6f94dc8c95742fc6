package record

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/example/eventlist/internal/validate"
)

// EventInput is the raw, untrusted record an Event is built from. Lat and Lon
// stay untyped so the numeric type guard runs against whatever the decoder
// produced. The same shape is used to re-hydrate previously stored rows.
type EventInput struct {
	ID          string
	Name        string
	Description string
	IsChosen    *bool
	Time        string
	Duration    int
	Date        string
	Link        *string
	Lat         any
	Lon         any
	UserID      string
	CategoryID  string
}

// Event is a validated calendar event owned by a user and attached to a
// category.
type Event struct {
	errs

	id          string
	name        string
	description string
	isChosen    bool
	time        string
	duration    int
	date        string
	link        *string
	lat         float64
	lon         float64
	userID      string
	categoryID  string
}

// NewEvent builds an Event from untrusted input. Every declared field is
// checked and all violations are collected before failing with a single
// aggregated error. Identity defaults to a fresh UUID, the chosen flag to
// false, and an absent or empty link to nil.
func NewEvent(in EventInput) (*Event, error) {
	e := &Event{
		id:       in.ID,
		isChosen: in.IsChosen != nil && *in.IsChosen,
	}
	if e.id == "" {
		e.id = uuid.NewString()
	}

	if !validate.LengthBetween(in.Name, 3, 50) {
		e.add(fmt.Sprintf("Event name length must be between 3 and 50 characters - now is %d.", len(in.Name)))
	}
	if !validate.LengthBetween(in.Description, 10, 500) {
		e.add(fmt.Sprintf("Event description length must be between 10 and 500 characters - now is %d.", len(in.Description)))
	}
	if !validate.IsTimeValid(in.Time) {
		e.add("Event time must be a valid HH:MM clock time.")
	}
	if !validate.IsPositive(in.Duration) {
		e.add("Event duration must be greater than zero.")
	}
	if !validate.IsDateValid(in.Date) {
		e.add("Event date must be a valid YYYY-MM-DD calendar date.")
	}
	if in.Link != nil && *in.Link != "" && !validate.IsURLValid(*in.Link) {
		e.add("Event link must be a valid http or https URL.")
	}
	lat, latOK := validate.Coordinate(in.Lat)
	lon, lonOK := validate.Coordinate(in.Lon)
	if !latOK || !lonOK {
		e.add("Coordinates must be numbers.")
	}
	if uuid.Validate(in.UserID) != nil {
		e.add("Provided user id is not valid.")
	}
	if uuid.Validate(in.CategoryID) != nil {
		e.add("Provided category id is not valid.")
	}

	if err := e.Err(); err != nil {
		return nil, err
	}

	e.name = in.Name
	e.description = in.Description
	e.time = in.Time
	e.duration = in.Duration
	e.date = in.Date
	if in.Link != nil && *in.Link != "" {
		link := *in.Link
		e.link = &link
	}
	e.lat = lat
	e.lon = lon
	e.userID = in.UserID
	e.categoryID = in.CategoryID

	return e, nil
}

func (e *Event) ID() string          { return e.id }
func (e *Event) Name() string        { return e.name }
func (e *Event) Description() string { return e.description }
func (e *Event) IsChosen() bool      { return e.isChosen }
func (e *Event) Time() string        { return e.time }
func (e *Event) Duration() int       { return e.duration }
func (e *Event) Date() string        { return e.date }
func (e *Event) Link() *string       { return e.link }
func (e *Event) Lat() float64        { return e.lat }
func (e *Event) Lon() float64        { return e.lon }
func (e *Event) UserID() string      { return e.userID }
func (e *Event) CategoryID() string  { return e.categoryID }

// SetName re-validates on write; a violation is appended to the entity's
// error list and the previous value kept.
func (e *Event) SetName(name string) {
	if !validate.LengthBetween(name, 3, 50) {
		e.add(fmt.Sprintf("Event name length must be between 3 and 50 characters - now is %d.", len(name)))
		return
	}
	e.name = name
}

func (e *Event) SetDescription(description string) {
	if !validate.LengthBetween(description, 10, 500) {
		e.add(fmt.Sprintf("Event description length must be between 10 and 500 characters - now is %d.", len(description)))
		return
	}
	e.description = description
}

func (e *Event) SetIsChosen(isChosen bool) {
	e.isChosen = isChosen
}

func (e *Event) SetTime(time string) {
	if !validate.IsTimeValid(time) {
		e.add("Event time must be a valid HH:MM clock time.")
		return
	}
	e.time = time
}

func (e *Event) SetDuration(duration int) {
	if !validate.IsPositive(duration) {
		e.add("Event duration must be greater than zero.")
		return
	}
	e.duration = duration
}

func (e *Event) SetDate(date string) {
	if !validate.IsDateValid(date) {
		e.add("Event date must be a valid YYYY-MM-DD calendar date.")
		return
	}
	e.date = date
}

// SetLink normalizes an empty string to nil; any other value must be a valid
// http or https URL.
func (e *Event) SetLink(link string) {
	if link == "" {
		e.link = nil
		return
	}
	if !validate.IsURLValid(link) {
		e.add("Event link must be a valid http or https URL.")
		return
	}
	e.link = &link
}

func (e *Event) SetLat(lat float64) { e.lat = lat }
func (e *Event) SetLon(lon float64) { e.lon = lon }

func (e *Event) SetCategoryID(categoryID string) {
	if uuid.Validate(categoryID) != nil {
		e.add("Provided category id is not valid.")
		return
	}
	e.categoryID = categoryID
}

// TableName implements Row.
func (e *Event) TableName() string { return "events" }

// Field implements Row, resolving an in-memory field name to its current
// value. Identity is deliberately not resolvable.
func (e *Event) Field(name string) (any, bool) {
	switch name {
	case "name":
		return e.name, true
	case "description":
		return e.description, true
	case "isChosen":
		return e.isChosen, true
	case "time":
		return e.time, true
	case "duration":
		return e.duration, true
	case "date":
		return e.date, true
	case "link":
		return e.link, true
	case "lat":
		return e.lat, true
	case "lon":
		return e.lon, true
	case "userId":
		return e.userID, true
	case "categoryId":
		return e.categoryID, true
	}
	return nil, false
}
