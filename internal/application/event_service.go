package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/eventlist/internal/persistence"
	"github.com/example/eventlist/internal/record"
)

// EventService orchestrates validation, authorization, and persistence for
// events.
type EventService struct {
	events      persistence.EventRepository
	categories  persistence.CategoryRepository
	projector   Projector
	idGenerator func() string
}

// NewEventService wires dependencies for the event service.
func NewEventService(events persistence.EventRepository, categories persistence.CategoryRepository, projector Projector, idGenerator func() string) *EventService {
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	return &EventService{
		events:      events,
		categories:  categories,
		projector:   projector,
		idGenerator: idGenerator,
	}
}

// ListEvents returns the trimmed listing ordered by date and time.
func (s *EventService) ListEvents(ctx context.Context) ([]persistence.EventListItem, error) {
	if s == nil {
		return nil, fmt.Errorf("EventService is nil")
	}
	return s.events.List(ctx)
}

// SearchEvents returns the map-oriented projection of events whose name
// contains the given fragment.
func (s *EventService) SearchEvents(ctx context.Context, name string) ([]persistence.EventSearchItem, error) {
	if s == nil {
		return nil, fmt.Errorf("EventService is nil")
	}
	return s.events.SearchByName(ctx, name)
}

// GetEvent returns a single event with its category name joined in.
func (s *EventService) GetEvent(ctx context.Context, id string) (EventDetail, error) {
	if s == nil {
		return EventDetail{}, fmt.Errorf("EventService is nil")
	}
	if uuid.Validate(id) != nil {
		return EventDetail{}, ErrInvalidID
	}

	row, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return EventDetail{}, ErrNotFound
		}
		return EventDetail{}, err
	}

	detail := EventDetail{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		IsChosen:    row.IsChosen,
		Time:        row.Time,
		Duration:    row.Duration,
		Date:        row.Date,
		Link:        row.Link,
		Lat:         row.Lat,
		Lon:         row.Lon,
		UserID:      row.UserID,
		CategoryID:  row.CategoryID,
	}

	category, err := s.categories.GetByID(ctx, row.CategoryID)
	if err == nil {
		detail.CategoryName = category.Name
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return EventDetail{}, err
	}

	return detail, nil
}

// CreateEvent validates input and persists a new event. The owner is always
// the acting principal; a caller-supplied user id is ignored.
func (s *EventService) CreateEvent(ctx context.Context, principal Principal, in record.EventInput) (EventDetail, error) {
	if s == nil {
		return EventDetail{}, fmt.Errorf("EventService is nil")
	}
	if !principal.CanEdit() {
		return EventDetail{}, ErrForbidden
	}

	in.ID = s.idGenerator()
	in.UserID = principal.UserID

	event, err := record.NewEvent(in)
	if err != nil {
		return EventDetail{}, err
	}

	if _, err := s.categories.GetByID(ctx, event.CategoryID()); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return EventDetail{}, ErrNotFound
		}
		return EventDetail{}, err
	}

	if err := s.events.Insert(ctx, eventRowFromRecord(event)); err != nil {
		if errors.Is(err, persistence.ErrConstraintViolation) {
			return EventDetail{}, ErrConflict
		}
		return EventDetail{}, err
	}

	return s.GetEvent(ctx, event.ID())
}

// UpdateEvent applies the supplied fields to an existing event: the stored row
// is re-hydrated, mutated through the entity's setters, and the changed field
// names projected back as one update.
func (s *EventService) UpdateEvent(ctx context.Context, principal Principal, id string, changes EventChanges) error {
	if s == nil {
		return fmt.Errorf("EventService is nil")
	}
	if !principal.CanEdit() {
		return ErrForbidden
	}
	if uuid.Validate(id) != nil {
		return ErrInvalidID
	}

	row, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	event, err := record.NewEvent(eventInputFromRow(row))
	if err != nil {
		return err
	}

	var fields []string
	if changes.Name != nil {
		event.SetName(*changes.Name)
		fields = append(fields, "name")
	}
	if changes.Description != nil {
		event.SetDescription(*changes.Description)
		fields = append(fields, "description")
	}
	if changes.IsChosen != nil {
		event.SetIsChosen(*changes.IsChosen)
		fields = append(fields, "isChosen")
	}
	if changes.Time != nil {
		event.SetTime(*changes.Time)
		fields = append(fields, "time")
	}
	if changes.Duration != nil {
		event.SetDuration(*changes.Duration)
		fields = append(fields, "duration")
	}
	if changes.Date != nil {
		event.SetDate(*changes.Date)
		fields = append(fields, "date")
	}
	if changes.Link != nil {
		event.SetLink(*changes.Link)
		fields = append(fields, "link")
	}
	if changes.Lat != nil {
		event.SetLat(*changes.Lat)
		fields = append(fields, "lat")
	}
	if changes.Lon != nil {
		event.SetLon(*changes.Lon)
		fields = append(fields, "lon")
	}
	if changes.CategoryID != nil {
		event.SetCategoryID(*changes.CategoryID)
		fields = append(fields, "categoryId")
	}

	if len(fields) == 0 {
		return record.ErrNoFields
	}

	ok, err := s.projector.Update(ctx, event, fields)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOperationFailed
	}
	return nil
}

// DeleteEvent removes an event.
func (s *EventService) DeleteEvent(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("EventService is nil")
	}
	if !principal.CanEdit() {
		return ErrForbidden
	}
	if uuid.Validate(id) != nil {
		return ErrInvalidID
	}

	ok, err := s.events.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
