package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/eventlist/internal/application"
	"github.com/example/eventlist/internal/persistence"
	"github.com/example/eventlist/internal/record"
)

type eventService interface {
	ListEvents(ctx context.Context) ([]persistence.EventListItem, error)
	SearchEvents(ctx context.Context, name string) ([]persistence.EventSearchItem, error)
	GetEvent(ctx context.Context, id string) (application.EventDetail, error)
	CreateEvent(ctx context.Context, principal application.Principal, in record.EventInput) (application.EventDetail, error)
	UpdateEvent(ctx context.Context, principal application.Principal, id string, changes application.EventChanges) error
	DeleteEvent(ctx context.Context, principal application.Principal, id string) error
}

type EventHandler struct {
	service   eventService
	responder responder
	logger    *slog.Logger
}

func NewEventHandler(service eventService, logger *slog.Logger) *EventHandler {
	base := defaultLogger(logger)
	return &EventHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EventHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EventHandler", operation, attrs...)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListEvents(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "event list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEventListDTOs(items))
}

func (h *EventHandler) Search(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	items, err := h.service.SearchEvents(r.Context(), name)
	if err != nil {
		h.log(r.Context(), "Search", "name", name).ErrorContext(r.Context(), "event search failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEventSearchDTOs(items))
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	detail, err := h.service.GetEvent(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "event_id", id).ErrorContext(r.Context(), "event fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEventDetailDTO(detail))
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode event request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	detail, err := h.service.CreateEvent(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "event creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("event_id", detail.ID).InfoContext(r.Context(), "event created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toEventDetailDTO(detail))
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req eventChangesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "event_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode event update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "event_id", id)

	if err := h.service.UpdateEvent(r.Context(), principal, id, req.toChanges()); err != nil {
		logger.ErrorContext(r.Context(), "event update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "event updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "Event updated."})
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "event_id", id)
	if err := h.service.DeleteEvent(r.Context(), principal, id); err != nil {
		logger.ErrorContext(r.Context(), "event delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "event deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// eventRequest carries the creation payload. Lat and Lon stay untyped so the
// entity's numeric guard sees exactly what the client sent.
type eventRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	IsChosen    *bool   `json:"isChosen"`
	Time        string  `json:"time"`
	Duration    int     `json:"duration"`
	Date        string  `json:"date"`
	Link        *string `json:"link"`
	Lat         any     `json:"lat"`
	Lon         any     `json:"lon"`
	CategoryID  string  `json:"categoryId"`
}

func (r eventRequest) toInput() record.EventInput {
	return record.EventInput{
		Name:        r.Name,
		Description: r.Description,
		IsChosen:    r.IsChosen,
		Time:        r.Time,
		Duration:    r.Duration,
		Date:        r.Date,
		Link:        r.Link,
		Lat:         r.Lat,
		Lon:         r.Lon,
		CategoryID:  r.CategoryID,
	}
}

type eventChangesRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	IsChosen    *bool    `json:"isChosen"`
	Time        *string  `json:"time"`
	Duration    *int     `json:"duration"`
	Date        *string  `json:"date"`
	Link        *string  `json:"link"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	CategoryID  *string  `json:"categoryId"`
}

func (r eventChangesRequest) toChanges() application.EventChanges {
	return application.EventChanges{
		Name:        r.Name,
		Description: r.Description,
		IsChosen:    r.IsChosen,
		Time:        r.Time,
		Duration:    r.Duration,
		Date:        r.Date,
		Link:        r.Link,
		Lat:         r.Lat,
		Lon:         r.Lon,
		CategoryID:  r.CategoryID,
	}
}

type eventListDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsChosen    bool   `json:"isChosen"`
	Duration    int    `json:"duration"`
}

type eventSearchDTO struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type eventDetailDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	IsChosen     bool    `json:"isChosen"`
	Time         string  `json:"time"`
	Duration     int     `json:"duration"`
	Date         string  `json:"date"`
	Link         *string `json:"link"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	UserID       string  `json:"userId"`
	CategoryID   string  `json:"categoryId"`
	CategoryName string  `json:"categoryName,omitempty"`
}

func toEventListDTOs(items []persistence.EventListItem) []eventListDTO {
	out := make([]eventListDTO, 0, len(items))
	for _, item := range items {
		out = append(out, eventListDTO{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			IsChosen:    item.IsChosen,
			Duration:    item.Duration,
		})
	}
	return out
}

func toEventSearchDTOs(items []persistence.EventSearchItem) []eventSearchDTO {
	out := make([]eventSearchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, eventSearchDTO{ID: item.ID, Name: item.Name, Lat: item.Lat, Lon: item.Lon})
	}
	return out
}

func toEventDetailDTO(detail application.EventDetail) eventDetailDTO {
	return eventDetailDTO{
		ID:           detail.ID,
		Name:         detail.Name,
		Description:  detail.Description,
		IsChosen:     detail.IsChosen,
		Time:         detail.Time,
		Duration:     detail.Duration,
		Date:         detail.Date,
		Link:         detail.Link,
		Lat:          detail.Lat,
		Lon:          detail.Lon,
		UserID:       detail.UserID,
		CategoryID:   detail.CategoryID,
		CategoryName: detail.CategoryName,
	}
}
