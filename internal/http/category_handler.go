package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/eventlist/internal/application"
	"github.com/example/eventlist/internal/persistence"
)

type categoryService interface {
	ListCategories(ctx context.Context, principal application.Principal) ([]persistence.CategoryRow, error)
	GetCategory(ctx context.Context, id string) (persistence.CategoryRow, error)
	CreateCategory(ctx context.Context, principal application.Principal, name string) (persistence.CategoryRow, error)
	RenameCategory(ctx context.Context, principal application.Principal, id, name string) error
	DeleteCategory(ctx context.Context, principal application.Principal, id string) error
}

type CategoryHandler struct {
	service   categoryService
	responder responder
	logger    *slog.Logger
}

func NewCategoryHandler(service categoryService, logger *slog.Logger) *CategoryHandler {
	base := defaultLogger(logger)
	return &CategoryHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CategoryHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CategoryHandler", operation, attrs...)
}

type categoryRequest struct {
	Name string `json:"name"`
}

type categoryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	rows, err := h.service.ListCategories(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "List", "principal_id", principal.UserID).ErrorContext(r.Context(), "category list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]categoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryDTO{ID: row.ID, Name: row.Name})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	row, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "category_id", id).ErrorContext(r.Context(), "category fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, categoryDTO{ID: row.ID, Name: row.Name})
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode category request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	row, err := h.service.CreateCategory(r.Context(), principal, req.Name)
	if err != nil {
		logger.ErrorContext(r.Context(), "category creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("category_id", row.ID).InfoContext(r.Context(), "category created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, categoryDTO{ID: row.ID, Name: row.Name})
}

func (h *CategoryHandler) Rename(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Rename", "principal_id", principal.UserID, "category_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode category rename", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Rename", "principal_id", principal.UserID, "category_id", id)

	if err := h.service.RenameCategory(r.Context(), principal, id, req.Name); err != nil {
		logger.ErrorContext(r.Context(), "category rename failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "category renamed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "Category updated."})
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "category_id", id)
	if err := h.service.DeleteCategory(r.Context(), principal, id); err != nil {
		logger.ErrorContext(r.Context(), "category delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "category deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}
