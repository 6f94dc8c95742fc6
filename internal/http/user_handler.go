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

type userService interface {
	Register(ctx context.Context, in application.RegisterInput) (string, error)
	ListUsers(ctx context.Context, principal application.Principal) ([]persistence.UserListItem, error)
	ChangeEmail(ctx context.Context, principal application.Principal, email string) error
	ChangePassword(ctx context.Context, principal application.Principal, password string) error
	ChangeName(ctx context.Context, principal application.Principal, name string) error
	GetName(ctx context.Context, principal application.Principal) (string, error)
	GetRole(ctx context.Context, principal application.Principal, userID string) (record.Role, error)
	ChangeRole(ctx context.Context, principal application.Principal, userID string, role record.Role) error
	RequestRoleUpgrade(ctx context.Context, principal application.Principal) error
	GetRequestStatus(ctx context.Context, principal application.Principal) (bool, error)
	DeleteSelf(ctx context.Context, principal application.Principal) error
	DeleteByAdmin(ctx context.Context, principal application.Principal, userID string) error
}

type UserHandler struct {
	service   userService
	responder responder
	logger    *slog.Logger
}

func NewUserHandler(service userService, logger *slog.Logger) *UserHandler {
	base := defaultLogger(logger)
	return &UserHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *UserHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "UserHandler", operation, attrs...)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userListDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Register", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode registration", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Register", "email", req.Email)

	id, err := h.service.Register(r.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "registration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("user_id", id).InfoContext(r.Context(), "user registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, map[string]string{"id": id})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	items, err := h.service.ListUsers(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "List", "principal_id", principal.UserID).ErrorContext(r.Context(), "user list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]userListDTO, 0, len(items))
	for _, item := range items {
		out = append(out, userListDTO{ID: item.ID, Name: item.Name, Email: item.Email, Role: item.Role})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

type changeFieldRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *UserHandler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	h.changeField(w, r, "ChangeEmail", func(ctx context.Context, principal application.Principal, req changeFieldRequest) error {
		return h.service.ChangeEmail(ctx, principal, req.Email)
	})
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	h.changeField(w, r, "ChangePassword", func(ctx context.Context, principal application.Principal, req changeFieldRequest) error {
		return h.service.ChangePassword(ctx, principal, req.Password)
	})
}

func (h *UserHandler) ChangeName(w http.ResponseWriter, r *http.Request) {
	h.changeField(w, r, "ChangeName", func(ctx context.Context, principal application.Principal, req changeFieldRequest) error {
		return h.service.ChangeName(ctx, principal, req.Name)
	})
}

func (h *UserHandler) changeField(w http.ResponseWriter, r *http.Request, operation string, apply func(context.Context, application.Principal, changeFieldRequest) error) {
	principal, _ := PrincipalFromContext(r.Context())

	var req changeFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), operation, "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode account update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), operation, "principal_id", principal.UserID)

	if err := apply(r.Context(), principal, req); err != nil {
		logger.ErrorContext(r.Context(), "account update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "account updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "Account updated. Please log in again if your credentials changed."})
}

func (h *UserHandler) GetName(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	name, err := h.service.GetName(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "GetName", "principal_id", principal.UserID).ErrorContext(r.Context(), "name fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"name": name})
}

type roleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func (h *UserHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	userID := r.URL.Query().Get("userId")

	role, err := h.service.GetRole(r.Context(), principal, userID)
	if err != nil {
		h.log(r.Context(), "GetRole", "principal_id", principal.UserID).ErrorContext(r.Context(), "role fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"role": string(role)})
}

func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "ChangeRole", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode role update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "ChangeRole", "principal_id", principal.UserID, "user_id", req.UserID)

	if err := h.service.ChangeRole(r.Context(), principal, req.UserID, record.Role(req.Role)); err != nil {
		logger.ErrorContext(r.Context(), "role update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "role updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "Role updated."})
}

func (h *UserHandler) GetRequestStatus(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	request, err := h.service.GetRequestStatus(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "GetRequestStatus", "principal_id", principal.UserID).ErrorContext(r.Context(), "request status fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]bool{"request": request})
}

func (h *UserHandler) RequestRoleUpgrade(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	logger := h.log(r.Context(), "RequestRoleUpgrade", "principal_id", principal.UserID)
	if err := h.service.RequestRoleUpgrade(r.Context(), principal); err != nil {
		logger.ErrorContext(r.Context(), "upgrade request failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "upgrade requested")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "Your request has been submitted."})
}

func (h *UserHandler) DeleteSelf(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	logger := h.log(r.Context(), "DeleteSelf", "principal_id", principal.UserID)
	if err := h.service.DeleteSelf(r.Context(), principal); err != nil {
		logger.ErrorContext(r.Context(), "account delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: tokenCookieName, Value: "", Path: "/", HttpOnly: true, MaxAge: -1})
	logger.InfoContext(r.Context(), "account deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *UserHandler) DeleteByAdmin(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	userID := chi.URLParam(r, "id")

	logger := h.log(r.Context(), "DeleteByAdmin", "principal_id", principal.UserID, "user_id", userID)
	if err := h.service.DeleteByAdmin(r.Context(), principal, userID); err != nil {
		logger.ErrorContext(r.Context(), "account delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "account deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}
