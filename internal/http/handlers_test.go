package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/eventlist/internal/application"
	"github.com/example/eventlist/internal/persistence"
	"github.com/example/eventlist/internal/record"
)

// tokens the fake resolver understands
const (
	userToken   = "token-user"
	editorToken = "token-editor"
	adminToken  = "token-admin"
)

type fakeResolver struct {
	principals map[string]application.Principal
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{principals: map[string]application.Principal{
		userToken:   {UserID: uuid.NewString(), Role: record.RoleUser},
		editorToken: {UserID: uuid.NewString(), Role: record.RoleEditor},
		adminToken:  {UserID: uuid.NewString(), Role: record.RoleAdmin},
	}}
}

func (f *fakeResolver) ResolveToken(_ context.Context, token string) (application.Principal, error) {
	principal, ok := f.principals[token]
	if !ok {
		return application.Principal{}, application.ErrUnauthorized
	}
	return principal, nil
}

type fakeAuthService struct {
	token     string
	loginErr  error
	loggedOut []string
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeAuthService) Logout(_ context.Context, principal application.Principal) error {
	f.loggedOut = append(f.loggedOut, principal.UserID)
	return nil
}

func (f *fakeAuthService) TokenTTL() time.Duration { return time.Hour }

type fakeEventService struct {
	detail     application.EventDetail
	list       []persistence.EventListItem
	createErr  error
	updateErr  error
	gotChanges application.EventChanges
	gotID      string
}

func (f *fakeEventService) ListEvents(context.Context) ([]persistence.EventListItem, error) {
	return f.list, nil
}

func (f *fakeEventService) SearchEvents(context.Context, string) ([]persistence.EventSearchItem, error) {
	return nil, nil
}

func (f *fakeEventService) GetEvent(_ context.Context, id string) (application.EventDetail, error) {
	if f.detail.ID != id {
		return application.EventDetail{}, application.ErrNotFound
	}
	return f.detail, nil
}

func (f *fakeEventService) CreateEvent(_ context.Context, _ application.Principal, in record.EventInput) (application.EventDetail, error) {
	if f.createErr != nil {
		return application.EventDetail{}, f.createErr
	}
	return f.detail, nil
}

func (f *fakeEventService) UpdateEvent(_ context.Context, _ application.Principal, id string, changes application.EventChanges) error {
	f.gotID = id
	f.gotChanges = changes
	return f.updateErr
}

func (f *fakeEventService) DeleteEvent(context.Context, application.Principal, string) error {
	return nil
}

type fakeCategoryService struct {
	rows      []persistence.CategoryRow
	createErr error
}

func (f *fakeCategoryService) ListCategories(context.Context, application.Principal) ([]persistence.CategoryRow, error) {
	return f.rows, nil
}

func (f *fakeCategoryService) GetCategory(_ context.Context, id string) (persistence.CategoryRow, error) {
	for _, row := range f.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return persistence.CategoryRow{}, application.ErrNotFound
}

func (f *fakeCategoryService) CreateCategory(_ context.Context, principal application.Principal, name string) (persistence.CategoryRow, error) {
	if !principal.IsAdmin() {
		return persistence.CategoryRow{}, application.ErrForbidden
	}
	if f.createErr != nil {
		return persistence.CategoryRow{}, f.createErr
	}
	return persistence.CategoryRow{ID: uuid.NewString(), Name: name}, nil
}

func (f *fakeCategoryService) RenameCategory(context.Context, application.Principal, string, string) error {
	return nil
}

func (f *fakeCategoryService) DeleteCategory(context.Context, application.Principal, string) error {
	return nil
}

type fakeUserService struct {
	registerID  string
	registerErr error
	changed     map[string]string
}

func (f *fakeUserService) Register(_ context.Context, in application.RegisterInput) (string, error) {
	if f.registerErr != nil {
		return "", f.registerErr
	}
	return f.registerID, nil
}

func (f *fakeUserService) ListUsers(_ context.Context, principal application.Principal) ([]persistence.UserListItem, error) {
	if !principal.IsAdmin() {
		return nil, application.ErrForbidden
	}
	return []persistence.UserListItem{{ID: uuid.NewString(), Name: "Tester", Email: "t@example.com", Role: "user"}}, nil
}

func (f *fakeUserService) ChangeEmail(_ context.Context, _ application.Principal, email string) error {
	f.changed["email"] = email
	return nil
}

func (f *fakeUserService) ChangePassword(_ context.Context, _ application.Principal, password string) error {
	f.changed["password"] = password
	return nil
}

func (f *fakeUserService) ChangeName(_ context.Context, _ application.Principal, name string) error {
	f.changed["name"] = name
	return nil
}

func (f *fakeUserService) GetName(context.Context, application.Principal) (string, error) {
	return "Tester", nil
}

func (f *fakeUserService) GetRole(context.Context, application.Principal, string) (record.Role, error) {
	return record.RoleUser, nil
}

func (f *fakeUserService) ChangeRole(_ context.Context, principal application.Principal, _ string, role record.Role) error {
	if !principal.IsAdmin() {
		return application.ErrForbidden
	}
	f.changed["role"] = string(role)
	return nil
}

func (f *fakeUserService) RequestRoleUpgrade(context.Context, application.Principal) error {
	f.changed["request"] = "true"
	return nil
}

func (f *fakeUserService) GetRequestStatus(context.Context, application.Principal) (bool, error) {
	return false, nil
}

func (f *fakeUserService) DeleteSelf(context.Context, application.Principal) error { return nil }

func (f *fakeUserService) DeleteByAdmin(_ context.Context, principal application.Principal, _ string) error {
	if !principal.IsAdmin() {
		return application.ErrForbidden
	}
	return nil
}

type testEnv struct {
	router http.Handler
	auth   *fakeAuthService
	events *fakeEventService
	users  *fakeUserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	auth := &fakeAuthService{token: "signed-token"}
	events := &fakeEventService{
		detail: application.EventDetail{
			ID:           uuid.NewString(),
			Name:         "City Marathon",
			Description:  "Annual marathon through the old town.",
			Time:         "09:30",
			Duration:     180,
			Date:         "2024-05-12",
			Lat:          52.52,
			Lon:          13.405,
			CategoryID:   uuid.NewString(),
			CategoryName: "Sports",
		},
	}
	users := &fakeUserService{registerID: uuid.NewString(), changed: map[string]string{}}

	router := NewRouter(RouterConfig{
		Auth:       NewAuthHandler(auth, nil, false),
		Events:     NewEventHandler(events, nil),
		Categories: NewCategoryHandler(&fakeCategoryService{}, nil),
		Users:      NewUserHandler(users, nil),
		Resolver:   newFakeResolver(),
	})

	return &testEnv{router: router, auth: auth, events: events, users: users}
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestLoginAndLogout(t *testing.T) {
	env := newTestEnv(t)

	t.Run("login sets the token cookie", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/login", "", map[string]string{"email": "a@example.com", "password": "secret1!"})
		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, tokenCookieName, cookies[0].Name)
		assert.Equal(t, "signed-token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("bad credentials map to 401", func(t *testing.T) {
		env.auth.loginErr = application.ErrInvalidCredentials
		defer func() { env.auth.loginErr = nil }()

		rec := env.do(http.MethodPost, "/login", "", map[string]string{"email": "a@example.com", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed body maps to 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("logout clears the cookie", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/logout", userToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
		assert.Len(t, env.auth.loggedOut, 1)
	})

	t.Run("logout without a session maps to 401", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/logout", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestEventRoutes(t *testing.T) {
	env := newTestEnv(t)

	t.Run("listing requires authentication", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/event", "", nil).Code)
		assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/event", userToken, nil).Code)
	})

	t.Run("detail payload uses camelCase field names", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/event/"+env.events.detail.ID, userToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Contains(t, payload, "isChosen")
		assert.Contains(t, payload, "categoryId")
		assert.Equal(t, "Sports", payload["categoryName"])
	})

	t.Run("mutations require the editor role", func(t *testing.T) {
		body := map[string]any{"name": "City Marathon"}
		assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/api/event", userToken, body).Code)
		assert.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/event", editorToken, body).Code)
	})

	t.Run("patch forwards only the supplied fields", func(t *testing.T) {
		id := env.events.detail.ID
		rec := env.do(http.MethodPatch, "/api/event/"+id, editorToken, map[string]any{"name": "Night Run", "duration": 60})
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, id, env.events.gotID)
		require.NotNil(t, env.events.gotChanges.Name)
		assert.Equal(t, "Night Run", *env.events.gotChanges.Name)
		require.NotNil(t, env.events.gotChanges.Duration)
		assert.Equal(t, 60, *env.events.gotChanges.Duration)
		assert.Nil(t, env.events.gotChanges.Description)
		assert.Nil(t, env.events.gotChanges.Date)
	})

	t.Run("validation failures surface the message list", func(t *testing.T) {
		env.events.createErr = &record.ValidationError{Messages: []string{
			"Event name length must be between 3 and 50 characters - now is 2.",
			"Event duration must be greater than zero.",
		}}
		defer func() { env.events.createErr = nil }()

		rec := env.do(http.MethodPost, "/api/event", editorToken, map[string]any{"name": "ab"})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var payload errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Len(t, payload.Errors, 2)
	})

	t.Run("missing events map to 404", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/event/"+uuid.NewString(), userToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCategoryRoutes(t *testing.T) {
	env := newTestEnv(t)

	t.Run("listing requires the editor role", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/api/category", userToken, nil).Code)
		assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/category", editorToken, nil).Code)
	})

	t.Run("creation requires the admin role", func(t *testing.T) {
		body := map[string]string{"name": "Sports"}
		assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/api/category", editorToken, body).Code)
		assert.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/category", adminToken, body).Code)
	})
}

func TestUserRoutes(t *testing.T) {
	env := newTestEnv(t)

	t.Run("registration is public", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/user", "", map[string]string{
			"name": "Tester", "email": "t@example.com", "password": "secret1!",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, env.users.registerID, payload["id"])
	})

	t.Run("duplicate registration maps to 409", func(t *testing.T) {
		env.users.registerErr = application.ErrConflict
		defer func() { env.users.registerErr = nil }()

		rec := env.do(http.MethodPost, "/api/user", "", map[string]string{
			"name": "Tester", "email": "t@example.com", "password": "secret1!",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("listing requires the admin role", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/user", "", nil).Code)
		assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/api/user", editorToken, nil).Code)
		assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/user", adminToken, nil).Code)
	})

	t.Run("profile updates reach the service", func(t *testing.T) {
		rec := env.do(http.MethodPatch, "/api/user/email", userToken, map[string]string{"email": "new@example.com"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "new@example.com", env.users.changed["email"])

		rec = env.do(http.MethodPatch, "/api/user/name", userToken, map[string]string{"name": "Renamed"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Renamed", env.users.changed["name"])
	})

	t.Run("name lookup returns the stored display name", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/user/name", "", nil).Code)

		rec := env.do(http.MethodGet, "/api/user/name", userToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, "Tester", payload["name"])
	})

	t.Run("role changes require the admin role", func(t *testing.T) {
		body := map[string]string{"userId": uuid.NewString(), "role": "editor"}
		assert.Equal(t, http.StatusForbidden, env.do(http.MethodPatch, "/api/user/role", userToken, body).Code)
		assert.Equal(t, http.StatusOK, env.do(http.MethodPatch, "/api/user/role", adminToken, body).Code)
		assert.Equal(t, "editor", env.users.changed["role"])
	})

	t.Run("admin deletion rejects other roles", func(t *testing.T) {
		path := "/api/user/admin/" + uuid.NewString()
		assert.Equal(t, http.StatusForbidden, env.do(http.MethodDelete, path, editorToken, nil).Code)
		assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, path, adminToken, nil).Code)
	})
}
