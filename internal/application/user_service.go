package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/eventlist/internal/persistence"
	"github.com/example/eventlist/internal/record"
)

// normalizeEmail canonicalizes an address before it is stored or looked up, so
// an account registered with mixed case can always authenticate.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterInput carries the self-service registration fields. Role and request
// flag are never caller-controlled: accounts start as plain users.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UserService orchestrates account management: registration, profile changes,
// and the role upgrade workflow.
type UserService struct {
	users       persistence.UserRepository
	projector   Projector
	hash        record.Hasher
	idGenerator func() string
}

// NewUserService wires dependencies for the user service.
func NewUserService(users persistence.UserRepository, projector Projector, hash record.Hasher, idGenerator func() string) *UserService {
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	return &UserService{
		users:       users,
		projector:   projector,
		hash:        hash,
		idGenerator: idGenerator,
	}
}

// Register validates and persists a new account. Email availability is
// pre-checked; the unique index backs it up when two registrations race.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (string, error) {
	if s == nil {
		return "", fmt.Errorf("UserService is nil")
	}

	user, err := record.NewUser(record.UserInput{
		ID:       s.idGenerator(),
		Name:     in.Name,
		Email:    normalizeEmail(in.Email),
		Password: in.Password,
	}, s.hash)
	if err != nil {
		return "", err
	}

	available, err := s.users.IsEmailAvailable(ctx, user.Email())
	if err != nil {
		return "", err
	}
	if !available {
		return "", ErrConflict
	}

	if err := s.users.Insert(ctx, userRowFromRecord(user)); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			return "", ErrConflict
		}
		return "", err
	}
	return user.ID(), nil
}

// ListUsers returns the account listing for administrators.
func (s *UserService) ListUsers(ctx context.Context, principal Principal) ([]persistence.UserListItem, error) {
	if s == nil {
		return nil, fmt.Errorf("UserService is nil")
	}
	if !principal.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.users.List(ctx)
}

// ChangeEmail updates the principal's email and revokes the active session
// token so the account must log in again.
func (s *UserService) ChangeEmail(ctx context.Context, principal Principal, email string) error {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}

	email = normalizeEmail(email)

	user, err := s.loadUser(ctx, principal.UserID)
	if err != nil {
		return err
	}
	current := user.Email()
	if err := user.SetEmail(email); err != nil {
		return err
	}

	// Re-submitting the current address must not trip the availability check:
	// the only row holding it is the caller's own.
	if email != current {
		available, err := s.users.IsEmailAvailable(ctx, email)
		if err != nil {
			return err
		}
		if !available {
			return ErrConflict
		}
	}

	user.SetCurrentTokenID(nil)
	return s.project(ctx, user, []string{"email", "currentTokenId"})
}

// ChangePassword updates the principal's credential and revokes the active
// session token.
func (s *UserService) ChangePassword(ctx context.Context, principal Principal, password string) error {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}

	user, err := s.loadUser(ctx, principal.UserID)
	if err != nil {
		return err
	}
	if err := user.SetPassword(password, s.hash); err != nil {
		return err
	}

	user.SetCurrentTokenID(nil)
	return s.project(ctx, user, []string{"passwordHash", "currentTokenId"})
}

// ChangeName updates the principal's display name.
func (s *UserService) ChangeName(ctx context.Context, principal Principal, name string) error {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}

	user, err := s.loadUser(ctx, principal.UserID)
	if err != nil {
		return err
	}
	user.SetName(name)
	return s.project(ctx, user, []string{"name"})
}

// GetName returns the principal's display name.
func (s *UserService) GetName(ctx context.Context, principal Principal) (string, error) {
	if s == nil {
		return "", fmt.Errorf("UserService is nil")
	}

	user, err := s.loadUser(ctx, principal.UserID)
	if err != nil {
		return "", err
	}
	return user.Name(), nil
}

// GetRole returns the stored role of an account. Looking up another account
// requires the admin role.
func (s *UserService) GetRole(ctx context.Context, principal Principal, userID string) (record.Role, error) {
	if s == nil {
		return "", fmt.Errorf("UserService is nil")
	}
	if userID == "" {
		userID = principal.UserID
	}
	if userID != principal.UserID && !principal.IsAdmin() {
		return "", ErrForbidden
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Role(), nil
}

// ChangeRole assigns a new role for administrators and clears any pending
// upgrade request on the account.
func (s *UserService) ChangeRole(ctx context.Context, principal Principal, userID string, role record.Role) error {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}
	if !principal.IsAdmin() {
		return ErrForbidden
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	user.SetRole(role)
	user.SetRequest(false)
	return s.project(ctx, user, []string{"role", "request"})
}

// RequestRoleUpgrade flags the principal's account for administrator review.
func (s *UserService) RequestRoleUpgrade(ctx context.Context, principal Principal) error {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}

	user, err := s.loadUser(ctx, principal.UserID)
	if err != nil {
		return err
	}
	user.SetRequest(true)
	return s.project(ctx, user, []string{"request"})
}

// GetRequestStatus reports whether the principal has a pending upgrade
// request.
func (s *UserService) GetRequestStatus(ctx context.Context, principal Principal) (bool, error) {
	if s == nil {
		return false, fmt.Errorf("UserService is nil")
	}

	request, err := s.users.GetRequestStatus(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	return request, nil
}

// DeleteSelf removes the principal's own account.
func (s *UserService) DeleteSelf(ctx context.Context, principal Principal) error {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}
	return s.delete(ctx, principal.UserID)
}

// DeleteByAdmin removes another account for administrators.
func (s *UserService) DeleteByAdmin(ctx context.Context, principal Principal, userID string) error {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}
	if !principal.IsAdmin() {
		return ErrForbidden
	}
	if uuid.Validate(userID) != nil {
		return ErrInvalidID
	}
	return s.delete(ctx, userID)
}

func (s *UserService) delete(ctx context.Context, userID string) error {
	ok, err := s.users.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *UserService) loadUser(ctx context.Context, id string) (*record.User, error) {
	row, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record.NewUser(userInputFromRow(row), s.hash)
}

func (s *UserService) project(ctx context.Context, user *record.User, fields []string) error {
	ok, err := s.projector.Update(ctx, user, fields)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOperationFailed
	}
	return nil
}
