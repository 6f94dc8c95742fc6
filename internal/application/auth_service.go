package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/example/eventlist/internal/persistence"
	"github.com/example/eventlist/internal/record"
)

// tokenIDAttempts bounds the retry loop that searches for an unused token id.
const tokenIDAttempts = 5

// AuthService coordinates login, token resolution, and logout. One session is
// active per account: logging in overwrites the stored token id, so the
// previous token stops resolving.
type AuthService struct {
	users          persistence.UserRepository
	projector      Projector
	hash           record.Hasher
	tokenGenerator func() string
	now            func() time.Time
	secret         []byte
	tokenTTL       time.Duration
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(users persistence.UserRepository, projector Projector, hash record.Hasher, secret []byte, tokenTTL time.Duration) *AuthService {
	return NewAuthServiceWithLogger(users, projector, hash, secret, tokenTTL, nil, nil, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with overridable token
// generation, clock, and logger.
func NewAuthServiceWithLogger(users persistence.UserRepository, projector Projector, hash record.Hasher, secret []byte, tokenTTL time.Duration, tokenGenerator func() string, now func() time.Time, logger *slog.Logger) *AuthService {
	if tokenGenerator == nil {
		tokenGenerator = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:          users,
		projector:      projector,
		hash:           hash,
		tokenGenerator: tokenGenerator,
		now:            now,
		secret:         secret,
		tokenTTL:       tokenTTL,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Login validates credentials, installs a fresh token id on the account, and
// returns it wrapped in a signed JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (token string, err error) {
	if s == nil {
		return "", fmt.Errorf("AuthService is nil")
	}
	if s.hash == nil {
		return "", fmt.Errorf("password hasher not configured")
	}

	email = normalizeEmail(email)

	logger := s.loggerWith(ctx, "Login", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "login succeeded")
	}()

	if email == "" || password == "" {
		err = ErrInvalidCredentials
		return
	}

	var row persistence.UserRow
	row, err = s.users.FindByEmailAndHash(ctx, email, s.hash(password))
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrInvalidCredentials
		}
		return
	}

	var user *record.User
	user, err = record.NewUser(userInputFromRow(row), s.hash)
	if err != nil {
		return
	}

	var tokenID string
	tokenID, err = s.freshTokenID(ctx)
	if err != nil {
		return
	}

	user.SetCurrentTokenID(&tokenID)
	var ok bool
	ok, err = s.projector.Update(ctx, user, []string{"currentTokenId"})
	if err != nil {
		return
	}
	if !ok {
		err = ErrOperationFailed
		return
	}

	token, err = s.signToken(tokenID)
	return
}

// ResolveToken parses and verifies a JWT and resolves its token id to the
// account it is installed on.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (Principal, error) {
	if s == nil {
		return Principal{}, fmt.Errorf("AuthService is nil")
	}
	if strings.TrimSpace(token) == "" {
		return Principal{}, ErrUnauthorized
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return Principal{}, ErrUnauthorized
	}

	tokenID, _ := claims["id"].(string)
	if tokenID == "" {
		return Principal{}, ErrUnauthorized
	}

	row, err := s.users.FindByTokenID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, err
	}

	role, ok := record.ParseRole(row.Role)
	if !ok {
		return Principal{}, ErrUnauthorized
	}
	return Principal{UserID: row.ID, Role: role}, nil
}

// Logout clears the principal's stored token id, invalidating any outstanding
// JWT for the account.
func (s *AuthService) Logout(ctx context.Context, principal Principal) error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}

	logger := s.loggerWith(ctx, "Logout", "user_id", principal.UserID)

	row, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	user, err := record.NewUser(userInputFromRow(row), s.hash)
	if err != nil {
		return err
	}
	user.SetCurrentTokenID(nil)

	ok, err := s.projector.Update(ctx, user, []string{"currentTokenId"})
	if err != nil {
		logger.ErrorContext(ctx, "logout failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	if !ok {
		return ErrOperationFailed
	}
	logger.InfoContext(ctx, "logout succeeded")
	return nil
}

// TokenTTL exposes the configured token lifetime so the transport layer can
// align cookie expiry with it.
func (s *AuthService) TokenTTL() time.Duration { return s.tokenTTL }

// freshTokenID generates a token id not currently installed on any account,
// retrying a bounded number of times on collision.
func (s *AuthService) freshTokenID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < tokenIDAttempts; attempt++ {
		candidate := s.tokenGenerator()
		_, err := s.users.FindByTokenID(ctx, candidate)
		switch {
		case errors.Is(err, persistence.ErrNotFound):
			return candidate, nil
		case err != nil:
			return "", err
		}
	}
	return "", fmt.Errorf("could not generate an unused token id after %d attempts", tokenIDAttempts)
}

func (s *AuthService) signToken(tokenID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"id":  tokenID,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
