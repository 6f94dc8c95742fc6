package record

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/eventlist/internal/validate"
)

// Role ranks an account's privileges.
type Role string

const (
	RoleUser   Role = "user"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// ParseRole maps a stored or caller-supplied value onto a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleEditor, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

var (
	// ErrEmailInvalid is returned by SetEmail, which runs outside the
	// batch-update flow and fails immediately instead of accumulating.
	ErrEmailInvalid = errors.New("provided email is not valid")
	// ErrPasswordInvalid is the immediate-failure counterpart for SetPassword.
	ErrPasswordInvalid = errors.New("provided password is not valid")
)

// Hasher is the one-way credential transform injected into the user builder.
// The process-wide salt lives behind it; entities never see plaintext after
// construction.
type Hasher func(password string) string

// UserInput is the raw record a User is built from. Password is set on the
// untrusted path; PasswordHash on re-hydration from storage.
type UserInput struct {
	ID             string
	Name           string
	Email          string
	Password       string
	PasswordHash   string
	CurrentTokenID *string
	Role           string
	Request        bool
}

// User is a validated account. At most one session token is active: issuing a
// new one overwrites the stored token id, so the old token no longer resolves.
type User struct {
	errs

	id             string
	name           string
	email          string
	passwordHash   string
	currentTokenID *string
	role           Role
	request        bool
}

// NewUser builds a User from untrusted input, collecting all violations
// before failing. The plaintext password is hashed through hash and not
// retained. Role defaults to RoleUser.
func NewUser(in UserInput, hash Hasher) (*User, error) {
	u := &User{
		id:      in.ID,
		request: in.Request,
	}
	if u.id == "" {
		u.id = uuid.NewString()
	}
	if in.CurrentTokenID != nil && *in.CurrentTokenID != "" {
		token := *in.CurrentTokenID
		u.currentTokenID = &token
	}

	role := RoleUser
	if in.Role != "" {
		parsed, ok := ParseRole(in.Role)
		if !ok {
			u.add(fmt.Sprintf("Provided role %q is not valid.", in.Role))
		} else {
			role = parsed
		}
	}
	u.role = role

	if !validate.LengthBetween(in.Name, 2, 30) {
		u.add(fmt.Sprintf("User name must be between 2 and 30 characters - now is %d.", len(in.Name)))
	}
	if !validate.IsEmailValid(in.Email) {
		u.add("Provided email is not valid.")
	}
	if in.Password != "" && !validate.IsPasswordValid(in.Password) {
		u.add("Provided password is not valid. Password should be between 7 to 15 characters which contain at least one numeric digit and a special character.")
	}

	if err := u.Err(); err != nil {
		return nil, err
	}

	u.name = in.Name
	u.email = in.Email
	switch {
	case in.Password != "":
		if hash == nil {
			return nil, errors.New("record: password hasher not configured")
		}
		u.passwordHash = hash(in.Password)
	case in.PasswordHash != "":
		u.passwordHash = in.PasswordHash
	}

	return u, nil
}

func (u *User) ID() string              { return u.id }
func (u *User) Name() string            { return u.name }
func (u *User) Email() string           { return u.email }
func (u *User) PasswordHash() string    { return u.passwordHash }
func (u *User) CurrentTokenID() *string { return u.currentTokenID }
func (u *User) Role() Role              { return u.role }
func (u *User) Request() bool           { return u.request }

func (u *User) SetName(name string) {
	if !validate.LengthBetween(name, 2, 30) {
		u.add(fmt.Sprintf("User name must be between 2 and 30 characters - now is %d.", len(name)))
		return
	}
	u.name = name
}

// SetEmail fails immediately: email changes arrive through their own update
// flow, outside the entity's batch mutation path.
func (u *User) SetEmail(email string) error {
	if !validate.IsEmailValid(email) {
		return ErrEmailInvalid
	}
	u.email = email
	return nil
}

// SetPassword hashes and stores the credential, failing immediately on shape
// violations for the same reason as SetEmail.
func (u *User) SetPassword(password string, hash Hasher) error {
	if !validate.IsPasswordValid(password) {
		return ErrPasswordInvalid
	}
	if hash == nil {
		return errors.New("record: password hasher not configured")
	}
	u.passwordHash = hash(password)
	return nil
}

// SetCurrentTokenID installs or clears the active session token id.
func (u *User) SetCurrentTokenID(tokenID *string) {
	if tokenID == nil || *tokenID == "" {
		u.currentTokenID = nil
		return
	}
	token := *tokenID
	u.currentTokenID = &token
}

func (u *User) SetRole(role Role) {
	if _, ok := ParseRole(string(role)); !ok {
		u.add(fmt.Sprintf("Provided role %q is not valid.", role))
		return
	}
	u.role = role
}

func (u *User) SetRequest(request bool) {
	u.request = request
}

// TableName implements Row.
func (u *User) TableName() string { return "users" }

// Field implements Row.
func (u *User) Field(name string) (any, bool) {
	switch name {
	case "name":
		return u.name, true
	case "email":
		return u.email, true
	case "passwordHash":
		return u.passwordHash, true
	case "currentTokenId":
		return u.currentTokenID, true
	case "role":
		return string(u.role), true
	case "request":
		return u.request, true
	}
	return nil, false
}
