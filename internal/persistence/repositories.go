package persistence

import "context"

// EventRepository captures the storage operations for events. Partial updates
// are not listed here: they flow through the record projector against the
// shared adapter.
type EventRepository interface {
	Insert(ctx context.Context, row EventRow) error
	GetByID(ctx context.Context, id string) (EventRow, error)
	List(ctx context.Context) ([]EventListItem, error)
	SearchByName(ctx context.Context, name string) ([]EventSearchItem, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CategoryRepository captures the storage operations for categories.
// FindByName doubles as the name-availability pre-check.
type CategoryRepository interface {
	Insert(ctx context.Context, row CategoryRow) error
	GetByID(ctx context.Context, id string) (CategoryRow, error)
	FindByName(ctx context.Context, name string) (CategoryRow, error)
	List(ctx context.Context) ([]CategoryRow, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// UserRepository captures the storage operations for user accounts.
type UserRepository interface {
	Insert(ctx context.Context, row UserRow) error
	GetByID(ctx context.Context, id string) (UserRow, error)
	FindByEmailAndHash(ctx context.Context, email, passwordHash string) (UserRow, error)
	FindByTokenID(ctx context.Context, tokenID string) (UserRow, error)
	List(ctx context.Context) ([]UserListItem, error)
	IsEmailAvailable(ctx context.Context, email string) (bool, error)
	GetRequestStatus(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
