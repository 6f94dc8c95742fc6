// Package persistence defines the storage row shapes and repository contracts
// the application layer depends on. Columns use the snake_case names produced
// by the record package's case-fold mapping.
package persistence

// EventRow mirrors one row of the events table.
type EventRow struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	IsChosen    bool    `db:"is_chosen"`
	Time        string  `db:"time"`
	Duration    int     `db:"duration"`
	Date        string  `db:"date"`
	Link        *string `db:"link"`
	Lat         float64 `db:"lat"`
	Lon         float64 `db:"lon"`
	UserID      string  `db:"user_id"`
	CategoryID  string  `db:"category_id"`
}

// EventListItem is the trimmed projection returned by event listings.
type EventListItem struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	IsChosen    bool   `db:"is_chosen"`
	Duration    int    `db:"duration"`
}

// EventSearchItem is the map-oriented projection returned by name search.
type EventSearchItem struct {
	ID   string  `db:"id"`
	Name string  `db:"name"`
	Lat  float64 `db:"lat"`
	Lon  float64 `db:"lon"`
}

// CategoryRow mirrors one row of the categories table.
type CategoryRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

// UserRow mirrors one row of the users table.
type UserRow struct {
	ID             string  `db:"id"`
	Name           string  `db:"name"`
	Email          string  `db:"email"`
	PasswordHash   string  `db:"password_hash"`
	CurrentTokenID *string `db:"current_token_id"`
	Role           string  `db:"role"`
	Request        bool    `db:"request"`
}

// UserListItem is the projection exposed to administrators listing accounts.
type UserListItem struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
	Role  string `db:"role"`
}
