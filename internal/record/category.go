package record

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/example/eventlist/internal/validate"
)

// CategoryInput is the raw record a Category is built from.
type CategoryInput struct {
	ID   string
	Name string
}

// Category is a validated event category. Name uniqueness is a cross-row
// concern enforced by the caller's availability pre-check, not by the entity.
type Category struct {
	errs

	id   string
	name string
}

// NewCategory builds a Category from untrusted input, defaulting identity to
// a fresh UUID.
func NewCategory(in CategoryInput) (*Category, error) {
	c := &Category{id: in.ID}
	if c.id == "" {
		c.id = uuid.NewString()
	}

	if !validate.LengthBetween(in.Name, 3, 30) {
		c.add(fmt.Sprintf("Category name length must be between 3 and 30 characters - now is %d.", len(in.Name)))
	}

	if err := c.Err(); err != nil {
		return nil, err
	}

	c.name = in.Name
	return c, nil
}

func (c *Category) ID() string   { return c.id }
func (c *Category) Name() string { return c.name }

func (c *Category) SetName(name string) {
	if !validate.LengthBetween(name, 3, 30) {
		c.add(fmt.Sprintf("Category name length must be between 3 and 30 characters - now is %d.", len(name)))
		return
	}
	c.name = name
}

// TableName implements Row.
func (c *Category) TableName() string { return "categories" }

// Field implements Row.
func (c *Category) Field(name string) (any, bool) {
	if name == "name" {
		return c.name, true
	}
	return nil, false
}
