package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/eventlist/internal/persistence"
	"github.com/example/eventlist/internal/record"
)

// CategoryService orchestrates validation, authorization, and persistence for
// categories.
type CategoryService struct {
	categories  persistence.CategoryRepository
	projector   Projector
	idGenerator func() string
}

// NewCategoryService wires dependencies for the category service.
func NewCategoryService(categories persistence.CategoryRepository, projector Projector, idGenerator func() string) *CategoryService {
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	return &CategoryService{
		categories:  categories,
		projector:   projector,
		idGenerator: idGenerator,
	}
}

// ListCategories returns all categories for editors and administrators.
func (s *CategoryService) ListCategories(ctx context.Context, principal Principal) ([]persistence.CategoryRow, error) {
	if s == nil {
		return nil, fmt.Errorf("CategoryService is nil")
	}
	if !principal.CanEdit() {
		return nil, ErrForbidden
	}
	return s.categories.List(ctx)
}

// GetCategory returns a single category.
func (s *CategoryService) GetCategory(ctx context.Context, id string) (persistence.CategoryRow, error) {
	if s == nil {
		return persistence.CategoryRow{}, fmt.Errorf("CategoryService is nil")
	}
	if uuid.Validate(id) != nil {
		return persistence.CategoryRow{}, ErrInvalidID
	}

	row, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.CategoryRow{}, ErrNotFound
		}
		return persistence.CategoryRow{}, err
	}
	return row, nil
}

// CreateCategory validates and persists a new category for administrators.
// Name availability is pre-checked before the insert; the unique index backs
// it up when two requests race.
func (s *CategoryService) CreateCategory(ctx context.Context, principal Principal, name string) (persistence.CategoryRow, error) {
	if s == nil {
		return persistence.CategoryRow{}, fmt.Errorf("CategoryService is nil")
	}
	if !principal.IsAdmin() {
		return persistence.CategoryRow{}, ErrForbidden
	}

	category, err := record.NewCategory(record.CategoryInput{ID: s.idGenerator(), Name: name})
	if err != nil {
		return persistence.CategoryRow{}, err
	}

	if err := s.ensureNameAvailable(ctx, category.Name()); err != nil {
		return persistence.CategoryRow{}, err
	}

	row := persistence.CategoryRow{ID: category.ID(), Name: category.Name()}
	if err := s.categories.Insert(ctx, row); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			return persistence.CategoryRow{}, ErrConflict
		}
		return persistence.CategoryRow{}, err
	}
	return row, nil
}

// RenameCategory changes a category's name for administrators.
func (s *CategoryService) RenameCategory(ctx context.Context, principal Principal, id, name string) error {
	if s == nil {
		return fmt.Errorf("CategoryService is nil")
	}
	if !principal.IsAdmin() {
		return ErrForbidden
	}
	if uuid.Validate(id) != nil {
		return ErrInvalidID
	}

	row, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	category, err := record.NewCategory(record.CategoryInput{ID: row.ID, Name: row.Name})
	if err != nil {
		return err
	}
	category.SetName(name)
	if err := category.Err(); err != nil {
		return err
	}

	if err := s.ensureNameAvailable(ctx, name); err != nil {
		return err
	}

	ok, err := s.projector.Update(ctx, category, []string{"name"})
	if err != nil {
		return err
	}
	if !ok {
		return ErrOperationFailed
	}
	return nil
}

// DeleteCategory removes a category for administrators.
func (s *CategoryService) DeleteCategory(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("CategoryService is nil")
	}
	if !principal.IsAdmin() {
		return ErrForbidden
	}
	if uuid.Validate(id) != nil {
		return ErrInvalidID
	}

	ok, err := s.categories.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrConstraintViolation) {
			return ErrConflict
		}
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *CategoryService) ensureNameAvailable(ctx context.Context, name string) error {
	_, err := s.categories.FindByName(ctx, name)
	switch {
	case err == nil:
		return ErrConflict
	case errors.Is(err, persistence.ErrNotFound):
		return nil
	default:
		return err
	}
}
