package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/osvaldocariege06/Up-ToDo/internal/logging"
	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote"
)

// CategoryStore is the session's category collection. Categories are
// append-only.
type CategoryStore struct {
	svc    remote.CategoryService
	logger *slog.Logger

	mu         sync.RWMutex
	categories []model.Category
}

// NewCategoryStore creates an empty store mirroring svc.
func NewCategoryStore(svc remote.CategoryService, opts ...Option) *CategoryStore {
	o := buildOptions(opts)
	return &CategoryStore{
		svc:    svc,
		logger: o.logger.With(slog.String("store", "categories")),
	}
}

// LoadAll replaces the collection from the backend.
func (s *CategoryStore) LoadAll(ctx context.Context) error {
	cats, err := s.svc.ListCategories(ctx)
	if err != nil {
		s.logger.Error("failed to load categories", logging.Operation("load_all"), logging.Err(err))
		return err
	}

	s.mu.Lock()
	s.categories = append([]model.Category(nil), cats...)
	s.mu.Unlock()
	return nil
}

// Create validates c and appends the confirmed record.
func (s *CategoryStore) Create(ctx context.Context, c model.Category) (model.Category, error) {
	if err := c.ValidateNew(); err != nil {
		return model.Category{}, err
	}

	created, err := s.svc.CreateCategory(ctx, c)
	if err != nil {
		s.logger.Error("failed to create category", logging.Operation("create"), logging.Err(err))
		return model.Category{}, err
	}

	s.mu.Lock()
	s.categories = append(s.categories, created)
	s.mu.Unlock()

	s.logger.Debug("category created", logging.CategoryID(created.ID))
	return created, nil
}

// Categories returns a copy of the collection.
func (s *CategoryStore) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Category(nil), s.categories...)
}

// Get returns the category with id.
func (s *CategoryStore) Get(id string) (model.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}
