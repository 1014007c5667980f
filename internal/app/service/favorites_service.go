package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/domain/entity"
)

// FavoritesServiceImpl implements port.FavoritesService over an injected store.
type FavoritesServiceImpl struct {
	store  port.FavoritesStore
	logger port.Logger
	mu     sync.Mutex // serialises load-modify-save
}

// NewFavoritesService creates a new instance of FavoritesServiceImpl.
func NewFavoritesService(store port.FavoritesStore, logger port.Logger) port.FavoritesService {
	return &FavoritesServiceImpl{store: store, logger: logger}
}

// List implements port.FavoritesService.
func (s *FavoritesServiceImpl) List(ctx context.Context, owner string) ([]string, error) {
	owner, err := entity.NormalizeAddress(owner)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, owner)
}

// Add implements port.FavoritesService. Adding an existing id is a no-op.
func (s *FavoritesServiceImpl) Add(ctx context.Context, owner, objectID string) ([]string, error) {
	return s.update(ctx, owner, objectID, func(ids []string, id string) []string {
		if slices.Contains(ids, id) {
			return ids
		}
		return append(ids, id)
	})
}

// Remove implements port.FavoritesService. Removing a missing id is a no-op.
func (s *FavoritesServiceImpl) Remove(ctx context.Context, owner, objectID string) ([]string, error) {
	return s.update(ctx, owner, objectID, func(ids []string, id string) []string {
		return slices.DeleteFunc(ids, func(v string) bool { return v == id })
	})
}

func (s *FavoritesServiceImpl) update(ctx context.Context, owner, objectID string, change func([]string, string) []string) ([]string, error) {
	owner, err := entity.NormalizeAddress(owner)
	if err != nil {
		return nil, err
	}
	id, err := entity.NormalizeAddress(objectID)
	if err != nil {
		return nil, fmt.Errorf("object id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	ids = change(ids, id)
	if err := s.store.Save(ctx, owner, ids); err != nil {
		s.logger.Error("Failed to save favorites", "owner", owner, "error", err)
		return nil, fmt.Errorf("failed to save favorites of %s: %w", owner, err)
	}
	s.logger.Debug("Favorites updated", "owner", owner, "count", len(ids))
	return ids, nil
}

func (s *FavoritesServiceImpl) load(ctx context.Context, owner string) ([]string, error) {
	ids, err := s.store.Load(ctx, owner)
	if err != nil {
		s.logger.Error("Failed to load favorites", "owner", owner, "error", err)
		return nil, fmt.Errorf("failed to load favorites of %s: %w", owner, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
