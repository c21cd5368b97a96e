package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"saleboard/internal/cache"
	"saleboard/internal/model"
	"saleboard/internal/repository"
)

const (
	categoryCacheKey = "categories"
	categoryCacheTTL = 5 * time.Minute
)

// CategoryService exposes the read-only category registry.
type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo repository.CategoryRepository, cacheClient *cache.Client) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		cache:        cacheClient,
	}
}

// List returns all categories, served from Redis when possible. The registry
// changes only through seeding, so a short TTL is plenty.
func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	if data, _ := s.cache.Get(ctx, categoryCacheKey); data != nil {
		var categories []model.Category
		if err := json.Unmarshal(data, &categories); err == nil {
			return categories, nil
		}
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if payload, err := json.Marshal(categories); err == nil {
		_ = s.cache.Set(ctx, categoryCacheKey, payload, categoryCacheTTL)
	}

	return categories, nil
}
