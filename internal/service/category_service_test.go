package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"saleboard/internal/model"
)

func TestCategoryService_List(t *testing.T) {
	categories := []model.Category{
		{ID: 1, Name: "Electronics"},
		{ID: 2, Name: "Furniture"},
	}

	t.Run("lists from repository when redis is unavailable", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		categoryRepo.On("List", mock.Anything).Return(categories, nil)

		// A nil cache client degrades to misses and no-op writes.
		svc := NewCategoryService(categoryRepo, nil)

		got, err := svc.List(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, categories, got)
		categoryRepo.AssertExpectations(t)
	})

	t.Run("repository errors propagate", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		categoryRepo.On("List", mock.Anything).Return(nil, assert.AnError)

		svc := NewCategoryService(categoryRepo, nil)

		got, err := svc.List(context.Background())
		assert.Error(t, err)
		assert.Nil(t, got)
	})
}
