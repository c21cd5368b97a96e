package service

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "saleboard/internal/errors"
	"saleboard/internal/model"
	"saleboard/internal/repository"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) ListPublic(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) ListBySeller(ctx context.Context, sellerID uint, filter repository.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) ListBySellerAndState(ctx context.Context, sellerID uint, active bool) ([]model.Product, error) {
	args := m.Called(ctx, sellerID, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) UpdateFields(ctx context.Context, id, sellerID uint, fields map[string]interface{}) (int64, error) {
	args := m.Called(ctx, id, sellerID, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ToggleActive(ctx context.Context, id, sellerID uint) (bool, int64, error) {
	args := m.Called(ctx, id, sellerID)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Delete(ctx context.Context, id, sellerID uint) (int64, error) {
	args := m.Called(ctx, id, sellerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) IncrementViews(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockPhotoStore is a mock implementation of photo.Store.
type MockPhotoStore struct {
	mock.Mock
}

func (m *MockPhotoStore) Save(file *multipart.FileHeader) (string, error) {
	args := m.Called(file)
	return args.String(0), args.Error(1)
}

func (m *MockPhotoStore) URL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func decoratedProduct(id, sellerID uint) *model.Product {
	return &model.Product{
		ID:         id,
		Title:      "Lamp",
		PriceCents: 1500,
		Quantity:   2,
		CategoryID: 3,
		SellerID:   sellerID,
		IsActive:   true,
		Category:   model.Category{ID: 3, Name: "Furniture"},
		Seller:     model.User{ID: sellerID, FullName: "Seller", Phone: "+1-555-0100"},
	}
}

func newCatalogFixture() (*MockProductRepository, *MockCategoryRepository, *MockPhotoStore, CatalogService) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	photos := new(MockPhotoStore)
	return productRepo, categoryRepo, photos, NewCatalogService(productRepo, categoryRepo, photos)
}

func TestCatalogService_Create_Validation(t *testing.T) {
	tests := []struct {
		name          string
		draft         ProductDraft
		categoryKnown bool
		expectedError error
	}{
		{
			name:          "empty title",
			draft:         ProductDraft{Title: "   ", PriceCents: 1500, Quantity: 1, CategoryID: 3},
			expectedError: apperrors.ErrTitleRequired,
		},
		{
			name:          "zero price",
			draft:         ProductDraft{Title: "Lamp", PriceCents: 0, Quantity: 1, CategoryID: 3},
			expectedError: apperrors.ErrInvalidPrice,
		},
		{
			name:          "negative price",
			draft:         ProductDraft{Title: "Lamp", PriceCents: -100, Quantity: 1, CategoryID: 3},
			expectedError: apperrors.ErrInvalidPrice,
		},
		{
			name:          "zero quantity",
			draft:         ProductDraft{Title: "Lamp", PriceCents: 1500, Quantity: 0, CategoryID: 3},
			expectedError: apperrors.ErrInvalidQuantity,
		},
		{
			name:          "unknown category",
			draft:         ProductDraft{Title: "Lamp", PriceCents: 1500, Quantity: 1, CategoryID: 99},
			expectedError: apperrors.ErrUnknownCategory,
		},
		{
			name:          "minimum valid listing: one cent, one item",
			draft:         ProductDraft{Title: "Lamp", PriceCents: 1, Quantity: 1, CategoryID: 3},
			categoryKnown: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			productRepo, categoryRepo, _, svc := newCatalogFixture()
			categoryRepo.On("Exists", mock.Anything, tt.draft.CategoryID).Return(tt.categoryKnown, nil).Maybe()
			if tt.expectedError == nil {
				productRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Product")).
					Run(func(args mock.Arguments) {
						args.Get(1).(*model.Product).ID = 42
					}).Return(nil)
				productRepo.On("FindByID", mock.Anything, uint(42)).Return(decoratedProduct(42, 7), nil)
			}

			product, err := svc.Create(context.Background(), 7, tt.draft)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, product)
				productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, product)
			}
			productRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_Create_SellerComesFromCaller(t *testing.T) {
	productRepo, categoryRepo, _, svc := newCatalogFixture()
	categoryRepo.On("Exists", mock.Anything, uint(3)).Return(true, nil)

	var captured *model.Product
	productRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Product")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*model.Product)
			captured.ID = 42
		}).Return(nil)
	productRepo.On("FindByID", mock.Anything, uint(42)).Return(decoratedProduct(42, 7), nil)

	_, err := svc.Create(context.Background(), 7, ProductDraft{Title: "Lamp", PriceCents: 1500, Quantity: 2, CategoryID: 3})

	assert.NoError(t, err)
	assert.Equal(t, uint(7), captured.SellerID)
	assert.True(t, captured.IsActive)
	assert.Equal(t, uint(0), captured.Views)
}

func TestCatalogService_Update(t *testing.T) {
	title := "New title"
	price := int64(2000)

	t.Run("empty change set is rejected", func(t *testing.T) {
		productRepo, _, _, svc := newCatalogFixture()

		product, err := svc.Update(context.Background(), 7, 42, ProductChanges{})

		assert.Equal(t, apperrors.ErrNoFieldsToUpdate, err)
		assert.Nil(t, product)
		productRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-owner and missing product are indistinguishable", func(t *testing.T) {
		productRepo, _, _, svc := newCatalogFixture()
		productRepo.On("UpdateFields", mock.Anything, uint(42), uint(8), map[string]interface{}{"title": title}).
			Return(int64(0), nil)

		product, err := svc.Update(context.Background(), 8, 42, ProductChanges{Title: &title})

		assert.Equal(t, apperrors.ErrProductNotOwned, err)
		assert.Nil(t, product)
	})

	t.Run("only present fields are written", func(t *testing.T) {
		productRepo, _, _, svc := newCatalogFixture()
		productRepo.On("UpdateFields", mock.Anything, uint(42), uint(7), map[string]interface{}{
			"title":       title,
			"price_cents": price,
		}).Return(int64(1), nil)
		productRepo.On("FindByID", mock.Anything, uint(42)).Return(decoratedProduct(42, 7), nil)

		product, err := svc.Update(context.Background(), 7, 42, ProductChanges{Title: &title, PriceCents: &price})

		assert.NoError(t, err)
		assert.NotNil(t, product)
		productRepo.AssertExpectations(t)
	})

	t.Run("invalid price short-circuits before any write", func(t *testing.T) {
		productRepo, _, _, svc := newCatalogFixture()
		badPrice := int64(0)

		_, err := svc.Update(context.Background(), 7, 42, ProductChanges{PriceCents: &badPrice})

		assert.Equal(t, apperrors.ErrInvalidPrice, err)
		productRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCatalogService_ToggleActive(t *testing.T) {
	t.Run("deactivate then reactivate", func(t *testing.T) {
		productRepo, _, _, svc := newCatalogFixture()
		productRepo.On("ToggleActive", mock.Anything, uint(42), uint(7)).Return(false, int64(1), nil).Once()
		productRepo.On("ToggleActive", mock.Anything, uint(42), uint(7)).Return(true, int64(1), nil).Once()

		active, message, err := svc.ToggleActive(context.Background(), 7, 42)
		assert.NoError(t, err)
		assert.False(t, active)
		assert.Equal(t, "Product deactivated", message)

		active, message, err = svc.ToggleActive(context.Background(), 7, 42)
		assert.NoError(t, err)
		assert.True(t, active)
		assert.Equal(t, "Product reactivated", message)
	})

	t.Run("foreign product", func(t *testing.T) {
		productRepo, _, _, svc := newCatalogFixture()
		productRepo.On("ToggleActive", mock.Anything, uint(42), uint(8)).Return(false, int64(0), nil)

		_, _, err := svc.ToggleActive(context.Background(), 8, 42)
		assert.Equal(t, apperrors.ErrProductNotOwned, err)
	})
}

func TestCatalogService_HardDelete(t *testing.T) {
	productRepo, _, _, svc := newCatalogFixture()
	productRepo.On("Delete", mock.Anything, uint(42), uint(7)).Return(int64(1), nil).Once()
	productRepo.On("Delete", mock.Anything, uint(42), uint(7)).Return(int64(0), nil).Once()

	assert.NoError(t, svc.HardDelete(context.Background(), 7, 42))
	// Deleting again behaves exactly like deleting a product that never existed.
	assert.Equal(t, apperrors.ErrProductNotOwned, svc.HardDelete(context.Background(), 7, 42))
}

func TestCatalogService_GetDetail(t *testing.T) {
	t.Run("missing product", func(t *testing.T) {
		productRepo, _, _, svc := newCatalogFixture()
		productRepo.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)

		product, err := svc.GetDetail(context.Background(), 42)
		assert.Equal(t, apperrors.ErrProductNotFound, err)
		assert.Nil(t, product)
	})

	t.Run("increments views exactly once per read", func(t *testing.T) {
		productRepo, _, _, svc := newCatalogFixture()
		productRepo.On("FindByID", mock.Anything, uint(42)).Return(decoratedProduct(42, 7), nil)
		productRepo.On("IncrementViews", mock.Anything, uint(42)).Return(nil)

		product, err := svc.GetDetail(context.Background(), 42)
		assert.NoError(t, err)
		assert.NotNil(t, product)
		productRepo.AssertNumberOfCalls(t, "IncrementViews", 1)
	})

	t.Run("increment failure does not fail the read", func(t *testing.T) {
		productRepo, _, _, svc := newCatalogFixture()
		productRepo.On("FindByID", mock.Anything, uint(42)).Return(decoratedProduct(42, 7), nil)
		productRepo.On("IncrementViews", mock.Anything, uint(42)).Return(assert.AnError)

		product, err := svc.GetDetail(context.Background(), 42)
		assert.NoError(t, err)
		assert.NotNil(t, product)
	})

	t.Run("missing seller row fails loudly", func(t *testing.T) {
		productRepo, _, _, svc := newCatalogFixture()
		broken := decoratedProduct(42, 7)
		broken.Seller = model.User{}
		productRepo.On("FindByID", mock.Anything, uint(42)).Return(broken, nil)

		product, err := svc.GetDetail(context.Background(), 42)
		assert.ErrorIs(t, err, apperrors.ErrBrokenReference)
		assert.Nil(t, product)
	})
}

func TestCatalogService_ListPublic(t *testing.T) {
	t.Run("returns decorated products", func(t *testing.T) {
		productRepo, _, _, svc := newCatalogFixture()
		filter := repository.ProductFilter{Search: "lam", Sort: repository.SortPriceDesc}
		productRepo.On("ListPublic", mock.Anything, filter).Return([]model.Product{*decoratedProduct(42, 7)}, nil)

		products, err := svc.ListPublic(context.Background(), filter)
		assert.NoError(t, err)
		assert.Len(t, products, 1)
	})

	t.Run("missing category row fails loudly", func(t *testing.T) {
		productRepo, _, _, svc := newCatalogFixture()
		broken := *decoratedProduct(42, 7)
		broken.Category = model.Category{}
		productRepo.On("ListPublic", mock.Anything, mock.Anything).Return([]model.Product{broken}, nil)

		products, err := svc.ListPublic(context.Background(), repository.ProductFilter{})
		assert.ErrorIs(t, err, apperrors.ErrBrokenReference)
		assert.Nil(t, products)
	})
}

func TestCatalogService_ListMine(t *testing.T) {
	productRepo, _, _, svc := newCatalogFixture()

	inactive := *decoratedProduct(43, 7)
	inactive.IsActive = false
	mine := []model.Product{*decoratedProduct(42, 7), inactive}
	productRepo.On("ListBySeller", mock.Anything, uint(7), repository.ProductFilter{}).Return(mine, nil)

	products, err := svc.ListMine(context.Background(), 7, repository.ProductFilter{})
	assert.NoError(t, err)
	// Owner listings include deactivated products.
	assert.Len(t, products, 2)
	assert.False(t, products[1].IsActive)
}
