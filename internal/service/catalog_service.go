package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"gorm.io/gorm"

	apperrors "saleboard/internal/errors"
	"saleboard/internal/model"
	"saleboard/internal/photo"
	"saleboard/internal/repository"
)

// ProductDraft carries the fields of a new listing.
type ProductDraft struct {
	Title       string
	Description string
	PriceCents  int64
	Quantity    int
	CategoryID  uint
	Photo       *multipart.FileHeader
}

// ProductChanges carries a partial update; nil pointers mean "leave unchanged".
type ProductChanges struct {
	Title       *string
	Description *string
	PriceCents  *int64
	Quantity    *int
	CategoryID  *uint
	Photo       *multipart.FileHeader
}

// CatalogService owns product records, their lifecycle, and the query engine.
// Ownership is enforced by the repository's (id, seller_id)-scoped statements;
// a zero match count surfaces as the merged not-found-or-not-authorized error.
type CatalogService interface {
	ListPublic(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	ListMine(ctx context.Context, sellerID uint, filter repository.ProductFilter) ([]model.Product, error)
	ListMineByState(ctx context.Context, sellerID uint, active bool) ([]model.Product, error)
	GetDetail(ctx context.Context, id uint) (*model.Product, error)
	Create(ctx context.Context, sellerID uint, draft ProductDraft) (*model.Product, error)
	Update(ctx context.Context, sellerID, id uint, changes ProductChanges) (*model.Product, error)
	ToggleActive(ctx context.Context, sellerID, id uint) (active bool, message string, err error)
	HardDelete(ctx context.Context, sellerID, id uint) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	photos       photo.Store
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, photos photo.Store) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		photos:       photos,
	}
}

// ListPublic returns active products matching the filter.
func (s *catalogService) ListPublic(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	products, err := s.productRepo.ListPublic(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if err := ensureDecorated(products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListMine returns the seller's products regardless of active state.
func (s *catalogService) ListMine(ctx context.Context, sellerID uint, filter repository.ProductFilter) ([]model.Product, error) {
	products, err := s.productRepo.ListBySeller(ctx, sellerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list own products: %w", err)
	}
	if err := ensureDecorated(products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListMineByState returns the seller's products in one active state, newest first.
func (s *catalogService) ListMineByState(ctx context.Context, sellerID uint, active bool) ([]model.Product, error) {
	products, err := s.productRepo.ListBySellerAndState(ctx, sellerID, active)
	if err != nil {
		return nil, fmt.Errorf("list own products: %w", err)
	}
	if err := ensureDecorated(products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetDetail returns a single decorated product and bumps its view counter.
// The increment is best effort: its failure never fails the read, and the
// returned record carries the pre-increment count.
func (s *catalogService) GetDetail(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	if err := ensureDecorated([]model.Product{*product}); err != nil {
		return nil, err
	}

	if err := s.productRepo.IncrementViews(ctx, id); err != nil {
		log.Printf("view count increment failed for product %d: %v", id, err)
	}

	return product, nil
}

// Create validates and stores a new listing owned by sellerID. The seller
// reference always comes from the authenticated caller, never from input.
func (s *catalogService) Create(ctx context.Context, sellerID uint, draft ProductDraft) (*model.Product, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, apperrors.ErrTitleRequired
	}
	if draft.PriceCents <= 0 {
		return nil, apperrors.ErrInvalidPrice
	}
	if draft.Quantity < 1 {
		return nil, apperrors.ErrInvalidQuantity
	}
	if err := s.ensureCategory(ctx, draft.CategoryID); err != nil {
		return nil, err
	}

	// Store the photo before touching the database so a storage failure
	// cannot leave a half-written record.
	var photoKey string
	if draft.Photo != nil {
		key, err := s.photos.Save(draft.Photo)
		if err != nil {
			return nil, fmt.Errorf("store photo: %w", err)
		}
		photoKey = key
	}

	product := &model.Product{
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		PriceCents:  draft.PriceCents,
		Quantity:    draft.Quantity,
		PhotoKey:    photoKey,
		CategoryID:  draft.CategoryID,
		SellerID:    sellerID,
		IsActive:    true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return s.reload(ctx, product.ID)
}

// Update applies a partial update to a product the seller owns.
func (s *catalogService) Update(ctx context.Context, sellerID, id uint, changes ProductChanges) (*model.Product, error) {
	fields := map[string]interface{}{}

	if changes.Title != nil {
		title := strings.TrimSpace(*changes.Title)
		if title == "" {
			return nil, apperrors.ErrTitleRequired
		}
		fields["title"] = title
	}
	if changes.Description != nil {
		fields["description"] = strings.TrimSpace(*changes.Description)
	}
	if changes.PriceCents != nil {
		if *changes.PriceCents <= 0 {
			return nil, apperrors.ErrInvalidPrice
		}
		fields["price_cents"] = *changes.PriceCents
	}
	if changes.Quantity != nil {
		if *changes.Quantity < 1 {
			return nil, apperrors.ErrInvalidQuantity
		}
		fields["quantity"] = *changes.Quantity
	}
	if changes.CategoryID != nil {
		if err := s.ensureCategory(ctx, *changes.CategoryID); err != nil {
			return nil, err
		}
		fields["category_id"] = *changes.CategoryID
	}
	if changes.Photo != nil {
		key, err := s.photos.Save(changes.Photo)
		if err != nil {
			return nil, fmt.Errorf("store photo: %w", err)
		}
		fields["photo_key"] = key
	}

	if len(fields) == 0 {
		return nil, apperrors.ErrNoFieldsToUpdate
	}

	rows, err := s.productRepo.UpdateFields(ctx, id, sellerID, fields)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if rows == 0 {
		return nil, apperrors.ErrProductNotOwned
	}

	return s.reload(ctx, id)
}

// ToggleActive flips the product's visibility and reports the new state.
func (s *catalogService) ToggleActive(ctx context.Context, sellerID, id uint) (bool, string, error) {
	active, rows, err := s.productRepo.ToggleActive(ctx, id, sellerID)
	if err != nil {
		return false, "", fmt.Errorf("toggle product: %w", err)
	}
	if rows == 0 {
		return false, "", apperrors.ErrProductNotOwned
	}

	message := "Product deactivated"
	if active {
		message = "Product reactivated"
	}
	return active, message, nil
}

// HardDelete removes the product irreversibly.
func (s *catalogService) HardDelete(ctx context.Context, sellerID, id uint) error {
	rows, err := s.productRepo.Delete(ctx, id, sellerID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrProductNotOwned
	}
	return nil
}

func (s *catalogService) ensureCategory(ctx context.Context, id uint) error {
	if id == 0 {
		return apperrors.ErrUnknownCategory
	}
	exists, err := s.categoryRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return apperrors.ErrUnknownCategory
	}
	return nil
}

func (s *catalogService) reload(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload product: %w", err)
	}
	if err := ensureDecorated([]model.Product{*product}); err != nil {
		return nil, err
	}
	return product, nil
}

// ensureDecorated verifies that every product still resolves its mandatory
// category and seller rows. A missing reference is an integrity bug and must
// surface loudly instead of silently dropping the row.
func ensureDecorated(products []model.Product) error {
	for i := range products {
		if products[i].Category.ID == 0 || products[i].Seller.ID == 0 {
			return fmt.Errorf("product %d: %w", products[i].ID, apperrors.ErrBrokenReference)
		}
	}
	return nil
}
