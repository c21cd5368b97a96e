package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"saleboard/internal/model"
)

// Sort keys recognized by product listings. Anything else falls back to newest.
const (
	SortNewest     = "newest"
	SortOldest     = "oldest"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortMostViewed = "most_viewed"
)

// ProductFilter narrows and orders product listings. Zero values mean
// "no constraint".
type ProductFilter struct {
	Search     string
	CategoryID uint
	Sort       string
}

// ProductRepository defines persistence operations for products.
//
// Every ownership-guarded mutation is a single conditional statement scoped by
// (id, seller_id); callers learn about a missing or foreign product only through
// a zero affected-row count. This keeps the existence-and-ownership check and
// the mutation atomic, so a concurrent delete cannot be raced by a stale
// authorization decision.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	ListPublic(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	ListBySeller(ctx context.Context, sellerID uint, filter ProductFilter) ([]model.Product, error)
	ListBySellerAndState(ctx context.Context, sellerID uint, active bool) ([]model.Product, error)
	UpdateFields(ctx context.Context, id, sellerID uint, fields map[string]interface{}) (int64, error)
	ToggleActive(ctx context.Context, id, sellerID uint) (bool, int64, error)
	Delete(ctx context.Context, id, sellerID uint) (int64, error)
	IncrementViews(ctx context.Context, id uint) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository builds a GORM-backed repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID loads a product with its category and seller rows for decoration.
func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").Preload("Seller").
		First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) ListPublic(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").Preload("Seller").
		Where("is_active = ?", true)
	query = applyFilter(query, filter)

	var products []model.Product
	if err := query.Order(orderClause(filter.Sort)).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerID uint, filter ProductFilter) ([]model.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").Preload("Seller").
		Where("seller_id = ?", sellerID)
	query = applyFilter(query, filter)

	var products []model.Product
	if err := query.Order(orderClause(filter.Sort)).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListBySellerAndState(ctx context.Context, sellerID uint, active bool) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").Preload("Seller").
		Where("seller_id = ? AND is_active = ?", sellerID, active).
		Order(orderClause(SortNewest)).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateFields applies a partial update scoped by (id, seller_id) and reports
// the matched row count. The MySQL DSN must set clientFoundRows=true so that
// an update writing identical values still counts as a match.
func (r *productRepository) UpdateFields(ctx context.Context, id, sellerID uint, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND seller_id = ?", id, sellerID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// ToggleActive flips is_active in place and returns the new state. The flip is
// a single statement, so concurrent toggles cannot lose updates; the follow-up
// read of the new state is informational only.
func (r *productRepository) ToggleActive(ctx context.Context, id, sellerID uint) (bool, int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND seller_id = ?", id, sellerID).
		Update("is_active", gorm.Expr("NOT is_active"))
	if res.Error != nil || res.RowsAffected == 0 {
		return false, res.RowsAffected, res.Error
	}

	var active bool
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("is_active").
		Where("id = ? AND seller_id = ?", id, sellerID).
		Scan(&active).Error
	return active, res.RowsAffected, err
}

func (r *productRepository) Delete(ctx context.Context, id, sellerID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND seller_id = ?", id, sellerID).
		Delete(&model.Product{})
	return res.RowsAffected, res.Error
}

// IncrementViews bumps the view counter atomically. UpdateColumn keeps
// updated_at untouched: a read side effect is not an edit.
func (r *productRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func applyFilter(query *gorm.DB, filter ProductFilter) *gorm.DB {
	if filter.Search != "" {
		// Escape LIKE wildcards so the search term matches literally.
		term := likeEscaper.Replace(strings.ToLower(filter.Search))
		query = query.Where("LOWER(title) LIKE ?", "%"+term+"%")
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	return query
}

// orderClause whitelists sort keys; ties break on id ASC, which is insertion
// order for auto-increment keys.
func orderClause(sort string) string {
	switch sort {
	case SortOldest:
		return "created_at ASC, id ASC"
	case SortPriceAsc:
		return "price_cents ASC, id ASC"
	case SortPriceDesc:
		return "price_cents DESC, id ASC"
	case SortMostViewed:
		return "views DESC, id ASC"
	default:
		return "created_at DESC, id ASC"
	}
}
