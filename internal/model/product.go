package model

import "time"

// Product is a marketplace listing. SellerID is set once at creation and never
// reassigned. IsActive=false hides the listing from the public catalog but the
// row survives until an explicit hard delete; there is no gorm soft-delete
// column because hard delete must be a real DELETE.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	PriceCents  int64     `json:"price_cents" gorm:"not null"`
	Quantity    int       `json:"quantity" gorm:"not null;default:1"`
	PhotoKey    string    `json:"-" gorm:"size:255"`
	CategoryID  uint      `json:"category_id" gorm:"not null;index"`
	SellerID    uint      `json:"seller_id" gorm:"not null;index"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true;index"`
	Views       uint      `json:"views" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Category Category `json:"-" gorm:"foreignKey:CategoryID"`
	Seller   User     `json:"-" gorm:"foreignKey:SellerID"`
}
