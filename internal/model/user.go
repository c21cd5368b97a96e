package model

import "time"

// User represents a registered seller/buyer. Users are created at registration
// and never modified or deleted by this service.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FullName     string    `json:"full_name" gorm:"size:255;not null"`
	Phone        string    `json:"phone,omitempty" gorm:"size:50"`
	Address      string    `json:"address,omitempty" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Products []Product `json:"-" gorm:"foreignKey:SellerID"`
}
