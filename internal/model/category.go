package model

// Category is a fixed product classification. The set is seeded once and
// read-only from the catalog's perspective.
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;size:100;not null"`
}
