package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"saleboard/internal/config"
	"saleboard/internal/db"
	"saleboard/internal/model"
	"saleboard/internal/repository"
)

var categories = []string{
	"Electronics",
	"Furniture",
	"Clothing",
	"Books",
	"Sports",
	"Home & Garden",
	"Toys",
	"Other",
}

var demoProducts = []model.Product{
	{Title: "Desk Lamp", Description: "Adjustable LED desk lamp", PriceCents: 1500, Quantity: 2, CategoryID: 2},
	{Title: "Mountain Bike", Description: "Hardtail, barely used", PriceCents: 185000, Quantity: 1, CategoryID: 5},
	{Title: "Paperback Bundle", Description: "Six sci-fi novels", PriceCents: 2400, Quantity: 1, CategoryID: 4},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Category{}, &model.Product{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	created, err := seedCategories(ctx, gormDB)
	if err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}
	log.Printf("Categories seeded: %d new, %d total", created, len(categories))

	seller, err := seedDemoSeller(ctx, gormDB)
	if err != nil {
		log.Fatalf("Failed to seed demo seller: %v", err)
	}

	listings, err := seedDemoListings(ctx, gormDB, seller.ID)
	if err != nil {
		log.Fatalf("Failed to seed demo listings: %v", err)
	}
	log.Printf("Seed completed: demo seller %q with %d new listings", seller.Email, listings)
}

// seedCategories inserts the fixed category registry, skipping names that
// already exist so the script stays idempotent.
func seedCategories(ctx context.Context, gormDB *gorm.DB) (int, error) {
	created := 0
	for _, name := range categories {
		var existing model.Category
		err := gormDB.WithContext(ctx).Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}
		if err := gormDB.WithContext(ctx).Create(&model.Category{Name: name}).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func seedDemoSeller(ctx context.Context, gormDB *gorm.DB) (*model.User, error) {
	userRepo := repository.NewUserRepository(gormDB)

	existing, err := userRepo.FindByEmail(ctx, "demo@saleboard.local")
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), 10)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:        "demo@saleboard.local",
		PasswordHash: string(hash),
		FullName:     "Demo Seller",
		Phone:        "+1-555-0100",
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func seedDemoListings(ctx context.Context, gormDB *gorm.DB, sellerID uint) (int, error) {
	productRepo := repository.NewProductRepository(gormDB)

	created := 0
	for _, p := range demoProducts {
		var count int64
		if err := gormDB.WithContext(ctx).Model(&model.Product{}).
			Where("title = ? AND seller_id = ?", p.Title, sellerID).
			Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}

		product := p
		product.SellerID = sellerID
		product.IsActive = true
		if err := productRepo.Create(ctx, &product); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
