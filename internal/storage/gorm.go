package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nutrimart/storefront/internal/models"
)

// GormStore backs the catalog with a relational database through gorm.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&models.User{}, &models.Product{}); err != nil {
		return nil, err
	}
	return &GormStore{DB: db}, nil
}

// EnsureSeed populates an empty database with the initial admin account and
// sample catalog. Existing rows are left alone.
func (s *GormStore) EnsureSeed(ctx context.Context) error {
	var users int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users == 0 {
		admin, err := SeedAdmin()
		if err != nil {
			return err
		}
		if err := s.DB.WithContext(ctx).Create(&admin).Error; err != nil {
			return err
		}
	}

	var products int64
	if err := s.DB.WithContext(ctx).Model(&models.Product{}).Count(&products).Error; err != nil {
		return err
	}
	if products == 0 {
		seed := SeedProducts()
		if err := s.DB.WithContext(ctx).Create(&seed).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *GormStore) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var prod models.Product
	if err := s.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &prod, nil
}

func (s *GormStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, prod *models.Product) error {
	return s.DB.WithContext(ctx).Create(prod).Error
}

func (s *GormStore) PatchProduct(ctx context.Context, id int, patch ProductPatch) (*models.Product, error) {
	var prod models.Product

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&prod, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		patch.Apply(&prod)
		return tx.Save(&prod).Error
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

func (s *GormStore) DeleteProduct(ctx context.Context, id int) error {
	res := s.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetUser(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	tx := s.DB.WithContext(ctx).Where("username = ?", user.Username).FirstOrCreate(user)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUsernameTaken
	}
	return nil
}
