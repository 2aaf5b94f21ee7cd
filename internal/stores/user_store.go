package stores

import (
	"context"

	"github.com/chirp-dev/chirp/internal/models"
	"gorm.io/gorm"
)

// GormUserStore implements user persistence using GORM.
type GormUserStore struct{ DB *gorm.DB }

func (s *GormUserStore) Create(ctx context.Context, u *models.User) error {
	return translateError(s.DB.WithContext(ctx).Create(u).Error)
}

func (s *GormUserStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.DB.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, translateError(err)
	}
	return users, nil
}

// GetByID returns the user or ErrNotFound.
func (s *GormUserStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

func (s *GormUserStore) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// Update writes the given columns to u and reloads it.
func (s *GormUserStore) Update(ctx context.Context, u *models.User, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	db := s.DB.WithContext(ctx)

	if err := db.Model(u).Updates(updates).Error; err != nil {
		return translateError(err)
	}

	return translateError(db.First(u, u.ID).Error)
}

func (s *GormUserStore) Delete(ctx context.Context, u *models.User) error {
	return translateError(s.DB.WithContext(ctx).Delete(&models.User{}, u.ID).Error)
}

// Count returns the number of stored users.
func (s *GormUserStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, translateError(err)
}
