package stores

import (
	"context"

	"github.com/chirp-dev/chirp/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPostStore implements post persistence using GORM. Posts are always
// loaded with their author.
type GormPostStore struct{ DB *gorm.DB }

// Create inserts p without touching p.User; the author row must already exist.
func (s *GormPostStore) Create(ctx context.Context, p *models.Post) error {
	return translateError(s.DB.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}

func (s *GormPostStore) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := s.DB.WithContext(ctx).Preload("User").Order("id").Find(&posts).Error; err != nil {
		return nil, translateError(err)
	}
	return posts, nil
}

func (s *GormPostStore) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := s.DB.WithContext(ctx).Preload("User").Where("user_id = ?", userID).Order("id").Find(&posts).Error; err != nil {
		return nil, translateError(err)
	}
	return posts, nil
}

// GetByID returns the post or ErrNotFound.
func (s *GormPostStore) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	if err := s.DB.WithContext(ctx).Preload("User").First(&p, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

// Update writes the given columns to p and reloads it with its author.
func (s *GormPostStore) Update(ctx context.Context, p *models.Post, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	db := s.DB.WithContext(ctx)

	if err := db.Model(p).Omit(clause.Associations).Updates(updates).Error; err != nil {
		return translateError(err)
	}

	return translateError(db.Preload("User").First(p, p.ID).Error)
}

func (s *GormPostStore) Delete(ctx context.Context, p *models.Post) error {
	return translateError(s.DB.WithContext(ctx).Delete(&models.Post{}, p.ID).Error)
}

// Count returns the number of stored posts.
func (s *GormPostStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Post{}).Count(&count).Error
	return count, translateError(err)
}
