package stores

import (
	"context"

	"github.com/chirp-dev/chirp/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommentStore implements comment persistence using GORM. Comments are
// always loaded with their author and parent post.
type GormCommentStore struct{ DB *gorm.DB }

func (s *GormCommentStore) withRelations(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).Preload("User").Preload("Post")
}

// Create inserts c without touching c.User or c.Post.
func (s *GormCommentStore) Create(ctx context.Context, c *models.Comment) error {
	return translateError(s.DB.WithContext(ctx).Omit(clause.Associations).Create(c).Error)
}

func (s *GormCommentStore) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.withRelations(ctx).Where("post_id = ?", postID).Order("id").Find(&comments).Error; err != nil {
		return nil, translateError(err)
	}
	return comments, nil
}

func (s *GormCommentStore) ListByUser(ctx context.Context, userID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.withRelations(ctx).Where("user_id = ?", userID).Order("id").Find(&comments).Error; err != nil {
		return nil, translateError(err)
	}
	return comments, nil
}

// GetByID returns the comment or ErrNotFound.
func (s *GormCommentStore) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var c models.Comment
	if err := s.withRelations(ctx).First(&c, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (s *GormCommentStore) UpdateContent(ctx context.Context, c *models.Comment, content string) error {
	db := s.DB.WithContext(ctx)

	if err := db.Model(c).Omit(clause.Associations).Update("content", content).Error; err != nil {
		return translateError(err)
	}

	return translateError(s.withRelations(ctx).First(c, c.ID).Error)
}

func (s *GormCommentStore) Delete(ctx context.Context, c *models.Comment) error {
	return translateError(s.DB.WithContext(ctx).Delete(&models.Comment{}, c.ID).Error)
}

// Count returns the number of stored comments.
func (s *GormCommentStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Comment{}).Count(&count).Error
	return count, translateError(err)
}
