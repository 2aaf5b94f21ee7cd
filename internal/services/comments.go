package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/chirp-dev/chirp/internal/models"
	"github.com/chirp-dev/chirp/internal/stores"
)

type CreateCommentInput struct {
	Content string
	UserID  uint
	PostID  uint
}

type CommentsService struct {
	store *stores.Store
	users UserChecker
}

func NewCommentsService(store *stores.Store, users UserChecker) *CommentsService {
	return &CommentsService{store: store, users: users}
}

// Create stores a comment. The author is resolved before the post, so when
// both are missing the error names the user.
func (s *CommentsService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	var comment *models.Comment

	err := s.store.Transaction(ctx, func(tx *stores.Store) error {
		user, err := getUser(ctx, tx, in.UserID)
		if err != nil {
			return err
		}

		post, err := getPost(ctx, tx, in.PostID)
		if err != nil {
			return err
		}

		comment = &models.Comment{
			Content: in.Content,
			UserID:  user.ID,
			PostID:  post.ID,
			User:    *user,
			Post:    *post,
		}

		if err := tx.Comments().Create(ctx, comment); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *CommentsService) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	if _, err := getPost(ctx, s.store, postID); err != nil {
		return nil, err
	}

	comments, err := s.store.Comments().ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments of post %d: %w", postID, err)
	}

	return comments, nil
}

func (s *CommentsService) ListByUser(ctx context.Context, userID uint) ([]models.Comment, error) {
	if err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}

	comments, err := s.store.Comments().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list comments of user %d: %w", userID, err)
	}

	return comments, nil
}

func (s *CommentsService) Get(ctx context.Context, id uint) (*models.Comment, error) {
	return getComment(ctx, s.store, id)
}

// Update replaces the content of a comment. A nil content leaves the
// comment unchanged.
func (s *CommentsService) Update(ctx context.Context, id uint, content *string) (*models.Comment, error) {
	var comment *models.Comment

	err := s.store.Transaction(ctx, func(tx *stores.Store) error {
		var err error

		comment, err = getComment(ctx, tx, id)
		if err != nil {
			return err
		}

		if content == nil {
			return nil
		}

		if err := tx.Comments().UpdateContent(ctx, comment, *content); err != nil {
			return fmt.Errorf("update comment %d: %w", id, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *CommentsService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *stores.Store) error {
		comment, err := getComment(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := tx.Comments().Delete(ctx, comment); err != nil {
			return fmt.Errorf("delete comment %d: %w", id, err)
		}

		return nil
	})
}

func getComment(ctx context.Context, store *stores.Store, id uint) (*models.Comment, error) {
	comment, err := store.Comments().GetByID(ctx, id)

	if errors.Is(err, stores.ErrNotFound) {
		return nil, &NotFoundError{Entity: EntityComment, ID: id}
	}

	if err != nil {
		return nil, fmt.Errorf("get comment %d: %w", id, err)
	}

	return comment, nil
}
