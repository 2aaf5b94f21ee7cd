package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/chirp-dev/chirp/internal/models"
	"github.com/chirp-dev/chirp/internal/stores"
)

type CreatePostInput struct {
	Title   string
	Content string
	UserID  uint
}

// UpdatePostInput holds the fields to change; nil fields are left untouched.
type UpdatePostInput struct {
	Title   *string
	Content *string
}

// UserChecker is the existence lookup the users service exposes to the
// posts and comments services.
type UserChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// CommentLister is the part of the comments service posts delegate to.
type CommentLister interface {
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
}

type PostsService struct {
	store    *stores.Store
	users    UserChecker
	comments CommentLister
}

func NewPostsService(store *stores.Store, users UserChecker, comments CommentLister) *PostsService {
	return &PostsService{store: store, users: users, comments: comments}
}

// Create stores a post for an existing user. The author lookup and the
// insert share one transaction, so a missing author never leaves a row.
func (s *PostsService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	var post *models.Post

	err := s.store.Transaction(ctx, func(tx *stores.Store) error {
		user, err := getUser(ctx, tx, in.UserID)
		if err != nil {
			return err
		}

		post = &models.Post{
			Title:   in.Title,
			Content: in.Content,
			UserID:  user.ID,
			User:    *user,
		}

		if err := tx.Posts().Create(ctx, post); err != nil {
			return fmt.Errorf("create post: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return post, nil
}

func (s *PostsService) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.store.Posts().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostsService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return getPost(ctx, s.store, id)
}

func (s *PostsService) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	if err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}

	posts, err := s.store.Posts().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list posts of user %d: %w", userID, err)
	}

	return posts, nil
}

// ListComments returns the comments of an existing post, possibly none.
func (s *PostsService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	if _, err := getPost(ctx, s.store, postID); err != nil {
		return nil, err
	}

	return s.comments.ListByPost(ctx, postID)
}

func (s *PostsService) Update(ctx context.Context, id uint, in UpdatePostInput) (*models.Post, error) {
	var post *models.Post

	err := s.store.Transaction(ctx, func(tx *stores.Store) error {
		var err error

		post, err = getPost(ctx, tx, id)
		if err != nil {
			return err
		}

		updates := make(map[string]interface{})

		if in.Title != nil {
			updates["title"] = *in.Title
		}

		if in.Content != nil {
			updates["content"] = *in.Content
		}

		if err := tx.Posts().Update(ctx, post, updates); err != nil {
			return fmt.Errorf("update post %d: %w", id, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return post, nil
}

// Delete removes the post; the database cascades the delete to its comments.
func (s *PostsService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *stores.Store) error {
		post, err := getPost(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := tx.Posts().Delete(ctx, post); err != nil {
			return fmt.Errorf("delete post %d: %w", id, err)
		}

		return nil
	})
}

func requireUser(ctx context.Context, users UserChecker, id uint) error {
	ok, err := users.Exists(ctx, id)
	if err != nil {
		return err
	}

	if !ok {
		return &NotFoundError{Entity: EntityUser, ID: id}
	}

	return nil
}

func getPost(ctx context.Context, store *stores.Store, id uint) (*models.Post, error) {
	post, err := store.Posts().GetByID(ctx, id)

	if errors.Is(err, stores.ErrNotFound) {
		return nil, &NotFoundError{Entity: EntityPost, ID: id}
	}

	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}

	return post, nil
}
