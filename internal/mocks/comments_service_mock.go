package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/chirp-dev/chirp/internal/models"
	"github.com/chirp-dev/chirp/internal/services"
)

type CommentsService struct{ mock.Mock }

func (m *CommentsService) Create(ctx context.Context, in services.CreateCommentInput) (*models.Comment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *CommentsService) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *CommentsService) ListByUser(ctx context.Context, userID uint) ([]models.Comment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *CommentsService) Get(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *CommentsService) Update(ctx context.Context, id uint, content *string) (*models.Comment, error) {
	args := m.Called(ctx, id, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *CommentsService) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}
