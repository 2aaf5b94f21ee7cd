package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/chirp-dev/chirp/internal/models"
	"github.com/chirp-dev/chirp/internal/services"
)

type PostsService struct{ mock.Mock }

func (m *PostsService) Create(ctx context.Context, in services.CreatePostInput) (*models.Post, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *PostsService) List(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *PostsService) Get(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *PostsService) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *PostsService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *PostsService) Update(ctx context.Context, id uint, in services.UpdatePostInput) (*models.Post, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *PostsService) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}
