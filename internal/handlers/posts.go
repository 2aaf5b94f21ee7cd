package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chirp-dev/chirp/internal/models"
	"github.com/chirp-dev/chirp/internal/services"
	"github.com/chirp-dev/chirp/internal/types"
	"github.com/chirp-dev/chirp/internal/utils"
)

type PostsService interface {
	Create(ctx context.Context, in services.CreatePostInput) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id uint) (*models.Post, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Post, error)
	ListComments(ctx context.Context, postID uint) ([]models.Comment, error)
	Update(ctx context.Context, id uint, in services.UpdatePostInput) (*models.Post, error)
	Delete(ctx context.Context, id uint) error
}

type CreatePostRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Content string `json:"content" binding:"required"`
	UserID  uint   `json:"userId" binding:"required"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=255"`
	Content *string `json:"content" binding:"omitempty,min=1"`
}

type PostsHandler struct {
	posts PostsService
}

func NewPostsHandler(posts PostsService) *PostsHandler {
	return &PostsHandler{posts: posts}
}

func (h *PostsHandler) Create(ctx *gin.Context) {
	var body CreatePostRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	post, err := h.posts.Create(ctx.Request.Context(), services.CreatePostInput{
		Title:   body.Title,
		Content: body.Content,
		UserID:  body.UserID,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewPostResponse(post))
}

func (h *PostsHandler) List(ctx *gin.Context) {
	posts, err := h.posts.List(ctx.Request.Context())

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewPostResponses(posts))
}

func (h *PostsHandler) Get(ctx *gin.Context) {
	id, err := utils.GetID(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	post, err := h.posts.Get(ctx.Request.Context(), id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewPostResponse(post))
}

func (h *PostsHandler) ListByUser(ctx *gin.Context) {
	userID, err := utils.GetID(ctx, "userId")

	if err != nil {
		respondError(ctx, err)
		return
	}

	posts, err := h.posts.ListByUser(ctx.Request.Context(), userID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewPostResponses(posts))
}

func (h *PostsHandler) ListComments(ctx *gin.Context) {
	id, err := utils.GetID(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	comments, err := h.posts.ListComments(ctx.Request.Context(), id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewCommentResponses(comments))
}

func (h *PostsHandler) Update(ctx *gin.Context) {
	id, err := utils.GetID(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var body UpdatePostRequest

	if err := bindPatch(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	post, err := h.posts.Update(ctx.Request.Context(), id, services.UpdatePostInput{
		Title:   body.Title,
		Content: body.Content,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewPostResponse(post))
}

func (h *PostsHandler) Delete(ctx *gin.Context) {
	id, err := utils.GetID(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := h.posts.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
