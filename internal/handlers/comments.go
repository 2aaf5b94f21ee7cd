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

type CommentsService interface {
	Create(ctx context.Context, in services.CreateCommentInput) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Comment, error)
	Get(ctx context.Context, id uint) (*models.Comment, error)
	Update(ctx context.Context, id uint, content *string) (*models.Comment, error)
	Delete(ctx context.Context, id uint) error
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
	UserID  uint   `json:"userId" binding:"required"`
	PostID  uint   `json:"postId" binding:"required"`
}

type UpdateCommentRequest struct {
	Content *string `json:"content" binding:"omitempty,min=1"`
}

type CommentsHandler struct {
	comments CommentsService
}

func NewCommentsHandler(comments CommentsService) *CommentsHandler {
	return &CommentsHandler{comments: comments}
}

func (h *CommentsHandler) Create(ctx *gin.Context) {
	var body CreateCommentRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	comment, err := h.comments.Create(ctx.Request.Context(), services.CreateCommentInput{
		Content: body.Content,
		UserID:  body.UserID,
		PostID:  body.PostID,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewCommentResponse(comment))
}

// ListByPost serves the comments of the post named by the given path
// parameter, so one handler can back several routes.
func (h *CommentsHandler) ListByPost(param string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		postID, err := utils.GetID(ctx, param)

		if err != nil {
			respondError(ctx, err)
			return
		}

		comments, err := h.comments.ListByPost(ctx.Request.Context(), postID)

		if err != nil {
			respondError(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, types.NewCommentResponses(comments))
	}
}

// ListByUser is ListByPost for a comment's author.
func (h *CommentsHandler) ListByUser(param string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, err := utils.GetID(ctx, param)

		if err != nil {
			respondError(ctx, err)
			return
		}

		comments, err := h.comments.ListByUser(ctx.Request.Context(), userID)

		if err != nil {
			respondError(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, types.NewCommentResponses(comments))
	}
}

func (h *CommentsHandler) Get(ctx *gin.Context) {
	id, err := utils.GetID(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	comment, err := h.comments.Get(ctx.Request.Context(), id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewCommentResponse(comment))
}

func (h *CommentsHandler) Update(ctx *gin.Context) {
	id, err := utils.GetID(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var body UpdateCommentRequest

	if err := bindPatch(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	comment, err := h.comments.Update(ctx.Request.Context(), id, body.Content)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewCommentResponse(comment))
}

func (h *CommentsHandler) Delete(ctx *gin.Context) {
	id, err := utils.GetID(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := h.comments.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
