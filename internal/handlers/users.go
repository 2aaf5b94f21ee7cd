package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chirp-dev/chirp/internal/models"
	"github.com/chirp-dev/chirp/internal/services"
	"github.com/chirp-dev/chirp/internal/types"
	"github.com/chirp-dev/chirp/internal/utils"
)

type UsersService interface {
	Create(ctx context.Context, in services.CreateUserInput) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	Update(ctx context.Context, id uint, in services.UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, id uint) error
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

func (r *CreateUserRequest) trim() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
}

type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=255"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Password *string `json:"password" binding:"omitempty,min=8,max=72"`
}

func (r *UpdateUserRequest) trim() {
	trimPtr(r.Username)
	trimPtr(r.Email)
}

type UsersHandler struct {
	users UsersService
}

func NewUsersHandler(users UsersService) *UsersHandler {
	return &UsersHandler{users: users}
}

func (h *UsersHandler) Create(ctx *gin.Context) {
	var body CreateUserRequest

	if err := bindJSON(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	user, err := h.users.Create(ctx.Request.Context(), services.CreateUserInput{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewUserResponse(user))
}

func (h *UsersHandler) List(ctx *gin.Context) {
	users, err := h.users.List(ctx.Request.Context())

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponses(users))
}

func (h *UsersHandler) Get(ctx *gin.Context) {
	id, err := utils.GetID(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	user, err := h.users.Get(ctx.Request.Context(), id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(user))
}

func (h *UsersHandler) Update(ctx *gin.Context) {
	id, err := utils.GetID(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var body UpdateUserRequest

	if err := bindPatch(ctx, &body); err != nil {
		respondError(ctx, err)
		return
	}

	user, err := h.users.Update(ctx.Request.Context(), id, services.UpdateUserInput{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(user))
}

func (h *UsersHandler) Delete(ctx *gin.Context) {
	id, err := utils.GetID(ctx, "id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := h.users.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
