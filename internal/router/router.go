package router

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chirp-dev/chirp/internal/handlers"
	"github.com/chirp-dev/chirp/internal/services"
	"github.com/chirp-dev/chirp/internal/stores"
)

type Options struct {
	DB             *gorm.DB
	AllowedOrigins []string
	// Hasher defaults to bcrypt at its default cost.
	Hasher services.PasswordHasher
}

func NewRouter(opts Options) (*gin.Engine, error) {
	sqlDB, err := opts.DB.DB()

	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	hasher := opts.Hasher
	if hasher == nil {
		hasher = services.BcryptHasher{}
	}

	store := stores.New(opts.DB)
	usersService := services.NewUsersService(store, hasher)
	commentsService := services.NewCommentsService(store, usersService)

	users := handlers.NewUsersHandler(usersService)
	posts := handlers.NewPostsHandler(services.NewPostsService(store, usersService, commentsService))
	comments := handlers.NewCommentsHandler(commentsService)
	health := handlers.NewHealthHandler(sqlDB)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", health.Check)

	userRoutes := r.Group("/users")
	{
		userRoutes.POST("", users.Create)
		userRoutes.GET("", users.List)
		userRoutes.GET("/:id", users.Get)
		userRoutes.GET("/:id/comments", comments.ListByUser("id"))
		userRoutes.PATCH("/:id", users.Update)
		userRoutes.DELETE("/:id", users.Delete)
	}

	postRoutes := r.Group("/posts")
	{
		postRoutes.POST("", posts.Create)
		postRoutes.GET("", posts.List)
		postRoutes.GET("/user/:userId", posts.ListByUser)
		postRoutes.GET("/:id", posts.Get)
		postRoutes.GET("/:id/comments", posts.ListComments)
		postRoutes.PATCH("/:id", posts.Update)
		postRoutes.DELETE("/:id", posts.Delete)
	}

	commentRoutes := r.Group("/comments")
	{
		commentRoutes.POST("", comments.Create)
		// by-post and by-user are kept for older clients.
		commentRoutes.GET("/post/:postId", comments.ListByPost("postId"))
		commentRoutes.GET("/by-post/:postId", comments.ListByPost("postId"))
		commentRoutes.GET("/user/:userId", comments.ListByUser("userId"))
		commentRoutes.GET("/by-user/:userId", comments.ListByUser("userId"))
		commentRoutes.GET("/:id", comments.Get)
		commentRoutes.PATCH("/:id", comments.Update)
		commentRoutes.DELETE("/:id", comments.Delete)
	}

	return r, nil
}
