// Package types holds the JSON shapes returned by the API. Responses are
// built from models through the constructors below, so a user's password
// hash has no field to land in.
package types

import (
	"time"

	"github.com/chirp-dev/chirp/internal/models"
)

type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type PostResponse struct {
	ID        uint          `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	User      *UserResponse `json:"user,omitempty"`
}

type CommentResponse struct {
	ID        uint          `json:"id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	User      *UserResponse `json:"user,omitempty"`
	Post      *PostResponse `json:"post,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// NewPostResponse includes the author only when it was loaded.
func NewPostResponse(p *models.Post) PostResponse {
	resp := PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}

	if p.User.ID != 0 {
		user := NewUserResponse(&p.User)
		resp.User = &user
	}

	return resp
}

func NewPostResponses(posts []models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, NewPostResponse(&posts[i]))
	}
	return out
}

// NewCommentResponse nests the post without its author; the comment's
// own author is reported separately.
func NewCommentResponse(c *models.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}

	if c.User.ID != 0 {
		user := NewUserResponse(&c.User)
		resp.User = &user
	}

	if c.Post.ID != 0 {
		post := NewPostResponse(&c.Post)
		post.User = nil
		resp.Post = &post
	}

	return resp
}

func NewCommentResponses(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}
