package services

import "fmt"

// ValidationError reports a malformed request before any service logic runs.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a missing entity, either the one addressed by id or
// one referenced by a foreign key during creation.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Entity, e.ID)
}

// ConflictError reports a uniqueness violation detected by the store.
type ConflictError struct {
	Message string
	Err     error
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

const (
	EntityUser    = "User"
	EntityPost    = "Post"
	EntityComment = "Comment"
)
