package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/chirp-dev/chirp/internal/models"
	"github.com/chirp-dev/chirp/internal/stores"
)

type CreateUserInput struct {
	Username string
	Email    string
	Password string
}

// UpdateUserInput holds the fields to change; nil fields are left untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
}

type UsersService struct {
	store  *stores.Store
	hasher PasswordHasher
}

func NewUsersService(store *stores.Store, hasher PasswordHasher) *UsersService {
	return &UsersService{store: store, hasher: hasher}
}

// Create stores a new user. Duplicate usernames or emails are rejected by
// the database's unique constraints and reported as *ConflictError.
func (s *UsersService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	username, err := normalizeUsername(in.Username)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash([]byte(in.Password))
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    normalizeEmail(in.Email),
		Password: string(hash),
	}

	err = s.store.Transaction(ctx, func(tx *stores.Store) error {
		return tx.Users().Create(ctx, user)
	})

	if err != nil {
		return nil, userWriteError("create user", err)
	}

	return user, nil
}

func (s *UsersService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UsersService) Get(ctx context.Context, id uint) (*models.User, error) {
	return getUser(ctx, s.store, id)
}

// Exists reports whether a user with the given id is stored.
func (s *UsersService) Exists(ctx context.Context, id uint) (bool, error) {
	ok, err := s.store.Users().Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check user %d: %w", id, err)
	}
	return ok, nil
}

func (s *UsersService) Update(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	var user *models.User

	err := s.store.Transaction(ctx, func(tx *stores.Store) error {
		var err error

		user, err = getUser(ctx, tx, id)
		if err != nil {
			return err
		}

		updates := make(map[string]interface{})

		if in.Username != nil {
			username, err := normalizeUsername(*in.Username)
			if err != nil {
				return err
			}
			updates["username"] = username
		}

		if in.Email != nil {
			updates["email"] = normalizeEmail(*in.Email)
		}

		if in.Password != nil {
			hash, err := s.hasher.Hash([]byte(*in.Password))
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			updates["password"] = string(hash)
		}

		return tx.Users().Update(ctx, user, updates)
	})

	if err != nil {
		return nil, userWriteError("update user", err)
	}

	return user, nil
}

// Delete removes the user; the database cascades the delete to the user's
// posts and comments.
func (s *UsersService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *stores.Store) error {
		user, err := getUser(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := tx.Users().Delete(ctx, user); err != nil {
			return fmt.Errorf("delete user %d: %w", id, err)
		}

		return nil
	})
}

func getUser(ctx context.Context, store *stores.Store, id uint) (*models.User, error) {
	user, err := store.Users().GetByID(ctx, id)

	if errors.Is(err, stores.ErrNotFound) {
		return nil, &NotFoundError{Entity: EntityUser, ID: id}
	}

	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}

	return user, nil
}

func userWriteError(op string, err error) error {
	var (
		notFound   *NotFoundError
		validation *ValidationError
	)
	if errors.As(err, &notFound) || errors.As(err, &validation) {
		return err
	}

	if errors.Is(err, stores.ErrDuplicate) {
		return &ConflictError{Message: "Username or email already exists", Err: err}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// MinUsernameLength applies to the username after surrounding whitespace
// is removed.
const MinUsernameLength = 3

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)

	if utf8.RuneCountInString(username) < MinUsernameLength {
		return "", &ValidationError{
			Message: fmt.Sprintf("username must be at least %d characters", MinUsernameLength),
		}
	}

	return username, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
