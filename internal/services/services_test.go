package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/chirp-dev/chirp/internal/models"
	"github.com/chirp-dev/chirp/internal/services"
	"github.com/chirp-dev/chirp/internal/stores"
	"github.com/chirp-dev/chirp/internal/testdb"
)

type fixture struct {
	store    *stores.Store
	users    *services.UsersService
	posts    *services.PostsService
	comments *services.CommentsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := stores.New(testdb.Open(t))
	users := services.NewUsersService(store, services.BcryptHasher{Cost: bcrypt.MinCost})
	comments := services.NewCommentsService(store, users)

	return &fixture{
		store:    store,
		users:    users,
		posts:    services.NewPostsService(store, users, comments),
		comments: comments,
	}
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()

	u, err := f.users.Create(context.Background(), services.CreateUserInput{
		Username: name,
		Email:    name + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	return u
}

func (f *fixture) post(t *testing.T, userID uint) *models.Post {
	t.Helper()

	p, err := f.posts.Create(context.Background(), services.CreatePostInput{
		Title:   "Hello",
		Content: "First post",
		UserID:  userID,
	})
	require.NoError(t, err)

	return p
}

func (f *fixture) comment(t *testing.T, userID, postID uint) *models.Comment {
	t.Helper()

	c, err := f.comments.Create(context.Background(), services.CreateCommentInput{
		Content: "Nice",
		UserID:  userID,
		PostID:  postID,
	})
	require.NoError(t, err)

	return c
}

func assertNotFound(t *testing.T, err error, entity string, id uint) {
	t.Helper()

	var notFound *services.NotFoundError
	require.True(t, errors.As(err, &notFound), "expected NotFoundError, got %v", err)
	assert.Equal(t, entity, notFound.Entity)
	assert.Equal(t, id, notFound.ID)
}

func TestUsersCreateHashesPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Create(ctx, services.CreateUserInput{
		Username: "alice",
		Email:    "  Alice@Example.com ",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "password123", u.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password123")))
	assert.False(t, u.CreatedAt.IsZero())
}

func TestUsersCreateRejectsShortTrimmedUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"   ", " ab ", "\tx\n"} {
		_, err := f.users.Create(ctx, services.CreateUserInput{
			Username: name,
			Email:    "blank@example.com",
			Password: "password123",
		})

		var validation *services.ValidationError
		require.True(t, errors.As(err, &validation), "username %q: expected ValidationError, got %v", name, err)
		assert.Equal(t, "username must be at least 3 characters", validation.Error())
	}

	count, err := f.store.Users().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUsersCreateTrimsUsername(t *testing.T) {
	f := newFixture(t)

	u, err := f.users.Create(context.Background(), services.CreateUserInput{
		Username: "  alice  ",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
}

func TestUsersCreateDuplicateEmailIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.user(t, "alice")

	_, err := f.users.Create(ctx, services.CreateUserInput{
		Username: "alice2",
		Email:    "ALICE@example.com",
		Password: "password123",
	})

	var conflict *services.ConflictError
	require.True(t, errors.As(err, &conflict), "expected ConflictError, got %v", err)
	assert.Equal(t, "Username or email already exists", conflict.Error())

	count, err := f.store.Users().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUsersCreateDuplicateUsernameIsConflict(t *testing.T) {
	f := newFixture(t)

	f.user(t, "alice")

	_, err := f.users.Create(context.Background(), services.CreateUserInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password123",
	})

	var conflict *services.ConflictError
	assert.True(t, errors.As(err, &conflict))
}

func TestUsersGetMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Get(context.Background(), 42)
	assertNotFound(t, err, services.EntityUser, 42)
	assert.EqualError(t, err, "User with ID 42 not found")
}

func TestUsersListOrderedByID(t *testing.T) {
	f := newFixture(t)

	users, err := f.users.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)

	a := f.user(t, "alice")
	b := f.user(t, "bob")

	users, err = f.users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, a.ID, users[0].ID)
	assert.Equal(t, b.ID, users[1].ID)
}

func TestUsersExists(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")

	ok, err := f.users.Exists(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.users.Exists(context.Background(), u.ID+1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUsersUpdatePartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "alice")

	name := "alicia"
	updated, err := f.users.Update(ctx, u.ID, services.UpdateUserInput{Username: &name})
	require.NoError(t, err)

	assert.Equal(t, "alicia", updated.Username)
	assert.Equal(t, u.Email, updated.Email)
	assert.Equal(t, u.Password, updated.Password)

	got, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alicia", got.Username)
}

func TestUsersUpdateRejectsBlankUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "alice")

	blank := "    "
	_, err := f.users.Update(ctx, u.ID, services.UpdateUserInput{Username: &blank})

	var validation *services.ValidationError
	require.True(t, errors.As(err, &validation), "expected ValidationError, got %v", err)

	got, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestUsersUpdateEmptyIsNoop(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")

	updated, err := f.users.Update(context.Background(), u.ID, services.UpdateUserInput{})
	require.NoError(t, err)
	assert.Equal(t, u.Username, updated.Username)
	assert.Equal(t, u.Email, updated.Email)
}

func TestUsersUpdatePasswordIsHashed(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")

	password := "new-password"
	updated, err := f.users.Update(context.Background(), u.ID, services.UpdateUserInput{Password: &password})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte(password)))
}

func TestUsersUpdateDuplicateIsConflict(t *testing.T) {
	f := newFixture(t)
	f.user(t, "alice")
	bob := f.user(t, "bob")

	email := "alice@example.com"
	_, err := f.users.Update(context.Background(), bob.ID, services.UpdateUserInput{Email: &email})

	var conflict *services.ConflictError
	require.True(t, errors.As(err, &conflict), "expected ConflictError, got %v", err)

	got, err := f.users.Get(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", got.Email)
}

func TestUsersUpdateMissing(t *testing.T) {
	f := newFixture(t)

	name := "ghost"
	_, err := f.users.Update(context.Background(), 7, services.UpdateUserInput{Username: &name})
	assertNotFound(t, err, services.EntityUser, 7)
}

func TestUsersDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	alicePost := f.post(t, alice.ID)
	bobPost := f.post(t, bob.ID)

	f.comment(t, alice.ID, bobPost.ID)
	f.comment(t, bob.ID, alicePost.ID)
	kept := f.comment(t, bob.ID, bobPost.ID)

	require.NoError(t, f.users.Delete(ctx, alice.ID))

	_, err := f.users.Get(ctx, alice.ID)
	assertNotFound(t, err, services.EntityUser, alice.ID)

	_, err = f.posts.Get(ctx, alicePost.ID)
	assertNotFound(t, err, services.EntityPost, alicePost.ID)

	posts, err := f.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, bobPost.ID, posts[0].ID)

	comments, err := f.comments.ListByPost(ctx, bobPost.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, kept.ID, comments[0].ID)

	count, err := f.store.Comments().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUsersDeleteMissing(t *testing.T) {
	f := newFixture(t)

	err := f.users.Delete(context.Background(), 3)
	assertNotFound(t, err, services.EntityUser, 3)
}

func TestPostsCreatePopulatesUser(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")

	p := f.post(t, u.ID)
	assert.NotZero(t, p.ID)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, "alice", p.User.Username)

	got, err := f.posts.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, p.Content, got.Content)
	assert.Equal(t, u.ID, got.User.ID)
}

func TestPostsCreateMissingUserAddsNoRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.posts.Create(ctx, services.CreatePostInput{Title: "t", Content: "c", UserID: 99})
	assertNotFound(t, err, services.EntityUser, 99)

	count, err := f.store.Posts().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPostsListByUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	f.post(t, alice.ID)
	f.post(t, bob.ID)
	f.post(t, alice.ID)

	posts, err := f.posts.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, alice.ID, p.User.ID)
	}

	_, err = f.posts.ListByUser(ctx, 500)
	assertNotFound(t, err, services.EntityUser, 500)
}

type userChecker func(ctx context.Context, id uint) (bool, error)

func (c userChecker) Exists(ctx context.Context, id uint) (bool, error) {
	return c(ctx, id)
}

func TestListByUserAsksUserChecker(t *testing.T) {
	store := stores.New(testdb.Open(t))
	ctx := context.Background()

	var asked []uint
	missing := userChecker(func(_ context.Context, id uint) (bool, error) {
		asked = append(asked, id)
		return false, nil
	})

	comments := services.NewCommentsService(store, missing)
	posts := services.NewPostsService(store, missing, comments)

	_, err := posts.ListByUser(ctx, 3)
	assertNotFound(t, err, services.EntityUser, 3)

	_, err = comments.ListByUser(ctx, 4)
	assertNotFound(t, err, services.EntityUser, 4)

	assert.Equal(t, []uint{3, 4}, asked)

	boom := errors.New("boom")
	failing := userChecker(func(context.Context, uint) (bool, error) {
		return false, boom
	})

	_, err = services.NewPostsService(store, failing, comments).ListByUser(ctx, 1)
	assert.ErrorIs(t, err, boom)
}

func TestPostsListComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "alice")
	p := f.post(t, u.ID)

	comments, err := f.posts.ListComments(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	f.comment(t, u.ID, p.ID)

	comments, err = f.posts.ListComments(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	_, err = f.posts.ListComments(ctx, p.ID+1)
	assertNotFound(t, err, services.EntityPost, p.ID+1)
}

func TestPostsUpdatePartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "alice")
	p := f.post(t, u.ID)

	title := "Renamed"
	updated, err := f.posts.Update(ctx, p.ID, services.UpdatePostInput{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, p.Content, updated.Content)
	assert.Equal(t, u.ID, updated.User.ID)

	got, err := f.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, p.Content, got.Content)
}

func TestPostsUpdateMissing(t *testing.T) {
	f := newFixture(t)

	title := "x"
	_, err := f.posts.Update(context.Background(), 9, services.UpdatePostInput{Title: &title})
	assertNotFound(t, err, services.EntityPost, 9)
}

func TestPostsDeleteCascadesToComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "alice")
	p := f.post(t, u.ID)
	c := f.comment(t, u.ID, p.ID)

	require.NoError(t, f.posts.Delete(ctx, p.ID))

	_, err := f.comments.Get(ctx, c.ID)
	assertNotFound(t, err, services.EntityComment, c.ID)

	_, err = f.users.Get(ctx, u.ID)
	assert.NoError(t, err)

	err = f.posts.Delete(ctx, p.ID)
	assertNotFound(t, err, services.EntityPost, p.ID)
}

func TestCommentsCreatePopulatesRelations(t *testing.T) {
	f := newFixture(t)

	u := f.user(t, "alice")
	p := f.post(t, u.ID)
	c := f.comment(t, u.ID, p.ID)

	assert.NotZero(t, c.ID)
	assert.Equal(t, "alice", c.User.Username)
	assert.Equal(t, p.Title, c.Post.Title)
}

func TestCommentsCreateChecksUserBeforePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.comments.Create(ctx, services.CreateCommentInput{Content: "x", UserID: 5, PostID: 6})
	assertNotFound(t, err, services.EntityUser, 5)

	u := f.user(t, "alice")
	_, err = f.comments.Create(ctx, services.CreateCommentInput{Content: "x", UserID: u.ID, PostID: 6})
	assertNotFound(t, err, services.EntityPost, 6)
	assert.EqualError(t, err, "Post with ID 6 not found")

	count, err := f.store.Comments().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCommentsListByUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	p := f.post(t, alice.ID)
	f.comment(t, alice.ID, p.ID)
	f.comment(t, bob.ID, p.ID)

	comments, err := f.comments.ListByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, bob.ID, comments[0].User.ID)
	assert.Equal(t, p.ID, comments[0].Post.ID)

	_, err = f.comments.ListByUser(ctx, 77)
	assertNotFound(t, err, services.EntityUser, 77)

	_, err = f.comments.ListByPost(ctx, 78)
	assertNotFound(t, err, services.EntityPost, 78)
}

func TestCommentsUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "alice")
	p := f.post(t, u.ID)
	c := f.comment(t, u.ID, p.ID)

	content := "Edited"
	updated, err := f.comments.Update(ctx, c.ID, &content)
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Content)
	assert.Equal(t, u.ID, updated.User.ID)
	assert.Equal(t, p.ID, updated.Post.ID)

	unchanged, err := f.comments.Update(ctx, c.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Edited", unchanged.Content)

	_, err = f.comments.Update(ctx, c.ID+1, &content)
	assertNotFound(t, err, services.EntityComment, c.ID+1)
}

func TestCommentsDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "alice")
	p := f.post(t, u.ID)
	c := f.comment(t, u.ID, p.ID)

	require.NoError(t, f.comments.Delete(ctx, c.ID))

	err := f.comments.Delete(ctx, c.ID)
	assertNotFound(t, err, services.EntityComment, c.ID)

	_, err = f.posts.Get(ctx, p.ID)
	assert.NoError(t, err)
}
