package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"movie-catalog/internal/domain"
)

type fakeUserRepo struct {
	users   map[int64]*domain.User
	nextID  int64
	initErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}, nextID: 1}
}

func (f *fakeUserRepo) Init(context.Context) error { return f.initErr }

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	user.ID = f.nextID
	f.nextID++
	copied := *user
	f.users[user.ID] = &copied
	return user.ID, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) Exists(_ context.Context, username, email string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func TestRegister_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret1", "secret1")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Empty(t, user.PasswordHash, "returned user must not carry the hash")

	stored := repo.users[user.ID]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestRegister_CollectsAllMessages(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), "", "", "abc", "abcd")
	ve, ok := domain.AsValidation(err)
	require.True(t, ok, "expected a validation error, got %v", err)

	assert.Equal(t, []string{
		"Username is required.",
		"Email is required.",
		"Password must be at least 6 characters.",
		"Passwords do not match.",
	}, ve.Messages)
}

func TestRegister_DuplicateCreatesNothing(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret1", "secret1")
	require.NoError(t, err)

	for _, attempt := range []struct{ username, email string }{
		{"alice", "other@example.com"},
		{"other", "alice@example.com"},
	} {
		_, err := svc.Register(context.Background(), attempt.username, attempt.email, "secret1", "secret1")
		ve, ok := domain.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, []string{"User with this email or username already exists."}, ve.Messages)
	}
	assert.Len(t, repo.users, 1)
}

func TestAuthenticate_NoEnumeration(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret1", "secret1")
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(context.Background(), "alice", "wrong")
	_, unknownUser := svc.Authenticate(context.Background(), "nobody", "wrong")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.True(t, errors.Is(wrongPassword, domain.ErrInvalidCredentials))
	assert.True(t, errors.Is(unknownUser, domain.ErrInvalidCredentials))
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestAuthenticate_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret1", "secret1")
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)
}
