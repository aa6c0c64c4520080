package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-lost-found/internal/config"
	domainUser "campus-lost-found/internal/domain/user"
	appErrors "campus-lost-found/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	domainUser.Repository

	users     map[uuid.UUID]*domainUser.User
	updateErr error
}

func newFakeUserRepo(users ...*domainUser.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uuid.UUID]*domainUser.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domainUser.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateRefreshToken(_ context.Context, id uuid.UUID, token *string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	u, ok := r.users[id]
	if !ok {
		return domainUser.ErrUserNotFound
	}
	u.RefreshToken = token
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:  "access-secret",
		AccessExpiry:  time.Hour,
		RefreshSecret: "refresh-secret",
		RefreshExpiry: 240 * time.Hour,
	}
}

func testUser() *domainUser.User {
	return &domainUser.User{
		ID:       uuid.New(),
		Email:    "a@x.com",
		Username: "alice",
		Name:     "Alice",
		Number:   "9999999999",
	}
}

func TestIssueTokens_PersistsRefreshToken(t *testing.T) {
	u := testUser()
	repo := newFakeUserRepo(u)
	svc := NewService(repo, testJWTConfig())

	pair, err := svc.IssueTokens(context.Background(), u.ID)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	require.NotNil(t, repo.users[u.ID].RefreshToken)
	assert.Equal(t, pair.RefreshToken, *repo.users[u.ID].RefreshToken)
}

func TestIssueTokens_UnknownUser(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testJWTConfig())

	_, err := svc.IssueTokens(context.Background(), uuid.New())
	assert.Equal(t, appErrors.CodeInternal, appErrors.CodeOf(err))
}

func TestIssueTokens_PersistFailure(t *testing.T) {
	u := testUser()
	repo := newFakeUserRepo(u)
	repo.updateErr = errors.New("db down")
	svc := NewService(repo, testJWTConfig())

	_, err := svc.IssueTokens(context.Background(), u.ID)
	assert.Equal(t, appErrors.CodeInternal, appErrors.CodeOf(err))
}

func TestValidateAccessToken(t *testing.T) {
	u := testUser()
	repo := newFakeUserRepo(u)
	svc := NewService(repo, testJWTConfig())

	pair, err := svc.IssueTokens(context.Background(), u.ID)
	require.NoError(t, err)

	got, err := svc.ValidateAccessToken(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
}

func TestValidateAccessToken_Rejects(t *testing.T) {
	u := testUser()
	repo := newFakeUserRepo(u)
	svc := NewService(repo, testJWTConfig())

	pair, err := svc.IssueTokens(context.Background(), u.ID)
	require.NoError(t, err)

	other := NewService(repo, config.JWTConfig{
		AccessSecret:  "another-secret",
		AccessExpiry:  time.Hour,
		RefreshSecret: "refresh-secret",
		RefreshExpiry: time.Hour,
	})
	foreign, err := other.IssueTokens(context.Background(), u.ID)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "not.a.jwt"},
		{"refresh token as access", pair.RefreshToken},
		{"wrong secret", foreign.AccessToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(context.Background(), tt.token)
			assert.Equal(t, appErrors.CodeUnauthorized, appErrors.CodeOf(err))
		})
	}
}

func TestValidateAccessToken_Expired(t *testing.T) {
	u := testUser()
	svc := NewService(newFakeUserRepo(u), testJWTConfig())
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	pair, err := svc.IssueTokens(context.Background(), u.ID)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateAccessToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrInvalidToken)
}

func TestValidateAccessToken_DeletedUser(t *testing.T) {
	u := testUser()
	repo := newFakeUserRepo(u)
	svc := NewService(repo, testJWTConfig())

	pair, err := svc.IssueTokens(context.Background(), u.ID)
	require.NoError(t, err)

	delete(repo.users, u.ID)
	_, err = svc.ValidateAccessToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrInvalidToken)
}

func TestRefresh_RotatesToken(t *testing.T) {
	u := testUser()
	repo := newFakeUserRepo(u)
	svc := NewService(repo, testJWTConfig())

	first, err := svc.IssueTokens(context.Background(), u.ID)
	require.NoError(t, err)

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// the rotated-out token is no longer accepted
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	assert.Equal(t, appErrors.CodeUnauthorized, appErrors.CodeOf(err))
}

func TestRefresh_AfterRevoke(t *testing.T) {
	u := testUser()
	repo := newFakeUserRepo(u)
	svc := NewService(repo, testJWTConfig())

	pair, err := svc.IssueTokens(context.Background(), u.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), u.ID))
	assert.Nil(t, repo.users[u.ID].RefreshToken)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.Equal(t, appErrors.CodeUnauthorized, appErrors.CodeOf(err))
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	u := testUser()
	svc := NewService(newFakeUserRepo(u), testJWTConfig())

	pair, err := svc.IssueTokens(context.Background(), u.ID)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrInvalidToken)
}

func TestRevoke_Idempotent(t *testing.T) {
	u := testUser()
	svc := NewService(newFakeUserRepo(u), testJWTConfig())

	require.NoError(t, svc.Revoke(context.Background(), u.ID))
	require.NoError(t, svc.Revoke(context.Background(), u.ID))
	require.NoError(t, svc.Revoke(context.Background(), uuid.New()))
}
