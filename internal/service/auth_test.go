package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/utils"
)

func TestAuth_RegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.auth.Register(ctx, RegisterInput{Name: "A", Email: " A@X.com ", Password: "secret1", Phone: "99999"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", s.User.Email)
	assert.False(t, s.User.IsAdmin)
	assert.NotEmpty(t, s.Access.Token)
	assert.NotEmpty(t, s.Refresh.Raw)

	claims, err := utils.ParseAccessToken("test-secret", s.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, claims.UserID)

	logged, err := f.auth.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, logged.User.ID)
}

func TestAuth_RegisterRejectsDuplicateAndBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, RegisterInput{Name: "B", Email: "A@x.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = f.auth.Register(ctx, RegisterInput{Name: "C", Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.auth.Register(ctx, RegisterInput{Name: "C", Email: "c@x.com", Password: "123"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.auth.Register(ctx, RegisterInput{Email: "d@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuth_LoginInvalidCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, "a@x.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, "nobody@x.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_RefreshRotatesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s, err := f.auth.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	next, err := f.auth.Refresh(ctx, s.Refresh.Raw)
	require.NoError(t, err)
	assert.NotEqual(t, s.Refresh.Raw, next.Refresh.Raw)

	_, err = f.auth.Refresh(ctx, s.Refresh.Raw)
	assert.ErrorIs(t, err, ErrInvalidRefresh, "a rotated token cannot be reused")
}

func TestAuth_RefreshPicksUpPromotion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s, err := f.auth.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, f.store.Users.SetAdmin(ctx, s.User.ID, true))

	next, err := f.auth.Refresh(ctx, s.Refresh.Raw)
	require.NoError(t, err)
	claims, err := utils.ParseAccessToken("test-secret", next.Access.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestAuth_Logout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s, err := f.auth.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, 0, s.Refresh.Raw))
	assert.ErrorIs(t, f.auth.Logout(ctx, 0, s.Refresh.Raw), ErrInvalidRefresh)
	assert.ErrorIs(t, f.auth.Logout(ctx, 0, ""), ErrValidation)

	again, err := f.auth.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, f.auth.Logout(ctx, again.User.ID, ""))
	_, err = f.auth.Refresh(ctx, again.Refresh.Raw)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestAuth_EnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.auth.EnsureAdmin(ctx, RegisterInput{Email: "root@x.com", Password: "admin-pass"})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.Equal(t, "Administrator", u.Name)

	again, err := f.auth.EnsureAdmin(ctx, RegisterInput{Email: "root@x.com", Password: "admin-pass"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)

	s, err := f.auth.Register(ctx, RegisterInput{Name: "B", Email: "b@x.com", Password: "secret1"})
	require.NoError(t, err)
	promoted, err := f.auth.EnsureAdmin(ctx, RegisterInput{Email: "b@x.com"})
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, promoted.ID)
	assert.True(t, promoted.IsAdmin)

	me, err := f.auth.Me(ctx, Identity{UserID: s.User.ID})
	require.NoError(t, err)
	assert.True(t, me.IsAdmin)
}

// racingTokens lets a second refresh run after validation and before the
// revoke of the first.
type racingTokens struct {
	TokenStore
	between func()
}

func (r *racingTokens) ValidateRefresh(ctx context.Context, hash string) (uint64, error) {
	id, err := r.TokenStore.ValidateRefresh(ctx, hash)
	if r.between != nil {
		run := r.between
		r.between = nil
		run()
	}
	return id, err
}

func TestAuth_ConcurrentRefreshIssuesOnePair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s, err := f.auth.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	var inner error
	tokens := &racingTokens{TokenStore: f.store.Tokens}
	tokens.between = func() { _, inner = f.auth.Refresh(ctx, s.Refresh.Raw) }
	f.auth.Tokens = tokens

	_, err = f.auth.Refresh(ctx, s.Refresh.Raw)
	require.NoError(t, inner)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}
