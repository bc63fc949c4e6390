package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shopcart/internal/events"
	"github.com/Skotchmaster/shopcart/internal/models"
	"github.com/Skotchmaster/shopcart/internal/transport"
	"github.com/Skotchmaster/shopcart/pkg/tokens"
)

func TestAuthService_Signup(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	res, err := f.auth.Signup(ctx, " Ann ", " Ann@Example.com ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", res.User.Email)
	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.Equal(t, models.AuthProviderLocal, res.User.AuthProvider)
	assert.NotEqual(t, "pw", res.User.PasswordHash)

	claims, err := tokens.AccessClaimsFromToken(res.Token, f.auth.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims.Subject)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, []string{"user_registered"}, f.events.Types(events.TopicUser))

	_, err = f.auth.Signup(ctx, "Other", "ann@example.com", "pw2")
	require.ErrorIs(t, err, ErrConflict)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	tests := []struct {
		name, user, email, password string
	}{
		{name: "no name", user: " ", email: "a@b.c", password: "pw"},
		{name: "no email", user: "A", email: "", password: "pw"},
		{name: "bad email", user: "A", email: "not-an-email", password: "pw"},
		{name: "no password", user: "A", email: "a@b.c", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Signup(context.Background(), tt.user, tt.email, tt.password)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	signed, err := f.auth.Signup(ctx, "Bob", "bob@example.com", "secret")
	require.NoError(t, err)

	res, err := f.auth.Login(ctx, "BOB@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, signed.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)

	_, err = f.auth.Login(ctx, "bob@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, "nobody@example.com", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, "bob@example.com", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_GoogleAuth(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates google user", func(t *testing.T) {
		f := newFixture(t)
		f.google.issue("cred-gina", transport.GoogleIdentity{Subject: "g-1", Email: "Gina@example.com", EmailVerified: true, Name: "Gina"})

		res, err := f.auth.GoogleAuth(ctx, "cred-gina")
		require.NoError(t, err)
		assert.Equal(t, models.AuthProviderGoogle, res.User.AuthProvider)
		assert.Equal(t, "g-1", res.User.GoogleID)
		assert.Equal(t, "gina@example.com", res.User.Email)

		again, err := f.auth.GoogleAuth(ctx, "cred-gina")
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, again.User.ID)
		assert.Len(t, f.events.Types(events.TopicUser), 1)
	})

	t.Run("unverified credential cannot take over local account", func(t *testing.T) {
		f := newFixture(t)

		local, err := f.auth.Signup(ctx, "Vic", "victim@example.com", "pw")
		require.NoError(t, err)

		_, err = f.auth.GoogleAuth(ctx, "forged-token")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		f.google.issue("cred-unverified", transport.GoogleIdentity{Subject: "g-x", Email: "victim@example.com", EmailVerified: false})
		_, err = f.auth.GoogleAuth(ctx, "cred-unverified")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		stored, err := f.repo.GetUserByID(ctx, local.User.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.GoogleID)
	})

	t.Run("links local account with verified email", func(t *testing.T) {
		f := newFixture(t)

		local, err := f.auth.Signup(ctx, "Lee", "lee@example.com", "pw")
		require.NoError(t, err)
		f.google.issue("cred-lee", transport.GoogleIdentity{Subject: "g-2", Email: "lee@example.com", EmailVerified: true})

		res, err := f.auth.GoogleAuth(ctx, "cred-lee")
		require.NoError(t, err)
		assert.Equal(t, local.User.ID, res.User.ID)

		stored, err := f.repo.GetUserByID(ctx, local.User.ID)
		require.NoError(t, err)
		assert.Equal(t, "g-2", stored.GoogleID)

		_, err = f.auth.Login(ctx, "lee@example.com", "pw")
		require.NoError(t, err)
	})

	t.Run("rejects other google account for same email", func(t *testing.T) {
		f := newFixture(t)
		f.google.issue("cred-a", transport.GoogleIdentity{Subject: "g-3", Email: "max@example.com", EmailVerified: true})
		f.google.issue("cred-b", transport.GoogleIdentity{Subject: "g-4", Email: "max@example.com", EmailVerified: true})

		_, err := f.auth.GoogleAuth(ctx, "cred-a")
		require.NoError(t, err)

		_, err = f.auth.GoogleAuth(ctx, "cred-b")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("requires credential", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.auth.GoogleAuth(ctx, " ")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("disabled without verifier", func(t *testing.T) {
		f := newFixture(t)
		f.auth.Google = nil

		_, err := f.auth.GoogleAuth(ctx, "cred")
		require.ErrorIs(t, err, ErrInvalidState)
	})
}
