package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/readlist/internal/client/client"
	"github.com/dmitrijs2005/readlist/internal/client/models"
	"github.com/dmitrijs2005/readlist/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_SavesSession(t *testing.T) {
	ctx := context.Background()
	a, fc, repo := newAuth(t)

	s, err := a.Login(ctx, "alice@example.com", []byte("Passw0rdX"))
	require.NoError(t, err)

	want := &models.Session{UserID: 7, Email: "alice@example.com", Name: "Alice", AccessToken: "login-token", ExpiresAt: testExpiry}
	assert.Equal(t, want, s)
	assert.Equal(t, want, a.Current())
	assert.Equal(t, "login-token", fc.token)

	saved, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, saved)
}

func TestSignup_SavesSession(t *testing.T) {
	a, fc, _ := newAuth(t)

	s, err := a.Signup(context.Background(), "Alice", "alice@example.com", []byte("Passw0rdX"))
	require.NoError(t, err)
	assert.Equal(t, "signup-token", s.AccessToken)
	assert.Equal(t, "signup-token", fc.token)
}

func TestLogin_Failure(t *testing.T) {
	ctx := context.Background()
	a, fc, repo := newAuth(t)
	fc.loginErr = client.ErrUnauthorized

	_, err := a.Login(ctx, "alice@example.com", []byte("nope"))
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Nil(t, a.Current())

	_, err = repo.Load(ctx)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLogin_VerifyFailureDropsToken(t *testing.T) {
	a, fc, _ := newAuth(t)
	fc.verifyErr = client.ErrUnavailable

	_, err := a.Login(context.Background(), "alice@example.com", []byte("Passw0rdX"))
	assert.ErrorIs(t, err, client.ErrUnavailable)
	assert.Empty(t, fc.token)
	assert.Nil(t, a.Current())
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing saved", func(t *testing.T) {
		a, _, _ := newAuth(t)
		_, err := a.Restore(ctx)
		assert.ErrorIs(t, err, ErrNotLoggedIn)
	})

	t.Run("valid session", func(t *testing.T) {
		a, fc, repo := newAuth(t)
		require.NoError(t, repo.Save(ctx, &models.Session{UserID: 7, Email: "a@example.com", AccessToken: "saved", ExpiresAt: testExpiry}))

		s, err := a.Restore(ctx)
		require.NoError(t, err)
		assert.Equal(t, "saved", s.AccessToken)
		assert.Equal(t, "saved", fc.token)
		assert.NotNil(t, a.Current())
	})

	t.Run("expired session is cleared", func(t *testing.T) {
		a, fc, repo := newAuth(t)
		require.NoError(t, repo.Save(ctx, &models.Session{UserID: 7, AccessToken: "old", ExpiresAt: testExpiry}))
		a.now = func() time.Time { return testExpiry }

		_, err := a.Restore(ctx)
		assert.ErrorIs(t, err, ErrNotLoggedIn)
		assert.Empty(t, fc.token)

		_, err = repo.Load(ctx)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestWhoami(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newAuth(t)

	_, err := a.Whoami(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = a.Login(ctx, "alice@example.com", []byte("Passw0rdX"))
	require.NoError(t, err)

	id, err := a.Whoami(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id.ID)
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name      string
		serverErr error
		wantErr   error
	}{
		{"revoked", nil, nil},
		{"server has no denylist", common.ErrUnsupported, nil},
		{"token already dead", client.ErrUnauthorized, nil},
		{"server down", client.ErrUnavailable, client.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			a, fc, repo := newAuth(t)
			_, err := a.Login(ctx, "alice@example.com", []byte("Passw0rdX"))
			require.NoError(t, err)
			fc.logoutErr = tt.serverErr

			err = a.Logout(ctx)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, 1, fc.logouts)
			assert.Nil(t, a.Current(), "local session is always dropped")
			assert.Empty(t, fc.token)
			_, err = repo.Load(ctx)
			assert.True(t, errors.Is(err, common.ErrorNotFound))
		})
	}
}

func TestLogout_NotLoggedIn(t *testing.T) {
	a, fc, _ := newAuth(t)
	assert.ErrorIs(t, a.Logout(context.Background()), ErrNotLoggedIn)
	assert.Zero(t, fc.logouts)
}
