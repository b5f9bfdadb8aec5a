package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "omnirag/console/internal/errors"
	"omnirag/console/internal/repository"
	mock_repo "omnirag/console/internal/repository/mocks"
	"omnirag/console/internal/service"
)

func TestAuthService_Token(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Stored token", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		repo.On("GetSetting", ctx, "access_token").Return("tok-123", nil).Once()

		token, err := service.NewAuthService(repo, "").Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-123", token)
	})

	t.Run("Success - Environment override wins", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)

		token, err := service.NewAuthService(repo, " env-token ").Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "env-token", token)
	})

	t.Run("Success - No token stored", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		repo.On("GetSetting", ctx, "access_token").Return("", repository.ErrNotFound).Once()

		token, err := service.NewAuthService(repo, "").Token(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("Failure - Storage error", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		repo.On("GetSetting", ctx, "access_token").Return("", errors.New("disk I/O error")).Once()

		_, err := service.NewAuthService(repo, "").Token(ctx)
		assert.ErrorIs(t, err, app_errors.ErrInternal)
	})
}

func TestAuthService_SetToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Token is trimmed and stored", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		repo.On("SetSetting", ctx, "access_token", "tok-123").Return(nil).Once()

		require.NoError(t, service.NewAuthService(repo, "").SetToken(ctx, "  tok-123\n"))
	})

	t.Run("Failure - Empty token", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)

		err := service.NewAuthService(repo, "").SetToken(ctx, "   ")
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})
}

func TestAuthService_ClearToken(t *testing.T) {
	ctx := context.Background()
	repo := mock_repo.NewMockRepository(t)
	repo.On("DeleteSetting", ctx, "access_token").Return(nil).Once()

	require.NoError(t, service.NewAuthService(repo, "").ClearToken(ctx))
}

func TestAuthService_Status(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		override string
		stored   string
		storeErr error
		want     service.TokenStatus
	}{
		{name: "env", override: "tok", want: service.TokenStatus{Configured: true, Source: "env"}},
		{name: "store", stored: "tok", want: service.TokenStatus{Configured: true, Source: "store"}},
		{name: "none", storeErr: repository.ErrNotFound, want: service.TokenStatus{Configured: false, Source: "none"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock_repo.NewMockRepository(t)
			if tt.override == "" {
				repo.On("GetSetting", ctx, "access_token").Return(tt.stored, tt.storeErr).Once()
			}

			status, err := service.NewAuthService(repo, tt.override).Status(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *status)
		})
	}
}
