// Package service - test phát hành và xác minh token.
package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrapp/internal/api/auth/models"
	"qrapp/internal/common"
)

func newTestTokenService() *TokenService {
	return NewTokenService("access-secret", "refresh-secret", 30, 60)
}

func testClaims() models.TokenClaims {
	scope := "64f000000000000000000001"
	branch := "64f000000000000000000002"
	return models.TokenClaims{
		UserID:          "64f000000000000000000000",
		UserScope:       &scope,
		UserBranch:      &branch,
		UserRole:        models.RoleStaff,
		UserPermissions: []string{"view.order", "view.product"},
	}
}

func TestTokenService_GenerateAndVerify(t *testing.T) {
	svc := newTestTokenService()

	pair, err := svc.GeneratePair(testClaims())
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	t.Run("access token giải mã đúng claims", func(t *testing.T) {
		claims, err := svc.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "64f000000000000000000000", claims.UserID)
		assert.Equal(t, models.RoleStaff, claims.UserRole)
		assert.Equal(t, []string{"view.order", "view.product"}, claims.UserPermissions)
		require.NotNil(t, claims.UserScope)
		assert.Equal(t, "64f000000000000000000001", *claims.UserScope)
	})

	t.Run("refresh token giải mã được bằng khóa refresh", func(t *testing.T) {
		claims, err := svc.VerifyRefresh(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, "64f000000000000000000000", claims.UserID)
	})

	t.Run("access token không dùng được thay refresh token", func(t *testing.T) {
		_, err := svc.VerifyRefresh(pair.AccessToken)
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrTokenInvalid))
	})

	t.Run("refresh token không dùng được thay access token", func(t *testing.T) {
		_, err := svc.VerifyAccess(pair.RefreshToken)
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrTokenInvalid))
	})
}

func TestTokenService_ExpiredVsInvalid(t *testing.T) {
	svc := newTestTokenService()

	t.Run("token hết hạn trả về ErrTokenExpired", func(t *testing.T) {
		// Phát hành token đã hết hạn từ trước
		pair, err := svc.GeneratePairWithLifetime(testClaims(), -time.Minute, -time.Minute)
		require.NoError(t, err)

		_, err = svc.VerifyAccess(pair.AccessToken)
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrTokenExpired), "token hết hạn phải trả về ErrTokenExpired, nhận: %v", err)

		_, err = svc.VerifyRefresh(pair.RefreshToken)
		assert.True(t, errors.Is(err, common.ErrTokenExpired))
	})

	t.Run("token rác trả về ErrTokenInvalid", func(t *testing.T) {
		_, err := svc.VerifyAccess("not-a-jwt-token")
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrTokenInvalid))
	})

	t.Run("token ký bằng khóa khác trả về ErrTokenInvalid", func(t *testing.T) {
		other := NewTokenService("other-access", "other-refresh", 30, 60)
		pair, err := other.GeneratePair(testClaims())
		require.NoError(t, err)

		_, err = svc.VerifyAccess(pair.AccessToken)
		assert.True(t, errors.Is(err, common.ErrTokenInvalid))
	})

	t.Run("hai loại lỗi mang error code khác nhau", func(t *testing.T) {
		var expired, invalid *common.Error
		require.True(t, errors.As(common.ErrTokenExpired, &expired))
		require.True(t, errors.As(common.ErrTokenInvalid, &invalid))
		assert.NotEqual(t, expired.Code.Code, invalid.Code.Code)
	})
}

func TestTokenService_GenerateAccess(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.GenerateAccess(testClaims())
	require.NoError(t, err)

	claims, err := svc.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000000", claims.UserID)
	assert.Equal(t, []string{"view.order", "view.product"}, claims.UserPermissions)
}
