// Package service - test luồng đăng nhập, refresh, đăng xuất với phiên đơn.
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"qrapp/internal/api/auth/models"
	basesvc "qrapp/internal/api/base/service"
	"qrapp/internal/common"
)

// fakeUserService chỉ triển khai các phương thức luồng auth cần,
// các phương thức còn lại panic qua interface embed
type fakeUserService struct {
	basesvc.BaseServiceMongo[models.User]
	users map[string]models.User // key theo username
}

func (f *fakeUserService) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (models.User, error) {
	m, ok := filter.(bson.M)
	if ok {
		if username, exists := m["username"]; exists {
			if user, found := f.users[username.(string)]; found {
				return user, nil
			}
		}
		if email, exists := m["email"]; exists {
			for _, user := range f.users {
				if user.Email == email.(string) {
					return user, nil
				}
			}
		}
	}
	return models.User{}, common.ErrNotFound
}

func (f *fakeUserService) FindOneById(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, common.ErrNotFound
}

func (f *fakeUserService) UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (models.User, error) {
	for username, user := range f.users {
		if user.ID == id {
			if m, ok := data.(bson.M); ok {
				if password, exists := m["password"]; exists {
					user.Password = password.(string)
					f.users[username] = user
				}
			}
			return user, nil
		}
	}
	return models.User{}, common.ErrNotFound
}

func newTestAuthService(t *testing.T) (*AuthService, *MemorySessionStore, models.User) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      "Người dùng test",
		Username:  "tester",
		Password:  string(hashed),
		Role:      models.RoleAdmin,
		Available: true,
		Email:     "tester@example.com",
	}

	userService := &fakeUserService{users: map[string]models.User{"tester": user}}
	sessions := NewMemorySessionStore()
	tokens := newTestTokenService()
	resolver := NewPermissionResolver(&fakePermissionFinder{}, &fakeGroupFinder{})

	svc := NewAuthService(userService, tokens, sessions, resolver, nil, nil, "https://app.example.com")
	return svc, sessions, user
}

func TestAuthService_SignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("đăng nhập đúng trả về cặp token và ghi phiên", func(t *testing.T) {
		svc, sessions, user := newTestAuthService(t)

		signed, pair, err := svc.SignIn(ctx, "tester", "Secret123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, signed.ID)

		stored, ok := sessions.Get(user.ID.Hex())
		require.True(t, ok)
		assert.Equal(t, pair.RefreshToken, stored)
	})

	t.Run("sai mật khẩu trả về ErrInvalidCredentials", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		_, _, err := svc.SignIn(ctx, "tester", "WrongPass1")
		assert.True(t, errors.Is(err, common.ErrInvalidCredentials))
	})

	t.Run("tài khoản không tồn tại trả về cùng lỗi với sai mật khẩu", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		_, _, err := svc.SignIn(ctx, "ghost", "Secret123")
		assert.True(t, errors.Is(err, common.ErrInvalidCredentials))
	})

	t.Run("tài khoản bị khóa trả về ErrAccountLocked", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		locked := svc.userService.(*fakeUserService).users["tester"]
		locked.Available = false
		svc.userService.(*fakeUserService).users["tester"] = locked

		_, _, err := svc.SignIn(ctx, "tester", "Secret123")
		assert.True(t, errors.Is(err, common.ErrAccountLocked))
	})

	t.Run("đăng nhập mới ghi đè phiên cũ", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)

		_, firstPair, err := svc.SignIn(ctx, "tester", "Secret123")
		require.NoError(t, err)
		_, secondPair, err := svc.SignIn(ctx, "tester", "Secret123")
		require.NoError(t, err)

		// Refresh token của phiên cũ không còn dùng được
		_, err = svc.Refresh(ctx, firstPair.RefreshToken)
		assert.True(t, errors.Is(err, common.ErrSessionInvalid))

		// Phiên mới vẫn hoạt động bình thường
		accessToken, err := svc.Refresh(ctx, secondPair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, accessToken)
	})
}

func TestAuthService_RefreshAndSignOut(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh cấp lại access token, refresh token giữ nguyên", func(t *testing.T) {
		svc, sessions, user := newTestAuthService(t)
		_, pair, err := svc.SignIn(ctx, "tester", "Secret123")
		require.NoError(t, err)

		accessToken, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, accessToken)

		stored, _ := sessions.Get(user.ID.Hex())
		assert.Equal(t, pair.RefreshToken, stored, "refresh không được xoay vòng refresh token")
	})

	t.Run("đăng xuất yêu cầu refresh token trùng khớp", func(t *testing.T) {
		svc, _, user := newTestAuthService(t)
		_, pair, err := svc.SignIn(ctx, "tester", "Secret123")
		require.NoError(t, err)

		err = svc.SignOut(ctx, user.ID.Hex(), "some-other-token")
		assert.True(t, errors.Is(err, common.ErrSessionInvalid))

		err = svc.SignOut(ctx, user.ID.Hex(), pair.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("refresh sau khi đăng xuất bị từ chối", func(t *testing.T) {
		svc, _, user := newTestAuthService(t)
		_, pair, err := svc.SignIn(ctx, "tester", "Secret123")
		require.NoError(t, err)

		require.NoError(t, svc.SignOut(ctx, user.ID.Hex(), pair.RefreshToken))

		// Refresh token vẫn còn hạn về mặt chữ ký nhưng phiên đã kết thúc
		_, err = svc.Refresh(ctx, pair.RefreshToken)
		assert.True(t, errors.Is(err, common.ErrSessionInvalid))
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("token đặt lại hợp lệ đổi được mật khẩu và hủy phiên", func(t *testing.T) {
		svc, sessions, user := newTestAuthService(t)

		require.NoError(t, svc.ForgotPassword(ctx, "tester@example.com"))

		// Lấy token đặt lại từ phiên đã lưu (trong thực tế nằm trong email)
		resetRefresh, ok := sessions.Get(user.ID.Hex())
		require.True(t, ok)
		claims, err := svc.tokenService.VerifyRefresh(resetRefresh)
		require.NoError(t, err)
		resetAccess, err := svc.tokenService.GenerateAccess(*claims)
		require.NoError(t, err)

		require.NoError(t, svc.ResetPassword(ctx, resetAccess, "NewSecret123"))

		_, ok = sessions.Get(user.ID.Hex())
		assert.False(t, ok, "đặt lại mật khẩu phải hủy phiên hiện tại")
	})

	t.Run("email chưa đăng ký trả về lỗi chung", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		err := svc.ForgotPassword(ctx, "ghost@example.com")
		assert.True(t, errors.Is(err, common.ErrInvalidCredentials))
	})
}
