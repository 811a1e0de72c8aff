// Package service - phát hành và kiểm tra JWT token.
package service

import (
	"time"

	"github.com/dgrijalva/jwt-go"

	"qrapp/internal/api/auth/models"
	"qrapp/internal/common"
)

// TokenService phát hành và xác minh cặp access/refresh token.
// Access và refresh ký bằng hai khóa riêng biệt nên token loại này
// không thể dùng thay cho loại kia.
type TokenService struct {
	accessKey       []byte
	refreshKey      []byte
	accessLifetime  time.Duration
	refreshLifetime time.Duration
}

// NewTokenService tạo TokenService với khóa ký và thời hạn token.
// Thời hạn tính bằng phút.
func NewTokenService(accessKey, refreshKey string, accessLifetimeMinutes, refreshLifetimeMinutes int) *TokenService {
	return &TokenService{
		accessKey:       []byte(accessKey),
		refreshKey:      []byte(refreshKey),
		accessLifetime:  time.Duration(accessLifetimeMinutes) * time.Minute,
		refreshLifetime: time.Duration(refreshLifetimeMinutes) * time.Minute,
	}
}

// GeneratePair phát hành cặp access/refresh token cho claims với thời hạn mặc định
func (s *TokenService) GeneratePair(claims models.TokenClaims) (*models.TokenPair, error) {
	return s.GeneratePairWithLifetime(claims, s.accessLifetime, s.refreshLifetime)
}

// GeneratePairWithLifetime phát hành cặp token với thời hạn chỉ định.
// Dùng cho luồng đặt lại mật khẩu: cặp token sống 15 phút.
func (s *TokenService) GeneratePairWithLifetime(claims models.TokenClaims, accessLifetime, refreshLifetime time.Duration) (*models.TokenPair, error) {
	now := time.Now()

	accessClaims := claims
	accessClaims.IssuedAt = now.Unix()
	accessClaims.ExpiresAt = now.Add(accessLifetime).Unix()
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &accessClaims).SignedString(s.accessKey)
	if err != nil {
		return nil, common.NewError(common.ErrCodeAuthToken, "Không thể phát hành access token", common.StatusInternalServerError, err)
	}

	refreshClaims := claims
	refreshClaims.IssuedAt = now.Unix()
	refreshClaims.ExpiresAt = now.Add(refreshLifetime).Unix()
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &refreshClaims).SignedString(s.refreshKey)
	if err != nil {
		return nil, common.NewError(common.ErrCodeAuthToken, "Không thể phát hành refresh token", common.StatusInternalServerError, err)
	}

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// GenerateAccess phát hành access token mới cho claims.
// Dùng trong luồng refresh: chỉ access token được cấp lại, refresh giữ nguyên.
func (s *TokenService) GenerateAccess(claims models.TokenClaims) (string, error) {
	now := time.Now()
	claims.IssuedAt = now.Unix()
	claims.ExpiresAt = now.Add(s.accessLifetime).Unix()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(s.accessKey)
	if err != nil {
		return "", common.NewError(common.ErrCodeAuthToken, "Không thể phát hành access token", common.StatusInternalServerError, err)
	}
	return token, nil
}

// VerifyAccess xác minh access token và trả về claims
func (s *TokenService) VerifyAccess(tokenString string) (*models.TokenClaims, error) {
	return s.verify(tokenString, s.accessKey)
}

// VerifyRefresh xác minh refresh token và trả về claims
func (s *TokenService) VerifyRefresh(tokenString string) (*models.TokenClaims, error) {
	return s.verify(tokenString, s.refreshKey)
}

// verify parse và xác minh token với khóa ký cho trước.
// Token hết hạn trả về ErrTokenExpired, mọi lỗi khác trả về ErrTokenInvalid
// để client phân biệt được "nên refresh" với "phải đăng nhập lại".
func (s *TokenService) verify(tokenString string, key []byte) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrTokenInvalid
		}
		return key, nil
	})
	if err != nil {
		if validationErr, ok := err.(*jwt.ValidationError); ok && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}

// AccessLifetime trả về thời hạn access token mặc định
func (s *TokenService) AccessLifetime() time.Duration {
	return s.accessLifetime
}
