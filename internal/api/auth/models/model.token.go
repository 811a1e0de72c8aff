// Package models - TokenClaims, TokenPair thuộc domain auth.
package models

import "github.com/dgrijalva/jwt-go"

// TokenClaims chứa data được mã hóa trong JWT token.
// UserScope và UserBranch là con trỏ vì Admin không thuộc doanh nghiệp/chi nhánh nào.
type TokenClaims struct {
	UserID          string   `json:"user_id"`
	UserScope       *string  `json:"user_scope"`
	UserBranch      *string  `json:"user_branch"`
	UserRole        string   `json:"user_role"`
	UserPermissions []string `json:"user_permissions"`
	jwt.StandardClaims
}

// HasPermission kiểm tra claims có chứa quyền code không
func (c *TokenClaims) HasPermission(code string) bool {
	for _, p := range c.UserPermissions {
		if p == code {
			return true
		}
	}
	return false
}

// TokenPair là cặp access/refresh token trả về khi đăng nhập
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
