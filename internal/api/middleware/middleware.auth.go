// Package middleware chứa các middleware xác thực và phân quyền cho Fiber.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"qrapp/internal/api/auth/models"
	authsvc "qrapp/internal/api/auth/service"
	basehdl "qrapp/internal/api/base/handler"
	"qrapp/internal/common"
	"qrapp/internal/logger"
)

// Các key lưu thông tin xác thực trong request locals
const (
	LocalClaims      = "auth_claims"
	LocalUserID      = "user_id"
	LocalUserRole    = "user_role"
	LocalUserScope   = "user_scope"
	LocalUserBranch  = "user_branch"
	LocalPermissions = "user_permissions"
)

// Authenticate xác thực access token và kiểm tra quyền truy cập.
// Token được xác minh stateless từ chữ ký JWT, không truy vấn database.
// requirePermission rỗng nghĩa là chỉ cần đăng nhập, không cần quyền cụ thể.
func Authenticate(tokenService *authsvc.TokenService, requirePermission string) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Thiếu Authorization header")
			return basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return basehdl.HandleResponse(c, nil, common.ErrTokenInvalid)
		}

		claims, err := tokenService.VerifyAccess(parts[1])
		if err != nil {
			// ErrTokenExpired và ErrTokenInvalid mang code khác nhau,
			// giữ nguyên để client biết nên refresh hay đăng nhập lại
			return basehdl.HandleResponse(c, nil, err)
		}

		c.Locals(LocalClaims, claims)
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserRole, claims.UserRole)
		c.Locals(LocalUserScope, claims.UserScope)
		c.Locals(LocalUserBranch, claims.UserBranch)
		c.Locals(LocalPermissions, claims.UserPermissions)

		if requirePermission == "" {
			return c.Next()
		}

		if !claims.HasPermission(requirePermission) {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"user_id":             claims.UserID,
				"required_permission": requirePermission,
				"path":                c.Path(),
			}).Warn("❌ [AUTH] Người dùng không có quyền truy cập")
			return basehdl.HandleResponse(c, nil, common.ErrForbidden)
		}

		return c.Next()
	}
}

// RequireRole chỉ cho phép các vai trò được liệt kê đi qua.
// Phải đặt sau Authenticate.
func RequireRole(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		claims := ClaimsFromCtx(c)
		if claims == nil {
			return basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
		}
		for _, role := range roles {
			if claims.UserRole == role {
				return c.Next()
			}
		}
		return basehdl.HandleResponse(c, nil, common.ErrForbidden)
	}
}

// ClaimsFromCtx đọc claims đã xác thực từ request locals,
// trả về nil nếu request chưa đi qua Authenticate
func ClaimsFromCtx(c fiber.Ctx) *models.TokenClaims {
	claims, ok := c.Locals(LocalClaims).(*models.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}
