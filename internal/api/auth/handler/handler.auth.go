// Package handler - HTTP handler cho domain auth.
package handler

import (
	"github.com/gofiber/fiber/v3"

	"qrapp/internal/api/auth/dto"
	"qrapp/internal/api/auth/service"
	basehdl "qrapp/internal/api/base/handler"
	"qrapp/internal/api/middleware"
	"qrapp/internal/common"
	"qrapp/internal/global"
)

// AuthHandler xử lý các endpoint xác thực
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler tạo AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// HandleSignIn xử lý đăng nhập, trả về thông tin người dùng và cặp token
func (h *AuthHandler) HandleSignIn(c fiber.Ctx) error {
	var input dto.SignInInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error()))
	}

	user, pair, err := h.authService.SignIn(c.Context(), input.Username, input.Password)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, fiber.Map{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, nil)
}

// HandleRefresh cấp lại access token từ refresh token
func (h *AuthHandler) HandleRefresh(c fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrRequiredField)
	}

	accessToken, err := h.authService.Refresh(c.Context(), input.RefreshToken)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, fiber.Map{"accessToken": accessToken}, nil)
}

// HandleSignOut kết thúc phiên đăng nhập hiện tại
func (h *AuthHandler) HandleSignOut(c fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil {
		return basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
	}

	var input dto.SignOutInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrRequiredField)
	}

	if err := h.authService.SignOut(c.Context(), claims.UserID, input.RefreshToken); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, nil, nil)
}

// HandleForgotPassword gửi email chứa link đặt lại mật khẩu
func (h *AuthHandler) HandleForgotPassword(c fiber.Ctx) error {
	var input dto.ForgotPasswordInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Email không hợp lệ", common.StatusBadRequest, nil))
	}

	if err := h.authService.ForgotPassword(c.Context(), input.Email); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, fiber.Map{"message": "Đã gửi email đặt lại mật khẩu"}, nil)
}

// HandleResetPassword đặt lại mật khẩu bằng token trong email
func (h *AuthHandler) HandleResetPassword(c fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrWeakPassword)
	}

	if err := h.authService.ResetPassword(c.Context(), input.Token, input.NewPassword); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, nil, nil)
}

// HandleChangePassword đổi mật khẩu của người dùng đang đăng nhập
func (h *AuthHandler) HandleChangePassword(c fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil {
		return basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
	}

	var input dto.ChangePasswordInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrWeakPassword)
	}

	if err := h.authService.ChangePassword(c.Context(), claims.UserID, input.OldPassword, input.NewPassword); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, nil, nil)
}
