// Package dto - cấu trúc request/response cho domain auth.
package dto

// SignInInput dữ liệu đăng nhập
type SignInInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput dữ liệu cấp lại access token
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// SignOutInput dữ liệu đăng xuất
type SignOutInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ForgotPasswordInput yêu cầu gửi email đặt lại mật khẩu
type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput đặt lại mật khẩu bằng token trong email
type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,strong_password"`
}

// ChangePasswordInput đổi mật khẩu khi đã đăng nhập
type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,strong_password"`
}
