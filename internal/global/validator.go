package global

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// permissionCodePattern kiểm tra mã quyền dạng {action}.{entity}, ví dụ "view.product"
var permissionCodePattern = regexp.MustCompile(`^[a-z]+\.[a-z]+$`)

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("strong_password", validateStrongPassword)
	_ = Validate.RegisterValidation("permission_code", validatePermissionCode)
}

// validateStrongPassword kiểm tra mật khẩu mạnh:
// tối thiểu 8 ký tự, có chữ hoa, chữ thường và chữ số
func validateStrongPassword(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	if len(value) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return hasUpper && hasLower && hasDigit
}

// validatePermissionCode kiểm tra định dạng mã quyền
func validatePermissionCode(fl validator.FieldLevel) bool {
	return permissionCodePattern.MatchString(fl.Field().String())
}
