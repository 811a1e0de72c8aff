// Package dto - cấu trúc request cho quản lý người dùng, nhóm, quyền.
package dto

// CreateUserInput tạo tài khoản mới (Admin hoặc BusinessOwner)
type CreateUserInput struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required,min=4"`
	Password string `json:"password" validate:"required,strong_password"`
	Role     string `json:"role" validate:"required,oneof=Admin BusinessOwner Staff"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty"`
	Scope    string `json:"scope" validate:"omitempty,len=24"`
	Branch   string `json:"branch" validate:"omitempty,len=24"`
}

// CreateStaffInput tạo tài khoản nhân viên cho một chi nhánh
type CreateStaffInput struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required,min=4"`
	Password string `json:"password" validate:"required,strong_password"`
	Branch   string `json:"branch" validate:"required,len=24"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty"`
}

// SetAvailabilityInput khóa/mở khóa tài khoản
type SetAvailabilityInput struct {
	Available *bool `json:"available" validate:"required"`
}

// PermissionIDsInput danh sách id quyền cần gán hoặc thu hồi
type PermissionIDsInput struct {
	Permissions []string `json:"permissions" validate:"required,min=1,dive,len=24"`
}

// CreatePermissionInput tạo quyền mới
type CreatePermissionInput struct {
	Code string `json:"code" validate:"required,permission_code"`
	Name string `json:"name" validate:"required"`
}

// CreateGroupInput tạo nhóm quyền trong doanh nghiệp
type CreateGroupInput struct {
	Name        string   `json:"name" validate:"required"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,len=24"`
}

// GroupMemberInput thêm/loại thành viên nhóm
type GroupMemberInput struct {
	UserID string `json:"userId" validate:"required,len=24"`
}
