// Package handler - HTTP handler quản lý người dùng, nhóm, quyền.
package handler

import (
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"

	"qrapp/internal/api/auth/dto"
	"qrapp/internal/api/auth/models"
	"qrapp/internal/api/auth/service"
	basehdl "qrapp/internal/api/base/handler"
	"qrapp/internal/api/middleware"
	"qrapp/internal/common"
	"qrapp/internal/global"
	"qrapp/internal/utility"
)

// UserHandler xử lý các endpoint quản lý người dùng
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler tạo UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// HandleCreateStaff tạo tài khoản nhân viên cho một chi nhánh.
// Doanh nghiệp lấy từ scope của người gọi (BusinessOwner).
func (h *UserHandler) HandleCreateStaff(c fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil || claims.UserScope == nil {
		return basehdl.HandleResponse(c, nil, common.ErrForbidden)
	}

	var input dto.CreateStaffInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error()))
	}

	business := utility.String2ObjectID(*claims.UserScope)
	branch := utility.String2ObjectID(input.Branch)
	if branch.IsZero() {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}

	user := models.User{
		Name:     input.Name,
		Username: input.Username,
		Email:    input.Email,
		Phone:    input.Phone,
	}
	created, err := h.userService.CreateStaff(c.Context(), user, input.Password, business, branch)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, created, nil)
}

// HandleListUsers liệt kê người dùng trong doanh nghiệp của người gọi.
// Admin không có scope nên thấy tất cả.
func (h *UserHandler) HandleListUsers(c fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil {
		return basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
	}

	filter := bson.M{}
	if claims.UserScope != nil {
		filter["scope"] = utility.String2ObjectID(*claims.UserScope)
	}

	users, err := h.userService.Find(c.Context(), filter, nil)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, users, nil)
}

// HandleGetUser lấy thông tin một người dùng trong phạm vi của người gọi
func (h *UserHandler) HandleGetUser(c fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil {
		return basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
	}

	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	// Lọc theo scope ngay trong filter: người dùng ngoài phạm vi
	// trông giống hệt "không tồn tại"
	filter := bson.M{"_id": id}
	if claims.UserScope != nil {
		filter["scope"] = utility.String2ObjectID(*claims.UserScope)
	}

	user, err := h.userService.FindOne(c.Context(), filter, nil)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, user, nil)
}

// HandleSetAvailability khóa hoặc mở khóa tài khoản
func (h *UserHandler) HandleSetAvailability(c fiber.Ctx) error {
	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	var input dto.SetAvailabilityInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrRequiredField)
	}

	user, err := h.userService.SetAvailability(c.Context(), id, *input.Available)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, user, nil)
}

// HandleGrantPermissions gán thêm quyền trực tiếp cho người dùng
func (h *UserHandler) HandleGrantPermissions(c fiber.Ctx) error {
	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	var input dto.PermissionIDsInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrRequiredField)
	}

	user, err := h.userService.GrantPermissions(c.Context(), id, utility.StringArray2ObjectIDArray(input.Permissions))
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, user, nil)
}

// HandleRevokePermissions thu hồi quyền trực tiếp của người dùng
func (h *UserHandler) HandleRevokePermissions(c fiber.Ctx) error {
	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	var input dto.PermissionIDsInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrRequiredField)
	}

	user, err := h.userService.RevokePermissions(c.Context(), id, utility.StringArray2ObjectIDArray(input.Permissions))
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, user, nil)
}
