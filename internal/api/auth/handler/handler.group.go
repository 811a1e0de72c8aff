// Package handler - HTTP handler quản lý nhóm quyền.
package handler

import (
	"github.com/gofiber/fiber/v3"

	"qrapp/internal/api/auth/dto"
	"qrapp/internal/api/auth/models"
	"qrapp/internal/api/auth/service"
	basehdl "qrapp/internal/api/base/handler"
	"qrapp/internal/api/middleware"
	"qrapp/internal/common"
	"qrapp/internal/global"
	"qrapp/internal/utility"
)

// GroupHandler xử lý các endpoint quản lý nhóm quyền
type GroupHandler struct {
	groupService *service.GroupService
}

// NewGroupHandler tạo GroupHandler
func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// HandleCreateGroup tạo nhóm quyền trong doanh nghiệp của người gọi
func (h *GroupHandler) HandleCreateGroup(c fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil || claims.UserScope == nil {
		return basehdl.HandleResponse(c, nil, common.ErrForbidden)
	}

	var input dto.CreateGroupInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error()))
	}

	group := models.Group{
		Name:        input.Name,
		Business:    utility.String2ObjectID(*claims.UserScope),
		Permissions: utility.StringArray2ObjectIDArray(input.Permissions),
	}
	created, err := h.groupService.InsertOne(c.Context(), group)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, created, nil)
}

// HandleListGroups liệt kê nhóm trong doanh nghiệp của người gọi
func (h *GroupHandler) HandleListGroups(c fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil || claims.UserScope == nil {
		return basehdl.HandleResponse(c, nil, common.ErrForbidden)
	}

	groups, err := h.groupService.FindByBusiness(c.Context(), utility.String2ObjectID(*claims.UserScope))
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, groups, nil)
}

// HandleGrantGroupPermissions gán thêm quyền cho nhóm.
// Người gọi chỉ gán được quyền mà chính mình đang nắm giữ.
func (h *GroupHandler) HandleGrantGroupPermissions(c fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil {
		return basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
	}

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

	group, err := h.groupService.GrantPermissions(c.Context(), id, utility.StringArray2ObjectIDArray(input.Permissions), claims.UserPermissions)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, group, nil)
}

// HandleRevokeGroupPermissions thu hồi quyền của nhóm
func (h *GroupHandler) HandleRevokeGroupPermissions(c fiber.Ctx) error {
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

	group, err := h.groupService.RevokePermissions(c.Context(), id, utility.StringArray2ObjectIDArray(input.Permissions))
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, group, nil)
}

// HandleAddMember thêm người dùng vào nhóm
func (h *GroupHandler) HandleAddMember(c fiber.Ctx) error {
	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	var input dto.GroupMemberInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrRequiredField)
	}

	if err := h.groupService.AddMember(c.Context(), id, utility.String2ObjectID(input.UserID)); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, nil, nil)
}

// HandleRemoveMember loại người dùng khỏi nhóm
func (h *GroupHandler) HandleRemoveMember(c fiber.Ctx) error {
	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	var input dto.GroupMemberInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrRequiredField)
	}

	if err := h.groupService.RemoveMember(c.Context(), id, utility.String2ObjectID(input.UserID)); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, nil, nil)
}
