// Package handler - HTTP handler quản lý danh mục quyền.
package handler

import (
	"github.com/gofiber/fiber/v3"

	"qrapp/internal/api/auth/dto"
	"qrapp/internal/api/auth/models"
	"qrapp/internal/api/auth/service"
	basehdl "qrapp/internal/api/base/handler"
	"qrapp/internal/common"
	"qrapp/internal/global"
)

// PermissionHandler xử lý các endpoint danh mục quyền
type PermissionHandler struct {
	permissionService *service.PermissionService
}

// NewPermissionHandler tạo PermissionHandler
func NewPermissionHandler(permissionService *service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// HandleListPermissions liệt kê toàn bộ quyền trong hệ thống
func (h *PermissionHandler) HandleListPermissions(c fiber.Ctx) error {
	permissions, err := h.permissionService.Find(c.Context(), nil, nil)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, permissions, nil)
}

// HandleCreatePermission tạo quyền mới
func (h *PermissionHandler) HandleCreatePermission(c fiber.Ctx) error {
	var input dto.CreatePermissionInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Code quyền phải theo định dạng {action}.{entity}", common.StatusBadRequest, nil))
	}

	created, err := h.permissionService.Create(c.Context(), models.Permission{Code: input.Code, Name: input.Name})
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, created, nil)
}

// HandleDeletePermission xóa quyền khỏi danh mục
func (h *PermissionHandler) HandleDeletePermission(c fiber.Ctx) error {
	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	if err := h.permissionService.DeleteById(c.Context(), id); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, nil, nil)
}
