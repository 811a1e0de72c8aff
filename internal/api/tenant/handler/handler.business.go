// Package handler - HTTP handler cho quản lý doanh nghiệp (Admin).
package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	basehdl "qrapp/internal/api/base/handler"
	"qrapp/internal/api/tenant/dto"
	"qrapp/internal/api/tenant/service"
	"qrapp/internal/common"
	"qrapp/internal/global"
	"qrapp/internal/utility"
)

// BusinessHandler xử lý các endpoint quản lý doanh nghiệp
type BusinessHandler struct {
	businessService *service.BusinessService
}

// NewBusinessHandler tạo BusinessHandler
func NewBusinessHandler(businessService *service.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// HandleListBusinesses liệt kê doanh nghiệp có phân trang
func (h *BusinessHandler) HandleListBusinesses(c fiber.Ctx) error {
	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil {
		page = 1
	}
	limit, err := strconv.ParseInt(c.Query("limit", ""), 10, 64)
	if err != nil || limit < 1 {
		limit = global.MongoDB_ServerConfig.PageSize
	}

	result, err := h.businessService.FindWithPagination(c.Context(), nil, page, limit, nil)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, result, nil)
}

// HandleGetBusiness xem chi tiết một doanh nghiệp
func (h *BusinessHandler) HandleGetBusiness(c fiber.Ctx) error {
	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	business, err := h.businessService.FindOneById(c.Context(), id)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, business, nil)
}

// HandleRegisterBusiness đăng ký doanh nghiệp mới kèm tài khoản chủ
func (h *BusinessHandler) HandleRegisterBusiness(c fiber.Ctx) error {
	var input dto.RegisterBusinessInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error()))
	}

	business, owner, err := h.businessService.Register(c.Context(), service.RegisterBusinessInput{
		BusinessName:    input.BusinessName,
		BusinessAddress: input.BusinessAddress,
		BusinessContact: input.BusinessContact,
		BusinessTaxCode: input.BusinessTaxCode,
		BusinessType:    utility.String2ObjectID(input.BusinessType),
		OwnerName:       input.OwnerName,
		OwnerContact:    input.OwnerContact,
		Username:        input.Username,
		Password:        input.Password,
		Email:           input.Email,
	})
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	return basehdl.HandleResponse(c, fiber.Map{"business": business, "owner": owner}, nil)
}

// HandleUpdateBusiness sửa thông tin doanh nghiệp
func (h *BusinessHandler) HandleUpdateBusiness(c fiber.Ctx) error {
	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	var input dto.UpdateBusinessInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}

	business, err := h.businessService.UpdateById(c.Context(), id, &input)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, business, nil)
}

// HandleExtendBusiness gia hạn doanh nghiệp theo số ngày
func (h *BusinessHandler) HandleExtendBusiness(c fiber.Ctx) error {
	var input dto.ExtendBusinessInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrRequiredField)
	}

	business, err := h.businessService.Extend(c.Context(), utility.String2ObjectID(input.ID), input.Days)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, business, nil)
}

// HandleToggleBusiness khóa/mở khóa doanh nghiệp (đảo trạng thái hiện tại)
func (h *BusinessHandler) HandleToggleBusiness(c fiber.Ctx) error {
	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	business, err := h.businessService.FindOneById(c.Context(), id)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	business, err = h.businessService.SetAvailability(c.Context(), id, !business.Available)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, business, nil)
}

// HandleDeleteBusiness xóa doanh nghiệp cùng toàn bộ dữ liệu
func (h *BusinessHandler) HandleDeleteBusiness(c fiber.Ctx) error {
	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	if err := h.businessService.Delete(c.Context(), id); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, nil, nil)
}
