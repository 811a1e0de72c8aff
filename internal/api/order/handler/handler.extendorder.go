// Package handler - HTTP handler cho đơn gia hạn dịch vụ.
package handler

import (
	"io"

	"github.com/gofiber/fiber/v3"

	authmodels "qrapp/internal/api/auth/models"
	basehdl "qrapp/internal/api/base/handler"
	"qrapp/internal/api/middleware"
	"qrapp/internal/api/order/dto"
	"qrapp/internal/api/order/service"
	"qrapp/internal/common"
	"qrapp/internal/global"
	"qrapp/internal/utility"
)

// ExtendOrderHandler xử lý các endpoint đơn gia hạn
type ExtendOrderHandler struct {
	extendService *service.ExtendOrderService
}

// NewExtendOrderHandler tạo ExtendOrderHandler
func NewExtendOrderHandler(extendService *service.ExtendOrderService) *ExtendOrderHandler {
	return &ExtendOrderHandler{extendService: extendService}
}

// HandleQuoteExtend trả thông tin chuyển khoản của một gói gia hạn
func (h *ExtendOrderHandler) HandleQuoteExtend(c fiber.Ctx) error {
	planID, err := basehdl.ParseObjectID(c, "plan")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	quote, err := h.extendService.Quote(c.Context(), planID)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, quote, nil)
}

// HandleCreateExtendOrder nhận form-data gồm gói và ảnh chứng từ chuyển khoản
func (h *ExtendOrderHandler) HandleCreateExtendOrder(c fiber.Ctx) error {
	business, err := callerBusiness(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	input := dto.CreateExtendOrderInput{Plan: c.FormValue("plan")}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(
			common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error()))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(
			common.ErrCodeValidationInput, "Thiếu ảnh chứng từ chuyển khoản", common.StatusBadRequest, nil))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
	}
	defer file.Close()
	image, err := io.ReadAll(file)
	if err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
	}

	created, err := h.extendService.Create(
		c.Context(), business, utility.String2ObjectID(input.Plan),
		image, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, created, nil)
}

// HandleListExtendOrders liệt kê đơn gia hạn: Admin thấy tất cả,
// chủ doanh nghiệp chỉ thấy đơn của mình
func (h *ExtendOrderHandler) HandleListExtendOrders(c fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil {
		return basehdl.HandleResponse(c, nil, common.ErrForbidden)
	}

	if claims.UserRole == authmodels.RoleAdmin {
		orders, err := h.extendService.Find(c.Context(), nil, nil)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		return basehdl.HandleResponse(c, orders, nil)
	}

	business, err := callerBusiness(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	orders, err := h.extendService.FindByBusiness(c.Context(), business)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, orders, nil)
}

// HandleApproveExtendOrder cho Admin duyệt đơn gia hạn
func (h *ExtendOrderHandler) HandleApproveExtendOrder(c fiber.Ctx) error {
	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	approved, err := h.extendService.Approve(c.Context(), id)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, approved, nil)
}
