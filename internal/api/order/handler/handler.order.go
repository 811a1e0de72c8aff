// Package handler - HTTP handler cho đơn hàng.
package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "qrapp/internal/api/base/handler"
	"qrapp/internal/api/middleware"
	"qrapp/internal/api/order/dto"
	"qrapp/internal/api/order/models"
	"qrapp/internal/api/order/service"
	"qrapp/internal/common"
	"qrapp/internal/global"
	"qrapp/internal/utility"
)

// OrderHandler xử lý các endpoint đơn hàng
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler tạo OrderHandler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// callerBusiness đọc doanh nghiệp của người gọi từ claims
func callerBusiness(c fiber.Ctx) (primitive.ObjectID, error) {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil || claims.UserScope == nil {
		return primitive.NilObjectID, common.ErrForbidden
	}
	return utility.String2ObjectID(*claims.UserScope), nil
}

// HandleCreateOrder chốt đơn hàng từ yêu cầu đặt món đã tiếp nhận
func (h *OrderHandler) HandleCreateOrder(c fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil {
		return basehdl.HandleResponse(c, nil, common.ErrForbidden)
	}

	var input dto.CreateOrderInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(
			common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error()))
	}

	created, err := h.orderService.CreateFromRequest(
		c.Context(), utility.String2ObjectID(input.Request), input.PaymentMethod, claims)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, created, nil)
}

// HandleListOrders liệt kê đơn hàng trong phạm vi người gọi, lọc theo trạng thái
func (h *OrderHandler) HandleListOrders(c fiber.Ctx) error {
	business, err := callerBusiness(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	filter := bson.M{"business": business}
	claims := middleware.ClaimsFromCtx(c)
	if claims.UserBranch != nil {
		filter["branch"] = utility.String2ObjectID(*claims.UserBranch)
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = models.OrderStatus(status)
	}

	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "0"), 10, 64)
	if limit < 1 {
		limit = global.MongoDB_ServerConfig.PageSize
	}

	result, err := h.orderService.FindWithPagination(c.Context(), filter, page, limit, nil)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, result, nil)
}

// HandleCheckout trả thông tin chuyển khoản kèm mã QR cho một đơn
func (h *OrderHandler) HandleCheckout(c fiber.Ctx) error {
	business, err := callerBusiness(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	summary, err := h.orderService.Checkout(c.Context(), id, business)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, summary, nil)
}

// HandleMarkPaid đánh dấu đơn đã thanh toán
func (h *OrderHandler) HandleMarkPaid(c fiber.Ctx) error {
	business, err := callerBusiness(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	updated, err := h.orderService.MarkPaid(c.Context(), id, business)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, updated, nil)
}
