// Package handler - HTTP handler cho yêu cầu của khách.
package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"

	basehdl "qrapp/internal/api/base/handler"
	"qrapp/internal/api/middleware"
	"qrapp/internal/api/request/dto"
	"qrapp/internal/api/request/models"
	"qrapp/internal/api/request/service"
	"qrapp/internal/common"
	"qrapp/internal/global"
	"qrapp/internal/utility"
)

// RequestHandler xử lý các endpoint yêu cầu
type RequestHandler struct {
	requestService *service.RequestService
}

// NewRequestHandler tạo RequestHandler
func NewRequestHandler(requestService *service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// HandleCreateRequest cho khách tạo yêu cầu từ mã QR của điểm phục vụ.
// Endpoint công khai, không yêu cầu đăng nhập.
func (h *RequestHandler) HandleCreateRequest(c fiber.Ctx) error {
	var input dto.CreateRequestInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
	}
	if err := global.Validate.Struct(input); err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(
			common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error()))
	}

	created, err := h.requestService.Create(c.Context(), service.CreateRequestInput{
		Type:   models.RequestType(input.Type),
		Reason: input.Reason,
		Data:   input.Data,
		Unit:   utility.String2ObjectID(input.Unit),
		Area:   utility.String2ObjectID(input.Area),
	})
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, created, nil)
}

// HandleListRequests liệt kê yêu cầu trong phạm vi của người gọi,
// lọc được theo trạng thái và loại, có phân trang
func (h *RequestHandler) HandleListRequests(c fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil || claims.UserScope == nil {
		return basehdl.HandleResponse(c, nil, common.ErrForbidden)
	}

	filter := bson.M{"business": utility.String2ObjectID(*claims.UserScope)}
	if claims.UserBranch != nil {
		filter["branch"] = utility.String2ObjectID(*claims.UserBranch)
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = models.RequestStatus(status)
	}
	if reqType := c.Query("type"); reqType != "" {
		filter["type"] = models.RequestType(reqType)
	}

	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "0"), 10, 64)
	if limit < 1 {
		limit = global.MongoDB_ServerConfig.PageSize
	}

	result, err := h.requestService.FindWithPagination(c.Context(), filter, page, limit, nil)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, result, nil)
}

// HandleProcessRequest cho nhân viên đẩy yêu cầu sang trạng thái kế tiếp
func (h *RequestHandler) HandleProcessRequest(c fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil {
		return basehdl.HandleResponse(c, nil, common.ErrForbidden)
	}

	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	request, processed, err := h.requestService.Process(c.Context(), id, claims)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, fiber.Map{
		"request":   request,
		"processed": processed,
	}, nil)
}
