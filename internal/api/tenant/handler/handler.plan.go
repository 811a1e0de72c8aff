// Package handler - HTTP handler cho loại hình, gói gia hạn, thanh toán.
package handler

import (
	"github.com/gofiber/fiber/v3"

	authmodels "qrapp/internal/api/auth/models"
	basehdl "qrapp/internal/api/base/handler"
	"qrapp/internal/api/middleware"
	"qrapp/internal/api/tenant/dto"
	"qrapp/internal/api/tenant/models"
	"qrapp/internal/api/tenant/service"
	"qrapp/internal/common"
	"qrapp/internal/global"
	"qrapp/internal/utility"
)

// PlanHandler xử lý các endpoint loại hình, gói gia hạn, thanh toán
type PlanHandler struct {
	typeService    *service.BusinessTypeService
	planService    *service.PlanService
	paymentService *service.PaymentService
}

// NewPlanHandler tạo PlanHandler
func NewPlanHandler(typeService *service.BusinessTypeService, planService *service.PlanService, paymentService *service.PaymentService) *PlanHandler {
	return &PlanHandler{
		typeService:    typeService,
		planService:    planService,
		paymentService: paymentService,
	}
}

// HandleListBusinessTypes liệt kê loại hình doanh nghiệp
func (h *PlanHandler) HandleListBusinessTypes(c fiber.Ctx) error {
	types, err := h.typeService.Find(c.Context(), nil, nil)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, types, nil)
}

// HandleCreateBusinessType tạo loại hình doanh nghiệp mới
func (h *PlanHandler) HandleCreateBusinessType(c fiber.Ctx) error {
	var input dto.CreateBusinessTypeInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrRequiredField)
	}

	created, err := h.typeService.InsertOne(c.Context(), models.BusinessType{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, created, nil)
}

// HandleListPlans liệt kê gói gia hạn
func (h *PlanHandler) HandleListPlans(c fiber.Ctx) error {
	plans, err := h.planService.Find(c.Context(), nil, nil)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, plans, nil)
}

// HandleCreatePlan thêm gói gia hạn
func (h *PlanHandler) HandleCreatePlan(c fiber.Ctx) error {
	var input dto.CreatePlanInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error()))
	}

	plan, err := h.planService.Create(c.Context(), models.Plan{
		Name:   input.Name,
		Period: input.Period,
		Price:  input.Price,
	})
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, plan, nil)
}

// HandleUpdatePlan chỉnh sửa gói gia hạn
func (h *PlanHandler) HandleUpdatePlan(c fiber.Ctx) error {
	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	var input dto.CreatePlanInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrRequiredField)
	}

	plan, err := h.planService.Update(c.Context(), id, models.Plan{
		Name:   input.Name,
		Period: input.Period,
		Price:  input.Price,
	})
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, plan, nil)
}

// HandleDeletePlan xóa gói gia hạn
func (h *PlanHandler) HandleDeletePlan(c fiber.Ctx) error {
	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	if err := h.planService.DeleteById(c.Context(), id); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, nil, nil)
}

// HandleGetMyBank xem thông tin thanh toán của doanh nghiệp người gọi.
// Admin xem tài khoản hệ thống.
func (h *PlanHandler) HandleGetMyBank(c fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil {
		return basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
	}

	var business *string
	if claims.UserRole != authmodels.RoleAdmin {
		business = claims.UserScope
	}

	var payment models.Payment
	var err error
	if business == nil {
		payment, err = h.paymentService.FindSystemAccount(c.Context())
	} else {
		id := utility.String2ObjectID(*business)
		payment, err = h.paymentService.FindByBusiness(c.Context(), &id)
	}
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, payment, nil)
}

// HandleUpsertBank thay thông tin tài khoản nhận thanh toán
func (h *PlanHandler) HandleUpsertBank(c fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil {
		return basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
	}

	var input dto.CreatePaymentInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrRequiredField)
	}

	payment := models.Payment{
		BankCode:      input.BankCode,
		AccountNumber: input.AccountNumber,
		AccountName:   input.AccountName,
	}
	if claims.UserRole != authmodels.RoleAdmin && claims.UserScope != nil {
		id := utility.String2ObjectID(*claims.UserScope)
		payment.Business = &id
	}

	created, err := h.paymentService.Upsert(c.Context(), payment)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, created, nil)
}
