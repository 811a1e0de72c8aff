// Package handler - HTTP handler cho chi nhánh, khu vực, đơn vị phục vụ.
package handler

import (
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "qrapp/internal/api/base/handler"
	"qrapp/internal/api/middleware"
	"qrapp/internal/api/tenant/dto"
	"qrapp/internal/api/tenant/models"
	"qrapp/internal/api/tenant/service"
	"qrapp/internal/common"
	"qrapp/internal/global"
	"qrapp/internal/utility"
)

// BranchHandler xử lý các endpoint chi nhánh, khu vực, đơn vị phục vụ
type BranchHandler struct {
	branchService *service.BranchService
	areaService   *service.AreaService
	unitService   *service.UnitService
}

// NewBranchHandler tạo BranchHandler
func NewBranchHandler(branchService *service.BranchService, areaService *service.AreaService, unitService *service.UnitService) *BranchHandler {
	return &BranchHandler{
		branchService: branchService,
		areaService:   areaService,
		unitService:   unitService,
	}
}

// callerScope lấy id doanh nghiệp từ claims của người gọi
func callerScope(c fiber.Ctx) (primitive.ObjectID, error) {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil || claims.UserScope == nil {
		return primitive.NilObjectID, common.ErrForbidden
	}
	return utility.String2ObjectID(*claims.UserScope), nil
}

// HandleListBranches liệt kê chi nhánh trong doanh nghiệp của người gọi
func (h *BranchHandler) HandleListBranches(c fiber.Ctx) error {
	business, err := callerScope(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	branches, err := h.branchService.FindByBusiness(c.Context(), business)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, branches, nil)
}

// HandleCreateBranch thêm chi nhánh cho doanh nghiệp của người gọi
func (h *BranchHandler) HandleCreateBranch(c fiber.Ctx) error {
	business, err := callerScope(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	var input dto.CreateBranchInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error()))
	}

	branch, err := h.branchService.Create(c.Context(), models.Branch{
		Name:     input.Name,
		Address:  input.Address,
		Contact:  input.Contact,
		Business: business,
	})
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, branch, nil)
}

// HandleUpdateBranch sửa thông tin chi nhánh trong phạm vi doanh nghiệp
func (h *BranchHandler) HandleUpdateBranch(c fiber.Ctx) error {
	business, err := callerScope(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	var input dto.UpdateBranchInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}

	if _, err := h.branchService.FindScoped(c.Context(), id, business); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	branch, err := h.branchService.UpdateById(c.Context(), id, &input)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, branch, nil)
}

// HandleDeleteBranch xóa chi nhánh cùng dữ liệu phụ thuộc
func (h *BranchHandler) HandleDeleteBranch(c fiber.Ctx) error {
	business, err := callerScope(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	if err := h.branchService.Delete(c.Context(), id, business); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, nil, nil)
}

// HandleListAreas liệt kê khu vực, lọc được theo chi nhánh
func (h *BranchHandler) HandleListAreas(c fiber.Ctx) error {
	business, err := callerScope(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	filter := bson.M{"business": business}
	if branch := c.Query("branch"); branch != "" {
		filter["branch"] = utility.String2ObjectID(branch)
	}

	areas, err := h.areaService.Find(c.Context(), filter, nil)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, areas, nil)
}

// HandleCreateArea tạo khu vực trong chi nhánh
func (h *BranchHandler) HandleCreateArea(c fiber.Ctx) error {
	business, err := callerScope(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	var input dto.CreateAreaInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error()))
	}

	area, err := h.areaService.Create(c.Context(), models.Area{
		Name:     input.Name,
		Branch:   utility.String2ObjectID(input.Branch),
		Business: business,
	})
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, area, nil)
}

// HandleDeleteArea xóa khu vực cùng đơn vị phục vụ trong đó
func (h *BranchHandler) HandleDeleteArea(c fiber.Ctx) error {
	business, err := callerScope(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	if err := h.areaService.Delete(c.Context(), id, business); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, nil, nil)
}

// HandleCreateUnit tạo đơn vị phục vụ trong khu vực
func (h *BranchHandler) HandleCreateUnit(c fiber.Ctx) error {
	business, err := callerScope(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	var input dto.CreateUnitInput
	if err := c.Bind().Body(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
	}
	if err := global.Validate.Struct(&input); err != nil {
		return basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error()))
	}

	unit, err := h.unitService.Create(c.Context(), models.ServiceUnit{
		Name:     input.Name,
		Area:     utility.String2ObjectID(input.Area),
		Business: business,
	})
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, unit, nil)
}

// HandleListUnits liệt kê đơn vị phục vụ, lọc được theo khu vực
func (h *BranchHandler) HandleListUnits(c fiber.Ctx) error {
	business, err := callerScope(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	filter := bson.M{"business": business}
	if area := c.Query("area"); area != "" {
		filter["area"] = utility.String2ObjectID(area)
	}

	units, err := h.unitService.Find(c.Context(), filter, nil)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, units, nil)
}

// HandleDeleteUnit xóa đơn vị phục vụ
func (h *BranchHandler) HandleDeleteUnit(c fiber.Ctx) error {
	business, err := callerScope(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	if err := h.unitService.Delete(c.Context(), id, business); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, nil, nil)
}
