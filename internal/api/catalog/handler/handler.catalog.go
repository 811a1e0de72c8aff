// Package handler - HTTP handler tra cứu thực đơn.
package handler

import (
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"

	basehdl "qrapp/internal/api/base/handler"
	"qrapp/internal/api/catalog/service"
	"qrapp/internal/api/middleware"
	tenantsvc "qrapp/internal/api/tenant/service"
	"qrapp/internal/common"
	"qrapp/internal/utility"
)

// CatalogHandler xử lý các endpoint tra cứu thực đơn
type CatalogHandler struct {
	categoryService    *service.CategoryService
	subCategoryService *service.SubCategoryService
	productService     *service.ProductService
	coordinator        *tenantsvc.CascadeCoordinator
}

// NewCatalogHandler tạo CatalogHandler
func NewCatalogHandler(
	categoryService *service.CategoryService,
	subCategoryService *service.SubCategoryService,
	productService *service.ProductService,
	coordinator *tenantsvc.CascadeCoordinator,
) *CatalogHandler {
	return &CatalogHandler{
		categoryService:    categoryService,
		subCategoryService: subCategoryService,
		productService:     productService,
		coordinator:        coordinator,
	}
}

// scopeFilter dựng filter theo doanh nghiệp của người gọi
func scopeFilter(c fiber.Ctx) (bson.M, error) {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil || claims.UserScope == nil {
		return nil, common.ErrForbidden
	}
	return bson.M{"business": utility.String2ObjectID(*claims.UserScope)}, nil
}

// HandleListCategories liệt kê danh mục của doanh nghiệp
func (h *CatalogHandler) HandleListCategories(c fiber.Ctx) error {
	filter, err := scopeFilter(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	categories, err := h.categoryService.Find(c.Context(), filter, nil)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, categories, nil)
}

// HandleListProducts liệt kê sản phẩm, lọc được theo phân loại chi tiết
func (h *CatalogHandler) HandleListProducts(c fiber.Ctx) error {
	filter, err := scopeFilter(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	if sub := c.Query("subcategory"); sub != "" {
		filter["subcategory"] = utility.String2ObjectID(sub)
	}

	products, err := h.productService.Find(c.Context(), filter, nil)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, products, nil)
}

// HandleDeleteCategory xóa danh mục cùng phân loại và sản phẩm thuộc nó
func (h *CatalogHandler) HandleDeleteCategory(c fiber.Ctx) error {
	filter, err := scopeFilter(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	filter["_id"] = id
	if _, err := h.categoryService.FindOne(c.Context(), filter, nil); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	if err := h.coordinator.DeleteCategory(c.Context(), id); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, nil, nil)
}

// HandleDeleteSubCategory xóa phân loại chi tiết cùng sản phẩm thuộc nó
func (h *CatalogHandler) HandleDeleteSubCategory(c fiber.Ctx) error {
	filter, err := scopeFilter(c)
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	id, err := basehdl.ParseObjectID(c, "id")
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	filter["_id"] = id
	if _, err := h.subCategoryService.FindOne(c.Context(), filter, nil); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}

	if err := h.coordinator.DeleteSubCategory(c.Context(), id); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	return basehdl.HandleResponse(c, nil, nil)
}
