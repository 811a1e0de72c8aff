// Package router - định tuyến toàn bộ API.
package router

import (
	"github.com/gofiber/fiber/v3"

	authhdl "qrapp/internal/api/auth/handler"
	authmodels "qrapp/internal/api/auth/models"
	authsvc "qrapp/internal/api/auth/service"
	cataloghdl "qrapp/internal/api/catalog/handler"
	"qrapp/internal/api/middleware"
	notifhdl "qrapp/internal/api/notification/handler"
	orderhdl "qrapp/internal/api/order/handler"
	requesthdl "qrapp/internal/api/request/handler"
	tenanthdl "qrapp/internal/api/tenant/handler"
)

// Handlers gom các handler của mọi domain để đăng ký route
type Handlers struct {
	Auth       *authhdl.AuthHandler
	User       *authhdl.UserHandler
	Group      *authhdl.GroupHandler
	Permission *authhdl.PermissionHandler
	Business   *tenanthdl.BusinessHandler
	Branch     *tenanthdl.BranchHandler
	Plan       *tenanthdl.PlanHandler
	Catalog    *cataloghdl.CatalogHandler
	Request    *requesthdl.RequestHandler
	Order      *orderhdl.OrderHandler
	Extend     *orderhdl.ExtendOrderHandler
	Stream     *notifhdl.StreamHandler
}

// SetupRoutes đăng ký toàn bộ route của ứng dụng.
// Quy ước quyền: mã dạng "hành_động.đối_tượng" (create.branch, view.order...).
// Middleware truyền sau handler theo chữ ký route của Fiber v3.
func SetupRoutes(app *fiber.App, tokenService *authsvc.TokenService, h Handlers) {
	v1 := app.Group("/api/v1")

	authn := func(permission string) fiber.Handler {
		return middleware.Authenticate(tokenService, permission)
	}
	adminOnly := middleware.RequireRole(authmodels.RoleAdmin)
	ownerOrAdmin := middleware.RequireRole(authmodels.RoleAdmin, authmodels.RoleBusinessOwner)

	// Route công khai cho khách và trang đăng ký, không qua xác thực
	public := v1.Group("/public")
	public.Post("/business/register", h.Business.HandleRegisterBusiness)
	public.Get("/business-types", h.Plan.HandleListBusinessTypes)
	public.Get("/plans", h.Plan.HandleListPlans)
	public.Post("/request", h.Request.HandleCreateRequest)

	// Phiên đăng nhập
	auth := v1.Group("/auth")
	auth.Post("/sign-in", h.Auth.HandleSignIn)
	auth.Post("/refresh", h.Auth.HandleRefresh)
	auth.Post("/forgot-password", h.Auth.HandleForgotPassword)
	auth.Post("/reset-password", h.Auth.HandleResetPassword)
	auth.Post("/sign-out", h.Auth.HandleSignOut, authn(""))
	auth.Put("/change-password", h.Auth.HandleChangePassword, authn(""))

	// Kênh realtime
	v1.Get("/stream", h.Stream.HandleStream, authn(""))

	// Người dùng
	user := v1.Group("/user")
	user.Post("/staff", h.User.HandleCreateStaff, authn("create.user"))
	user.Get("/list", h.User.HandleListUsers, authn("view.user"))
	user.Get("/:id", h.User.HandleGetUser, authn("view.user"))
	user.Put("/:id/availability", h.User.HandleSetAvailability, authn("update.user"))
	user.Put("/:id/permissions/grant", h.User.HandleGrantPermissions, authn("update.user"))
	user.Put("/:id/permissions/revoke", h.User.HandleRevokePermissions, authn("update.user"))

	// Nhóm quyền
	group := v1.Group("/group")
	group.Post("/", h.Group.HandleCreateGroup, authn("create.group"))
	group.Get("/list", h.Group.HandleListGroups, authn("view.group"))
	group.Put("/:id/permissions/grant", h.Group.HandleGrantGroupPermissions, authn("update.group"))
	group.Put("/:id/permissions/revoke", h.Group.HandleRevokeGroupPermissions, authn("update.group"))
	group.Put("/:id/members/add", h.Group.HandleAddMember, authn("update.group"))
	group.Put("/:id/members/remove", h.Group.HandleRemoveMember, authn("update.group"))

	// Danh mục quyền: ai đăng nhập cũng xem được (phục vụ màn hình gán quyền),
	// thêm/xóa chỉ dành cho Admin
	permission := v1.Group("/permission")
	permission.Get("/list", h.Permission.HandleListPermissions, authn(""))
	permission.Post("/", h.Permission.HandleCreatePermission, authn("create.permission"), adminOnly)
	permission.Delete("/:id", h.Permission.HandleDeletePermission, authn("delete.permission"), adminOnly)

	// Quản trị doanh nghiệp (Admin)
	business := v1.Group("/business")
	business.Get("/list", h.Business.HandleListBusinesses, authn("view.business"))
	business.Get("/:id", h.Business.HandleGetBusiness, authn("view.business"))
	business.Put("/extend", h.Business.HandleExtendBusiness, authn("update.business"))
	business.Put("/:id", h.Business.HandleUpdateBusiness, authn("update.business"))
	business.Put("/:id/toggle", h.Business.HandleToggleBusiness, authn("update.business"))
	business.Delete("/:id", h.Business.HandleDeleteBusiness, authn("delete.business"))

	v1.Post("/business-type", h.Plan.HandleCreateBusinessType, authn("create.businesstype"))

	plan := v1.Group("/plan")
	plan.Post("/", h.Plan.HandleCreatePlan, authn("create.plan"))
	plan.Put("/:id", h.Plan.HandleUpdatePlan, authn("update.plan"))
	plan.Delete("/:id", h.Plan.HandleDeletePlan, authn("delete.plan"))

	// Tài khoản nhận thanh toán: Admin thao tác trên tài khoản hệ thống,
	// chủ doanh nghiệp trên tài khoản của mình
	payment := v1.Group("/payment")
	payment.Get("/my-bank", h.Plan.HandleGetMyBank, authn(""), ownerOrAdmin)
	payment.Post("/my-bank", h.Plan.HandleUpsertBank, authn(""), ownerOrAdmin)

	// Chi nhánh, khu vực, điểm phục vụ
	branch := v1.Group("/branch")
	branch.Get("/list", h.Branch.HandleListBranches, authn("view.branch"))
	branch.Post("/", h.Branch.HandleCreateBranch, authn("create.branch"))
	branch.Put("/:id", h.Branch.HandleUpdateBranch, authn("update.branch"))
	branch.Delete("/:id", h.Branch.HandleDeleteBranch, authn("delete.branch"))

	area := v1.Group("/area")
	area.Get("/list", h.Branch.HandleListAreas, authn("view.area"))
	area.Post("/", h.Branch.HandleCreateArea, authn("create.area"))
	area.Delete("/:id", h.Branch.HandleDeleteArea, authn("delete.area"))

	unit := v1.Group("/service-unit")
	unit.Get("/list", h.Branch.HandleListUnits, authn("view.serviceunit"))
	unit.Post("/", h.Branch.HandleCreateUnit, authn("create.serviceunit"))
	unit.Delete("/:id", h.Branch.HandleDeleteUnit, authn("delete.serviceunit"))

	// Thực đơn
	v1.Get("/category/list", h.Catalog.HandleListCategories, authn("view.category"))
	v1.Delete("/category/:id", h.Catalog.HandleDeleteCategory, authn("delete.category"))
	v1.Delete("/subcategory/:id", h.Catalog.HandleDeleteSubCategory, authn("delete.subcategory"))
	v1.Get("/product/list", h.Catalog.HandleListProducts, authn("view.product"))

	// Yêu cầu của khách
	request := v1.Group("/request")
	request.Get("/list", h.Request.HandleListRequests, authn("view.request"))
	request.Put("/:id/process", h.Request.HandleProcessRequest, authn("update.request"))

	// Đơn hàng
	order := v1.Group("/order")
	order.Post("/", h.Order.HandleCreateOrder, authn("create.order"))
	order.Get("/list", h.Order.HandleListOrders, authn("view.order"))
	order.Get("/:id/checkout", h.Order.HandleCheckout, authn("view.order"))
	order.Put("/:id/paid", h.Order.HandleMarkPaid, authn("update.order"))

	// Gia hạn dịch vụ
	extend := v1.Group("/extend-order")
	extend.Get("/quote/:plan", h.Extend.HandleQuoteExtend, authn("view.extendorder"))
	extend.Post("/", h.Extend.HandleCreateExtendOrder, authn("create.extendorder"))
	extend.Get("/list", h.Extend.HandleListExtendOrders, authn("view.extendorder"))
	extend.Put("/:id/approve", h.Extend.HandleApproveExtendOrder, authn("update.extendorder"), adminOnly)
}
