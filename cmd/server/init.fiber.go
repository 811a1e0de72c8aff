package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"go.mongodb.org/mongo-driver/mongo"

	authhdl "qrapp/internal/api/auth/handler"
	authsvc "qrapp/internal/api/auth/service"
	cataloghdl "qrapp/internal/api/catalog/handler"
	catalogsvc "qrapp/internal/api/catalog/service"
	notifhdl "qrapp/internal/api/notification/handler"
	orderhdl "qrapp/internal/api/order/handler"
	ordersvc "qrapp/internal/api/order/service"
	requesthdl "qrapp/internal/api/request/handler"
	requestsvc "qrapp/internal/api/request/service"
	"qrapp/internal/api/router"
	tenanthdl "qrapp/internal/api/tenant/handler"
	tenantsvc "qrapp/internal/api/tenant/service"
	"qrapp/internal/common"
	"qrapp/internal/global"
	"qrapp/internal/logger"
	"qrapp/internal/mailer"
	"qrapp/internal/notification"
	"qrapp/internal/payment"
	"qrapp/internal/storage"
)

// serverDeps gom các service đã nối dây của toàn ứng dụng.
// Dùng chung cho khởi tạo dữ liệu mặc định và đăng ký route.
type serverDeps struct {
	tokenService      *authsvc.TokenService
	userService       *authsvc.UserService
	groupService      *authsvc.GroupService
	permissionService *authsvc.PermissionService
	authService       *authsvc.AuthService

	businessService *tenantsvc.BusinessService
	typeService     *tenantsvc.BusinessTypeService
	planService     *tenantsvc.PlanService
	paymentService  *tenantsvc.PaymentService
	branchService   *tenantsvc.BranchService
	areaService     *tenantsvc.AreaService
	unitService     *tenantsvc.UnitService
	coordinator     *tenantsvc.CascadeCoordinator

	categoryService    *catalogsvc.CategoryService
	subCategoryService *catalogsvc.SubCategoryService
	productService     *catalogsvc.ProductService

	hub            *notification.Hub
	requestService *requestsvc.RequestService
	orderService   *ordersvc.OrderService
	extendService  *ordersvc.ExtendOrderService
}

// mustCollection lấy collection đã đăng ký từ registry, lỗi thì dừng server
func mustCollection(name string) *mongo.Collection {
	collection, exist := global.RegistryCollections.Get(name)
	if !exist {
		logger.GetAppLogger().Fatalf("Collection %s not found in registry", name)
	}
	return collection
}

// InitServices nối dây toàn bộ service của ứng dụng theo thứ tự phụ thuộc:
// auth -> tenant -> catalog -> request -> order.
func InitServices() *serverDeps {
	cfg := global.MongoDB_ServerConfig
	names := global.MongoDB_ColNames
	log := logger.GetAppLogger()

	// Auth
	tokenService := authsvc.NewTokenService(cfg.AccessKey, cfg.RefreshKey, cfg.AccessTokenLifetime, cfg.RefreshTokenLifetime)
	sessions := authsvc.NewMemorySessionStore()
	mail := mailer.NewSMTPMailer(cfg)
	permissionService := authsvc.NewPermissionService(mustCollection(names.Permissions))
	userService := authsvc.NewUserService(mustCollection(names.Users), permissionService, sessions, mail)
	groupService := authsvc.NewGroupService(mustCollection(names.Groups), userService, permissionService)
	resolver := authsvc.NewPermissionResolver(permissionService, groupService)

	// Tenant
	db := global.MongoDB_Session.Database(cfg.MongoDB_DBName)
	coordinator := tenantsvc.NewCascadeCoordinator(tenantsvc.NewMongoCascadeStore(global.MongoDB_Session, db))
	typeService := tenantsvc.NewBusinessTypeService(mustCollection(names.BusinessTypes))
	branchService := tenantsvc.NewBranchService(mustCollection(names.Branches), coordinator)
	areaService := tenantsvc.NewAreaService(mustCollection(names.Areas), branchService, coordinator)
	unitService := tenantsvc.NewUnitService(mustCollection(names.ServiceUnits), areaService, cfg.FrontendURL)
	paymentService := tenantsvc.NewPaymentService(mustCollection(names.Payments))
	planService := tenantsvc.NewPlanService(mustCollection(names.Plans), paymentService)
	businessService := tenantsvc.NewBusinessService(
		mustCollection(names.Businesses), global.MongoDB_Session,
		typeService, branchService, userService, sessions, coordinator)

	authService := authsvc.NewAuthService(
		userService, tokenService, sessions, resolver,
		businessService, mail, cfg.FrontendURL)

	// Catalog
	categoryService := catalogsvc.NewCategoryService(mustCollection(names.Categories))
	subCategoryService := catalogsvc.NewSubCategoryService(mustCollection(names.SubCategories))
	productService := catalogsvc.NewProductService(mustCollection(names.Products))
	orderValidator := catalogsvc.NewOrderValidator(productService)

	// Request / Order
	hub := notification.NewHub()
	requestStore := requestsvc.NewMongoRequestStore(mustCollection(names.Requests))
	requestService := requestsvc.NewRequestService(
		mustCollection(names.Requests), requestStore, unitService, orderValidator, hub)

	qr := payment.NewVietQRGenerator(cfg.PaymentQREndpoint)
	orderService := ordersvc.NewOrderService(
		mustCollection(names.Orders), requestStore, orderValidator, paymentService, qr)

	uploader, err := storage.NewLocalUploader(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}
	extendService := ordersvc.NewExtendOrderService(
		mustCollection(names.ExtendOrders), global.MongoDB_Session,
		planService, paymentService, businessService, uploader, qr)

	log.Info("Initialized application services")

	return &serverDeps{
		tokenService:      tokenService,
		userService:       userService,
		groupService:      groupService,
		permissionService: permissionService,
		authService:       authService,

		businessService: businessService,
		typeService:     typeService,
		planService:     planService,
		paymentService:  paymentService,
		branchService:   branchService,
		areaService:     areaService,
		unitService:     unitService,
		coordinator:     coordinator,

		categoryService:    categoryService,
		subCategoryService: subCategoryService,
		productService:     productService,

		hub:            hub,
		requestService: requestService,
		orderService:   orderService,
		extendService:  extendService,
	}
}

// InitFiberApp khởi tạo ứng dụng Fiber với các middleware cần thiết
func InitFiberApp(deps *serverDeps) *fiber.App {
	cfg := global.MongoDB_ServerConfig

	app := fiber.New(fiber.Config{
		AppName:       "QRApp API",
		ServerHeader:  "QRApp API",
		StrictRouting: true, // /foo và /foo/ là khác nhau
		CaseSensitive: true, // /Foo và /foo là khác nhau
		UnescapePath:  true, // Tự động decode URL-encoded paths

		BodyLimit:       10 * 1024 * 1024, // Ảnh chứng từ chuyển khoản có thể tới 10MB
		Concurrency:     256 * 1024,
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,

		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"
			errorCode := common.ErrCodeInternalServer.Code

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
				switch code {
				case fiber.StatusBadRequest:
					errorCode = common.ErrCodeValidationInput.Code
				case fiber.StatusUnauthorized:
					errorCode = common.ErrCodeAuthToken.Code
				case fiber.StatusForbidden:
					errorCode = common.ErrCodeAuthRole.Code
				case fiber.StatusNotFound:
					errorCode = common.ErrCodeDatabaseQuery.Code
				case fiber.StatusConflict:
					errorCode = common.ErrCodeDatabaseQuery.Code
				}
			}

			logger.WithRequest(c).WithFields(map[string]interface{}{
				"code":      code,
				"errorCode": errorCode,
				"message":   message,
			}).Error("Request error")

			return c.Status(code).JSON(fiber.Map{
				"code":    errorCode,
				"message": message,
				"status":  "error",
			})
		},
	})

	// 1. Request ID Middleware - Tạo ID duy nhất cho mỗi request để trace
	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return fmt.Sprintf("%d", time.Now().UnixNano())
		},
	}))

	// 2. CORS Middleware - đặt trước các middleware khác để xử lý preflight
	corsOrigins := cfg.CORS_Origins
	var allowOrigins []string
	if corsOrigins == "*" {
		allowOrigins = []string{"*"}
	} else {
		allowOrigins = strings.Split(corsOrigins, ",")
		for i, origin := range allowOrigins {
			allowOrigins[i] = strings.TrimSpace(origin)
		}
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Request-ID",
			"X-Requested-With",
		},
		AllowCredentials: cfg.CORS_AllowCredentials,
		ExposeHeaders:    []string{"Content-Length", "Content-Range", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// 3. Security Headers Middleware
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	})

	// 4. Rate Limiting Middleware - Giới hạn số request theo IP
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		rateLimitWindow := time.Duration(cfg.RateLimit_Window) * time.Second
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: rateLimitWindow,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"code":    common.ErrCodeBusinessOperation.Code,
					"message": "Quá nhiều yêu cầu, vui lòng thử lại sau",
					"status":  "error",
				})
			},
			Next: func(c fiber.Ctx) bool {
				// Bỏ qua rate limit cho health check, preflight và kênh SSE
				return c.Path() == "/health" ||
					c.Path() == "/api/v1/stream" ||
					c.Method() == "OPTIONS"
			},
		}))
		logger.GetAppLogger().Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		logger.GetAppLogger().Info("Rate limiting disabled")
	}

	// 5. Recover Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithFields(map[string]interface{}{
				"panic":   e,
				"headers": c.GetReqHeaders(),
			}).Error("Panic recovered")

			c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"code":    common.ErrCodeInternalServer.Code,
				"message": "Internal Server Error",
				"status":  "error",
			})
		},
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Ảnh chứng từ chuyển khoản lưu trên đĩa, phục vụ qua /uploads
	app.Get("/uploads/*", func(c fiber.Ctx) error {
		rel := filepath.Clean(c.Params("*"))
		if rel == "." || rel == ".." || strings.HasPrefix(rel, "..") {
			return fiber.ErrNotFound
		}
		return c.SendFile(filepath.Join(cfg.UploadDir, rel))
	})

	router.SetupRoutes(app, deps.tokenService, router.Handlers{
		Auth:       authhdl.NewAuthHandler(deps.authService),
		User:       authhdl.NewUserHandler(deps.userService),
		Group:      authhdl.NewGroupHandler(deps.groupService),
		Permission: authhdl.NewPermissionHandler(deps.permissionService),
		Business:   tenanthdl.NewBusinessHandler(deps.businessService),
		Branch:     tenanthdl.NewBranchHandler(deps.branchService, deps.areaService, deps.unitService),
		Plan:       tenanthdl.NewPlanHandler(deps.typeService, deps.planService, deps.paymentService),
		Catalog:    cataloghdl.NewCatalogHandler(deps.categoryService, deps.subCategoryService, deps.productService, deps.coordinator),
		Request:    requesthdl.NewRequestHandler(deps.requestService),
		Order:      orderhdl.NewOrderHandler(deps.orderService),
		Extend:     orderhdl.NewExtendOrderHandler(deps.extendService),
		Stream:     notifhdl.NewStreamHandler(deps.hub),
	})

	return app
}
