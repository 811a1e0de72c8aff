package main

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	authmodels "qrapp/internal/api/auth/models"
	requestsvc "qrapp/internal/api/request/service"
	"qrapp/internal/common"
	"qrapp/internal/global"
	"qrapp/internal/logger"
)

// Tên hiển thị của các hành động trong danh mục quyền
var permissionActionNames = map[string]string{
	"view":   "Xem",
	"create": "Tạo",
	"update": "Cập nhật",
	"delete": "Xóa",
}

// Các đối tượng có quyền trong hệ thống
var permissionEntities = []string{
	"user", "group", "permission",
	"business", "businesstype", "plan", "branch", "area", "serviceunit", "payment",
	"category", "subcategory", "product",
	"request", "order", "extendorder",
}

// InitDefaultData khởi tạo dữ liệu mặc định: danh mục quyền và tài khoản Admin
func InitDefaultData(deps *serverDeps) {
	log := logger.GetAppLogger()
	ctx := context.Background()

	if err := initPermissionCatalog(ctx, deps); err != nil {
		log.Fatalf("Failed to initialize permission catalog: %v", err)
	}
	log.Info("✅ [INIT] Danh mục quyền đã sẵn sàng")

	if err := initAdminAccount(ctx, deps); err != nil {
		log.Fatalf("Failed to initialize admin account: %v", err)
	}
	log.Info("✅ [INIT] Tài khoản Admin đã sẵn sàng")
}

// initPermissionCatalog tạo các quyền còn thiếu theo danh mục
// {hành_động}.{đối_tượng}, cộng thêm quyền nhận thông báo yêu cầu realtime
func initPermissionCatalog(ctx context.Context, deps *serverDeps) error {
	for _, entity := range permissionEntities {
		for action, actionName := range permissionActionNames {
			code := fmt.Sprintf("%s.%s", action, entity)
			if _, err := deps.permissionService.EnsureExists(ctx, code, fmt.Sprintf("%s %s", actionName, entity)); err != nil {
				return err
			}
		}
	}

	_, err := deps.permissionService.EnsureExists(ctx, requestsvc.PermReceiveRequest, "Nhận thông báo yêu cầu")
	return err
}

// initAdminAccount tạo tài khoản quản trị hệ thống từ cấu hình nếu chưa có
func initAdminAccount(ctx context.Context, deps *serverDeps) error {
	cfg := global.MongoDB_ServerConfig
	log := logger.GetAppLogger()

	_, err := deps.userService.FindOne(ctx, bson.M{"username": cfg.AdminUsername}, nil)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	admin := authmodels.User{
		Name:     "Administrator",
		Username: cfg.AdminUsername,
		Role:     authmodels.RoleAdmin,
	}
	if _, err := deps.userService.Create(ctx, admin, cfg.AdminPassword); err != nil {
		return err
	}

	log.WithField("username", cfg.AdminUsername).Warn("🔒 [INIT] Đã tạo tài khoản Admin mặc định, hãy đổi mật khẩu ngay")
	return nil
}
