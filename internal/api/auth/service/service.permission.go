// Package service - quản lý danh mục quyền của hệ thống.
package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"qrapp/internal/api/auth/models"
	basesvc "qrapp/internal/api/base/service"
	"qrapp/internal/common"
	"qrapp/internal/global"
)

// PermissionService quản lý danh mục quyền
type PermissionService struct {
	*basesvc.BaseServiceMongoImpl[models.Permission]
}

// NewPermissionService tạo PermissionService trên collection quyền
func NewPermissionService(collection *mongo.Collection) *PermissionService {
	return &PermissionService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Permission](collection),
	}
}

// Create tạo quyền mới, code phải theo định dạng {action}.{entity}
func (s *PermissionService) Create(ctx context.Context, permission models.Permission) (models.Permission, error) {
	if err := global.Validate.Var(permission.Code, "required,permission_code"); err != nil {
		return models.Permission{}, common.NewError(
			common.ErrCodeValidationInput,
			"Code quyền phải theo định dạng {action}.{entity}",
			common.StatusBadRequest,
			nil,
		)
	}
	return s.InsertOne(ctx, permission)
}

// FindByCode tìm quyền theo code
func (s *PermissionService) FindByCode(ctx context.Context, code string) (models.Permission, error) {
	return s.FindOne(ctx, bson.M{"code": code}, nil)
}

// EnsureExists tạo quyền nếu code chưa tồn tại, dùng khi khởi tạo dữ liệu
func (s *PermissionService) EnsureExists(ctx context.Context, code string, name string) (models.Permission, error) {
	existing, err := s.FindByCode(ctx, code)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return models.Permission{}, err
	}
	return s.Create(ctx, models.Permission{Code: code, Name: name})
}
