// Package service - quản lý chi nhánh, khu vực, đơn vị phục vụ.
package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	basesvc "qrapp/internal/api/base/service"
	"qrapp/internal/api/tenant/models"
	"qrapp/internal/common"
)

// BranchService quản lý chi nhánh của doanh nghiệp
type BranchService struct {
	*basesvc.BaseServiceMongoImpl[models.Branch]
	coordinator *CascadeCoordinator
}

// NewBranchService tạo BranchService trên collection chi nhánh
func NewBranchService(collection *mongo.Collection, coordinator *CascadeCoordinator) *BranchService {
	return &BranchService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Branch](collection),
		coordinator:          coordinator,
	}
}

// FindByBusiness liệt kê chi nhánh của một doanh nghiệp
func (s *BranchService) FindByBusiness(ctx context.Context, business primitive.ObjectID) ([]models.Branch, error) {
	return s.Find(ctx, bson.M{"business": business}, nil)
}

// Create tạo chi nhánh mới, tên phải duy nhất trong doanh nghiệp
func (s *BranchService) Create(ctx context.Context, branch models.Branch) (models.Branch, error) {
	exists, err := s.DocumentExists(ctx, bson.M{"business": branch.Business, "name": branch.Name})
	if err != nil {
		return models.Branch{}, err
	}
	if exists {
		return models.Branch{}, common.NewError(
			common.ErrCodeDatabaseQuery,
			fmt.Sprintf("Chi nhánh %s đã tồn tại", branch.Name),
			common.StatusConflict,
			nil,
		)
	}
	return s.InsertOne(ctx, branch)
}

// FindScoped tìm chi nhánh trong phạm vi doanh nghiệp của người gọi.
// Chi nhánh thuộc doanh nghiệp khác trông giống hệt "không tồn tại".
func (s *BranchService) FindScoped(ctx context.Context, id primitive.ObjectID, business primitive.ObjectID) (models.Branch, error) {
	return s.FindOne(ctx, bson.M{"_id": id, "business": business}, nil)
}

// Delete xóa chi nhánh trong phạm vi doanh nghiệp, kéo theo khu vực,
// đơn vị phục vụ và nhân viên của chi nhánh
func (s *BranchService) Delete(ctx context.Context, id primitive.ObjectID, business primitive.ObjectID) error {
	if _, err := s.FindScoped(ctx, id, business); err != nil {
		return err
	}
	return s.coordinator.DeleteBranch(ctx, id)
}

// AreaService quản lý khu vực trong chi nhánh
type AreaService struct {
	*basesvc.BaseServiceMongoImpl[models.Area]
	branchService *BranchService
	coordinator   *CascadeCoordinator
}

// NewAreaService tạo AreaService trên collection khu vực
func NewAreaService(collection *mongo.Collection, branchService *BranchService, coordinator *CascadeCoordinator) *AreaService {
	return &AreaService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Area](collection),
		branchService:        branchService,
		coordinator:          coordinator,
	}
}

// Create tạo khu vực mới. Chi nhánh phải thuộc doanh nghiệp của người gọi,
// tên khu vực duy nhất trong chi nhánh (không phân biệt hoa thường).
func (s *AreaService) Create(ctx context.Context, area models.Area) (models.Area, error) {
	branch, err := s.branchService.FindScoped(ctx, area.Branch, area.Business)
	if err != nil {
		return models.Area{}, common.NewError(common.ErrCodeDatabaseQuery, "Không tìm thấy chi nhánh", common.StatusNotFound, nil)
	}

	exists, err := s.DocumentExists(ctx, bson.M{
		"branch": branch.ID,
		"name":   bson.M{"$regex": fmt.Sprintf("^%s$", area.Name), "$options": "i"},
	})
	if err != nil {
		return models.Area{}, err
	}
	if exists {
		return models.Area{}, common.NewError(common.ErrCodeDatabaseQuery, "Khu vực đã tồn tại", common.StatusConflict, nil)
	}

	return s.InsertOne(ctx, area)
}

// FindScoped tìm khu vực trong phạm vi doanh nghiệp
func (s *AreaService) FindScoped(ctx context.Context, id primitive.ObjectID, business primitive.ObjectID) (models.Area, error) {
	return s.FindOne(ctx, bson.M{"_id": id, "business": business}, nil)
}

// Delete xóa khu vực trong phạm vi doanh nghiệp, kéo theo đơn vị phục vụ
func (s *AreaService) Delete(ctx context.Context, id primitive.ObjectID, business primitive.ObjectID) error {
	if _, err := s.FindScoped(ctx, id, business); err != nil {
		return err
	}
	return s.coordinator.DeleteArea(ctx, id)
}

// UnitService quản lý đơn vị phục vụ (bàn, phòng, quầy)
type UnitService struct {
	*basesvc.BaseServiceMongoImpl[models.ServiceUnit]
	areaService *AreaService
	frontendURL string
}

// NewUnitService tạo UnitService trên collection đơn vị phục vụ
func NewUnitService(collection *mongo.Collection, areaService *AreaService, frontendURL string) *UnitService {
	return &UnitService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.ServiceUnit](collection),
		areaService:          areaService,
		frontendURL:          frontendURL,
	}
}

// Create tạo đơn vị phục vụ trong khu vực, sinh sẵn link QR cho khách quét
func (s *UnitService) Create(ctx context.Context, unit models.ServiceUnit) (models.ServiceUnit, error) {
	area, err := s.areaService.FindScoped(ctx, unit.Area, unit.Business)
	if err != nil {
		return models.ServiceUnit{}, common.NewError(common.ErrCodeDatabaseQuery, "Không tìm thấy khu vực", common.StatusNotFound, nil)
	}
	unit.Branch = area.Branch
	unit.Available = true

	created, err := s.InsertOne(ctx, unit)
	if err != nil {
		return models.ServiceUnit{}, err
	}

	// Link gọi dịch vụ gắn với id đơn vị, dùng làm nội dung mã QR in tại bàn
	created, err = s.UpdateById(ctx, created.ID, bson.M{
		"qrCode": fmt.Sprintf("%s/service-unit/%s", s.frontendURL, created.ID.Hex()),
	})
	if err != nil {
		return models.ServiceUnit{}, err
	}

	return created, nil
}

// FindScoped tìm đơn vị phục vụ trong phạm vi doanh nghiệp
func (s *UnitService) FindScoped(ctx context.Context, id primitive.ObjectID, business primitive.ObjectID) (models.ServiceUnit, error) {
	return s.FindOne(ctx, bson.M{"_id": id, "business": business}, nil)
}

// Delete xóa đơn vị phục vụ trong phạm vi doanh nghiệp
func (s *UnitService) Delete(ctx context.Context, id primitive.ObjectID, business primitive.ObjectID) error {
	if _, err := s.FindScoped(ctx, id, business); err != nil {
		return err
	}
	return s.DeleteById(ctx, id)
}
