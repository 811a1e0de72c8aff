// Package service - quản lý loại hình doanh nghiệp, gói gia hạn,
// thông tin thanh toán.
package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	basesvc "qrapp/internal/api/base/service"
	"qrapp/internal/api/tenant/models"
	"qrapp/internal/common"
)

// BusinessTypeService quản lý loại hình doanh nghiệp
type BusinessTypeService struct {
	*basesvc.BaseServiceMongoImpl[models.BusinessType]
}

// NewBusinessTypeService tạo service trên collection loại hình
func NewBusinessTypeService(collection *mongo.Collection) *BusinessTypeService {
	return &BusinessTypeService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.BusinessType](collection),
	}
}

// PlanService quản lý gói gia hạn dịch vụ
type PlanService struct {
	*basesvc.BaseServiceMongoImpl[models.Plan]
	paymentService *PaymentService
}

// NewPlanService tạo PlanService trên collection gói
func NewPlanService(collection *mongo.Collection, paymentService *PaymentService) *PlanService {
	return &PlanService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Plan](collection),
		paymentService:       paymentService,
	}
}

// Create thêm gói gia hạn. Yêu cầu đã có tài khoản thanh toán hệ thống
// (nơi nhận tiền gia hạn), và không trùng tên hoặc số ngày với gói khác.
func (s *PlanService) Create(ctx context.Context, plan models.Plan) (models.Plan, error) {
	if _, err := s.paymentService.FindSystemAccount(ctx); err != nil {
		return models.Plan{}, common.NewError(common.ErrCodeBusinessState, "Không tìm thấy thông tin thanh toán", common.StatusBadRequest, nil)
	}

	exists, err := s.DocumentExists(ctx, bson.M{"$or": []bson.M{{"name": plan.Name}, {"period": plan.Period}}})
	if err != nil {
		return models.Plan{}, err
	}
	if exists {
		return models.Plan{}, common.NewError(common.ErrCodeDatabaseQuery, "Gói đã tồn tại", common.StatusConflict, nil)
	}

	return s.InsertOne(ctx, plan)
}

// Update sửa gói gia hạn, không được trùng tên hoặc số ngày với gói khác
func (s *PlanService) Update(ctx context.Context, id primitive.ObjectID, plan models.Plan) (models.Plan, error) {
	exists, err := s.DocumentExists(ctx, bson.M{
		"$and": []bson.M{
			{"_id": bson.M{"$ne": id}},
			{"$or": []bson.M{{"name": plan.Name}, {"period": plan.Period}}},
		},
	})
	if err != nil {
		return models.Plan{}, err
	}
	if exists {
		return models.Plan{}, common.NewError(common.ErrCodeDatabaseQuery, "Gói đã tồn tại", common.StatusConflict, nil)
	}

	return s.UpdateById(ctx, id, bson.M{
		"name":   plan.Name,
		"period": plan.Period,
		"price":  plan.Price,
	})
}

// PaymentService quản lý thông tin tài khoản nhận thanh toán
type PaymentService struct {
	*basesvc.BaseServiceMongoImpl[models.Payment]
}

// NewPaymentService tạo PaymentService trên collection thanh toán
func NewPaymentService(collection *mongo.Collection) *PaymentService {
	return &PaymentService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Payment](collection),
	}
}

// FindSystemAccount trả về tài khoản thanh toán hệ thống (không gắn doanh nghiệp)
func (s *PaymentService) FindSystemAccount(ctx context.Context) (models.Payment, error) {
	return s.FindOne(ctx, bson.M{"business": nil}, nil)
}

// FindByBusiness trả về tài khoản thanh toán của doanh nghiệp
func (s *PaymentService) FindByBusiness(ctx context.Context, business *primitive.ObjectID) (models.Payment, error) {
	if business == nil {
		return s.FindSystemAccount(ctx)
	}
	return s.FindOne(ctx, bson.M{"business": *business}, nil)
}

// Upsert thay thông tin thanh toán của doanh nghiệp: mỗi doanh nghiệp
// (hoặc hệ thống) chỉ giữ một bản ghi, bản ghi cũ bị thay thế.
func (s *PaymentService) Upsert(ctx context.Context, payment models.Payment) (models.Payment, error) {
	filter := bson.M{"business": nil}
	if payment.Business != nil {
		filter = bson.M{"business": *payment.Business}
	}

	if existing, err := s.FindOne(ctx, filter, nil); err == nil {
		if err := s.DeleteById(ctx, existing.ID); err != nil {
			return models.Payment{}, err
		}
	}

	return s.InsertOne(ctx, payment)
}
