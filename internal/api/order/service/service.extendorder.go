// Package service - đơn gia hạn dịch vụ của doanh nghiệp.
package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	basesvc "qrapp/internal/api/base/service"
	"qrapp/internal/api/order/models"
	tenantmodels "qrapp/internal/api/tenant/models"
	"qrapp/internal/common"
	"qrapp/internal/database"
	"qrapp/internal/logger"
	"qrapp/internal/payment"
	"qrapp/internal/storage"
)

// planFinder đọc gói dịch vụ theo id
type planFinder interface {
	FindOneById(ctx context.Context, id primitive.ObjectID) (tenantmodels.Plan, error)
}

// businessExtender cộng thêm thời hạn sử dụng cho doanh nghiệp
type businessExtender interface {
	Extend(ctx context.Context, id primitive.ObjectID, days int) (tenantmodels.Business, error)
}

// systemAccountFinder tra cứu tài khoản nhận thanh toán của hệ thống
type systemAccountFinder interface {
	FindSystemAccount(ctx context.Context) (tenantmodels.Payment, error)
}

// ExtendQuote là thông tin chuyển khoản để thanh toán một gói gia hạn
type ExtendQuote struct {
	Plan      tenantmodels.Plan    `json:"plan"`
	Account   tenantmodels.Payment `json:"account"`
	QRCodeURL string               `json:"qrCodeUrl"`
}

// ExtendOrderService quản lý đơn gia hạn: chủ doanh nghiệp tạo, Admin duyệt
type ExtendOrderService struct {
	*basesvc.BaseServiceMongoImpl[models.ExtendOrder]
	client     *mongo.Client
	plans      planFinder
	payments   systemAccountFinder
	businesses businessExtender
	uploader   storage.Uploader
	qr         payment.QRGenerator
}

// NewExtendOrderService tạo ExtendOrderService
func NewExtendOrderService(
	collection *mongo.Collection,
	client *mongo.Client,
	plans planFinder,
	payments systemAccountFinder,
	businesses businessExtender,
	uploader storage.Uploader,
	qr payment.QRGenerator,
) *ExtendOrderService {
	return &ExtendOrderService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.ExtendOrder](collection),
		client:               client,
		plans:                plans,
		payments:             payments,
		businesses:           businesses,
		uploader:             uploader,
		qr:                   qr,
	}
}

// Quote trả về thông tin chuyển khoản cho một gói: tài khoản hệ thống kèm mã QR
func (s *ExtendOrderService) Quote(ctx context.Context, planID primitive.ObjectID) (ExtendQuote, error) {
	plan, err := s.plans.FindOneById(ctx, planID)
	if err != nil {
		return ExtendQuote{}, err
	}

	account, err := s.payments.FindSystemAccount(ctx)
	if err != nil {
		return ExtendQuote{}, common.NewError(common.ErrCodeBusinessState,
			"Không tìm thấy thông tin thanh toán", common.StatusBadRequest, nil)
	}

	description := fmt.Sprintf("Gia han goi %s", plan.Name)
	return ExtendQuote{
		Plan:      plan,
		Account:   account,
		QRCodeURL: s.qr.Generate(account.BankCode, account.AccountNumber, account.AccountName, plan.Price, description),
	}, nil
}

// Create tạo đơn gia hạn từ ảnh chứng từ chuyển khoản của chủ doanh nghiệp
func (s *ExtendOrderService) Create(ctx context.Context, business primitive.ObjectID, planID primitive.ObjectID, image []byte, contentType string) (models.ExtendOrder, error) {
	if _, err := s.plans.FindOneById(ctx, planID); err != nil {
		return models.ExtendOrder{}, err
	}

	objectName := fmt.Sprintf("extend/%s-%d", business.Hex(), time.Now().UnixMilli())
	imageURL, err := s.uploader.Upload(objectName, image, contentType)
	if err != nil {
		return models.ExtendOrder{}, common.NewError(common.ErrCodeInternalServer,
			"Không lưu được ảnh chứng từ", common.StatusInternalServerError, err.Error())
	}

	created, err := s.InsertOne(ctx, models.ExtendOrder{
		Business: business,
		Plan:     planID,
		ImageURL: imageURL,
		Status:   models.StatusUnpaid,
	})
	if err != nil {
		return models.ExtendOrder{}, err
	}

	logger.GetAuditLogger().WithFields(map[string]interface{}{
		"extend_order_id": created.ID.Hex(),
		"business_id":     business.Hex(),
		"plan_id":         planID.Hex(),
	}).Info("🧾 [EXTEND] Doanh nghiệp gửi đơn gia hạn")

	return created, nil
}

// FindByBusiness liệt kê đơn gia hạn của một doanh nghiệp
func (s *ExtendOrderService) FindByBusiness(ctx context.Context, business primitive.ObjectID) ([]models.ExtendOrder, error) {
	return s.Find(ctx, bson.M{"business": business}, nil)
}

// Approve cho Admin duyệt đơn gia hạn: đánh dấu đã thanh toán và cộng thời hạn
// theo số ngày của gói. Đơn đã duyệt rồi không duyệt lại được.
func (s *ExtendOrderService) Approve(ctx context.Context, id primitive.ObjectID) (models.ExtendOrder, error) {
	var approved models.ExtendOrder

	err := database.WithTransaction(ctx, s.client, func(sc mongo.SessionContext) error {
		order, err := s.FindOneById(sc, id)
		if err != nil {
			return err
		}
		if order.Status == models.StatusPaid {
			return common.NewError(common.ErrCodeBusinessOperation,
				"Đơn gia hạn đã được thanh toán", common.StatusBadRequest, nil)
		}

		plan, err := s.plans.FindOneById(sc, order.Plan)
		if err != nil {
			return err
		}

		if _, err := s.businesses.Extend(sc, order.Business, plan.Period); err != nil {
			return err
		}

		approved, err = s.UpdateById(sc, order.ID, basesvc.UpdateData{
			Set: map[string]interface{}{"status": models.StatusPaid},
		})
		return err
	})
	if err != nil {
		return models.ExtendOrder{}, err
	}

	logger.GetAuditLogger().WithFields(map[string]interface{}{
		"extend_order_id": approved.ID.Hex(),
		"business_id":     approved.Business.Hex(),
	}).Info("✅ [EXTEND] Admin duyệt đơn gia hạn")

	return approved, nil
}
