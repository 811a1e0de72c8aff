// Package service - chốt đơn hàng từ yêu cầu đặt món và thanh toán.
package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	authmodels "qrapp/internal/api/auth/models"
	basesvc "qrapp/internal/api/base/service"
	catalogsvc "qrapp/internal/api/catalog/service"
	"qrapp/internal/api/order/models"
	requestmodels "qrapp/internal/api/request/models"
	tenantmodels "qrapp/internal/api/tenant/models"
	"qrapp/internal/common"
	"qrapp/internal/logger"
	"qrapp/internal/payment"
	"qrapp/internal/utility"
)

// requestLookup đọc yêu cầu theo id, cho phép inject fake khi test
type requestLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (requestmodels.Request, error)
}

// paymentAccountFinder tra cứu tài khoản nhận thanh toán của doanh nghiệp
type paymentAccountFinder interface {
	FindByBusiness(ctx context.Context, business *primitive.ObjectID) (tenantmodels.Payment, error)
}

// orderWriter ghi đơn hàng và kiểm tra trùng, cho phép inject fake khi test
type orderWriter interface {
	DocumentExists(ctx context.Context, filter interface{}) (bool, error)
	InsertOne(ctx context.Context, order models.Order) (models.Order, error)
}

// CheckoutSummary là thông tin thanh toán chuyển khoản của một đơn hàng
type CheckoutSummary struct {
	Order     models.Order         `json:"order"`
	Account   tenantmodels.Payment `json:"account"`
	QRCodeURL string               `json:"qrCodeUrl"`
}

// OrderService chốt đơn từ yêu cầu của khách và quản lý thanh toán
type OrderService struct {
	*basesvc.BaseServiceMongoImpl[models.Order]
	store     orderWriter
	requests  requestLookup
	validator *catalogsvc.OrderValidator
	payments  paymentAccountFinder
	qr        payment.QRGenerator
}

// NewOrderService tạo OrderService
func NewOrderService(
	collection *mongo.Collection,
	requests requestLookup,
	validator *catalogsvc.OrderValidator,
	payments paymentAccountFinder,
	qr payment.QRGenerator,
) *OrderService {
	base := basesvc.NewBaseServiceMongo[models.Order](collection)
	return &OrderService{
		BaseServiceMongoImpl: base,
		store:                base,
		requests:             requests,
		validator:            validator,
		payments:             payments,
		qr:                   qr,
	}
}

// CreateFromRequest chốt đơn hàng từ một yêu cầu đặt món đã được tiếp nhận.
// Chỉ người đang xử lý yêu cầu mới chốt được; giá được tính lại theo thực đơn
// hiện hành tại thời điểm chốt. Mỗi yêu cầu chỉ chốt được một đơn.
func (s *OrderService) CreateFromRequest(ctx context.Context, requestID primitive.ObjectID, paymentMethod string, claims *authmodels.TokenClaims) (models.Order, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return models.Order{}, err
	}

	// Ngoài phạm vi của người gọi thì coi như không tồn tại
	if claims.UserScope == nil || *claims.UserScope != request.Business.Hex() {
		return models.Order{}, common.ErrNotFound
	}
	if claims.UserBranch != nil && *claims.UserBranch != request.Branch.Hex() {
		return models.Order{}, common.ErrNotFound
	}

	if request.Type != requestmodels.TypeOrder || len(request.Data) == 0 {
		return models.Order{}, common.NewError(common.ErrCodeBusinessOperation,
			"Yêu cầu không phải đặt món", common.StatusBadRequest, nil)
	}
	if request.Staff == nil || request.Staff.Hex() != claims.UserID {
		return models.Order{}, common.NewError(common.ErrCodeBusinessState,
			"Yêu cầu chưa được bạn tiếp nhận", common.StatusBadRequest, nil)
	}

	exists, err := s.store.DocumentExists(ctx, bson.M{"request": request.ID})
	if err != nil {
		return models.Order{}, err
	}
	if exists {
		return models.Order{}, common.ErrDuplicate
	}

	amount, err := s.validator.Price(ctx, request.Data)
	if err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		Items:         request.Data,
		Amount:        amount,
		PaymentMethod: paymentMethod,
		Status:        models.StatusUnpaid,
		Request:       request.ID,
		ServiceUnit:   request.ServiceUnit,
		Area:          request.Area,
		Branch:        request.Branch,
		Business:      request.Business,
		Staff:         *request.Staff,
	}

	created, err := s.store.InsertOne(ctx, order)
	if err != nil {
		return models.Order{}, err
	}

	logger.GetAuditLogger().WithFields(map[string]interface{}{
		"order_id":   created.ID.Hex(),
		"request_id": request.ID.Hex(),
		"amount":     created.Amount,
		"staff_id":   claims.UserID,
	}).Info("🧾 [ORDER] Chốt đơn hàng từ yêu cầu")

	return created, nil
}

// FindScoped đọc một đơn trong phạm vi doanh nghiệp
func (s *OrderService) FindScoped(ctx context.Context, id primitive.ObjectID, business primitive.ObjectID) (models.Order, error) {
	return s.FindOne(ctx, bson.M{"_id": id, "business": business}, nil)
}

// MarkPaid đánh dấu đơn đã thanh toán
func (s *OrderService) MarkPaid(ctx context.Context, id primitive.ObjectID, business primitive.ObjectID) (models.Order, error) {
	return s.UpdateOne(ctx,
		bson.M{"_id": id, "business": business},
		basesvc.UpdateData{Set: map[string]interface{}{"status": models.StatusPaid}},
	)
}

// Checkout trả về thông tin chuyển khoản kèm mã QR cho một đơn chưa thanh toán
func (s *OrderService) Checkout(ctx context.Context, id primitive.ObjectID, business primitive.ObjectID) (CheckoutSummary, error) {
	order, err := s.FindScoped(ctx, id, business)
	if err != nil {
		return CheckoutSummary{}, err
	}

	account, err := s.payments.FindByBusiness(ctx, &business)
	if err != nil {
		return CheckoutSummary{}, common.NewError(common.ErrCodeBusinessState,
			"Doanh nghiệp chưa khai báo tài khoản nhận thanh toán", common.StatusBadRequest, nil)
	}

	description := fmt.Sprintf("Thanh toan don %s", utility.ObjectID2String(order.ID))
	return CheckoutSummary{
		Order:     order,
		Account:   account,
		QRCodeURL: s.qr.Generate(account.BankCode, account.AccountNumber, account.AccountName, order.Amount, description),
	}, nil
}
