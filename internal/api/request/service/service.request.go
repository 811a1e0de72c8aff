// Package service - vòng đời yêu cầu: khách tạo, nhân viên nhận và hoàn tất.
package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	authmodels "qrapp/internal/api/auth/models"
	basesvc "qrapp/internal/api/base/service"
	catalogsvc "qrapp/internal/api/catalog/service"
	"qrapp/internal/api/request/models"
	tenantmodels "qrapp/internal/api/tenant/models"
	"qrapp/internal/common"
	"qrapp/internal/logger"
	"qrapp/internal/notification"
	"qrapp/internal/utility"
)

// PermReceiveRequest là quyền nhận thông báo yêu cầu mới qua kênh realtime
const PermReceiveRequest = "receive.request"

// errInvalidRequest dùng chung cho mọi thông tin điểm phục vụ sai từ phía khách
var errInvalidRequest = common.NewError(
	common.ErrCodeValidationInput,
	"Kiểm tra thông tin yêu cầu",
	common.StatusBadRequest,
	nil,
)

// unitFinder tra cứu điểm phục vụ, cho phép inject fake khi test
type unitFinder interface {
	FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (tenantmodels.ServiceUnit, error)
}

// CreateRequestInput là dữ liệu khách gửi khi tạo yêu cầu
type CreateRequestInput struct {
	Type   models.RequestType
	Reason string
	Data   []catalogsvc.OrderItem
	Unit   primitive.ObjectID
	Area   primitive.ObjectID
}

// RequestService quản lý vòng đời yêu cầu của khách
type RequestService struct {
	*basesvc.BaseServiceMongoImpl[models.Request]
	store     RequestStore
	units     unitFinder
	validator *catalogsvc.OrderValidator
	hub       *notification.Hub
}

// NewRequestService tạo RequestService
func NewRequestService(
	collection *mongo.Collection,
	store RequestStore,
	units unitFinder,
	validator *catalogsvc.OrderValidator,
	hub *notification.Hub,
) *RequestService {
	return &RequestService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Request](collection),
		store:                store,
		units:                units,
		validator:            validator,
		hub:                  hub,
	}
}

// Create tạo yêu cầu mới từ phía khách (không cần đăng nhập).
// Phạm vi chi nhánh/doanh nghiệp được đóng dấu từ điểm phục vụ, không tin
// dữ liệu client gửi lên. Yêu cầu ORDER phải có danh sách món hợp lệ.
func (s *RequestService) Create(ctx context.Context, input CreateRequestInput) (models.Request, error) {
	if !input.Type.Valid() {
		return models.Request{}, errInvalidRequest
	}

	unit, err := s.units.FindOne(ctx, bson.M{"_id": input.Unit, "area": input.Area}, nil)
	if err != nil {
		return models.Request{}, errInvalidRequest
	}
	if !unit.Available {
		return models.Request{}, errInvalidRequest
	}

	request := models.Request{
		Type:        input.Type,
		Reason:      input.Reason,
		ServiceUnit: unit.ID,
		Area:        unit.Area,
		Branch:      unit.Branch,
		Business:    unit.Business,
		Status:      models.StatusWaiting,
	}

	if input.Type == models.TypeOrder {
		if err := s.validator.Validate(ctx, input.Data); err != nil {
			return models.Request{}, err
		}
		request.Data = input.Data
	}

	created, err := s.store.Insert(ctx, request)
	if err != nil {
		return models.Request{}, err
	}

	logger.GetAuditLogger().WithFields(map[string]interface{}{
		"request_id": created.ID.Hex(),
		"type":       created.Type,
		"unit":       unit.Name,
		"business":   created.Business.Hex(),
	}).Info("📨 [REQUEST] Khách tạo yêu cầu mới")

	s.hub.Broadcast(notification.Event{
		Message: "Có yêu cầu mới từ " + unit.Name,
		Request: created.ID.Hex(),
		Data:    created,
	}, created.Business.Hex(), created.Branch.Hex(), PermReceiveRequest)

	return created, nil
}

// Process cho nhân viên đẩy yêu cầu sang trạng thái kế tiếp.
// Yêu cầu ngoài doanh nghiệp hoặc ngoài chi nhánh của người gọi trả về
// ErrNotFound như thể không tồn tại, không tiết lộ yêu cầu của nơi khác.
// Trả về false (không lỗi) khi yêu cầu đã xong hoặc đang trong tay người khác;
// khi đó chỉ người gọi nhận được thông báo, không phát ra cả chi nhánh.
func (s *RequestService) Process(ctx context.Context, id primitive.ObjectID, claims *authmodels.TokenClaims) (models.Request, bool, error) {
	request, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Request{}, false, err
	}

	if claims.UserScope == nil || *claims.UserScope != request.Business.Hex() {
		return models.Request{}, false, common.ErrNotFound
	}
	if claims.UserBranch != nil && *claims.UserBranch != request.Branch.Hex() {
		return models.Request{}, false, common.ErrNotFound
	}

	staff := utility.String2ObjectID(claims.UserID)
	if staff.IsZero() {
		return models.Request{}, false, common.ErrInvalidFormat
	}

	if updated, ok, err := s.store.ClaimWaiting(ctx, id, staff); err != nil || ok {
		if ok {
			s.broadcastProcessed(updated, "Yêu cầu đã được tiếp nhận")
		}
		return updated, ok, err
	}

	if updated, ok, err := s.store.CompleteInProgress(ctx, id, staff); err != nil || ok {
		if ok {
			s.broadcastProcessed(updated, "Yêu cầu đã hoàn tất")
		}
		return updated, ok, err
	}

	// Đến đây nghĩa là yêu cầu đã COMPLETED, hoặc đang IN_PROGRESS trong tay
	// người khác, hoặc vừa bị người khác nhận trước trong tích tắc
	logger.GetAuditLogger().WithFields(map[string]interface{}{
		"request_id": id.Hex(),
		"user_id":    claims.UserID,
		"status":     request.Status,
	}).Warn("⚠️ [REQUEST] Yêu cầu đã có người xử lý, bỏ qua thao tác")

	s.hub.Notify(notification.Event{
		Message: "Yêu cầu đã được xử lý",
		Request: id.Hex(),
	}, claims.UserID)

	return request, false, nil
}

func (s *RequestService) broadcastProcessed(request models.Request, message string) {
	s.hub.Broadcast(notification.Event{
		Message: message,
		Request: request.ID.Hex(),
		Data:    request,
	}, request.Business.Hex(), request.Branch.Hex(), PermReceiveRequest)
}
