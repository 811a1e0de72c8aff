// Package service - nghiệp vụ doanh nghiệp: đăng ký, gia hạn, khóa/mở khóa.
package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	authmodels "qrapp/internal/api/auth/models"
	authsvc "qrapp/internal/api/auth/service"
	basesvc "qrapp/internal/api/base/service"
	"qrapp/internal/api/tenant/models"
	"qrapp/internal/common"
	"qrapp/internal/database"
	"qrapp/internal/logger"
)

// Số ngày dùng thử khi mới đăng ký doanh nghiệp
const trialPeriodDays = 30

// RegisterBusinessInput gom dữ liệu đăng ký doanh nghiệp kèm tài khoản chủ
type RegisterBusinessInput struct {
	BusinessName    string
	BusinessAddress string
	BusinessContact string
	BusinessTaxCode string
	BusinessType    primitive.ObjectID
	OwnerName       string
	OwnerContact    string
	Username        string
	Password        string
	Email           string
}

// BusinessService quản lý doanh nghiệp
type BusinessService struct {
	*basesvc.BaseServiceMongoImpl[models.Business]
	client        *mongo.Client
	typeService   basesvc.BaseServiceMongo[models.BusinessType]
	branchService basesvc.BaseServiceMongo[models.Branch]
	userService   *authsvc.UserService
	sessions      authsvc.SessionStore
	coordinator   *CascadeCoordinator
}

// NewBusinessService tạo BusinessService với các phụ thuộc
func NewBusinessService(
	collection *mongo.Collection,
	client *mongo.Client,
	typeService basesvc.BaseServiceMongo[models.BusinessType],
	branchService basesvc.BaseServiceMongo[models.Branch],
	userService *authsvc.UserService,
	sessions authsvc.SessionStore,
	coordinator *CascadeCoordinator,
) *BusinessService {
	return &BusinessService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Business](collection),
		client:               client,
		typeService:          typeService,
		branchService:        branchService,
		userService:          userService,
		sessions:             sessions,
		coordinator:          coordinator,
	}
}

// EnsureActive kiểm tra doanh nghiệp còn hoạt động và chưa hết hạn.
// Dùng làm cổng chặn đăng nhập cho BusinessOwner và Staff.
func (s *BusinessService) EnsureActive(ctx context.Context, businessID primitive.ObjectID) error {
	business, err := s.FindOneById(ctx, businessID)
	if err != nil {
		return err
	}
	if !business.Available {
		return common.NewError(common.ErrCodeAuthCredentials, "Doanh nghiệp đã bị khóa", common.StatusUnauthorized, nil)
	}
	if business.ExpiredAt < time.Now().UnixMilli() {
		return common.ErrTenantExpired
	}
	return nil
}

// Register đăng ký doanh nghiệp mới: tạo doanh nghiệp, tài khoản chủ và
// chi nhánh mặc định trong cùng một transaction.
func (s *BusinessService) Register(ctx context.Context, input RegisterBusinessInput) (*models.Business, *authmodels.User, error) {
	var business models.Business
	var owner authmodels.User

	err := database.WithTransaction(ctx, s.client, func(sc mongo.SessionContext) error {
		if _, err := s.typeService.FindOneById(sc, input.BusinessType); err != nil {
			return common.NewError(common.ErrCodeValidationInput, "Loại doanh nghiệp không phù hợp", common.StatusBadRequest, nil)
		}

		if exists, err := s.DocumentExists(sc, bson.M{"name": input.BusinessName}); err != nil {
			return err
		} else if exists {
			return common.NewError(common.ErrCodeDatabaseQuery, "Tên doanh nghiệp đã được đăng kí", common.StatusConflict, nil)
		}

		if exists, err := s.userService.DocumentExists(sc, bson.M{"username": input.Username}); err != nil {
			return err
		} else if exists {
			return common.NewError(common.ErrCodeDatabaseQuery, "Tên đăng nhập đã được đăng kí", common.StatusConflict, nil)
		}

		if input.BusinessTaxCode != "" {
			if exists, err := s.DocumentExists(sc, bson.M{"taxCode": input.BusinessTaxCode}); err != nil {
				return err
			} else if exists {
				return common.NewError(common.ErrCodeDatabaseQuery, "Mã số thuế đã được sử dụng", common.StatusConflict, nil)
			}
		}

		var err error
		business, err = s.InsertOne(sc, models.Business{
			Name:         input.BusinessName,
			Address:      input.BusinessAddress,
			Contact:      input.BusinessContact,
			TaxCode:      input.BusinessTaxCode,
			BusinessType: input.BusinessType,
			Available:    true,
			ExpiredAt:    time.Now().AddDate(0, 0, trialPeriodDays).UnixMilli(),
		})
		if err != nil {
			return err
		}

		owner, err = s.userService.Create(sc, authmodels.User{
			Name:     input.OwnerName,
			Username: input.Username,
			Role:     authmodels.RoleBusinessOwner,
			Scope:    &business.ID,
			Phone:    input.OwnerContact,
			Email:    input.Email,
		}, input.Password)
		if err != nil {
			return err
		}

		business, err = s.UpdateById(sc, business.ID, bson.M{"owner": owner.ID})
		if err != nil {
			return err
		}

		// Chi nhánh mặc định mang tên doanh nghiệp
		_, err = s.branchService.InsertOne(sc, models.Branch{
			Name:     input.BusinessName,
			Address:  input.BusinessAddress,
			Contact:  input.BusinessContact,
			Business: business.ID,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	logger.GetAuditLogger().WithFields(map[string]interface{}{
		"business_id": business.ID.Hex(),
		"owner_id":    owner.ID.Hex(),
	}).Info("🏢 [TENANT] Đăng ký doanh nghiệp thành công")

	return &business, &owner, nil
}

// Extend gia hạn doanh nghiệp: cộng thêm days ngày tính từ thời điểm
// hết hạn còn lại, hoặc từ hiện tại nếu đã hết hạn.
func (s *BusinessService) Extend(ctx context.Context, id primitive.ObjectID, days int) (models.Business, error) {
	business, err := s.FindOneById(ctx, id)
	if err != nil {
		return models.Business{}, err
	}

	base := business.ExpiredAt
	if now := time.Now().UnixMilli(); base < now {
		base = now
	}
	newExpiredAt := time.UnixMilli(base).AddDate(0, 0, days).UnixMilli()

	extended, err := s.UpdateById(ctx, id, bson.M{"expiredAt": newExpiredAt})
	if err != nil {
		return models.Business{}, err
	}

	logger.GetAuditLogger().WithFields(map[string]interface{}{
		"business_id": id.Hex(),
		"days":        days,
	}).Info("🏢 [TENANT] Gia hạn doanh nghiệp thành công")

	return extended, nil
}

// SetAvailability khóa/mở khóa doanh nghiệp và tài khoản chủ trong một
// transaction. Khóa đồng thời hủy phiên đăng nhập của chủ doanh nghiệp.
func (s *BusinessService) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) (models.Business, error) {
	var business models.Business

	err := database.WithTransaction(ctx, s.client, func(sc mongo.SessionContext) error {
		var err error
		business, err = s.UpdateById(sc, id, bson.M{"available": available})
		if err != nil {
			return err
		}
		if business.Owner != nil {
			if _, err := s.userService.UpdateById(sc, *business.Owner, bson.M{"available": available}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Business{}, err
	}

	if !available && business.Owner != nil {
		s.sessions.Delete(business.Owner.Hex())
	}

	return business, nil
}

// Delete xóa doanh nghiệp cùng toàn bộ dữ liệu qua cascade coordinator
func (s *BusinessService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.FindOneById(ctx, id); err != nil {
		return err
	}
	return s.coordinator.DeleteBusiness(ctx, id)
}
