// Package service - quản lý tài khoản người dùng.
package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"qrapp/internal/api/auth/models"
	basesvc "qrapp/internal/api/base/service"
	"qrapp/internal/common"
	"qrapp/internal/global"
	"qrapp/internal/logger"
	"qrapp/internal/mailer"
	"qrapp/internal/utility"
)

// permissionLister liệt kê toàn bộ quyền, dùng cho bảng cấp quyền mặc định
type permissionLister interface {
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Permission, error)
}

// UserService quản lý tài khoản người dùng
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
	permissionService permissionLister
	sessions          SessionStore
	mail              mailer.Mailer
}

// NewUserService tạo UserService trên collection người dùng
func NewUserService(collection *mongo.Collection, permissionService permissionLister, sessions SessionStore, mail mailer.Mailer) *UserService {
	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](collection),
		permissionService:    permissionService,
		sessions:             sessions,
		mail:                 mail,
	}
}

// Create tạo tài khoản mới. Mật khẩu được hash bằng bcrypt, tập quyền mặc định
// được gán theo vai trò từ bảng cấp quyền.
func (s *UserService) Create(ctx context.Context, user models.User, password string) (models.User, error) {
	if err := global.Validate.Var(password, "required,strong_password"); err != nil {
		return models.User{}, common.ErrWeakPassword
	}

	if _, ok := roleDefaultGrants[user.Role]; !ok {
		return models.User{}, common.NewError(
			common.ErrCodeAuthRole,
			"Vai trò không hợp lệ",
			common.StatusBadRequest,
			nil,
		)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, common.NewError(common.ErrCodeInternalServer, "Không thể mã hóa mật khẩu", common.StatusInternalServerError, err)
	}
	user.Password = string(hashed)
	user.Available = true

	// Gán tập quyền mặc định theo vai trò ngay lúc tạo tài khoản
	allPermissions, err := s.permissionService.Find(ctx, bson.D{}, nil)
	if err != nil {
		return models.User{}, err
	}
	granted := DefaultPermissionsForRole(user.Role, allPermissions)
	user.Permissions = make([]primitive.ObjectID, 0, len(granted))
	for _, p := range granted {
		user.Permissions = append(user.Permissions, p.ID)
	}
	if user.Groups == nil {
		user.Groups = []primitive.ObjectID{}
	}

	created, err := s.InsertOne(ctx, user)
	if err != nil {
		return models.User{}, err
	}

	logger.GetAuditLogger().WithFields(map[string]interface{}{
		"user_id":  utility.ObjectID2String(created.ID),
		"username": created.Username,
		"role":     created.Role,
	}).Info("✅ [USER] Tạo tài khoản thành công")

	return created, nil
}

// CreateStaff tạo tài khoản nhân viên gắn với một chi nhánh của doanh nghiệp.
// Email chào mừng gửi best-effort, lỗi gửi mail không chặn việc tạo tài khoản.
func (s *UserService) CreateStaff(ctx context.Context, user models.User, password string, business primitive.ObjectID, branch primitive.ObjectID) (models.User, error) {
	user.Role = models.RoleStaff
	user.Scope = &business
	user.Branch = &branch

	created, err := s.Create(ctx, user, password)
	if err != nil {
		return models.User{}, err
	}

	if s.mail != nil && created.Email != "" {
		if err := s.mail.Send(created.Email, "Tài khoản nhân viên của bạn", "staff_welcome", map[string]interface{}{
			"Name":     created.Name,
			"Username": created.Username,
		}); err != nil {
			logger.WithModule("user").WithField("user_id", utility.ObjectID2String(created.ID)).
				Warn("✉️ [USER] Không gửi được email chào mừng nhân viên")
		}
	}

	return created, nil
}

// SetAvailability khóa hoặc mở khóa tài khoản.
// Khóa tài khoản đồng thời hủy phiên đăng nhập hiện tại.
func (s *UserService) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) (models.User, error) {
	user, err := s.UpdateById(ctx, id, bson.M{"available": available})
	if err != nil {
		return models.User{}, err
	}

	if !available {
		s.sessions.Delete(utility.ObjectID2String(id))
		logger.GetAuditLogger().WithField("user_id", utility.ObjectID2String(id)).Warn("🔒 [USER] Tài khoản bị khóa, phiên đăng nhập đã bị hủy")
	}

	return user, nil
}

// GrantPermissions gán thêm quyền trực tiếp cho người dùng
func (s *UserService) GrantPermissions(ctx context.Context, id primitive.ObjectID, permissionIDs []primitive.ObjectID) (models.User, error) {
	return s.UpdateById(ctx, id, &basesvc.UpdateData{
		AddToSet: map[string]interface{}{
			"permissions": bson.M{"$each": permissionIDs},
		},
	})
}

// RevokePermissions thu hồi quyền trực tiếp của người dùng
func (s *UserService) RevokePermissions(ctx context.Context, id primitive.ObjectID, permissionIDs []primitive.ObjectID) (models.User, error) {
	return s.UpdateById(ctx, id, &basesvc.UpdateData{
		Pull: map[string]interface{}{
			"permissions": bson.M{"$in": permissionIDs},
		},
	})
}

// FindByBusiness liệt kê người dùng thuộc một doanh nghiệp
func (s *UserService) FindByBusiness(ctx context.Context, business primitive.ObjectID) ([]models.User, error) {
	return s.Find(ctx, bson.M{"scope": business}, nil)
}
