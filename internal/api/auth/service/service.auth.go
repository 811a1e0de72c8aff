// Package service - nghiệp vụ xác thực: đăng nhập, refresh, đăng xuất,
// đặt lại mật khẩu.
package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"qrapp/internal/api/auth/models"
	basesvc "qrapp/internal/api/base/service"
	"qrapp/internal/common"
	"qrapp/internal/logger"
	"qrapp/internal/mailer"
	"qrapp/internal/utility"
)

// Thời hạn cặp token đặt lại mật khẩu
const resetTokenLifetime = 15 * time.Minute

// BusinessGate kiểm tra doanh nghiệp của người dùng còn hoạt động không.
// Triển khai nằm ở domain tenant để tránh phụ thuộc vòng.
type BusinessGate interface {
	// EnsureActive trả về lỗi nếu doanh nghiệp bị khóa hoặc hết hạn sử dụng
	EnsureActive(ctx context.Context, businessID primitive.ObjectID) error
}

// AuthService xử lý các nghiệp vụ xác thực của người dùng
type AuthService struct {
	userService  basesvc.BaseServiceMongo[models.User]
	tokenService *TokenService
	sessions     SessionStore
	resolver     *PermissionResolver
	businessGate BusinessGate
	mailer       mailer.Mailer
	frontendURL  string
}

// NewAuthService tạo AuthService với các phụ thuộc được inject
func NewAuthService(
	userService basesvc.BaseServiceMongo[models.User],
	tokenService *TokenService,
	sessions SessionStore,
	resolver *PermissionResolver,
	businessGate BusinessGate,
	mail mailer.Mailer,
	frontendURL string,
) *AuthService {
	return &AuthService{
		userService:  userService,
		tokenService: tokenService,
		sessions:     sessions,
		resolver:     resolver,
		businessGate: businessGate,
		mailer:       mail,
		frontendURL:  frontendURL,
	}
}

// buildClaims tổng hợp claims cho user từ tập quyền hiệu lực
func (s *AuthService) buildClaims(ctx context.Context, user *models.User) (models.TokenClaims, error) {
	codes, err := s.resolver.ResolveCodes(ctx, user)
	if err != nil {
		return models.TokenClaims{}, err
	}

	claims := models.TokenClaims{
		UserID:          utility.ObjectID2String(user.ID),
		UserRole:        user.Role,
		UserPermissions: codes,
	}
	if user.Scope != nil {
		scope := utility.ObjectID2String(*user.Scope)
		claims.UserScope = &scope
	}
	if user.Branch != nil {
		branch := utility.ObjectID2String(*user.Branch)
		claims.UserBranch = &branch
	}

	return claims, nil
}

// SignIn xác thực người dùng và phát hành cặp token mới.
// Đăng nhập thành công ghi đè phiên cũ: các refresh token phát hành
// trước đó không còn dùng được.
func (s *AuthService) SignIn(ctx context.Context, username string, password string) (*models.User, *models.TokenPair, error) {
	user, err := s.userService.FindOne(ctx, bson.M{"username": username}, nil)
	if err != nil {
		// Không tiết lộ tài khoản có tồn tại hay không
		logger.GetAuditLogger().WithField("username", username).Warn("❌ [AUTH] Đăng nhập thất bại: tài khoản không tồn tại")
		return nil, nil, common.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logger.GetAuditLogger().WithField("username", username).Warn("❌ [AUTH] Đăng nhập thất bại: sai mật khẩu")
		return nil, nil, common.ErrInvalidCredentials
	}

	if !user.Available {
		logger.GetAuditLogger().WithField("username", username).Warn("❌ [AUTH] Đăng nhập thất bại: tài khoản bị khóa")
		return nil, nil, common.ErrAccountLocked
	}

	// Người dùng thuộc doanh nghiệp chỉ đăng nhập được khi doanh nghiệp
	// còn hoạt động và chưa hết hạn gói dịch vụ
	if user.Scope != nil && s.businessGate != nil {
		if err := s.businessGate.EnsureActive(ctx, *user.Scope); err != nil {
			logger.GetAuditLogger().WithFields(map[string]interface{}{
				"username": username,
				"business": utility.ObjectID2String(*user.Scope),
			}).Warn("❌ [AUTH] Đăng nhập thất bại: doanh nghiệp không hoạt động")
			return nil, nil, err
		}
	}

	claims, err := s.buildClaims(ctx, &user)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.tokenService.GeneratePair(claims)
	if err != nil {
		return nil, nil, err
	}

	s.sessions.Set(claims.UserID, pair.RefreshToken)

	logger.GetAuditLogger().WithFields(map[string]interface{}{
		"user_id": claims.UserID,
		"role":    user.Role,
	}).Info("✅ [AUTH] Đăng nhập thành công")

	return &user, pair, nil
}

// Refresh cấp lại access token từ refresh token còn hiệu lực.
// Refresh token phải trùng với phiên hiện hành: token của phiên đã bị
// ghi đè hoặc đã đăng xuất sẽ bị từ chối.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokenService.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	current, ok := s.sessions.Get(claims.UserID)
	if !ok || current != refreshToken {
		return "", common.ErrSessionInvalid
	}

	return s.tokenService.GenerateAccess(*claims)
}

// SignOut kết thúc phiên của người dùng. Refresh token gửi lên phải trùng
// khớp với phiên hiện hành.
func (s *AuthService) SignOut(ctx context.Context, userID string, refreshToken string) error {
	current, ok := s.sessions.Get(userID)
	if !ok || current != refreshToken {
		return common.ErrSessionInvalid
	}

	s.sessions.Delete(userID)

	logger.GetAuditLogger().WithField("user_id", userID).Info("✅ [AUTH] Đăng xuất thành công")
	return nil
}

// ForgotPassword phát hành cặp token đặt lại mật khẩu sống 15 phút và gửi
// link qua email. Cặp token này thay thế phiên hiện hành của người dùng.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userService.FindOne(ctx, bson.M{"email": email}, nil)
	if err != nil {
		// Trả về lỗi chung để không dò được email nào đã đăng ký
		return common.ErrInvalidCredentials
	}

	claims, err := s.buildClaims(ctx, &user)
	if err != nil {
		return err
	}

	pair, err := s.tokenService.GeneratePairWithLifetime(claims, resetTokenLifetime, resetTokenLifetime)
	if err != nil {
		return err
	}

	s.sessions.Set(claims.UserID, pair.RefreshToken)

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, pair.AccessToken)
	if s.mailer != nil {
		if err := s.mailer.Send(user.Email, "Đặt lại mật khẩu", "reset_password", map[string]interface{}{
			"Name":          user.Name,
			"ResetURL":      resetURL,
			"ExpireMinutes": int(resetTokenLifetime.Minutes()),
		}); err != nil {
			return err
		}
	}

	logger.GetAuditLogger().WithField("user_id", claims.UserID).Info("✉️ [AUTH] Đã gửi email đặt lại mật khẩu")
	return nil
}

// ResetPassword đổi mật khẩu bằng token đặt lại còn hiệu lực.
// Đổi xong xóa phiên, người dùng phải đăng nhập lại bằng mật khẩu mới.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken string, newPassword string) error {
	claims, err := s.tokenService.VerifyAccess(resetToken)
	if err != nil {
		return err
	}

	if err := s.setPassword(ctx, claims.UserID, newPassword); err != nil {
		return err
	}

	s.sessions.Delete(claims.UserID)

	logger.GetAuditLogger().WithField("user_id", claims.UserID).Info("✅ [AUTH] Đặt lại mật khẩu thành công")
	return nil
}

// ChangePassword đổi mật khẩu khi người dùng đã đăng nhập,
// yêu cầu xác nhận mật khẩu cũ
func (s *AuthService) ChangePassword(ctx context.Context, userID string, oldPassword string, newPassword string) error {
	id := utility.String2ObjectID(userID)
	if id.IsZero() {
		return common.ErrInvalidFormat
	}

	user, err := s.userService.FindOneById(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return common.ErrInvalidCredentials
	}

	if err := s.setPassword(ctx, userID, newPassword); err != nil {
		return err
	}

	// Đổi mật khẩu làm mất hiệu lực phiên hiện tại
	s.sessions.Delete(userID)

	logger.GetAuditLogger().WithField("user_id", userID).Info("✅ [AUTH] Đổi mật khẩu thành công")
	return nil
}

// setPassword hash và lưu mật khẩu mới cho user
func (s *AuthService) setPassword(ctx context.Context, userID string, newPassword string) error {
	id := utility.String2ObjectID(userID)
	if id.IsZero() {
		return common.ErrInvalidFormat
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return common.NewError(common.ErrCodeInternalServer, "Không thể mã hóa mật khẩu", common.StatusInternalServerError, err)
	}

	_, err = s.userService.UpdateById(ctx, id, bson.M{"password": string(hashed)})
	return err
}
