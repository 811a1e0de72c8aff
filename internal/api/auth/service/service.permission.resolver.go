// Package service - tổng hợp quyền hiệu lực của người dùng.
package service

import (
	"context"
	"regexp"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"qrapp/internal/api/auth/models"
)

// Bảng cấp quyền mặc định theo vai trò. Mỗi vai trò khớp với một pattern
// trên code quyền; quyền khớp pattern được gán cho người dùng lúc tạo tài khoản.
// Admin quản lý hệ thống (loại hình, doanh nghiệp, gói dịch vụ, nhóm, người dùng,
// đơn gia hạn, quyền). BusinessOwner nhận mọi quyền trừ các quyền hệ thống.
// Staff chỉ được xem dữ liệu vận hành trong chi nhánh.
var roleDefaultGrants = map[string]*regexp.Regexp{
	models.RoleAdmin:         regexp.MustCompile(`\.(businesstype|business|plan|group|user|extendorder|permission)$`),
	models.RoleBusinessOwner: regexp.MustCompile(`^.*\.(?:[a-z]+)$`),
	models.RoleStaff:         regexp.MustCompile(`^view\.(area|branch|order|category|subcategory|serviceunit|product)$`),
}

// Các quyền hệ thống mà BusinessOwner KHÔNG được nhận
var businessOwnerExcluded = regexp.MustCompile(`\.(businesstype|business|plan|permission)$`)

// DefaultPermissionsForRole lọc danh sách quyền theo bảng cấp quyền mặc định
// của vai trò. Trả về các quyền sẽ được gán khi tạo người dùng.
func DefaultPermissionsForRole(role string, permissions []models.Permission) []models.Permission {
	pattern, ok := roleDefaultGrants[role]
	if !ok {
		return nil
	}

	granted := make([]models.Permission, 0)
	for _, p := range permissions {
		if !pattern.MatchString(p.Code) {
			continue
		}
		if role == models.RoleBusinessOwner && businessOwnerExcluded.MatchString(p.Code) {
			continue
		}
		granted = append(granted, p)
	}
	return granted
}

// permissionFinder tra cứu quyền theo danh sách id
type permissionFinder interface {
	FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]models.Permission, error)
}

// groupFinder tra cứu nhóm theo filter
type groupFinder interface {
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Group, error)
}

// PermissionResolver tổng hợp tập quyền hiệu lực của người dùng:
// hợp của quyền gán trực tiếp và quyền của mọi nhóm người dùng thuộc về.
type PermissionResolver struct {
	permissionService permissionFinder
	groupService      groupFinder
}

// NewPermissionResolver tạo resolver với service quyền và nhóm
func NewPermissionResolver(permissionService permissionFinder, groupService groupFinder) *PermissionResolver {
	return &PermissionResolver{
		permissionService: permissionService,
		groupService:      groupService,
	}
}

// ResolveCodes trả về danh sách code quyền hiệu lực của user,
// đã loại trùng và sắp xếp để kết quả ổn định giữa các lần gọi.
func (r *PermissionResolver) ResolveCodes(ctx context.Context, user *models.User) ([]string, error) {
	permissionIDs := make([]primitive.ObjectID, 0, len(user.Permissions))
	permissionIDs = append(permissionIDs, user.Permissions...)

	// Gom thêm quyền từ các nhóm người dùng thuộc về
	if len(user.Groups) > 0 {
		groups, err := r.groupService.Find(ctx, bson.M{"_id": bson.M{"$in": user.Groups}}, nil)
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			permissionIDs = append(permissionIDs, g.Permissions...)
		}
	}

	if len(permissionIDs) == 0 {
		return []string{}, nil
	}

	permissions, err := r.permissionService.FindManyByIds(ctx, permissionIDs)
	if err != nil {
		return nil, err
	}

	// Loại trùng (một quyền có thể vừa gán trực tiếp vừa qua nhóm)
	seen := make(map[string]bool, len(permissions))
	codes := make([]string, 0, len(permissions))
	for _, p := range permissions {
		if seen[p.Code] {
			continue
		}
		seen[p.Code] = true
		codes = append(codes, p.Code)
	}
	sort.Strings(codes)

	return codes, nil
}
