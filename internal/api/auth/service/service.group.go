// Package service - quản lý nhóm quyền trong phạm vi doanh nghiệp.
package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"qrapp/internal/api/auth/models"
	basesvc "qrapp/internal/api/base/service"
	"qrapp/internal/common"
	"qrapp/internal/utility"
)

// GroupService quản lý nhóm quyền và thành viên nhóm
type GroupService struct {
	*basesvc.BaseServiceMongoImpl[models.Group]
	userService       basesvc.BaseServiceMongo[models.User]
	permissionService permissionFinder
}

// NewGroupService tạo GroupService trên collection nhóm
func NewGroupService(collection *mongo.Collection, userService basesvc.BaseServiceMongo[models.User], permissionService permissionFinder) *GroupService {
	return &GroupService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Group](collection),
		userService:          userService,
		permissionService:    permissionService,
	}
}

// FindByBusiness liệt kê nhóm của một doanh nghiệp
func (s *GroupService) FindByBusiness(ctx context.Context, business primitive.ObjectID) ([]models.Group, error) {
	return s.Find(ctx, bson.M{"business": business}, nil)
}

// GrantPermissions gán thêm quyền cho nhóm. Người gán chỉ được gán các quyền
// mà chính mình đang nắm giữ (granterCodes là tập quyền hiệu lực của người gán).
func (s *GroupService) GrantPermissions(ctx context.Context, groupID primitive.ObjectID, permissionIDs []primitive.ObjectID, granterCodes []string) (models.Group, error) {
	permissions, err := s.permissionService.FindManyByIds(ctx, permissionIDs)
	if err != nil {
		return models.Group{}, err
	}
	if len(permissions) != len(utility.Unique(permissionIDs)) {
		return models.Group{}, common.ErrNotFound
	}

	granterSet := make(map[string]bool, len(granterCodes))
	for _, code := range granterCodes {
		granterSet[code] = true
	}
	for _, p := range permissions {
		if !granterSet[p.Code] {
			return models.Group{}, common.NewError(
				common.ErrCodeAuthRole,
				"Không thể gán quyền mà bạn không nắm giữ",
				common.StatusForbidden,
				p.Code,
			)
		}
	}

	return s.UpdateById(ctx, groupID, &basesvc.UpdateData{
		AddToSet: map[string]interface{}{
			"permissions": bson.M{"$each": permissionIDs},
		},
	})
}

// RevokePermissions thu hồi quyền của nhóm
func (s *GroupService) RevokePermissions(ctx context.Context, groupID primitive.ObjectID, permissionIDs []primitive.ObjectID) (models.Group, error) {
	return s.UpdateById(ctx, groupID, &basesvc.UpdateData{
		Pull: map[string]interface{}{
			"permissions": bson.M{"$in": permissionIDs},
		},
	})
}

// AddMember thêm người dùng vào nhóm. Nhóm và thành viên phải thuộc
// cùng một doanh nghiệp.
func (s *GroupService) AddMember(ctx context.Context, groupID primitive.ObjectID, userID primitive.ObjectID) error {
	group, err := s.FindOneById(ctx, groupID)
	if err != nil {
		return err
	}

	user, err := s.userService.FindOneById(ctx, userID)
	if err != nil {
		return err
	}
	if user.Scope == nil || *user.Scope != group.Business {
		return common.ErrNotFound
	}

	_, err = s.userService.UpdateById(ctx, userID, &basesvc.UpdateData{
		AddToSet: map[string]interface{}{"groups": groupID},
	})
	return err
}

// RemoveMember loại người dùng khỏi nhóm
func (s *GroupService) RemoveMember(ctx context.Context, groupID primitive.ObjectID, userID primitive.ObjectID) error {
	_, err := s.userService.UpdateById(ctx, userID, &basesvc.UpdateData{
		Pull: map[string]interface{}{"groups": groupID},
	})
	return err
}
