// Package service - test tổng hợp quyền hiệu lực và bảng cấp quyền mặc định.
package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"qrapp/internal/api/auth/models"
)

// fakePermissionFinder trả về các quyền có id nằm trong danh sách yêu cầu
type fakePermissionFinder struct {
	permissions []models.Permission
}

func (f *fakePermissionFinder) FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]models.Permission, error) {
	idSet := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	var found []models.Permission
	for _, p := range f.permissions {
		if idSet[p.ID] {
			found = append(found, p)
		}
	}
	return found, nil
}

// fakeGroupFinder trả về toàn bộ nhóm được cấu hình sẵn
type fakeGroupFinder struct {
	groups []models.Group
}

func (f *fakeGroupFinder) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Group, error) {
	return f.groups, nil
}

func permWithCode(code string) models.Permission {
	return models.Permission{ID: primitive.NewObjectID(), Code: code}
}

func TestPermissionResolver_ResolveCodes(t *testing.T) {
	viewOrder := permWithCode("view.order")
	viewProduct := permWithCode("view.product")
	createOrder := permWithCode("create.order")

	permFinder := &fakePermissionFinder{permissions: []models.Permission{viewOrder, viewProduct, createOrder}}

	t.Run("hợp quyền trực tiếp và quyền từ nhóm, loại trùng", func(t *testing.T) {
		// viewOrder vừa gán trực tiếp vừa nằm trong nhóm
		group := models.Group{
			ID:          primitive.NewObjectID(),
			Permissions: []primitive.ObjectID{viewOrder.ID, createOrder.ID},
		}
		resolver := NewPermissionResolver(permFinder, &fakeGroupFinder{groups: []models.Group{group}})

		user := &models.User{
			Permissions: []primitive.ObjectID{viewOrder.ID, viewProduct.ID},
			Groups:      []primitive.ObjectID{group.ID},
		}
		codes, err := resolver.ResolveCodes(context.Background(), user)
		require.NoError(t, err)
		assert.Equal(t, []string{"create.order", "view.order", "view.product"}, codes)
	})

	t.Run("không có quyền nào trả về mảng rỗng", func(t *testing.T) {
		resolver := NewPermissionResolver(permFinder, &fakeGroupFinder{})
		codes, err := resolver.ResolveCodes(context.Background(), &models.User{})
		require.NoError(t, err)
		assert.NotNil(t, codes)
		assert.Empty(t, codes)
	})

	t.Run("kết quả được sắp xếp ổn định", func(t *testing.T) {
		resolver := NewPermissionResolver(permFinder, &fakeGroupFinder{})
		user := &models.User{
			Permissions: []primitive.ObjectID{createOrder.ID, viewProduct.ID, viewOrder.ID},
		}
		codes, err := resolver.ResolveCodes(context.Background(), user)
		require.NoError(t, err)
		assert.Equal(t, []string{"create.order", "view.order", "view.product"}, codes)
	})
}

func TestDefaultPermissionsForRole(t *testing.T) {
	catalog := []models.Permission{
		permWithCode("view.businesstype"),
		permWithCode("create.business"),
		permWithCode("update.plan"),
		permWithCode("create.user"),
		permWithCode("view.permission"),
		permWithCode("view.order"),
		permWithCode("create.order"),
		permWithCode("view.product"),
		permWithCode("update.category"),
		permWithCode("view.branch"),
		permWithCode("create.group"),
		permWithCode("view.extendorder"),
	}

	codesOf := func(permissions []models.Permission) []string {
		var codes []string
		for _, p := range permissions {
			codes = append(codes, p.Code)
		}
		return codes
	}

	t.Run("Admin nhận các quyền quản trị hệ thống", func(t *testing.T) {
		granted := codesOf(DefaultPermissionsForRole(models.RoleAdmin, catalog))
		assert.ElementsMatch(t, []string{
			"view.businesstype", "create.business", "update.plan",
			"create.user", "view.permission", "create.group", "view.extendorder",
		}, granted)
	})

	t.Run("BusinessOwner nhận mọi quyền trừ quyền hệ thống", func(t *testing.T) {
		granted := codesOf(DefaultPermissionsForRole(models.RoleBusinessOwner, catalog))
		assert.NotContains(t, granted, "view.businesstype")
		assert.NotContains(t, granted, "create.business")
		assert.NotContains(t, granted, "update.plan")
		assert.NotContains(t, granted, "view.permission")
		assert.Contains(t, granted, "view.order")
		assert.Contains(t, granted, "create.order")
		assert.Contains(t, granted, "create.user")
		assert.Contains(t, granted, "create.group")
	})

	t.Run("Staff chỉ được xem dữ liệu vận hành", func(t *testing.T) {
		granted := codesOf(DefaultPermissionsForRole(models.RoleStaff, catalog))
		assert.ElementsMatch(t, []string{"view.order", "view.product", "view.branch"}, granted)
	})

	t.Run("vai trò lạ không được cấp quyền nào", func(t *testing.T) {
		assert.Empty(t, DefaultPermissionsForRole("Ghost", catalog))
	})
}
