// Package service - điều phối xóa dây chuyền, giữ toàn vẹn tham chiếu giữa
// các collection. Mọi quy tắc cascade của hệ thống được định nghĩa tại đây.
package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"qrapp/internal/database"
	"qrapp/internal/global"
	"qrapp/internal/logger"
)

// CascadeStore là cổng ghi tối thiểu cho coordinator: xóa/sửa hàng loạt theo
// tên collection, và chạy một hàm trong transaction.
type CascadeStore interface {
	DeleteMany(ctx context.Context, collection string, filter bson.M) (int64, error)
	UpdateMany(ctx context.Context, collection string, filter bson.M, update bson.M) (int64, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoCascadeStore triển khai CascadeStore trên MongoDB
type MongoCascadeStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoCascadeStore tạo store trên client và database đang dùng
func NewMongoCascadeStore(client *mongo.Client, db *mongo.Database) *MongoCascadeStore {
	return &MongoCascadeStore{client: client, db: db}
}

func (s *MongoCascadeStore) DeleteMany(ctx context.Context, collection string, filter bson.M) (int64, error) {
	result, err := s.db.Collection(collection).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (s *MongoCascadeStore) UpdateMany(ctx context.Context, collection string, filter bson.M, update bson.M) (int64, error) {
	result, err := s.db.Collection(collection).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (s *MongoCascadeStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.WithTransaction(ctx, s.client, func(sessCtx mongo.SessionContext) error {
		return fn(sessCtx)
	})
}

// CascadeCoordinator thực hiện các phép xóa dây chuyền.
// Mỗi phép xóa chạy trong đúng một transaction: hoặc mọi document liên quan
// cùng biến mất, hoặc không document nào bị đụng tới.
type CascadeCoordinator struct {
	store CascadeStore
}

// NewCascadeCoordinator tạo coordinator trên store được inject
func NewCascadeCoordinator(store CascadeStore) *CascadeCoordinator {
	return &CascadeCoordinator{store: store}
}

// DeleteBranch xóa chi nhánh cùng khu vực, đơn vị phục vụ và nhân viên của nó
func (c *CascadeCoordinator) DeleteBranch(ctx context.Context, branchID primitive.ObjectID) error {
	names := global.MongoDB_ColNames
	err := c.store.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := c.store.DeleteMany(txCtx, names.Areas, bson.M{"branch": branchID}); err != nil {
			return err
		}
		if _, err := c.store.DeleteMany(txCtx, names.ServiceUnits, bson.M{"branch": branchID}); err != nil {
			return err
		}
		if _, err := c.store.DeleteMany(txCtx, names.Users, bson.M{"branch": branchID}); err != nil {
			return err
		}
		_, err := c.store.DeleteMany(txCtx, names.Branches, bson.M{"_id": branchID})
		return err
	})
	if err != nil {
		return err
	}

	logger.GetAuditLogger().WithField("branch_id", branchID.Hex()).Info("🗑️ [CASCADE] Đã xóa chi nhánh cùng dữ liệu phụ thuộc")
	return nil
}

// DeleteArea xóa khu vực cùng các đơn vị phục vụ trong đó
func (c *CascadeCoordinator) DeleteArea(ctx context.Context, areaID primitive.ObjectID) error {
	names := global.MongoDB_ColNames
	return c.store.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := c.store.DeleteMany(txCtx, names.ServiceUnits, bson.M{"area": areaID}); err != nil {
			return err
		}
		_, err := c.store.DeleteMany(txCtx, names.Areas, bson.M{"_id": areaID})
		return err
	})
}

// DeleteCategory xóa danh mục cùng danh mục con và sản phẩm thuộc nó
func (c *CascadeCoordinator) DeleteCategory(ctx context.Context, categoryID primitive.ObjectID) error {
	names := global.MongoDB_ColNames
	return c.store.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := c.store.DeleteMany(txCtx, names.Products, bson.M{"category": categoryID}); err != nil {
			return err
		}
		if _, err := c.store.DeleteMany(txCtx, names.SubCategories, bson.M{"category": categoryID}); err != nil {
			return err
		}
		_, err := c.store.DeleteMany(txCtx, names.Categories, bson.M{"_id": categoryID})
		return err
	})
}

// DeleteSubCategory xóa danh mục con cùng sản phẩm thuộc nó
func (c *CascadeCoordinator) DeleteSubCategory(ctx context.Context, subCategoryID primitive.ObjectID) error {
	names := global.MongoDB_ColNames
	return c.store.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := c.store.DeleteMany(txCtx, names.Products, bson.M{"subcategory": subCategoryID}); err != nil {
			return err
		}
		_, err := c.store.DeleteMany(txCtx, names.SubCategories, bson.M{"_id": subCategoryID})
		return err
	})
}

// DeleteGroup xóa nhóm và gỡ tham chiếu nhóm khỏi mọi người dùng.
// Thành viên không bị xóa, chỉ mất liên kết với nhóm.
func (c *CascadeCoordinator) DeleteGroup(ctx context.Context, groupID primitive.ObjectID) error {
	names := global.MongoDB_ColNames
	return c.store.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := c.store.UpdateMany(txCtx, names.Users,
			bson.M{"groups": groupID},
			bson.M{"$pull": bson.M{"groups": groupID}},
		); err != nil {
			return err
		}
		_, err := c.store.DeleteMany(txCtx, names.Groups, bson.M{"_id": groupID})
		return err
	})
}

// DeleteBusiness xóa doanh nghiệp cùng toàn bộ dữ liệu của nó:
// chi nhánh, khu vực, đơn vị phục vụ, nhân viên, nhóm, danh mục,
// sản phẩm, thông tin thanh toán, đơn hàng và yêu cầu.
func (c *CascadeCoordinator) DeleteBusiness(ctx context.Context, businessID primitive.ObjectID) error {
	names := global.MongoDB_ColNames
	err := c.store.WithTransaction(ctx, func(txCtx context.Context) error {
		byBusiness := bson.M{"business": businessID}
		for _, collection := range []string{
			names.Branches,
			names.Areas,
			names.ServiceUnits,
			names.Groups,
			names.Categories,
			names.SubCategories,
			names.Products,
			names.Payments,
			names.Orders,
			names.Requests,
		} {
			if _, err := c.store.DeleteMany(txCtx, collection, byBusiness); err != nil {
				return err
			}
		}
		// Người dùng tham chiếu doanh nghiệp qua field scope
		if _, err := c.store.DeleteMany(txCtx, names.Users, bson.M{"scope": businessID}); err != nil {
			return err
		}
		_, err := c.store.DeleteMany(txCtx, names.Businesses, bson.M{"_id": businessID})
		return err
	})
	if err != nil {
		return err
	}

	logger.GetAuditLogger().WithField("business_id", businessID.Hex()).Warn("🗑️ [CASCADE] Đã xóa doanh nghiệp cùng toàn bộ dữ liệu")
	return nil
}
