// Package service - store chuyển trạng thái yêu cầu bằng thao tác atomic.
package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	basesvc "qrapp/internal/api/base/service"
	"qrapp/internal/api/request/models"
	"qrapp/internal/common"
)

// RequestStore đọc và chuyển trạng thái yêu cầu.
// Hai thao tác chuyển trạng thái là compare-and-set: filter chứa cả trạng thái
// hiện tại, không match trả về false thay vì lỗi. Nhờ đó nhiều nhân viên cùng
// bấm nhận một yêu cầu thì đúng một người thắng, không cần khóa ở tầng trên.
type RequestStore interface {
	Insert(ctx context.Context, request models.Request) (models.Request, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Request, error)
	// ClaimWaiting chuyển WAITING -> IN_PROGRESS và gán staff làm người xử lý
	ClaimWaiting(ctx context.Context, id primitive.ObjectID, staff primitive.ObjectID) (models.Request, bool, error)
	// CompleteInProgress chuyển IN_PROGRESS -> COMPLETED, chỉ cho đúng người đang xử lý
	CompleteInProgress(ctx context.Context, id primitive.ObjectID, staff primitive.ObjectID) (models.Request, bool, error)
}

// MongoRequestStore triển khai RequestStore trên collection requests
type MongoRequestStore struct {
	base *basesvc.BaseServiceMongoImpl[models.Request]
}

// NewMongoRequestStore tạo store trên collection yêu cầu
func NewMongoRequestStore(collection *mongo.Collection) *MongoRequestStore {
	return &MongoRequestStore{
		base: basesvc.NewBaseServiceMongo[models.Request](collection),
	}
}

// Insert lưu một yêu cầu mới
func (s *MongoRequestStore) Insert(ctx context.Context, request models.Request) (models.Request, error) {
	return s.base.InsertOne(ctx, request)
}

// FindByID đọc một yêu cầu theo id
func (s *MongoRequestStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Request, error) {
	return s.base.FindOneById(ctx, id)
}

// ClaimWaiting thử nhận yêu cầu đang chờ.
// Trả về false khi yêu cầu không còn ở trạng thái WAITING (đã có người nhận trước).
func (s *MongoRequestStore) ClaimWaiting(ctx context.Context, id primitive.ObjectID, staff primitive.ObjectID) (models.Request, bool, error) {
	return s.advance(ctx,
		bson.M{"_id": id, "status": models.StatusWaiting},
		basesvc.UpdateData{Set: map[string]interface{}{
			"status": models.StatusInProgress,
			"staff":  staff,
		}},
	)
}

// CompleteInProgress thử hoàn tất yêu cầu đang xử lý.
// Filter ràng buộc cả staff: người không phải người đang xử lý sẽ nhận false.
func (s *MongoRequestStore) CompleteInProgress(ctx context.Context, id primitive.ObjectID, staff primitive.ObjectID) (models.Request, bool, error) {
	return s.advance(ctx,
		bson.M{"_id": id, "status": models.StatusInProgress, "staff": staff},
		basesvc.UpdateData{Set: map[string]interface{}{
			"status": models.StatusCompleted,
		}},
	)
}

func (s *MongoRequestStore) advance(ctx context.Context, filter bson.M, update basesvc.UpdateData) (models.Request, bool, error) {
	updated, err := s.base.FindOneAndUpdate(ctx, filter, update, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.Request{}, false, nil
		}
		return models.Request{}, false, err
	}
	return updated, true, nil
}
