package database

import (
	"context"

	"qrapp/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexSpec mô tả một index cần đảm bảo trên collection
type IndexSpec struct {
	Keys   bson.D // Các field và thứ tự của index
	Unique bool   // Index unique
	Sparse bool   // Sparse index (bỏ qua document thiếu field)
}

// EnsureIndexes tạo các index cho collection nếu chưa tồn tại.
// Mongo bỏ qua CreateIndexes khi index đã có sẵn với cùng cấu hình.
func EnsureIndexes(ctx context.Context, col *mongo.Collection, specs []IndexSpec) error {
	if len(specs) == 0 {
		return nil
	}

	models := make([]mongo.IndexModel, 0, len(specs))
	for _, spec := range specs {
		opts := options.Index()
		if spec.Unique {
			opts.SetUnique(true)
		}
		if spec.Sparse {
			opts.SetSparse(true)
		}
		models = append(models, mongo.IndexModel{Keys: spec.Keys, Options: opts})
	}

	if _, err := col.Indexes().CreateMany(ctx, models); err != nil {
		logger.GetAppLogger().WithError(err).Errorf("Failed to create indexes for collection %s", col.Name())
		return err
	}

	logger.GetAppLogger().Infof("Ensured %d indexes for collection %s", len(specs), col.Name())
	return nil
}
