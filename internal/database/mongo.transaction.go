package database

import (
	"context"

	"qrapp/internal/common"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// WithTransaction chạy fn trong một transaction MongoDB.
// Toàn bộ thao tác trong fn phải dùng SessionContext được truyền vào
// để cùng commit hoặc cùng rollback.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return common.ConvertMongoError(err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := fn(sc); err != nil {
			return nil, err
		}
		return nil, nil
	}, txnOpts)

	if err != nil {
		// Giữ nguyên lỗi nghiệp vụ, chỉ convert lỗi driver
		if _, ok := err.(*common.Error); ok {
			return err
		}
		return common.ConvertMongoError(err)
	}
	return nil
}
