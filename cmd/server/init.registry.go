package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"qrapp/config"
	"qrapp/internal/database"
	"qrapp/internal/global"
)

func InitRegistry() {
	// Khởi tạo registry và đăng ký các collections
	err := InitCollections(global.MongoDB_Session, global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.Info("Initialized collection registry")

	if err := ensureIndexes(); err != nil {
		logrus.Fatalf("Failed to ensure indexes: %v", err)
	}
	logrus.Info("Ensured collection indexes")
}

// InitCollections khởi tạo và đăng ký các collections MongoDB
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	db := client.Database(cfg.MongoDB_DBName)
	names := global.MongoDB_ColNames
	colNames := []string{
		names.Users, names.Permissions, names.Groups,
		names.Businesses, names.BusinessTypes, names.Plans,
		names.Branches, names.Areas, names.ServiceUnits, names.Payments,
		names.Categories, names.SubCategories, names.Products,
		names.Requests, names.Orders, names.ExtendOrders,
	}

	for _, name := range colNames {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			logrus.Errorf("Failed to register collection %s: %v", name, err)
			return err
		}

		if registered {
			logrus.Infof("Collection %s registered successfully", name)
		} else {
			logrus.Errorf("Collection %s already registered", name)
		}
	}

	return nil
}

// ensureIndexes tạo index cho các collection.
// Unique index chặn trùng lặp ở tầng dữ liệu (username, code quyền,
// tài khoản thanh toán theo doanh nghiệp, đơn hàng theo yêu cầu).
func ensureIndexes() error {
	ctx := context.Background()
	names := global.MongoDB_ColNames

	specs := map[string][]database.IndexSpec{
		names.Users: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Unique: true},
			{Keys: bson.D{{Key: "scope", Value: 1}}, Sparse: true},
		},
		names.Permissions: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Unique: true},
		},
		names.Groups: {
			{Keys: bson.D{{Key: "business", Value: 1}}},
		},
		names.Businesses: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		names.Branches: {
			{Keys: bson.D{{Key: "business", Value: 1}}},
		},
		names.Areas: {
			{Keys: bson.D{{Key: "branch", Value: 1}}},
		},
		names.ServiceUnits: {
			{Keys: bson.D{{Key: "area", Value: 1}}},
		},
		names.Payments: {
			// Tài khoản hệ thống không gắn doanh nghiệp nên index phải sparse
			{Keys: bson.D{{Key: "business", Value: 1}}, Unique: true, Sparse: true},
		},
		names.Categories: {
			{Keys: bson.D{{Key: "business", Value: 1}}},
		},
		names.SubCategories: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		names.Products: {
			{Keys: bson.D{{Key: "business", Value: 1}}},
		},
		names.Requests: {
			{Keys: bson.D{{Key: "business", Value: 1}, {Key: "branch", Value: 1}, {Key: "status", Value: 1}}},
		},
		names.Orders: {
			// Mỗi yêu cầu chỉ chốt được một đơn hàng
			{Keys: bson.D{{Key: "request", Value: 1}}, Unique: true},
			{Keys: bson.D{{Key: "business", Value: 1}, {Key: "branch", Value: 1}}},
		},
		names.ExtendOrders: {
			{Keys: bson.D{{Key: "business", Value: 1}}},
		},
	}

	for name, colSpecs := range specs {
		collection, exist := global.RegistryCollections.Get(name)
		if !exist {
			logrus.Errorf("Collection %s not found in registry", name)
			continue
		}
		if err := database.EnsureIndexes(ctx, collection, colSpecs); err != nil {
			return err
		}
	}
	return nil
}
