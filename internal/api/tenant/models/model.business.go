// Package models - model doanh nghiệp và loại hình, gói dịch vụ.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BusinessType là loại hình doanh nghiệp (nhà hàng, cafe, khách sạn, ...)
type BusinessType struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// Plan là gói gia hạn sử dụng dịch vụ
type Plan struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Period    int                `json:"period" bson:"period"` // Số ngày gia hạn
	Price     int64              `json:"price" bson:"price"`   // Giá gói (VND)
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// Business là một doanh nghiệp (tenant) trong hệ thống.
// ExpiredAt là thời điểm hết hạn gói dịch vụ (UnixMilli).
type Business struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string              `json:"name" bson:"name"`
	Address      string              `json:"address" bson:"address"`
	Contact      string              `json:"contact" bson:"contact"`
	TaxCode      string              `json:"taxCode,omitempty" bson:"taxCode,omitempty"`
	BusinessType primitive.ObjectID  `json:"businessType" bson:"businessType"`
	Owner        *primitive.ObjectID `json:"owner,omitempty" bson:"owner,omitempty"`
	Available    bool                `json:"available" bson:"available"`
	ExpiredAt    int64               `json:"expiredAt" bson:"expiredAt"`
	CreatedAt    int64               `json:"createdAt" bson:"createdAt"`
	UpdatedAt    int64               `json:"updatedAt" bson:"updatedAt"`
}
