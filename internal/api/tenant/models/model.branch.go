// Package models - model chi nhánh, khu vực, đơn vị phục vụ.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Branch là chi nhánh của doanh nghiệp.
// Tên chi nhánh duy nhất trong phạm vi một doanh nghiệp (unique index kép).
type Branch struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Address   string             `json:"address" bson:"address"`
	Contact   string             `json:"contact" bson:"contact"`
	Business  primitive.ObjectID `json:"business" bson:"business"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// Area là khu vực trong chi nhánh (tầng, sảnh, khu ngoài trời, ...)
type Area struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Branch    primitive.ObjectID `json:"branch" bson:"branch"`
	Business  primitive.ObjectID `json:"business" bson:"business"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// ServiceUnit là đơn vị phục vụ trong khu vực (bàn, phòng, quầy).
// QRCode là link khách quét để gọi dịch vụ tại đơn vị này.
type ServiceUnit struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	QRCode    string             `json:"qrCode,omitempty" bson:"qrCode,omitempty"`
	Available bool               `json:"available" bson:"available"`
	Area      primitive.ObjectID `json:"area" bson:"area"`
	Branch    primitive.ObjectID `json:"branch" bson:"branch"`
	Business  primitive.ObjectID `json:"business" bson:"business"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// Payment là thông tin tài khoản nhận thanh toán.
// Business nil là tài khoản hệ thống (nhận tiền gia hạn gói).
type Payment struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	BankCode      string              `json:"bankCode" bson:"bankCode"`
	AccountNumber string              `json:"accountNumber" bson:"accountNumber"`
	AccountName   string              `json:"accountName" bson:"accountName"`
	Business      *primitive.ObjectID `json:"business,omitempty" bson:"business,omitempty"`
	CreatedAt     int64               `json:"createdAt" bson:"createdAt"`
	UpdatedAt     int64               `json:"updatedAt" bson:"updatedAt"`
}
