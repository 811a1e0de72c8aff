// Package models - model đơn hàng và đơn gia hạn dịch vụ.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	catalogsvc "qrapp/internal/api/catalog/service"
)

// OrderStatus là trạng thái thanh toán của đơn
type OrderStatus string

const (
	StatusUnpaid OrderStatus = "UNPAID"
	StatusPaid   OrderStatus = "PAID"
)

// Phương thức thanh toán của đơn hàng
const (
	PaymentCash     = "CASH"
	PaymentTransfer = "TRANSFER"
)

// Order là đơn hàng được nhân viên chốt từ một yêu cầu đặt món của khách.
// Amount được tính tại thời điểm chốt đơn theo giá hiện hành của thực đơn,
// không đổi khi giá sản phẩm thay đổi về sau.
type Order struct {
	ID            primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	Items         []catalogsvc.OrderItem `json:"items" bson:"items"`
	Amount        int64                  `json:"amount" bson:"amount"`
	PaymentMethod string                 `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	Status        OrderStatus            `json:"status" bson:"status"`
	Request       primitive.ObjectID     `json:"request" bson:"request"`
	ServiceUnit   primitive.ObjectID     `json:"serviceUnit" bson:"serviceUnit"`
	Area          primitive.ObjectID     `json:"area" bson:"area"`
	Branch        primitive.ObjectID     `json:"branch" bson:"branch"`
	Business      primitive.ObjectID     `json:"business" bson:"business"`
	Staff         primitive.ObjectID     `json:"staff" bson:"staff"`
	CreatedAt     int64                  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     int64                  `json:"updatedAt" bson:"updatedAt"`
}

// ExtendOrder là đơn gia hạn dịch vụ: chủ doanh nghiệp chọn gói, chuyển khoản
// và gửi ảnh chứng từ; Admin duyệt thì thời hạn doanh nghiệp được cộng thêm.
type ExtendOrder struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Business  primitive.ObjectID `json:"business" bson:"business"`
	Plan      primitive.ObjectID `json:"plan" bson:"plan"`
	ImageURL  string             `json:"imgUrl" bson:"imgUrl"`
	Status    OrderStatus        `json:"status" bson:"status"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
