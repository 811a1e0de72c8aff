// Package dto - input cho các endpoint đơn hàng và gia hạn.
package dto

// CreateOrderInput là body chốt đơn từ một yêu cầu đặt món
type CreateOrderInput struct {
	Request       string `json:"request" validate:"required,len=24"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=CASH TRANSFER"`
}

// CreateExtendOrderInput là phần form-data kèm ảnh chứng từ khi gửi đơn gia hạn
type CreateExtendOrderInput struct {
	Plan string `form:"plan" validate:"required,len=24"`
}
