// Package dto - input cho các endpoint yêu cầu.
package dto

import (
	catalogsvc "qrapp/internal/api/catalog/service"
)

// CreateRequestInput là body khách gửi khi tạo yêu cầu từ điểm phục vụ
type CreateRequestInput struct {
	Type   string                 `json:"type" validate:"required,oneof=ORDER ASSISTANCE PAYMENT"`
	Reason string                 `json:"reason" validate:"omitempty,max=500"`
	Data   []catalogsvc.OrderItem `json:"data" validate:"omitempty,dive"`
	Unit   string                 `json:"unit" validate:"required,len=24"`
	Area   string                 `json:"area" validate:"required,len=24"`
}
