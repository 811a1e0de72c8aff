// Package models - model yêu cầu của khách tại điểm phục vụ.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	catalogsvc "qrapp/internal/api/catalog/service"
)

// RequestType là loại yêu cầu khách gửi từ điểm phục vụ
type RequestType string

const (
	TypeOrder      RequestType = "ORDER"      // Đặt món
	TypeAssistance RequestType = "ASSISTANCE" // Gọi nhân viên hỗ trợ
	TypePayment    RequestType = "PAYMENT"    // Yêu cầu thanh toán
)

// Valid kiểm tra loại yêu cầu có được hỗ trợ không
func (t RequestType) Valid() bool {
	switch t {
	case TypeOrder, TypeAssistance, TypePayment:
		return true
	}
	return false
}

// RequestStatus là trạng thái xử lý của yêu cầu.
// Trạng thái chỉ đi một chiều: WAITING -> IN_PROGRESS -> COMPLETED.
type RequestStatus string

const (
	StatusWaiting    RequestStatus = "WAITING"
	StatusInProgress RequestStatus = "IN_PROGRESS"
	StatusCompleted  RequestStatus = "COMPLETED"
)

// Next trả về trạng thái kế tiếp; false nếu đã ở trạng thái cuối
func (s RequestStatus) Next() (RequestStatus, bool) {
	switch s {
	case StatusWaiting:
		return StatusInProgress, true
	case StatusInProgress:
		return StatusCompleted, true
	}
	return s, false
}

// Request là một yêu cầu khách gửi từ điểm phục vụ.
// Data chỉ có nội dung khi Type là ORDER; Staff chỉ được gán khi
// một nhân viên đã nhận xử lý yêu cầu.
type Request struct {
	ID          primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	Type        RequestType            `json:"type" bson:"type"`
	Reason      string                 `json:"reason,omitempty" bson:"reason,omitempty"`
	Data        []catalogsvc.OrderItem `json:"data,omitempty" bson:"data,omitempty"`
	ServiceUnit primitive.ObjectID     `json:"serviceUnit" bson:"serviceUnit"`
	Area        primitive.ObjectID     `json:"area" bson:"area"`
	Branch      primitive.ObjectID     `json:"branch" bson:"branch"`
	Business    primitive.ObjectID     `json:"business" bson:"business"`
	Status      RequestStatus          `json:"status" bson:"status"`
	Staff       *primitive.ObjectID    `json:"staff,omitempty" bson:"staff,omitempty"`
	CreatedAt   int64                  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                  `json:"updatedAt" bson:"updatedAt"`
}
