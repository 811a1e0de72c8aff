// Package notification cung cấp hub quản lý các kết nối realtime
// và phát sự kiện tới người dùng theo phạm vi doanh nghiệp/chi nhánh/quyền.
package notification

// Event là một sự kiện gửi tới client qua kết nối realtime
type Event struct {
	Message string      `json:"message"`           // Nội dung thông báo
	Request string      `json:"request,omitempty"` // ID yêu cầu liên quan (nếu có)
	Data    interface{} `json:"data,omitempty"`    // Payload kèm theo
}
