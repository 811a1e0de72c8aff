package notification

import (
	"sync"

	"qrapp/internal/logger"
)

// Conn là một kết nối realtime tới client.
// Send không được block lâu; lỗi gửi sẽ khiến kết nối bị gỡ khỏi hub.
type Conn interface {
	Send(event Event) error
}

// Subscriber mô tả một kết nối đã đăng ký cùng phạm vi của nó
type Subscriber struct {
	UserID      string          // ID người dùng sở hữu kết nối
	Business    string          // Phạm vi doanh nghiệp của người dùng
	Branch      string          // Phạm vi chi nhánh (rỗng = toàn doanh nghiệp)
	Permissions map[string]bool // Các quyền người dùng đang giữ
	Conn        Conn
}

// Hub quản lý các kết nối realtime đang hoạt động, thread-safe.
// Mỗi user chỉ giữ một kết nối; đăng ký mới sẽ thay thế kết nối cũ.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber // key: userID
}

// NewHub tạo một hub mới
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]*Subscriber),
	}
}

// Register đăng ký kết nối của một user vào hub
func (h *Hub) Register(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[sub.UserID] = sub
}

// Unregister gỡ kết nối của user khỏi hub
func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, userID)
}

// unregisterIfCurrent chỉ gỡ subscriber khi nó vẫn đang là kết nối đăng ký
// của user. User đăng ký lại giữa lúc chụp danh sách và lúc gửi lỗi
// sẽ không bị gỡ oan kết nối mới.
func (h *Hub) unregisterIfCurrent(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.subscribers[sub.UserID]; ok && current == sub {
		delete(h.subscribers, sub.UserID)
	}
}

// Broadcast phát sự kiện tới mọi kết nối thuộc doanh nghiệp business,
// giữ quyền permission và (nếu branch khác rỗng) thuộc đúng chi nhánh.
// Subscriber có phạm vi toàn doanh nghiệp (Branch rỗng) luôn nhận được.
// Gửi best-effort: kết nối lỗi bị gỡ khỏi hub, không chặn các kết nối khác.
func (h *Hub) Broadcast(event Event, business string, branch string, permission string) {
	h.mu.RLock()
	var targets []*Subscriber
	for _, sub := range h.subscribers {
		if sub.Business != business {
			continue
		}
		if branch != "" && sub.Branch != "" && sub.Branch != branch {
			continue
		}
		if permission != "" && !sub.Permissions[permission] {
			continue
		}
		targets = append(targets, sub)
	}
	h.mu.RUnlock()

	for _, sub := range targets {
		if err := sub.Conn.Send(event); err != nil {
			logger.WithModule("notification").WithFields(map[string]interface{}{
				"user_id": sub.UserID,
				"error":   err.Error(),
			}).Warn("📣 [HUB] Gửi sự kiện thất bại, gỡ kết nối")
			h.unregisterIfCurrent(sub)
		}
	}
}

// Notify gửi sự kiện trực tiếp tới một user, bỏ qua mọi bộ lọc phạm vi.
// Trả về false nếu user không có kết nối đang hoạt động.
func (h *Hub) Notify(event Event, userID string) bool {
	h.mu.RLock()
	sub, ok := h.subscribers[userID]
	h.mu.RUnlock()

	if !ok {
		return false
	}

	if err := sub.Conn.Send(event); err != nil {
		h.unregisterIfCurrent(sub)
		return false
	}
	return true
}

// Count trả về số kết nối đang hoạt động
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
