package notification

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeConn ghi lại các sự kiện đã nhận, có thể giả lập lỗi gửi
type fakeConn struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (f *fakeConn) Send(event Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("connection closed")
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeConn) received() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()

	// Nhân viên chi nhánh 1, có quyền nhận yêu cầu
	staffConn := &fakeConn{}
	hub.Register(&Subscriber{
		UserID:      "staff1",
		Business:    "biz1",
		Branch:      "branch1",
		Permissions: map[string]bool{"receive.request": true},
		Conn:        staffConn,
	})

	// Nhân viên chi nhánh 2 - khác chi nhánh, không được nhận
	otherBranchConn := &fakeConn{}
	hub.Register(&Subscriber{
		UserID:      "staff2",
		Business:    "biz1",
		Branch:      "branch2",
		Permissions: map[string]bool{"receive.request": true},
		Conn:        otherBranchConn,
	})

	// Chủ doanh nghiệp - phạm vi toàn doanh nghiệp, luôn nhận
	ownerConn := &fakeConn{}
	hub.Register(&Subscriber{
		UserID:      "owner",
		Business:    "biz1",
		Branch:      "",
		Permissions: map[string]bool{"receive.request": true},
		Conn:        ownerConn,
	})

	// Doanh nghiệp khác - không được nhận
	outsiderConn := &fakeConn{}
	hub.Register(&Subscriber{
		UserID:      "outsider",
		Business:    "biz2",
		Branch:      "branch1",
		Permissions: map[string]bool{"receive.request": true},
		Conn:        outsiderConn,
	})

	// Không có quyền - không được nhận
	noPermConn := &fakeConn{}
	hub.Register(&Subscriber{
		UserID:      "nobody",
		Business:    "biz1",
		Branch:      "branch1",
		Permissions: map[string]bool{},
		Conn:        noPermConn,
	})

	hub.Broadcast(Event{Message: "ORDER mang thêm nước"}, "biz1", "branch1", "receive.request")

	assert.Len(t, staffConn.received(), 1, "nhân viên đúng chi nhánh phải nhận được sự kiện")
	assert.Len(t, ownerConn.received(), 1, "chủ doanh nghiệp phải nhận được sự kiện")
	assert.Empty(t, otherBranchConn.received(), "nhân viên khác chi nhánh không được nhận")
	assert.Empty(t, outsiderConn.received(), "doanh nghiệp khác không được nhận")
	assert.Empty(t, noPermConn.received(), "thiếu quyền không được nhận")
}

func TestHubNotifyDirect(t *testing.T) {
	hub := NewHub()

	conn := &fakeConn{}
	hub.Register(&Subscriber{
		UserID:   "staff1",
		Business: "biz1",
		Conn:     conn,
	})

	// Notify bỏ qua mọi bộ lọc phạm vi
	ok := hub.Notify(Event{Message: "Yêu cầu đã được xử lí"}, "staff1")
	assert.True(t, ok)
	assert.Len(t, conn.received(), 1)

	// User không có kết nối
	ok = hub.Notify(Event{Message: "hello"}, "unknown")
	assert.False(t, ok)
}

func TestHubDropsFailedConn(t *testing.T) {
	hub := NewHub()

	conn := &fakeConn{fail: true}
	hub.Register(&Subscriber{
		UserID:      "staff1",
		Business:    "biz1",
		Permissions: map[string]bool{"receive.request": true},
		Conn:        conn,
	})

	hub.Broadcast(Event{Message: "test"}, "biz1", "", "receive.request")
	assert.Equal(t, 0, hub.Count(), "kết nối lỗi phải bị gỡ khỏi hub")
}

// reconnectingConn giả lập client đăng ký lại kết nối mới
// ngay trước khi lần gửi trên kết nối cũ thất bại
type reconnectingConn struct {
	hub     *Hub
	userID  string
	newConn *fakeConn
}

func (c *reconnectingConn) Send(event Event) error {
	c.hub.Register(&Subscriber{
		UserID:      c.userID,
		Business:    "biz1",
		Permissions: map[string]bool{"receive.request": true},
		Conn:        c.newConn,
	})
	return errors.New("connection closed")
}

func TestHubKeepsReplacementConnOnFailedSend(t *testing.T) {
	hub := NewHub()

	// Kết nối cũ thất bại sau khi kết nối mới đã đăng ký đè lên;
	// việc gỡ kết nối lỗi không được kéo theo kết nối mới
	newConn := &fakeConn{}
	hub.Register(&Subscriber{
		UserID:      "staff1",
		Business:    "biz1",
		Permissions: map[string]bool{"receive.request": true},
		Conn:        &reconnectingConn{hub: hub, userID: "staff1", newConn: newConn},
	})

	hub.Broadcast(Event{Message: "test"}, "biz1", "", "receive.request")

	assert.Equal(t, 1, hub.Count(), "kết nối mới phải còn trong hub")
	ok := hub.Notify(Event{Message: "hi"}, "staff1")
	assert.True(t, ok)
	assert.Len(t, newConn.received(), 1)
}

func TestHubRegisterReplacesOldConn(t *testing.T) {
	hub := NewHub()

	oldConn := &fakeConn{}
	newConn := &fakeConn{}
	hub.Register(&Subscriber{UserID: "staff1", Business: "biz1", Conn: oldConn})
	hub.Register(&Subscriber{UserID: "staff1", Business: "biz1", Conn: newConn})

	assert.Equal(t, 1, hub.Count())
	hub.Notify(Event{Message: "hi"}, "staff1")
	assert.Empty(t, oldConn.received())
	assert.Len(t, newConn.received(), 1)
}
