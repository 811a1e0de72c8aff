// Package service - quản lý phiên đăng nhập (session) của người dùng.
package service

import "sync"

// SessionStore lưu refresh token hiện hành của từng người dùng.
// Mỗi người dùng chỉ có một phiên hợp lệ tại một thời điểm:
// đăng nhập mới ghi đè phiên cũ, đăng xuất xóa phiên.
type SessionStore interface {
	// Set ghi refresh token hiện hành của user, thay thế phiên cũ nếu có
	Set(userID string, refreshToken string)
	// Get trả về refresh token hiện hành, ok = false nếu không có phiên
	Get(userID string) (token string, ok bool)
	// Delete xóa phiên của user
	Delete(userID string)
}

// MemorySessionStore lưu session trong bộ nhớ, an toàn cho goroutine
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]string
}

// NewMemorySessionStore tạo store session rỗng
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]string)}
}

func (s *MemorySessionStore) Set(userID string, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = refreshToken
}

func (s *MemorySessionStore) Get(userID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.sessions[userID]
	return token, ok
}

func (s *MemorySessionStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
