// Package handler - kênh realtime Server-Sent Events cho nhân viên.
package handler

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"

	basehdl "qrapp/internal/api/base/handler"
	"qrapp/internal/api/middleware"
	"qrapp/internal/common"
	"qrapp/internal/logger"
	"qrapp/internal/notification"
)

const (
	// eventBuffer là số sự kiện tối đa chờ trong hàng đợi của một kết nối.
	// Kết nối tiêu thụ chậm hơn sẽ bị gỡ thay vì chặn hub.
	eventBuffer = 16

	heartbeatInterval = 30 * time.Second
)

// sseConn đẩy sự kiện vào hàng đợi của một kết nối SSE
type sseConn struct {
	events chan notification.Event
}

func (c *sseConn) Send(event notification.Event) error {
	select {
	case c.events <- event:
		return nil
	default:
		return errors.New("event queue full")
	}
}

// StreamHandler phục vụ endpoint nhận thông báo realtime
type StreamHandler struct {
	hub *notification.Hub
}

// NewStreamHandler tạo StreamHandler trên hub
func NewStreamHandler(hub *notification.Hub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

// HandleStream mở kết nối SSE cho người dùng đã đăng nhập.
// Phạm vi nhận sự kiện lấy từ claims: doanh nghiệp, chi nhánh và các quyền
// đang giữ; hub lọc sự kiện theo đúng phạm vi đó.
func (h *StreamHandler) HandleStream(c fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	if claims == nil || claims.UserScope == nil {
		return basehdl.HandleResponse(c, nil, common.ErrForbidden)
	}

	permissions := make(map[string]bool, len(claims.UserPermissions))
	for _, code := range claims.UserPermissions {
		permissions[code] = true
	}
	branch := ""
	if claims.UserBranch != nil {
		branch = *claims.UserBranch
	}

	conn := &sseConn{events: make(chan notification.Event, eventBuffer)}
	h.hub.Register(&notification.Subscriber{
		UserID:      claims.UserID,
		Business:    *claims.UserScope,
		Branch:      branch,
		Permissions: permissions,
		Conn:        conn,
	})

	logger.WithModule("notification").WithFields(map[string]interface{}{
		"user_id": claims.UserID,
		"active":  h.hub.Count(),
	}).Info("📡 [STREAM] Mở kết nối realtime")

	userID := claims.UserID
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer h.hub.Unregister(userID)

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case event := <-conn.events:
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-heartbeat.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
