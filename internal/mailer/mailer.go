// Package mailer gửi email giao dịch (xác thực tài khoản, đặt lại mật khẩu) qua SMTP.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"qrapp/config"
	"qrapp/internal/logger"
)

// Mailer là contract gửi email, cho phép thay bằng fake trong test
type Mailer interface {
	Send(to string, subject string, templateName string, data map[string]interface{}) error
}

// SMTPMailer gửi email qua SMTP dialer
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer tạo mailer từ cấu hình SMTP
func NewSMTPMailer(cfg *config.Configuration) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}
}

// Các template email. Mỗi template nhận data map để render.
var templates = map[string]*template.Template{
	"reset_password": template.Must(template.New("reset_password").Parse(`
<p>Xin chào {{.Name}},</p>
<p>Bạn vừa yêu cầu đặt lại mật khẩu. Nhấn vào liên kết bên dưới để tiếp tục:</p>
<p><a href="{{.ResetURL}}" style="display:inline-block;padding:10px 20px;text-decoration:none;border-radius:5px;background-color:#007bff;color:#fff;">Đặt lại mật khẩu</a></p>
<p>Liên kết có hiệu lực trong {{.ExpireMinutes}} phút. Nếu không phải bạn yêu cầu, vui lòng bỏ qua email này.</p>
`)),
	"staff_welcome": template.Must(template.New("staff_welcome").Parse(`
<p>Xin chào {{.Name}},</p>
<p>Tài khoản nhân viên của bạn đã được tạo.</p>
<p>Tên đăng nhập: <b>{{.Username}}</b></p>
<p>Vui lòng đăng nhập và đổi mật khẩu ngay lần đầu sử dụng.</p>
`)),
}

// Send render template và gửi email
func (m *SMTPMailer) Send(to string, subject string, templateName string, data map[string]interface{}) error {
	tmpl, ok := templates[templateName]
	if !ok {
		return fmt.Errorf("email template not found: %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template %s: %w", templateName, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		logger.WithModule("mailer").WithFields(map[string]interface{}{
			"to":       to,
			"template": templateName,
			"error":    err.Error(),
		}).Error("✉️ [MAILER] Gửi email thất bại")
		return err
	}

	return nil
}
