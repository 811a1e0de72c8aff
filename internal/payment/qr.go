// Package payment sinh mã QR thanh toán chuyển khoản cho bước checkout.
package payment

import (
	"fmt"
	"net/url"
	"strings"
)

// QRGenerator sinh URL ảnh mã QR thanh toán từ thông tin tài khoản
type QRGenerator interface {
	Generate(bankCode string, accountNumber string, accountName string, amount int64, description string) string
}

// VietQRGenerator sinh URL ảnh QR theo định dạng VietQR
type VietQRGenerator struct {
	endpoint string
}

// NewVietQRGenerator tạo generator với endpoint ảnh VietQR
func NewVietQRGenerator(endpoint string) *VietQRGenerator {
	return &VietQRGenerator{endpoint: strings.TrimRight(endpoint, "/")}
}

// Generate trả về URL ảnh QR cho giao dịch chuyển khoản
func (g *VietQRGenerator) Generate(bankCode string, accountNumber string, accountName string, amount int64, description string) string {
	query := url.Values{}
	query.Set("amount", fmt.Sprintf("%d", amount))
	query.Set("addInfo", description)
	query.Set("accountName", accountName)

	return fmt.Sprintf("%s/%s-%s-compact.png?%s", g.endpoint, bankCode, accountNumber, query.Encode())
}
