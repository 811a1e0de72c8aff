package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVietQRGenerator_Generate(t *testing.T) {
	generator := NewVietQRGenerator("https://img.vietqr.io/image/")

	url := generator.Generate("VCB", "0123456789", "CONG TY QRAPP", 150000, "Thanh toan don 1")

	assert.Contains(t, url, "https://img.vietqr.io/image/VCB-0123456789-compact.png?")
	assert.Contains(t, url, "amount=150000")
	assert.Contains(t, url, "accountName=CONG+TY+QRAPP")
	assert.Contains(t, url, "addInfo=Thanh+toan+don+1")
}
