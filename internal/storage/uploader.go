// Package storage cung cấp contract lưu trữ file (ảnh thanh toán của đơn gia hạn).
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Uploader lưu một object và trả về URL truy cập công khai
type Uploader interface {
	Upload(objectName string, content []byte, contentType string) (string, error)
}

// LocalUploader lưu file vào thư mục trên đĩa, phục vụ qua static route
type LocalUploader struct {
	dir     string
	baseURL string
}

// NewLocalUploader tạo uploader lưu vào dir, trả URL dưới baseURL
func NewLocalUploader(dir string, baseURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalUploader{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload ghi content vào file objectName và trả về URL
func (u *LocalUploader) Upload(objectName string, content []byte, contentType string) (string, error) {
	// objectName có thể chứa thư mục con, ví dụ "transaction/{userID}_{filename}"
	objectName = strings.TrimLeft(filepath.ToSlash(objectName), "/")
	fullPath := filepath.Join(u.dir, filepath.FromSlash(objectName))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	return u.baseURL + "/" + objectName, nil
}
