package global

import (
	"qrapp/config"
	"qrapp/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	// Auth
	Users       string // Tên collection cho người dùng
	Permissions string // Tên collection cho quyền
	Groups      string // Tên collection cho nhóm người dùng

	// Tenant
	Businesses    string // Tên collection cho doanh nghiệp
	BusinessTypes string // Tên collection cho loại hình doanh nghiệp
	Plans         string // Tên collection cho gói đăng ký
	Branches      string // Tên collection cho chi nhánh
	Areas         string // Tên collection cho khu vực
	ServiceUnits  string // Tên collection cho đơn vị phục vụ (bàn, phòng)
	Payments      string // Tên collection cho thông tin thanh toán của doanh nghiệp

	// Catalog
	Categories    string // Tên collection cho danh mục
	SubCategories string // Tên collection cho danh mục con
	Products      string // Tên collection cho sản phẩm

	// Request / Order
	Requests     string // Tên collection cho yêu cầu từ khách
	Orders       string // Tên collection cho đơn hàng
	ExtendOrders string // Tên collection cho đơn gia hạn dịch vụ
}

// Các biến toàn cục
var Validate *validator.Validate               // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client              // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionName    // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
