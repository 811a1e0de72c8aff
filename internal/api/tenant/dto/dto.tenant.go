// Package dto - cấu trúc request cho domain tenant.
package dto

// RegisterBusinessInput đăng ký doanh nghiệp kèm tài khoản chủ
type RegisterBusinessInput struct {
	BusinessName    string `json:"businessName" validate:"required"`
	BusinessAddress string `json:"businessAddress" validate:"required"`
	BusinessContact string `json:"businessContact" validate:"required"`
	BusinessTaxCode string `json:"businessTaxCode" validate:"omitempty"`
	BusinessType    string `json:"businessType" validate:"required,len=24"`
	OwnerName       string `json:"ownerName" validate:"required"`
	OwnerContact    string `json:"ownerContact" validate:"omitempty"`
	Username        string `json:"username" validate:"required,min=4"`
	Password        string `json:"password" validate:"required,strong_password"`
	Email           string `json:"email" validate:"omitempty,email"`
}

// UpdateBusinessInput sửa thông tin doanh nghiệp
type UpdateBusinessInput struct {
	Name    string `json:"name" validate:"omitempty"`
	Address string `json:"address" validate:"omitempty"`
	Contact string `json:"contact" validate:"omitempty"`
}

// ExtendBusinessInput gia hạn doanh nghiệp theo số ngày
type ExtendBusinessInput struct {
	ID   string `json:"id" validate:"required,len=24"`
	Days int    `json:"days" validate:"required,gt=0"`
}

// CreateBusinessTypeInput tạo loại hình doanh nghiệp
type CreateBusinessTypeInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"omitempty"`
}

// CreatePlanInput tạo gói gia hạn
type CreatePlanInput struct {
	Name   string `json:"name" validate:"required"`
	Period int    `json:"period" validate:"required,gt=0"`
	Price  int64  `json:"price" validate:"required,gt=0"`
}

// CreateBranchInput tạo chi nhánh trong doanh nghiệp của người gọi
type CreateBranchInput struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Contact string `json:"contact" validate:"omitempty"`
}

// UpdateBranchInput sửa thông tin chi nhánh
type UpdateBranchInput struct {
	Name    string `json:"name" validate:"omitempty"`
	Address string `json:"address" validate:"omitempty"`
	Contact string `json:"contact" validate:"omitempty"`
}

// CreateAreaInput tạo khu vực trong chi nhánh
type CreateAreaInput struct {
	Name   string `json:"name" validate:"required"`
	Branch string `json:"branch" validate:"required,len=24"`
}

// UpdateAreaInput sửa tên khu vực
type UpdateAreaInput struct {
	Name string `json:"name" validate:"required"`
}

// CreateUnitInput tạo đơn vị phục vụ trong khu vực
type CreateUnitInput struct {
	Name string `json:"name" validate:"required"`
	Area string `json:"area" validate:"required,len=24"`
}

// CreatePaymentInput thêm tài khoản nhận thanh toán
type CreatePaymentInput struct {
	BankCode      string `json:"bankCode" validate:"required"`
	AccountNumber string `json:"accountNumber" validate:"required"`
	AccountName   string `json:"accountName" validate:"required"`
}
