// Package models - model người dùng (User) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các vai trò trong hệ thống
const (
	RoleAdmin         = "Admin"         // Quản trị hệ thống, không thuộc doanh nghiệp nào
	RoleBusinessOwner = "BusinessOwner" // Chủ doanh nghiệp, phạm vi toàn doanh nghiệp
	RoleStaff         = "Staff"         // Nhân viên, phạm vi một chi nhánh
)

// User định nghĩa mô hình người dùng.
// Scope là doanh nghiệp người dùng thuộc về (nil với Admin).
// Branch là chi nhánh người dùng làm việc (nil với Admin và BusinessOwner).
type User struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Username    string               `json:"username" bson:"username"`
	Password    string               `json:"-" bson:"password,omitempty"`
	Role        string               `json:"role" bson:"role"`
	Available   bool                 `json:"available" bson:"available"`
	Scope       *primitive.ObjectID  `json:"scope,omitempty" bson:"scope,omitempty"`
	Branch      *primitive.ObjectID  `json:"branch,omitempty" bson:"branch,omitempty"`
	Permissions []primitive.ObjectID `json:"permissions" bson:"permissions"`
	Groups      []primitive.ObjectID `json:"groups" bson:"groups"`
	Email       string               `json:"email,omitempty" bson:"email,omitempty"`
	Phone       string               `json:"phone,omitempty" bson:"phone,omitempty"`
	ImageURL    string               `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	CreatedAt   int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                `json:"updatedAt" bson:"updatedAt"`
}

// TenantWide cho biết người dùng có phạm vi toàn doanh nghiệp không
// (không bị giới hạn theo chi nhánh)
func (u *User) TenantWide() bool {
	return u.Branch == nil
}
