// Package models - model danh mục và sản phẩm.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category là danh mục sản phẩm của doanh nghiệp
type Category struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Business    primitive.ObjectID `json:"business" bson:"business"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// SubCategory là phân loại chi tiết trong một danh mục
type SubCategory struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Category    primitive.ObjectID `json:"category" bson:"category"`
	Business    primitive.ObjectID `json:"business" bson:"business"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// Option là một lựa chọn có giá của sản phẩm:
// biến thể (size M, size L) hoặc tùy chọn thêm (topping).
type Option struct {
	Type  string `json:"type" bson:"type"`
	Price int64  `json:"price" bson:"price"`
}

// Product là sản phẩm trong thực đơn.
// Variants là các biến thể loại trừ lẫn nhau, Options là tùy chọn cộng thêm.
type Product struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Variants    []Option           `json:"variants" bson:"variants"`
	Options     []Option           `json:"options" bson:"options"`
	ImageURL    string             `json:"imgUrl,omitempty" bson:"imgUrl,omitempty"`
	SubCategory primitive.ObjectID `json:"subcategory" bson:"subcategory"`
	Category    primitive.ObjectID `json:"category" bson:"category"`
	Business    primitive.ObjectID `json:"business" bson:"business"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// HasVariant kiểm tra variant có nằm trong các biến thể khai báo không
func (p *Product) HasVariant(variant string) bool {
	for _, v := range p.Variants {
		if v.Type == variant {
			return true
		}
	}
	return false
}

// HasOption kiểm tra option có nằm trong các tùy chọn khai báo không
func (p *Product) HasOption(option string) bool {
	for _, o := range p.Options {
		if o.Type == option {
			return true
		}
	}
	return false
}
