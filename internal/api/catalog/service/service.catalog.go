// Package service - tra cứu thực đơn và kiểm tra tính hợp lệ của món đặt.
package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	basesvc "qrapp/internal/api/base/service"
	"qrapp/internal/api/catalog/models"
	"qrapp/internal/common"
	"qrapp/internal/utility"
)

// OrderItem là một món trong yêu cầu đặt hàng của khách
type OrderItem struct {
	ProductID string   `json:"_id" bson:"_id" validate:"required,len=24"`
	Variant   string   `json:"variant" bson:"variant" validate:"required"`
	Options   []string `json:"options" bson:"options"`
	Quantity  int      `json:"quantity" bson:"quantity" validate:"omitempty,gt=0"`
}

// CategoryService quản lý danh mục sản phẩm
type CategoryService struct {
	*basesvc.BaseServiceMongoImpl[models.Category]
}

// NewCategoryService tạo CategoryService trên collection danh mục
func NewCategoryService(collection *mongo.Collection) *CategoryService {
	return &CategoryService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Category](collection),
	}
}

// SubCategoryService quản lý phân loại chi tiết
type SubCategoryService struct {
	*basesvc.BaseServiceMongoImpl[models.SubCategory]
}

// NewSubCategoryService tạo SubCategoryService trên collection phân loại
func NewSubCategoryService(collection *mongo.Collection) *SubCategoryService {
	return &SubCategoryService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.SubCategory](collection),
	}
}

// ProductService tra cứu sản phẩm và kiểm tra món đặt
type ProductService struct {
	*basesvc.BaseServiceMongoImpl[models.Product]
}

// NewProductService tạo ProductService trên collection sản phẩm
func NewProductService(collection *mongo.Collection) *ProductService {
	return &ProductService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Product](collection),
	}
}

// FindByBusiness liệt kê sản phẩm của một doanh nghiệp
func (s *ProductService) FindByBusiness(ctx context.Context, business primitive.ObjectID) ([]models.Product, error) {
	return s.Find(ctx, bson.M{"business": business}, nil)
}

// productLookup tra cứu sản phẩm theo danh sách id, cho phép inject fake khi test
type productLookup interface {
	FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
}

// OrderValidator kiểm tra danh sách món đặt trước khi tạo yêu cầu
type OrderValidator struct {
	products productLookup
}

// NewOrderValidator tạo validator trên service sản phẩm
func NewOrderValidator(products productLookup) *OrderValidator {
	return &OrderValidator{products: products}
}

// errInvalidOrder là lỗi chung cho mọi vi phạm của đơn: không phân biệt
// để tránh tiết lộ sản phẩm nào tồn tại
var errInvalidOrder = common.NewError(
	common.ErrCodeValidationInput,
	"Kiểm tra thông tin đơn hàng",
	common.StatusBadRequest,
	nil,
)

// Validate kiểm tra từng món: sản phẩm phải tồn tại, variant phải nằm trong
// biến thể khai báo, mọi option phải nằm trong tùy chọn khai báo.
// Trả về lỗi validation, không ghi gì vào database.
func (v *OrderValidator) Validate(ctx context.Context, items []OrderItem) error {
	_, err := v.Price(ctx, items)
	return err
}

// Price kiểm tra đơn như Validate và tính tổng tiền theo giá hiện hành:
// giá variant cộng giá các option, nhân số lượng (số lượng 0 tính là 1)
func (v *OrderValidator) Price(ctx context.Context, items []OrderItem) (int64, error) {
	if len(items) == 0 {
		return 0, errInvalidOrder
	}

	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		id := utility.String2ObjectID(item.ProductID)
		if id.IsZero() {
			return 0, errInvalidOrder
		}
		ids = append(ids, id)
	}

	products, err := v.products.FindManyByIds(ctx, utility.Unique(ids))
	if err != nil {
		return 0, err
	}

	productMap := make(map[string]*models.Product, len(products))
	for i := range products {
		productMap[products[i].ID.Hex()] = &products[i]
	}

	var total int64
	for _, item := range items {
		product, found := productMap[item.ProductID]
		if !found {
			return 0, errInvalidOrder
		}

		var price int64
		priced := false
		for _, variant := range product.Variants {
			if variant.Type == item.Variant {
				price = variant.Price
				priced = true
				break
			}
		}
		if !priced {
			return 0, errInvalidOrder
		}

		for _, option := range item.Options {
			if !product.HasOption(option) {
				return 0, errInvalidOrder
			}
			for _, declared := range product.Options {
				if declared.Type == option {
					price += declared.Price
					break
				}
			}
		}

		quantity := int64(item.Quantity)
		if quantity < 1 {
			quantity = 1
		}
		total += price * quantity
	}

	return total, nil
}
