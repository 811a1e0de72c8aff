// Package service - test kiểm tra tính hợp lệ của món đặt.
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"qrapp/internal/api/catalog/models"
	"qrapp/internal/common"
)

type fakeProductLookup struct {
	products []models.Product
}

func (f *fakeProductLookup) FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	idSet := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	var found []models.Product
	for _, p := range f.products {
		if idSet[p.ID] {
			found = append(found, p)
		}
	}
	return found, nil
}

func TestOrderValidator_Validate(t *testing.T) {
	coffee := models.Product{
		ID:   primitive.NewObjectID(),
		Name: "Cà phê sữa",
		Variants: []models.Option{
			{Type: "Size M", Price: 30000},
			{Type: "Size L", Price: 35000},
		},
		Options: []models.Option{
			{Type: "Thêm đá", Price: 0},
			{Type: "Thêm sữa", Price: 5000},
		},
	}
	validator := NewOrderValidator(&fakeProductLookup{products: []models.Product{coffee}})
	ctx := context.Background()

	assertInvalid := func(t *testing.T, err error) {
		t.Helper()
		require.Error(t, err)
		var appErr *common.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.ErrCodeValidationInput.Code, appErr.Code.Code)
		assert.Equal(t, common.StatusBadRequest, appErr.StatusCode)
	}

	t.Run("đơn hợp lệ đi qua", func(t *testing.T) {
		err := validator.Validate(ctx, []OrderItem{
			{ProductID: coffee.ID.Hex(), Variant: "Size M", Options: []string{"Thêm sữa"}, Quantity: 2},
		})
		assert.NoError(t, err)
	})

	t.Run("tính tiền theo variant, option và số lượng", func(t *testing.T) {
		total, err := validator.Price(ctx, []OrderItem{
			{ProductID: coffee.ID.Hex(), Variant: "Size M", Options: []string{"Thêm sữa"}, Quantity: 2},
			{ProductID: coffee.ID.Hex(), Variant: "Size L"}, // số lượng 0 tính là 1
		})
		require.NoError(t, err)
		assert.Equal(t, int64((30000+5000)*2+35000), total)
	})

	t.Run("sản phẩm không tồn tại", func(t *testing.T) {
		err := validator.Validate(ctx, []OrderItem{
			{ProductID: primitive.NewObjectID().Hex(), Variant: "Size M"},
		})
		assertInvalid(t, err)
	})

	t.Run("variant không nằm trong biến thể khai báo", func(t *testing.T) {
		err := validator.Validate(ctx, []OrderItem{
			{ProductID: coffee.ID.Hex(), Variant: "Size XL"},
		})
		assertInvalid(t, err)
	})

	t.Run("option lạ bị từ chối dù variant đúng", func(t *testing.T) {
		err := validator.Validate(ctx, []OrderItem{
			{ProductID: coffee.ID.Hex(), Variant: "Size L", Options: []string{"Thêm trân châu"}},
		})
		assertInvalid(t, err)
	})

	t.Run("một món sai làm hỏng cả đơn", func(t *testing.T) {
		err := validator.Validate(ctx, []OrderItem{
			{ProductID: coffee.ID.Hex(), Variant: "Size M"},
			{ProductID: coffee.ID.Hex(), Variant: "Size nào đó"},
		})
		assertInvalid(t, err)
	})

	t.Run("đơn rỗng bị từ chối", func(t *testing.T) {
		assertInvalid(t, validator.Validate(ctx, nil))
	})

	t.Run("id sai định dạng bị từ chối", func(t *testing.T) {
		assertInvalid(t, validator.Validate(ctx, []OrderItem{{ProductID: "xyz", Variant: "Size M"}}))
	})
}
