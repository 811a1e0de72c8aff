// Package service - test chốt đơn hàng từ yêu cầu trên các fake trong bộ nhớ.
package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authmodels "qrapp/internal/api/auth/models"
	catalogmodels "qrapp/internal/api/catalog/models"
	catalogsvc "qrapp/internal/api/catalog/service"
	"qrapp/internal/api/order/models"
	requestmodels "qrapp/internal/api/request/models"
	"qrapp/internal/common"
)

// fakeRequestLookup trả yêu cầu theo id từ map cấu hình sẵn
type fakeRequestLookup struct {
	requests map[primitive.ObjectID]requestmodels.Request
}

func (f *fakeRequestLookup) FindByID(ctx context.Context, id primitive.ObjectID) (requestmodels.Request, error) {
	request, ok := f.requests[id]
	if !ok {
		return requestmodels.Request{}, common.ErrNotFound
	}
	return request, nil
}

// memoryOrderWriter mô phỏng collection orders, đủ cho kiểm tra trùng đơn
type memoryOrderWriter struct {
	mu     sync.Mutex
	orders []models.Order
}

func (w *memoryOrderWriter) DocumentExists(ctx context.Context, filter interface{}) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	request, _ := filter.(bson.M)["request"].(primitive.ObjectID)
	for _, order := range w.orders {
		if order.Request == request {
			return true, nil
		}
	}
	return false, nil
}

func (w *memoryOrderWriter) InsertOne(ctx context.Context, order models.Order) (models.Order, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	w.orders = append(w.orders, order)
	return order, nil
}

// fakeOrderProductLookup phục vụ OrderValidator tính lại giá khi chốt đơn
type fakeOrderProductLookup struct {
	products []catalogmodels.Product
}

func (f *fakeOrderProductLookup) FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]catalogmodels.Product, error) {
	idSet := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	var found []catalogmodels.Product
	for _, p := range f.products {
		if idSet[p.ID] {
			found = append(found, p)
		}
	}
	return found, nil
}

func staffOrderClaims(userID primitive.ObjectID, business primitive.ObjectID, branch *primitive.ObjectID) *authmodels.TokenClaims {
	scope := business.Hex()
	claims := &authmodels.TokenClaims{
		UserID:    userID.Hex(),
		UserScope: &scope,
		UserRole:  authmodels.RoleStaff,
	}
	if branch != nil {
		b := branch.Hex()
		claims.UserBranch = &b
	}
	return claims
}

func TestOrderService_CreateFromRequest(t *testing.T) {
	business := primitive.NewObjectID()
	branch := primitive.NewObjectID()
	staff := primitive.NewObjectID()

	coffee := catalogmodels.Product{
		ID:   primitive.NewObjectID(),
		Name: "Cà phê sữa",
		Variants: []catalogmodels.Option{
			{Type: "Size M", Price: 30000},
		},
		Options: []catalogmodels.Option{
			{Type: "Thêm sữa", Price: 5000},
		},
		Business: business,
	}

	orderRequest := requestmodels.Request{
		ID:   primitive.NewObjectID(),
		Type: requestmodels.TypeOrder,
		Data: []catalogsvc.OrderItem{
			{ProductID: coffee.ID.Hex(), Variant: "Size M", Options: []string{"Thêm sữa"}, Quantity: 2},
		},
		ServiceUnit: primitive.NewObjectID(),
		Area:        primitive.NewObjectID(),
		Branch:      branch,
		Business:    business,
		Status:      requestmodels.StatusInProgress,
		Staff:       &staff,
	}

	newService := func(writer *memoryOrderWriter) *OrderService {
		return &OrderService{
			store:     writer,
			requests:  &fakeRequestLookup{requests: map[primitive.ObjectID]requestmodels.Request{orderRequest.ID: orderRequest}},
			validator: catalogsvc.NewOrderValidator(&fakeOrderProductLookup{products: []catalogmodels.Product{coffee}}),
		}
	}
	ctx := context.Background()

	t.Run("người tiếp nhận chốt đơn, giá tính lại theo thực đơn", func(t *testing.T) {
		writer := &memoryOrderWriter{}
		service := newService(writer)

		created, err := service.CreateFromRequest(ctx, orderRequest.ID, models.PaymentCash, staffOrderClaims(staff, business, &branch))
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnpaid, created.Status)
		assert.Equal(t, int64((30000+5000)*2), created.Amount)
		assert.Equal(t, orderRequest.ID, created.Request)
		assert.Equal(t, staff, created.Staff)
		assert.Equal(t, business, created.Business)
		assert.Len(t, writer.orders, 1)
	})

	t.Run("người chưa tiếp nhận yêu cầu không chốt được đơn", func(t *testing.T) {
		writer := &memoryOrderWriter{}
		service := newService(writer)

		intruder := primitive.NewObjectID()
		_, err := service.CreateFromRequest(ctx, orderRequest.ID, models.PaymentCash, staffOrderClaims(intruder, business, &branch))
		require.Error(t, err)
		var appErr *common.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.StatusBadRequest, appErr.StatusCode)
		assert.Empty(t, writer.orders, "đơn không được ghi khi người gọi chưa tiếp nhận")
	})

	t.Run("khác doanh nghiệp hoặc khác chi nhánh coi như không tồn tại", func(t *testing.T) {
		writer := &memoryOrderWriter{}
		service := newService(writer)

		otherBusiness := primitive.NewObjectID()
		_, err := service.CreateFromRequest(ctx, orderRequest.ID, models.PaymentCash, staffOrderClaims(staff, otherBusiness, &branch))
		assert.ErrorIs(t, err, common.ErrNotFound)

		otherBranch := primitive.NewObjectID()
		_, err = service.CreateFromRequest(ctx, orderRequest.ID, models.PaymentCash, staffOrderClaims(staff, business, &otherBranch))
		assert.ErrorIs(t, err, common.ErrNotFound)
		assert.Empty(t, writer.orders)
	})

	t.Run("mỗi yêu cầu chỉ chốt được một đơn", func(t *testing.T) {
		writer := &memoryOrderWriter{}
		service := newService(writer)
		claims := staffOrderClaims(staff, business, &branch)

		_, err := service.CreateFromRequest(ctx, orderRequest.ID, models.PaymentCash, claims)
		require.NoError(t, err)

		_, err = service.CreateFromRequest(ctx, orderRequest.ID, models.PaymentTransfer, claims)
		assert.ErrorIs(t, err, common.ErrDuplicate)
		assert.Len(t, writer.orders, 1)
	})

	t.Run("yêu cầu không phải đặt món bị từ chối", func(t *testing.T) {
		writer := &memoryOrderWriter{}
		assistance := requestmodels.Request{
			ID:       primitive.NewObjectID(),
			Type:     requestmodels.TypeAssistance,
			Branch:   branch,
			Business: business,
			Status:   requestmodels.StatusInProgress,
			Staff:    &staff,
		}
		service := &OrderService{
			store:    writer,
			requests: &fakeRequestLookup{requests: map[primitive.ObjectID]requestmodels.Request{assistance.ID: assistance}},
		}

		_, err := service.CreateFromRequest(ctx, assistance.ID, models.PaymentCash, staffOrderClaims(staff, business, &branch))
		require.Error(t, err)
		var appErr *common.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.StatusBadRequest, appErr.StatusCode)
		assert.Empty(t, writer.orders)
	})
}
