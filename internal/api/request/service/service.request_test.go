// Package service - test vòng đời yêu cầu trên store trong bộ nhớ.
package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	authmodels "qrapp/internal/api/auth/models"
	catalogmodels "qrapp/internal/api/catalog/models"
	catalogsvc "qrapp/internal/api/catalog/service"
	"qrapp/internal/api/request/models"
	tenantmodels "qrapp/internal/api/tenant/models"
	"qrapp/internal/common"
	"qrapp/internal/notification"
)

// fakeProductLookup phục vụ OrderValidator trong test tạo yêu cầu
type fakeProductLookup struct {
	products []catalogmodels.Product
}

func (f *fakeProductLookup) FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]catalogmodels.Product, error) {
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

// memoryRequestStore mô phỏng collection requests với CAS có khóa,
// đủ để kiểm tra tính chất "đúng một người thắng" của Process
type memoryRequestStore struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]models.Request
}

func newMemoryRequestStore() *memoryRequestStore {
	return &memoryRequestStore{requests: make(map[primitive.ObjectID]models.Request)}
}

func (s *memoryRequestStore) Insert(ctx context.Context, request models.Request) (models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if request.ID.IsZero() {
		request.ID = primitive.NewObjectID()
	}
	s.requests[request.ID] = request
	return request, nil
}

func (s *memoryRequestStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[id]
	if !ok {
		return models.Request{}, common.ErrNotFound
	}
	return request, nil
}

func (s *memoryRequestStore) ClaimWaiting(ctx context.Context, id primitive.ObjectID, staff primitive.ObjectID) (models.Request, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[id]
	if !ok || request.Status != models.StatusWaiting {
		return models.Request{}, false, nil
	}
	request.Status = models.StatusInProgress
	request.Staff = &staff
	s.requests[id] = request
	return request, true, nil
}

func (s *memoryRequestStore) CompleteInProgress(ctx context.Context, id primitive.ObjectID, staff primitive.ObjectID) (models.Request, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[id]
	if !ok || request.Status != models.StatusInProgress || request.Staff == nil || *request.Staff != staff {
		return models.Request{}, false, nil
	}
	request.Status = models.StatusCompleted
	s.requests[id] = request
	return request, true, nil
}

// recordingConn lưu lại các sự kiện gửi tới một kết nối, thread-safe
type recordingConn struct {
	mu     sync.Mutex
	events []notification.Event
}

func (c *recordingConn) Send(event notification.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *recordingConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func staffClaims(userID primitive.ObjectID, business primitive.ObjectID, branch *primitive.ObjectID) *authmodels.TokenClaims {
	scope := business.Hex()
	claims := &authmodels.TokenClaims{
		UserID:    userID.Hex(),
		UserScope: &scope,
		UserRole:  "Staff",
	}
	if branch != nil {
		b := branch.Hex()
		claims.UserBranch = &b
	}
	return claims
}

func newTestRequestService(store RequestStore, hub *notification.Hub) *RequestService {
	return &RequestService{store: store, hub: hub}
}

func seedWaitingRequest(store *memoryRequestStore, business, branch primitive.ObjectID) models.Request {
	request, _ := store.Insert(context.Background(), models.Request{
		Type:        models.TypeAssistance,
		ServiceUnit: primitive.NewObjectID(),
		Area:        primitive.NewObjectID(),
		Branch:      branch,
		Business:    business,
		Status:      models.StatusWaiting,
	})
	return request
}

// fakeUnitFinder trả về điểm phục vụ cố định khi filter trỏ đúng id của nó
type fakeUnitFinder struct {
	unit tenantmodels.ServiceUnit
}

func (f *fakeUnitFinder) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (tenantmodels.ServiceUnit, error) {
	m, ok := filter.(bson.M)
	if !ok || m["_id"] != f.unit.ID || m["area"] != f.unit.Area {
		return tenantmodels.ServiceUnit{}, common.ErrNotFound
	}
	return f.unit, nil
}

func TestRequestService_Create(t *testing.T) {
	business := primitive.NewObjectID()
	branch := primitive.NewObjectID()
	area := primitive.NewObjectID()
	unit := tenantmodels.ServiceUnit{
		ID:        primitive.NewObjectID(),
		Name:      "Bàn 7",
		Available: true,
		Area:      area,
		Branch:    branch,
		Business:  business,
	}

	coffee := catalogmodels.Product{
		ID:       primitive.NewObjectID(),
		Name:     "Trà đào",
		Variants: []catalogmodels.Option{{Type: "Size M", Price: 25000}},
	}

	newService := func(store *memoryRequestStore, hub *notification.Hub, available bool) *RequestService {
		u := unit
		u.Available = available
		return &RequestService{
			store:     store,
			units:     &fakeUnitFinder{unit: u},
			validator: catalogsvc.NewOrderValidator(&fakeProductLookup{products: []catalogmodels.Product{coffee}}),
			hub:       hub,
		}
	}
	ctx := context.Background()

	t.Run("đóng dấu phạm vi từ điểm phục vụ và phát thông báo", func(t *testing.T) {
		store := newMemoryRequestStore()
		hub := notification.NewHub()

		// Nhân viên đúng chi nhánh, có quyền nhận yêu cầu
		listener := &recordingConn{}
		hub.Register(&notification.Subscriber{
			UserID:      primitive.NewObjectID().Hex(),
			Business:    business.Hex(),
			Branch:      branch.Hex(),
			Permissions: map[string]bool{PermReceiveRequest: true},
			Conn:        listener,
		})
		// Nhân viên chi nhánh khác không được nhận
		outsider := &recordingConn{}
		hub.Register(&notification.Subscriber{
			UserID:      primitive.NewObjectID().Hex(),
			Business:    business.Hex(),
			Branch:      primitive.NewObjectID().Hex(),
			Permissions: map[string]bool{PermReceiveRequest: true},
			Conn:        outsider,
		})

		created, err := newService(store, hub, true).Create(ctx, CreateRequestInput{
			Type: models.TypeOrder,
			Data: []catalogsvc.OrderItem{{ProductID: coffee.ID.Hex(), Variant: "Size M", Quantity: 1}},
			Unit: unit.ID,
			Area: area,
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusWaiting, created.Status)
		assert.Equal(t, business, created.Business)
		assert.Equal(t, branch, created.Branch)
		assert.Equal(t, area, created.Area)
		assert.Nil(t, created.Staff)
		assert.Equal(t, 1, listener.count(), "nhân viên cùng chi nhánh phải nhận thông báo")
		assert.Equal(t, 0, outsider.count(), "chi nhánh khác không được nhận thông báo")
	})

	t.Run("đơn đặt món không hợp lệ bị từ chối", func(t *testing.T) {
		store := newMemoryRequestStore()
		_, err := newService(store, notification.NewHub(), true).Create(ctx, CreateRequestInput{
			Type: models.TypeOrder,
			Data: []catalogsvc.OrderItem{{ProductID: coffee.ID.Hex(), Variant: "Size XXL"}},
			Unit: unit.ID,
			Area: area,
		})
		require.Error(t, err)
		assert.Empty(t, store.requests, "đơn lỗi không được lưu")
	})

	t.Run("điểm phục vụ sai khu vực bị từ chối", func(t *testing.T) {
		_, err := newService(newMemoryRequestStore(), notification.NewHub(), true).Create(ctx, CreateRequestInput{
			Type: models.TypeAssistance,
			Unit: unit.ID,
			Area: primitive.NewObjectID(),
		})
		require.Error(t, err)
	})

	t.Run("điểm phục vụ đang khóa bị từ chối", func(t *testing.T) {
		_, err := newService(newMemoryRequestStore(), notification.NewHub(), false).Create(ctx, CreateRequestInput{
			Type: models.TypeAssistance,
			Unit: unit.ID,
			Area: area,
		})
		require.Error(t, err)
	})

	t.Run("loại yêu cầu lạ bị từ chối", func(t *testing.T) {
		_, err := newService(newMemoryRequestStore(), notification.NewHub(), true).Create(ctx, CreateRequestInput{
			Type: models.RequestType("KARAOKE"),
			Unit: unit.ID,
			Area: area,
		})
		require.Error(t, err)
	})
}

func TestRequestService_ProcessLifecycle(t *testing.T) {
	store := newMemoryRequestStore()
	service := newTestRequestService(store, notification.NewHub())
	ctx := context.Background()

	business := primitive.NewObjectID()
	branch := primitive.NewObjectID()
	staff := primitive.NewObjectID()
	request := seedWaitingRequest(store, business, branch)
	claims := staffClaims(staff, business, &branch)

	// Lần 1: nhận yêu cầu
	updated, processed, err := service.Process(ctx, request.ID, claims)
	require.NoError(t, err)
	require.True(t, processed)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	require.NotNil(t, updated.Staff)
	assert.Equal(t, staff, *updated.Staff)

	// Lần 2: cùng nhân viên hoàn tất
	updated, processed, err = service.Process(ctx, request.ID, claims)
	require.NoError(t, err)
	require.True(t, processed)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	// Lần 3: yêu cầu đã xong, không đi tiếp được nữa
	_, processed, err = service.Process(ctx, request.ID, claims)
	require.NoError(t, err)
	assert.False(t, processed)

	final, err := store.FindByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, final.Status)
}

func TestRequestService_ProcessScope(t *testing.T) {
	store := newMemoryRequestStore()
	service := newTestRequestService(store, notification.NewHub())
	ctx := context.Background()

	business := primitive.NewObjectID()
	branch := primitive.NewObjectID()
	request := seedWaitingRequest(store, business, branch)

	t.Run("khác doanh nghiệp thấy như không tồn tại", func(t *testing.T) {
		claims := staffClaims(primitive.NewObjectID(), primitive.NewObjectID(), nil)
		_, _, err := service.Process(ctx, request.ID, claims)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("khác chi nhánh thấy như không tồn tại", func(t *testing.T) {
		otherBranch := primitive.NewObjectID()
		claims := staffClaims(primitive.NewObjectID(), business, &otherBranch)
		_, _, err := service.Process(ctx, request.ID, claims)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("chủ doanh nghiệp không gắn chi nhánh vẫn xử lý được", func(t *testing.T) {
		claims := staffClaims(primitive.NewObjectID(), business, nil)
		_, processed, err := service.Process(ctx, request.ID, claims)
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("yêu cầu không tồn tại", func(t *testing.T) {
		claims := staffClaims(primitive.NewObjectID(), business, &branch)
		_, _, err := service.Process(ctx, primitive.NewObjectID(), claims)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestRequestService_ProcessNonAssignee(t *testing.T) {
	store := newMemoryRequestStore()
	hub := notification.NewHub()
	service := newTestRequestService(store, hub)
	ctx := context.Background()

	business := primitive.NewObjectID()
	branch := primitive.NewObjectID()
	request := seedWaitingRequest(store, business, branch)

	owner := primitive.NewObjectID()
	intruder := primitive.NewObjectID()

	_, processed, err := service.Process(ctx, request.ID, staffClaims(owner, business, &branch))
	require.NoError(t, err)
	require.True(t, processed)

	// Người không phải người đang xử lý chỉ nhận thông báo riêng
	conn := &recordingConn{}
	hub.Register(&notification.Subscriber{
		UserID:   intruder.Hex(),
		Business: business.Hex(),
		Branch:   branch.Hex(),
		Conn:     conn,
	})

	_, processed, err = service.Process(ctx, request.ID, staffClaims(intruder, business, &branch))
	require.NoError(t, err)
	assert.False(t, processed)
	assert.Equal(t, 1, conn.count(), "người thua phải nhận đúng một thông báo trực tiếp")

	// Trạng thái và người xử lý không đổi
	current, err := store.FindByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, current.Status)
	require.NotNil(t, current.Staff)
	assert.Equal(t, owner, *current.Staff)
}

func TestRequestService_ProcessRace(t *testing.T) {
	store := newMemoryRequestStore()
	service := newTestRequestService(store, notification.NewHub())
	ctx := context.Background()

	business := primitive.NewObjectID()
	branch := primitive.NewObjectID()
	request := seedWaitingRequest(store, business, branch)

	const workers = 32
	staffIDs := make([]primitive.ObjectID, workers)
	for i := range staffIDs {
		staffIDs[i] = primitive.NewObjectID()
	}

	var wg sync.WaitGroup
	winners := make(chan primitive.ObjectID, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(staff primitive.ObjectID) {
			defer wg.Done()
			_, processed, err := service.Process(ctx, request.ID, staffClaims(staff, business, &branch))
			if err != nil {
				t.Errorf("process trả lỗi ngoài dự kiến: %v", err)
				return
			}
			if processed {
				winners <- staff
			}
		}(staffIDs[i])
	}
	wg.Wait()
	close(winners)

	var winnerList []primitive.ObjectID
	for winner := range winners {
		winnerList = append(winnerList, winner)
	}
	require.Len(t, winnerList, 1, "đúng một nhân viên được nhận yêu cầu")

	current, err := store.FindByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, current.Status)
	require.NotNil(t, current.Staff)
	assert.Equal(t, winnerList[0], *current.Staff, "người xử lý phải là người thắng duy nhất")
}

func TestRequestStatus_Next(t *testing.T) {
	next, ok := models.StatusWaiting.Next()
	require.True(t, ok)
	assert.Equal(t, models.StatusInProgress, next)

	next, ok = next.Next()
	require.True(t, ok)
	assert.Equal(t, models.StatusCompleted, next)

	_, ok = models.StatusCompleted.Next()
	assert.False(t, ok, "trạng thái cuối không có bước kế tiếp")
}
