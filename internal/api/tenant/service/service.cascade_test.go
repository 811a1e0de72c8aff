// Package service - test coordinator xóa dây chuyền trên store trong bộ nhớ.
package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"qrapp/internal/global"
)

// memoryCascadeStore mô phỏng các collection bằng map trong bộ nhớ.
// Chỉ hỗ trợ các filter đơn giản mà coordinator dùng: so khớp bằng theo
// từng field, và $pull phần tử khỏi mảng.
type memoryCascadeStore struct {
	collections map[string][]bson.M
}

func newMemoryCascadeStore() *memoryCascadeStore {
	return &memoryCascadeStore{collections: make(map[string][]bson.M)}
}

func (s *memoryCascadeStore) insert(collection string, doc bson.M) {
	s.collections[collection] = append(s.collections[collection], doc)
}

func matches(doc bson.M, filter bson.M) bool {
	for key, want := range filter {
		got, ok := doc[key]
		if !ok {
			return false
		}
		// Field mảng (groups) khớp khi chứa giá trị cần tìm
		if list, isList := got.([]primitive.ObjectID); isList {
			found := false
			for _, item := range list {
				if item == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

func (s *memoryCascadeStore) DeleteMany(ctx context.Context, collection string, filter bson.M) (int64, error) {
	var kept []bson.M
	var deleted int64
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			deleted++
			continue
		}
		kept = append(kept, doc)
	}
	s.collections[collection] = kept
	return deleted, nil
}

func (s *memoryCascadeStore) UpdateMany(ctx context.Context, collection string, filter bson.M, update bson.M) (int64, error) {
	var modified int64
	for _, doc := range s.collections[collection] {
		if !matches(doc, filter) {
			continue
		}
		if pull, ok := update["$pull"].(bson.M); ok {
			for field, value := range pull {
				if list, isList := doc[field].([]primitive.ObjectID); isList {
					var kept []primitive.ObjectID
					for _, item := range list {
						if item != value {
							kept = append(kept, item)
						}
					}
					doc[field] = kept
				}
			}
		}
		modified++
	}
	return modified, nil
}

func (s *memoryCascadeStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// countReferencing đếm số document còn tham chiếu id trong mọi collection
func (s *memoryCascadeStore) countReferencing(id primitive.ObjectID) int {
	count := 0
	for _, docs := range s.collections {
		for _, doc := range docs {
			for _, value := range doc {
				if value == id {
					count++
				}
				if list, ok := value.([]primitive.ObjectID); ok {
					for _, item := range list {
						if item == id {
							count++
						}
					}
				}
			}
		}
	}
	return count
}

func init() {
	// Tên collection dùng trong test, khớp với khởi tạo của server
	global.MongoDB_ColNames = global.MongoDB_CollectionName{
		Users:         "users",
		Permissions:   "permissions",
		Groups:        "groups",
		Businesses:    "businesses",
		BusinessTypes: "business_types",
		Plans:         "plans",
		Branches:      "branches",
		Areas:         "areas",
		ServiceUnits:  "service_units",
		Payments:      "payments",
		Categories:    "categories",
		SubCategories: "subcategories",
		Products:      "products",
		Requests:      "requests",
		Orders:        "orders",
		ExtendOrders:  "extend_orders",
	}
}

func TestCascadeCoordinator_DeleteBranch(t *testing.T) {
	store := newMemoryCascadeStore()
	coordinator := NewCascadeCoordinator(store)

	branch := primitive.NewObjectID()
	otherBranch := primitive.NewObjectID()

	store.insert("branches", bson.M{"_id": branch})
	store.insert("branches", bson.M{"_id": otherBranch})
	store.insert("areas", bson.M{"_id": primitive.NewObjectID(), "branch": branch})
	store.insert("areas", bson.M{"_id": primitive.NewObjectID(), "branch": otherBranch})
	store.insert("service_units", bson.M{"_id": primitive.NewObjectID(), "branch": branch})
	store.insert("users", bson.M{"_id": primitive.NewObjectID(), "branch": branch})
	store.insert("users", bson.M{"_id": primitive.NewObjectID(), "branch": otherBranch})

	require.NoError(t, coordinator.DeleteBranch(context.Background(), branch))

	assert.Zero(t, store.countReferencing(branch), "không document nào được phép còn tham chiếu chi nhánh đã xóa")
	assert.Len(t, store.collections["branches"], 1)
	assert.Len(t, store.collections["areas"], 1, "khu vực của chi nhánh khác phải còn nguyên")
	assert.Len(t, store.collections["users"], 1, "nhân viên chi nhánh khác phải còn nguyên")
	assert.Empty(t, store.collections["service_units"])
}

func TestCascadeCoordinator_DeleteCategory(t *testing.T) {
	store := newMemoryCascadeStore()
	coordinator := NewCascadeCoordinator(store)

	category := primitive.NewObjectID()
	store.insert("categories", bson.M{"_id": category})
	store.insert("subcategories", bson.M{"_id": primitive.NewObjectID(), "category": category})
	store.insert("products", bson.M{"_id": primitive.NewObjectID(), "category": category})

	require.NoError(t, coordinator.DeleteCategory(context.Background(), category))

	assert.Zero(t, store.countReferencing(category))
	assert.Empty(t, store.collections["categories"])
	assert.Empty(t, store.collections["subcategories"])
	assert.Empty(t, store.collections["products"])
}

func TestCascadeCoordinator_DeleteGroup(t *testing.T) {
	store := newMemoryCascadeStore()
	coordinator := NewCascadeCoordinator(store)

	group := primitive.NewObjectID()
	otherGroup := primitive.NewObjectID()
	user := primitive.NewObjectID()

	store.insert("groups", bson.M{"_id": group})
	store.insert("users", bson.M{"_id": user, "groups": []primitive.ObjectID{group, otherGroup}})

	require.NoError(t, coordinator.DeleteGroup(context.Background(), group))

	// Thành viên không bị xóa, chỉ mất liên kết với nhóm
	require.Len(t, store.collections["users"], 1)
	assert.Equal(t, []primitive.ObjectID{otherGroup}, store.collections["users"][0]["groups"])
	assert.Empty(t, store.collections["groups"])
	assert.Zero(t, store.countReferencing(group))
}

func TestCascadeCoordinator_DeleteBusiness(t *testing.T) {
	store := newMemoryCascadeStore()
	coordinator := NewCascadeCoordinator(store)

	business := primitive.NewObjectID()
	survivor := primitive.NewObjectID()

	store.insert("businesses", bson.M{"_id": business})
	store.insert("businesses", bson.M{"_id": survivor})
	store.insert("branches", bson.M{"_id": primitive.NewObjectID(), "business": business})
	store.insert("areas", bson.M{"_id": primitive.NewObjectID(), "business": business})
	store.insert("service_units", bson.M{"_id": primitive.NewObjectID(), "business": business})
	store.insert("groups", bson.M{"_id": primitive.NewObjectID(), "business": business})
	store.insert("categories", bson.M{"_id": primitive.NewObjectID(), "business": business})
	store.insert("products", bson.M{"_id": primitive.NewObjectID(), "business": business})
	store.insert("payments", bson.M{"_id": primitive.NewObjectID(), "business": business})
	store.insert("orders", bson.M{"_id": primitive.NewObjectID(), "business": business})
	store.insert("requests", bson.M{"_id": primitive.NewObjectID(), "business": business})
	store.insert("users", bson.M{"_id": primitive.NewObjectID(), "scope": business})
	store.insert("users", bson.M{"_id": primitive.NewObjectID(), "scope": survivor})

	require.NoError(t, coordinator.DeleteBusiness(context.Background(), business))

	assert.Zero(t, store.countReferencing(business), "không document nào được phép còn tham chiếu doanh nghiệp đã xóa")
	assert.Len(t, store.collections["businesses"], 1)
	assert.Len(t, store.collections["users"], 1, "người dùng doanh nghiệp khác phải còn nguyên")
}
