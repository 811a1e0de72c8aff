// Package models - model nhóm người dùng (Group) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group là một nhóm quyền trong phạm vi một doanh nghiệp.
// Người dùng thuộc nhóm được hưởng toàn bộ quyền của nhóm.
type Group struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Business    primitive.ObjectID   `json:"business" bson:"business"`
	Permissions []primitive.ObjectID `json:"permissions" bson:"permissions"`
	CreatedAt   int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                `json:"updatedAt" bson:"updatedAt"`
}
