package tenant

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Tenant struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Slug      string             `json:"slug" bson:"slug"` // stable identifier used across stores
	Name      string             `json:"name" bson:"name"`
	Active    bool               `json:"active" bson:"active"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
