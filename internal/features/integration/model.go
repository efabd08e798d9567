package integration

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusPending      = "pending"
)

// Integration is one tenant's connection to one external source.
type Integration struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID        string             `json:"tenant_id" bson:"tenant_id"` // tenant slug
	Source          string             `json:"source" bson:"source"`
	Status          string             `json:"status" bson:"status"` // connected, disconnected, pending
	Credentials     map[string]string  `json:"credentials" bson:"credentials"`
	DataTypes       []string           `json:"data_types,omitempty" bson:"data_types,omitempty"` // overrides the source defaults
	TransformScript string             `json:"transform_script,omitempty" bson:"transform_script,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}
