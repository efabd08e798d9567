package integration

import (
	"context"
	"errors"
	"time"

	"go-synchub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IntegrationRepository interface {
	Create(ctx context.Context, integration *Integration) error
	Get(ctx context.Context, id string) (*Integration, error)
	GetByTenantAndSource(ctx context.Context, tenantID, source string) (*Integration, error)
	List(ctx context.Context, tenantID string) ([]Integration, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type IntegrationRepositoryImpl struct {
	collection *mongo.Collection
}

func NewIntegrationRepository(db *database.MongodbDB) IntegrationRepository {
	return &IntegrationRepositoryImpl{
		collection: db.DB.Collection("integrations"),
	}
}

func (r *IntegrationRepositoryImpl) Create(ctx context.Context, integration *Integration) error {
	if integration.ID.IsZero() {
		integration.ID = primitive.NewObjectID()
	}
	integration.CreatedAt = time.Now()
	integration.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, integration)
	return err
}

func (r *IntegrationRepositoryImpl) Get(ctx context.Context, id string) (*Integration, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var integration Integration
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&integration); err != nil {
		return nil, err
	}
	return &integration, nil
}

func (r *IntegrationRepositoryImpl) GetByTenantAndSource(ctx context.Context, tenantID, source string) (*Integration, error) {
	var integration Integration
	err := r.collection.FindOne(ctx, bson.M{"tenant_id": tenantID, "source": source}).Decode(&integration)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &integration, nil
}

func (r *IntegrationRepositoryImpl) List(ctx context.Context, tenantID string) ([]Integration, error) {
	filter := bson.M{}
	if tenantID != "" {
		filter["tenant_id"] = tenantID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var integrations []Integration
	if err = cursor.All(ctx, &integrations); err != nil {
		return nil, err
	}
	return integrations, nil
}

func (r *IntegrationRepositoryImpl) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	updates["updated_at"] = time.Now()
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": updates})
	return err
}

func (r *IntegrationRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
