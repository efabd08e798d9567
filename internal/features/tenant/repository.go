package tenant

import (
	"context"
	"time"

	"go-synchub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *Tenant) error
	Get(ctx context.Context, id string) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
	ListActive(ctx context.Context) ([]Tenant, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type TenantRepositoryImpl struct {
	collection *mongo.Collection
}

func NewTenantRepository(db *database.MongodbDB) TenantRepository {
	return &TenantRepositoryImpl{
		collection: db.DB.Collection("tenants"),
	}
}

func (r *TenantRepositoryImpl) Create(ctx context.Context, tenant *Tenant) error {
	if tenant.ID.IsZero() {
		tenant.ID = primitive.NewObjectID()
	}
	tenant.CreatedAt = time.Now()
	tenant.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, tenant)
	return err
}

func (r *TenantRepositoryImpl) Get(ctx context.Context, id string) (*Tenant, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var tenant Tenant
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *TenantRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*Tenant, error) {
	var tenant Tenant
	if err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *TenantRepositoryImpl) List(ctx context.Context) ([]Tenant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tenants []Tenant
	if err = cursor.All(ctx, &tenants); err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *TenantRepositoryImpl) ListActive(ctx context.Context) ([]Tenant, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tenants []Tenant
	if err = cursor.All(ctx, &tenants); err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *TenantRepositoryImpl) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	updates["updated_at"] = time.Now()
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": updates})
	return err
}

func (r *TenantRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
