package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// DefaultCollection is the registry collection name.
const DefaultCollection = "tenants"

// Repository is the MongoDB-backed tenant registry implementing
// tenant.Repository and tenant.Lister.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository creates a repository over db's registry collection
// (DefaultCollection when collection is empty).
func NewRepository(db *mongo.Database, collection string) *Repository {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Repository{coll: db.Collection(collection)}
}

// tenantDoc is the stored shape of a tenant record.
type tenantDoc struct {
	ID         int64          `bson:"_id"`
	Subdomain  string         `bson:"subdomain,omitempty"`
	Domain     string         `bson:"domain,omitempty"`
	Name       string         `bson:"name"`
	Active     bool           `bson:"active"`
	Settings   map[string]any `bson:"settings,omitempty"`
	DBHost     string         `bson:"db_host,omitempty"`
	DBUser     string         `bson:"db_user,omitempty"`
	DBPassword string         `bson:"db_password,omitempty"`
	DBName     string         `bson:"db_name,omitempty"`
	CreatedAt  time.Time      `bson:"created_at"`
	UpdatedAt  time.Time      `bson:"updated_at"`
}

func (d tenantDoc) toTenant() *tenant.Tenant {
	return &tenant.Tenant{
		ID:         d.ID,
		Subdomain:  d.Subdomain,
		Domain:     d.Domain,
		Name:       d.Name,
		Active:     d.Active,
		Settings:   d.Settings,
		DBHost:     d.DBHost,
		DBUser:     d.DBUser,
		DBPassword: d.DBPassword,
		DBName:     d.DBName,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*tenant.Tenant, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *Repository) FindBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error) {
	return r.findOne(ctx, bson.M{"subdomain": subdomain})
}

func (r *Repository) FindByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	return r.findOne(ctx, bson.M{"domain": domain})
}

// ListActive returns every active tenant ordered by id.
func (r *Repository) ListActive(ctx context.Context) ([]*tenant.Tenant, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"active": true},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: list active tenants: %w", err)
	}
	defer cursor.Close(ctx)

	var tenants []*tenant.Tenant
	for cursor.Next(ctx) {
		var doc tenantDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decode tenant: %w", err)
		}
		tenants = append(tenants, doc.toTenant())
	}
	return tenants, cursor.Err()
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*tenant.Tenant, error) {
	var doc tenantDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, fmt.Errorf("mongo: load tenant: %w", err)
	}
	return doc.toTenant(), nil
}
