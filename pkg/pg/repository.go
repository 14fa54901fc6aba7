package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Repository is the PostgreSQL-backed tenant registry. It implements
// tenant.Repository and tenant.Lister with synchronous point reads; the
// registry is read-mostly and writes happen in external provisioning
// flows.
type Repository struct {
	pool  *pgxpool.Pool
	table string
}

// NewRepository creates a repository reading from the given registry
// table ("tenants" when table is empty).
func NewRepository(pool *pgxpool.Pool, table string) *Repository {
	if table == "" {
		table = "tenants"
	}
	return &Repository{pool: pool, table: table}
}

const tenantColumns = `id, COALESCE(subdomain, ''), COALESCE(domain, ''), name, active, COALESCE(settings, '{}'::jsonb), ` +
	`COALESCE(db_host, ''), COALESCE(db_user, ''), COALESCE(db_password, ''), COALESCE(db_name, ''), created_at, updated_at`

func (r *Repository) FindByID(ctx context.Context, id int64) (*tenant.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, tenantColumns, r.table)
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *Repository) FindBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE subdomain = $1`, tenantColumns, r.table)
	return r.scanOne(r.pool.QueryRow(ctx, query, subdomain))
}

func (r *Repository) FindByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE domain = $1`, tenantColumns, r.table)
	return r.scanOne(r.pool.QueryRow(ctx, query, domain))
}

// ListActive returns every active tenant ordered by id, for sweeps and
// admin listings.
func (r *Repository) ListActive(ctx context.Context) ([]*tenant.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE active ORDER BY id`, tenantColumns, r.table)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pg: list active tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (r *Repository) scanOne(row pgx.Row) (*tenant.Tenant, error) {
	t, err := scanTenant(row)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, fmt.Errorf("pg: load tenant: %w", err)
	}
	return t, nil
}

func scanTenant(row pgx.Row) (*tenant.Tenant, error) {
	var (
		t        tenant.Tenant
		settings []byte
	)
	if err := row.Scan(
		&t.ID, &t.Subdomain, &t.Domain, &t.Name, &t.Active, &settings,
		&t.DBHost, &t.DBUser, &t.DBPassword, &t.DBName, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &t.Settings); err != nil {
			return nil, fmt.Errorf("pg: decode tenant settings: %w", err)
		}
	}
	return &t, nil
}
