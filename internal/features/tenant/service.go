package tenant

import (
	"context"
	"fmt"
	"strings"
)

type TenantService interface {
	CreateTenant(ctx context.Context, tenant *Tenant) error
	GetTenant(ctx context.Context, id string) (*Tenant, error)
	ListTenants(ctx context.Context) ([]Tenant, error)
	ListActiveTenants(ctx context.Context) ([]Tenant, error)
	UpdateTenant(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteTenant(ctx context.Context, id string) error
}

type TenantServiceImpl struct {
	Repo TenantRepository
}

func NewTenantService(repo TenantRepository) TenantService {
	return &TenantServiceImpl{Repo: repo}
}

func (s *TenantServiceImpl) CreateTenant(ctx context.Context, tenant *Tenant) error {
	tenant.Slug = strings.TrimSpace(strings.ToLower(tenant.Slug))
	if tenant.Slug == "" {
		return fmt.Errorf("tenant slug is required")
	}
	if existing, _ := s.Repo.GetBySlug(ctx, tenant.Slug); existing != nil {
		return fmt.Errorf("tenant slug %q already in use", tenant.Slug)
	}
	return s.Repo.Create(ctx, tenant)
}

func (s *TenantServiceImpl) GetTenant(ctx context.Context, id string) (*Tenant, error) {
	return s.Repo.Get(ctx, id)
}

func (s *TenantServiceImpl) ListTenants(ctx context.Context) ([]Tenant, error) {
	return s.Repo.List(ctx)
}

func (s *TenantServiceImpl) ListActiveTenants(ctx context.Context) ([]Tenant, error) {
	return s.Repo.ListActive(ctx)
}

func (s *TenantServiceImpl) UpdateTenant(ctx context.Context, id string, updates map[string]interface{}) error {
	delete(updates, "slug") // the slug keys persisted records; it never changes
	return s.Repo.Update(ctx, id, updates)
}

func (s *TenantServiceImpl) DeleteTenant(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}
