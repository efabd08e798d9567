package integration

import (
	"context"
	"fmt"

	"go-synchub/internal/connectors"

	"go.uber.org/zap"
)

// ResolvedSource bundles everything the orchestrator needs to sync one source
// for one tenant.
type ResolvedSource struct {
	Credentials     connectors.Credentials
	DataTypes       []string
	TransformScript string
	UsingDefaults   bool
}

type IntegrationService interface {
	CreateIntegration(ctx context.Context, integration *Integration) error
	GetIntegration(ctx context.Context, id string) (*Integration, error)
	ListIntegrations(ctx context.Context, tenantID string) ([]Integration, error)
	UpdateIntegration(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteIntegration(ctx context.Context, id string) error

	// Resolve returns usable connection parameters for (tenant, source). It
	// never fails for a missing or unusable integration: the pipeline must be
	// able to run unattended, so it falls back to the static defaults.
	Resolve(ctx context.Context, tenantID, source string) (ResolvedSource, error)
	ResolveSources(ctx context.Context, tenantID string) ([]ResolvedSource, error)
}

type IntegrationServiceImpl struct {
	Repo   IntegrationRepository
	Logger *zap.Logger
}

func NewIntegrationService(repo IntegrationRepository, logger *zap.Logger) IntegrationService {
	return &IntegrationServiceImpl{Repo: repo, Logger: logger}
}

func (s *IntegrationServiceImpl) CreateIntegration(ctx context.Context, integration *Integration) error {
	if _, ok := specFor(integration.Source); !ok {
		return fmt.Errorf("unknown source: %s", integration.Source)
	}
	if integration.Status == "" {
		integration.Status = StatusPending
	}
	if existing, err := s.Repo.GetByTenantAndSource(ctx, integration.TenantID, integration.Source); err != nil {
		return err
	} else if existing != nil {
		return fmt.Errorf("integration for %s/%s already exists", integration.TenantID, integration.Source)
	}
	return s.Repo.Create(ctx, integration)
}

func (s *IntegrationServiceImpl) GetIntegration(ctx context.Context, id string) (*Integration, error) {
	return s.Repo.Get(ctx, id)
}

func (s *IntegrationServiceImpl) ListIntegrations(ctx context.Context, tenantID string) ([]Integration, error) {
	return s.Repo.List(ctx, tenantID)
}

func (s *IntegrationServiceImpl) UpdateIntegration(ctx context.Context, id string, updates map[string]interface{}) error {
	return s.Repo.Update(ctx, id, updates)
}

func (s *IntegrationServiceImpl) DeleteIntegration(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func (s *IntegrationServiceImpl) Resolve(ctx context.Context, tenantID, source string) (ResolvedSource, error) {
	spec, ok := specFor(source)
	if !ok {
		return ResolvedSource{}, fmt.Errorf("unknown source: %s", source)
	}

	integration, err := s.Repo.GetByTenantAndSource(ctx, tenantID, source)
	if err != nil {
		return ResolvedSource{}, err
	}

	if integration != nil && integration.Status == StatusConnected && hasRequiredFields(spec, integration.Credentials) {
		resolved := ResolvedSource{
			Credentials:     buildCredentials(spec, integration.Credentials),
			DataTypes:       spec.DefaultDataTypes,
			TransformScript: integration.TransformScript,
		}
		if len(integration.DataTypes) > 0 {
			resolved.DataTypes = integration.DataTypes
		}
		return resolved, nil
	}

	s.Logger.Warn("no usable integration, falling back to default credentials",
		zap.String("tenant_id", tenantID),
		zap.String("source", source))

	return ResolvedSource{
		Credentials:   buildCredentials(spec, defaultCredentials[source]),
		DataTypes:     spec.DefaultDataTypes,
		UsingDefaults: true,
	}, nil
}

func (s *IntegrationServiceImpl) ResolveSources(ctx context.Context, tenantID string) ([]ResolvedSource, error) {
	resolved := make([]ResolvedSource, 0, len(Sources))
	for _, spec := range Sources {
		src, err := s.Resolve(ctx, tenantID, spec.Name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, src)
	}
	return resolved, nil
}

func hasRequiredFields(spec SourceSpec, creds map[string]string) bool {
	for _, field := range spec.RequiredFields {
		if creds[field] == "" {
			return false
		}
	}
	return true
}

func buildCredentials(spec SourceSpec, creds map[string]string) connectors.Credentials {
	headers := map[string]string{}
	for field, header := range spec.HeaderFields {
		if v := creds[field]; v != "" {
			headers[header] = v
		}
	}
	return connectors.Credentials{
		Source:  spec.Name,
		BaseURL: creds["api_url"],
		Token:   creds[spec.TokenField],
		Headers: headers,
	}
}
