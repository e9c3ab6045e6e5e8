// Package datasources manages the organization's uploaded files and
// connected systems through the gateway.
package datasources

import (
	"context"

	"go.uber.org/zap"

	"github.com/tably-ai/tably-cli/pkg/gateway"
	"github.com/tably-ai/tably-cli/pkg/models"
)

// Gateway is the slice of the gateway this service depends on.
type Gateway interface {
	ListDataSources(ctx context.Context, token string) ([]models.DataSource, error)
	DataSourcePreview(ctx context.Context, token, id string) (*models.DataSourcePreview, error)
	DataSourceDocument(ctx context.Context, token, id string) (*models.DocumentContent, error)
	DataSourceSchema(ctx context.Context, token, id string) (*models.DataSourceSchema, error)
	DeleteDataSource(ctx context.Context, token, id string) error
}

var _ Gateway = (*gateway.Client)(nil)

// Service exposes data-source operations for the CLI.
type Service struct {
	gw     Gateway
	token  string
	logger *zap.Logger
}

// NewService creates a data-source service.
func NewService(gw Gateway, token string, logger *zap.Logger) *Service {
	return &Service{gw: gw, token: token, logger: logger.Named("datasources")}
}

// List fetches all data sources.
func (s *Service) List(ctx context.Context) ([]models.DataSource, error) {
	return s.gw.ListDataSources(ctx, s.token)
}

// Preview fetches a row sample from one data source.
func (s *Service) Preview(ctx context.Context, id string) (*models.DataSourcePreview, error) {
	return s.gw.DataSourcePreview(ctx, s.token, id)
}

// Document fetches the extracted text of a document source.
func (s *Service) Document(ctx context.Context, id string) (*models.DocumentContent, error) {
	return s.gw.DataSourceDocument(ctx, s.token, id)
}

// Schema fetches the materialized schema of one data source.
func (s *Service) Schema(ctx context.Context, id string) (*models.DataSourceSchema, error) {
	return s.gw.DataSourceSchema(ctx, s.token, id)
}

// Delete removes one data source. Destructive; the CLI confirms first.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.gw.DeleteDataSource(ctx, s.token, id); err != nil {
		return err
	}
	s.logger.Info("data source deleted", zap.String("datasource_id", id))
	return nil
}
