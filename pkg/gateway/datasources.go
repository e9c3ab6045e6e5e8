package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tably-ai/tably-cli/pkg/models"
)

type dataSourceList struct {
	DataSources []models.DataSource `json:"dataSources"`
}

// ListDataSources fetches all data sources for the organization.
func (c *Client) ListDataSources(ctx context.Context, token string) ([]models.DataSource, error) {
	var out dataSourceList
	if err := c.doJSON(ctx, http.MethodGet, "/data-sources", token, nil, &out); err != nil {
		return nil, err
	}
	return out.DataSources, nil
}

// DataSourcePreview fetches a row sample from one data source.
func (c *Client) DataSourcePreview(ctx context.Context, token, id string) (*models.DataSourcePreview, error) {
	var out models.DataSourcePreview
	if err := c.doJSON(ctx, http.MethodGet, "/data-sources/"+url.PathEscape(id)+"/preview", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DataSourceDocument fetches the extracted text of a document source.
func (c *Client) DataSourceDocument(ctx context.Context, token, id string) (*models.DocumentContent, error) {
	var out models.DocumentContent
	if err := c.doJSON(ctx, http.MethodGet, "/data-sources/"+url.PathEscape(id)+"/document", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DataSourceSchema fetches the materialized schema of one data source.
func (c *Client) DataSourceSchema(ctx context.Context, token, id string) (*models.DataSourceSchema, error) {
	var out models.DataSourceSchema
	if err := c.doJSON(ctx, http.MethodGet, "/data-sources/"+url.PathEscape(id)+"/schema", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDataSource removes one data source.
func (c *Client) DeleteDataSource(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/data-sources/"+url.PathEscape(id), token, nil, nil)
}
