package models

import "time"

// DataSource is one uploaded file or connected system.
type DataSource struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	RowCount  int64     `json:"rowCount,omitempty"`
	SizeBytes int64     `json:"sizeBytes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// DataSourcePreview is a row sample from one data source.
type DataSourcePreview struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Total   int64            `json:"total"`
}

// DocumentContent is the extracted text of a document data source.
type DocumentContent struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType,omitempty"`
}

// SchemaColumn describes one column of a materialized table.
type SchemaColumn struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// SchemaTable describes one materialized table of a data source.
type SchemaTable struct {
	Name    string         `json:"name"`
	Columns []SchemaColumn `json:"columns"`
}

// DataSourceSchema is the materialized schema of one data source.
type DataSourceSchema struct {
	Tables []SchemaTable `json:"tables"`
}
