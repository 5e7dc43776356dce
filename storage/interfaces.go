package storage

import (
	"context"

	"banks-etl/models"
)

// DatasetWriter is implemented by the flat-file sink.
type DatasetWriter interface {
	Write(ds *models.Dataset) error
}

// TableStore is the relational store shared by the table sink and the
// query runner for the lifetime of a run.
type TableStore interface {
	ReplaceTable(ctx context.Context, table string, ds *models.Dataset) error
	Query(ctx context.Context, query string) (*models.QueryResult, error)
	Close() error
}
