package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"banks-etl/models"
)

const insertBatchSize = 50

// SQLStore persists datasets into a SQLite or PostgreSQL database and runs
// ad-hoc read queries against it.
type SQLStore struct {
	db           *sql.DB
	driver       string
	queryTimeout time.Duration
}

// OpenSQLStore opens and pings the database. driver is "sqlite" or "postgres";
// for sqlite, dsn is the database file path. A zero queryTimeout waits
// indefinitely on every statement.
func OpenSQLStore(ctx context.Context, driver, dsn string, queryTimeout time.Duration) (*SQLStore, error) {
	if driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, &models.PersistenceError{Op: "create db directory", Err: err}
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, &models.PersistenceError{Op: "open " + driver, Err: err}
	}
	if driver == "sqlite" {
		// SQLite only supports one writer
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &models.PersistenceError{Op: "connect " + driver, Err: err}
	}

	return &SQLStore{db: db, driver: driver, queryTimeout: queryTimeout}, nil
}

func (s *SQLStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout > 0 {
		return context.WithTimeout(ctx, s.queryTimeout)
	}
	return ctx, func() {}
}

// ReplaceTable drops table if it exists, recreates it with the dataset's
// columns and inserts every row, all in one transaction.
func (s *SQLStore) ReplaceTable(ctx context.Context, table string, ds *models.Dataset) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &models.PersistenceError{Op: "begin", Table: table, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+QuoteIdent(table)); err != nil {
		return &models.PersistenceError{Op: "drop", Table: table, Err: err}
	}
	if _, err := tx.ExecContext(ctx, s.createTableSQL(table, ds.Columns())); err != nil {
		return &models.PersistenceError{Op: "create", Table: table, Err: err}
	}

	for i := 0; i < len(ds.Banks); i += insertBatchSize {
		end := i + insertBatchSize
		if end > len(ds.Banks) {
			end = len(ds.Banks)
		}
		if err := s.insertBatch(ctx, tx, table, ds, ds.Banks[i:end]); err != nil {
			return &models.PersistenceError{Op: "insert", Table: table, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &models.PersistenceError{Op: "commit", Table: table, Err: err}
	}
	return nil
}

func (s *SQLStore) createTableSQL(table string, columns []string) string {
	realType := "REAL"
	if s.driver == "postgres" {
		realType = "DOUBLE PRECISION"
	}

	defs := make([]string, 0, len(columns))
	for i, c := range columns {
		typ := realType
		if i == 0 {
			typ = "TEXT"
		}
		defs = append(defs, QuoteIdent(c)+" "+typ)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdent(table), strings.Join(defs, ", "))
}

func (s *SQLStore) insertBatch(ctx context.Context, tx *sql.Tx, table string, ds *models.Dataset, batch []*models.Bank) error {
	columns := ds.Columns()
	perRow := len(columns)

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = QuoteIdent(c)
	}

	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*perRow)

	for idx, b := range batch {
		holders := make([]string, perRow)
		for j := range holders {
			holders[j] = s.placeholder(idx*perRow + j + 1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(holders, ",")+")")

		valueArgs = append(valueArgs, b.Name, b.MarketCapUSD)
		for _, v := range b.Converted {
			valueArgs = append(valueArgs, v)
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		QuoteIdent(table), strings.Join(quoted, ", "), strings.Join(valueStrings, ","))

	_, err := tx.ExecContext(ctx, query, valueArgs...)
	return err
}

func (s *SQLStore) placeholder(n int) string {
	if s.driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Query runs a read query and materializes every row. Failures are
// *models.QueryError carrying the query text.
func (s *SQLStore) Query(ctx context.Context, query string) (*models.QueryResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &models.QueryError{Query: query, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &models.QueryError{Query: query, Err: fmt.Errorf("columns: %w", err)}
	}

	result := &models.QueryResult{Columns: cols, Rows: make([][]any, 0)}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for j := range values {
			ptrs[j] = &values[j]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &models.QueryError{Query: query, Err: fmt.Errorf("scan row: %w", err)}
		}
		for j, v := range values {
			if b, ok := v.([]byte); ok {
				values[j] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.QueryError{Query: query, Err: fmt.Errorf("iterate: %w", err)}
	}
	return result, nil
}

// Close closes the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// QuoteIdent quotes a table or column name for both SQLite and PostgreSQL.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
