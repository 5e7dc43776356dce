package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"banks-etl/models"
	"banks-etl/storage"
	"banks-etl/utils"
)

// Querier runs a read query and returns the full result set.
type Querier interface {
	Query(ctx context.Context, query string) (*models.QueryResult, error)
}

// ReportQueries returns the fixed reporting queries for table: every row, the
// average of currency's converted column, and the first five bank names.
func ReportQueries(table, currency string) []string {
	t := storage.QuoteIdent(table)
	return []string{
		fmt.Sprintf("SELECT * FROM %s", t),
		fmt.Sprintf("SELECT AVG(%s) FROM %s", storage.QuoteIdent(models.ConvertedColumn(currency)), t),
		fmt.Sprintf("SELECT %s FROM %s LIMIT 5", storage.QuoteIdent(models.ColumnName), t),
	}
}

// QueryRunner executes reporting queries and prints their results.
type QueryRunner struct {
	db     Querier
	out    io.Writer
	logger *utils.Logger
}

// NewQueryRunner creates a QueryRunner printing to out.
func NewQueryRunner(db Querier, out io.Writer, logger *utils.Logger) *QueryRunner {
	return &QueryRunner{db: db, out: out, logger: logger}
}

// Run prints query, executes it and renders every row. Query failures are
// *models.QueryError; a failed write to the output is returned wrapped.
func (r *QueryRunner) Run(ctx context.Context, query string) error {
	fmt.Fprintln(r.out, query)

	res, err := r.db.Query(ctx, query)
	if err != nil {
		return err
	}
	r.logger.Debug("[report] %d rows from %q", len(res.Rows), query)

	return r.render(res)
}

func (r *QueryRunner) render(res *models.QueryResult) error {
	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)

	header := append([]string{""}, res.Columns...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i, row := range res.Rows {
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, strconv.Itoa(i))
		for _, v := range row {
			cells = append(cells, formatCell(v))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("report: write results: %w", err)
	}

	fmt.Fprintln(r.out)
	return nil
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}
