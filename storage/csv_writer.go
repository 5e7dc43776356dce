package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"banks-etl/models"
	"banks-etl/utils"
)

// CSVWriter writes the transformed dataset to a comma-separated file with a
// leading 0-based row index column.
type CSVWriter struct {
	path   string
	logger *utils.Logger
}

// NewCSVWriter returns a CSVWriter targeting path. Nothing is created until Write.
func NewCSVWriter(path string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{path: path, logger: logger}
}

// Write creates (or truncates) the file and writes the header and all rows.
// An empty dataset writes nothing and only logs a warning.
func (c *CSVWriter) Write(ds *models.Dataset) error {
	if ds.Len() == 0 {
		c.logger.Warn("[csv] Dataset is empty, %s was not created", c.path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return &models.PersistenceError{Op: "create csv dir", Err: err}
	}

	f, err := os.Create(c.path)
	if err != nil {
		return &models.PersistenceError{Op: "create csv file", Err: err}
	}

	if err := writeDataset(csv.NewWriter(f), ds); err != nil {
		_ = f.Close()
		return &models.PersistenceError{Op: "write csv file", Err: fmt.Errorf("%s: %w", c.path, err)}
	}
	if err := f.Close(); err != nil {
		return &models.PersistenceError{Op: "close csv file", Err: err}
	}

	c.logger.Info("[csv] Wrote %d rows to %s", ds.Len(), c.path)
	return nil
}

func writeDataset(w *csv.Writer, ds *models.Dataset) error {
	header := append([]string{""}, ds.Columns()...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, b := range ds.Banks {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(i), b.Name, formatFloat(b.MarketCapUSD))
		for _, v := range b.Converted {
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
