package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"banks-etl/models"
)

const (
	rateColumnCurrency = "Currency"
	rateColumnRate     = "Rate"
)

// LoadRateTable reads a CSV exchange-rate table with Currency and Rate header
// columns (any position; other columns are ignored). Rows keep file order and
// a repeated currency overrides the earlier rate.
func LoadRateTable(path string) (*models.RateTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rates: open %q: %w", path, err)
	}
	defer f.Close()

	return ReadRateTable(f)
}

// ReadRateTable is LoadRateTable over an arbitrary reader.
func ReadRateTable(r io.Reader) (*models.RateTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("rates: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("rates: read header: %w", err)
	}

	currencyIdx, rateIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case rateColumnCurrency:
			currencyIdx = i
		case rateColumnRate:
			rateIdx = i
		}
	}
	if currencyIdx < 0 || rateIdx < 0 {
		return nil, fmt.Errorf("rates: header %v must contain %q and %q columns", header, rateColumnCurrency, rateColumnRate)
	}

	table := models.NewRateTable()
	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("rates: read row %d: %w", row, err)
		}

		currency := strings.TrimSpace(record[currencyIdx])
		if currency == "" {
			return nil, fmt.Errorf("rates: row %d has an empty currency code", row)
		}

		raw := strings.TrimSpace(record[rateIdx])
		rate, err := strconv.ParseFloat(raw, 64)
		if err == nil && !(rate > 0) {
			err = fmt.Errorf("rate must be positive")
		}
		if err != nil {
			return nil, &models.TypeCoercionError{Row: row, Name: currency, Column: rateColumnRate, Value: raw, Err: err}
		}

		table.Set(currency, rate)
	}
	return table, nil
}
