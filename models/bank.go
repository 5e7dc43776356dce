package models

import "fmt"

const (
	ColumnName         = "Name"
	ColumnMarketCapUSD = "MarketCapUSD"
)

// RawBank holds one table row exactly as scraped from the source page.
// MarketCapUSD stays text here; it is coerced to a number by the transformer.
type RawBank struct {
	Name         string
	MarketCapUSD string
}

// Bank is a row with its USD market cap parsed and one converted value per
// currency of the rate table, in rate-table order.
type Bank struct {
	Name         string
	MarketCapUSD float64
	Converted    []float64
}

// ExchangeRate is a single currency code to USD multiplier.
type ExchangeRate struct {
	Currency string
	Rate     float64
}

// RateTable is an ordered currency → rate mapping. Setting a currency that is
// already present replaces its rate but keeps its first position.
type RateTable struct {
	entries []ExchangeRate
	index   map[string]int
}

// NewRateTable builds a RateTable from entries, applying last-one-wins for
// duplicate currency codes.
func NewRateTable(entries ...ExchangeRate) *RateTable {
	t := &RateTable{index: make(map[string]int)}
	for _, e := range entries {
		t.Set(e.Currency, e.Rate)
	}
	return t
}

// Set adds or replaces the rate for currency.
func (t *RateTable) Set(currency string, rate float64) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[currency]; ok {
		t.entries[i].Rate = rate
		return
	}
	t.index[currency] = len(t.entries)
	t.entries = append(t.entries, ExchangeRate{Currency: currency, Rate: rate})
}

// Rate returns the rate for currency.
func (t *RateTable) Rate(currency string) (float64, bool) {
	i, ok := t.index[currency]
	if !ok {
		return 0, false
	}
	return t.entries[i].Rate, true
}

// Entries returns a copy of the table in insertion order.
func (t *RateTable) Entries() []ExchangeRate {
	out := make([]ExchangeRate, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of distinct currencies.
func (t *RateTable) Len() int { return len(t.entries) }

// ConvertedColumn names the derived column for a currency, e.g. MarketCap_GBPBillion.
func ConvertedColumn(currency string) string {
	return fmt.Sprintf("MarketCap_%sBillion", currency)
}

// Dataset is the transformed, ordered bank table together with its schema.
type Dataset struct {
	Currencies []string
	Banks      []*Bank
}

// Columns returns the relation columns: Name, MarketCapUSD, then one derived
// column per currency.
func (d *Dataset) Columns() []string {
	cols := make([]string, 0, 2+len(d.Currencies))
	cols = append(cols, ColumnName, ColumnMarketCapUSD)
	for _, c := range d.Currencies {
		cols = append(cols, ConvertedColumn(c))
	}
	return cols
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Banks) }

// QueryResult is a fully materialized result set of an ad-hoc query.
type QueryResult struct {
	Columns []string
	Rows    [][]any
}
