package models

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateTableLastOneWins(t *testing.T) {
	table := NewRateTable(
		ExchangeRate{Currency: "GBP", Rate: 0.8},
		ExchangeRate{Currency: "EUR", Rate: 0.93},
		ExchangeRate{Currency: "GBP", Rate: 0.75},
	)

	require.Equal(t, 2, table.Len())
	entries := table.Entries()
	assert.Equal(t, "GBP", entries[0].Currency)
	assert.Equal(t, 0.75, entries[0].Rate)
	assert.Equal(t, "EUR", entries[1].Currency)

	rate, ok := table.Rate("EUR")
	assert.True(t, ok)
	assert.Equal(t, 0.93, rate)

	_, ok = table.Rate("INR")
	assert.False(t, ok)
}

func TestRateTableEntriesIsCopy(t *testing.T) {
	table := NewRateTable(ExchangeRate{Currency: "GBP", Rate: 0.8})
	entries := table.Entries()
	entries[0].Rate = 99

	rate, _ := table.Rate("GBP")
	assert.Equal(t, 0.8, rate)
}

func TestDatasetColumns(t *testing.T) {
	d := &Dataset{Currencies: []string{"GBP", "EUR", "INR"}}
	assert.Equal(t,
		[]string{"Name", "MarketCapUSD", "MarketCap_GBPBillion", "MarketCap_EURBillion", "MarketCap_INRBillion"},
		d.Columns())
	assert.Equal(t, 0, d.Len())
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("boom")

	tests := []error{
		&FetchError{URL: "http://x", Err: cause},
		&ExtractionError{Reason: "no tbody", Err: cause},
		&TypeCoercionError{Row: 3, Name: "Bank", Column: ColumnMarketCapUSD, Err: cause},
		&PersistenceError{Op: "insert", Table: "t", Err: cause},
		&QueryError{Query: "SELECT 1", Err: cause},
		&LogError{Path: "log.txt", Message: "m", Err: cause},
	}
	for _, err := range tests {
		assert.ErrorIs(t, err, cause, err.Error())
	}
}

func TestTypeCoercionErrorMessage(t *testing.T) {
	_, parseErr := strconv.ParseFloat("", 64)
	err := &TypeCoercionError{Row: 4, Name: "Bank E", Column: ColumnMarketCapUSD, Value: "", Err: parseErr}

	var target *TypeCoercionError
	require.True(t, errors.As(error(err), &target))
	assert.Contains(t, err.Error(), "row 4 (Bank E)")
	assert.Contains(t, err.Error(), `MarketCapUSD value ""`)
}

func TestFetchErrorStatus(t *testing.T) {
	err := &FetchError{URL: "http://example.com", StatusCode: 503}
	assert.Equal(t, "fetch http://example.com: unexpected status 503", err.Error())
}
