package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"banks-etl/models"
	"banks-etl/utils"
)

// Transformer turns scraped rows into the typed, currency-enriched dataset.
type Transformer struct {
	logger *utils.Logger
}

// NewTransformer creates a Transformer with the given logger.
func NewTransformer(logger *utils.Logger) *Transformer {
	return &Transformer{logger: logger}
}

// Transform parses every MarketCapUSD value and appends one converted value
// per rate-table entry, in rate-table order. The input rows are not modified.
// The first unparsable value aborts with a *models.TypeCoercionError.
func (t *Transformer) Transform(raw []*models.RawBank, rates *models.RateTable) (*models.Dataset, error) {
	entries := rates.Entries()

	ds := &models.Dataset{
		Currencies: make([]string, 0, len(entries)),
		Banks:      make([]*models.Bank, 0, len(raw)),
	}
	for _, e := range entries {
		ds.Currencies = append(ds.Currencies, e.Currency)
	}

	for i, r := range raw {
		usd, err := parseMarketCap(r.MarketCapUSD)
		if err != nil {
			return nil, &models.TypeCoercionError{
				Row:    i,
				Name:   r.Name,
				Column: models.ColumnMarketCapUSD,
				Value:  r.MarketCapUSD,
				Err:    err,
			}
		}

		bank := &models.Bank{
			Name:         r.Name,
			MarketCapUSD: usd,
			Converted:    make([]float64, len(entries)),
		}
		for j, e := range entries {
			bank.Converted[j] = Convert(usd, e.Rate)
		}
		ds.Banks = append(ds.Banks, bank)
	}

	t.logger.Info("[transform] Converted %d rows into %d currencies %v",
		len(ds.Banks), len(ds.Currencies), ds.Currencies)
	return ds, nil
}

// Convert returns usd*rate rounded to 2 decimal places, half to even. The
// product and its scaling by 100 are taken in float64 before rounding, so a
// product like 1.5*82.95 (124.42500000000001) rounds up to 124.43.
func Convert(usd, rate float64) float64 {
	cents := math.RoundToEven(usd * rate * 100)
	v, _ := decimal.NewFromFloat(cents).Shift(-2).Float64()
	return v
}

func parseMarketCap(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}
