package banks

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"banks-etl/models"
)

const (
	nameCell      = 1
	marketCapCell = 2
	minCells      = marketCapCell + 1
)

// Extract parses html and returns one RawBank per row of the first table body,
// in document order. Rows with fewer than three cells (headers, separators,
// rows of another shape) are skipped without error.
func Extract(html string) ([]*models.RawBank, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &models.ExtractionError{Reason: "parse HTML", Err: err}
	}

	tbody := doc.Find("tbody").First()
	if tbody.Length() == 0 {
		return nil, &models.ExtractionError{Reason: "no table body found in document"}
	}

	banks := make([]*models.RawBank, 0)
	tbody.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < minCells {
			return
		}
		banks = append(banks, &models.RawBank{
			Name:         strings.TrimSpace(cells.Eq(nameCell).Text()),
			MarketCapUSD: strings.TrimSpace(cells.Eq(marketCapCell).Text()),
		})
	})

	return banks, nil
}
