package banks

import (
	"context"

	"banks-etl/config"
	"banks-etl/models"
	"banks-etl/utils"
)

// NewFetcher returns the Fetcher selected by cfg.FetchMode.
func NewFetcher(cfg *config.Config, logger *utils.Logger) Fetcher {
	if cfg.FetchMode == config.FetchModeBrowser {
		return NewBrowserFetcher(cfg.ChromeBin, cfg.FetchTimeout, logger)
	}
	return NewHTTPFetcher(nil, cfg.FetchTimeout)
}

// Scraper downloads the bank list page and extracts its first table.
type Scraper struct {
	url     string
	fetcher Fetcher
	logger  *utils.Logger
}

// New creates a Scraper for url using fetcher.
func New(url string, fetcher Fetcher, logger *utils.Logger) *Scraper {
	return &Scraper{url: url, fetcher: fetcher, logger: logger}
}

// Scrape fetches the page and returns its rows. Errors are *models.FetchError
// or *models.ExtractionError.
func (s *Scraper) Scrape(ctx context.Context) ([]*models.RawBank, error) {
	s.logger.Info("[banks] Fetching %s", s.url)

	html, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("[banks] Downloaded %d bytes", len(html))

	rows, err := Extract(html)
	if err != nil {
		return nil, err
	}

	s.logger.Info("[banks] Extracted %d rows", len(rows))
	return rows, nil
}
