// Package pipeline runs the bank ETL stages in order: extract, transform,
// load to CSV, load to the database, then the reporting queries. Each stage
// runs only if the previous one succeeded and every transition is recorded in
// the progress log.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"banks-etl/config"
	"banks-etl/models"
	"banks-etl/scraper/banks"
	"banks-etl/services"
	"banks-etl/storage"
	"banks-etl/utils"
)

// Scraper produces the raw table rows.
type Scraper interface {
	Scrape(ctx context.Context) ([]*models.RawBank, error)
}

// StoreOpener opens the relational store for one run.
type StoreOpener func(ctx context.Context) (storage.TableStore, error)

// Summary describes a finished run.
type Summary struct {
	Rows       int
	Currencies []string
	CSVPath    string
	CSVWritten bool
	Table      string
	LogPath    string
}

// Runner owns the rate table and the store connection for the duration of a run.
type Runner struct {
	cfg         *config.Config
	logger      *utils.Logger
	progress    *utils.ProgressLog
	scraper     Scraper
	transformer *services.Transformer
	csv         storage.DatasetWriter
	openStore   StoreOpener
	out         io.Writer
}

// Option overrides one of the Runner's collaborators.
type Option func(*Runner)

// WithScraper replaces the page scraper.
func WithScraper(s Scraper) Option { return func(r *Runner) { r.scraper = s } }

// WithStoreOpener replaces how the store is opened.
func WithStoreOpener(open StoreOpener) Option { return func(r *Runner) { r.openStore = open } }

// WithOutput sets where query results and the summary are printed.
func WithOutput(w io.Writer) Option { return func(r *Runner) { r.out = w } }

// New wires a Runner from cfg.
func New(cfg *config.Config, logger *utils.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:         cfg,
		logger:      logger,
		progress:    utils.NewProgressLog(cfg.LogFilePath),
		scraper:     banks.New(cfg.SourceURL, banks.NewFetcher(cfg, logger), logger),
		transformer: services.NewTransformer(logger),
		csv:         storage.NewCSVWriter(cfg.CSVOutputPath, logger),
		out:         os.Stdout,
	}
	r.openStore = func(ctx context.Context) (storage.TableStore, error) {
		return storage.OpenSQLStore(ctx, cfg.DB.Driver, cfg.DB.DSN(), cfg.QueryTimeout)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// note records a stage transition on the console and in the progress log.
func (r *Runner) note(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.logger.Info("[pipeline] %s", msg)
	r.record(msg)
}

// fail records a stage failure and returns err unchanged.
func (r *Runner) fail(stage string, err error) error {
	msg := fmt.Sprintf("Error %s: %v", stage, err)
	r.logger.Error("[pipeline] %s", msg)
	r.record(msg)
	return err
}

// record appends msg to the progress log. A failed write is reported on the
// console and never stops the run.
func (r *Runner) record(msg string) {
	if err := r.progress.Log(msg); err != nil {
		r.logger.Error("[pipeline] %v", err)
	}
}

// Run executes the whole pipeline and returns the first stage error. The
// store is closed on every path once opened; a close failure is logged only.
func (r *Runner) Run(ctx context.Context) error {
	rates, err := storage.LoadRateTable(r.cfg.ExchangeRatePath)
	if err != nil {
		return r.fail("loading exchange rates", err)
	}
	if _, ok := rates.Rate(r.cfg.ReportCurrency); !ok {
		return r.fail("loading exchange rates",
			fmt.Errorf("report currency %s not in %s", r.cfg.ReportCurrency, r.cfg.ExchangeRatePath))
	}
	r.logger.Info("[pipeline] Loaded %d exchange rates from %s", rates.Len(), r.cfg.ExchangeRatePath)

	store, err := r.openStore(ctx)
	if err != nil {
		return r.fail("initiating SQL connection", err)
	}
	r.note("SQL Connection initiated.")
	defer func() {
		if cerr := store.Close(); cerr != nil {
			msg := fmt.Sprintf("Error closing SQL connection: %v", cerr)
			r.logger.Warn("[pipeline] %s", msg)
			r.record(msg)
			return
		}
		r.note("SQL connection closed.")
	}()

	r.note("Preliminaries complete. Initiating ETL process")

	raw, err := r.scraper.Scrape(ctx)
	if err != nil {
		return r.fail("during data extraction", err)
	}
	r.note("Data extraction complete. Initiating Transformation process")

	ds, err := r.transformer.Transform(raw, rates)
	if err != nil {
		return r.fail("during data transformation", err)
	}
	r.note("Data transformation complete. Initiating loading process")

	if err := r.csv.Write(ds); err != nil {
		return r.fail("saving data to CSV", err)
	}
	r.note("Data saved to CSV file")

	if err := store.ReplaceTable(ctx, r.cfg.TableName, ds); err != nil {
		return r.fail("loading data to database", err)
	}
	r.note("Data loaded to Database as table. Running the query")

	runner := services.NewQueryRunner(store, r.out, r.logger)
	for _, q := range services.ReportQueries(r.cfg.TableName, r.cfg.ReportCurrency) {
		if err := runner.Run(ctx, q); err != nil {
			return r.fail("running SQL query", err)
		}
		r.note("Process Complete.")
	}

	r.printSummary(Summary{
		Rows:       ds.Len(),
		Currencies: ds.Currencies,
		CSVPath:    r.cfg.CSVOutputPath,
		CSVWritten: ds.Len() > 0,
		Table:      r.cfg.TableName,
		LogPath:    r.progress.Path(),
	})
	return nil
}

func (r *Runner) printSummary(s Summary) {
	sep := strings.Repeat("═", 54)

	fmt.Fprintf(r.out, "%s\n", sep)
	fmt.Fprintf(r.out, "  Banks loaded : %d\n", s.Rows)
	fmt.Fprintf(r.out, "  Currencies   : %s\n", strings.Join(s.Currencies, ", "))
	if s.CSVWritten {
		fmt.Fprintf(r.out, "  CSV          : %s\n", s.CSVPath)
	} else {
		fmt.Fprintf(r.out, "  CSV          : not written (no rows)\n")
	}
	fmt.Fprintf(r.out, "  Table        : %s (%s)\n", s.Table, r.cfg.DB.Driver)
	fmt.Fprintf(r.out, "  Progress log : %s\n", s.LogPath)
	fmt.Fprintf(r.out, "%s\n", sep)
}
