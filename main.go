package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"banks-etl/config"
	"banks-etl/pipeline"
	"banks-etl/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "banks-etl",
		Short: "Extract the largest banks table, convert market caps and load them to CSV and SQL",
		Long: `banks-etl downloads the archived "List of largest banks" page, converts each
bank's USD market capitalization with the exchange-rate table, writes the
result to a CSV file and a database table, then prints the reporting queries.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := utils.NewLogger()

			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			logger.SetLevel(cfg.LogLevel)

			logger.Info("=== Banks ETL starting ===")
			logger.Info("Config — source: %s | fetch: %s | db: %s | table: %s",
				cfg.SourceURL, cfg.FetchMode, cfg.DB.Driver, cfg.TableName)

			if err := pipeline.New(cfg, logger).Run(cmd.Context()); err != nil {
				logger.Error("ETL run failed: %v", err)
				return err
			}

			logger.Info("=== Banks ETL finished ===")
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	return cmd
}
