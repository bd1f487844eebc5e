package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hiretools/catalog-cli/internal/catalog"
	"github.com/hiretools/catalog-cli/internal/export"
	"github.com/hiretools/catalog-cli/internal/model"
)

var (
	scrapeMaxPages int
	scrapeOutPath  string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the catalog listing and write a timestamped CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		scrapeCfg := cfg.Scrape
		if scrapeMaxPages > 0 {
			scrapeCfg.MaxPages = scrapeMaxPages
		}

		scraper, err := catalog.NewScraper(newCatalogFetcher(), scrapeCfg)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.CreateScrapeRun(ctx)
		if err != nil {
			return err
		}

		products, stats, scrapeErr := scraper.Run(ctx)

		status := model.RunStatusComplete
		if scrapeErr != nil {
			status = model.RunStatusFailed
		}
		if err := st.CompleteScrapeRun(ctx, run.ID, status, stats.Pages, stats.Products); err != nil {
			zap.L().Warn("record scrape run", zap.Error(err))
		}

		// Write whatever was collected, even when the scrape aborted early.
		if len(products) > 0 {
			path := scrapeOutPath
			if path == "" {
				path, err = export.New(cfg.Export.Dir, cfg.Export.Prefix).CSV(products)
				if err != nil {
					return err
				}
			} else if err := export.WriteCSV(path, products); err != nil {
				return err
			}
			zap.L().Info("catalog written",
				zap.String("path", path),
				zap.Int("pages", stats.Pages),
				zap.Int("products", stats.Products),
			)
		}

		if scrapeErr != nil {
			return eris.Wrap(scrapeErr, "scrape")
		}
		return nil
	},
}

func init() {
	scrapeCmd.Flags().IntVar(&scrapeMaxPages, "max-pages", 0, "page ceiling (default from config)")
	scrapeCmd.Flags().StringVar(&scrapeOutPath, "out", "", "output CSV path (default timestamped file in export dir)")
	rootCmd.AddCommand(scrapeCmd)
}
