package main

import (
	"net/url"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hiretools/catalog-cli/internal/catalog"
	"github.com/hiretools/catalog-cli/internal/export"
	"github.com/hiretools/catalog-cli/internal/model"
)

var enrichInPath string

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fetch detail pages for a scraped listing and store the enriched catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		products, err := loadListingCSV(enrichInPath)
		if err != nil {
			return err
		}

		u, err := url.Parse(cfg.Scrape.BaseURL)
		if err != nil {
			return eris.Wrapf(err, "parse base url %s", cfg.Scrape.BaseURL)
		}
		siteBase := u.Scheme + "://" + u.Host

		enricher := catalog.NewEnricher(newCatalogFetcher(), siteBase, cfg.Enrich.Concurrency)
		enriched, err := enricher.Run(ctx, products)
		if err != nil {
			return eris.Wrap(err, "enrich")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		stored, err := st.UpsertProducts(ctx, enriched)
		if err != nil {
			return err
		}

		path, err := export.New(cfg.Export.Dir, cfg.Export.Prefix+"_enriched").CSV(enriched)
		if err != nil {
			return err
		}

		zap.L().Info("enrichment complete",
			zap.Int("products", len(enriched)),
			zap.Int("stored", stored),
			zap.String("path", path),
		)
		return nil
	},
}

// loadListingCSV reads a scraped listing CSV back into product rows.
func loadListingCSV(path string) ([]model.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open listing %s", path)
	}
	var products []model.Product
	if err := csvutil.Unmarshal(data, &products); err != nil {
		return nil, eris.Wrapf(err, "decode listing %s", path)
	}
	if len(products) == 0 {
		return nil, eris.Errorf("listing %s has no rows", path)
	}
	return products, nil
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInPath, "in", "", "path to scraped listing CSV (required)")
	_ = enrichCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(enrichCmd)
}
