package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hiretools/catalog-cli/internal/export"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored catalog to a timestamped CSV or XLSX file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		products, err := st.ListProducts(ctx)
		if err != nil {
			return err
		}
		if len(products) == 0 {
			return eris.New("store has no products; run scrape and enrich first")
		}

		e := export.New(cfg.Export.Dir, cfg.Export.Prefix)

		var path string
		switch exportFormat {
		case "csv":
			path, err = e.CSV(products)
		case "xlsx":
			path, err = e.XLSX(products)
		default:
			return eris.Errorf("unsupported format: %s (want csv or xlsx)", exportFormat)
		}
		if err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("path", path),
			zap.Int("products", len(products)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or xlsx")
	rootCmd.AddCommand(exportCmd)
}
