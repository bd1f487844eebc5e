package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/hiretools/catalog-cli/internal/model"
	"github.com/hiretools/catalog-cli/internal/recommend"
)

var (
	recommendOrg      string
	recommendTestType string
	recommendJobLevel string
	recommendLanguage string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend courses from the dataset by categorical filters",
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, err := loadEngine()
		if err != nil {
			return err
		}

		resp, err := engine.Recommend(model.RecommendationRequest{
			Organization: recommendOrg,
			TestType:     recommendTestType,
			JobLevel:     recommendJobLevel,
			Language:     recommendLanguage,
		})
		if eris.Is(err, recommend.ErrNoMatches) {
			fmt.Fprintln(os.Stderr, "No recommendations found for the given criteria.")
			return nil
		}
		if err != nil {
			return err
		}

		formatRecommendations(os.Stdout, resp)
		return nil
	},
}

// loadEngine builds a recommendation engine from the configured dataset.
func loadEngine() (*recommend.Engine, error) {
	courses, err := recommend.LoadDataset(cfg.Recommend.Dataset)
	if err != nil {
		return nil, err
	}
	return recommend.NewEngine(courses, cfg.Recommend.TopN, cfg.Recommend.MaxEditDistance), nil
}

// formatRecommendations writes a tabular result list to w.
func formatRecommendations(out io.Writer, resp *model.RecommendationResponse) {
	_, _ = fmt.Fprintf(out, "Matched %d course(s)\n\n", resp.Matched)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COURSE_ID\tTITLE\tSCORE\tURL")
	_, _ = fmt.Fprintln(w, "---------\t-----\t-----\t---")
	for _, r := range resp.Recommendations {
		title := r.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.3f\t%s\n", r.CourseID, title, r.Score, r.ProductURL)
	}
	_ = w.Flush()
}

func init() {
	recommendCmd.Flags().StringVar(&recommendOrg, "org", "", "organization name (echoed in output)")
	recommendCmd.Flags().StringVar(&recommendTestType, "test-type", "", "test type filter")
	recommendCmd.Flags().StringVar(&recommendJobLevel, "job-level", "", "job level filter")
	recommendCmd.Flags().StringVar(&recommendLanguage, "language", "", "language filter")
	rootCmd.AddCommand(recommendCmd)
}
