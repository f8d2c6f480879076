package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRankCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rank [asset-id...]",
		Short: "Analyze a universe of assets and rank the top expected movers",
		Long: `Rank analyzes every listed asset (or the configured universe when no
arguments are given), excludes assets whose data is unavailable, and prints
the top movers ordered by absolute predicted change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			universe := args
			if len(universe) == 0 {
				universe = app.Config.Universe
			}
			if len(universe) == 0 {
				return fmt.Errorf("no assets given and no universe configured")
			}

			results, err := app.Ranker.Rank(cmd.Context(), universe)
			if err != nil {
				return err
			}

			if app.Store != nil {
				for _, result := range results {
					if err := app.Store.SaveAnalysis(cmd.Context(), result); err != nil {
						app.Logger.Warn().Str("asset", result.AssetID).Err(err).
							Msg("failed to persist analysis")
					}
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(results)
			}

			if len(results) == 0 {
				fmt.Println("no assets could be analyzed")
				return nil
			}

			bold := color.New(color.Bold)
			bold.Printf("%-4s %-10s %-9s %-9s %-9s %-8s %s\n",
				"#", "Symbol", "Predicted", "Technical", "Overall", "Risk", "Call")
			for i, r := range results {
				fmt.Printf("%-4d %-10s %+8.2f%% %9.1f %9.1f %-8s %s\n",
					i+1, r.Symbol, r.PredictedChange, r.TechnicalScore,
					r.OverallScore, r.RiskLevel, colorRecommendation(r.Recommendation))
			}

			return nil
		},
	}
}
