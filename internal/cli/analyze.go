package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cryptoradar/internal/analysis"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <asset-id>",
		Short: "Run the full analysis pipeline for one asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assetID := args[0]

			result, err := app.Analyzer.Analyze(cmd.Context(), assetID)
			if err != nil {
				return err
			}

			if app.Store != nil {
				if err := app.Store.SaveAnalysis(cmd.Context(), result); err != nil {
					app.Logger.Warn().Err(err).Msg("failed to persist analysis")
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(result)
			}

			printAnalysis(result)
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history <asset-id>",
		Short: "Show the most recent stored analysis for an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			result, err := app.Store.LatestAnalysis(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(result)
			}

			printAnalysis(result)
			return nil
		},
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printAnalysis(a *analysis.Analysis) {
	bold := color.New(color.Bold)

	bold.Printf("%s (%s)\n", a.Symbol, a.AssetID)
	fmt.Printf("  Technical:   %6.1f\n", a.TechnicalScore)
	fmt.Printf("  Fundamental: %6.1f\n", a.FundamentalScore)
	fmt.Printf("  Sentiment:   %6.1f\n", a.SentimentScore)
	fmt.Printf("  Overall:     %6.1f\n", a.OverallScore)
	fmt.Printf("  Predicted:   %+6.2f%% (24h)\n", a.PredictedChange)
	fmt.Printf("  Target:      %.4f\n", a.PriceTarget)
	fmt.Printf("  Confidence:  %6.1f\n", a.Confidence)
	fmt.Printf("  Risk:        %s\n", a.RiskLevel)
	fmt.Printf("  Regime:      %s %s (%.1f)\n", a.MarketRegime.Regime, a.MarketRegime.Direction, a.MarketRegime.Strength)
	fmt.Printf("  Call:        %s\n", colorRecommendation(a.Recommendation))

	if len(a.MultiTimeframe) > 0 {
		fmt.Println("  Timeframes:")
		for _, tf := range a.MultiTimeframe {
			fmt.Printf("    %-4s %-8s strength %5.1f\n", tf.Timeframe, tf.Trend, tf.Strength)
		}
	}

	if len(a.Signals) > 0 {
		fmt.Println("  Signals:")
		for _, s := range a.Signals {
			fmt.Printf("    - %s\n", s)
		}
	}
}

func colorRecommendation(r analysis.Recommendation) string {
	switch r {
	case analysis.RecommendationLong:
		return color.GreenString(string(r))
	case analysis.RecommendationShort:
		return color.RedString(string(r))
	default:
		return color.YellowString(string(r))
	}
}
