package serenitree

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/companion"
	"github.com/saadjs/serenitree-cli/internal/display"
	"github.com/saadjs/serenitree-cli/internal/model"
	"github.com/saadjs/serenitree-cli/internal/service"
)

var sentimentCmd = &cobra.Command{
	Use:   "sentiment",
	Short: "Analyze text and review emotional trends",
}

var (
	sentimentJournalID string
	sentimentDays      int
)

var sentimentAnalyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze the sentiment of text (reads stdin when no text is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read text: %w", err)
			}
			text = string(b)
		}
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			res, err := service.AnalyzeSentiment(cmd.Context(), client, logger, text, sentimentJournalID)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, res)
			}
			printSentiment(cmd, res)
			return nil
		})
	},
}

var sentimentTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show sentiment trends over 7, 30 or 90 days",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.ValidateTrendWindow(sentimentDays); err != nil {
			return err
		}
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			trend, err := client.SentimentTrends(cmd.Context(), sentimentDays)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, trend)
			}
			out := cmd.OutOrStdout()
			if !trend.HasData {
				msg := trend.Message
				if msg == "" {
					msg = "Not enough data yet. Keep journaling and chatting to see trends."
				}
				fmt.Fprintln(out, msg)
				return nil
			}
			style := display.Trend(trend.Trend)
			fmt.Fprintf(out, "Trend: %s\n", style.Label)
			fmt.Fprintf(out, "Risk level: %s\n", trend.RiskLevel)
			fmt.Fprintf(out, "Average score: %.2f\n", trend.AverageScore)
			if trend.ConsecutiveNegative > 0 {
				fmt.Fprintf(out, "Consecutive negative days: %d\n", trend.ConsecutiveNegative)
			}
			for _, label := range []string{model.SentimentPositive, model.SentimentNeutral, model.SentimentNegative} {
				if n, ok := trend.Distribution[label]; ok {
					s := display.Sentiment(label)
					fmt.Fprintf(out, "  %s %-8s %d\n", s.Emoji, s.Label, n)
				}
			}
			if trend.PatternInsight != nil {
				fmt.Fprintf(out, "Pattern: %s\n", trend.PatternInsight.Text)
			}
			fmt.Fprintln(out, companion.SupportiveMessage(trend.RiskLevel, trend.Trend))
			return nil
		})
	},
}

func printSentiment(cmd *cobra.Command, res model.SentimentAnalysis) {
	out := cmd.OutOrStdout()
	s := res.Sentiment
	style := display.Sentiment(s.Label)
	fmt.Fprintf(out, "Sentiment: %s %s\n", style.Emoji, style.Label)
	fmt.Fprintf(out, "  positive %s  neutral %s  negative %s\n",
		display.Percent(s.Scores.Positive), display.Percent(s.Scores.Neutral), display.Percent(s.Scores.Negative))
	if len(s.DetectedEmotions) > 0 {
		fmt.Fprintf(out, "Emotions: %s\n", strings.Join(s.DetectedEmotions, ", "))
	}
	if res.Local {
		fmt.Fprintln(out, "(analyzed offline with the local keyword model)")
	}
	for _, in := range res.Insights {
		fmt.Fprintf(out, "Insight: %s\n", in.Text)
	}
	if s.CrisisFlag {
		printUrgentResources(cmd)
	}
}

func init() {
	rootCmd.AddCommand(sentimentCmd)
	sentimentCmd.AddCommand(sentimentAnalyzeCmd, sentimentTrendsCmd)
	sentimentAnalyzeCmd.Flags().StringVar(&sentimentJournalID, "journal", "", "Attach the analysis to a journal entry")
	sentimentTrendsCmd.Flags().IntVar(&sentimentDays, "days", 30, "Window: 7, 30 or 90")
}
