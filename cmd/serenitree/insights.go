package serenitree

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/display"
	"github.com/saadjs/serenitree-cli/internal/model"
	"github.com/saadjs/serenitree-cli/internal/service"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Read your wellness insights",
}

var (
	insightsLimit  int
	insightsUnread bool
)

var insightsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List insights (dismissed ones stay hidden)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(sqldb *sql.DB, client *api.Client) error {
			board := service.NewInsightBoard(client, sqldb, logger)
			list, err := board.Load(cmd.Context(), insightsLimit, insightsUnread)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No insights right now")
				return nil
			}
			printInsights(cmd, list)
			fmt.Fprintf(cmd.OutOrStdout(), "%d unread\n", board.UnreadCount())
			return nil
		})
	},
}

var insightsUrgentCmd = &cobra.Command{
	Use:   "urgent",
	Short: "List urgent insights",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(sqldb *sql.DB, client *api.Client) error {
			list, err := service.NewInsightBoard(client, sqldb, logger).Urgent(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No urgent insights")
				return nil
			}
			printInsights(cmd, list)
			printUrgentResources(cmd)
			return nil
		})
	},
}

var insightsDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show today's insight",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			insight, isNew, err := client.DailyInsight(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, map[string]any{"insight": insight, "is_new": isNew})
			}
			printInsights(cmd, []model.WellnessInsight{insight})
			return nil
		})
	},
}

var insightsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark an insight as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(sqldb *sql.DB, client *api.Client) error {
			if err := service.NewInsightBoard(client, sqldb, logger).MarkRead(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s as read\n", args[0])
			return nil
		})
	},
}

var insightsDismissCmd = &cobra.Command{
	Use:   "dismiss <id>",
	Short: "Dismiss an insight so it no longer shows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(sqldb *sql.DB, client *api.Client) error {
			if err := service.NewInsightBoard(client, sqldb, logger).Dismiss(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dismissed %s\n", args[0])
			return nil
		})
	},
}

var insightsRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Show previously dismissed insights again",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			n, err := service.ForgetDismissed(cmd.Context(), sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d insight(s)\n", n)
			return nil
		})
	},
}

func printInsights(cmd *cobra.Command, list []model.WellnessInsight) {
	out := cmd.OutOrStdout()
	for _, in := range list {
		style := display.Insight(in.Type)
		badge := display.Priority(in.Priority).Badge
		marker := " "
		if !in.IsRead {
			marker = "*"
		}
		fmt.Fprintf(out, "%s [%s] %s\t%s\t%s\n", marker, badge, style.Label, in.ID, in.Text)
		if in.Recommendation != "" {
			fmt.Fprintf(out, "    Try: %s\n", in.Recommendation)
		}
		if in.ActivitySuggestion != "" {
			fmt.Fprintf(out, "    Activity: %s\n", in.ActivitySuggestion)
		}
	}
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.AddCommand(insightsListCmd, insightsUrgentCmd, insightsDailyCmd, insightsReadCmd, insightsDismissCmd, insightsRestoreCmd)
	insightsListCmd.Flags().IntVar(&insightsLimit, "limit", 10, "Maximum insights")
	insightsListCmd.Flags().BoolVar(&insightsUnread, "unread", false, "Only unread insights")
}
