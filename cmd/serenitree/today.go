package serenitree

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/display"
	"github.com/saadjs/serenitree-cli/internal/service"
)

var todayDays int

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's mood, stats and insights",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(sqldb *sql.DB, client *api.Client) error {
			status, err := service.TodaySummary(cmd.Context(), client, sqldb, time.Now(), todayDays)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, status)
			}
			printToday(cmd, status)
			return nil
		})
	},
}

func printToday(cmd *cobra.Command, s *service.TodayStatus) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Today: %s\n", s.Date)
	switch {
	case s.HasMood && s.Mood != nil:
		style := display.Mood(s.Mood.MoodLevel)
		fmt.Fprintf(out, "Mood: %s %s (%d/5)\n", s.Mood.Emoji, style.Label, s.Mood.MoodLevel)
	case s.Errors["mood"] == "":
		fmt.Fprintln(out, "Mood: not logged yet (serenitree mood log <1-5>)")
	}
	if s.Stats != nil {
		fmt.Fprintf(out, "Average over %d days: %.1f from %d entries\n",
			s.Stats.PeriodDays, s.Stats.AverageMood, s.Stats.TotalEntries)
	}
	if s.DailyInsight != nil {
		label := "Daily insight"
		if s.DailyInsightNew {
			label += " (new)"
		}
		fmt.Fprintf(out, "%s: %s\n", label, s.DailyInsight.Text)
	}
	fmt.Fprintf(out, "Unread insights: %d\n", s.UnreadInsights)

	sections := make([]string, 0, len(s.Errors))
	for section := range s.Errors {
		sections = append(sections, section)
	}
	sort.Strings(sections)
	for _, section := range sections {
		fmt.Fprintf(out, "warning: %s unavailable: %s\n", section, s.Errors[section])
	}
}

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.Flags().IntVar(&todayDays, "days", service.RecentMoodDays, "Stats window in days")
}
