package serenitree

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/display"
	"github.com/saadjs/serenitree-cli/internal/model"
	"github.com/saadjs/serenitree-cli/internal/service"
)

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Log and review moods",
}

var (
	moodEmoji    string
	moodNote     string
	moodTriggers []string
	moodCustom   string
	moodLevel    int
	moodLimit    int
	moodOffset   int
	moodDays     int
)

var moodLogCmd = &cobra.Command{
	Use:   "log <level 1-5>",
	Short: "Record how you feel right now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLevelArg(args[0])
		if err != nil {
			return err
		}
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			tracker := service.NewMoodTracker(client)
			defer tracker.Close()
			entry, err := tracker.Save(cmd.Context(), service.MoodInput{
				Level:    level,
				Emoji:    moodEmoji,
				Note:     moodNote,
				Triggers: moodTriggers,
				Custom:   moodCustom,
			})
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, entry)
			}
			style := display.Mood(entry.MoodLevel)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s %s (%d/5)\n", entry.Emoji, style.Label, entry.MoodLevel)
			if len(entry.Triggers) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Triggers: %s\n", strings.Join(entry.Triggers, ", "))
			}
			return nil
		})
	},
}

var moodRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show today's mood and the last 10 entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			tracker := service.NewMoodTracker(client)
			defer tracker.Close()
			if err := tracker.Load(cmd.Context()); err != nil {
				return err
			}
			view := tracker.Snapshot()
			if jsonOut {
				return printJSON(cmd, view)
			}
			out := cmd.OutOrStdout()
			if view.Today.HasEntry && view.Today.Entry != nil {
				fmt.Fprintf(out, "Today: %s %s\n", view.Today.Entry.Emoji, display.Mood(view.Today.Entry.MoodLevel).Label)
			} else {
				fmt.Fprintln(out, "Today: not logged yet")
			}
			if view.State == service.StateEmpty {
				fmt.Fprintln(out, "No mood entries yet. Start with `serenitree mood log 3`.")
				return nil
			}
			printMoodEntries(cmd, view.Recent)
			return nil
		})
	},
}

var moodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mood entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			page, err := client.ListMoods(cmd.Context(), api.MoodQuery{Limit: moodLimit, Offset: moodOffset, Days: moodDays})
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, page)
			}
			printMoodEntries(cmd, page.Entries)
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d entries\n", len(page.Entries), page.Total)
			return nil
		})
	},
}

var moodTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's mood",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			today, err := client.TodayMood(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, today)
			}
			if !today.HasEntry || today.Entry == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No mood logged today")
				return nil
			}
			printMoodEntries(cmd, []model.MoodEntry{*today.Entry})
			return nil
		})
	},
}

var moodShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one mood entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			entry, err := client.GetMood(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, entry)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID: %s\n", entry.ID)
			fmt.Fprintf(out, "Mood: %s %s (%d/5)\n", entry.Emoji, display.Mood(entry.MoodLevel).Label, entry.MoodLevel)
			fmt.Fprintf(out, "Logged: %s\n", formatTime(entry.CreatedAt))
			if entry.Note != "" {
				fmt.Fprintf(out, "Note: %s\n", entry.Note)
			}
			if len(entry.Triggers) > 0 {
				fmt.Fprintf(out, "Triggers: %s\n", strings.Join(entry.Triggers, ", "))
			}
			return nil
		})
	},
}

var moodUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a mood entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in api.UpdateMoodInput
		updates := 0
		if cmd.Flags().Changed("level") {
			in.MoodLevel = &moodLevel
			updates++
		}
		if cmd.Flags().Changed("emoji") {
			in.Emoji = &moodEmoji
			updates++
		}
		if cmd.Flags().Changed("note") {
			in.Note = &moodNote
			updates++
		}
		if cmd.Flags().Changed("trigger") || cmd.Flags().Changed("custom") {
			in.Triggers = service.ResolveTriggers(moodTriggers, moodCustom)
			updates++
		}
		if updates == 0 {
			return fmt.Errorf("set at least one flag")
		}
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			entry, err := client.UpdateMood(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated mood entry %s\n", entry.ID)
			return nil
		})
	},
}

var moodDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a mood entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			if err := client.DeleteMood(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted mood entry %s\n", args[0])
			return nil
		})
	},
}

var moodStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize moods over a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			stats, err := client.MoodStats(cmd.Context(), moodDays)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, stats)
			}
			printMoodStats(cmd, stats)
			return nil
		})
	},
}

var moodTriggersCmd = &cobra.Command{
	Use:   "triggers",
	Short: "List the common triggers",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range service.CommonTriggers {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
	},
}

func printMoodEntries(cmd *cobra.Command, entries []model.MoodEntry) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "ID\tWHEN\tMOOD\tTRIGGERS\tNOTE")
	for _, e := range entries {
		fmt.Fprintf(out, "%s\t%s\t%s %d\t%s\t%s\n",
			e.ID, formatTime(e.CreatedAt), e.Emoji, e.MoodLevel, strings.Join(e.Triggers, ","), truncate(e.Note, 40))
	}
}

func printMoodStats(cmd *cobra.Command, stats model.MoodStats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Period: last %d days\n", stats.PeriodDays)
	fmt.Fprintf(out, "Entries: %d\n", stats.TotalEntries)
	fmt.Fprintf(out, "Average mood: %.1f\n", stats.AverageMood)
	levels := make([]int, 0, len(stats.Distribution))
	for level := range stats.Distribution {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	for _, level := range levels {
		style := display.Mood(level)
		fmt.Fprintf(out, "  %s %-9s %d\n", style.Emoji, style.Label, stats.Distribution[level])
	}
	for _, t := range stats.CommonTriggers {
		fmt.Fprintf(out, "  trigger %s: %d\n", t.Trigger, t.Count)
	}
}

func init() {
	rootCmd.AddCommand(moodCmd)
	moodCmd.AddCommand(moodLogCmd, moodRecentCmd, moodListCmd, moodTodayCmd, moodShowCmd, moodUpdateCmd, moodDeleteCmd, moodStatsCmd, moodTriggersCmd)

	for _, c := range []*cobra.Command{moodLogCmd, moodUpdateCmd} {
		c.Flags().StringVar(&moodEmoji, "emoji", "", "Emoji for the entry (defaults to the level's emoji)")
		c.Flags().StringVar(&moodNote, "note", "", "Optional note")
		c.Flags().StringSliceVar(&moodTriggers, "trigger", nil, "Trigger (repeatable; \"Other\" uses --custom)")
		c.Flags().StringVar(&moodCustom, "custom", "", "Custom trigger replacing Other")
	}
	moodUpdateCmd.Flags().IntVar(&moodLevel, "level", 0, "Mood level 1-5")

	moodListCmd.Flags().IntVar(&moodLimit, "limit", 20, "Maximum entries")
	moodListCmd.Flags().IntVar(&moodOffset, "offset", 0, "Entries to skip")
	for _, c := range []*cobra.Command{moodListCmd, moodStatsCmd} {
		c.Flags().IntVar(&moodDays, "days", 30, "Look-back window in days")
	}
}
