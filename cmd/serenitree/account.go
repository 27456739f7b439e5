package serenitree

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/model"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Profile, settings and your data",
}

var (
	profileInput api.ProfileInput
	settingsIn   model.UserSettings
	exportOut    string
	deleteYes    bool
)

var accountSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show notification, privacy and preference settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			s, err := client.Settings(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, s)
			}
			printSettings(cmd, s)
			return nil
		})
	},
}

var accountSettingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			current, err := client.Settings(cmd.Context())
			if err != nil {
				return err
			}
			next, updates := applySettingsFlags(cmd, current)
			if updates == 0 {
				return fmt.Errorf("set at least one flag")
			}
			saved, err := client.UpdateSettings(cmd.Context(), next)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, saved)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d setting(s)\n", updates)
			return nil
		})
	},
}

var accountProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update your name or phone number",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			user, err := client.UpdateProfile(cmd.Context(), profileInput)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile updated for %s\n", user.DisplayName())
			return nil
		})
	},
}

var accountExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download all your data as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			data, err := client.ExportData(cmd.Context())
			if err != nil {
				return err
			}
			if exportOut == "" || exportOut == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := os.WriteFile(exportOut, append(data, '\n'), 0o600); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported data to %s\n", exportOut)
			return nil
		})
	},
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Permanently delete your account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deleteYes {
			return fmt.Errorf("this permanently deletes your account and data; re-run with --yes to confirm")
		}
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			if err := client.DeleteAccount(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account deleted")
			return nil
		})
	},
}

// applySettingsFlags copies every changed flag onto s.
func applySettingsFlags(cmd *cobra.Command, s model.UserSettings) (model.UserSettings, int) {
	updates := 0
	flags := cmd.Flags()
	boolFlags := map[string]struct{ dst, src *bool }{
		"mood-reminders":    {&s.Notifications.MoodReminders, &settingsIn.Notifications.MoodReminders},
		"journal-reminders": {&s.Notifications.JournalReminders, &settingsIn.Notifications.JournalReminders},
		"crisis-alerts":     {&s.Notifications.CrisisAlerts, &settingsIn.Notifications.CrisisAlerts},
		"weekly-reports":    {&s.Notifications.WeeklyReports, &settingsIn.Notifications.WeeklyReports},
		"data-sharing":      {&s.Privacy.DataSharing, &settingsIn.Privacy.DataSharing},
		"analytics":         {&s.Privacy.Analytics, &settingsIn.Privacy.Analytics},
		"crash-reports":     {&s.Privacy.CrashReports, &settingsIn.Privacy.CrashReports},
	}
	for name, f := range boolFlags {
		if flags.Changed(name) {
			*f.dst = *f.src
			updates++
		}
	}
	stringFlags := map[string]struct{ dst, src *string }{
		"theme":    {&s.Preferences.Theme, &settingsIn.Preferences.Theme},
		"language": {&s.Preferences.Language, &settingsIn.Preferences.Language},
		"timezone": {&s.Preferences.Timezone, &settingsIn.Preferences.Timezone},
	}
	for name, f := range stringFlags {
		if flags.Changed(name) {
			*f.dst = strings.TrimSpace(*f.src)
			updates++
		}
	}
	return s, updates
}

func printSettings(cmd *cobra.Command, s model.UserSettings) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Notifications:")
	fmt.Fprintf(out, "  mood reminders\t%t\n", s.Notifications.MoodReminders)
	fmt.Fprintf(out, "  journal reminders\t%t\n", s.Notifications.JournalReminders)
	fmt.Fprintf(out, "  crisis alerts\t%t\n", s.Notifications.CrisisAlerts)
	fmt.Fprintf(out, "  weekly reports\t%t\n", s.Notifications.WeeklyReports)
	fmt.Fprintln(out, "Privacy:")
	fmt.Fprintf(out, "  data sharing\t%t\n", s.Privacy.DataSharing)
	fmt.Fprintf(out, "  analytics\t%t\n", s.Privacy.Analytics)
	fmt.Fprintf(out, "  crash reports\t%t\n", s.Privacy.CrashReports)
	fmt.Fprintln(out, "Preferences:")
	fmt.Fprintf(out, "  theme\t%s\n", s.Preferences.Theme)
	fmt.Fprintf(out, "  language\t%s\n", s.Preferences.Language)
	fmt.Fprintf(out, "  timezone\t%s\n", s.Preferences.Timezone)
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountSettingsCmd, accountProfileCmd, accountExportCmd, accountDeleteCmd)
	accountSettingsCmd.AddCommand(accountSettingsSetCmd)

	f := accountSettingsSetCmd.Flags()
	f.BoolVar(&settingsIn.Notifications.MoodReminders, "mood-reminders", false, "Daily mood reminders")
	f.BoolVar(&settingsIn.Notifications.JournalReminders, "journal-reminders", false, "Journal reminders")
	f.BoolVar(&settingsIn.Notifications.CrisisAlerts, "crisis-alerts", false, "Crisis alerts")
	f.BoolVar(&settingsIn.Notifications.WeeklyReports, "weekly-reports", false, "Weekly progress reports")
	f.BoolVar(&settingsIn.Privacy.DataSharing, "data-sharing", false, "Share anonymized data")
	f.BoolVar(&settingsIn.Privacy.Analytics, "analytics", false, "Usage analytics")
	f.BoolVar(&settingsIn.Privacy.CrashReports, "crash-reports", false, "Crash reports")
	f.StringVar(&settingsIn.Preferences.Theme, "theme", "", "Theme: light, dark or system")
	f.StringVar(&settingsIn.Preferences.Language, "language", "", "Language code")
	f.StringVar(&settingsIn.Preferences.Timezone, "timezone", "", "IANA timezone")

	accountProfileCmd.Flags().StringVar(&profileInput.FirstName, "first-name", "", "First name")
	accountProfileCmd.Flags().StringVar(&profileInput.LastName, "last-name", "", "Last name")
	accountProfileCmd.Flags().StringVar(&profileInput.Phone, "phone", "", "Phone number")
	accountExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to file instead of stdout")
	accountDeleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "Confirm deletion")
}
