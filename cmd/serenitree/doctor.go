package serenitree

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/serenitree-cli/internal/service"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check local state for inconsistencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.RunDoctor(cmd.Context(), sqldb, doctorFix, time.Now())
			if err != nil {
				return err
			}
			if jsonOut {
				if err := printJSON(cmd, report); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Orphan chat messages: %d\n", report.OrphanMessages)
				fmt.Fprintf(out, "Invalid insight state rows: %d\n", report.InvalidInsightState)
				fmt.Fprintf(out, "Extra active conversations: %d\n", report.ExtraActiveChats)
				fmt.Fprintf(out, "Empty conversations: %d\n", report.EmptyConversations)
				fmt.Fprintf(out, "Expired session: %t\n", report.ExpiredSession)
				if doctorFix {
					fmt.Fprintf(out, "Fixed rows: %d\n", report.FixedRows)
				}
			}
			if doctorFix {
				// Re-check after fixes so exit status reflects final state.
				report, err = service.RunDoctor(cmd.Context(), sqldb, false, time.Now())
				if err != nil {
					return err
				}
			}
			if !report.Healthy() {
				return fmt.Errorf("doctor found local state issues (run with --fix)")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Repair what can be repaired safely")
}
