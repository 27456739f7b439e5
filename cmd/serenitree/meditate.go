package serenitree

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/serenitree-cli/internal/meditation"
)

var (
	meditateStep  time.Duration
	meditateScale time.Duration
)

var meditateCmd = &cobra.Command{
	Use:   "meditate",
	Short: "Guided meditation sessions",
}

var meditateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List guided sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOut {
			return printJSON(cmd, meditation.Sessions)
		}
		for _, s := range meditation.Sessions {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
				s.ID, s.Name, meditation.FormatRemaining(s.Duration), s.Description)
		}
		return nil
	},
}

var meditateStartCmd = &cobra.Command{
	Use:   "start <session>",
	Short: "Run a guided session in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := meditation.Lookup(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", session.Name, meditation.FormatRemaining(session.Duration))

		timer := meditation.NewTimer(session)
		if meditateStep > 0 {
			timer.Step = meditateStep
		}
		if meditateScale > 0 {
			timer.Scale = meditateScale
		}
		last := -1
		err = timer.Run(cmd.Context(), func(t meditation.Tick) {
			if t.Remaining == 0 {
				return
			}
			if t.Instruction != last {
				last = t.Instruction
				fmt.Fprintf(out, "[%s] %s\n", meditation.FormatRemaining(t.Remaining), t.Text)
			}
		})
		if err != nil {
			fmt.Fprintln(out, "Session stopped")
			logger.Debug("meditation stopped", "session", session.ID, "err", err)
			return nil
		}
		fmt.Fprintln(out, "Session complete. Take a moment before moving on.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(meditateCmd)
	meditateCmd.AddCommand(meditateListCmd, meditateStartCmd)

	meditateStartCmd.Flags().DurationVar(&meditateStep, "step", 0, "Wall time per tick")
	meditateStartCmd.Flags().DurationVar(&meditateScale, "scale", 0, "Session time per tick")
	_ = meditateStartCmd.Flags().MarkHidden("step")
	_ = meditateStartCmd.Flags().MarkHidden("scale")
}
