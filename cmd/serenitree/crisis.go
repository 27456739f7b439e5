package serenitree

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/serenitree-cli/internal/service"
)

var crisisCmd = &cobra.Command{
	Use:   "crisis",
	Short: "Crisis hotlines and coping strategies",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOut {
			return printJSON(cmd, map[string]any{
				"resources":         service.CrisisResources,
				"coping_strategies": service.CopingStrategies,
			})
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "If you are in immediate danger, call your local emergency number.")
		fmt.Fprintln(out)
		for _, r := range service.CrisisResources {
			fmt.Fprintf(out, "%s\t%s\t%s\n", r.Name, r.Contact, r.Availability)
			fmt.Fprintf(out, "    %s\n", r.Description)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Coping strategies:")
		for _, s := range service.CopingStrategies {
			fmt.Fprintf(out, "  %s: %s\n", s.Title, s.Description)
		}
		return nil
	},
}

// printUrgentResources follows any output that carries a crisis flag.
func printUrgentResources(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "You don't have to go through this alone. Help is available right now:")
	for _, r := range service.UrgentResources() {
		fmt.Fprintf(out, "  %s: %s (%s)\n", r.Name, r.Contact, r.Availability)
	}
	fmt.Fprintln(out, "Run `serenitree crisis` for more resources.")
}

func init() {
	rootCmd.AddCommand(crisisCmd)
}
