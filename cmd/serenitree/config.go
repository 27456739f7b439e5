package serenitree

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/serenitree-cli/internal/service"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage serenitree local configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value. Keys: api_url, timeout, payment_callback_base, default_plan.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SetConfig(sqldb, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])
			return nil
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if len(args) == 1 {
				v, ok, err := service.GetConfig(sqldb, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("config key %q is not set", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			}
			cfg, err := service.ListConfig(sqldb)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, cfg)
			}
			out := cmd.OutOrStdout()
			for _, k := range service.ConfigKeys() {
				v, ok := cfg[k]
				if !ok {
					v = "(unset)"
				}
				fmt.Fprintf(out, "%s\t%s\n", k, v)
			}
			return nil
		})
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.UnsetConfig(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd, configUnsetCmd)
}
