package serenitree

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/app"
	"github.com/saadjs/serenitree-cli/internal/db"
	"github.com/saadjs/serenitree-cli/internal/service"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Prepare the local store and show where requests will go",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			version, err := db.SchemaVersion(sqldb)
			if err != nil {
				return err
			}
			tables, err := db.Tables(sqldb)
			if err != nil {
				return err
			}
			baseURL, err := service.Resolve(sqldb, service.ConfigAPIURL, apiURLFlag, os.Getenv(app.EnvAPIURL), api.DefaultBaseURL)
			if err != nil {
				return err
			}
			info, err := service.NewSessionStore(sqldb, baseURL).Info(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Initialized serenitree database at %s (schema v%d)\n", path, version)
			fmt.Fprintf(out, "Local tables: %s\n", strings.Join(tables, ", "))
			fmt.Fprintf(out, "API URL: %s\n", baseURL)
			if info.LoggedIn {
				fmt.Fprintln(out, "Session: stored for this API")
			} else {
				fmt.Fprintln(out, "Session: none (run `serenitree auth login`)")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
