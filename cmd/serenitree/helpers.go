package serenitree

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/app"
	"github.com/saadjs/serenitree-cli/internal/db"
	"github.com/saadjs/serenitree-cli/internal/service"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

// withClient opens the local store and builds an API client whose token
// lives in it. With needAuth set, a missing token fails before any request.
func withClient(cmd *cobra.Command, needAuth bool, run func(*sql.DB, *api.Client) error) error {
	return withDB(func(sqldb *sql.DB) error {
		baseURL, err := service.Resolve(sqldb, service.ConfigAPIURL, apiURLFlag, os.Getenv(app.EnvAPIURL), api.DefaultBaseURL)
		if err != nil {
			return err
		}
		timeout, err := resolveTimeout(sqldb)
		if err != nil {
			return err
		}
		store := service.NewSessionStore(sqldb, baseURL)
		if needAuth {
			token, err := store.Token(cmd.Context())
			if err != nil {
				return err
			}
			if token == "" {
				return api.ErrNotLoggedIn
			}
		}
		client := api.New(api.Config{
			BaseURL: baseURL,
			Timeout: timeout,
			Tokens:  store,
			Logger:  logger,
			OnUnauthorized: func(_ context.Context, req *http.Request) {
				logger.Warn("session expired, stored token cleared", "path", req.URL.Path)
			},
		})
		return run(sqldb, client)
	})
}

func resolveTimeout(sqldb *sql.DB) (time.Duration, error) {
	raw, err := service.Resolve(sqldb, service.ConfigTimeout, timeoutArg, "", "")
	if err != nil || raw == "" {
		return api.DefaultTimeout, err
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q (expected a duration like 15s)", raw)
	}
	return d, nil
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return app.DefaultDBPath()
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

func parseLevelArg(value string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid mood level %q", value)
	}
	return v, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
