package serenitree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/app"
	"github.com/saadjs/serenitree-cli/internal/service"
)

var (
	dbPath     string
	apiURLFlag string
	timeoutArg string
	verbose    bool
	jsonOut    bool

	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var rootCmd = &cobra.Command{
	Use:   "serenitree",
	Short: "serenitree is your mental wellness companion in the terminal",
	Long: "serenitree talks to the SereniTree API: log moods, keep a journal, read insights, " +
		"chat with the wellness companion and manage your subscription.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := app.LoadEnv(); err != nil {
			return err
		}
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "SereniTree API base URL (env "+app.EnvAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&timeoutArg, "timeout", "", "HTTP timeout, e.g. 15s")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print JSON output")
}

// describeError turns an error into the line shown to the user.
func describeError(err error) string {
	var verr *service.ValidationError
	var statusErr *api.StatusError
	var urlErr *url.Error
	switch {
	case errors.Is(err, api.ErrSessionExpired):
		return "Your session has expired. Run `serenitree auth login` to sign in again."
	case errors.Is(err, api.ErrNotLoggedIn):
		return "You are not logged in. Run `serenitree auth login` first."
	case errors.As(err, &verr):
		return "error: " + verr.Error()
	case errors.As(err, &statusErr):
		if statusErr.Message != "" {
			return "error: " + statusErr.Message
		}
		return "error: " + statusErr.Error()
	case errors.As(err, &urlErr):
		return fmt.Sprintf("error: %v (please try again)", err)
	default:
		return "error: " + err.Error()
	}
}
