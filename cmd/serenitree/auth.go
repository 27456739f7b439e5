package serenitree

import (
	"bufio"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/service"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in, sign up and manage the stored session",
}

var (
	authEmail     string
	authPassword  string
	authFirstName string
	authLastName  string
	authPhone     string
	authNewPass   string
)

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordValue(cmd, authPassword)
		if err != nil {
			return err
		}
		return withClient(cmd, false, func(_ *sql.DB, client *api.Client) error {
			session, err := client.Login(cmd.Context(), strings.TrimSpace(authEmail), password)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, session.User)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s!\n", session.User.DisplayName())
			return nil
		})
	},
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a SereniTree account",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordValue(cmd, authPassword)
		if err != nil {
			return err
		}
		form := service.RegisterForm{
			Email:     strings.TrimSpace(authEmail),
			Password:  password,
			FirstName: strings.TrimSpace(authFirstName),
			LastName:  strings.TrimSpace(authLastName),
			Phone:     strings.TrimSpace(authPhone),
		}
		if err := service.ValidateRegistration(form); err != nil {
			return err
		}
		return withClient(cmd, false, func(_ *sql.DB, client *api.Client) error {
			user, err := client.Register(cmd.Context(), api.RegisterInput{
				Email:     form.Email,
				Password:  form.Password,
				FirstName: form.FirstName,
				LastName:  form.LastName,
				Phone:     form.Phone,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s. Run `serenitree auth login` to sign in.\n", user.Email)
			return nil
		})
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, false, func(_ *sql.DB, client *api.Client) error {
			if err := client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		})
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a session is stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			info, err := service.NewSessionStore(sqldb, "").Info(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, info)
			}
			out := cmd.OutOrStdout()
			if !info.LoggedIn {
				fmt.Fprintln(out, "Not logged in")
				return nil
			}
			fmt.Fprintf(out, "Logged in to %s since %s\n", info.APIURL, formatTime(info.SavedAt))
			if info.Subject != "" {
				fmt.Fprintf(out, "User: %s\n", info.Subject)
			}
			switch {
			case info.ExpiresAt.IsZero():
			case info.Expired(time.Now()):
				fmt.Fprintf(out, "Token expired at %s; log in again\n", formatTime(info.ExpiresAt))
			default:
				fmt.Fprintf(out, "Token expires at %s\n", formatTime(info.ExpiresAt))
			}
			return nil
		})
	},
}

var authProfileCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user's profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			user, err := client.Profile(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, user)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name: %s\n", user.DisplayName())
			fmt.Fprintf(out, "Email: %s\n", user.Email)
			if user.Phone != "" {
				fmt.Fprintf(out, "Phone: %s\n", user.Phone)
			}
			fmt.Fprintf(out, "Premium: %t\n", user.IsPremium)
			return nil
		})
	},
}

var authPasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change your password",
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := passwordValue(cmd, authPassword)
		if err != nil {
			return err
		}
		change := service.PasswordChange{Current: current, New: authNewPass, Confirm: authNewPass}
		if err := service.ValidatePasswordChange(change); err != nil {
			return err
		}
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			if err := client.ChangePassword(cmd.Context(), change.Current, change.New); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed successfully")
			return nil
		})
	},
}

// passwordValue returns the flag value, or the first line of stdin so the
// password can be piped in instead of appearing in shell history.
func passwordValue(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	sc := bufio.NewScanner(cmd.InOrStdin())
	if sc.Scan() {
		return strings.TrimRight(sc.Text(), "\r\n"), nil
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return "", fmt.Errorf("password is required (--password or stdin)")
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd, authRegisterCmd, authLogoutCmd, authStatusCmd, authProfileCmd, authPasswordCmd)

	for _, c := range []*cobra.Command{authLoginCmd, authRegisterCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().StringVar(&authPassword, "password", "", "Password (read from stdin when omitted)")
		_ = c.MarkFlagRequired("email")
	}
	authRegisterCmd.Flags().StringVar(&authFirstName, "first-name", "", "First name")
	authRegisterCmd.Flags().StringVar(&authLastName, "last-name", "", "Last name")
	authRegisterCmd.Flags().StringVar(&authPhone, "phone", "", "Phone number")
	authPasswordCmd.Flags().StringVar(&authPassword, "current", "", "Current password (read from stdin when omitted)")
	authPasswordCmd.Flags().StringVar(&authNewPass, "new", "", "New password")
	_ = authPasswordCmd.MarkFlagRequired("new")
}
