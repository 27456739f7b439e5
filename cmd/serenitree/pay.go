package serenitree

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/service"
)

const defaultCallbackBase = "http://localhost:5173"

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Premium plans, checkout and subscription",
}

var payForm service.PaymentForm

var payPlansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List premium plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOut {
			return printJSON(cmd, service.Plans)
		}
		out := cmd.OutOrStdout()
		for _, p := range service.Plans {
			fmt.Fprintf(out, "%s\t%s\t%s %s\n", p.ID, p.Name, p.Price, p.Period)
			fmt.Fprintf(out, "    %s\n", p.Description)
			for _, f := range p.Features {
				fmt.Fprintf(out, "    - %s\n", f)
			}
		}
		return nil
	},
}

var payMethodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List payment methods",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOut {
			return printJSON(cmd, service.Methods)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "ID\tNAME\tSUPPORTS\tCOUNTRIES")
		for _, m := range service.Methods {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", m.ID, m.Name, strings.Join(m.Supported, ", "), strings.Join(m.Countries, ","))
		}
		return nil
	},
}

var payCheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Start a premium subscription payment",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(sqldb *sql.DB, client *api.Client) error {
			form := payForm
			if form.Plan == "" {
				plan, err := service.Resolve(sqldb, service.ConfigDefaultPlan, "", "", "monthly")
				if err != nil {
					return err
				}
				form.Plan = plan
			}
			base, err := service.Resolve(sqldb, service.ConfigPaymentCallbackBase, "", "", defaultCallbackBase)
			if err != nil {
				return err
			}
			res, err := service.NewPaymentDesk(client, base).Process(cmd.Context(), form)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, res)
			}
			out := cmd.OutOrStdout()
			if !res.Success {
				fmt.Fprintf(out, "Payment not started: %s\n", res.Message)
				return nil
			}
			fmt.Fprintln(out, res.Message)
			if res.RedirectURL != "" {
				fmt.Fprintf(out, "Complete the payment at: %s\n", res.RedirectURL)
			}
			if res.TransactionID != "" {
				fmt.Fprintf(out, "Then run: serenitree pay verify %s %s\n", form.Method, res.TransactionID)
			}
			return nil
		})
	},
}

var payVerifyCmd = &cobra.Command{
	Use:   "verify <provider> <transaction-id>",
	Short: "Check the status of a payment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			v, err := service.NewPaymentDesk(client, "").Verify(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, v)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Status: %s\n", v.Status)
			if v.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), v.Message)
			}
			return nil
		})
	},
}

var payHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List your payments",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			records, err := service.NewPaymentDesk(client, "").History(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, records)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No payments yet")
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "DATE\tPLAN\tAMOUNT\tMETHOD\tSTATUS")
			for _, r := range records {
				fmt.Fprintf(out, "%s\t%s\t%.2f %s\t%s\t%s\n", formatTime(r.CreatedAt), r.PlanName, r.Amount, r.Currency, r.PaymentMethod, r.Status)
			}
			return nil
		})
	},
}

var payCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel your subscription",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			res, err := service.NewPaymentDesk(client, "").Cancel(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, res)
			}
			if !res.Success {
				return fmt.Errorf("%s", res.Message)
			}
			msg := res.Message
			if msg == "" {
				msg = "Subscription cancelled"
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(payCmd)
	payCmd.AddCommand(payPlansCmd, payMethodsCmd, payCheckoutCmd, payVerifyCmd, payHistoryCmd, payCancelCmd)

	f := payCheckoutCmd.Flags()
	f.StringVar(&payForm.Plan, "plan", "", "Plan: monthly or yearly (default from config, else monthly)")
	f.StringVar(&payForm.Method, "method", "", "Payment method, see `serenitree pay methods`")
	f.StringVar(&payForm.Email, "email", "", "Billing email")
	f.StringVar(&payForm.Phone, "phone", "", "Phone number")
	f.StringVar(&payForm.Name, "name", "", "Name on the account")
	f.StringVar(&payForm.CardNumber, "card", "", "Card number (card methods only)")
	f.StringVar(&payForm.Expiry, "expiry", "", "Card expiry MM/YY")
	f.StringVar(&payForm.CVV, "cvv", "", "Card CVV")
	_ = payCheckoutCmd.MarkFlagRequired("method")
}
