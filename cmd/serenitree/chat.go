package serenitree

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/model"
	"github.com/saadjs/serenitree-cli/internal/service"
)

var chatHistoryLimit int

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Talk with the wellness companion",
	Long: "Send one message, or start an interactive chat when no message is given. " +
		"Type /quit or send EOF to leave. The conversation continues across runs until `serenitree chat reset`.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(sqldb *sql.DB, client *api.Client) error {
			session := service.NewChatSession(client, sqldb, logger)
			if len(args) > 0 {
				if err := session.Resume(cmd.Context(), chatHistoryLimit); err != nil {
					return err
				}
				return sendChat(cmd, session, strings.Join(args, " "))
			}

			opening, err := session.Open(cmd.Context(), chatHistoryLimit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range session.Messages() {
				if m.ID != opening.ID {
					printChatMessage(cmd, m)
				}
			}
			fmt.Fprintf(out, "Sereni: %s\n", opening.Content)

			sc := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !sc.Scan() {
					fmt.Fprintln(out)
					return sc.Err()
				}
				line := strings.TrimSpace(sc.Text())
				if line == "" {
					continue
				}
				if line == "/quit" || line == "/exit" {
					return nil
				}
				if err := sendChat(cmd, session, line); err != nil {
					if errors.Is(err, api.ErrSessionExpired) {
						return err
					}
					fmt.Fprintln(cmd.ErrOrStderr(), describeError(err))
				}
				if cmd.Context().Err() != nil {
					return nil
				}
			}
		})
	},
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the stored conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			convID, err := service.ActiveConversation(cmd.Context(), sqldb)
			if err != nil {
				return err
			}
			if convID == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No conversation yet")
				return nil
			}
			msgs, err := service.ChatHistory(cmd.Context(), sqldb, convID, chatHistoryLimit)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, map[string]any{"conversation_id": convID, "messages": msgs})
			}
			for _, m := range msgs {
				printChatMessage(cmd, m)
			}
			return nil
		})
	},
}

var chatResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start a new conversation next time",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.EndConversations(cmd.Context(), sqldb); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Conversation ended")
			return nil
		})
	},
}

func sendChat(cmd *cobra.Command, session *service.ChatSession, message string) error {
	reply, err := session.Send(cmd.Context(), message)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(cmd, reply)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sereni: %s\n", reply.Response)
	if reply.Source == service.SourceLocalFallback {
		fmt.Fprintln(out, "(offline reply; the companion service could not be reached)")
	}
	if reply.RequiresProfessionalHelp {
		printUrgentResources(cmd)
	}
	return nil
}

func printChatMessage(cmd *cobra.Command, m model.ChatMessage) {
	who := "You"
	if m.Role == model.RoleAssistant {
		who = "Sereni"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", who, m.Content)
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.AddCommand(chatHistoryCmd, chatResetCmd)
	chatCmd.PersistentFlags().IntVar(&chatHistoryLimit, "history", 20, "Messages of the stored conversation to show")
}
