package serenitree

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/model"
	"github.com/saadjs/serenitree-cli/internal/service"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Write and search journal entries",
}

var (
	journalTitle   string
	journalContent string
	journalPrivate bool
	journalSearch  string
)

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			book := service.NewJournalBook(client)
			defer book.Close()
			if err := book.Load(cmd.Context()); err != nil {
				return err
			}
			entries := book.Search(journalSearch)
			if jsonOut {
				return printJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				if strings.TrimSpace(journalSearch) != "" {
					fmt.Fprintf(out, "No entries match %q\n", journalSearch)
				} else {
					fmt.Fprintln(out, "No journal entries yet")
				}
				return nil
			}
			fmt.Fprintln(out, "ID\tDATE\tTITLE\tPREVIEW")
			for _, e := range entries {
				title := e.Title
				if e.IsPrivate {
					title += " (private)"
				}
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", e.ID, formatTime(e.CreatedAt), title, truncate(e.Content, 50))
			}
			return nil
		})
	},
}

var journalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Write a journal entry (content from --content or stdin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		content := journalContent
		if !cmd.Flags().Changed("content") {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read content: %w", err)
			}
			content = string(b)
		}
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			book := service.NewJournalBook(client)
			defer book.Close()
			entry, err := book.Save(cmd.Context(), journalTitle, content, journalPrivate)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, entry)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved journal entry %s\n", entry.ID)
			return nil
		})
	},
}

var journalShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a journal entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			entry, err := client.GetJournal(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, entry)
			}
			printJournalEntry(cmd, entry)
			return nil
		})
	},
}

var journalEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a journal entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch api.JournalPatch
		if cmd.Flags().Changed("title") {
			patch.Title = &journalTitle
		}
		if cmd.Flags().Changed("content") {
			patch.Content = &journalContent
		}
		if cmd.Flags().Changed("private") {
			patch.IsPrivate = &journalPrivate
		}
		if patch == (api.JournalPatch{}) {
			return fmt.Errorf("set at least one flag")
		}
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			entry, err := service.NewJournalBook(client).Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated journal entry %s\n", entry.ID)
			return nil
		})
	},
}

var journalDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a journal entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			if err := service.NewJournalBook(client).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted journal entry %s\n", args[0])
			return nil
		})
	},
}

var journalAnalyzeCmd = &cobra.Command{
	Use:   "analyze <id>",
	Short: "Run sentiment analysis on a journal entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, true, func(_ *sql.DB, client *api.Client) error {
			entry, err := client.GetJournal(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res, err := service.AnalyzeSentiment(cmd.Context(), client, logger, entry.Title+"\n"+entry.Content, entry.ID)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, res)
			}
			printSentiment(cmd, res)
			return nil
		})
	},
}

func printJournalEntry(cmd *cobra.Command, e model.JournalEntry) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", e.Title)
	fmt.Fprintf(out, "%s  id=%s private=%t\n", formatTime(e.CreatedAt), e.ID, e.IsPrivate)
	if e.Sentiment != "" {
		fmt.Fprintf(out, "Sentiment: %s\n", e.Sentiment)
	}
	if len(e.Tags) > 0 {
		fmt.Fprintf(out, "Tags: %s\n", strings.Join(e.Tags, ", "))
	}
	fmt.Fprintf(out, "\n%s\n", e.Content)
	for _, in := range e.AIInsights {
		fmt.Fprintf(out, "  * %s\n", in)
	}
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd, journalAddCmd, journalShowCmd, journalEditCmd, journalDeleteCmd, journalAnalyzeCmd)

	journalListCmd.Flags().StringVar(&journalSearch, "search", "", "Case-insensitive filter over title and content")
	for _, c := range []*cobra.Command{journalAddCmd, journalEditCmd} {
		c.Flags().StringVar(&journalTitle, "title", "", "Entry title")
		c.Flags().StringVar(&journalContent, "content", "", "Entry text")
		c.Flags().BoolVar(&journalPrivate, "private", false, "Keep the entry private")
	}
	_ = journalAddCmd.MarkFlagRequired("title")
}
