package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sanity-news/sanity/internal/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions in an interactive session",
	Long: `Chat opens an interactive question session. Without a preceding
analysis the questions go out standalone; after "sanity check --chat"
they are grounded in the analyzed article.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		return runREPL(ctx, a)
	},
}

// runREPL reads questions until EOF or interrupt.
func runREPL(ctx context.Context, a *app) error {
	if a.chat.Seed() {
		printLastAssistant(a)
	} else if a.store.Prediction() == nil {
		fmt.Println("Ask me any general question, or analyze a news article first.")
	}

	prompt := promptui.Prompt{Label: "you"}
	for {
		if ctx.Err() != nil {
			return nil
		}

		question, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return fmt.Errorf("reading question: %w", err)
		}
		if strings.TrimSpace(question) == "" {
			continue
		}

		a.chat.Ask(ctx, question)
		printLastAssistant(a)
	}
}

func printLastAssistant(a *app) {
	chatHistory := a.store.ChatHistory()
	for i := len(chatHistory) - 1; i >= 0; i-- {
		if chatHistory[i].Role == session.RoleAssistant {
			fmt.Printf("\nsanity> %s\n\n", chatHistory[i].Message)
			return
		}
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
