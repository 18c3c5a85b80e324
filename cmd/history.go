package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.history == nil {
			return errors.New("history is unavailable")
		}

		analyses, err := a.history.ListRecent(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("listing history: %w", err)
		}
		if len(analyses) == 0 {
			fmt.Println("No analyses recorded yet.")
			return nil
		}

		for _, entry := range analyses {
			verified := ""
			if entry.Verified {
				verified = " (verified by AI)"
			}
			source := entry.Source
			if source == "" {
				source = "pasted text"
			}
			fmt.Printf("%s  %-4s%s  %.0f%%  [%s] %s\n",
				entry.CreatedAt.Local().Format("2006-01-02 15:04"),
				entry.FinalPrediction, verified,
				entry.Confidence*100,
				entry.InputType, source)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to show")
	rootCmd.AddCommand(historyCmd)
}
