package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/sanity-news/sanity/internal/api"
)

var (
	checkURL    string
	checkPDF    string
	checkHealth bool
	checkVerify bool
	checkChat   bool
)

var checkCmd = &cobra.Command{
	Use:   "check [article text]",
	Short: "Classify an article as real or fake news",
	Long: `Check submits an article to the backend and prints the verdict.
Pass the article text as an argument, or use --url / --pdf for the
other input modalities.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if checkHealth {
			return printHealth(ctx, a)
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			switch {
			case checkURL != "":
				a.submit.SubmitURL(ctx, checkURL)
			case checkPDF != "":
				f, openErr := os.Open(checkPDF)
				if openErr != nil {
					a.submit.SubmitFile(ctx, checkPDF, nil)
					return
				}
				defer f.Close()
				a.submit.SubmitFile(ctx, checkPDF, f)
			default:
				a.submit.SubmitText(ctx, strings.Join(args, " "))
			}
		}()
		spinUntil(done, "Analyzing")

		if msg := a.store.Error(); msg != "" {
			return errors.New(msg)
		}

		result := a.store.Prediction()
		if result == nil {
			return errors.New("the analysis produced no result")
		}
		printResult(a.store.FinalPrediction(), result)

		if checkVerify && result.ArticleText != "" {
			if err := printVerification(ctx, a, result.ArticleText); err != nil {
				return err
			}
		}

		if checkChat {
			return runREPL(ctx, a)
		}
		if result.ContextID != "" {
			fmt.Println("\nRun with --chat to ask follow-up questions about this article.")
		}
		return nil
	},
}

func printResult(final string, result *api.PredictionResult) {
	fmt.Printf("\nVerdict: %s", final)
	if result.Verified() {
		fmt.Print(" (verified by AI)")
	}
	fmt.Println()
	fmt.Printf("Model label: %s (confidence %.1f%%)\n", result.Label, result.Confidence*100)
	if result.AutoVerification != nil && result.AutoVerification.Reasoning != "" {
		fmt.Printf("\nVerification reasoning:\n%s\n", result.AutoVerification.Reasoning)
	}
}

func printHealth(ctx context.Context, a *app) error {
	health, err := a.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("backend at %s: %w", a.cfg.BackendURL, err)
	}
	fmt.Printf("Backend: %s\nStatus:  %s\nModel:   %s\nDevice:  %s\n",
		a.cfg.BackendURL, health.Status, health.Model, health.Device)
	return nil
}

func printVerification(ctx context.Context, a *app, articleText string) error {
	resp, err := a.client.Verify(ctx, api.VerifyRequest{ArticleText: articleText})
	if err != nil {
		return fmt.Errorf("explicit verification: %w", err)
	}
	fmt.Printf("\nExplicit verification: %s\n%s\n", resp.Prediction, resp.Reasoning)
	return nil
}

// spinUntil shows an indeterminate spinner until done closes.
func spinUntil(done <-chan struct{}, description string) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			_ = bar.Finish()
			return
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

func init() {
	checkCmd.Flags().StringVar(&checkURL, "url", "", "analyze the article behind a URL")
	checkCmd.Flags().StringVar(&checkPDF, "pdf", "", "analyze a PDF file")
	checkCmd.Flags().BoolVar(&checkHealth, "health", false, "probe the backend instead of analyzing")
	checkCmd.Flags().BoolVar(&checkVerify, "verify", false, "also request an explicit LLM verification")
	checkCmd.Flags().BoolVar(&checkChat, "chat", false, "ask follow-up questions after the verdict")
	rootCmd.AddCommand(checkCmd)
}
