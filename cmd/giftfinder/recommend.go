package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/gift-finder/internal/observability"
	"github.com/jonathan/gift-finder/internal/pipeline"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run the full pipeline for a gift request",
	Long: "Parse a free-text gift request, research product ideas, resolve a product link for each idea " +
		"and extract product metadata. The result is written as JSON.",
	RunE: runRecommend,
}

var (
	recommendText   string
	recommendInput  string
	recommendOutput string
)

func init() {
	recommendCmd.Flags().StringVarP(&recommendText, "text", "t", "", "Gift request text")
	recommendCmd.Flags().StringVarP(&recommendInput, "in", "i", "", "Path to a file holding the gift request (- for stdin)")
	recommendCmd.Flags().StringVarP(&recommendOutput, "out", "o", "", "Path to output JSON file (default stdout)")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	text, err := readRequestText(recommendText, recommendInput, os.Stdin)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	printer := observability.NewPrinter(os.Stderr)
	var onProgress pipeline.ProgressCallback
	if appConfig.Verbose {
		onProgress = func(ev pipeline.Event) { printer.PrintProgress(ev.Message) }
	}

	rec, err := a.recommender.Recommend(ctx, text, onProgress)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	if appConfig.Verbose {
		printer.PrintGiftRequest(rec.Parsed, appConfig.CurrencySymbol)
		printer.PrintProductIdeas(rec.Ideas, appConfig.CurrencySymbol)
		printer.PrintCandidates(rec.Candidates)
	}

	return writeJSON(recommendOutput, rec, os.Stdout)
}
