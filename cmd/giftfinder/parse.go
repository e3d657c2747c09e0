package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/gift-finder/internal/observability"
	"github.com/jonathan/gift-finder/internal/parsing"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a gift request into structured JSON",
	Long:  "Parse a free-text gift request into recipient, occasion, budget and gift categories without running the rest of the pipeline.",
	RunE:  runParse,
}

var (
	parseText   string
	parseInput  string
	parseOutput string
)

func init() {
	parseCmd.Flags().StringVarP(&parseText, "text", "t", "", "Gift request text")
	parseCmd.Flags().StringVarP(&parseInput, "in", "i", "", "Path to a file holding the gift request (- for stdin)")
	parseCmd.Flags().StringVarP(&parseOutput, "out", "o", "", "Path to output JSON file (default stdout)")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	text, err := readRequestText(parseText, parseInput, os.Stdin)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := newLLMClient(ctx, appConfig)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	req, err := parsing.NewLLMParser(client, appConfig.Currency).Parse(ctx, text)
	if err != nil {
		return err
	}

	if appConfig.Verbose {
		observability.NewPrinter(os.Stderr).PrintGiftRequest(req, appConfig.CurrencySymbol)
	}
	return writeJSON(parseOutput, req, os.Stdout)
}
