package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/gift-finder/internal/observability"
	"github.com/jonathan/gift-finder/internal/pipeline"
	"github.com/jonathan/gift-finder/internal/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve links and metadata for known product ideas",
	Long:  "Skip parsing and research: find a product link for each given idea and extract its metadata.",
	RunE:  runResolve,
}

var (
	resolveInput  string
	resolveNames  []string
	resolveOutput string
)

func init() {
	resolveCmd.Flags().StringVarP(&resolveInput, "in", "i", "", "Path to a JSON file of ideas or names")
	resolveCmd.Flags().StringArrayVarP(&resolveNames, "name", "n", nil, "Product name (repeatable)")
	resolveCmd.Flags().StringVarP(&resolveOutput, "out", "o", "", "Path to output JSON file (default stdout)")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, _ []string) error {
	var productIdeas []types.ProductIdea
	switch {
	case resolveInput != "" && len(resolveNames) > 0:
		return fmt.Errorf("--in and --name are mutually exclusive")
	case resolveInput != "":
		loaded, err := loadIdeas(resolveInput)
		if err != nil {
			return err
		}
		productIdeas = loaded
	case len(resolveNames) > 0:
		productIdeas = types.IdeasFromNames(resolveNames...)
	default:
		return fmt.Errorf("ideas are required (use --in or --name)")
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

	orch, err := newOrchestrator(ctx, appConfig, client, logger)
	if err != nil {
		return err
	}
	printer := observability.NewPrinter(os.Stderr)
	if appConfig.Verbose {
		orch = orch.WithProgress(func(ev pipeline.Event) { printer.PrintProgress(ev.Message) })
	}

	candidates := types.Views(orch.Run(ctx, productIdeas))
	if appConfig.Verbose {
		printer.PrintCandidates(candidates)
	}
	return writeJSON(resolveOutput, candidates, os.Stdout)
}
