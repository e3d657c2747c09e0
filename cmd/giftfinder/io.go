package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/gift-finder/internal/schemas"
	"github.com/jonathan/gift-finder/internal/types"
)

// readRequestText returns text, or the contents of path ("-" is stdin).
func readRequestText(text, path string, stdin io.Reader) (string, error) {
	if text != "" && path != "" {
		return "", fmt.Errorf("--text and --in are mutually exclusive")
	}
	if text != "" {
		return text, nil
	}
	if path == "" {
		return "", fmt.Errorf("a gift request is required (use --text or --in)")
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read request: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// loadIdeas reads ideas from a JSON file holding either a list of ideas, a
// {"product_ideas": [...]} envelope or a list of plain names.
func loadIdeas(path string) ([]types.ProductIdea, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ideas file: %w", err)
	}
	return decodeIdeas(data)
}

func decodeIdeas(data []byte) ([]types.ProductIdea, error) {
	var envelope types.ProductIdeas
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.ProductIdeas) > 0 {
		if err := schemas.ValidateProductIdeas(data); err != nil {
			return nil, fmt.Errorf("invalid ideas file: %w", err)
		}
		return envelope.ProductIdeas, nil
	}

	var list []types.ProductIdea
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		return types.IdeasFromNames(names...), nil
	}

	return nil, fmt.Errorf("ideas file must hold a list of ideas, a product_ideas object or a list of names")
}

// writeJSON writes v indented to path, or to stdout when path is empty.
func writeJSON(path string, v any, stdout io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
