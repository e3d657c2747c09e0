// Package extraction turns a resolved product link into a validated ProductMetadata record.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/gift-finder/internal/schemas"
	"github.com/jonathan/gift-finder/internal/types"
)

// NoProductsReason is recorded when the collaborator returns an empty list.
const NoProductsReason = "no products found in extracted data"

// Schema names the record to extract and carries its JSON Schema definition.
type Schema struct {
	Name       string
	Definition []byte
}

// ProductMetadataSchema returns the embedded ProductMetadata schema.
func ProductMetadataSchema() (Schema, error) {
	raw, err := schemas.Raw(schemas.ProductMetadataFile)
	if err != nil {
		return Schema{}, err
	}
	return Schema{Name: "ProductMetadata", Definition: raw}, nil
}

// Collaborator fetches a page and extracts a record shaped by schema. The result may be
// a single JSON object or a list of objects. Every call fetches the page afresh.
type Collaborator interface {
	Extract(ctx context.Context, url string, schema Schema) (json.RawMessage, error)
}

// MetadataExtractor wraps a Collaborator and converts every outcome into a MetadataResult.
type MetadataExtractor struct {
	collaborator Collaborator
	schema       Schema
	timeout      time.Duration
	logger       *slog.Logger
}

// NewMetadataExtractor creates an extractor. A positive timeout bounds each collaborator call.
func NewMetadataExtractor(collaborator Collaborator, schema Schema, timeout time.Duration, logger *slog.Logger) *MetadataExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetadataExtractor{collaborator: collaborator, schema: schema, timeout: timeout, logger: logger}
}

// Extract returns metadata for link. It never returns an error: an empty link yields the
// no-link failure without calling the collaborator, and collaborator errors, panics and
// schema violations become typed failures.
func (e *MetadataExtractor) Extract(ctx context.Context, link string) (result *types.MetadataResult) {
	if strings.TrimSpace(link) == "" {
		return types.NoLinkFailure()
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extraction panicked", "url", link, "panic", r)
			result = types.MetadataFailed(types.FailureExtraction, fmt.Sprintf("extraction panicked: %v", r), link)
		}
	}()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	raw, err := e.collaborator.Extract(ctx, link, e.schema)
	if err != nil {
		e.logger.Warn("extraction failed", "url", link, "error", err)
		return types.MetadataFailed(types.FailureExtraction, err.Error(), link)
	}

	record, failure := firstRecord(raw)
	if failure != "" {
		return types.MetadataFailed(types.FailureExtraction, failure, link)
	}

	record = dropNulls(record)
	if err := schemas.ValidateProductMetadata(record); err != nil {
		e.logger.Warn("extracted record failed schema validation", "url", link, "error", err)
		return types.MetadataFailed(types.FailureInvalidSchema, err.Error(), link)
	}

	var data types.ProductMetadata
	if err := json.Unmarshal(record, &data); err != nil {
		return types.MetadataFailed(types.FailureInvalidSchema, err.Error(), link)
	}
	data.Normalize()
	if data.Website == "" {
		data.Website = siteName(link)
	}

	return types.MetadataOK(&data)
}

// dropNulls removes null-valued top-level fields so they decode as zero values.
// Records that are not JSON objects are returned unchanged.
func dropNulls(record json.RawMessage) json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(record, &fields); err != nil || fields == nil {
		return record
	}
	dropped := false
	for key, value := range fields {
		if string(bytes.TrimSpace(value)) == "null" {
			delete(fields, key)
			dropped = true
		}
	}
	if !dropped {
		return record
	}
	cleaned, err := json.Marshal(fields)
	if err != nil {
		return record
	}
	return cleaned
}

// firstRecord unwraps a list result to its first element.
func firstRecord(raw json.RawMessage) (json.RawMessage, string) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, "extraction returned no content"
	}
	if trimmed[0] != '[' {
		return trimmed, ""
	}

	var list []json.RawMessage
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, fmt.Sprintf("failed to decode extracted list: %v", err)
	}
	if len(list) == 0 {
		return nil, NoProductsReason
	}
	return list[0], ""
}

func siteName(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
