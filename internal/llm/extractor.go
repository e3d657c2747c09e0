// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "ProductMetadata")
	Description string        // Instruction preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint rendered into the prompt: "string", ["string"], true|false
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "\"string\""
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Use an empty string, empty list or false when the page does not say.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Page content:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// jsonSchemaDoc is the subset of a JSON Schema document needed to render prompt fields.
type jsonSchemaDoc struct {
	Properties map[string]jsonSchemaProperty `json:"properties"`
	Required   []string                      `json:"required"`
	Order      []string                      `json:"x-order"`
}

type jsonSchemaProperty struct {
	Type        string              `json:"type"`
	Description string              `json:"description"`
	Items       *jsonSchemaProperty `json:"items"`
}

// FieldsFromJSONSchema derives prompt fields from an object JSON Schema so that the
// prompt and the validator share one definition. Fields follow the schema's
// "x-order" list when present, then any remaining properties alphabetically.
func FieldsFromJSONSchema(raw []byte) ([]SchemaField, error) {
	var doc jsonSchemaDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON schema: %w", err)
	}
	if len(doc.Properties) == 0 {
		return nil, fmt.Errorf("JSON schema has no properties")
	}

	required := make(map[string]bool, len(doc.Required))
	for _, name := range doc.Required {
		required[name] = true
	}

	names := make([]string, 0, len(doc.Properties))
	seen := make(map[string]bool, len(doc.Properties))
	for _, name := range doc.Order {
		if _, ok := doc.Properties[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range doc.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)

	fields := make([]SchemaField, 0, len(names))
	for _, name := range names {
		prop := doc.Properties[name]
		fields = append(fields, SchemaField{
			Name:        name,
			Type:        typeHint(prop),
			Description: prop.Description,
			Required:    required[name],
		})
	}
	return fields, nil
}

func typeHint(prop jsonSchemaProperty) string {
	switch prop.Type {
	case "array":
		if prop.Items != nil {
			return "[" + typeHint(*prop.Items) + "]"
		}
		return "[]"
	case "boolean":
		return "true|false"
	case "integer", "number":
		return "number"
	case "object":
		return "{}"
	default:
		return "\"string\""
	}
}
