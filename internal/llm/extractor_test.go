package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "x-order": ["product", "price"],
  "required": ["product"],
  "properties": {
    "product": {"type": "string", "description": "Product name or title"},
    "price": {"type": "string"},
    "image_links": {"type": "array", "items": {"type": "string"}},
    "birthdays": {"type": "boolean", "description": "Suitable for Birthdays"}
  }
}`

func TestFieldsFromJSONSchema(t *testing.T) {
	fields, err := FieldsFromJSONSchema([]byte(testSchema))
	require.NoError(t, err)
	require.Len(t, fields, 4)

	// x-order first, then the rest alphabetically
	assert.Equal(t, "product", fields[0].Name)
	assert.True(t, fields[0].Required)
	assert.Equal(t, `"string"`, fields[0].Type)
	assert.Equal(t, "price", fields[1].Name)
	assert.False(t, fields[1].Required)
	assert.Equal(t, "birthdays", fields[2].Name)
	assert.Equal(t, "true|false", fields[2].Type)
	assert.Equal(t, "image_links", fields[3].Name)
	assert.Equal(t, `["string"]`, fields[3].Type)
}

func TestFieldsFromJSONSchema_Invalid(t *testing.T) {
	_, err := FieldsFromJSONSchema([]byte("not json"))
	assert.Error(t, err)

	_, err = FieldsFromJSONSchema([]byte(`{"type": "object"}`))
	assert.Error(t, err)
}

func TestBuildExtractionPrompt(t *testing.T) {
	fields, err := FieldsFromJSONSchema([]byte(testSchema))
	require.NoError(t, err)

	prompt := BuildExtractionPrompt(ExtractionSchema{
		Name:        "ProductMetadata",
		Description: "Extract product information from this product page.",
		Fields:      fields,
	}, "JBL Flip 6 Portable Speaker. Price: 9,999")

	assert.Contains(t, prompt, "Extract product information from this product page.")
	assert.Contains(t, prompt, `"product": "string" (required) // Product name or title,`)
	assert.Contains(t, prompt, `"image_links": ["string"]`)
	assert.Contains(t, prompt, "JBL Flip 6 Portable Speaker")
	assert.NotContains(t, prompt, `["string"],`+"\n}")
}
