package extraction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/gift-finder/internal/llm"
	"github.com/jonathan/gift-finder/internal/llm/llmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPage = `<html>
<head><meta property="og:image" content="/img/flip6.jpg"></head>
<body>
	<nav>Shop by category</nav>
	<main>
		<h1>JBL Flip 6 Portable Bluetooth Speaker</h1>
		<p>IP67 water and dustproof, 12 hours of playtime.</p>
		<p>Price: 9,999</p>
	</main>
</body>
</html>`

func TestPageCollaborator_Extract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(productPage))
	}))
	defer server.Close()

	client := &llmtest.MockClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return `{"product": "JBL Flip 6"}`, nil
		},
	}
	collab := NewPageCollaborator(client, PageOptions{Browser: BrowserNever}, nil)
	schema, err := ProductMetadataSchema()
	require.NoError(t, err)

	raw, err := collab.Extract(context.Background(), server.URL+"/dp/flip6", schema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"product": "JBL Flip 6"}`, string(raw))

	call := client.LastCall()
	assert.True(t, call.JSON)
	assert.Equal(t, 0.0, call.Options.Temperature)
	assert.Equal(t, DefaultMaxOutputTokens, call.Options.MaxTokens)
	assert.Contains(t, call.Prompt, "JBL Flip 6 Portable Bluetooth Speaker")
	assert.Contains(t, call.Prompt, "Price: 9,999")
	assert.NotContains(t, call.Prompt, "Shop by category")
	assert.Contains(t, call.Prompt, server.URL+"/img/flip6.jpg")
	assert.Contains(t, call.Prompt, `"bride_groom_to_be": true|false`)
	assert.Contains(t, call.Prompt, "in INR, digits only")
}

func TestPageCollaborator_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/empty" {
			_, _ = w.Write([]byte("<html><body>   </body></html>"))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := &llmtest.MockClient{}
	collab := NewPageCollaborator(client, PageOptions{Browser: BrowserNever}, nil)
	schema, err := ProductMetadataSchema()
	require.NoError(t, err)

	_, err = collab.Extract(context.Background(), "not a url", schema)
	assert.Error(t, err)

	_, err = collab.Extract(context.Background(), server.URL+"/blocked", schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	_, err = collab.Extract(context.Background(), server.URL+"/empty", schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no readable content")

	assert.Empty(t, client.Calls(), "the LLM is not called without page content")
}
