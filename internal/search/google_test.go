package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestGoogleProvider_TopResult(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{"cx": q.Get("cx"), "q": q.Get("q"), "num": q.Get("num"), "gl": q.Get("gl"), "hl": q.Get("hl")}
		w.Header().Set("Content-Type", "application/json")
		if q.Get("q") == "Obscure Item Y" {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`{"items": [{"link": "https://www.amazon.in/dp/B09V7WS4PP"}]}`))
	}))
	defer server.Close()

	ctx := context.Background()
	provider, err := NewGoogleProvider(ctx, "api-key", "engine-id", DefaultLocale(), option.WithEndpoint(server.URL+"/"))
	require.NoError(t, err)

	link, err := provider.TopResult(ctx, "JBL Flip 6")
	require.NoError(t, err)
	assert.Equal(t, "https://www.amazon.in/dp/B09V7WS4PP", link)
	assert.Equal(t, map[string]string{"cx": "engine-id", "q": "JBL Flip 6", "num": "1", "gl": "in", "hl": "en"}, got)

	link, err = provider.TopResult(ctx, "Obscure Item Y")
	require.NoError(t, err)
	assert.Empty(t, link)
}

func TestNewGoogleProvider_RequiresCredentials(t *testing.T) {
	_, err := NewGoogleProvider(context.Background(), "", "cx", DefaultLocale())
	assert.Error(t, err)
	_, err = NewGoogleProvider(context.Background(), "key", "", DefaultLocale())
	assert.Error(t, err)
}
