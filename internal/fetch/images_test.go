package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractImageLinks(t *testing.T) {
	html := `
	<html>
		<head>
			<meta property="og:image" content="https://m.media-amazon.com/images/I/71og.jpg">
		</head>
		<body>
			<img id="landingImage" data-old-hires="https://m.media-amazon.com/images/I/71hires.jpg" src="https://m.media-amazon.com/images/I/71small.jpg">
			<div id="altImages">
				<img src="/images/I/alt1.jpg">
				<img src="https://m.media-amazon.com/images/I/71og.jpg">
				<img src="data:image/png;base64,AAAA">
				<img src="https://m.media-amazon.com/images/G/31/logo.png">
				<img src="https://m.media-amazon.com/images/I/spinner.gif">
			</div>
		</body>
	</html>`

	links := ExtractImageLinks(html, "https://www.amazon.in/dp/B09V7WS4PP", RetailerAmazon)
	assert.Equal(t, []string{
		"https://m.media-amazon.com/images/I/71og.jpg",
		"https://m.media-amazon.com/images/I/71hires.jpg",
		"https://www.amazon.in/images/I/alt1.jpg",
	}, links)
}

func TestExtractImageLinks_DynamicImage(t *testing.T) {
	html := `<img id="landingImage" data-a-dynamic-image='{"https://m.media-amazon.com/images/I/dyn.jpg":[500,500]}'>`

	links := ExtractImageLinks(html, "https://www.amazon.in/dp/X", RetailerAmazon)
	assert.Equal(t, []string{"https://m.media-amazon.com/images/I/dyn.jpg"}, links)
}

func TestExtractImageLinks_Cap(t *testing.T) {
	html := "<main>"
	for i := 0; i < MaxImageLinks+5; i++ {
		html += `<img src="/p/` + string(rune('a'+i)) + `.jpg">`
	}
	html += "</main>"

	links := ExtractImageLinks(html, "https://shop.example.com/item", RetailerUnknown)
	assert.Len(t, links, MaxImageLinks)
	assert.Equal(t, "https://shop.example.com/p/a.jpg", links[0])
}
