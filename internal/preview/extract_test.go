package preview

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractImage(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "Open Graph image",
			html:     `<html><head><meta property="og:title" content="Big AI Breakthrough"><meta property="og:image" content="https://cdn.example.com/lead.jpg"></head><body></body></html>`,
			expected: "https://cdn.example.com/lead.jpg",
		},
		{
			name:     "Secure URL is preferred",
			html:     `<html><head><meta property="og:image" content="http://cdn.example.com/lead.jpg"><meta property="og:image:secure_url" content="https://cdn.example.com/lead.jpg"></head></html>`,
			expected: "https://cdn.example.com/lead.jpg",
		},
		{
			name:     "Twitter card image",
			html:     `<html><head><meta name="twitter:card" content="summary_large_image"><meta name="twitter:image" content="https://cdn.example.com/card.png"></head></html>`,
			expected: "https://cdn.example.com/card.png",
		},
		{
			name:     "Empty og:image falls through",
			html:     `<html><head><meta property="og:image" content="  "><link rel="image_src" href="/images/lead.png"></head></html>`,
			expected: "/images/lead.png",
		},
		{
			name:     "First non-empty og:image",
			html:     `<html><head><meta property="og:image" content=""><meta property="og:image" content="https://cdn.example.com/second.jpg"></head></html>`,
			expected: "https://cdn.example.com/second.jpg",
		},
		{
			name:     "No image",
			html:     `<html><head><title>Plain</title></head><body><img src="/inline.png"></body></html>`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			require.NoError(t, err)

			assert.Equal(t, tt.expected, extractImage(doc.Selection))
		})
	}
}
