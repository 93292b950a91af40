package preview

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors of tags carrying a lead image, in order of preference.
var imageSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="og:image:secure_url"]`, "content"},
	{`meta[property="og:image"]`, "content"},
	{`meta[property="og:image:url"]`, "content"},
	{`meta[name="twitter:image"]`, "content"},
	{`meta[name="twitter:image:src"]`, "content"},
	{`meta[property="twitter:image"]`, "content"},
	{`link[rel="image_src"]`, "href"},
}

// extractImage returns the first lead image URL declared in the document
// head, as written in the page.
func extractImage(selection *goquery.Selection) string {
	for _, s := range imageSelectors {
		var imageURL string

		selection.Find(s.selector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			value, _ := el.Attr(s.attr)
			imageURL = strings.TrimSpace(value)

			return imageURL == ""
		})

		if imageURL != "" {
			return imageURL
		}
	}

	return ""
}
