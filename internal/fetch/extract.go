package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// textSelectors are tried in order when locating the main content of a page;
// the body element is the fallback.
var textSelectors = []string{
	"main",
	"article",
	".content",
	"#content",
	".main-content",
	"#main-content",
}

// noiseSelector removes elements that never carry scoring-relevant text.
const noiseSelector = "nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

// ExtractedPage holds the text features pulled from one HTML document.
type ExtractedPage struct {
	Title       string
	Description string
	Text        string
}

// Extract parses HTML and returns the title, meta description and the main
// body text with noise elements removed.
func Extract(html string) (*ExtractedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page := &ExtractedPage{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		page.Description = strings.TrimSpace(desc)
	}

	doc.Find(noiseSelector).Remove()

	var main *goquery.Selection
	for _, selector := range textSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			main = selection.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	page.Text = cleanWhitespace(main.Text())
	return page, nil
}

// cleanWhitespace normalizes whitespace in extracted text.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
