package html_parser

import (
	"net/url"
	"strings"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// ExtractArticleText converts raw page HTML into plain text paragraphs.
// It removes non-content elements (script/style/navigation), runs
// go-readability over the cleaned document and normalizes whitespace so the
// returned string contains only readable sentences.
func ExtractArticleText(raw string, pageURL *url.URL) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	// Short-circuit if the payload is already plain text.
	if !strings.Contains(trimmed, "<") {
		return normalizeWhitespace(trimmed)
	}

	// Pre-process HTML: drop non-content elements before go-readability.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err == nil {
		doc.Find("script, style, noscript, aside, nav, header, footer").Remove()
		doc.Find("iframe, embed, object, video, audio, canvas").Remove()
		doc.Find("[class*='social'], [class*='share'], [class*='comment'], [id*='comment']").Remove()

		if cleanedHTML, err := doc.Html(); err == nil && cleanedHTML != "" {
			trimmed = cleanedHTML
		}
	}

	article, err := readability.FromReader(strings.NewReader(trimmed), pageURL)
	if err == nil {
		var textBuf strings.Builder
		if err := article.RenderText(&textBuf); err == nil {
			text := strings.TrimSpace(textBuf.String())
			if text != "" {
				return normalizeWhitespace(text)
			}
		}
	}

	// Fallback: strip tags from the original HTML.
	return extractParagraphs(trimmed)
}

// extractParagraphs extracts text from HTML while preserving paragraph
// structure. Paragraphs are separated by double newlines.
func extractParagraphs(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return StripTags(html)
	}

	var paragraphs []string

	doc.Find("h1, h2, h3, h4, h5, h6, p, pre, li").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	if len(paragraphs) == 0 {
		return StripTags(html)
	}

	return strings.Join(paragraphs, "\n\n")
}

// StripTags removes HTML tags from a string and returns plain text.
// It uses bluemonday's strict policy which strips all tags.
func StripTags(raw string) string {
	p := bluemonday.StrictPolicy()
	return normalizeWhitespace(p.Sanitize(raw))
}

// normalizeWhitespace collapses runs of whitespace into single spaces.
func normalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// ExtractTitle extracts the page title from HTML content.
// Priority order: og:title meta tag, <title> tag, first <h1> tag.
// Returns empty string if no title found.
func ExtractTitle(raw string) string {
	doc := parseDoc(raw)
	if doc == nil {
		return ""
	}

	ogTitle, exists := doc.Find("meta[property='og:title']").First().Attr("content")
	if exists && strings.TrimSpace(ogTitle) != "" {
		return strings.TrimSpace(ogTitle)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title != "" {
		return title
	}

	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// ExtractDescription extracts the page description from HTML content.
// Priority order: og:description meta tag, description meta tag.
func ExtractDescription(raw string) string {
	doc := parseDoc(raw)
	if doc == nil {
		return ""
	}

	ogDesc, exists := doc.Find("meta[property='og:description']").First().Attr("content")
	if exists && strings.TrimSpace(ogDesc) != "" {
		return strings.TrimSpace(ogDesc)
	}

	desc, exists := doc.Find("meta[name='description']").First().Attr("content")
	if exists {
		return strings.TrimSpace(desc)
	}

	return ""
}

// ExtractImageURL extracts the lead image URL from HTML content.
// Priority order: og:image meta tag, twitter:image meta tag. Relative URLs
// are resolved against pageURL when it is provided.
func ExtractImageURL(raw string, pageURL *url.URL) string {
	doc := parseDoc(raw)
	if doc == nil {
		return ""
	}

	image := ""

	ogImage, exists := doc.Find("meta[property='og:image']").First().Attr("content")
	if exists && strings.TrimSpace(ogImage) != "" {
		image = strings.TrimSpace(ogImage)
	} else if twImage, exists := doc.Find("meta[name='twitter:image']").First().Attr("content"); exists {
		image = strings.TrimSpace(twImage)
	}

	if image == "" || pageURL == nil {
		return image
	}

	resolved, err := pageURL.Parse(image)
	if err != nil {
		return image
	}

	return resolved.String()
}

func parseDoc(raw string) *goquery.Document {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		return nil
	}

	return doc
}
