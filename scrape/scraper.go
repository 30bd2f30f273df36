// Package scrape fetches a center's public web page and reduces it to
// plain text usable as answer context.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"faqbot/types"
)

const (
	maxContentChars = 3000
	minContentChars = 50
	userAgent       = "Mozilla/5.0 (compatible; faqbot/1.0)"
)

// Fetcher retrieves location pages.
type Fetcher struct {
	baseURL    string
	urlPattern string
	client     *http.Client
}

func NewFetcher(baseURL, urlPattern string) *Fetcher {
	if urlPattern == "" {
		urlPattern = "{base_url}/locations/{location}"
	}
	return &Fetcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		urlPattern: urlPattern,
		client:     &http.Client{Timeout: 20 * time.Second},
	}
}

// URLFor builds the page URL for a location name.
func (f *Fetcher) URLFor(location string) string {
	slug := strings.ToLower(strings.TrimSpace(location))
	slug = strings.ReplaceAll(slug, ",", "")
	slug = strings.ReplaceAll(slug, " ", "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	u := strings.ReplaceAll(f.urlPattern, "{base_url}", f.baseURL)
	return strings.ReplaceAll(u, "{location}", slug)
}

// Fetch downloads and strips the location page. Pages with less than
// minContentChars of text are treated as empty (likely a soft 404).
func (f *Fetcher) Fetch(ctx context.Context, location string) (string, error) {
	u := f.URLFor(location)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", types.NewExternalServiceError(u, 0, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", types.NewExternalServiceError(u, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return "", types.NewExternalServiceError(u, resp.StatusCode, nil)
	}

	text, err := StripHTML(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", types.NewExternalServiceError(u, resp.StatusCode,
			fmt.Errorf("parse page: %w", err))
	}
	if len(text) < minContentChars {
		return "", nil
	}
	if len(text) > maxContentChars {
		text = text[:maxContentChars]
	}
	return text, nil
}

// skipTags are elements whose subtrees carry chrome, not content.
var skipTags = map[string]struct{}{
	"script": {}, "style": {}, "nav": {}, "footer": {}, "header": {},
	"noscript": {}, "iframe": {},
}

// StripHTML extracts readable text from an HTML document. Content inside
// main or article elements is preferred over the rest of the body.
func StripHTML(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var mainText, bodyText strings.Builder
	var walk func(n *html.Node, inMain bool)
	walk = func(n *html.Node, inMain bool) {
		if n.Type == html.ElementNode {
			if _, skip := skipTags[n.Data]; skip {
				return
			}
			if n.Data == "main" || n.Data == "article" {
				inMain = true
			}
		}
		if n.Type == html.TextNode {
			t := strings.TrimSpace(n.Data)
			if t != "" {
				if inMain {
					mainText.WriteString(t)
					mainText.WriteString(" ")
				}
				bodyText.WriteString(t)
				bodyText.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inMain)
		}
	}
	walk(doc, false)

	out := strings.TrimSpace(mainText.String())
	if out == "" {
		out = strings.TrimSpace(bodyText.String())
	}
	return collapseSpaces(out), nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
