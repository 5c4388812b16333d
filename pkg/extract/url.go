package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"
)

// maxBodySize caps fetched HTML to prevent OOM from untrusted URLs.
const maxBodySize = 10 * 1024 * 1024

// FromURL fetches a web page and extracts its readable article text,
// returning the article title alongside.
func FromURL(ctx context.Context, rawURL string) (title, text string, err error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", err
	}
	// Some hosts refuse requests without a browser-like User-Agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("fetch url: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", "", fmt.Errorf("read body: %w", err)
	}
	if len(body) >= maxBodySize {
		return "", "", fmt.Errorf("page exceeds %d byte limit", maxBodySize)
	}

	body = SanitizeRuby(body)
	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return "", "", fmt.Errorf("extract article: %w", err)
	}
	title = article.Title
	if title == "" {
		title = parsed.Host
	}
	return title, article.TextContent, nil
}
