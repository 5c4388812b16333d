package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-shiori/go-readability"
)

// HTMLFormat implements Format for saved HTML pages, extracting the
// readable article body.
type HTMLFormat struct{}

func init() {
	Register(&HTMLFormat{})
}

func (f *HTMLFormat) Name() string         { return "HTML" }
func (f *HTMLFormat) Extensions() []string { return []string{".html", ".htm", ".xhtml"} }

func (f *HTMLFormat) Extract(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(filename)
	if err != nil {
		abs = filename
	}
	return ReadableText(data, &url.URL{Scheme: "file", Path: abs})
}

// ReadableText runs readability extraction over raw HTML.
func ReadableText(data []byte, base *url.URL) (string, error) {
	data = SanitizeRuby(data)
	article, err := readability.FromReader(bytes.NewReader(data), base)
	if err != nil {
		return "", fmt.Errorf("extract article: %w", err)
	}
	return article.TextContent, nil
}

var (
	// (?s) allows dot to match newlines; (?i) makes it case-insensitive.
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// SanitizeRuby removes ruby annotation text (<rt>, <rp>) from HTML so
// furigana does not duplicate the base text in the extracted string.
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, []byte{})
	return reRP.ReplaceAll(cleaned, []byte{})
}
