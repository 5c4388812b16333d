package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
)

// EPUBFormat implements Format for EPUB files. Chapters are read in spine
// order and block elements become paragraph breaks, which pagination
// later uses as preferred page-break points.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

func (f *EPUBFormat) Extract(filename string) (string, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return "", fmt.Errorf("open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return "", fmt.Errorf("epub has no rootfile")
	}

	var chapters []string
	for _, ref := range rc.Rootfiles[0].Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}
		if text := flattenHTML(data); text != "" {
			chapters = append(chapters, text)
		}
	}
	if len(chapters) == 0 {
		return "", fmt.Errorf("no extractable text in %s", filename)
	}
	return strings.Join(chapters, "\n\n"), nil
}

var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "blockquote": true, "br": true, "tr": true,
}

// flattenHTML collects text nodes, separating block elements with blank
// lines so paragraph structure survives into the plain text.
func flattenHTML(data []byte) string {
	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return ""
	}

	var out strings.Builder
	pendingSpace := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			trimmed := strings.TrimSpace(n.Data)
			if trimmed == "" {
				// Whitespace-only nodes still separate words.
				pendingSpace = pendingSpace || n.Data != ""
				return
			}
			// Spaces at node boundaries belong between words, not
			// between a word and following punctuation.
			if pendingSpace || n.Data != strings.TrimLeft(n.Data, " \t\r\n") {
				if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
					out.WriteString(" ")
				}
			}
			out.WriteString(trimmed)
			pendingSpace = n.Data != strings.TrimRight(n.Data, " \t\r\n")
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			out.WriteString("\n\n")
			pendingSpace = false
		}
	}
	walk(doc)
	return strings.TrimSpace(out.String())
}
