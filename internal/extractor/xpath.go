package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

const (
	upperAlpha = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerAlpha = "abcdefghijklmnopqrstuvwxyz"
)

// queryListByXPath is the fallback landmark strategy for markup where the
// section list is not a direct sibling of its heading. It takes the first
// ul/ol anywhere after a keyword-matched heading in document order.
func queryListByXPath(rawHTML []byte, keywords []string) []string {
	doc, err := html.Parse(bytes.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	for _, kw := range keywords {
		expr := fmt.Sprintf(
			"//*[self::h1 or self::h2 or self::h3 or self::h4]"+
				"[contains(translate(normalize-space(.), %q, %q), %q)]"+
				"/following::*[self::ul or self::ol][1]//li",
			upperAlpha, lowerAlpha, strings.ToLower(kw),
		)

		nodes, err := htmlquery.QueryAll(doc, expr)
		if err != nil || len(nodes) == 0 {
			continue
		}

		items := make([]string, 0, len(nodes))
		for _, node := range nodes {
			if text := normalizeSpace(htmlquery.InnerText(node)); text != "" {
				items = append(items, text)
			}
		}
		if len(items) > 0 {
			return items
		}
	}
	return nil
}
