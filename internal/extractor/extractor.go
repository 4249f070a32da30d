package extractor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/config"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/fetcher"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/types"
)

const headingSelector = "h1, h2, h3, h4"

// RecipeExtractor pulls a title, ingredients, and instruction steps out of a
// recipe page using heading landmarks. Extraction is best-effort: sections the
// markup does not expose come back empty rather than failing the page.
type RecipeExtractor struct {
	fetcher             fetcher.Fetcher
	ingredientKeywords  []string
	instructionKeywords []string
	logger              *slog.Logger
}

// New creates a RecipeExtractor with the crawl configuration's section
// keyword sets.
func New(f fetcher.Fetcher, cfg *config.CrawlConfig, logger *slog.Logger) *RecipeExtractor {
	return &RecipeExtractor{
		fetcher:             f,
		ingredientKeywords:  lowerAll(cfg.IngredientKeywords),
		instructionKeywords: lowerAll(cfg.InstructionKeywords),
		logger:              logger.With("component", "recipe_extractor"),
	}
}

// Extract fetches the linked page and returns its recipe document. Fetch and
// parse failures are returned to the caller, which treats them as per-recipe
// skips rather than run-fatal errors.
func (e *RecipeExtractor) Extract(ctx context.Context, link types.RecipeLink) (*types.RecipeDocument, error) {
	page, err := e.fetcher.Fetch(ctx, link.String())
	if err != nil {
		return nil, err
	}

	doc, err := page.Document()
	if err != nil {
		return nil, &types.ParseError{URL: link.String(), Err: err}
	}

	recipe := &types.RecipeDocument{
		Title:       e.extractTitle(doc),
		SourceURL:   link.String(),
		ExtractedAt: time.Now(),
	}

	recipe.Ingredients = e.extractSection(doc, page.Body, e.ingredientKeywords, false)
	recipe.Instructions = e.extractSection(doc, page.Body, e.instructionKeywords, true)

	e.logger.Debug("extraction complete",
		"url", link.String(),
		"title", recipe.Title,
		"ingredients", len(recipe.Ingredients),
		"instructions", len(recipe.Instructions),
	)

	return recipe, nil
}

// extractTitle returns the first non-empty of the page's h1 and <title>.
func (e *RecipeExtractor) extractTitle(doc *goquery.Document) string {
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// extractSection locates a heading matching one of the keywords and collects
// the list items that follow it, stopping at the next heading. The CSS
// strategy covers sibling lists; the XPath fallback handles markup where the
// list is nested one level away from the heading. When allowParagraphs is set
// and no list is found, paragraph blocks after the heading are accepted as
// degraded step text.
func (e *RecipeExtractor) extractSection(doc *goquery.Document, rawHTML []byte, keywords []string, allowParagraphs bool) []string {
	heading := e.findHeading(doc, keywords)
	if heading == nil {
		return nil
	}

	var items []string
	heading.NextUntil(headingSelector).Each(func(i int, sel *goquery.Selection) {
		if sel.Is("ul, ol") {
			sel.Find("li").Each(func(j int, li *goquery.Selection) {
				if text := normalizeSpace(li.Text()); text != "" {
					items = append(items, text)
				}
			})
		}
	})
	if len(items) > 0 {
		return items
	}

	if items = queryListByXPath(rawHTML, keywords); len(items) > 0 {
		return items
	}

	if allowParagraphs {
		heading.NextUntil(headingSelector).Each(func(i int, sel *goquery.Selection) {
			if sel.Is("p") {
				if text := normalizeSpace(sel.Text()); text != "" {
					items = append(items, text)
				}
			}
		})
	}
	return items
}

// findHeading returns the first h1-h4 whose text contains one of the keywords.
func (e *RecipeExtractor) findHeading(doc *goquery.Document, keywords []string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find(headingSelector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				found = sel
				return false
			}
		}
		return true
	})
	return found
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
