package types

import (
	"fmt"
	"strings"
	"time"
)

// RecipeLink is an absolute URL pointing at a single recipe page.
type RecipeLink string

func (l RecipeLink) String() string { return string(l) }

// RecipeDocument is the plain-text content extracted from one recipe page.
// Any of the sections may be empty when the page markup did not expose the
// expected landmarks; a document with only a title is valid degraded output.
type RecipeDocument struct {
	// Title is the recipe name, taken from the first heading or page title.
	Title string

	// Ingredients holds one entry per ingredient list item, in page order.
	Ingredients []string

	// Instructions holds one entry per preparation step, in page order.
	Instructions []string

	// SourceURL is the page the document was extracted from.
	SourceURL string

	// ExtractedAt is when the extraction happened.
	ExtractedAt time.Time
}

// Usable reports whether the document carries enough content to prompt a
// generation service with. A title alone is not enough: at least one of the
// ingredients or instructions sections must be present.
func (d *RecipeDocument) Usable() bool {
	if d == nil || strings.TrimSpace(d.Title) == "" {
		return false
	}
	return len(d.Ingredients) > 0 || len(d.Instructions) > 0
}

// Text renders the document as a plain-text recipe suitable for embedding in
// a prompt.
func (d *RecipeDocument) Text() string {
	var b strings.Builder
	b.WriteString(d.Title)
	b.WriteString("\n")

	if len(d.Ingredients) > 0 {
		b.WriteString("\nIngredients:\n")
		for _, ing := range d.Ingredients {
			fmt.Fprintf(&b, "- %s\n", ing)
		}
	}
	if len(d.Instructions) > 0 {
		b.WriteString("\nInstructions:\n")
		for i, step := range d.Instructions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}
	return b.String()
}
