package ai

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/config"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// stubGenerator returns a canned completion and records the prompts it saw.
type stubGenerator struct {
	completion string
	err        error
	lastSystem string
	lastUser   string
	calls      int
}

func (g *stubGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.calls++
	g.lastSystem = systemPrompt
	g.lastUser = userPrompt
	if g.err != nil {
		return "", g.err
	}
	return g.completion, nil
}

func carbonaraDoc() *types.RecipeDocument {
	return &types.RecipeDocument{
		Title:        "Pasta Carbonara",
		Ingredients:  []string{"spaghetti", "guanciale", "egg yolks", "pecorino", "black pepper"},
		Instructions: []string{"boil", "fry", "whisk", "drain", "toss", "serve"},
		SourceURL:    "https://example.com/recipes/carbonara",
	}
}

func triple(n int) string {
	return fmt.Sprintf(`INSTRUCTION: Explain aspect %d of the recipe.
INPUT: What should I know about step %d?
OUTPUT: ## Answer %d

Detailed markdown answer.`, n, n, n)
}

func completionOf(blocks ...string) string {
	return strings.Join(blocks, "\n---\n")
}

func newSynthesizer(g Generator) *Synthesizer {
	cfg := config.DefaultConfig()
	return NewSynthesizer(g, &cfg.AI, testLogger)
}

func TestSynthesizeWellFormed(t *testing.T) {
	gen := &stubGenerator{completion: completionOf(triple(1), triple(2), triple(3))}
	s := newSynthesizer(gen)

	records, err := s.Synthesize(context.Background(), carbonaraDoc(), 3)
	if err != nil {
		t.Fatalf("synthesize error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, rec := range records {
		if !rec.Valid() {
			t.Errorf("record %d has empty fields: %+v", i, rec)
		}
	}
	if gen.calls != 1 {
		t.Errorf("expected a single generation request per recipe, got %d", gen.calls)
	}
}

func TestSynthesizeDropsMalformed(t *testing.T) {
	malformed := "INSTRUCTION: Only an instruction, no other labels."
	gen := &stubGenerator{completion: completionOf(
		triple(1), triple(2), triple(3), malformed, triple(4), triple(5),
	)}
	s := newSynthesizer(gen)

	// 5 well-formed + 1 malformed with numPairs=6 -> 5
	records, err := s.Synthesize(context.Background(), carbonaraDoc(), 6)
	if err != nil {
		t.Fatalf("synthesize error: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records after dropping malformed entry, got %d", len(records))
	}
}

func TestSynthesizeNeverExceedsNumPairs(t *testing.T) {
	gen := &stubGenerator{completion: completionOf(triple(1), triple(2), triple(3), triple(4), triple(5))}
	s := newSynthesizer(gen)

	records, err := s.Synthesize(context.Background(), carbonaraDoc(), 2)
	if err != nil {
		t.Fatalf("synthesize error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected result capped at 2, got %d", len(records))
	}
}

func TestSynthesizeGenerationError(t *testing.T) {
	gen := &stubGenerator{err: &types.GenerationError{Provider: "openai", Err: fmt.Errorf("rate limited")}}
	s := newSynthesizer(gen)

	_, err := s.Synthesize(context.Background(), carbonaraDoc(), 3)
	if err == nil {
		t.Fatal("expected generation error to propagate")
	}
}

func TestSynthesizeEmptyCompletion(t *testing.T) {
	gen := &stubGenerator{completion: "   \n  "}
	s := newSynthesizer(gen)

	_, err := s.Synthesize(context.Background(), carbonaraDoc(), 3)
	if err == nil {
		t.Fatal("expected error for empty completion")
	}
}

func TestPromptContainsRecipeAndCount(t *testing.T) {
	gen := &stubGenerator{completion: completionOf(triple(1))}
	s := newSynthesizer(gen)

	if _, err := s.Synthesize(context.Background(), carbonaraDoc(), 4); err != nil {
		t.Fatalf("synthesize error: %v", err)
	}
	if !strings.Contains(gen.lastUser, "Pasta Carbonara") {
		t.Error("prompt missing recipe title")
	}
	if !strings.Contains(gen.lastUser, "exactly 4") {
		t.Error("prompt missing requested pair count")
	}
	if !strings.Contains(gen.lastSystem, "culinary assistant") {
		t.Error("system prompt missing persona framing")
	}
}

func TestPromptBudgetTruncation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AI.PromptBudget = 100
	gen := &stubGenerator{completion: completionOf(triple(1))}
	s := NewSynthesizer(gen, &cfg.AI, testLogger)

	doc := carbonaraDoc()
	doc.Instructions = append(doc.Instructions, strings.Repeat("stir the pot, ", 200))

	if _, err := s.Synthesize(context.Background(), doc, 1); err != nil {
		t.Fatalf("synthesize error: %v", err)
	}
	if len(gen.lastUser) > 100+500 {
		t.Errorf("prompt not truncated to budget: %d bytes", len(gen.lastUser))
	}
}

// --- ParseCompletion ---

func TestParseCompletionFieldContents(t *testing.T) {
	completion := `INSTRUCTION: Summarize the recipe.
INPUT: What is carbonara?
OUTPUT: # Carbonara

A Roman pasta dish with:
- eggs
- cheese`

	records, rejected := ParseCompletion(completion, 5)
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %v", rejected)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Instruction != "Summarize the recipe." {
		t.Errorf("bad instruction: %q", rec.Instruction)
	}
	if rec.Input != "What is carbonara?" {
		t.Errorf("bad input: %q", rec.Input)
	}
	if !strings.HasPrefix(rec.Output, "# Carbonara") || !strings.Contains(rec.Output, "- cheese") {
		t.Errorf("bad multiline output: %q", rec.Output)
	}
}

func TestParseCompletionRejectsEmptyField(t *testing.T) {
	completion := "INSTRUCTION: Something.\nINPUT:\nOUTPUT: An answer."
	records, rejected := ParseCompletion(completion, 5)
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
	if len(rejected) != 1 || rejected[0].Reason != "empty field" {
		t.Fatalf("expected one empty-field rejection, got %v", rejected)
	}
}

func TestParseCompletionRejectsMissingLabels(t *testing.T) {
	records, rejected := ParseCompletion("Just some prose without any labels.", 5)
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
	if len(rejected) != 1 {
		t.Fatalf("expected one rejection, got %d", len(rejected))
	}
}
