package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/config"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/types"
)

const systemPrompt = `You are a culinary assistant that creates detailed instruction-input-output pairs for recipes.
For each pair:
1. Instruction should be a clear generalization of the task (like a system prompt)
2. Input should contain relevant context or a specific question
3. Output should be detailed, including ingredients, steps, or explanations in markdown format

Make each pair unique and focus on different aspects (ingredients, preparation, cooking tips, variations, etc.)`

// recordSeparator delimits triples in the requested completion format.
const recordSeparator = "---"

// Synthesizer turns a recipe document into Alpaca-style training records via
// a single generation request per recipe.
type Synthesizer struct {
	generator    Generator
	promptBudget int
	logger       *slog.Logger
}

// NewSynthesizer creates a Synthesizer over the given generation boundary.
func NewSynthesizer(g Generator, cfg *config.AIConfig, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{
		generator:    g,
		promptBudget: cfg.PromptBudget,
		logger:       logger.With("component", "synthesizer"),
	}
}

// Synthesize requests numPairs triples grounded in doc and parses the
// completion. It never returns more than numPairs records and may return
// fewer when the completion contains malformed entries; it never fabricates
// records to pad the count.
func (s *Synthesizer) Synthesize(ctx context.Context, doc *types.RecipeDocument, numPairs int) ([]types.TrainingRecord, error) {
	completion, err := s.generator.Generate(ctx, systemPrompt, s.buildPrompt(doc, numPairs))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(completion) == "" {
		return nil, &types.GenerationError{Err: types.ErrNoCompletion}
	}

	records, rejected := ParseCompletion(completion, numPairs)
	for _, rej := range rejected {
		s.logger.Warn("rejected malformed record",
			"url", doc.SourceURL,
			"reason", rej.Reason,
		)
	}

	s.logger.Debug("synthesis complete",
		"url", doc.SourceURL,
		"requested", numPairs,
		"parsed", len(records),
		"rejected", len(rejected),
	)

	return records, nil
}

// buildPrompt embeds the recipe text, truncated to the prompt budget, and the
// delimited output format the parser expects.
func (s *Synthesizer) buildPrompt(doc *types.RecipeDocument, numPairs int) string {
	text := doc.Text()
	if len(text) > s.promptBudget {
		text = text[:s.promptBudget]
	}

	return fmt.Sprintf(`Create exactly %d unique instruction-input-output pairs based on this recipe:

%s

Format each pair as:
INSTRUCTION: [A generalised overview of the instructions for the recipe]
INPUT: [Context or specific question]
OUTPUT: [Detailed response in markdown format]

Separate pairs with a line containing only "%s".
Make sure each output includes proper markdown formatting with lists, headers, or emphasis where appropriate.`,
		numPairs, text, recordSeparator)
}

// Rejected describes a completion block that did not parse into a record.
type Rejected struct {
	Block  string
	Reason string
}

// ParseCompletion splits a completion into delimited blocks and parses each
// into a TrainingRecord. Blocks that do not yield exactly three non-empty
// fields are rejected, not substituted. The result is capped at maxRecords.
func ParseCompletion(completion string, maxRecords int) ([]types.TrainingRecord, []Rejected) {
	var records []types.TrainingRecord
	var rejected []Rejected

	for _, block := range splitBlocks(completion) {
		if len(records) >= maxRecords {
			break
		}
		rec, reason := parseBlock(block)
		if reason != "" {
			rejected = append(rejected, Rejected{Block: block, Reason: reason})
			continue
		}
		records = append(records, rec)
	}
	return records, rejected
}

// splitBlocks cuts a completion on separator lines, dropping empty blocks.
func splitBlocks(completion string) []string {
	var blocks []string
	var current []string

	flush := func() {
		block := strings.TrimSpace(strings.Join(current, "\n"))
		if block != "" {
			blocks = append(blocks, block)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(completion, "\n") {
		if strings.TrimSpace(line) == recordSeparator {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

// parseBlock extracts the three labeled fields from one block. The labels
// must appear in order; field values may span multiple lines.
func parseBlock(block string) (types.TrainingRecord, string) {
	instruction, rest, ok := cutField(block, "INSTRUCTION:", "INPUT:")
	if !ok {
		return types.TrainingRecord{}, "missing INSTRUCTION or INPUT label"
	}
	input, output, ok := cutField(rest, "INPUT:", "OUTPUT:")
	if !ok {
		return types.TrainingRecord{}, "missing OUTPUT label"
	}

	rec := types.TrainingRecord{
		Instruction: strings.TrimSpace(instruction),
		Input:       strings.TrimSpace(input),
		Output:      strings.TrimSpace(strings.TrimPrefix(output, "OUTPUT:")),
	}
	if !rec.Valid() {
		return types.TrainingRecord{}, "empty field"
	}
	return rec, ""
}

// cutField returns the text between startLabel and endLabel, and the
// remainder starting at endLabel.
func cutField(s, startLabel, endLabel string) (field, rest string, ok bool) {
	start := strings.Index(s, startLabel)
	if start < 0 {
		return "", "", false
	}
	s = s[start+len(startLabel):]

	end := strings.Index(s, endLabel)
	if end < 0 {
		return "", "", false
	}
	return s[:end], s[end:], true
}
