package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/config"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/storage"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/types"
)

// Collector discovers recipe links on a base page.
type Collector interface {
	Collect(ctx context.Context, baseURL string, maxLinks int) ([]types.RecipeLink, error)
}

// Extractor turns one recipe link into a recipe document.
type Extractor interface {
	Extract(ctx context.Context, link types.RecipeLink) (*types.RecipeDocument, error)
}

// Synthesizer produces training records from a recipe document.
type Synthesizer interface {
	Synthesize(ctx context.Context, doc *types.RecipeDocument, numPairs int) ([]types.TrainingRecord, error)
}

// SinkOpener opens the dataset sink. The runner defers opening until link
// collection has succeeded, so a failed base fetch leaves no output file
// behind.
type SinkOpener func() (storage.Sink, error)

// Summary reports what a run accomplished. Skips are always counted so
// partial failure is never indistinguishable from full success.
type Summary struct {
	BaseURL          string
	LinksFound       int
	RecipesAttempted int
	RecipesSkipped   int
	RecordsWritten   int
	Elapsed          time.Duration
}

// Runner drives the collect-extract-synthesize-append pipeline, strictly
// sequentially.
type Runner struct {
	collector   Collector
	extractor   Extractor
	synthesizer Synthesizer
	openSink    SinkOpener
	cfg         *config.Config
	logger      *slog.Logger
}

// New creates a Runner over the given pipeline stages.
func New(c Collector, e Extractor, s Synthesizer, open SinkOpener, cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{
		collector:   c,
		extractor:   e,
		synthesizer: s,
		openSink:    open,
		cfg:         cfg,
		logger:      logger.With("component", "runner"),
	}
}

// Run processes up to max_recipes links from baseURL. A failure on any
// single recipe is logged and counted as a skip; only link collection
// failure aborts the run.
func (r *Runner) Run(ctx context.Context, baseURL string) (*Summary, error) {
	start := time.Now()
	summary := &Summary{BaseURL: baseURL}

	links, err := r.collector.Collect(ctx, baseURL, r.cfg.Crawl.MaxLinks)
	if err != nil {
		return nil, err
	}
	summary.LinksFound = len(links)
	if len(links) == 0 {
		r.logger.Warn("no recipe links found", "base_url", baseURL)
		summary.Elapsed = time.Since(start)
		return summary, nil
	}

	sink, err := r.openSink()
	if err != nil {
		return nil, err
	}
	defer sink.Close()

	if len(links) > r.cfg.Crawl.MaxRecipes {
		links = links[:r.cfg.Crawl.MaxRecipes]
	}

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			r.logger.Info("run cancelled", "processed", i, "of", len(links))
			break
		}

		summary.RecipesAttempted++
		if err := r.processRecipe(ctx, link, sink); err != nil {
			summary.RecipesSkipped++
			r.logger.Warn("recipe skipped", "url", link.String(), "error", err)
		}

		if r.cfg.Crawl.PolitenessDelay > 0 && i < len(links)-1 {
			select {
			case <-time.After(r.cfg.Crawl.PolitenessDelay):
			case <-ctx.Done():
			}
		}
	}

	summary.RecordsWritten = sink.Count()
	summary.Elapsed = time.Since(start)

	r.logger.Info("run complete",
		"base_url", baseURL,
		"links_found", summary.LinksFound,
		"recipes_attempted", summary.RecipesAttempted,
		"recipes_skipped", summary.RecipesSkipped,
		"records_written", summary.RecordsWritten,
		"elapsed", summary.Elapsed,
	)

	return summary, nil
}

// processRecipe runs extract-synthesize-append for one link. Documents with
// no usable content are skipped before any generation request is made.
func (r *Runner) processRecipe(ctx context.Context, link types.RecipeLink, sink storage.Sink) error {
	r.logger.Info("processing recipe", "url", link.String())

	doc, err := r.extractor.Extract(ctx, link)
	if err != nil {
		return err
	}
	if !doc.Usable() {
		return types.ErrEmptyDocument
	}

	records, err := r.synthesizer.Synthesize(ctx, doc, r.cfg.AI.PairsPerRecipe)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return types.ErrNoCompletion
	}

	if err := sink.Append(records); err != nil {
		return err
	}

	r.logger.Info("recipe processed",
		"url", link.String(),
		"title", doc.Title,
		"records", len(records),
	)
	return nil
}
