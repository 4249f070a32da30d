package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/ai"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/collector"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/config"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/extractor"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/fetcher"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/runner"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/storage"
)

var (
	cfgFile string
	verbose bool

	maxLinks    int
	maxRecipes  int
	pairs       int
	outputPath  string
	outputType  string
	delay       string
	llmProvider string
	llmModel    string
	llmEndpoint string
	timeout     string
	maxRetries  int
	userAgent   string
	sameHost    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "recipescraper",
		Short: "Recipe website scraper and training-dataset generator",
		Long: `recipescraper crawls a recipe website one level deep, extracts recipe
text from each discovered page, and synthesizes Alpaca-style
instruction/input/output training triples through a text-generation
service, appending them as line-delimited JSON.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runCmd creates the "run" subcommand.
func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [base-url]",
		Short: "Crawl a recipe site and generate a training dataset",
		Long: `Collect recipe links from the base URL, extract each recipe, and append
generated instruction/input/output triples to the output file. Requires
OPENAI_API_KEY in the environment for the default provider.`,
		Args: cobra.ExactArgs(1),
		RunE: runRun,
	}

	cmd.Flags().IntVar(&maxLinks, "max-links", 10, "maximum links to collect from the base page")
	cmd.Flags().IntVar(&maxRecipes, "max-recipes", 10, "maximum recipes to process")
	cmd.Flags().IntVar(&pairs, "pairs", 5, "instruction pairs to generate per recipe")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file path")
	cmd.Flags().StringVarP(&outputType, "format", "f", "", "sink backend: jsonl, mongodb, multi")
	cmd.Flags().StringVar(&delay, "delay", "", "politeness delay between recipes (e.g. 2s)")
	cmd.Flags().StringVar(&llmProvider, "llm", "", "LLM provider: openai, ollama, custom")
	cmd.Flags().StringVar(&llmModel, "model", "", "LLM model name")
	cmd.Flags().StringVar(&llmEndpoint, "llm-endpoint", "", "LLM endpoint URL (default: auto)")
	cmd.Flags().StringVar(&timeout, "timeout", "", "per-request fetch timeout (e.g. 30s)")
	cmd.Flags().IntVar(&maxRetries, "max-retries", -1, "max retries per failed fetch (-1 = use config default of 0)")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "custom User-Agent string")
	cmd.Flags().BoolVar(&sameHost, "same-host", true, "only follow links on the base URL's host")

	return cmd
}

// runRun executes the run command.
func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	applyCLIOverrides(cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	baseURL := args[0]
	if err := config.ValidateURL(baseURL); err != nil {
		return fmt.Errorf("invalid URL %q: %w", baseURL, err)
	}

	logger.Info("starting run",
		"base_url", baseURL,
		"max_links", cfg.Crawl.MaxLinks,
		"max_recipes", cfg.Crawl.MaxRecipes,
		"pairs_per_recipe", cfg.AI.PairsPerRecipe,
		"provider", cfg.AI.Provider,
		"model", cfg.AI.Model,
		"output", cfg.Storage.OutputPath,
	)

	httpFetcher := fetcher.NewHTTPFetcher(&cfg.Fetcher, logger)
	defer httpFetcher.Close()
	fetch := fetcher.NewRetryingFetcher(httpFetcher, &cfg.Fetcher, logger)

	llmClient := ai.NewLLMClient(&cfg.AI, logger)

	run := runner.New(
		collector.New(fetch, &cfg.Crawl, logger),
		extractor.New(fetch, &cfg.Crawl, logger),
		ai.NewSynthesizer(llmClient, &cfg.AI, logger),
		func() (storage.Sink, error) { return storage.NewSink(&cfg.Storage, logger) },
		cfg,
		logger,
	)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, finishing current recipe...", "signal", sig)
		cancel()
	}()

	summary, err := run.Run(ctx, baseURL)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	fmt.Printf("\nRun complete in %s\n", summary.Elapsed.Round(time.Millisecond))
	fmt.Printf("   Links found:       %d\n", summary.LinksFound)
	fmt.Printf("   Recipes attempted: %d\n", summary.RecipesAttempted)
	fmt.Printf("   Recipes skipped:   %d\n", summary.RecipesSkipped)
	fmt.Printf("   Records written:   %d\n", summary.RecordsWritten)
	if cfg.Storage.Type != "mongodb" {
		fmt.Printf("   Output:            %s\n", cfg.Storage.OutputPath)
	}

	return nil
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Crawl:\n")
			fmt.Printf("  Max Links:         %d\n", cfg.Crawl.MaxLinks)
			fmt.Printf("  Max Recipes:       %d\n", cfg.Crawl.MaxRecipes)
			fmt.Printf("  Same Host Only:    %v\n", cfg.Crawl.SameHostOnly)
			fmt.Printf("  Politeness Delay:  %s\n", cfg.Crawl.PolitenessDelay)
			fmt.Printf("  Link Keywords:     %d configured\n", len(cfg.Crawl.LinkKeywords))
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Request Timeout:   %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("  Max Body Size:     %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("  Max Retries:       %d\n", cfg.Fetcher.MaxRetries)
			fmt.Printf("\nAI:\n")
			fmt.Printf("  Provider:          %s\n", cfg.AI.Provider)
			fmt.Printf("  Model:             %s\n", cfg.AI.Model)
			fmt.Printf("  Pairs Per Recipe:  %d\n", cfg.AI.PairsPerRecipe)
			fmt.Printf("  Prompt Budget:     %d bytes\n", cfg.AI.PromptBudget)
			fmt.Printf("  API Key Set:       %v\n", cfg.AI.APIKey != "")
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			fmt.Printf("  Output Path:       %s\n", cfg.Storage.OutputPath)
			return nil
		},
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("recipescraper %s\n", config.Version)
		},
	}
}

// setupLogger creates a structured logger.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if maxLinks > 0 {
		cfg.Crawl.MaxLinks = maxLinks
	}
	if maxRecipes > 0 {
		cfg.Crawl.MaxRecipes = maxRecipes
	}
	if pairs > 0 {
		cfg.AI.PairsPerRecipe = pairs
	}
	if outputPath != "" {
		cfg.Storage.OutputPath = outputPath
	}
	if outputType != "" {
		cfg.Storage.Type = outputType
	}
	if delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			cfg.Crawl.PolitenessDelay = d
		}
	}
	if llmProvider != "" {
		cfg.AI.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.AI.Model = llmModel
	}
	if llmEndpoint != "" {
		cfg.AI.Endpoint = llmEndpoint
	}
	if timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.Fetcher.RequestTimeout = d
		}
	}
	if maxRetries >= 0 {
		cfg.Fetcher.MaxRetries = maxRetries
	}
	if userAgent != "" {
		cfg.Fetcher.UserAgent = userAgent
	}
	cfg.Crawl.SameHostOnly = sameHost
}
