package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Crawl.MaxLinks < 1 {
		return fmt.Errorf("crawl.max_links must be >= 1, got %d", cfg.Crawl.MaxLinks)
	}
	if cfg.Crawl.MaxRecipes < 1 {
		return fmt.Errorf("crawl.max_recipes must be >= 1, got %d", cfg.Crawl.MaxRecipes)
	}
	if cfg.Crawl.PolitenessDelay < 0 {
		return fmt.Errorf("crawl.politeness_delay must be >= 0")
	}
	if len(cfg.Crawl.LinkKeywords) == 0 {
		return fmt.Errorf("crawl.link_keywords must not be empty")
	}

	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}
	if cfg.Fetcher.MaxRetries < 0 {
		return fmt.Errorf("fetcher.max_retries must be >= 0, got %d", cfg.Fetcher.MaxRetries)
	}

	switch cfg.AI.Provider {
	case "openai", "ollama", "custom":
	default:
		return fmt.Errorf("ai.provider must be openai/ollama/custom, got %q", cfg.AI.Provider)
	}
	if cfg.AI.PairsPerRecipe < 1 {
		return fmt.Errorf("ai.pairs_per_recipe must be >= 1, got %d", cfg.AI.PairsPerRecipe)
	}
	if cfg.AI.PromptBudget < 1 {
		return fmt.Errorf("ai.prompt_budget must be >= 1, got %d", cfg.AI.PromptBudget)
	}

	validStorageTypes := map[string]bool{
		"jsonl": true, "mongodb": true, "multi": true,
	}
	if !validStorageTypes[cfg.Storage.Type] {
		return fmt.Errorf("storage.type %q is not supported (valid: jsonl, mongodb, multi)", cfg.Storage.Type)
	}
	if cfg.Storage.Type != "mongodb" && cfg.Storage.OutputPath == "" {
		return fmt.Errorf("storage.output_path must not be empty")
	}
	if cfg.Storage.Type == "mongodb" || cfg.Storage.Type == "multi" {
		if cfg.Storage.MongoURI == "" {
			return fmt.Errorf("storage.mongo_uri is required for storage.type %q", cfg.Storage.Type)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// ValidateURL checks if a URL string is a usable crawl seed.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
