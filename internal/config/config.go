package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for the recipe scraper.
type Config struct {
	Crawl   CrawlConfig   `mapstructure:"crawl"   yaml:"crawl"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	AI      AIConfig      `mapstructure:"ai"      yaml:"ai"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// CrawlConfig controls link collection and the per-recipe loop.
type CrawlConfig struct {
	MaxLinks        int           `mapstructure:"max_links"        yaml:"max_links"`
	MaxRecipes      int           `mapstructure:"max_recipes"      yaml:"max_recipes"`
	SameHostOnly    bool          `mapstructure:"same_host_only"   yaml:"same_host_only"`
	PolitenessDelay time.Duration `mapstructure:"politeness_delay" yaml:"politeness_delay"`

	// LinkKeywords qualify an anchor as recipe-like when any of them appears
	// in the resolved URL path or the visible anchor text.
	LinkKeywords []string `mapstructure:"link_keywords" yaml:"link_keywords"`

	// IngredientKeywords and InstructionKeywords match section headings
	// during landmark extraction.
	IngredientKeywords  []string `mapstructure:"ingredient_keywords"  yaml:"ingredient_keywords"`
	InstructionKeywords []string `mapstructure:"instruction_keywords" yaml:"instruction_keywords"`
}

// FetcherConfig controls the HTTP fetcher.
type FetcherConfig struct {
	RequestTimeout       time.Duration `mapstructure:"request_timeout"        yaml:"request_timeout"`
	UserAgent            string        `mapstructure:"user_agent"             yaml:"user_agent"`
	FollowRedirects      bool          `mapstructure:"follow_redirects"       yaml:"follow_redirects"`
	MaxRedirects         int           `mapstructure:"max_redirects"          yaml:"max_redirects"`
	MaxBodySize          int64         `mapstructure:"max_body_size"          yaml:"max_body_size"`
	MaxRetries           int           `mapstructure:"max_retries"            yaml:"max_retries"`
	RetryInitialInterval time.Duration `mapstructure:"retry_initial_interval" yaml:"retry_initial_interval"`
	RetryMaxInterval     time.Duration `mapstructure:"retry_max_interval"     yaml:"retry_max_interval"`
}

// AIConfig controls the text-generation service integration.
type AIConfig struct {
	Provider       string        `mapstructure:"provider"         yaml:"provider"`
	Model          string        `mapstructure:"model"            yaml:"model"`
	Endpoint       string        `mapstructure:"endpoint"         yaml:"endpoint"`
	APIKey         string        `mapstructure:"api_key"          yaml:"api_key"`
	MaxTokens      int           `mapstructure:"max_tokens"       yaml:"max_tokens"`
	Temperature    float64       `mapstructure:"temperature"      yaml:"temperature"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"  yaml:"request_timeout"`
	PairsPerRecipe int           `mapstructure:"pairs_per_recipe" yaml:"pairs_per_recipe"`

	// PromptBudget caps how many bytes of recipe text are embedded in the
	// prompt sent to the service.
	PromptBudget int `mapstructure:"prompt_budget" yaml:"prompt_budget"`
}

// StorageConfig controls the dataset sink.
type StorageConfig struct {
	Type       string `mapstructure:"type"        yaml:"type"` // jsonl, mongodb, multi
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`

	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Crawl: CrawlConfig{
			MaxLinks:        10,
			MaxRecipes:      10,
			SameHostOnly:    true,
			PolitenessDelay: 2 * time.Second,
			LinkKeywords: []string{
				"/recipe/", "/recipes/",
				"recipe-", "recipes-",
				"cooking/", "food/",
			},
			IngredientKeywords:  []string{"ingredients", "ingredient"},
			InstructionKeywords: []string{"instructions", "directions", "method", "steps", "preparation"},
		},
		Fetcher: FetcherConfig{
			RequestTimeout:       30 * time.Second,
			UserAgent:            "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			FollowRedirects:      true,
			MaxRedirects:         10,
			MaxBodySize:          10 * 1024 * 1024, // 10MB
			MaxRetries:           0,
			RetryInitialInterval: 500 * time.Millisecond,
			RetryMaxInterval:     5 * time.Second,
		},
		AI: AIConfig{
			Provider:       "openai",
			Model:          "gpt-3.5-turbo",
			MaxTokens:      1024,
			Temperature:    0.7,
			RequestTimeout: 120 * time.Second,
			PairsPerRecipe: 5,
			PromptBudget:   2000,
		},
		Storage: StorageConfig{
			Type:            "jsonl",
			OutputPath:      "website_alpaca_dataset.jsonl",
			MongoDatabase:   "recipes",
			MongoCollection: "training_records",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
