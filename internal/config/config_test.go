package config

import (
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max_links", func(c *Config) { c.Crawl.MaxLinks = 0 }},
		{"zero max_recipes", func(c *Config) { c.Crawl.MaxRecipes = 0 }},
		{"negative delay", func(c *Config) { c.Crawl.PolitenessDelay = -1 }},
		{"empty keywords", func(c *Config) { c.Crawl.LinkKeywords = nil }},
		{"zero timeout", func(c *Config) { c.Fetcher.RequestTimeout = 0 }},
		{"negative retries", func(c *Config) { c.Fetcher.MaxRetries = -1 }},
		{"bad provider", func(c *Config) { c.AI.Provider = "palm" }},
		{"zero pairs", func(c *Config) { c.AI.PairsPerRecipe = 0 }},
		{"bad storage type", func(c *Config) { c.Storage.Type = "parquet" }},
		{"mongodb without uri", func(c *Config) { c.Storage.Type = "mongodb" }},
		{"empty output path", func(c *Config) { c.Storage.OutputPath = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	valid := []string{"https://example.com", "http://example.com/recipes"}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", u, err)
		}
	}

	invalid := []string{"ftp://example.com", "example.com", "://bad"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", u)
		}
	}
}

func TestLoadWithoutConfigFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load with no config file: %v", err)
	}
	if cfg.Crawl.MaxLinks != 10 {
		t.Errorf("expected default max_links 10, got %d", cfg.Crawl.MaxLinks)
	}
	if cfg.AI.Model != "gpt-3.5-turbo" {
		t.Errorf("expected default model, got %q", cfg.AI.Model)
	}
}
