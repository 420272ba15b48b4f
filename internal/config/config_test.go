package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"BOOKCLUB_CONFIG", "ENV", "PORT", "DEBUG", "ALLOWED_ORIGINS", "CLOUD_RUN_URL",
	"CATALOG_PROVIDER", "CATALOG_URL", "CATALOG_STATIC_PATH", "CATALOG_TIMEOUT",
	"LLM_PROVIDER", "GEMINI_API_KEY", "GEMINI_MODEL", "HUGGINGFACE_TOKEN", "HUGGINGFACE_MODEL",
	"SEARCH_MAX_RESULTS", "GENERATION_CONCURRENCY", "GENERATION_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Catalog.Provider != CatalogOpenLibrary {
		t.Fatalf("expected openlibrary catalog, got %s", cfg.Catalog.Provider)
	}
	if cfg.Generator.Provider != ProviderGemini {
		t.Fatalf("expected gemini provider, got %s", cfg.Generator.Provider)
	}
	if cfg.Search.MaxResults != 50 {
		t.Fatalf("expected max results 50, got %d", cfg.Search.MaxResults)
	}
}

func TestLoadReadsYAMLThenEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "bookclub.yaml")
	content := `
port: "9000"
catalog:
  provider: static
  static_path: /tmp/books.json
generator:
  timeout: 5s
  concurrency: 8
search:
  max_results: 20
  default_results: 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BOOKCLUB_CONFIG", path)
	t.Setenv("PORT", "9090")
	t.Setenv("GENERATION_CONCURRENCY", "2")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("env should override yaml port, got %s", cfg.Port)
	}
	if cfg.Catalog.Provider != CatalogStatic || cfg.Catalog.StaticPath != "/tmp/books.json" {
		t.Fatalf("unexpected catalog config: %+v", cfg.Catalog)
	}
	if cfg.Generator.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.Generator.Timeout)
	}
	if cfg.Generator.Concurrency != 2 {
		t.Fatalf("expected concurrency 2, got %d", cfg.Generator.Concurrency)
	}
	if cfg.Search.MaxResults != 20 || cfg.Search.DefaultResults != 3 {
		t.Fatalf("unexpected search config: %+v", cfg.Search)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadPicksHuggingFaceWhenOnlyTokenSet(t *testing.T) {
	clearEnv(t)
	t.Setenv("HUGGINGFACE_TOKEN", "hf_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Generator.Provider != ProviderHuggingFace {
		t.Fatalf("expected huggingface provider, got %s", cfg.Generator.Provider)
	}
	if cfg.GeneratorCredential() != "hf_test" {
		t.Fatalf("unexpected credential %q", cfg.GeneratorCredential())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing explicit file", map[string]string{"BOOKCLUB_CONFIG": "/nonexistent/bookclub.yaml"}, "could not read"},
		{"bad int", map[string]string{"SEARCH_MAX_RESULTS": "lots"}, "SEARCH_MAX_RESULTS"},
		{"bad duration", map[string]string{"GENERATION_TIMEOUT": "soon"}, "GENERATION_TIMEOUT"},
		{"unknown provider", map[string]string{"LLM_PROVIDER": "oracle"}, "unknown generator provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero max results", func(c *Config) { c.Search.MaxResults = 0 }, false},
		{"default above max", func(c *Config) { c.Search.DefaultResults = 60 }, false},
		{"zero concurrency", func(c *Config) { c.Generator.Concurrency = 0 }, false},
		{"unknown catalog", func(c *Config) { c.Catalog.Provider = "library-of-babel" }, false},
		{"static without path", func(c *Config) { c.Catalog.Provider = CatalogStatic; c.Catalog.StaticPath = "" }, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
