package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini      = "gemini"
	ProviderHuggingFace = "huggingface"

	CatalogOpenLibrary = "openlibrary"
	CatalogStatic      = "static"

	defaultConfigPath = "bookclub.yaml"
)

// CatalogConfig configures the book catalog lookup
type CatalogConfig struct {
	Provider     string        `yaml:"provider"`
	BaseURL      string        `yaml:"base_url"`
	CoversURL    string        `yaml:"covers_url"`
	StaticPath   string        `yaml:"static_path"`
	FullTextOnly bool          `yaml:"fulltext_only"`
	Timeout      time.Duration `yaml:"timeout"`
}

// GeneratorConfig configures the text-generation service
type GeneratorConfig struct {
	Provider         string        `yaml:"provider"`
	GeminiAPIKey     string        `yaml:"-"`
	GeminiModel      string        `yaml:"gemini_model"`
	HuggingFaceToken string        `yaml:"-"`
	HuggingFaceURL   string        `yaml:"huggingface_url"`
	HuggingFaceModel string        `yaml:"huggingface_model"`
	Temperature      float32       `yaml:"temperature"`
	Timeout          time.Duration `yaml:"timeout"`
	Concurrency      int           `yaml:"concurrency"`
}

// SearchConfig bounds user-controlled search parameters
type SearchConfig struct {
	MaxResults     int `yaml:"max_results"`
	DefaultResults int `yaml:"default_results"`
}

// RateLimitConfig configures per-IP limits and the daily search quota
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyQuota int64   `yaml:"daily_quota"`
}

// Config is the process-wide configuration loaded at startup
type Config struct {
	Env            string          `yaml:"env"`
	Port           string          `yaml:"port"`
	Debug          bool            `yaml:"debug"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	Catalog        CatalogConfig   `yaml:"catalog"`
	Generator      GeneratorConfig `yaml:"generator"`
	Search         SearchConfig    `yaml:"search"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Env:  "development",
		Port: "8080",
		Catalog: CatalogConfig{
			Provider:     CatalogOpenLibrary,
			BaseURL:      "https://openlibrary.org",
			CoversURL:    "https://covers.openlibrary.org",
			StaticPath:   "data/books.json",
			FullTextOnly: true,
			Timeout:      10 * time.Second,
		},
		Generator: GeneratorConfig{
			Provider:         ProviderGemini,
			GeminiModel:      "gemini-2.5-flash-lite",
			HuggingFaceURL:   "https://api-inference.huggingface.co",
			HuggingFaceModel: "gpt2",
			Temperature:      0.8,
			Timeout:          25 * time.Second,
			Concurrency:      4,
		},
		Search: SearchConfig{
			MaxResults:     50,
			DefaultResults: 5,
		},
		RateLimit: RateLimitConfig{
			PerSecond:  1,
			Burst:      3,
			DailyQuota: 500,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the environment.
// The YAML path comes from BOOKCLUB_CONFIG; bookclub.yaml is read when present.
func Load() (*Config, error) {
	// .env.local is optional
	_ = godotenv.Load(".env.local")

	cfg := Default()

	path := os.Getenv("BOOKCLUB_CONFIG")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Env, "ENV")
	setString(&c.Port, "PORT")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = append(c.AllowedOrigins, splitList(v)...)
	}
	if v := os.Getenv("CLOUD_RUN_URL"); v != "" {
		c.AllowedOrigins = append(c.AllowedOrigins, v)
	}

	setString(&c.Catalog.Provider, "CATALOG_PROVIDER")
	setString(&c.Catalog.BaseURL, "CATALOG_URL")
	setString(&c.Catalog.StaticPath, "CATALOG_STATIC_PATH")

	setString(&c.Generator.Provider, "LLM_PROVIDER")
	setString(&c.Generator.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.Generator.GeminiModel, "GEMINI_MODEL")
	setString(&c.Generator.HuggingFaceToken, "HUGGINGFACE_TOKEN")
	setString(&c.Generator.HuggingFaceModel, "HUGGINGFACE_MODEL")

	// Pick the provider whose credential is present when none was chosen explicitly
	if os.Getenv("LLM_PROVIDER") == "" && c.Generator.GeminiAPIKey == "" && c.Generator.HuggingFaceToken != "" {
		c.Generator.Provider = ProviderHuggingFace
	}

	var err error
	if c.Debug, err = boolEnv("DEBUG", c.Debug); err != nil {
		return err
	}
	if c.Search.MaxResults, err = intEnv("SEARCH_MAX_RESULTS", c.Search.MaxResults); err != nil {
		return err
	}
	if c.Generator.Concurrency, err = intEnv("GENERATION_CONCURRENCY", c.Generator.Concurrency); err != nil {
		return err
	}
	if c.Generator.Timeout, err = durationEnv("GENERATION_TIMEOUT", c.Generator.Timeout); err != nil {
		return err
	}
	if c.Catalog.Timeout, err = durationEnv("CATALOG_TIMEOUT", c.Catalog.Timeout); err != nil {
		return err
	}
	return nil
}

// Validate reports configuration values the server cannot run with
func (c *Config) Validate() error {
	var problems []string

	switch c.Catalog.Provider {
	case CatalogOpenLibrary:
		if c.Catalog.BaseURL == "" {
			problems = append(problems, "catalog.base_url must be set")
		}
	case CatalogStatic:
		if c.Catalog.StaticPath == "" {
			problems = append(problems, "catalog.static_path must be set")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown catalog provider %q", c.Catalog.Provider))
	}

	switch c.Generator.Provider {
	case ProviderGemini, ProviderHuggingFace:
	default:
		problems = append(problems, fmt.Sprintf("unknown generator provider %q", c.Generator.Provider))
	}

	if c.Search.MaxResults < 1 {
		problems = append(problems, "search.max_results must be positive")
	}
	if c.Search.DefaultResults < 1 || c.Search.DefaultResults > c.Search.MaxResults {
		problems = append(problems, "search.default_results must be between 1 and search.max_results")
	}
	if c.Generator.Concurrency < 1 {
		problems = append(problems, "generator.concurrency must be positive")
	}
	if c.Generator.Timeout <= 0 || c.Catalog.Timeout <= 0 {
		problems = append(problems, "timeouts must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// GeneratorCredential returns the credential for the selected provider
func (c *Config) GeneratorCredential() string {
	if c.Generator.Provider == ProviderHuggingFace {
		return c.Generator.HuggingFaceToken
	}
	return c.Generator.GeminiAPIKey
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
