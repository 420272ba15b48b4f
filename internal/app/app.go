// Package app wires configuration into the catalog, the generator and the search service.
package app

import (
	"context"
	"fmt"
	"net/http"

	"virtual-bookclub/backend/internal/agent"
	"virtual-bookclub/backend/internal/agent/deps"
	"virtual-bookclub/backend/internal/catalog"
	"virtual-bookclub/backend/internal/config"
	"virtual-bookclub/backend/internal/logger"
	"virtual-bookclub/backend/internal/present"
	"virtual-bookclub/backend/internal/search"
)

// App holds the components shared by the server and the CLI
type App struct {
	Config    *config.Config
	Catalog   deps.BookCatalog
	Generator *agent.QuestionGenerator
	Search    *search.Service
	Presenter *present.Presenter
}

// New builds every component from cfg
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	cat, err := NewCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	llm, err := NewLLMClient(ctx, cfg.Generator)
	if err != nil {
		return nil, err
	}
	generator := agent.NewQuestionGenerator(llm, cfg.Generator.Temperature)

	svc := search.NewService(cat, generator, search.Options{
		MaxResults:        cfg.Search.MaxResults,
		Concurrency:       cfg.Generator.Concurrency,
		CatalogTimeout:    cfg.Catalog.Timeout,
		GenerationTimeout: cfg.Generator.Timeout,
	})

	logger.For(ctx).Infof("[INFO] Search ready catalog=%s generator=%s concurrency=%d",
		cat.Name(), llm.Name(), cfg.Generator.Concurrency)

	return &App{
		Config:    cfg,
		Catalog:   cat,
		Generator: generator,
		Search:    svc,
		Presenter: present.New(cfg.Catalog.CoversURL),
	}, nil
}

// NewCatalog creates the configured catalog provider
func NewCatalog(cfg config.CatalogConfig) (deps.BookCatalog, error) {
	switch cfg.Provider {
	case config.CatalogStatic:
		static, err := catalog.LoadStatic(cfg.StaticPath)
		if err != nil {
			return nil, err
		}
		return static, nil
	case config.CatalogOpenLibrary, "":
		return catalog.NewOpenLibrary(catalog.OpenLibraryConfig{
			BaseURL:      cfg.BaseURL,
			FullTextOnly: cfg.FullTextOnly,
			HTTPClient:   &http.Client{Timeout: cfg.Timeout},
		}), nil
	default:
		return nil, fmt.Errorf("unknown catalog provider %q", cfg.Provider)
	}
}

// NewLLMClient creates the configured text-generation client
func NewLLMClient(ctx context.Context, cfg config.GeneratorConfig) (deps.LLMClient, error) {
	switch cfg.Provider {
	case config.ProviderHuggingFace:
		if cfg.HuggingFaceToken == "" {
			return nil, fmt.Errorf("HUGGINGFACE_TOKEN is not set")
		}
		return agent.NewHuggingFaceClient(cfg.HuggingFaceURL, cfg.HuggingFaceModel, cfg.HuggingFaceToken, cfg.Timeout), nil
	case config.ProviderGemini, "":
		return agent.NewGeminiFromKey(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.Provider)
	}
}
