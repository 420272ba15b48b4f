// Package search validates a search, queries the catalog and attaches
// generated discussion questions to every returned book.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"virtual-bookclub/backend/internal/agent/deps"
	"virtual-bookclub/backend/internal/logger"
	"virtual-bookclub/backend/internal/metrics"
	"virtual-bookclub/backend/internal/model"
	"virtual-bookclub/backend/internal/validator"
)

const (
	// DefaultMaxResults caps the result count a user can request
	DefaultMaxResults = 50
	// MaxTextLength is the maximum query text length in characters
	MaxTextLength = 200

	defaultConcurrency       = 4
	defaultCatalogTimeout    = 10 * time.Second
	defaultGenerationTimeout = 25 * time.Second
)

// Generator produces the per-book generated content
type Generator interface {
	Questions(ctx context.Context, book model.BookRecord) (model.DiscussionQuestions, error)
	Summarize(ctx context.Context, book model.BookRecord) (string, error)
}

// Options tunes the search controller. Zero values select the defaults.
type Options struct {
	MaxResults        int
	Concurrency       int
	CatalogTimeout    time.Duration
	GenerationTimeout time.Duration
}

// Service runs searches submitted through the form
type Service struct {
	catalog   deps.BookCatalog
	generator Generator
	inflight  *Inflight
	opts      Options
}

// NewService creates a search service
func NewService(catalog deps.BookCatalog, generator Generator, opts Options) *Service {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.CatalogTimeout <= 0 {
		opts.CatalogTimeout = defaultCatalogTimeout
	}
	if opts.GenerationTimeout <= 0 {
		opts.GenerationTimeout = defaultGenerationTimeout
	}
	return &Service{
		catalog:   catalog,
		generator: generator,
		inflight:  NewInflight(),
		opts:      opts,
	}
}

// MaxResults returns the largest accepted limit
func (s *Service) MaxResults() int {
	return s.opts.MaxResults
}

// Inflight returns the registry of running searches
func (s *Service) Inflight() *Inflight {
	return s.inflight
}

// Normalize trims the query text and converts it to NFC
func Normalize(q model.SearchQuery) model.SearchQuery {
	q.Text = norm.NFC.String(strings.TrimSpace(q.Text))
	return q
}

// Validate checks a query without calling any external service
func (s *Service) Validate(q model.SearchQuery) error {
	v := validator.New()

	text := strings.TrimSpace(q.Text)
	v.Check(text != "", "text", "must be provided")
	v.Check(utf8.RuneCountInString(text) <= MaxTextLength, "text", fmt.Sprintf("must not be more than %d characters", MaxTextLength))
	v.Check(validator.PermittedValue(q.Mode, model.Modes...), "mode", "must be genre, author or title")
	v.Check(q.Limit >= 1, "limit", "must be at least 1")
	v.Check(q.Limit <= s.opts.MaxResults, "limit", fmt.Sprintf("must be at most %d", s.opts.MaxResults))

	if !v.Valid() {
		return &ValidationError{Fields: v.Errors}
	}
	return nil
}

// Search runs q for sessionID and returns one result per catalog book, in catalog order.
// A newer search from the same session cancels this one; its results are discarded
// and ErrSuperseded is returned. Generation failures never fail the search.
func (s *Service) Search(ctx context.Context, sessionID string, q model.SearchQuery) ([]model.SearchResult, error) {
	q = Normalize(q)
	if err := s.Validate(q); err != nil {
		metrics.SearchesTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	ctx, release := s.inflight.Begin(ctx, sessionID)
	defer release()
	defer logger.Track(ctx, fmt.Sprintf("search %s=%q", q.Mode, q.Text))()

	log := logger.For(ctx).WithFields(logrus.Fields{
		"mode":  q.Mode,
		"text":  q.Text,
		"limit": q.Limit,
	})

	catalogCtx, cancel := context.WithTimeout(ctx, s.opts.CatalogTimeout)
	books, err := s.catalog.Search(catalogCtx, q)
	cancel()
	if Superseded(ctx) {
		return nil, s.superseded(log)
	}
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("unavailable").Inc()
		log.Warnf("[CATALOG] %s lookup failed: %v", s.catalog.Name(), err)
		return nil, err
	}
	if len(books) > q.Limit {
		books = books[:q.Limit]
	}

	if len(books) == 0 {
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
		log.Info("[SEARCH] No books found")
		return []model.SearchResult{}, nil
	}

	log.Infof("[SEARCH] %d book(s) from %s, generating questions", len(books), s.catalog.Name())

	results := make([]model.SearchResult, len(books))
	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, book := range books {
		i, book := i, book
		g.Go(func() error {
			results[i] = s.enrich(ctx, book)
			return nil
		})
	}
	_ = g.Wait()

	if Superseded(ctx) {
		return nil, s.superseded(log)
	}
	if err := ctx.Err(); err != nil {
		metrics.SearchesTotal.WithLabelValues("cancelled").Inc()
		return nil, fmt.Errorf("search interrupted: %w", context.Cause(ctx))
	}

	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	return results, nil
}

func (s *Service) superseded(log *logrus.Entry) error {
	metrics.SearchesTotal.WithLabelValues("superseded").Inc()
	log.Info("[SEARCH] Superseded by a newer search, discarding results")
	return ErrSuperseded
}

// enrich fills a missing summary and generates the questions for one book.
// Each generator call gets its own timeout.
func (s *Service) enrich(ctx context.Context, book model.BookRecord) model.SearchResult {
	if strings.TrimSpace(book.Summary) == "" {
		summaryCtx, cancel := context.WithTimeout(ctx, s.opts.GenerationTimeout)
		summary, err := s.generator.Summarize(summaryCtx, book)
		cancel()
		if err == nil {
			book.Summary = summary
			book.SummaryGenerated = true
		}
	}

	questionCtx, cancel := context.WithTimeout(ctx, s.opts.GenerationTimeout)
	defer cancel()

	questions, err := s.generator.Questions(questionCtx, book)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.For(ctx).WithField("book", book.Title).Debugf("[SEARCH] Questions unavailable: %v", err)
		}
		return model.SearchResult{Book: book}
	}
	return model.SearchResult{Book: book, Questions: &questions}
}

// CatalogName returns the name of the configured catalog provider
func (s *Service) CatalogName() string {
	return s.catalog.Name()
}
