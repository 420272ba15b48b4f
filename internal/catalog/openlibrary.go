package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"virtual-bookclub/backend/internal/logger"
	"virtual-bookclub/backend/internal/metrics"
	"virtual-bookclub/backend/internal/model"
)

const (
	// DefaultOpenLibraryURL is the public Open Library host
	DefaultOpenLibraryURL = "https://openlibrary.org"

	defaultHTTPTimeout = 10 * time.Second
	searchFields       = "key,title,author_name,first_publish_year,subject,cover_i,ratings_average,ratings_count,first_sentence"
)

// OpenLibraryConfig describes how to reach Open Library
type OpenLibraryConfig struct {
	BaseURL      string
	FullTextOnly bool
	HTTPClient   *http.Client
}

// OpenLibrary searches the Open Library catalog
type OpenLibrary struct {
	base         string
	fullTextOnly bool
	client       *http.Client
}

// NewOpenLibrary creates an Open Library catalog client
func NewOpenLibrary(cfg OpenLibraryConfig) *OpenLibrary {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultOpenLibraryURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &OpenLibrary{
		base:         base,
		fullTextOnly: cfg.FullTextOnly,
		client:       client,
	}
}

// Name identifies the provider in logs and metrics
func (c *OpenLibrary) Name() string {
	return "openlibrary"
}

type searchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []searchDoc `json:"docs"`
}

type searchDoc struct {
	Key              string          `json:"key"`
	Title            string          `json:"title"`
	AuthorName       []string        `json:"author_name"`
	FirstPublishYear int             `json:"first_publish_year"`
	Subject          []string        `json:"subject"`
	CoverID          int             `json:"cover_i"`
	RatingsAverage   float64         `json:"ratings_average"`
	RatingsCount     int             `json:"ratings_count"`
	FirstSentence    json.RawMessage `json:"first_sentence"`
}

// Search runs a single lookup and returns at most q.Limit books in provider order
func (c *OpenLibrary) Search(ctx context.Context, q model.SearchQuery) ([]model.BookRecord, error) {
	books, err := c.search(ctx, q)
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(c.Name(), "error").Inc()
		return nil, &UnavailableError{Provider: c.Name(), Err: err}
	}
	outcome := "ok"
	if len(books) == 0 {
		outcome = "empty"
	}
	metrics.CatalogRequestsTotal.WithLabelValues(c.Name(), outcome).Inc()
	return books, nil
}

func (c *OpenLibrary) search(ctx context.Context, q model.SearchQuery) ([]model.BookRecord, error) {
	params := url.Values{}
	params.Set("q", buildQuery(q))
	params.Set("limit", fmt.Sprint(q.Limit))
	params.Set("fields", searchFields)
	if c.fullTextOnly {
		params.Set("has_fulltext", "true")
	}
	endpoint := fmt.Sprintf("%s/search.json?%s", c.base, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	logger.For(ctx).WithField("query", params.Get("q")).Debug("[CATALOG] Searching Open Library")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("open library returned %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	books := make([]model.BookRecord, 0, len(parsed.Docs))
	for _, doc := range parsed.Docs {
		if doc.Title == "" || len(doc.AuthorName) == 0 {
			continue
		}
		books = append(books, doc.toRecord())
	}
	return clampLimit(books, q.Limit), nil
}

// buildQuery renders the Open Library search expression for a query
func buildQuery(q model.SearchQuery) string {
	text := strings.ReplaceAll(strings.TrimSpace(q.Text), `"`, "")
	switch q.Mode {
	case model.ModeTitle:
		return fmt.Sprintf(`title:"%s"`, text)
	case model.ModeAuthor:
		return fmt.Sprintf(`author:"%s"`, text)
	default:
		if strings.EqualFold(text, AnyGenre) {
			return "fiction"
		}
		return fmt.Sprintf(`subject:"%s"`, SubjectForGenre(text))
	}
}

func (d searchDoc) toRecord() model.BookRecord {
	subjects := d.Subject
	if len(subjects) > maxSubjects {
		subjects = subjects[:maxSubjects]
	}
	return model.BookRecord{
		Title:       strings.TrimSpace(d.Title),
		Author:      JoinAuthors(d.AuthorName),
		Summary:     firstSentence(d.FirstSentence),
		Authors:     d.AuthorName,
		Year:        d.FirstPublishYear,
		Subjects:    subjects,
		CoverID:     d.CoverID,
		Rating:      d.RatingsAverage,
		RatingCount: d.RatingsCount,
	}
}

// firstSentence accepts both the string and the array form Open Library uses
func firstSentence(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return strings.TrimSpace(strings.Join(many, " "))
	}
	var wrapped struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return strings.TrimSpace(wrapped.Value)
	}
	return ""
}

// IsUnavailable reports whether err came from an unreachable catalog
func IsUnavailable(err error) bool {
	var target *UnavailableError
	return errors.As(err, &target)
}
