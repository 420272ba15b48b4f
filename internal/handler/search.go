package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"virtual-bookclub/backend/internal/catalog"
	"virtual-bookclub/backend/internal/logger"
	"virtual-bookclub/backend/internal/model"
	"virtual-bookclub/backend/internal/present"
	"virtual-bookclub/backend/internal/search"
)

const (
	// SearchTimeout is the maximum time allowed for a whole search request
	SearchTimeout = 90 * time.Second
	// DefaultResults is the result count preselected in the form
	DefaultResults = 5
)

// SearchRequest is the JSON body of POST /api/search
type SearchRequest struct {
	Mode      string  `json:"mode"`
	Text      string  `json:"text"`
	Limit     *int    `json:"limit,omitempty"`
	SessionID *string `json:"sessionId,omitempty"`
}

// SearchResponseDTO is the JSON response of POST /api/search
type SearchResponseDTO struct {
	Results   []model.SearchResultResponse `json:"results"`
	Message   string                       `json:"message,omitempty"`
	SessionID string                       `json:"sessionId"`
}

var (
	searchService  *search.Service
	presenter      *present.Presenter
	defaultResults = DefaultResults
	searchMu       sync.RWMutex
)

// InitSearch installs the search service used by the handlers
func InitSearch(svc *search.Service, p *present.Presenter, defaultLimit int) {
	searchMu.Lock()
	defer searchMu.Unlock()

	searchService = svc
	presenter = p
	if defaultLimit > 0 {
		defaultResults = defaultLimit
	}
}

func currentSearch() (*search.Service, *present.Presenter, int) {
	searchMu.RLock()
	defer searchMu.RUnlock()
	return searchService, presenter, defaultResults
}

// HandleIndex renders the empty search form
func HandleIndex(c *gin.Context) {
	svc, _, limit := currentSearch()
	ensureSession(c)
	c.HTML(http.StatusOK, "index.html", newPage(svc, present.Form{Mode: model.ModeGenre, Limit: limit}))
}

// HandleSearchPage runs a search submitted through the HTML form (GET or POST)
func HandleSearchPage(c *gin.Context) {
	svc, p, limit := currentSearch()

	modeValue := c.Request.FormValue("mode")
	textValue := c.Request.FormValue("text")
	limitValue := c.Request.FormValue("limit")
	if c.Request.Method == http.MethodGet && modeValue == "" && textValue == "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	mode, _ := model.ParseMode(modeValue)
	q := model.SearchQuery{Mode: mode, Text: textValue, Limit: limit}
	page := newPage(svc, present.Form{Mode: mode, Text: textValue, Limit: limit})

	if limitValue != "" {
		n, err := strconv.Atoi(strings.TrimSpace(limitValue))
		if err != nil {
			page.Errors = map[string]string{"limit": "must be a whole number"}
			c.HTML(http.StatusUnprocessableEntity, "index.html", page)
			return
		}
		q.Limit = n
		page.Form.Limit = n
	}

	if svc == nil {
		page.Notice = present.MsgSearchUnavailable
		c.HTML(http.StatusServiceUnavailable, "index.html", page)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), SearchTimeout)
	defer cancel()

	results, err := svc.Search(ctx, ensureSession(c), q)
	if err != nil {
		status, _, message := classify(err)
		var verr *search.ValidationError
		if errors.As(err, &verr) {
			page.Errors = verr.Fields
		} else {
			page.Notice = message
		}
		logSearchError(c, err)
		c.HTML(status, "index.html", page)
		return
	}

	view := p.Build(results)
	page.View = &view
	c.HTML(http.StatusOK, "index.html", page)
}

// HandleSearchAPI runs a search submitted as JSON
func HandleSearchAPI(c *gin.Context) {
	svc, p, limit := currentSearch()

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: expected JSON with mode, text and limit",
			"code":  "INVALID_REQUEST",
		})
		return
	}

	if svc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": present.MsgSearchUnavailable,
			"code":  "SERVICE_UNAVAILABLE",
		})
		return
	}

	if req.Limit != nil {
		limit = *req.Limit
	}
	mode, _ := model.ParseMode(req.Mode)
	q := model.SearchQuery{Mode: mode, Text: req.Text, Limit: limit}

	sessionID := ""
	if req.SessionID != nil && *req.SessionID != "" {
		if _, err := uuid.Parse(*req.SessionID); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "Please check the search form.",
				"code":   "VALIDATION_FAILED",
				"fields": map[string]string{"sessionId": "must be a UUID"},
			})
			return
		}
		sessionID = *req.SessionID
	} else {
		sessionID = ensureSession(c)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), SearchTimeout)
	defer cancel()

	results, err := svc.Search(ctx, sessionID, q)
	if err != nil {
		logSearchError(c, err)
		status, code, message := classify(err)
		body := gin.H{"error": message, "code": code}
		var verr *search.ValidationError
		if errors.As(err, &verr) {
			body["fields"] = verr.Fields
		}
		c.JSON(status, body)
		return
	}

	resp := SearchResponseDTO{
		Results:   make([]model.SearchResultResponse, 0, len(results)),
		SessionID: sessionID,
	}
	for i := range results {
		resp.Results = append(resp.Results, results[i].ToResponse(p.CoverURL(results[i].Book)))
	}
	if len(results) == 0 {
		resp.Message = present.MsgNoBooks
	}
	c.JSON(http.StatusOK, resp)
}

// renderRateLimited shows the form with a notice when a page search is refused by the rate limiter
func renderRateLimited(c *gin.Context, message, code string, retryAfter int) {
	svc, _, limit := currentSearch()
	mode, _ := model.ParseMode(c.Request.FormValue("mode"))
	page := newPage(svc, present.Form{Mode: mode, Text: c.Request.FormValue("text"), Limit: limit})
	page.Notice = message
	c.HTML(http.StatusTooManyRequests, "index.html", page)
}

// classify maps a search error to an HTTP status, an error code and a user message
func classify(err error) (int, string, string) {
	switch {
	case search.IsValidation(err):
		return http.StatusUnprocessableEntity, "VALIDATION_FAILED", "Please check the search form."
	case errors.Is(err, search.ErrSuperseded):
		return http.StatusConflict, "SUPERSEDED", "A newer search replaced this one."
	case catalog.IsUnavailable(err) && !errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", present.MsgSearchUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "TIMEOUT", "The search took too long. Please try again."
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", present.MsgSearchUnavailable
	}
}

func logSearchError(c *gin.Context, err error) {
	log := logger.For(c.Request.Context())
	switch {
	case search.IsValidation(err), errors.Is(err, search.ErrSuperseded):
		log.Debugf("[SEARCH] %v", err)
	default:
		log.Warnf("[SEARCH] failed: %v", err)
	}
}

func newPage(svc *search.Service, form present.Form) present.Page {
	maxResults := search.DefaultMaxResults
	if svc != nil {
		maxResults = svc.MaxResults()
	}
	return present.Page{
		Form:       form,
		Modes:      model.Modes,
		Genres:     append([]string{catalog.AnyGenre}, catalog.Genres...),
		MaxResults: maxResults,
	}
}
