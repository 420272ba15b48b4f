package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"virtual-bookclub/backend/internal/catalog"
	"virtual-bookclub/backend/internal/model"
	"virtual-bookclub/backend/internal/search"
)

// HandleGenres returns the form options: genres, search modes and result bounds
func HandleGenres(c *gin.Context) {
	svc, _, limit := currentSearch()
	maxResults := search.DefaultMaxResults
	if svc != nil {
		maxResults = svc.MaxResults()
	}

	c.JSON(http.StatusOK, gin.H{
		"genres":         append([]string{catalog.AnyGenre}, catalog.Genres...),
		"modes":          model.Modes,
		"defaultResults": limit,
		"maxResults":     maxResults,
	})
}
