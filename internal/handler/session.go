package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookie identifies a browser session across searches
	SessionCookie = "bookclub_sid"

	sessionMaxAge = 24 * 60 * 60
)

// ensureSession returns the session id from the cookie, issuing a new one when missing
func ensureSession(c *gin.Context) string {
	if id, err := c.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}

	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, sessionMaxAge, "/", "", c.Request.TLS != nil, true)
	return id
}
