package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders returns a middleware that adds security headers.
// imgSources are extra origins allowed for images (book covers).
func SecurityHeaders(imgSources ...string) gin.HandlerFunc {
	img := strings.TrimSpace("'self' " + strings.Join(imgSources, " "))
	csp := strings.Join([]string{
		"default-src 'self'",
		"img-src " + img,
		"style-src 'self' 'unsafe-inline'",
		"form-action 'self'",
		"frame-ancestors 'none'",
		"base-uri 'self'",
	}, "; ")

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", csp)
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		// Cloud Run terminates TLS in front of the container
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
