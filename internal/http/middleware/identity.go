// Identity middleware.
//
// The service trusts an upstream gateway to authenticate callers and forward
// the verified identity in the X-User-ID header. This middleware is the single
// place that reads the header: it stashes the trimmed value under the "userID"
// context key so the rate limiter, the access logger, and the handlers all see
// the same caller.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderUserID carries the authenticated caller identity.
const HeaderUserID = "X-User-ID"

const userIDKey = "userID"

// Identity copies the caller identity from the X-User-ID header into the Gin
// context. Anonymous requests (no header, or a blank value) leave the key
// unset, so downstream consumers fall back to their anonymous behavior.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := strings.TrimSpace(c.GetHeader(HeaderUserID)); uid != "" {
			c.Set(userIDKey, uid)
		}
		c.Next()
	}
}
