package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const AdminTokenHeader = "X-Admin-Token"

func isAdminReq(c *gin.Context, adminToken string) bool {
	if adminToken == "" {
		return false
	}
	header := c.GetHeader(AdminTokenHeader)
	return subtle.ConstantTimeCompare([]byte(header), []byte(adminToken)) == 1
}

// AdminFlag marks the request as admin when the token header matches.
// Routes that merely behave differently for admins (post deletion) use
// this; routes that are admin-only use AdminAuth.
func AdminFlag(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(IS_ADMIN_KEY, isAdminReq(c, adminToken))
	}
}

func IsAdmin(c *gin.Context) bool {
	return c.GetBool(IS_ADMIN_KEY)
}

// AdminAuth rejects requests without a valid admin token. An empty
// configured token disables the admin surface entirely.
func AdminAuth(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isAdminReq(c, adminToken) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "admin token required",
			})
			c.Abort()
		}
	}
}
