package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openwall/openwall-be/db"
	"github.com/openwall/openwall-be/util"
)

const (
	IDENTITY_KEY = "identity"
	IS_ADMIN_KEY = "isAdmin"
)

// Identity derives the caller's fingerprint from connection metadata and
// stashes it in the request context. There is no error path: requests with
// no usable metadata resolve to the fixed unknown fingerprint.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(IDENTITY_KEY, util.Fingerprint(c.ClientIP(), c.Request.UserAgent()))
	}
}

func MustGetIdentity(c *gin.Context) string {
	identity, _ := c.Get(IDENTITY_KEY)
	return identity.(string)
}

// BanGate rejects mutating requests from banned identities before they
// reach the core. The core re-checks inside its critical section; this is
// the cheap outer gate.
func BanGate(database db.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := MustGetIdentity(c)
		banned := false
		if err := database.View(c, func(s *db.Snapshot) error {
			banned = s.IsBanned(identity)
			return nil
		}); err != nil {
			util.HandleHTTPErrorRes(c, util.BuildDbHTTPErr(err))
			c.Abort()
			return
		}
		if banned {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "identity is banned",
			})
			c.Abort()
		}
	}
}
