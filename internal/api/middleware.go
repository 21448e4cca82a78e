package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dailyquest/internal/identity"
)

const (
	ctxIdentity = "identity"
	ctxUserID   = "userID"
)

// AuthMiddleware requires a bearer token and stores the caller's identity on
// the context. The first request of a user registers their profile.
func (s *Server) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if _, static := s.verifier.(identity.Static); !static {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
				c.Abort()
				return
			}
		}

		token := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
				c.Abort()
				return
			}
			token = parts[1]
		}

		id, err := s.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		if _, seen := s.known.Load(id.UserID); !seen {
			if err := s.svc.RegisterProfile(c.Request.Context(), id.Profile()); err != nil {
				s.log.Printf("[WARN] register profile %s: %v", id.UserID, err)
			} else {
				s.known.Store(id.UserID, struct{}{})
			}
		}

		c.Set(ctxIdentity, id)
		c.Set(ctxUserID, id.UserID)
		c.Next()
	}
}
