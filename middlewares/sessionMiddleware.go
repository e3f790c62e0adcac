package middlewares

import (
	"net/http"
	"strings"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/gin-gonic/gin"
)

// SessionMiddleware resolves the caller's identity. Interactive sessions send
// a "token" header backed by Redis (written by the auth service at login);
// internal callers (export workers, webhook responders) send a Bearer JWT
// minted by cmd/service-token. Requests without either pass through
// anonymous; endpoint handlers decide what they require.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := c.Request.Header.Get("token"); token != "" {
			username, exists, err := config.GetRedisValue("Token:" + token)
			if err != nil || !exists {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				c.Abort()
				return
			}

			ctx := utils.SetTokenInContext(c.Request.Context(), token)
			ctx = utils.SetUsernameInContext(ctx, username)
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}

		if auth := c.Request.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			raw := strings.TrimPrefix(auth, "Bearer ")
			validated, err := utils.JwtValidate(raw)
			if err != nil || !validated.Valid {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				c.Abort()
				return
			}

			claim, _ := validated.Claims.(*utils.ServiceClaim)
			ctx := utils.SetServiceNameInContext(c.Request.Context(), claim.Service)
			if claim.BusinessId != "" {
				ctx = utils.SetBusinessIdInContext(ctx, claim.BusinessId)
			}
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}
