package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/gate"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/router"
	"github.com/noah-isme/school-portal-api/internal/service"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

// Guard builds the admission middleware factory handed to the route table.
// An unauthenticated request is pointed at the login view with the requested
// path preserved for the post-login redirect; a role mismatch is pointed at
// the unauthorized view.
func Guard(metrics *service.MetricsService) router.GuardFunc {
	return func(roles []models.Role) gin.HandlerFunc {
		return func(c *gin.Context) {
			sess := SessionFromContext(c)
			decision := gate.Decide(roles, sess)
			metrics.ObserveGateDecision(decision.String())

			switch decision {
			case gate.DecisionAllow:
				c.Next()
			case gate.DecisionUnauthenticated:
				response.ErrorWithMeta(c, appErrors.ErrUnauthenticated, map[string]interface{}{
					"redirect": router.LoginPath,
					"returnTo": c.Request.URL.Path,
				})
				c.Abort()
			default:
				response.ErrorWithMeta(c, appErrors.ErrForbidden, map[string]interface{}{
					"redirect": router.UnauthorizedPath,
				})
				c.Abort()
			}
		}
	}
}
