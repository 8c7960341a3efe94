package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/router"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

// NavigationHandler serves the role sidebar with active-state highlighting.
type NavigationHandler struct{}

// NewNavigationHandler constructs the handler.
func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

// Links godoc
// @Summary Sidebar links
// @Description Role navigation with the entry matching the current path marked active
// @Tags Navigation
// @Produce json
// @Param current query string false "Current path"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /navigation [get]
func (h *NavigationHandler) Links(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	current := c.Query("current")
	if current == "" {
		current = router.LandingPath(sess.Role)
	}

	response.JSON(c, http.StatusOK, gin.H{
		"landingPath": router.LandingPath(sess.Role),
		"links":       router.NavLinks(sess.Role, current),
	}, nil)
}
