// Package router owns the role-to-route mapping: canonical landing paths,
// sidebar active-state matching, and the static, validated route table.
package router

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/gate"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

// Canonical paths for each role's area.
const (
	PublicLandingPath    = "/"
	LoginPath            = "/login"
	UnauthorizedPath     = "/unauthorized"
	AdminDashboardPath   = "/admin-dashboard"
	TeacherDashboardPath = "/teacher-dashboard"
	StudentDashboardPath = "/student-dashboard"
	ParentDashboardPath  = "/parent-dashboard"
)

// LandingPath returns the canonical post-login path for a role. Unknown or
// missing roles land on the public page.
func LandingPath(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return AdminDashboardPath
	case models.RoleTeacher:
		return TeacherDashboardPath
	case models.RoleStudent:
		return StudentDashboardPath
	case models.RoleParent:
		return ParentDashboardPath
	default:
		return PublicLandingPath
	}
}

// IsActive reports whether a nav target should highlight for the current path.
// It matches exactly, or on a path-segment prefix: "/students/42" activates
// "/students" but "/students-archive" does not. The public landing path only
// ever matches exactly.
func IsActive(currentPath, navTargetPath string) bool {
	current := normalize(currentPath)
	target := normalize(navTargetPath)

	if current == target {
		return true
	}
	if target == PublicLandingPath {
		return false
	}
	return strings.HasPrefix(current, target) && current[len(target)] == '/'
}

func normalize(p string) string {
	if p == "" {
		return PublicLandingPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

// Route declares one portal endpoint and its admission requirements. Roles nil
// means public; empty non-nil means any authenticated role.
type Route struct {
	Method  string
	Path    string
	Roles   []models.Role
	Handler gin.HandlerFunc
}

// Table is the static route permission set, assembled once at startup.
type Table struct {
	routes []Route
}

// NewTable validates and builds the route table. A path registered twice for
// the same method is a configuration error, not a silent override.
func NewTable(routes ...Route) (*Table, error) {
	seen := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		key := route.Method + " " + route.Path
		if _, dup := seen[key]; dup {
			return nil, appErrors.Clone(appErrors.ErrRouteConflict, "duplicate route registration: "+key)
		}
		seen[key] = struct{}{}
	}
	table := &Table{routes: routes}
	if err := table.validateLandings(); err != nil {
		return nil, err
	}
	return table, nil
}

// validateLandings checks that every role's landing path is present and
// admissible for a session of that role.
func (t *Table) validateLandings() error {
	for _, role := range models.Roles() {
		landing := LandingPath(role)
		route, ok := t.find(landing)
		if !ok {
			return appErrors.Clone(appErrors.ErrRouteConflict, "landing path not registered: "+landing)
		}
		probe := &models.Session{Token: "probe", Role: role}
		if gate.Decide(route.Roles, probe) != gate.DecisionAllow {
			return appErrors.Clone(appErrors.ErrRouteConflict, "landing path unreachable for role "+string(role)+": "+landing)
		}
	}
	return nil
}

func (t *Table) find(path string) (Route, bool) {
	for _, route := range t.routes {
		if route.Path == path {
			return route, true
		}
	}
	return Route{}, false
}

// Routes returns the declared routes.
func (t *Table) Routes() []Route {
	return t.routes
}

// GuardFunc builds the admission middleware for a protected route.
type GuardFunc func(roles []models.Role) gin.HandlerFunc

// Mount registers every route on the engine, wrapping protected ones with the
// guard. Public routes (nil roles) are registered bare.
func (t *Table) Mount(r gin.IRouter, guard GuardFunc) {
	for _, route := range t.routes {
		if route.Roles == nil {
			r.Handle(route.Method, route.Path, route.Handler)
			continue
		}
		r.Handle(route.Method, route.Path, guard(route.Roles), route.Handler)
	}
}
