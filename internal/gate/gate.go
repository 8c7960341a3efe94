// Package gate implements admission control for protected views. The decision
// is a pure function of the route's role requirements and the current session,
// evaluated fresh on every request.
package gate

import (
	"github.com/noah-isme/school-portal-api/internal/models"
)

// Decision is the outcome of an admission check.
type Decision int

const (
	// DecisionAllow renders the protected content unchanged.
	DecisionAllow Decision = iota
	// DecisionUnauthenticated redirects to login, preserving the requested path.
	DecisionUnauthenticated
	// DecisionForbidden redirects to the unauthorized view.
	DecisionForbidden
)

// String names the decision for logs.
func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionUnauthenticated:
		return "unauthenticated"
	case DecisionForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Decide evaluates admission for a route. Required-role semantics:
//
//	nil:       public route, any visitor
//	empty:     any authenticated role
//	otherwise: session role must be in the set
//
// A session without a token is treated the same as no session.
func Decide(required []models.Role, session *models.Session) Decision {
	if required == nil {
		return DecisionAllow
	}
	if !session.Authenticated() {
		return DecisionUnauthenticated
	}
	if len(required) == 0 {
		return DecisionAllow
	}
	for _, role := range required {
		if session.Role == role {
			return DecisionAllow
		}
	}
	return DecisionForbidden
}
