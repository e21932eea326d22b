// Package guard holds the route authorization table shared by the API and
// the browser client: given a session and the roles a view requires, it
// decides between rendering and redirecting. Keeping it as one pure function
// stops the middleware and the SPA from drifting apart.
package guard

// Client-side route targets.
const (
	RouteLogin      = "/login"
	RouteManagement = "/management"
	RouteDashboard  = "/dashboard"
)

// Session is the authentication state a decision is made against.
type Session struct {
	Authenticated bool
	Role          string
}

// Decision is the outcome of evaluating a guarded route.
type Decision struct {
	Allowed    bool
	RedirectTo string // empty when Allowed
}

// DefaultRoute returns the landing view for a role.
func DefaultRoute(role string) string {
	if role == "superadmin" {
		return RouteDashboard
	}
	return RouteManagement
}

// Evaluate gates a view requiring one of the given roles. An unauthenticated
// session is sent to login; an authenticated session with the wrong role is
// sent to its own default view. Must be re-run on every navigation and on
// every session change.
func Evaluate(s Session, requiredRoles ...string) Decision {
	if !s.Authenticated {
		return Decision{RedirectTo: RouteLogin}
	}
	for _, role := range requiredRoles {
		if s.Role == role {
			return Decision{Allowed: true}
		}
	}
	return Decision{RedirectTo: DefaultRoute(s.Role)}
}
