// Package guard gates navigation to role-restricted screens. The required
// role is always supplied explicitly by the route definition; it is never
// inferred from the requested path. Admin access rides the same signed
// session as the other roles, via the role claim.
package guard

import (
	"careernest/internal/domain/user"
	"careernest/internal/session"
)

type Paths struct {
	StudentSignIn   string
	RecruiterSignIn string
	AdminSignIn     string
	StudentHome     string
	RecruiterHome   string
	AdminHome       string
}

func DefaultPaths() Paths {
	return Paths{
		StudentSignIn:   "/login/student",
		RecruiterSignIn: "/login/recruiter",
		AdminSignIn:     "/login/admin",
		StudentHome:     "/student",
		RecruiterHome:   "/recruiter",
		AdminHome:       "/admin",
	}
}

type Decision struct {
	Allow      bool
	RedirectTo string
}

type Guard struct {
	validator *session.Validator
	paths     Paths
}

func New(validator *session.Validator, paths Paths) *Guard {
	return &Guard{validator: validator, paths: paths}
}

// Authorize decides whether the session may enter a screen that requires the
// given role. An empty required role means the screen is public.
func (g *Guard) Authorize(required user.Role, sess *session.Session) Decision {
	if required == "" {
		return Decision{Allow: true}
	}
	if sess == nil || sess.Token == "" {
		return Decision{RedirectTo: g.signIn(required)}
	}
	if result := g.validator.Validate(sess.Token); !result.Valid {
		return Decision{RedirectTo: g.signIn(required)}
	}
	if sess.User.Role != required {
		return Decision{RedirectTo: g.home(sess.User.Role)}
	}
	return Decision{Allow: true}
}

func (g *Guard) signIn(role user.Role) string {
	switch role {
	case user.RoleStudent:
		return g.paths.StudentSignIn
	case user.RoleAdmin:
		return g.paths.AdminSignIn
	default:
		return g.paths.RecruiterSignIn
	}
}

func (g *Guard) home(role user.Role) string {
	switch role {
	case user.RoleStudent:
		return g.paths.StudentHome
	case user.RoleAdmin:
		return g.paths.AdminHome
	default:
		return g.paths.RecruiterHome
	}
}
